// SPDX-FileCopyrightText: 2025 Comcast Cable Communications Management, LLC
// SPDX-License-Identifier: Apache-2.0
package drmlicensefx

import (
	"github.com/xmidt-org/drmlicense"
	"go.uber.org/fx"
)

const Module = "drmlicense"

func Provide() fx.Option {
	return fx.Module(
		Module,
		drmlicense.ProvideMetrics(),
		fx.Provide(
			drmlicense.ProvideClient,
			drmlicense.ProvideCallback,
		),
	)
}
