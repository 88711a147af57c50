// SPDX-FileCopyrightText: 2025 Comcast Cable Communications Management, LLC
// SPDX-License-Identifier: Apache-2.0

package proxy

import (
	"context"

	"github.com/go-kit/kit/endpoint"
	"github.com/xmidt-org/drmlicense"
)

func newKeyEndpoint(cb drmlicense.Callback) endpoint.Endpoint {
	return func(ctx context.Context, request interface{}) (interface{}, error) {
		r := request.(*keyRequest)
		return cb.ExecuteKeyRequest(ctx, r.scheme, r.request)
	}
}

func newProvisionEndpoint(cb drmlicense.Callback) endpoint.Endpoint {
	return func(ctx context.Context, request interface{}) (interface{}, error) {
		r := request.(*provisionRequest)
		return cb.ExecuteProvisionRequest(ctx, r.scheme, r.request)
	}
}
