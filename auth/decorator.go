// SPDX-FileCopyrightText: 2025 Comcast Cable Communications Management, LLC
// SPDX-License-Identifier: Apache-2.0

package auth

import (
	"context"
	"net/http"
)

// Decorator decorates outgoing license request headers with identity or
// authorization header(s).
type Decorator interface {
	// Decorate adds header(s) to the given request headers.
	Decorate(ctx context.Context, h http.Header) error
}

type DecoratorFunc func(context.Context, http.Header) error

func (f DecoratorFunc) Decorate(ctx context.Context, h http.Header) error { return f(ctx, h) }

var Nop = DecoratorFunc(func(context.Context, http.Header) error { return nil })

// Acquirer fetches the current value of an auth token.
type Acquirer interface {
	Acquire() (string, error)
}
