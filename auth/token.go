// SPDX-FileCopyrightText: 2025 Comcast Cable Communications Management, LLC
// SPDX-License-Identifier: Apache-2.0

package auth

import (
	"context"
	"errors"
	"net/http"
)

// TokenHeader is the header carrying the license server auth token.
const TokenHeader = "x-dt-auth-token"

var (
	ErrNilAcquirer       = errors.New("nil token acquirer")
	ErrAcquireFailure    = errors.New("failed acquiring auth token")
	ErrEmptyAcquiredAuth = errors.New("acquired auth token is empty")
)

// TokenDecorator sets the value returned by a on the named header, which
// defaults to TokenHeader.
func TokenDecorator(name string, a Acquirer) (Decorator, error) {
	if a == nil {
		return nil, ErrNilAcquirer
	}
	if name == "" {
		name = TokenHeader
	}

	return DecoratorFunc(func(_ context.Context, h http.Header) error {
		token, err := a.Acquire()
		if err != nil {
			return errors.Join(ErrAcquireFailure, err)
		}
		if token == "" {
			return ErrEmptyAcquiredAuth
		}

		h.Set(name, token)
		return nil
	}), nil
}
