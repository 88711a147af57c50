// SPDX-FileCopyrightText: 2025 Comcast Cable Communications Management, LLC
// SPDX-License-Identifier: Apache-2.0

package transport

import (
	"context"
	"errors"
	"net/http"
	"time"

	"go.uber.org/zap"
)

// DefaultTimeout bounds a single exchange when no HTTP client is given.
const DefaultTimeout = 30 * time.Second

var (
	ErrMisconfiguredClient = errors.New("license transport configuration error")
)

// ClientOption is a functional option type for BasicClient.
type ClientOption interface {
	apply(*BasicClient) error
}

type ClientOptions []ClientOption

func (opts ClientOptions) apply(c *BasicClient) (errs error) {
	for _, o := range opts {
		errs = errors.Join(errs, o.apply(c))
	}

	return errs
}

type clientOptionFunc func(*BasicClient) error

func (f clientOptionFunc) apply(c *BasicClient) error {
	return f(c)
}

// HTTPClient sets the HTTP client. The client is copied and its redirect
// policy replaced so that redirect responses are returned to the caller.
// (Optional) Defaults to a client with DefaultTimeout.
func HTTPClient(client *http.Client) ClientOption {
	return clientOptionFunc(
		func(c *BasicClient) error {
			hc := &http.Client{Timeout: DefaultTimeout}
			if client != nil {
				copied := *client
				hc = &copied
			}

			hc.CheckRedirect = func(*http.Request, []*http.Request) error {
				return http.ErrUseLastResponse
			}
			c.client = hc

			return nil
		})
}

// GetClientLogger sets the getlogger, a func that returns a logger from the given context.
func GetClientLogger(get func(context.Context) *zap.Logger) ClientOption {
	return clientOptionFunc(
		func(c *BasicClient) error {
			c.getLogger = func(context.Context) *zap.Logger { return zap.NewNop() }
			if get != nil {
				c.getLogger = get
			}

			return nil
		})
}

func clientValidator() ClientOption {
	return clientOptionFunc(
		func(c *BasicClient) (errs error) {
			if c.client == nil {
				errs = errors.Join(errs, errors.New("nil HTTP client"))
			}
			if c.getLogger == nil {
				errs = errors.Join(errs, errors.New("nil logger getter"))
			}
			if errs != nil {
				errs = errors.Join(ErrMisconfiguredClient, errs)
			}

			return
		})
}
