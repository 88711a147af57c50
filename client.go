// SPDX-FileCopyrightText: 2025 Comcast Cable Communications Management, LLC
// SPDX-License-Identifier: Apache-2.0

package drmlicense

import (
	"context"
	"errors"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/xmidt-org/drmlicense/auth"
	"github.com/xmidt-org/drmlicense/decode"
	"github.com/xmidt-org/drmlicense/header"
	"github.com/xmidt-org/drmlicense/requestid"
	"github.com/xmidt-org/drmlicense/scheme"
	"github.com/xmidt-org/drmlicense/transport"
	"go.uber.org/zap"
)

var _ Callback = &Client{}

// Client executes key and provisioning requests against HTTP license
// servers. It is safe for concurrent use; the only shared state is its
// header store.
type Client struct {
	defaultURL   string
	forceDefault bool

	queryParams bool
	assetID     string
	variantID   string

	conventions scheme.Conventions
	headers     *header.Store
	decorators  []auth.Decorator
	decoder     decode.Decoder

	httpClient   *http.Client
	transport    transport.Poster
	maxRedirects int

	keyPoster       transport.Poster
	provisionPoster transport.Poster

	getLogger      func(context.Context) *zap.Logger
	requestsTotal  *prometheus.CounterVec
	redirectsTotal prometheus.Counter
}

var (
	defaultOptions = Options{
		Conventions(nil),
		Headers(nil),
		Decoder(nil),
		GetLogger(nil),
	}
)

// NewClient creates a new Client. Construction failures are *Error values
// of KindConfiguration.
func NewClient(opts ...Option) (*Client, error) {
	var c Client

	opts = append(defaultOptions, Options(opts))
	opts = append(opts, validator())

	if err := Options(opts).apply(&c); err != nil {
		return nil, configurationError(opNew, err)
	}

	return &c, nil
}

// ExecuteKeyRequest posts req.Data to the selected license server, following
// 307/308 redirects, and returns the unwrapped license.
func (c *Client) ExecuteKeyRequest(ctx context.Context, s scheme.Scheme, req KeyRequest) ([]byte, error) {
	id := requestid.New()
	ctx = requestid.WithID(ctx, id)
	logger := c.getLogger(ctx).With(zap.String(requestid.Key, id), zap.Stringer("scheme", s))

	target, h, err := c.buildKeyRequest(ctx, s, req, id)
	if err != nil {
		return nil, c.fail(logger, opKey, err)
	}

	logger.Info("Executing license key request", zap.String("url", target))

	body, err := c.keyPoster.Post(ctx, target, req.Data, h)
	if err != nil {
		return nil, c.fail(logger, opKey, err)
	}

	license, err := c.decoder.Decode(body)
	if err != nil {
		return nil, c.fail(logger, opKey, err)
	}

	c.measure(opKey, SuccessOutcome)
	return license, nil
}

// ExecuteProvisionRequest sends req.Data as the signedRequest query parameter
// of req.DefaultURL with an empty body, and returns the response unmodified.
// Redirects are not followed.
func (c *Client) ExecuteProvisionRequest(ctx context.Context, s scheme.Scheme, req ProvisionRequest) ([]byte, error) {
	logger := c.getLogger(ctx).With(zap.Stringer("scheme", s))

	target, err := provisionURL(req.DefaultURL, req.Data)
	if err != nil {
		return nil, c.fail(logger, opProvision, configurationError(opProvision, err))
	}

	logger.Info("Executing provisioning request", zap.String("url", req.DefaultURL))

	body, err := c.provisionPoster.Post(ctx, target, nil, nil)
	if err != nil {
		return nil, c.fail(logger, opProvision, err)
	}

	c.measure(opProvision, SuccessOutcome)
	return body, nil
}

// Headers returns the custom key request header store.
func (c *Client) Headers() *header.Store {
	return c.headers
}

// SetKeyRequestProperty sets a header sent with every key request.
func (c *Client) SetKeyRequestProperty(name, value string) error {
	return c.headers.Set(name, value)
}

// ClearKeyRequestProperty removes a header set by SetKeyRequestProperty.
func (c *Client) ClearKeyRequestProperty(name string) error {
	return c.headers.Clear(name)
}

// ClearAllKeyRequestProperties removes every custom key request header.
func (c *Client) ClearAllKeyRequestProperties() {
	c.headers.ClearAll()
}

func (c *Client) fail(logger *zap.Logger, op string, err error) error {
	e := classify(op, err)

	fields := []zap.Field{zap.String("kind", e.Kind.String()), zap.Error(err)}
	var de *decode.Error
	if errors.As(err, &de) {
		fields = append(fields, zap.ByteString("response", de.Body))
	}
	var se *transport.StatusError
	if errors.As(err, &se) {
		fields = append(fields, zap.Int("code", se.Code))
	}

	logger.Error("License server request failed", fields...)
	c.measure(op, e.Kind.String())

	return e
}

func (c *Client) measure(op, outcome string) {
	if c.requestsTotal == nil {
		return
	}

	c.requestsTotal.With(prometheus.Labels{TypeLabel: op, OutcomeLabel: outcome}).Inc()
}
