// SPDX-FileCopyrightText: 2025 Comcast Cable Communications Management, LLC
// SPDX-License-Identifier: Apache-2.0

package drmlicense

import (
	"context"
	"errors"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/xmidt-org/drmlicense/header"
	"github.com/xmidt-org/drmlicense/transport"
	"github.com/xmidt-org/touchstone"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

var (
	ErrMisconfiguredClient = errors.New("drm license client configuration error")
)

type ClientIn struct {
	fx.In

	// Config is the user provided client configuration.
	Config Config `optional:"true"`

	// HTTPClient is used for every license server exchange.
	HTTPClient *http.Client `optional:"true"`

	// GetLogger returns a logger from the given context.
	GetLogger func(context.Context) *zap.Logger `optional:"true"`

	// Headers is a shared custom key request header store.
	Headers *header.Store `optional:"true"`

	// RequestsTotal measures the number of key and provisioning requests (and their outcomes).
	RequestsTotal *prometheus.CounterVec `name:"drm_license_requests_total"`

	// ManualRedirectsTotal measures the number of followed 307/308 redirects.
	ManualRedirectsTotal prometheus.Counter `name:"drm_license_manual_redirects_total"`

	// Options are applied after Config.
	Options Options `group:"drmlicense_options"`
}

// ProvideClient provides a new Client.
func ProvideClient(in ClientIn) (*Client, error) {
	cfgOpts, err := in.Config.Options()
	if err != nil {
		return nil, errors.Join(err, ErrMisconfiguredClient)
	}

	var opts Options
	if in.Headers != nil {
		opts = append(opts, Headers(in.Headers))
	}
	opts = append(opts, cfgOpts...)
	opts = append(opts,
		GetLogger(in.GetLogger),
		RequestsTotal(in.RequestsTotal),
		ManualRedirectsTotal(in.ManualRedirectsTotal),
	)
	if in.HTTPClient != nil {
		opts = append(opts, HTTPClient(in.HTTPClient))
	}
	opts = append(opts, in.Options...)

	client, err := NewClient(opts...)
	if err != nil {
		return nil, errors.Join(err, ErrMisconfiguredClient)
	}

	return client, nil
}

// ProvideCallback exposes the Client as a Callback.
func ProvideCallback(c *Client) Callback {
	return c
}

func ProvideMetrics() fx.Option {
	return fx.Options(
		touchstone.CounterVec(
			prometheus.CounterOpts{
				Name: RequestsTotalCounterName,
				Help: RequestsTotalCounterHelp,
			},
			TypeLabel,
			OutcomeLabel,
		),
		touchstone.Counter(
			prometheus.CounterOpts{
				Name: transport.ManualRedirectsCounterName,
				Help: transport.ManualRedirectsCounterHelp,
			}),
	)
}
