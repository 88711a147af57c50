// SPDX-FileCopyrightText: 2025 Comcast Cable Communications Management, LLC
// SPDX-License-Identifier: Apache-2.0

package proxy

import (
	"context"
	"net/http"

	kithttp "github.com/go-kit/kit/transport/http"
	"github.com/xmidt-org/drmlicense"
	"github.com/xmidt-org/sallust"
	"go.uber.org/zap"
)

// LicenseServerURLHeader optionally names the license server of a key request.
const LicenseServerURLHeader = "X-License-Server-URL"

// Routes served by NewHandler.
const (
	KeyRoute       = "POST /license/{scheme}"
	ProvisionRoute = "POST /provision"
)

// HandlerConfig contains configuration for all components that handlers depend on
// from the service to the transport layers.
type HandlerConfig struct {
	// GetLogger returns a logger from the given context.
	// (Optional). Defaults to sallust.Get.
	GetLogger func(context.Context) *zap.Logger

	// MaxRequestSize bounds request payloads.
	// (Optional). Defaults to 1MiB.
	MaxRequestSize int64

	// AllowServerURL honors LicenseServerURLHeader on key requests. When
	// false the header is ignored and the client's default URL is used.
	AllowServerURL bool

	// ProvisionURL is the provisioning server. When set, the default_url
	// query parameter is ignored.
	ProvisionURL string

	// ProvisionHosts lists the hosts (host[:port]) a default_url query
	// parameter may name when ProvisionURL is empty. Any other host is
	// rejected with 403.
	ProvisionHosts []string
}

func (c HandlerConfig) withDefaults() HandlerConfig {
	if c.GetLogger == nil {
		c.GetLogger = sallust.Get
	}
	if c.MaxRequestSize <= 0 {
		c.MaxRequestSize = DefaultMaxRequestSize
	}

	return c
}

// NewKeyHandler returns an HTTP handler posting the request body as a key
// request and answering with the license.
func NewKeyHandler(cb drmlicense.Callback, config HandlerConfig) http.Handler {
	config = config.withDefaults()
	return kithttp.NewServer(
		newKeyEndpoint(cb),
		keyRequestDecoder(config),
		encodeBytesResponse,
		kithttp.ServerErrorEncoder(errorEncoder(config.GetLogger)),
	)
}

// NewProvisionHandler returns an HTTP handler sending the request body as a
// provisioning request to config.ProvisionURL, or to an allowed default_url
// query parameter.
func NewProvisionHandler(cb drmlicense.Callback, config HandlerConfig) http.Handler {
	config = config.withDefaults()
	return kithttp.NewServer(
		newProvisionEndpoint(cb),
		provisionRequestDecoder(config),
		encodeBytesResponse,
		kithttp.ServerErrorEncoder(errorEncoder(config.GetLogger)),
	)
}

// NewHandler serves KeyRoute and ProvisionRoute.
func NewHandler(cb drmlicense.Callback, config HandlerConfig) *http.ServeMux {
	mux := http.NewServeMux()
	mux.Handle(KeyRoute, NewKeyHandler(cb, config))
	mux.Handle(ProvisionRoute, NewProvisionHandler(cb, config))

	return mux
}
