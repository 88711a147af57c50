// SPDX-FileCopyrightText: 2025 Comcast Cable Communications Management, LLC
// SPDX-License-Identifier: Apache-2.0

package drmlicense

import (
	"net/http"
	"time"

	"github.com/xmidt-org/drmlicense/acquire"
	"github.com/xmidt-org/drmlicense/scheme"
)

// Config contains the settings of a Client that can be loaded from a file.
type Config struct {
	// DefaultURL is the license server used when a key request has none.
	DefaultURL string `json:"defaultURL" yaml:"defaultURL"`

	// ForceDefaultURL ignores the license server URL of key requests.
	ForceDefaultURL bool `json:"forceDefaultURL" yaml:"forceDefaultURL"`

	// ContentTypes overrides the Content-Type per scheme name or system ID.
	ContentTypes map[string]string `json:"contentTypes" yaml:"contentTypes"`

	// Headers are custom key request headers set at construction.
	Headers map[string]string `json:"headers" yaml:"headers"`

	// Raw disables the {"license":"<base64>"} envelope.
	Raw bool `json:"raw" yaml:"raw"`

	// MaxManualRedirects bounds the redirects followed per key request.
	// (Optional). Defaults to 5.
	MaxManualRedirects int `json:"maxManualRedirects" yaml:"maxManualRedirects"`

	// Timeout bounds a single HTTP exchange.
	// (Optional). Defaults to 30s.
	Timeout time.Duration `json:"timeout" yaml:"timeout"`

	// Token fetches the x-dt-auth-token value remotely. (Optional).
	Token *acquire.RemoteConfig `json:"token" yaml:"token"`

	// DRMToday switches the client to the DRMtoday flavour, which takes
	// precedence over DefaultURL and ForceDefaultURL. (Optional).
	DRMToday *DRMTodayConfig `json:"drmtoday" yaml:"drmtoday"`
}

// Options returns the client options described by cfg.
func (cfg Config) Options() (Options, error) {
	var opts Options

	if cfg.DRMToday != nil {
		drm, err := cfg.DRMToday.Options()
		if err != nil {
			return nil, err
		}

		opts = append(opts, drm...)
	} else {
		opts = append(opts, DefaultURL(cfg.DefaultURL), ForceDefaultURL(cfg.ForceDefaultURL))
	}

	if len(cfg.ContentTypes) > 0 {
		types := make(map[scheme.Scheme]string, len(cfg.ContentTypes))
		for name, ct := range cfg.ContentTypes {
			s, err := scheme.Parse(name)
			if err != nil {
				return nil, err
			}

			types[s] = ct
		}

		opts = append(opts, ContentTypes(types))
	}

	if len(cfg.Headers) > 0 {
		opts = append(opts, InitialHeaders(cfg.Headers))
	}

	if cfg.Raw {
		opts = append(opts, Raw())
	}

	if cfg.MaxManualRedirects > 0 {
		opts = append(opts, MaxManualRedirects(cfg.MaxManualRedirects))
	}

	if cfg.Timeout > 0 {
		opts = append(opts, HTTPClient(&http.Client{Timeout: cfg.Timeout}))
	}

	if cfg.Token != nil {
		a, err := acquire.NewRemote(*cfg.Token)
		if err != nil {
			return nil, err
		}

		opts = append(opts, AuthToken(a))
	}

	return opts, nil
}

// NewClientFromConfig creates a Client from cfg followed by opts.
func NewClientFromConfig(cfg Config, opts ...Option) (*Client, error) {
	base, err := cfg.Options()
	if err != nil {
		return nil, configurationError(opNew, err)
	}

	return NewClient(append(base, opts...)...)
}
