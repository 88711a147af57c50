// SPDX-FileCopyrightText: 2025 Comcast Cable Communications Management, LLC
// SPDX-License-Identifier: Apache-2.0

package drmlicense

import (
	"errors"

	"github.com/xmidt-org/drmlicense/acquire"
	"github.com/xmidt-org/drmlicense/auth"
	"github.com/xmidt-org/drmlicense/scheme"
	"go.uber.org/multierr"
)

// DRMtoday Widevine license proxy endpoints.
const (
	DRMTodayProduction = "https://lic.drmtoday.com/license-proxy-widevine/cenc/"
	DRMTodayStaging    = "https://lic.staging.drmtoday.com/license-proxy-widevine/cenc/"
	DRMTodayTest       = "https://lic.test.drmtoday.com/license-proxy-widevine/cenc/"
)

var ErrDRMTodayURLEmpty = errors.New("DRMtoday URL is required")

// DRMTodayConfig identifies a DRMtoday merchant, user and session.
type DRMTodayConfig struct {
	// URL is the license proxy, usually one of the DRMToday constants.
	URL string `json:"url" yaml:"url"`

	Merchant  string `json:"merchant" yaml:"merchant"`
	UserID    string `json:"userId" yaml:"userId"`
	SessionID string `json:"sessionId" yaml:"sessionId"`

	// AssetID and VariantID select the keys of one asset. (Optional).
	AssetID   string `json:"assetId" yaml:"assetId"`
	VariantID string `json:"variantId" yaml:"variantId"`

	// AuthToken is sent as x-dt-auth-token. (Optional).
	AuthToken string `json:"authToken" yaml:"authToken"`
}

// Validate reports every missing mandatory field.
func (cfg DRMTodayConfig) Validate() error {
	var err error
	if cfg.URL == "" {
		err = multierr.Append(err, ErrDRMTodayURLEmpty)
	}
	if cfg.Merchant == "" {
		err = multierr.Append(err, auth.ErrMerchantEmpty)
	}
	if cfg.UserID == "" {
		err = multierr.Append(err, auth.ErrUserIDEmpty)
	}
	if cfg.SessionID == "" {
		err = multierr.Append(err, auth.ErrSessionIDEmpty)
	}

	return err
}

func (cfg DRMTodayConfig) customData() auth.CustomData {
	return auth.CustomData{
		UserID:    cfg.UserID,
		SessionID: cfg.SessionID,
		Merchant:  cfg.Merchant,
	}
}

// Options returns the client options for cfg. Key requests always go to
// cfg.URL with logRequestId, assetId and variantId query parameters. Only
// Widevine and unknown schemes are switched to text/xml; PlayReady keeps its
// SOAPAction header and ClearKey keeps application/json.
func (cfg DRMTodayConfig) Options() (Options, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	opts := Options{
		DefaultURL(cfg.URL),
		ForceDefaultURL(true),
		QueryParams(cfg.AssetID, cfg.VariantID),
		ContentTypes(map[scheme.Scheme]string{
			scheme.Widevine: scheme.ContentTypeXML,
			scheme.Other:    scheme.ContentTypeXML,
		}),
		CustomData(cfg.customData()),
	}

	if cfg.AuthToken != "" {
		a, err := acquire.NewFixed(cfg.AuthToken)
		if err != nil {
			return nil, err
		}

		opts = append(opts, AuthToken(a))
	}

	return opts, nil
}

// NewDRMTodayClient creates a Client for the DRMtoday license proxy. Later
// opts override the DRMtoday defaults.
func NewDRMTodayClient(cfg DRMTodayConfig, opts ...Option) (*Client, error) {
	base, err := cfg.Options()
	if err != nil {
		return nil, configurationError(opNew, err)
	}

	return NewClient(append(base, opts...)...)
}
