// SPDX-FileCopyrightText: 2025 Comcast Cable Communications Management, LLC
// SPDX-License-Identifier: Apache-2.0

package drmlicense

import (
	"context"
	"errors"
	"net/http"
	"net/url"
	"strings"

	"github.com/xmidt-org/drmlicense/requestid"
	"github.com/xmidt-org/drmlicense/scheme"
)

// Query parameter names.
const (
	AssetIDParam       = "assetId"
	VariantIDParam     = "variantId"
	SignedRequestParam = "signedRequest"
)

var (
	errNoEndpoint           = errors.New("no license server URL in the request or configuration")
	errNoProvisionURL       = errors.New("provision request has no default URL")
	errInvalidEndpoint      = errors.New("invalid license server URL")
	errAuthDecoratorFailure = errors.New("failed decorating key request")
)

// selectEndpoint returns the key request target and whether it is the
// configured default.
func (c *Client) selectEndpoint(requested string) (string, bool, error) {
	if requested != "" && !c.forceDefault {
		return requested, false, nil
	}
	if c.defaultURL == "" {
		return "", false, errNoEndpoint
	}

	return c.defaultURL, true, nil
}

// buildKeyRequest resolves the target URL and headers of one key request.
// Later header sources override earlier ones: scheme conventions, then
// decorators, then the custom header store. The correlation token goes last.
func (c *Client) buildKeyRequest(ctx context.Context, s scheme.Scheme, req KeyRequest, id string) (string, http.Header, error) {
	target, fromDefault, err := c.selectEndpoint(req.LicenseServerURL)
	if err != nil {
		return "", nil, configurationError(opKey, err)
	}

	inQuery := fromDefault && c.queryParams
	if inQuery {
		target, err = c.appendQueryParams(target, id)
		if err != nil {
			return "", nil, configurationError(opKey, errors.Join(errInvalidEndpoint, err))
		}
	}

	h := make(http.Header)
	c.conventions.Apply(s, h)

	for _, d := range c.decorators {
		if err := d.Decorate(ctx, h); err != nil {
			return "", nil, &Error{Kind: KindTransport, Op: opKey, Err: errors.Join(errAuthDecoratorFailure, err)}
		}
	}

	for name, value := range c.headers.Snapshot() {
		h.Set(name, value)
	}

	if !inQuery {
		h.Set(requestid.Key, id)
	}

	return target, h, nil
}

func (c *Client) appendQueryParams(base, id string) (string, error) {
	u, err := url.Parse(base)
	if err != nil {
		return "", err
	}

	q := u.Query()
	q.Add(requestid.Key, id)
	if c.assetID != "" {
		q.Add(AssetIDParam, c.assetID)
	}
	if c.variantID != "" {
		q.Add(VariantIDParam, c.variantID)
	}
	u.RawQuery = q.Encode()

	return u.String(), nil
}

// provisionURL appends the payload to base as the signedRequest parameter.
func provisionURL(base string, data []byte) (string, error) {
	if base == "" {
		return "", errNoProvisionURL
	}

	sep := "?"
	if strings.Contains(base, "?") {
		sep = "&"
	}

	return base + sep + SignedRequestParam + "=" + url.QueryEscape(string(data)), nil
}
