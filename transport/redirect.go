// SPDX-FileCopyrightText: 2025 Comcast Cable Communications Management, LLC
// SPDX-License-Identifier: Apache-2.0

package transport

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"
)

// DefaultMaxManualRedirects is the number of redirects followed for one
// logical request before giving up.
const DefaultMaxManualRedirects = 5

var errMissingLocation = errors.New("redirect response has no Location header")

// IsManualRedirect reports whether code is a redirect that preserves the
// method and body, which HTTP clients do not follow for POST on their own.
func IsManualRedirect(code int) bool {
	return code == http.StatusTemporaryRedirect || code == http.StatusPermanentRedirect
}

// Redirector follows 307 and 308 responses returned by Next, re-posting the
// same body and headers to the new location.
type Redirector struct {
	Next Poster

	// MaxRedirects bounds the followed redirects per request.
	// (Optional). Values <= 0 use DefaultMaxManualRedirects.
	MaxRedirects int

	// Redirects counts followed redirects. (Optional).
	Redirects prometheus.Counter

	// GetLogger returns a logger from the given context. (Optional).
	GetLogger func(context.Context) *zap.Logger
}

// Post implements Poster. Once MaxRedirects redirects have been followed, a
// further redirect response yields ErrRedirectsExhausted wrapping that
// response's error.
func (r *Redirector) Post(ctx context.Context, target string, body []byte, header http.Header) ([]byte, error) {
	limit := r.MaxRedirects
	if limit <= 0 {
		limit = DefaultMaxManualRedirects
	}

	for count := 0; ; count++ {
		resp, err := r.Next.Post(ctx, target, body, header)
		if err == nil {
			return resp, nil
		}

		var se *StatusError
		if !errors.As(err, &se) || !IsManualRedirect(se.Code) {
			return nil, err
		}

		if count >= limit {
			return nil, fmt.Errorf(errWrappedFmt, ErrRedirectsExhausted, err)
		}

		next, locErr := resolveLocation(target, se)
		if locErr != nil {
			r.logger(ctx).Warn("Unable to follow license server redirect",
				zap.String("url", target), zap.Int("code", se.Code), zap.Error(locErr))
			return nil, err
		}

		r.logger(ctx).Debug("Following license server redirect",
			zap.String("from", target), zap.String("to", next), zap.Int("code", se.Code))
		if r.Redirects != nil {
			r.Redirects.Inc()
		}

		target = next
	}
}

func (r *Redirector) logger(ctx context.Context) *zap.Logger {
	if r.GetLogger == nil {
		return zap.NewNop()
	}

	return r.GetLogger(ctx)
}

// resolveLocation resolves the Location of se against the current URL.
func resolveLocation(current string, se *StatusError) (string, error) {
	loc := se.Location()
	if loc == "" {
		return "", errMissingLocation
	}

	ref, err := url.Parse(loc)
	if err != nil {
		return "", err
	}

	base, err := url.Parse(current)
	if err != nil {
		return "", err
	}

	return base.ResolveReference(ref).String(), nil
}
