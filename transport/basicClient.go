// SPDX-FileCopyrightText: 2025 Comcast Cable Communications Management, LLC
// SPDX-License-Identifier: Apache-2.0

package transport

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"

	"go.uber.org/zap"
)

// Errors that can be returned by this package. Since these errors are returned wrapped, it
// is safest to use errors.Is() to check for them.
var (
	ErrNotFound           = errors.New("license not found")
	ErrTransport          = errors.New("error during license acquisition")
	ErrRedirectsExhausted = errors.New("too many manual redirects")
)

var (
	errNewRequestFailure  = errors.New("failed creating an HTTP request")
	errDoRequestFailure   = errors.New("http client failed while sending request")
	errReadingBodyFailure = errors.New("failed while reading http response body")
)

const errWrappedFmt = "%w: %w"

// Poster performs a single logical POST exchange and returns the complete
// response body.
type Poster interface {
	Post(ctx context.Context, url string, body []byte, header http.Header) ([]byte, error)
}

type PosterFunc func(context.Context, string, []byte, http.Header) ([]byte, error)

func (f PosterFunc) Post(ctx context.Context, url string, body []byte, header http.Header) ([]byte, error) {
	return f(ctx, url, body, header)
}

// StatusError describes a non-2xx response.
type StatusError struct {
	Code   int
	Header http.Header
	Body   []byte
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("received status %d", e.Code)
}

// Location returns the first Location header value, if any.
func (e *StatusError) Location() string {
	if e.Header == nil {
		return ""
	}

	return e.Header.Get("Location")
}

// BasicClient posts license and provisioning payloads to a license server.
// It never follows redirects itself; see Redirector.
type BasicClient struct {
	client    *http.Client
	getLogger func(context.Context) *zap.Logger
}

var (
	defaultClientOptions = ClientOptions{
		// Nop defaults
		HTTPClient(nil),
		GetClientLogger(nil),
	}
)

// NewBasicClient creates a new BasicClient.
func NewBasicClient(opts ...ClientOption) (*BasicClient, error) {
	var client BasicClient

	opts = append(defaultClientOptions, ClientOptions(opts))
	opts = append(opts, clientValidator())

	return &client, ClientOptions(opts).apply(&client)
}

// Post sends body to url. A 404 or 410 response yields ErrNotFound, any other
// failure yields ErrTransport. Non-2xx responses also carry a *StatusError.
func (c *BasicClient) Post(ctx context.Context, url string, body []byte, header http.Header) ([]byte, error) {
	r, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf(errWrappedFmt, ErrTransport, errors.Join(errNewRequestFailure, err))
	}

	for name, values := range header {
		for _, v := range values {
			r.Header.Add(name, v)
		}
	}

	resp, err := c.client.Do(r)
	if err != nil {
		return nil, fmt.Errorf(errWrappedFmt, ErrTransport, errors.Join(errDoRequestFailure, err))
	}

	defer resp.Body.Close()

	bodyBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf(errWrappedFmt, ErrTransport, errors.Join(errReadingBodyFailure, err))
	}

	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return bodyBytes, nil
	}

	statusErr := &StatusError{
		Code:   resp.StatusCode,
		Header: resp.Header,
		Body:   bodyBytes,
	}

	c.getLogger(ctx).Debug("License server responded with a non-success status code",
		zap.String("url", url), zap.Int("code", resp.StatusCode))

	return nil, fmt.Errorf(errWrappedFmt, translateNonSuccessStatusCode(resp.StatusCode), statusErr)
}

// translateNonSuccessStatusCode returns as specific error
// for known license server status codes.
func translateNonSuccessStatusCode(code int) error {
	switch code {
	case http.StatusNotFound, http.StatusGone:
		return ErrNotFound
	default:
		return ErrTransport
	}
}
