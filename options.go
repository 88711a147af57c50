// SPDX-FileCopyrightText: 2025 Comcast Cable Communications Management, LLC
// SPDX-License-Identifier: Apache-2.0

package drmlicense

import (
	"context"
	"errors"
	"net/http"
	"net/url"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/xmidt-org/drmlicense/auth"
	"github.com/xmidt-org/drmlicense/decode"
	"github.com/xmidt-org/drmlicense/header"
	"github.com/xmidt-org/drmlicense/scheme"
	"github.com/xmidt-org/drmlicense/transport"
	"github.com/xmidt-org/sallust"
	"go.uber.org/zap"
)

var (
	errForceWithoutDefault = errors.New("force default URL requires a default URL")
	errInvalidDefaultURL   = errors.New("invalid default URL")
	errNilDecorator        = errors.New("nil request decorator")
	errNilHeaderStore      = errors.New("nil header store")
)

// Option is a functional option type for Client.
type Option interface {
	apply(*Client) error
}

type Options []Option

func (opts Options) apply(c *Client) (errs error) {
	for _, o := range opts {
		errs = errors.Join(errs, o.apply(c))
	}

	return errs
}

type optionFunc func(*Client) error

func (f optionFunc) apply(c *Client) error {
	return f(c)
}

// DefaultURL sets the license server used when a key request carries no
// URL, or always when ForceDefaultURL is set.
func DefaultURL(u string) Option {
	return optionFunc(
		func(c *Client) error {
			if u != "" {
				if _, err := url.Parse(u); err != nil {
					return errors.Join(errInvalidDefaultURL, err)
				}
			}

			c.defaultURL = u
			return nil
		})
}

// ForceDefaultURL makes key requests ignore their own license server URL.
func ForceDefaultURL(force bool) Option {
	return optionFunc(
		func(c *Client) error {
			c.forceDefault = force
			return nil
		})
}

// QueryParams appends logRequestId, and assetId and variantId when non-empty,
// to requests sent to the default URL. Requests sent to a caller supplied URL
// carry logRequestId as a header instead.
func QueryParams(assetID, variantID string) Option {
	return optionFunc(
		func(c *Client) error {
			c.queryParams = true
			c.assetID = assetID
			c.variantID = variantID
			return nil
		})
}

// ContentTypes overrides the Content-Type sent per scheme.
// (Optional). Defaults to scheme.DefaultConventions.
func ContentTypes(types map[scheme.Scheme]string) Option {
	return optionFunc(
		func(c *Client) error {
			c.conventions = c.conventions.WithContentTypes(types)
			return nil
		})
}

// Conventions replaces the whole per scheme convention table.
func Conventions(conv scheme.Conventions) Option {
	return optionFunc(
		func(c *Client) error {
			c.conventions = scheme.DefaultConventions()
			if conv != nil {
				c.conventions = conv
			}

			return nil
		})
}

// Headers sets the custom key request header store, which may be shared.
// (Optional). Defaults to an empty store.
func Headers(s *header.Store) Option {
	return optionFunc(
		func(c *Client) error {
			c.headers = new(header.Store)
			if s != nil {
				c.headers = s
			}

			return nil
		})
}

// InitialHeaders sets custom key request headers on the client's store.
func InitialHeaders(headers map[string]string) Option {
	return optionFunc(
		func(c *Client) (errs error) {
			if c.headers == nil {
				return errNilHeaderStore
			}

			for name, value := range headers {
				errs = errors.Join(errs, c.headers.Set(name, value))
			}

			return errs
		})
}

// Decoder sets how license server responses are unwrapped.
// (Optional). Defaults to the {"license":"<base64>"} envelope.
func Decoder(d decode.Decoder) Option {
	return optionFunc(
		func(c *Client) error {
			c.decoder = decode.Envelope{Field: decode.DefaultField}
			if d != nil {
				c.decoder = d
			}

			return nil
		})
}

// Raw returns license server responses unmodified.
func Raw() Option {
	return Decoder(decode.Raw)
}

// Decorators adds request decorators, applied in order after the scheme
// conventions and before the custom headers.
func Decorators(ds ...auth.Decorator) Option {
	return optionFunc(
		func(c *Client) error {
			for _, d := range ds {
				if d == nil {
					return errNilDecorator
				}
			}

			c.decorators = append(c.decorators, ds...)
			return nil
		})
}

// CustomData adds the dt-custom-data header.
func CustomData(cd auth.CustomData) Option {
	return optionFunc(
		func(c *Client) error {
			d, err := auth.CustomDataDecorator(cd)
			if err != nil {
				return err
			}

			c.decorators = append(c.decorators, d)
			return nil
		})
}

// AuthToken adds the x-dt-auth-token header with values from a.
func AuthToken(a auth.Acquirer) Option {
	return optionFunc(
		func(c *Client) error {
			d, err := auth.TokenDecorator(auth.TokenHeader, a)
			if err != nil {
				return err
			}

			c.decorators = append(c.decorators, d)
			return nil
		})
}

// HTTPClient sets the HTTP client used by the default transport.
// (Optional). Defaults to a client with transport.DefaultTimeout.
func HTTPClient(client *http.Client) Option {
	return optionFunc(
		func(c *Client) error {
			c.httpClient = client
			return nil
		})
}

// Transport replaces the single exchange transport. Key requests still
// follow redirects on top of it.
// (Optional). Defaults to a transport.BasicClient.
func Transport(p transport.Poster) Option {
	return optionFunc(
		func(c *Client) error {
			c.transport = p
			return nil
		})
}

// MaxManualRedirects bounds the redirects followed per key request.
// (Optional). Values <= 0 use transport.DefaultMaxManualRedirects.
func MaxManualRedirects(n int) Option {
	return optionFunc(
		func(c *Client) error {
			c.maxRedirects = n
			return nil
		})
}

// GetLogger sets the getlogger, a func that returns a logger from the given context.
// (Optional). Defaults to sallust.Get.
func GetLogger(get func(context.Context) *zap.Logger) Option {
	return optionFunc(
		func(c *Client) error {
			c.getLogger = sallust.Get
			if get != nil {
				c.getLogger = get
			}

			return nil
		})
}

// RequestsTotal sets the counter for requests by type and outcome.
// (Optional).
func RequestsTotal(counter *prometheus.CounterVec) Option {
	return optionFunc(
		func(c *Client) error {
			c.requestsTotal = counter
			return nil
		})
}

// ManualRedirectsTotal sets the counter for followed redirects.
// (Optional).
func ManualRedirectsTotal(counter prometheus.Counter) Option {
	return optionFunc(
		func(c *Client) error {
			c.redirectsTotal = counter
			return nil
		})
}

// validator checks the endpoint policy and assembles the posters.
func validator() Option {
	return optionFunc(
		func(c *Client) error {
			if c.forceDefault && c.defaultURL == "" {
				return errForceWithoutDefault
			}

			base := c.transport
			if base == nil {
				bc, err := transport.NewBasicClient(
					transport.HTTPClient(c.httpClient),
					transport.GetClientLogger(c.getLogger),
				)
				if err != nil {
					return err
				}

				base = bc
			}

			c.provisionPoster = base
			c.keyPoster = &transport.Redirector{
				Next:         base,
				MaxRedirects: c.maxRedirects,
				Redirects:    c.redirectsTotal,
				GetLogger:    c.getLogger,
			}

			return nil
		})
}
