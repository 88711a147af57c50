// SPDX-FileCopyrightText: 2025 Comcast Cable Communications Management, LLC
// SPDX-License-Identifier: Apache-2.0

package proxy

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	kithttp "github.com/go-kit/kit/transport/http"
	"github.com/xmidt-org/drmlicense"
	"github.com/xmidt-org/drmlicense/scheme"
	"github.com/xmidt-org/httpaux/erraux"
	"go.uber.org/zap"
)

const (
	contentTypeHeader     string = "Content-Type"
	jsonContentType       string = "application/json"
	octetStreamType       string = "application/octet-stream"
	defaultURLParam       string = "default_url"
	schemeParam           string = "scheme"
	DefaultMaxRequestSize int64  = 1 << 20
)

var (
	errInvalidScheme     = errors.New("invalid DRM scheme")
	errMissingDefaultURL = errors.New("missing default_url query parameter")
	errProvisionHost     = errors.New("provisioning host is not allowed")
	errReadingBody       = errors.New("failed reading request body")
)

type keyRequest struct {
	scheme  scheme.Scheme
	request drmlicense.KeyRequest
}

type provisionRequest struct {
	scheme  scheme.Scheme
	request drmlicense.ProvisionRequest
}

func readBody(r *http.Request, limit int64) ([]byte, error) {
	body, err := io.ReadAll(io.LimitReader(r.Body, limit+1))
	if err != nil {
		return nil, &erraux.Error{Code: http.StatusBadRequest, Err: errors.Join(errReadingBody, err)}
	}
	if int64(len(body)) > limit {
		return nil, &erraux.Error{Code: http.StatusRequestEntityTooLarge, Err: errReadingBody}
	}

	return body, nil
}

func parseScheme(name string) (scheme.Scheme, error) {
	if name == "" {
		return scheme.Other, nil
	}

	s, err := scheme.Parse(name)
	if err != nil {
		return scheme.Other, &erraux.Error{Code: http.StatusBadRequest, Err: errors.Join(errInvalidScheme, err)}
	}

	return s, nil
}

func keyRequestDecoder(config HandlerConfig) kithttp.DecodeRequestFunc {
	return func(_ context.Context, r *http.Request) (interface{}, error) {
		s, err := parseScheme(r.PathValue(schemeParam))
		if err != nil {
			return nil, err
		}

		body, err := readBody(r, config.MaxRequestSize)
		if err != nil {
			return nil, err
		}

		var serverURL string
		if config.AllowServerURL {
			serverURL = r.Header.Get(LicenseServerURLHeader)
		}

		return &keyRequest{
			scheme: s,
			request: drmlicense.KeyRequest{
				Data:             body,
				LicenseServerURL: serverURL,
			},
		}, nil
	}
}

func provisionRequestDecoder(config HandlerConfig) kithttp.DecodeRequestFunc {
	return func(_ context.Context, r *http.Request) (interface{}, error) {
		defaultURL, err := provisionTarget(config, r.URL.Query().Get(defaultURLParam))
		if err != nil {
			return nil, err
		}

		s, err := parseScheme(r.URL.Query().Get(schemeParam))
		if err != nil {
			return nil, err
		}

		body, err := readBody(r, config.MaxRequestSize)
		if err != nil {
			return nil, err
		}

		return &provisionRequest{
			scheme: s,
			request: drmlicense.ProvisionRequest{
				DefaultURL: defaultURL,
				Data:       body,
			},
		}, nil
	}
}

// provisionTarget returns the configured provisioning URL, or requested when
// its host is in config.ProvisionHosts.
func provisionTarget(config HandlerConfig, requested string) (string, error) {
	if config.ProvisionURL != "" {
		return config.ProvisionURL, nil
	}
	if requested == "" {
		return "", &erraux.Error{Code: http.StatusBadRequest, Err: errMissingDefaultURL}
	}

	u, err := url.Parse(requested)
	if err != nil || u.Host == "" {
		return "", &erraux.Error{Code: http.StatusBadRequest, Err: errors.Join(errMissingDefaultURL, err)}
	}

	for _, host := range config.ProvisionHosts {
		if strings.EqualFold(host, u.Host) {
			return requested, nil
		}
	}

	return "", &erraux.Error{Code: http.StatusForbidden, Err: fmt.Errorf("%w: %s", errProvisionHost, u.Host)}
}

func encodeBytesResponse(_ context.Context, rw http.ResponseWriter, response interface{}) error {
	body, _ := response.([]byte)
	rw.Header().Set(contentTypeHeader, octetStreamType)
	_, err := rw.Write(body)
	return err
}

// statusCode maps client failures onto proxy responses.
func statusCode(err error) int {
	var sc kithttp.StatusCoder
	if errors.As(err, &sc) {
		return sc.StatusCode()
	}

	kind, ok := drmlicense.KindOf(err)
	if !ok {
		return http.StatusInternalServerError
	}

	switch kind {
	case drmlicense.KindConfiguration:
		return http.StatusBadRequest
	case drmlicense.KindNotFound:
		return http.StatusNotFound
	default:
		return http.StatusBadGateway
	}
}

func errorEncoder(getLogger func(context.Context) *zap.Logger) kithttp.ErrorEncoder {
	return func(ctx context.Context, err error, w http.ResponseWriter) {
		code := statusCode(err)
		if code >= http.StatusInternalServerError {
			getLogger(ctx).Error("License proxy request failed", zap.Int("code", code), zap.Error(err))
		}

		w.Header().Set(contentTypeHeader, jsonContentType)
		w.WriteHeader(code)

		json.NewEncoder(w).Encode(
			map[string]interface{}{
				"message": err.Error(),
			})
	}
}
