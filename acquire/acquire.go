// SPDX-FileCopyrightText: 2025 Comcast Cable Communications Management, LLC
// SPDX-License-Identifier: Apache-2.0

package acquire

import (
	"errors"
	"fmt"
	"strings"
	"time"

	basculeacquire "github.com/xmidt-org/bascule/acquire"
)

const bearerPrefix = "Bearer "

var (
	ErrEmptyToken   = errors.New("auth token is required")
	ErrAuthURLEmpty = errors.New("auth URL is required")
)

// Acquirer returns the current auth token value.
type Acquirer interface {
	Acquire() (string, error)
}

// RemoteConfig configures fetching the license server auth token from a
// token endpoint.
type RemoteConfig struct {
	// AuthURL is the token endpoint.
	AuthURL string `json:"authURL" yaml:"authURL"`

	// Timeout bounds a single token fetch.
	Timeout time.Duration `json:"timeout" yaml:"timeout"`

	// Buffer is how long before expiry a cached token is refreshed.
	Buffer time.Duration `json:"buffer" yaml:"buffer"`

	// RequestHeaders are sent with every token fetch.
	RequestHeaders map[string]string `json:"requestHeaders" yaml:"requestHeaders"`

	// ParserType is either "simple" (a JSON token/expiration document) or
	// "raw" (the body is the JWT itself).
	// (Optional). Defaults to "simple".
	ParserType ParserType `json:"parserType" yaml:"parserType"`
}

// NewFixed returns an Acquirer that always yields token.
func NewFixed(token string) (Acquirer, error) {
	if token == "" {
		return nil, ErrEmptyToken
	}

	fixed, err := basculeacquire.NewFixedAuthAcquirer(token)
	if err != nil {
		return nil, err
	}

	return fixed, nil
}

// NewRemote returns an Acquirer that fetches and caches a token from
// cfg.AuthURL. The value is returned without any "Bearer " prefix.
func NewRemote(cfg RemoteConfig) (Acquirer, error) {
	if cfg.AuthURL == "" {
		return nil, ErrAuthURLEmpty
	}

	p, err := newParser(cfg.ParserType)
	if err != nil {
		return nil, err
	}

	remote, err := basculeacquire.NewRemoteBearerTokenAcquirer(basculeacquire.RemoteBearerTokenAcquirerOptions{
		AuthURL:        cfg.AuthURL,
		Timeout:        cfg.Timeout,
		Buffer:         cfg.Buffer,
		RequestHeaders: cfg.RequestHeaders,
		GetToken:       p.token,
		GetExpiration:  p.expiration,
	})
	if err != nil {
		return nil, fmt.Errorf("failed creating remote token acquirer: %w", err)
	}

	return stripBearer{next: remote}, nil
}

type stripBearer struct {
	next Acquirer
}

func (s stripBearer) Acquire() (string, error) {
	token, err := s.next.Acquire()
	if err != nil {
		return "", err
	}

	return strings.TrimPrefix(token, bearerPrefix), nil
}
