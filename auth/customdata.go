// SPDX-FileCopyrightText: 2025 Comcast Cable Communications Management, LLC
// SPDX-License-Identifier: Apache-2.0

package auth

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
)

// CustomDataHeader carries the base64 encoded CustomData JSON.
const CustomDataHeader = "dt-custom-data"

var (
	ErrUserIDEmpty    = errors.New("user ID is required")
	ErrSessionIDEmpty = errors.New("session ID is required")
	ErrMerchantEmpty  = errors.New("merchant is required")

	errJSONMarshal = errors.New("failed marshaling custom data as JSON payload")
)

// CustomData identifies the user request to the license server, which passes
// it on to the operator's callback.
type CustomData struct {
	UserID    string `json:"userId"`
	SessionID string `json:"sessionId"`
	Merchant  string `json:"merchant"`
}

// Validate reports every missing field.
func (cd CustomData) Validate() (errs error) {
	if cd.UserID == "" {
		errs = errors.Join(errs, ErrUserIDEmpty)
	}
	if cd.SessionID == "" {
		errs = errors.Join(errs, ErrSessionIDEmpty)
	}
	if cd.Merchant == "" {
		errs = errors.Join(errs, ErrMerchantEmpty)
	}

	return errs
}

// Encode returns the compact JSON form of cd, base64 encoded without line
// wrapping.
func (cd CustomData) Encode() (string, error) {
	data, err := json.Marshal(cd)
	if err != nil {
		return "", fmt.Errorf("%w: %s", errJSONMarshal, err.Error())
	}

	return base64.StdEncoding.EncodeToString(data), nil
}

// CustomDataDecorator validates and encodes cd once, and returns a Decorator
// setting the encoded value under CustomDataHeader.
func CustomDataDecorator(cd CustomData) (Decorator, error) {
	if err := cd.Validate(); err != nil {
		return nil, err
	}

	value, err := cd.Encode()
	if err != nil {
		return nil, err
	}

	return DecoratorFunc(func(_ context.Context, h http.Header) error {
		h.Set(CustomDataHeader, value)
		return nil
	}), nil
}
