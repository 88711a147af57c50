// SPDX-FileCopyrightText: 2025 Comcast Cable Communications Management, LLC
// SPDX-License-Identifier: Apache-2.0

package decode

import (
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"
)

// DefaultField is the envelope key holding the base64 encoded license.
const DefaultField = "license"

var (
	ErrDecode = errors.New("failed decoding license response")

	errInvalidUTF8   = errors.New("response is not valid UTF-8")
	errJSONUnmarshal = errors.New("failed unmarshaling JSON response payload")
	errMissingField  = errors.New("license field missing from response")
	errFieldType     = errors.New("license field is not a string")
	errEmptyLicense  = errors.New("license field is empty")
	errBase64        = errors.New("failed base64 decoding license field")
)

// Error is returned when a response body cannot be turned into a license.
// Body holds the raw response for diagnosis.
type Error struct {
	Body []byte
	Err  error
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %v", ErrDecode.Error(), e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

func (e *Error) Is(target error) bool { return target == ErrDecode }

// Decoder extracts license bytes from a license server response body.
type Decoder interface {
	Decode(body []byte) ([]byte, error)
}

type DecoderFunc func([]byte) ([]byte, error)

func (f DecoderFunc) Decode(body []byte) ([]byte, error) { return f(body) }

// Raw treats the response body as the license itself.
var Raw = DecoderFunc(func(body []byte) ([]byte, error) { return body, nil })

// Envelope expects a JSON object whose Field holds the base64 encoded license.
// The zero value uses DefaultField.
type Envelope struct {
	Field string
}

func (e Envelope) Decode(body []byte) ([]byte, error) {
	field := e.Field
	if field == "" {
		field = DefaultField
	}

	if !utf8.Valid(body) {
		return nil, &Error{Body: body, Err: errInvalidUTF8}
	}

	var envelope map[string]json.RawMessage
	if err := json.Unmarshal(body, &envelope); err != nil {
		return nil, &Error{Body: body, Err: fmt.Errorf("%w: %s", errJSONUnmarshal, err.Error())}
	}

	raw, ok := envelope[field]
	if !ok || string(raw) == "null" {
		return nil, &Error{Body: body, Err: fmt.Errorf("%w: %q", errMissingField, field)}
	}

	var encoded string
	if err := json.Unmarshal(raw, &encoded); err != nil {
		return nil, &Error{Body: body, Err: fmt.Errorf("%w: %q", errFieldType, field)}
	}

	if encoded == "" {
		return nil, &Error{Body: body, Err: errEmptyLicense}
	}

	license, err := decodeBase64(encoded)
	if err != nil {
		return nil, &Error{Body: body, Err: fmt.Errorf("%w: %s", errBase64, err.Error())}
	}

	return license, nil
}

// decodeBase64 accepts the standard alphabet with or without padding and
// tolerates line breaks.
func decodeBase64(s string) ([]byte, error) {
	s = strings.NewReplacer("\r", "", "\n", "").Replace(s)
	return base64.RawStdEncoding.DecodeString(strings.TrimRight(s, "="))
}
