// SPDX-FileCopyrightText: 2025 Comcast Cable Communications Management, LLC
// SPDX-License-Identifier: Apache-2.0

package drmlicense

import (
	"errors"
	"fmt"

	"github.com/xmidt-org/drmlicense/decode"
	"github.com/xmidt-org/drmlicense/transport"
)

// Kind classifies client failures.
type Kind int

const (
	// KindConfiguration is a missing or invalid setting. Never retried.
	KindConfiguration Kind = iota

	// KindNotFound is a 404 or 410 from the license server.
	KindNotFound

	// KindTransport is any other network or non-2xx failure.
	KindTransport

	// KindRedirectExhausted means the redirect bound was reached.
	KindRedirectExhausted

	// KindDecode is a response that could not be unwrapped into a license.
	KindDecode
)

// Errors that can be returned by this package. Since these errors are returned wrapped, it
// is safest to use errors.Is() to check for them.
var (
	ErrConfiguration      = errors.New("license client configuration error")
	ErrLicenseNotFound    = errors.New("license not found")
	ErrTransport          = errors.New("error during license acquisition")
	ErrRedirectsExhausted = errors.New("too many license server redirects")
	ErrDecode             = errors.New("error while parsing license response")
)

var kindNames = map[Kind]string{
	KindConfiguration:     "configuration",
	KindNotFound:          "not_found",
	KindTransport:         "transport",
	KindRedirectExhausted: "redirect_exhausted",
	KindDecode:            "decode",
}

func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}

	return fmt.Sprintf("kind(%d)", int(k))
}

func (k Kind) sentinel() error {
	switch k {
	case KindConfiguration:
		return ErrConfiguration
	case KindNotFound:
		return ErrLicenseNotFound
	case KindRedirectExhausted:
		return ErrRedirectsExhausted
	case KindDecode:
		return ErrDecode
	default:
		return ErrTransport
	}
}

// cause returns the lower level sentinel that errors of kind k wrap.
func (k Kind) cause() error {
	switch k {
	case KindNotFound:
		return transport.ErrNotFound
	case KindTransport:
		return transport.ErrTransport
	case KindRedirectExhausted:
		return transport.ErrRedirectsExhausted
	case KindDecode:
		return decode.ErrDecode
	default:
		return nil
	}
}

// Error is returned by every Client operation.
type Error struct {
	Kind Kind

	// Op is the operation that failed, e.g. "key" or "provision".
	Op string

	// Err is the cause, such as a *transport.StatusError or *decode.Error.
	Err error
}

func (e *Error) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("%s: %s", e.Op, e.Kind.sentinel())
	}

	// The cause already describes the kind.
	if errors.Is(e.Err, e.Kind.sentinel()) || (e.Kind.cause() != nil && errors.Is(e.Err, e.Kind.cause())) {
		return fmt.Sprintf("%s: %s", e.Op, e.Err)
	}

	return fmt.Sprintf("%s: %s: %s", e.Op, e.Kind.sentinel(), e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is matches the sentinel of e's Kind. A redirect exhausted error is also a
// transport error.
func (e *Error) Is(target error) bool {
	if target == e.Kind.sentinel() {
		return true
	}

	return target == ErrTransport && e.Kind == KindRedirectExhausted
}

// KindOf returns the Kind of err and whether err carries one.
func KindOf(err error) (Kind, bool) {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind, true
	}

	return 0, false
}

func configurationError(op string, err error) *Error {
	return &Error{Kind: KindConfiguration, Op: op, Err: err}
}

// classify wraps err, keeping any Kind it already carries.
func classify(op string, err error) *Error {
	var e *Error
	if errors.As(err, &e) {
		return e
	}

	kind := KindTransport
	switch {
	case errors.Is(err, decode.ErrDecode):
		kind = KindDecode
	case errors.Is(err, transport.ErrRedirectsExhausted):
		kind = KindRedirectExhausted
	case errors.Is(err, transport.ErrNotFound):
		kind = KindNotFound
	}

	return &Error{Kind: kind, Op: op, Err: err}
}
