// SPDX-FileCopyrightText: 2025 Comcast Cable Communications Management, LLC
// SPDX-License-Identifier: Apache-2.0

package header

import (
	"errors"
	"fmt"
	"net/textproto"
	"sync"

	"golang.org/x/net/http/httpguts"
)

var (
	ErrInvalidName  = errors.New("invalid header name")
	ErrInvalidValue = errors.New("invalid header value")
)

// Store holds the custom headers applied to every key request. Names are
// stored in canonical form, so "x-foo" and "X-Foo" refer to the same entry.
// A Store is safe for concurrent use; the zero value is ready to use.
type Store struct {
	lock    sync.RWMutex
	headers map[string]string
}

// NewStore returns a Store seeded with the given headers.
func NewStore(initial map[string]string) (*Store, error) {
	s := new(Store)
	for name, value := range initial {
		if err := s.Set(name, value); err != nil {
			return nil, err
		}
	}

	return s, nil
}

// Set adds or replaces a header.
func (s *Store) Set(name, value string) error {
	key, err := canonical(name)
	if err != nil {
		return err
	}

	if !httpguts.ValidHeaderFieldValue(value) {
		return fmt.Errorf("%w: %q", ErrInvalidValue, value)
	}

	s.lock.Lock()
	defer s.lock.Unlock()
	if s.headers == nil {
		s.headers = make(map[string]string)
	}
	s.headers[key] = value
	return nil
}

// Clear removes a header. Clearing an absent header is not an error.
func (s *Store) Clear(name string) error {
	key, err := canonical(name)
	if err != nil {
		return err
	}

	s.lock.Lock()
	delete(s.headers, key)
	s.lock.Unlock()
	return nil
}

// ClearAll removes every header.
func (s *Store) ClearAll() {
	s.lock.Lock()
	s.headers = nil
	s.lock.Unlock()
}

// Snapshot returns a point-in-time copy of the headers.
func (s *Store) Snapshot() map[string]string {
	s.lock.RLock()
	defer s.lock.RUnlock()

	out := make(map[string]string, len(s.headers))
	for k, v := range s.headers {
		out[k] = v
	}

	return out
}

func (s *Store) Len() int {
	s.lock.RLock()
	defer s.lock.RUnlock()
	return len(s.headers)
}

func canonical(name string) (string, error) {
	if !httpguts.ValidHeaderFieldName(name) {
		return "", fmt.Errorf("%w: %q", ErrInvalidName, name)
	}

	return textproto.CanonicalMIMEHeaderKey(name), nil
}
