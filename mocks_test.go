// SPDX-FileCopyrightText: 2025 Comcast Cable Communications Management, LLC
// SPDX-License-Identifier: Apache-2.0

package drmlicense

import (
	"context"
	"fmt"
	"net/http"
	"sync"

	"github.com/stretchr/testify/mock"
	"github.com/xmidt-org/drmlicense/transport"
)

type mockPoster struct {
	mock.Mock
}

func (m *mockPoster) Post(ctx context.Context, url string, body []byte, header http.Header) ([]byte, error) {
	args := m.Called(ctx, url, body, header)
	resp, _ := args.Get(0).([]byte)
	return resp, args.Error(1)
}

type recordedPost struct {
	url    string
	body   []byte
	header http.Header
}

// recordingPoster records every post and answers with respond, or with
// response when respond is nil.
type recordingPoster struct {
	lock     sync.Mutex
	posts    []recordedPost
	response []byte
	respond  func(n int) ([]byte, error)
}

func (r *recordingPoster) Post(_ context.Context, url string, body []byte, header http.Header) ([]byte, error) {
	r.lock.Lock()
	r.posts = append(r.posts, recordedPost{url: url, body: body, header: header.Clone()})
	n := len(r.posts)
	r.lock.Unlock()

	if r.respond != nil {
		return r.respond(n)
	}

	return r.response, nil
}

func (r *recordingPoster) last() recordedPost {
	r.lock.Lock()
	defer r.lock.Unlock()

	return r.posts[len(r.posts)-1]
}

func (r *recordingPoster) count() int {
	r.lock.Lock()
	defer r.lock.Unlock()

	return len(r.posts)
}

func statusErr(code int, location string) error {
	h := http.Header{}
	if location != "" {
		h.Set("Location", location)
	}

	base := transport.ErrTransport
	if code == http.StatusNotFound || code == http.StatusGone {
		base = transport.ErrNotFound
	}

	return fmt.Errorf("%w: %w", base, &transport.StatusError{Code: code, Header: h, Body: []byte("status body")})
}
