// SPDX-FileCopyrightText: 2025 Comcast Cable Communications Management, LLC
// SPDX-License-Identifier: Apache-2.0

package transport

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var _ Poster = &Redirector{}

// redirectStub answers every post with a 307 pointing at a fresh location
// until answerAfter posts have been made.
type redirectStub struct {
	urls        []string
	answerAfter int
	code        int
	noLocation  bool
}

func (s *redirectStub) Post(_ context.Context, url string, _ []byte, _ http.Header) ([]byte, error) {
	s.urls = append(s.urls, url)
	if s.answerAfter > 0 && len(s.urls) > s.answerAfter {
		return []byte("license"), nil
	}

	code := s.code
	if code == 0 {
		code = http.StatusTemporaryRedirect
	}

	header := http.Header{}
	if !s.noLocation {
		header.Set("Location", fmt.Sprintf("https://license.example/hop/%d", len(s.urls)))
	}

	return nil, fmt.Errorf(errWrappedFmt, translateNonSuccessStatusCode(code), &StatusError{Code: code, Header: header})
}

func counterValue(t *testing.T, c prometheus.Counter) float64 {
	var m dto.Metric
	require.NoError(t, c.Write(&m))
	return m.GetCounter().GetValue()
}

func TestRedirectorExhausted(t *testing.T) {
	assert := assert.New(t)
	require := require.New(t)

	stub := new(redirectStub)
	counter := prometheus.NewCounter(prometheus.CounterOpts{Name: "testRedirects", Help: "testRedirects"})
	r := &Redirector{Next: stub, Redirects: counter}

	output, err := r.Post(context.Background(), "https://license.example/start", []byte("payload"), nil)
	assert.Nil(output)
	assert.True(errors.Is(err, ErrRedirectsExhausted))
	assert.True(errors.Is(err, ErrTransport))

	var se *StatusError
	require.True(errors.As(err, &se))
	assert.Equal(http.StatusTemporaryRedirect, se.Code)

	// the first post plus five manual follows
	require.Len(stub.urls, DefaultMaxManualRedirects+1)
	assert.Equal("https://license.example/start", stub.urls[0])
	for i := 1; i < len(stub.urls); i++ {
		assert.Equal(fmt.Sprintf("https://license.example/hop/%d", i), stub.urls[i])
	}
	assert.Equal(float64(DefaultMaxManualRedirects), counterValue(t, counter))
}

func TestRedirectorCases(t *testing.T) {
	type testCase struct {
		Description    string
		Stub           *redirectStub
		MaxRedirects   int
		ExpectedPosts  int
		ExpectedOutput []byte
		ExpectedErr    error
		UnexpectedErr  error
	}

	tcs := []testCase{
		{
			Description:    "Succeeds after redirects",
			Stub:           &redirectStub{answerAfter: 3},
			ExpectedPosts:  4,
			ExpectedOutput: []byte("license"),
		},
		{
			Description:    "Succeeds on the last allowed follow",
			Stub:           &redirectStub{answerAfter: 5},
			ExpectedPosts:  6,
			ExpectedOutput: []byte("license"),
		},
		{
			Description:    "Permanent redirect",
			Stub:           &redirectStub{answerAfter: 1, code: http.StatusPermanentRedirect},
			ExpectedPosts:  2,
			ExpectedOutput: []byte("license"),
		},
		{
			Description:   "Custom bound",
			Stub:          &redirectStub{},
			MaxRedirects:  2,
			ExpectedPosts: 3,
			ExpectedErr:   ErrRedirectsExhausted,
		},
		{
			Description:   "Missing location propagates the original error",
			Stub:          &redirectStub{noLocation: true},
			ExpectedPosts: 1,
			ExpectedErr:   ErrTransport,
			UnexpectedErr: ErrRedirectsExhausted,
		},
		{
			Description:   "Found is not followed",
			Stub:          &redirectStub{code: http.StatusFound},
			ExpectedPosts: 1,
			ExpectedErr:   ErrTransport,
			UnexpectedErr: ErrRedirectsExhausted,
		},
		{
			Description:   "Not found is not followed",
			Stub:          &redirectStub{code: http.StatusNotFound},
			ExpectedPosts: 1,
			ExpectedErr:   ErrNotFound,
		},
	}

	for _, tc := range tcs {
		t.Run(tc.Description, func(t *testing.T) {
			assert := assert.New(t)
			r := &Redirector{Next: tc.Stub, MaxRedirects: tc.MaxRedirects}

			output, err := r.Post(context.Background(), "https://license.example/start", nil, nil)
			assert.Len(tc.Stub.urls, tc.ExpectedPosts)
			if tc.ExpectedErr == nil {
				assert.NoError(err)
				assert.Equal(tc.ExpectedOutput, output)
				return
			}

			assert.True(errors.Is(err, tc.ExpectedErr))
			if tc.UnexpectedErr != nil {
				assert.False(errors.Is(err, tc.UnexpectedErr))
			}
		})
	}
}

func TestRedirectorOverHTTP(t *testing.T) {
	assert := assert.New(t)
	require := require.New(t)

	var hops int
	mux := http.NewServeMux()
	mux.HandleFunc("/start", func(rw http.ResponseWriter, r *http.Request) {
		hops++
		rw.Header().Set("Location", "/moved?x=1")
		rw.WriteHeader(http.StatusTemporaryRedirect)
	})
	mux.HandleFunc("/moved", func(rw http.ResponseWriter, r *http.Request) {
		hops++
		assert.Equal(http.MethodPost, r.Method)
		assert.Equal("1", r.URL.Query().Get("x"))
		assert.Equal("application/octet-stream", r.Header.Get("Content-Type"))
		body, err := io.ReadAll(r.Body)
		assert.NoError(err)
		assert.Equal("challenge", string(body))
		rw.Write([]byte("license"))
	})
	server := httptest.NewServer(mux)
	defer server.Close()

	client, err := NewBasicClient()
	require.NoError(err)

	header := http.Header{}
	header.Set("Content-Type", "application/octet-stream")
	r := &Redirector{Next: client}

	output, err := r.Post(context.Background(), server.URL+"/start", []byte("challenge"), header)
	require.NoError(err)
	assert.Equal([]byte("license"), output)
	assert.Equal(2, hops)
}

func TestResolveLocation(t *testing.T) {
	tcs := []struct {
		Description string
		Current     string
		Location    string
		Expected    string
		ShouldFail  bool
	}{
		{Description: "Absolute", Current: "https://a.example/x", Location: "https://b.example/y", Expected: "https://b.example/y"},
		{Description: "Relative path", Current: "https://a.example/x/y?q=1", Location: "z", Expected: "https://a.example/x/z"},
		{Description: "Rooted path", Current: "https://a.example/x/y", Location: "/z?k=v", Expected: "https://a.example/z?k=v"},
		{Description: "Missing", Current: "https://a.example/x", ShouldFail: true},
		{Description: "Unparseable", Current: "https://a.example/x", Location: "http://[::1", ShouldFail: true},
	}

	for _, tc := range tcs {
		t.Run(tc.Description, func(t *testing.T) {
			assert := assert.New(t)
			se := &StatusError{Code: http.StatusTemporaryRedirect, Header: http.Header{}}
			if tc.Location != "" {
				se.Header.Set("Location", tc.Location)
			}

			next, err := resolveLocation(tc.Current, se)
			if tc.ShouldFail {
				assert.Error(err)
				return
			}

			assert.NoError(err)
			assert.Equal(tc.Expected, next)
		})
	}
}
