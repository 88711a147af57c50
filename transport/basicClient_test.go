// SPDX-FileCopyrightText: 2025 Comcast Cable Communications Management, LLC
// SPDX-License-Identifier: Apache-2.0

package transport

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xmidt-org/sallust"
)

const failingURL = "nowhere://"

var _ Poster = &BasicClient{}

func TestNewBasicClient(t *testing.T) {
	assert := assert.New(t)
	require := require.New(t)

	client, err := NewBasicClient()
	require.NoError(err)
	assert.Equal(DefaultTimeout, client.client.Timeout)
	assert.NotNil(client.client.CheckRedirect)
	assert.NotNil(client.getLogger(context.Background()))

	given := &http.Client{Timeout: time.Second}
	client, err = NewBasicClient(HTTPClient(given), GetClientLogger(sallust.Get))
	require.NoError(err)
	assert.Equal(time.Second, client.client.Timeout)
	assert.NotSame(given, client.client)
	assert.Nil(given.CheckRedirect)
}

func TestPost(t *testing.T) {
	type testCase struct {
		Description      string
		ResponseCode     int
		ResponseBody     []byte
		ResponseHeader   map[string]string
		ShouldDoFail     bool
		ShouldBuildFail  bool
		ExpectedOutput   []byte
		ExpectedErr      error
		UnexpectedErr    error
		ExpectedStatus   int
		ExpectedLocation string
	}

	tcs := []testCase{
		{
			Description:    "Happy path",
			ResponseCode:   http.StatusOK,
			ResponseBody:   []byte("license"),
			ExpectedOutput: []byte("license"),
		},
		{
			Description:    "Empty success body",
			ResponseCode:   http.StatusNoContent,
			ExpectedOutput: []byte{},
		},
		{
			Description:    "Not found",
			ResponseCode:   http.StatusNotFound,
			ExpectedErr:    ErrNotFound,
			UnexpectedErr:  ErrTransport,
			ExpectedStatus: http.StatusNotFound,
		},
		{
			Description:    "Gone",
			ResponseCode:   http.StatusGone,
			ExpectedErr:    ErrNotFound,
			ExpectedStatus: http.StatusGone,
		},
		{
			Description:    "Server error",
			ResponseCode:   http.StatusInternalServerError,
			ResponseBody:   []byte("boom"),
			ExpectedErr:    ErrTransport,
			UnexpectedErr:  ErrNotFound,
			ExpectedStatus: http.StatusInternalServerError,
		},
		{
			Description:      "Redirect is not followed",
			ResponseCode:     http.StatusTemporaryRedirect,
			ResponseHeader:   map[string]string{"Location": "/elsewhere"},
			ExpectedErr:      ErrTransport,
			ExpectedStatus:   http.StatusTemporaryRedirect,
			ExpectedLocation: "/elsewhere",
		},
		{
			Description:  "Do request fails",
			ShouldDoFail: true,
			ExpectedErr:  errDoRequestFailure,
		},
		{
			Description:     "New request fails",
			ShouldBuildFail: true,
			ExpectedErr:     errNewRequestFailure,
		},
	}

	for _, tc := range tcs {
		t.Run(tc.Description, func(t *testing.T) {
			assert := assert.New(t)
			require := require.New(t)
			payload := []byte{0x08, 0x04, 0x00, 0xff}

			server := httptest.NewServer(http.HandlerFunc(func(rw http.ResponseWriter, r *http.Request) {
				assert.Equal(http.MethodPost, r.Method)
				assert.Equal("text/xml", r.Header.Get("Content-Type"))
				assert.Equal("1", r.Header.Get("X-Custom"))
				body, err := io.ReadAll(r.Body)
				assert.NoError(err)
				assert.Equal(payload, body)

				for k, v := range tc.ResponseHeader {
					rw.Header().Set(k, v)
				}
				rw.WriteHeader(tc.ResponseCode)
				rw.Write(tc.ResponseBody)
			}))
			defer server.Close()

			client, err := NewBasicClient()
			require.NoError(err)

			url := server.URL
			if tc.ShouldDoFail {
				url = failingURL
			}
			if tc.ShouldBuildFail {
				url = "http://[::1"
			}

			header := http.Header{}
			header.Set("Content-Type", "text/xml")
			header.Set("X-Custom", "1")

			output, err := client.Post(context.Background(), url, payload, header)
			if tc.ExpectedErr == nil {
				assert.NoError(err)
				assert.Equal(tc.ExpectedOutput, output)
				return
			}

			assert.Nil(output)
			assert.True(errors.Is(err, tc.ExpectedErr))
			if tc.UnexpectedErr != nil {
				assert.False(errors.Is(err, tc.UnexpectedErr))
			}

			var se *StatusError
			if tc.ExpectedStatus == 0 {
				assert.False(errors.As(err, &se))
				assert.True(errors.Is(err, ErrTransport))
				return
			}

			require.True(errors.As(err, &se))
			assert.Equal(tc.ExpectedStatus, se.Code)
			assert.Equal(string(tc.ResponseBody), string(se.Body))
			assert.Equal(tc.ExpectedLocation, se.Location())
		})
	}
}

func TestPostEmptyBody(t *testing.T) {
	assert := assert.New(t)
	server := httptest.NewServer(http.HandlerFunc(func(rw http.ResponseWriter, r *http.Request) {
		body, err := io.ReadAll(r.Body)
		assert.NoError(err)
		assert.Empty(body)
		rw.Write([]byte("certificate"))
	}))
	defer server.Close()

	client, err := NewBasicClient()
	require.NoError(t, err)

	output, err := client.Post(context.Background(), server.URL, nil, nil)
	assert.NoError(err)
	assert.Equal([]byte("certificate"), output)
}

func TestPostCanceledContext(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(rw http.ResponseWriter, r *http.Request) {
		rw.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	client, err := NewBasicClient()
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err = client.Post(ctx, server.URL, nil, nil)
	assert.True(t, errors.Is(err, ErrTransport))
	assert.True(t, errors.Is(err, context.Canceled))
}

func TestStatusErrorLocation(t *testing.T) {
	assert.Equal(t, "", (&StatusError{}).Location())
	se := &StatusError{Header: http.Header{"Location": {"a", "b"}}}
	assert.Equal(t, "a", se.Location())
}
