// SPDX-FileCopyrightText: 2025 Comcast Cable Communications Management, LLC
// SPDX-License-Identifier: Apache-2.0
package drmlicensefx_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xmidt-org/drmlicense"
	"github.com/xmidt-org/drmlicense/drmlicensefx"
	"github.com/xmidt-org/drmlicense/header"
	"github.com/xmidt-org/drmlicense/scheme"
	"github.com/xmidt-org/sallust"
	"github.com/xmidt-org/touchstone"
	"go.uber.org/fx"
	"go.uber.org/fx/fxtest"
)

type out struct {
	fx.Out

	Factory *touchstone.Factory
	Config  drmlicense.Config
	Headers *header.Store
	Option  drmlicense.Option `group:"drmlicense_options"`
}

func provideDefaults(url string) func() (out, error) {
	return func() (out, error) {
		cfg := touchstone.Config{
			DefaultNamespace: "n",
			DefaultSubsystem: "s",
		}
		_, pr, err := touchstone.New(cfg)
		if err != nil {
			return out{}, err
		}

		headers, err := header.NewStore(map[string]string{"X-Tenant": "acme"})
		if err != nil {
			return out{}, err
		}

		return out{
			Factory: touchstone.NewFactory(cfg, sallust.Default(), pr),
			Config: drmlicense.Config{
				DefaultURL: url,
				Headers:    map[string]string{"X-Region": "eu"},
			},
			Headers: headers,
			Option:  drmlicense.Raw(),
		}, nil
	}
}

func TestProvide(t *testing.T) {
	t.Run("Test drmlicensefx.Provide() defaults", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(rw http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "acme", r.Header.Get("X-Tenant"))
			assert.Equal(t, "eu", r.Header.Get("X-Region"))
			rw.Write([]byte("license"))
		}))
		defer server.Close()

		var (
			client   *drmlicense.Client
			callback drmlicense.Callback
			headers  *header.Store
		)
		app := fxtest.New(t,
			drmlicensefx.Provide(),
			fx.Provide(
				provideDefaults(server.URL),
			),
			fx.Populate(
				&client,
				&callback,
				&headers,
			),
		)

		require := require.New(t)
		require.NotNil(app)
		require.NoError(app.Err())
		app.RequireStart()
		require.NotNil(client)
		require.NotNil(callback)
		require.Same(headers, client.Headers())

		license, err := callback.ExecuteKeyRequest(context.Background(), scheme.Widevine, drmlicense.KeyRequest{})
		require.NoError(err)
		require.Equal([]byte("license"), license)
		app.RequireStop()
	})

	t.Run("Test drmlicensefx.Provide() configuration error", func(t *testing.T) {
		app := fx.New(
			drmlicensefx.Provide(),
			fx.Provide(
				provideDefaults("http://[::1"),
			),
			fx.Invoke(func(*drmlicense.Client) {}),
		)

		require.Error(t, app.Err())
		assert.Contains(t, app.Err().Error(), drmlicense.ErrMisconfiguredClient.Error())
	})
}
