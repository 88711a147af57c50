// SPDX-FileCopyrightText: 2025 Comcast Cable Communications Management, LLC
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"
	"github.com/xmidt-org/drmlicense"
	"github.com/xmidt-org/drmlicense/proxy"
	"github.com/xmidt-org/drmlicense/scheme"
	"github.com/xmidt-org/drmlicense/transport"
	"github.com/xmidt-org/sallust"
	"go.uber.org/zap"
)

const shutdownTimeout = 10 * time.Second

var version = "dev"

type globals struct {
	configPath string
	debug      bool
}

func main() {
	var g globals

	rootCmd := &cobra.Command{
		Use:           "drmlicense",
		Short:         "Acquire DRM licenses and provisioning responses from license servers",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	rootCmd.PersistentFlags().StringVarP(&g.configPath, "config", "c", "", "YAML configuration file")
	rootCmd.PersistentFlags().BoolVar(&g.debug, "debug", false, "Enable debug logging")

	rootCmd.AddCommand(keyCmd(&g))
	rootCmd.AddCommand(provisionCmd(&g))
	rootCmd.AddCommand(serveCmd(&g))

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

// setup loads the configuration and returns a context carrying the logger.
func (g *globals) setup(ctx context.Context) (context.Context, Config, *zap.Logger, error) {
	cfg, err := loadConfig(g.configPath)
	if err != nil {
		return ctx, cfg, nil, err
	}

	var logger *zap.Logger
	if g.debug || cfg.Debug {
		logger, err = zap.NewDevelopment()
	} else {
		logger, err = zap.NewProduction()
	}
	if err != nil {
		return ctx, cfg, nil, err
	}

	return sallust.With(ctx, logger), cfg, logger, nil
}

func keyCmd(g *globals) *cobra.Command {
	var (
		schemeName string
		in         string
		out        string
		serverURL  string
	)

	cmd := &cobra.Command{
		Use:   "key",
		Short: "Send a key request payload and write the license",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cfg, logger, err := g.setup(cmd.Context())
			if err != nil {
				return err
			}
			defer logger.Sync()

			s, err := scheme.Parse(schemeName)
			if err != nil {
				return err
			}

			data, err := readInput(in)
			if err != nil {
				return err
			}

			client, err := drmlicense.NewClientFromConfig(cfg.Client)
			if err != nil {
				return err
			}

			license, err := client.ExecuteKeyRequest(ctx, s, drmlicense.KeyRequest{
				Data:             data,
				LicenseServerURL: serverURL,
			})
			if err != nil {
				return err
			}

			return writeOutput(out, license)
		},
	}

	cmd.Flags().StringVarP(&schemeName, "scheme", "s", "widevine", "DRM scheme name or system ID")
	cmd.Flags().StringVarP(&in, "in", "i", "-", "Key request payload file (- for stdin)")
	cmd.Flags().StringVarP(&out, "out", "o", "-", "License output file (- for stdout)")
	cmd.Flags().StringVarP(&serverURL, "url", "u", "", "License server URL (default: the configured default URL)")

	return cmd
}

func provisionCmd(g *globals) *cobra.Command {
	var (
		schemeName string
		in         string
		out        string
		defaultURL string
	)

	cmd := &cobra.Command{
		Use:   "provision",
		Short: "Send a provisioning payload and write the response",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cfg, logger, err := g.setup(cmd.Context())
			if err != nil {
				return err
			}
			defer logger.Sync()

			s, err := scheme.Parse(schemeName)
			if err != nil {
				return err
			}

			data, err := readInput(in)
			if err != nil {
				return err
			}

			client, err := drmlicense.NewClientFromConfig(cfg.Client)
			if err != nil {
				return err
			}

			resp, err := client.ExecuteProvisionRequest(ctx, s, drmlicense.ProvisionRequest{
				DefaultURL: defaultURL,
				Data:       data,
			})
			if err != nil {
				return err
			}

			return writeOutput(out, resp)
		},
	}

	cmd.Flags().StringVarP(&schemeName, "scheme", "s", "widevine", "DRM scheme name or system ID")
	cmd.Flags().StringVarP(&in, "in", "i", "-", "Provisioning payload file (- for stdin)")
	cmd.Flags().StringVarP(&out, "out", "o", "-", "Response output file (- for stdout)")
	cmd.Flags().StringVarP(&defaultURL, "url", "u", "", "Provisioning server URL")
	cmd.MarkFlagRequired("url")

	return cmd
}

func serveCmd(g *globals) *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the license proxy and its metrics",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cfg, logger, err := g.setup(cmd.Context())
			if err != nil {
				return err
			}
			defer logger.Sync()

			if !cmd.Flags().Changed("addr") && cfg.Server.Address != "" {
				addr = cfg.Server.Address
			}

			registry := prometheus.NewRegistry()
			requests := prometheus.NewCounterVec(prometheus.CounterOpts{
				Name: drmlicense.RequestsTotalCounterName,
				Help: drmlicense.RequestsTotalCounterHelp,
			}, []string{drmlicense.TypeLabel, drmlicense.OutcomeLabel})
			redirects := prometheus.NewCounter(prometheus.CounterOpts{
				Name: transport.ManualRedirectsCounterName,
				Help: transport.ManualRedirectsCounterHelp,
			})
			registry.MustRegister(requests, redirects)

			getLogger := func(context.Context) *zap.Logger { return logger }
			client, err := drmlicense.NewClientFromConfig(cfg.Client,
				drmlicense.GetLogger(getLogger),
				drmlicense.RequestsTotal(requests),
				drmlicense.ManualRedirectsTotal(redirects),
			)
			if err != nil {
				return err
			}

			mux := proxy.NewHandler(client, proxy.HandlerConfig{
				GetLogger:      getLogger,
				MaxRequestSize: cfg.Server.MaxRequestSize,
				AllowServerURL: cfg.Server.AllowServerURL,
				ProvisionURL:   cfg.Server.ProvisionURL,
				ProvisionHosts: cfg.Server.ProvisionHosts,
			})
			mux.Handle("GET /metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))

			server := &http.Server{
				Addr:              addr,
				Handler:           mux,
				ReadHeaderTimeout: 10 * time.Second,
			}

			ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
			defer stop()

			errs := make(chan error, 1)
			go func() {
				logger.Info("Serving license proxy", zap.String("address", addr))
				errs <- server.ListenAndServe()
			}()

			select {
			case err := <-errs:
				return err
			case <-ctx.Done():
			}

			shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
			defer cancel()

			if err := server.Shutdown(shutdownCtx); err != nil {
				return err
			}
			if err := <-errs; !errors.Is(err, http.ErrServerClosed) {
				return err
			}

			logger.Info("License proxy stopped")
			return nil
		},
	}

	cmd.Flags().StringVarP(&addr, "addr", "a", ":8080", "Listen address")

	return cmd
}

func readInput(path string) ([]byte, error) {
	if path == "" || path == "-" {
		return io.ReadAll(os.Stdin)
	}

	return os.ReadFile(path)
}

func writeOutput(path string, data []byte) error {
	if path == "" || path == "-" {
		_, err := os.Stdout.Write(data)
		return err
	}

	return os.WriteFile(path, data, 0o600)
}
