// SPDX-FileCopyrightText: 2025 Comcast Cable Communications Management, LLC
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"fmt"
	"os"

	"github.com/xmidt-org/drmlicense"
	"gopkg.in/yaml.v3"
)

// Config is the CLI configuration file.
type Config struct {
	Client drmlicense.Config `yaml:"client"`
	Server ServerConfig      `yaml:"server"`
	Debug  bool              `yaml:"debug"`
}

// ServerConfig configures the license proxy. Callers may only choose the
// upstream server when AllowServerURL is set, and may only provision against
// ProvisionURL or one of ProvisionHosts.
type ServerConfig struct {
	Address        string   `yaml:"address"`
	MaxRequestSize int64    `yaml:"maxRequestSize"`
	AllowServerURL bool     `yaml:"allowServerURL"`
	ProvisionURL   string   `yaml:"provisionURL"`
	ProvisionHosts []string `yaml:"provisionHosts"`
}

func loadConfig(path string) (Config, error) {
	var cfg Config
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("failed to read config: %w", err)
	}

	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("failed to parse config %s: %w", path, err)
	}

	return cfg, nil
}
