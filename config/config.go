// Copyright (C) 2025 sage-x-project
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Lesser General Public License as
// published by the Free Software Foundation, either version 3 of the
// License, or (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE. See the
// GNU Lesser General Public License for more details.
//
// You should have received a copy of the GNU Lesser General Public License
// along with this program. If not, see <https://www.gnu.org/licenses/>.

// SPDX-License-Identifier: LGPL-3.0-or-later

// Package config loads and validates the relay server's runtime
// configuration from a YAML file, overridden by environment variables.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config is the relay server's full runtime configuration.
type Config struct {
	Environment string `yaml:"environment" json:"environment"`

	InstanceName string `yaml:"instance_name" json:"instance_name"`

	// ListenAddr is the libp2p overlay listen multiaddr, e.g.
	// "/ip4/0.0.0.0/tcp/4001".
	ListenAddr string `yaml:"listen_addr" json:"listen_addr"`
	// HTTPAddr is the address the REST API listens on, e.g. ":8080".
	HTTPAddr string `yaml:"http_addr" json:"http_addr"`

	BlobStoragePath string `yaml:"blob_storage_path" json:"blob_storage_path"`
	MaxBlobSize     int    `yaml:"max_blob_size" json:"max_blob_size"`

	// PaymentServerPubkeyHex is the 64-hex-char Ed25519 public key of the
	// payment server that issues premium entitlement tokens.
	PaymentServerPubkeyHex string `yaml:"payment_server_pubkey" json:"payment_server_pubkey"`
	PremiumRequired        bool   `yaml:"premium_required" json:"premium_required"`

	// AdminToken gates the /admin/* routes. Empty disables the admin API.
	AdminToken string `yaml:"admin_token" json:"admin_token"`

	RegistrationOpen bool `yaml:"registration_open" json:"registration_open"`
	MaxPeers         int  `yaml:"max_peers" json:"max_peers"`

	// DatabaseURL, when set, selects the Postgres-backed store over the
	// in-memory one.
	DatabaseURL string `yaml:"database_url" json:"database_url"`

	BootstrapPeersFile string   `yaml:"bootstrap_peers_file" json:"bootstrap_peers_file"`
	BootstrapPeers     []string `yaml:"bootstrap_peers" json:"bootstrap_peers"`

	RateLimitRate  float64 `yaml:"rate_limit_rate" json:"rate_limit_rate"`
	RateLimitBurst float64 `yaml:"rate_limit_burst" json:"rate_limit_burst"`

	Logging LoggingConfig `yaml:"logging" json:"logging"`
	Health  HealthConfig  `yaml:"health" json:"health"`
}

// LoggingConfig controls the structured logger.
type LoggingConfig struct {
	Level  string `yaml:"level" json:"level"`
	Format string `yaml:"format" json:"format"`
	Output string `yaml:"output" json:"output"`
}

// HealthConfig controls the health-check HTTP endpoint.
type HealthConfig struct {
	Enabled bool `yaml:"enabled" json:"enabled"`
	Port    int  `yaml:"port" json:"port"`
}

// LoadFromFile reads and parses a YAML config file, applying defaults
// afterward.
func LoadFromFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: read %s: %w", path, err)
	}

	cfg := &Config{}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("config: parse %s: %w", path, err)
	}

	setDefaults(cfg)
	return cfg, nil
}

// SaveToFile writes cfg as YAML to path.
func SaveToFile(cfg *Config, path string) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("config: marshal: %w", err)
	}
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return fmt.Errorf("config: write %s: %w", path, err)
	}
	return nil
}

func setDefaults(cfg *Config) {
	if cfg.Environment == "" {
		cfg.Environment = "development"
	}
	if cfg.InstanceName == "" {
		cfg.InstanceName = "liberte-relay"
	}
	if cfg.ListenAddr == "" {
		cfg.ListenAddr = "/ip4/0.0.0.0/tcp/4001"
	}
	if cfg.HTTPAddr == "" {
		cfg.HTTPAddr = ":8080"
	}
	if cfg.BlobStoragePath == "" {
		cfg.BlobStoragePath = "./data/blobs"
	}
	if cfg.MaxBlobSize == 0 {
		cfg.MaxBlobSize = 50 * 1024 * 1024
	}
	if cfg.MaxPeers == 0 {
		cfg.MaxPeers = 256
	}
	if cfg.RateLimitRate == 0 {
		cfg.RateLimitRate = 10.0
	}
	if cfg.RateLimitBurst == 0 {
		cfg.RateLimitBurst = 30.0
	}
	if cfg.Logging.Level == "" {
		cfg.Logging.Level = "info"
	}
	if cfg.Logging.Format == "" {
		cfg.Logging.Format = "json"
	}
	if cfg.Logging.Output == "" {
		cfg.Logging.Output = "stdout"
	}
	if cfg.Health.Port == 0 {
		cfg.Health.Port = 9090
	}
}

// Validate reports configuration errors that should stop startup.
func Validate(cfg *Config) error {
	if cfg.PremiumRequired && cfg.PaymentServerPubkeyHex == "" {
		return fmt.Errorf("config: premium_required is set but payment_server_pubkey is empty")
	}
	if cfg.MaxBlobSize <= 0 {
		return fmt.Errorf("config: max_blob_size must be positive")
	}
	if cfg.MaxPeers <= 0 {
		return fmt.Errorf("config: max_peers must be positive")
	}
	return nil
}
