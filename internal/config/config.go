// Package config loads launcher configuration from a YAML file with
// environment overrides for secrets and endpoints.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config is the top-level launcher configuration.
type Config struct {
	RPC       RPC       `yaml:"rpc"`
	Endpoints Endpoints `yaml:"endpoints"`
	Wallet    Wallet    `yaml:"wallet"`
	Storage   Storage   `yaml:"storage"`
	Metrics   Metrics   `yaml:"metrics"`
}

// RPC defines the ledger node connection.
type RPC struct {
	URL string `yaml:"url"`
	// WSURL enables the websocket confirmation fast path when set.
	WSURL string `yaml:"ws_url"`
}

// Endpoints defines the token-launch service endpoints. Empty values select
// the production defaults.
type Endpoints struct {
	Metadata string `yaml:"metadata"` // metadata-hosting upload endpoint
	Trade    string `yaml:"trade"`    // unsigned-transaction builder endpoint
}

// Wallet defines the signing identity source. The secret key itself is only
// read from the environment, never from the file.
type Wallet struct {
	// SecretKeyEnv names the environment variable holding the base58
	// 64-byte secret key.
	SecretKeyEnv string `yaml:"secret_key_env"`
}

// Storage defines the optional persistence backends. Empty DSNs disable the
// corresponding store.
type Storage struct {
	PostgresDSN   string `yaml:"postgres_dsn"`
	ClickhouseDSN string `yaml:"clickhouse_dsn"`
}

// Metrics defines the Prometheus exposition endpoint.
type Metrics struct {
	Addr string `yaml:"addr"` // e.g. ":9102"; empty disables the endpoint
}

// Default environment variable for the wallet secret key.
const DefaultSecretKeyEnv = "LAUNCHER_WALLET_SECRET_KEY"

// Environment override names.
const (
	envRPCURL        = "LAUNCHER_RPC_URL"
	envRPCWSURL      = "LAUNCHER_RPC_WS_URL"
	envPostgresDSN   = "LAUNCHER_POSTGRES_DSN"
	envClickhouseDSN = "LAUNCHER_CLICKHOUSE_DSN"
)

// Load reads the configuration file and applies environment overrides.
// An empty path yields a config built from environment and defaults only.
func Load(path string) (*Config, error) {
	cfg := &Config{}

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config file: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config file: %w", err)
		}
	}

	if v := os.Getenv(envRPCURL); v != "" {
		cfg.RPC.URL = v
	}
	if v := os.Getenv(envRPCWSURL); v != "" {
		cfg.RPC.WSURL = v
	}
	if v := os.Getenv(envPostgresDSN); v != "" {
		cfg.Storage.PostgresDSN = v
	}
	if v := os.Getenv(envClickhouseDSN); v != "" {
		cfg.Storage.ClickhouseDSN = v
	}

	if cfg.Wallet.SecretKeyEnv == "" {
		cfg.Wallet.SecretKeyEnv = DefaultSecretKeyEnv
	}

	if cfg.RPC.URL == "" {
		return nil, fmt.Errorf("rpc.url is required (or set %s)", envRPCURL)
	}

	return cfg, nil
}

// WalletSecretKey reads the wallet secret key from the configured
// environment variable.
func (c *Config) WalletSecretKey() (string, error) {
	key := os.Getenv(c.Wallet.SecretKeyEnv)
	if key == "" {
		return "", fmt.Errorf("environment variable %s is not set", c.Wallet.SecretKeyEnv)
	}
	return key, nil
}
