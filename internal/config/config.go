// Package config loads converter configuration from a YAML file with
// environment overrides.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Environment variable overrides, applied after the file is read.
const (
	envAccountID = "BROKERFEED_ACCOUNT"
	envCurrency  = "BROKERFEED_CURRENCY"
)

// Config holds everything injected from outside the conversion itself.
type Config struct {
	// AccountID is stamped onto every activity; the tracker requires it.
	AccountID string `yaml:"account_id"`
	// DefaultCurrency is used for synthetic manual securities when the row
	// carries no currency of its own.
	DefaultCurrency string `yaml:"default_currency"`
	// OverridesFile is the path of the security identity override list.
	OverridesFile string `yaml:"overrides_file"`
	// CacheFile enables the sqlite lookup cache when set.
	CacheFile string `yaml:"cache_file"`
	// LookupBaseURL overrides the Yahoo Finance host (tests, proxies).
	LookupBaseURL string `yaml:"lookup_base_url"`
}

// Default returns the configuration used when no file is given
func Default() Config {
	return Config{
		DefaultCurrency: "USD",
		OverridesFile:   "overrides.txt",
	}
}

// Load reads a YAML config file and applies environment overrides. With an
// empty path only defaults and the environment apply.
func Load(path string) (Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("failed to read config file %s: %w", path, err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("failed to parse config file %s (check syntax and indentation): %w", path, err)
		}
	}

	if v := os.Getenv(envAccountID); v != "" {
		cfg.AccountID = v
	}
	if v := os.Getenv(envCurrency); v != "" {
		cfg.DefaultCurrency = v
	}

	if cfg.DefaultCurrency == "" {
		cfg.DefaultCurrency = "USD"
	}

	return cfg, nil
}
