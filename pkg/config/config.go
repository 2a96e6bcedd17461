package config

import (
	"fmt"
	"time"

	"github.com/spf13/viper"
)

// Config holds all configuration for a lockaudit run.
type Config struct {
	// SelfName is the audited project's own package name. The manifest
	// reader drops this entry since it is not a third-party dependency.
	SelfName string `mapstructure:"self_name"`

	// Concurrency is the bounded scheduler's admission ceiling.
	Concurrency int `mapstructure:"concurrency"`

	// RegistryBaseURL points at the crates.io style metadata API.
	RegistryBaseURL string `mapstructure:"registry_base_url"`

	// PolicyPath optionally names a YAML policy file. Empty means the
	// built-in allow-list (MIT marker only).
	PolicyPath string `mapstructure:"policy_path"`

	// GitHubToken authenticates source-hosting API requests. Optional;
	// without it GitHub's unauthenticated rate limit applies.
	GitHubToken string `mapstructure:"github_token"`

	// RequestTimeout bounds each individual HTTP request.
	RequestTimeout time.Duration `mapstructure:"request_timeout"`
}

const (
	defaultConcurrency    = 10
	defaultRegistryURL    = "https://crates.io/api/v1"
	defaultRequestTimeout = 30 * time.Second
)

// Load builds configuration from defaults and environment variables.
// Environment keys use the LOCKAUDIT_ prefix (e.g. LOCKAUDIT_SELF_NAME);
// GITHUB_TOKEN is honored as-is for compatibility with CI environments.
func Load() (*Config, error) {
	v := viper.New()

	v.SetDefault("self_name", "")
	v.SetDefault("concurrency", defaultConcurrency)
	v.SetDefault("registry_base_url", defaultRegistryURL)
	v.SetDefault("policy_path", "")
	v.SetDefault("request_timeout", defaultRequestTimeout)

	v.SetEnvPrefix("LOCKAUDIT")
	v.AutomaticEnv()
	if err := v.BindEnv("github_token", "LOCKAUDIT_GITHUB_TOKEN", "GITHUB_TOKEN"); err != nil {
		return nil, fmt.Errorf("failed to bind token env: %w", err)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if cfg.Concurrency <= 0 {
		cfg.Concurrency = defaultConcurrency
	}
	if cfg.RegistryBaseURL == "" {
		cfg.RegistryBaseURL = defaultRegistryURL
	}
	if cfg.RequestTimeout <= 0 {
		cfg.RequestTimeout = defaultRequestTimeout
	}

	return &cfg, nil
}
