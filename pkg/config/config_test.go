package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 10, cfg.Concurrency)
	assert.Equal(t, "https://crates.io/api/v1", cfg.RegistryBaseURL)
	assert.Equal(t, 30*time.Second, cfg.RequestTimeout)
	assert.Empty(t, cfg.PolicyPath)
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Setenv("LOCKAUDIT_SELF_NAME", "blockcheck")
	t.Setenv("LOCKAUDIT_CONCURRENCY", "4")
	t.Setenv("GITHUB_TOKEN", "ghp_test")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "blockcheck", cfg.SelfName)
	assert.Equal(t, 4, cfg.Concurrency)
	assert.Equal(t, "ghp_test", cfg.GitHubToken)
}

func TestLoadTokenPrefixedEnvWins(t *testing.T) {
	t.Setenv("GITHUB_TOKEN", "ghp_plain")
	t.Setenv("LOCKAUDIT_GITHUB_TOKEN", "ghp_prefixed")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "ghp_prefixed", cfg.GitHubToken)
}
