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

	assert.Equal(t, "http://localhost:8000", cfg.BaseURL)
	assert.Equal(t, "X-CSRFToken", cfg.CSRFHeader)
	assert.Equal(t, "/_allauth/browser/v1/auth/session", cfg.SessionPath)
	assert.Equal(t, 30*time.Second, cfg.Timeout)
	assert.False(t, cfg.Metrics)
}

func TestLoadFromEnvironment(t *testing.T) {
	t.Setenv("SESSIONKIT_BASE_URL", "https://api.example.com/")
	t.Setenv("SESSIONKIT_CSRF_HEADER", "X-Forgery")
	t.Setenv("SESSIONKIT_TIMEOUT", "5s")
	t.Setenv("SESSIONKIT_METRICS", "true")

	cfg, err := Load()
	require.NoError(t, err)

	// Trailing slash is trimmed so path joining stays predictable.
	assert.Equal(t, "https://api.example.com", cfg.BaseURL)
	assert.Equal(t, "X-Forgery", cfg.CSRFHeader)
	assert.Equal(t, 5*time.Second, cfg.Timeout)
	assert.True(t, cfg.Metrics)
}

func TestValidateRejectsBadScheme(t *testing.T) {
	t.Setenv("SESSIONKIT_BASE_URL", "ftp://example.com")

	_, err := Load()
	assert.Error(t, err)
}

func TestSanitizeClampsTimeout(t *testing.T) {
	cfg := Config{BaseURL: "http://localhost:8000", Timeout: -time.Second}
	cfg.Sanitize()
	assert.Equal(t, 30*time.Second, cfg.Timeout)
}
