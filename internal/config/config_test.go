package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{"FBR_API_BASE_URL", "FBR_API_TIMEOUT", "FBR_SESSION_FILE", "FBR_PAGE_SIZE", "GOOGLE_SHEET_URL", "LOG_LEVEL"} {
		t.Setenv(key, "")
	}
}

func TestLoadDefaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, DefaultBaseURL, cfg.APIBaseURL)
	assert.Equal(t, DefaultTimeout, cfg.APITimeout)
	assert.Equal(t, DefaultPageSize, cfg.PageSize)
	assert.NotEmpty(t, cfg.SessionFile)
	assert.Equal(t, "warn", cfg.GetLoggerConfig().Level)
}

func TestLoadOverrides(t *testing.T) {
	clearEnv(t)
	t.Setenv("FBR_API_BASE_URL", "http://localhost:8000/api")
	t.Setenv("FBR_API_TIMEOUT", "90")
	t.Setenv("FBR_PAGE_SIZE", "25")
	t.Setenv("FBR_SESSION_FILE", "/tmp/fbr-session")
	t.Setenv("LOG_LEVEL", "debug")

	cfg, err := Load()
	require.NoError(t, err)

	api := cfg.GetAPIConfig()
	assert.Equal(t, "http://localhost:8000/api", api.BaseURL)
	assert.Equal(t, 90*time.Second, api.Timeout)
	assert.Equal(t, 25, cfg.PageSize)
	assert.Equal(t, "/tmp/fbr-session", cfg.SessionFile)
	assert.Equal(t, "debug", cfg.GetLoggerConfig().Level)
}

func TestLoadAcceptsDurationSyntax(t *testing.T) {
	clearEnv(t)
	t.Setenv("FBR_API_TIMEOUT", "1m30s")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 90*time.Second, cfg.APITimeout)
}

func TestLoadRejectsInvalidValues(t *testing.T) {
	tests := []struct {
		name  string
		key   string
		value string
	}{
		{"relative url", "FBR_API_BASE_URL", "backend.local/api"},
		{"ftp url", "FBR_API_BASE_URL", "ftp://backend.local"},
		{"bad timeout", "FBR_API_TIMEOUT", "soon"},
		{"negative timeout", "FBR_API_TIMEOUT", "-5s"},
		{"bad page size", "FBR_PAGE_SIZE", "ten"},
		{"zero page size", "FBR_PAGE_SIZE", "0"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearEnv(t)
			t.Setenv(tt.key, tt.value)

			_, err := Load()
			assert.Error(t, err)
		})
	}
}

func TestDefault(t *testing.T) {
	cfg := Default()
	require.NoError(t, cfg.validate())
	assert.Equal(t, DefaultBaseURL, cfg.GetAPIConfig().BaseURL)
}
