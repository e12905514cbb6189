package logger

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSetupRejectsUnknownLevel(t *testing.T) {
	err := Setup(LogConfig{Level: "loud", Output: "stderr"})
	assert.Error(t, err)
}

func TestSetupWritesJSONToFile(t *testing.T) {
	t.Cleanup(func() {
		zerolog.SetGlobalLevel(zerolog.TraceLevel)
		Discard()
	})
	path := filepath.Join(t.TempDir(), "portal.log")

	require.NoError(t, Setup(LogConfig{Level: "INFO", Format: "json", Output: path}))
	l := WithTenantID(WithRequestID(WithComponent("test"), "req-1"), "t-1")
	l.Debug().Msg("hidden")
	l.Info().Msg("visible")

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	out := string(data)
	assert.NotContains(t, out, "hidden")
	assert.Contains(t, out, `"message":"visible"`)
	assert.Contains(t, out, `"component":"test"`)
	assert.Contains(t, out, `"request_id":"req-1"`)
	assert.Contains(t, out, `"tenant_id":"t-1"`)
}
