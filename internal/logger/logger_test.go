package logger

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_WritesToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "toolhost.log")

	lg, err := New(Config{Level: "debug", File: path})
	require.NoError(t, err)
	defer lg.Close()

	zl := lg.Zerolog()
	zl.Info().Str("tool", "echo").Msg("test entry")

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "test entry")
	assert.Contains(t, string(data), `"tool":"echo"`)
}

func TestNew_BadLevelFallsBackToInfo(t *testing.T) {
	lg, err := New(Config{Level: "chatty", Console: true})
	require.NoError(t, err)
	defer lg.Close()

	assert.Equal(t, "info", lg.Zerolog().GetLevel().String())
}
