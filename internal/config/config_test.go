package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	opts, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.NoError(t, err)

	assert.Equal(t, "http://localhost/carelink_api", opts.BaseURL)
	assert.Equal(t, "session.json", opts.StoragePath)
	assert.Equal(t, "info", opts.LogLevel)
	assert.Equal(t, 15*time.Second, opts.RequestTimeout)
}

func TestLoad_EnvOverridesDefaults(t *testing.T) {
	t.Setenv("CARELINK_API_URL", "https://api.carelink.example")
	t.Setenv("CARELINK_LOG_LEVEL", "debug")

	opts, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.NoError(t, err)

	assert.Equal(t, "https://api.carelink.example", opts.BaseURL)
	assert.Equal(t, "debug", opts.LogLevel)
}

func TestLoad_FileThenEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(
		"base_url: https://file.carelink.example\nlog_level: warn\n",
	), 0o600))

	t.Setenv("CARELINK_TIMEOUT", "5s")
	opts, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "https://file.carelink.example", opts.BaseURL)
	assert.Equal(t, "warn", opts.LogLevel)
	assert.Equal(t, 5*time.Second, opts.RequestTimeout)

	// Environment wins over the file.
	t.Setenv("CARELINK_API_URL", "https://env.carelink.example")
	opts, err = Load(path)
	require.NoError(t, err)
	assert.Equal(t, "https://env.carelink.example", opts.BaseURL)
}
