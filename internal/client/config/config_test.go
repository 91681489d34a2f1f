package config

import (
	"os"
	"testing"
	"time"

	"github.com/dmitrijs2005/osheen/internal/client/client"
	"github.com/dmitrijs2005/osheen/internal/common"
	"github.com/dmitrijs2005/osheen/internal/flagx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	var c Config
	c.LoadDefaults()

	assert.Equal(t, "http://127.0.0.1:5000/api", c.ServerBaseURL)
	assert.Equal(t, common.DefaultDatabaseFile, c.StorePath)
	assert.Equal(t, 10*time.Second, c.RequestTimeout)
	assert.Equal(t, 5*time.Minute, c.CheckInterval)
	assert.Equal(t, 30*time.Second, c.PingInterval)
	assert.Equal(t, "info", c.LogLevel)
	assert.Equal(t, "text", c.LogFormat)
	assert.Equal(t, client.DefaultEndpoints(), c.Endpoints)
}

func TestLoadConfig_UsesDefaultsBeforeParsing(t *testing.T) {
	origArgs := os.Args
	t.Cleanup(func() { os.Args = origArgs })
	os.Args = []string{"testbin"}
	t.Setenv(flagx.ConfigEnvVar, "")

	cfg := LoadConfig()

	require.NotNil(t, cfg, "LoadConfig must not return nil")
	var want Config
	want.LoadDefaults()
	assert.Equal(t, want, *cfg)
}

func TestLoadConfig_FlagsOverrideJSON(t *testing.T) {
	origArgs := os.Args
	t.Cleanup(func() { os.Args = origArgs })
	t.Setenv(flagx.ConfigEnvVar, "")

	path := writeTempJSON(t, "", "", map[string]any{
		"server_base_url": "https://json.example/api",
		"store_path":      "json.db",
		"check_interval":  "1m",
	})
	os.Args = []string{"testbin", "-c", path, "-a", "https://flag.example/api"}

	cfg := LoadConfig()

	assert.Equal(t, "https://flag.example/api", cfg.ServerBaseURL)
	assert.Equal(t, "json.db", cfg.StorePath)
	assert.Equal(t, time.Minute, cfg.CheckInterval)
	assert.Equal(t, 10*time.Second, cfg.RequestTimeout)
}

func TestLoadConfig_KeepsSubSecondJSONDurations(t *testing.T) {
	origArgs := os.Args
	t.Cleanup(func() { os.Args = origArgs })
	t.Setenv(flagx.ConfigEnvVar, "")

	path := writeTempJSON(t, "", "", map[string]any{
		"request_timeout": "1500ms",
		"check_interval":  "500ms",
		"ping_interval":   "2500ms",
	})
	os.Args = []string{"testbin", "-c", path}

	cfg := LoadConfig()

	assert.Equal(t, 1500*time.Millisecond, cfg.RequestTimeout)
	assert.Equal(t, 500*time.Millisecond, cfg.CheckInterval)
	assert.Equal(t, 2500*time.Millisecond, cfg.PingInterval)
}

func TestLoadConfig_DurationFlagReplacesJSON(t *testing.T) {
	origArgs := os.Args
	t.Cleanup(func() { os.Args = origArgs })
	t.Setenv(flagx.ConfigEnvVar, "")

	path := writeTempJSON(t, "", "", map[string]any{
		"request_timeout": "1500ms",
		"check_interval":  "500ms",
	})
	os.Args = []string{"testbin", "-c", path, "-i", "0"}

	cfg := LoadConfig()

	assert.Equal(t, 1500*time.Millisecond, cfg.RequestTimeout)
	assert.Equal(t, time.Duration(0), cfg.CheckInterval)
}
