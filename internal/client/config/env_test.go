package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func Test_applyEnv(t *testing.T) {
	vars := map[string]string{
		"SERVER_URL":            "http://env/api",
		"DB_PATH":               "/data/agent.db",
		"ONLINE_CHECK_INTERVAL": "7s",
		"AUTO_SYNC_INTERVAL":    "0s",
		"REQUEST_TIMEOUT":       "1m",
		"LOG_LEVEL":             "debug",
		"LOG_FORMAT":            "json",
		"METRICS_ADDR":          "127.0.0.1:9102",
	}
	lookup := func(k string) (string, bool) { v, ok := vars[k]; return v, ok }

	var cfg Config
	cfg.LoadDefaults()
	applyEnv(&cfg, lookup)

	assert.Equal(t, Config{
		ServerBaseURL:       "http://env/api",
		DatabasePath:        "/data/agent.db",
		OnlineCheckInterval: 7 * time.Second,
		AutoSyncInterval:    0,
		RequestTimeout:      time.Minute,
		LogLevel:            "debug",
		LogFormat:           "json",
		MetricsAddr:         "127.0.0.1:9102",
	}, cfg)
}

func Test_applyEnv_BadDurationPanics(t *testing.T) {
	lookup := func(k string) (string, bool) {
		if k == "REQUEST_TIMEOUT" {
			return "forever", true
		}
		return "", false
	}
	require.Panics(t, func() { applyEnv(&Config{}, lookup) })
}

func Test_parseEnv_ProcessEnvWinsOverDotenv(t *testing.T) {
	origArgs := os.Args
	t.Cleanup(func() { os.Args = origArgs })

	dir := t.TempDir()
	path := writeTempFile(t, dir, "agent.env", "FIELDSYNC_SERVER_URL=http://dotenv/api\nFIELDSYNC_LOG_LEVEL=debug\n")
	t.Setenv("FIELDSYNC_LOG_LEVEL", "error")

	os.Args = []string{"testbin", "-env-file", path}

	cfg := &Config{}
	parseEnv(cfg)

	assert.Equal(t, "http://dotenv/api", cfg.ServerBaseURL)
	assert.Equal(t, "error", cfg.LogLevel)
}

func Test_parseEnv_MissingExplicitFilePanics(t *testing.T) {
	origArgs := os.Args
	t.Cleanup(func() { os.Args = origArgs })

	os.Args = []string{"testbin", "-e", filepath.Join(t.TempDir(), "missing.env")}
	require.Panics(t, func() { parseEnv(&Config{}) })
}
