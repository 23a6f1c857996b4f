package config

import (
	"errors"
	"io/fs"
	"os"
	"time"

	"github.com/dmitrijs2005/fieldsync/internal/flagx"
	"github.com/joho/godotenv"
)

const envPrefix = "FIELDSYNC_"

const defaultEnvFile = ".env"

// parseEnv overlays Config with FIELDSYNC_* variables. Values come from the
// dotenv file (explicit -e/-env-file, else ./.env if it exists) and the
// process environment, the latter taking precedence. Panics if an explicitly
// requested dotenv file cannot be read or a duration is malformed.
func parseEnv(cfg *Config) {
	values := map[string]string{}

	path := flagx.EnvFileFlags()
	explicit := path != ""
	if !explicit {
		path = defaultEnvFile
	}

	fileValues, err := godotenv.Read(path)
	switch {
	case err == nil:
		values = fileValues
	case explicit || !errors.Is(err, fs.ErrNotExist):
		panic(err)
	}

	lookup := func(key string) (string, bool) {
		if v, ok := os.LookupEnv(envPrefix + key); ok {
			return v, true
		}
		v, ok := values[envPrefix+key]
		return v, ok
	}

	applyEnv(cfg, lookup)
}

func applyEnv(cfg *Config, lookup func(string) (string, bool)) {
	if v, ok := lookup("SERVER_URL"); ok {
		cfg.ServerBaseURL = v
	}
	if v, ok := lookup("DB_PATH"); ok {
		cfg.DatabasePath = v
	}
	if v, ok := lookup("ONLINE_CHECK_INTERVAL"); ok {
		cfg.OnlineCheckInterval = mustDuration(v)
	}
	if v, ok := lookup("AUTO_SYNC_INTERVAL"); ok {
		cfg.AutoSyncInterval = mustDuration(v)
	}
	if v, ok := lookup("REQUEST_TIMEOUT"); ok {
		cfg.RequestTimeout = mustDuration(v)
	}
	if v, ok := lookup("LOG_LEVEL"); ok {
		cfg.LogLevel = v
	}
	if v, ok := lookup("LOG_FORMAT"); ok {
		cfg.LogFormat = v
	}
	if v, ok := lookup("METRICS_ADDR"); ok {
		cfg.MetricsAddr = v
	}
}

func mustDuration(s string) time.Duration {
	d, err := time.ParseDuration(s)
	if err != nil {
		panic(err)
	}
	return d
}
