// Package config loads runtime configuration for the field agent client.
//
// Sources & precedence
//
//  1. Built-in defaults (see (*Config).LoadDefaults).
//  2. Optional JSON file (see parseJson) selected via flags: -c or -config.
//  3. Environment variables prefixed with FIELDSYNC_ (see parseEnv). A dotenv
//     file given with -e/-env-file, or ./.env when present, is read first;
//     real environment variables win over dotenv values.
//  4. Command-line flags (see parseFlags), which override earlier values.
//
// Supported flags
//
//	-a string   base URL of the backend REST API
//	-d string   path to the local SQLite database
//	-i int      online status check interval (seconds)
//	-s int      auto-sync interval (seconds, 0 disables)
//	-t int      backend request timeout (seconds)
//	-l string   log level
//	-m string   metrics listen address
//
// # JSON schema
//
// Durations use timex.Duration, so values can be strings like "3s" or
// integer nanoseconds:
//
//	{
//	  "server_base_url": "https://cmu.example.org/api",
//	  "database_path": "/data/fieldsync.db",
//	  "online_check_interval": "5s",
//	  "auto_sync_interval": "15m",
//	  "request_timeout": "30s",
//	  "log_level": "debug",
//	  "log_format": "json",
//	  "metrics_addr": ":9102"
//	}
package config
