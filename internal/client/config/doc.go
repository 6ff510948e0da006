// Package config loads runtime configuration for the studyport CLI.
//
// Sources & precedence
//
//  1. Built-in defaults (see (*Config).LoadDefaults).
//  2. Environment variables, optionally seeded from a .env file (see parseEnv).
//  3. Optional JSON file (see parseJson) selected via flags: -c or -config.
//  4. Command-line flags (see parseFlags), which override earlier values.
//
// Supported flags
//
//	-a string   base URL of the portal REST API
//	-b string   path of the local SQLite cache database
//	-i int      online status check interval (seconds)
//
// # JSON schema
//
// The JSON loader uses timex.Duration for intervals, so values can be either
// strings like "3s" or integer nanoseconds:
//
//	{
//	  "server_base_url": "https://portal.example.org",
//	  "database_path": "studyport.db",
//	  "request_timeout": "10s",
//	  "online_check_interval": "3s",
//	  "heartbeat_interval": "15s",
//	  "progress_debounce": "2s"
//	}
//
// Primary API
//
//   - type Config                     — the resolved runtime settings
//   - func LoadConfig() *Config       — builds Config by applying defaults, env, JSON, then flags
//   - func (*Config) LoadDefaults()   — sets sensible defaults
package config
