package config

import "time"

// Config holds runtime settings for the studyport CLI.
//
// Fields:
//   - ServerBaseURL: base URL of the portal's REST API.
//   - DatabasePath: path of the local SQLite cache database.
//   - RequestTimeout: per-request HTTP timeout.
//   - OnlineCheckInterval: how often the client probes server reachability.
//   - HeartbeatInterval: telemetry heartbeat period while a note is open.
//   - ProgressDebounce: quiet period before dirty reading progress is flushed.
type Config struct {
	ServerBaseURL       string
	DatabasePath        string
	RequestTimeout      time.Duration
	OnlineCheckInterval time.Duration
	HeartbeatInterval   time.Duration
	ProgressDebounce    time.Duration
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.ServerBaseURL = "http://127.0.0.1:8080"
	c.DatabasePath = "studyport.db"
	c.RequestTimeout = 10 * time.Second
	c.OnlineCheckInterval = 3 * time.Second
	c.HeartbeatInterval = 15 * time.Second
	c.ProgressDebounce = 2 * time.Second
}

// LoadConfig constructs a Config, applies defaults, then overlays values from
// the environment (including a .env file if present), JSON (if present) and
// command-line flags. Later sources take precedence over earlier ones.
func LoadConfig() *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseEnv(cfg)
	parseJson(cfg)
	parseFlags(cfg)
	return cfg
}
