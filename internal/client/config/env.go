package config

import (
	"os"
	"time"

	"github.com/joho/godotenv"
)

// Environment variable names recognized by parseEnv.
const (
	envServerBaseURL       = "STUDYPORT_SERVER_URL"
	envDatabasePath        = "STUDYPORT_DB_PATH"
	envRequestTimeout      = "STUDYPORT_REQUEST_TIMEOUT"
	envOnlineCheckInterval = "STUDYPORT_ONLINE_CHECK_INTERVAL"
	envHeartbeatInterval   = "STUDYPORT_HEARTBEAT_INTERVAL"
	envProgressDebounce    = "STUDYPORT_PROGRESS_DEBOUNCE"
)

// parseEnv overlays Config with values from the process environment. A .env
// file in the working directory is loaded first when present; real
// environment variables win over the file per godotenv semantics. Duration
// variables use time.ParseDuration syntax ("10s", "1m30s"); unparsable values
// are ignored.
func parseEnv(cfg *Config) {
	_ = godotenv.Load()

	if v := os.Getenv(envServerBaseURL); v != "" {
		cfg.ServerBaseURL = v
	}
	if v := os.Getenv(envDatabasePath); v != "" {
		cfg.DatabasePath = v
	}
	overlayDuration(&cfg.RequestTimeout, envRequestTimeout)
	overlayDuration(&cfg.OnlineCheckInterval, envOnlineCheckInterval)
	overlayDuration(&cfg.HeartbeatInterval, envHeartbeatInterval)
	overlayDuration(&cfg.ProgressDebounce, envProgressDebounce)
}

func overlayDuration(dst *time.Duration, name string) {
	v := os.Getenv(name)
	if v == "" {
		return
	}
	if d, err := time.ParseDuration(v); err == nil {
		*dst = d
	}
}
