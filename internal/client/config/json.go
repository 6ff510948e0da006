package config

import (
	"encoding/json"
	"os"
	"time"

	"github.com/mpetrenko/studyport/internal/flagx"
	"github.com/mpetrenko/studyport/internal/timex"
)

// JsonConfig is a DTO used exclusively for JSON unmarshalling. It relies on
// timex.Duration so JSON can specify intervals either as strings like "3s"
// or as integer nanoseconds. After parsing, values are copied into the
// runtime Config (which uses time.Duration).
type JsonConfig struct {
	ServerBaseURL       string         `json:"server_base_url"`
	DatabasePath        string         `json:"database_path"`
	RequestTimeout      timex.Duration `json:"request_timeout"`
	OnlineCheckInterval timex.Duration `json:"online_check_interval"`
	HeartbeatInterval   timex.Duration `json:"heartbeat_interval"`
	ProgressDebounce    timex.Duration `json:"progress_debounce"`
}

// parseJson overlays Config with values loaded from a JSON file.
//
// The file path comes from the -c or -config flag via flagx.JsonConfigFlags;
// with no flag set, no JSON is loaded and the function returns. Read or
// unmarshal errors panic (caller should recover if desired). Zero-valued
// fields in the file leave the corresponding Config fields untouched.
func parseJson(cfg *Config) {
	jsonConfigFile := flagx.JsonConfigFlags()
	if jsonConfigFile == "" {
		return
	}

	var jc JsonConfig

	data, err := os.ReadFile(jsonConfigFile)
	if err != nil {
		panic(err)
	}
	if err := json.Unmarshal(data, &jc); err != nil {
		panic(err)
	}

	if jc.ServerBaseURL != "" {
		cfg.ServerBaseURL = jc.ServerBaseURL
	}
	if jc.DatabasePath != "" {
		cfg.DatabasePath = jc.DatabasePath
	}
	overlayJsonDuration(&cfg.RequestTimeout, jc.RequestTimeout)
	overlayJsonDuration(&cfg.OnlineCheckInterval, jc.OnlineCheckInterval)
	overlayJsonDuration(&cfg.HeartbeatInterval, jc.HeartbeatInterval)
	overlayJsonDuration(&cfg.ProgressDebounce, jc.ProgressDebounce)
}

func overlayJsonDuration(dst *time.Duration, src timex.Duration) {
	if src.Duration > 0 {
		*dst = src.Duration
	}
}
