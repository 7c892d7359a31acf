package config

import (
	"encoding/json"
	"fmt"
	"os"
	"time"
)

// StructuredJSONConfig mirrors [StructuredConfig] with snake_case keys and
// string durations ("30s", "1h").
type StructuredJSONConfig struct {
	App struct {
		APIURL    string `json:"api_url"`
		SocketURL string `json:"socket_url"`
		LogDir    string `json:"log_dir"`
	} `json:"app,omitempty"`

	Adapter struct {
		RequestTimeout Duration `json:"request_timeout"`
		RetryDelay     Duration `json:"retry_delay"`
		MaxAttempts    int      `json:"max_attempts"`
	} `json:"adapter,omitempty"`

	Storage struct {
		DB struct {
			DSN string `json:"dsn"`
		} `json:"db,omitempty"`
	} `json:"storage,omitempty"`

	Workers struct {
		LockID                  string   `json:"lock_id"`
		LockRetryInterval       Duration `json:"lock_retry_interval"`
		LockHoldInterval        Duration `json:"lock_hold_interval"`
		SocketHeartbeatInterval Duration `json:"socket_heartbeat_interval"`
		SocketReconnectDelay    Duration `json:"socket_reconnect_delay"`
		WatchRestartDelay       Duration `json:"watch_restart_delay"`
		WatchFallbackFirst      Duration `json:"watch_fallback_first"`
		WatchFallbackMin        Duration `json:"watch_fallback_min"`
		WatchFallbackMax        Duration `json:"watch_fallback_max"`
		ResumeCheckInterval     Duration `json:"resume_check_interval"`
	} `json:"workers,omitempty"`

	Watch struct {
		Paths []string `json:"paths"`
	} `json:"watch,omitempty"`
}

func parseJSON(jsonFilePath string) (*StructuredConfig, error) {
	jsonFile, err := os.Open(jsonFilePath)
	if err != nil {
		return nil, fmt.Errorf("error reading a json file: %w", err)
	}
	defer jsonFile.Close()

	var jsonCfg StructuredJSONConfig
	if err := json.NewDecoder(jsonFile).Decode(&jsonCfg); err != nil {
		return nil, fmt.Errorf("error decoding json configs: %w", err)
	}

	w := jsonCfg.Workers
	cfg := &StructuredConfig{
		App: App{
			APIURL:    jsonCfg.App.APIURL,
			SocketURL: jsonCfg.App.SocketURL,
			LogDir:    jsonCfg.App.LogDir,
		},
		Adapter: Adapter{
			RequestTimeout: durationOrZero(jsonCfg.Adapter.RequestTimeout),
			RetryDelay:     durationOrZero(jsonCfg.Adapter.RetryDelay),
			MaxAttempts:    jsonCfg.Adapter.MaxAttempts,
		},
		Storage: Storage{
			DB: DB{DSN: jsonCfg.Storage.DB.DSN},
		},
		Workers: Workers{
			LockID:                  w.LockID,
			LockRetryInterval:       durationOrZero(w.LockRetryInterval),
			LockHoldInterval:        durationOrZero(w.LockHoldInterval),
			SocketHeartbeatInterval: durationOrZero(w.SocketHeartbeatInterval),
			SocketReconnectDelay:    durationOrZero(w.SocketReconnectDelay),
			WatchRestartDelay:       durationOrZero(w.WatchRestartDelay),
			WatchFallbackFirst:      durationOrZero(w.WatchFallbackFirst),
			WatchFallbackMin:        durationOrZero(w.WatchFallbackMin),
			WatchFallbackMax:        durationOrZero(w.WatchFallbackMax),
			ResumeCheckInterval:     durationOrZero(w.ResumeCheckInterval),
		},
		Watch: Watch{Paths: jsonCfg.Watch.Paths},
	}

	return cfg, nil
}

// Duration is a wrapper around time.Duration that supports JSON unmarshaling from strings like "1h", "30s"
type Duration time.Duration

func (d *Duration) UnmarshalJSON(b []byte) error {
	var v interface{}
	if err := json.Unmarshal(b, &v); err != nil {
		return err
	}

	switch value := v.(type) {
	case float64:
		*d = Duration(time.Duration(value))
		return nil
	case string:
		tmp, err := time.ParseDuration(value)
		if err != nil {
			return err
		}
		*d = Duration(tmp)
		return nil
	default:
		return json.Unmarshal(b, (*time.Duration)(d))
	}
}

func (d Duration) MarshalJSON() ([]byte, error) {
	return json.Marshal(time.Duration(d).String())
}

// durationOrZero keeps negative values out so mergo treats them as unset.
func durationOrZero(d Duration) time.Duration {
	if d <= 0 {
		return 0
	}
	return time.Duration(d)
}
