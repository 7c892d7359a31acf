package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// ClientApp holds remote origins and runtime paths.
type ClientApp struct {
	APIURL    string
	SocketURL string
	LogDir    string
}

// ClientAdapter holds the request layer policy.
type ClientAdapter struct {
	// RequestTimeout is the per-attempt timeout.
	RequestTimeout time.Duration
	// RetryDelay is the fixed pause between attempts.
	RetryDelay time.Duration
	// MaxAttempts is the attempt ceiling.
	MaxAttempts int
}

// ClientDB contains local database connection settings for the client.
type ClientDB struct {
	// DSN is the SQLite file path.
	DSN string
}

// ClientStorage groups client storage backend settings.
type ClientStorage struct {
	// DB holds local database settings.
	DB ClientDB
}

// ClientWorkers contains the timing of every background loop.
type ClientWorkers struct {
	LockID                  string
	LockRetryInterval       time.Duration
	LockHoldInterval        time.Duration
	SocketHeartbeatInterval time.Duration
	SocketReconnectDelay    time.Duration
	WatchRestartDelay       time.Duration
	WatchFallbackFirst      time.Duration
	WatchFallbackMin        time.Duration
	WatchFallbackMax        time.Duration
	ResumeCheckInterval     time.Duration
}

// WatchLocation is a local directory bound to a remote sync location.
type WatchLocation struct {
	Path         string
	LocationUUID string
}

// ClientWatch lists the sync locations.
type ClientWatch struct {
	Locations []WatchLocation
}

// ClientConfig is the top-level client configuration assembled from
// [StructuredConfig].
type ClientConfig struct {
	App     ClientApp
	Adapter ClientAdapter
	Storage ClientStorage
	Workers ClientWorkers
	Watch   ClientWatch
}

// GetClientConfig builds and validates the client config from the
// environment, the process arguments and the optional JSON file.
func GetClientConfig() (*ClientConfig, error) {
	return getClientConfig(os.Args[1:])
}

func getClientConfig(args []string) (*ClientConfig, error) {
	cfg, err := GetStructuredConfig(args)
	if err != nil {
		return nil, fmt.Errorf("error get structured config: %w", err)
	}

	clientCfg := newClientConfig(cfg)
	return clientCfg, clientCfg.validate()
}

func newClientConfig(cfg *StructuredConfig) *ClientConfig {
	return &ClientConfig{
		App: ClientApp{
			APIURL:    strings.TrimRight(cfg.App.APIURL, "/"),
			SocketURL: cfg.App.SocketURL,
			LogDir:    cfg.App.LogDir,
		},
		Adapter: ClientAdapter{
			RequestTimeout: cfg.Adapter.RequestTimeout,
			RetryDelay:     cfg.Adapter.RetryDelay,
			MaxAttempts:    cfg.Adapter.MaxAttempts,
		},
		Storage: ClientStorage{
			DB: ClientDB{DSN: cfg.Storage.DB.DSN},
		},
		Workers: ClientWorkers{
			LockID:                  cfg.Workers.LockID,
			LockRetryInterval:       cfg.Workers.LockRetryInterval,
			LockHoldInterval:        cfg.Workers.LockHoldInterval,
			SocketHeartbeatInterval: cfg.Workers.SocketHeartbeatInterval,
			SocketReconnectDelay:    cfg.Workers.SocketReconnectDelay,
			WatchRestartDelay:       cfg.Workers.WatchRestartDelay,
			WatchFallbackFirst:      cfg.Workers.WatchFallbackFirst,
			WatchFallbackMin:        cfg.Workers.WatchFallbackMin,
			WatchFallbackMax:        cfg.Workers.WatchFallbackMax,
			ResumeCheckInterval:     cfg.Workers.ResumeCheckInterval,
		},
		Watch: ClientWatch{Locations: parseWatchPaths(cfg.Watch.Paths)},
	}
}

// parseWatchPaths splits "path=locationUUID" entries. A missing UUID is
// left empty and assigned by the caller.
func parseWatchPaths(entries []string) []WatchLocation {
	out := make([]WatchLocation, 0, len(entries))
	for _, e := range entries {
		e = strings.TrimSpace(e)
		if e == "" {
			continue
		}
		path, uuid, _ := strings.Cut(e, "=")
		out = append(out, WatchLocation{Path: filepath.Clean(path), LocationUUID: strings.TrimSpace(uuid)})
	}
	return out
}
