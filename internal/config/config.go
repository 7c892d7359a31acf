// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package config

import (
	"time"
)

// StructuredConfig is the top-level configuration container. It aggregates
// all sub-configurations and is populated by merging values from
// environment variables, command-line flags, and an optional JSON file.
//
// Struct tags:
//   - envPrefix: prefix applied to all nested env tag lookups (caarlos0/env).
//   - env: direct environment variable name for scalar fields.
type StructuredConfig struct {
	// App holds remote origins and local runtime paths.
	App App `envPrefix:"APP_"`

	// Adapter holds the request layer timeout and retry policy.
	Adapter Adapter `envPrefix:"ADAPTER_"`

	// Storage holds the local key-value database settings.
	Storage Storage `envPrefix:"STORAGE_"`

	// Workers holds the intervals of every background loop.
	Workers Workers `envPrefix:"WORKERS_"`

	// Watch lists the local sync locations to supervise.
	Watch Watch `envPrefix:"WATCH_"`

	// JSONFilePath is the optional path to a JSON configuration file.
	// Populated via the CONFIG environment variable or the -c / --config flag.
	JSONFilePath string `env:"CONFIG"`
}

// App holds application-level configuration values.
type App struct {
	// APIURL is the HTTPS origin of the remote API.
	// Env: APP_API_URL
	APIURL string `env:"API_URL"`

	// SocketURL is the websocket origin of the notification channel.
	// Env: APP_SOCKET_URL
	SocketURL string `env:"SOCKET_URL"`

	// LogDir is the directory of the "logs" file. Empty means next to the
	// executable.
	// Env: APP_LOG_DIR
	LogDir string `env:"LOG_DIR"`
}

// Adapter holds the outbound request policy.
type Adapter struct {
	// RequestTimeout is the per-attempt socket timeout. It is deliberately
	// large; slow responses are handled by the retry policy.
	// Env: ADAPTER_REQUEST_TIMEOUT
	RequestTimeout time.Duration `env:"REQUEST_TIMEOUT"`

	// RetryDelay is the fixed pause between attempts.
	// Env: ADAPTER_RETRY_DELAY
	RetryDelay time.Duration `env:"RETRY_DELAY"`

	// MaxAttempts is the attempt ceiling of a single request.
	// Env: ADAPTER_MAX_ATTEMPTS
	MaxAttempts int `env:"MAX_ATTEMPTS"`
}

// Storage groups the configuration for the local persistence backend.
type Storage struct {
	// DB holds the SQLite key-value database settings.
	DB DB `envPrefix:"DB_"`
}

// DB holds connection settings for the local database.
type DB struct {
	// DSN is the SQLite file path.
	// Env: STORAGE_DB_DSN
	DSN string `env:"DSN"`
}

// Workers holds the timing of background loops.
type Workers struct {
	// LockID is the id of the sync lock.
	// Env: WORKERS_LOCK_ID
	LockID string `env:"LOCK_ID"`

	// Env: WORKERS_LOCK_RETRY_INTERVAL
	LockRetryInterval time.Duration `env:"LOCK_RETRY_INTERVAL"`

	// Env: WORKERS_LOCK_HOLD_INTERVAL
	LockHoldInterval time.Duration `env:"LOCK_HOLD_INTERVAL"`

	// Env: WORKERS_SOCKET_HEARTBEAT_INTERVAL
	SocketHeartbeatInterval time.Duration `env:"SOCKET_HEARTBEAT_INTERVAL"`

	// Env: WORKERS_SOCKET_RECONNECT_DELAY
	SocketReconnectDelay time.Duration `env:"SOCKET_RECONNECT_DELAY"`

	// WatchRestartDelay is the pause before a closed watch is restarted.
	// Env: WORKERS_WATCH_RESTART_DELAY
	WatchRestartDelay time.Duration `env:"WATCH_RESTART_DELAY"`

	// WatchFallbackFirst is the delay of the first synthetic event after a
	// watch falls back to polling.
	// Env: WORKERS_WATCH_FALLBACK_FIRST
	WatchFallbackFirst time.Duration `env:"WATCH_FALLBACK_FIRST"`

	// WatchFallbackMin and WatchFallbackMax bound the random polling period.
	// Env: WORKERS_WATCH_FALLBACK_MIN, WORKERS_WATCH_FALLBACK_MAX
	WatchFallbackMin time.Duration `env:"WATCH_FALLBACK_MIN"`
	WatchFallbackMax time.Duration `env:"WATCH_FALLBACK_MAX"`

	// ResumeCheckInterval is the tick of the sleep/resume detector.
	// Env: WORKERS_RESUME_CHECK_INTERVAL
	ResumeCheckInterval time.Duration `env:"RESUME_CHECK_INTERVAL"`
}

// Watch lists the sync locations.
type Watch struct {
	// Paths are "path" or "path=locationUUID" entries.
	// Env: WATCH_PATHS (comma separated)
	Paths []string `env:"PATHS" envSeparator:","`
}

// GetStructuredConfig loads, merges, and validates the configuration from
// all available sources in the following priority order (last source wins
// for non-zero fields):
//  1. Environment variables
//  2. Command-line flags (args)
//  3. JSON file (path resolved from sources 1 and 2)
//  4. Built-in defaults for anything still empty
func GetStructuredConfig(args []string) (*StructuredConfig, error) {
	return newConfigBuilder().
		withEnv().
		withFlags(args).
		withJSON().
		withDefaults().
		build()
}
