// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package config

import (
	"path/filepath"
	"time"

	"github.com/mitchellh/go-homedir"
)

const (
	defaultAPIURL    = "https://gateway.syncdrive.io"
	defaultSocketURL = "wss://socket.syncdrive.io"

	defaultRequestTimeout = time.Hour
	defaultRetryDelay     = time.Second
	defaultMaxAttempts    = 768

	defaultLockID                  = "sync"
	defaultLockRetryInterval       = time.Second
	defaultLockHoldInterval        = time.Second
	defaultSocketHeartbeatInterval = 5 * time.Second
	defaultSocketReconnectDelay    = time.Second
	defaultWatchRestartDelay       = 5 * time.Second
	defaultWatchFallbackFirst      = 5 * time.Second
	defaultWatchFallbackMin        = 30 * time.Second
	defaultWatchFallbackMax        = 60 * time.Second
	defaultResumeCheckInterval     = 10 * time.Second

	dataDirName = ".go-sync-client"
)

// defaults returns the built-in configuration. The DSN lives in the user's
// home directory; if it cannot be resolved the working directory is used.
func defaults() *StructuredConfig {
	dataDir := dataDirName
	if home, err := homedir.Dir(); err == nil {
		dataDir = filepath.Join(home, dataDirName)
	}

	return &StructuredConfig{
		App: App{
			APIURL:    defaultAPIURL,
			SocketURL: defaultSocketURL,
			LogDir:    dataDir,
		},
		Adapter: Adapter{
			RequestTimeout: defaultRequestTimeout,
			RetryDelay:     defaultRetryDelay,
			MaxAttempts:    defaultMaxAttempts,
		},
		Storage: Storage{
			DB: DB{DSN: filepath.Join(dataDir, "client.db")},
		},
		Workers: Workers{
			LockID:                  defaultLockID,
			LockRetryInterval:       defaultLockRetryInterval,
			LockHoldInterval:        defaultLockHoldInterval,
			SocketHeartbeatInterval: defaultSocketHeartbeatInterval,
			SocketReconnectDelay:    defaultSocketReconnectDelay,
			WatchRestartDelay:       defaultWatchRestartDelay,
			WatchFallbackFirst:      defaultWatchFallbackFirst,
			WatchFallbackMin:        defaultWatchFallbackMin,
			WatchFallbackMax:        defaultWatchFallbackMax,
			ResumeCheckInterval:     defaultResumeCheckInterval,
		},
	}
}
