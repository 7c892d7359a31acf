// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package config

import (
	"fmt"
	"net/url"
	"path/filepath"
	"strings"
)

// validate checks that every group of the client configuration is usable.
// It returns the first group sentinel that fails.
func (cfg *ClientConfig) validate() error {
	if !validURL(cfg.App.APIURL, "https", "http") || !validURL(cfg.App.SocketURL, "wss", "ws") {
		return ErrInvalidAppConfigs
	}

	if cfg.Adapter.MaxAttempts <= 0 || cfg.Adapter.RetryDelay <= 0 || cfg.Adapter.RequestTimeout <= 0 {
		return ErrInvalidAdapterConfigs
	}

	if cfg.Storage.DB.DSN == "" || strings.Contains(cfg.Storage.DB.DSN, "memory") {
		return ErrInvalidStorageConfigs
	}

	w := cfg.Workers
	if w.LockID == "" || w.LockRetryInterval <= 0 || w.LockHoldInterval <= 0 ||
		w.SocketHeartbeatInterval <= 0 || w.SocketReconnectDelay <= 0 ||
		w.WatchRestartDelay <= 0 || w.WatchFallbackFirst <= 0 ||
		w.WatchFallbackMin <= 0 || w.WatchFallbackMax < w.WatchFallbackMin ||
		w.ResumeCheckInterval <= 0 {
		return ErrInvalidWorkerConfigs
	}

	seen := make(map[string]struct{}, len(cfg.Watch.Locations))
	for _, loc := range cfg.Watch.Locations {
		if !filepath.IsAbs(loc.Path) {
			return fmt.Errorf("%w: %q is not absolute", ErrInvalidWatchConfigs, loc.Path)
		}
		if _, dup := seen[loc.Path]; dup {
			return fmt.Errorf("%w: %q listed twice", ErrInvalidWatchConfigs, loc.Path)
		}
		seen[loc.Path] = struct{}{}
	}

	return nil
}

func validURL(raw string, schemes ...string) bool {
	u, err := url.Parse(strings.TrimSpace(raw))
	if err != nil || u.Host == "" {
		return false
	}
	for _, s := range schemes {
		if u.Scheme == s {
			return true
		}
	}
	return false
}
