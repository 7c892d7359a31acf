// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package config

import (
	"fmt"

	"github.com/spf13/pflag"
)

// ParseFlags parses all configuration flags from args.
//
// Flags:
//
//	--api-url              remote API origin
//	--socket-url           notification socket origin
//	--log-dir              directory of the logs file
//	-d, --dsn              local database path
//	-c, --config           json file path with configs
//	--request-timeout      per-attempt request timeout (e.g. "1h")
//	--retry-delay          delay between request attempts (e.g. "1s")
//	--max-attempts         request attempt ceiling
//	--lock-id              sync lock id
//	--lock-hold-interval   lock heartbeat period
//	--heartbeat-interval   socket heartbeat period
//	-w, --watch            sync location "path[=locationUUID]", repeatable
func ParseFlags(args []string) (*StructuredConfig, error) {
	fs := pflag.NewFlagSet("go-sync-client", pflag.ContinueOnError)

	var cfg StructuredConfig
	fs.StringVar(&cfg.App.APIURL, "api-url", "", "Remote API origin")
	fs.StringVar(&cfg.App.SocketURL, "socket-url", "", "Notification socket origin")
	fs.StringVar(&cfg.App.LogDir, "log-dir", "", "Logs directory")
	fs.StringVarP(&cfg.Storage.DB.DSN, "dsn", "d", "", "Local database path")
	fs.StringVarP(&cfg.JSONFilePath, "config", "c", "", "JSON config file path")
	fs.DurationVar(&cfg.Adapter.RequestTimeout, "request-timeout", 0, "Request timeout (e.g., 1h)")
	fs.DurationVar(&cfg.Adapter.RetryDelay, "retry-delay", 0, "Delay between request attempts (e.g., 1s)")
	fs.IntVar(&cfg.Adapter.MaxAttempts, "max-attempts", 0, "Request attempt ceiling")
	fs.StringVar(&cfg.Workers.LockID, "lock-id", "", "Sync lock id")
	fs.DurationVar(&cfg.Workers.LockHoldInterval, "lock-hold-interval", 0, "Lock hold period (e.g., 1s)")
	fs.DurationVar(&cfg.Workers.SocketHeartbeatInterval, "heartbeat-interval", 0, "Socket heartbeat period (e.g., 5s)")
	fs.StringArrayVarP(&cfg.Watch.Paths, "watch", "w", nil, "Sync location path[=locationUUID]")

	if err := fs.Parse(args); err != nil {
		return nil, fmt.Errorf("error parsing flags: %w", err)
	}

	return &cfg, nil
}

