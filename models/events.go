// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package models

import (
	"encoding/json"
	"time"
)

// DummyWatchEvent is the event name of synthetic watcher events emitted by
// the polling fallback and by close recovery.
const DummyWatchEvent = "dummy"

// WatchEvent is a filesystem change forwarded to the sync scheduler.
type WatchEvent struct {
	// Event is the change kind: create, write, remove, rename, chmod or dummy.
	Event string `json:"event"`
	// Name is the absolute path of the changed entry. Equals WatchPath for
	// synthetic events.
	Name string `json:"name"`
	// WatchPath is the root of the subscription that observed the change.
	WatchPath string `json:"watchPath"`
	// LocationUUID correlates the subscription with its sync location.
	LocationUUID string `json:"locationUUID"`
}

// SocketEvent is a server-pushed notification forwarded to the scheduler.
// Data is the decrypted JSON payload when the event kind is encrypted.
type SocketEvent struct {
	Type string          `json:"type"`
	Data json.RawMessage `json:"data,omitempty"`
}

// WatchSubscription is a read-only snapshot of a watch subscription.
type WatchSubscription struct {
	Path         string
	LocationUUID string
	State        WatchState
	LastEvent    time.Time
}
