// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package watcher keeps native filesystem watches alive for every sync
// location and forwards their changes to a [Sink].
//
// A watch that errors falls back to synthetic "dummy" events on a jittered
// timer so the scheduler still rescans the location. A watch that closes
// unexpectedly is restarted after a delay. [WatchSupervisor.Resume] restarts
// every active watch at once after the host wakes up.
package watcher

import (
	"time"

	"github.com/MKhiriev/go-sync-client/models"
)

// Sink receives watch events. Calls for one watch path are serial and in
// arrival order; calls for different paths may run concurrently.
type Sink interface {
	HandleWatchEvent(ev models.WatchEvent)
}

// SinkFunc adapts a function to [Sink].
type SinkFunc func(ev models.WatchEvent)

func (f SinkFunc) HandleWatchEvent(ev models.WatchEvent) { f(ev) }

// WatchSupervisor owns one subscription per absolute path.
type WatchSupervisor interface {
	// Watch starts watching path recursively. Watching a path twice returns
	// the existing subscription. An empty locationUUID is generated.
	Watch(path, locationUUID string) (models.WatchSubscription, error)

	// Unwatch stops the subscription for path and cancels its timers.
	Unwatch(path string)

	// Resume restarts every active native watch exactly once.
	Resume()

	// State reports the state of the subscription for path.
	State(path string) (models.WatchState, bool)

	// LastEvent reports when the subscription last saw a native change.
	LastEvent(path string) (time.Time, bool)

	// Subscriptions lists every subscription ordered by path.
	Subscriptions() []models.WatchSubscription

	// Stop unwatches everything and waits for background goroutines.
	Stop()
}
