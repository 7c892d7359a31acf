// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package service holds the stateful coordinators of the sync client: the
// distributed sync lock, the master key ring and the session gate.
//
// Every coordinator is an explicit value created by its constructor and
// owned by [Services]; nothing here is a package-level singleton.
package service

import (
	"context"

	"github.com/MKhiriev/go-sync-client/models"
)

// SyncLockCoordinator acquires, keeps alive and releases named server-side
// locks. At most one acquire per lock id is in flight at any time.
type SyncLockCoordinator interface {
	// Acquire blocks until the lock is held, ctx is done or the coordinator
	// is stopped. Returns nil immediately if the lock is already held and
	// [ErrAcquireInProgress] if another acquire or a release is running.
	Acquire(ctx context.Context, id string) error

	// Release gives the lock back. Releasing a lock that is not held is a
	// no-op.
	Release(ctx context.Context, id string) error

	// State reports the client-local state of the lock.
	State(id string) models.LockState

	// Stop tears down every hold ticker and aborts pending acquires.
	Stop()
}

// KeyRingManager owns the in-memory master key ring.
type KeyRingManager interface {
	// Load reads the ring and the key pair from local storage.
	Load(ctx context.Context) error

	// Keys returns a snapshot of the ring.
	Keys() models.MasterKeyRing

	// Swap replaces the whole ring and persists it.
	Swap(ctx context.Context, ring models.MasterKeyRing) error

	// KeyPair returns the locally stored key pair.
	KeyPair() models.KeyPair

	// UpdateKeys merges the local ring with the server copy and makes sure
	// the account has a key pair protected by the newest key.
	UpdateKeys(ctx context.Context) error
}

// Session exposes the login state kept in local storage.
type Session interface {
	// Credential returns the stored API key or [ErrNotLoggedIn].
	Credential(ctx context.Context) (string, error)

	// IsLoggedIn reports whether a valid credential is stored and the
	// logged-in flag is set.
	IsLoggedIn(ctx context.Context) (bool, error)

	// WaitForCredential blocks until IsLoggedIn holds and returns the
	// credential.
	WaitForCredential(ctx context.Context) (string, error)
}
