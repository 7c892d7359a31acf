// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package models

// LockState is the client-local state of a sync lock.
type LockState int

const (
	LockIdle LockState = iota
	LockAcquiring
	LockHeld
	LockReleasing
)

func (s LockState) String() string {
	switch s {
	case LockIdle:
		return "idle"
	case LockAcquiring:
		return "acquiring"
	case LockHeld:
		return "held"
	case LockReleasing:
		return "releasing"
	}
	return "unknown"
}

// WatchState is the state of a filesystem watch subscription.
type WatchState int

const (
	WatchStarting WatchState = iota
	WatchActive
	WatchClosing
	WatchPollingFallback
)

func (s WatchState) String() string {
	switch s {
	case WatchStarting:
		return "starting"
	case WatchActive:
		return "active"
	case WatchClosing:
		return "closing"
	case WatchPollingFallback:
		return "polling-fallback"
	}
	return "unknown"
}

// SocketState is the state of the notification socket session.
type SocketState int

const (
	SocketDisconnected SocketState = iota
	SocketConnecting
	SocketConnected
	SocketAuthenticated
)

func (s SocketState) String() string {
	switch s {
	case SocketDisconnected:
		return "disconnected"
	case SocketConnecting:
		return "connecting"
	case SocketConnected:
		return "connected"
	case SocketAuthenticated:
		return "authenticated"
	}
	return "unknown"
}
