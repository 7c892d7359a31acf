// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package adapter provides the request layer for communicating with the
// remote sync API.
//
// The primary abstraction is [ServerAdapter]. Its HTTP implementation
// ([NewHTTPServerAdapter]) sends JSON over HTTPS, forces IPv4, and retries
// every call with a fixed delay up to a bounded number of attempts.
//
// Remote failures are translated by a single function, classifyResponse, into
// the sentinel values defined in errors.go so that callers can use
// [errors.Is] (e.g. [ErrAlreadyLocked] for a lock held by another device).
// An invalid credential never reaches the caller: it terminates the process.
package adapter

import (
	"context"
	"time"

	"github.com/MKhiriev/go-sync-client/models"
)

//go:generate mockgen -source=interfaces.go -destination=../mock/server_adapter_mock.go -package=mock

// ServerAdapter defines communication with the remote sync API.
// Implementations are responsible for serialisation, authentication,
// retrying and mapping remote failures to the sentinel values defined in
// this package.
type ServerAdapter interface {
	// SetCredential stores the API key attached to all subsequent requests.
	SetCredential(apiKey string)

	// Credential returns the API key currently stored in the adapter, or an
	// empty string if none has been set yet.
	Credential() string

	// Request sends payload to endpoint and returns the parsed response
	// envelope. Transport errors, non-200 statuses and unparsable bodies are
	// retried. A zero timeout means the adapter default.
	Request(ctx context.Context, method, endpoint string, payload any, timeout time.Duration) (models.APIResponse, error)

	// AcquireLock asks the server for the named lock. Returns
	// [ErrAlreadyLocked] (wrapped) if another device holds it.
	AcquireLock(ctx context.Context, id string) error

	// HoldLock refreshes a lock this device holds.
	HoldLock(ctx context.Context, id string) error

	// ReleaseLock gives the named lock back.
	ReleaseLock(ctx context.Context, id string) error

	// KeyPairInfo fetches the account key pair. Both fields are empty when
	// the account has none yet.
	KeyPairInfo(ctx context.Context) (models.KeyPairInfo, error)

	// SetKeyPair uploads a freshly generated key pair.
	SetKeyPair(ctx context.Context, pair models.KeyPair) error

	// UpdateKeyPair re-uploads the key pair with the private key encrypted
	// by the newest master key.
	UpdateKeyPair(ctx context.Context, pair models.KeyPair) error

	// MasterKeys uploads the encrypted local key ring and returns the merged
	// ring as encrypted by the server.
	MasterKeys(ctx context.Context, encryptedRing string) (string, error)
}
