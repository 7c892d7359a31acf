package store

import (
	"context"
)

//go:generate mockgen -source=interfaces.go -destination=../mock/key_value_storage_mock.go -package=mock

// Well-known keys read by the sync core.
const (
	KeyAPIKey     = "apiKey"
	KeyIsLoggedIn = "isLoggedIn"
	KeyMasterKeys = "masterKeys"
	KeyPublicKey  = "publicKey"
	KeyPrivateKey = "privateKey"
)

// Change describes a single write to a [KeyValueStorage].
type Change struct {
	Key     string
	Value   string
	Removed bool
}

// KeyValueStorage is the persistence collaborator of the sync core. Values
// are opaque strings; structured values are stored as JSON.
type KeyValueStorage interface {
	// Get returns the value stored under key or [ErrKeyNotFound].
	Get(ctx context.Context, key string) (string, error)
	// Set stores value under key, replacing any previous value.
	Set(ctx context.Context, key, value string) error
	// Remove deletes key. Removing a missing key is not an error.
	Remove(ctx context.Context, key string) error
	// Clear deletes every key.
	Clear(ctx context.Context) error
	// Keys lists all stored keys in ascending order.
	Keys(ctx context.Context) ([]string, error)
	// Subscribe returns a channel of changes made after the call and a
	// function that cancels the subscription. Slow subscribers may miss
	// changes; they must re-read the values they care about.
	Subscribe() (<-chan Change, func())
}
