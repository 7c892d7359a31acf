package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync/atomic"

	"github.com/MKhiriev/go-sync-client/internal/adapter"
	"github.com/MKhiriev/go-sync-client/internal/crypto"
	"github.com/MKhiriev/go-sync-client/internal/logger"
	"github.com/MKhiriev/go-sync-client/internal/store"
	"github.com/MKhiriev/go-sync-client/models"
)

// ringSeparator joins the ring before it is encrypted for masterKeys.
const ringSeparator = "|"

type keyRing struct {
	storage store.KeyValueStorage
	adapter adapter.ServerAdapter
	engine  crypto.Engine
	logger  *logger.Logger

	ring atomic.Pointer[models.MasterKeyRing]
	pair atomic.Pointer[models.KeyPair]
}

// NewKeyRingManager creates a manager with an empty ring. Call Load to read
// the persisted ring.
func NewKeyRingManager(storage store.KeyValueStorage, serverAdapter adapter.ServerAdapter, engine crypto.Engine, logger *logger.Logger) KeyRingManager {
	k := &keyRing{
		storage: storage,
		adapter: serverAdapter,
		engine:  engine,
		logger:  logger,
	}
	k.ring.Store(&models.MasterKeyRing{})
	k.pair.Store(&models.KeyPair{})
	return k
}

// Load implements [KeyRingManager]. Missing keys leave the ring empty.
func (k *keyRing) Load(ctx context.Context) error {
	raw, err := k.storage.Get(ctx, store.KeyMasterKeys)
	switch {
	case errors.Is(err, store.ErrKeyNotFound):
		raw = ""
	case err != nil:
		return fmt.Errorf("load master keys: %w", err)
	}

	ring := models.MasterKeyRing{}
	if raw != "" {
		if err = json.Unmarshal([]byte(raw), &ring); err != nil {
			return fmt.Errorf("decode master keys: %w", err)
		}
	}
	k.ring.Store(&ring)

	var pair models.KeyPair
	if pair.PublicKey, err = k.optional(ctx, store.KeyPublicKey); err != nil {
		return err
	}
	if pair.PrivateKey, err = k.optional(ctx, store.KeyPrivateKey); err != nil {
		return err
	}
	k.pair.Store(&pair)

	k.logger.Debug().Str("func", "*keyRing.Load").Int("keys", len(ring)).Msg("key ring loaded")
	return nil
}

func (k *keyRing) optional(ctx context.Context, key string) (string, error) {
	v, err := k.storage.Get(ctx, key)
	if errors.Is(err, store.ErrKeyNotFound) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("load %s: %w", key, err)
	}
	return v, nil
}

// Keys implements [KeyRingManager].
func (k *keyRing) Keys() models.MasterKeyRing {
	return k.ring.Load().Clone()
}

// KeyPair implements [KeyRingManager].
func (k *keyRing) KeyPair() models.KeyPair {
	return *k.pair.Load()
}

// Swap implements [KeyRingManager]. The ring is persisted before it becomes
// visible to readers.
func (k *keyRing) Swap(ctx context.Context, ring models.MasterKeyRing) error {
	next := ring.Clone()
	if next == nil {
		next = models.MasterKeyRing{}
	}

	raw, err := json.Marshal(next)
	if err != nil {
		return fmt.Errorf("encode master keys: %w", err)
	}
	if err = k.storage.Set(ctx, store.KeyMasterKeys, string(raw)); err != nil {
		return fmt.Errorf("persist master keys: %w", err)
	}

	k.ring.Store(&next)
	return nil
}

// UpdateKeys implements [KeyRingManager].
func (k *keyRing) UpdateKeys(ctx context.Context) error {
	log := k.logger.With().Str("func", "*keyRing.UpdateKeys").Logger()

	ring := k.Keys()
	if len(ring) == 0 {
		return crypto.ErrEmptyKeyRing
	}

	encrypted, err := k.engine.EncryptMetadata(strings.Join(ring, ringSeparator), ring.Newest())
	if err != nil {
		return fmt.Errorf("encrypt master keys: %w", err)
	}

	remote, err := k.adapter.MasterKeys(ctx, encrypted)
	if err != nil {
		return fmt.Errorf("update master keys: %w", err)
	}

	merged := lastDecrypted(k.engine, remote, ring, splitRing)
	if len(merged) == 0 {
		return ErrEmptyRemoteRing
	}
	if err = k.Swap(ctx, merged); err != nil {
		return err
	}
	log.Info().Int("local", len(ring)).Int("merged", len(merged)).Msg("master keys updated")

	pair, err := k.syncKeyPair(ctx, merged)
	if err != nil {
		return err
	}

	if err = k.storage.Set(ctx, store.KeyPublicKey, pair.PublicKey); err != nil {
		return fmt.Errorf("persist public key: %w", err)
	}
	if err = k.storage.Set(ctx, store.KeyPrivateKey, pair.PrivateKey); err != nil {
		return fmt.Errorf("persist private key: %w", err)
	}
	k.pair.Store(&pair)

	return nil
}

// syncKeyPair re-uploads the account key pair protected by the newest key,
// generating one if the account has none. It returns the plaintext pair.
func (k *keyRing) syncKeyPair(ctx context.Context, ring models.MasterKeyRing) (models.KeyPair, error) {
	info, err := k.adapter.KeyPairInfo(ctx)
	if err != nil {
		return models.KeyPair{}, fmt.Errorf("key pair info: %w", err)
	}

	if info.PublicKey != "" && info.PrivateKey != "" {
		privateKey := lastDecrypted(k.engine, info.PrivateKey, ring, func(s string) string { return s })
		if privateKey == "" {
			return models.KeyPair{}, ErrKeyPairUndecryptable
		}

		encrypted, err := k.engine.EncryptMetadata(privateKey, ring.Newest())
		if err != nil {
			return models.KeyPair{}, fmt.Errorf("encrypt private key: %w", err)
		}
		if err = k.adapter.UpdateKeyPair(ctx, models.KeyPair{PublicKey: info.PublicKey, PrivateKey: encrypted}); err != nil {
			return models.KeyPair{}, fmt.Errorf("update key pair: %w", err)
		}
		return models.KeyPair{PublicKey: info.PublicKey, PrivateKey: privateKey}, nil
	}

	pair, err := k.engine.GenerateKeyPair()
	if err != nil {
		return models.KeyPair{}, fmt.Errorf("generate key pair: %w", err)
	}
	encrypted, err := k.engine.EncryptMetadata(pair.PrivateKey, ring.Newest())
	if err != nil {
		return models.KeyPair{}, fmt.Errorf("encrypt private key: %w", err)
	}
	if err = k.adapter.SetKeyPair(ctx, models.KeyPair{PublicKey: pair.PublicKey, PrivateKey: encrypted}); err != nil {
		return models.KeyPair{}, fmt.Errorf("set key pair: %w", err)
	}

	k.logger.Info().Str("func", "*keyRing.syncKeyPair").Msg("generated account key pair")
	return pair, nil
}

// lastDecrypted tries every key of ring against input without stopping and
// keeps the result of the last key that decrypted it.
func lastDecrypted[T any](engine crypto.Engine, input string, ring models.MasterKeyRing, parse func(string) T) T {
	var out T
	for _, key := range ring {
		if plain := engine.DecryptMetadata(input, key); plain != "" {
			out = parse(plain)
		}
	}
	return out
}

func splitRing(s string) models.MasterKeyRing {
	var ring models.MasterKeyRing
	for _, key := range strings.Split(s, ringSeparator) {
		if key = strings.TrimSpace(key); key != "" {
			ring = append(ring, key)
		}
	}
	return ring
}
