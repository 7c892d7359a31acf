package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/MKhiriev/go-sync-client/internal/logger"
	"github.com/MKhiriev/go-sync-client/internal/store"
	"github.com/jonboulle/clockwork"
)

// MinCredentialLength is the shortest API key treated as valid.
const MinCredentialLength = 16

// CredentialPollInterval is how often WaitForCredential re-reads the store.
// Change notifications only cover writes made through this process.
const CredentialPollInterval = time.Second

const loggedInValue = "true"

type session struct {
	storage store.KeyValueStorage
	clock   clockwork.Clock
	logger  *logger.Logger
}

// NewSession creates a [Session] backed by storage.
func NewSession(storage store.KeyValueStorage, clock clockwork.Clock, logger *logger.Logger) Session {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	return &session{storage: storage, clock: clock, logger: logger}
}

// Credential implements [Session].
func (s *session) Credential(ctx context.Context) (string, error) {
	apiKey, err := s.storage.Get(ctx, store.KeyAPIKey)
	if errors.Is(err, store.ErrKeyNotFound) {
		return "", ErrNotLoggedIn
	}
	if err != nil {
		return "", fmt.Errorf("read credential: %w", err)
	}
	if len(apiKey) < MinCredentialLength {
		return "", ErrNotLoggedIn
	}
	return apiKey, nil
}

// IsLoggedIn implements [Session].
func (s *session) IsLoggedIn(ctx context.Context) (bool, error) {
	_, err := s.credentialIfLoggedIn(ctx)
	if errors.Is(err, ErrNotLoggedIn) {
		return false, nil
	}
	return err == nil, err
}

func (s *session) credentialIfLoggedIn(ctx context.Context) (string, error) {
	apiKey, err := s.Credential(ctx)
	if err != nil {
		return "", err
	}

	flag, err := s.storage.Get(ctx, store.KeyIsLoggedIn)
	if errors.Is(err, store.ErrKeyNotFound) || (err == nil && flag != loggedInValue) {
		return "", ErrNotLoggedIn
	}
	if err != nil {
		return "", fmt.Errorf("read login flag: %w", err)
	}
	return apiKey, nil
}

// WaitForCredential implements [Session]. It subscribes before the first
// read so a login between the read and the subscription is not missed. Both
// keys are re-checked on every change and on every poll tick; the tick
// catches logins written by another process to the same database.
func (s *session) WaitForCredential(ctx context.Context) (string, error) {
	changes, unsubscribe := s.storage.Subscribe()
	defer unsubscribe()

	ticker := s.clock.NewTicker(CredentialPollInterval)
	defer ticker.Stop()

	waiting := false
	for {
		apiKey, err := s.credentialIfLoggedIn(ctx)
		if err == nil {
			return apiKey, nil
		}
		if !errors.Is(err, ErrNotLoggedIn) {
			return "", err
		}

		if !waiting {
			waiting = true
			s.logger.Debug().Str("func", "*session.WaitForCredential").Msg("waiting for login")
		}

		select {
		case <-ctx.Done():
			return "", ctx.Err()
		case <-ticker.Chan():
		case _, ok := <-changes:
			if !ok {
				changes = nil
			}
		}
	}
}
