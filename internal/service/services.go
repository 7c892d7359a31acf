package service

import (
	"github.com/MKhiriev/go-sync-client/internal/adapter"
	"github.com/MKhiriev/go-sync-client/internal/config"
	"github.com/MKhiriev/go-sync-client/internal/crypto"
	"github.com/MKhiriev/go-sync-client/internal/logger"
	"github.com/MKhiriev/go-sync-client/internal/store"
	"github.com/jonboulle/clockwork"
)

// Services groups the process-scoped coordinators.
type Services struct {
	Session  Session
	KeyRing  KeyRingManager
	SyncLock SyncLockCoordinator
}

func NewServices(
	storage store.KeyValueStorage,
	serverAdapter adapter.ServerAdapter,
	engine crypto.Engine,
	workers config.ClientWorkers,
	clock clockwork.Clock,
	logger *logger.Logger,
	lockOpts ...SyncLockOption,
) *Services {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	lockOpts = append([]SyncLockOption{WithLockClock(clock)}, lockOpts...)

	return &Services{
		Session:  NewSession(storage, clock, logger.WithComponent("session")),
		KeyRing:  NewKeyRingManager(storage, serverAdapter, engine, logger.WithComponent("keyring")),
		SyncLock: NewSyncLockCoordinator(serverAdapter, workers, logger.WithComponent("sync-lock"), lockOpts...),
	}
}

// Stop stops the background loops owned by the services.
func (s *Services) Stop() {
	s.SyncLock.Stop()
}
