package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/MKhiriev/go-sync-client/internal/adapter"
	"github.com/MKhiriev/go-sync-client/internal/config"
	"github.com/MKhiriev/go-sync-client/internal/logger"
	"github.com/MKhiriev/go-sync-client/models"
	"github.com/jonboulle/clockwork"
	"github.com/sethvargo/go-retry"
)

// LostHandler is called once a held lock is rejected by the server.
type LostHandler func(id string, err error)

// SyncLockOption customises a coordinator built by [NewSyncLockCoordinator].
type SyncLockOption func(*syncLock)

// WithLockClock replaces the wall clock driving the hold ticker.
func WithLockClock(c clockwork.Clock) SyncLockOption {
	return func(l *syncLock) {
		l.clock = c
	}
}

// WithLostHandler registers h to be notified when a held lock is lost.
func WithLostHandler(h LostHandler) SyncLockOption {
	return func(l *syncLock) {
		l.onLost = h
	}
}

type lockEntry struct {
	state      models.LockState
	generation uint64
	stopHold   context.CancelFunc
	holding    atomic.Bool
}

type syncLock struct {
	adapter       adapter.ServerAdapter
	retryInterval time.Duration
	holdInterval  time.Duration
	clock         clockwork.Clock
	onLost        LostHandler
	logger        *logger.Logger

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup

	mu    sync.Mutex
	locks map[string]*lockEntry
}

// NewSyncLockCoordinator creates a coordinator that retries acquires every
// cfg.LockRetryInterval and refreshes held locks every cfg.LockHoldInterval.
func NewSyncLockCoordinator(serverAdapter adapter.ServerAdapter, cfg config.ClientWorkers, logger *logger.Logger, opts ...SyncLockOption) SyncLockCoordinator {
	ctx, cancel := context.WithCancel(context.Background())

	l := &syncLock{
		adapter:       serverAdapter,
		retryInterval: cfg.LockRetryInterval,
		holdInterval:  cfg.LockHoldInterval,
		clock:         clockwork.NewRealClock(),
		logger:        logger,
		ctx:           ctx,
		cancel:        cancel,
		locks:         make(map[string]*lockEntry),
	}
	if l.retryInterval <= 0 {
		l.retryInterval = time.Second
	}
	if l.holdInterval <= 0 {
		l.holdInterval = time.Second
	}

	for _, opt := range opts {
		opt(l)
	}

	return l
}

func (l *syncLock) entry(id string) *lockEntry {
	e, ok := l.locks[id]
	if !ok {
		e = &lockEntry{}
		l.locks[id] = e
	}
	return e
}

// Acquire implements [SyncLockCoordinator].
func (l *syncLock) Acquire(ctx context.Context, id string) error {
	l.mu.Lock()
	if l.ctx.Err() != nil {
		l.mu.Unlock()
		return ErrCoordinatorStopped
	}
	e := l.entry(id)
	switch e.state {
	case models.LockHeld:
		l.mu.Unlock()
		return nil
	case models.LockAcquiring, models.LockReleasing:
		l.mu.Unlock()
		return fmt.Errorf("%w: %q is %s", ErrAcquireInProgress, id, e.state)
	}
	e.state = models.LockAcquiring
	l.mu.Unlock()

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	stop := context.AfterFunc(l.ctx, cancel)
	defer stop()

	log := l.logger.With().Str("func", "*syncLock.Acquire").Str("lock_id", id).Logger()

	attempt := 0
	err := retry.Do(ctx, retry.NewConstant(l.retryInterval), func(ctx context.Context) error {
		attempt++
		err := l.adapter.AcquireLock(ctx, id)
		if err == nil {
			return nil
		}
		if errors.Is(err, adapter.ErrAlreadyLocked) {
			log.Debug().Int("attempt", attempt).Msg("lock held by another device, retrying")
		} else {
			log.Error().Err(err).Int("attempt", attempt).Msg("error acquiring lock")
		}
		return retry.RetryableError(err)
	})

	l.mu.Lock()
	defer l.mu.Unlock()

	if err != nil {
		e.state = models.LockIdle
		if l.ctx.Err() != nil {
			return ErrCoordinatorStopped
		}
		return fmt.Errorf("acquire lock %q: %w", id, err)
	}
	if l.ctx.Err() != nil {
		e.state = models.LockIdle
		return ErrCoordinatorStopped
	}

	e.state = models.LockHeld
	e.generation++
	holdCtx, stopHold := context.WithCancel(l.ctx)
	e.stopHold = stopHold

	l.wg.Add(1)
	go l.hold(holdCtx, id, e, e.generation)

	log.Info().Int("attempts", attempt).Msg("lock acquired")
	return nil
}

// hold refreshes the lock on every tick. A tick that finds the previous
// refresh still running is skipped.
func (l *syncLock) hold(ctx context.Context, id string, e *lockEntry, generation uint64) {
	defer l.wg.Done()

	ticker := l.clock.NewTicker(l.holdInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.Chan():
			if ctx.Err() != nil {
				return
			}
			if !e.holding.CompareAndSwap(false, true) {
				l.logger.Debug().Str("func", "*syncLock.hold").Str("lock_id", id).Msg("previous hold still running, tick skipped")
				continue
			}

			l.wg.Add(1)
			go func() {
				defer l.wg.Done()
				defer e.holding.Store(false)

				if err := l.adapter.HoldLock(ctx, id); err != nil {
					if ctx.Err() != nil {
						return
					}
					l.lost(id, generation, err)
				}
			}()
		}
	}
}

func (l *syncLock) lost(id string, generation uint64, cause error) {
	l.mu.Lock()
	e, ok := l.locks[id]
	if !ok || e.generation != generation || e.state != models.LockHeld {
		l.mu.Unlock()
		return
	}
	e.state = models.LockIdle
	if e.stopHold != nil {
		e.stopHold()
		e.stopHold = nil
	}
	onLost := l.onLost
	l.mu.Unlock()

	err := fmt.Errorf("%w: %q: %w", ErrLockLost, id, cause)
	l.logger.Err(err).Str("func", "*syncLock.lost").Str("lock_id", id).Msg("hold rejected, lock lost")

	if onLost != nil {
		onLost(id, err)
	}
}

// Release implements [SyncLockCoordinator]. The hold ticker is stopped
// before the release request is sent.
func (l *syncLock) Release(ctx context.Context, id string) error {
	l.mu.Lock()
	e, ok := l.locks[id]
	if !ok || e.state != models.LockHeld {
		l.mu.Unlock()
		return nil
	}
	e.state = models.LockReleasing
	e.generation++
	if e.stopHold != nil {
		e.stopHold()
		e.stopHold = nil
	}
	l.mu.Unlock()

	err := l.adapter.ReleaseLock(ctx, id)

	l.mu.Lock()
	e.state = models.LockIdle
	l.mu.Unlock()

	if err != nil {
		l.logger.Err(err).Str("func", "*syncLock.Release").Str("lock_id", id).Msg("error releasing lock")
		return fmt.Errorf("release lock %q: %w", id, err)
	}
	return nil
}

// State implements [SyncLockCoordinator].
func (l *syncLock) State(id string) models.LockState {
	l.mu.Lock()
	defer l.mu.Unlock()

	if e, ok := l.locks[id]; ok {
		return e.state
	}
	return models.LockIdle
}

// Stop implements [SyncLockCoordinator]. Held locks are forgotten locally;
// the server expires them once holds stop arriving.
func (l *syncLock) Stop() {
	l.mu.Lock()
	l.cancel()
	for _, e := range l.locks {
		if e.stopHold != nil {
			e.stopHold()
			e.stopHold = nil
		}
		if e.state == models.LockHeld {
			e.state = models.LockIdle
		}
	}
	l.mu.Unlock()

	l.wg.Wait()
}
