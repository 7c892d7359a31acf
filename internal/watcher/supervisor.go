package watcher

import (
	"context"
	"fmt"
	"math/rand/v2"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"github.com/MKhiriev/go-sync-client/internal/config"
	"github.com/MKhiriev/go-sync-client/internal/logger"
	"github.com/MKhiriev/go-sync-client/internal/utils"
	"github.com/MKhiriev/go-sync-client/models"
	"github.com/fsnotify/fsnotify"
	"github.com/jonboulle/clockwork"
	"github.com/spf13/afero"
)

// Option customises a supervisor built by [NewSupervisor].
type Option func(*supervisor)

// WithClock replaces the wall clock driving every timer.
func WithClock(c clockwork.Clock) Option {
	return func(s *supervisor) {
		s.clock = c
	}
}

// WithFs replaces the filesystem walked to register subdirectories.
func WithFs(fs afero.Fs) Option {
	return func(s *supervisor) {
		s.fs = fs
	}
}

// WithNativeFactory replaces the fsnotify watcher constructor.
func WithNativeFactory(f NativeFactory) Option {
	return func(s *supervisor) {
		s.newNative = f
	}
}

type subscription struct {
	path         string
	locationUUID string
	state        models.WatchState
	lastEvent    time.Time

	native     NativeWatcher
	stopNative context.CancelFunc
	generation uint64

	// restarted is set by Resume and consumed by a pending close recovery.
	restarted bool
	timer     clockwork.Timer

	dispatcher *dispatcher
}

func (sub *subscription) snapshot() models.WatchSubscription {
	return models.WatchSubscription{
		Path:         sub.path,
		LocationUUID: sub.locationUUID,
		State:        sub.state,
		LastEvent:    sub.lastEvent,
	}
}

func (sub *subscription) synthetic() models.WatchEvent {
	return models.WatchEvent{
		Event:        models.DummyWatchEvent,
		Name:         sub.path,
		WatchPath:    sub.path,
		LocationUUID: sub.locationUUID,
	}
}

type supervisor struct {
	sink      Sink
	fs        afero.Fs
	clock     clockwork.Clock
	newNative NativeFactory
	uuids     *utils.UUIDGenerator
	logger    *logger.Logger

	restartDelay  time.Duration
	fallbackFirst time.Duration
	fallbackMin   time.Duration
	fallbackMax   time.Duration

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup

	mu   sync.Mutex
	subs map[string]*subscription
}

// NewSupervisor creates a [WatchSupervisor] forwarding events to sink.
func NewSupervisor(sink Sink, cfg config.ClientWorkers, logger *logger.Logger, opts ...Option) WatchSupervisor {
	ctx, cancel := context.WithCancel(context.Background())

	s := &supervisor{
		sink:          sink,
		fs:            afero.NewOsFs(),
		clock:         clockwork.NewRealClock(),
		newNative:     newFSNotifyWatcher,
		uuids:         utils.NewUUIDGenerator(),
		logger:        logger,
		restartDelay:  cfg.WatchRestartDelay,
		fallbackFirst: cfg.WatchFallbackFirst,
		fallbackMin:   cfg.WatchFallbackMin,
		fallbackMax:   cfg.WatchFallbackMax,
		ctx:           ctx,
		cancel:        cancel,
		subs:          make(map[string]*subscription),
	}
	for _, opt := range opts {
		opt(s)
	}

	return s
}

// Watch implements [WatchSupervisor].
func (s *supervisor) Watch(path, locationUUID string) (models.WatchSubscription, error) {
	if !filepath.IsAbs(path) {
		return models.WatchSubscription{}, fmt.Errorf("%w: %q", ErrRelativePath, path)
	}
	path = filepath.Clean(path)

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.ctx.Err() != nil {
		return models.WatchSubscription{}, ErrSupervisorStopped
	}
	if sub, ok := s.subs[path]; ok {
		return sub.snapshot(), nil
	}
	if locationUUID == "" {
		locationUUID = s.uuids.Generate()
	}

	sub := &subscription{
		path:         path,
		locationUUID: locationUUID,
		state:        models.WatchStarting,
		dispatcher:   newDispatcher(s.sink),
	}
	if err := s.startLocked(sub); err != nil {
		return models.WatchSubscription{}, fmt.Errorf("watch %q: %w", path, err)
	}

	s.subs[path] = sub
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		sub.dispatcher.run()
	}()

	s.logger.Info().Str("func", "*supervisor.Watch").Str("path", path).
		Str("location_uuid", locationUUID).Msg("watching")
	return sub.snapshot(), nil
}

// startLocked opens a native watcher for sub and starts its event loop.
func (s *supervisor) startLocked(sub *subscription) error {
	native, err := s.newNative()
	if err != nil {
		return fmt.Errorf("open native watcher: %w", err)
	}
	if err = s.addRecursive(native, sub.path); err != nil {
		_ = native.Close()
		return err
	}

	sub.generation++
	ctx, cancel := context.WithCancel(s.ctx)
	sub.native = native
	sub.stopNative = cancel
	sub.state = models.WatchActive

	s.wg.Add(1)
	go s.run(ctx, sub, native, sub.generation)
	return nil
}

// stopLocked closes the native watcher of sub. Late events and errors of
// the closed watcher are ignored through the generation bump.
func (s *supervisor) stopLocked(sub *subscription) {
	sub.generation++
	if sub.stopNative != nil {
		sub.stopNative()
		sub.stopNative = nil
	}
	if sub.native != nil {
		_ = sub.native.Close()
		sub.native = nil
	}
}

func (s *supervisor) stopTimerLocked(sub *subscription) {
	if sub.timer != nil {
		sub.timer.Stop()
		sub.timer = nil
	}
}

// addRecursive registers root and every directory below it.
func (s *supervisor) addRecursive(native NativeWatcher, root string) error {
	return afero.Walk(s.fs, root, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if !info.IsDir() {
			return nil
		}
		if err = native.Add(path); err != nil {
			return fmt.Errorf("add %q: %w", path, err)
		}
		return nil
	})
}

func (s *supervisor) run(ctx context.Context, sub *subscription, native NativeWatcher, generation uint64) {
	defer s.wg.Done()

	for {
		select {
		case <-ctx.Done():
			return
		case ev, ok := <-native.Events():
			if !ok {
				s.closed(sub, generation)
				return
			}
			s.handle(sub, native, generation, ev)
		case err, ok := <-native.Errors():
			if !ok {
				s.closed(sub, generation)
				return
			}
			s.failed(sub, generation, err)
			return
		}
	}
}

func (s *supervisor) handle(sub *subscription, native NativeWatcher, generation uint64, ev fsnotify.Event) {
	if ev.Has(fsnotify.Create) {
		if info, err := s.fs.Stat(ev.Name); err == nil && info.IsDir() {
			if err = s.addRecursive(native, ev.Name); err != nil {
				s.logger.Warn().Err(err).Str("func", "*supervisor.handle").Str("path", ev.Name).Msg("error watching new directory")
			}
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if sub.generation != generation {
		return
	}
	sub.lastEvent = s.clock.Now()
	sub.dispatcher.push(models.WatchEvent{
		Event:        opName(ev.Op),
		Name:         ev.Name,
		WatchPath:    sub.path,
		LocationUUID: sub.locationUUID,
	})
}

// failed switches sub to the polling fallback.
func (s *supervisor) failed(sub *subscription, generation uint64, cause error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if sub.generation != generation {
		return
	}
	s.logger.Err(cause).Str("func", "*supervisor.failed").Str("path", sub.path).Msg("native watch failed, polling instead")
	s.fallbackLocked(sub)
}

func (s *supervisor) fallbackLocked(sub *subscription) {
	s.stopLocked(sub)
	s.stopTimerLocked(sub)
	sub.state = models.WatchPollingFallback

	generation := sub.generation
	sub.timer = s.clock.AfterFunc(s.fallbackFirst, func() { s.poll(sub, generation) })
}

func (s *supervisor) poll(sub *subscription, generation uint64) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if sub.generation != generation || sub.state != models.WatchPollingFallback {
		return
	}
	sub.dispatcher.push(sub.synthetic())
	sub.timer = s.clock.AfterFunc(s.jitter(), func() { s.poll(sub, generation) })
}

func (s *supervisor) jitter() time.Duration {
	span := s.fallbackMax - s.fallbackMin
	if span <= 0 {
		return s.fallbackMin
	}
	return s.fallbackMin + rand.N(span+1)
}

// closed handles a native watcher that stopped on its own. The path is
// restarted after restartDelay unless Resume got there first.
func (s *supervisor) closed(sub *subscription, generation uint64) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if sub.generation != generation || sub.state != models.WatchActive {
		return
	}
	s.logger.Warn().Str("func", "*supervisor.closed").Str("path", sub.path).Msg("native watch closed unexpectedly")

	sub.native = nil
	sub.restarted = false
	s.stopTimerLocked(sub)
	sub.timer = s.clock.AfterFunc(s.restartDelay, func() { s.recover(sub) })
}

func (s *supervisor) recover(sub *subscription) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.subs[sub.path] != sub || sub.state != models.WatchActive {
		return
	}
	sub.timer = nil
	if sub.restarted {
		sub.restarted = false
		return
	}

	sub.dispatcher.push(sub.synthetic())
	s.stopLocked(sub)
	if err := s.startLocked(sub); err != nil {
		s.logger.Err(err).Str("func", "*supervisor.recover").Str("path", sub.path).Msg("error restarting native watch")
		s.fallbackLocked(sub)
	}
}

// Unwatch implements [WatchSupervisor].
func (s *supervisor) Unwatch(path string) {
	path = filepath.Clean(path)

	s.mu.Lock()
	defer s.mu.Unlock()

	sub, ok := s.subs[path]
	if !ok {
		return
	}
	s.unwatchLocked(sub)
}

func (s *supervisor) unwatchLocked(sub *subscription) {
	sub.state = models.WatchClosing
	s.stopTimerLocked(sub)
	s.stopLocked(sub)
	sub.dispatcher.close()
	delete(s.subs, sub.path)

	s.logger.Info().Str("func", "*supervisor.Unwatch").Str("path", sub.path).Msg("unwatched")
}

// Resume implements [WatchSupervisor].
func (s *supervisor) Resume() {
	s.mu.Lock()
	defer s.mu.Unlock()

	restarted := 0
	for _, sub := range s.subs {
		if sub.state != models.WatchActive {
			continue
		}
		s.stopLocked(sub)
		sub.restarted = true
		if err := s.startLocked(sub); err != nil {
			s.logger.Err(err).Str("func", "*supervisor.Resume").Str("path", sub.path).Msg("error restarting native watch")
			s.fallbackLocked(sub)
			continue
		}
		restarted++
	}

	s.logger.Info().Str("func", "*supervisor.Resume").Int("restarted", restarted).Msg("resumed watches")
}

// State implements [WatchSupervisor].
func (s *supervisor) State(path string) (models.WatchState, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sub, ok := s.subs[filepath.Clean(path)]
	if !ok {
		return 0, false
	}
	return sub.state, true
}

// LastEvent implements [WatchSupervisor].
func (s *supervisor) LastEvent(path string) (time.Time, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sub, ok := s.subs[filepath.Clean(path)]
	if !ok {
		return time.Time{}, false
	}
	return sub.lastEvent, true
}

// Subscriptions implements [WatchSupervisor].
func (s *supervisor) Subscriptions() []models.WatchSubscription {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]models.WatchSubscription, 0, len(s.subs))
	for _, sub := range s.subs {
		out = append(out, sub.snapshot())
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Path < out[j].Path })
	return out
}

// Stop implements [WatchSupervisor].
func (s *supervisor) Stop() {
	s.mu.Lock()
	s.cancel()
	for _, sub := range s.subs {
		s.unwatchLocked(sub)
	}
	s.mu.Unlock()

	s.wg.Wait()
}
