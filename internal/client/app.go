package client

import (
	"context"
	"errors"
	"fmt"

	"github.com/MKhiriev/go-sync-client/internal/adapter"
	"github.com/MKhiriev/go-sync-client/internal/config"
	"github.com/MKhiriev/go-sync-client/internal/crypto"
	"github.com/MKhiriev/go-sync-client/internal/logger"
	"github.com/MKhiriev/go-sync-client/internal/service"
	"github.com/MKhiriev/go-sync-client/internal/socket"
	"github.com/MKhiriev/go-sync-client/internal/store"
	"github.com/MKhiriev/go-sync-client/internal/watcher"
	"github.com/MKhiriev/go-sync-client/internal/workers"
	"github.com/MKhiriev/go-sync-client/models"
	"github.com/jonboulle/clockwork"
)

// Option customises an [App] built by [NewApp].
type Option func(*appOptions)

type appOptions struct {
	engine   crypto.Engine
	clock    clockwork.Clock
	watchOps []watcher.Option
}

// WithEngine replaces the default crypto engine.
func WithEngine(e crypto.Engine) Option {
	return func(o *appOptions) {
		o.engine = e
	}
}

// WithClock replaces the wall clock of every timer owned by the app.
func WithClock(c clockwork.Clock) Option {
	return func(o *appOptions) {
		o.clock = c
	}
}

// WithWatcherOptions passes extra options to the watch supervisor.
func WithWatcherOptions(opts ...watcher.Option) Option {
	return func(o *appOptions) {
		o.watchOps = append(o.watchOps, opts...)
	}
}

var _ Client = (*App)(nil)

// App is the sync client process. It owns every coordinator and tears them
// all down when Run returns.
type App struct {
	cfg       *config.ClientConfig
	build     models.AppBuildInfo
	adapter   adapter.ServerAdapter
	services  *service.Services
	supervise watcher.WatchSupervisor
	channel   socket.NotificationChannel
	events    *EventLog
	workers   *workers.Workers
	logger    *logger.Logger
}

func NewApp(
	cfg *config.ClientConfig,
	build models.AppBuildInfo,
	storage store.KeyValueStorage,
	serverAdapter adapter.ServerAdapter,
	logger *logger.Logger,
	opts ...Option,
) (*App, error) {
	if cfg == nil {
		return nil, errors.New("nil config")
	}

	o := appOptions{clock: clockwork.NewRealClock()}
	for _, opt := range opts {
		opt(&o)
	}
	if o.engine == nil {
		o.engine = crypto.NewEngine()
	}

	events := NewEventLog(defaultEventBuffer, logger.WithComponent("events"))
	services := service.NewServices(storage, serverAdapter, o.engine, cfg.Workers, o.clock, logger,
		service.WithLostHandler(func(id string, err error) {
			logger.Warn().Err(err).Str("func", "App.lockLost").Str("lock_id", id).Msg("sync lock lost")
		}),
	)

	watchOpts := append([]watcher.Option{watcher.WithClock(o.clock)}, o.watchOps...)
	supervise := watcher.NewSupervisor(events, cfg.Workers, logger.WithComponent("watcher"), watchOpts...)

	channel := socket.NewChannel(cfg.App, cfg.Workers, services.Session, services.KeyRing, o.engine, events,
		logger.WithComponent("socket"), socket.WithClock(o.clock))

	a := &App{
		cfg:       cfg,
		build:     build,
		adapter:   serverAdapter,
		services:  services,
		supervise: supervise,
		channel:   channel,
		events:    events,
		logger:    logger,
	}

	a.workers = workers.NewWorkers(logger.WithComponent("workers"))
	a.workers.Add("bootstrap", workers.WorkerFunc(a.bootstrap))
	a.workers.Add("socket", channel)
	a.workers.Add("resume", watcher.NewResumeDetector(o.clock, cfg.Workers.ResumeCheckInterval,
		supervise.Resume, logger.WithComponent("resume")))

	return a, nil
}

// Run implements [Client]. It starts a watch for every configured location
// and blocks on the workers until ctx is done.
func (a *App) Run(ctx context.Context) error {
	defer a.shutdown()

	a.logger.Info().Str("func", "*App.Run").
		Str("version", a.build.BuildVersion()).
		Str("commit", a.build.BuildCommit()).
		Str("build_date", a.build.BuildDate()).
		Int("locations", len(a.cfg.Watch.Locations)).
		Msg("sync client starting")

	for _, loc := range a.cfg.Watch.Locations {
		if _, err := a.supervise.Watch(loc.Path, loc.LocationUUID); err != nil {
			a.logger.Err(err).Str("func", "*App.Run").Str("path", loc.Path).Msg("error starting watch")
		}
	}

	if err := a.workers.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		return fmt.Errorf("client workers: %w", err)
	}
	return nil
}

// bootstrap waits for login, hands the credential to the request layer and
// brings the key ring up to date.
func (a *App) bootstrap(ctx context.Context) error {
	log := a.logger.With().Str("func", "*App.bootstrap").Logger()

	apiKey, err := a.services.Session.WaitForCredential(ctx)
	if err != nil {
		if ctx.Err() != nil {
			return nil
		}
		return fmt.Errorf("wait for credential: %w", err)
	}
	a.adapter.SetCredential(apiKey)

	if err = a.services.KeyRing.Load(ctx); err != nil {
		return fmt.Errorf("load key ring: %w", err)
	}
	if len(a.services.KeyRing.Keys()) == 0 {
		log.Warn().Msg("no master keys stored, skipping key update")
		return nil
	}

	if err = a.services.KeyRing.UpdateKeys(ctx); err != nil {
		if ctx.Err() != nil {
			return nil
		}
		log.Error().Err(err).Msg("error updating keys")
		return nil
	}

	log.Info().Int("keys", len(a.services.KeyRing.Keys())).Msg("session ready")
	return nil
}

// WithSyncLock runs fn while holding the configured sync lock.
func (a *App) WithSyncLock(ctx context.Context, fn func(ctx context.Context) error) error {
	id := a.cfg.Workers.LockID
	if err := a.services.SyncLock.Acquire(ctx, id); err != nil {
		return err
	}
	defer func() {
		if err := a.services.SyncLock.Release(context.WithoutCancel(ctx), id); err != nil {
			a.logger.Err(err).Str("func", "*App.WithSyncLock").Str("lock_id", id).Msg("error releasing sync lock")
		}
	}()

	return fn(ctx)
}

// Events returns the sink that buffers every produced event.
func (a *App) Events() *EventLog {
	return a.events
}

// Services returns the process-scoped coordinators.
func (a *App) Services() *service.Services {
	return a.services
}

// Watcher returns the watch supervisor.
func (a *App) Watcher() watcher.WatchSupervisor {
	return a.supervise
}

func (a *App) shutdown() {
	a.channel.Stop()
	a.supervise.Stop()
	a.services.Stop()
	a.logger.Info().Str("func", "*App.shutdown").Uint64("dropped_events", a.events.Dropped()).Msg("sync client stopped")
}
