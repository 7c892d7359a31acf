package socket

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/MKhiriev/go-sync-client/internal/config"
	"github.com/MKhiriev/go-sync-client/internal/crypto"
	"github.com/MKhiriev/go-sync-client/internal/logger"
	"github.com/MKhiriev/go-sync-client/models"
	"github.com/coder/websocket"
	"github.com/coder/websocket/wsjson"
	"github.com/jonboulle/clockwork"
	"github.com/sethvargo/go-retry"
	"github.com/tidwall/gjson"
	"golang.org/x/sync/errgroup"
)

// Option customises a channel built by [NewChannel].
type Option func(*channel)

// WithClock replaces the wall clock driving the heartbeat.
func WithClock(c clockwork.Clock) Option {
	return func(ch *channel) {
		ch.clock = c
	}
}

type channel struct {
	url            string
	heartbeat      time.Duration
	reconnectDelay time.Duration

	credentials CredentialSource
	ring        RingSource
	engine      crypto.Engine
	sink        Sink
	clock       clockwork.Clock
	logger      *logger.Logger

	state atomic.Int32

	mu      sync.Mutex
	cancel  context.CancelFunc
	stopped bool
	wg      sync.WaitGroup
}

// NewChannel creates a [NotificationChannel] for app.SocketURL.
func NewChannel(
	app config.ClientApp,
	workers config.ClientWorkers,
	credentials CredentialSource,
	ring RingSource,
	engine crypto.Engine,
	sink Sink,
	logger *logger.Logger,
	opts ...Option,
) NotificationChannel {
	c := &channel{
		url:            app.SocketURL,
		heartbeat:      workers.SocketHeartbeatInterval,
		reconnectDelay: workers.SocketReconnectDelay,
		credentials:    credentials,
		ring:           ring,
		engine:         engine,
		sink:           sink,
		clock:          clockwork.NewRealClock(),
		logger:         logger,
	}
	if c.heartbeat <= 0 {
		c.heartbeat = 5 * time.Second
	}
	if c.reconnectDelay <= 0 {
		c.reconnectDelay = time.Second
	}
	for _, opt := range opts {
		opt(c)
	}

	return c
}

func (c *channel) setState(s models.SocketState) {
	c.state.Store(int32(s))
}

// State implements [NotificationChannel].
func (c *channel) State() models.SocketState {
	return models.SocketState(c.state.Load())
}

// Run implements [NotificationChannel]. Every session end is followed by a
// reconnect after the fixed delay; there is no attempt ceiling.
func (c *channel) Run(ctx context.Context) error {
	c.mu.Lock()
	if c.stopped {
		c.mu.Unlock()
		return nil
	}
	ctx, cancel := context.WithCancel(ctx)
	c.cancel = cancel
	c.wg.Add(1)
	c.mu.Unlock()

	defer c.wg.Done()
	defer cancel()
	defer c.setState(models.SocketDisconnected)

	log := c.logger.With().Str("func", "*channel.Run").Str("url", c.url).Logger()

	err := retry.Do(ctx, retry.NewConstant(c.reconnectDelay), func(ctx context.Context) error {
		err := c.session(ctx)
		c.setState(models.SocketDisconnected)
		if ctx.Err() != nil {
			return ctx.Err()
		}
		log.Warn().Err(err).Dur("delay", c.reconnectDelay).Msg("socket session ended, reconnecting")
		return retry.RetryableError(err)
	})
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}

// session runs one connection from dial to disconnect. Heartbeat and reader
// start as soon as the socket is up; only the auth frame waits for login.
func (c *channel) session(ctx context.Context) error {
	c.setState(models.SocketConnecting)

	conn, _, err := websocket.Dial(ctx, c.url, nil) //nolint:bodyclose // Dial closes the body
	if err != nil {
		return fmt.Errorf("dial socket: %w", err)
	}
	defer conn.CloseNow()

	c.setState(models.SocketConnected)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return c.keepAlive(gctx, conn)
	})
	g.Go(func() error {
		return c.read(gctx, conn)
	})
	g.Go(func() error {
		return c.authenticate(gctx, conn)
	})

	return g.Wait()
}

func (c *channel) authenticate(ctx context.Context, conn *websocket.Conn) error {
	apiKey, err := c.credentials.WaitForCredential(ctx)
	if err != nil {
		return fmt.Errorf("wait for credential: %w", err)
	}
	if err = wsjson.Write(ctx, conn, frame{Type: typeAuth, Data: authData{APIKey: apiKey}}); err != nil {
		return fmt.Errorf("send auth: %w", err)
	}

	c.setState(models.SocketAuthenticated)
	c.logger.Info().Str("func", "*channel.authenticate").Msg("socket authenticated")
	return nil
}

func (c *channel) keepAlive(ctx context.Context, conn *websocket.Conn) error {
	ticker := c.clock.NewTicker(c.heartbeat)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.Chan():
			if err := wsjson.Write(ctx, conn, frame{Type: typeHeartbeat, Data: struct{}{}}); err != nil {
				return fmt.Errorf("send heartbeat: %w", err)
			}
		}
	}
}

func (c *channel) read(ctx context.Context, conn *websocket.Conn) error {
	for {
		typ, data, err := conn.Read(ctx)
		if err != nil {
			return fmt.Errorf("read socket: %w", err)
		}
		if typ != websocket.MessageText {
			c.logger.Debug().Str("func", "*channel.read").Int("bytes", len(data)).Msg("binary frame ignored")
			continue
		}
		c.dispatch(data)
	}
}

// dispatch routes one inbound frame. Frames that cannot be parsed or
// decrypted are dropped.
func (c *channel) dispatch(data []byte) {
	log := c.logger.With().Str("func", "*channel.dispatch").Logger()

	if !gjson.ValidBytes(data) {
		log.Warn().Int("bytes", len(data)).Msg("malformed frame dropped")
		return
	}

	parsed := gjson.ParseBytes(data)
	kind := parsed.Get("type").String()
	payload := parsed.Get("data")

	switch kind {
	case typeClientMessage:
		args := payload.Get("args")
		if args.Type != gjson.String || args.String() == "" {
			log.Warn().Str("type", kind).Msg("frame without args dropped")
			return
		}
		decrypted, err := c.engine.DecryptSocketPayload(args.String(), c.ring.Keys())
		if err != nil {
			log.Warn().Err(err).Str("type", kind).Msg("undecryptable frame dropped")
			return
		}
		c.sink.HandleSocketEvent(models.SocketEvent{Type: kind, Data: decrypted})

	case typeAuthFailed:
		log.Error().Msg("socket authentication failed")

	default:
		if _, ok := forwardedTypes[kind]; !ok {
			log.Debug().Str("type", kind).Msg("frame ignored")
			return
		}
		ev := models.SocketEvent{Type: kind}
		if payload.Exists() {
			ev.Data = json.RawMessage(payload.Raw)
		}
		c.sink.HandleSocketEvent(ev)
	}
}

// Stop implements [NotificationChannel].
func (c *channel) Stop() {
	c.mu.Lock()
	c.stopped = true
	if c.cancel != nil {
		c.cancel()
	}
	c.mu.Unlock()

	c.wg.Wait()
}
