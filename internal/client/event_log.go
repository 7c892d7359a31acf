package client

import (
	"sync/atomic"

	"github.com/MKhiriev/go-sync-client/internal/logger"
	"github.com/MKhiriev/go-sync-client/models"
)

const defaultEventBuffer = 1024

// Event is either a watch event or a socket event.
type Event struct {
	Watch  *models.WatchEvent
	Socket *models.SocketEvent
}

// EventLog is the default sink of the watcher and the socket. It logs every
// event and buffers it for the downstream scheduler. When the buffer is full
// the event is dropped and counted.
type EventLog struct {
	events  chan Event
	dropped atomic.Uint64
	logger  *logger.Logger
}

func NewEventLog(buffer int, logger *logger.Logger) *EventLog {
	if buffer <= 0 {
		buffer = defaultEventBuffer
	}
	return &EventLog{
		events: make(chan Event, buffer),
		logger: logger,
	}
}

// HandleWatchEvent implements watcher.Sink.
func (l *EventLog) HandleWatchEvent(ev models.WatchEvent) {
	l.logger.Debug().Str("func", "*EventLog.HandleWatchEvent").
		Str("event", ev.Event).Str("name", ev.Name).
		Str("location_uuid", ev.LocationUUID).Msg("watch event")
	l.offer(Event{Watch: &ev})
}

// HandleSocketEvent implements socket.Sink.
func (l *EventLog) HandleSocketEvent(ev models.SocketEvent) {
	l.logger.Debug().Str("func", "*EventLog.HandleSocketEvent").
		Str("type", ev.Type).Int("bytes", len(ev.Data)).Msg("socket event")
	l.offer(Event{Socket: &ev})
}

func (l *EventLog) offer(ev Event) {
	select {
	case l.events <- ev:
	default:
		n := l.dropped.Add(1)
		l.logger.Warn().Str("func", "*EventLog.offer").Uint64("dropped", n).Msg("event buffer full, event dropped")
	}
}

// Events returns the buffered events.
func (l *EventLog) Events() <-chan Event {
	return l.events
}

// Dropped returns how many events were dropped so far.
func (l *EventLog) Dropped() uint64 {
	return l.dropped.Load()
}
