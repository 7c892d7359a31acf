package watcher

import (
	"sync"

	"github.com/MKhiriev/go-sync-client/models"
)

// dispatcher delivers the events of one path to the sink in order, one at
// a time. push never blocks.
type dispatcher struct {
	sink Sink

	mu    sync.Mutex
	queue []models.WatchEvent

	wake chan struct{}
	done chan struct{}
	once sync.Once
}

func newDispatcher(sink Sink) *dispatcher {
	return &dispatcher{
		sink: sink,
		wake: make(chan struct{}, 1),
		done: make(chan struct{}),
	}
}

func (d *dispatcher) push(ev models.WatchEvent) {
	d.mu.Lock()
	d.queue = append(d.queue, ev)
	d.mu.Unlock()

	select {
	case d.wake <- struct{}{}:
	default:
	}
}

func (d *dispatcher) pop() (models.WatchEvent, bool) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if len(d.queue) == 0 {
		return models.WatchEvent{}, false
	}
	ev := d.queue[0]
	d.queue[0] = models.WatchEvent{}
	d.queue = d.queue[1:]
	return ev, true
}

func (d *dispatcher) run() {
	for {
		select {
		case <-d.done:
			return
		case <-d.wake:
			for {
				select {
				case <-d.done:
					return
				default:
				}
				ev, ok := d.pop()
				if !ok {
					break
				}
				d.sink.HandleWatchEvent(ev)
			}
		}
	}
}

func (d *dispatcher) close() {
	d.once.Do(func() { close(d.done) })
}
