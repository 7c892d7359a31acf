package watcher

import (
	"context"
	"time"

	"github.com/MKhiriev/go-sync-client/internal/logger"
	"github.com/jonboulle/clockwork"
)

// ResumeDetector calls onResume when the wall clock jumps further than two
// check intervals between ticks, which happens after the host slept.
type ResumeDetector struct {
	clock    clockwork.Clock
	interval time.Duration
	onResume func()
	logger   *logger.Logger
}

func NewResumeDetector(clock clockwork.Clock, interval time.Duration, onResume func(), logger *logger.Logger) *ResumeDetector {
	if interval <= 0 {
		interval = 10 * time.Second
	}
	return &ResumeDetector{
		clock:    clock,
		interval: interval,
		onResume: onResume,
		logger:   logger,
	}
}

// Run blocks until ctx is done.
func (d *ResumeDetector) Run(ctx context.Context) error {
	ticker := d.clock.NewTicker(d.interval)
	defer ticker.Stop()

	// Round(0) strips the monotonic reading, which stops while suspended.
	last := d.clock.Now().Round(0)
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.Chan():
			now := d.clock.Now().Round(0)
			if gap := now.Sub(last); gap > 2*d.interval {
				d.logger.Info().Str("func", "*ResumeDetector.Run").Dur("gap", gap).Msg("wall clock jump, resuming watches")
				d.onResume()
			}
			last = now
		}
	}
}
