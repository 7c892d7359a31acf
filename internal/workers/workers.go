package workers

import (
	"context"

	"github.com/MKhiriev/go-sync-client/internal/logger"
	"golang.org/x/sync/errgroup"
)

type named struct {
	name string
	Worker
}

type Workers struct {
	workers []named
	logger  *logger.Logger
}

func NewWorkers(logger *logger.Logger) *Workers {
	return &Workers{logger: logger}
}

// Add registers worker under name. Workers added after Run has started are
// not run.
func (w *Workers) Add(name string, worker Worker) {
	w.workers = append(w.workers, named{name: name, Worker: worker})
}

// Run starts every worker and blocks until all of them return. The first
// error cancels the context passed to the others and is returned.
func (w *Workers) Run(ctx context.Context) error {
	g, gctx := errgroup.WithContext(ctx)

	for _, worker := range w.workers {
		g.Go(func() error {
			w.logger.Debug().Str("func", "*Workers.Run").Str("worker", worker.name).Msg("worker started")
			err := worker.Run(gctx)
			if err != nil {
				w.logger.Err(err).Str("func", "*Workers.Run").Str("worker", worker.name).Msg("worker failed")
				return err
			}
			w.logger.Debug().Str("func", "*Workers.Run").Str("worker", worker.name).Msg("worker stopped")
			return nil
		})
	}

	return g.Wait()
}
