// Package workers runs the long-lived background loops of the client as
// one group: the first loop to fail cancels the others.
package workers

import "context"

// Worker is a background loop. Run blocks until ctx is done or the loop
// fails. Returning nil on cancellation is expected.
//
// Example implementation:
//
//	type heartbeat struct{}
//
//	func (h *heartbeat) Run(ctx context.Context) error {
//	    <-ctx.Done()
//	    return nil
//	}
type Worker interface {
	Run(ctx context.Context) error
}

// WorkerFunc adapts a function to [Worker].
type WorkerFunc func(ctx context.Context) error

func (f WorkerFunc) Run(ctx context.Context) error { return f(ctx) }
