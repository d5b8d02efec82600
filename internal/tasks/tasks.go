// Package tasks runs fire-and-forget bookkeeping off the request path.
// Failures and panics are reported to the runner's logger and discarded;
// they can never surface to the dispatching caller.
package tasks

import (
	"context"
	"io"
	"log"
	"sync"
	"time"
)

// Runner dispatches detached background tasks. Each task gets its own
// context with a bounded timeout, independent of the request that spawned
// it: a client aborting has no effect on in-flight bookkeeping.
type Runner struct {
	logger  *log.Logger
	timeout time.Duration
	wg      sync.WaitGroup
}

// NewRunner builds a Runner whose tasks time out after timeout.
func NewRunner(logger *log.Logger, timeout time.Duration) *Runner {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Runner{logger: logger, timeout: timeout}
}

// Go dispatches fn without waiting for it. The name labels log lines for
// the failure sink.
func (r *Runner) Go(name string, fn func(ctx context.Context) error) {
	r.wg.Add(1)
	go func() {
		defer r.wg.Done()
		defer func() {
			if p := recover(); p != nil {
				r.logger.Printf("tasks: %s panic=%v", name, p)
			}
		}()

		ctx, cancel := context.WithTimeout(context.Background(), r.timeout)
		defer cancel()

		if err := fn(ctx); err != nil {
			r.logger.Printf("tasks: %s error=%v", name, err)
		}
	}()
}

// Wait blocks until all dispatched tasks finish. Used by graceful shutdown
// and tests; request handlers never call it.
func (r *Runner) Wait() {
	r.wg.Wait()
}
