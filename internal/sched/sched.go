package sched

import (
	"context"
	"runtime"

	"github.com/vk/convertkit/internal/ctxlog"
)

// Task is one long-running unit of work with explicit yield boundaries.
type Task func(ctx context.Context, y *Yielder) error

// Yielder marks the suspension points inside a running task.
type Yielder struct {
	// gate is nil for free-running tasks; otherwise every Yield waits for
	// one Tick from the host.
	gate <-chan struct{}
}

// Yield suspends the task at a cooperative boundary. It returns the
// context's error when the task has been cancelled; the task is expected to
// propagate it immediately.
func (y *Yielder) Yield(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if y.gate == nil {
		runtime.Gosched()
		return nil
	}
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-y.gate:
		return nil
	}
}

// Handle is the host's view of a started task.
type Handle struct {
	gate   chan struct{}
	done   chan struct{}
	cancel context.CancelFunc
	err    error
}

// Start launches the task gated on host ticks. The segment up to the first
// yield runs immediately; every further segment runs only when the host
// grants a Tick.
func Start(ctx context.Context, task Task) *Handle {
	ctx, cancel := context.WithCancel(ctx)
	h := &Handle{
		gate:   make(chan struct{}),
		done:   make(chan struct{}),
		cancel: cancel,
	}
	y := &Yielder{gate: h.gate}
	go func() {
		defer close(h.done)
		defer cancel()
		h.err = task(ctx, y)
	}()
	return h
}

// Tick grants the task one step. It returns false once the task has
// finished, at which point Err holds the task's result.
func (h *Handle) Tick() bool {
	select {
	case h.gate <- struct{}{}:
		return true
	case <-h.done:
		return false
	}
}

// Stop asks the task to stop at its next suspension point.
func (h *Handle) Stop() {
	h.cancel()
}

// Wait blocks until the task finishes and returns its error.
func (h *Handle) Wait() error {
	<-h.done
	return h.err
}

// Err returns the task's result once Wait or a false Tick observed
// completion.
func (h *Handle) Err() error {
	return h.err
}

// Run executes the task free-running: yields degrade to cancellation
// checkpoints and the call blocks until the task finishes.
func Run(ctx context.Context, task Task) error {
	logger := ctxlog.FromContext(ctx)
	logger.Debug("Scheduler running task to completion.")
	err := task(ctx, &Yielder{})
	logger.Debug("Scheduler task finished.", "error", err)
	return err
}
