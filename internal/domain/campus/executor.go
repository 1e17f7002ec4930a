package campus

import (
	"context"
	"sync"

	"golang.org/x/sync/semaphore"

	"campus-market-go/pkg/logger"
)

// Executor runs detached tasks outside any request lifecycle. At most
// capacity tasks run at once; submissions beyond that are dropped.
type Executor struct {
	sem    *semaphore.Weighted
	ctx    context.Context
	cancel context.CancelFunc
	log    logger.Logger

	mu     sync.Mutex
	closed bool
	wg     sync.WaitGroup
}

func NewExecutor(capacity int64, log logger.Logger) *Executor {
	if capacity <= 0 {
		capacity = 1
	}
	if log == nil {
		log = logger.Nop()
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &Executor{
		sem:    semaphore.NewWeighted(capacity),
		ctx:    ctx,
		cancel: cancel,
		log:    log,
	}
}

// Submit starts task in its own goroutine and reports whether it was accepted.
func (e *Executor) Submit(name string, task func(ctx context.Context)) bool {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.closed {
		return false
	}
	if !e.sem.TryAcquire(1) {
		e.log.Warn("campus.executor: task dropped, executor busy", "task", name)
		return false
	}

	e.wg.Add(1)
	go func() {
		defer e.wg.Done()
		defer e.sem.Release(1)
		defer func() {
			if rec := recover(); rec != nil {
				e.log.Error("campus.executor: task panicked", "task", name, "panic", rec)
			}
		}()
		task(e.ctx)
	}()
	return true
}

// Close stops accepting tasks and waits for running ones. When ctx expires
// first the running tasks are cancelled and Close still waits for them to return.
func (e *Executor) Close(ctx context.Context) error {
	e.mu.Lock()
	e.closed = true
	e.mu.Unlock()

	done := make(chan struct{})
	go func() {
		e.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		e.cancel()
		return nil
	case <-ctx.Done():
		e.cancel()
		<-done
		return ctx.Err()
	}
}
