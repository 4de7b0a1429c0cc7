package parfor

import (
	"context"

	"golang.org/x/sync/semaphore"
)

// Pool bounds how many chunk-goroutines may run at once. Dynamic uses
// it to submit work chunk-by-chunk (one goroutine per chunk) without
// unbounded goroutine fan-out — analogous to OpenMP capping live
// threads at the pool size while still letting the runtime's
// scheduler interleave chunks freely.
type Pool struct {
	sem *semaphore.Weighted
	ctx context.Context
}

// NewPool creates a pool that runs at most `workers` submitted tasks
// concurrently.
func NewPool(ctx context.Context, workers int) *Pool {
	if workers < 1 {
		workers = 1
	}
	return &Pool{sem: semaphore.NewWeighted(int64(workers)), ctx: ctx}
}

// Acquire blocks until a slot is free and takes it, or returns the
// pool context's error if that context is cancelled first. The caller
// must call Release once its task completes (deferred inside the
// goroutine body is the usual shape).
func (p *Pool) Acquire() error {
	return p.sem.Acquire(p.ctx, 1)
}

// Release returns a slot to the pool.
func (p *Pool) Release() {
	p.sem.Release(1)
}
