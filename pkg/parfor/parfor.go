// parfor is the inner, shared-memory level of the two-level
// decomposition (spec §5): fork/join loops over an index range, with
// static or dynamic chunk scheduling, run by worker goroutines inside
// one process. It plays the role OpenMP's "#pragma omp parallel for"
// plays in the original — see ARNSequence_hybrid.cpp's
// "schedule(dynamic, 32)" and FoydPar.cpp's "schedule(static)".
package parfor

import (
	"context"
	"runtime"
	"sync"
)

// DefaultWorkers returns a sensible worker count for shared-memory
// loops: all logical CPUs, at least one.
func DefaultWorkers() int {
	if n := runtime.GOMAXPROCS(0); n > 0 {
		return n
	}
	return 1
}

// Static splits [0,n) into workers contiguous chunks of roughly equal
// size and runs body(start,end) on each in its own goroutine. Suited
// to uniform per-index cost — the Floyd block updates, where every
// (i,j) cell does the same amount of work (spec §4.4).
func Static(n, workers int, body func(start, end int)) {
	if n <= 0 {
		return
	}
	if workers <= 1 || n == 1 {
		body(0, n)
		return
	}
	chunk := (n + workers - 1) / workers
	var wg sync.WaitGroup
	for start := 0; start < n; start += chunk {
		end := start + chunk
		if end > n {
			end = n
		}
		wg.Add(1)
		go func(s, e int) {
			defer wg.Done()
			body(s, e)
		}(start, end)
	}
	wg.Wait()
}

// Dynamic hands out [0,n) in chunks of chunkSize, one goroutine per
// chunk, through Pool, which admits at most workers of them at once —
// a cheap chunk finishing frees its slot for the next chunk straight
// away, instead of waiting on a fixed set of peer goroutines to each
// finish their own queue of chunks. Suited to the pairwise distance
// loop, where per-pair cost varies with sequence length (spec §4.2's
// "small chunks, e.g. 32, to tolerate length variance").
func Dynamic(n, workers, chunkSize int, body func(start, end int)) {
	if n <= 0 {
		return
	}
	if chunkSize <= 0 {
		chunkSize = 1
	}
	if workers <= 1 || n <= chunkSize {
		body(0, n)
		return
	}

	pool := NewPool(context.Background(), workers)
	var wg sync.WaitGroup
	for start := 0; start < n; start += chunkSize {
		end := start + chunkSize
		if end > n {
			end = n
		}
		_ = pool.Acquire() // context.Background() never cancels
		wg.Add(1)
		go func(s, e int) {
			defer wg.Done()
			defer pool.Release()
			body(s, e)
		}(start, end)
	}
	wg.Wait()
}
