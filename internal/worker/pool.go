// Package worker provides the bounded fan-out used for per-abstract
// LLM calls and the rate limiter used for NCBI politeness.
package worker

import (
	"context"
	"sync"
	"sync/atomic"
)

// Pool runs a function over row indices with a fixed number of
// workers. Each index is processed exactly once; the function writes
// its result back by index, so no two workers touch the same row.
type Pool struct {
	workers  int
	progress func(done, total int)
}

// NewPool creates a pool with the given number of workers
func NewPool(workers int) *Pool {
	if workers <= 0 {
		workers = 1
	}
	return &Pool{workers: workers}
}

// OnProgress registers a callback invoked after every completed row.
// The completion counter is atomic and only feeds this callback; it
// has no effect on which rows run.
func (p *Pool) OnProgress(fn func(done, total int)) {
	p.progress = fn
}

// Run processes indices [0, total) with fn. fn must handle its own
// failures; Run never aborts sibling rows. Run returns once every
// index has been processed or the context is canceled.
func (p *Pool) Run(ctx context.Context, total int, fn func(ctx context.Context, index int)) {
	if total <= 0 {
		return
	}

	indices := make(chan int)
	var completed atomic.Int64
	var wg sync.WaitGroup

	for w := 0; w < p.workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for index := range indices {
				fn(ctx, index)
				done := completed.Add(1)
				if p.progress != nil {
					p.progress(int(done), total)
				}
			}
		}()
	}

	for i := 0; i < total; i++ {
		select {
		case <-ctx.Done():
			close(indices)
			wg.Wait()
			return
		case indices <- i:
		}
	}
	close(indices)
	wg.Wait()
}
