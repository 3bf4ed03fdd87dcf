package worker

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

func TestPool_EveryIndexOnce(t *testing.T) {
	pool := NewPool(4)

	const total = 100
	results := make([]int32, total)

	pool.Run(context.Background(), total, func(_ context.Context, index int) {
		atomic.AddInt32(&results[index], 1)
	})

	for i, count := range results {
		if count != 1 {
			t.Errorf("Index %d processed %d times, expected 1", i, count)
		}
	}
}

func TestPool_ProgressReachesTotal(t *testing.T) {
	pool := NewPool(3)

	var mu sync.Mutex
	var last int
	pool.OnProgress(func(done, total int) {
		mu.Lock()
		if done > last {
			last = done
		}
		mu.Unlock()
	})

	pool.Run(context.Background(), 25, func(_ context.Context, _ int) {})

	if last != 25 {
		t.Errorf("Expected final progress 25, got %d", last)
	}
}

func TestPool_ZeroWorkersClamped(t *testing.T) {
	pool := NewPool(0)

	ran := false
	pool.Run(context.Background(), 1, func(_ context.Context, _ int) {
		ran = true
	})

	if !ran {
		t.Error("Expected job to run with clamped worker count")
	}
}

func TestPool_FailingRowDoesNotAbortSiblings(t *testing.T) {
	pool := NewPool(2)

	var processed atomic.Int64
	pool.Run(context.Background(), 10, func(_ context.Context, index int) {
		// A "failed" row just records nothing; the pool must still
		// visit every sibling
		if index%2 == 0 {
			return
		}
		processed.Add(1)
	})

	if processed.Load() != 5 {
		t.Errorf("Expected 5 successful rows, got %d", processed.Load())
	}
}

func TestPool_ContextCancel(t *testing.T) {
	pool := NewPool(1)

	ctx, cancel := context.WithCancel(context.Background())

	var started atomic.Int64
	done := make(chan struct{})
	go func() {
		pool.Run(ctx, 1000, func(ctx context.Context, _ int) {
			if started.Add(1) == 1 {
				cancel()
			}
			time.Sleep(time.Millisecond)
		})
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("Pool did not stop after context cancellation")
	}

	if started.Load() >= 1000 {
		t.Error("Expected cancellation to stop submission of remaining rows")
	}
}
