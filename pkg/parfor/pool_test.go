package parfor

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
)

func TestPoolBoundsConcurrency(t *testing.T) {
	p := NewPool(context.Background(), 2)
	var cur, max int64
	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := p.Acquire(); err != nil {
				t.Error(err)
				return
			}
			defer p.Release()
			n := atomic.AddInt64(&cur, 1)
			for {
				m := atomic.LoadInt64(&max)
				if n <= m || atomic.CompareAndSwapInt64(&max, m, n) {
					break
				}
			}
			atomic.AddInt64(&cur, -1)
		}()
	}
	wg.Wait()
	if max > 2 {
		t.Errorf("observed %d concurrent holders, want <= 2", max)
	}
}
