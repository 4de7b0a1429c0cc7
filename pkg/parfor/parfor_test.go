package parfor

import (
	"sort"
	"sync"
	"sync/atomic"
	"testing"
)

func TestStaticCoversEveryIndex(t *testing.T) {
	n := 97
	var mu sync.Mutex
	var seen []int
	Static(n, 4, func(start, end int) {
		mu.Lock()
		for i := start; i < end; i++ {
			seen = append(seen, i)
		}
		mu.Unlock()
	})
	sort.Ints(seen)
	if len(seen) != n {
		t.Fatalf("covered %d indices, want %d", len(seen), n)
	}
	for i, v := range seen {
		if v != i {
			t.Fatalf("seen[%d] = %d, want %d (gap or duplicate)", i, v, i)
		}
	}
}

func TestStaticSingleWorker(t *testing.T) {
	var count int64
	Static(50, 1, func(start, end int) {
		atomic.AddInt64(&count, int64(end-start))
	})
	if count != 50 {
		t.Errorf("got %d, want 50", count)
	}
}

func TestDynamicCoversEveryIndex(t *testing.T) {
	n := 203
	var mu sync.Mutex
	covered := make([]bool, n)
	Dynamic(n, 8, 7, func(start, end int) {
		mu.Lock()
		for i := start; i < end; i++ {
			if covered[i] {
				t.Errorf("index %d covered twice", i)
			}
			covered[i] = true
		}
		mu.Unlock()
	})
	for i, c := range covered {
		if !c {
			t.Errorf("index %d never covered", i)
		}
	}
}

func TestDynamicZeroN(t *testing.T) {
	called := false
	Dynamic(0, 4, 8, func(start, end int) { called = true })
	if called {
		t.Error("body should not run for n=0")
	}
}
