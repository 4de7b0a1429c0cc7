package comm

import (
	"context"
	"fmt"
	"sync"

	"golang.org/x/sync/errgroup"
)

// Group is an in-process communicator of size n: every rank is a
// goroutine, and collectives rendezvous through shared state guarded
// by a mutex. Ranks must call collectives in the same relative order —
// exactly the "funneled" SPMD discipline spec §5 requires — because
// each call is matched to the others by a per-rank call counter, not
// by any explicit tag.
type Group struct {
	n int

	mu     sync.Mutex
	states map[int]*opState
}

// NewGroup creates a communicator for n ranks.
func NewGroup(n int) *Group {
	if n <= 0 {
		panic("comm: group size must be positive")
	}
	return &Group{n: n, states: make(map[int]*opState)}
}

// Rank returns the Communicator view for one member of the group.
// localRank must be in [0,n).
func (g *Group) Rank(localRank int) Communicator {
	if localRank < 0 || localRank >= g.n {
		panic("comm: rank out of range")
	}
	return &member{g: g, rank: localRank}
}

// opState is the rendezvous point for one collective call: every rank
// arrives with its own input, the last arrival computes a per-rank
// result slice, and every rank reads its own slot before the state is
// discarded.
type opState struct {
	mu       sync.Mutex
	arrived  int
	cleaned  int
	inputs   []any
	result   []any
	done     chan struct{}
	aborted  bool
	abortErr error
}

func newOpState(n int) *opState {
	return &opState{inputs: make([]any, n), done: make(chan struct{})}
}

type member struct {
	g    *Group
	rank int
	step int
}

func (m *member) Rank() int { return m.rank }
func (m *member) Size() int { return m.g.n }

func (m *member) nextStep() int {
	s := m.step
	m.step++
	return s
}

// collective runs one rendezvous: every rank's call at the same step
// number joins the same opState; compute runs exactly once, by
// whichever rank happens to arrive last, and its result is fanned out
// to every rank's own slot.
func (g *Group) collective(ctx context.Context, rank, step int, input any, compute func(inputs []any) ([]any, error)) (any, error) {
	g.mu.Lock()
	st, ok := g.states[step]
	if !ok {
		st = newOpState(g.n)
		g.states[step] = st
	}
	g.mu.Unlock()

	st.mu.Lock()
	st.inputs[rank] = input
	st.arrived++
	isLast := st.arrived == g.n
	st.mu.Unlock()

	if isLast {
		res, err := compute(st.inputs)
		st.mu.Lock()
		if err != nil {
			st.aborted = true
			st.abortErr = err
		} else {
			st.result = res
		}
		st.mu.Unlock()
		close(st.done)
	} else {
		select {
		case <-st.done:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}

	st.mu.Lock()
	aborted, abortErr := st.aborted, st.abortErr
	var out any
	if !aborted {
		out = st.result[rank]
	}
	st.cleaned++
	lastOut := st.cleaned == g.n
	st.mu.Unlock()

	if lastOut {
		g.mu.Lock()
		delete(g.states, step)
		g.mu.Unlock()
	}
	if aborted {
		return nil, abortErr
	}
	return out, nil
}

func (m *member) Barrier(ctx context.Context) error {
	_, err := m.g.collective(ctx, m.rank, m.nextStep(), nil, func(in []any) ([]any, error) {
		return make([]any, len(in)), nil
	})
	return err
}

func (m *member) Bcast(ctx context.Context, data []int, root int) ([]int, error) {
	res, err := m.g.collective(ctx, m.rank, m.nextStep(), data, func(in []any) ([]any, error) {
		src, ok := in[root].([]int)
		if !ok {
			return nil, fmt.Errorf("comm: Bcast root %d supplied no data", root)
		}
		out := make([]any, len(in))
		for i := range out {
			cp := make([]int, len(src))
			copy(cp, src)
			out[i] = cp
		}
		return out, nil
	})
	if err != nil {
		return nil, err
	}
	return res.([]int), nil
}

func (m *member) Scatter(ctx context.Context, sendFlat []int, counts []int, root int) ([]int, error) {
	res, err := m.g.collective(ctx, m.rank, m.nextStep(), sendFlat, func(in []any) ([]any, error) {
		flat, ok := in[root].([]int)
		if !ok {
			return nil, fmt.Errorf("comm: Scatter root %d supplied no data", root)
		}
		total := 0
		for _, c := range counts {
			total += c
		}
		if total != len(flat) {
			return nil, fmt.Errorf("comm: Scatter counts sum to %d, data has %d elements", total, len(flat))
		}
		out := make([]any, len(in))
		off := 0
		for i, c := range counts {
			buf := make([]int, c)
			copy(buf, flat[off:off+c])
			out[i] = buf
			off += c
		}
		return out, nil
	})
	if err != nil {
		return nil, err
	}
	return res.([]int), nil
}

func (m *member) Gather(ctx context.Context, local []int, counts []int, root int) ([]int, error) {
	res, err := m.g.collective(ctx, m.rank, m.nextStep(), local, func(in []any) ([]any, error) {
		total := 0
		for _, c := range counts {
			total += c
		}
		flat := make([]int, total)
		off := 0
		for i, c := range counts {
			src, _ := in[i].([]int)
			if len(src) != c {
				return nil, fmt.Errorf("comm: Gather rank %d sent %d elements, want %d", i, len(src), c)
			}
			copy(flat[off:off+c], src)
			off += c
		}
		out := make([]any, len(in))
		out[root] = flat
		return out, nil
	})
	if err != nil {
		return nil, err
	}
	if res == nil {
		return nil, nil
	}
	return res.([]int), nil
}

func (m *member) AllReduceSum(ctx context.Context, local []int64) ([]int64, error) {
	res, err := m.g.collective(ctx, m.rank, m.nextStep(), local, func(in []any) ([]any, error) {
		width := len(local)
		sum := make([]int64, width)
		for _, v := range in {
			arr, ok := v.([]int64)
			if !ok || len(arr) != width {
				return nil, fmt.Errorf("comm: AllReduceSum width mismatch")
			}
			for i, x := range arr {
				sum[i] += x
			}
		}
		out := make([]any, len(in))
		for i := range out {
			cp := make([]int64, width)
			copy(cp, sum)
			out[i] = cp
		}
		return out, nil
	})
	if err != nil {
		return nil, err
	}
	return res.([]int64), nil
}

// Run launches p ranks as goroutines inside an errgroup.Group bound to
// ctx. If any rank returns an error, the group's context is cancelled,
// which unblocks every rank parked in a collective — the "a fatal
// error at any rank aborts the entire group" rule from spec §5/§7.
// Run waits for all ranks and returns the first non-nil error.
func Run(ctx context.Context, p int, fn func(ctx context.Context, comm Communicator) error) error {
	g := NewGroup(p)
	eg, egCtx := errgroup.WithContext(ctx)
	for r := 0; r < p; r++ {
		rank := r
		member := g.Rank(rank)
		eg.Go(func() error {
			return fn(egCtx, member)
		})
	}
	return eg.Wait()
}
