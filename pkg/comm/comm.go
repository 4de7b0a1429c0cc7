// comm models the outer, message-passing level of the two-level
// parallel decomposition described in spec §5: a fixed-size group of
// participating processes ("ranks") connected by collective
// operations — broadcast, scatter, gather, all-reduce with integer
// sum, and barrier. There are no point-to-point operations.
//
// There is no real network fabric backing this: every rank in this
// repository is a goroutine inside one OS process, and a Group is the
// rendezvous point they block on. That is enough to express and test
// the same decomposition spec.md asks for (the same algorithm a real
// MPI program would run), and it makes the "communicator of size 1
// implements each primitive as identity" sequential fallback trivial —
// Size1 below does exactly that, with no synchronization at all.
package comm

import "context"

// Communicator is the set of primitives a compute stage is allowed to
// use to cross rank boundaries. Nothing in pkg/distbuild, pkg/floyd or
// pkg/pam talks to goroutines or channels directly; everything crosses
// through one of these methods, so swapping Group for Size1 changes
// nothing about the algorithm above it.
type Communicator interface {
	Rank() int
	Size() int

	// Barrier blocks until every rank in the communicator has called
	// Barrier. It is the only primitive with no payload.
	Barrier(ctx context.Context) error

	// Bcast distributes root's data to every rank, including root.
	// Only the value passed by root is used; the return value is a
	// fresh copy owned by the caller.
	Bcast(ctx context.Context, data []int, root int) ([]int, error)

	// Scatter splits root's sendFlat into contiguous pieces sized by
	// counts (len(counts) == Size(), sum(counts) == len(sendFlat) at
	// root) and returns the piece belonging to this rank.
	Scatter(ctx context.Context, sendFlat []int, counts []int, root int) ([]int, error)

	// Gather is Scatter's inverse: every rank contributes local
	// (len(local) == counts[Rank()]), root receives the concatenation
	// in rank order. Non-root ranks get a nil result.
	Gather(ctx context.Context, local []int, counts []int, root int) ([]int, error)

	// AllReduceSum does an element-wise sum of local across every
	// rank and returns the result to all ranks.
	AllReduceSum(ctx context.Context, local []int64) ([]int64, error)
}

// Size1 is the trivial single-rank communicator: every collective is
// the identity. Used for the p=1 sequential fallback (spec §4.4).
type Size1 struct{}

func (Size1) Rank() int { return 0 }
func (Size1) Size() int { return 1 }

func (Size1) Barrier(ctx context.Context) error { return ctx.Err() }

func (Size1) Bcast(ctx context.Context, data []int, root int) ([]int, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	out := make([]int, len(data))
	copy(out, data)
	return out, nil
}

func (Size1) Scatter(ctx context.Context, sendFlat []int, counts []int, root int) ([]int, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	out := make([]int, len(sendFlat))
	copy(out, sendFlat)
	return out, nil
}

func (Size1) Gather(ctx context.Context, local []int, counts []int, root int) ([]int, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	out := make([]int, len(local))
	copy(out, local)
	return out, nil
}

func (Size1) AllReduceSum(ctx context.Context, local []int64) ([]int64, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	out := make([]int64, len(local))
	copy(out, local)
	return out, nil
}
