package comm

import (
	"context"
	"testing"
)

func TestSize1Identity(t *testing.T) {
	c := Size1{}
	ctx := context.Background()
	data := []int{1, 2, 3}
	got, err := c.Bcast(ctx, data, 0)
	if err != nil || len(got) != 3 || got[0] != 1 {
		t.Errorf("Size1.Bcast: got %v, %v", got, err)
	}
	if err := c.Barrier(ctx); err != nil {
		t.Errorf("Size1.Barrier: %v", err)
	}
}

func TestGroupBarrierRendezvous(t *testing.T) {
	ctx := context.Background()
	n := 4
	err := Run(ctx, n, func(ctx context.Context, c Communicator) error {
		return c.Barrier(ctx)
	})
	if err != nil {
		t.Fatal(err)
	}
}

func TestGroupBcast(t *testing.T) {
	ctx := context.Background()
	n := 3
	results := make([][]int, n)
	err := Run(ctx, n, func(ctx context.Context, c Communicator) error {
		var payload []int
		if c.Rank() == 0 {
			payload = []int{9, 8, 7}
		}
		got, err := c.Bcast(ctx, payload, 0)
		if err != nil {
			return err
		}
		results[c.Rank()] = got
		return nil
	})
	if err != nil {
		t.Fatal(err)
	}
	for r, got := range results {
		if len(got) != 3 || got[0] != 9 {
			t.Errorf("rank %d: got %v", r, got)
		}
	}
}

func TestGroupScatterGatherInverse(t *testing.T) {
	ctx := context.Background()
	n := 4
	original := []int{0, 1, 2, 3, 4, 5, 6, 7}
	counts := []int{2, 2, 2, 2}

	reassembled := make([]int, len(original))
	err := Run(ctx, n, func(ctx context.Context, c Communicator) error {
		var send []int
		if c.Rank() == 0 {
			send = original
		}
		local, err := c.Scatter(ctx, send, counts, 0)
		if err != nil {
			return err
		}
		gathered, err := c.Gather(ctx, local, counts, 0)
		if err != nil {
			return err
		}
		if c.Rank() == 0 {
			copy(reassembled, gathered)
		}
		return nil
	})
	if err != nil {
		t.Fatal(err)
	}
	for i, v := range original {
		if reassembled[i] != v {
			t.Errorf("reassembled[%d] = %d, want %d", i, reassembled[i], v)
		}
	}
}

func TestGroupAllReduceSum(t *testing.T) {
	ctx := context.Background()
	n := 4
	sums := make([][]int64, n)
	err := Run(ctx, n, func(ctx context.Context, c Communicator) error {
		local := []int64{int64(c.Rank()), 1}
		sum, err := c.AllReduceSum(ctx, local)
		if err != nil {
			return err
		}
		sums[c.Rank()] = sum
		return nil
	})
	if err != nil {
		t.Fatal(err)
	}
	want := []int64{0 + 1 + 2 + 3, 4}
	for r, s := range sums {
		if s[0] != want[0] || s[1] != want[1] {
			t.Errorf("rank %d: got %v, want %v", r, s, want)
		}
	}
}

func TestGroupAbortsOnError(t *testing.T) {
	ctx := context.Background()
	n := 4
	err := Run(ctx, n, func(ctx context.Context, c Communicator) error {
		if c.Rank() == 1 {
			return context.Canceled
		}
		return c.Barrier(ctx)
	})
	if err == nil {
		t.Error("expected an error to propagate from the failing rank")
	}
}
