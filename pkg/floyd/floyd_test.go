package floyd

import (
	"context"
	"testing"

	"github.com/andrew-torda/arnclust/pkg/comm"
	"github.com/andrew-torda/arnclust/pkg/dmatrix"
)

func TestSequentialClosure(t *testing.T) {
	n := 3
	m := dmatrix.New(n)
	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			if i != j {
				m.Set(i, j, dmatrix.INF)
			}
		}
	}
	m.SetSymmetric(0, 1, 2)
	m.SetSymmetric(1, 2, 3)

	Sequential(m, 2)

	if got := m.At(0, 2); got != 5 {
		t.Errorf("D*[0,2] = %d, want 5", got)
	}
}

func TestSequentialFixedPoint(t *testing.T) {
	n := 4
	m := dmatrix.New(n)
	vals := [][3]int{{0, 1, 1}, {1, 2, 1}, {2, 3, 1}, {0, 3, dmatrix.INF}}
	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			if i != j {
				m.Set(i, j, dmatrix.INF)
			}
		}
	}
	for _, v := range vals {
		m.SetSymmetric(v[0], v[1], v[2])
	}

	Sequential(m, 1)
	once := m.Clone()
	Sequential(m, 1)
	if !dmatrix.Equal(once, m) {
		t.Error("Floyd is not a fixed point on its own output")
	}
}

func TestSequentialTriangleInequality(t *testing.T) {
	n := 5
	m := dmatrix.New(n)
	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			if i != j {
				m.Set(i, j, dmatrix.INF)
			}
		}
	}
	edges := [][3]int{{0, 1, 4}, {1, 2, 1}, {2, 3, 5}, {3, 4, 2}, {0, 4, 20}}
	for _, e := range edges {
		m.SetSymmetric(e[0], e[1], e[2])
	}
	Sequential(m, 2)

	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			for k := 0; k < n; k++ {
				dij, dik, dkj := m.At(i, j), m.At(i, k), m.At(k, j)
				if dik >= dmatrix.INF || dkj >= dmatrix.INF {
					continue
				}
				if dij > dik+dkj {
					t.Fatalf("triangle violated: D[%d,%d]=%d > D[%d,%d]+D[%d,%d]=%d", i, j, dij, i, k, k, j, dik+dkj)
				}
			}
		}
	}
}

func TestDistributedMatchesSequential(t *testing.T) {
	n := 4
	m := dmatrix.New(n)
	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			if i != j {
				m.Set(i, j, dmatrix.INF)
			}
		}
	}
	m.SetSymmetric(0, 1, 2)
	m.SetSymmetric(1, 2, 3)
	m.SetSymmetric(2, 3, 1)
	m.SetSymmetric(0, 3, 9)

	seq := m.Clone()
	Sequential(seq, 1)

	pSqrt := 2
	b := n / pSqrt
	tiles := make([][]int, pSqrt*pSqrt)
	for bi := 0; bi < pSqrt; bi++ {
		for bj := 0; bj < pSqrt; bj++ {
			tiles[dmatrix.GridRank(bi, bj, pSqrt)] = m.Tile(bi, bj, b)
		}
	}

	err := comm.Run(context.Background(), pSqrt*pSqrt, func(ctx context.Context, c comm.Communicator) error {
		return Distributed(ctx, c, tiles[c.Rank()], n, 1)
	})
	if err != nil {
		t.Fatal(err)
	}

	got := dmatrix.New(n)
	for bi := 0; bi < pSqrt; bi++ {
		for bj := 0; bj < pSqrt; bj++ {
			got.SetTile(bi, bj, b, tiles[dmatrix.GridRank(bi, bj, pSqrt)])
		}
	}

	if !dmatrix.Equal(seq, got) {
		t.Errorf("distributed Floyd disagrees with sequential:\n got  %v\n want %v", got.Raw(), seq.Raw())
	}
}

func TestDistributedRejectsNonSquareGrid(t *testing.T) {
	err := comm.Run(context.Background(), 3, func(ctx context.Context, c comm.Communicator) error {
		return Distributed(ctx, c, make([]int, 4), 6, 1)
	})
	if err == nil {
		t.Error("expected an error for a non-square process count")
	}
}
