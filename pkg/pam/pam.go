// pam is component C5: Partitioning Around Medoids, grounded on
// original_source/PAM/PAM_hybrid.cpp. Medoids are seeded with a
// deterministic shuffle, assignment tracks best/second distance per
// point, and the swap search is the brute-force PAM step, distributed
// row-wise across pkg/comm ranks with an all-reduce sum for the
// Δ-matrix.
package pam

import (
	"context"
	"fmt"
	"math/rand"

	"github.com/RoaringBitmap/roaring/v2"

	"github.com/andrew-torda/arnclust/pkg/comm"
	"github.com/andrew-torda/arnclust/pkg/dmatrix"
)

// Result is C5's output (spec §4.5): medoids M, membership μ, and the
// total cost. In the distributed path Membership is only populated on
// the root rank; Medoids and Cost are the same on every rank.
type Result struct {
	Medoids    []int
	Membership []int
	Cost       int64
}

// ConfigError flags an invalid k (spec §7's ConfigFailure kind).
type ConfigError struct{ Msg string }

func (e *ConfigError) Error() string { return "pam: " + e.Msg }

// assignment is the per-point (best medoid index into M, best
// distance, second-best distance) triple spec §4.5 calls μ/best/second.
type assignment struct {
	mu     []int // index into M, per point
	best   []int
	second []int
}

// seedMedoids returns the first k elements of a deterministic
// pseudo-random permutation of 0..n-1, using rand.New(rand.NewSource(seed))
// so a run is reproducible given the same seed.
func seedMedoids(n, k int, seed int64) []int {
	rng := rand.New(rand.NewSource(seed))
	perm := rng.Perm(n)
	return append([]int(nil), perm[:k]...)
}

// assign computes μ/best/second for rows [start,end) of D against the
// current medoid set M (spec §4.5's Assignment). Ties break to the
// lower medoid index because the scan only updates on a strict
// improvement.
func assign(n int, d *dmatrix.Matrix, medoids []int, start, end int) assignment {
	k := len(medoids)
	a := assignment{
		mu:     make([]int, end-start),
		best:   make([]int, end-start),
		second: make([]int, end-start),
	}
	for i := start; i < end; i++ {
		best, second, bestMed := dmatrix.INF+1, dmatrix.INF+1, -1
		for m := 0; m < k; m++ {
			dist := d.At(i, medoids[m])
			if dist < best {
				second = best
				best = dist
				bestMed = m
			} else if dist < second {
				second = dist
			}
		}
		a.mu[i-start] = bestMed
		a.best[i-start] = best
		a.second[i-start] = second
	}
	return a
}

// medoidSet builds a roaring bitmap of the current medoid point
// indices, used to skip candidates already present in M during the
// swap search (spec §4.5: "candidates already present in M are
// skipped"). n is small enough in this domain that a bitmap is
// overkill for speed, but it keeps the membership test allocation-free
// across swap iterations, and it is the one place in this repository
// shaped like the set-membership queries github.com/RoaringBitmap/roaring
// is meant for.
func medoidSet(medoids []int) *roaring.Bitmap {
	b := roaring.New()
	for _, m := range medoids {
		b.Add(uint32(m))
	}
	return b
}

// Run executes sequential PAM on the full matrix d (spec §4.5). It is
// Distributed's p=1 special case.
func Run(n int, d *dmatrix.Matrix, k int, seed int64) (Result, error) {
	return Distributed(context.Background(), comm.Size1{}, n, d, k, seed)
}

// Distributed executes the distributed PAM variant (spec §4.5): rows
// of D are partitioned across c's ranks (remainder to the
// lowest-ranked ones, matching pkg/distbuild's range split), each rank
// computes its local contribution to every Δ(m,c), and a SUM
// all-reduce yields the full Δ-matrix on every rank so they can all
// independently pick the same (m*,c*). Non-root ranks return a Result
// with only Cost and Medoids populated; Membership is assembled on
// root alone.
func Distributed(ctx context.Context, c comm.Communicator, n int, d *dmatrix.Matrix, k int, seed int64) (Result, error) {
	if k <= 0 || k > n {
		return Result{}, &ConfigError{Msg: fmt.Sprintf("invalid k=%d for n=%d", k, n)}
	}

	rank, size := c.Rank(), c.Size()
	start, end := rowRange(n, size, rank)

	var medoidsFlat []int
	if rank == 0 {
		medoidsFlat = seedMedoids(n, k, seed)
	} else {
		medoidsFlat = make([]int, k)
	}
	bcastMedoids, err := c.Bcast(ctx, medoidsFlat, 0)
	if err != nil {
		return Result{}, err
	}
	medoids := bcastMedoids

	a := assign(n, d, medoids, start, end)
	localCost := sumInt(a.best)
	initCost, err := c.AllReduceSum(ctx, []int64{localCost})
	if err != nil {
		return Result{}, err
	}
	cost := initCost[0]

	for {
		medset := medoidSet(medoids)
		candidates := make([]int, 0, n-k)
		for p := 0; p < n; p++ {
			if !medset.Contains(uint32(p)) {
				candidates = append(candidates, p)
			}
		}
		numCand := len(candidates)

		localDeltas := make([]int64, k*numCand)
		for mi := 0; mi < k; mi++ {
			for ci, cand := range candidates {
				var delta int64
				for i := start; i < end; i++ {
					distToCand := d.At(i, cand)
					local := i - start
					if a.mu[local] == mi {
						nd := min2(distToCand, a.second[local])
						delta += int64(nd - a.best[local])
					} else if distToCand < a.best[local] {
						delta += int64(distToCand - a.best[local])
					}
				}
				localDeltas[mi*numCand+ci] = delta
			}
		}

		globalDeltas, err := c.AllReduceSum(ctx, localDeltas)
		if err != nil {
			return Result{}, err
		}

		bestDelta := int64(0)
		bestMi, bestCand := -1, -1
		for mi := 0; mi < k; mi++ {
			for ci, cand := range candidates {
				delta := globalDeltas[mi*numCand+ci]
				if delta < bestDelta {
					bestDelta = delta
					bestMi = mi
					bestCand = cand
				}
			}
		}

		if bestDelta >= 0 {
			break
		}
		medoids[bestMi] = bestCand
		bcastMedoids, err = c.Bcast(ctx, medoids, 0)
		if err != nil {
			return Result{}, err
		}
		medoids = bcastMedoids
		cost += bestDelta

		a = assign(n, d, medoids, start, end)
	}

	recvCounts := make([]int, size)
	for r := 0; r < size; r++ {
		s, e := rowRange(n, size, r)
		recvCounts[r] = e - s
	}
	gatheredMembership, err := c.Gather(ctx, a.mu, recvCounts, 0)
	if err != nil {
		return Result{}, err
	}

	if rank != 0 {
		return Result{Medoids: medoids, Cost: cost}, nil
	}

	membership := make([]int, n)
	// gatheredMembership is in rank order with each rank's local indices
	// relative to mi; expand to global point indices using rowRange.
	off := 0
	for r := 0; r < size; r++ {
		s, e := rowRange(n, size, r)
		copy(membership[s:e], gatheredMembership[off:off+(e-s)])
		off += e - s
	}

	return Result{Medoids: medoids, Membership: membership, Cost: cost}, nil
}

func rowRange(n, size, rank int) (start, end int) {
	base := n / size
	rem := n % size
	start = rank*base + min2(rank, rem)
	end = start + base
	if rank < rem {
		end++
	}
	return start, end
}

func sumInt(xs []int) int64 {
	var s int64
	for _, x := range xs {
		s += int64(x)
	}
	return s
}

func min2(a, b int) int {
	if a < b {
		return a
	}
	return b
}
