// distbuild is component C2: it turns an indexed sequence array and a
// chosen distance kernel into the n x n matrix pkg/dmatrix and
// pkg/floyd operate on. The two-level decomposition from spec §4.2
// mirrors ARNSequence_hybrid.cpp's build_distance_matrix_hybrid: pairs
// are range-partitioned across ranks with pkg/comm, and each rank
// hands its range to pkg/parfor.Dynamic with a small chunk size to
// tolerate the length variance real sequence sets have.
package distbuild

import (
	"context"
	"fmt"
	"math"
	"sort"
	"sync"

	"github.com/andrew-torda/arnclust/pkg/comm"
	"github.com/andrew-torda/arnclust/pkg/distance"
	"github.com/andrew-torda/arnclust/pkg/dmatrix"
	"github.com/andrew-torda/arnclust/pkg/parfor"
	"github.com/andrew-torda/arnclust/pkg/seqio"
)

// DynamicChunkSize is the default chunk size for the inner dynamic
// schedule, matching ARNSequence_hybrid.cpp's "schedule(dynamic, 32)".
const DynamicChunkSize = 32

// PairIndex maps a linear pair index p in [0, n(n-1)/2) to the
// unordered pair (i,j), i<j, using the closed-form bijection from
// spec §4.2. It inverts the usual "triangular number" row-start
// formula without ever materializing the triangle.
func PairIndex(p, n int) (i, j int) {
	nf := float64(n)
	pf := float64(p)
	disc := (2*nf-1)*(2*nf-1) - 8*pf
	i = int(math.Floor((2*nf - 1 - math.Sqrt(disc)) / 2))
	j = p - (i*n - i*(i+1)/2) + i + 1
	return i, j
}

// NumPairs returns T = n(n-1)/2, the count of unordered pairs.
func NumPairs(n int) int {
	if n < 2 {
		return 0
	}
	return n * (n - 1) / 2
}

// triple is one computed off-diagonal entry, emitted by a worker and
// later written symmetrically into D.
type triple struct {
	i, j, d int
}

// Build computes the n x n distance matrix for seqs sequentially
// within one process, using workers shared-memory goroutines for the
// inner loop. It is Distributed's p=1 special case, exposed directly
// so single-process callers (the CLI drivers, most tests) don't need
// to go through comm.Run.
func Build(seqs []seqio.Sequence, kind distance.Kind, params distance.Params, workers int) (*dmatrix.Matrix, error) {
	ctx := context.Background()
	return Distributed(ctx, comm.Size1{}, seqs, kind, params, workers)
}

// Distributed computes D using the given communicator: each rank
// handles a contiguous range of pair indices (spec §4.2's "pairs are
// split into contiguous ranges across P participating nodes"), then
// all ranks' triples are gathered to root and assembled. Non-root
// ranks return a nil matrix.
func Distributed(ctx context.Context, c comm.Communicator, seqs []seqio.Sequence, kind distance.Kind, params distance.Params, workers int) (*dmatrix.Matrix, error) {
	n := len(seqs)
	total := NumPairs(n)
	rank, size := c.Rank(), c.Size()

	lo, hi := rangeFor(total, size, rank)

	local, err := computeRange(seqs, kind, params, lo, hi, workers)
	if err != nil {
		return nil, err
	}

	flatLocal := flattenTriples(local)

	counts := make([]int, size)
	for r := 0; r < size; r++ {
		a, b := rangeFor(total, size, r)
		counts[r] = (b - a) * 3
	}

	gathered, err := c.Gather(ctx, flatLocal, counts, 0)
	if err != nil {
		return nil, err
	}
	if rank != 0 {
		return nil, nil
	}

	m := dmatrix.New(n)
	for off := 0; off+2 < len(gathered); off += 3 {
		i, j, d := gathered[off], gathered[off+1], gathered[off+2]
		m.SetSymmetric(i, j, d)
	}
	return m, nil
}

// rangeFor splits [0,total) into size contiguous ranges, remainder
// going to the lowest-ranked processes, the same split PAM's row
// partitioning uses (spec §4.5).
func rangeFor(total, size, rank int) (lo, hi int) {
	base := total / size
	rem := total % size
	lo = rank*base + min(rank, rem)
	hi = lo + base
	if rank < rem {
		hi++
	}
	return lo, hi
}

// computeRange runs the distance kernel over pair indices [lo,hi),
// distributing the range across workers goroutines with dynamic
// scheduling. A *distance.LengthMismatchError becomes INF (spec
// §4.2's error-substitution rule); any other error is fatal and
// aborts the whole range.
func computeRange(seqs []seqio.Sequence, kind distance.Kind, params distance.Params, lo, hi, workers int) ([]triple, error) {
	count := hi - lo
	if count <= 0 {
		return nil, nil
	}
	if workers <= 0 {
		workers = parfor.DefaultWorkers()
	}

	out := make([]triple, count)
	var firstErr error
	var errOnce sync.Once

	parfor.Dynamic(count, workers, DynamicChunkSize, func(start, end int) {
		for off := start; off < end; off++ {
			p := lo + off
			i, j := PairIndex(p, len(seqs))
			d, err := distance.Compute(kind, seqs[i].Payload, seqs[j].Payload, params)
			if err != nil {
				if _, ok := err.(*distance.LengthMismatchError); ok {
					d = dmatrix.INF
				} else {
					errOnce.Do(func() { firstErr = err })
					continue
				}
			}
			out[off] = triple{i: i, j: j, d: d}
		}
	})
	if firstErr != nil {
		return nil, fmt.Errorf("distbuild: %w", firstErr)
	}
	return out, nil
}

func flattenTriples(ts []triple) []int {
	flat := make([]int, 0, len(ts)*3)
	for _, t := range ts {
		flat = append(flat, t.i, t.j, t.d)
	}
	return flat
}

// Stats summarizes the off-diagonal, finite entries of a distance
// matrix, the supplemental report ARNSequence's print_distance_stats
// produces after building D.
type Stats struct {
	Count      int
	Min, Max   int
	Median     int
	Mean       float64
	Q1, Q3     int
}

// ComputeStats gathers every finite (< INF) off-diagonal entry of m,
// one per unordered pair, and summarizes it. Returns Stats{} with
// Count 0 if no finite pair exists.
func ComputeStats(m *dmatrix.Matrix) Stats {
	n := m.N()
	vals := make([]int, 0, NumPairs(n))
	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			if v := m.At(i, j); v < dmatrix.INF {
				vals = append(vals, v)
			}
		}
	}
	if len(vals) == 0 {
		return Stats{}
	}
	sort.Ints(vals)

	sum := 0.0
	for _, v := range vals {
		sum += float64(v)
	}
	return Stats{
		Count:  len(vals),
		Min:    vals[0],
		Max:    vals[len(vals)-1],
		Median: vals[len(vals)/2],
		Mean:   sum / float64(len(vals)),
		Q1:     vals[len(vals)/4],
		Q3:     vals[3*len(vals)/4],
	}
}
