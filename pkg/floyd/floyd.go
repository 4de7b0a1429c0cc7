// floyd is component C4: the blocked all-pairs shortest-path closure
// described in spec §4.4, grounded directly on
// original_source/Floyd/FoydPar.cpp's floydBlocsHybrid. The outer
// pivot/row-band/column-band/general-update stages cross rank
// boundaries through pkg/comm; within a stage, the per-cell relaxation
// runs on pkg/parfor workers, the same role FoydPar.cpp's
// "#pragma omp parallel for collapse(2)" plays.
package floyd

import (
	"context"
	"fmt"

	"github.com/andrew-torda/arnclust/pkg/comm"
	"github.com/andrew-torda/arnclust/pkg/dmatrix"
	"github.com/andrew-torda/arnclust/pkg/parfor"
	"github.com/andrew-torda/arnclust/pkg/rcommon"
)

// Sequential runs Floyd-Warshall in place on m using the plain
// triple-nested relaxation, the p=1 fallback (spec §9: "the
// communicator of size 1 implements each primitive as identity").
// Equivalent to calling Distributed with comm.Size1{}, but avoids the
// block-grid machinery entirely when there is only one process.
func Sequential(m *dmatrix.Matrix, workers int) {
	n := m.N()
	if workers <= 0 {
		workers = parfor.DefaultWorkers()
	}
	raw := m.Raw()
	for k := 0; k < n; k++ {
		parfor.Static(n, workers, func(lo, hi int) {
			for i := lo; i < hi; i++ {
				ik := raw[i*n+k]
				if ik >= dmatrix.INF {
					continue
				}
				row := raw[i*n : i*n+n]
				krow := raw[k*n : k*n+n]
				for j := 0; j < n; j++ {
					kj := krow[j]
					if kj >= dmatrix.INF {
						continue
					}
					if cand := ik + kj; cand < row[j] {
						row[j] = cand
					}
				}
			}
		})
	}
}

// Distributed runs the blocked Floyd-Warshall algorithm across the
// ranks of c, each owning a block of the overall √p x √p grid
// (spec §4.3/§4.4). local is the rank's own block_size x block_size
// tile, row-major; n is the full matrix dimension. Returns the
// relaxed tile in place in local. Every rank must call this with the
// same n and a communicator of the same size.
func Distributed(ctx context.Context, c comm.Communicator, local []int, n, workers int) error {
	p := c.Size()
	pSqrt, ok := rcommon.IsSquare(p)
	if !ok {
		return fmt.Errorf("floyd: %d ranks is not a perfect square", p)
	}
	b, err := dmatrix.BlockSize(n, pSqrt)
	if err != nil {
		return err
	}
	if len(local) != b*b {
		return fmt.Errorf("floyd: local tile has %d elements, want %d", len(local), b*b)
	}
	if workers <= 0 {
		workers = parfor.DefaultWorkers()
	}

	rank := c.Rank()
	px, py := dmatrix.GridCoord(rank, pSqrt)

	pivot := make([]int, b*b)
	rowBlock := make([]int, b*b)
	colBlock := make([]int, b*b)

	for k := 0; k < pSqrt; k++ {
		pivotRank := dmatrix.GridRank(k, k, pSqrt)

		if rank == pivotRank {
			relaxSelf(local, b, workers)
			copy(pivot, local)
		}
		bcastPivot, err := c.Bcast(ctx, pivot, pivotRank)
		if err != nil {
			return err
		}
		copy(pivot, bcastPivot)
		if err := c.Barrier(ctx); err != nil {
			return err
		}

		if px == k && py != k {
			relaxRowBand(local, pivot, b, workers)
		}
		if py == k && px != k {
			relaxColBand(local, pivot, b, workers)
		}
		if err := c.Barrier(ctx); err != nil {
			return err
		}

		// Every rank in the grid owns a distinct block of row k (resp.
		// column k) that some other rank needs. A single Bcast call
		// only has one root, so the row band and column band each need
		// pSqrt separate calls — one per candidate root — with every
		// rank issuing the same sequence of (literal) root values in
		// the same order, and keeping only the result for its own
		// column (resp. row). Computing rowRoot/colRoot per-rank from
		// px,py and passing that into a single shared Bcast call would
		// have different ranks naming different roots for what the
		// communicator treats as one rendezvous step.
		for col := 0; col < pSqrt; col++ {
			root := dmatrix.GridRank(k, col, pSqrt)
			src := make([]int, b*b)
			if rank == root {
				copy(src, local)
			}
			bc, err := c.Bcast(ctx, src, root)
			if err != nil {
				return err
			}
			if col == py {
				copy(rowBlock, bc)
			}
		}

		for row := 0; row < pSqrt; row++ {
			root := dmatrix.GridRank(row, k, pSqrt)
			src := make([]int, b*b)
			if rank == root {
				copy(src, local)
			}
			bc, err := c.Bcast(ctx, src, root)
			if err != nil {
				return err
			}
			if row == px {
				copy(colBlock, bc)
			}
		}

		if px != k && py != k {
			relaxGeneral(local, colBlock, rowBlock, b, workers)
		}
		if err := c.Barrier(ctx); err != nil {
			return err
		}
	}
	return nil
}

// The row-band and column-band broadcasts above go out on the world
// communicator rather than a dedicated row/column sub-communicator —
// the alternative spec §9's open question permits, and the one
// pkg/comm's Group supports directly without a sub-communicator
// abstraction.

// relaxSelf is the pivot process's full local Floyd step: intermediate
// indices x range within its own tile (spec §4.4 stage 1).
func relaxSelf(tile []int, b, workers int) {
	for x := 0; x < b; x++ {
		parfor.Static(b, workers, func(lo, hi int) {
			for i := lo; i < hi; i++ {
				ix := tile[i*b+x]
				if ix >= dmatrix.INF {
					continue
				}
				for j := 0; j < b; j++ {
					xj := tile[x*b+j]
					if xj >= dmatrix.INF {
						continue
					}
					if cand := ix + xj; cand < tile[i*b+j] {
						tile[i*b+j] = cand
					}
				}
			}
		})
	}
}

// relaxRowBand relaxes tile using pivot as the "i-side" matrix (spec
// §4.4 stage 2): tile[i,j] <- min(tile[i,j], pivot[i,x] + tile[x,j]).
func relaxRowBand(tile, pivot []int, b, workers int) {
	for x := 0; x < b; x++ {
		parfor.Static(b, workers, func(lo, hi int) {
			for i := lo; i < hi; i++ {
				ix := pivot[i*b+x]
				if ix >= dmatrix.INF {
					continue
				}
				for j := 0; j < b; j++ {
					xj := tile[x*b+j]
					if xj >= dmatrix.INF {
						continue
					}
					if cand := ix + xj; cand < tile[i*b+j] {
						tile[i*b+j] = cand
					}
				}
			}
		})
	}
}

// relaxColBand is symmetric to relaxRowBand (spec §4.4 stage 3):
// tile[i,j] <- min(tile[i,j], tile[i,x] + pivot[x,j]).
func relaxColBand(tile, pivot []int, b, workers int) {
	for x := 0; x < b; x++ {
		parfor.Static(b, workers, func(lo, hi int) {
			for i := lo; i < hi; i++ {
				ix := tile[i*b+x]
				if ix >= dmatrix.INF {
					continue
				}
				for j := 0; j < b; j++ {
					xj := pivot[x*b+j]
					if xj >= dmatrix.INF {
						continue
					}
					if cand := ix + xj; cand < tile[i*b+j] {
						tile[i*b+j] = cand
					}
				}
			}
		})
	}
}

// relaxGeneral is spec §4.4 stage 5: tile[i,j] <- min(tile[i,j],
// colBlock[i,x] + rowBlock[x,j]).
func relaxGeneral(tile, colBlock, rowBlock []int, b, workers int) {
	for x := 0; x < b; x++ {
		parfor.Static(b, workers, func(lo, hi int) {
			for i := lo; i < hi; i++ {
				ix := colBlock[i*b+x]
				if ix >= dmatrix.INF {
					continue
				}
				for j := 0; j < b; j++ {
					xj := rowBlock[x*b+j]
					if xj >= dmatrix.INF {
						continue
					}
					if cand := ix + xj; cand < tile[i*b+j] {
						tile[i*b+j] = cand
					}
				}
			}
		})
	}
}
