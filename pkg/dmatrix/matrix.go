// dmatrix is the core data structure shared by all three compute
// stages: a dense, row-major, symmetric n x n integer matrix, plus the
// primitives for splitting it into a grid of blocks and putting it
// back together. Its layout mirrors FMatrix2d
// (github.com/andrew-torda/matrix): a single flat backing array with
// row-view slices over it, so a Matrix's Raw data can be handed whole
// to a communicator collective without per-row copies.
package dmatrix

import (
	"fmt"

	"github.com/andrew-torda/arnclust/pkg/rcommon"
)

// Matrix is an n x n row-major integer matrix. The zero value is not
// usable; build one with New.
type Matrix struct {
	n    int
	data []int
}

// New allocates an n x n matrix with every entry zero.
func New(n int) *Matrix {
	if n < 0 {
		panic("dmatrix: negative size")
	}
	return &Matrix{n: n, data: make([]int, n*n)}
}

// FromFlat wraps an existing row-major n*n buffer without copying. The
// caller gives up ownership of data.
func FromFlat(n int, data []int) *Matrix {
	if len(data) != n*n {
		panic("dmatrix: data length does not match n*n")
	}
	return &Matrix{n: n, data: data}
}

// N returns the matrix's dimension.
func (m *Matrix) N() int { return m.n }

// Raw returns the flat row-major backing slice. Callers that mutate it
// directly must respect row-major (i*n+j) indexing.
func (m *Matrix) Raw() []int { return m.data }

// At returns D[i,j].
func (m *Matrix) At(i, j int) int { return m.data[i*m.n+j] }

// Set assigns D[i,j] = v.
func (m *Matrix) Set(i, j, v int) { m.data[i*m.n+j] = v }

// SetSymmetric assigns D[i,j] = D[j,i] = v.
func (m *Matrix) SetSymmetric(i, j, v int) {
	m.data[i*m.n+j] = v
	m.data[j*m.n+i] = v
}

// Clone returns a deep copy.
func (m *Matrix) Clone() *Matrix {
	out := New(m.n)
	copy(out.data, m.data)
	return out
}

// Equal reports whether two matrices have the same dimension and
// entries.
func Equal(a, b *Matrix) bool {
	if a.n != b.n {
		return false
	}
	for i := range a.data {
		if a.data[i] != b.data[i] {
			return false
		}
	}
	return true
}

// CheckInvariants verifies the data-model invariants from spec §3:
// symmetry, a zero diagonal, and every finite entry strictly below
// INF.
func (m *Matrix) CheckInvariants() error {
	n := m.n
	for i := 0; i < n; i++ {
		if m.At(i, i) != 0 {
			return fmt.Errorf("dmatrix: D[%d,%d] = %d, want 0 diagonal", i, i, m.At(i, i))
		}
		for j := i + 1; j < n; j++ {
			if m.At(i, j) != m.At(j, i) {
				return fmt.Errorf("dmatrix: D[%d,%d]=%d != D[%d,%d]=%d, not symmetric",
					i, j, m.At(i, j), j, i, m.At(j, i))
			}
			if m.At(i, j) > INF {
				return fmt.Errorf("dmatrix: D[%d,%d]=%d is above INF=%d", i, j, m.At(i, j), INF)
			}
		}
	}
	return nil
}

// Filter derives the adjacency matrix used as Floyd's input: entries
// >= eps become INF ("no edge"); entries < eps are kept unchanged.
// eps <= 0 means "no filtering", i.e. a clone of m is returned
// unchanged (the ε=∞ case from spec §3/§8). The "no edge" marker is
// INF rather than a literal zero so the result feeds directly into
// Floyd's relaxation guard, which already treats INF as "no edge" —
// a literal zero there would instead mean a free edge of weight zero.
func (m *Matrix) Filter(eps int) *Matrix {
	out := New(m.n)
	if eps <= 0 {
		copy(out.data, m.data)
		return out
	}
	for i := range out.data {
		out.data[i] = INF
	}
	for i, v := range m.data {
		if v < eps {
			out.data[i] = v
		}
	}
	return out
}

// Tile extracts the b x b block at grid coordinates (bi,bj), i.e. the
// submatrix spanning rows [bi*b, bi*b+b) and columns [bj*b, bj*b+b).
// The result is a freshly allocated, contiguous b*b row-major buffer —
// ownership passes to the caller, matching the "scatter hands
// ownership of the tile to each rank" design note.
func (m *Matrix) Tile(bi, bj, b int) []int {
	out := make([]int, b*b)
	n := m.n
	for i := 0; i < b; i++ {
		src := (bi*b+i)*n + bj*b
		copy(out[i*b:i*b+b], m.data[src:src+b])
	}
	return out
}

// SetTile writes a b x b tile (row-major, length b*b) back into the
// block at grid coordinates (bi,bj).
func (m *Matrix) SetTile(bi, bj, b int, tile []int) {
	n := m.n
	for i := 0; i < b; i++ {
		dst := (bi*b+i)*n + bj*b
		copy(m.data[dst:dst+b], tile[i*b:i*b+b])
	}
}

// BlockSize computes b = n/p_sqrt, enforcing the divisibility
// constraint from spec §4.3/§6: n must be divisible by p_sqrt.
func BlockSize(n, pSqrt int) (int, error) {
	if pSqrt <= 0 {
		return 0, fmt.Errorf("dmatrix: grid root must be positive, got %d", pSqrt)
	}
	if n%pSqrt != 0 {
		return 0, fmt.Errorf("dmatrix: n=%d is not divisible by grid root %d", n, pSqrt)
	}
	return n / pSqrt, nil
}

// GridCoord returns (row, col) for a rank in row-major grid order.
func GridCoord(rank, pSqrt int) (row, col int) {
	return rank / pSqrt, rank % pSqrt
}

// GridRank returns the rank at grid coordinates (row,col).
func GridRank(row, col, pSqrt int) int {
	return row*pSqrt + col
}

// INF re-exports the sentinel for callers that only import dmatrix.
const INF = rcommon.INF
