package distance

import (
	"github.com/andrew-torda/matrix"

	"github.com/andrew-torda/arnclust/pkg/parfor"
)

// NeedlemanParams are the four affine-gap scoring parameters (spec
// §4.1). Typical defaults are match=1, mismatch=-1, gapOpen=-3,
// gapExtend=-1.
type NeedlemanParams struct {
	Match, Mismatch, GapOpen, GapExtend int
}

// DefaultNeedlemanParams are the "typical defaults" spec §4.1 names.
var DefaultNeedlemanParams = NeedlemanParams{Match: 1, Mismatch: -1, GapOpen: -3, GapExtend: -1}

// move values record which predecessor produced the best score in
// cell (i,j); they pick between opening and extending a gap, the same
// role Needleman.cpp's gap_state table plays, and the role
// gotoh.Align's BMatrix2d "dir" table plays for traceback. We only
// ever consult the previous row/column, never walk the table
// backwards, because spec §4.1 asks only for the score.
type move byte

const (
	moveDiag move = iota
	moveUp        // vertical gap, in seq1
	moveLeft      // horizontal gap, in seq2
)

// NeedlemanScore computes the affine-gap global alignment score of s1
// against s2 using the recurrence from spec §4.1: opening a gap costs
// GapOpen, extending one already open costs GapExtend, decided
// per-cell from the predecessor's own last move.
func NeedlemanScore(s1, s2 string, p NeedlemanParams) int {
	m, n := len(s1), len(s2)
	score := matrix.NewFMatrix2d(m+1, n+1)
	lastMove := matrix.NewBMatrix2d(m+1, n+1)

	sc := score.Mat
	lm := lastMove.Mat

	sc[0][0] = 0
	for i := 1; i <= m; i++ {
		sc[i][0] = float32(p.GapOpen + (i-1)*p.GapExtend)
		lm[i][0] = byte(moveUp)
	}
	for j := 1; j <= n; j++ {
		sc[0][j] = float32(p.GapOpen + (j-1)*p.GapExtend)
		lm[0][j] = byte(moveLeft)
	}

	for i := 1; i <= m; i++ {
		for j := 1; j <= n; j++ {
			sub := p.Mismatch
			if s1[i-1] == s2[j-1] {
				sub = p.Match
			}
			diag := sc[i-1][j-1] + float32(sub)

			vPenalty := p.GapOpen
			if move(lm[i-1][j]) == moveUp {
				vPenalty = p.GapExtend
			}
			up := sc[i-1][j] + float32(vPenalty)

			hPenalty := p.GapOpen
			if move(lm[i][j-1]) == moveLeft {
				hPenalty = p.GapExtend
			}
			left := sc[i][j-1] + float32(hPenalty)

			best, mv := diag, moveDiag
			if up > best {
				best, mv = up, moveUp
			}
			if left > best {
				best, mv = left, moveLeft
			}
			sc[i][j] = best
			lm[i][j] = byte(mv)
		}
	}
	return int(sc[m][n])
}

// NeedlemanScoreParallel is the anti-diagonal variant from spec §4.1:
// all cells on one anti-diagonal depend only on the two previous
// diagonals, so each diagonal is dispatched to shared-memory workers
// via parfor.Static before moving to the next. Produces the same
// score as NeedlemanScore.
func NeedlemanScoreParallel(s1, s2 string, p NeedlemanParams, workers int) int {
	m, n := len(s1), len(s2)
	score := matrix.NewFMatrix2d(m+1, n+1)
	lastMove := matrix.NewBMatrix2d(m+1, n+1)
	sc := score.Mat
	lm := lastMove.Mat

	sc[0][0] = 0
	for i := 1; i <= m; i++ {
		sc[i][0] = float32(p.GapOpen + (i-1)*p.GapExtend)
		lm[i][0] = byte(moveUp)
	}
	for j := 1; j <= n; j++ {
		sc[0][j] = float32(p.GapOpen + (j-1)*p.GapExtend)
		lm[0][j] = byte(moveLeft)
	}

	// Anti-diagonal d holds the cells with i+j == d+2; endI is inclusive.
	totalDiag := m + n - 1
	for d := 0; d < totalDiag; d++ {
		startI := max0(d - n + 2)
		endI := min0(m, d+1)
		// i ranges over [1,m] in the real table; the 0-th row/col is
		// already filled above, so clamp to i>=1.
		if startI < 1 {
			startI = 1
		}
		if startI >= endI+1 {
			continue
		}
		parfor.Static(endI-startI+1, workers, func(lo, hi int) {
			for ii := startI + lo; ii < startI+hi; ii++ {
				j := d - ii + 2
				if j < 1 || j > n {
					continue
				}
				sub := p.Mismatch
				if s1[ii-1] == s2[j-1] {
					sub = p.Match
				}
				diag := sc[ii-1][j-1] + float32(sub)

				vPenalty := p.GapOpen
				if move(lm[ii-1][j]) == moveUp {
					vPenalty = p.GapExtend
				}
				up := sc[ii-1][j] + float32(vPenalty)

				hPenalty := p.GapOpen
				if move(lm[ii][j-1]) == moveLeft {
					hPenalty = p.GapExtend
				}
				left := sc[ii][j-1] + float32(hPenalty)

				best, mv := diag, moveDiag
				if up > best {
					best, mv = up, moveUp
				}
				if left > best {
					best, mv = left, moveLeft
				}
				sc[ii][j] = best
				lm[ii][j] = byte(mv)
			}
		})
	}
	return int(sc[m][n])
}

func max0(x int) int {
	if x < 0 {
		return 0
	}
	return x
}

func min0(a, b int) int {
	if a < b {
		return a
	}
	return b
}

// NeedlemanDistance converts an alignment score to a non-negative
// distance. spec.md's open question flags the source's own conversion
// (max_score = n_sequences * match) as almost certainly a bug: the
// correct upper bound on the score of a length-L alignment of two
// sequences is L*match, where L is the longer of the two sequences —
// not the size of the whole input set. We clamp the result at zero so
// a score above that bound (possible only with unusual parameters,
// such as Mismatch > Match) never produces a negative "distance".
func NeedlemanDistance(s1, s2 string, p NeedlemanParams) int {
	score := NeedlemanScore(s1, s2, p)
	longer := len(s1)
	if len(s2) > longer {
		longer = len(s2)
	}
	d := longer*p.Match - score
	if d < 0 {
		return 0
	}
	return d
}
