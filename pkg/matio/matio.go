// matio reads and writes the plain-text distance-matrix format and
// emits the similarity graph in DOT (Graphviz) notation. Both formats
// are external contracts the core only produces or consumes; neither
// is part of the compute engine itself (spec §6).
package matio

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/edsrzf/mmap-go"

	"github.com/andrew-torda/arnclust/pkg/dmatrix"
)

// WriteMatrix writes n followed by n*n row-major entries, whitespace
// separated, with no framing or trailing content.
func WriteMatrix(w io.Writer, m *dmatrix.Matrix) error {
	bw := bufio.NewWriter(w)
	n := m.N()
	if _, err := fmt.Fprintf(bw, "%d\n", n); err != nil {
		return err
	}
	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			if j > 0 {
				if err := bw.WriteByte(' '); err != nil {
					return err
				}
			}
			if _, err := bw.WriteString(strconv.Itoa(m.At(i, j))); err != nil {
				return err
			}
		}
		if err := bw.WriteByte('\n'); err != nil {
			return err
		}
	}
	return bw.Flush()
}

// WriteMatrixFile creates filename and writes m to it.
func WriteMatrixFile(filename string, m *dmatrix.Matrix) error {
	fp, err := os.Create(filename)
	if err != nil {
		return fmt.Errorf("matio: %w", err)
	}
	defer fp.Close()
	return WriteMatrix(fp, m)
}

// ReadMatrix parses the distance-matrix text format from r: the first
// whitespace-separated token is n, the next n*n tokens are the
// row-major entries.
func ReadMatrix(r io.Reader) (*dmatrix.Matrix, error) {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 1<<30)
	sc.Split(bufio.ScanWords)

	if !sc.Scan() {
		return nil, fmt.Errorf("matio: empty input, expected matrix size")
	}
	n, err := strconv.Atoi(sc.Text())
	if err != nil {
		return nil, fmt.Errorf("matio: bad matrix size %q: %w", sc.Text(), err)
	}
	m := dmatrix.New(n)
	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			if !sc.Scan() {
				return nil, fmt.Errorf("matio: truncated matrix, expected %d entries", n*n)
			}
			v, err := strconv.Atoi(sc.Text())
			if err != nil {
				return nil, fmt.Errorf("matio: bad entry at (%d,%d): %w", i, j, err)
			}
			m.Set(i, j, v)
		}
	}
	return m, nil
}

// ReadMatrixFile memory-maps filename read-only and parses it as a
// distance matrix. Mapping avoids a private copy of a potentially
// large token stream before the scanner ever looks at it; the parsed
// Matrix that comes back is a normal, fully materialised buffer — the
// core's "whole matrix in memory" assumption (spec §1) is unaffected,
// only the read path is cheaper.
func ReadMatrixFile(filename string) (*dmatrix.Matrix, error) {
	fp, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("matio: %w", err)
	}
	defer fp.Close()

	fi, err := fp.Stat()
	if err != nil {
		return nil, fmt.Errorf("matio: %w", err)
	}
	if fi.Size() == 0 {
		return nil, fmt.Errorf("matio: empty file %s", filename)
	}

	mapped, err := mmap.Map(fp, mmap.RDONLY, 0)
	if err != nil {
		// Some filesystems (and zero-length or pipe-backed files) do
		// not support mmap; fall back to a normal read.
		fp.Seek(0, io.SeekStart)
		return ReadMatrix(fp)
	}
	defer mapped.Unmap()
	return ReadMatrix(&byteReader{b: mapped})
}

// byteReader adapts a mmap.MMap (a []byte) to io.Reader without an
// extra copy.
type byteReader struct {
	b   mmap.MMap
	pos int
}

func (r *byteReader) Read(p []byte) (int, error) {
	if r.pos >= len(r.b) {
		return 0, io.EOF
	}
	n := copy(p, r.b[r.pos:])
	r.pos += n
	return n, nil
}

// WriteDOT emits the undirected similarity graph for m under
// threshold eps: one node per sequence labelled with its identifier,
// and one edge per unordered pair (i,j) with 0 < D[i,j] < eps, weighted
// by the distance. eps == 0 means "no threshold", i.e. every pair with
// a finite positive distance is an edge.
func WriteDOT(w io.Writer, ids []string, m *dmatrix.Matrix, eps int) error {
	bw := bufio.NewWriter(w)
	n := m.N()
	if len(ids) != n {
		return fmt.Errorf("matio: %d ids for an %d x %d matrix", len(ids), n, n)
	}

	fmt.Fprintln(bw, "graph ARN {")
	fmt.Fprintln(bw, "  rankdir=LR;")
	for i, id := range ids {
		fmt.Fprintf(bw, "  seq%d [label=%q];\n", i, id)
	}
	fmt.Fprintln(bw)

	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			d := m.At(i, j)
			if d <= 0 || d >= dmatrix.INF {
				continue
			}
			if eps > 0 && d >= eps {
				continue
			}
			fmt.Fprintf(bw, "  seq%d -- seq%d [weight=%d, label=\"%d\"];\n", i, j, d, d)
		}
	}
	fmt.Fprintln(bw, "}")
	return bw.Flush()
}

// WriteDOTFile creates filename and writes the graph to it.
func WriteDOTFile(filename string, ids []string, m *dmatrix.Matrix, eps int) error {
	fp, err := os.Create(filename)
	if err != nil {
		return fmt.Errorf("matio: %w", err)
	}
	defer fp.Close()
	return WriteDOT(fp, ids, m, eps)
}
