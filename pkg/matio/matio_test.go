package matio

import (
	"strings"
	"testing"

	"github.com/andrew-torda/arnclust/pkg/dmatrix"
)

func TestWriteReadRoundTrip(t *testing.T) {
	m := dmatrix.New(3)
	m.SetSymmetric(0, 1, 4)
	m.SetSymmetric(0, 2, dmatrix.INF)
	m.SetSymmetric(1, 2, 7)

	var buf strings.Builder
	if err := WriteMatrix(&buf, m); err != nil {
		t.Fatal(err)
	}

	got, err := ReadMatrix(strings.NewReader(buf.String()))
	if err != nil {
		t.Fatal(err)
	}
	if !dmatrix.Equal(m, got) {
		t.Errorf("round trip mismatch: got %v, want %v", got.Raw(), m.Raw())
	}
}

func TestReadMatrixTruncated(t *testing.T) {
	if _, err := ReadMatrix(strings.NewReader("3\n1 2 3")); err == nil {
		t.Error("expected an error on truncated input")
	}
}

func TestWriteDOT(t *testing.T) {
	m := dmatrix.New(3)
	m.SetSymmetric(0, 1, 2)
	m.SetSymmetric(1, 2, 10)
	ids := []string{"a", "b", "c"}

	var buf strings.Builder
	if err := WriteDOT(&buf, ids, m, 5); err != nil {
		t.Fatal(err)
	}
	out := buf.String()
	if !strings.Contains(out, "seq0 -- seq1") {
		t.Error("expected edge seq0--seq1 under threshold")
	}
	if strings.Contains(out, "seq1 -- seq2") {
		t.Error("edge seq1--seq2 should be excluded (distance >= eps)")
	}
}

func TestWriteDOTMismatchedIDs(t *testing.T) {
	m := dmatrix.New(2)
	var buf strings.Builder
	if err := WriteDOT(&buf, []string{"only-one"}, m, 5); err == nil {
		t.Error("expected an error for mismatched id count")
	}
}
