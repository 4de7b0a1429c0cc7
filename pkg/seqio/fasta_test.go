package seqio

import (
	"strings"
	"testing"
)

func TestReadBasic(t *testing.T) {
	in := ">s0\nACGT\n\n>s1\nAC\nGA\n>s2\nACGT\n"
	seqs, err := Read(strings.NewReader(in))
	if err != nil {
		t.Fatal(err)
	}
	want := []Sequence{
		{ID: "s0", Payload: "ACGT"},
		{ID: "s1", Payload: "ACGA"},
		{ID: "s2", Payload: "ACGT"},
	}
	if len(seqs) != len(want) {
		t.Fatalf("got %d sequences, want %d", len(seqs), len(want))
	}
	for i := range want {
		if seqs[i] != want[i] {
			t.Errorf("record %d: got %+v, want %+v", i, seqs[i], want[i])
		}
	}
}

func TestReadEmpty(t *testing.T) {
	seqs, err := Read(strings.NewReader(""))
	if err != nil {
		t.Fatal(err)
	}
	if len(seqs) != 0 {
		t.Fatalf("got %d sequences from empty input, want 0", len(seqs))
	}
}

func TestReadEmptySequence(t *testing.T) {
	seqs, err := Read(strings.NewReader(">only\n"))
	if err != nil {
		t.Fatal(err)
	}
	if len(seqs) != 1 || seqs[0].ID != "only" || seqs[0].Payload != "" {
		t.Fatalf("got %+v", seqs)
	}
}

func TestReadDataBeforeHeader(t *testing.T) {
	_, err := Read(strings.NewReader("ACGT\n>s0\nACGT\n"))
	if err == nil {
		t.Fatal("expected error for data before any header")
	}
}
