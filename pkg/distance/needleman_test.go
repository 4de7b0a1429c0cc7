package distance

import "testing"

func TestNeedlemanScoreIdentical(t *testing.T) {
	s := "ACGTACGT"
	score := NeedlemanScore(s, s, DefaultNeedlemanParams)
	want := len(s) * DefaultNeedlemanParams.Match
	if score != want {
		t.Errorf("identical sequences: score = %d, want %d", score, want)
	}
}

func TestNeedlemanDistanceIdenticalIsZero(t *testing.T) {
	s := "ACGTACGTTTAC"
	if d := NeedlemanDistance(s, s, DefaultNeedlemanParams); d != 0 {
		t.Errorf("identical sequences: distance = %d, want 0", d)
	}
}

func TestNeedlemanDistanceNonNegative(t *testing.T) {
	a, b := "ACGT", "TTTTTTTTTTTT"
	if d := NeedlemanDistance(a, b, DefaultNeedlemanParams); d < 0 {
		t.Errorf("distance = %d, want >= 0", d)
	}
}

func TestNeedlemanScoreSymmetric(t *testing.T) {
	a, b := "GATTACA", "GCATGCU"
	if NeedlemanScore(a, b, DefaultNeedlemanParams) != NeedlemanScore(b, a, DefaultNeedlemanParams) {
		t.Error("NeedlemanScore is not symmetric")
	}
}

func TestNeedlemanScoreParallelMatchesSequential(t *testing.T) {
	a, b := "GATTACAGATTACA", "GCATGCUAGCATGC"
	want := NeedlemanScore(a, b, DefaultNeedlemanParams)
	for _, workers := range []int{1, 2, 4} {
		got := NeedlemanScoreParallel(a, b, DefaultNeedlemanParams, workers)
		if got != want {
			t.Errorf("workers=%d: got %d, want %d", workers, got, want)
		}
	}
}

func TestNeedlemanScoreEmptyAgainstNonEmpty(t *testing.T) {
	p := DefaultNeedlemanParams
	got := NeedlemanScore("", "ACGT", p)
	want := p.GapOpen + 3*p.GapExtend
	if got != want {
		t.Errorf("got %d, want %d", got, want)
	}
}
