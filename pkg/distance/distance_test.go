package distance

import "testing"

func TestParseKind(t *testing.T) {
	cases := map[string]Kind{
		"hamming":    Hamming,
		"edit":       Edit,
		"levenshtein": Edit,
		"kmer":       Kmer,
		"needleman":  Needleman,
	}
	for name, want := range cases {
		got, err := ParseKind(name)
		if err != nil {
			t.Fatalf("ParseKind(%q): %v", name, err)
		}
		if got != want {
			t.Errorf("ParseKind(%q) = %v, want %v", name, got, want)
		}
	}

	if _, err := ParseKind("bogus"); err == nil {
		t.Error("ParseKind(bogus) should fail")
	} else if _, ok := err.(*ConfigError); !ok {
		t.Errorf("ParseKind(bogus) error type = %T, want *ConfigError", err)
	}
}

func TestHammingDistance(t *testing.T) {
	d, err := HammingDistance("ACGT", "ACGA")
	if err != nil {
		t.Fatal(err)
	}
	if d != 1 {
		t.Errorf("got %d, want 1", d)
	}

	d, err = HammingDistance("AAAA", "AAAA")
	if err != nil || d != 0 {
		t.Errorf("identical strings: got (%d,%v), want (0,nil)", d, err)
	}

	if _, err := HammingDistance("AC", "ACG"); err == nil {
		t.Error("expected LengthMismatchError")
	} else if _, ok := err.(*LengthMismatchError); !ok {
		t.Errorf("error type = %T, want *LengthMismatchError", err)
	}
}

func TestEditDistance(t *testing.T) {
	cases := []struct {
		a, b string
		want int
	}{
		{"", "", 0},
		{"", "abc", 3},
		{"kitten", "sitting", 3},
		{"ACGT", "ACGT", 0},
		{"flaw", "lawn", 2},
	}
	for _, c := range cases {
		got := EditDistance(c.a, c.b)
		if got != c.want {
			t.Errorf("EditDistance(%q,%q) = %d, want %d", c.a, c.b, got, c.want)
		}
	}
}

func TestEditDistanceSymmetric(t *testing.T) {
	a, b := "GATTACA", "GATTCAA"
	if EditDistance(a, b) != EditDistance(b, a) {
		t.Error("EditDistance is not symmetric")
	}
}

func TestKmerDistanceIdentical(t *testing.T) {
	if d := KmerDistance("ACGTACGT", "ACGTACGT", 3); d != 0 {
		t.Errorf("identical sequences: got %d, want 0", d)
	}
}

func TestKmerDistanceTooShort(t *testing.T) {
	if d := KmerDistance("AC", "ACGTACGT", 3); d != 100 {
		t.Errorf("got %d, want 100", d)
	}
}

func TestComputeDispatch(t *testing.T) {
	d, err := Compute(Hamming, "AAAA", "AAAT", Params{})
	if err != nil || d != 1 {
		t.Errorf("Compute(Hamming): got (%d,%v), want (1,nil)", d, err)
	}

	d, err = Compute(Edit, "kitten", "sitting", Params{})
	if err != nil || d != 3 {
		t.Errorf("Compute(Edit): got (%d,%v), want (3,nil)", d, err)
	}

	d, err = Compute(Kmer, "ACGTACGT", "ACGTACGT", Params{KmerK: 2})
	if err != nil || d != 0 {
		t.Errorf("Compute(Kmer): got (%d,%v), want (0,nil)", d, err)
	}
}
