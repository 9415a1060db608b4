package wavelet_test

import (
	"testing"

	"github.com/bebop/rindex/wavelet"
)

func TestTreeReconstructsSequence(t *testing.T) {
	seq := "bananas"
	tr, err := wavelet.Build([]byte(seq))
	if err != nil {
		t.Fatal(err)
	}

	if tr.Len() != len(seq) {
		t.Fatalf("Len() = %d, want %d", tr.Len(), len(seq))
	}

	for i := 0; i < len(seq); i++ {
		if got := tr.Access(i); got != seq[i] {
			t.Errorf("Access(%d) = %q, want %q", i, got, seq[i])
		}
	}
}

func TestTreeRank(t *testing.T) {
	seq := "bananas"
	tr, err := wavelet.Build([]byte(seq))
	if err != nil {
		t.Fatal(err)
	}

	type rankTestCase struct {
		char byte
		i    int
		want int
	}
	cases := []rankTestCase{
		{'a', 0, 0},
		{'a', 4, 2},
		{'a', 7, 3},
		{'n', 7, 2},
		{'b', 7, 1},
		{'s', 7, 1},
		{'z', 7, 0},
	}
	for _, tc := range cases {
		if got := tr.Rank(tc.char, tc.i); got != tc.want {
			t.Errorf("Rank(%q, %d) = %d, want %d", tc.char, tc.i, got, tc.want)
		}
	}
}

func TestTreeSelect(t *testing.T) {
	seq := "bananas"
	tr, err := wavelet.Build([]byte(seq))
	if err != nil {
		t.Fatal(err)
	}

	type selectTestCase struct {
		char byte
		rank int
		want int
	}
	cases := []selectTestCase{
		{'a', 0, 1},
		{'a', 1, 3},
		{'a', 2, 5},
		{'n', 0, 2},
		{'n', 1, 4},
		{'b', 0, 0},
		{'s', 0, 6},
	}
	for _, tc := range cases {
		got, ok := tr.Select(tc.char, tc.rank)
		if !ok || got != tc.want {
			t.Errorf("Select(%q, %d) = (%d, %v), want (%d, true)", tc.char, tc.rank, got, ok, tc.want)
		}
	}
}

func TestTreeSingleCharAlphabet(t *testing.T) {
	tr, err := wavelet.Build([]byte("aaaa"))
	if err != nil {
		t.Fatal(err)
	}
	for i := 0; i < 4; i++ {
		if got := tr.Access(i); got != 'a' {
			t.Errorf("Access(%d) = %q, want 'a'", i, got)
		}
	}
	if got := tr.Rank('a', 3); got != 3 {
		t.Errorf("Rank('a', 3) = %d, want 3", got)
	}
}
