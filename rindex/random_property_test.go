package rindex_test

import (
	"bytes"
	"testing"

	"github.com/bebop/rindex/random"
)

// bruteForceLocate is the ground truth for these property tests: every
// (possibly overlapping) start offset where pattern occurs in text.
func bruteForceLocate(text, pattern []byte) []int {
	if len(pattern) == 0 || len(pattern) > len(text) {
		return nil
	}
	var out []int
	for i := 0; i+len(pattern) <= len(text); i++ {
		if bytes.Equal(text[i:i+len(pattern)], pattern) {
			out = append(out, i)
		}
	}
	return out
}

// TestRandomTextLocateMatchesBruteForceAcrossSubsampleRates drives
// spec.md §8's completeness property (locate finds every occurrence, no
// more and no fewer) and subsampling-monotonicity property (every
// subsample rate answers identically to the plain variant) together,
// over a randomly generated repetitive text of the kind an r-index
// targets — plus spec.md §8 scenario 6's "random patterns cut from the
// text, and patterns unlikely to occur at all" mix.
func TestRandomTextLocateMatchesBruteForceAcrossSubsampleRates(t *testing.T) {
	text := random.RepetitiveText(64, 20, 0.05, random.DNAAlphabet, 123)

	var patterns [][]byte
	patterns = append(patterns, random.Substrings(text, 15, 12, 7)...)
	for i := 0; i < 10; i++ {
		patterns = append(patterns, random.Bytes(6, random.DNAAlphabet, int64(9000+i)))
	}

	plain, _ := buildPlainIndex(t, text)
	rates := []int{1, 2, 4, 8}

	for _, p := range patterns {
		want := bruteForceLocate(text, p)

		gotPlain, err := plain.Locate(p)
		if err != nil {
			t.Fatalf("plain.Locate(%q): %v", p, err)
		}
		if !equalSets(gotPlain, want) {
			t.Errorf("plain Locate(%q) = %v, want %v", p, sortedInts(gotPlain), sortedInts(want))
		}

		for _, rate := range rates {
			mark := buildValidMarkIndex(t, text, rate)
			gotMark, err := mark.Locate(p)
			if err != nil {
				t.Fatalf("valid-mark(rate=%d).Locate(%q): %v", rate, p, err)
			}
			if !equalSets(gotMark, want) {
				t.Errorf("valid-mark(rate=%d) Locate(%q) = %v, want %v", rate, p, sortedInts(gotMark), sortedInts(want))
			}

			area := buildValidAreaIndex(t, text, rate)
			gotArea, err := area.Locate(p)
			if err != nil {
				t.Fatalf("valid-area(rate=%d).Locate(%q): %v", rate, p, err)
			}
			if !equalSets(gotArea, want) {
				t.Errorf("valid-area(rate=%d) Locate(%q) = %v, want %v", rate, p, sortedInts(gotArea), sortedInts(want))
			}
		}
	}
}
