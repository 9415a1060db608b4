package rindex_test

import (
	"sort"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/bebop/rindex/internal/fixture"
	"github.com/bebop/rindex/rindex"
)

func buildPlainIndex(t *testing.T, text []byte) (*rindex.Index, *fixture.Built) {
	t.Helper()
	b, err := fixture.Build(text)
	if err != nil {
		t.Fatalf("fixture.Build: %v", err)
	}

	idx, err := rindex.NewFromComponents(rindex.VariantPlain, b.Alpha, b.RL, b.Samples, nil, b.MarksByPos, b.MarkToSampleFull, nil, nil)
	if err != nil {
		t.Fatalf("NewFromComponents: %v", err)
	}
	return idx, b
}

func buildValidMarkIndex(t *testing.T, text []byte, rate int) *rindex.Index {
	t.Helper()
	b, err := fixture.Build(text)
	if err != nil {
		t.Fatalf("fixture.Build: %v", err)
	}
	sub := b.Subsample(rate)

	idx, err := rindex.NewFromComponents(rindex.VariantValidMark, b.Alpha, b.RL, b.Samples, sub.RunIndices, sub.SubmarkPos, sub.MarkToSample, sub.ValidMark, nil)
	if err != nil {
		t.Fatalf("NewFromComponents: %v", err)
	}
	return idx
}

func buildValidAreaIndex(t *testing.T, text []byte, rate int) *rindex.Index {
	t.Helper()
	b, err := fixture.Build(text)
	if err != nil {
		t.Fatalf("fixture.Build: %v", err)
	}
	sub := b.Subsample(rate)

	idx, err := rindex.NewFromComponents(rindex.VariantValidArea, b.Alpha, b.RL, b.Samples, sub.RunIndices, sub.SubmarkPos, sub.MarkToSample, nil, sub.ValidArea)
	if err != nil {
		t.Fatalf("NewFromComponents: %v", err)
	}
	return idx
}

func sortedInts(xs []int) []int {
	out := append([]int{}, xs...)
	sort.Ints(out)
	return out
}

func equalSets(a, b []int) bool {
	a, b = sortedInts(a), sortedInts(b)
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func TestAbracadabraCountAndLocate(t *testing.T) {
	idx, _ := buildPlainIndex(t, []byte("abracadabra"))

	start, end := idx.Count([]byte("abra"))
	if end-start != 2 {
		t.Errorf("Count(\"abra\") occurrences = %d, want 2", end-start)
	}

	got, err := idx.Locate([]byte("abra"))
	if err != nil {
		t.Fatalf("Locate: %v", err)
	}
	want := []int{0, 7}
	if !equalSets(got, want) {
		t.Errorf("Locate(\"abra\") = %v, want set %v", got, want)
	}
}

func TestAbracadabraLocateSingleChar(t *testing.T) {
	idx, _ := buildPlainIndex(t, []byte("abracadabra"))

	got, err := idx.Locate([]byte("a"))
	if err != nil {
		t.Fatalf("Locate: %v", err)
	}
	want := []int{0, 3, 5, 7, 10}
	if !equalSets(got, want) {
		t.Errorf("Locate(\"a\") = %v, want set %v", got, want)
	}
}

func TestMississippiQueries(t *testing.T) {
	idx, _ := buildPlainIndex(t, []byte("mississippi"))

	start, end := idx.Count([]byte("issi"))
	if end-start != 2 {
		t.Errorf("Count(\"issi\") occurrences = %d, want 2", end-start)
	}
	got, err := idx.Locate([]byte("issi"))
	if err != nil {
		t.Fatalf("Locate: %v", err)
	}
	if want := []int{1, 4}; !equalSets(got, want) {
		t.Errorf("Locate(\"issi\") = %v, want set %v", got, want)
	}

	got, err = idx.Locate([]byte("ss"))
	if err != nil {
		t.Fatalf("Locate: %v", err)
	}
	if want := []int{2, 5}; !equalSets(got, want) {
		t.Errorf("Locate(\"ss\") = %v, want set %v", got, want)
	}
}

func TestRepetitiveText(t *testing.T) {
	idx, _ := buildPlainIndex(t, []byte("aaaaaa"))

	got, err := idx.Locate([]byte("aa"))
	if err != nil {
		t.Fatalf("Locate: %v", err)
	}
	want := []int{0, 1, 2, 3, 4}
	if !equalSets(got, want) {
		t.Errorf("Locate(\"aa\") = %v, want set %v", got, want)
	}
}

func TestEmptyPatternIsEmptyAnswer(t *testing.T) {
	idx, _ := buildPlainIndex(t, []byte("abracadabra"))

	start, end := idx.Count(nil)
	if start != 0 || end != 0 {
		t.Errorf("Count(\"\") = (%d,%d), want (0,0)", start, end)
	}
	got, err := idx.Locate(nil)
	if err != nil {
		t.Fatalf("Locate: %v", err)
	}
	if len(got) != 0 {
		t.Errorf("Locate(\"\") = %v, want empty", got)
	}
}

func TestPatternLongerThanTextIsEmpty(t *testing.T) {
	idx, _ := buildPlainIndex(t, []byte("abra"))

	start, end := idx.Count([]byte("abracadabra"))
	if end-start != 0 {
		t.Errorf("Count of a too-long pattern = %d occurrences, want 0", end-start)
	}
}

func TestPatternEqualToTextLocatesZero(t *testing.T) {
	idx, _ := buildPlainIndex(t, []byte("abracadabra"))

	got, err := idx.Locate([]byte("abracadabra"))
	if err != nil {
		t.Fatalf("Locate: %v", err)
	}
	if want := []int{0}; !equalSets(got, want) {
		t.Errorf("Locate(full text) = %v, want %v", got, want)
	}
}

func TestSentinelInPatternIsEmpty(t *testing.T) {
	idx, _ := buildPlainIndex(t, []byte("abracadabra"))

	got, err := idx.Locate([]byte{'a', 0x00, 'b'})
	if err != nil {
		t.Fatalf("Locate: %v", err)
	}
	if len(got) != 0 {
		t.Errorf("Locate with embedded sentinel = %v, want empty", got)
	}
}

// TestSentinelAtRealOccurrenceIsStillEmpty exercises the sentinel guard
// against the one place it can't be satisfied vacuously: "a" followed by
// the literal sentinel byte genuinely occurs in the internal,
// sentinel-terminated text (the last "a" of "abracadabra" is immediately
// followed by the appended sentinel), so without an explicit guard this
// pattern would narrow to a real, non-empty BWT interval.
func TestSentinelAtRealOccurrenceIsStillEmpty(t *testing.T) {
	idx, _ := buildPlainIndex(t, []byte("abracadabra"))

	start, end := idx.Count([]byte{'a', 0x00})
	if end-start != 0 {
		t.Errorf("Count(\"a\\x00\") = %d occurrences, want 0", end-start)
	}

	got, err := idx.Locate([]byte{'a', 0x00})
	if err != nil {
		t.Fatalf("Locate: %v", err)
	}
	if len(got) != 0 {
		t.Errorf("Locate(\"a\\x00\") = %v, want empty", got)
	}
}

func TestValidMarkVariantAgreesWithPlain(t *testing.T) {
	idx := buildValidMarkIndex(t, []byte("mississippi"), 2)

	got, err := idx.Locate([]byte("issi"))
	if err != nil {
		t.Fatalf("Locate: %v", err)
	}
	if want := []int{1, 4}; !equalSets(got, want) {
		t.Errorf("valid-mark Locate(\"issi\") = %v, want set %v", got, want)
	}

	got, err = idx.Locate([]byte("ss"))
	if err != nil {
		t.Fatalf("Locate: %v", err)
	}
	if want := []int{2, 5}; !equalSets(got, want) {
		t.Errorf("valid-mark Locate(\"ss\") = %v, want set %v", got, want)
	}
}

func TestValidAreaVariantAgreesWithPlain(t *testing.T) {
	idx := buildValidAreaIndex(t, []byte("aaaaaa"), 4)

	got, err := idx.Locate([]byte("aa"))
	if err != nil {
		t.Fatalf("Locate: %v", err)
	}
	want := []int{0, 1, 2, 3, 4}
	if !equalSets(got, want) {
		t.Errorf("valid-area Locate(\"aa\") = %v, want set %v", got, want)
	}
}

func TestValidAreaVariantAgreesWithPlainOnAbracadabra(t *testing.T) {
	idx := buildValidAreaIndex(t, []byte("abracadabra"), 3)

	got, err := idx.Locate([]byte("abra"))
	if err != nil {
		t.Fatalf("Locate: %v", err)
	}
	want := []int{0, 7}
	if !equalSets(got, want) {
		t.Errorf("valid-area Locate(\"abra\") = %v, want set %v", got, want)
	}
}

func TestBreakdownReportsNonNegativeSizes(t *testing.T) {
	idx, _ := buildPlainIndex(t, []byte("banana"))
	parts := idx.Breakdown()
	if len(parts) == 0 {
		t.Fatal("Breakdown() returned no components")
	}
	for _, p := range parts {
		if p.Bytes < 0 {
			t.Errorf("component %s has negative size %d", p.Name, p.Bytes)
		}
	}
}

func TestBreakdownIsDeterministicForTheSameText(t *testing.T) {
	idxA, _ := buildPlainIndex(t, []byte("mississippi"))
	idxB, _ := buildPlainIndex(t, []byte("mississippi"))

	if diff := cmp.Diff(idxA.Breakdown(), idxB.Breakdown()); diff != "" {
		t.Errorf("Breakdown() differs across two builds of the same text (-a +b):\n%s", diff)
	}
}
