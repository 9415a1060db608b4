package alphabet_test

import (
	"testing"

	"github.com/bebop/rindex/alphabet"
)

func TestFromText(t *testing.T) {
	text := []byte("banana\x00")
	a, err := alphabet.FromText(text)
	if err != nil {
		t.Fatal(err)
	}

	if a.Sigma() != 4 {
		t.Fatalf("expected sigma 4 (\\x00, a, b, n), got %d", a.Sigma())
	}

	if a.Total() != len(text) {
		t.Fatalf("expected total %d, got %d", len(text), a.Total())
	}

	type testCase struct {
		char        byte
		wantComp    byte
		wantPresent bool
	}
	cases := []testCase{
		{alphabet.Sentinel, 0, true},
		{'a', 1, true},
		{'b', 2, true},
		{'n', 3, true},
		{'z', 0, false},
	}
	for _, tc := range cases {
		comp, ok := a.CharToComp(tc.char)
		if ok != tc.wantPresent {
			t.Fatalf("CharToComp(%q) ok = %v, want %v", tc.char, ok, tc.wantPresent)
		}
		if ok && comp != tc.wantComp {
			t.Fatalf("CharToComp(%q) = %d, want %d", tc.char, comp, tc.wantComp)
		}
		if ok && a.CompToChar(comp) != tc.char {
			t.Fatalf("CompToChar(%d) = %q, want %q", comp, a.CompToChar(comp), tc.char)
		}
	}

	// C must be monotone non-decreasing and C[0]=0, C[sigma]=n.
	if a.C(0) != 0 {
		t.Fatalf("C(0) = %d, want 0", a.C(0))
	}
	if a.C(byte(a.Sigma())) != len(text) {
		t.Fatalf("C(sigma) = %d, want %d", a.C(byte(a.Sigma())), len(text))
	}
	for i := byte(0); i < byte(a.Sigma()); i++ {
		if a.C(i) > a.C(i+1) {
			t.Fatalf("C not monotone at %d: %d > %d", i, a.C(i), a.C(i+1))
		}
	}
}

func TestCountsRoundTrip(t *testing.T) {
	text := []byte("mississippi\x00")
	a, err := alphabet.FromText(text)
	if err != nil {
		t.Fatal(err)
	}

	rebuilt, err := alphabet.FromCounts(a.Counts())
	if err != nil {
		t.Fatalf("FromCounts(a.Counts()): %v", err)
	}

	if rebuilt.Sigma() != a.Sigma() || rebuilt.Total() != a.Total() {
		t.Fatalf("rebuilt alphabet sigma/total = %d/%d, want %d/%d", rebuilt.Sigma(), rebuilt.Total(), a.Sigma(), a.Total())
	}
	for _, ch := range []byte{alphabet.Sentinel, 'i', 'm', 'p', 's'} {
		wantComp, wantOK := a.CharToComp(ch)
		gotComp, gotOK := rebuilt.CharToComp(ch)
		if wantOK != gotOK || wantComp != gotComp {
			t.Errorf("CharToComp(%q) = (%d,%v), want (%d,%v)", ch, gotComp, gotOK, wantComp, wantOK)
		}
	}
}

func TestFromCountsRejectsMissingSentinel(t *testing.T) {
	var counts [256]int
	counts['a'] = 3
	if _, err := alphabet.FromCounts(counts); err == nil {
		t.Fatal("expected error when sentinel is absent")
	}
}
