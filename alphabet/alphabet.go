// Package alphabet maps the raw bytes of a text onto a compact alphabet
// [0..sigma) and keeps the cumulative symbol-count array C used throughout
// LF mapping.
package alphabet

import (
	"sort"

	"github.com/pkg/errors"
)

// Sentinel is the terminator byte appended to every indexed text. It must
// compare smaller than every other byte in the text, matching the BWT's
// requirement that the sentinel sort first.
const Sentinel byte = 0x00

// Alphabet is the bijection between raw bytes actually present in a text
// and a dense range [0..Sigma), plus the cumulative count array C used by
// LF mapping (new_lo = C[c] + rank(lo, c)).
type Alphabet struct {
	char2comp [256]int16 // -1 if the byte never occurs
	comp2char []byte
	c         []int // length Sigma+1
}

// FromCounts builds an Alphabet from occurrence counts of each byte in the
// (sentinel-terminated) text, e.g. the BWT itself or the source text.
func FromCounts(counts [256]int) (Alphabet, error) {
	if counts[Sentinel] == 0 {
		return Alphabet{}, errors.New("alphabet: text must contain exactly one sentinel byte")
	}

	var present []byte
	for b := 0; b < 256; b++ {
		if counts[b] > 0 {
			present = append(present, byte(b))
		}
	}
	sort.Slice(present, func(i, j int) bool { return present[i] < present[j] })

	a := Alphabet{comp2char: present, c: make([]int, len(present)+1)}
	for i := range a.char2comp {
		a.char2comp[i] = -1
	}

	cumulative := 0
	for comp, ch := range present {
		a.char2comp[ch] = int16(comp)
		a.c[comp] = cumulative
		cumulative += counts[ch]
	}
	a.c[len(present)] = cumulative

	return a, nil
}

// FromText is a convenience wrapper around FromCounts that tallies byte
// frequencies in a sentinel-terminated text.
func FromText(text []byte) (Alphabet, error) {
	var counts [256]int
	for _, b := range text {
		counts[b]++
	}
	return FromCounts(counts)
}

// Sigma is the size of the compact alphabet.
func (a Alphabet) Sigma() int { return len(a.comp2char) }

// CharToComp maps a raw byte to its compact-alphabet symbol. ok is false
// when the byte never occurs in the indexed text (spec's AlphabetMismatch
// condition).
func (a Alphabet) CharToComp(c byte) (comp byte, ok bool) {
	v := a.char2comp[c]
	if v < 0 {
		return 0, false
	}
	return byte(v), true
}

// CompToChar maps a compact-alphabet symbol back to its raw byte.
func (a Alphabet) CompToChar(comp byte) byte { return a.comp2char[comp] }

// C returns the cumulative count of symbols strictly smaller than comp.
// C(Sigma) is the total length of the indexed sequence.
func (a Alphabet) C(comp byte) int { return a.c[comp] }

// Total is the length of the sequence the alphabet was built over (C[Sigma]).
func (a Alphabet) Total() int { return a.c[len(a.c)-1] }

// Counts reconstructs the per-byte occurrence counts this alphabet was
// built from. The persisted artifact format stores these rather than the
// alphabet's internal tables directly, then rebuilds via FromCounts —
// cheaper to serialize (one count per symbol instead of the 256-entry
// char2comp map) and self-verifying (FromCounts re-derives char2comp, so
// a corrupted count can't silently desync the two).
func (a Alphabet) Counts() [256]int {
	var counts [256]int
	for comp, ch := range a.comp2char {
		counts[ch] = a.c[comp+1] - a.c[comp]
	}
	return counts
}
