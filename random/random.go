// Package random generates deterministic pseudo-random texts and patterns
// for the property-based tests in spec.md §8: a random text over a small
// byte alphabet, plus both real (guaranteed-present) and synthetic
// (possibly-absent) patterns drawn from it.
package random

import "math/rand"

// DNAAlphabet is the four-letter alphabet used by the repetitive-text
// property tests (spec.md §8 favors DNA-like inputs, since that is the
// domain an r-index targets: long, highly repetitive strings).
var DNAAlphabet = []byte("ACGT")

// Text returns a random sequence of length bytes drawn from alphabet,
// seeded for reproducibility.
func Text(length int, alphabet []byte, seed int64) []byte {
	r := rand.New(rand.NewSource(seed))
	out := make([]byte, length)
	for i := range out {
		out[i] = alphabet[r.Intn(len(alphabet))]
	}
	return out
}

// RepetitiveText returns a random text built by concatenating count
// mutated copies of a single random seed block, producing the kind of
// highly repetitive input an r-index is sized for (spec.md's whole
// premise is that r, the number of BWT runs, stays small on such texts).
// mutationRate is the fraction of positions in each copy that are
// replaced with a fresh random symbol.
func RepetitiveText(blockLen, copies int, mutationRate float64, alphabet []byte, seed int64) []byte {
	r := rand.New(rand.NewSource(seed))
	block := make([]byte, blockLen)
	for i := range block {
		block[i] = alphabet[r.Intn(len(alphabet))]
	}

	out := make([]byte, 0, blockLen*copies)
	for c := 0; c < copies; c++ {
		mutated := append([]byte{}, block...)
		for i := range mutated {
			if r.Float64() < mutationRate {
				mutated[i] = alphabet[r.Intn(len(alphabet))]
			}
		}
		out = append(out, mutated...)
	}
	return out
}

// Substrings extracts count random contiguous slices of patLen bytes from
// text, each guaranteed to occur in text at the position it was cut from
// (spec.md §8's "patterns drawn from the text itself" case — locate must
// report at least that position for every one of these).
func Substrings(text []byte, count, patLen int, seed int64) [][]byte {
	if patLen <= 0 || patLen > len(text) {
		return nil
	}
	r := rand.New(rand.NewSource(seed))
	out := make([][]byte, count)
	for i := range out {
		start := r.Intn(len(text) - patLen + 1)
		out[i] = append([]byte{}, text[start:start+patLen]...)
	}
	return out
}

// Bytes returns a random sequence of length bytes over alphabet with no
// relation to any particular text — used to probe patterns that are
// likely, but not guaranteed, absent (spec.md §8's mismatch case).
func Bytes(length int, alphabet []byte, seed int64) []byte {
	return Text(length, alphabet, seed)
}
