// Package bitvector provides the rank/select/access bitvector abstraction
// the rest of the index is built on, plus two concrete implementations: a
// dense, word-packed bitvector with two-level (Jacobson-style) rank and
// direct select maps, and a sparse, position-list-backed bitvector sized
// for the small sets (marks, submarks, per-run-index flags) that the
// subsampled variants track.
package bitvector

// Bitvector is the capability set every component in this module needs
// from a bit sequence: rank over both bit values, select over both bit
// values, and direct access.
//
// Rank1(i) counts the set bits in [0,i) (i may range over [0,Len()]).
// Select1(k) returns the position of the k-th set bit, 1-indexed; ok is
// false if fewer than k bits are set.
type Bitvector interface {
	Len() int
	Access(i int) bool
	Rank1(i int) int
	Rank0(i int) int
	Select1(k int) (int, bool)
	Select0(k int) (int, bool)
}
