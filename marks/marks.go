// Package marks implements circular predecessor search over a sparse
// set of text positions, per spec.md §4.5: given a bitvector with a set
// bit at every (sub)mark position, find the largest mark position at
// most p, wrapping around to the very last mark when p precedes all of
// them (so that "predecessor" is always defined on a non-empty mark
// set).
package marks

import "github.com/bebop/rindex/bitvector"

// Marks is a sorted, circular set of text positions (mark or submark
// positions), backed by a sparse bitvector over [0,n).
type Marks struct {
	bv *bitvector.Sparse
	n  int
}

// New builds a Marks set from a sparse bitvector over a universe of size
// n with a set bit at each mark position. positions need not be sorted.
func New(n int, positions []int) *Marks {
	return &Marks{bv: bitvector.NewSparse(n, positions), n: n}
}

// Predecessor returns the index (0-indexed rank among marks, in text
// order) and text position of the largest mark at most p. If p precedes
// every mark, it wraps around circularly and returns the last mark.
func (m *Marks) Predecessor(p int) (idx int, pos int) {
	total := m.bv.Rank1(m.n)
	if total == 0 {
		return -1, -1
	}

	rank := m.bv.Rank1(p + 1) // number of marks in [0,p]
	if rank == 0 {
		// p precedes every mark; wrap to the last one.
		lastPos, _ := m.bv.Select1(total)
		return total - 1, lastPos
	}

	markPos, _ := m.bv.Select1(rank)
	return rank - 1, markPos
}

// Len is the number of marks in the set.
func (m *Marks) Len() int { return m.bv.Rank1(m.n) }

// At returns the text position of the mark with the given 0-indexed
// rank (in text order).
func (m *Marks) At(idx int) (int, bool) {
	return m.bv.Select1(idx + 1)
}
