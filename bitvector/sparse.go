package bitvector

import "sort"

// Sparse is a bitvector represented by the sorted list of its set
// positions, sized for the marks/submarks/subsample-index flags the
// subsampled variants track (O(r') or O(r) set bits out of a universe of
// size n or r). Rank is a binary search over the position list; select is
// a direct index. This trades the constant-factor savings of a true
// Elias-Fano/Elias-delta encoding (named in spec.md §2 as the intended
// representation) for a simpler, still logarithmic implementation — no
// compressed sparse-bitvector type exists in the teacher pack to ground a
// succinct encoding on, so Sparse is a deliberate simplification,
// documented in DESIGN.md.
type Sparse struct {
	positions []int // sorted, ascending
	numBits   int
}

// NewSparse builds a Sparse bitvector over a universe of size numBits with
// set bits exactly at the given positions (need not be pre-sorted).
func NewSparse(numBits int, positions []int) *Sparse {
	ps := make([]int, len(positions))
	copy(ps, positions)
	sort.Ints(ps)
	return &Sparse{positions: ps, numBits: numBits}
}

func (s *Sparse) Len() int { return s.numBits }

func (s *Sparse) Access(i int) bool {
	idx := sort.SearchInts(s.positions, i)
	return idx < len(s.positions) && s.positions[idx] == i
}

// Rank1 returns the number of set bits in [0,i).
func (s *Sparse) Rank1(i int) int {
	if i <= 0 {
		return 0
	}
	if i >= s.numBits {
		return len(s.positions)
	}
	return sort.SearchInts(s.positions, i)
}

func (s *Sparse) Rank0(i int) int {
	if i <= 0 {
		return 0
	}
	if i > s.numBits {
		i = s.numBits
	}
	return i - s.Rank1(i)
}

// Select1 returns the 1-indexed k-th set bit's position.
func (s *Sparse) Select1(k int) (int, bool) {
	if k < 1 || k > len(s.positions) {
		return 0, false
	}
	return s.positions[k-1], true
}

// Select0 returns the 1-indexed k-th clear bit's position, scanning the
// gaps between set positions. O(n) worst case; Sparse is not intended for
// select0-heavy use, which none of the query paths in this module need.
func (s *Sparse) Select0(k int) (int, bool) {
	if k < 1 {
		return 0, false
	}
	count := 0
	setIdx := 0
	for i := 0; i < s.numBits; i++ {
		if setIdx < len(s.positions) && s.positions[setIdx] == i {
			setIdx++
			continue
		}
		count++
		if count == k {
			return i, true
		}
	}
	return 0, false
}
