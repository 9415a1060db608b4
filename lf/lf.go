// Package lf implements interval LF-mapping over a run-length BWT, per
// spec.md §4.2: the closed-interval backward-search step that narrows
// [lo,hi] to the BWT range of cP given the range of P, plus the endpoint
// telemetry (run rank, cover/non-cover) that toehold resolution needs.
//
// It is grounded on sr_index.h's constructLFForPhi/create_range, which
// compose the same interval-LF primitive internally while walking Φ.
package lf

import (
	"github.com/bebop/rindex/alphabet"
	"github.com/bebop/rindex/rlbwt"
)

// Interval is a closed BWT range [Lo,Hi]. An empty range is represented
// by Lo > Hi.
type Interval struct {
	Lo, Hi int
}

// Empty reports whether iv represents no matches.
func (iv Interval) Empty() bool { return iv.Lo > iv.Hi }

// Endpoint carries the run-boundary telemetry for the position within
// the old interval that determines the new interval's Hi: its 1-indexed
// rank among c-runs, and whether it is the last c in that run (a run
// end), as returned by rlbwt.RunContainingRank.
type Endpoint struct {
	RunRank  int
	IsRunEnd bool
}

// Apply performs one backward-search step: given the BWT range [lo,hi] of
// a pattern suffix P and a raw character c, it returns the BWT range of
// cP, along with telemetry about the new Hi endpoint (the one the
// toehold walk anchors from, since backward search consumes the pattern
// right-to-left and a match's final extension determines SA[hi]).
//
// ok is false if c is not in the alphabet, in which case the returned
// interval is always empty.
func Apply(r *rlbwt.RLBWT, alpha alphabet.Alphabet, c byte, interval Interval) (Interval, Endpoint, bool) {
	comp, ok := alpha.CharToComp(c)
	if !ok {
		return Interval{Lo: 1, Hi: 0}, Endpoint{}, false
	}

	lo, hi := interval.Lo, interval.Hi
	base := alpha.C(comp)

	rankLo := r.Rank(lo, comp)
	rankHiPlus1 := r.Rank(hi+1, comp)

	newLo := base + rankLo
	newHi := base + rankHiPlus1 - 1
	if newHi < newLo {
		return Interval{Lo: newLo, Hi: newHi}, Endpoint{}, true
	}

	runRank, isRunEnd, ok := r.RunContainingRank(rankHiPlus1, comp)
	if !ok {
		return Interval{Lo: newLo, Hi: newHi}, Endpoint{}, true
	}

	return Interval{Lo: newLo, Hi: newHi}, Endpoint{RunRank: runRank, IsRunEnd: isRunEnd}, true
}

// IsEmpty reports whether iv is an empty range.
func IsEmpty(iv Interval) bool { return iv.Empty() }
