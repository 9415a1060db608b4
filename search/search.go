// Package search implements backward search over a run-length BWT: the
// iterative application of lf.Apply across a pattern's characters right
// to left, producing the pattern's BWT interval (spec.md §4.3) and the
// run-boundary telemetry needed to seed toehold resolution.
package search

import (
	"github.com/bebop/rindex/alphabet"
	"github.com/bebop/rindex/lf"
	"github.com/bebop/rindex/rlbwt"
)

// StepData is the telemetry of the last (leftmost) backward-search step
// whose new high endpoint landed on a run end: the character consumed,
// and that run's rank among the character's runs, which
// toehold.ComputeToehold walks from to recover an actual text position.
// Later steps that land strictly inside a run leave it unchanged.
type StepData struct {
	C           byte
	LastRunRank int
	IsRunEnd    bool
}

// BackwardSearch matches pattern against r right to left, returning the
// BWT interval of all suffixes prefixed by pattern. ok is false if the
// pattern does not occur (interval is empty), contains a byte outside
// the alphabet, or contains the sentinel byte. An empty pattern always
// reports ok=false with an empty interval — count and locate both treat
// the empty pattern as matching nothing, rather than the whole text, to
// keep count(P) and locate(P) mutually consistent at the boundary.
//
// The sentinel is internal bookkeeping, not a character of the original
// text (spec.md §8's PatternWithSentinel property): without this check,
// a pattern that happens to end on the sentinel's one real occurrence in
// the indexed string — e.g. the last character of the text followed by
// the sentinel itself — would narrow to a genuine, non-empty interval
// and incorrectly report a match.
func BackwardSearch(r *rlbwt.RLBWT, alpha alphabet.Alphabet, pattern []byte) (lf.Interval, StepData, bool) {
	if len(pattern) == 0 {
		return lf.Interval{Lo: 1, Hi: 0}, StepData{}, false
	}
	for _, c := range pattern {
		if c == alphabet.Sentinel {
			return lf.Interval{Lo: 1, Hi: 0}, StepData{}, false
		}
	}

	interval := lf.Interval{Lo: 0, Hi: r.Len() - 1}
	var lastEndpoint lf.Endpoint
	var lastChar byte

	for i := len(pattern) - 1; i >= 0; i-- {
		c := pattern[i]
		next, endpoint, ok := lf.Apply(r, alpha, c, interval)
		if !ok || next.Empty() {
			return lf.Interval{Lo: 1, Hi: 0}, StepData{}, false
		}
		// A trivial step (the new high endpoint lies inside a run rather
		// than at its boundary) carries no new run-boundary information,
		// so step_data is left untouched — only a run-end step tells the
		// toehold resolver anything it didn't already know.
		if endpoint.IsRunEnd {
			lastEndpoint = endpoint
			lastChar = c
		}
		interval = next
	}

	step := StepData{
		C:           lastChar,
		LastRunRank: lastEndpoint.RunRank,
		IsRunEnd:    lastEndpoint.IsRunEnd,
	}
	return interval, step, true
}
