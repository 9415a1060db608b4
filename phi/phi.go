// Package phi implements the Φ (phi) backward operator and its
// range-enumeration driver, per spec.md §4.6 and §4.7: given a suffix
// array value, return the previous one in text order by locating the
// closest preceding mark, following its mark→sample link, and adding the
// offset; then, for a whole BWT interval, enumerate every SA value by
// starting from one toehold at the interval's high end and repeatedly
// applying Φ.
//
// Three tagged variants share one driver (spec.md §9's "dispatch through
// captured lambdas" redesign note): Plain always trusts the mark→sample
// link; ValidMark additionally requires a per-submark valid-mark flag;
// ValidArea additionally requires the offset to fit a recorded valid
// area. All three are grounded on sr_index.h's SrIndex / SrIndexValidMark
// / SrIndexValidArea class hierarchy.
package phi

import (
	"github.com/pkg/errors"

	"github.com/bebop/rindex/alphabet"
	"github.com/bebop/rindex/bitvector"
	"github.com/bebop/rindex/marks"
	"github.com/bebop/rindex/rlbwt"
	"github.com/bebop/rindex/toehold"
)

// Variant tags which validity discipline a Phi instance enforces.
type Variant int

const (
	Plain Variant = iota
	ValidMark
	ValidArea
)

// Phi is the Φ backward operator over one index's (sub)marks and
// samples.
type Phi struct {
	variant      Variant
	n            int
	marksIdx     *marks.Marks // submarks, in text order
	markToSample []int        // mark→sample link, one per submark
	samples      toehold.SampleSource
	validMark    *bitvector.Dense // ValidMark only: 1 bit per submark
	validArea    []int            // ValidArea only: gap length per submark
}

// NewPlain builds the plain variant: the mark→sample link is always
// trusted.
func NewPlain(n int, markPositions []int, markToSample []int, samples toehold.SampleSource) *Phi {
	return &Phi{
		variant:      Plain,
		n:            n,
		marksIdx:     marks.New(n, markPositions),
		markToSample: markToSample,
		samples:      samples,
	}
}

// NewValidMark builds the valid-mark variant: the link is only trusted
// when validMark's bit is set for that submark.
func NewValidMark(n int, markPositions []int, markToSample []int, samples toehold.SampleSource, validMark *bitvector.Dense) *Phi {
	return &Phi{
		variant:      ValidMark,
		n:            n,
		marksIdx:     marks.New(n, markPositions),
		markToSample: markToSample,
		samples:      samples,
		validMark:    validMark,
	}
}

// NewValidArea builds the valid-area variant: the link is always present
// but only trusted when the query offset fits the recorded gap length.
func NewValidArea(n int, markPositions []int, markToSample []int, samples toehold.SampleSource, validArea []int) *Phi {
	return &Phi{
		variant:      ValidArea,
		n:            n,
		marksIdx:     marks.New(n, markPositions),
		markToSample: markToSample,
		samples:      samples,
		validArea:    validArea,
	}
}

// Apply computes Φ(v): the text position one SA-cell to the left of v.
// ok is false when the anchor at v's preceding mark is not valid for
// this variant (spec's InvalidAnchor condition) — callers must fall back
// (see PhiForRange).
func (p *Phi) Apply(v int) (int, bool) {
	idx, markPos := p.marksIdx.Predecessor(v)
	if idx < 0 {
		return 0, false
	}

	switch p.variant {
	case ValidMark:
		if !p.validMark.Access(idx) {
			return 0, false
		}
	case ValidArea:
		offset := circularOffset(v, markPos, p.n)
		if offset > p.validArea[idx] {
			return 0, false
		}
	}

	sampleIdx := p.markToSample[idx]
	sample, ok := p.samples.GetSample(sampleIdx)
	if !ok {
		return 0, false
	}

	offset := circularOffset(v, markPos, p.n)
	return (sample + offset) % p.n, true
}

func circularOffset(v, markPos, n int) int {
	if v >= markPos {
		return v - markPos
	}
	return v + n - markPos
}

// ErrPhiRangeInvariant names an internal invariant failure: a position's
// anchor could not be resolved even after falling back to ResolveAt,
// which can only happen if the RLBWT or sample arrays are internally
// inconsistent. PhiForRange does not return this value; it reports that
// case by wrapping the error ResolveAt returns.
var ErrPhiRangeInvariant = errors.New("phi: could not resolve an anchor for a run in range")

// PhiForRange enumerates every SA value in the closed BWT interval
// [lo,hi], given one already-resolved toehold SA value anchored at
// position hi. It does not split the interval into runs: it walks the
// positions from hi-1 down to lo, deriving each value from the one above
// it by a single Φ application, and only resolves a fresh anchor (by
// walking LF via toehold.ResolveAt) at a position where Φ reports an
// invalid link. Results are reported in ascending BWT position order.
//
// When Φ reports an invalid link mid-run, this implementation re-anchors
// directly at the known BWT position via toehold.ResolveAt rather than
// the recursive run re-splitting spec.md §4.7 step 5 describes — a
// simplification documented in DESIGN.md that preserves correctness
// (every position still resolves to a definite SA value) at the cost of
// the bounded-recursion amortized bound the original gives.
func PhiForRange(r *rlbwt.RLBWT, alpha alphabet.Alphabet, p *Phi, samples toehold.SampleSource, lo, hi, anchorValue int) ([]int, error) {
	if lo > hi {
		return nil, nil
	}

	values := make([]int, hi-lo+1)
	values[hi-lo] = anchorValue

	// Walk BWT positions from hi-1 down to lo, applying Φ once per step;
	// re-anchor via toehold.ResolveAt whenever Φ is invalid at the
	// current position (variant-dependent gap).
	current := anchorValue
	for pos := hi - 1; pos >= lo; pos-- {
		next, ok := p.Apply(current)
		if !ok {
			resolved, err := toehold.ResolveAt(r, alpha, samples, pos)
			if err != nil {
				return nil, errors.Wrap(err, "phi: re-anchoring after invalid Φ link")
			}
			next = resolved
		}
		values[pos-lo] = next
		current = next
	}

	return values, nil
}
