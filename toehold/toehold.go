// Package toehold resolves a BWT position's text position (SA value) by
// walking LF forward from a backward-search match until a sampled run
// end is found, per spec.md §4.4 and §4.5. It is grounded on sr_index.h's
// constructComputeToehold / lf_run_data: the walk repeatedly applies
// pos' = C[Access(pos)] + Rank(pos, Access(pos)), auto-detecting the
// character at each step rather than reusing the original query
// character, and at each step checks whether the pre-step position was
// itself a run end with a stored sample.
package toehold

import (
	"github.com/pkg/errors"

	"github.com/bebop/rindex/alphabet"
	"github.com/bebop/rindex/rlbwt"
	"github.com/bebop/rindex/search"
)

// SampleSource looks up the stored end-of-run sample (a text position)
// for a global run index, if one is present. Plain mode has a sample at
// every run end; the subsampled variants only have samples at a subset
// of run ends, which is exactly what forces the LF walk to continue.
type SampleSource interface {
	GetSample(globalRunIdx int) (int, bool)
}

// ErrWalkExceededRunCount signals an internal invariant failure: the LF
// walk took more steps than the index has runs (plus one) without
// finding a sample, which cannot happen if every plain index samples
// every run end (spec.md §4.4) and a subsampled index's construction
// guarantees a bounded gap between samples (spec.md §4.5's Open
// Question resolution).
var ErrWalkExceededRunCount = errors.New("toehold: walk exceeded run count without finding a sample")

// ComputeToehold resolves the text position of the suffix array entry at
// a backward-search match's high endpoint, described by step. It first
// converts the per-symbol run rank backward search reports into a
// global run index (via SelectOnRuns, exactly once), then walks LF
// forward — re-detecting the covering run's character at each step —
// until it finds a run end with a stored sample, offsetting by the
// number of steps taken.
func ComputeToehold(r *rlbwt.RLBWT, alpha alphabet.Alphabet, samples SampleSource, step search.StepData) (int, error) {
	comp, ok := alpha.CharToComp(step.C)
	if !ok {
		return 0, errors.Errorf("toehold: character %q not in alphabet", step.C)
	}

	globalRunIdx, ok := r.SelectOnRuns(step.LastRunRank, comp)
	if !ok {
		return 0, errors.New("toehold: backward-search run rank does not resolve to a run")
	}

	return walk(r, alpha, samples, globalRunIdx, step.IsRunEnd)
}

// ResolveAt resolves the text position of an arbitrary BWT position pos
// by walking LF forward from the run containing it, exactly like
// ComputeToehold but seeded from a position instead of backward-search
// telemetry. phi.PhiForRange uses this to re-anchor whenever a Φ step
// reports an invalid result and needs a fresh anchor at a known BWT
// position instead of the recursive run-resplitting spec.md §4.7
// describes.
func ResolveAt(r *rlbwt.RLBWT, alpha alphabet.Alphabet, samples SampleSource, pos int) (int, error) {
	runIdx := r.FindRun(pos)
	_, hi := r.RunBounds(runIdx)
	isRunEnd := pos == hi-1
	return walk(r, alpha, samples, runIdx, isRunEnd)
}

// walk returns sample + distance + 1 (mod n) per spec.md §4.4: samples
// are text positions of a run's *last* character, so even a zero-distance
// resolution (the starting run itself is sampled) needs the +1 to land
// on the text position the backward-search match actually anchors.
func walk(r *rlbwt.RLBWT, alpha alphabet.Alphabet, samples SampleSource, runIdx int, isRunEnd bool) (int, error) {
	pos := r.RunEnd(runIdx)
	steps := 0
	limit := r.NumRuns() + 1
	n := r.Len()

	for {
		if isRunEnd {
			if sample, ok := samples.GetSample(runIdx); ok {
				return (sample + steps + 1) % n, nil
			}
		}

		steps++
		if steps > limit {
			return 0, ErrWalkExceededRunCount
		}

		c := r.Access(pos)
		rank := r.Rank(pos, c)
		nextPos := alpha.C(c) + rank

		runIdx = r.FindRun(nextPos)
		_, hi := r.RunBounds(runIdx)
		isRunEnd = nextPos == hi-1

		pos = nextPos
	}
}
