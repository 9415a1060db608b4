// Package fixture is a naive, brute-force index builder: full suffix
// sort, run-length BWT, samples, marks, and the mark→sample link, plus a
// subsampling helper producing the submark/valid-mark/valid-area
// metadata the phi package's variants consume. It gives package tests
// (and rindex's own façade tests) a ground-truth index to check query
// answers against, and cmd/rquery's build subcommand uses it as its
// construction backend. It is not a production construction algorithm:
// its rotation sort is only adequate for small texts.
//
// It is grounded on the teacher's bwt.New: sort every rotation of the
// (sentinel-terminated) text, walk the sorted order to build the BWT
// string and its run structure.
package fixture

import (
	"sort"

	"github.com/bebop/rindex/alphabet"
	"github.com/bebop/rindex/rlbwt"
)

// Built is a ground-truth index over a small text, built by brute force.
type Built struct {
	Text    []byte // sentinel-terminated
	Alpha   alphabet.Alphabet
	RL      *rlbwt.RLBWT
	SA      []int
	NumRuns int

	// Samples[runIdx] is the text position of the last character of run
	// runIdx; Marks[runIdx] is the text position of its first character.
	Samples []int
	Marks   []int

	// MarkToSampleFull[i] is the global run index of the sample whose
	// successor in text is MarksByPos[i], where MarksByPos is Marks
	// sorted by text position ascending.
	MarkToSampleFull []int
	MarksByPos       []int // Marks, sorted ascending (text position order)
}

// Build constructs a Built index over text by brute-force suffix
// sorting. text must not already contain alphabet.Sentinel; Build
// appends it.
func Build(text []byte) (*Built, error) {
	t := append(append([]byte{}, text...), alphabet.Sentinel)
	n := len(t)

	sa := make([]int, n)
	for i := range sa {
		sa[i] = i
	}
	sort.Slice(sa, func(i, j int) bool {
		return lessRotation(t, sa[i], sa[j])
	})

	bwt := make([]byte, n)
	for i, s := range sa {
		bwt[i] = t[(s-1+n)%n]
	}

	alpha, err := alphabet.FromText(t)
	if err != nil {
		return nil, err
	}

	comp := make([]byte, n)
	for i, c := range bwt {
		cc, _ := alpha.CharToComp(c)
		comp[i] = cc
	}

	rl, err := rlbwt.Build(comp, alpha)
	if err != nil {
		return nil, err
	}

	numRuns := rl.NumRuns()
	samples := make([]int, numRuns)
	marks := make([]int, numRuns)
	for runIdx := 0; runIdx < numRuns; runIdx++ {
		lo, hi := rl.RunBounds(runIdx)
		marks[runIdx] = sa[lo]
		samples[runIdx] = sa[hi-1]
	}

	marksByPos := append([]int{}, marks...)
	sort.Ints(marksByPos)

	markToSampleFull := make([]int, numRuns)
	for i, m := range marksByPos {
		pred := (m - 1 + n) % n
		markToSampleFull[i] = findSampleRun(samples, pred)
	}

	return &Built{
		Text:             t,
		Alpha:            alpha,
		RL:               rl,
		SA:               sa,
		NumRuns:          numRuns,
		Samples:          samples,
		Marks:            marks,
		MarkToSampleFull: markToSampleFull,
		MarksByPos:       marksByPos,
	}, nil
}

func findSampleRun(samples []int, pos int) int {
	for idx, s := range samples {
		if s == pos {
			return idx
		}
	}
	return -1
}

// lessRotation compares the suffix-with-wraparound starting at i against
// the one starting at j, up to n comparisons (the sentinel guarantees a
// strict total order without needing to compare past it twice, since it
// occurs exactly once and sorts smallest).
func lessRotation(t []byte, i, j int) bool {
	n := len(t)
	if i == j {
		return false
	}
	for k := 0; k < n; k++ {
		a := t[(i+k)%n]
		b := t[(j+k)%n]
		if a != b {
			return a < b
		}
	}
	return false
}

// Subsampled holds the subsampling-derived arrays for one subsample rate.
type Subsampled struct {
	RunIndices   []int // kept global run indices, ascending, size r'
	SubmarkPos   []int // submark text positions, aligned with the following slices
	MarkToSample []int // global run index of each submark's sample
	ValidMark    []bool
	ValidArea    []int
}

// Subsample selects every rate-th run index (by global run index,
// always keeping the first and last), then derives submarks, the
// valid-mark flag, and the valid-area length for each, per spec.md §3's
// definitions: a submark is any mark whose preceding sample is
// subsampled; it is "tight" (valid-mark=1) when the very next original
// mark (by text-position rank) is also kept; its valid area is the
// circular text distance to that next original mark regardless of
// whether it too is kept.
func (b *Built) Subsample(rate int) Subsampled {
	if rate < 1 {
		rate = 1
	}

	kept := make(map[int]bool, (b.NumRuns+rate-1)/rate)
	var runIndices []int
	for i := 0; i < b.NumRuns; i += rate {
		kept[i] = true
		runIndices = append(runIndices, i)
	}
	if last := b.NumRuns - 1; !kept[last] {
		kept[last] = true
		runIndices = append(runIndices, last)
	}
	sort.Ints(runIndices)

	keepMarkAtRank := make([]bool, b.NumRuns)
	for i, runIdx := range b.MarkToSampleFull {
		keepMarkAtRank[i] = kept[runIdx]
	}

	n := len(b.Text)
	var sub Subsampled
	for i := 0; i < b.NumRuns; i++ {
		if !keepMarkAtRank[i] {
			continue
		}
		next := (i + 1) % b.NumRuns
		sub.SubmarkPos = append(sub.SubmarkPos, b.MarksByPos[i])
		sub.MarkToSample = append(sub.MarkToSample, b.MarkToSampleFull[i])
		sub.ValidMark = append(sub.ValidMark, keepMarkAtRank[next])
		sub.ValidArea = append(sub.ValidArea, circularDistance(b.MarksByPos[i], b.MarksByPos[next], n))
	}
	sub.RunIndices = runIndices
	return sub
}

func circularDistance(from, to, n int) int {
	if to >= from {
		return to - from
	}
	return to + n - from
}

// SampleMap is a plain slice-backed toehold.SampleSource / phi
// sample source, restricted to the given set of global run indices
// (nil means "all runs", i.e. the plain/unsampled case).
type SampleMap struct {
	samples []int
	keep    map[int]bool // nil means unrestricted
}

// NewSampleMap builds a SampleSource over every run's sample (the plain
// variant: every run end is sampled).
func NewSampleMap(samples []int) *SampleMap {
	return &SampleMap{samples: samples}
}

// NewRestrictedSampleMap builds a SampleSource that only answers for
// the given subsampled run indices, mimicking a subsampled index's
// persisted Samples array (which physically stores only r' values, here
// represented densely for test simplicity and gated by keep).
func NewRestrictedSampleMap(samples []int, runIndices []int) *SampleMap {
	keep := make(map[int]bool, len(runIndices))
	for _, idx := range runIndices {
		keep[idx] = true
	}
	return &SampleMap{samples: samples, keep: keep}
}

// GetSample implements toehold.SampleSource and phi's sample source.
func (s *SampleMap) GetSample(runIdx int) (int, bool) {
	if runIdx < 0 || runIdx >= len(s.samples) {
		return 0, false
	}
	if s.keep != nil && !s.keep[runIdx] {
		return 0, false
	}
	return s.samples[runIdx], true
}
