package rindex

// SampleMap is the production toehold.SampleSource / phi sample source:
// a dense array of per-run text positions, optionally restricted to a
// subset of "kept" run indices for the subsampled variants (where the
// persisted Samples array physically holds only r' values but is
// represented here, post-load, as a dense r-sized array with a parallel
// presence set for simplicity).
type SampleMap struct {
	values []int
	keep   map[int]bool // nil means every index is present (plain variant)
}

// NewSampleMap builds an unrestricted sample source: every run index has
// a sample, as in the plain (unsubsampled) variant.
func NewSampleMap(values []int) *SampleMap {
	return &SampleMap{values: values}
}

// NewRestrictedSampleMap builds a sample source where only the given
// run indices are present, as in a subsampled variant.
func NewRestrictedSampleMap(values []int, keepRunIndices []int) *SampleMap {
	keep := make(map[int]bool, len(keepRunIndices))
	for _, idx := range keepRunIndices {
		keep[idx] = true
	}
	return &SampleMap{values: values, keep: keep}
}

// GetSample implements toehold.SampleSource.
func (s *SampleMap) GetSample(runIdx int) (int, bool) {
	if runIdx < 0 || runIdx >= len(s.values) {
		return 0, false
	}
	if s.keep != nil && !s.keep[runIdx] {
		return 0, false
	}
	return s.values[runIdx], true
}
