// Package rlbwt implements the run-length-encoded BWT: access, rank
// (plain and with run-boundary telemetry), select, select-on-runs, and
// split-in-runs, as specified in spec.md §4.1.
//
// It is grounded on the teacher's bwt.BWT (specifically the run-length
// variant in search/bwt/bwt.go): runBWTCompression (a wavelet tree over
// run-head symbols) and runStartPositions (the start offset of each run)
// reappear here as heads and runStart, generalized to the closed-form
// rank/select contract spec.md §4.1 requires instead of the teacher's
// bespoke getNextLfSearchOffset.
package rlbwt

import (
	"sort"

	"github.com/bebop/rindex/alphabet"
	"github.com/bebop/rindex/wavelet"
	"github.com/pkg/errors"
)

// Run describes one maximal equal-symbol run of the BWT.
type Run struct {
	Idx  int  // global run index
	Char byte // compact-alphabet symbol
	Lo   int  // BWT position of the run's first character (inclusive)
	Hi   int  // BWT position one past the run's last character (exclusive)
}

// RLBWT is the run-length-encoded BWT over a compact alphabet.
type RLBWT struct {
	heads    *wavelet.Tree // run-head symbols, length r
	runStart []int         // length r+1; runStart[r] == n
	cumLen   [][]int       // cumLen[c][j] = total length of the first j c-runs
}

// Build constructs an RLBWT directly from a full (uncompressed) BWT byte
// string over the given alphabet's compact symbols. This is a test/fixture
// path, not a production construction algorithm — spec.md's Non-goals
// explicitly exclude index construction from this module's scope; see
// internal/fixture for the naive suffix-sort builder that produces the
// `bwtComp` this function consumes.
func Build(bwtComp []byte, alpha alphabet.Alphabet) (*RLBWT, error) {
	if len(bwtComp) == 0 {
		return nil, errors.New("rlbwt: bwt must not be empty")
	}

	var heads []byte
	var runLens []int

	prev := bwtComp[0]
	runLen := 0
	for _, c := range bwtComp {
		if c != prev {
			heads = append(heads, prev)
			runLens = append(runLens, runLen)
			prev = c
			runLen = 0
		}
		runLen++
	}
	heads = append(heads, prev)
	runLens = append(runLens, runLen)

	return BuildFromRuns(alpha, heads, runLens)
}

// BuildFromRuns constructs an RLBWT directly from its O(r)-sized run
// structure: heads[i] is the i-th run's compact-alphabet symbol, runLens[i]
// its length. This is the reconstruction path the persisted artifact
// format uses — the format stores exactly (heads, runLens), never the
// O(n) expanded BWT string Build consumes.
func BuildFromRuns(alpha alphabet.Alphabet, heads []byte, runLens []int) (*RLBWT, error) {
	if len(heads) != len(runLens) {
		return nil, errors.New("rlbwt: heads and runLens must have equal length")
	}
	if len(heads) == 0 {
		return nil, errors.New("rlbwt: bwt must not be empty")
	}

	cumLen := make([][]int, alpha.Sigma())
	runStart := make([]int, 0, len(heads)+1)
	pos := 0
	for i, c := range heads {
		runStart = append(runStart, pos)
		cumLen[c] = appendCum(cumLen[c], runLens[i])
		pos += runLens[i]
	}
	runStart = append(runStart, pos)

	tree, err := wavelet.Build(heads)
	if err != nil {
		return nil, errors.Wrap(err, "rlbwt: building run-head sequence")
	}

	return &RLBWT{heads: tree, runStart: runStart, cumLen: cumLen}, nil
}

func appendCum(cum []int, runLen int) []int {
	if cum == nil {
		return []int{0, runLen}
	}
	return append(cum, cum[len(cum)-1]+runLen)
}

// Len is n, the length of the (uncompressed) BWT.
func (r *RLBWT) Len() int { return r.runStart[len(r.runStart)-1] }

// NumRuns is r, the number of equal-symbol runs.
func (r *RLBWT) NumRuns() int { return r.heads.Len() }

// FindRun returns the global index of the run containing BWT position pos.
func (r *RLBWT) FindRun(pos int) int {
	// largest i such that runStart[i] <= pos
	i := sort.Search(len(r.runStart), func(i int) bool { return r.runStart[i] > pos }) - 1
	if i < 0 {
		i = 0
	}
	return i
}

// RunBounds returns the [lo, hi) BWT-position bounds of the given run.
func (r *RLBWT) RunBounds(runIdx int) (lo, hi int) {
	return r.runStart[runIdx], r.runStart[runIdx+1]
}

// Access returns the compact-alphabet symbol at BWT position pos.
func (r *RLBWT) Access(pos int) byte {
	return r.heads.Access(r.FindRun(pos))
}

// Rank returns the number of occurrences of c in BWT[0,pos).
func (r *RLBWT) Rank(pos int, c byte) int {
	rank, _, _ := r.RankReport(pos, c)
	return rank
}

// RankReport returns rank(pos,c) along with the per-symbol run-rank
// telemetry spec.md §4.1 requires: runRank is, when isCover is true, the
// 1-indexed rank (among c-runs) of the run containing pos (the run itself
// being a c-run); when isCover is false, it is the count of c-runs
// strictly before that run — which doubles as the 1-indexed rank of the
// closest preceding c-run, consumed directly by toehold resolution via
// SelectOnRuns.
func (r *RLBWT) RankReport(pos int, c byte) (rank int, runRank int, isCover bool) {
	if pos >= r.Len() {
		total := len(r.cumLen[c]) - 1
		if total < 0 {
			total = 0
		}
		return r.totalCount(c), total, false
	}
	if pos <= 0 {
		return 0, 0, false
	}

	runIdx := r.FindRun(pos)
	head := r.heads.Access(runIdx)
	isCover = head == c

	before := r.heads.Rank(c, runIdx) // c-runs strictly before runIdx
	if isCover {
		runRank = before + 1
	} else {
		runRank = before
	}

	rank = r.cumLenAt(c, before)
	if isCover {
		lo, _ := r.RunBounds(runIdx)
		rank += pos - lo
	}
	return rank, runRank, isCover
}

func (r *RLBWT) cumLenAt(c byte, j int) int {
	if int(c) >= len(r.cumLen) || r.cumLen[c] == nil {
		return 0
	}
	if j >= len(r.cumLen[c]) {
		j = len(r.cumLen[c]) - 1
	}
	return r.cumLen[c][j]
}

func (r *RLBWT) totalCount(c byte) int {
	if int(c) >= len(r.cumLen) || r.cumLen[c] == nil {
		return 0
	}
	return r.cumLen[c][len(r.cumLen[c])-1]
}

// Select returns the BWT position of the 1-indexed k-th occurrence of c.
func (r *RLBWT) Select(k int, c byte) (int, bool) {
	runRank1, _, ok := r.RunContainingRank(k, c)
	if !ok {
		return 0, false
	}
	runIdx, ok := r.SelectOnRuns(runRank1, c)
	if !ok {
		return 0, false
	}
	cum := r.cumLen[c]
	lo, _ := r.RunBounds(runIdx)
	offset := k - cum[runRank1-1] - 1
	return lo + offset, true
}

// RunContainingRank finds which c-run the k-th (1-indexed) occurrence of
// c falls in: runRank1 is that run's 1-indexed rank among c-runs, and
// isRunEnd reports whether the k-th occurrence is the last c in its run.
// This is the same search Select performs, exposed separately because
// backward-search telemetry needs the run/boundary answer without a BWT
// position — the k it asks about (rank(hi+1,c) for a match's high
// endpoint) is a count, not a position to look up via FindRun.
func (r *RLBWT) RunContainingRank(k int, c byte) (runRank1 int, isRunEnd bool, ok bool) {
	if int(c) >= len(r.cumLen) || r.cumLen[c] == nil || k < 1 {
		return 0, false, false
	}
	cum := r.cumLen[c]
	j := sort.Search(len(cum), func(j int) bool { return cum[j] >= k })
	if j == 0 || j >= len(cum) {
		return 0, false, false
	}
	return j, cum[j] == k, true
}

// SelectOnRuns returns the global run index of the 1-indexed k-th run
// whose head symbol is c.
func (r *RLBWT) SelectOnRuns(k int, c byte) (int, bool) {
	if k < 1 {
		return 0, false
	}
	return r.heads.Select(c, k-1)
}

// HeadsAndLens returns the O(r) run structure BuildFromRuns needs to
// reconstruct this RLBWT — the inverse of BuildFromRuns, used by the
// persisted artifact format to serialize the RLBWT without expanding it
// back to an O(n) byte string.
func (r *RLBWT) HeadsAndLens() (heads []byte, lens []int) {
	n := r.NumRuns()
	heads = make([]byte, n)
	lens = make([]int, n)
	for i := 0; i < n; i++ {
		lo, hi := r.RunBounds(i)
		heads[i] = r.heads.Access(i)
		lens[i] = hi - lo
	}
	return heads, lens
}

// RunEnd returns the last BWT position (inclusive) of the given run.
func (r *RLBWT) RunEnd(runIdx int) int {
	_, hi := r.RunBounds(runIdx)
	return hi - 1
}

// SplitInRuns enumerates the runs touching [lo,hi) (half-open), minimal
// covering: the first and last reported runs may extend beyond the range.
func (r *RLBWT) SplitInRuns(lo, hi int) []Run {
	if lo >= hi {
		return nil
	}
	first := r.FindRun(lo)
	last := r.FindRun(hi - 1)

	runs := make([]Run, 0, last-first+1)
	for idx := first; idx <= last; idx++ {
		runLo, runHi := r.RunBounds(idx)
		runs = append(runs, Run{
			Idx:  idx,
			Char: r.heads.Access(idx),
			Lo:   runLo,
			Hi:   runHi,
		})
	}
	return runs
}
