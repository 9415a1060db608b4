// Package wavelet provides a wavelet-tree Sequence: rank/select/access
// over a byte-alphabet sequence, generalized from the teacher's
// bwt.waveletTree so that each node holds a bitvector.Bitvector interface
// value instead of a single concrete type. Build always fills the nodes
// with bitvector.Dense; it takes no option to supply another Bitvector
// implementation.
package wavelet

import (
	"fmt"
	"math"

	"github.com/bebop/rindex/bitvector"
	"golang.org/x/exp/slices"
)

// Sequence is the rank/select/access capability set over a fixed
// byte-alphabet sequence that RLBWT's run-head sequence is built on.
//
// Rank(c, i) counts occurrences of c in seq[0:i); Select(c, rank) returns
// the position of the (rank+1)-th occurrence of c (0-indexed rank),
// mirroring the bitvector package's own Rank1/Select1 split between
// exclusive-count and 1-past-count conventions one level up.
type Sequence interface {
	Len() int
	Access(i int) byte
	Rank(c byte, i int) int
	Select(c byte, rank int) (int, bool)
}

// Tree is a wavelet tree: an RSA sequence built by recursively
// partitioning the alphabet on the bits of each symbol's code, same as the
// teacher's buildWaveletTree/partitionAlpha/getCharInfoDescByRank. Every
// code has the same width, so the tree is not frequency-shaped: a symbol's
// depth does not depend on how often it occurs.
type Tree struct {
	root   *node
	alpha  []charInfo
	length int
}

type node struct {
	data   bitvector.Bitvector
	char   *byte
	parent *node
	left   *node
	right  *node
}

func (n *node) isLeaf() bool { return n.char != nil }

type charInfo struct {
	char    byte
	count   int
	pathLen int
	path    uint64 // path bits, left-justified is not needed: read MSB-first over pathLen bits
}

func (ci charInfo) bit(level int) bool {
	// path bit at `level` (0 = bit nearest the root), MSB-first over pathLen bits.
	shift := ci.pathLen - 1 - level
	return (ci.path>>uint(shift))&1 == 1
}

// Build constructs a Tree over the given bytes.
func Build(data []byte) (*Tree, error) {
	if len(data) == 0 {
		return nil, fmt.Errorf("wavelet: sequence must not be empty")
	}

	alpha := charInfoDescByCount(data)
	root := build(0, alpha, data)

	if root.isLeaf() {
		b := bitvector.NewDenseBuilder(len(data))
		for i := range data {
			b.Set(i, true)
		}
		root.data = b.Build()
	}

	return &Tree{root: root, alpha: alpha, length: len(data)}, nil
}

func build(level int, alpha []charInfo, data []byte) *node {
	if len(alpha) == 0 {
		return nil
	}
	if len(alpha) == 1 {
		return &node{char: &alpha[0].char}
	}

	left, right := partition(level, alpha)

	var leftData, rightData []byte
	b := bitvector.NewDenseBuilder(len(data))
	for i, c := range data {
		if inAlpha(right, c) {
			b.Set(i, true)
			rightData = append(rightData, c)
		} else {
			leftData = append(leftData, c)
		}
	}

	n := &node{data: b.Build()}
	n.left = build(level+1, left, leftData)
	n.right = build(level+1, right, rightData)
	if n.left != nil {
		n.left.parent = n
	}
	if n.right != nil {
		n.right.parent = n
	}
	return n
}

func partition(level int, alpha []charInfo) (left, right []charInfo) {
	for _, a := range alpha {
		if a.bit(level) {
			right = append(right, a)
		} else {
			left = append(left, a)
		}
	}
	return left, right
}

func inAlpha(alpha []charInfo, c byte) bool {
	for _, a := range alpha {
		if a.char == c {
			return true
		}
	}
	return false
}

// charInfoDescByCount ranks the alphabet by descending frequency (ties by
// byte value) and gives each symbol its rank as a fixed-width code of
// treeHeight(sigma) bits. Frequency decides only the order of the codes,
// not their length, so frequent symbols sit no nearer the root than rare
// ones.
func charInfoDescByCount(data []byte) []charInfo {
	counts := make(map[byte]int)
	for _, b := range data {
		counts[b]++
	}

	var info []charInfo
	for c, n := range counts {
		info = append(info, charInfo{char: c, count: n})
	}
	slices.SortFunc(info, func(a, b charInfo) bool {
		if a.count == b.count {
			return a.char < b.char
		}
		return a.count > b.count
	})

	pathLen := treeHeight(len(info))
	for i := range info {
		info[i].pathLen = pathLen
		info[i].path = uint64(i)
	}
	return info
}

func treeHeight(sigma int) int {
	if sigma <= 1 {
		return 1
	}
	return int(math.Log2(float64(sigma))) + 1
}

func (t *Tree) lookup(c byte) (charInfo, bool) {
	for _, a := range t.alpha {
		if a.char == c {
			return a, true
		}
	}
	return charInfo{}, false
}

// Len returns the length of the indexed sequence.
func (t *Tree) Len() int { return t.length }

// Access returns the i-th byte of the indexed sequence.
func (t *Tree) Access(i int) byte {
	if t.root.isLeaf() {
		return *t.root.char
	}
	cur := t.root
	for !cur.isLeaf() {
		bit := cur.data.Access(i)
		if bit {
			i = cur.data.Rank1(i)
			cur = cur.right
		} else {
			i = cur.data.Rank0(i)
			cur = cur.left
		}
	}
	return *cur.char
}

// Rank counts occurrences of c in seq[0:i).
func (t *Tree) Rank(c byte, i int) int {
	if t.root.isLeaf() {
		if *t.root.char != c {
			return 0
		}
		return t.root.data.Rank1(i)
	}

	ci, ok := t.lookup(c)
	if !ok {
		return 0
	}

	cur := t.root
	level := 0
	rank := i
	for !cur.isLeaf() {
		bit := ci.bit(level)
		if bit {
			rank = cur.data.Rank1(rank)
			cur = cur.right
		} else {
			rank = cur.data.Rank0(rank)
			cur = cur.left
		}
		level++
	}
	return rank
}

// Select returns the position of the (rank+1)-th occurrence of c
// (rank is 0-indexed), ok is false if c occurs at most rank times.
func (t *Tree) Select(c byte, rank int) (int, bool) {
	if t.root.isLeaf() {
		if *t.root.char != c {
			return 0, false
		}
		return t.root.data.Select1(rank + 1)
	}

	ci, ok := t.lookup(c)
	if !ok {
		return 0, false
	}

	cur := t.root
	level := 0
	for !cur.isLeaf() {
		if ci.bit(level) {
			cur = cur.right
		} else {
			cur = cur.left
		}
		level++
	}

	pos := rank
	for cur.parent != nil {
		parent := cur.parent
		level--
		var ok bool
		if ci.bit(level) {
			pos, ok = parent.data.Select1(pos + 1)
		} else {
			pos, ok = parent.data.Select0(pos + 1)
		}
		if !ok {
			return 0, false
		}
		cur = parent
	}
	return pos, true
}
