package phi_test

import (
	"testing"

	"github.com/bebop/rindex/bitvector"
	"github.com/bebop/rindex/phi"
)

// Tiny fixture: text length n=8, marks at text positions {1,4,6},
// mark→sample links into a 3-entry sample table indexed the same way.
type fakeSamples map[int]int

func (f fakeSamples) GetSample(idx int) (int, bool) {
	v, ok := f[idx]
	return v, ok
}

func TestPlainApply(t *testing.T) {
	n := 8
	markPositions := []int{1, 4, 6}
	markToSample := []int{0, 1, 2}
	samples := fakeSamples{0: 0, 1: 3, 2: 5}

	p := phi.NewPlain(n, markPositions, markToSample, samples)

	// v=4 -> predecessor mark is 4 itself (idx 1), offset 0, sample=3 -> Φ(4)=3.
	got, ok := p.Apply(4)
	if !ok || got != 3 {
		t.Errorf("Apply(4) = (%d,%v), want (3,true)", got, ok)
	}

	// v=5 -> predecessor mark is 4 (idx 1), offset 1, sample=3 -> Φ(5)=4.
	got, ok = p.Apply(5)
	if !ok || got != 4 {
		t.Errorf("Apply(5) = (%d,%v), want (4,true)", got, ok)
	}

	// v=0 -> precedes every mark, wraps to last mark (idx 2, pos 6),
	// offset = 0 + n - 6 = 2, sample=5 -> Φ(0) = (5+2) mod 8 = 7.
	got, ok = p.Apply(0)
	if !ok || got != 7 {
		t.Errorf("Apply(0) = (%d,%v), want (7,true)", got, ok)
	}
}

func TestValidMarkRejectsInvalidLink(t *testing.T) {
	n := 8
	markPositions := []int{1, 4, 6}
	markToSample := []int{0, 1, 2}
	samples := fakeSamples{0: 0, 1: 3, 2: 5}

	b := bitvector.NewDenseBuilder(3)
	b.Set(0, true)
	b.Set(1, false) // mark idx 1 invalid
	b.Set(2, true)
	validMark := b.Build()

	p := phi.NewValidMark(n, markPositions, markToSample, samples, validMark)

	if _, ok := p.Apply(4); ok {
		t.Errorf("Apply(4) with invalid mark: want ok=false")
	}
	if _, ok := p.Apply(6); !ok {
		t.Errorf("Apply(6) with valid mark: want ok=true")
	}
}

func TestValidAreaRejectsOutOfRangeOffset(t *testing.T) {
	n := 8
	markPositions := []int{1, 4, 6}
	markToSample := []int{0, 1, 2}
	samples := fakeSamples{0: 0, 1: 3, 2: 5}
	validArea := []int{0, 0, 1} // mark idx1 trusts only offset 0

	p := phi.NewValidArea(n, markPositions, markToSample, samples, validArea)

	if _, ok := p.Apply(4); !ok {
		t.Errorf("Apply(4) offset 0 within valid area: want ok=true")
	}
	if _, ok := p.Apply(5); ok {
		t.Errorf("Apply(5) offset 1 exceeds valid area 0: want ok=false")
	}
}
