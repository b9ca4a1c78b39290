package coalesce

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func unitSquare() *BasicMap {
	b := NewBasicMap(Space{NOut: 2}, 0, 0, 4)
	b.Ineq = append(b.Ineq, VectorFromInts(0, 1, 0))  // x >= 0
	b.Ineq = append(b.Ineq, VectorFromInts(1, -1, 0)) // x <= 1
	b.Ineq = append(b.Ineq, VectorFromInts(0, 0, 1))  // y >= 0
	b.Ineq = append(b.Ineq, VectorFromInts(1, 0, -1)) // y <= 1
	return b
}

// Wrapping a constraint that is already valid throughout the bound region
// needs no rotation at all: WrapFacet should hand the row back unchanged.
func TestWrapFacetNoRotationNeeded(t *testing.T) {
	square := unitSquare()
	tab := NewTableau(square)
	ridge := VectorFromInts(0, 0, 1) // y
	cand := VectorFromInts(0, 1, 0)  // x >= 0, already valid throughout the square

	out, ok := WrapFacet(ridge, cand, tab)
	assert.True(t, ok)
	assert.True(t, out.Eq(cand), "no rotation needed, so the wrapped row should equal the original")
}

func TestAddWrapsAndCheckWrapsOnAlreadyValidConstraints(t *testing.T) {
	square := unitSquare()
	w := newWraps(true)
	ridge := VectorFromInts(0, 0, 1)
	ok := w.addWraps(ridge, square)
	assert.True(t, ok)
	assert.Len(t, w.rows, len(square.Ineq))
	assert.True(t, w.checkWraps(square), "every square constraint is already valid over itself, so all wraps should check out")
}

func TestAllowWrapRespectsTrackedMax(t *testing.T) {
	w := newWraps(true)
	assert.True(t, w.allowWrap(VectorFromInts(0, 1000)), "no bound tracked yet, anything is allowed")

	w.updateMax([]Vector{VectorFromInts(0, 5)})
	assert.True(t, w.allowWrap(VectorFromInts(0, 5)))
	assert.False(t, w.allowWrap(VectorFromInts(0, 6)), "a row growing past the dropped constraints' coefficients is rejected")
}

func TestAllowWrapUnboundedIgnoresTrackedMax(t *testing.T) {
	w := newWraps(false)
	w.updateMax([]Vector{VectorFromInts(0, 5)})
	assert.True(t, w.allowWrap(VectorFromInts(0, 1000)), "bounded=false must accept growth the bounded mode would reject")
}
