package coalesce

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func boxBasicMap(lo, hi int64) *BasicMap {
	b := NewBasicMap(Space{NOut: 1}, 0, 0, 2)
	b.Ineq = append(b.Ineq, VectorFromInts(-lo, 1))  // x - lo >= 0
	b.Ineq = append(b.Ineq, VectorFromInts(hi, -1))  // -x + hi >= 0
	return b
}

func TestTableauEmpty(t *testing.T) {
	feasible := boxBasicMap(0, 5)
	assert.False(t, NewTableau(feasible).Empty())

	infeasible := NewBasicMap(Space{NOut: 1}, 0, 0, 2)
	infeasible.Ineq = append(infeasible.Ineq, VectorFromInts(0, 1))   // x >= 0
	infeasible.Ineq = append(infeasible.Ineq, VectorFromInts(-1, -1)) // x <= -1
	assert.True(t, NewTableau(infeasible).Empty())
}

func TestTableauSnapRollback(t *testing.T) {
	b := boxBasicMap(0, 5)
	tab := NewTableau(b)
	mark := tab.Snap()
	tab.AddIneq(VectorFromInts(-3, 1))
	assert.Len(t, b.Ineq, 3)
	tab.Rollback(mark)
	assert.Len(t, b.Ineq, 2, "Rollback must restore the row count observed at Snap")
}

func TestTableauSelectFacetAddsEquality(t *testing.T) {
	b := boxBasicMap(0, 5)
	tab := NewTableau(b)
	tab.SelectFacet(0)
	assert.Len(t, b.Eq, 1)
	assert.True(t, b.Eq[0].Eq(b.Ineq[0]))
}

func TestIneqTypeRedundantAndSeparateAndCut(t *testing.T) {
	b := boxBasicMap(0, 5)
	tab := NewTableau(b)

	assert.Equal(t, ClassRedundant, tab.IneqType(VectorFromInts(0, 1)), "x >= 0 already holds everywhere in [0,5]")
	assert.Equal(t, ClassSeparate, tab.IneqType(VectorFromInts(-10, 1)), "x >= 10 never holds in [0,5]")
	assert.Equal(t, ClassCut, tab.IneqType(VectorFromInts(-5, 1)), "x >= 5 holds only at the box's upper edge")
}

func TestIneqTypeAdjacency(t *testing.T) {
	box := boxBasicMap(0, 5)
	tabBox := NewTableau(box)
	assert.Equal(t, ClassAdjIneq, tabBox.IneqType(VectorFromInts(-6, 1)), "x >= 6 touches the box only one integer layer out, and varies along the facet")

	pinned := NewBasicMap(Space{NOut: 1}, 0, 1, 0)
	pinned.Eq = append(pinned.Eq, VectorFromInts(0, 1)) // x = 0
	tabPinned := NewTableau(pinned)
	assert.Equal(t, ClassAdjEq, tabPinned.IneqType(VectorFromInts(-1, 1)), "x >= 1 is one layer outside a region pinned to x = 0")
}

func TestDetectRedundant(t *testing.T) {
	b := NewBasicMap(Space{NOut: 1}, 0, 0, 3)
	b.Ineq = append(b.Ineq, VectorFromInts(0, 1))   // x >= 0
	b.Ineq = append(b.Ineq, VectorFromInts(5, -1))  // x <= 5
	b.Ineq = append(b.Ineq, VectorFromInts(10, -1)) // x <= 10, implied by x <= 5

	redundant := NewTableau(b).DetectRedundant()
	assert.Equal(t, []int{2}, redundant)
}

func TestDetectImplicitEqualities(t *testing.T) {
	b := NewBasicMap(Space{NOut: 1}, 0, 0, 2)
	b.Ineq = append(b.Ineq, VectorFromInts(-3, 1)) // x >= 3
	b.Ineq = append(b.Ineq, VectorFromInts(3, -1))  // x <= 3

	promoted := NewTableau(b).DetectImplicitEqualities()
	assert.ElementsMatch(t, []int{0, 1}, promoted)
	assert.Len(t, b.Eq, 2)
	assert.Len(t, b.Ineq, 0)
}
