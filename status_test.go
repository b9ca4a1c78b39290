package coalesce

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStatusString(t *testing.T) {
	testdata := []struct {
		s    Status
		want string
	}{
		{StatusValid, "valid"},
		{StatusSeparate, "separate"},
		{StatusCut, "cut"},
		{StatusAdjEq, "adj_eq"},
		{StatusAdjIneq, "adj_ineq"},
		{StatusError, "error"},
	}
	for _, td := range testdata {
		assert.Equal(t, td.want, td.s.String())
	}
}

func TestEqStatusIn(t *testing.T) {
	// tab: box 0 <= x <= 5.
	tab := NewTableau(boxBasicMap(0, 5))

	sep := eqStatusIn(VectorFromInts(-10, 1), tab)
	assert.True(t, sep.isSeparate(), "x = 10 never holds in [0,5]")

	cut := eqStatusIn(VectorFromInts(-3, 1), tab)
	assert.Equal(t, StatusCut, cut.Pos)
	assert.Equal(t, StatusCut, cut.Neg, "x = 3 crosses the box's interior in both directions")
}

func TestEqStatusInKeepsDirectionsSeparate(t *testing.T) {
	// tab: i pinned to y = -1, spanning the same x range as the equality
	// being classified (y = 0). -y >= 0 is valid throughout tab (y == -1
	// satisfies it), but y >= 0 is not: the two directions must be
	// reported independently, not merged into one verdict.
	i := NewBasicMap(Space{NOut: 2}, 0, 1, 2)
	i.Eq = append(i.Eq, VectorFromInts(1, 0, 1))      // y = -1
	i.Ineq = append(i.Ineq, VectorFromInts(0, 1, 0))  // x >= 0
	i.Ineq = append(i.Ineq, VectorFromInts(5, -1, 0)) // x <= 5
	tab := NewTableau(i)

	es := eqStatusIn(VectorFromInts(0, 0, 1), tab) // y = 0
	assert.Equal(t, StatusAdjEq, es.Pos, "y >= 0 is adjacent: tab's max y is -1")
	assert.Equal(t, StatusValid, es.Neg, "-y >= 0 holds throughout tab")
}

func TestCountAnyEqStatus(t *testing.T) {
	ess := []eqStatus{
		{Pos: StatusValid, Neg: StatusValid},
		{Pos: StatusAdjEq, Neg: StatusValid},
		{Pos: StatusCut, Neg: StatusCut},
	}
	assert.True(t, anyEqStatus(ess, StatusAdjEq))
	assert.False(t, anyEqStatus(ess, StatusAdjIneq))
	assert.Equal(t, 1, countEqStatus(ess, StatusAdjEq))
	assert.Equal(t, 2, countEqStatus(ess, StatusCut))
	assert.False(t, allEqValid(ess))
	assert.True(t, allEqValid(ess[:1]))
}

func TestIneqStatusInShortCircuitsOwnRedundant(t *testing.T) {
	tab := NewTableau(boxBasicMap(0, 5))
	got := ineqStatusIn(VectorFromInts(-100, 1), true, tab)
	assert.Equal(t, StatusValid, got, "a row the caller already knows is redundant in its own basic map must report valid without consulting tab")
}

func TestIneqStatusInDelegatesToIneqType(t *testing.T) {
	tab := NewTableau(boxBasicMap(0, 5))
	got := ineqStatusIn(VectorFromInts(0, 1), false, tab)
	assert.Equal(t, StatusValid, got)
}

func TestAnyAllCountStatus(t *testing.T) {
	statuses := []Status{StatusValid, StatusCut, StatusCut}
	assert.True(t, anyStatus(statuses, StatusCut))
	assert.False(t, anyStatus(statuses, StatusSeparate))
	assert.True(t, allStatus(statuses, StatusCut), "StatusValid entries are skipped by allStatus")
	assert.False(t, allStatus([]Status{StatusCut, StatusAdjEq}, StatusCut))
	assert.Equal(t, 2, countStatus(statuses, StatusCut))
}
