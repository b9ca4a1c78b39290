package parse

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"coalesce"
)

func hasRow(rows []coalesce.Vector, want coalesce.Vector) bool {
	for _, r := range rows {
		if r.Eq(want) {
			return true
		}
	}
	return false
}

func TestParseBasicSetBox(t *testing.T) {
	b, err := Parse("{ [i0] : i0 >= 0 and i0 <= 5 }")
	assert.NoError(t, err)
	assert.Equal(t, 1, b.Space.NOut)
	assert.Equal(t, 0, b.Space.NIn)
	assert.Len(t, b.Ineq, 2)
	assert.True(t, hasRow(b.Ineq, coalesce.VectorFromInts(0, 1)), "i0 >= 0")
	assert.True(t, hasRow(b.Ineq, coalesce.VectorFromInts(5, -1)), "i0 <= 5")
}

func TestParseBasicMapWithEquality(t *testing.T) {
	b, err := Parse("{ [i0] -> [o0] : o0 = i0 + 1 }")
	assert.NoError(t, err)
	assert.Equal(t, 1, b.Space.NOut)
	assert.Equal(t, 1, b.Space.NIn)
	assert.Len(t, b.Eq, 1)
	// column 1 holds the tuple before "->", column 2 the tuple after it:
	// o0 - i0 - 1 = 0 becomes [-1, -1, 1].
	assert.True(t, hasRow(b.Eq, coalesce.VectorFromInts(-1, -1, 1)))
}

func TestParseStrictInequality(t *testing.T) {
	// i0 > 0 tightens to i0 - 1 >= 0, i.e. i0 >= 1.
	b, err := Parse("{ [i0] : i0 > 0 }")
	assert.NoError(t, err)
	assert.True(t, hasRow(b.Ineq, coalesce.VectorFromInts(-1, 1)))
}

func TestParseUndeclaredDimensionIsError(t *testing.T) {
	_, err := Parse("{ [i0] : j0 >= 0 }")
	assert.Error(t, err)
}

func TestParseSyntaxErrorIsError(t *testing.T) {
	_, err := Parse("{ [i0] : i0 >= }")
	assert.Error(t, err)
}
