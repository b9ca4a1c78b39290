package coalesce

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestVectorNegCopyEq(t *testing.T) {
	v := VectorFromInts(3, -1, 2)
	neg := v.Neg()
	assert.True(t, neg.Eq(VectorFromInts(-3, 1, -2)))
	assert.True(t, v.IsNeg(neg))

	cp := v.Copy()
	assert.True(t, cp.Eq(v))
	cp[0].SetInt64(99)
	assert.False(t, cp.Eq(v), "Copy must be independent of the original")
}

func TestVectorIsZero(t *testing.T) {
	testdata := []struct {
		name string
		v    Vector
		want bool
	}{
		{"all zero", VectorFromInts(0, 0, 0), true},
		{"one nonzero", VectorFromInts(0, 1, 0), false},
		{"empty", VectorFromInts(), true},
	}
	for _, td := range testdata {
		t.Run(td.name, func(t *testing.T) {
			assert.Equal(t, td.want, td.v.IsZero())
		})
	}
}

func TestVectorAbsMax(t *testing.T) {
	v := VectorFromInts(100, -2, 7, -9)
	assert.Equal(t, big.NewInt(9), v.AbsMax(1))
	assert.Equal(t, big.NewInt(100), v.AbsMax(0))
}

func TestVectorDot(t *testing.T) {
	v := VectorFromInts(0, 1, 2, 3)
	w := VectorFromInts(0, 4, 5, 6)
	assert.Equal(t, big.NewInt(0*0+1*4+2*5+3*6), v.Dot(w))
}

func TestCombine(t *testing.T) {
	v := VectorFromInts(1, 2, 3)
	w := VectorFromInts(4, 5, 6)
	got := Combine(big.NewInt(2), v, big.NewInt(-1), w)
	assert.True(t, got.Eq(VectorFromInts(2*1-4, 2*2-5, 2*3-6)))
}

func TestVectorGCDReduce(t *testing.T) {
	testdata := []struct {
		name string
		v    Vector
		from int
		want Vector
	}{
		{"common factor", VectorFromInts(6, 4, 2), 0, VectorFromInts(3, 2, 1)},
		{"coprime", VectorFromInts(1, 2, 3), 0, VectorFromInts(1, 2, 3)},
		{"all zero", VectorFromInts(0, 0, 0), 0, VectorFromInts(0, 0, 0)},
		{
			"skip constant slot",
			VectorFromInts(7, 4, 2),
			1,
			VectorFromInts(7, 2, 1),
		},
	}
	for _, td := range testdata {
		t.Run(td.name, func(t *testing.T) {
			got := td.v.Copy().GCDReduce(td.from)
			assert.True(t, got.Eq(td.want), "got %v want %v", got, td.want)
		})
	}
}
