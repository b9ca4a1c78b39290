package coalesce

import "math/big"

// Vector is a row of arbitrary-precision integer coefficients, always of
// the form [constant, coefficient...]. It carries the row-level operations
// (copy, negation, comparison, linear combination, gcd reduction) the
// coalescing core uses; other files still work on single entries with
// math/big directly (constant-term shifts in rules.go and tableau.go,
// big.Rat in simplex.go, tableau.go and wraps.go).
type Vector []*big.Int

// NewVector allocates a zero vector of the given length.
func NewVector(n int) Vector {
	v := make(Vector, n)
	for i := range v {
		v[i] = new(big.Int)
	}
	return v
}

// VectorFromInts is a convenience constructor for literals and tests.
func VectorFromInts(xs ...int64) Vector {
	v := make(Vector, len(xs))
	for i, x := range xs {
		v[i] = big.NewInt(x)
	}
	return v
}

// Copy returns an independent deep copy.
func (v Vector) Copy() Vector {
	out := make(Vector, len(v))
	for i, x := range v {
		out[i] = new(big.Int).Set(x)
	}
	return out
}

// Neg returns -v.
func (v Vector) Neg() Vector {
	out := make(Vector, len(v))
	for i, x := range v {
		out[i] = new(big.Int).Neg(x)
	}
	return out
}

// Eq reports whether v and w are coefficient-wise equal.
func (v Vector) Eq(w Vector) bool {
	if len(v) != len(w) {
		return false
	}
	for i := range v {
		if v[i].Cmp(w[i]) != 0 {
			return false
		}
	}
	return true
}

// IsNeg reports whether v == -w.
func (v Vector) IsNeg(w Vector) bool {
	return v.Eq(w.Neg())
}

// IsZero reports whether every entry is zero.
func (v Vector) IsZero() bool {
	for _, x := range v {
		if x.Sign() != 0 {
			return false
		}
	}
	return true
}

// AbsMax returns the largest absolute value among entries [from:], mirroring
// isl_seq_abs_max's exclusion of the constant term when called on a
// constraint row with from=1.
func (v Vector) AbsMax(from int) *big.Int {
	max := big.NewInt(0)
	for _, x := range v[from:] {
		a := new(big.Int).Abs(x)
		if a.Cmp(max) > 0 {
			max = a
		}
	}
	return max
}

// Dot computes the inner product of v and w over every index they share,
// including index 0 (the constant slot).
func (v Vector) Dot(w Vector) *big.Int {
	sum := new(big.Int)
	n := len(v)
	if len(w) < n {
		n = len(w)
	}
	for i := 0; i < n; i++ {
		sum.Add(sum, new(big.Int).Mul(v[i], w[i]))
	}
	return sum
}

// Combine returns a*v + b*w (a linear combination), used by Gaussian
// elimination and by the facet-wrapping rotation.
func Combine(a *big.Int, v Vector, b *big.Int, w Vector) Vector {
	n := len(v)
	out := make(Vector, n)
	for i := 0; i < n; i++ {
		t1 := new(big.Int).Mul(a, v[i])
		t2 := new(big.Int).Mul(b, w[i])
		out[i] = t1.Add(t1, t2)
	}
	return out
}

// GCDReduce computes the gcd of v's entries from index `from` on and
// divides every entry of v by it, including any entries before `from`,
// which are rounded down (so a constraint's constant is floored, the
// integer tightening of the inequality). v is left unchanged if that gcd
// is 0 or 1. It returns the (possibly mutated) vector for chaining.
func (v Vector) GCDReduce(from int) Vector {
	g := new(big.Int)
	for _, x := range v[from:] {
		if x.Sign() == 0 {
			continue
		}
		if g.Sign() == 0 {
			g.Abs(x)
			continue
		}
		g.GCD(nil, nil, g, new(big.Int).Abs(x))
	}
	if g.Sign() == 0 || g.Cmp(big.NewInt(1)) == 0 {
		return v
	}
	for i, x := range v {
		q := new(big.Int)
		q.Div(x, g)
		v[i] = q
	}
	return v
}
