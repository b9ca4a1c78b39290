package coalesce

import "math/big"

// wraps accumulates candidate "wrapped" inequalities -- constraints
// rotated around a shared ridge until they become valid over a second
// basic map's region -- while the wrap-in-facet and wrap-in-set rules
// (rules.go) try to cover one basic map entirely using rotations of the
// other's constraints. Mirrors isl_coalesce.c's struct isl_wraps.
type wraps struct {
	rows    []Vector
	max     *big.Int
	bounded bool
}

// newWraps starts an empty wrap accumulation. bounded mirrors isl's
// coalesce_bounded_wrapping option: when true, allowWrap rejects any row
// whose coefficients grow past the tracked max; when false, growth is
// never checked and every rotation is accepted regardless of magnitude.
func newWraps(bounded bool) *wraps {
	return &wraps{bounded: bounded}
}

// updateMax seeds the coefficient-growth bound from the rows that would
// actually be dropped if the fuse under consideration succeeds, not from
// the whole basic map -- a wrap whose coefficients grow past what those
// dropped constraints already exhibited is treated as diverging rather
// than converging on a genuine wrap, and is abandoned.
func (w *wraps) updateMax(dropped []Vector) {
	m := big.NewInt(0)
	for _, row := range dropped {
		a := row.AbsMax(1)
		if a.Cmp(m) > 0 {
			m = a
		}
	}
	w.max = m
}

// allowWrap reports whether row's coefficients still fit within the
// tracked growth bound.
func (w *wraps) allowWrap(row Vector) bool {
	if !w.bounded || w.max == nil {
		return true
	}
	return row.AbsMax(1).Cmp(w.max) <= 0
}

// addWraps rotates every inequality of bound around ridge until it
// becomes valid over bound's own tableau (so the rotated constraint no
// longer excludes any point of bound), appending each one that stays
// within the growth bound. It returns false as soon as a wrap would
// exceed the bound, matching isl_coalesce.c's add_wraps early exit.
func (w *wraps) addWraps(ridge Vector, bound *BasicMap) bool {
	tab := NewTableau(bound)
	for _, c := range bound.Ineq {
		wrapped, ok := WrapFacet(ridge, c, tab)
		if !ok {
			continue
		}
		if !w.allowWrap(wrapped) {
			return false
		}
		w.rows = append(w.rows, wrapped)
	}
	return true
}

// checkWraps reports whether every wrap accumulated so far is valid
// throughout set's region, i.e. whether the wrapping succeeded in
// covering set entirely.
func (w *wraps) checkWraps(set *BasicMap) bool {
	tab := NewTableau(set)
	for _, row := range w.rows {
		if tab.IneqType(row) != ClassRedundant {
			return false
		}
	}
	return true
}

// WrapFacet computes the minimal rotation of cand around ridge (cand +
// lambda*ridge, lambda >= 0 rational) that is valid throughout tab's
// region, returning the resulting integral row and true, or false if no
// such rotation exists (cand is already negative somewhere on the ridge
// itself, so no amount of rotation around it can fix that).
//
// The minimal lambda is found by solving, exactly, the linear-fractional
// program "maximize -cand(x)/ridge(x) over x in tab" via the
// Charnes-Cooper substitution z = 1/ridge(x), y = x*z, which turns the
// fractional objective into a linear one over the cone {(y, z) : y/z in
// tab, z >= 0}, solvable by the same simplex used everywhere else in this
// package.
func WrapFacet(ridge, cand Vector, tab *Tableau) (Vector, bool) {
	total := tab.bmap.TotalDim()
	pIdx := make([]int, total)
	mIdx := make([]int, total)
	for k := 0; k < total; k++ {
		pIdx[k] = 2 * k
		mIdx[k] = 2*k + 1
	}
	zIdx := 2 * total
	nBase := 2*total + 1

	linear := func(v Vector, width int) []*big.Rat {
		c := make([]*big.Rat, width)
		for i := range c {
			c[i] = new(big.Rat)
		}
		for k := 0; k < total; k++ {
			r := new(big.Rat).SetInt(v[1+k])
			c[pIdx[k]].Set(r)
			c[mIdx[k]].Neg(r)
		}
		c[zIdx] = new(big.Rat).SetInt(v[0])
		return c
	}

	// One slack per inequality (tab's own, plus z >= 0), one equality row
	// per tab equality, and one final equality row normalizing ridge(x)
	// to 1 -- the Charnes-Cooper substitution's defining constraint.
	nIneqRows := len(tab.bmap.Ineq) + 1
	nDecVars := nBase + nIneqRows

	var coefRows [][]*big.Rat
	var rhsRows []*big.Rat

	for _, e := range tab.bmap.Eq {
		coefRows = append(coefRows, linear(e, nDecVars))
		rhsRows = append(rhsRows, new(big.Rat))
	}
	for i, c := range tab.bmap.Ineq {
		row := linear(c, nDecVars)
		row[nBase+i] = big.NewRat(-1, 1)
		coefRows = append(coefRows, row)
		rhsRows = append(rhsRows, new(big.Rat))
	}
	zRow := make([]*big.Rat, nDecVars)
	for i := range zRow {
		zRow[i] = new(big.Rat)
	}
	zRow[zIdx] = big.NewRat(1, 1)
	zRow[nBase+len(tab.bmap.Ineq)] = big.NewRat(-1, 1)
	coefRows = append(coefRows, zRow)
	rhsRows = append(rhsRows, new(big.Rat))

	// Ridge normalization: ridge(x) = 1, i.e. ridge0*z + ridge[1:]·y = 1.
	coefRows = append(coefRows, linear(ridge, nDecVars))
	rhsRows = append(rhsRows, big.NewRat(1, 1))

	prog := assembleLP(coefRows, rhsRows, nDecVars)

	cost := make([]*big.Rat, nDecVars)
	for i := range cost {
		cost[i] = new(big.Rat)
	}
	for k := 0; k < total; k++ {
		c := new(big.Rat).SetInt(cand[1+k])
		cost[pIdx[k]] = new(big.Rat).Set(c)
		cost[mIdx[k]] = new(big.Rat).Neg(c)
	}
	cost[zIdx] = new(big.Rat).SetInt(cand[0])

	res := solveLP(prog, cost)
	if res.infeasible || res.unbounded {
		return nil, false
	}

	// solveLP minimizes cand0*z + cand·y; the rotation we need is the
	// maximum of its negation, i.e. the sign-flipped optimum.
	lambda := new(big.Rat).Neg(res.value)
	if lambda.Sign() < 0 {
		lambda = new(big.Rat)
	}

	q := lambda.Denom()
	p := lambda.Num()
	out := make(Vector, len(cand))
	for i := range cand {
		t1 := new(big.Int).Mul(cand[i], q)
		t2 := new(big.Int).Mul(p, ridge[i])
		out[i] = new(big.Int).Add(t1, t2)
	}
	out.GCDReduce(1)
	return out, true
}
