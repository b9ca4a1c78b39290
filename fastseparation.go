package coalesce

import (
	"math/big"
	"sort"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/optimize/convex/lp"
)

// This file is the one place in the package that touches float64. It
// never decides whether two basic maps coalesce -- every such decision
// still goes through tableau.go's exact big.Rat simplex. What it does
// provide is a cheap, approximate lower bound on each basic map's first
// dimension (via
// gonum's float64 simplex, the same solver jjhbw-GoMILP's subproblem.go
// hands converted LP relaxations to) used only to order the candidate
// list before the exact pairwise pass: basic maps that are spatially
// close are more likely to coalesce, and comparing them earlier lets the
// driver's restart-on-change loop (driver.go) settle in fewer passes on
// typical inputs. Getting this wrong never produces a wrong coalescing
// result, only a slower one, which is why an approximate solver is an
// acceptable tool here even though it is unsound everywhere else in this
// package.

// boxLowerBound estimates, via the LP relaxation's float64 simplex, the
// minimum of the first non-div dimension over b's region. It returns
// ok=false if the relaxation cannot be solved (no dimensions, or gonum
// reports infeasible/unbounded), in which case the caller should not
// reorder around this basic map.
func boxLowerBound(b *BasicMap) (float64, bool) {
	total := b.Space.TotalDim()
	if total == 0 {
		return 0, false
	}

	nPM := 2 * total
	nIneq := len(b.Ineq) + len(b.Eq)*2
	nCols := nPM + nIneq

	rows := len(b.Eq)*2 + len(b.Ineq)
	A := mat.NewDense(rows, nCols, nil)
	bVec := make([]float64, rows)

	r := 0
	setRow := func(v Vector, slackCol int) {
		for k := 0; k < total; k++ {
			coef, _ := new(big.Float).SetInt(v[1+k]).Float64()
			A.Set(r, 2*k, coef)
			A.Set(r, 2*k+1, -coef)
		}
		if slackCol >= 0 {
			A.Set(r, slackCol, -1)
		}
		constVal, _ := new(big.Float).SetInt(v[0]).Float64()
		bVec[r] = -constVal
		r++
	}

	slack := nPM
	for _, e := range b.Eq {
		setRow(e, -1)
		neg := e.Neg()
		setRow(neg, -1)
	}
	for _, c := range b.Ineq {
		setRow(c, slack)
		slack++
	}

	cost := make([]float64, nCols)
	cost[0] = 1
	cost[1] = -1

	val, _, err := lp.Simplex(cost, A, bVec, 0, nil)
	if err != nil {
		return 0, false
	}
	return val, true
}

// OrderBySeparationHint returns bmaps stably sorted by the estimated lower
// bound of their first dimension (basic maps that cannot be bounded sort
// last), so that basic maps whose lower bounds are close together are
// adjacent in the result. Every basic map is still compared against every other by
// the exact engine afterwards; this only changes the order in which
// those exact comparisons happen.
func OrderBySeparationHint(bmaps []*BasicMap) []*BasicMap {
	type keyed struct {
		b   *BasicMap
		key float64
		ok  bool
	}
	ks := make([]keyed, len(bmaps))
	for i, b := range bmaps {
		lo, ok := boxLowerBound(b)
		ks[i] = keyed{b: b, key: lo, ok: ok}
	}
	sort.SliceStable(ks, func(i, j int) bool {
		if ks[i].ok != ks[j].ok {
			return ks[i].ok
		}
		return ks[i].key < ks[j].key
	})
	out := make([]*BasicMap, len(bmaps))
	for i, k := range ks {
		out[i] = k.b
	}
	return out
}
