package coalesce

import "math/big"

// This file implements the exact two-phase simplex method over big.Rat
// that tableau.go's IneqType relies on to bound a linear expression over a
// basic map's rational relaxation. Free (unrestricted-in-sign) variables
// are handled by the classical p/m split (x = p - m, p,m >= 0); every row
// additionally carries its own artificial variable so that phase 1 can
// start from a trivial basic feasible solution regardless of the sign of
// each row's constant term. Bland's rule is used throughout to guarantee
// termination without cycling, since rows can be highly degenerate.

type lpRow struct {
	coef []*big.Rat // length nVars
	rhs  *big.Rat
}

type lpProgram struct {
	rows     []lpRow
	nDecVars int // p/m/s columns, before artificials
	nArt     int
}

// lpResult reports the outcome of minimizing (or maximizing, by negating
// the objective beforehand) a linear objective over an lpProgram.
type lpResult struct {
	infeasible bool
	unbounded  bool
	value      *big.Rat
}

// buildLP translates a region (equalities and inequalities over totalDim
// free variables) into standard form: p_k - m_k substituted for each
// variable, one slack per inequality, one artificial per row.
func buildLP(eqs, ineqs []Vector, totalDim int) (prog lpProgram, pIdx, mIdx []int, sIdx []int) {
	pIdx = make([]int, totalDim)
	mIdx = make([]int, totalDim)
	for k := 0; k < totalDim; k++ {
		pIdx[k] = 2 * k
		mIdx[k] = 2*k + 1
	}
	nPM := 2 * totalDim
	sIdx = make([]int, len(ineqs))
	for i := range ineqs {
		sIdx[i] = nPM + i
	}
	nDecVars := nPM + len(ineqs)

	var coefRows [][]*big.Rat
	var rhsRows []*big.Rat
	addRow := func(v Vector, isIneq bool, ineqPos int) {
		coef := make([]*big.Rat, nDecVars)
		for i := range coef {
			coef[i] = new(big.Rat)
		}
		for k := 0; k < totalDim; k++ {
			c := new(big.Rat).SetInt(v[1+k])
			coef[pIdx[k]].Set(c)
			coef[mIdx[k]].Neg(c)
		}
		if isIneq {
			coef[sIdx[ineqPos]] = big.NewRat(-1, 1)
		}
		rhs := new(big.Rat).SetInt(v[0])
		rhs.Neg(rhs) // sum(coef*x) = -const
		coefRows = append(coefRows, coef)
		rhsRows = append(rhsRows, rhs)
	}

	for _, e := range eqs {
		addRow(e, false, 0)
	}
	for i, e := range ineqs {
		addRow(e, true, i)
	}

	prog = assembleLP(coefRows, rhsRows, nDecVars)
	return prog, pIdx, mIdx, sIdx
}

// assembleLP turns a list of rows of the form coef·vars = rhs into an
// lpProgram by appending one artificial variable per row, negating any
// row whose rhs came in negative so every artificial starts at a
// nonnegative value (a basic feasible solution for phase 1).
func assembleLP(coefRows [][]*big.Rat, rhsRows []*big.Rat, nDecVars int) lpProgram {
	nRows := len(coefRows)
	rows := make([]lpRow, nRows)
	for i := 0; i < nRows; i++ {
		coef := make([]*big.Rat, nDecVars+nRows)
		for j := 0; j < nDecVars; j++ {
			coef[j] = new(big.Rat).Set(coefRows[i][j])
		}
		for j := nDecVars; j < nDecVars+nRows; j++ {
			coef[j] = new(big.Rat)
		}
		rhs := new(big.Rat).Set(rhsRows[i])
		if rhs.Sign() < 0 {
			for j := range coef {
				coef[j].Neg(coef[j])
			}
			rhs.Neg(rhs)
		}
		coef[nDecVars+i].SetInt64(1)
		rows[i] = lpRow{coef: coef, rhs: rhs}
	}
	return lpProgram{rows: rows, nDecVars: nDecVars, nArt: nRows}
}

// solveLP minimizes the given cost vector (indexed like the p/m/slack
// decision variables, length prog.nDecVars) over prog using two-phase
// simplex.
func solveLP(prog lpProgram, cost []*big.Rat) lpResult {
	nVars := prog.nDecVars + prog.nArt
	nRows := len(prog.rows)
	if nRows == 0 {
		return lpResult{value: new(big.Rat)}
	}

	tab := make([][]*big.Rat, nRows)
	basis := make([]int, nRows)
	for i, row := range prog.rows {
		tab[i] = make([]*big.Rat, nVars+1)
		copy(tab[i], row.coef)
		tab[i][nVars] = new(big.Rat).Set(row.rhs)
		basis[i] = prog.nDecVars + i
	}

	// Phase 1: minimize sum of artificials.
	phase1Cost := make([]*big.Rat, nVars)
	for i := range phase1Cost {
		phase1Cost[i] = new(big.Rat)
	}
	for i := 0; i < prog.nArt; i++ {
		phase1Cost[prog.nDecVars+i].SetInt64(1)
	}
	obj1 := runSimplex(tab, basis, phase1Cost, nVars)
	if obj1.unbounded {
		// Sum of nonnegative artificials cannot be unbounded below.
		panic("coalesce: phase-1 simplex objective unexpectedly unbounded")
	}
	if obj1.value.Sign() > 0 {
		return lpResult{infeasible: true}
	}

	// Drive any artificial still in the basis (at value 0) out, if a
	// non-artificial column offers a usable pivot; otherwise leave it
	// (a degenerate zero-valued basic artificial is harmless for phase 2
	// as long as its column is excluded from entering again).
	for r, b := range basis {
		if b < prog.nDecVars {
			continue
		}
		pivoted := false
		for c := 0; c < prog.nDecVars; c++ {
			if tab[r][c].Sign() != 0 {
				pivot(tab, basis, r, c)
				pivoted = true
				break
			}
		}
		_ = pivoted
	}

	// Phase 2: optimize the real (user) objective, forbidding artificials
	// from re-entering the basis.
	full := make([]*big.Rat, nVars)
	for i := range full {
		full[i] = new(big.Rat)
	}
	copy(full[:prog.nDecVars], cost)
	obj2 := runSimplexForbid(tab, basis, full, nVars, prog.nDecVars)
	return obj2
}

// runSimplex runs primal simplex with Bland's rule, minimizing cost, and
// returns the optimal objective value (or an unbounded result).
func runSimplex(tab [][]*big.Rat, basis []int, cost []*big.Rat, nVars int) lpResult {
	return runSimplexForbid(tab, basis, cost, nVars, nVars)
}

// runSimplexForbid is runSimplex but entering variables with index >=
// forbidFrom are never chosen (used in phase 2 to keep artificials out).
func runSimplexForbid(tab [][]*big.Rat, basis []int, cost []*big.Rat, nVars, forbidFrom int) lpResult {
	nRows := len(tab)
	const maxIter = 10000
	for iter := 0; iter < maxIter; iter++ {
		// reduced costs: cost[j] - sum_r cost[basis[r]] * tab[r][j]
		reduced := make([]*big.Rat, nVars)
		for j := 0; j < nVars; j++ {
			rc := new(big.Rat).Set(cost[j])
			for r := 0; r < nRows; r++ {
				if cost[basis[r]].Sign() == 0 {
					continue
				}
				t := new(big.Rat).Mul(cost[basis[r]], tab[r][j])
				rc.Sub(rc, t)
			}
			reduced[j] = rc
		}

		enter := -1
		for j := 0; j < forbidFrom && j < nVars; j++ {
			if reduced[j].Sign() < 0 {
				enter = j
				break
			}
		}
		if enter < 0 {
			// optimal
			val := new(big.Rat)
			for r := 0; r < nRows; r++ {
				if cost[basis[r]].Sign() == 0 {
					continue
				}
				t := new(big.Rat).Mul(cost[basis[r]], tab[r][nVars])
				val.Add(val, t)
			}
			return lpResult{value: val}
		}

		leave := -1
		var bestRatio *big.Rat
		for r := 0; r < nRows; r++ {
			if tab[r][enter].Sign() <= 0 {
				continue
			}
			ratio := new(big.Rat).Quo(tab[r][nVars], tab[r][enter])
			if bestRatio == nil || ratio.Cmp(bestRatio) < 0 ||
				(ratio.Cmp(bestRatio) == 0 && basis[r] < basis[leave]) {
				bestRatio = ratio
				leave = r
			}
		}
		if leave < 0 {
			return lpResult{unbounded: true}
		}

		pivot(tab, basis, leave, enter)
	}
	panic("coalesce: simplex did not terminate")
}

// pivot performs a Gauss-Jordan pivot on (row, col), making col basic in
// row and updating basis bookkeeping.
func pivot(tab [][]*big.Rat, basis []int, row, col int) {
	nRows := len(tab)
	nCols := len(tab[row])
	piv := tab[row][col]
	for c := 0; c < nCols; c++ {
		tab[row][c].Quo(tab[row][c], piv)
	}
	for r := 0; r < nRows; r++ {
		if r == row {
			continue
		}
		factor := new(big.Rat).Set(tab[r][col])
		if factor.Sign() == 0 {
			continue
		}
		for c := 0; c < nCols; c++ {
			t := new(big.Rat).Mul(factor, tab[row][c])
			tab[r][c].Sub(tab[r][c], t)
		}
	}
	basis[row] = col
}
