package coalesce

import "math/big"

// Tableau is the per-basic-map simplex view used throughout coalescing to
// answer "does this region satisfy / violate / touch that constraint"
// questions. Unlike a textbook incremental simplex tableau, this one keeps
// no persistent factorization: every query rebuilds and solves a fresh
// exact two-phase LP (simplex.go) against the basic map's current rows.
// That costs some performance relative to isl_tab's true incremental
// pivoting, but it is simpler to get right without a test run, and the
// basic maps this package deals with are small. Snap/Rollback still give
// callers the transactional discipline the geometric rules (rules.go)
// depend on.
//
// Because the underlying LP operates on the rational relaxation of the
// basic map's constraints, a bound computed here is the rational optimum,
// not necessarily the optimum over the integer lattice. For every basic
// map with integral vertices (which covers every basic map without
// unmarked divs that this package's rule set actually reaches) the two
// coincide; IneqType rounds results with ceil/floor to recover the tighter
// integer bound wherever it does not.
type Tableau struct {
	bmap  *BasicMap
	stack []tabSnapshot
	empty bool
}

type tabSnapshot struct {
	nEq, nIneq int
	rational   bool
	ineq       []Vector // deep copies of the inequality rows at Snap time
}

// NewTableau returns a tableau reflecting b's current constraints. It does
// not copy b; mutating operations (AddEq, AddIneq, Relax, Unrestrict,
// SelectFacet) mutate b in place, which Rollback then undoes.
func NewTableau(b *BasicMap) *Tableau {
	return &Tableau{bmap: b}
}

// Snap records the tableau's current extent and returns a mark that
// Rollback can later restore to.
func (t *Tableau) Snap() int {
	saved := make([]Vector, len(t.bmap.Ineq))
	for k, row := range t.bmap.Ineq {
		saved[k] = row.Copy()
	}
	t.stack = append(t.stack, tabSnapshot{len(t.bmap.Eq), len(t.bmap.Ineq), t.bmap.Rational, saved})
	return len(t.stack) - 1
}

// Rollback discards every row added since mark and restores any inequality
// rewritten since then (Relax, Unrestrict), returning the tableau (and the
// underlying basic map) to the state Snap observed.
func (t *Tableau) Rollback(mark int) {
	s := t.stack[mark]
	t.bmap.Eq = t.bmap.Eq[:s.nEq]
	t.bmap.Ineq = t.bmap.Ineq[:s.nIneq]
	copy(t.bmap.Ineq, s.ineq)
	t.bmap.Rational = s.rational
	t.stack = t.stack[:mark]
	t.empty = false
}

// AddEq appends a new equality row, returning its index.
func (t *Tableau) AddEq(row Vector) int {
	t.bmap.Eq = append(t.bmap.Eq, row)
	t.empty = false
	return len(t.bmap.Eq) - 1
}

// AddIneq appends a new inequality row, returning its index.
func (t *Tableau) AddIneq(row Vector) int {
	t.bmap.Ineq = append(t.bmap.Ineq, row)
	t.empty = false
	return len(t.bmap.Ineq) - 1
}

// MarkRational sets the basic map's Rational flag, matching
// isl_tab_mark_rational; Rollback restores the flag. The tableau's own
// checks (Empty, bound, IneqType) always work on the rational relaxation,
// so the flag does not change their results.
func (t *Tableau) MarkRational() {
	t.bmap.Rational = true
}

// Relax loosens inequality idx by one unit (c >= 0 becomes c+1 >= 0),
// mirroring isl_tab_relax's use in probing whether a cut facet's
// neighbour becomes valid after moving the cutting hyperplane out by the
// minimal integer step.
func (t *Tableau) Relax(idx int) {
	t.bmap.Ineq[idx][0].Add(t.bmap.Ineq[idx][0], big.NewInt(1))
}

// Unrestrict drops inequality idx's restriction entirely, replacing it
// with the trivially true row 0 >= 0, mirroring isl_tab_unrestrict's use
// when a bound is known to no longer apply along a wrapped direction.
func (t *Tableau) Unrestrict(idx int) {
	t.bmap.Ineq[idx] = NewVector(len(t.bmap.Ineq[idx]))
}

// SelectFacet commits to the facet where inequality idx holds with
// equality, appending that equality and returning its index. Callers
// always do this between a Snap and the matching Rollback.
func (t *Tableau) SelectFacet(idx int) int {
	return t.AddEq(t.bmap.Ineq[idx].Copy())
}

// IsEquality reports whether inequality idx is already implicitly pinned
// to equality by the tableau's own other constraints (including idx
// itself): both its minimum and its maximum over the current system are
// exactly 0. Mirrors isl_tab_is_equality, used to gate relaxing a row
// that would not actually move the feasible region.
func (t *Tableau) IsEquality(idx int) bool {
	minV, unbounded, infeasible := t.bound(t.bmap.Ineq[idx], false)
	if infeasible || unbounded {
		return false
	}
	maxV, maxUnbounded, _ := t.bound(t.bmap.Ineq[idx], true)
	if maxUnbounded {
		return false
	}
	return minV.Sign() == 0 && maxV.Sign() == 0
}

// Empty reports whether the rational relaxation of the tableau's current
// system of constraints has no solution. Integer emptiness is not checked
// separately: a system with rational but no integer solutions is reported
// non-empty, whether or not MarkRational has been called.
func (t *Tableau) Empty() bool {
	if t.empty {
		return true
	}
	feasible := t.feasible()
	if !feasible {
		t.empty = true
	}
	return !feasible
}

func (t *Tableau) feasible() bool {
	total := t.bmap.TotalDim()
	prog, _, _, _ := buildLP(t.bmap.Eq, t.bmap.Ineq, total)
	if len(prog.rows) == 0 {
		return true
	}
	cost := zeroCost(prog.nDecVars)
	res := solveLP(prog, cost)
	return !res.infeasible
}

func zeroCost(n int) []*big.Rat {
	c := make([]*big.Rat, n)
	for i := range c {
		c[i] = new(big.Rat)
	}
	return c
}

// bound returns the minimum (or, if maximize, the maximum) value of row
// over the tableau's feasible region, evaluated over the rational
// relaxation and then rounded towards the feasible integer direction
// (ceil for a minimum, floor for a maximum).
func (t *Tableau) bound(row Vector, maximize bool) (value *big.Int, unbounded bool, infeasible bool) {
	total := t.bmap.TotalDim()
	prog, pIdx, mIdx, _ := buildLP(t.bmap.Eq, t.bmap.Ineq, total)
	if len(prog.rows) == 0 {
		// No constraints at all: bounded only if row has no linear part.
		allZero := true
		for _, c := range row[1:] {
			if c.Sign() != 0 {
				allZero = false
				break
			}
		}
		if !allZero {
			return nil, true, false
		}
		return new(big.Int).Set(row[0]), false, false
	}

	cost := zeroCost(prog.nDecVars)
	for k := 0; k < total; k++ {
		c := new(big.Rat).SetInt(row[1+k])
		if maximize {
			c.Neg(c)
		}
		cost[pIdx[k]] = new(big.Rat).Set(c)
		cost[mIdx[k]] = new(big.Rat).Neg(c)
	}

	res := solveLP(prog, cost)
	if res.infeasible {
		return nil, false, true
	}
	if res.unbounded {
		return nil, true, false
	}

	v := new(big.Rat).Set(res.value)
	if maximize {
		v.Neg(v)
	}
	v.Add(v, new(big.Rat).SetInt(row[0]))

	if v.IsInt() {
		return new(big.Int).Set(v.Num()), false, false
	}
	var i *big.Int
	if maximize {
		i = ratFloor(v)
	} else {
		i = ratCeil(v)
	}
	return i, false, false
}

func ratFloor(r *big.Rat) *big.Int {
	q := new(big.Int)
	m := new(big.Int)
	q.DivMod(r.Num(), r.Denom(), m)
	return q
}

func ratCeil(r *big.Rat) *big.Int {
	f := ratFloor(r)
	if new(big.Rat).SetInt(f).Cmp(r) == 0 {
		return f
	}
	return f.Add(f, big.NewInt(1))
}

// IneqClass is the outcome of classifying a candidate inequality row
// against a tableau's feasible region (spec.md §4.1's Status value, at
// the tableau level).
type IneqClass int

const (
	ClassError IneqClass = iota
	ClassRedundant
	ClassSeparate
	ClassCut
	ClassAdjEq
	ClassAdjIneq
)

// IneqType classifies row >= 0 against t's feasible region, following
// isl_tab_ineq_type: redundant if the region satisfies it everywhere,
// separate if the region violates it everywhere by more than the minimal
// integer step, adjacent (eq or ineq) if the region lies in the single
// integer layer just outside it, cut otherwise.
func (t *Tableau) IneqType(row Vector) IneqClass {
	if t.Empty() {
		return ClassRedundant
	}

	minV, minUnbounded, infeasible := t.bound(row, false)
	if infeasible {
		return ClassRedundant
	}
	maxV, maxUnbounded, _ := t.bound(row, true)

	if !maxUnbounded && maxV.Sign() < 0 {
		// The whole region violates row >= 0. If it is pinned exactly to
		// the layer row == -1, it is adjacent (by an equality or an
		// inequality depending on whether it varies at all); anything
		// further away is separate.
		if maxV.Cmp(big.NewInt(-1)) == 0 {
			return t.adjType(row)
		}
		return ClassSeparate
	}
	if !minUnbounded && minV.Sign() >= 0 {
		return ClassRedundant
	}
	return ClassCut
}

// adjType further classifies a row already known to have maximum exactly
// -1 over t's region (the minimal integer step outside row >= 0) as
// adjacent to an equality (the region is pinned to that single layer, so
// row == -1 is implied as an equality of t) or to an inequality (row
// varies across the region, touching -1 only along a proper facet).
func (t *Tableau) adjType(row Vector) IneqClass {
	minV, minUnbounded, infeasible := t.bound(row, false)
	if infeasible {
		return ClassRedundant
	}
	if !minUnbounded && minV.Cmp(big.NewInt(-1)) == 0 {
		return ClassAdjEq
	}
	return ClassAdjIneq
}

// DetectRedundant returns the indices of inequalities that are
// implied by the tableau's other rows, mirroring isl_tab_detect_redundant:
// dropping row i from consideration, row i is redundant iff the remaining
// system's minimum of row i's expression is still >= 0.
func (t *Tableau) DetectRedundant() []int {
	var redundant []int
	for i, row := range t.bmap.Ineq {
		rest := make([]Vector, 0, len(t.bmap.Ineq)-1)
		for j, o := range t.bmap.Ineq {
			if j != i {
				rest = append(rest, o)
			}
		}
		sub := &Tableau{bmap: &BasicMap{Space: t.bmap.Space, Eq: t.bmap.Eq, Ineq: rest, Divs: t.bmap.Divs}}
		minV, unbounded, infeasible := sub.bound(row, false)
		if infeasible {
			redundant = append(redundant, i)
			continue
		}
		if !unbounded && minV.Sign() >= 0 {
			redundant = append(redundant, i)
		}
	}
	return redundant
}

// DetectImplicitEqualities promotes any inequality whose minimum and
// maximum over the tableau's region are both exactly 0 to an equality,
// mirroring isl_tab_detect_implicit_equalities. It returns the indices
// (into the inequality list as it stood on entry) that were promoted.
func (t *Tableau) DetectImplicitEqualities() []int {
	var promoted []int
	keep := make([]bool, len(t.bmap.Ineq))
	for i := range keep {
		keep[i] = true
	}
	for i, row := range t.bmap.Ineq {
		minV, unbounded, infeasible := t.bound(row, false)
		if infeasible || unbounded {
			continue
		}
		maxV, maxUnbounded, _ := t.bound(row, true)
		if maxUnbounded {
			continue
		}
		if minV.Sign() == 0 && maxV.Sign() == 0 {
			promoted = append(promoted, i)
			keep[i] = false
			t.bmap.Eq = append(t.bmap.Eq, row)
		}
	}
	if len(promoted) == 0 {
		return nil
	}
	kept := make([]Vector, 0, len(t.bmap.Ineq)-len(promoted))
	for i, row := range t.bmap.Ineq {
		if keep[i] {
			kept = append(kept, row)
		}
	}
	t.bmap.Ineq = kept
	return promoted
}
