package coalesce

// fuse builds the single basic map replacing i and j once a rule has
// established that their union is exactly representable: it keeps
// whichever of i's and j's own constraints are valid on the other side,
// adds the extra rows the calling rule supplies (typically a relaxed
// version of the pair of constraints the rule pivoted on), and then
// normalizes the result the same way any freshly constructed basic map
// is normalized. Mirrors isl_coalesce.c's fuse.
func fuse(i, j *BasicMap, extra []Vector) *BasicMap {
	result := i.Copy()
	other := j

	tabOther := NewTableau(other)
	kept := result.Ineq[:0]
	for _, row := range result.Ineq {
		if tabOther.IneqType(row) == ClassRedundant {
			kept = append(kept, row)
		}
	}
	result.Ineq = kept

	tabBase := NewTableau(i)
	for _, row := range other.Ineq {
		if tabBase.IneqType(row) == ClassRedundant {
			result.Ineq = append(result.Ineq, row.Copy())
		}
	}

	eqKept := result.Eq[:0]
	for _, eq := range result.Eq {
		if eqStatusIn(eq, tabOther).isValid() {
			eqKept = append(eqKept, eq)
		}
	}
	result.Eq = eqKept
	for _, eq := range other.Eq {
		if !eqStatusIn(eq, tabBase).isValid() {
			continue
		}
		dup := false
		for _, have := range result.Eq {
			if have.Eq(eq) || have.IsNeg(eq) {
				dup = true
				break
			}
		}
		if !dup {
			result.Eq = append(result.Eq, eq.Copy())
		}
	}

	for _, e := range extra {
		result.Ineq = append(result.Ineq, e.Copy())
	}

	result.DetectInequalityPairs()
	result.Gauss()
	result.Final = false
	result.NoImplicit = false
	result.NoRedundant = false
	return result
}
