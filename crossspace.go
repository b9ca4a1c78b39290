package coalesce

// coalescedSubset reports whether original's region is a subset of
// candidate's, aligning div spaces first if they differ. Used after a
// wrap construction to verify the fused candidate actually contains both
// basic maps it was built from, not just a plausible superset.
func coalescedSubset(candidate, original *BasicMap) bool {
	return containsAfterAligningDivs(candidate, original)
}

// checkCoalesceSubset is coalescedSubset under the name spec.md's §4.6
// gives it at the call site guarding coalesceCrossSpacePair: it reports
// whether sub's region is a subset of sup's, aligning div spaces first if
// they differ.
func checkCoalesceSubset(sub, sup *BasicMap) bool {
	return containsAfterAligningDivs(sup, sub)
}

// coalesceCrossSpacePair handles a pair whose local div spaces disagree:
// only subsumption is tested (no div expansion needed beyond what
// containsAfterAligningDivs already does internally), never the fusion
// or wrapping rules, which are only verified sound when both sides share
// a local space. Mirrors isl_coalesce.c's check_coalesce_subset, which
// likewise never falls through to the full same-space cascade. If
// neither side subsumes the other, the pair is left alone.
func coalesceCrossSpacePair(i, j *BasicMap) (Change, *BasicMap) {
	if checkCoalesceSubset(j, i) {
		return ChangeDropSecond, nil
	}
	if checkCoalesceSubset(i, j) {
		return ChangeDropFirst, nil
	}
	return ChangeNone, nil
}
