package coalesce

// contains reports whether other's region is a subset of b's (every point
// satisfying other's constraints also satisfies all of b's), by checking
// that each of b's own rows is valid (redundant, in tableau terms)
// throughout other -- mirroring isl_coalesce.c's contains.
func contains(b, other *BasicMap) bool {
	tab := NewTableau(other)
	for _, e := range b.Eq {
		if tab.IneqType(e) != ClassRedundant {
			return false
		}
		if tab.IneqType(e.Neg()) != ClassRedundant {
			return false
		}
	}
	for _, ineq := range b.Ineq {
		if tab.IneqType(ineq) != ClassRedundant {
			return false
		}
	}
	return true
}

// divAligner carries the bookkeeping needed to undo a temporary div
// expansion once a containment check finishes, the same queued-transform-
// with-matching-undo shape as a preprocessing pass that fixes variables
// before solving and then restores them for the caller.
type divAligner struct {
	original *BasicMap
	expanded *BasicMap
	applied  bool
}

func newDivAligner(b *BasicMap) *divAligner {
	return &divAligner{original: b}
}

// expand rewrites the aligner's basic map into the given merged div space,
// recording that an expansion was applied so release can be a no-op when
// it wasn't.
func (d *divAligner) expand(merged []Div, exp []int) *BasicMap {
	d.expanded = ExpandDivs(d.original, merged, exp)
	d.applied = true
	return d.expanded
}

// release is a formal bookkeeping step: the expansion produced a fresh
// copy rather than mutating d.original in place, so there is nothing to
// undo, but calling it keeps the expand/release pairing explicit at call
// sites the way every other transactional helper in this package is used.
func (d *divAligner) release() {
	d.applied = false
	d.expanded = nil
}

// containsAfterAligningDivs reports whether other's region is a subset of
// b's region, first expanding both into a shared div space when their
// local spaces disagree -- mirroring isl_coalesce.c's
// contains_after_aligning_divs / contains_with_expanded_divs.
func containsAfterAligningDivs(b, other *BasicMap) bool {
	if b.sameLocalSpace(other) {
		return contains(b, other)
	}

	merged, expB, expOther := MergeDivs(b.Divs, other.Divs)

	alignedB := newDivAligner(b)
	defer alignedB.release()
	bb := alignedB.expand(merged, expB)

	alignedOther := newDivAligner(other)
	defer alignedOther.release()
	oo := alignedOther.expand(merged, expOther)

	return contains(bb, oo)
}
