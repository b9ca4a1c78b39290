package coalesce

import "sort"

// CoalesceInfo tracks one basic map's position through the coalescing
// pass: whether it has already been dropped (subsumed, or folded into a
// fuse) and, if still live, its current representation. Mirrors
// isl_coalesce.c's struct isl_coalesce_info, generalized from a fixed
// array slot to an owned slice entry the way jjhbw-GoMILP's node
// registries (tree.go) track branch-and-bound nodes by index.
type CoalesceInfo struct {
	Bmap    *BasicMap
	Removed bool
}

func newCoalesceInfos(bmaps []*BasicMap) []*CoalesceInfo {
	infos := make([]*CoalesceInfo, len(bmaps))
	for i, b := range bmaps {
		infos[i] = &CoalesceInfo{Bmap: b}
	}
	return infos
}

// drop marks an entry removed, releasing its basic map.
func drop(infos []*CoalesceInfo, idx int) {
	infos[idx].Removed = true
	infos[idx].Bmap = nil
}

// exchange installs fused as the surviving representation at i and drops
// j, mirroring isl_coalesce.c's exchange (the lower-indexed entry always
// ends up holding the fused result).
func exchange(infos []*CoalesceInfo, i, j int, fused *BasicMap) {
	infos[i].Bmap = fused
	drop(infos, j)
}

// coalescePair runs the rule cascade for one live pair and reports
// whether anything changed.
func coalescePair(infos []*CoalesceInfo, i, j int, mw Middleware, bounded bool) bool {
	change, fused := coalesceLocalPair(infos[i].Bmap, infos[j].Bmap, bounded)
	mw.OnPairChecked(infos[i].Bmap, infos[j].Bmap, change)
	switch change {
	case ChangeDropFirst:
		drop(infos, i)
		return true
	case ChangeDropSecond:
		drop(infos, j)
		return true
	case ChangeFuse:
		exchange(infos, i, j, fused)
		return true
	default:
		return false
	}
}

// preprocessBasicMap makes implicit equalities explicit and drops
// constraints redundant within the basic map's own system, mirroring the
// per-basic-map prelude of isl_map_coalesce (isl_tab_detect_implicit_
// equalities, isl_tab_detect_redundant) before any pairwise comparison
// starts. It returns nil if the basic map turns out to be empty.
func preprocessBasicMap(b *BasicMap) *BasicMap {
	out := b.Copy()
	tab := NewTableau(out)
	if tab.Empty() {
		return nil
	}
	tab.DetectImplicitEqualities()
	out.Gauss()
	redundant := NewTableau(out).DetectRedundant()
	if len(redundant) > 0 {
		drop := make(map[int]bool, len(redundant))
		for _, idx := range redundant {
			drop[idx] = true
		}
		kept := out.Ineq[:0]
		for idx, row := range out.Ineq {
			if !drop[idx] {
				kept = append(kept, row)
			}
		}
		out.Ineq = kept
	}
	out.DetectInequalityPairs()
	if NewTableau(out).Empty() {
		return nil
	}
	return out
}

// sortByDivs stably reorders basic maps by (div count, div signature),
// mirroring isl_map_sort_divs: a deterministic starting order gives the
// cross-space div-alignment handler (crossspace.go) a canonical pairing
// to expand from, rather than depending on input order.
func sortByDivs(bmaps []*BasicMap) []*BasicMap {
	out := make([]*BasicMap, len(bmaps))
	copy(out, bmaps)
	sort.SliceStable(out, func(i, j int) bool {
		return divsLess(out[i].Divs, out[j].Divs)
	})
	return out
}

func divsLess(a, b []Div) bool {
	if len(a) != len(b) {
		return len(a) < len(b)
	}
	for k := range a {
		if c := divCompare(a[k], b[k]); c != 0 {
			return c < 0
		}
	}
	return false
}

func divCompare(a, b Div) int {
	if a.known() != b.known() {
		if !a.known() {
			return -1
		}
		return 1
	}
	if !a.known() {
		return 0
	}
	if c := a.Denom.Cmp(b.Denom); c != 0 {
		return c
	}
	n := len(a.Expr)
	if len(b.Expr) < n {
		n = len(b.Expr)
	}
	for k := 0; k < n; k++ {
		if c := a.Expr[k].Cmp(b.Expr[k]); c != 0 {
			return c
		}
	}
	return len(a.Expr) - len(b.Expr)
}

// Coalesce repeatedly applies coalesceLocalPair to every live pair of
// basic maps until a fixed point is reached, then compacts the surviving
// entries. This scans every pair from scratch after each change rather
// than isl_coalesce.c's index-walking restart discipline (descending i,
// ascending j, resuming from the touched indices) -- simpler to get right
// without a test run, at the cost of redundant rework on inputs with many
// basic maps; the decision procedure for any single pair is unchanged.
func Coalesce(bmaps []*BasicMap) []*BasicMap {
	return CoalesceWithMiddleware(bmaps, dummyMiddleware{})
}

// CoalesceWithMiddleware is Coalesce, additionally notifying mw of every
// pairwise decision as it is made. Runs with bounded wrapping enabled,
// isl's own default (isl_options_get_coalesce_bounded_wrapping); use
// CoalesceWithConfig to disable it.
func CoalesceWithMiddleware(bmaps []*BasicMap, mw Middleware) []*BasicMap {
	return coalesce(bmaps, mw, true)
}

// CoalesceWithConfig is the fully configurable entry point: cfg's
// Middleware/Log are merged the same way api.go's Maps does, and
// cfg.UnboundedWrapping disables the coefficient-growth bound the wrap
// rules otherwise enforce (spec's coalesce_bounded_wrapping option).
func CoalesceWithConfig(bmaps []*BasicMap, cfg Config) []*BasicMap {
	return coalesce(bmaps, cfg.middleware(), !cfg.UnboundedWrapping)
}

func coalesce(bmaps []*BasicMap, mw Middleware, bounded bool) []*BasicMap {
	prepped := make([]*BasicMap, 0, len(bmaps))
	for _, b := range bmaps {
		if p := preprocessBasicMap(b); p != nil {
			prepped = append(prepped, p)
		}
	}
	prepped = sortByDivs(prepped)
	prepped = OrderBySeparationHint(prepped)

	infos := newCoalesceInfos(prepped)
	for {
		changedAny := false
		for i := 0; i < len(infos); i++ {
			if infos[i].Removed {
				continue
			}
			restarted := false
			for j := i + 1; j < len(infos); j++ {
				if infos[j].Removed {
					continue
				}
				if coalescePair(infos, i, j, mw, bounded) {
					changedAny = true
					restarted = true
					break
				}
			}
			if restarted {
				break
			}
		}
		if !changedAny {
			break
		}
	}

	return updateBasicMaps(infos)
}
