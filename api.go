package coalesce

import "strconv"

// Config controls optional behaviour of the public entry points. The zero
// value runs with defaults: no observation, no decision log. Mirrors the
// shape of jjhbw-GoMILP's Problem/Solve boundary, which accepts a small
// options struct rather than a long parameter list and defaults to a
// dummyMiddleware when the caller does not wire one in.
type Config struct {
	// Middleware, if set, is notified of every pairwise decision the
	// driver makes. Leave nil to run with no observation.
	Middleware Middleware

	// Log, if set, additionally records every pairwise decision for
	// later rendering via DecisionLog.ToDOT or WriteConsole. Supplying
	// both Log and Middleware notifies both.
	Log *DecisionLog

	// UnboundedWrapping disables the wrap rules' coefficient-growth bound
	// (isl's coalesce_bounded_wrapping option, inverted so the zero value
	// matches isl's own default of bounded wrapping). Only ever worth
	// setting for basic maps where a legitimate wrap is being rejected
	// because its coefficients happen to exceed the dropped constraints'.
	UnboundedWrapping bool
}

func (c Config) middleware() Middleware {
	var mws []Middleware
	if c.Middleware != nil {
		mws = append(mws, c.Middleware)
	}
	if c.Log != nil {
		mws = append(mws, c.Log)
	}
	switch len(mws) {
	case 0:
		return dummyMiddleware{}
	case 1:
		return mws[0]
	default:
		return multiMiddleware(mws)
	}
}

// multiMiddleware fans one observation out to several middlewares, in
// order.
type multiMiddleware []Middleware

func (m multiMiddleware) OnPairChecked(i, j *BasicMap, change Change) {
	for _, mw := range m {
		mw.OnPairChecked(i, j, change)
	}
}

// Maps coalesces a collection of basic maps sharing a common space,
// returning the smallest equivalent collection this package's rules can
// find: every input basic map's integer points are covered by at least one
// output basic map (two outputs may overlap when neither subsumes the
// other and they do not fuse), and no further pairwise fuse or
// subsumption applies.
// This is the direct public entry point to CoalesceWithConfig (spec.md
// §9's map form).
func Maps(bmaps []*BasicMap, cfg Config) []*BasicMap {
	return CoalesceWithConfig(bmaps, cfg)
}

// Sets coalesces a collection of basic sets, i.e. basic maps with no input
// dimension. spec.md §9 treats a set as a map whose tuple occupies the
// output dimensions and whose input dimension is zero; Sets is a thin
// adapter over Maps that checks that convention holds for every argument
// rather than silently reinterpreting a map as a set.
func Sets(bsets []*BasicMap, cfg Config) ([]*BasicMap, error) {
	for i, b := range bsets {
		if b.Space.NIn != 0 {
			return nil, &SpaceError{Index: i, Reason: "basic set must have zero input dimensions"}
		}
	}
	return Maps(bsets, cfg), nil
}

// SpaceError reports that an argument to Sets (or a future space-checked
// entry point) did not have the shape it requires.
type SpaceError struct {
	Index  int
	Reason string
}

func (e *SpaceError) Error() string {
	return "coalesce: argument " + strconv.Itoa(e.Index) + ": " + e.Reason
}
