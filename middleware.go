package coalesce

// Middleware observes the decision made for every pair of basic maps the
// driver examines, independent of the coalescing result itself. Mirrors
// jjhbw-GoMILP's BnbMiddleware: a pluggable observation seam a caller can
// use for tracing, metrics, or visualisation without the core algorithm
// knowing anything about it.
type Middleware interface {
	OnPairChecked(i, j *BasicMap, change Change)
}

// dummyMiddleware discards every observation; it is the default when a
// caller does not supply one, the same role jjhbw-GoMILP's
// dummyMiddleware plays for Problem.Solve.
type dummyMiddleware struct{}

func (dummyMiddleware) OnPairChecked(*BasicMap, *BasicMap, Change) {}
