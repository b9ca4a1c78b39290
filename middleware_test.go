package coalesce

import "testing"

func TestDummyMiddlewareDiscardsObservations(t *testing.T) {
	// dummyMiddleware must be safely callable with any arguments and do
	// nothing observable; this test exists only to guard against a future
	// change accidentally making it panic or require non-nil basic maps.
	var mw Middleware = dummyMiddleware{}
	mw.OnPairChecked(boxBasicMap(0, 5), boxBasicMap(10, 15), ChangeNone)
	mw.OnPairChecked(nil, nil, ChangeFuse)
}
