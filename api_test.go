package coalesce

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMapsDefaultConfigCoalescesAdjacentBoxes(t *testing.T) {
	out := Maps([]*BasicMap{boxBasicMap(0, 5), boxBasicMap(6, 6)}, Config{})
	assert.Len(t, out, 1)
}

func TestMapsWithMiddlewareAndLogBothObserve(t *testing.T) {
	log := NewDecisionLog()
	var recorded int
	mw := recordingMiddleware{onChecked: func(*BasicMap, *BasicMap, Change) { recorded++ }}

	Maps([]*BasicMap{boxBasicMap(0, 5), boxBasicMap(100, 105)}, Config{Middleware: mw, Log: log})

	assert.Equal(t, 1, recorded, "the explicit middleware must observe the one pair")
	assert.Len(t, log.entries, 1, "the decision log must independently observe the same pair")
}

func TestMapsUnboundedWrappingStillCoalescesOrdinaryInput(t *testing.T) {
	out := Maps([]*BasicMap{boxBasicMap(0, 5), boxBasicMap(6, 6)}, Config{UnboundedWrapping: true})
	assert.Len(t, out, 1, "disabling the wrap growth bound must not prevent an ordinary adjacency fuse")
}

func TestConfigMiddlewareDefaultsToDummy(t *testing.T) {
	cfg := Config{}
	mw := cfg.middleware()
	_, isDummy := mw.(dummyMiddleware)
	assert.True(t, isDummy)
}

func TestSetsRejectsNonZeroInputDimension(t *testing.T) {
	bad := NewBasicMap(Space{NOut: 1, NIn: 1}, 0, 0, 0)
	_, err := Sets([]*BasicMap{boxBasicMap(0, 5), bad}, Config{})
	assert.Error(t, err)

	var spaceErr *SpaceError
	assert.ErrorAs(t, err, &spaceErr)
	assert.Equal(t, 1, spaceErr.Index)
}

func TestSetsAcceptsZeroInputDimension(t *testing.T) {
	out, err := Sets([]*BasicMap{boxBasicMap(0, 5), boxBasicMap(6, 6)}, Config{})
	assert.NoError(t, err)
	assert.Len(t, out, 1)
}

func TestSpaceErrorMessage(t *testing.T) {
	err := &SpaceError{Index: 2, Reason: "basic set must have zero input dimensions"}
	assert.Equal(t, "coalesce: argument 2: basic set must have zero input dimensions", err.Error())
}
