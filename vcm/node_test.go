package vcm_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/purc-go/purc/internal/source"
	"github.com/purc-go/purc/vcm"
)

func TestKindStringNamesEveryConstant(t *testing.T) {
	assert.Equal(t, "string", vcm.KString.String())
	assert.Equal(t, "cjsonee", vcm.KCJSONEE.String())
	for k := vcm.KUndefined; k <= vcm.KCJSONEE; k++ {
		assert.NotEqual(t, "unknown", k.String(), "kind %d", int(k))
	}
}

func TestKindStringUnknownFallsBack(t *testing.T) {
	var k vcm.Kind = 999
	assert.Equal(t, "unknown", k.String())
}

func TestWithPosAttachesPositionAndReturnsSelf(t *testing.T) {
	n := vcm.String("hi")
	pos := source.Position{Line: 4, Col: 2}

	got := n.WithPos(pos)
	assert.Same(t, n, got)
	assert.Equal(t, pos, n.Pos)
}

func TestSimplifyCollapsesEmptyConcatStringToEmptyString(t *testing.T) {
	n := vcm.ConcatString(nil)
	simplified := n.Simplify()
	assert.Equal(t, vcm.KString, simplified.Kind)
	assert.Equal(t, "", simplified.Str)
}

func TestSimplifyCollapsesSingleStringChild(t *testing.T) {
	child := vcm.String("hello")
	n := vcm.ConcatString([]*vcm.Node{child})

	assert.Same(t, child, n.Simplify())
}

func TestSimplifyLeavesMultiElementConcatStringUnchanged(t *testing.T) {
	n := vcm.ConcatString([]*vcm.Node{vcm.String("a"), vcm.Variable("x")})
	assert.Same(t, n, n.Simplify())
}

func TestSimplifyLeavesSingleNonStringChildUnchanged(t *testing.T) {
	n := vcm.ConcatString([]*vcm.Node{vcm.Variable("x")})
	assert.Same(t, n, n.Simplify())
}

func TestSimplifyIgnoresNonConcatStringKinds(t *testing.T) {
	n := vcm.Number(3.14)
	assert.Same(t, n, n.Simplify())
}
