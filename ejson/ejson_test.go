package ejson_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/purc-go/purc/ejson"
	"github.com/purc-go/purc/internal/reader"
	"github.com/purc-go/purc/vcm"
)

func parse(t *testing.T, src string) *vcm.Node {
	t.Helper()
	rd := reader.New(strings.NewReader(src), 0)
	n, err := ejson.New().ParseValue(rd)
	require.NoError(t, err)
	return n
}

func TestParseObjectPreservesMemberOrder(t *testing.T) {
	n := parse(t, `{z: 1, a: 2}`)
	require.Equal(t, vcm.KObject, n.Kind)
	require.Len(t, n.Members, 2)
	assert.Equal(t, "z", n.Members[0].Key.Str)
	assert.Equal(t, "a", n.Members[1].Key.Str)
}

func TestParseArray(t *testing.T) {
	n := parse(t, `[1, 2, 3]`)
	require.Equal(t, vcm.KArray, n.Kind)
	require.Len(t, n.Elements, 3)
	assert.Equal(t, float64(2), n.Elements[1].Num)
}

func TestParseSetWithKeyField(t *testing.T) {
	n := parse(t, `[!id {id: 1}, {id: 2}]`)
	require.Equal(t, vcm.KSet, n.Kind)
	assert.Equal(t, "id", n.SetKey)
	assert.Len(t, n.Elements, 2)
}

func TestParseSetWithoutKeyField(t *testing.T) {
	n := parse(t, `[! 1, 2]`)
	require.Equal(t, vcm.KSet, n.Kind)
	assert.Equal(t, "", n.SetKey)
}

func TestParseStringEscapes(t *testing.T) {
	n := parse(t, `"a\nb"`)
	require.Equal(t, vcm.KString, n.Kind)
	assert.Equal(t, "a\nb", n.Str)
}

func TestParseTripleQuotedStringIsRaw(t *testing.T) {
	n := parse(t, `"""line1\nline2"""`)
	require.Equal(t, vcm.KString, n.Kind)
	assert.Equal(t, `line1\nline2`, n.Str)
}

func TestParseStringInterpolationYieldsConcat(t *testing.T) {
	n := parse(t, `"hello $name!"`)
	require.Equal(t, vcm.KConcatString, n.Kind)
	require.Len(t, n.Elements, 3)
	assert.Equal(t, vcm.KString, n.Elements[0].Kind)
	assert.Equal(t, "hello ", n.Elements[0].Str)
	assert.Equal(t, vcm.KVariable, n.Elements[1].Kind)
	assert.Equal(t, "name", n.Elements[1].Str)
	assert.Equal(t, "!", n.Elements[2].Str)
}

func TestParseNumberSuffixes(t *testing.T) {
	cases := map[string]vcm.Kind{
		"42":     vcm.KNumber,
		"42L":    vcm.KLongInt,
		"42UL":   vcm.KULongInt,
		"3.5FL":  vcm.KLongDouble,
		"9999n":  vcm.KBigInt,
		"-3.5e2": vcm.KNumber,
	}
	for src, want := range cases {
		n := parse(t, src)
		assert.Equalf(t, want, n.Kind, "parsing %q", src)
	}
}

func TestParseKeywords(t *testing.T) {
	assert.Equal(t, vcm.KBoolean, parse(t, "true").Kind)
	assert.Equal(t, vcm.KNull, parse(t, "null").Kind)
	assert.Equal(t, vcm.KUndefined, parse(t, "undefined").Kind)
}

func TestParseByteSequenceHex(t *testing.T) {
	n := parse(t, `bxC0FFEE`)
	require.Equal(t, vcm.KByteSeq, n.Kind)
	assert.Equal(t, []byte{0xC0, 0xFF, 0xEE}, n.Bytes)
}

func TestParseByteSequenceBinary(t *testing.T) {
	n := parse(t, `bb00001010`)
	require.Equal(t, vcm.KByteSeq, n.Kind)
	assert.Equal(t, []byte{0x0A}, n.Bytes)
}

func TestParseByteSequenceBase64(t *testing.T) {
	n := parse(t, `b64aGk=`)
	require.Equal(t, vcm.KByteSeq, n.Kind)
	assert.Equal(t, []byte("hi"), n.Bytes)
}

func TestParseVariableChain(t *testing.T) {
	n := parse(t, `$foo.bar[0](1, 2)`)
	require.Equal(t, vcm.KCallGetter, n.Kind)
	require.Len(t, n.Args, 2)

	idx := n.Parent
	require.Equal(t, vcm.KGetElement, idx.Kind)
	assert.Equal(t, float64(0), idx.KeyN.Num)

	member := idx.Parent
	require.Equal(t, vcm.KGetElement, member.Kind)
	assert.Equal(t, "bar", member.KeyN.Str)

	base := member.Parent
	require.Equal(t, vcm.KVariable, base.Kind)
	assert.Equal(t, "foo", base.Str)
}

func TestParseVariableSetterCall(t *testing.T) {
	n := parse(t, `$foo(!1)`)
	require.Equal(t, vcm.KCallSetter, n.Kind)
	require.Len(t, n.Args, 1)
}

func TestParseCJSONEESequence(t *testing.T) {
	n := parse(t, `{{ true && false || true }}`)
	require.Equal(t, vcm.KCJSONEE, n.Kind)
	require.Len(t, n.Elements, 3)
	require.Equal(t, []vcm.CJSONEEOp{vcm.OpAnd, vcm.OpOr}, n.Ops)
}

func TestParseUntilStopsAtTerminatorAndInterpolates(t *testing.T) {
	rd := reader.New(strings.NewReader(`plain $x text<end`), 0)
	n, err := ejson.New().ParseUntil(rd, func(r rune) bool { return r == '<' })
	require.NoError(t, err)
	require.Equal(t, vcm.KConcatString, n.Kind)
	require.Len(t, n.Elements, 3)
	assert.Equal(t, "plain ", n.Elements[0].Str)
	assert.Equal(t, vcm.KVariable, n.Elements[1].Kind)
	assert.Equal(t, " text", n.Elements[2].Str)

	r, rerr := rd.Read()
	require.NoError(t, rerr)
	assert.Equal(t, '<', r)
}

func TestMaxDepthExceeded(t *testing.T) {
	p := ejson.New(ejson.WithMaxDepth(2))
	rd := reader.New(strings.NewReader(`[[[[1]]]]`), 0)
	_, err := p.ParseValue(rd)
	assert.Error(t, err)
}
