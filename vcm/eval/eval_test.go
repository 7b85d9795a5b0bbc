package eval_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/purc-go/purc/variant"
	"github.com/purc-go/purc/vcm"
	"github.com/purc-go/purc/vcm/eval"
)

func TestEvaluateConstantKinds(t *testing.T) {
	e := eval.New(nil, false)

	v, err := e.Evaluate(vcm.Bool(true), nil)
	require.NoError(t, err)
	assert.Equal(t, variant.Boolean, v.Kind())
	assert.True(t, v.Bool())

	v, err = e.Evaluate(vcm.ULongInt(0), nil)
	require.NoError(t, err)
	assert.Equal(t, variant.ULongInt, v.Kind())
	assert.Equal(t, uint64(0), v.Uint64())

	v, err = e.Evaluate(vcm.String("hi"), nil)
	require.NoError(t, err)
	assert.Equal(t, "hi", v.StringVal())
}

func TestEvaluateObjectPreservesOrderAndComputesKeys(t *testing.T) {
	e := eval.New(nil, false)
	obj := vcm.Object([]vcm.KeyValue{
		{Key: vcm.String("z"), Value: vcm.Number(1)},
		{Key: vcm.String("a"), Value: vcm.Number(2)},
	})
	v, err := e.Evaluate(obj, nil)
	require.NoError(t, err)
	assert.Equal(t, []string{"z", "a"}, v.ObjectVal().Keys())
}

func TestEvaluateArrayAndTuple(t *testing.T) {
	e := eval.New(nil, false)
	arr, err := e.Evaluate(vcm.Array([]*vcm.Node{vcm.Number(1), vcm.Number(2)}), nil)
	require.NoError(t, err)
	assert.Equal(t, 2, arr.ArrayVal().Len())

	tup, err := e.Evaluate(vcm.Tuple([]*vcm.Node{vcm.Number(1), vcm.String("a")}), nil)
	require.NoError(t, err)
	assert.Len(t, tup.TupleVal(), 2)
}

func TestEvaluateSetOverwritesDuplicateKeyField(t *testing.T) {
	e := eval.New(nil, false)
	mk := func(id float64) *vcm.Node {
		return vcm.Object([]vcm.KeyValue{{Key: vcm.String("id"), Value: vcm.Number(id)}})
	}
	v, err := e.Evaluate(vcm.Set("id", []*vcm.Node{mk(1), mk(1)}), nil)
	require.NoError(t, err)
	assert.Equal(t, 1, v.SetVal().Len())
}

func TestEvaluateConcatStringJoinsStringifiedParts(t *testing.T) {
	e := eval.New(nil, false)
	n := vcm.ConcatString([]*vcm.Node{vcm.String("count: "), vcm.Number(3)})
	v, err := e.Evaluate(n, nil)
	require.NoError(t, err)
	assert.Equal(t, "count: 3", v.StringVal())
}

func TestEvaluateVariableLookup(t *testing.T) {
	lookup := func(ctx any, name string) (*variant.Value, bool) {
		if name == "name" {
			return variant.StringValue("world"), true
		}
		return nil, false
	}
	e := eval.New(lookup, false)
	v, err := e.Evaluate(vcm.Variable("name"), nil)
	require.NoError(t, err)
	assert.Equal(t, "world", v.StringVal())
}

func TestEvaluateUndefinedVariableErrorsUnlessSilent(t *testing.T) {
	e := eval.New(func(any, string) (*variant.Value, bool) { return nil, false }, false)
	_, err := e.Evaluate(vcm.Variable("missing"), nil)
	assert.Error(t, err)

	silent := eval.New(func(any, string) (*variant.Value, bool) { return nil, false }, true)
	v, err := silent.Evaluate(vcm.Variable("missing"), nil)
	require.NoError(t, err)
	assert.Equal(t, variant.Undefined, v.Kind())
}

func TestEvaluateGetElementOnObjectAndArray(t *testing.T) {
	e := eval.New(nil, false)

	obj := vcm.Object([]vcm.KeyValue{{Key: vcm.String("a"), Value: vcm.Number(7)}})
	v, err := e.Evaluate(vcm.GetElement(obj, vcm.String("a")), nil)
	require.NoError(t, err)
	assert.Equal(t, float64(7), v.NumberVal())

	arr := vcm.Array([]*vcm.Node{vcm.String("x"), vcm.String("y")})
	v, err = e.Evaluate(vcm.GetElement(arr, vcm.Number(1)), nil)
	require.NoError(t, err)
	assert.Equal(t, "y", v.StringVal())
}

func TestEvaluateGetElementMissingKeyYieldsUndefined(t *testing.T) {
	e := eval.New(nil, false)
	obj := vcm.Object(nil)
	v, err := e.Evaluate(vcm.GetElement(obj, vcm.String("missing")), nil)
	require.NoError(t, err)
	assert.Equal(t, variant.Undefined, v.Kind())
}

func TestEvaluateCJSONEEShortCircuitsOnAnd(t *testing.T) {
	e := eval.New(nil, false)
	n := vcm.CJSONEE(
		[]*vcm.Node{vcm.Bool(false), vcm.Number(99)},
		[]vcm.CJSONEEOp{vcm.OpAnd},
	)
	v, err := e.Evaluate(n, nil)
	require.NoError(t, err)
	assert.Equal(t, variant.Boolean, v.Kind())
	assert.False(t, v.Bool())
}

func TestEvaluateCJSONEEOrSkipsWhenTruthy(t *testing.T) {
	e := eval.New(nil, false)
	n := vcm.CJSONEE(
		[]*vcm.Node{vcm.Number(1), vcm.Number(99)},
		[]vcm.CJSONEEOp{vcm.OpOr},
	)
	v, err := e.Evaluate(n, nil)
	require.NoError(t, err)
	assert.Equal(t, float64(1), v.NumberVal())
}

func TestEvaluateCJSONEESemicolonAlwaysProceeds(t *testing.T) {
	e := eval.New(nil, false)
	n := vcm.CJSONEE(
		[]*vcm.Node{vcm.Number(1), vcm.Number(2)},
		[]vcm.CJSONEEOp{vcm.OpSemi},
	)
	v, err := e.Evaluate(n, nil)
	require.NoError(t, err)
	assert.Equal(t, float64(2), v.NumberVal())
}

func TestEvaluateCallGetterOnNativeValue(t *testing.T) {
	e := eval.New(nil, false)
	native := variant.NativeValue(42, &variant.NativeOps{
		Call: func(entity any, args []*variant.Value) (*variant.Value, error) {
			return variant.NumberValue(float64(entity.(int)) + args[0].NumberVal()), nil
		},
	})
	parentCtx := vcm.Variable("dev")
	lookup := func(any, string) (*variant.Value, bool) { return native, true }
	e.Lookup = lookup

	n := vcm.CallGetter(parentCtx, []*vcm.Node{vcm.Number(8)})
	v, err := e.Evaluate(n, nil)
	require.NoError(t, err)
	assert.Equal(t, float64(50), v.NumberVal())
}

func TestEvaluateGetAttributeRequiresNativeValue(t *testing.T) {
	e := eval.New(nil, false)
	_, err := e.Evaluate(vcm.GetAttribute(vcm.Number(1), vcm.String("x")), nil)
	assert.Error(t, err)
}

func TestEvaluateNilNodeYieldsUndefined(t *testing.T) {
	e := eval.New(nil, false)
	v, err := e.Evaluate(nil, nil)
	require.NoError(t, err)
	assert.Equal(t, variant.Undefined, v.Kind())
}
