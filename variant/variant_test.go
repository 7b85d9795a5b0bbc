package variant_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/purc-go/purc/variant"
)

func TestObjectPreservesInsertionOrder(t *testing.T) {
	obj := variant.NewObject()
	obj.Put("z", variant.NumberValue(1))
	obj.Put("a", variant.NumberValue(2))
	obj.Put("m", variant.NumberValue(3))

	assert.Equal(t, []string{"z", "a", "m"}, obj.Keys())

	obj.Put("a", variant.NumberValue(42))
	assert.Equal(t, []string{"z", "a", "m"}, obj.Keys(), "overwrite must not move the key")
	v, ok := obj.Get("a")
	require.True(t, ok)
	assert.Equal(t, float64(42), v.NumberVal())
}

func TestSetUniquenessByKeyField(t *testing.T) {
	set := variant.NewKeyedSet("id")
	mk := func(id float64) *variant.Value {
		o := variant.NewObject()
		o.Put("id", variant.NumberValue(id))
		return variantObjectOf(o)
	}

	require.NoError(t, set.Add(mk(1), variant.Complain))
	require.NoError(t, set.Add(mk(2), variant.Complain))
	err := set.Add(mk(1), variant.Complain)
	assert.Error(t, err)
	assert.Equal(t, 2, set.Len())

	require.NoError(t, set.Add(mk(1), variant.Ignore))
	assert.Equal(t, 2, set.Len())
}

func TestSetUniquenessByStructuralEquality(t *testing.T) {
	set := variant.NewSet()
	require.NoError(t, set.Add(variant.StringValue("a"), variant.Complain))
	require.NoError(t, set.Add(variant.StringValue("b"), variant.Complain))
	err := set.Add(variant.StringValue("a"), variant.Complain)
	assert.Error(t, err)
	assert.Equal(t, 2, set.Len())
}

func TestCompareMixedNumericKinds(t *testing.T) {
	assert.Equal(t, 0, variant.Compare(variant.LongIntValue(5), variant.NumberValue(5)))
	assert.Equal(t, -1, variant.Compare(variant.NumberValue(1), variant.ULongIntValue(2)))
	assert.Equal(t, 1, variant.Compare(variant.ULongIntValue(9), variant.NumberValue(3)))
}

func TestUniteObjectsRespectsCollisionPolicy(t *testing.T) {
	a := variant.NewObject()
	a.Put("x", variant.NumberValue(1))
	b := variant.NewObject()
	b.Put("x", variant.NumberValue(2))
	b.Put("y", variant.NumberValue(3))

	av := variantObjectOf(a)
	bv := variantObjectOf(b)

	_, err := variant.Unite(av, bv, variant.Complain)
	assert.Error(t, err)

	merged, err := variant.Unite(av, bv, variant.Ignore)
	require.NoError(t, err)
	x, _ := merged.ObjectVal().Get("x")
	assert.Equal(t, float64(1), x.NumberVal(), "ignore policy keeps a's value")
	assert.Equal(t, 2, merged.ObjectVal().Len())
}

func TestOverwriteValuesReplacesExistingArrayMembers(t *testing.T) {
	a := variant.ArrayVariant(variant.NumberValue(1), variant.NumberValue(2))
	b := variant.ArrayVariant(variant.NumberValue(2), variant.NumberValue(3))

	out, err := variant.OverwriteValues(a, b)
	require.NoError(t, err)
	assert.Equal(t, 3, out.ArrayVal().Len())
}

func variantObjectOf(o *variant.ObjectValue) *variant.Value {
	v := variant.ObjectVariant()
	for _, k := range o.Keys() {
		val, _ := o.Get(k)
		v.ObjectVal().Put(k, val)
	}
	return v
}
