package variant

import "fmt"

// ArrayValue is an ordered sequence, 0-indexed; spec §3 forbids negative
// indices at the model level ("ARRAY indices are 0..length; negative
// indices not permitted by the model").
type ArrayValue struct {
	elems []*Value
	listenerSet
}

func NewArray() *ArrayValue {
	return &ArrayValue{}
}

func ArrayVariant(elems ...*Value) *Value {
	return &Value{kind: Array, arr: &ArrayValue{elems: elems}, refs: 1}
}

func (a *ArrayValue) Len() int { return len(a.elems) }

func (a *ArrayValue) Get(i int) (*Value, bool) {
	if i < 0 || i >= len(a.elems) {
		return nil, false
	}
	return a.elems[i], true
}

// Append adds val at the end.
func (a *ArrayValue) Append(val *Value) {
	a.elems = append(a.elems, val)
	a.fire(Change{Type: ChangeAdd, Key: NumberValue(float64(len(a.elems) - 1)), NewValue: val})
}

// Set overwrites the element at i; i must be within [0, Len()).
func (a *ArrayValue) Set(i int, val *Value) error {
	if i < 0 || i >= len(a.elems) {
		return fmt.Errorf("variant: array index %d out of range (len %d)", i, len(a.elems))
	}
	old := a.elems[i]
	a.elems[i] = val
	a.fire(Change{Type: ChangeUpdate, Key: NumberValue(float64(i)), OldValue: old, NewValue: val})
	return nil
}

func (a *ArrayValue) Elements() []*Value { return a.elems }

func (a *ArrayValue) clone() *ArrayValue {
	dup := make([]*Value, len(a.elems))
	for i, e := range a.elems {
		dup[i] = e.Clone()
	}
	return &ArrayValue{elems: dup}
}

func (a *ArrayValue) String() string {
	return fmt.Sprintf("array(%d elements)", a.Len())
}
