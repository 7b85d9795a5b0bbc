package variant

import "fmt"

// Unite, Intersect, Subtract, Xor and OverwriteValues implement the
// container operators of spec §4.6 ("Containers expose get-by-key/index, set, unite,
// intersect, subtract, xor, overwrite - parameterised by a collision
// policy"). Grounded on original_source/Source/PurC/variant/operators.c,
// whose file-level comment ("The operators of variant") and mixed-type
// comparison ladder this package's Compare mirrors; the five set-algebra
// names themselves come directly from spec §4.6's wording.
//
// Only Unite takes a collision policy; the other operators take none.
//
// OBJECT: keyed by the map key. ARRAY: keyed by value equality (no
// positional key). SET: members are matched by value equality; a keyed
// SET result then applies its key-field uniqueness when it is rebuilt.

func membersOf(v *Value) ([]*Value, func([]*Value) *Value, error) {
	switch v.kind {
	case Array:
		return append([]*Value(nil), v.arr.elems...), func(es []*Value) *Value {
			return ArrayVariant(es...)
		}, nil
	case Set:
		return append([]*Value(nil), v.set_.elems...), func(es []*Value) *Value {
			out := SetVariant(v.set_.keyField)
			for _, e := range es {
				_ = out.set_.Add(e, Overwrite)
			}
			return out
		}, nil
	default:
		return nil, nil, fmt.Errorf("variant: %s does not support set-algebra operators", v.kind)
	}
}

// Unite returns a new container holding every member of a followed by
// every member of b not already present in a (by structural equality,
// or by Object key for OBJECT operands).
func Unite(a, b *Value, policy CollisionPolicy) (*Value, error) {
	if a.kind == Object && b.kind == Object {
		out := NewObject()
		for _, k := range a.obj.keys {
			v, _ := a.obj.Get(k)
			out.Put(k, v)
		}
		for _, k := range b.obj.keys {
			v, _ := b.obj.Get(k)
			if out.Has(k) {
				switch policy {
				case Complain:
					return nil, fmt.Errorf("variant: unite: duplicate key %q", k)
				case Ignore:
					continue
				}
			}
			out.Put(k, v)
		}
		return &Value{kind: Object, obj: out, refs: 1}, nil
	}

	aElems, build, err := membersOf(a)
	if err != nil {
		return nil, err
	}
	bElems, _, err := membersOf(b)
	if err != nil {
		return nil, err
	}
	result := append([]*Value(nil), aElems...)
	for _, be := range bElems {
		if !containsEqual(result, be) {
			result = append(result, be)
		} else if policy == Complain {
			return nil, fmt.Errorf("variant: unite: duplicate member")
		}
	}
	return build(result), nil
}

// Intersect returns a new container holding only members present in both
// a and b.
func Intersect(a, b *Value) (*Value, error) {
	if a.kind == Object && b.kind == Object {
		out := NewObject()
		for _, k := range a.obj.keys {
			av, _ := a.obj.Get(k)
			if bv, ok := b.obj.Get(k); ok && Equal(av, bv) {
				out.Put(k, av)
			}
		}
		return &Value{kind: Object, obj: out, refs: 1}, nil
	}
	aElems, build, err := membersOf(a)
	if err != nil {
		return nil, err
	}
	bElems, _, err := membersOf(b)
	if err != nil {
		return nil, err
	}
	var result []*Value
	for _, ae := range aElems {
		if containsEqual(bElems, ae) {
			result = append(result, ae)
		}
	}
	return build(result), nil
}

// Subtract returns a new container holding members of a not present in b.
func Subtract(a, b *Value) (*Value, error) {
	if a.kind == Object && b.kind == Object {
		out := NewObject()
		for _, k := range a.obj.keys {
			if !b.obj.Has(k) {
				av, _ := a.obj.Get(k)
				out.Put(k, av)
			}
		}
		return &Value{kind: Object, obj: out, refs: 1}, nil
	}
	aElems, build, err := membersOf(a)
	if err != nil {
		return nil, err
	}
	bElems, _, err := membersOf(b)
	if err != nil {
		return nil, err
	}
	var result []*Value
	for _, ae := range aElems {
		if !containsEqual(bElems, ae) {
			result = append(result, ae)
		}
	}
	return build(result), nil
}

// Xor returns the symmetric difference of a and b.
func Xor(a, b *Value) (*Value, error) {
	ab, err := Subtract(a, b)
	if err != nil {
		return nil, err
	}
	ba, err := Subtract(b, a)
	if err != nil {
		return nil, err
	}
	return Unite(ab, ba, Overwrite)
}

// OverwriteValues applies b's members onto a, replacing any that already
// exist (OBJECT: by key; ARRAY/SET: by structural equality) and appending
// the rest. Named OverwriteValues (rather than Overwrite) to avoid
// colliding with the Overwrite CollisionPolicy constant.
func OverwriteValues(a, b *Value) (*Value, error) {
	if a.kind == Object && b.kind == Object {
		out := a.obj.clone()
		for _, k := range b.obj.keys {
			bv, _ := b.obj.Get(k)
			out.Put(k, bv)
		}
		return &Value{kind: Object, obj: out, refs: 1}, nil
	}
	aElems, build, err := membersOf(a)
	if err != nil {
		return nil, err
	}
	bElems, _, err := membersOf(b)
	if err != nil {
		return nil, err
	}
	result := append([]*Value(nil), aElems...)
	for _, be := range bElems {
		replaced := false
		for i, ae := range result {
			if Equal(ae, be) {
				result[i] = be
				replaced = true
				break
			}
		}
		if !replaced {
			result = append(result, be)
		}
	}
	return build(result), nil
}

func containsEqual(haystack []*Value, v *Value) bool {
	for _, e := range haystack {
		if Equal(e, v) {
			return true
		}
	}
	return false
}
