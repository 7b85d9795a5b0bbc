// Package variant implements the tagged runtime value described in spec
// §3/§4.6 (component C4): the VCM evaluator's output type, and the
// representation used for attribute and content values once evaluated.
//
// The OBJECT container is adapted directly from the teacher's OrderedMap
// (go-xml/xml/map.go): same "slice of keys plus map for O(1) lookup" shape,
// generalized to store *Value instead of `any` and to preserve insertion
// order per spec §3 ("OBJECT keys are strings; insertion order is
// observable").
package variant

import (
	"fmt"
	"math/big"
	"sync/atomic"

	"github.com/purc-go/purc/internal/atom"
)

// Kind discriminates the tagged union of spec §3.
type Kind int

const (
	Undefined Kind = iota
	Null
	Boolean
	Exception
	Number
	LongInt
	ULongInt
	LongDouble
	BigInt
	AtomString
	String
	ByteSeq
	Dynamic
	Native
	Object
	Array
	Set
	Tuple
)

func (k Kind) String() string {
	switch k {
	case Undefined:
		return "undefined"
	case Null:
		return "null"
	case Boolean:
		return "boolean"
	case Exception:
		return "exception"
	case Number:
		return "number"
	case LongInt:
		return "longint"
	case ULongInt:
		return "ulongint"
	case LongDouble:
		return "longdouble"
	case BigInt:
		return "bigint"
	case AtomString:
		return "atomstring"
	case String:
		return "string"
	case ByteSeq:
		return "byte-sequence"
	case Dynamic:
		return "dynamic"
	case Native:
		return "native"
	case Object:
		return "object"
	case Array:
		return "array"
	case Set:
		return "set"
	case Tuple:
		return "tuple"
	}
	return "unknown"
}

// Getter and Setter back a DYNAMIC variant (spec §3: "DYNAMIC(getter,
// setter)").
type Getter func(args []*Value) (*Value, error)
type Setter func(args []*Value) (*Value, error)

// NativeOps is the vtable a NATIVE entity is dispatched through (spec
// §4.5's GET-ELEMENT/GET-ATTRIBUTE/CALL-GETTER/CALL-SETTER contract).
// A nil method means "not supported" and evaluating against it is an
// error.
type NativeOps struct {
	// PropertyGetter backs the GET-ELEMENT property-chain dispatch (spec
	// §4.5: "NATIVE: dispatch to property_getter(entity, key)").
	PropertyGetter func(entity any, key string) (*Value, error)
	// PropertySetter backs CALL-SETTER when the call target came from a
	// property access.
	PropertySetter func(entity any, key string, val *Value) error
	// AttributeGetter backs GET-ATTRIBUTE, which spec §4.5 calls out as
	// consulting "the NATIVE vtable's attribute slot separately" rather
	// than reusing PropertyGetter.
	AttributeGetter func(entity any, key string) (*Value, error)
	// Call backs CALL-GETTER against a native entity that represents a
	// callable (as opposed to a DYNAMIC variant).
	Call func(entity any, args []*Value) (*Value, error)
	// OnRelease is invoked when the variant's ref-count drops to zero; it
	// is the hook that breaks NATIVE back-reference cycles (spec §3, §9).
	OnRelease func(entity any)
	// TypeName names the native entity kind for diagnostics (e.g. "TIMERS").
	TypeName string
}

// Value is the tagged runtime value. Ref-counting fields mirror the
// original's explicit retain/release contract (spec §4.6): Go's GC makes
// this unnecessary for memory safety, but NATIVE's OnRelease hook is part
// of the observable contract (breaking back-reference cycles at the
// moment a native object becomes unreachable to HVML code), so the count
// is kept and driven explicitly rather than left to finalizers.
type Value struct {
	kind Kind
	refs int32

	b      bool
	num    float64
	i64    int64
	u64    uint64
	ld     float64 // LONGDOUBLE stored as float64; widened to big.Float on demand
	bigint *big.Int
	atomID uint32
	str    string
	bytes  []byte
	get    Getter
	set    Setter
	native any
	ops    *NativeOps

	obj   *ObjectValue
	arr   *ArrayValue
	set_  *SetValue
	tuple []*Value

	exceptionAtom uint32
}

var (
	undefinedSingleton = &Value{kind: Undefined, refs: 1}
	nullSingleton       = &Value{kind: Null, refs: 1}
	trueSingleton        = &Value{kind: Boolean, b: true, refs: 1}
	falseSingleton       = &Value{kind: Boolean, b: false, refs: 1}
)

// UndefinedValue, NullValue, TrueValue and FalseValue return the four
// process-wide singletons of spec §3.
func UndefinedValue() *Value { return undefinedSingleton }
func NullValue() *Value      { return nullSingleton }
func TrueValue() *Value      { return trueSingleton }
func FalseValue() *Value     { return falseSingleton }

func BoolValue(b bool) *Value {
	if b {
		return trueSingleton
	}
	return falseSingleton
}

func NumberValue(f float64) *Value         { return &Value{kind: Number, num: f, refs: 1} }
func LongIntValue(i int64) *Value          { return &Value{kind: LongInt, i64: i, refs: 1} }
func ULongIntValue(u uint64) *Value        { return &Value{kind: ULongInt, u64: u, refs: 1} }
func LongDoubleValue(f float64) *Value     { return &Value{kind: LongDouble, ld: f, refs: 1} }
func BigIntValue(b *big.Int) *Value        { return &Value{kind: BigInt, bigint: b, refs: 1} }
func StringValue(s string) *Value          { return &Value{kind: String, str: s, refs: 1} }
func ByteSeqValue(b []byte) *Value         { return &Value{kind: ByteSeq, bytes: b, refs: 1} }
func ExceptionValue(atomID uint32) *Value  { return &Value{kind: Exception, exceptionAtom: atomID, refs: 1} }

// AtomStringValue interns s in the default atom table and returns an
// ATOMSTRING variant (spec §3).
func AtomStringValue(s string) *Value {
	return &Value{kind: AtomString, atomID: atom.Default.AtomFor(s), str: s, refs: 1}
}

func DynamicValue(get Getter, set Setter) *Value {
	return &Value{kind: Dynamic, get: get, set: set, refs: 1}
}

// NativeValue wraps entity with ops. When ops is released for the last
// time (refcount reaches zero) ops.OnRelease(entity) runs, if set.
func NativeValue(entity any, ops *NativeOps) *Value {
	return &Value{kind: Native, native: entity, ops: ops, refs: 1}
}

func (v *Value) Kind() Kind { return v.kind }

// Ref increments the reference count and returns v, mirroring the
// original's retain semantics.
func (v *Value) Ref() *Value {
	atomic.AddInt32(&v.refs, 1)
	return v
}

// Unref decrements the reference count; at zero, a NATIVE value's
// OnRelease hook runs (breaking any back-reference cycle, spec §9).
func (v *Value) Unref() {
	if atomic.AddInt32(&v.refs, -1) == 0 {
		if v.kind == Native && v.ops != nil && v.ops.OnRelease != nil {
			v.ops.OnRelease(v.native)
		}
	}
}

// TypeName returns the variant's kind name, as would be surfaced to an
// HVML program introspecting a value.
func (v *Value) TypeName() string {
	if v.kind == Native && v.ops != nil && v.ops.TypeName != "" {
		return v.ops.TypeName
	}
	return v.kind.String()
}

func (v *Value) Bool() bool          { return v.b }
func (v *Value) NumberVal() float64  { return v.num }
func (v *Value) Int64() int64        { return v.i64 }
func (v *Value) Uint64() uint64      { return v.u64 }
func (v *Value) LongDoubleVal() float64 { return v.ld }
func (v *Value) BigInt() *big.Int    { return v.bigint }
func (v *Value) StringVal() string   { return v.str }
func (v *Value) Bytes() []byte       { return v.bytes }
func (v *Value) AtomID() uint32      { return v.atomID }
func (v *Value) Native() any         { return v.native }
func (v *Value) NativeOps() *NativeOps { return v.ops }
func (v *Value) ObjectVal() *ObjectValue { return v.obj }
func (v *Value) ArrayVal() *ArrayValue   { return v.arr }
func (v *Value) SetVal() *SetValue       { return v.set_ }
func (v *Value) TupleVal() []*Value      { return v.tuple }

// Getters/Setters for DYNAMIC.
func (v *Value) CallGetter(args []*Value) (*Value, error) {
	if v.get == nil {
		return nil, fmt.Errorf("variant: value has no getter")
	}
	return v.get(args)
}

func (v *Value) CallSetter(args []*Value) (*Value, error) {
	if v.set == nil {
		return nil, fmt.Errorf("variant: value has no setter")
	}
	return v.set(args)
}

// Clone performs a shallow-to-deep copy appropriate to the kind: scalars
// are copied by value, containers are deep-cloned element-wise, NATIVE and
// DYNAMIC are copied by reference (they are collaborator handles, not
// owned data).
func (v *Value) Clone() *Value {
	switch v.kind {
	case Object:
		return &Value{kind: Object, obj: v.obj.clone(), refs: 1}
	case Array:
		return &Value{kind: Array, arr: v.arr.clone(), refs: 1}
	case Set:
		return &Value{kind: Set, set_: v.set_.clone(), refs: 1}
	case Tuple:
		dup := make([]*Value, len(v.tuple))
		for i, e := range v.tuple {
			dup[i] = e.Clone()
		}
		return &Value{kind: Tuple, tuple: dup, refs: 1}
	default:
		cp := *v
		cp.refs = 1
		return &cp
	}
}

func TupleValue(elems []*Value) *Value {
	return &Value{kind: Tuple, tuple: elems, refs: 1}
}
