// Package eval implements the VCM evaluator of spec §4.5 (component C10):
// it walks a vcm.Node tree against a variable-lookup callback and produces
// a variant.Value.
//
// Package-split convention (vcm holds the tree, vcm/eval holds the walker)
// follows mineiros-io-terramate's hcl / hcl/eval split
// (hcl/eval/partial.go separates "the expression tree" from "evaluating
// it against a context"); the evaluator body itself is original to this
// node kind set; there is no hclsyntax-level logic to reuse since HCL's
// expression grammar differs from JSONEE's.
package eval

import (
	"fmt"
	"strconv"

	"github.com/purc-go/purc/internal/errs"
	"github.com/purc-go/purc/vcm"
	"github.com/purc-go/purc/variant"
)

// Lookup resolves a VARIABLE node's name against ctx, returning (nil,
// false) when undefined (spec §4.5).
type Lookup func(ctx any, name string) (*variant.Value, bool)

// MaxDepth bounds recursion depth so a pathological tree raises
// MAX_DEPTH_EXCEEDED instead of exhausting the goroutine stack. The
// original evaluator is "iterative in spirit" to avoid unbounded *native*
// (C) stack use (spec §4.5); Go's goroutine stacks grow automatically, so
// a depth-bounded recursive walk gives the same observable guarantee
// (bounded resource use, no silent runaway) without hand-rolling an
// explicit worklist.
const MaxDepth = 4096

// Evaluator evaluates VCM trees against a fixed lookup function. Each
// Evaluate call is independent of any other (no shared mutable state), so
// re-entrant calls from a native callback evaluating a sub-expression
// (spec §4.5: "Re-entrancy ... is permitted") simply nest as ordinary Go
// calls.
type Evaluator struct {
	Lookup Lookup
	// Silent, when true, makes an undefined VARIABLE evaluate to
	// UNDEFINED instead of raising UNDEFINED_VARIABLE (spec §4.5's
	// silent_on_error).
	Silent bool
}

func New(lookup Lookup, silent bool) *Evaluator {
	return &Evaluator{Lookup: lookup, Silent: silent}
}

// Evaluate walks root against ctx and returns the resulting variant.
func (e *Evaluator) Evaluate(root *vcm.Node, ctx any) (*variant.Value, error) {
	return e.eval(root, ctx, 0)
}

func (e *Evaluator) eval(n *vcm.Node, ctx any, depth int) (*variant.Value, error) {
	if n == nil {
		return variant.UndefinedValue(), nil
	}
	if depth > MaxDepth {
		return nil, errs.New(errs.MaxDepthExceeded, n.Pos, "VCM evaluation nesting too deep")
	}

	switch n.Kind {
	case vcm.KUndefined:
		return variant.UndefinedValue(), nil
	case vcm.KNull:
		return variant.NullValue(), nil
	case vcm.KBoolean:
		return variant.BoolValue(n.Bool), nil
	case vcm.KNumber:
		return variant.NumberValue(n.Num), nil
	case vcm.KLongInt:
		return variant.LongIntValue(n.I64), nil
	case vcm.KULongInt:
		return variant.ULongIntValue(n.U64), nil
	case vcm.KLongDouble:
		return variant.LongDoubleValue(n.LD), nil
	case vcm.KBigInt:
		return variant.BigIntValue(n.Big), nil
	case vcm.KString:
		return variant.StringValue(n.Str), nil
	case vcm.KByteSeq:
		return variant.ByteSeqValue(n.Bytes), nil
	case vcm.KAtomString:
		return variant.AtomStringValue(n.Str), nil

	case vcm.KObject:
		return e.evalObject(n, ctx, depth)
	case vcm.KArray:
		return e.evalArray(n, ctx, depth)
	case vcm.KSet:
		return e.evalSet(n, ctx, depth)
	case vcm.KTuple:
		return e.evalTuple(n, ctx, depth)
	case vcm.KConcatString:
		return e.evalConcatString(n, ctx, depth)

	case vcm.KVariable:
		return e.evalVariable(n, ctx)
	case vcm.KGetElement:
		return e.evalGetElement(n, ctx, depth)
	case vcm.KGetAttribute:
		return e.evalGetAttribute(n, ctx, depth)
	case vcm.KCallGetter:
		return e.evalCallGetter(n, ctx, depth)
	case vcm.KCallSetter:
		return e.evalCallSetter(n, ctx, depth)
	case vcm.KCJSONEE:
		return e.evalCJSONEE(n, ctx, depth)
	}
	return nil, fmt.Errorf("vcm/eval: unknown node kind %v", n.Kind)
}

func (e *Evaluator) evalObject(n *vcm.Node, ctx any, depth int) (*variant.Value, error) {
	result := variant.ObjectVariant()
	for _, kv := range n.Members {
		kVal, err := e.eval(kv.Key, ctx, depth+1)
		if err != nil {
			return nil, err
		}
		vVal, err := e.eval(kv.Value, ctx, depth+1)
		if err != nil {
			return nil, err
		}
		result.ObjectVal().Put(kVal.Stringify(), vVal)
	}
	return result, nil
}

func (e *Evaluator) evalArray(n *vcm.Node, ctx any, depth int) (*variant.Value, error) {
	elems := make([]*variant.Value, 0, len(n.Elements))
	for _, el := range n.Elements {
		v, err := e.eval(el, ctx, depth+1)
		if err != nil {
			return nil, err
		}
		elems = append(elems, v)
	}
	return variant.ArrayVariant(elems...), nil
}

func (e *Evaluator) evalSet(n *vcm.Node, ctx any, depth int) (*variant.Value, error) {
	out := variant.SetVariant(n.SetKey)
	for _, el := range n.Elements {
		v, err := e.eval(el, ctx, depth+1)
		if err != nil {
			return nil, err
		}
		if err := out.SetVal().Add(v, variant.Overwrite); err != nil {
			return nil, err
		}
	}
	return out, nil
}

func (e *Evaluator) evalTuple(n *vcm.Node, ctx any, depth int) (*variant.Value, error) {
	elems := make([]*variant.Value, 0, len(n.Elements))
	for _, el := range n.Elements {
		v, err := e.eval(el, ctx, depth+1)
		if err != nil {
			return nil, err
		}
		elems = append(elems, v)
	}
	return variant.TupleValue(elems), nil
}

func (e *Evaluator) evalConcatString(n *vcm.Node, ctx any, depth int) (*variant.Value, error) {
	var sb []byte
	for _, el := range n.Elements {
		v, err := e.eval(el, ctx, depth+1)
		if err != nil {
			return nil, err
		}
		sb = append(sb, v.Stringify()...)
	}
	return variant.StringValue(string(sb)), nil
}

func (e *Evaluator) evalVariable(n *vcm.Node, ctx any) (*variant.Value, error) {
	if e.Lookup != nil {
		if v, ok := e.Lookup(ctx, n.Str); ok {
			return v, nil
		}
	}
	if e.Silent {
		return variant.UndefinedValue(), nil
	}
	return nil, errs.New(errs.UndefinedVariable, n.Pos, fmt.Sprintf("undefined variable %q", n.Str))
}

func (e *Evaluator) evalGetElement(n *vcm.Node, ctx any, depth int) (*variant.Value, error) {
	parent, err := e.eval(n.Parent, ctx, depth+1)
	if err != nil {
		return nil, err
	}
	key, err := e.eval(n.KeyN, ctx, depth+1)
	if err != nil {
		return nil, err
	}
	switch parent.Kind() {
	case variant.Object:
		v, ok := parent.ObjectVal().Get(key.Stringify())
		if !ok {
			return variant.UndefinedValue(), nil
		}
		return v, nil
	case variant.Array:
		idx, err := coerceInt(key)
		if err != nil {
			return nil, err
		}
		v, ok := parent.ArrayVal().Get(idx)
		if !ok {
			return variant.UndefinedValue(), nil
		}
		return v, nil
	case variant.Native:
		ops := parent.NativeOps()
		if ops == nil || ops.PropertyGetter == nil {
			return nil, fmt.Errorf("vcm/eval: native value %q has no property getter", parent.TypeName())
		}
		return ops.PropertyGetter(parent.Native(), key.Stringify())
	default:
		return nil, fmt.Errorf("vcm/eval: cannot index into %s", parent.TypeName())
	}
}

func (e *Evaluator) evalGetAttribute(n *vcm.Node, ctx any, depth int) (*variant.Value, error) {
	parent, err := e.eval(n.Parent, ctx, depth+1)
	if err != nil {
		return nil, err
	}
	key, err := e.eval(n.KeyN, ctx, depth+1)
	if err != nil {
		return nil, err
	}
	if parent.Kind() != variant.Native {
		return nil, fmt.Errorf("vcm/eval: GET-ATTRIBUTE requires a native value, got %s", parent.TypeName())
	}
	ops := parent.NativeOps()
	if ops == nil || ops.AttributeGetter == nil {
		return nil, fmt.Errorf("vcm/eval: native value %q has no attribute getter", parent.TypeName())
	}
	return ops.AttributeGetter(parent.Native(), key.Stringify())
}

func (e *Evaluator) evalArgs(args []*vcm.Node, ctx any, depth int) ([]*variant.Value, error) {
	out := make([]*variant.Value, 0, len(args))
	for _, a := range args {
		v, err := e.eval(a, ctx, depth+1)
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, nil
}

func (e *Evaluator) evalCallGetter(n *vcm.Node, ctx any, depth int) (*variant.Value, error) {
	parent, err := e.eval(n.Parent, ctx, depth+1)
	if err != nil {
		return nil, err
	}
	args, err := e.evalArgs(n.Args, ctx, depth)
	if err != nil {
		return nil, err
	}
	switch parent.Kind() {
	case variant.Dynamic:
		return parent.CallGetter(args)
	case variant.Native:
		ops := parent.NativeOps()
		if ops == nil || ops.Call == nil {
			return nil, fmt.Errorf("vcm/eval: native value %q is not callable", parent.TypeName())
		}
		return ops.Call(parent.Native(), args)
	default:
		return nil, fmt.Errorf("vcm/eval: cannot call getter on %s", parent.TypeName())
	}
}

func (e *Evaluator) evalCallSetter(n *vcm.Node, ctx any, depth int) (*variant.Value, error) {
	parent, err := e.eval(n.Parent, ctx, depth+1)
	if err != nil {
		return nil, err
	}
	args, err := e.evalArgs(n.Args, ctx, depth)
	if err != nil {
		return nil, err
	}
	switch parent.Kind() {
	case variant.Dynamic:
		return parent.CallSetter(args)
	case variant.Native:
		ops := parent.NativeOps()
		if ops == nil || ops.PropertySetter == nil {
			return nil, fmt.Errorf("vcm/eval: native value %q has no setter", parent.TypeName())
		}
		if len(args) == 0 {
			return nil, fmt.Errorf("vcm/eval: CALL-SETTER requires at least a value argument")
		}
		// The property key is always the first argument, stringified;
		// the value is the second argument, or the first one again when
		// only one is given. The key of a GET-ELEMENT/GET-ATTRIBUTE
		// parent is not consulted.
		key := args[0].Stringify()
		val := args[0]
		if len(args) > 1 {
			val = args[1]
		}
		return val, ops.PropertySetter(parent.Native(), key, val)
	default:
		return nil, fmt.Errorf("vcm/eval: cannot call setter on %s", parent.TypeName())
	}
}

func (e *Evaluator) evalCJSONEE(n *vcm.Node, ctx any, depth int) (*variant.Value, error) {
	if len(n.Elements) == 0 {
		return variant.UndefinedValue(), nil
	}
	result, err := e.eval(n.Elements[0], ctx, depth+1)
	if err != nil {
		return nil, err
	}
	for i := 1; i < len(n.Elements); i++ {
		op := n.Ops[i-1]
		switch op {
		case vcm.OpAnd:
			if !truthy(result) {
				return result, nil
			}
		case vcm.OpOr:
			if truthy(result) {
				return result, nil
			}
		case vcm.OpSemi:
			// always proceed
		}
		result, err = e.eval(n.Elements[i], ctx, depth+1)
		if err != nil {
			return nil, err
		}
	}
	return result, nil
}

func truthy(v *variant.Value) bool {
	switch v.Kind() {
	case variant.Undefined, variant.Null:
		return false
	case variant.Boolean:
		return v.Bool()
	case variant.Number, variant.LongInt, variant.ULongInt, variant.LongDouble:
		return v.Numerify() != 0
	case variant.String, variant.AtomString:
		return v.StringVal() != ""
	case variant.ByteSeq:
		return len(v.Bytes()) != 0
	case variant.Object:
		return v.ObjectVal().Len() != 0
	case variant.Array:
		return v.ArrayVal().Len() != 0
	case variant.Set:
		return v.SetVal().Len() != 0
	default:
		return true
	}
}

func coerceInt(v *variant.Value) (int, error) {
	switch v.Kind() {
	case variant.Number, variant.LongInt, variant.ULongInt, variant.LongDouble, variant.BigInt:
		return int(v.Numerify()), nil
	case variant.String, variant.AtomString:
		i, err := strconv.Atoi(v.StringVal())
		if err != nil {
			return 0, fmt.Errorf("vcm/eval: cannot coerce %q to an array index", v.StringVal())
		}
		return i, nil
	default:
		return 0, fmt.Errorf("vcm/eval: cannot coerce %s to an array index", v.TypeName())
	}
}
