// Package vcm implements the Variant Computation Model node tree of spec
// §3/§4.2/C5: the tree of expression nodes produced by the eJSON/JSONEE
// sub-parser (package ejson) and walked by the evaluator (package
// vcm/eval).
//
// Grounded on original_source/Source/PurC/include/private/hvml.h (which
// forward-declares struct pcvcm_node without a retrievable body file in
// this pack) and Source/test/interpreter/test_vcm_eval.cpp's node-kind
// coverage; the tree shape itself is a plain Go tagged struct, following
// no single teacher file (go-xml has no expression-tree type) but kept in
// the teacher's flat, comment-light style for simple constant nodes and a
// fuller doc comment only where a node kind's semantics are non-obvious.
package vcm

import (
	"math/big"

	"github.com/purc-go/purc/internal/source"
)

// Kind discriminates the VCM node tagged union (spec §3/C5).
type Kind int

const (
	KUndefined Kind = iota
	KNull
	KBoolean
	KNumber
	KLongInt
	KULongInt
	KLongDouble
	KBigInt
	KString
	KByteSeq
	KAtomString

	KObject
	KArray
	KSet
	KConcatString
	KTuple

	KVariable
	KGetElement
	KGetAttribute
	KCallGetter
	KCallSetter
	KCJSONEE
)

func (k Kind) String() string {
	names := [...]string{
		"undefined", "null", "boolean", "number", "longint", "ulongint",
		"longdouble", "bigint", "string", "byte-sequence", "atomstring",
		"object", "array", "set", "concat-string", "tuple",
		"variable", "get-element", "get-attribute", "call-getter",
		"call-setter", "cjsonee",
	}
	if int(k) < len(names) {
		return names[k]
	}
	return "unknown"
}

// CJSONEEOp is the sequencer between two CJSONEE operands (spec §4.2:
// "CJSONEE-OP-AND/OR/SEMICOLON").
type CJSONEEOp int

const (
	OpAnd CJSONEEOp = iota // && - evaluate next only if previous was truthy
	OpOr                    // || - evaluate next only if previous was falsy
	OpSemi                  // ;; - always evaluate next, keep its result
)

// KeyValue is one OBJECT constructor member: a key node (commonly a STRING
// literal, but JSONEE permits `$var: value` computed keys) and its value
// node.
type KeyValue struct {
	Key   *Node
	Value *Node
}

// Node is one VCM tree node. Exactly the fields relevant to Kind are
// populated; the rest are zero. Pos is attached to most nodes parsed from
// source (spec §3: "optionally attached to nodes"); it is the zero
// Position for synthesized nodes and for the literal STRING runs that the
// parsers collect into a CONCAT-STRING.
type Node struct {
	Kind Kind
	Pos  source.Position

	// Constant payloads.
	Bool    bool
	Num     float64
	I64     int64
	U64     uint64
	LD      float64
	Big     *big.Int
	Str     string
	Bytes   []byte

	// Constructors.
	Members  []KeyValue // OBJECT
	Elements []*Node    // ARRAY, SET, CONCAT-STRING, TUPLE
	SetKey   string     // SET uniqueness key field, "" for structural equality

	// Reference nodes.
	Parent *Node   // GET-ELEMENT, GET-ATTRIBUTE, CALL-GETTER, CALL-SETTER
	KeyN   *Node   // GET-ELEMENT, GET-ATTRIBUTE
	Args   []*Node // CALL-GETTER, CALL-SETTER

	// CJSONEE.
	Ops []CJSONEEOp // len(Elements)-1
}

// Constant constructors.

func Undefined() *Node  { return &Node{Kind: KUndefined} }
func Null() *Node       { return &Node{Kind: KNull} }
func Bool(b bool) *Node { return &Node{Kind: KBoolean, Bool: b} }
func Number(f float64) *Node { return &Node{Kind: KNumber, Num: f} }
func LongInt(i int64) *Node  { return &Node{Kind: KLongInt, I64: i} }
func ULongInt(u uint64) *Node { return &Node{Kind: KULongInt, U64: u} }
func LongDouble(f float64) *Node { return &Node{Kind: KLongDouble, LD: f} }
func BigInt(b *big.Int) *Node    { return &Node{Kind: KBigInt, Big: b} }
func String(s string) *Node      { return &Node{Kind: KString, Str: s} }
func ByteSeq(b []byte) *Node     { return &Node{Kind: KByteSeq, Bytes: b} }
func AtomString(s string) *Node  { return &Node{Kind: KAtomString, Str: s} }

func Object(members []KeyValue) *Node { return &Node{Kind: KObject, Members: members} }
func Array(elems []*Node) *Node       { return &Node{Kind: KArray, Elements: elems} }
func Set(keyField string, elems []*Node) *Node {
	return &Node{Kind: KSet, SetKey: keyField, Elements: elems}
}
func ConcatString(parts []*Node) *Node { return &Node{Kind: KConcatString, Elements: parts} }
func Tuple(elems []*Node) *Node        { return &Node{Kind: KTuple, Elements: elems} }

func Variable(name string) *Node { return &Node{Kind: KVariable, Str: name} }
func GetElement(parent, key *Node) *Node {
	return &Node{Kind: KGetElement, Parent: parent, KeyN: key}
}
func GetAttribute(parent, key *Node) *Node {
	return &Node{Kind: KGetAttribute, Parent: parent, KeyN: key}
}
func CallGetter(parent *Node, args []*Node) *Node {
	return &Node{Kind: KCallGetter, Parent: parent, Args: args}
}
func CallSetter(parent *Node, args []*Node) *Node {
	return &Node{Kind: KCallSetter, Parent: parent, Args: args}
}
func CJSONEE(elems []*Node, ops []CJSONEEOp) *Node {
	return &Node{Kind: KCJSONEE, Elements: elems, Ops: ops}
}

// WithPos attaches a source position and returns n for chaining at
// construction sites.
func (n *Node) WithPos(p source.Position) *Node {
	n.Pos = p
	return n
}

// Simplify collapses a CONCAT-STRING holding zero or one STRING child into
// a bare STRING (empty or that child), leaving every other node
// unchanged. Used where an interpolation-scanning parser (ejson.ParseUntil)
// always builds a CONCAT-STRING but a non-interpolated literal should
// behave as a plain string value to its caller.
func (n *Node) Simplify() *Node {
	if n.Kind != KConcatString {
		return n
	}
	switch len(n.Elements) {
	case 0:
		return String("").WithPos(n.Pos)
	case 1:
		if n.Elements[0].Kind == KString {
			return n.Elements[0]
		}
	}
	return n
}
