// Package tokenizer implements the HVML tokenizer of spec §4.3 (component
// C7): the outer state machine that turns a character stream into a
// stream of tokens, delegating to package ejson at `{`, `[`, `$`, and
// quoted/unquoted attribute values and text runs.
//
// The token-by-token `Next()` pull interface, and the "reconsume" loop
// structure (fetch-or-reuse a character, dispatch on state, each branch
// either consumes or marks for reuse) are grounded on the teacher's
// `xml.Decoder`-driven loop in go-xml/xml/xml.go, generalized from
// encoding/xml's fixed token set to HVML's tag/attribute/comment/DOCTYPE/
// character-reference state groups (spec §4.3).
package tokenizer

import (
	"github.com/purc-go/purc/internal/source"
	"github.com/purc-go/purc/vcm"
)

// Kind discriminates the token types the tokenizer emits.
type Kind int

const (
	StartTag Kind = iota
	EndTag
	Character
	Comment
	Doctype
	EOFToken
)

func (k Kind) String() string {
	switch k {
	case StartTag:
		return "start-tag"
	case EndTag:
		return "end-tag"
	case Character:
		return "character"
	case Comment:
		return "comment"
	case Doctype:
		return "doctype"
	case EOFToken:
		return "eof"
	}
	return "unknown"
}

// Operator is an attribute's assignment operator (spec §4.3's
// special-attribute-operator characters, spec §3's Attribute contract:
// "operator ∈ {PLAIN, ADD, SUB, PRECEDE, HEAD, TAIL, REMOVE,
// REGEX-REPLACE}"). The tokenizer never itself emits Head - see
// DESIGN.md's tokenizer entry for why it is kept as a distinct value
// anyway.
type Operator int

const (
	OpPlain Operator = iota
	OpAdd
	OpSub
	OpPrecede
	OpHead
	OpTail
	OpRemove
	OpRegexReplace
)

func (o Operator) String() string {
	switch o {
	case OpPlain:
		return "plain"
	case OpAdd:
		return "add"
	case OpSub:
		return "sub"
	case OpPrecede:
		return "precede"
	case OpHead:
		return "head"
	case OpTail:
		return "tail"
	case OpRemove:
		return "remove"
	case OpRegexReplace:
		return "regex-replace"
	}
	return "unknown"
}

// QuoteStyle records how an attribute value was written, per spec §3's
// Attribute contract ("raw-quote-style").
type QuoteStyle int

const (
	QuoteNone   QuoteStyle = iota // unquoted
	QuoteDouble                   // "..."
	QuoteSingle                   // '...'
)

// Attribute is one name/value pair on a start tag.
type Attribute struct {
	Name     string
	Operator Operator
	Quote    QuoteStyle
	Value    *vcm.Node // nil for a valueless attribute
	Pos      source.Position
}

// Token is one tokenizer output. Only the fields relevant to Kind are
// populated.
type Token struct {
	Kind Kind
	Pos  source.Position

	// StartTag / EndTag.
	TagName    string
	Attrs      []Attribute
	SelfClosing bool

	// Character.
	Content *vcm.Node

	// Comment.
	CommentText string

	// Doctype.
	DoctypeName     string
	DoctypePublicID string
	DoctypeSystemID string
}
