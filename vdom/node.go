// Package vdom implements the VDOM node model (C8) and the insertion-mode
// generator that builds it from a token stream (C9), spec §4.4.
//
// Grounded on original_source Source/test/vdom/test-vdom-construction.cpp
// and test_vdom_gen.cpp for the expected create/push_token/end lifecycle
// (struct pcvdom_gen's create/push_token/end/destroy calls map directly
// onto New/PushToken/End here); the open-element-stack shape is adapted
// from go-xml/xml/xml.go's `stack := []*node{...}` walk over
// StartElement/EndElement/CharData/Comment tokens, generalized from a flat
// map-building stack to a linked Parent/child/sibling tree carrying
// HVML-specific node kinds and attribute operators.
package vdom

import (
	"github.com/purc-go/purc/internal/source"
	"github.com/purc-go/purc/tokenizer"
	"github.com/purc-go/purc/vcm"
)

// Kind discriminates a VDOM node (spec §4.4/C8: "Document, element,
// content, comment nodes").
type Kind int

const (
	KDocument Kind = iota
	KElement
	KContent
	KComment
)

func (k Kind) String() string {
	switch k {
	case KDocument:
		return "document"
	case KElement:
		return "element"
	case KContent:
		return "content"
	case KComment:
		return "comment"
	}
	return "unknown"
}

// Attribute is a VDOM element's attribute, carrying the same operator/
// quote-style distinctions the tokenizer records (spec §3's Attribute
// contract is one shared shape between C7 and C8; rather than duplicate
// the struct, the generator hands the tokenizer's own Attribute values
// straight onto the node it builds).
type Attribute = tokenizer.Attribute

// Node is one VDOM tree node. Document and Element nodes link children via
// FirstChild/LastChild and siblings via NextSibling/PrevSibling, mirroring
// go-xml's stack-of-open-nodes idiom generalized into a persistent tree
// instead of a throwaway OrderedMap.
type Node struct {
	Kind Kind
	Pos  source.Position

	// Document.
	DoctypeName     string
	DoctypePublicID string
	DoctypeSystemID string

	// Element.
	TagName     string
	Attrs       []Attribute
	SelfClosing bool
	// Foreign marks a tag outside the HVML vocabulary (spec §4.4: "still
	// accepted as generic elements, but are marked as foreign and bypass
	// tokenizer-mode changes").
	Foreign bool
	// RawAttr mirrors original_source's tag_has_raw_attr: true when this
	// tag's attribute values were scanned as literal text instead of being
	// delegated to eJSON (SPEC_FULL.md §C.1).
	RawAttr bool

	// Content.
	Content *vcm.Node

	// Comment.
	CommentText string

	Parent      *Node
	FirstChild  *Node
	LastChild   *Node
	NextSibling *Node
	PrevSibling *Node
}

// NewDocument returns an empty document root node.
func NewDocument() *Node { return &Node{Kind: KDocument} }

// AppendChild links c as n's new last child.
func (n *Node) AppendChild(c *Node) {
	c.Parent = n
	c.PrevSibling = n.LastChild
	c.NextSibling = nil
	if n.LastChild != nil {
		n.LastChild.NextSibling = c
	} else {
		n.FirstChild = c
	}
	n.LastChild = c
}

// Children returns n's children in source order.
func (n *Node) Children() []*Node {
	var out []*Node
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		out = append(out, c)
	}
	return out
}

// Root walks up to the document node, or nil if n is not attached under one.
func (n *Node) Root() *Node {
	cur := n
	for cur.Parent != nil {
		cur = cur.Parent
	}
	if cur.Kind != KDocument {
		return nil
	}
	return cur
}

// HVMLElement returns the document's root `hvml` element, or nil if the
// document has none (an empty or failed parse).
func (n *Node) HVMLElement() *Node {
	doc := n
	if doc.Kind != KDocument {
		doc = n.Root()
		if doc == nil {
			return nil
		}
	}
	for c := doc.FirstChild; c != nil; c = c.NextSibling {
		if c.Kind == KElement {
			return c
		}
	}
	return nil
}
