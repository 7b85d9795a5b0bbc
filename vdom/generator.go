package vdom

import (
	"log/slog"

	"github.com/purc-go/purc/internal/errs"
	"github.com/purc-go/purc/internal/source"
	"github.com/purc-go/purc/tokenizer"
	"github.com/purc-go/purc/vcm"
)

// InsertionMode is one state of spec §4.4's insertion-mode machine. The
// nine modes are lifted directly from spec.md's own list, which in turn
// borrows the WHATWG HTML5 tree-construction algorithm's insertion modes
// of the same name (html→hvml); per-mode token handling below follows
// that algorithm's shape, since spec.md names the modes but leaves their
// individual rule tables to be inferred.
type InsertionMode int

const (
	ModeInitial InsertionMode = iota
	ModeBeforeHVML
	ModeInHVML
	ModeBeforeHead
	ModeInHead
	ModeAfterHead
	ModeInBody
	ModeAfterBody
	ModeAfterAfterBody
)

// rawTextElements names HVML elements whose content the tokenizer should
// stop re-entering DATA mode for once opened (spec §4.4: "switching to
// raw-text when a script-equivalent element opens"). original_source names
// no element list for this directly; `archetype` (a verbatim markup
// template body, per PurC's template-element convention) is the one
// plausible case supportable from the pack's own naming — see DESIGN.md.
var rawTextElements = map[string]tokenizer.ContentMode{
	"archetype": tokenizer.ModeRAWTEXT,
}

// Option configures a Generator.
type Option func(*Generator)

// WithLogger overrides the default logger.
func WithLogger(l *slog.Logger) Option {
	return func(g *Generator) { g.logger = l }
}

// Generator is the C9 insertion-mode VDOM builder. It consumes one Token
// at a time via PushToken and yields the finished tree from End.
type Generator struct {
	doc   *Node
	mode  InsertionMode
	stack []*Node // open-element stack; stack[0] is always doc

	logger *slog.Logger
	Errors []*errs.Error

	fatal error
}

// New creates a Generator ready to receive tokens.
func New(opts ...Option) *Generator {
	doc := NewDocument()
	g := &Generator{
		doc:    doc,
		mode:   ModeInitial,
		stack:  []*Node{doc},
		logger: slog.Default(),
	}
	for _, o := range opts {
		o(g)
	}
	return g
}

func (g *Generator) current() *Node { return g.stack[len(g.stack)-1] }

func (g *Generator) push(n *Node) {
	g.current().AppendChild(n)
	g.stack = append(g.stack, n)
}

func (g *Generator) pop() *Node {
	n := g.stack[len(g.stack)-1]
	g.stack = g.stack[:len(g.stack)-1]
	return n
}

func (g *Generator) report(kind errs.Kind, pos source.Position, msg string) {
	e := errs.New(kind, pos, msg)
	g.Errors = append(g.Errors, e)
	g.logger.Warn("vdom: recoverable error", "kind", kind.String(), "pos", pos.String(), "msg", msg)
}

// insertContent attaches a character token's VCM tree as a Content node,
// dropping whitespace-only runs (spec §4.4: "adjacent whitespace-only
// characters between structural tags are dropped" — interpreted here as
// "any character token carrying only whitespace is insignificant", since
// the indentation a document author puts between element tags carries no
// semantic content in either interpretation).
func (g *Generator) insertContent(tok tokenizer.Token) {
	if isWhitespaceOnly(tok.Content) {
		return
	}
	g.current().AppendChild(&Node{Kind: KContent, Pos: tok.Pos, Content: tok.Content})
}

func isWhitespaceOnly(n *vcm.Node) bool {
	if n == nil {
		return true
	}
	switch n.Kind {
	case vcm.KString:
		for _, r := range n.Str {
			switch r {
			case ' ', '\t', '\n', '\r', '\f':
			default:
				return false
			}
		}
		return true
	case vcm.KConcatString:
		for _, e := range n.Elements {
			if !isWhitespaceOnly(e) {
				return false
			}
		}
		return true
	default:
		return false
	}
}

// PushToken consumes one token, possibly switching tz's content mode (e.g.
// when opening a raw-text element) and advancing the insertion-mode state
// machine, per spec §4.4's push_token(tokenizer, token) contract.
func (g *Generator) PushToken(tz *tokenizer.Tokenizer, tok tokenizer.Token) error {
	if g.fatal != nil {
		return g.fatal
	}
	for {
		again, err := g.step(tz, tok)
		if err != nil {
			g.fatal = err
			return err
		}
		if !again {
			return nil
		}
	}
}

// step applies tok under the current mode. It returns again=true when the
// mode changed and tok must be reprocessed under the new mode (the
// standard HTML5 tree-construction "reprocess the token" technique).
func (g *Generator) step(tz *tokenizer.Tokenizer, tok tokenizer.Token) (again bool, err error) {
	switch g.mode {
	case ModeInitial:
		return g.stepInitial(tz, tok)
	case ModeBeforeHVML:
		return g.stepBeforeHVML(tz, tok)
	case ModeInHVML:
		return g.stepInHVML(tz, tok)
	case ModeBeforeHead:
		return g.stepBeforeHead(tz, tok)
	case ModeInHead:
		return g.stepInHead(tz, tok)
	case ModeAfterHead:
		return g.stepAfterHead(tz, tok)
	case ModeInBody:
		return g.stepInBody(tz, tok)
	case ModeAfterBody:
		return g.stepAfterBody(tok)
	case ModeAfterAfterBody:
		return g.stepAfterAfterBody(tok)
	}
	return false, errs.New(errs.WrongTagNesting, tok.Pos, "generator in an unknown insertion mode")
}

func (g *Generator) stepInitial(tz *tokenizer.Tokenizer, tok tokenizer.Token) (bool, error) {
	switch tok.Kind {
	case tokenizer.Comment:
		g.doc.AppendChild(&Node{Kind: KComment, Pos: tok.Pos, CommentText: tok.CommentText})
		return false, nil
	case tokenizer.Character:
		if isWhitespaceOnly(tok.Content) {
			return false, nil
		}
	case tokenizer.Doctype:
		g.doc.DoctypeName = tok.DoctypeName
		g.doc.DoctypePublicID = tok.DoctypePublicID
		g.doc.DoctypeSystemID = tok.DoctypeSystemID
		g.mode = ModeBeforeHVML
		return false, nil
	case tokenizer.StartTag:
		if isName(tok.TagName, "hvml") {
			g.mode = ModeBeforeHVML
			return true, nil
		}
		// A file-header source (WithInFileHeader, SPEC_FULL.md §C.1) may
		// carry header elements before its DOCTYPE; swallow them instead
		// of synthesizing the hvml root on the first one, so a DOCTYPE
		// that follows is still recognized as the document's own.
		if tz != nil && tz.InFileHeader() {
			g.report(errs.MissingRootHVML, tok.Pos, "header content before DOCTYPE; ignoring (in-file-header mode)")
			return false, nil
		}
	}
	g.mode = ModeBeforeHVML
	return true, nil
}

func (g *Generator) stepBeforeHVML(tz *tokenizer.Tokenizer, tok tokenizer.Token) (bool, error) {
	switch tok.Kind {
	case tokenizer.Comment:
		g.doc.AppendChild(&Node{Kind: KComment, Pos: tok.Pos, CommentText: tok.CommentText})
		return false, nil
	case tokenizer.Character:
		if isWhitespaceOnly(tok.Content) {
			return false, nil
		}
	case tokenizer.StartTag:
		if isName(tok.TagName, "hvml") {
			el := &Node{Kind: KElement, Pos: tok.Pos, TagName: tok.TagName, Attrs: tok.Attrs, SelfClosing: tok.SelfClosing}
			g.push(el)
			g.mode = ModeInHVML
			return false, nil
		}
	case tokenizer.EOFToken:
		g.report(errs.MissingRootHVML, tok.Pos, "document has no hvml root element")
		return false, nil
	}
	g.report(errs.MissingRootHVML, tok.Pos, "content before hvml root; synthesizing one")
	g.push(&Node{Kind: KElement, TagName: "hvml"})
	g.mode = ModeInHVML
	return true, nil
}

func (g *Generator) stepInHVML(tz *tokenizer.Tokenizer, tok tokenizer.Token) (bool, error) {
	switch tok.Kind {
	case tokenizer.Comment:
		g.current().AppendChild(&Node{Kind: KComment, Pos: tok.Pos, CommentText: tok.CommentText})
		return false, nil
	case tokenizer.Character:
		if isWhitespaceOnly(tok.Content) {
			return false, nil
		}
	case tokenizer.StartTag:
		if isName(tok.TagName, "head") {
			g.mode = ModeBeforeHead
			return true, nil
		}
	case tokenizer.EndTag:
		if isName(tok.TagName, "hvml") {
			g.pop()
			g.mode = ModeAfterBody
			return false, nil
		}
	case tokenizer.EOFToken:
		return false, nil
	}
	g.mode = ModeBeforeHead
	return true, nil
}

// stepBeforeHead only ever sees its "head" start tag (stepInHVML switches
// here and reprocesses) or the "anything else" fallback that synthesizes
// an empty head and moves straight to AFTER-HEAD.
func (g *Generator) stepBeforeHead(tz *tokenizer.Tokenizer, tok tokenizer.Token) (bool, error) {
	switch tok.Kind {
	case tokenizer.Comment:
		g.current().AppendChild(&Node{Kind: KComment, Pos: tok.Pos, CommentText: tok.CommentText})
		return false, nil
	case tokenizer.Character:
		if isWhitespaceOnly(tok.Content) {
			return false, nil
		}
	case tokenizer.StartTag:
		if isName(tok.TagName, "head") {
			g.enterElement(tz, tok)
			g.mode = ModeInHead
			return false, nil
		}
	case tokenizer.EOFToken:
		return false, nil
	}
	g.push(&Node{Kind: KElement, TagName: "head", Pos: tok.Pos})
	g.pop()
	g.mode = ModeAfterHead
	return true, nil
}

func (g *Generator) stepInHead(tz *tokenizer.Tokenizer, tok tokenizer.Token) (bool, error) {
	switch tok.Kind {
	case tokenizer.Comment:
		g.current().AppendChild(&Node{Kind: KComment, Pos: tok.Pos, CommentText: tok.CommentText})
		return false, nil
	case tokenizer.Character:
		if isWhitespaceOnly(tok.Content) {
			return false, nil
		}
		g.insertContent(tok)
		return false, nil
	case tokenizer.EndTag:
		if isName(tok.TagName, "head") {
			g.pop()
			g.mode = ModeAfterHead
			return false, nil
		}
		g.report(errs.UnmatchedEndTag, tok.Pos, "unmatched end tag </"+tok.TagName+"> in head")
		return false, nil
	case tokenizer.StartTag:
		g.enterElement(tz, tok)
		return false, nil
	case tokenizer.EOFToken:
		g.pop()
		g.mode = ModeAfterHead
		return true, nil
	}
	return false, nil
}

func (g *Generator) stepAfterHead(tz *tokenizer.Tokenizer, tok tokenizer.Token) (bool, error) {
	switch tok.Kind {
	case tokenizer.Comment:
		g.current().AppendChild(&Node{Kind: KComment, Pos: tok.Pos, CommentText: tok.CommentText})
		return false, nil
	case tokenizer.Character:
		if isWhitespaceOnly(tok.Content) {
			return false, nil
		}
	case tokenizer.StartTag:
		if isName(tok.TagName, "body") {
			g.enterElement(tz, tok)
			g.mode = ModeInBody
			return false, nil
		}
	case tokenizer.EOFToken:
		return false, nil
	}
	g.push(&Node{Kind: KElement, TagName: "body", Pos: tok.Pos})
	g.mode = ModeInBody
	return true, nil
}

func (g *Generator) stepInBody(tz *tokenizer.Tokenizer, tok tokenizer.Token) (bool, error) {
	switch tok.Kind {
	case tokenizer.Comment:
		g.current().AppendChild(&Node{Kind: KComment, Pos: tok.Pos, CommentText: tok.CommentText})
		return false, nil
	case tokenizer.Character:
		g.insertContent(tok)
		return false, nil
	case tokenizer.StartTag:
		g.enterElement(tz, tok)
		return false, nil
	case tokenizer.EndTag:
		if isName(tok.TagName, "body") {
			g.closeThrough("body")
			g.mode = ModeAfterBody
			return false, nil
		}
		if !g.closeThrough(tok.TagName) {
			g.report(errs.UnmatchedEndTag, tok.Pos, "unmatched end tag </"+tok.TagName+">")
		}
		return false, nil
	case tokenizer.EOFToken:
		return false, nil
	}
	return false, nil
}

func (g *Generator) stepAfterBody(tok tokenizer.Token) (bool, error) {
	switch tok.Kind {
	case tokenizer.Comment:
		// Attaches to the hvml root, per the html5 tree-construction
		// algorithm's AFTER BODY rule.
		if root := g.doc.HVMLElement(); root != nil {
			root.AppendChild(&Node{Kind: KComment, Pos: tok.Pos, CommentText: tok.CommentText})
		}
		return false, nil
	case tokenizer.Character:
		if isWhitespaceOnly(tok.Content) {
			return false, nil
		}
	case tokenizer.EndTag:
		if isName(tok.TagName, "hvml") {
			g.mode = ModeAfterAfterBody
			return false, nil
		}
	case tokenizer.EOFToken:
		return false, nil
	}
	g.mode = ModeInBody
	return true, nil
}

func (g *Generator) stepAfterAfterBody(tok tokenizer.Token) (bool, error) {
	switch tok.Kind {
	case tokenizer.Comment:
		g.doc.AppendChild(&Node{Kind: KComment, Pos: tok.Pos, CommentText: tok.CommentText})
		return false, nil
	case tokenizer.Character:
		if isWhitespaceOnly(tok.Content) {
			return false, nil
		}
	case tokenizer.EOFToken:
		return false, nil
	}
	g.mode = ModeInBody
	return true, nil
}

// enterElement appends a new Element node for tok, switches tz into a
// raw-text content mode if the tag calls for one, and pushes the element
// onto the open-element stack unless it self-closed.
func (g *Generator) enterElement(tz *tokenizer.Tokenizer, tok tokenizer.Token) {
	el := &Node{
		Kind:        KElement,
		Pos:         tok.Pos,
		TagName:     tok.TagName,
		Attrs:       tok.Attrs,
		SelfClosing: tok.SelfClosing,
		Foreign:     !knownElement(tok.TagName),
		RawAttr:     tz.IsRawAttributeTag(tok.TagName),
	}
	g.current().AppendChild(el)
	if tok.SelfClosing {
		return
	}
	g.stack = append(g.stack, el)
	if mode, ok := rawTextElements[normalizeName(tok.TagName)]; ok && !el.Foreign {
		tz.SetContentMode(mode)
	}
}

// closeThrough pops the open-element stack up to and including the
// nearest element named name, searching down to the hvml root (an open
// body does not stop the search, so it can be closed too). Reports false
// if no such element is open (spec §4.4: "unmatched end tags are reported
// and discarded").
func (g *Generator) closeThrough(name string) bool {
	for i := len(g.stack) - 1; i >= 1; i-- {
		if isName(g.stack[i].TagName, name) {
			g.stack = g.stack[:i]
			return true
		}
	}
	return false
}

// End flushes any still-open elements and returns the finished document
// (spec §4.4: "On EOF, any open elements are closed; the document is
// returned"), or nil if a fatal error occurred during PushToken.
func (g *Generator) End() *Node {
	if g.fatal != nil {
		return nil
	}
	g.stack = g.stack[:1]
	return g.doc
}

func isName(a, b string) bool { return normalizeName(a) == b }

func normalizeName(s string) string {
	out := make([]byte, len(s))
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c >= 'A' && c <= 'Z' {
			c += 'a' - 'A'
		}
		out[i] = c
	}
	return string(out)
}

// knownElement reports whether name belongs to the HVML vocabulary this
// generator recognizes, vs. being accepted as a generic "foreign" element
// (spec §4.4). original_source's HVML vocabulary is large and not fully
// enumerable from the retrieved files; the structural elements this
// generator itself interprets (hvml/head/body) plus the one raw-text
// element named above are treated as known, and everything else is
// foreign but still built into the tree.
func knownElement(name string) bool {
	switch normalizeName(name) {
	case "hvml", "head", "body", "archetype":
		return true
	}
	return false
}
