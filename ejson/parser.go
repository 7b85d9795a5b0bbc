// Package ejson implements the eJSON/JSONEE sub-parser of spec §4.2
// (component C6): a pushdown automaton, spliced into the HVML tokenizer
// at `{`, `[`, `$` and `"..."`, that consumes characters one at a time and
// emits a single vcm.Node tree.
//
// No file in the pack implements this grammar (original_source's pcejson
// is only forward-declared, not retrieved as a body), so the state groups
// of §4.2 are expressed directly as named parsing functions — one per
// state group (object/array/set, string, number, byte-sequence, variable
// chain, CJSONEE) — rather than transliterated from a teacher file. The
// straight-line "switch on the current rune, build and attach a node"
// shape follows go-xml's token-switch loop in xml.go, scaled from one
// flat switch to a small function-per-construct pushdown parser, per §9's
// guidance to "express each as a function ... avoid goto-ladders."
package ejson

import (
	"github.com/purc-go/purc/internal/errs"
	"github.com/purc-go/purc/internal/reader"
	"github.com/purc-go/purc/internal/source"
	"github.com/purc-go/purc/vcm"
)

// DefaultMaxDepth is the nesting bound of spec §4.2 ("maximum nesting
// depth is a configurable bound; exceeding it raises MAX_DEPTH_EXCEEDED").
const DefaultMaxDepth = 256

// Parser holds the sub-parser's configuration. It is stateless across
// calls beyond that configuration - all traversal state lives on the
// reader and in the recursive-descent call stack, so one Parser can be
// reused (or shared) across many Parse calls safely from a single
// goroutine at a time.
type Parser struct {
	MaxDepth int
}

// Option configures a Parser.
type Option func(*Parser)

// WithMaxDepth overrides DefaultMaxDepth.
func WithMaxDepth(n int) Option {
	return func(p *Parser) { p.MaxDepth = n }
}

// New builds a Parser with DefaultMaxDepth unless overridden.
func New(opts ...Option) *Parser {
	p := &Parser{MaxDepth: DefaultMaxDepth}
	for _, o := range opts {
		o(p)
	}
	return p
}

// Terminator decides whether the rune about to be read ends an unbounded
// construct (an unquoted attribute value, or raw text up to `<`). The
// rune is peeked, not consumed; ParseUntil never consumes a rune for
// which Terminator returns true.
type Terminator func(r rune) bool

// ParseValue parses exactly one self-delimited eJSON/JSONEE value -
// object, array, set, string, number, byte-sequence, keyword, or JSONEE
// variable chain/call/CJSONEE block - starting at the reader's current
// position, and returns its VCM root.
func (p *Parser) ParseValue(rd *reader.Reader) (*vcm.Node, error) {
	return p.parseValue(rd, 0)
}

// ParseUntil scans literal text interleaved with `$`-introduced JSONEE
// expressions, stopping at EOF or at the first rune for which stop
// reports true (that rune is left unread). It always returns a
// CONCAT-STRING node, even when the content turns out to be a single
// literal run, per spec §3's CHARACTER token contract; callers that want
// a bare STRING for a non-interpolated attribute value should call
// vcm's Simplify helper.
func (p *Parser) ParseUntil(rd *reader.Reader, stop Terminator) (*vcm.Node, error) {
	return p.parseUntil(rd, stop, 0)
}

func (p *Parser) checkDepth(depth int, pos source.Position) error {
	if depth > p.MaxDepth {
		return errs.New(errs.MaxDepthExceeded, pos, "eJSON nesting exceeds configured maximum")
	}
	return nil
}

// peek reads one rune and immediately unreads it, leaving the reader
// position unchanged. Returns ok=false at EOF.
func peek(rd *reader.Reader) (rune, bool, error) {
	r, err := rd.Read()
	if err != nil {
		if err == reader.EOF {
			return 0, false, nil
		}
		return 0, false, err
	}
	rd.Unread()
	return r, true, nil
}

func isSpace(r rune) bool {
	switch r {
	case ' ', '\t', '\n', '\r', '\f':
		return true
	}
	return false
}

func skipSpace(rd *reader.Reader) error {
	for {
		r, ok, err := peek(rd)
		if err != nil {
			return err
		}
		if !ok || !isSpace(r) {
			return nil
		}
		if _, err := rd.Read(); err != nil {
			return err
		}
	}
}

func isIdentStart(r rune) bool {
	return r == '_' || (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z')
}

func isIdentCont(r rune) bool {
	return isIdentStart(r) || (r >= '0' && r <= '9') || r == '-'
}

func (p *Parser) parseValue(rd *reader.Reader, depth int) (*vcm.Node, error) {
	pos := rd.Position()
	if err := p.checkDepth(depth, pos); err != nil {
		return nil, err
	}

	c, ok, err := peek(rd)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, errs.New(errs.UnexpectedEOF, pos, "unexpected end of input in eJSON value")
	}

	switch {
	case c == '{':
		return p.parseBraceValue(rd, depth)
	case c == '[':
		return p.parseBracketValue(rd, depth)
	case c == '"':
		return p.parseDoubleQuoted(rd, depth)
	case c == '\'':
		return p.parseSingleQuoted(rd, depth)
	case c == '$':
		return p.parseVariable(rd, depth)
	case c == 'b' || c == 'B':
		return p.parseByteSequence(rd, pos)
	case c == '-' || (c >= '0' && c <= '9'):
		return p.parseNumber(rd, pos)
	case c == 't' || c == 'f' || c == 'n' || c == 'u' || c == 'I' || c == 'N':
		return p.parseKeyword(rd, pos)
	default:
		return nil, errs.New(errs.UnexpectedCharacter, pos, "unexpected character in eJSON value")
	}
}

func (p *Parser) parseUntil(rd *reader.Reader, stop Terminator, depth int) (*vcm.Node, error) {
	var parts []*vcm.Node
	var buf []rune
	startPos := rd.Position()

	flush := func() {
		if len(buf) > 0 {
			parts = append(parts, vcm.String(string(buf)))
			buf = nil
		}
	}

	for {
		r, ok, err := peek(rd)
		if err != nil {
			return nil, err
		}
		if !ok {
			break
		}
		if stop != nil && stop(r) {
			break
		}
		if r == '$' {
			flush()
			v, err := p.parseVariable(rd, depth+1)
			if err != nil {
				return nil, err
			}
			parts = append(parts, v)
			continue
		}
		if _, err := rd.Read(); err != nil {
			return nil, err
		}
		buf = append(buf, r)
	}
	flush()
	return vcm.ConcatString(parts).WithPos(startPos), nil
}
