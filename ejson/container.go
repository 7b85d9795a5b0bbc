package ejson

import (
	"github.com/purc-go/purc/internal/errs"
	"github.com/purc-go/purc/internal/reader"
	"github.com/purc-go/purc/internal/source"
	"github.com/purc-go/purc/vcm"
)

// readRune consumes and returns the next rune, translating the sentinel
// EOF error into an UnexpectedEOF diagnostic at pos.
func readRune(rd *reader.Reader) (rune, error) {
	r, err := rd.Read()
	if err != nil {
		if err == reader.EOF {
			return 0, errs.New(errs.UnexpectedEOF, rd.Position(), "unexpected end of input")
		}
		return 0, err
	}
	return r, nil
}

// expect consumes the next rune and requires it to equal want.
func expect(rd *reader.Reader, want rune, kind errs.Kind, msg string) error {
	r, err := readRune(rd)
	if err != nil {
		return err
	}
	if r != want {
		return errs.New(kind, rd.Position(), msg)
	}
	return nil
}

// parseBraceValue is entered with the reader positioned at an unconsumed
// `{`. Two consecutive `{` open a CJSONEE sequence (spec §4.2's
// CJSONEE-OP-* state group); one `{` opens an OBJECT constructor.
func (p *Parser) parseBraceValue(rd *reader.Reader, depth int) (*vcm.Node, error) {
	pos := rd.Position()
	if _, err := readRune(rd); err != nil { // consume '{'
		return nil, err
	}

	c, ok, err := peek(rd)
	if err != nil {
		return nil, err
	}
	if ok && c == '{' {
		if _, err := readRune(rd); err != nil { // consume second '{'
			return nil, err
		}
		return p.parseCJSONEE(rd, pos, depth)
	}
	return p.parseObjectBody(rd, pos, depth)
}

// parseObjectBody parses `key: value, key: value, ...}` given that the
// opening `{` has already been consumed. A key is an unquoted identifier,
// a quoted string, or a `$`-led JSONEE expression (spec §4.2: "an object
// key may itself be computed").
func (p *Parser) parseObjectBody(rd *reader.Reader, pos source.Position, depth int) (*vcm.Node, error) {
	var members []vcm.KeyValue
	if err := skipSpace(rd); err != nil {
		return nil, err
	}
	c, ok, err := peek(rd)
	if err != nil {
		return nil, err
	}
	if ok && c == '}' {
		rd.Read()
		return vcm.Object(members).WithPos(pos), nil
	}

	for {
		if err := skipSpace(rd); err != nil {
			return nil, err
		}
		key, err := p.parseObjectKey(rd, depth)
		if err != nil {
			return nil, err
		}
		if err := skipSpace(rd); err != nil {
			return nil, err
		}
		if err := expect(rd, ':', errs.UnexpectedJSONKeyName, "expected ':' after object key"); err != nil {
			return nil, err
		}
		if err := skipSpace(rd); err != nil {
			return nil, err
		}
		val, err := p.parseValue(rd, depth+1)
		if err != nil {
			return nil, err
		}
		members = append(members, vcm.KeyValue{Key: key, Value: val})

		if err := skipSpace(rd); err != nil {
			return nil, err
		}
		r, err := readRune(rd)
		if err != nil {
			return nil, err
		}
		switch r {
		case ',':
			continue
		case '}':
			return vcm.Object(members).WithPos(pos), nil
		default:
			return nil, errs.New(errs.UnexpectedCharacter, rd.Position(), "expected ',' or '}' in object")
		}
	}
}

func (p *Parser) parseObjectKey(rd *reader.Reader, depth int) (*vcm.Node, error) {
	c, ok, err := peek(rd)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, errs.New(errs.UnexpectedEOF, rd.Position(), "unexpected end of input in object key")
	}
	switch {
	case c == '"':
		return p.parseDoubleQuoted(rd, depth)
	case c == '\'':
		return p.parseSingleQuoted(rd, depth)
	case c == '$':
		return p.parseVariable(rd, depth)
	case isIdentStart(c):
		pos := rd.Position()
		var buf []rune
		for {
			r, ok, err := peek(rd)
			if err != nil {
				return nil, err
			}
			if !ok || !isIdentCont(r) {
				break
			}
			rd.Read()
			buf = append(buf, r)
		}
		return vcm.String(string(buf)).WithPos(pos), nil
	default:
		return nil, errs.New(errs.UnexpectedJSONKeyName, rd.Position(), "invalid object key")
	}
}

// parseBracketValue is entered with the reader positioned at an unconsumed
// `[`. `[!` opens a SET constructor (spec §C's supplemented SET syntax:
// eJSON's own grammar never names a literal form for SET, so the `!`
// marker is borrowed from the CALL-SETTER `(!args)` convention already in
// the grammar, read here as "the collection that complains about
// duplicates" - see DESIGN.md); otherwise `[` opens an ARRAY.
func (p *Parser) parseBracketValue(rd *reader.Reader, depth int) (*vcm.Node, error) {
	pos := rd.Position()
	if _, err := readRune(rd); err != nil { // consume '['
		return nil, err
	}

	c, ok, err := peek(rd)
	if err != nil {
		return nil, err
	}
	if ok && c == '!' {
		rd.Read()
		return p.parseSetBody(rd, pos, depth)
	}
	return p.parseArrayBody(rd, pos, depth)
}

func (p *Parser) parseArrayBody(rd *reader.Reader, pos source.Position, depth int) (*vcm.Node, error) {
	elems, err := p.parseElementList(rd, ']', depth)
	if err != nil {
		return nil, err
	}
	return vcm.Array(elems).WithPos(pos), nil
}

// parseSetBody parses `[!keyfield elem, elem, ...]` or `[! elem, elem,
// ...]`. An identifier directly after `!` (before the first value) names
// the uniqueness key field; its absence means whole-value structural
// equality (spec §3's SET kind; policy applied at evaluation, not here).
func (p *Parser) parseSetBody(rd *reader.Reader, pos source.Position, depth int) (*vcm.Node, error) {
	if err := skipSpace(rd); err != nil {
		return nil, err
	}
	keyField := ""
	c, ok, err := peek(rd)
	if err != nil {
		return nil, err
	}
	if ok && isIdentStart(c) {
		var buf []rune
		for {
			r, ok, err := peek(rd)
			if err != nil {
				return nil, err
			}
			if !ok || !isIdentCont(r) {
				break
			}
			rd.Read()
			buf = append(buf, r)
		}
		keyField = string(buf)
	}

	elems, err := p.parseElementList(rd, ']', depth)
	if err != nil {
		return nil, err
	}
	return vcm.Set(keyField, elems).WithPos(pos), nil
}

// parseElementList parses a comma-separated value list terminated by
// close (already expecting the opening delimiter to have been consumed).
func (p *Parser) parseElementList(rd *reader.Reader, close rune, depth int) ([]*vcm.Node, error) {
	var elems []*vcm.Node
	if err := skipSpace(rd); err != nil {
		return nil, err
	}
	c, ok, err := peek(rd)
	if err != nil {
		return nil, err
	}
	if ok && c == close {
		rd.Read()
		return elems, nil
	}

	for {
		if err := skipSpace(rd); err != nil {
			return nil, err
		}
		v, err := p.parseValue(rd, depth+1)
		if err != nil {
			return nil, err
		}
		elems = append(elems, v)

		if err := skipSpace(rd); err != nil {
			return nil, err
		}
		r, err := readRune(rd)
		if err != nil {
			return nil, err
		}
		if r == ',' {
			continue
		}
		if r == close {
			return elems, nil
		}
		return nil, errs.New(errs.UnexpectedCharacter, rd.Position(), "expected ',' or closing delimiter")
	}
}
