package ejson

import (
	"strconv"

	"github.com/purc-go/purc/internal/errs"
	"github.com/purc-go/purc/internal/reader"
	"github.com/purc-go/purc/internal/source"
	"github.com/purc-go/purc/vcm"
)

// parseDoubleQuoted is entered with the reader at an unconsumed `"`. Three
// consecutive double quotes open a raw (non-escaping, non-interpolating)
// heredoc string, used for literal text blocks (spec §4.2's
// VALUE-THREE-DOUBLE-QUOTED state); a lone `"` opens a C-escaped,
// JSONEE-interpolating string.
func (p *Parser) parseDoubleQuoted(rd *reader.Reader, depth int) (*vcm.Node, error) {
	pos := rd.Position()
	rd.Read() // consume first '"'

	c1, ok, err := peek(rd)
	if err != nil {
		return nil, err
	}
	if ok && c1 == '"' {
		rd.Read()
		c2, ok2, err := peek(rd)
		if err != nil {
			return nil, err
		}
		if ok2 && c2 == '"' {
			rd.Read()
			return p.parseTripleQuoted(rd, pos)
		}
		// `""` with nothing in between: empty string.
		return vcm.String("").WithPos(pos), nil
	}

	return p.quotedBody(rd, pos, '"', true, depth)
}

func (p *Parser) parseSingleQuoted(rd *reader.Reader, depth int) (*vcm.Node, error) {
	pos := rd.Position()
	rd.Read() // consume '\''
	return p.quotedBody(rd, pos, '\'', true, depth)
}

// parseTripleQuoted reads raw text up to the next `"""`, with no escape
// processing and no `$` interpolation, and returns it as a single STRING
// node (spec §C: supplements the grammar with a heredoc form for literal
// blocks, grounded on original_source's test fixtures using long literal
// HVML bodies that would otherwise need exhaustive escaping).
func (p *Parser) parseTripleQuoted(rd *reader.Reader, pos source.Position) (*vcm.Node, error) {
	var buf []rune
	quotes := 0
	for {
		r, err := readRune(rd)
		if err != nil {
			return nil, err
		}
		if r == '"' {
			quotes++
			if quotes == 3 {
				return vcm.String(string(buf)).WithPos(pos), nil
			}
			continue
		}
		for ; quotes > 0; quotes-- {
			buf = append(buf, '"')
		}
		buf = append(buf, r)
	}
}

// quotedBody scans a quote-delimited string body, processing C-style
// escapes and `$`-introduced JSONEE interpolation, stopping at the
// matching closing quote. When no interpolation occurred the result
// collapses to a single STRING node rather than a one-element
// CONCAT-STRING, matching how a plain quoted literal should evaluate.
func (p *Parser) quotedBody(rd *reader.Reader, pos source.Position, quote rune, escapes bool, depth int) (*vcm.Node, error) {
	var parts []*vcm.Node
	var buf []rune

	flush := func() {
		if len(buf) > 0 {
			parts = append(parts, vcm.String(string(buf)))
			buf = nil
		}
	}

	for {
		r, err := readRune(rd)
		if err != nil {
			return nil, err
		}
		if r == quote {
			flush()
			if len(parts) == 1 && parts[0].Kind == vcm.KString {
				return parts[0].WithPos(pos), nil
			}
			return vcm.ConcatString(parts).WithPos(pos), nil
		}
		if escapes && r == '\\' {
			esc, err := p.parseEscape(rd)
			if err != nil {
				return nil, err
			}
			buf = append(buf, esc)
			continue
		}
		if r == '$' {
			flush()
			rd.Unread() // parseVariable consumes the '$' itself
			v, err := p.parseVariable(rd, depth+1)
			if err != nil {
				return nil, err
			}
			parts = append(parts, v)
			continue
		}
		buf = append(buf, r)
	}
}

// parseEscape is entered just after a consumed backslash.
func (p *Parser) parseEscape(rd *reader.Reader) (rune, error) {
	r, err := readRune(rd)
	if err != nil {
		return 0, err
	}
	switch r {
	case 'n':
		return '\n', nil
	case 't':
		return '\t', nil
	case 'r':
		return '\r', nil
	case 'b':
		return '\b', nil
	case 'f':
		return '\f', nil
	case '\\', '\'', '"', '$':
		return r, nil
	case '/':
		return '/', nil
	case 'u':
		return p.parseUnicodeEscape(rd)
	default:
		return 0, errs.New(errs.BadJSONStringEscapeEntity, rd.Position(), "unrecognized escape sequence")
	}
}

func (p *Parser) parseUnicodeEscape(rd *reader.Reader) (rune, error) {
	var digits [4]rune
	for i := range digits {
		r, err := readRune(rd)
		if err != nil {
			return 0, err
		}
		digits[i] = r
	}
	n, err := strconv.ParseUint(string(digits[:]), 16, 32)
	if err != nil {
		return 0, errs.New(errs.BadJSONStringEscapeEntity, rd.Position(), "invalid \\u escape")
	}
	return rune(n), nil
}
