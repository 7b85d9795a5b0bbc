package ejson

import (
	"github.com/purc-go/purc/internal/errs"
	"github.com/purc-go/purc/internal/reader"
	"github.com/purc-go/purc/internal/source"
	"github.com/purc-go/purc/vcm"
)

// parseVariable is entered with the reader at an unconsumed `$`. It reads
// the base variable name, then folds in a chain of `.name` (member
// access), `[expr]` (index access), `(args...)` (getter call), and
// `(!args...)`/`(?args...)` (setter call) suffixes, left to right, per
// spec §4.2's JSONEE-VARIABLE/-FULL-STOP state group.
//
// `.name` access is read as GET-ELEMENT (spec's grammar text names only
// `.name` for "member access" without a separate attribute-access
// syntax); GET-ATTRIBUTE nodes are reachable only via direct vcm.Node
// construction by other components - see DESIGN.md's JSONEE-variable-chain
// entry.
func (p *Parser) parseVariable(rd *reader.Reader, depth int) (*vcm.Node, error) {
	pos := rd.Position()
	if err := p.checkDepth(depth, pos); err != nil {
		return nil, err
	}
	if _, err := readRune(rd); err != nil { // consume '$'
		return nil, err
	}

	name, err := p.readIdentifier(rd)
	if err != nil {
		return nil, err
	}
	if name == "" {
		return nil, errs.New(errs.EmptyJSONEEName, pos, "empty JSONEE variable name")
	}
	node := vcm.Variable(name).WithPos(pos)

	for {
		c, ok, err := peek(rd)
		if err != nil {
			return nil, err
		}
		if !ok {
			return node, nil
		}
		switch c {
		case '.':
			rd.Read()
			propPos := rd.Position()
			prop, err := p.readIdentifier(rd)
			if err != nil {
				return nil, err
			}
			if prop == "" {
				return nil, errs.New(errs.BadJSONEEName, propPos, "expected property name after '.'")
			}
			node = vcm.GetElement(node, vcm.String(prop).WithPos(propPos)).WithPos(pos)
		case '[':
			rd.Read()
			key, err := p.parseValue(rd, depth+1)
			if err != nil {
				return nil, err
			}
			if err := skipSpace(rd); err != nil {
				return nil, err
			}
			if err := expect(rd, ']', errs.UnexpectedRightBracket, "expected ']' to close index access"); err != nil {
				return nil, err
			}
			node = vcm.GetElement(node, key).WithPos(pos)
		case '(':
			rd.Read()
			setter, err := p.peekSetterMarker(rd)
			if err != nil {
				return nil, err
			}
			args, err := p.parseArgList(rd, depth)
			if err != nil {
				return nil, err
			}
			if setter {
				node = vcm.CallSetter(node, args).WithPos(pos)
			} else {
				node = vcm.CallGetter(node, args).WithPos(pos)
			}
		default:
			return node, nil
		}
	}
}

// peekSetterMarker consumes a leading '!' or '?' if present (spec §3's
// `(!arg,...)`/`(?arg,...)` setter-call forms) and reports whether a
// setter call was opened.
func (p *Parser) peekSetterMarker(rd *reader.Reader) (bool, error) {
	c, ok, err := peek(rd)
	if err != nil {
		return false, err
	}
	if ok && (c == '!' || c == '?') {
		rd.Read()
		return true, nil
	}
	return false, nil
}

func (p *Parser) parseArgList(rd *reader.Reader, depth int) ([]*vcm.Node, error) {
	return p.parseElementList(rd, ')', depth)
}

func (p *Parser) readIdentifier(rd *reader.Reader) (string, error) {
	var buf []rune
	c, ok, err := peek(rd)
	if err != nil {
		return "", err
	}
	if !ok || !isIdentStart(c) {
		return "", nil
	}
	for {
		r, ok, err := peek(rd)
		if err != nil {
			return "", err
		}
		if !ok || !isIdentCont(r) {
			break
		}
		rd.Read()
		buf = append(buf, r)
	}
	return string(buf), nil
}

// parseCJSONEE is entered with both opening `{{` already consumed. It
// parses a sequence of values joined by `&&`, `||`, or `;;` and requires
// a closing `}}` (spec §4.2/§3: "a sequence of expressions joined by
// logical/sequencing operators, evaluated left to right with
// short-circuiting").
func (p *Parser) parseCJSONEE(rd *reader.Reader, pos source.Position, depth int) (*vcm.Node, error) {
	var elems []*vcm.Node
	var ops []vcm.CJSONEEOp

	if err := skipSpace(rd); err != nil {
		return nil, err
	}
	first, err := p.parseValue(rd, depth+1)
	if err != nil {
		return nil, err
	}
	elems = append(elems, first)

	for {
		if err := skipSpace(rd); err != nil {
			return nil, err
		}
		c, ok, err := peek(rd)
		if err != nil {
			return nil, err
		}
		if !ok {
			return nil, errs.New(errs.UnexpectedEOF, rd.Position(), "unexpected end of input in CJSONEE sequence")
		}
		if c == '}' {
			rd.Read()
			if err := expect(rd, '}', errs.UnexpectedRightBrace, "expected '}}' to close CJSONEE sequence"); err != nil {
				return nil, err
			}
			return vcm.CJSONEE(elems, ops).WithPos(pos), nil
		}

		op, err := p.readCJSONEEOp(rd, c)
		if err != nil {
			return nil, err
		}
		ops = append(ops, op)

		if err := skipSpace(rd); err != nil {
			return nil, err
		}
		next, err := p.parseValue(rd, depth+1)
		if err != nil {
			return nil, err
		}
		elems = append(elems, next)
	}
}

func (p *Parser) readCJSONEEOp(rd *reader.Reader, first rune) (vcm.CJSONEEOp, error) {
	switch first {
	case '&':
		rd.Read()
		if err := expect(rd, '&', errs.BadJSONEE, "expected '&&' operator in CJSONEE sequence"); err != nil {
			return 0, err
		}
		return vcm.OpAnd, nil
	case '|':
		rd.Read()
		if err := expect(rd, '|', errs.BadJSONEE, "expected '||' operator in CJSONEE sequence"); err != nil {
			return 0, err
		}
		return vcm.OpOr, nil
	case ';':
		rd.Read()
		if err := expect(rd, ';', errs.BadJSONEE, "expected ';;' operator in CJSONEE sequence"); err != nil {
			return 0, err
		}
		return vcm.OpSemi, nil
	default:
		return 0, errs.New(errs.BadJSONEE, rd.Position(), "expected '&&', '||', or ';;' between CJSONEE operands")
	}
}
