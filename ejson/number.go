package ejson

import (
	"encoding/base64"
	"encoding/hex"
	"math"
	"math/big"
	"strconv"
	"strings"

	"github.com/purc-go/purc/internal/errs"
	"github.com/purc-go/purc/internal/reader"
	"github.com/purc-go/purc/internal/source"
	"github.com/purc-go/purc/vcm"
)

func isDigit(r rune) bool { return r >= '0' && r <= '9' }

// parseNumber reads an eJSON number (spec §3/§4.2's NUMBER/INTEGER/
// FRACTION/EXPONENT/SUFFIX-INTEGER states): an optional sign, digits, an
// optional fraction, an optional exponent, and an optional type suffix
// (L for LONGINT, UL for ULONGINT, FL for LONGDOUBLE, n for BIGINT; no
// suffix and no '.'/exponent yields a plain NUMBER).
func (p *Parser) parseNumber(rd *reader.Reader, pos source.Position) (*vcm.Node, error) {
	var buf []rune
	isFloat := false

	if c, ok, err := peek(rd); err != nil {
		return nil, err
	} else if ok && c == '-' {
		rd.Read()
		buf = append(buf, '-')
	}

	if err := collectDigits(rd, &buf); err != nil {
		return nil, err
	}

	if c, ok, err := peek(rd); err != nil {
		return nil, err
	} else if ok && c == '.' {
		rd.Read()
		buf = append(buf, '.')
		isFloat = true
		if err := collectDigits(rd, &buf); err != nil {
			return nil, err
		}
	}

	if c, ok, err := peek(rd); err != nil {
		return nil, err
	} else if ok && (c == 'e' || c == 'E') {
		rd.Read()
		buf = append(buf, 'e')
		isFloat = true
		if c2, ok2, err := peek(rd); err != nil {
			return nil, err
		} else if ok2 && (c2 == '+' || c2 == '-') {
			rd.Read()
			buf = append(buf, c2)
		}
		if err := collectDigits(rd, &buf); err != nil {
			return nil, err
		}
	}

	numStr := string(buf)

	suffix, err := p.readNumberSuffix(rd)
	if err != nil {
		return nil, err
	}

	switch suffix {
	case "L":
		i, err := strconv.ParseInt(numStr, 10, 64)
		if err != nil {
			return nil, errs.New(errs.BadJSONNumber, pos, "invalid long integer literal")
		}
		return vcm.LongInt(i).WithPos(pos), nil
	case "UL":
		u, err := strconv.ParseUint(numStr, 10, 64)
		if err != nil {
			return nil, errs.New(errs.BadJSONNumber, pos, "invalid unsigned long integer literal")
		}
		return vcm.ULongInt(u).WithPos(pos), nil
	case "FL":
		f, err := strconv.ParseFloat(numStr, 64)
		if err != nil {
			return nil, errs.New(errs.BadJSONNumber, pos, "invalid long double literal")
		}
		return vcm.LongDouble(f).WithPos(pos), nil
	case "N":
		bi, ok := new(big.Int).SetString(numStr, 10)
		if !ok {
			return nil, errs.New(errs.BadJSONNumber, pos, "invalid bigint literal")
		}
		return vcm.BigInt(bi).WithPos(pos), nil
	}

	if isFloat {
		f, err := strconv.ParseFloat(numStr, 64)
		if err != nil {
			return nil, errs.New(errs.BadJSONNumber, pos, "invalid number literal")
		}
		return vcm.Number(f).WithPos(pos), nil
	}
	i, err := strconv.ParseInt(numStr, 10, 64)
	if err != nil {
		f, ferr := strconv.ParseFloat(numStr, 64)
		if ferr != nil {
			return nil, errs.New(errs.BadJSONNumber, pos, "invalid number literal")
		}
		return vcm.Number(f).WithPos(pos), nil
	}
	return vcm.Number(float64(i)).WithPos(pos), nil
}

func collectDigits(rd *reader.Reader, buf *[]rune) error {
	for {
		r, ok, err := peek(rd)
		if err != nil {
			return err
		}
		if !ok || !isDigit(r) {
			return nil
		}
		rd.Read()
		*buf = append(*buf, r)
	}
}

// readNumberSuffix consumes a type suffix if present, returning its
// canonical form ("L", "UL", "FL", "N") or "" if none.
func (p *Parser) readNumberSuffix(rd *reader.Reader) (string, error) {
	c, ok, err := peek(rd)
	if err != nil {
		return "", err
	}
	if !ok {
		return "", nil
	}
	switch c {
	case 'n':
		rd.Read()
		return "N", nil
	case 'U', 'u':
		rd.Read()
		if err := expect(rd, 'L', errs.BadJSONNumber, "expected 'L' after 'U' in number suffix"); err != nil {
			return "", err
		}
		return "UL", nil
	case 'F', 'f':
		rd.Read()
		if err := expect(rd, 'L', errs.BadJSONNumber, "expected 'L' after 'F' in number suffix"); err != nil {
			return "", err
		}
		return "FL", nil
	case 'L', 'l':
		rd.Read()
		return "L", nil
	}
	return "", nil
}

// parseKeyword reads one of the eJSON keyword literals (spec §3: "true",
// "false", "null", "undefined", "Infinity", "NaN").
func (p *Parser) parseKeyword(rd *reader.Reader, pos source.Position) (*vcm.Node, error) {
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
	word := string(buf)
	switch word {
	case "true":
		return vcm.Bool(true).WithPos(pos), nil
	case "false":
		return vcm.Bool(false).WithPos(pos), nil
	case "null":
		return vcm.Null().WithPos(pos), nil
	case "undefined":
		return vcm.Undefined().WithPos(pos), nil
	case "Infinity":
		return vcm.Number(math.Inf(1)).WithPos(pos), nil
	case "NaN":
		return vcm.Number(math.NaN()).WithPos(pos), nil
	default:
		return nil, errs.New(errs.UnexpectedJSONKeyword, pos, "unrecognized keyword literal: "+word)
	}
}

// parseByteSequence reads a `b`-prefixed byte-sequence literal (spec §3:
// "b prefix; x introduces hex, b introduces binary, 64 introduces
// base-64"): bx<hex>, bb<01>, b64<base64>.
func (p *Parser) parseByteSequence(rd *reader.Reader, pos source.Position) (*vcm.Node, error) {
	rd.Read() // consume leading 'b'/'B'

	c, ok, err := peek(rd)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, errs.New(errs.UnexpectedEOF, pos, "unexpected end of input in byte sequence")
	}

	switch c {
	case 'x', 'X':
		rd.Read()
		digits := readWhile(rd, isHexDigit)
		data, err := hex.DecodeString(digits)
		if err != nil {
			return nil, errs.New(errs.UnexpectedBase64, pos, "invalid hex byte-sequence literal")
		}
		return vcm.ByteSeq(data).WithPos(pos), nil
	case 'b', 'B':
		rd.Read()
		digits := readWhile(rd, func(r rune) bool { return r == '0' || r == '1' })
		data, err := decodeBinaryBytes(digits)
		if err != nil {
			return nil, errs.New(errs.UnexpectedBase64, pos, "invalid binary byte-sequence literal")
		}
		return vcm.ByteSeq(data).WithPos(pos), nil
	case '6':
		rd.Read()
		if err := expect(rd, '4', errs.UnexpectedBase64, "expected '4' after '6' in base64 byte-sequence literal"); err != nil {
			return nil, err
		}
		digits := readWhile(rd, isBase64Char)
		data, err := base64.StdEncoding.DecodeString(padBase64(digits))
		if err != nil {
			return nil, errs.New(errs.UnexpectedBase64, pos, "invalid base64 byte-sequence literal")
		}
		return vcm.ByteSeq(data).WithPos(pos), nil
	default:
		return nil, errs.New(errs.UnexpectedBase64, pos, "unrecognized byte-sequence prefix")
	}
}

func readWhile(rd *reader.Reader, pred func(rune) bool) string {
	var buf []rune
	for {
		r, ok, err := peek(rd)
		if err != nil || !ok || !pred(r) {
			break
		}
		rd.Read()
		buf = append(buf, r)
	}
	return string(buf)
}

func isHexDigit(r rune) bool {
	return isDigit(r) || (r >= 'a' && r <= 'f') || (r >= 'A' && r <= 'F')
}

func isBase64Char(r rune) bool {
	return isDigit(r) || (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || r == '+' || r == '/' || r == '='
}

func padBase64(s string) string {
	if m := len(s) % 4; m != 0 {
		s += strings.Repeat("=", 4-m)
	}
	return s
}

func decodeBinaryBytes(digits string) ([]byte, error) {
	for len(digits)%8 != 0 {
		digits = "0" + digits
	}
	out := make([]byte, len(digits)/8)
	for i := range out {
		v, err := strconv.ParseUint(digits[i*8:i*8+8], 2, 8)
		if err != nil {
			return nil, err
		}
		out[i] = byte(v)
	}
	return out, nil
}
