package tokenizer

import (
	"strconv"
	"strings"

	"github.com/purc-go/purc/ejson"
	"github.com/purc-go/purc/internal/errs"
	"github.com/purc-go/purc/internal/reader"
	"github.com/purc-go/purc/internal/source"
	"github.com/purc-go/purc/vcm"
)

// Tokenizer pulls Token values one at a time from a character reader. It
// is not safe for concurrent use - spec §5 notes the whole front end runs
// synchronously on one coroutine's stack.
type Tokenizer struct {
	rd *reader.Reader
	ej *ejson.Parser

	mode        ContentMode
	lastTagName string // most recent start tag name, for the appropriate-end-tag check

	// pendingEndTag holds an appropriate end tag's name once its "</name"
	// prefix has been consumed out of a text run that had buffered
	// content before it; the buffered text is returned first, and the
	// next Next() call finishes the end tag (spec §4.3's appropriate-
	// end-tag check can only fire mid-text-scan in RCDATA/RAWTEXT mode).
	pendingEndTag     bool
	pendingEndTagName string
	pendingEndTagPos  source.Position

	// literalBack recovers characters that tryConsumeAppropriateEndTag
	// speculatively consumed but turned out not to form a real end tag.
	literalBack []rune

	// inFileHeader mirrors original_source's pchvml_create flag
	// is_in_file_header: when set, the generator (which consults
	// InFileHeader) relaxes the "DOCTYPE must be the first token" rule,
	// discarding (with a report) start tags other than hvml that come
	// before it instead of opening the root on them. Comments before the
	// DOCTYPE are accepted whether or not the flag is set.
	inFileHeader bool

	// rawAttrTags mirrors original_source's per-tag tag_has_raw_attr bit:
	// attribute values on a tag named here are scanned as literal text,
	// with no eJSON/JSONEE delegation at all (no `{`/`[`/`$` dispatch, no
	// `$`-interpolation), matching a raw-value operation element that
	// wants its argument taken verbatim.
	rawAttrTags map[string]bool

	// Errors are accumulated rather than aborting the scan wherever spec
	// §4.4 calls for "report and recover"; Next returns the first one it
	// produced for a given token only when the condition is fatal
	// (EOF mid-construct, invalid structure with no sane recovery).
	Errors []*errs.Error
}

// Option configures a Tokenizer.
type Option func(*Tokenizer)

// WithMaxDepth bounds eJSON/JSONEE nesting reachable through delegation.
func WithMaxDepth(n int) Option {
	return func(t *Tokenizer) { t.ej = ejson.New(ejson.WithMaxDepth(n)) }
}

// WithInFileHeader marks the source as HVML's "file header" form (spec
// SPEC_FULL.md §C.1, original_source's is_in_file_header flag), relaxing
// DOCTYPE-placement recovery in the generator.
func WithInFileHeader() Option {
	return func(t *Tokenizer) { t.inFileHeader = true }
}

// InFileHeader reports whether the tokenizer was configured with
// WithInFileHeader.
func (t *Tokenizer) InFileHeader() bool { return t.inFileHeader }

// WithRawAttributeTags marks tag names whose attribute values should be
// scanned as literal text rather than delegated to eJSON (spec SPEC_FULL.md
// §C.1, original_source's tag_has_raw_attr).
func WithRawAttributeTags(names ...string) Option {
	return func(t *Tokenizer) {
		if t.rawAttrTags == nil {
			t.rawAttrTags = make(map[string]bool, len(names))
		}
		for _, n := range names {
			t.rawAttrTags[normalizeTagName(n)] = true
		}
	}
}

// IsRawAttributeTag reports whether name was registered via
// WithRawAttributeTags, for callers (the generator) that want to record
// the bit on the element they build from this tag.
func (t *Tokenizer) IsRawAttributeTag(name string) bool {
	return t.rawAttrTags[normalizeTagName(name)]
}

func normalizeTagName(s string) string {
	r := []rune(s)
	for i, c := range r {
		if c >= 'A' && c <= 'Z' {
			r[i] = c + ('a' - 'A')
		}
	}
	return string(r)
}

// New wraps rd.
func New(rd *reader.Reader, opts ...Option) *Tokenizer {
	t := &Tokenizer{rd: rd, ej: ejson.New(), mode: ModeData}
	for _, o := range opts {
		o(t)
	}
	return t
}

// SetContentMode switches the text-scanning sub-mode; called by the
// generator (C9) after a start tag whose element has raw-text or
// RCDATA contents.
func (t *Tokenizer) SetContentMode(m ContentMode) { t.mode = m }

// Position reports the reader's current position, for callers (the
// generator's own error reporting) that need "where is the tokenizer right
// now" independent of the position carried on the last Token. Mirrors
// original_source's pchvml_parser_get_curr_pos.
func (t *Tokenizer) Position() source.Position { return t.rd.Position() }

func (t *Tokenizer) report(kind errs.Kind, pos source.Position, msg string) {
	t.Errors = append(t.Errors, errs.New(kind, pos, msg))
}

// Next returns the next token, or an *errs.Error for a condition with no
// reasonable recovery (spec §4.4's "genuinely impossible state").
func (t *Tokenizer) Next() (Token, error) {
	if t.pendingEndTag {
		return t.finishPendingEndTag()
	}

	r, ok, err := t.peek()
	if err != nil {
		return Token{}, err
	}
	if !ok {
		return Token{Kind: EOFToken, Pos: t.rd.Position()}, nil
	}

	if t.mode == ModeData && r == '<' {
		return t.scanTagOpen()
	}
	return t.scanText()
}

func (t *Tokenizer) finishPendingEndTag() (Token, error) {
	t.pendingEndTag = false
	name := t.pendingEndTagName
	pos := t.pendingEndTagPos
	if err := t.skipSpace(); err != nil {
		return Token{}, err
	}
	if err := expectGT(t); err != nil {
		return Token{}, err
	}
	t.mode = ModeData
	return Token{Kind: EndTag, Pos: pos, TagName: name}, nil
}

func (t *Tokenizer) peek() (rune, bool, error) {
	r, err := t.rd.Read()
	if err != nil {
		if err == reader.EOF {
			return 0, false, nil
		}
		return 0, false, err
	}
	t.rd.Unread()
	return r, true, nil
}

// scanText consumes a run of character data - literal text, character
// references, and `$`-introduced JSONEE expressions - stopping before `<`
// (in ModeData), before an appropriate end tag (in ModeRCDATA/
// ModeRAWTEXT - any other `<` is just literal text in those modes), or at
// EOF. It always wraps the result in a CONCAT-STRING, per spec §3's
// CHARACTER-token contract, even for a single literal run.
func (t *Tokenizer) scanText() (Token, error) {
	startPos := t.rd.Position()
	var parts []*vcm.Node
	var buf []rune

	flush := func() {
		if len(buf) > 0 {
			parts = append(parts, vcm.String(string(buf)))
			buf = nil
		}
	}
	emit := func() (Token, error) {
		flush()
		if len(parts) == 0 {
			return Token{Kind: EOFToken, Pos: t.rd.Position()}, nil
		}
		return Token{Kind: Character, Pos: startPos, Content: vcm.ConcatString(parts).WithPos(startPos)}, nil
	}

	for {
		r, ok, err := t.peek()
		if err != nil {
			return Token{}, err
		}
		if !ok {
			break
		}

		if r == '<' && t.mode != ModePlaintext {
			if t.mode == ModeData {
				if len(buf) == 0 && len(parts) == 0 {
					return t.scanTagOpen()
				}
				return emit()
			}
			matched, name, err := t.tryConsumeAppropriateEndTag()
			if err != nil {
				return Token{}, err
			}
			if matched {
				if len(buf) == 0 && len(parts) == 0 {
					t.mode = ModeData
					if err := t.skipSpace(); err != nil {
						return Token{}, err
					}
					if err := expectGT(t); err != nil {
						return Token{}, err
					}
					return Token{Kind: EndTag, Pos: startPos, TagName: name}, nil
				}
				t.pendingEndTag = true
				t.pendingEndTagName = name
				t.pendingEndTagPos = startPos
				return emit()
			}
			// Not appropriate: fold back whatever was speculatively
			// consumed as literal text and keep scanning.
			buf = append(buf, t.literalBack...)
			t.literalBack = nil
			continue
		}

		if (t.mode == ModeData || t.mode == ModeRCDATA) && r == '&' {
			ref, decodeErr := t.scanCharacterReference()
			if decodeErr != nil {
				return Token{}, decodeErr
			}
			buf = append(buf, ref)
			continue
		}
		if (t.mode == ModeData || t.mode == ModeRCDATA) && r == '$' {
			flush()
			v, err := t.ej.ParseValue(t.rd)
			if err != nil {
				return Token{}, err
			}
			parts = append(parts, v)
			continue
		}
		if r == 0 {
			t.report(errs.UnexpectedNullCharacter, t.rd.Position(), "NUL in character data")
			t.rd.Read()
			continue
		}
		t.rd.Read()
		buf = append(buf, r)
	}
	return emit()
}

// tryConsumeAppropriateEndTag is entered in ModeRCDATA/ModeRAWTEXT with
// the reader at an unconsumed `<`. If what follows is `/` + the name of
// the element that opened this content, it consumes through the name and
// reports matched=true. Otherwise it consumes only what it speculatively
// read and leaves it in t.literalBack so the caller can fold it back
// into the text buffer - the one-rune pushback reader has no way to
// "unread" a multi-character lookahead, so the literal text is recovered
// by hand instead of by rewinding the stream.
func (t *Tokenizer) tryConsumeAppropriateEndTag() (bool, string, error) {
	t.rd.Read() // consume '<'
	r, ok, err := t.peek()
	if err != nil {
		return false, "", err
	}
	if !ok || r != '/' {
		t.literalBack = append(t.literalBack, '<')
		return false, "", nil
	}
	t.rd.Read() // consume '/'

	var nameBuf []rune
	for {
		r, ok, err := t.peek()
		if err != nil {
			return false, "", err
		}
		if !ok || !isTagNameCont(r) {
			break
		}
		t.rd.Read()
		nameBuf = append(nameBuf, r)
	}
	name := string(nameBuf)

	if !strings.EqualFold(name, t.lastTagName) {
		t.literalBack = append(t.literalBack, '<', '/')
		t.literalBack = append(t.literalBack, nameBuf...)
		return false, "", nil
	}
	return true, name, nil
}

func (t *Tokenizer) scanCharacterReference() (rune, error) {
	t.rd.Read() // consume '&'
	r, ok, err := t.peek()
	if err != nil {
		return 0, err
	}
	if ok && r == '#' {
		return t.scanNumericCharacterReference()
	}
	return t.scanNamedCharacterReference()
}

func (t *Tokenizer) scanNamedCharacterReference() (rune, error) {
	pos := t.rd.Position()
	var buf []rune
	for {
		r, ok, err := t.peek()
		if err != nil {
			return 0, err
		}
		if !ok || !isAlnum(r) {
			break
		}
		t.rd.Read()
		buf = append(buf, r)
		if name, found := namedCharRefs[string(buf)]; found {
			if r2, ok2, err := t.peek(); err == nil && ok2 && r2 == ';' {
				t.rd.Read()
			} else {
				t.report(errs.MissingSemicolonAfterCharacterReference, t.rd.Position(), "named character reference missing trailing ';'")
			}
			return name, nil
		}
	}
	t.report(errs.UnknownNamedCharacterReference, pos, "unknown named character reference: &"+string(buf))
	return '&', nil
}

func (t *Tokenizer) scanNumericCharacterReference() (rune, error) {
	pos := t.rd.Position()
	t.rd.Read() // consume '#'
	base := 10
	if r, ok, err := t.peek(); err == nil && ok && (r == 'x' || r == 'X') {
		t.rd.Read()
		base = 16
	}

	var buf []rune
	for {
		r, ok, err := t.peek()
		if err != nil {
			return 0, err
		}
		if !ok || !isBaseDigit(r, base) {
			break
		}
		t.rd.Read()
		buf = append(buf, r)
	}
	if len(buf) == 0 {
		t.report(errs.AbsenceOfDigitsInNumericCharacterReference, pos, "numeric character reference has no digits")
		return 0, errs.New(errs.AbsenceOfDigitsInNumericCharacterReference, pos, "numeric character reference has no digits")
	}
	if r, ok, err := t.peek(); err == nil && ok && r == ';' {
		t.rd.Read()
	} else {
		t.report(errs.MissingSemicolonAfterCharacterReference, t.rd.Position(), "numeric character reference missing trailing ';'")
	}

	cp, err := strconv.ParseInt(string(buf), base, 64)
	if err != nil {
		return 0, errs.New(errs.AbsenceOfDigitsInNumericCharacterReference, pos, "invalid numeric character reference")
	}
	rn, kind, bad := classifyNumericCharRef(cp)
	if bad {
		t.report(kind, pos, "numeric character reference out of range or disallowed")
	}
	return rn, nil
}

func isAlnum(r rune) bool {
	return (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9')
}

func isBaseDigit(r rune, base int) bool {
	if base == 16 {
		return (r >= '0' && r <= '9') || (r >= 'a' && r <= 'f') || (r >= 'A' && r <= 'F')
	}
	return r >= '0' && r <= '9'
}

func isTagNameStart(r rune) bool {
	return (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z')
}

func isTagNameCont(r rune) bool {
	return isTagNameStart(r) || (r >= '0' && r <= '9') || r == '-' || r == '_' || r == ':'
}

func isSpace(r rune) bool {
	switch r {
	case ' ', '\t', '\n', '\r', '\f':
		return true
	}
	return false
}

func (t *Tokenizer) skipSpace() error {
	for {
		r, ok, err := t.peek()
		if err != nil {
			return err
		}
		if !ok || !isSpace(r) {
			return nil
		}
		t.rd.Read()
	}
}

// scanTagOpen is entered with the reader positioned at an unconsumed `<`.
func (t *Tokenizer) scanTagOpen() (Token, error) {
	pos := t.rd.Position()
	t.rd.Read() // consume '<'

	r, ok, err := t.peek()
	if err != nil {
		return Token{}, err
	}
	if !ok {
		return Token{}, errs.New(errs.EOFBeforeTagName, pos, "EOF right after '<'")
	}

	switch {
	case r == '/':
		t.rd.Read()
		return t.scanEndTagOpen(pos)
	case r == '!':
		t.rd.Read()
		return t.scanMarkupDeclaration(pos)
	case isTagNameStart(r):
		return t.scanStartTag(pos)
	default:
		return Token{}, errs.New(errs.InvalidFirstCharacterOfTagName, t.rd.Position(), "invalid first character of tag name")
	}
}

func (t *Tokenizer) scanTagName() (string, error) {
	var buf []rune
	for {
		r, ok, err := t.peek()
		if err != nil {
			return "", err
		}
		if !ok || !isTagNameCont(r) {
			break
		}
		t.rd.Read()
		buf = append(buf, r)
	}
	if len(buf) == 0 {
		return "", errs.New(errs.MissingEndTagName, t.rd.Position(), "missing tag name")
	}
	return string(buf), nil
}

// scanEndTagOpen only ever runs in ModeData (scanText's
// tryConsumeAppropriateEndTag handles `</` inside ModeRCDATA/ModeRAWTEXT
// content directly, since there the appropriate-end-tag check must fire
// mid-text-scan rather than at Next()'s top-level dispatch), so any end
// tag reaching here closes the current element unconditionally.
func (t *Tokenizer) scanEndTagOpen(pos source.Position) (Token, error) {
	name, err := t.scanTagName()
	if err != nil {
		return Token{}, err
	}
	if err := t.skipSpace(); err != nil {
		return Token{}, err
	}
	if err := expectGT(t); err != nil {
		return Token{}, err
	}
	t.mode = ModeData
	return Token{Kind: EndTag, Pos: pos, TagName: name}, nil
}

func expectGT(t *Tokenizer) error {
	r, err := t.rd.Read()
	if err != nil {
		if err == reader.EOF {
			return errs.New(errs.EOFInTag, t.rd.Position(), "EOF in tag")
		}
		return err
	}
	if r != '>' {
		return errs.New(errs.EOFInTag, t.rd.Position(), "expected '>' to close tag")
	}
	return nil
}

func (t *Tokenizer) scanStartTag(pos source.Position) (Token, error) {
	name, err := t.scanTagName()
	if err != nil {
		return Token{}, err
	}

	var attrs []Attribute
	selfClosing := false
	for {
		if err := t.skipSpace(); err != nil {
			return Token{}, err
		}
		r, ok, err := t.peek()
		if err != nil {
			return Token{}, err
		}
		if !ok {
			return Token{}, errs.New(errs.EOFInTag, t.rd.Position(), "EOF in tag")
		}
		if r == '/' {
			t.rd.Read()
			r2, err := t.rd.Read()
			if err != nil {
				if err == reader.EOF {
					return Token{}, errs.New(errs.EOFInTag, t.rd.Position(), "EOF in tag")
				}
				return Token{}, err
			}
			if r2 != '>' {
				t.report(errs.UnexpectedSolidusInTag, t.rd.Position(), "unexpected '/' in tag")
				continue
			}
			selfClosing = true
			break
		}
		if r == '>' {
			t.rd.Read()
			break
		}
		attr, err := t.scanAttribute(name)
		if err != nil {
			return Token{}, err
		}
		attrs = append(attrs, attr)
	}

	t.lastTagName = name
	return Token{
		Kind:        StartTag,
		Pos:         pos,
		TagName:     name,
		Attrs:       attrs,
		SelfClosing: selfClosing,
	}, nil
}

// specialOperatorChars maps the characters spec §4.3 allows immediately
// before `=` in an attribute name to the Operator they select.
// scanAttribute consults this table on every tag; it does not check
// whether the tag is an operation element.
var specialOperatorChars = map[rune]Operator{
	'+': OpAdd,
	'-': OpSub,
	'%': OpRemove,
	'~': OpRegexReplace,
	'^': OpPrecede,
	'$': OpTail,
}

func (t *Tokenizer) scanAttribute(tagName string) (Attribute, error) {
	pos := t.rd.Position()
	var nameBuf []rune
	op := OpPlain

	for {
		r, ok, err := t.peek()
		if err != nil {
			return Attribute{}, err
		}
		if !ok || isSpace(r) || r == '=' || r == '>' || r == '/' {
			break
		}
		if opKind, isOp := specialOperatorChars[r]; isOp {
			// Only an operator when immediately followed by '=' (spec
			// §4.3: "immediately preceding =").
			t.rd.Read()
			r2, ok2, err := t.peek()
			if err != nil {
				return Attribute{}, err
			}
			if ok2 && r2 == '=' {
				op = opKind
				break
			}
			nameBuf = append(nameBuf, r)
			continue
		}
		t.rd.Read()
		nameBuf = append(nameBuf, r)
	}
	if len(nameBuf) == 0 {
		return Attribute{}, errs.New(errs.UnexpectedCharacterInAttributeName, pos, "empty attribute name")
	}
	name := string(nameBuf)

	if err := t.skipSpace(); err != nil {
		return Attribute{}, err
	}
	r, ok, err := t.peek()
	if err != nil {
		return Attribute{}, err
	}
	if !ok || r != '=' {
		if op != OpPlain {
			return Attribute{}, errs.New(errs.MissingAttributeValue, t.rd.Position(), "attribute operator requires a value")
		}
		// A value may also follow the name after whitespace with no '='
		// (`as 'progress' with 0UL`) when it opens with a quote, a digit,
		// '-', '{', '[' or '$'; anything else leaves the attribute valueless.
		if !ok || !(r == '"' || r == '\'' || r == '-' || r == '{' || r == '[' || r == '$' || (r >= '0' && r <= '9')) {
			return Attribute{Name: name, Operator: OpPlain, Pos: pos}, nil
		}
	} else {
		t.rd.Read() // consume '='
		if err := t.skipSpace(); err != nil {
			return Attribute{}, err
		}
	}

	raw := t.rawAttrTags[normalizeTagName(tagName)]
	value, quote, err := t.scanAttributeValue(raw)
	if err != nil {
		return Attribute{}, err
	}
	return Attribute{Name: name, Operator: op, Quote: quote, Value: value, Pos: pos}, nil
}

func (t *Tokenizer) scanAttributeValue(raw bool) (*vcm.Node, QuoteStyle, error) {
	r, ok, err := t.peek()
	if err != nil {
		return nil, QuoteNone, err
	}
	if !ok {
		return nil, QuoteNone, errs.New(errs.EOFInTag, t.rd.Position(), "EOF in attribute value")
	}

	if raw {
		return t.scanRawAttributeValue(r)
	}

	switch r {
	case '"':
		t.rd.Read()
		v, err := t.ej.ParseUntil(t.rd, func(c rune) bool { return c == '"' })
		if err != nil {
			return nil, QuoteNone, err
		}
		if _, err := t.rd.Read(); err != nil { // consume closing quote
			return nil, QuoteNone, err
		}
		return v.Simplify(), QuoteDouble, nil
	case '\'':
		t.rd.Read()
		v, err := t.ej.ParseUntil(t.rd, func(c rune) bool { return c == '\'' })
		if err != nil {
			return nil, QuoteNone, err
		}
		if _, err := t.rd.Read(); err != nil {
			return nil, QuoteNone, err
		}
		return v.Simplify(), QuoteSingle, nil
	case '{', '[', '$':
		v, err := t.ej.ParseValue(t.rd)
		if err != nil {
			return nil, QuoteNone, err
		}
		return v, QuoteNone, nil
	default:
		// A leading digit or '-' is unambiguously the start of an eJSON
		// number (no bare-word attribute value can start that way), so it
		// is parsed with full literal semantics - suffixes included, per
		// spec §8 scenario 4 (`with 0UL` must evaluate to ULONGINT(0), not
		// the literal text "0UL").
		if (r >= '0' && r <= '9') || r == '-' {
			v, err := t.ej.ParseValue(t.rd)
			if err != nil {
				return nil, QuoteNone, err
			}
			return v, QuoteNone, nil
		}
		v, err := t.ej.ParseUntil(t.rd, func(c rune) bool { return isSpace(c) || c == '>' || c == '/' })
		if err != nil {
			return nil, QuoteNone, err
		}
		return v.Simplify(), QuoteNone, nil
	}
}

// scanRawAttributeValue reads an attribute value verbatim, with no eJSON/
// JSONEE delegation - not even `$`-interpolation - for tags marked via
// WithRawAttributeTags (spec SPEC_FULL.md §C.1's tag_has_raw_attr).
func (t *Tokenizer) scanRawAttributeValue(lead rune) (*vcm.Node, QuoteStyle, error) {
	switch lead {
	case '"':
		t.rd.Read()
		s, err := t.readRawUntil(func(c rune) bool { return c == '"' })
		if err != nil {
			return nil, QuoteNone, err
		}
		if _, err := t.rd.Read(); err != nil {
			return nil, QuoteNone, err
		}
		return vcm.String(s), QuoteDouble, nil
	case '\'':
		t.rd.Read()
		s, err := t.readRawUntil(func(c rune) bool { return c == '\'' })
		if err != nil {
			return nil, QuoteNone, err
		}
		if _, err := t.rd.Read(); err != nil {
			return nil, QuoteNone, err
		}
		return vcm.String(s), QuoteSingle, nil
	default:
		s, err := t.readRawUntil(func(c rune) bool { return isSpace(c) || c == '>' || c == '/' })
		if err != nil {
			return nil, QuoteNone, err
		}
		return vcm.String(s), QuoteNone, nil
	}
}

func (t *Tokenizer) readRawUntil(stop func(rune) bool) (string, error) {
	var buf []rune
	for {
		r, ok, err := t.peek()
		if err != nil {
			return "", err
		}
		if !ok || stop(r) {
			return string(buf), nil
		}
		t.rd.Read()
		buf = append(buf, r)
	}
}

func (t *Tokenizer) scanMarkupDeclaration(pos source.Position) (Token, error) {
	if r, ok, err := t.peek(); err != nil {
		return Token{}, err
	} else if ok && r == '-' {
		t.rd.Read()
		if r2, err := t.rd.Read(); err != nil || r2 != '-' {
			return Token{}, errs.New(errs.IncorrectlyOpenedComment, t.rd.Position(), "expected '--' to open comment")
		}
		return t.scanComment(pos)
	}
	return t.scanDoctype(pos)
}

func (t *Tokenizer) scanComment(pos source.Position) (Token, error) {
	var buf []rune
	dashes := 0
	for {
		r, err := t.rd.Read()
		if err != nil {
			if err == reader.EOF {
				return Token{}, errs.New(errs.EOFInComment, t.rd.Position(), "EOF in comment")
			}
			return Token{}, err
		}
		if r == '-' {
			dashes++
			if dashes >= 2 {
				r2, ok, err := t.peek()
				if err != nil {
					return Token{}, err
				}
				if ok && r2 == '>' {
					t.rd.Read()
					return Token{Kind: Comment, Pos: pos, CommentText: string(buf)}, nil
				}
			}
			continue
		}
		for ; dashes > 1; dashes-- {
			buf = append(buf, '-')
		}
		dashes = 0
		buf = append(buf, r)
	}
}

func (t *Tokenizer) scanDoctype(pos source.Position) (Token, error) {
	if err := t.skipSpace(); err != nil {
		return Token{}, err
	}
	// Expect literal "DOCTYPE" (case-insensitive), already past "<!".
	for _, want := range "DOCTYPE" {
		r, err := t.rd.Read()
		if err != nil {
			if err == reader.EOF {
				return Token{}, errs.New(errs.EOFInDoctype, t.rd.Position(), "EOF in DOCTYPE")
			}
			return Token{}, err
		}
		if toUpper(r) != want {
			return Token{}, errs.New(errs.MissingDoctypeName, t.rd.Position(), "malformed DOCTYPE keyword")
		}
	}
	if err := t.skipSpace(); err != nil {
		return Token{}, err
	}

	var nameBuf []rune
	for {
		r, ok, err := t.peek()
		if err != nil {
			return Token{}, err
		}
		if !ok || isSpace(r) || r == '>' {
			break
		}
		t.rd.Read()
		nameBuf = append(nameBuf, r)
	}
	if len(nameBuf) == 0 {
		t.report(errs.MissingDoctypeName, t.rd.Position(), "DOCTYPE missing a name")
	}

	tok := Token{Kind: Doctype, Pos: pos, DoctypeName: string(nameBuf)}

	if err := t.skipSpace(); err != nil {
		return Token{}, err
	}
	r, ok, err := t.peek()
	if err != nil {
		return Token{}, err
	}
	if ok && r != '>' {
		pub, sys, err := t.scanDoctypeExternalIDs()
		if err != nil {
			return Token{}, err
		}
		tok.DoctypePublicID, tok.DoctypeSystemID = pub, sys
	}

	r2, err := t.rd.Read()
	if err != nil {
		if err == reader.EOF {
			return Token{}, errs.New(errs.EOFInDoctype, t.rd.Position(), "EOF in DOCTYPE")
		}
		return Token{}, err
	}
	if r2 != '>' {
		return Token{}, errs.New(errs.EOFInDoctype, t.rd.Position(), "expected '>' to close DOCTYPE")
	}
	return tok, nil
}

// scanDoctypeExternalIDs handles the simple `PUBLIC "id" "id"` / `SYSTEM
// "id"` forms; spec §4.3 names an 18-state group for full bogus-doctype
// recovery, collapsed here to the well-formed cases plus a best-effort
// skip-to-'>' for anything else.
func (t *Tokenizer) scanDoctypeExternalIDs() (string, string, error) {
	var kw []rune
	for {
		r, ok, err := t.peek()
		if err != nil {
			return "", "", err
		}
		if !ok || isSpace(r) || r == '>' {
			break
		}
		t.rd.Read()
		kw = append(kw, r)
	}
	keyword := strings.ToUpper(string(kw))

	if err := t.skipSpace(); err != nil {
		return "", "", err
	}

	var pub, sys string
	switch keyword {
	case "PUBLIC":
		p, err := t.scanQuotedIdentifier(errs.MissingDoctypePublicIdentifier)
		if err != nil {
			return "", "", err
		}
		pub = p
		if err := t.skipSpace(); err != nil {
			return "", "", err
		}
		if r, ok, err := t.peek(); err == nil && ok && (r == '"' || r == '\'') {
			s, err := t.scanQuotedIdentifier(errs.MissingDoctypeSystemIdentifier)
			if err != nil {
				return "", "", err
			}
			sys = s
		}
	case "SYSTEM":
		s, err := t.scanQuotedIdentifier(errs.MissingDoctypeSystemIdentifier)
		if err != nil {
			return "", "", err
		}
		sys = s
	default:
		t.report(errs.MissingDoctypeName, t.rd.Position(), "unrecognized DOCTYPE external-id keyword")
		for {
			r, ok, err := t.peek()
			if err != nil {
				return "", "", err
			}
			if !ok || r == '>' {
				break
			}
			t.rd.Read()
		}
	}
	if err := t.skipSpace(); err != nil {
		return "", "", err
	}
	return pub, sys, nil
}

func (t *Tokenizer) scanQuotedIdentifier(missingKind errs.Kind) (string, error) {
	r, ok, err := t.peek()
	if err != nil {
		return "", err
	}
	if !ok || (r != '"' && r != '\'') {
		return "", errs.New(missingKind, t.rd.Position(), "expected quoted identifier")
	}
	quote := r
	t.rd.Read()
	var buf []rune
	for {
		r, err := t.rd.Read()
		if err != nil {
			if err == reader.EOF {
				return "", errs.New(errs.EOFInDoctype, t.rd.Position(), "EOF in DOCTYPE identifier")
			}
			return "", err
		}
		if r == quote {
			return string(buf), nil
		}
		buf = append(buf, r)
	}
}

func toUpper(r rune) rune {
	if r >= 'a' && r <= 'z' {
		return r - ('a' - 'A')
	}
	return r
}
