// Package errs is the HVML front end's error catalogue (spec §7).
// Diagnostics that carry a catalogue kind and a source position are
// *errs.Error values, mirroring the teacher's SyntaxError/wrapError split
// (go-xml/xml/error.go) generalized from one wrapped stdlib error type to
// the full kind enumeration below. Not every error in the module is one:
// reader.EOF is a plain sentinel, and I/O failures, variant type errors
// and the purc load wrappers are ordinary errors.
package errs

import (
	"fmt"

	"github.com/purc-go/purc/internal/source"
)

// Kind enumerates the error taxonomy of spec.md §7. The grouping comments
// mirror the spec's own grouping; kind values are stable and safe to
// compare with ==.
type Kind int

const (
	// Lexical (C1/C7)
	InvalidUTF8Character Kind = iota
	UnexpectedNullCharacter
	UnexpectedEOF
	UnexpectedCharacter
	UnexpectedUnescapedControlCharacter

	// HTML-like tag structure (C7)
	EOFBeforeTagName
	MissingEndTagName
	InvalidFirstCharacterOfTagName
	EOFInTag
	UnexpectedEqualsSignBeforeAttributeName
	UnexpectedCharacterInAttributeName
	UnexpectedCharacterInUnquotedAttributeValue
	MissingWhitespaceBetweenAttributes
	UnexpectedSolidusInTag
	MissingAttributeValue

	// Comment / DOCTYPE (C7)
	IncorrectlyOpenedComment
	AbruptClosingOfEmptyComment
	EOFInComment
	NestedComment
	IncorrectlyClosedComment
	EOFInDoctype
	MissingDoctypeName
	MissingWhitespaceBeforeDoctypeName
	MissingWhitespaceAfterDoctypePublicKeyword
	MissingWhitespaceAfterDoctypeSystemKeyword
	MissingDoctypePublicIdentifier
	MissingDoctypeSystemIdentifier
	AbruptDoctypePublicIdentifier
	AbruptDoctypeSystemIdentifier

	// Character references (C7)
	UnknownNamedCharacterReference
	AbsenceOfDigitsInNumericCharacterReference
	MissingSemicolonAfterCharacterReference
	CharacterReferenceOutsideUnicodeRange
	SurrogateCharacterReference
	NoncharacterCharacterReference
	NullCharacterReference
	ControlCharacterReference

	// eJSON/JSONEE (C6)
	UnexpectedJSONNumberExponent
	UnexpectedJSONNumberFraction
	UnexpectedJSONNumberInteger
	UnexpectedJSONNumber
	UnexpectedRightBrace
	UnexpectedRightBracket
	UnexpectedJSONKeyName
	UnexpectedComma
	UnexpectedJSONKeyword
	UnexpectedBase64
	BadJSONNumber
	BadJSONStringEscapeEntity
	BadJSONEE
	BadJSONEEEscapeEntity
	BadJSONEEVariableName
	EmptyJSONEEName
	BadJSONEEName
	BadJSONEEKeyword
	EmptyJSONEEKeyword
	BadJSONEEUnexpectedComma
	BadJSONEEUnexpectedParenthesis
	BadJSONEEUnexpectedLeftAngleBracket
	MaxDepthExceeded

	// VDOM (C9)
	WrongTagNesting
	UnmatchedEndTag
	MissingRootHVML

	// Evaluator (C10)
	UndefinedVariable
)

var kindNames = map[Kind]string{
	InvalidUTF8Character:                        "INVALID_UTF8_CHARACTER",
	UnexpectedNullCharacter:                      "UNEXPECTED_NULL_CHARACTER",
	UnexpectedEOF:                                "UNEXPECTED_EOF",
	UnexpectedCharacter:                          "UNEXPECTED_CHARACTER",
	UnexpectedUnescapedControlCharacter:          "UNEXPECTED_UNESCAPED_CONTROL_CHARACTER",
	EOFBeforeTagName:                             "EOF_BEFORE_TAG_NAME",
	MissingEndTagName:                            "MISSING_END_TAG_NAME",
	InvalidFirstCharacterOfTagName:               "INVALID_FIRST_CHARACTER_OF_TAG_NAME",
	EOFInTag:                                     "EOF_IN_TAG",
	UnexpectedEqualsSignBeforeAttributeName:      "UNEXPECTED_EQUALS_SIGN_BEFORE_ATTRIBUTE_NAME",
	UnexpectedCharacterInAttributeName:           "UNEXPECTED_CHARACTER_IN_ATTRIBUTE_NAME",
	UnexpectedCharacterInUnquotedAttributeValue:  "UNEXPECTED_CHARACTER_IN_UNQUOTED_ATTRIBUTE_VALUE",
	MissingWhitespaceBetweenAttributes:           "MISSING_WHITESPACE_BETWEEN_ATTRIBUTES",
	UnexpectedSolidusInTag:                       "UNEXPECTED_SOLIDUS_IN_TAG",
	MissingAttributeValue:                        "MISSING_ATTRIBUTE_VALUE",
	IncorrectlyOpenedComment:                     "INCORRECTLY_OPENED_COMMENT",
	AbruptClosingOfEmptyComment:                  "ABRUPT_CLOSING_OF_EMPTY_COMMENT",
	EOFInComment:                                 "EOF_IN_COMMENT",
	NestedComment:                                "NESTED_COMMENT",
	IncorrectlyClosedComment:                     "INCORRECTLY_CLOSED_COMMENT",
	EOFInDoctype:                                 "EOF_IN_DOCTYPE",
	MissingDoctypeName:                           "MISSING_DOCTYPE_NAME",
	MissingWhitespaceBeforeDoctypeName:           "MISSING_WHITESPACE_BEFORE_DOCTYPE_NAME",
	MissingWhitespaceAfterDoctypePublicKeyword:   "MISSING_WHITESPACE_AFTER_DOCTYPE_PUBLIC_KEYWORD",
	MissingWhitespaceAfterDoctypeSystemKeyword:   "MISSING_WHITESPACE_AFTER_DOCTYPE_SYSTEM_KEYWORD",
	MissingDoctypePublicIdentifier:               "MISSING_DOCTYPE_PUBLIC_IDENTIFIER",
	MissingDoctypeSystemIdentifier:               "MISSING_DOCTYPE_SYSTEM_IDENTIFIER",
	AbruptDoctypePublicIdentifier:                "ABRUPT_DOCTYPE_PUBLIC_IDENTIFIER",
	AbruptDoctypeSystemIdentifier:                "ABRUPT_DOCTYPE_SYSTEM_IDENTIFIER",
	UnknownNamedCharacterReference:               "UNKNOWN_NAMED_CHARACTER_REFERENCE",
	AbsenceOfDigitsInNumericCharacterReference:   "ABSENCE_OF_DIGITS_IN_NUMERIC_CHARACTER_REFERENCE",
	MissingSemicolonAfterCharacterReference:      "MISSING_SEMICOLON_AFTER_CHARACTER_REFERENCE",
	CharacterReferenceOutsideUnicodeRange:        "CHARACTER_REFERENCE_OUTSIDE_UNICODE_RANGE",
	SurrogateCharacterReference:                  "SURROGATE_CHARACTER_REFERENCE",
	NoncharacterCharacterReference:               "NONCHARACTER_CHARACTER_REFERENCE",
	NullCharacterReference:                       "NULL_CHARACTER_REFERENCE",
	ControlCharacterReference:                    "CONTROL_CHARACTER_REFERENCE",
	UnexpectedJSONNumberExponent:                 "UNEXPECTED_JSON_NUMBER_EXPONENT",
	UnexpectedJSONNumberFraction:                 "UNEXPECTED_JSON_NUMBER_FRACTION",
	UnexpectedJSONNumberInteger:                  "UNEXPECTED_JSON_NUMBER_INTEGER",
	UnexpectedJSONNumber:                         "UNEXPECTED_JSON_NUMBER",
	UnexpectedRightBrace:                         "UNEXPECTED_RIGHT_BRACE",
	UnexpectedRightBracket:                       "UNEXPECTED_RIGHT_BRACKET",
	UnexpectedJSONKeyName:                        "UNEXPECTED_JSON_KEY_NAME",
	UnexpectedComma:                              "UNEXPECTED_COMMA",
	UnexpectedJSONKeyword:                        "UNEXPECTED_JSON_KEYWORD",
	UnexpectedBase64:                             "UNEXPECTED_BASE64",
	BadJSONNumber:                                "BAD_JSON_NUMBER",
	BadJSONStringEscapeEntity:                    "BAD_JSON_STRING_ESCAPE_ENTITY",
	BadJSONEE:                                    "BAD_JSONEE",
	BadJSONEEEscapeEntity:                        "BAD_JSONEE_ESCAPE_ENTITY",
	BadJSONEEVariableName:                        "BAD_JSONEE_VARIABLE_NAME",
	EmptyJSONEEName:                              "EMPTY_JSONEE_NAME",
	BadJSONEEName:                                "BAD_JSONEE_NAME",
	BadJSONEEKeyword:                             "BAD_JSONEE_KEYWORD",
	EmptyJSONEEKeyword:                           "EMPTY_JSONEE_KEYWORD",
	BadJSONEEUnexpectedComma:                     "BAD_JSONEE_UNEXPECTED_COMMA",
	BadJSONEEUnexpectedParenthesis:               "BAD_JSONEE_UNEXPECTED_PARENTHESIS",
	BadJSONEEUnexpectedLeftAngleBracket:          "BAD_JSONEE_UNEXPECTED_LEFT_ANGLE_BRACKET",
	MaxDepthExceeded:                             "MAX_DEPTH_EXCEEDED",
	WrongTagNesting:                              "WRONG_TAG_NESTING",
	UnmatchedEndTag:                              "UNMATCHED_END_TAG",
	MissingRootHVML:                              "MISSING_ROOT_HVML",
	UndefinedVariable:                            "UNDEFINED_VARIABLE",
}

func (k Kind) String() string {
	if s, ok := kindNames[k]; ok {
		return s
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// Error is the concrete error type returned by every component. It carries
// enough context (kind, position, message, optional lookback snippet) for
// a caller to render a diagnostic without re-deriving it.
type Error struct {
	Kind    Kind
	Pos     source.Position
	Msg     string
	Snippet string
}

func (e *Error) Error() string {
	if e.Snippet != "" {
		return fmt.Sprintf("%s at %s: %s (near %q)", e.Kind, e.Pos, e.Msg, e.Snippet)
	}
	return fmt.Sprintf("%s at %s: %s", e.Kind, e.Pos, e.Msg)
}

// New builds an *Error. msg may be empty; callers typically pass a short
// human-readable note beyond what Kind already conveys.
func New(kind Kind, pos source.Position, msg string) *Error {
	return &Error{Kind: kind, Pos: pos, Msg: msg}
}

// WithSnippet returns a copy of e with Snippet set, for example to the
// text of a reader's Lookback (spec §1/§6). The reader, tokenizer and
// generator do not attach snippets themselves.
func (e *Error) WithSnippet(s string) *Error {
	cp := *e
	cp.Snippet = s
	return &cp
}
