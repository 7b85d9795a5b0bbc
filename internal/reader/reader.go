// Package reader implements the character-stream reader of spec §4.1
// (component C1): UTF-8 decoding with line/column/offset tracking, a
// single-character pushback buffer, and a lookback ring for diagnostics.
//
// The incremental-decode-over-an-io.Reader shape follows the teacher's
// latin1Reader (go-xml/xml/util.go); HVML sources are UTF-8 only (spec §3,
// §6) so there is no charset table here, only rune decoding.
package reader

import (
	"bufio"
	"errors"
	"io"
	"unicode/utf8"

	"golang.org/x/text/unicode/norm"

	"github.com/purc-go/purc/internal/errs"
	"github.com/purc-go/purc/internal/source"
)

// EOF is returned by Read once the stream is exhausted. It is a sticky
// sentinel per spec §4.1: every subsequent Read also returns EOF.
var EOF = errors.New("reader: eof")

// Reader decodes a byte stream into Unicode scalar values, tracking
// position and offering one character of lookback.
type Reader struct {
	br *bufio.Reader

	pos source.Position // position of the next character to read

	havePrev bool // a character has been read at least once
	prevPos  source.Position
	prevR    rune
	prevW    int
	pushed   bool // Unread() was called since the last Read()

	atEOF bool

	lookback    []rune
	lookbackCap int
}

// New wraps r. lookback is the size of the ring buffer used for error
// snippets (spec §4.1 set_lookback); 0 disables it.
func New(r io.Reader, lookback int) *Reader {
	return &Reader{
		br:          bufio.NewReader(r),
		pos:         source.Position{Line: 1, Col: 1, Offset: 0},
		lookbackCap: lookback,
	}
}

// SetLookback changes the lookback ring capacity, truncating if it shrinks.
func (rd *Reader) SetLookback(n int) {
	rd.lookbackCap = n
	if n == 0 {
		rd.lookback = nil
		return
	}
	if len(rd.lookback) > n {
		rd.lookback = rd.lookback[len(rd.lookback)-n:]
	}
}

// Position reports the position of the next character to be read.
func (rd *Reader) Position() source.Position {
	return rd.pos
}

// PeekPosition is an alias for Position kept for readability at call sites
// that mirror spec §4.1's `peek_position()` naming.
func (rd *Reader) PeekPosition() source.Position {
	return rd.pos
}

// Lookback renders the most recently read characters, oldest first, for
// use in diagnostics (spec §6: "an optional snippet from the reader's
// lookback ring"). The result is NFC-normalized (SPEC_FULL.md §B):
// combining-mark sequences a source author typed as separate runes would
// otherwise render a snippet that looks different from the source text
// it was copied from.
func (rd *Reader) Lookback() string {
	return norm.NFC.String(string(rd.lookback))
}

func (rd *Reader) remember(r rune) {
	if rd.lookbackCap == 0 {
		return
	}
	rd.lookback = append(rd.lookback, r)
	if len(rd.lookback) > rd.lookbackCap {
		rd.lookback = rd.lookback[len(rd.lookback)-rd.lookbackCap:]
	}
}

// Read decodes and returns the next character, advancing position. Once
// EOF is returned it is returned forever after (sticky sentinel).
func (rd *Reader) Read() (rune, error) {
	if rd.pushed {
		rd.pushed = false
		rd.pos = rd.prevPos.Advance(rd.prevR, rd.prevW)
		return rd.prevR, nil
	}
	if rd.atEOF {
		return 0, EOF
	}

	at := rd.pos
	r, w, err := rd.br.ReadRune()
	if err != nil {
		if err == io.EOF {
			rd.atEOF = true
			return 0, EOF
		}
		return 0, err
	}
	if r == utf8.RuneError && w == 1 {
		return 0, errs.New(errs.InvalidUTF8Character, at, "invalid UTF-8 byte sequence")
	}

	rd.pos = at.Advance(r, w)
	rd.havePrev = true
	rd.prevPos = at
	rd.prevR = r
	rd.prevW = w
	rd.remember(r)
	return r, nil
}

// Unread pushes back the most recently read character so the next Read
// returns it again and Position() reports that character's own start.
// Calling Unread twice consecutively (without an intervening Read) is
// forbidden per spec §4.1 and panics, since nothing defines what a second
// pushback would even mean.
func (rd *Reader) Unread() {
	if rd.pushed {
		panic("reader: Unread called twice consecutively")
	}
	if !rd.havePrev {
		panic("reader: Unread called before any Read")
	}
	rd.pushed = true
	rd.pos = rd.prevPos
}
