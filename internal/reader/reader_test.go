package reader_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/purc-go/purc/internal/errs"
	"github.com/purc-go/purc/internal/reader"
)

func TestReadAdvancesPositionByRune(t *testing.T) {
	rd := reader.New(strings.NewReader("ab\ncd"), 0)

	for _, want := range []struct {
		r          rune
		line, col int
	}{
		{'a', 1, 1},
		{'b', 1, 2},
		{'\n', 1, 3},
		{'c', 2, 1},
	} {
		pos := rd.Position()
		assert.Equal(t, want.line, pos.Line)
		assert.Equal(t, want.col, pos.Col)
		r, err := rd.Read()
		require.NoError(t, err)
		assert.Equal(t, want.r, r)
	}
}

func TestReadIsStickyAtEOF(t *testing.T) {
	rd := reader.New(strings.NewReader("a"), 0)
	_, err := rd.Read()
	require.NoError(t, err)

	_, err = rd.Read()
	assert.ErrorIs(t, err, reader.EOF)
	_, err = rd.Read()
	assert.ErrorIs(t, err, reader.EOF)
}

func TestUnreadReturnsSameRuneAndPosition(t *testing.T) {
	rd := reader.New(strings.NewReader("xy"), 0)
	r1, err := rd.Read()
	require.NoError(t, err)
	posAfterFirst := rd.Position()

	rd.Unread()
	assert.NotEqual(t, posAfterFirst, rd.Position())

	r2, err := rd.Read()
	require.NoError(t, err)
	assert.Equal(t, r1, r2)
	assert.Equal(t, posAfterFirst, rd.Position())
}

func TestUnreadTwiceConsecutivelyPanics(t *testing.T) {
	rd := reader.New(strings.NewReader("x"), 0)
	_, err := rd.Read()
	require.NoError(t, err)
	rd.Unread()

	assert.Panics(t, func() { rd.Unread() })
}

func TestUnreadBeforeAnyReadPanics(t *testing.T) {
	rd := reader.New(strings.NewReader("x"), 0)
	assert.Panics(t, func() { rd.Unread() })
}

func TestInvalidUTF8ByteReportsError(t *testing.T) {
	rd := reader.New(strings.NewReader("\x80"), 0)
	_, err := rd.Read()
	require.Error(t, err)

	var pe *errs.Error
	require.ErrorAs(t, err, &pe)
	assert.Equal(t, errs.InvalidUTF8Character, pe.Kind)
}

func TestLookbackRendersRecentCharactersOldestFirst(t *testing.T) {
	rd := reader.New(strings.NewReader("hello"), 3)
	for range 5 {
		_, err := rd.Read()
		require.NoError(t, err)
	}
	assert.Equal(t, "llo", rd.Lookback())
}

func TestLookbackDisabledByZeroCapacity(t *testing.T) {
	rd := reader.New(strings.NewReader("hello"), 0)
	_, err := rd.Read()
	require.NoError(t, err)
	assert.Equal(t, "", rd.Lookback())
}

func TestLookbackNormalizesToNFC(t *testing.T) {
	// U+0065 ('e') followed by U+0301 (combining acute accent): the
	// decomposed form, which NFC-normalizes to the single precomposed
	// rune U+00E9.
	decomposed := string([]rune{0x0065, 0x0301})
	precomposed := string(rune(0x00E9))

	rd := reader.New(strings.NewReader(decomposed), 8)
	for range []rune(decomposed) {
		_, err := rd.Read()
		require.NoError(t, err)
	}
	assert.Equal(t, precomposed, rd.Lookback())
}

func TestSetLookbackTruncatesOnShrink(t *testing.T) {
	rd := reader.New(strings.NewReader("hello"), 5)
	for range 5 {
		_, err := rd.Read()
		require.NoError(t, err)
	}
	rd.SetLookback(2)
	assert.Equal(t, "lo", rd.Lookback())
}
