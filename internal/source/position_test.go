package source_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/purc-go/purc/internal/source"
)

func TestZeroDetectsUnsetPosition(t *testing.T) {
	assert.True(t, source.Position{}.Zero())
	assert.False(t, source.Position{Line: 1, Col: 1}.Zero())
}

func TestStringFormatsAsLineColon(t *testing.T) {
	p := source.Position{Line: 3, Col: 7, Offset: 42}
	assert.Equal(t, "3:7", p.String())
}

func TestAdvanceOnNewlineResetsColumnAndBumpsLine(t *testing.T) {
	p := source.Position{Line: 1, Col: 5, Offset: 4}
	next := p.Advance('\n', 1)
	assert.Equal(t, 2, next.Line)
	assert.Equal(t, 1, next.Col)
	assert.Equal(t, 5, next.Offset)
}

func TestAdvanceOnOrdinaryRuneBumpsColumnAndOffsetByWidth(t *testing.T) {
	p := source.Position{Line: 1, Col: 1, Offset: 0}
	next := p.Advance('é', 2)
	assert.Equal(t, 1, next.Line)
	assert.Equal(t, 2, next.Col)
	assert.Equal(t, 2, next.Offset)
}
