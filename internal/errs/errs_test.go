package errs_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/purc-go/purc/internal/errs"
	"github.com/purc-go/purc/internal/source"
)

func TestKindStringReturnsCatalogueName(t *testing.T) {
	assert.Equal(t, "UNMATCHED_END_TAG", errs.UnmatchedEndTag.String())
}

func TestKindStringFallsBackForUnknownKind(t *testing.T) {
	var unknown errs.Kind = 9999
	assert.Equal(t, "Kind(9999)", unknown.String())
}

func TestErrorStringIncludesKindPositionAndMessage(t *testing.T) {
	pos := source.Position{Line: 2, Col: 5, Offset: 10}
	err := errs.New(errs.MissingRootHVML, pos, "document has no <hvml> root")

	assert.ErrorContains(t, err, "MISSING_ROOT_HVML")
	assert.ErrorContains(t, err, "2:5")
	assert.ErrorContains(t, err, "document has no <hvml> root")
}

func TestErrorStringIncludesSnippetWhenPresent(t *testing.T) {
	err := errs.New(errs.UnexpectedCharacter, source.Position{Line: 1, Col: 1}, "bad char").
		WithSnippet("<di")

	assert.ErrorContains(t, err, `near "<di"`)
}

func TestWithSnippetLeavesOriginalUnmodified(t *testing.T) {
	orig := errs.New(errs.UnexpectedCharacter, source.Position{Line: 1, Col: 1}, "bad char")
	_ = orig.WithSnippet("xyz")

	assert.Empty(t, orig.Snippet)
}
