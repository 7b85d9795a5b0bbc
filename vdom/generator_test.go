package vdom_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/purc-go/purc/internal/reader"
	"github.com/purc-go/purc/tokenizer"
	"github.com/purc-go/purc/vcm"
	"github.com/purc-go/purc/vdom"
)

func parseDocument(t *testing.T, src string) *vdom.Node {
	t.Helper()
	rd := reader.New(strings.NewReader(src), 0)
	tz := tokenizer.New(rd)
	gen := vdom.New()

	for {
		tok, err := tz.Next()
		require.NoError(t, err)
		require.NoError(t, gen.PushToken(tz, tok))
		if tok.Kind == tokenizer.EOFToken {
			break
		}
	}
	doc := gen.End()
	require.NotNil(t, doc)
	return doc
}

func contentText(n *vdom.Node) string {
	var s string
	if n.Content.Kind == vcm.KConcatString {
		for _, e := range n.Content.Elements {
			if e.Kind == vcm.KString {
				s += e.Str
			}
		}
		return s
	}
	return n.Content.Str
}

func TestDoctypeAndExplicitHeadBody(t *testing.T) {
	doc := parseDocument(t, `<!DOCTYPE hvml><hvml><head></head><body><p>hi</p></body></hvml>`)
	assert.Equal(t, "hvml", doc.DoctypeName)

	root := doc.HVMLElement()
	require.NotNil(t, root)
	assert.Equal(t, "hvml", root.TagName)

	children := root.Children()
	require.Len(t, children, 2)
	assert.Equal(t, "head", children[0].TagName)
	assert.Equal(t, "body", children[1].TagName)

	p := children[1].FirstChild
	require.NotNil(t, p)
	assert.Equal(t, "p", p.TagName)
	content := p.FirstChild
	require.NotNil(t, content)
	assert.Equal(t, vdom.KContent, content.Kind)
	assert.Equal(t, "hi", contentText(content))
}

func TestImplicitHeadAndBodySynthesized(t *testing.T) {
	doc := parseDocument(t, `<hvml><p>hi</p></hvml>`)
	root := doc.HVMLElement()
	require.NotNil(t, root)

	children := root.Children()
	require.Len(t, children, 2)
	assert.Equal(t, "head", children[0].TagName)
	assert.Nil(t, children[0].FirstChild)
	assert.Equal(t, "body", children[1].TagName)

	p := children[1].FirstChild
	require.NotNil(t, p)
	assert.Equal(t, "p", p.TagName)
}

func TestWhitespaceOnlyTextBetweenTagsDropped(t *testing.T) {
	doc := parseDocument(t, "<hvml><body>\n  <p>a</p>\n  <p>b</p>\n</body></hvml>")
	root := doc.HVMLElement()
	body := root.Children()[1]
	children := body.Children()
	require.Len(t, children, 2)
	assert.Equal(t, "p", children[0].TagName)
	assert.Equal(t, "p", children[1].TagName)
}

func TestAttributesCarryOperator(t *testing.T) {
	doc := parseDocument(t, `<hvml><body><div class+="x"></div></body></hvml>`)
	root := doc.HVMLElement()
	div := root.Children()[1].FirstChild
	require.NotNil(t, div)
	require.Len(t, div.Attrs, 1)
	assert.Equal(t, tokenizer.OpAdd, div.Attrs[0].Operator)
}

func TestForeignElementMarked(t *testing.T) {
	doc := parseDocument(t, `<hvml><body><svg></svg></body></hvml>`)
	root := doc.HVMLElement()
	svg := root.Children()[1].FirstChild
	require.NotNil(t, svg)
	assert.True(t, svg.Foreign)
}

func TestKnownElementNotForeign(t *testing.T) {
	doc := parseDocument(t, `<hvml><body></body></hvml>`)
	root := doc.HVMLElement()
	assert.False(t, root.Foreign)
}

func TestUnmatchedEndTagReportedAndDiscarded(t *testing.T) {
	rd := reader.New(strings.NewReader(`<hvml><body></div></body></hvml>`), 0)
	tz := tokenizer.New(rd)
	gen := vdom.New()
	for {
		tok, err := tz.Next()
		require.NoError(t, err)
		require.NoError(t, gen.PushToken(tz, tok))
		if tok.Kind == tokenizer.EOFToken {
			break
		}
	}
	doc := gen.End()
	require.NotNil(t, doc)
	require.NotEmpty(t, gen.Errors)
}

func TestCommentAttachesToCurrentElement(t *testing.T) {
	doc := parseDocument(t, `<hvml><body><!-- hi --></body></hvml>`)
	root := doc.HVMLElement()
	body := root.Children()[1]
	c := body.FirstChild
	require.NotNil(t, c)
	assert.Equal(t, vdom.KComment, c.Kind)
	assert.Equal(t, " hi ", c.CommentText)
}

func TestInFileHeaderAcceptsDoctypeAfterHeaderElement(t *testing.T) {
	rd := reader.New(strings.NewReader(`<meta><!DOCTYPE hvml><hvml><body></body></hvml>`), 0)
	tz := tokenizer.New(rd, tokenizer.WithInFileHeader())
	gen := vdom.New()
	for {
		tok, err := tz.Next()
		require.NoError(t, err)
		require.NoError(t, gen.PushToken(tz, tok))
		if tok.Kind == tokenizer.EOFToken {
			break
		}
	}
	doc := gen.End()
	require.NotNil(t, doc)
	assert.Equal(t, "hvml", doc.DoctypeName)
}

func TestRawAttributeTagRecordedOnElement(t *testing.T) {
	rd := reader.New(strings.NewReader(`<hvml><body><update with="{raw}"></update></body></hvml>`), 0)
	tz := tokenizer.New(rd, tokenizer.WithRawAttributeTags("update"))
	gen := vdom.New()
	for {
		tok, err := tz.Next()
		require.NoError(t, err)
		require.NoError(t, gen.PushToken(tz, tok))
		if tok.Kind == tokenizer.EOFToken {
			break
		}
	}
	doc := gen.End()
	root := doc.HVMLElement()
	update := root.Children()[1].FirstChild
	require.NotNil(t, update)
	assert.True(t, update.RawAttr)
	require.Len(t, update.Attrs, 1)
	assert.Equal(t, "{raw}", update.Attrs[0].Value.Str)
}

func TestRawTextElementCapturesVerbatimContent(t *testing.T) {
	doc := parseDocument(t, `<hvml><body><archetype>raw <b>not-a-tag</b></archetype></body></hvml>`)
	root := doc.HVMLElement()
	archetype := root.Children()[1].FirstChild
	require.NotNil(t, archetype)
	assert.Equal(t, "archetype", archetype.TagName)

	content := archetype.FirstChild
	require.NotNil(t, content)
	assert.Equal(t, vdom.KContent, content.Kind)
	assert.Equal(t, "raw <b>not-a-tag</b>", contentText(content))
}
