package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// captureOutput captures stdout while running fn, grounded on
// joshuapare-hivekit/cmd/hivectl's testing_helpers.go helper of the same
// name and shape.
func captureOutput(t *testing.T, fn func() error) (string, error) {
	t.Helper()

	origStdout := os.Stdout
	r, w, err := os.Pipe()
	require.NoError(t, err)
	os.Stdout = w

	fnErr := fn()

	w.Close()
	os.Stdout = origStdout

	var buf bytes.Buffer
	_, err = buf.ReadFrom(r)
	require.NoError(t, err)
	return buf.String(), fnErr
}

func writeTempHVML(t *testing.T, src string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "doc.hvml")
	require.NoError(t, os.WriteFile(path, []byte(src), 0o644))
	return path
}

func TestRunParsePrintsTree(t *testing.T) {
	path := writeTempHVML(t, `<hvml><body><p>hi</p></body></hvml>`)

	out, err := captureOutput(t, func() error { return runParse(path) })
	require.NoError(t, err)
	assert.Contains(t, out, "<hvml>")
	assert.Contains(t, out, "<body>")
	assert.Contains(t, out, `#text "hi"`)
}

func TestRunParseMissingFileErrors(t *testing.T) {
	err := runParse(filepath.Join(t.TempDir(), "missing.hvml"))
	assert.Error(t, err)
}

func TestRunParseWithStrictFailsOnRecoverableError(t *testing.T) {
	// A stray end tag with no matching start tag is a recoverable VDOM
	// error; --strict must escalate it to a hard failure.
	path := writeTempHVML(t, `<hvml><body></p></body></hvml>`)

	_, err := captureOutput(t, func() error {
		return runParseWith(path, &parseConfig{strict: true})
	})
	assert.Error(t, err)
}

func TestRunParseWithRawAttrTagsPassesThrough(t *testing.T) {
	path := writeTempHVML(t, `<hvml><body><p>hi</p></body></hvml>`)

	out, err := captureOutput(t, func() error {
		return runParseWith(path, &parseConfig{rawAttrTags: "p, body"})
	})
	require.NoError(t, err)
	assert.Contains(t, out, `#text "hi"`)
}

func TestRunTokenizePrintsTokenStream(t *testing.T) {
	path := writeTempHVML(t, `<hvml></hvml>`)

	out, err := captureOutput(t, func() error { return runTokenize(path) })
	require.NoError(t, err)
	assert.Contains(t, out, "start-tag hvml")
	assert.Contains(t, out, "end-tag hvml")
	assert.Contains(t, out, "eof")
}

func TestRunEvalPrintsKindAndStringifiedValue(t *testing.T) {
	out, err := captureOutput(t, func() error { return runEval(`"hello"`) })
	require.NoError(t, err)
	assert.Contains(t, out, "string")
	assert.Contains(t, out, "hello")
}

func TestRunEvalUndefinedVariableErrorsWithoutSilent(t *testing.T) {
	prev := evalSilent
	evalSilent = false
	defer func() { evalSilent = prev }()

	err := runEval(`$nope`)
	assert.Error(t, err)
}

func TestRunEvalUndefinedVariableYieldsUndefinedWhenSilent(t *testing.T) {
	prev := evalSilent
	evalSilent = true
	defer func() { evalSilent = prev }()

	out, err := captureOutput(t, func() error { return runEval(`$nope`) })
	require.NoError(t, err)
	assert.Contains(t, out, "undefined")
}
