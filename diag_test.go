package styx

import (
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRenderCaretDiagnostic(t *testing.T) {
	os.Unsetenv("NO_COLOR")
	source := "a {x 1"
	events := Parse(source)
	require.Contains(t, errorKinds(events), ErrUnclosedObject)

	out := RenderAll(events, "<test>", source)
	assert.Contains(t, out, "<test>:1:")
	assert.Contains(t, out, "|")
	assert.Contains(t, out, "^")
}

func TestRenderHonorsNoColor(t *testing.T) {
	t.Setenv("NO_COLOR", "1")
	pe := &ParseError{Kind: ErrExpectedValue, Span: Span{Start: 5, End: 6}, Message: "expected a value"}
	out := Render(pe, "<test>", "name \n")
	assert.NotContains(t, out, "\x1b[")
	assert.Contains(t, out, "expected a value")
}

func TestRenderIncludesSecondarySpan(t *testing.T) {
	t.Setenv("NO_COLOR", "1")
	sec := Span{Start: 0, End: 4}
	pe := &ParseError{
		Kind: ErrDuplicateKey, Span: Span{Start: 10, End: 14}, Message: "duplicate key \"name\"",
		Secondary: &sec,
	}
	out := Render(pe, "<test>", "name 1\nname 2\n")
	assert.True(t, strings.Contains(out, "duplicate key"))
	assert.True(t, strings.Contains(out, "original here"))
}

func TestLocateFindsLineAndColumn(t *testing.T) {
	source := "aaa\nbbb\nccc"
	line, col, text := locate(source, 5)
	assert.Equal(t, 2, line)
	assert.Equal(t, 2, col)
	assert.Equal(t, "bbb", text)
}
