package styx

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormatInlinesSmallObjectsAndSequences(t *testing.T) {
	source := "outer {\nname hello\nnums (1,2,3)\n}\n"
	got := Format(source, DefaultOptions())
	assert.Equal(t, "outer { name hello, nums (1, 2, 3) }\n", got)
}

func TestFormatMultilinesObjectsPastThreshold(t *testing.T) {
	source := "outer { a 1, b 2, c 3, d 4, e 5 }\n"
	got := Format(source, DefaultOptions())
	assert.Equal(t, "outer {\n    a 1\n    b 2\n    c 3\n    d 4\n    e 5\n}\n", got)
}

func TestFormatIsIdempotent(t *testing.T) {
	source := "outer {\n a 1, b 2, c 3, d 4, e 5\n}\nlist (1,2,3,4,5,6,7,8,9)\n"
	once := Format(source, DefaultOptions())
	twice := Format(once, DefaultOptions())
	assert.Equal(t, once, twice)
}

func TestFormatPreservesDocCommentBlankLine(t *testing.T) {
	source := "a 1\n/// doc for b\nb 2\n"
	got := Format(source, DefaultOptions())
	assert.Equal(t, "a 1\n\n/// doc for b\nb 2\n", got)
}

func TestFormatForceInlineOption(t *testing.T) {
	opts := DefaultOptions()
	opts.ForceInline = true
	source := "outer { a 1, b 2, c 3, d 4, e 5 }\n"
	got := Format(source, opts)
	assert.Equal(t, "outer { a 1, b 2, c 3, d 4, e 5 }\n", got)
}

func TestFormatForceMultilineOption(t *testing.T) {
	opts := DefaultOptions()
	opts.ForceMultiline = true
	source := "outer { a 1 }\n"
	got := Format(source, opts)
	assert.Equal(t, "outer {\n    a 1\n}\n", got)
}

func TestFormatTreeMatchesFormat(t *testing.T) {
	source := "a 1\nb 2\n"
	tree := BuildCST(source)
	require.Equal(t, Format(source, DefaultOptions()), FormatTree(tree, DefaultOptions()))
}
