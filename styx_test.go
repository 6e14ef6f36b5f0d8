package styx

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDocumentBundlesValueAndCST(t *testing.T) {
	doc := ParseDocument("name hello\nvalue 42\n")
	require.True(t, doc.OK())
	assert.Empty(t, doc.Errors)

	name, ok := doc.Value.Field("name")
	require.True(t, ok)
	assert.Equal(t, "hello", name.Text)

	assert.Equal(t, doc.Source, doc.CST.Render())
}

func TestParseDocumentCollectsErrors(t *testing.T) {
	doc := ParseDocument("a {x 1")
	require.False(t, doc.OK())
	require.NotEmpty(t, doc.Errors)
	assert.Equal(t, ErrUnclosedObject, doc.Errors[0].Kind)
}

func TestParseDocumentFormat(t *testing.T) {
	doc := ParseDocument("outer { a 1, b 2, c 3, d 4, e 5 }\n")
	got := doc.Format(DefaultOptions())
	assert.Equal(t, "outer {\n    a 1\n    b 2\n    c 3\n    d 4\n    e 5\n}\n", got)
}

func TestParseDocumentValidate(t *testing.T) {
	sf, err := ParseSchemaFile(`schema {
    @ @object{ name @string }
}
`)
	require.NoError(t, err)

	doc := ParseDocument("name Alice\n")
	res := doc.Validate(sf)
	assert.True(t, res.IsValid())
}

func TestParseSchemaFileRejectsMissingSchemaField(t *testing.T) {
	_, err := ParseSchemaFile(`meta { id x }`)
	assert.Error(t, err)
}
