package styx

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildValueSimpleEntries(t *testing.T) {
	v := BuildValue(Parse("name hello\nvalue 42"))
	require.Equal(t, PayloadObject, v.Kind)
	require.Len(t, v.Entries, 2)

	name, ok := v.Field("name")
	require.True(t, ok)
	assert.Equal(t, "hello", name.Text)

	value, ok := v.Field("value")
	require.True(t, ok)
	assert.Equal(t, "42", value.Text)
}

func TestBuildValueTaggedNestedPayload(t *testing.T) {
	v := BuildValue(Parse("y @Foo{x 1}"))
	y, ok := v.Field("y")
	require.True(t, ok)
	require.True(t, y.HasTag)
	assert.Equal(t, "Foo", y.Tag)
	require.Equal(t, PayloadObject, y.Kind)

	x, ok := y.Field("x")
	require.True(t, ok)
	assert.Equal(t, "1", x.Text)
}

func TestBuildValueSequenceInsideTag(t *testing.T) {
	v := BuildValue(Parse("x @Foo(@Bar)"))
	x, ok := v.Field("x")
	require.True(t, ok)
	require.Equal(t, "Foo", x.Tag)
	require.Equal(t, PayloadSequence, x.Kind)
	require.Len(t, x.Items, 1)
	assert.Equal(t, "Bar", x.Items[0].Tag)
	assert.True(t, x.Items[0].IsUnit())
}

func TestBuildValueImplicitUnit(t *testing.T) {
	v := BuildValue(Parse("flag"))
	flag, ok := v.Field("flag")
	require.True(t, ok)
	assert.True(t, flag.IsUnit())
}

func TestBuildValueTooManyAtomsDropsExtra(t *testing.T) {
	v := BuildValue(Parse("a 1 2\nb 3"))
	b, ok := v.Field("b")
	require.True(t, ok)
	assert.Equal(t, "3", b.Text)
}

func TestBuildValueFieldMissing(t *testing.T) {
	v := BuildValue(Parse("a 1"))
	_, ok := v.Field("missing")
	assert.False(t, ok)
}
