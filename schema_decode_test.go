package styx

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func parseSchemaFile(t *testing.T, source string) *SchemaFile {
	t.Helper()
	events := Parse(source)
	require.Empty(t, errorKinds(events))
	sf, err := DecodeSchemaFile(BuildValue(events))
	require.NoError(t, err)
	return sf
}

func TestDecodeSchemaFileRootAndTypeRef(t *testing.T) {
	sf := parseSchemaFile(t, `schema {
    @ Person
    Person @object{
        name @string
        age @optional{ of @int }
    }
}
`)
	root, ok := sf.Root()
	require.True(t, ok)
	assert.Equal(t, SchemaTypeRef, root.Kind)
	assert.Equal(t, "Person", root.RefName)

	person, ok := sf.Resolve("Person")
	require.True(t, ok)
	require.Equal(t, SchemaObject, person.Kind)

	nameField, ok := person.Field("name")
	require.True(t, ok)
	assert.Equal(t, SchemaString, nameField.Kind)

	ageField, ok := person.Field("age")
	require.True(t, ok)
	require.Equal(t, SchemaOptional, ageField.Kind)
	assert.Equal(t, SchemaInt, ageField.Elem.Kind)
}

func TestDecodeSchemaFileMissingSchemaField(t *testing.T) {
	_, err := DecodeSchemaFile(BuildValue(Parse(`meta { id x }`)))
	require.Error(t, err)
}

func TestDecodeObjectSchemaCatchAll(t *testing.T) {
	sf := parseSchemaFile(t, `schema {
    @ @object{
        @ @any
    }
}
`)
	root, _ := sf.Root()
	require.NotNil(t, root.CatchAll)
	assert.Equal(t, SchemaAny, root.CatchAll.Kind)
}

func TestDecodeEnumSchema(t *testing.T) {
	sf := parseSchemaFile(t, `schema {
    @ @enum{
        active @any
        inactive @any
    }
}
`)
	root, _ := sf.Root()
	require.Equal(t, SchemaEnum, root.Kind)
	v, ok := root.Variant("active")
	require.True(t, ok)
	assert.Equal(t, SchemaAny, v.Kind)
}

func TestDecodeUnionSchema(t *testing.T) {
	sf := parseSchemaFile(t, `schema {
    @ @union(@string, @int)
}
`)
	root, _ := sf.Root()
	require.Equal(t, SchemaUnion, root.Kind)
	require.Len(t, root.Variants, 2)
	assert.Equal(t, SchemaString, root.Variants[0].Kind)
	assert.Equal(t, SchemaInt, root.Variants[1].Kind)
}

func TestDecodeOneOfSchema(t *testing.T) {
	sf := parseSchemaFile(t, `schema {
    @ @oneOf{
        base @string
        values (red, green, blue)
    }
}
`)
	root, _ := sf.Root()
	require.Equal(t, SchemaOneOf, root.Kind)
	assert.Equal(t, SchemaString, root.Base.Kind)
	assert.Equal(t, []string{"red", "green", "blue"}, root.Allowed)
}

func TestDecodeSeqSchema(t *testing.T) {
	sf := parseSchemaFile(t, `schema {
    @ @seq{ of @string }
}
`)
	root, _ := sf.Root()
	require.Equal(t, SchemaSeq, root.Kind)
	assert.Equal(t, SchemaString, root.Elem.Kind)
}

func TestDecodeFlattenSchema(t *testing.T) {
	sf := parseSchemaFile(t, `schema {
    @ @flatten{ of @object{ name @string } }
}
`)
	root, _ := sf.Root()
	require.Equal(t, SchemaFlatten, root.Kind)
	require.Equal(t, SchemaObject, root.Elem.Kind)
	_, ok := root.Elem.Field("name")
	assert.True(t, ok)
}

func TestDecodeMapSchemaDefaultsKeyToNil(t *testing.T) {
	sf := parseSchemaFile(t, `schema {
    @ @map{ value @int }
}
`)
	root, _ := sf.Root()
	require.Equal(t, SchemaMap, root.Kind)
	assert.Nil(t, root.KeySchema)
	assert.Equal(t, SchemaInt, root.ValueSchema.Kind)
}

func TestDecodeMapSchemaRequiresValue(t *testing.T) {
	_, err := DecodeSchemaFile(BuildValue(Parse(`schema {
    @ @map{ key @string }
}
`)))
	require.Error(t, err)
}

func TestDecodeUnknownSchemaTagErrors(t *testing.T) {
	_, err := DecodeSchemaFile(BuildValue(Parse(`schema {
    @ @bogus
}
`)))
	require.Error(t, err)
}
