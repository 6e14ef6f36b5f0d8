package styx

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustSchemaFile(t *testing.T, source string) *SchemaFile {
	t.Helper()
	sf, err := DecodeSchemaFile(BuildValue(Parse(source)))
	require.NoError(t, err)
	return sf
}

func mustDoc(t *testing.T, source string) Value {
	t.Helper()
	events := Parse(source)
	require.Empty(t, errorKinds(events))
	return BuildValue(events)
}

func TestValidateAcceptsMatchingObject(t *testing.T) {
	sf := mustSchemaFile(t, `schema {
    @ @object{
        name @string
        age @int
    }
}
`)
	doc := mustDoc(t, "name Alice\nage 30\n")
	res := Validate(doc, sf)
	assert.True(t, res.IsValid())
	assert.Empty(t, res.Errors)
}

func TestValidateReportsMissingField(t *testing.T) {
	sf := mustSchemaFile(t, `schema {
    @ @object{
        name @string
        age @int
    }
}
`)
	doc := mustDoc(t, "name Alice\n")
	res := Validate(doc, sf)
	require.False(t, res.IsValid())
	require.Len(t, res.Errors, 1)
	assert.Equal(t, ValMissingField, res.Errors[0].Kind)
}

func TestValidateReportsUnknownFieldWithSuggestion(t *testing.T) {
	sf := mustSchemaFile(t, `schema {
    @ @object{
        name @string
    }
}
`)
	doc := mustDoc(t, "name Alice\nnaem Bob\n")
	res := Validate(doc, sf)
	require.False(t, res.IsValid())
	var unknown *ValidationError
	for _, e := range res.Errors {
		if e.Kind == ValUnknownField {
			unknown = e
		}
	}
	require.NotNil(t, unknown)
	assert.Equal(t, "name", unknown.Suggestion)
}

func TestValidateCatchAllAcceptsExtraFields(t *testing.T) {
	sf := mustSchemaFile(t, `schema {
    @ @object{
        @ @any
    }
}
`)
	doc := mustDoc(t, "anything 1\nelse true\n")
	res := Validate(doc, sf)
	assert.True(t, res.IsValid())
}

func TestValidateDoesNotShortCircuit(t *testing.T) {
	sf := mustSchemaFile(t, `schema {
    @ @object{
        a @int
        b @int
    }
}
`)
	doc := mustDoc(t, "a nope\nb alsonope\n")
	res := Validate(doc, sf)
	require.Len(t, res.Errors, 2)
}

func TestValidateSeqElements(t *testing.T) {
	sf := mustSchemaFile(t, `schema {
    @ @object{
        v @seq{ of @int }
    }
}
`)
	doc := mustDoc(t, "v (1, 2, three)\n")
	res := Validate(doc, sf)
	require.Len(t, res.Errors, 1)
}

func TestValidateUnionTriesEachVariant(t *testing.T) {
	sf := mustSchemaFile(t, `schema {
    @ @object{ v @union(@int, @string) }
}
`)
	asInt := mustDoc(t, "v 42\n")
	assert.True(t, Validate(asInt, sf).IsValid())

	asString := mustDoc(t, "v hello\n")
	assert.True(t, Validate(asString, sf).IsValid())
}

func TestValidateUnionMismatchReportsTried(t *testing.T) {
	sf := mustSchemaFile(t, `schema {
    @ @object{ v @union(@int, @bool) }
}
`)
	doc := mustDoc(t, "v hello\n")
	res := Validate(doc, sf)
	require.Len(t, res.Errors, 1)
	assert.Equal(t, ValUnionMismatch, res.Errors[0].Kind)
}

func TestValidateEnumVariant(t *testing.T) {
	sf := mustSchemaFile(t, `schema {
    @ @object{
        v @enum{
            active @any
            inactive @any
        }
    }
}
`)
	doc := mustDoc(t, "v @active\n")
	res := Validate(doc, sf)
	assert.True(t, res.IsValid())
}

func TestValidateEnumUnknownVariant(t *testing.T) {
	sf := mustSchemaFile(t, `schema {
    @ @object{
        v @enum{ active @any }
    }
}
`)
	doc := mustDoc(t, "v @retired\n")
	res := Validate(doc, sf)
	require.Len(t, res.Errors, 1)
	assert.Equal(t, ValInvalidVariant, res.Errors[0].Kind)
}

func TestValidateOneOfAllowsNumericNormalization(t *testing.T) {
	sf := mustSchemaFile(t, `schema {
    @ @object{
        v @oneOf{
            base @int
            values (1, 2, 3)
        }
    }
}
`)
	doc := mustDoc(t, "v 2\n")
	res := Validate(doc, sf)
	assert.True(t, res.IsValid())
}

func TestValidateOneOfStringBaseSkipsNumericNormalization(t *testing.T) {
	sf := mustSchemaFile(t, `schema {
    @ @object{
        v @oneOf{
            base @string
            values ("1", "2")
        }
    }
}
`)
	doc := mustDoc(t, "v 1.0\n")
	res := Validate(doc, sf)
	require.Len(t, res.Errors, 1)
	assert.Equal(t, ValInvalidValue, res.Errors[0].Kind)
}

func TestValidateTypeRefResolution(t *testing.T) {
	sf := mustSchemaFile(t, `schema {
    @ Named
    Named @object{ name @string }
}
`)
	doc := mustDoc(t, "name Alice\n")
	res := Validate(doc, sf)
	assert.True(t, res.IsValid())
}

func TestValidateUnknownTypeRef(t *testing.T) {
	sf := mustSchemaFile(t, `schema {
    @ @object{ v Missing }
}
`)
	doc := mustDoc(t, "v 1\n")
	res := Validate(doc, sf)
	require.Len(t, res.Errors, 1)
	assert.Equal(t, ValUnknownType, res.Errors[0].Kind)
}

func TestValidateDeprecatedEmitsWarningNotError(t *testing.T) {
	sf := mustSchemaFile(t, `schema {
    @ @object{
        v @deprecated{
            reason "use something else"
            inner @int
        }
    }
}
`)
	doc := mustDoc(t, "v 42\n")
	res := Validate(doc, sf)
	assert.True(t, res.IsValid())
	require.Len(t, res.Warnings, 1)
}
