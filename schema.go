package styx

// RootTypeName is the sentinel key a SchemaFile uses to bind the schema that
// validates the document root, as opposed to a named, reusable type.
const RootTypeName = "@"

// CatchAllField is the field name an Object schema uses to bind a catch-all
// schema for otherwise-unknown fields (§3, §4.4).
const CatchAllField = "@"

// SchemaKind discriminates the Schema tagged sum (§3).
type SchemaKind int

const (
	SchemaString SchemaKind = iota
	SchemaInt
	SchemaFloat
	SchemaBool
	SchemaUnit
	SchemaAny
	SchemaObject
	SchemaSeq
	SchemaMap
	SchemaUnion
	SchemaOptional
	SchemaEnum
	SchemaOneOf
	SchemaFlatten
	SchemaDefault
	SchemaDeprecated
	SchemaLiteral
	SchemaTypeRef
)

// Field is one named entry of an Object schema, preserving declaration
// order (schema fields are an "ordered map from name to schema", §3).
type Field struct {
	Name   string
	Schema *Schema
}

// EnumVariant is one named entry of an Enum schema's ordered variant map.
type EnumVariant struct {
	Name   string
	Schema *Schema
}

// Schema is one node of the Schema Model tree (§3). Only the fields
// relevant to Kind are populated; this is a closed tagged sum matched by
// Kind, not an open/polymorphic type (§9: "prefer closed variant matching
// over open polymorphism").
type Schema struct {
	Kind SchemaKind
	Span Span

	// String
	MinLen, MaxLen int
	HasMinLen      bool
	HasMaxLen      bool
	Pattern        string
	HasPattern     bool

	// Int / Float
	Min, Max       float64
	HasMin, HasMax bool

	// Object
	Fields    []Field
	CatchAll  *Schema // bound to the "@" field, if present

	// Seq / Optional / Flatten / Default's inner / Deprecated's inner
	Elem *Schema

	// Map
	KeySchema   *Schema // defaults to String when nil
	ValueSchema *Schema

	// Union
	Variants []*Schema

	// Enum
	EnumVariants []EnumVariant

	// OneOf
	Base    *Schema
	Allowed []string

	// Default
	DefaultValue Value
	Inner        *Schema

	// Deprecated
	Reason string

	// Literal
	LiteralText string

	// TypeRef
	RefName string
}

// Field looks up a named field, returning its schema and whether it exists.
func (s *Schema) Field(name string) (*Schema, bool) {
	for _, f := range s.Fields {
		if f.Name == name {
			return f.Schema, true
		}
	}
	return nil, false
}

// FieldNames returns the Object schema's declared field names in order,
// excluding the catch-all binding.
func (s *Schema) FieldNames() []string {
	out := make([]string, 0, len(s.Fields))
	for _, f := range s.Fields {
		out = append(out, f.Name)
	}
	return out
}

// Variant looks up a named Enum variant.
func (s *Schema) Variant(name string) (*Schema, bool) {
	for _, v := range s.EnumVariants {
		if v.Name == name {
			return v.Schema, true
		}
	}
	return nil, false
}

// IsOptionalish reports whether an absent field holding this schema is
// acceptable (Optional or Default wrap "absence is fine" semantics).
func (s *Schema) IsOptionalish() bool {
	return s.Kind == SchemaOptional || s.Kind == SchemaDefault
}

// SchemaFile bundles a document's meta information, optional named imports,
// and the mapping from type name to Schema, including the document root
// bound under RootTypeName (§3).
type SchemaFile struct {
	Meta    Value
	Imports map[string]string // local name -> import path/identifier
	Types   map[string]*Schema
}

// Root returns the schema bound to the document root, if any.
func (s *SchemaFile) Root() (*Schema, bool) {
	sc, ok := s.Types[RootTypeName]
	return sc, ok
}

// Resolve looks up a named type, following the SchemaFile's own Types map.
// TypeRef cycles are allowed (§4.4, §9): resolution only ever advances
// document depth, never schema-structure depth, so lookups here never loop.
func (s *SchemaFile) Resolve(name string) (*Schema, bool) {
	sc, ok := s.Types[name]
	return sc, ok
}
