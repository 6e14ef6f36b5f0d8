package styx

import (
	"fmt"
	"strconv"
)

// schemaDecodeError is returned when a parsed document does not describe a
// well-formed SchemaFile; it carries enough to format as a SchemaError
// validation error if the caller chooses to.
type schemaDecodeError struct {
	path string
	msg  string
}

func (e *schemaDecodeError) Error() string {
	if e.path == "" {
		return e.msg
	}
	return fmt.Sprintf("%s: %s", e.path, e.msg)
}

// DecodeSchemaFile interprets a parsed document (itself a Styx document, as
// produced by BuildValue) as a SchemaFile (§3, §4.4). The document shape is:
//
//	meta { ... }
//	import { local-name "path/or/identifier" ... }
//	schema {
//	    @ @object{ ... }          -- binds the document root
//	    TypeName @object{ ... }   -- binds a named, reusable type
//	}
//
// Individual type schemas are written as tagged values (@string, @int,
// @object{...}, @union(...), ...); a bare scalar such as `MyType` used where
// a schema is expected is a TypeRef to a name resolved in this same file.
func DecodeSchemaFile(doc Value) (*SchemaFile, error) {
	sf := &SchemaFile{Types: map[string]*Schema{}, Imports: map[string]string{}}

	if meta, ok := doc.Field("meta"); ok {
		sf.Meta = meta
	}
	if imp, ok := doc.Field("import"); ok {
		if imp.Kind != PayloadObject {
			return nil, &schemaDecodeError{"import", "must be an object"}
		}
		for _, e := range imp.Entries {
			sf.Imports[keyText(e.Key)] = e.Value.Text
		}
	}

	schemaObj, ok := doc.Field("schema")
	if !ok {
		return nil, &schemaDecodeError{"", "missing top-level \"schema\" entry"}
	}
	if schemaObj.Kind != PayloadObject {
		return nil, &schemaDecodeError{"schema", "must be an object"}
	}
	for _, e := range schemaObj.Entries {
		name := keyText(e.Key)
		sc, err := decodeSchemaValue(e.Value)
		if err != nil {
			return nil, &schemaDecodeError{name, err.Error()}
		}
		sf.Types[name] = sc
	}
	return sf, nil
}

// decodeSchemaValue turns one Value (a tagged value, or a bare scalar
// TypeRef) into a Schema node.
func decodeSchemaValue(v Value) (*Schema, error) {
	if !v.HasTag {
		if v.Kind == PayloadScalar {
			return &Schema{Kind: SchemaTypeRef, Span: v.Span, RefName: v.Text}, nil
		}
		return nil, fmt.Errorf("expected a tagged schema or a type-reference scalar")
	}
	payload := payloadValue(v)
	switch v.Tag {
	case "string":
		return decodeStringSchema(v, payload)
	case "int":
		return decodeNumericSchema(v, payload, SchemaInt)
	case "float":
		return decodeNumericSchema(v, payload, SchemaFloat)
	case "bool":
		return &Schema{Kind: SchemaBool, Span: v.Span}, nil
	case "unit":
		return &Schema{Kind: SchemaUnit, Span: v.Span}, nil
	case "any":
		return &Schema{Kind: SchemaAny, Span: v.Span}, nil
	case "object":
		return decodeObjectSchema(v, payload)
	case "seq":
		elem, err := decodeElemSchema(payload)
		if err != nil {
			return nil, fmt.Errorf("seq element: %w", err)
		}
		return &Schema{Kind: SchemaSeq, Span: v.Span, Elem: elem}, nil
	case "map":
		return decodeMapSchema(v, payload)
	case "union":
		return decodeUnionSchema(v, payload)
	case "optional":
		inner, err := decodeElemSchema(payload)
		if err != nil {
			return nil, fmt.Errorf("optional inner: %w", err)
		}
		return &Schema{Kind: SchemaOptional, Span: v.Span, Elem: inner}, nil
	case "enum":
		return decodeEnumSchema(v, payload)
	case "oneOf":
		return decodeOneOfSchema(v, payload)
	case "flatten":
		inner, err := decodeElemSchema(payload)
		if err != nil {
			return nil, fmt.Errorf("flatten inner: %w", err)
		}
		return &Schema{Kind: SchemaFlatten, Span: v.Span, Elem: inner}, nil
	case "default":
		return decodeDefaultSchema(v, payload)
	case "deprecated":
		return decodeDeprecatedSchema(v, payload)
	case "literal":
		if payload.Kind != PayloadScalar {
			return nil, fmt.Errorf("literal payload must be a scalar")
		}
		return &Schema{Kind: SchemaLiteral, Span: v.Span, LiteralText: payload.Text}, nil
	default:
		return nil, fmt.Errorf("unknown schema tag %q", v.Tag)
	}
}

// payloadValue strips the tag wrapper off v, returning the bare payload so
// decoders can inspect its Kind without caring whether it was tagged.
func payloadValue(v Value) Value {
	p := v
	p.HasTag, p.Tag = false, ""
	return p
}

func decodeStringSchema(v, payload Value) (*Schema, error) {
	s := &Schema{Kind: SchemaString, Span: v.Span}
	if payload.Kind != PayloadObject {
		return s, nil
	}
	if f, ok := payload.Field("min_len"); ok {
		n, err := strconv.Atoi(f.Text)
		if err != nil {
			return nil, fmt.Errorf("min_len must be an integer: %w", err)
		}
		s.MinLen, s.HasMinLen = n, true
	}
	if f, ok := payload.Field("max_len"); ok {
		n, err := strconv.Atoi(f.Text)
		if err != nil {
			return nil, fmt.Errorf("max_len must be an integer: %w", err)
		}
		s.MaxLen, s.HasMaxLen = n, true
	}
	if f, ok := payload.Field("pattern"); ok {
		s.Pattern, s.HasPattern = f.Text, true
	}
	return s, nil
}

func decodeNumericSchema(v, payload Value, kind SchemaKind) (*Schema, error) {
	s := &Schema{Kind: kind, Span: v.Span}
	if payload.Kind != PayloadObject {
		return s, nil
	}
	if f, ok := payload.Field("min"); ok {
		n, err := strconv.ParseFloat(f.Text, 64)
		if err != nil {
			return nil, fmt.Errorf("min must be numeric: %w", err)
		}
		s.Min, s.HasMin = n, true
	}
	if f, ok := payload.Field("max"); ok {
		n, err := strconv.ParseFloat(f.Text, 64)
		if err != nil {
			return nil, fmt.Errorf("max must be numeric: %w", err)
		}
		s.Max, s.HasMax = n, true
	}
	return s, nil
}

func decodeObjectSchema(v, payload Value) (*Schema, error) {
	s := &Schema{Kind: SchemaObject, Span: v.Span}
	if payload.Kind != PayloadObject {
		return nil, fmt.Errorf("object schema payload must be an object")
	}
	for _, e := range payload.Entries {
		name := keyText(e.Key)
		fieldSchema, err := decodeSchemaValue(e.Value)
		if err != nil {
			return nil, fmt.Errorf("field %q: %w", name, err)
		}
		if name == CatchAllField {
			s.CatchAll = fieldSchema
			continue
		}
		s.Fields = append(s.Fields, Field{Name: name, Schema: fieldSchema})
	}
	return s, nil
}

// decodeElemSchema decodes the single nested schema carried by an "of"
// field (§3's Seq/Optional/Flatten combinators). A schema tag is never
// written directly adjacent to another schema tag as its own payload: the
// parser's tag-payload adjacency rule collapses such nesting into one flat
// Value, so every combinator wrapping exactly one inner schema carries it
// as an ordinary object field instead.
func decodeElemSchema(payload Value) (*Schema, error) {
	if payload.Kind != PayloadObject {
		return nil, fmt.Errorf("payload must be an object with an \"of\" field")
	}
	of, ok := payload.Field("of")
	if !ok {
		return nil, fmt.Errorf("requires an \"of\" field")
	}
	return decodeSchemaValue(of)
}

func decodeMapSchema(v, payload Value) (*Schema, error) {
	s := &Schema{Kind: SchemaMap, Span: v.Span}
	if payload.Kind != PayloadObject {
		return nil, fmt.Errorf("map schema payload must be an object")
	}
	if f, ok := payload.Field("key"); ok {
		ks, err := decodeSchemaValue(f)
		if err != nil {
			return nil, fmt.Errorf("map key: %w", err)
		}
		s.KeySchema = ks
	}
	f, ok := payload.Field("value")
	if !ok {
		return nil, fmt.Errorf("map schema requires a \"value\" field")
	}
	vs, err := decodeSchemaValue(f)
	if err != nil {
		return nil, fmt.Errorf("map value: %w", err)
	}
	s.ValueSchema = vs
	return s, nil
}

func decodeUnionSchema(v, payload Value) (*Schema, error) {
	s := &Schema{Kind: SchemaUnion, Span: v.Span}
	if payload.Kind != PayloadSequence {
		return nil, fmt.Errorf("union payload must be a sequence")
	}
	for i, item := range payload.Items {
		vs, err := decodeSchemaValue(item)
		if err != nil {
			return nil, fmt.Errorf("variant %d: %w", i, err)
		}
		s.Variants = append(s.Variants, vs)
	}
	return s, nil
}

func decodeEnumSchema(v, payload Value) (*Schema, error) {
	s := &Schema{Kind: SchemaEnum, Span: v.Span}
	if payload.Kind != PayloadObject {
		return nil, fmt.Errorf("enum payload must be an object")
	}
	for _, e := range payload.Entries {
		name := keyText(e.Key)
		var vs *Schema
		if e.Value.IsUnit() && !e.Value.HasTag {
			vs = &Schema{Kind: SchemaUnit}
		} else {
			var err error
			vs, err = decodeSchemaValue(e.Value)
			if err != nil {
				return nil, fmt.Errorf("variant %q: %w", name, err)
			}
		}
		s.EnumVariants = append(s.EnumVariants, EnumVariant{Name: name, Schema: vs})
	}
	return s, nil
}

func decodeOneOfSchema(v, payload Value) (*Schema, error) {
	s := &Schema{Kind: SchemaOneOf, Span: v.Span}
	if payload.Kind != PayloadObject {
		return nil, fmt.Errorf("oneOf payload must be an object")
	}
	baseV, ok := payload.Field("base")
	if !ok {
		return nil, fmt.Errorf("oneOf requires a \"base\" field")
	}
	base, err := decodeSchemaValue(baseV)
	if err != nil {
		return nil, fmt.Errorf("oneOf base: %w", err)
	}
	s.Base = base
	values, ok := payload.Field("values")
	if !ok || values.Kind != PayloadSequence {
		return nil, fmt.Errorf("oneOf requires a \"values\" sequence field")
	}
	for _, item := range values.Items {
		s.Allowed = append(s.Allowed, item.Text)
	}
	return s, nil
}

func decodeDefaultSchema(v, payload Value) (*Schema, error) {
	s := &Schema{Kind: SchemaDefault, Span: v.Span}
	if payload.Kind != PayloadObject {
		return nil, fmt.Errorf("default payload must be an object")
	}
	s.DefaultValue, _ = payload.Field("value")
	innerV, ok := payload.Field("inner")
	if !ok {
		return nil, fmt.Errorf("default requires an \"inner\" field")
	}
	inner, err := decodeSchemaValue(innerV)
	if err != nil {
		return nil, fmt.Errorf("default inner: %w", err)
	}
	s.Inner, s.Elem = inner, inner
	return s, nil
}

func decodeDeprecatedSchema(v, payload Value) (*Schema, error) {
	s := &Schema{Kind: SchemaDeprecated, Span: v.Span}
	if payload.Kind != PayloadObject {
		return nil, fmt.Errorf("deprecated payload must be an object")
	}
	if r, ok := payload.Field("reason"); ok {
		s.Reason = r.Text
	}
	innerV, ok := payload.Field("inner")
	if !ok {
		return nil, fmt.Errorf("deprecated requires an \"inner\" field")
	}
	inner, err := decodeSchemaValue(innerV)
	if err != nil {
		return nil, fmt.Errorf("deprecated inner: %w", err)
	}
	s.Elem = inner
	return s, nil
}
