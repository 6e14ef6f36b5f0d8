package styx

import (
	"fmt"
	"regexp"
	"strconv"
)

// ValidationErrorKind enumerates the validator's error taxonomy (§4.4).
type ValidationErrorKind int

const (
	ValMissingField ValidationErrorKind = iota
	ValUnknownField
	ValTypeMismatch
	ValInvalidValue
	ValUnknownType
	ValInvalidVariant
	ValUnionMismatch
	ValExpectedObject
	ValExpectedSequence
	ValExpectedScalar
	ValExpectedTagged
	ValWrongTag
	ValSchemaError
)

func (k ValidationErrorKind) String() string {
	switch k {
	case ValMissingField:
		return "MissingField"
	case ValUnknownField:
		return "UnknownField"
	case ValTypeMismatch:
		return "TypeMismatch"
	case ValInvalidValue:
		return "InvalidValue"
	case ValUnknownType:
		return "UnknownType"
	case ValInvalidVariant:
		return "InvalidVariant"
	case ValUnionMismatch:
		return "UnionMismatch"
	case ValExpectedObject:
		return "ExpectedObject"
	case ValExpectedSequence:
		return "ExpectedSequence"
	case ValExpectedScalar:
		return "ExpectedScalar"
	case ValExpectedTagged:
		return "ExpectedTagged"
	case ValWrongTag:
		return "WrongTag"
	case ValSchemaError:
		return "SchemaError"
	default:
		return "Unknown"
	}
}

// ValidationError is one error or warning produced by the validator,
// path-qualified and span-anchored (§4.4, §6).
type ValidationError struct {
	Kind     ValidationErrorKind
	Path     Path
	Span     Span
	Message  string
	Severity Severity

	// UnknownField extras.
	Field       string
	ValidFields []string
	Suggestion  string

	// TypeMismatch / ExpectedX extras.
	Expected string
	Got      string

	// UnionMismatch
	Tried []string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s at %s: %s", e.Kind, e.Path, e.Message)
}

func (e *ValidationError) DiagSeverity() Severity { return e.Severity }
func (e *ValidationError) DiagSpan() Span         { return e.Span }
func (e *ValidationError) DiagMessage() string    { return fmt.Sprintf("%s: %s", e.Path, e.Message) }
func (e *ValidationError) DiagSecondary() (Span, string, bool) {
	return Span{}, "", false
}

// ValidationResult is the validator's output: accumulated errors and
// warnings, never short-circuited (§4.4, §7).
type ValidationResult struct {
	Errors   []*ValidationError
	Warnings []*ValidationError
}

// IsValid reports whether validation produced zero errors. Warnings never
// affect this (§7).
func (r *ValidationResult) IsValid() bool { return len(r.Errors) == 0 }

// validator carries the SchemaFile and accumulates results across one
// recursive descent.
type validator struct {
	file   *SchemaFile
	result ValidationResult
}

// Validate validates doc against the schema bound to file's document root,
// producing a ValidationResult (§4.4).
func Validate(doc Value, file *SchemaFile) *ValidationResult {
	v := &validator{file: file}
	root, ok := file.Root()
	if !ok {
		v.result.Errors = append(v.result.Errors, &ValidationError{
			Kind: ValSchemaError, Span: doc.Span, Message: "schema file has no root binding",
		})
		return &v.result
	}
	v.check(root, doc, Path{})
	return &v.result
}

func (v *validator) errorf(path Path, span Span, kind ValidationErrorKind, format string, args ...interface{}) {
	v.result.Errors = append(v.result.Errors, &ValidationError{
		Kind: kind, Path: append(Path{}, path...), Span: span, Message: fmt.Sprintf(format, args...),
	})
}

func (v *validator) warnf(path Path, span Span, kind ValidationErrorKind, format string, args ...interface{}) {
	v.result.Warnings = append(v.result.Warnings, &ValidationError{
		Kind: kind, Path: append(Path{}, path...), Span: span, Severity: SeverityWarning,
		Message: fmt.Sprintf(format, args...),
	})
}

// check validates value against schema at path, recursively. It never
// returns early on error: sibling fields of an invalid object still get
// checked (§4.4, §7: "validation is not short-circuited").
func (v *validator) check(schema *Schema, value Value, path Path) {
	if schema == nil {
		v.errorf(path, value.Span, ValSchemaError, "nil schema node")
		return
	}
	switch schema.Kind {
	case SchemaString:
		v.checkString(schema, value, path)
	case SchemaInt:
		v.checkNumeric(schema, value, path, true)
	case SchemaFloat:
		v.checkNumeric(schema, value, path, false)
	case SchemaBool:
		v.checkBool(schema, value, path)
	case SchemaUnit:
		if !value.IsUnit() {
			v.errorf(path, value.Span, ValTypeMismatch, "expected unit, got %s", valueKindName(value))
		}
	case SchemaAny:
		// Always succeeds.
	case SchemaObject:
		v.checkObject(schema, value, path)
	case SchemaSeq:
		v.checkSeq(schema, value, path)
	case SchemaMap:
		v.checkMap(schema, value, path)
	case SchemaUnion:
		v.checkUnion(schema, value, path)
	case SchemaOptional:
		v.check(schema.Elem, value, path)
	case SchemaEnum:
		v.checkEnum(schema, value, path)
	case SchemaOneOf:
		v.checkOneOf(schema, value, path)
	case SchemaFlatten:
		v.check(schema.Elem, value, path)
	case SchemaDefault:
		v.check(schema.Inner, value, path)
	case SchemaDeprecated:
		v.warnf(path, value.Span, 0, "deprecated: %s", schema.Reason)
		v.check(schema.Elem, value, path)
	case SchemaLiteral:
		v.checkLiteral(schema, value, path)
	case SchemaTypeRef:
		v.checkTypeRef(schema, value, path)
	default:
		v.errorf(path, value.Span, ValSchemaError, "unrecognized schema kind")
	}
}

func valueKindName(v Value) string {
	if v.HasTag {
		return "tagged value"
	}
	switch v.Kind {
	case PayloadNone:
		return "unit"
	case PayloadScalar:
		return "scalar"
	case PayloadSequence:
		return "sequence"
	case PayloadObject:
		return "object"
	default:
		return "value"
	}
}

func (v *validator) checkString(schema *Schema, value Value, path Path) {
	if value.HasTag || value.Kind != PayloadScalar {
		v.errorf(path, value.Span, ValExpectedScalar, "expected a string scalar, got %s", valueKindName(value))
		return
	}
	n := len([]rune(value.Text))
	if schema.HasMinLen && n < schema.MinLen {
		v.errorf(path, value.Span, ValInvalidValue, "string is %d characters, minimum is %d", n, schema.MinLen)
	}
	if schema.HasMaxLen && n > schema.MaxLen {
		v.errorf(path, value.Span, ValInvalidValue, "string is %d characters, maximum is %d", n, schema.MaxLen)
	}
	if schema.HasPattern {
		re, err := regexp.Compile(schema.Pattern)
		if err != nil {
			v.errorf(path, value.Span, ValSchemaError, "invalid pattern %q: %v", schema.Pattern, err)
		} else if !re.MatchString(value.Text) {
			v.errorf(path, value.Span, ValInvalidValue, "%q does not match pattern %q", value.Text, schema.Pattern)
		}
	}
}

func (v *validator) checkNumeric(schema *Schema, value Value, path Path, isInt bool) {
	if value.HasTag || value.Kind != PayloadScalar {
		v.errorf(path, value.Span, ValExpectedScalar, "expected a numeric scalar, got %s", valueKindName(value))
		return
	}
	var n float64
	if isInt {
		iv, err := strconv.ParseInt(value.Text, 10, 64)
		if err != nil {
			v.errorf(path, value.Span, ValInvalidValue, "%q is not a valid integer", value.Text)
			return
		}
		n = float64(iv)
	} else {
		fv, err := strconv.ParseFloat(value.Text, 64)
		if err != nil {
			v.errorf(path, value.Span, ValInvalidValue, "%q is not a valid float", value.Text)
			return
		}
		n = fv
	}
	if schema.HasMin && n < schema.Min {
		v.errorf(path, value.Span, ValInvalidValue, "%v is below minimum %v", n, schema.Min)
	}
	if schema.HasMax && n > schema.Max {
		v.errorf(path, value.Span, ValInvalidValue, "%v is above maximum %v", n, schema.Max)
	}
}

func (v *validator) checkBool(schema *Schema, value Value, path Path) {
	if value.HasTag || value.Kind != PayloadScalar || (value.Text != "true" && value.Text != "false") {
		v.errorf(path, value.Span, ValTypeMismatch, "expected a bool scalar, got %s", valueKindName(value))
	}
}

func (v *validator) checkObject(schema *Schema, value Value, path Path) {
	if value.HasTag || value.Kind != PayloadObject {
		v.errorf(path, value.Span, ValExpectedObject, "expected an object, got %s", valueKindName(value))
		return
	}
	present := map[string]Value{}
	for _, e := range value.Entries {
		present[keyText(e.Key)] = e.Value
	}
	for _, f := range schema.Fields {
		fv, ok := present[f.Name]
		childPath := append(append(Path{}, path...), f.Name)
		if !ok {
			if !f.Schema.IsOptionalish() {
				v.errorf(path, value.Span, ValMissingField, "missing required field %q", f.Name)
			}
			continue
		}
		v.check(f.Schema, fv, childPath)
	}
	valid := schema.FieldNames()
	for name, fv := range present {
		if _, known := schema.Field(name); known {
			continue
		}
		if schema.CatchAll != nil {
			v.check(schema.CatchAll, fv, append(append(Path{}, path...), name))
			continue
		}
		suggestion := suggestField(name, valid)
		ve := &ValidationError{
			Kind: ValUnknownField, Path: append(append(Path{}, path...), name), Span: fv.Span,
			Message: fmt.Sprintf("unknown field %q", name), Field: name, ValidFields: valid, Suggestion: suggestion,
		}
		if suggestion != "" {
			ve.Message += fmt.Sprintf(" (did you mean %q?)", suggestion)
		}
		v.result.Errors = append(v.result.Errors, ve)
	}
}

func (v *validator) checkSeq(schema *Schema, value Value, path Path) {
	if value.HasTag || value.Kind != PayloadSequence {
		v.errorf(path, value.Span, ValExpectedSequence, "expected a sequence, got %s", valueKindName(value))
		return
	}
	for i, item := range value.Items {
		v.check(schema.Elem, item, append(append(Path{}, path...), fmt.Sprintf("[%d]", i)))
	}
}

func (v *validator) checkMap(schema *Schema, value Value, path Path) {
	if value.HasTag || value.Kind != PayloadObject {
		v.errorf(path, value.Span, ValExpectedObject, "expected an object (map), got %s", valueKindName(value))
		return
	}
	keySchema := schema.KeySchema
	if keySchema == nil {
		keySchema = &Schema{Kind: SchemaString}
	}
	for _, e := range value.Entries {
		name := keyText(e.Key)
		childPath := append(append(Path{}, path...), name)
		v.check(keySchema, e.Key, childPath)
		v.check(schema.ValueSchema, e.Value, childPath)
	}
}

func (v *validator) checkUnion(schema *Schema, value Value, path Path) {
	var tried []string
	for i, variant := range schema.Variants {
		probe := &validator{file: v.file}
		probe.check(variant, value, path)
		if len(probe.result.Errors) == 0 {
			v.result.Warnings = append(v.result.Warnings, probe.result.Warnings...)
			return
		}
		tried = append(tried, variantLabel(variant, i))
	}
	v.result.Errors = append(v.result.Errors, &ValidationError{
		Kind: ValUnionMismatch, Path: append(Path{}, path...), Span: value.Span,
		Message: fmt.Sprintf("value matched none of: %v", tried), Tried: tried,
	})
}

func variantLabel(s *Schema, i int) string {
	switch s.Kind {
	case SchemaTypeRef:
		return s.RefName
	default:
		return fmt.Sprintf("variant %d (%s)", i, s.Kind.label())
	}
}

func (k SchemaKind) label() string {
	switch k {
	case SchemaString:
		return "string"
	case SchemaInt:
		return "int"
	case SchemaFloat:
		return "float"
	case SchemaBool:
		return "bool"
	case SchemaUnit:
		return "unit"
	case SchemaAny:
		return "any"
	case SchemaObject:
		return "object"
	case SchemaSeq:
		return "seq"
	case SchemaMap:
		return "map"
	case SchemaUnion:
		return "union"
	case SchemaOptional:
		return "optional"
	case SchemaEnum:
		return "enum"
	case SchemaOneOf:
		return "oneOf"
	case SchemaFlatten:
		return "flatten"
	case SchemaDefault:
		return "default"
	case SchemaDeprecated:
		return "deprecated"
	case SchemaLiteral:
		return "literal"
	case SchemaTypeRef:
		return "typeRef"
	default:
		return "unknown"
	}
}

func (v *validator) checkEnum(schema *Schema, value Value, path Path) {
	if !value.HasTag {
		v.errorf(path, value.Span, ValExpectedTagged, "expected a tagged enum variant, got %s", valueKindName(value))
		return
	}
	variant, ok := schema.Variant(value.Tag)
	if !ok {
		names := make([]string, len(schema.EnumVariants))
		for i, ev := range schema.EnumVariants {
			names[i] = ev.Name
		}
		v.errorf(path, value.Span, ValInvalidVariant, "unknown variant %q (expected one of %v)", value.Tag, names)
		return
	}
	payload := payloadValue(value)
	v.check(variant, payload, path)
}

func (v *validator) checkOneOf(schema *Schema, value Value, path Path) {
	if value.HasTag || value.Kind != PayloadScalar {
		v.errorf(path, value.Span, ValExpectedScalar, "expected a scalar, got %s", valueKindName(value))
		return
	}
	numericBase := schema.Base != nil && (schema.Base.Kind == SchemaInt || schema.Base.Kind == SchemaFloat)
	for _, allowed := range schema.Allowed {
		if oneOfEquals(value.Text, allowed, numericBase) {
			return
		}
	}
	v.errorf(path, value.Span, ValInvalidValue, "%q is not one of %v", value.Text, schema.Allowed)
}

// oneOfEquals compares two scalar texts for OneOf equality. Numeric
// normalization only applies when the schema's declared base is numeric
// (§4.4: "compared as strings after numeric normalization when the base is
// numeric") — a string base compares its values literally, even when they
// look numeric, so e.g. "1.0" never matches a listed "1".
func oneOfEquals(a, b string, numericBase bool) bool {
	if a == b {
		return true
	}
	if !numericBase {
		return false
	}
	af, aerr := strconv.ParseFloat(a, 64)
	bf, berr := strconv.ParseFloat(b, 64)
	return aerr == nil && berr == nil && af == bf
}

func (v *validator) checkLiteral(schema *Schema, value Value, path Path) {
	if value.HasTag || value.Kind != PayloadScalar || value.Text != schema.LiteralText {
		v.errorf(path, value.Span, ValInvalidValue, "expected literal %q", schema.LiteralText)
	}
}

func (v *validator) checkTypeRef(schema *Schema, value Value, path Path) {
	target, ok := v.file.Resolve(schema.RefName)
	if !ok {
		v.errorf(path, value.Span, ValUnknownType, "unknown type %q", schema.RefName)
		return
	}
	v.check(target, value, path)
}
