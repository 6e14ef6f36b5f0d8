package styx

// MetaSchemaSource is the embedded schema describing the shape of a
// SchemaFile document itself (§4.4's self-validation property). Its payload
// schemas deliberately bottom out at `@any` rather than fully typing every
// combinator's own fields — the point of this schema is to pin down the
// top-level SchemaFile shape (meta/import/schema, and the closed set of
// schema-node tags a "schema" entry may use) so the regression test in
// §4.4 and §8 property 9 has a real, non-trivial document to validate,
// while staying simple enough to hand-verify by inspection.
const MetaSchemaSource = `meta {
    id metaschema
    version 1
}
import {}
schema {
    @ @object{
        meta @any
        import @any
        schema @map{ key @any, value Schema }
    }
    Schema @enum{
        string @any
        int @any
        float @any
        bool @any
        unit @any
        any @any
        object @any
        seq @any
        map @any
        union @any
        optional @any
        enum @any
        oneOf @any
        flatten @any
        default @any
        deprecated @any
        literal @any
    }
}
`

// LoadMetaSchema parses and decodes MetaSchemaSource into a SchemaFile.
func LoadMetaSchema() (*SchemaFile, error) {
	doc := BuildValue(Parse(MetaSchemaSource))
	return DecodeSchemaFile(doc)
}

// SelfValidate validates the meta-schema's own document against itself,
// exercising the regression property §4.4 names: "a regression test that
// runs validation of the meta-schema against the meta-schema should report
// zero errors".
func SelfValidate() (*ValidationResult, error) {
	sf, err := LoadMetaSchema()
	if err != nil {
		return nil, err
	}
	doc := BuildValue(Parse(MetaSchemaSource))
	return Validate(doc, sf), nil
}
