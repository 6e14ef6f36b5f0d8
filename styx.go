package styx

// Document is the top-level result of parsing a Styx source string: its
// semantic Value tree, its lossless CST, and every diagnostic encountered
// along the way — mirroring the teacher's single `Parse` entry point that
// returns one document value callers can query, encode, or re-render.
type Document struct {
	Source string
	Value  Value
	CST    *Node
	Events []Event
	Errors []*ParseError
}

// ParseDocument runs the full tokenizer+parser+CST pipeline once and
// returns a Document bundling every view of the result (§2's four-layer
// pipeline, composed).
func ParseDocument(source string) *Document {
	b := newCSTBuilder(source)
	var events []Event
	ParseInto(source, sinkFunc(func(e Event) {
		events = append(events, e)
		b.Push(e)
	}))

	d := &Document{Source: source, Events: events, CST: b.Tree()}
	d.Value = BuildValue(events)
	for _, e := range events {
		if e.Kind != EvError {
			continue
		}
		pe := &ParseError{Kind: e.ErrKind, Span: e.Span, Message: e.Text}
		if e.ErrExtra != (Span{}) {
			sec := e.ErrExtra
			pe.Secondary = &sec
		}
		d.Errors = append(d.Errors, pe)
	}
	return d
}

// sinkFunc adapts a plain function to the Sink interface so ParseDocument
// can fan one event stream out to both the CST builder and its own slice
// without building two separate parses.
type sinkFunc func(Event)

func (f sinkFunc) Push(e Event) { f(e) }

// OK reports whether parsing produced no errors.
func (d *Document) OK() bool { return len(d.Errors) == 0 }

// Format reflows the document's CST to text per opts.
func (d *Document) Format(opts Options) string { return FormatTree(d.CST, opts) }

// Validate validates this document's Value against file.
func (d *Document) Validate(file *SchemaFile) *ValidationResult { return Validate(d.Value, file) }

// ParseSchemaFile parses source as a Styx document and decodes it into a
// SchemaFile in one step, the common entry point for validator callers.
func ParseSchemaFile(source string) (*SchemaFile, error) {
	doc := BuildValue(Parse(source))
	return DecodeSchemaFile(doc)
}
