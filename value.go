package styx

// PayloadKind identifies which variant, if any, a Value's payload holds.
type PayloadKind int

const (
	PayloadNone PayloadKind = iota
	PayloadScalar
	PayloadSequence
	PayloadObject
)

// Value is the compact semantic tree (§3): a tag name plus an optional
// payload, used by the validator and as the document representation handed
// to callers that don't need the full CST.
type Value struct {
	HasTag bool
	Tag    string
	Kind   PayloadKind
	Span   Span

	// PayloadScalar.
	Text       string
	ScalarKind ScalarKind

	// PayloadSequence.
	Items []Value

	// PayloadObject.
	Entries   []Entry
	Separator Separator
}

// Entry is one key/value pair of an Object-kind Value.
type Entry struct {
	Key   Value
	Value Value
}

// IsUnit reports whether v carries no payload at all.
func (v Value) IsUnit() bool { return v.Kind == PayloadNone }

// Field looks up an entry by its key's scalar text ("@name" for tag-shaped
// keys, "@" for a unit key), returning its value and whether it was found.
func (v Value) Field(name string) (Value, bool) {
	if v.Kind != PayloadObject {
		return Value{}, false
	}
	for _, e := range v.Entries {
		if keyText(e.Key) == name {
			return e.Value, true
		}
	}
	return Value{}, false
}

func keyText(k Value) string {
	if k.HasTag {
		return "@" + k.Tag
	}
	if k.Kind == PayloadNone {
		// A unit key is the sentinel '@' (RootTypeName, CatchAllField).
		return "@"
	}
	return k.Text
}

// valueFrameKind distinguishes the three kinds of in-progress containers a
// ValueBuilder can be nested inside.
type valueFrameKind int

const (
	vfObject valueFrameKind = iota
	vfSequence
	vfTag
)

type valueFrame struct {
	kind      valueFrameKind
	span      Span
	separator Separator

	// vfObject
	entries  []Entry
	entryKey Value
	hasKey   bool

	// vfSequence
	items []Value

	// vfTag
	tagName string
	payload Value
}

// ValueBuilder is a Sink that assembles the flat parse-event stream into a
// Value tree. It relies on the parser's event-nesting invariant: object,
// sequence, and tag starts and ends are always properly nested, even on
// malformed input, so a plain frame stack suffices.
type ValueBuilder struct {
	stack []*valueFrame
	root  Value
}

// NewValueBuilder returns an empty builder ready to receive events.
func NewValueBuilder() *ValueBuilder { return &ValueBuilder{} }

// Value returns the built root Value. Valid once the full event stream
// (through DocumentEnd) has been pushed.
func (b *ValueBuilder) Value() Value { return b.root }

// BuildValue replays events into a fresh ValueBuilder and returns the
// result; a convenience for callers that already have a collected slice.
func BuildValue(events []Event) Value {
	b := NewValueBuilder()
	for _, e := range events {
		b.Push(e)
	}
	return b.Value()
}

func (b *ValueBuilder) Push(e Event) {
	switch e.Kind {
	case EvObjectStart:
		b.stack = append(b.stack, &valueFrame{kind: vfObject, span: e.Span, separator: e.ObjSeparator})
	case EvObjectEnd:
		f := b.pop()
		b.deliver(Value{Kind: PayloadObject, Span: f.span.Union(e.Span), Entries: f.entries, Separator: f.separator})
	case EvSequenceStart:
		b.stack = append(b.stack, &valueFrame{kind: vfSequence, span: e.Span})
	case EvSequenceEnd:
		f := b.pop()
		b.deliver(Value{Kind: PayloadSequence, Span: f.span.Union(e.Span), Items: f.items})
	case EvTagStart:
		b.stack = append(b.stack, &valueFrame{kind: vfTag, span: e.Span, tagName: e.TagName})
	case EvTagEnd:
		f := b.pop()
		v := f.payload
		v.HasTag, v.Tag = true, f.tagName
		v.Span = f.span.Union(e.Span)
		b.deliver(v)
	case EvScalar:
		b.deliver(Value{Kind: PayloadScalar, Span: e.Span, Text: e.Value, ScalarKind: e.ScalarKind})
	case EvUnit:
		b.deliver(Value{Kind: PayloadNone, Span: e.Span})
	case EvKey:
		// KeyInvalid is a pure diagnostic marker: every invalid-key path
		// (object, sequence, heredoc, tag-with-invalid-payload) already
		// pushed the real atom's own events beforehand, which already
		// filled the entry's key slot. Delivering again here would shove
		// a bogus value into the slot meant for this entry's value.
		if e.KeyKind == KeyInvalid {
			return
		}
		b.deliver(keyValue(e))
	case EvEntryEnd:
		// A dangling key with no matching value only happens on the
		// TooManyAtoms recovery path; drop it rather than let it bleed
		// into the next entry.
		if top := b.topObject(); top != nil {
			top.hasKey = false
		}
	default:
		// DocumentStart/DocumentEnd, EntryStart, Comment/DocComment,
		// Error: none carry tree-shaped payload.
	}
}

func keyValue(e Event) Value {
	switch e.KeyKind {
	case KeyScalar:
		return Value{Kind: PayloadScalar, Span: e.Span, Text: e.Value, ScalarKind: e.ScalarKind}
	case KeyUnit:
		return Value{Kind: PayloadNone, Span: e.Span}
	case KeyTag:
		v := Value{HasTag: true, Tag: e.KeyTag, Span: e.Span}
		if e.KeyHasPayload && !e.KeyPayloadUnit {
			v.Kind = PayloadScalar
			v.Text, v.ScalarKind = e.Value, e.ScalarKind
		}
		return v
	default:
		return Value{Span: e.Span}
	}
}

func (b *ValueBuilder) topObject() *valueFrame {
	if len(b.stack) == 0 {
		return nil
	}
	if top := b.stack[len(b.stack)-1]; top.kind == vfObject {
		return top
	}
	return nil
}

func (b *ValueBuilder) pop() *valueFrame {
	n := len(b.stack) - 1
	f := b.stack[n]
	b.stack = b.stack[:n]
	return f
}

func (b *ValueBuilder) deliver(v Value) {
	if len(b.stack) == 0 {
		b.root = v
		return
	}
	switch top := b.stack[len(b.stack)-1]; top.kind {
	case vfTag:
		top.payload = v
	case vfSequence:
		top.items = append(top.items, v)
	case vfObject:
		if !top.hasKey {
			top.entryKey, top.hasKey = v, true
		} else {
			top.entries = append(top.entries, Entry{Key: top.entryKey, Value: v})
			top.hasKey = false
		}
	}
}
