package styx

// EventKind identifies the kind of a parse event (§3).
type EventKind int

const (
	EvDocumentStart EventKind = iota
	EvDocumentEnd

	EvObjectStart
	EvObjectEnd
	EvSequenceStart
	EvSequenceEnd

	EvEntryStart
	EvKey
	EvEntryEnd

	EvScalar
	EvUnit

	EvTagStart
	EvTagEnd

	EvComment
	EvDocComment

	// EvWhitespace, EvNewline and EvComma carry the raw tokens the tokenizer
	// never skips. They are not part of spec §3's event listing (which
	// names only Comment/DocComment as "Trivia"), but §4.3 requires the CST
	// Builder to consume "all trivia tokens from the tokenizer, not only
	// semantic events" — a lossless CST is otherwise unbuildable from the
	// event stream alone, so the sink channel carries them too. Consumers
	// that only want the semantic shape (VecSink-based tests, the Value
	// Tree builder) simply ignore these three kinds.
	EvWhitespace
	EvNewline
	EvComma

	EvError
)

// Separator is the entry-terminator style latched for an object scope.
type Separator int

const (
	SepUnknown Separator = iota
	SepNewline
	SepComma
)

func (s Separator) String() string {
	switch s {
	case SepNewline:
		return "newline"
	case SepComma:
		return "comma"
	default:
		return "unknown"
	}
}

// ScalarKind identifies how a scalar value was written.
type ScalarKind int

const (
	ScalarBare ScalarKind = iota
	ScalarQuoted
	ScalarRaw
	ScalarHeredoc
)

func (k ScalarKind) String() string {
	switch k {
	case ScalarBare:
		return "bare"
	case ScalarQuoted:
		return "quoted"
	case ScalarRaw:
		return "raw"
	case ScalarHeredoc:
		return "heredoc"
	default:
		return "unknown"
	}
}

// KeyKind identifies what syntactic form a key took.
type KeyKind int

const (
	KeyScalar KeyKind = iota
	KeyUnit
	KeyTag
	// KeyInvalid marks a key atom that violated §4.2's key restrictions
	// (an object, sequence, or heredoc used as a key). The entry's
	// InvalidKey error event carries the details; consumers should treat
	// the key as opaque rather than attempt canonicalization.
	KeyInvalid
)

// Event is a single tagged record emitted by the parser, in strict source
// order (§5: for any two tokens with spans S1 < S2, their events occur in
// that order).
type Event struct {
	Kind EventKind
	Span Span

	// ObjectStart
	ObjSeparator Separator

	// Key
	KeyTag         string // tag name, if KeyKind == KeyTag
	KeyHasPayload  bool   // whether the tag key carries a payload
	KeyPayloadUnit bool   // true if the payload is an explicit unit ('@name@')
	KeyKind        KeyKind

	// Scalar
	Value      string // decoded for quoted scalars, delimiters stripped for raw scalars and heredocs, verbatim for bare scalars
	ScalarKind ScalarKind

	// TagStart
	TagName string

	// Comment / DocComment
	Text string

	// Error
	ErrKind  ErrorKind
	ErrExtra Span // e.g. DuplicateKey's original span, NestIntoTerminal's terminal path span
	ErrPath  []string
}

// Sink receives parse events. A VecSink collects them into a slice; a CST
// builder consumes them to build a lossless tree. The sink is a plain
// synchronous object, not a callback — the parser drives it directly.
type Sink interface {
	Push(Event)
}

// VecSink is the simplest Sink: it appends every event to a slice.
type VecSink struct {
	Events []Event
}

func (s *VecSink) Push(e Event) { s.Events = append(s.Events, e) }
