package styx

import "fmt"

// ErrorKind enumerates tokenizer and parser error variants (§4.2, §7).
type ErrorKind int

const (
	ErrUnexpectedToken ErrorKind = iota
	ErrUnclosedObject
	ErrUnclosedSequence
	ErrMixedSeparators
	ErrInvalidEscape
	ErrExpectedKey
	ErrExpectedValue
	ErrUnexpectedEOF
	ErrDuplicateKey
	ErrInvalidTagName
	ErrInvalidKey
	ErrDanglingDocComment
	ErrTooManyAtoms
	ErrReopenedPath
	ErrNestIntoTerminal

	// Tokenizer-level.
	ErrInvalidUTF8
	ErrUnterminatedString
	ErrUnterminatedHeredoc
	ErrUnterminatedRawString
)

// String returns a stable, golden-file-friendly name for the error kind.
func (k ErrorKind) String() string {
	switch k {
	case ErrUnexpectedToken:
		return "UnexpectedToken"
	case ErrUnclosedObject:
		return "UnclosedObject"
	case ErrUnclosedSequence:
		return "UnclosedSequence"
	case ErrMixedSeparators:
		return "MixedSeparators"
	case ErrInvalidEscape:
		return "InvalidEscape"
	case ErrExpectedKey:
		return "ExpectedKey"
	case ErrExpectedValue:
		return "ExpectedValue"
	case ErrUnexpectedEOF:
		return "UnexpectedEof"
	case ErrDuplicateKey:
		return "DuplicateKey"
	case ErrInvalidTagName:
		return "InvalidTagName"
	case ErrInvalidKey:
		return "InvalidKey"
	case ErrDanglingDocComment:
		return "DanglingDocComment"
	case ErrTooManyAtoms:
		return "TooManyAtoms"
	case ErrReopenedPath:
		return "ReopenedPath"
	case ErrNestIntoTerminal:
		return "NestIntoTerminal"
	case ErrInvalidUTF8:
		return "InvalidUtf8"
	case ErrUnterminatedString:
		return "UnterminatedString"
	case ErrUnterminatedHeredoc:
		return "UnterminatedHeredoc"
	case ErrUnterminatedRawString:
		return "UnterminatedRawString"
	default:
		return "Unknown"
	}
}

// ParseError is a single diagnostic produced by the parser or tokenizer. It
// carries enough information to render a caret diagnostic (§6, §7) and to
// compare against a golden string in tests.
type ParseError struct {
	Kind    ErrorKind
	Span    Span
	Message string
	// Secondary is a related span, e.g. the original key's span for
	// DuplicateKey, or the terminal value's path for NestIntoTerminal.
	Secondary *Span
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("%s at %d-%d: %s", e.Kind, e.Span.Start, e.Span.End, e.Message)
}

// asEvent renders this error as a parser Event so it can flow through the
// same Sink as every other construct (§7: errors are data, not control flow).
func (e *ParseError) asEvent() Event {
	ev := Event{Kind: EvError, Span: e.Span, ErrKind: e.Kind, Text: e.Message}
	if e.Secondary != nil {
		ev.ErrExtra = *e.Secondary
	}
	return ev
}
