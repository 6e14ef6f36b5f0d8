package styx

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// kinds strips spans and field payloads, leaving just the event-kind shape,
// since the worked examples in the specification describe streams "excluding
// trivia" and without exact byte offsets.
func kinds(events []Event) []EventKind {
	out := make([]EventKind, 0, len(events))
	for _, e := range events {
		out = append(out, e.Kind)
	}
	return out
}

// withoutTrivia drops Comment/DocComment events and the raw
// Whitespace/Newline/Comma token events, mirroring how the worked examples
// describe expected streams.
func withoutTrivia(events []Event) []Event {
	out := events[:0:0]
	for _, e := range events {
		switch e.Kind {
		case EvComment, EvDocComment, EvWhitespace, EvNewline, EvComma:
			continue
		}
		out = append(out, e)
	}
	return out
}

func errorKinds(events []Event) []ErrorKind {
	var out []ErrorKind
	for _, e := range events {
		if e.Kind == EvError {
			out = append(out, e.ErrKind)
		}
	}
	return out
}

func TestParseSimpleEntries(t *testing.T) {
	events := withoutTrivia(Parse("name hello\nvalue 42"))
	require.Empty(t, errorKinds(events))

	require.Equal(t, []EventKind{
		EvDocumentStart,
		EvObjectStart,
		EvEntryStart, EvKey, EvScalar, EvEntryEnd,
		EvEntryStart, EvKey, EvScalar, EvEntryEnd,
		EvObjectEnd,
		EvDocumentEnd,
	}, kinds(events))

	firstKey := events[3]
	assert.Equal(t, "name", firstKey.Value)
	firstValue := events[4]
	assert.Equal(t, "hello", firstValue.Value)
	assert.Equal(t, ScalarBare, firstValue.ScalarKind)

	secondValue := events[8]
	assert.Equal(t, "42", secondValue.Value)
}

func TestParseTaggedNestedPayload(t *testing.T) {
	events := withoutTrivia(Parse("y @Foo{x 1}"))
	require.Empty(t, errorKinds(events))

	require.Equal(t, []EventKind{
		EvDocumentStart,
		EvObjectStart,
		EvEntryStart, EvKey,
		EvTagStart,
		EvObjectStart,
		EvEntryStart, EvKey, EvScalar, EvEntryEnd,
		EvObjectEnd,
		EvTagEnd,
		EvEntryEnd,
		EvObjectEnd,
		EvDocumentEnd,
	}, kinds(events))

	outerKey := events[3]
	assert.Equal(t, "y", outerKey.Value)

	tagStart := events[4]
	assert.Equal(t, "Foo", tagStart.TagName)

	innerKey := events[7]
	assert.Equal(t, "x", innerKey.Value)
	innerValue := events[8]
	assert.Equal(t, "1", innerValue.Value)
}

func TestParseSequenceInsideTag(t *testing.T) {
	events := withoutTrivia(Parse("x @Foo(@Bar)"))
	require.Empty(t, errorKinds(events))

	require.Equal(t, []EventKind{
		EvDocumentStart,
		EvObjectStart,
		EvEntryStart, EvKey,
		EvTagStart,
		EvSequenceStart,
		EvTagStart, EvUnit, EvTagEnd,
		EvSequenceEnd,
		EvTagEnd,
		EvEntryEnd,
		EvObjectEnd,
		EvDocumentEnd,
	}, kinds(events))

	outer := events[4]
	assert.Equal(t, "Foo", outer.TagName)
	inner := events[6]
	assert.Equal(t, "Bar", inner.TagName)
}

func TestParseDuplicateKey(t *testing.T) {
	events := Parse("a 1\na 2")

	var dup *Event
	var firstKeySpan Span
	for i, e := range events {
		if e.Kind == EvKey && e.Value == "a" && firstKeySpan == (Span{}) {
			firstKeySpan = e.Span
		}
		if e.Kind == EvError && e.ErrKind == ErrDuplicateKey {
			dup = &events[i]
		}
	}
	require.NotNil(t, dup)
	assert.Equal(t, firstKeySpan, dup.ErrExtra)

	entries := 0
	for _, e := range events {
		if e.Kind == EvEntryStart {
			entries++
		}
	}
	assert.Equal(t, 2, entries)
}

func TestParseMixedSeparators(t *testing.T) {
	events := Parse("{\n  a 1,\n  b 2\n}")
	assert.Contains(t, errorKinds(events), ErrMixedSeparators)
}

func TestParseEmptyInput(t *testing.T) {
	events := Parse("")
	require.Empty(t, errorKinds(events))
	require.Equal(t, []EventKind{EvDocumentStart, EvObjectStart, EvObjectEnd, EvDocumentEnd}, kinds(events))

	for _, e := range events {
		if e.Kind == EvObjectStart {
			assert.Equal(t, SepNewline, e.ObjSeparator)
		}
	}
}

func TestParseUnclosedObject(t *testing.T) {
	events := Parse("a {x 1")
	assert.Contains(t, errorKinds(events), ErrUnclosedObject)
}

func TestParseUnclosedSequence(t *testing.T) {
	events := Parse("a (1 2")
	assert.Contains(t, errorKinds(events), ErrUnclosedSequence)
}

func TestParseTrailingComma(t *testing.T) {
	events := Parse("a (1, 2,)")
	require.Empty(t, errorKinds(events))
}

func TestParseTrailingNewlineBeforeClose(t *testing.T) {
	events := Parse("a {\n  x 1\n\n}")
	require.Empty(t, errorKinds(events))
}

func TestParseLoneAtIsUnit(t *testing.T) {
	events := withoutTrivia(Parse("x @"))
	require.Empty(t, errorKinds(events))
	require.Equal(t, []EventKind{
		EvDocumentStart, EvObjectStart,
		EvEntryStart, EvKey, EvUnit, EvEntryEnd,
		EvObjectEnd, EvDocumentEnd,
	}, kinds(events))
}

// TestParseTagUnitPayloadEquivalence checks the open question from the
// design notes: "@foo" and "@foo@" must produce equivalent event streams.
func TestParseTagUnitPayloadEquivalence(t *testing.T) {
	bare := withoutTrivia(Parse("x @foo"))
	explicit := withoutTrivia(Parse("x @foo@"))

	require.Equal(t, kinds(bare), kinds(explicit))
	for i := range bare {
		assert.Equal(t, bare[i].TagName, explicit[i].TagName, "event %d", i)
	}
}

func TestParseTooManyAtoms(t *testing.T) {
	events := Parse("a 1 2")
	assert.Contains(t, errorKinds(events), ErrTooManyAtoms)
}

func TestParseInvalidKeyObject(t *testing.T) {
	events := Parse("{x 1} y")
	assert.Contains(t, errorKinds(events), ErrInvalidKey)

	found := false
	for _, e := range events {
		if e.Kind == EvKey && e.KeyKind == KeyInvalid {
			found = true
		}
	}
	assert.True(t, found, "expected a Key event with KeyInvalid even on the error path")
}

func TestParseInvalidKeyHeredoc(t *testing.T) {
	events := Parse("<<EOF\nhi\nEOF\n y")
	assert.Contains(t, errorKinds(events), ErrInvalidKey)
}

// Adjacency matters: a tag's payload must start with no whitespace in
// between, so the payload here is the quoted scalar glued directly onto the
// tag rather than the bare scalar "ok" that follows as the entry's value.
func TestParseTagKeyWithScalarPayload(t *testing.T) {
	events := withoutTrivia(Parse(`@color"red" ok`))
	require.Empty(t, errorKinds(events))

	key := events[3]
	require.Equal(t, KeyTag, key.KeyKind)
	assert.Equal(t, "color", key.KeyTag)
	assert.True(t, key.KeyHasPayload)
	assert.Equal(t, "red", key.Value)

	value := events[4]
	assert.Equal(t, "ok", value.Value)
}

func TestParseTagKeyWithInvalidPayload(t *testing.T) {
	events := Parse("@foo{x 1} y")
	assert.Contains(t, errorKinds(events), ErrInvalidKey)
}

func TestParseEventOrdering(t *testing.T) {
	events := Parse("name hello\nvalue @tag{x 1}\n")
	for i := 1; i < len(events); i++ {
		assert.LessOrEqual(t, events[i-1].Span.Start, events[i].Span.Start, "event %d out of order", i)
	}
}

func TestParseDanglingDocComment(t *testing.T) {
	events := Parse("/// orphaned\n")
	assert.Contains(t, errorKinds(events), ErrDanglingDocComment)
}

func TestParseInvalidEscape(t *testing.T) {
	events := Parse(`x "bad \q escape"`)
	assert.Contains(t, errorKinds(events), ErrInvalidEscape)
}

func TestParseRawScalarHashCounting(t *testing.T) {
	events := withoutTrivia(Parse(`x r##"has "# inside"##`))
	require.Empty(t, errorKinds(events))
	value := events[4]
	assert.Equal(t, `has "# inside`, value.Value)
	assert.Equal(t, ScalarRaw, value.ScalarKind)
}

func TestParseHeredocValue(t *testing.T) {
	events := withoutTrivia(Parse("x <<EOF\nline one\nline two\nEOF\n"))
	require.Empty(t, errorKinds(events))
	value := events[4]
	assert.Equal(t, "line one\nline two\n", value.Value)
	assert.Equal(t, ScalarHeredoc, value.ScalarKind)
}
