package styx

import "fmt"

// parser drives the lexer through a push-down state machine and pushes
// Events to a Sink in strict source order (§4.2, §5). It never panics on
// well-formed UTF-8; every recoverable error becomes an Error event and
// parsing continues.
type parser struct {
	lex    *lexer
	cur    Token
	source string

	// lastTerminatorSpan is the span of the most recently consumed newline
	// or comma terminator, used to anchor MixedSeparators diagnostics.
	lastTerminatorSpan Span
}

func newParser(source string) *parser {
	p := &parser{lex: newLexer(source), source: source}
	p.cur = p.lex.Next()
	return p
}

// Parse runs the full tokenizer+parser pipeline and returns every event
// emitted, in source order.
func Parse(source string) []Event {
	var sink VecSink
	ParseInto(source, &sink)
	return sink.Events
}

// ParseInto parses source, pushing every event to sink as it is produced.
func ParseInto(source string, sink Sink) {
	p := newParser(source)
	p.parseDocument(sink)
}

func (p *parser) at(k TokenKind) bool { return p.cur.Kind == k }

func (p *parser) advance() Token {
	prev := p.cur
	p.cur = p.lex.Next()
	return prev
}

// skipWhitespace consumes any run of Whitespace tokens, pushing each as an
// EvWhitespace event so a CST builder downstream can still reconstruct the
// exact source text even though Whitespace carries no semantic meaning.
func (p *parser) skipWhitespace(body *VecSink) {
	for p.at(TokWhitespace) {
		tok := p.advance()
		body.Push(Event{Kind: EvWhitespace, Span: tok.Span, Text: tok.Text})
	}
}

func (p *parser) canStartAtom() bool {
	switch p.cur.Kind {
	case TokBareScalar, TokQuotedScalar, TokRawScalar, TokHeredocStart,
		TokAt, TokTag, TokLBrace, TokLParen, TokError:
		return true
	default:
		return false
	}
}

// scalarErrorEvent turns a tokenizer-level TokError token into its Error
// event, reporting the specific cause the lexer tagged it with (unterminated
// string/raw string, invalid UTF-8) instead of a generic unexpected-token
// diagnostic.
func scalarErrorEvent(tok Token) Event {
	msg := "unexpected token"
	switch tok.ErrKind {
	case ErrUnterminatedString:
		msg = "string is never closed"
	case ErrUnterminatedRawString:
		msg = "raw string is never closed"
	case ErrInvalidUTF8:
		msg = "invalid UTF-8"
	}
	return Event{Kind: EvError, Span: tok.Span, ErrKind: tok.ErrKind, Text: msg}
}

// scopeKind distinguishes the implicit document root from explicit object
// and sequence scopes; only root and object scopes latch a separator and
// track duplicate keys.
type scopeKind int

const (
	scopeRoot scopeKind = iota
	scopeObject
	scopeSequence
)

// keyOccurrence records enough about a previously seen key to drive the
// ReopenedPath/NestIntoTerminal taxonomy (§4.2, §9 Open Questions).
type keyOccurrence struct {
	span     Span
	terminal bool
	count    int
}

func (p *parser) parseDocument(sink Sink) {
	end := len(p.source)
	sink.Push(Event{Kind: EvDocumentStart, Span: Span{Start: 0, End: 0}})

	body := &VecSink{}
	sep := p.parseScopeBody(scopeRoot, body)

	sink.Push(Event{Kind: EvObjectStart, Span: Span{Start: 0, End: 0}, ObjSeparator: sep})
	for _, ev := range body.Events {
		sink.Push(ev)
	}
	sink.Push(Event{Kind: EvObjectEnd, Span: Span{Start: end, End: end}})
	sink.Push(Event{Kind: EvDocumentEnd, Span: Span{Start: end, End: end}})
}

// parseScopeBody parses the entries of a Root or Object scope (sequences
// use parseSequenceBody instead, since their elements are atoms, not
// entries) and returns the latched separator. The caller is responsible for
// emitting ObjectStart/ObjectEnd and for reporting UnclosedObject
// (parseObjectValue does); this only fills body with the entry events and
// returns at EOF or, for object scopes, at the closing '}'.
func (p *parser) parseScopeBody(kind scopeKind, body *VecSink) Separator {
	sep := SepUnknown
	sepSeen := false
	seen := map[string]*keyOccurrence{}

	latch := func(s Separator) {
		if !sepSeen {
			sep, sepSeen = s, true
			return
		}
		if sep != s {
			body.Push(Event{Kind: EvError, Span: p.lastTerminatorSpan, ErrKind: ErrMixedSeparators,
				Text: "object mixes comma and newline separators"})
		}
	}

	for {
		danglingDoc := p.collectLeadingTrivia(body, kind)
		if danglingDoc {
			// already reported inside collectLeadingTrivia
		}

		if p.at(TokEOF) {
			return finalSep(sep)
		}
		if kind == scopeObject && p.at(TokRBrace) {
			return finalSep(sep)
		}

		if !p.canStartAtom() {
			tok := p.advance()
			body.Push(Event{Kind: EvError, Span: tok.Span, ErrKind: ErrUnexpectedToken,
				Text: fmt.Sprintf("unexpected %s", tok.Kind)})
			continue
		}

		p.parseEntry(kind, body, seen, latch)
	}
}

func finalSep(sep Separator) Separator {
	if sep == SepUnknown {
		return SepNewline
	}
	return sep
}

// collectLeadingTrivia consumes whitespace/newline/comment/doc-comment
// tokens, pushing Comment/DocComment events as encountered. It reports a
// DanglingDocComment when a doc comment is not followed by an entry.
func (p *parser) collectLeadingTrivia(body *VecSink, kind scopeKind) bool {
	var lastDocSpan Span
	hasDoc := false
	for {
		switch p.cur.Kind {
		case TokWhitespace:
			tok := p.advance()
			body.Push(Event{Kind: EvWhitespace, Span: tok.Span, Text: tok.Text})
		case TokNewline:
			tok := p.advance()
			body.Push(Event{Kind: EvNewline, Span: tok.Span, Text: tok.Text})
			p.lastTerminatorSpan = tok.Span
		case TokLineComment:
			tok := p.advance()
			body.Push(Event{Kind: EvComment, Span: tok.Span, Text: tok.Text})
			hasDoc = false
		case TokDocComment:
			tok := p.advance()
			body.Push(Event{Kind: EvDocComment, Span: tok.Span, Text: tok.Text})
			lastDocSpan, hasDoc = tok.Span, true
		default:
			closes := p.at(TokEOF) || (kind == scopeObject && p.at(TokRBrace))
			if hasDoc && closes {
				body.Push(Event{Kind: EvError, Span: lastDocSpan, ErrKind: ErrDanglingDocComment,
					Text: "doc comment is not attached to an entry"})
			}
			return hasDoc && closes
		}
	}
}

// parseEntry parses one key[/value] entry of a Root or Object scope.
// Sequence elements are bare atoms, not entries, and go through
// parseSequenceValue instead, so kind here is always scopeRoot or
// scopeObject.
func (p *parser) parseEntry(kind scopeKind, body *VecSink, seen map[string]*keyOccurrence, latch func(Separator)) {
	entryStartIdx := len(body.Events)
	startPos := p.cur.Span.Start
	body.Events = append(body.Events, Event{Kind: EvEntryStart, Span: Span{Start: startPos, End: startPos}})

	canon, keySpan, isObjectValue := p.parseKeyAndValue(body)

	if canon != "" {
		if prev, dup := seen[canon]; dup {
			body.Push(Event{Kind: EvError, Span: keySpan, ErrKind: ErrDuplicateKey,
				Text: fmt.Sprintf("duplicate key %q", canon), ErrExtra: prev.span})
			if prev.terminal && isObjectValue {
				body.Push(Event{Kind: EvError, Span: keySpan, ErrKind: ErrNestIntoTerminal,
					Text: fmt.Sprintf("cannot nest into %q: previous value is terminal", canon), ErrExtra: prev.span})
			}
			if prev.count >= 1 {
				body.Push(Event{Kind: EvError, Span: keySpan, ErrKind: ErrReopenedPath,
					Text: fmt.Sprintf("path %q was already closed", canon)})
			}
			prev.count++
		} else {
			seen[canon] = &keyOccurrence{span: keySpan, terminal: !isObjectValue, count: 0}
		}
	}

	// trailing trivia + terminator
	p.skipWhitespace(body)
	if p.at(TokLineComment) {
		tok := p.advance()
		body.Push(Event{Kind: EvComment, Span: tok.Span, Text: tok.Text})
	}

	endPos := p.cur.Span.Start
	body.Events[entryStartIdx].Span.End = endPos
	body.Push(Event{Kind: EvEntryEnd, Span: Span{Start: endPos, End: endPos}})

	switch {
	case p.at(TokComma):
		tok := p.advance()
		body.Push(Event{Kind: EvComma, Span: tok.Span, Text: tok.Text})
		p.lastTerminatorSpan = tok.Span
		latch(SepComma)
	case p.at(TokNewline):
		var last Token
		for p.at(TokNewline) {
			last = p.advance()
			body.Push(Event{Kind: EvNewline, Span: last.Span, Text: last.Text})
		}
		p.lastTerminatorSpan = last.Span
		latch(SepNewline)
	case p.at(TokEOF):
	case kind == scopeObject && p.at(TokRBrace):
	default:
		tok := p.cur
		body.Push(Event{Kind: EvError, Span: tok.Span, ErrKind: ErrUnexpectedToken,
			Text: fmt.Sprintf("expected separator, got %s", tok.Kind)})
	}
}

// parseKeyAndValue parses one entry's key atom and optional value atom (and
// rejects any third atom as TooManyAtoms). It returns the key's canonical
// text (for duplicate-key tracking) and whether the value atom was an
// object (for NestIntoTerminal).
func (p *parser) parseKeyAndValue(body *VecSink) (canonical string, keySpan Span, valueIsObject bool) {
	canonical, keySpan = p.parseKeyAtom(body)
	p.skipWhitespace(body)

	if p.canStartAtom() {
		shape := p.parseValueAtom(body)
		valueIsObject = shape == atomObject
		p.skipWhitespace(body)

		for p.canStartAtom() {
			tok := p.cur
			body.Push(Event{Kind: EvError, Span: tok.Span, ErrKind: ErrTooManyAtoms,
				Text: "entry has more than two atoms"})
			p.parseValueAtom(body)
			p.skipWhitespace(body)
		}
	} else {
		body.Push(Event{Kind: EvUnit, Span: Span{Start: p.cur.Span.Start, End: p.cur.Span.Start}})
	}
	return canonical, keySpan, valueIsObject
}

// parseKeyAtom parses the key half of an entry, enforcing that objects,
// sequences, and heredocs cannot be keys (§4.2). It always consumes a full
// atom so the token stream stays in sync, even when the key is invalid.
func (p *parser) parseKeyAtom(body *VecSink) (canonical string, span Span) {
	switch p.cur.Kind {
	case TokBareScalar, TokQuotedScalar, TokRawScalar, TokError:
		tok := p.advance()
		if tok.Kind == TokError {
			body.Push(scalarErrorEvent(tok))
		}
		value, scKind, escErr, escOff := decodeScalarToken(tok)
		if escErr {
			body.Push(Event{Kind: EvError, Span: Span{tok.Span.Start + escOff, tok.Span.Start + escOff + 1},
				ErrKind: ErrInvalidEscape, Text: "invalid escape sequence"})
		}
		body.Push(Event{Kind: EvKey, Span: tok.Span, KeyKind: KeyScalar, Value: value, ScalarKind: scKind})
		return value, tok.Span
	case TokHeredocStart:
		span = p.parseHeredocAsInvalidKey(body)
		return invalidKeyText(span), span
	case TokAt:
		tok := p.advance()
		body.Push(Event{Kind: EvKey, Span: tok.Span, KeyKind: KeyUnit})
		return "@", tok.Span
	case TokTag:
		return p.parseTagKey(body)
	case TokLBrace, TokLParen:
		start := p.cur.Span.Start
		p.parseValueAtom(body) // consume for token-stream continuity
		span = Span{Start: start, End: p.prevEnd()}
		body.Push(Event{Kind: EvKey, Span: span, KeyKind: KeyInvalid})
		body.Push(Event{Kind: EvError, Span: span, ErrKind: ErrInvalidKey,
			Text: "object or sequence may not be used as a key"})
		return invalidKeyText(span), span
	default:
		tok := p.advance()
		body.Push(Event{Kind: EvError, Span: tok.Span, ErrKind: ErrExpectedKey, Text: "expected a key"})
		return invalidKeyText(tok.Span), tok.Span
	}
}

func (p *parser) prevEnd() int { return p.cur.Span.Start }

// scanHeredoc consumes the current HeredocStart token (p.cur) and scans its
// body directly off the lexer, WITHOUT routing through p.advance — the
// lexer's position is already sitting right after the opener, and a normal
// Next() call would try to re-tokenize heredoc content as ordinary tokens.
func (p *parser) scanHeredoc() (delim string, content, end Token, full Span) {
	startTok := p.cur
	delim = heredocDelimiter(startTok.Text)
	content, end = p.lex.scanHeredocBody(delim)
	p.cur = p.lex.Next()
	full = Span{Start: startTok.Span.Start, End: end.Span.End}
	return delim, content, end, full
}

func invalidKeyText(span Span) string {
	return fmt.Sprintf("\x00invalid@%d", span.Start)
}

// parseHeredocAsInvalidKey mirrors parseKeyAtom's object/sequence branch: it
// pushes the heredoc's own Scalar event first (so a CST/Value builder still
// sees real content in the key slot), then marks the key invalid.
func (p *parser) parseHeredocAsInvalidKey(body *VecSink) Span {
	delim, content, end, full := p.scanHeredoc()
	if end.Kind == TokError {
		body.Push(Event{Kind: EvError, Span: Span{Start: content.Span.End, End: content.Span.End},
			ErrKind: ErrUnterminatedHeredoc, Text: fmt.Sprintf("heredoc %q is never closed", delim)})
	}
	body.Push(Event{Kind: EvScalar, Span: full, Value: content.Text, ScalarKind: ScalarHeredoc})
	body.Push(Event{Kind: EvKey, Span: full, KeyKind: KeyInvalid})
	body.Push(Event{Kind: EvError, Span: full, ErrKind: ErrInvalidKey, Text: "heredoc may not be used as a key"})
	return full
}

// parseTagKey parses `@name` used as a key, where any payload is restricted
// to a scalar or unit (§4.2: "Keys may be ... a tag (optionally with
// scalar/unit payload)").
func (p *parser) parseTagKey(body *VecSink) (canonical string, span Span) {
	tagTok := p.advance()
	name := tagTok.Text[1:]
	start := tagTok.Span.Start

	switch p.cur.Kind {
	case TokBareScalar, TokQuotedScalar, TokRawScalar, TokError:
		tok := p.advance()
		if tok.Kind == TokError {
			body.Push(scalarErrorEvent(tok))
		}
		value, scKind, escErr, escOff := decodeScalarToken(tok)
		if escErr {
			body.Push(Event{Kind: EvError, Span: Span{tok.Span.Start + escOff, tok.Span.Start + escOff + 1},
				ErrKind: ErrInvalidEscape, Text: "invalid escape sequence"})
		}
		span = Span{Start: start, End: tok.Span.End}
		body.Push(Event{Kind: EvKey, Span: span, KeyKind: KeyTag, KeyTag: name,
			KeyHasPayload: true, Value: value, ScalarKind: scKind})
		return "@" + name + value, span
	case TokAt:
		tok := p.advance()
		span = Span{Start: start, End: tok.Span.End}
		body.Push(Event{Kind: EvKey, Span: span, KeyKind: KeyTag, KeyTag: name,
			KeyHasPayload: true, KeyPayloadUnit: true})
		return "@" + name + "@", span
	case TokHeredocStart, TokLBrace, TokLParen, TokTag:
		p.parseValueAtom(body)
		span = Span{Start: start, End: p.prevEnd()}
		body.Push(Event{Kind: EvKey, Span: span, KeyKind: KeyInvalid})
		body.Push(Event{Kind: EvError, Span: span, ErrKind: ErrInvalidKey,
			Text: "tag key payload must be a scalar or unit"})
		return invalidKeyText(span), span
	default:
		span = tagTok.Span
		body.Push(Event{Kind: EvKey, Span: span, KeyKind: KeyTag, KeyTag: name})
		return "@" + name, span
	}
}

type atomShape int

const (
	atomScalar atomShape = iota
	atomUnit
	atomTag
	atomObject
	atomSequence
)

// parseValueAtom parses one unrestricted atom (scalar, unit, tag, object,
// or sequence) and pushes its events to body. It is used for entry values,
// sequence elements, and tag payloads.
func (p *parser) parseValueAtom(body *VecSink) atomShape {
	switch p.cur.Kind {
	case TokBareScalar, TokQuotedScalar, TokRawScalar, TokError:
		tok := p.advance()
		if tok.Kind == TokError {
			body.Push(scalarErrorEvent(tok))
		}
		value, scKind, escErr, escOff := decodeScalarToken(tok)
		if escErr {
			body.Push(Event{Kind: EvError, Span: Span{tok.Span.Start + escOff, tok.Span.Start + escOff + 1},
				ErrKind: ErrInvalidEscape, Text: "invalid escape sequence"})
		}
		body.Push(Event{Kind: EvScalar, Span: tok.Span, Value: value, ScalarKind: scKind})
		return atomScalar
	case TokHeredocStart:
		delim, content, end, full := p.scanHeredoc()
		if end.Kind == TokError {
			body.Push(Event{Kind: EvError, Span: Span{content.Span.End, content.Span.End},
				ErrKind: ErrUnterminatedHeredoc, Text: fmt.Sprintf("heredoc %q is never closed", delim)})
		}
		body.Push(Event{Kind: EvScalar, Span: full, Value: content.Text, ScalarKind: ScalarHeredoc})
		return atomScalar
	case TokAt:
		tok := p.advance()
		body.Push(Event{Kind: EvUnit, Span: tok.Span})
		return atomUnit
	case TokTag:
		p.parseTagValue(body)
		return atomTag
	case TokLBrace:
		p.parseObjectValue(body)
		return atomObject
	case TokLParen:
		p.parseSequenceValue(body)
		return atomSequence
	default:
		tok := p.advance()
		body.Push(Event{Kind: EvError, Span: tok.Span, ErrKind: ErrExpectedValue, Text: "expected a value"})
		return atomUnit
	}
}

func (p *parser) parseTagValue(body *VecSink) {
	tagTok := p.advance()
	name := tagTok.Text[1:]
	body.Push(Event{Kind: EvTagStart, Span: tagTok.Span, TagName: name})
	if p.canStartAtom() {
		p.parseValueAtom(body)
	} else {
		body.Push(Event{Kind: EvUnit, Span: Span{Start: p.cur.Span.Start, End: p.cur.Span.Start}})
	}
	body.Push(Event{Kind: EvTagEnd, Span: Span{Start: p.prevEnd(), End: p.prevEnd()}})
}

func (p *parser) parseObjectValue(body *VecSink) {
	open := p.advance() // {
	inner := &VecSink{}
	sep := p.parseScopeBody(scopeObject, inner)
	var closeSpan Span
	if p.at(TokRBrace) {
		tok := p.advance()
		closeSpan = tok.Span
	} else {
		closeSpan = Span{Start: p.cur.Span.Start, End: p.cur.Span.Start}
		body.Push(Event{Kind: EvError, Span: open.Span, ErrKind: ErrUnclosedObject, Text: "object is never closed"})
	}
	body.Push(Event{Kind: EvObjectStart, Span: open.Span, ObjSeparator: sep})
	for _, ev := range inner.Events {
		body.Push(ev)
	}
	body.Push(Event{Kind: EvObjectEnd, Span: closeSpan})
}

func (p *parser) parseSequenceValue(body *VecSink) {
	open := p.advance() // (
	inner := &VecSink{}
	for {
		for p.at(TokWhitespace) || p.at(TokNewline) || p.at(TokLineComment) || p.at(TokDocComment) {
			tok := p.advance()
			switch tok.Kind {
			case TokLineComment:
				inner.Push(Event{Kind: EvComment, Span: tok.Span, Text: tok.Text})
			case TokDocComment:
				inner.Push(Event{Kind: EvDocComment, Span: tok.Span, Text: tok.Text})
			case TokWhitespace:
				inner.Push(Event{Kind: EvWhitespace, Span: tok.Span, Text: tok.Text})
			case TokNewline:
				inner.Push(Event{Kind: EvNewline, Span: tok.Span, Text: tok.Text})
			}
		}
		if p.at(TokRParen) || p.at(TokEOF) {
			break
		}
		if !p.canStartAtom() {
			tok := p.advance()
			inner.Push(Event{Kind: EvError, Span: tok.Span, ErrKind: ErrUnexpectedToken,
				Text: fmt.Sprintf("unexpected %s in sequence", tok.Kind)})
			continue
		}
		p.parseValueAtom(inner)
		p.skipWhitespace(inner)
		if p.at(TokComma) {
			tok := p.advance()
			inner.Push(Event{Kind: EvComma, Span: tok.Span, Text: tok.Text})
		}
	}
	var closeSpan Span
	if p.at(TokRParen) {
		tok := p.advance()
		closeSpan = tok.Span
	} else {
		closeSpan = Span{Start: p.cur.Span.Start, End: p.cur.Span.Start}
		body.Push(Event{Kind: EvError, Span: open.Span, ErrKind: ErrUnclosedSequence, Text: "sequence is never closed"})
	}
	body.Push(Event{Kind: EvSequenceStart, Span: open.Span})
	for _, ev := range inner.Events {
		body.Push(ev)
	}
	body.Push(Event{Kind: EvSequenceEnd, Span: closeSpan})
}
