package styx

// Span is a half-open byte range [Start, End) into the source buffer.
type Span struct {
	Start int
	End   int
}

// Union returns the smallest span covering both s and other.
func (s Span) Union(other Span) Span {
	u := s
	if other.Start < u.Start {
		u.Start = other.Start
	}
	if other.End > u.End {
		u.End = other.End
	}
	return u
}

// Empty reports whether the span covers zero bytes.
func (s Span) Empty() bool { return s.Start == s.End }

// TokenKind identifies lexer token kinds.
type TokenKind int

const (
	TokError TokenKind = iota - 1

	TokEOF TokenKind = iota

	// Trivia.
	TokWhitespace
	TokNewline
	TokLineComment
	TokDocComment

	// Structural.
	TokLBrace // {
	TokRBrace // }
	TokLParen // (
	TokRParen // )
	TokComma  // ,
	TokEquals // =
	TokAt     // @ not followed by a tag name
	TokTag    // @name

	// Scalars.
	TokBareScalar
	TokQuotedScalar
	TokRawScalar
	TokHeredocStart
	TokHeredocContent
	TokHeredocEnd
)

// String returns a readable name for the token kind, used in diagnostics.
func (k TokenKind) String() string {
	switch k {
	case TokError:
		return "error"
	case TokEOF:
		return "eof"
	case TokWhitespace:
		return "whitespace"
	case TokNewline:
		return "newline"
	case TokLineComment:
		return "comment"
	case TokDocComment:
		return "doc-comment"
	case TokLBrace:
		return "'{'"
	case TokRBrace:
		return "'}'"
	case TokLParen:
		return "'('"
	case TokRParen:
		return "')'"
	case TokComma:
		return "','"
	case TokEquals:
		return "'='"
	case TokAt:
		return "'@'"
	case TokTag:
		return "tag"
	case TokBareScalar:
		return "bare scalar"
	case TokQuotedScalar:
		return "quoted scalar"
	case TokRawScalar:
		return "raw scalar"
	case TokHeredocStart:
		return "heredoc start"
	case TokHeredocContent:
		return "heredoc content"
	case TokHeredocEnd:
		return "heredoc end"
	default:
		return "unknown"
	}
}

// Token is a single lexer token: a kind, its span, and its source slice.
type Token struct {
	Kind TokenKind
	Span Span
	Text string
	// ErrKind distinguishes a TokError token's cause (unterminated string,
	// invalid UTF-8, ...) so the parser can report the specific tokenizer
	// error instead of a generic unexpected-token diagnostic. Meaningless
	// unless Kind == TokError.
	ErrKind ErrorKind
}

// Trivia reports whether kind is whitespace, a newline, or a line comment.
// Doc comments are NOT trivia: they attach to entries semantically (§3).
func (k TokenKind) Trivia() bool {
	switch k {
	case TokWhitespace, TokNewline, TokLineComment:
		return true
	default:
		return false
	}
}
