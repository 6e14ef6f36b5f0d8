package styx

// Kind identifies CST node and token kinds from one closed set (§3, §9). A
// kind is either a terminal (carries text, no children) or a non-terminal
// (carries children, no direct text); IsTerminal distinguishes the two.
type Kind int

const (
	// Non-terminals.
	KDocument Kind = iota
	KEntry
	KObject
	KSequence
	KScalarNode
	KUnitNode
	KTag
	KTagName
	KTagPayload
	KKey
	KValue
	KHeredoc
	KAttributes
	KAttribute
	KError

	// Terminal kinds mirror the lexer's TokenKind set one-for-one so every
	// leaf token the tokenizer ever produces has a home in the tree.
	KTokWhitespace
	KTokNewline
	KTokLineComment
	KTokDocComment
	KTokLBrace
	KTokRBrace
	KTokLParen
	KTokRParen
	KTokComma
	KTokEquals
	KTokAt
	KTokTag
	KTokBareScalar
	KTokQuotedScalar
	KTokRawScalar
	KTokHeredocStart
	KTokHeredocContent
	KTokHeredocEnd
	KTokErrorLeaf
)

// IsTerminal reports whether k is a leaf (token) kind rather than a
// non-terminal (node) kind.
func (k Kind) IsTerminal() bool { return k >= KTokWhitespace }

func kindFromToken(tk TokenKind) Kind {
	switch tk {
	case TokWhitespace:
		return KTokWhitespace
	case TokNewline:
		return KTokNewline
	case TokLineComment:
		return KTokLineComment
	case TokDocComment:
		return KTokDocComment
	case TokLBrace:
		return KTokLBrace
	case TokRBrace:
		return KTokRBrace
	case TokLParen:
		return KTokLParen
	case TokRParen:
		return KTokRParen
	case TokComma:
		return KTokComma
	case TokEquals:
		return KTokEquals
	case TokAt:
		return KTokAt
	case TokTag:
		return KTokTag
	case TokBareScalar:
		return KTokBareScalar
	case TokQuotedScalar:
		return KTokQuotedScalar
	case TokRawScalar:
		return KTokRawScalar
	case TokHeredocStart:
		return KTokHeredocStart
	case TokHeredocContent:
		return KTokHeredocContent
	case TokHeredocEnd:
		return KTokHeredocEnd
	default:
		return KTokErrorLeaf
	}
}

// green is the shared, immutable backbone of the CST: a node carries its
// kind, byte width, and (for non-terminals) its children; a token carries
// its kind and literal text. Green nodes never reference a parent or an
// absolute offset, which is what makes them cheap to share across clones
// (§9: "green/red split").
type green struct {
	kind     Kind
	width    int
	text     string  // terminal only
	children []*green // non-terminal only
}

func greenToken(kind Kind, text string) *green {
	return &green{kind: kind, width: len(text), text: text}
}

func greenNode(kind Kind, children []*green) *green {
	w := 0
	for _, c := range children {
		w += c.width
	}
	return &green{kind: kind, width: w, children: children}
}

// Node is a red cursor over a shared green tree: a parent pointer plus an
// absolute source offset, computed lazily as the tree is walked. Cloning a
// Node is O(1) because it only copies the cursor, not the green subtree
// (§3: "cheap subtree sharing").
type Node struct {
	g      *green
	parent *Node
	offset int
	index  int // this node's position among parent's children, or -1 at root
}

// newTreeRoot wraps a green root into a red Node with no parent.
func newTreeRoot(g *green) *Node {
	return &Node{g: g, index: -1}
}

// Kind returns the node's kind.
func (n *Node) Kind() Kind { return n.g.kind }

// Span returns the node's absolute byte range in the original source.
func (n *Node) Span() Span { return Span{Start: n.offset, End: n.offset + n.g.width} }

// Text returns a terminal node's literal text, or "" for non-terminals.
func (n *Node) Text() string { return n.g.text }

// Parent returns the node's parent, or nil at the tree root.
func (n *Node) Parent() *Node { return n.parent }

// Children returns the node's direct children as freshly minted red cursors.
// Non-terminal only; terminals return nil.
func (n *Node) Children() []*Node {
	if n.g.children == nil {
		return nil
	}
	out := make([]*Node, len(n.g.children))
	off := n.offset
	for i, c := range n.g.children {
		out[i] = &Node{g: c, parent: n, offset: off, index: i}
		off += c.width
	}
	return out
}

// NextSibling returns the node immediately following this one among its
// parent's children, or nil if there is none or this is the root.
func (n *Node) NextSibling() *Node {
	if n.parent == nil || n.index+1 >= len(n.parent.g.children) {
		return nil
	}
	return n.parent.Children()[n.index+1]
}

// PrevSibling returns the node immediately preceding this one, or nil.
func (n *Node) PrevSibling() *Node {
	if n.parent == nil || n.index <= 0 {
		return nil
	}
	return n.parent.Children()[n.index-1]
}

// Clone returns an O(1) copy of n: same green subtree, detached from any
// parent, with offset reset to 0 (§3: "cheap subtree sharing").
func (n *Node) Clone() *Node { return &Node{g: n.g} }

// Render returns the exact source text this node spans, by concatenating
// every descendant terminal's text in order (§4.3's losslessness contract).
func (n *Node) Render() string {
	var b []byte
	renderInto(n.g, &b)
	return string(b)
}

func renderInto(g *green, b *[]byte) {
	if g.children == nil {
		*b = append(*b, g.text...)
		return
	}
	for _, c := range g.children {
		renderInto(c, b)
	}
}

// cstBuilder is a Sink that consumes the full event stream, trivia included,
// to assemble a lossless green/red tree (§4.3). It mirrors the parser's own
// scope stack: every Start event pushes a frame, every End event pops one
// and wraps its accumulated children into a green node.
//
// Event.Value is a decoded scalar for quoted scalars (escapes processed) and
// so is lossy on its own; the builder always reconstructs leaf text by
// slicing the original source at the event's span instead, which is exact
// for every token kind including heredocs.
type cstBuilder struct {
	source string
	stack  []*cstFrame

	// objectDepth counts EvObjectStart/EvObjectEnd nesting. The parser
	// always wraps the whole document in one synthetic root ObjectStart/End
	// pair (zero-width, no real '{'/'}' bytes) on top of whatever entries
	// the source actually contains, so depth 1 (the root wrapper) gets no
	// KObject frame of its own — its entries append directly into
	// KDocument — while every deeper depth is a real '{ ... }' and gets one.
	objectDepth int
}

type cstFrame struct {
	kind     Kind
	children []*green
}

// newCSTBuilder returns an empty builder over source. The DOCUMENT frame is
// pushed immediately so Tree() is well-defined even for empty input.
func newCSTBuilder(source string) *cstBuilder {
	b := &cstBuilder{source: source}
	b.push(KDocument)
	return b
}

// slice returns the exact original bytes covered by span.
func (b *cstBuilder) slice(sp Span) string { return b.source[sp.Start:sp.End] }

func (b *cstBuilder) push(k Kind) { b.stack = append(b.stack, &cstFrame{kind: k}) }

func (b *cstBuilder) append(g *green) {
	top := b.stack[len(b.stack)-1]
	top.children = append(top.children, g)
}

func (b *cstBuilder) pop(k Kind) *green {
	n := len(b.stack) - 1
	top := b.stack[n]
	b.stack = b.stack[:n]
	return greenNode(k, top.children)
}

// Tree builds and returns the red root once the full event stream (through
// DocumentEnd) has been pushed.
func (b *cstBuilder) Tree() *Node {
	if len(b.stack) != 1 {
		// Defensive: an unbalanced stream (shouldn't happen, since the
		// parser's bracketing is always well-formed per §5) still yields a
		// usable tree rather than panicking.
		for len(b.stack) > 1 {
			g := b.pop(b.stack[len(b.stack)-1].kind)
			b.append(g)
		}
	}
	return newTreeRoot(greenNode(KDocument, b.stack[0].children))
}

func (b *cstBuilder) pushLeafToken(kind Kind, text string) {
	b.append(greenToken(kind, text))
}

func (b *cstBuilder) Push(e Event) {
	switch e.Kind {
	case EvDocumentStart, EvDocumentEnd:
		// Folded into the implicit DOCUMENT frame already on the stack.
	case EvWhitespace:
		b.pushLeafToken(KTokWhitespace, e.Text)
	case EvNewline:
		b.pushLeafToken(KTokNewline, e.Text)
	case EvComma:
		b.pushLeafToken(KTokComma, e.Text)
	case EvComment:
		b.pushLeafToken(KTokLineComment, e.Text)
	case EvDocComment:
		b.pushLeafToken(KTokDocComment, e.Text)
	case EvObjectStart:
		b.objectDepth++
		if b.objectDepth > 1 {
			b.push(KObject)
			b.pushLeafToken(KTokLBrace, b.slice(e.Span))
		}
	case EvObjectEnd:
		if b.objectDepth > 1 {
			// An unclosed object's end span is zero-width: no '}' byte.
			if !e.Span.Empty() {
				b.pushLeafToken(KTokRBrace, b.slice(e.Span))
			}
			b.append(b.pop(KObject))
		}
		b.objectDepth--
	case EvSequenceStart:
		b.push(KSequence)
		b.pushLeafToken(KTokLParen, b.slice(e.Span))
	case EvSequenceEnd:
		if !e.Span.Empty() {
			b.pushLeafToken(KTokRParen, b.slice(e.Span))
		}
		b.append(b.pop(KSequence))
	case EvTagStart:
		b.push(KTag)
		b.append(greenToken(KTagName, "@"+e.TagName))
	case EvTagEnd:
		b.append(b.pop(KTag))
	case EvEntryStart:
		b.push(KEntry)
	case EvEntryEnd:
		b.append(b.pop(KEntry))
	case EvKey:
		b.push(KKey)
		b.appendScalarLikeKey(e)
		b.append(b.pop(KKey))
	case EvScalar:
		b.push(KValue)
		b.append(b.scalarLeaf(e))
		b.append(b.pop(KValue))
	case EvUnit:
		// Unit's span is real bytes ("@") when a token was actually
		// consumed (an explicit value-position '@'), and zero-width when
		// the parser synthesized an implicit unit (entries with a key but
		// no value atom, bare tag payloads). Only the former needs a leaf.
		if e.Span.Empty() {
			b.append(greenNode(KUnitNode, nil))
		} else {
			b.append(greenNode(KUnitNode, []*green{greenToken(KTokAt, b.slice(e.Span))}))
		}
	case EvError:
		// Error events carry no text of their own; the offending token(s)
		// were already (or will be) pushed through their own event.
	}
}

// appendScalarLikeKey mirrors EvScalar's leaf construction for the key
// shapes that carry literal text (scalar keys, tag keys with or without a
// payload, and unit keys); invalid keys contribute no additional leaf.
func (b *cstBuilder) appendScalarLikeKey(e Event) {
	switch e.KeyKind {
	case KeyScalar:
		b.append(b.scalarLeaf(e))
	case KeyTag:
		name := "@" + e.KeyTag
		if e.KeyHasPayload && !e.KeyPayloadUnit {
			// Grammar forbids whitespace between a tag key and its
			// payload, so the payload's bytes are exactly the tail of the
			// key's combined span past "@name".
			payloadSpan := Span{Start: e.Span.Start + len(name), End: e.Span.End}
			b.append(greenNode(KTag, []*green{
				greenToken(KTagName, name),
				b.scalarLeaf(Event{Span: payloadSpan, ScalarKind: e.ScalarKind}),
			}))
		} else if e.KeyHasPayload {
			// Explicit unit payload ('@name@'): the last byte is the '@'.
			atSpan := Span{Start: e.Span.End - 1, End: e.Span.End}
			b.append(greenNode(KTag, []*green{
				greenToken(KTagName, name),
				greenNode(KUnitNode, []*green{greenToken(KTokAt, b.slice(atSpan))}),
			}))
		} else {
			b.append(greenToken(KTagName, name))
		}
	case KeyUnit:
		// A unit key is always a real consumed '@' byte (unlike a
		// value-position Unit, a key atom is never implicit).
		b.append(greenNode(KUnitNode, []*green{greenToken(KTokAt, b.slice(e.Span))}))
	case KeyInvalid:
		// No literal text beyond what parseValueAtom already emitted for
		// the invalid-key atom itself (object/sequence/heredoc), which was
		// pushed through its own Start/End or Scalar event already.
	}
}

// scalarLeaf builds the SCALAR (or, for heredocs, HEREDOC) subtree for one
// scalar event, reconstructing leaf text by slicing the source at e.Span
// rather than trusting e.Value (lossy for quoted scalars).
func (b *cstBuilder) scalarLeaf(e Event) *green {
	if e.ScalarKind == ScalarHeredoc {
		return b.heredocLeaf(e)
	}
	var kind Kind
	switch e.ScalarKind {
	case ScalarQuoted:
		kind = KTokQuotedScalar
	case ScalarRaw:
		kind = KTokRawScalar
	default:
		kind = KTokBareScalar
	}
	return greenNode(KScalarNode, []*green{greenToken(kind, b.slice(e.Span))})
}

// heredocLeaf splits a heredoc scalar event's full span ("<<DELIM\n" +
// content + "DELIM\n") into its three constituent tokens. e.Value already
// holds the verbatim content (decodeScalarToken never decodes heredocs), so
// the opener is whatever precedes it and the terminator is whatever follows.
func (b *cstBuilder) heredocLeaf(e Event) *green {
	full := b.slice(e.Span)
	content := e.Value
	idx := indexContent(full, content)
	if idx < 0 {
		// Defensive fallback: shouldn't happen since content is a verbatim
		// substring of full by construction, but never panic on malformed
		// recovery paths.
		return greenNode(KHeredoc, []*green{greenToken(KTokHeredocContent, full)})
	}
	start := full[:idx]
	end := full[idx+len(content):]
	children := []*green{}
	if start != "" {
		children = append(children, greenToken(KTokHeredocStart, start))
	}
	children = append(children, greenToken(KTokHeredocContent, content))
	if end != "" {
		children = append(children, greenToken(KTokHeredocEnd, end))
	}
	return greenNode(KHeredoc, children)
}

// indexContent finds where content begins within full, preferring the
// position right after the opener's first newline (the well-formed case)
// and falling back to a plain search otherwise.
func indexContent(full, content string) int {
	for i := 0; i < len(full); i++ {
		if full[i] == '\n' {
			if i+1+len(content) <= len(full) && full[i+1:i+1+len(content)] == content {
				return i + 1
			}
			break
		}
	}
	for i := 0; i+len(content) <= len(full); i++ {
		if full[i:i+len(content)] == content {
			return i
		}
	}
	return -1
}

// BuildCST runs the full tokenizer+parser pipeline over source and returns
// its lossless CST root.
func BuildCST(source string) *Node {
	b := newCSTBuilder(source)
	ParseInto(source, b)
	return b.Tree()
}
