package styx

import "strings"

// Options controls the CST-to-text formatter (§4.3). The zero Options is
// not meaningful; use DefaultOptions for the documented defaults.
type Options struct {
	Indent                  string // default four spaces
	MaxWidth                int    // default 80
	MinInlineWidth          int    // default 30
	InlineObjectThreshold   int    // default 4 entries
	InlineSequenceThreshold int    // default 8 items
	HeredocLineThreshold    int    // default 2
	ForceMultiline          bool
	ForceInline             bool
}

// DefaultOptions returns the formatter's documented defaults.
func DefaultOptions() Options {
	return Options{
		Indent:                  "    ",
		MaxWidth:                80,
		MinInlineWidth:          30,
		InlineObjectThreshold:   4,
		InlineSequenceThreshold: 8,
		HeredocLineThreshold:    2,
	}
}

// Format parses source and reflows it to text per opts. The formatter
// preserves every comment; doc comments stick to the entry they annotate
// (§4.3). Format is idempotent over cleanly-parsing input: Format(Format(S))
// == Format(S).
func Format(source string, opts Options) string {
	return FormatTree(BuildCST(source), opts)
}

// FormatTree reflows an already-built CST, so callers that build the tree
// once (e.g. after editing it) don't re-tokenize.
func FormatTree(root *Node, opts Options) string {
	f := &formatter{opts: opts}
	entries, leading := splitEntries(root.Children())
	f.writeEntryList(entries, leading, 0, true)
	return strings.TrimRight(f.sb.String(), "\n") + "\n"
}

type formatter struct {
	opts Options
	sb   strings.Builder
}

func (f *formatter) indent(depth int) string { return strings.Repeat(f.opts.Indent, depth) }

// splitEntries partitions an OBJECT/DOCUMENT's children into its ENTRY
// nodes and the leading comment/doc-comment trivia immediately preceding
// each one (comments are siblings of ENTRY at this level; see cst.go).
func splitEntries(children []*Node) (entries []*Node, leading [][]*Node) {
	var pending []*Node
	for _, c := range children {
		switch c.Kind() {
		case KEntry:
			leading = append(leading, pending)
			pending = nil
			entries = append(entries, c)
		case KTokLineComment, KTokDocComment:
			pending = append(pending, c)
		default:
			// Whitespace/newline/comma: dropped, reflowed structurally.
		}
	}
	return entries, leading
}

// entryParts extracts an ENTRY node's key, optional value atom, and
// optional trailing line comment.
func entryParts(e *Node) (key, value, trailing *Node) {
	for _, c := range e.Children() {
		switch c.Kind() {
		case KKey:
			key = c
		case KTokWhitespace, KTokNewline:
		case KTokLineComment:
			trailing = c
		default:
			if value == nil {
				value = c
			}
		}
	}
	return key, value, trailing
}

// writeEntryList prints a sequence of entries one per line at depth,
// preceded by any leading comments, with a doc-comment-adjacent blank line
// before entries that carry one (§4.3) unless at file start.
func (f *formatter) writeEntryList(entries []*Node, leading [][]*Node, depth int, isRoot bool) {
	for i, e := range entries {
		lead := leading[i]
		hasDoc := false
		for _, c := range lead {
			if c.Kind() == KTokDocComment {
				hasDoc = true
			}
		}
		if hasDoc && (i > 0 || !isRoot) {
			f.sb.WriteString("\n")
		}
		for _, c := range lead {
			f.sb.WriteString(f.indent(depth))
			f.sb.WriteString(strings.TrimRight(c.Render(), " \t"))
			f.sb.WriteString("\n")
		}
		f.writeEntry(e, depth)
		if isRoot && f.isSchemaDeclaration(e) {
			f.sb.WriteString("\n")
		}
	}
}

// isSchemaDeclaration reports whether e is a root-level unit-key entry
// whose value is present (the "schema { ... }" declaration shape); a blank
// line follows it per §4.3.
func (f *formatter) isSchemaDeclaration(e *Node) bool {
	key, value, _ := entryParts(e)
	if key == nil || value == nil {
		return false
	}
	// An entry with no value atom still carries an empty UNIT node.
	if value.Kind() == KUnitNode && len(value.Children()) == 0 {
		return false
	}
	kids := key.Children()
	return len(kids) == 1 && kids[0].Kind() == KUnitNode
}

func (f *formatter) writeEntry(e *Node, depth int) {
	key, value, trailing := entryParts(e)
	f.sb.WriteString(f.indent(depth))
	if key != nil {
		f.sb.WriteString(f.renderAtomChildren(key, depth))
	}
	if value != nil {
		f.sb.WriteString(" ")
		f.sb.WriteString(f.renderValue(value, depth))
	}
	if trailing != nil {
		f.sb.WriteString("  ")
		f.sb.WriteString(strings.TrimRight(trailing.Render(), " \t"))
	}
	f.sb.WriteString("\n")
}

// renderAtomChildren renders a wrapper node (KEY or VALUE) by rendering its
// single non-trivia child atom.
func (f *formatter) renderAtomChildren(wrapper *Node, depth int) string {
	for _, c := range wrapper.Children() {
		switch c.Kind() {
		case KTokWhitespace, KTokNewline:
			continue
		default:
			return f.renderValue(c, depth)
		}
	}
	return ""
}

// renderValue renders any value-position atom: a scalar, unit, tag,
// object, sequence, or heredoc, recursing into containers for reflow.
func (f *formatter) renderValue(n *Node, depth int) string {
	switch n.Kind() {
	case KValue, KKey:
		return f.renderAtomChildren(n, depth)
	case KScalarNode, KUnitNode, KHeredoc:
		return n.Render()
	case KTagName:
		return n.Render()
	case KTag:
		return f.renderTag(n, depth)
	case KObject:
		return f.renderObject(n, depth)
	case KSequence:
		return f.renderSequence(n, depth)
	default:
		return n.Render()
	}
}

func (f *formatter) renderTag(n *Node, depth int) string {
	kids := n.Children()
	var b strings.Builder
	if len(kids) > 0 {
		b.WriteString(kids[0].Render()) // TAG_NAME
	}
	if len(kids) > 1 {
		b.WriteString(f.renderValue(kids[1], depth))
	}
	return b.String()
}

func (f *formatter) renderObject(n *Node, depth int) string {
	children := n.Children()
	entries, leading := splitEntries(children)
	hasComments := false
	for _, l := range leading {
		if len(l) > 0 {
			hasComments = true
		}
	}
	for _, e := range entries {
		if _, _, trailing := entryParts(e); trailing != nil {
			hasComments = true
		}
	}
	if f.canInline(entries, hasComments) {
		return f.renderObjectInline(entries)
	}
	var b strings.Builder
	b.WriteString("{\n")
	inner := &formatter{opts: f.opts}
	inner.writeEntryList(entries, leading, depth+1, false)
	b.WriteString(inner.sb.String())
	b.WriteString(f.indent(depth))
	b.WriteString("}")
	return b.String()
}

func (f *formatter) canInline(entries []*Node, hasComments bool) bool {
	if f.opts.ForceMultiline || hasComments {
		return false
	}
	if f.opts.ForceInline {
		return true
	}
	if len(entries) == 0 {
		return true
	}
	return len(entries) <= f.opts.InlineObjectThreshold
}

func (f *formatter) renderObjectInline(entries []*Node) string {
	parts := make([]string, len(entries))
	for i, e := range entries {
		key, value, _ := entryParts(e)
		s := ""
		if key != nil {
			s = f.renderAtomChildren(key, 0)
		}
		if value != nil {
			s += " " + f.renderValue(value, 0)
		}
		parts[i] = s
	}
	if len(parts) == 0 {
		return "{}"
	}
	return "{ " + strings.Join(parts, ", ") + " }"
}

func (f *formatter) renderSequence(n *Node, depth int) string {
	var items []*Node
	for _, c := range n.Children() {
		switch c.Kind() {
		case KTokWhitespace, KTokNewline, KTokComma, KTokLParen, KTokRParen:
		default:
			items = append(items, c)
		}
	}
	if f.canInlineSeq(items) {
		parts := make([]string, len(items))
		for i, it := range items {
			parts[i] = f.renderValue(it, depth)
		}
		if len(parts) == 0 {
			return "()"
		}
		return "(" + strings.Join(parts, ", ") + ")"
	}
	var b strings.Builder
	b.WriteString("(\n")
	for _, it := range items {
		b.WriteString(f.indent(depth + 1))
		b.WriteString(f.renderValue(it, depth+1))
		b.WriteString("\n")
	}
	b.WriteString(f.indent(depth))
	b.WriteString(")")
	return b.String()
}

func (f *formatter) canInlineSeq(items []*Node) bool {
	if f.opts.ForceMultiline {
		return false
	}
	if f.opts.ForceInline {
		return true
	}
	return len(items) <= f.opts.InlineSequenceThreshold
}
