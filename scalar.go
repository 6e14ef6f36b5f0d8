package styx

import "strings"

// decodedScalar is the result of turning a scalar token's raw text into a
// semantic value plus any escape errors found along the way.
type decodedScalar struct {
	value       string
	escapeError bool
	errOffset   int // byte offset within raw, of the offending backslash
}

// decodeScalarToken decodes a scalar token's text according to its kind.
// Bare and heredoc-content tokens are returned verbatim; raw scalars have
// their r#"..."# delimiters stripped but no escape processing; quoted
// scalars are unescaped per the §6 escape alphabet.
func decodeScalarToken(tok Token) (value string, kind ScalarKind, escErr bool, escOffset int) {
	switch tok.Kind {
	case TokQuotedScalar:
		d := decodeQuoted(tok.Text)
		return d.value, ScalarQuoted, d.escapeError, d.errOffset
	case TokRawScalar:
		return decodeRaw(tok.Text), ScalarRaw, false, 0
	case TokHeredocContent:
		return tok.Text, ScalarHeredoc, false, 0
	default: // TokBareScalar
		return tok.Text, ScalarBare, false, 0
	}
}

// decodeQuoted strips the surrounding quotes from raw and processes the
// escape alphabet `\\ \" \n \r \t \0 \u{XXXX} \uXXXX`. Invalid escapes keep
// the backslash and character literally and are reported via escapeError;
// processing continues past them so a malformed string still decodes fully.
func decodeQuoted(raw string) decodedScalar {
	if len(raw) < 2 {
		return decodedScalar{value: raw}
	}
	inner := raw[1 : len(raw)-1]
	var b strings.Builder
	b.Grow(len(inner))
	var out decodedScalar
	for i := 0; i < len(inner); i++ {
		ch := inner[i]
		if ch != '\\' {
			b.WriteByte(ch)
			continue
		}
		start := i
		i++
		if i >= len(inner) {
			b.WriteByte('\\')
			if !out.escapeError {
				out.escapeError, out.errOffset = true, start
			}
			break
		}
		switch inner[i] {
		case '\\':
			b.WriteByte('\\')
		case '"':
			b.WriteByte('"')
		case 'n':
			b.WriteByte('\n')
		case 'r':
			b.WriteByte('\r')
		case 't':
			b.WriteByte('\t')
		case '0':
			b.WriteByte(0)
		case 'u':
			consumed, r, ok := decodeUnicodeEscape(inner[i+1:])
			if ok {
				b.WriteRune(r)
				i += consumed
				continue
			}
			b.WriteByte('\\')
			b.WriteByte('u')
			if !out.escapeError {
				out.escapeError, out.errOffset = true, start
			}
		default:
			b.WriteByte('\\')
			b.WriteByte(inner[i])
			if !out.escapeError {
				out.escapeError, out.errOffset = true, start
			}
		}
	}
	out.value = b.String()
	return out
}

// decodeUnicodeEscape parses the content following `\u`: either `{HEX+}` or
// exactly four hex digits. It returns how many extra bytes (beyond the `u`
// itself) were consumed.
func decodeUnicodeEscape(rest string) (consumed int, r rune, ok bool) {
	if strings.HasPrefix(rest, "{") {
		end := strings.IndexByte(rest, '}')
		if end <= 1 {
			return 0, 0, false
		}
		hex := rest[1:end]
		v, valid := parseHex(hex)
		if !valid {
			return 0, 0, false
		}
		return end + 1, rune(v), true
	}
	if len(rest) < 4 {
		return 0, 0, false
	}
	v, valid := parseHex(rest[:4])
	if !valid {
		return 0, 0, false
	}
	return 4, rune(v), true
}

func parseHex(s string) (uint32, bool) {
	if s == "" {
		return 0, false
	}
	var v uint32
	for _, c := range []byte(s) {
		var d uint32
		switch {
		case c >= '0' && c <= '9':
			d = uint32(c - '0')
		case c >= 'a' && c <= 'f':
			d = uint32(c-'a') + 10
		case c >= 'A' && c <= 'F':
			d = uint32(c-'A') + 10
		default:
			return 0, false
		}
		v = v<<4 | d
	}
	return v, true
}

// decodeRaw strips the r#"..."#-style delimiters, returning the literal
// content with no escape processing.
func decodeRaw(raw string) string {
	i := 1 // skip 'r'
	hashes := 0
	for i < len(raw) && raw[i] == '#' {
		i++
		hashes++
	}
	// raw[i] == '"'
	start := i + 1
	end := len(raw) - 1 - hashes
	if end < start {
		return ""
	}
	return raw[start:end]
}

// escapeForOutput renders s as the body of a quoted scalar, escaping the
// same alphabet decodeQuoted understands plus control bytes via \u{xx} so
// the writer's output round-trips (§6).
func escapeForOutput(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		switch r {
		case '\\':
			b.WriteString(`\\`)
		case '"':
			b.WriteString(`\"`)
		case '\n':
			b.WriteString(`\n`)
		case '\r':
			b.WriteString(`\r`)
		case '\t':
			b.WriteString(`\t`)
		case 0:
			b.WriteString(`\0`)
		default:
			if r < 0x20 || r == 0x7F {
				b.WriteString(escapeControlRune(r))
			} else {
				b.WriteRune(r)
			}
		}
	}
	return b.String()
}

func escapeControlRune(r rune) string {
	const hex = "0123456789abcdef"
	v := uint32(r)
	digits := []byte{hex[(v>>4)&0xF], hex[v&0xF]}
	return `\u{` + string(digits) + `}`
}
