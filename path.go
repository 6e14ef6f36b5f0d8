package styx

import "strings"

// Path is a dotted sequence of canonical keys locating a nested value,
// exposed to downstream tools per §4.2's path-nesting invariant and used
// internally for the ReopenedPath/NestIntoTerminal taxonomy.
type Path []string

// String renders the path as a dotted string, quoting segments that
// contain a '.' or a space so the string round-trips through ParsePath.
func (p Path) String() string {
	parts := make([]string, len(p))
	for i, seg := range p {
		if strings.ContainsAny(seg, ". ") {
			parts[i] = `"` + strings.ReplaceAll(seg, `"`, `\"`) + `"`
		} else {
			parts[i] = seg
		}
	}
	return strings.Join(parts, ".")
}

// ParsePath splits a dotted path string into segments, honoring quoted
// segments that may themselves contain '.'.
func ParsePath(s string) Path {
	var segs []string
	i := 0
	for i < len(s) {
		if s[i] == '"' {
			j := i + 1
			var b strings.Builder
			for j < len(s) && s[j] != '"' {
				if s[j] == '\\' && j+1 < len(s) {
					b.WriteByte(s[j+1])
					j += 2
					continue
				}
				b.WriteByte(s[j])
				j++
			}
			segs = append(segs, b.String())
			i = j + 1
			if i < len(s) && s[i] == '.' {
				i++
			}
			continue
		}
		j := strings.IndexByte(s[i:], '.')
		if j < 0 {
			segs = append(segs, s[i:])
			break
		}
		segs = append(segs, s[i:i+j])
		i += j + 1
	}
	return segs
}

// damerauLevenshtein computes the edit distance between a and b, counting
// single-character insertions, deletions, substitutions, and transpositions
// as one edit each.
func damerauLevenshtein(a, b string) int {
	ra, rb := []rune(a), []rune(b)
	la, lb := len(ra), len(rb)
	if la == 0 {
		return lb
	}
	if lb == 0 {
		return la
	}

	d := make([][]int, la+1)
	for i := range d {
		d[i] = make([]int, lb+1)
		d[i][0] = i
	}
	for j := 0; j <= lb; j++ {
		d[0][j] = j
	}

	for i := 1; i <= la; i++ {
		for j := 1; j <= lb; j++ {
			cost := 1
			if ra[i-1] == rb[j-1] {
				cost = 0
			}
			del := d[i-1][j] + 1
			ins := d[i][j-1] + 1
			sub := d[i-1][j-1] + cost
			best := del
			if ins < best {
				best = ins
			}
			if sub < best {
				best = sub
			}
			if i > 1 && j > 1 && ra[i-1] == rb[j-2] && ra[i-2] == rb[j-1] {
				if t := d[i-2][j-2] + 1; t < best {
					best = t
				}
			}
			d[i][j] = best
		}
	}
	return d[la][lb]
}

// suggestField finds the closest name to field among candidates by
// Damerau-Levenshtein distance, within a ceiling of max(2, len/3) edits
// (§4.4). It returns "" if nothing qualifies.
func suggestField(field string, candidates []string) string {
	if len(candidates) == 0 {
		return ""
	}
	ceiling := len(field) / 3
	if ceiling < 2 {
		ceiling = 2
	}
	best := ""
	bestDist := ceiling + 1
	for _, c := range candidates {
		dist := damerauLevenshtein(field, c)
		if dist < bestDist {
			bestDist = dist
			best = c
		}
	}
	if bestDist > ceiling {
		return ""
	}
	return best
}
