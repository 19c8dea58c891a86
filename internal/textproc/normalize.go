package textproc

import "strings"

// Normalize lowercases text and splits it into ASCII alphanumeric tokens.
// Every maximal run of other characters acts as a single separator.
func Normalize(text string) []string {
	if text == "" {
		return nil
	}
	var b strings.Builder
	b.Grow(len(text))
	for i := 0; i < len(text); i++ {
		c := text[i]
		switch {
		case c >= 'a' && c <= 'z', c >= '0' && c <= '9':
			b.WriteByte(c)
		case c >= 'A' && c <= 'Z':
			b.WriteByte(c + ('a' - 'A'))
		default:
			b.WriteByte(' ')
		}
	}
	return strings.Fields(b.String())
}

// NormalizeString returns the normalized tokens joined by single spaces.
func NormalizeString(text string) string {
	return strings.Join(Normalize(text), " ")
}

// MissingTerms returns the source tokens absent from the candidate, in source
// order and without repeats.
func MissingTerms(source, candidate []string) []string {
	present := make(map[string]struct{}, len(candidate))
	for _, t := range candidate {
		present[t] = struct{}{}
	}
	seen := make(map[string]struct{})
	var out []string
	for _, t := range source {
		if _, ok := present[t]; ok {
			continue
		}
		if _, ok := seen[t]; ok {
			continue
		}
		seen[t] = struct{}{}
		out = append(out, t)
	}
	return out
}

// Truncate caps s at maxRunes runes. A non-positive limit disables the cap.
func Truncate(s string, maxRunes int) string {
	if maxRunes <= 0 || len(s) <= maxRunes {
		return s
	}
	n := 0
	for i := range s {
		if n == maxRunes {
			return s[:i]
		}
		n++
	}
	return s
}
