package section

import (
	"strings"
	"unicode"
)

// Normalize maps any section token to its canonical id. The mapping is total and idempotent:
//   - surrounding and inner white space is removed,
//   - letters are upper-cased,
//   - '_', en dash and em dash become '-',
//   - repeated '-' collapse into one and leading/trailing '-' are dropped.
//
// "bsit 1-a", "BSIT1_A" and " BSIT1–A " all map to "BSIT1-A".
func Normalize(token string) string {
	var b strings.Builder
	b.Grow(len(token))
	lastDash := true
	for _, r := range token {
		switch {
		case unicode.IsSpace(r):
			continue
		case r == '-' || r == '_' || r == '–' || r == '—':
			if lastDash {
				continue
			}
			b.WriteByte('-')
			lastDash = true
		default:
			b.WriteRune(unicode.ToUpper(r))
			lastDash = false
		}
	}
	return strings.TrimSuffix(b.String(), "-")
}

// StudentTokens lists the canonical ids a student's section can be addressed by:
// the bare section ("A") and the composed course-year form ("BSIT1-A").
func StudentTokens(course, yearLevel, sectionName string) []string {
	sec := Normalize(sectionName)
	if sec == "" {
		return nil
	}
	tokens := []string{sec}

	c := Normalize(course)
	y := yearDigit(yearLevel)
	if c != "" && y != "" {
		prefix := c + y
		composed := sec
		if !strings.HasPrefix(sec, prefix) {
			composed = Normalize(prefix + "-" + sec)
		}
		if composed != sec {
			tokens = append(tokens, composed)
		}
	}
	return tokens
}

// Matches reports whether any student token is in assigned.
func Matches(studentTokens, assigned []string) bool {
	set := make(map[string]bool, len(assigned))
	for _, a := range assigned {
		set[Normalize(a)] = true
	}
	for _, t := range studentTokens {
		if set[t] {
			return true
		}
	}
	return false
}

func yearDigit(yearLevel string) string {
	for _, r := range yearLevel {
		if unicode.IsDigit(r) {
			return string(r)
		}
	}
	return ""
}
