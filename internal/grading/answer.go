package grading

import (
	"bytes"
	"encoding/json"
	"strconv"
	"strings"
)

// values flattens a raw client answer into strings. Arrays yield one entry per element,
// scalars one entry, null or absent nothing.
func values(raw json.RawMessage) []string {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return nil
	}

	var v interface{}
	if err := json.Unmarshal(raw, &v); err != nil {
		return nil
	}
	switch t := v.(type) {
	case []interface{}:
		out := make([]string, 0, len(t))
		for _, e := range t {
			if s, ok := scalar(e); ok {
				out = append(out, s)
			}
		}
		return out
	default:
		if s, ok := scalar(t); ok {
			return []string{s}
		}
	}
	return nil
}

func scalar(v interface{}) (string, bool) {
	switch t := v.(type) {
	case string:
		return t, true
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64), true
	case bool:
		return strconv.FormatBool(t), true
	}
	return "", false
}

func isArray(raw json.RawMessage) bool {
	raw = bytes.TrimSpace(raw)
	return len(raw) > 0 && raw[0] == '['
}

func fold(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// splitEnumeration splits a free-text enumeration answer on commas, pipes and new lines.
func splitEnumeration(s string) []string {
	return strings.FieldsFunc(s, func(r rune) bool {
		return r == ',' || r == '|' || r == '\n' || r == '\r'
	})
}

func capitalize(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + strings.ToLower(s[1:])
}
