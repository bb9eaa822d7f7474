package grading

import (
	"encoding/json"
	"sort"
	"strconv"
	"strings"

	"github.com/saulo-duarte/testbank-api/internal/testbank"
)

const (
	noAnswer         = "No answer provided"
	noCorrectAnswers = "No correct answers defined"
)

type outcome struct {
	correct        bool
	studentDisplay string
	correctDisplay string
}

// gradeQuestion dispatches on the answer key variant.
func gradeQuestion(q testbank.Question, raw json.RawMessage) outcome {
	switch key := q.Key.(type) {
	case testbank.MultipleKey:
		return gradeMultiple(key, raw)
	case testbank.TrueFalseKey:
		return gradeTrueFalse(key, raw)
	case testbank.IdentificationKey:
		return gradeIdentification(key, raw)
	case testbank.EnumerationKey:
		return gradeEnumeration(key, raw)
	case testbank.EssayKey:
		return gradeEssay(raw)
	}
	return outcome{studentDisplay: displayJoined(values(raw)), correctDisplay: noCorrectAnswers}
}

// choiceIndex reads a submitted choice as a zero-based index. Numbers and numeric strings
// are indices, a single letter is mapped like the key. Anything else is -1.
func choiceIndex(v string) int {
	v = strings.TrimSpace(v)
	if v == "" {
		return -1
	}
	if n, err := strconv.Atoi(v); err == nil {
		if n < 0 {
			return -1
		}
		return n
	}
	if f, err := strconv.ParseFloat(v, 64); err == nil && f == float64(int(f)) && f >= 0 {
		return int(f)
	}
	return testbank.LetterIndex(v)
}

func gradeMultiple(key testbank.MultipleKey, raw json.RawMessage) outcome {
	submitted := values(raw)
	indices := make([]int, 0, len(submitted))
	letters := make([]string, 0, len(submitted))
	for _, v := range submitted {
		idx := choiceIndex(v)
		indices = append(indices, idx)
		letters = append(letters, testbank.IndexLetter(idx))
	}

	out := outcome{
		studentDisplay: displayJoined(letters),
		correctDisplay: strings.Join(key.Letters, ", "),
	}
	if len(key.Letters) == 0 || len(indices) == 0 {
		return out
	}

	if key.Multi {
		want := key.Indices()
		sort.Ints(want)
		got := append([]int(nil), indices...)
		sort.Ints(got)
		out.correct = equalInts(want, got)
		return out
	}

	if len(indices) != 1 {
		return out
	}
	out.correct = indices[0] >= 0 && indices[0] == testbank.LetterIndex(key.Letters[0])
	return out
}

func gradeTrueFalse(key testbank.TrueFalseKey, raw json.RawMessage) outcome {
	want := strconv.FormatBool(key.Value)
	out := outcome{correctDisplay: capitalize(want)}

	submitted := values(raw)
	if len(submitted) == 0 {
		out.studentDisplay = noAnswer
		return out
	}
	out.studentDisplay = capitalize(submitted[0])
	out.correct = len(submitted) == 1 && fold(submitted[0]) == want
	return out
}

func gradeIdentification(key testbank.IdentificationKey, raw json.RawMessage) outcome {
	out := outcome{correctDisplay: strings.Join(nonEmpty(key.Answers), ", ")}

	submitted := values(raw)
	if len(submitted) == 0 || fold(submitted[0]) == "" {
		out.studentDisplay = noAnswer
		return out
	}
	out.studentDisplay = strings.TrimSpace(submitted[0])

	answer := fold(submitted[0])
	for _, a := range key.Answers {
		if fold(a) == answer {
			out.correct = true
			break
		}
	}
	return out
}

// enumerationTokens normalizes a submitted enumeration into distinct, trimmed,
// lower-cased tokens in submission order.
func enumerationTokens(raw json.RawMessage) []string {
	var parts []string
	for _, v := range values(raw) {
		if isArray(raw) {
			parts = append(parts, v)
		} else {
			parts = append(parts, splitEnumeration(v)...)
		}
	}

	seen := make(map[string]bool, len(parts))
	tokens := make([]string, 0, len(parts))
	for _, p := range parts {
		t := fold(p)
		if t == "" || seen[t] {
			continue
		}
		seen[t] = true
		tokens = append(tokens, t)
	}
	return tokens
}

// matchEnumeration walks the submitted tokens in order and lets each consume the first
// remaining correct token it equals or shares a prefix with. Matching is greedy and
// never revisits an earlier choice.
func matchEnumeration(submitted, correct []string) bool {
	if len(correct) == 0 || len(submitted) != len(correct) {
		return false
	}

	remaining := append([]string(nil), correct...)
	matched := 0
	for _, s := range submitted {
		for i, c := range remaining {
			if s == c || strings.HasPrefix(c, s) || strings.HasPrefix(s, c) {
				remaining = append(remaining[:i], remaining[i+1:]...)
				matched++
				break
			}
		}
	}
	return matched == len(correct)
}

func gradeEnumeration(key testbank.EnumerationKey, raw json.RawMessage) outcome {
	correct := key.Distinct()

	out := outcome{correctDisplay: noCorrectAnswers}
	if display := nonEmpty(key.Answers); len(display) > 0 {
		out.correctDisplay = strings.Join(display, ", ")
	}

	tokens := enumerationTokens(raw)
	if len(tokens) == 0 {
		out.studentDisplay = noAnswer
		return out
	}
	out.studentDisplay = displayJoined(submittedDisplay(raw))
	out.correct = matchEnumeration(tokens, correct)
	return out
}

func gradeEssay(raw json.RawMessage) outcome {
	return outcome{correct: true, studentDisplay: displayJoined(values(raw))}
}

func submittedDisplay(raw json.RawMessage) []string {
	if isArray(raw) {
		return values(raw)
	}
	var out []string
	for _, v := range values(raw) {
		out = append(out, splitEnumeration(v)...)
	}
	return out
}

func displayJoined(in []string) string {
	if parts := nonEmpty(in); len(parts) > 0 {
		return strings.Join(parts, ", ")
	}
	return noAnswer
}

func nonEmpty(in []string) []string {
	out := make([]string, 0, len(in))
	for _, s := range in {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}

func equalInts(a, b []int) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
