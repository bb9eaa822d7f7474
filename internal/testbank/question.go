package testbank

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
)

type Feedback struct {
	Text       string `json:"text,omitempty"`
	Attachment string `json:"attachment,omitempty"`
}

// AnswerKey is the per-type correct answer. Exactly one concrete key exists per QuestionType.
type AnswerKey interface {
	QuestionType() QuestionType
}

// MultipleKey holds choice letters. Multi is set when the key was authored as a list,
// which switches grading to set comparison.
type MultipleKey struct {
	Letters []string
	Multi   bool
}

type TrueFalseKey struct {
	Value bool
}

type IdentificationKey struct {
	Answers []string
}

type EnumerationKey struct {
	Answers []string
}

// Distinct returns the answers trimmed and lower-cased, blanks and repeats dropped.
func (k EnumerationKey) Distinct() []string {
	seen := make(map[string]bool, len(k.Answers))
	out := make([]string, 0, len(k.Answers))
	for _, a := range k.Answers {
		a = strings.ToLower(strings.TrimSpace(a))
		if a == "" || seen[a] {
			continue
		}
		seen[a] = true
		out = append(out, a)
	}
	return out
}

type EssayKey struct{}

func (MultipleKey) QuestionType() QuestionType       { return TypeMultiple }
func (TrueFalseKey) QuestionType() QuestionType      { return TypeTrueFalse }
func (IdentificationKey) QuestionType() QuestionType { return TypeIdentification }
func (EnumerationKey) QuestionType() QuestionType    { return TypeEnumeration }
func (EssayKey) QuestionType() QuestionType          { return TypeEssay }

// Indices maps letters to zero-based choice indices ('A' -> 0).
func (k MultipleKey) Indices() []int {
	out := make([]int, 0, len(k.Letters))
	for _, l := range k.Letters {
		out = append(out, LetterIndex(l))
	}
	return out
}

// LetterIndex returns the zero-based index of a choice letter, or -1.
func LetterIndex(letter string) int {
	l := strings.ToUpper(strings.TrimSpace(letter))
	if len(l) != 1 || l[0] < 'A' || l[0] > 'Z' {
		return -1
	}
	return int(l[0] - 'A')
}

func IndexLetter(i int) string {
	if i < 0 || i > 25 {
		return "?"
	}
	return string(rune('A' + i))
}

type Question struct {
	ID                    string
	Text                  string
	Type                  QuestionType
	Points                float64
	Choices               []string
	Key                   AnswerKey
	FeedbackWhenCorrect   *Feedback
	FeedbackWhenIncorrect *Feedback
}

type questionJSON struct {
	ID                    string          `json:"id"`
	Text                  string          `json:"text"`
	Type                  QuestionType    `json:"type"`
	Points                float64         `json:"points"`
	Choices               []string        `json:"choices,omitempty"`
	CorrectAnswer         json.RawMessage `json:"correctAnswer,omitempty"`
	Answers               []string        `json:"answers,omitempty"`
	FeedbackWhenCorrect   *Feedback       `json:"feedbackWhenCorrect,omitempty"`
	FeedbackWhenIncorrect *Feedback       `json:"feedbackWhenIncorrect,omitempty"`
}

func (q Question) MarshalJSON() ([]byte, error) {
	out := questionJSON{
		ID:                    q.ID,
		Text:                  q.Text,
		Type:                  q.Type,
		Points:                q.Points,
		Choices:               q.Choices,
		FeedbackWhenCorrect:   q.FeedbackWhenCorrect,
		FeedbackWhenIncorrect: q.FeedbackWhenIncorrect,
	}

	var err error
	switch key := q.Key.(type) {
	case MultipleKey:
		if key.Multi {
			out.CorrectAnswer, err = json.Marshal(key.Letters)
		} else if len(key.Letters) > 0 {
			out.CorrectAnswer, err = json.Marshal(key.Letters[0])
		}
	case TrueFalseKey:
		out.CorrectAnswer, err = json.Marshal(fmt.Sprintf("%t", key.Value))
	case IdentificationKey:
		out.Answers = key.Answers
	case EnumerationKey:
		out.Answers = key.Answers
	}
	if err != nil {
		return nil, err
	}
	return json.Marshal(out)
}

func (q *Question) UnmarshalJSON(b []byte) error {
	var in questionJSON
	if err := json.Unmarshal(b, &in); err != nil {
		return err
	}

	key, err := decodeKey(in)
	if err != nil {
		return err
	}

	*q = Question{
		ID:                    in.ID,
		Text:                  in.Text,
		Type:                  in.Type,
		Points:                in.Points,
		Choices:               in.Choices,
		Key:                   key,
		FeedbackWhenCorrect:   in.FeedbackWhenCorrect,
		FeedbackWhenIncorrect: in.FeedbackWhenIncorrect,
	}
	return nil
}

func decodeKey(in questionJSON) (AnswerKey, error) {
	raw := bytes.TrimSpace(in.CorrectAnswer)
	empty := len(raw) == 0 || bytes.Equal(raw, []byte("null"))

	switch in.Type {
	case TypeMultiple:
		if empty {
			return MultipleKey{}, nil
		}
		if raw[0] == '[' {
			var letters []string
			if err := json.Unmarshal(raw, &letters); err != nil {
				return nil, fmt.Errorf("question %q: correctAnswer must be a letter or a list of letters", in.ID)
			}
			for i := range letters {
				letters[i] = strings.ToUpper(strings.TrimSpace(letters[i]))
			}
			return MultipleKey{Letters: letters, Multi: true}, nil
		}
		var letter string
		if err := json.Unmarshal(raw, &letter); err != nil {
			return nil, fmt.Errorf("question %q: correctAnswer must be a letter or a list of letters", in.ID)
		}
		return MultipleKey{Letters: []string{strings.ToUpper(strings.TrimSpace(letter))}}, nil

	case TypeTrueFalse:
		if empty {
			return nil, fmt.Errorf("question %q: truefalse requires correctAnswer", in.ID)
		}
		var v interface{}
		if err := json.Unmarshal(raw, &v); err != nil {
			return nil, err
		}
		switch t := v.(type) {
		case bool:
			return TrueFalseKey{Value: t}, nil
		case string:
			switch strings.ToLower(strings.TrimSpace(t)) {
			case "true":
				return TrueFalseKey{Value: true}, nil
			case "false":
				return TrueFalseKey{Value: false}, nil
			}
		}
		return nil, fmt.Errorf("question %q: truefalse correctAnswer must be \"true\" or \"false\"", in.ID)

	case TypeIdentification:
		return IdentificationKey{Answers: in.Answers}, nil
	case TypeEnumeration:
		return EnumerationKey{Answers: in.Answers}, nil
	case TypeEssay:
		return EssayKey{}, nil
	}
	return nil, fmt.Errorf("question %q: unknown type %q", in.ID, in.Type)
}

// Validate checks the authoring rules of a single question.
func (q Question) Validate() error {
	if strings.TrimSpace(q.Text) == "" {
		return fmt.Errorf("question text is required")
	}
	if q.Points < 0 {
		return fmt.Errorf("points cannot be negative")
	}
	if q.Key == nil || q.Key.QuestionType() != q.Type {
		return fmt.Errorf("answer key does not match type %q", q.Type)
	}

	switch key := q.Key.(type) {
	case MultipleKey:
		if len(q.Choices) < 2 {
			return fmt.Errorf("multiple choice needs at least two choices")
		}
		if len(key.Letters) == 0 {
			return fmt.Errorf("multiple choice needs a correct answer")
		}
		seen := map[int]bool{}
		for _, idx := range key.Indices() {
			if idx < 0 || idx >= len(q.Choices) {
				return fmt.Errorf("correct answer must be a choice letter between A and %s", IndexLetter(len(q.Choices)-1))
			}
			if seen[idx] {
				return fmt.Errorf("correct answer repeats choice %s", IndexLetter(idx))
			}
			seen[idx] = true
		}
	case IdentificationKey:
		if len(nonBlank(key.Answers)) == 0 {
			return fmt.Errorf("identification needs at least one accepted answer")
		}
	case EnumerationKey:
		distinct := key.Distinct()
		if len(distinct) == 0 {
			return fmt.Errorf("enumeration needs at least one answer")
		}
		if len(distinct) != len(nonBlank(key.Answers)) {
			return fmt.Errorf("enumeration answers must not repeat")
		}
	}
	return nil
}

// PublicQuestion is what a student sees while taking a test.
type PublicQuestion struct {
	ID      string       `json:"id"`
	Text    string       `json:"text"`
	Type    QuestionType `json:"type"`
	Points  float64      `json:"points"`
	Choices []string     `json:"choices,omitempty"`
	// Expected is the number of items an enumeration asks for.
	Expected int `json:"expected,omitempty"`
}

func (q Question) Public() PublicQuestion {
	p := PublicQuestion{ID: q.ID, Text: q.Text, Type: q.Type, Points: q.Points, Choices: q.Choices}
	if key, ok := q.Key.(EnumerationKey); ok {
		p.Expected = len(key.Distinct())
	}
	return p
}

func nonBlank(in []string) []string {
	out := make([]string, 0, len(in))
	for _, s := range in {
		if strings.TrimSpace(s) != "" {
			out = append(out, s)
		}
	}
	return out
}
