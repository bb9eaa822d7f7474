package testbank

type QuestionType string

const (
	TypeMultiple       QuestionType = "multiple"
	TypeTrueFalse      QuestionType = "truefalse"
	TypeIdentification QuestionType = "identification"
	TypeEnumeration    QuestionType = "enumeration"
	TypeEssay          QuestionType = "essay"
)

var AllQuestionTypes = []QuestionType{
	TypeMultiple,
	TypeTrueFalse,
	TypeIdentification,
	TypeEnumeration,
	TypeEssay,
}

func (t QuestionType) IsValid() bool {
	for _, v := range AllQuestionTypes {
		if t == v {
			return true
		}
	}
	return false
}

type Access string

const (
	AccessPublic  Access = "Public"
	AccessPrivate Access = "Private"
)

func (a Access) IsValid() bool {
	return a == AccessPublic || a == AccessPrivate
}

type DeadlineStatus string

const (
	StatusActive     DeadlineStatus = "active"
	StatusExpired    DeadlineStatus = "expired"
	StatusNoDeadline DeadlineStatus = "no-deadline"
)
