package testbank

import (
	"time"

	"gorm.io/datatypes"
)

type Test struct {
	ID               string                        `gorm:"type:varchar(36);primaryKey" json:"id"`
	Title            string                        `gorm:"type:text;not null" json:"title"`
	SubjectCode      string                        `gorm:"type:varchar(64);not null;index" json:"subjectCode"`
	Description      string                        `gorm:"type:text" json:"description"`
	TimeLimit        int                           `gorm:"not null;default:0" json:"timeLimit"`
	Deadline         *time.Time                    `json:"deadline,omitempty"`
	Access           Access                        `gorm:"type:varchar(16);not null;default:'Private';index" json:"access"`
	AssignedSections datatypes.JSONSlice[string]   `json:"assignedSections"`
	HowManyQuestions int                           `gorm:"not null" json:"howManyQuestions"`
	PassingPoints    float64                       `gorm:"not null" json:"passingPoints"`
	Prerequisites    datatypes.JSONSlice[string]   `json:"prerequisites"`
	Questions        datatypes.JSONSlice[Question] `json:"questions"`
	CreatedBy        string                        `gorm:"type:varchar(36);index" json:"createdBy"`
	CreatedAt        time.Time                     `gorm:"autoCreateTime" json:"createdAt"`
	UpdatedAt        time.Time                     `gorm:"autoUpdateTime" json:"updatedAt"`
}

func (t *Test) QuestionByID(id string) (Question, bool) {
	for _, q := range t.Questions {
		if q.ID == id {
			return q, true
		}
	}
	return Question{}, false
}

func (t *Test) IsExpired(now time.Time) bool {
	return t.Deadline != nil && now.After(*t.Deadline)
}

func (t *Test) Status(now time.Time) DeadlineStatus {
	switch {
	case t.Deadline == nil:
		return StatusNoDeadline
	case t.IsExpired(now):
		return StatusExpired
	default:
		return StatusActive
	}
}

// TimeLimitDuration is zero when the test has no time limit.
func (t *Test) TimeLimitDuration() time.Duration {
	return time.Duration(t.TimeLimit) * time.Minute
}

// Summary is the listing view of a test, without the question bank.
type Summary struct {
	ID               string         `json:"id"`
	Title            string         `json:"title"`
	SubjectCode      string         `json:"subjectCode"`
	Description      string         `json:"description,omitempty"`
	TimeLimit        int            `json:"timeLimit"`
	Deadline         *time.Time     `json:"deadline,omitempty"`
	Status           DeadlineStatus `json:"status"`
	Access           Access         `json:"access"`
	HowManyQuestions int            `json:"howManyQuestions"`
	PassingPoints    float64        `json:"passingPoints"`
	TotalQuestions   int            `json:"totalQuestions"`
}

func (t *Test) Summary(now time.Time) Summary {
	return Summary{
		ID:               t.ID,
		Title:            t.Title,
		SubjectCode:      t.SubjectCode,
		Description:      t.Description,
		TimeLimit:        t.TimeLimit,
		Deadline:         t.Deadline,
		Status:           t.Status(now),
		Access:           t.Access,
		HowManyQuestions: t.HowManyQuestions,
		PassingPoints:    t.PassingPoints,
		TotalQuestions:   len(t.Questions),
	}
}
