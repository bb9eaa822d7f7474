package testbank

import (
	util "github.com/saulo-duarte/testbank-api/internal/utils"
)

type UpsertTestDTO struct {
	Title            string              `json:"title" validate:"notblank,max=200"`
	SubjectCode      string              `json:"subjectCode" validate:"notblank,max=64"`
	Description      string              `json:"description" validate:"max=5000"`
	TimeLimit        int                 `json:"timeLimit" validate:"gte=0"`
	Deadline         *util.LocalDateTime `json:"deadline"`
	Access           Access              `json:"access" validate:"omitempty,oneof=Public Private"`
	AssignedSections []string            `json:"assignedSections" validate:"dive,notblank"`
	HowManyQuestions int                 `json:"howManyQuestions"`
	PassingPoints    float64             `json:"passingPoints"`
	Prerequisites    []string            `json:"prerequisites" validate:"dive,notblank"`
	Questions        []Question          `json:"questions"`
}

type TestResponse struct {
	*Test
	MaxPoints float64 `json:"maxPoints"`
}
