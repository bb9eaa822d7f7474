package attempt

import (
	"time"

	"github.com/saulo-duarte/testbank-api/internal/grading"
	"gorm.io/datatypes"
)

// Attempt is the stored outcome of a submitted test. A student holds at most one
// attempt per test; a retake replaces it.
type Attempt struct {
	ID              string                                     `gorm:"type:varchar(36);primaryKey" json:"id"`
	StudentID       string                                     `gorm:"type:varchar(36);not null;uniqueIndex:idx_attempts_student_test" json:"studentId"`
	TestID          string                                     `gorm:"type:varchar(36);not null;uniqueIndex:idx_attempts_student_test;index:idx_attempts_test" json:"testId"`
	Score           float64                                    `gorm:"not null" json:"score"`
	TotalPoints     float64                                    `gorm:"not null" json:"totalPoints"`
	Passed          bool                                       `gorm:"not null;default:false" json:"passed"`
	QuestionResults datatypes.JSONSlice[grading.QuestionResult] `json:"questionResults"`
	TakenAt         time.Time                                  `gorm:"not null" json:"takenAt"`
	IsRetake        bool                                       `gorm:"not null;default:false" json:"isRetake"`
	CreatedAt       time.Time                                  `gorm:"autoCreateTime" json:"createdAt"`
	UpdatedAt       time.Time                                  `gorm:"autoUpdateTime" json:"updatedAt"`
}
