package account

import (
	"time"

	"github.com/saulo-duarte/testbank-api/internal/rbac"
	"github.com/saulo-duarte/testbank-api/internal/session"
)

type Account struct {
	ID           string    `gorm:"type:varchar(36);primaryKey" json:"id"`
	Email        string    `gorm:"type:varchar(255);uniqueIndex;not null" json:"email"`
	PasswordHash string    `gorm:"type:varchar(255)" json:"-"`
	Role         rbac.Role `gorm:"type:varchar(16);not null;index" json:"role"`
	FullName     string    `gorm:"type:varchar(255);not null" json:"fullName"`

	StudentNumber string `gorm:"type:varchar(32)" json:"studentNumber,omitempty"`
	Course        string `gorm:"type:varchar(32)" json:"course,omitempty"`
	YearLevel     string `gorm:"type:varchar(32)" json:"yearLevel,omitempty"`
	Section       string `gorm:"type:varchar(32)" json:"section,omitempty"`
	Campus        string `gorm:"type:varchar(64)" json:"campus,omitempty"`

	Department  string `gorm:"type:varchar(128)" json:"department,omitempty"`
	Designation string `gorm:"type:varchar(128)" json:"designation,omitempty"`

	CreatedAt time.Time `gorm:"autoCreateTime" json:"createdAt"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updatedAt"`
}

// Identity is the session payload for a signed-in account.
func (a *Account) Identity() session.Session {
	return session.Session{
		AccountID: a.ID,
		Role:      string(a.Role),
		Email:     a.Email,
		FullName:  a.FullName,
		Course:    a.Course,
		YearLevel: a.YearLevel,
		Section:   a.Section,
	}
}
