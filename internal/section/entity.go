package section

import "time"

type Section struct {
	ID         string    `gorm:"type:varchar(36);primaryKey" json:"id"`
	Name       string    `gorm:"type:varchar(64);not null;uniqueIndex" json:"name"`
	Course     string    `gorm:"type:varchar(64)" json:"course"`
	YearLevel  string    `gorm:"type:varchar(32)" json:"yearLevel"`
	SchoolYear string    `gorm:"type:varchar(16)" json:"schoolYear"`
	CreatedAt  time.Time `gorm:"autoCreateTime" json:"createdAt"`
}

type CreateSectionDTO struct {
	Name       string `json:"name" validate:"notblank,max=64"`
	Course     string `json:"course" validate:"max=64"`
	YearLevel  string `json:"yearLevel" validate:"max=32"`
	SchoolYear string `json:"schoolYear" validate:"max=16"`
}
