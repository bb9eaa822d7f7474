package account

import "github.com/saulo-duarte/testbank-api/internal/rbac"

type LoginDTO struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type CreateAccountDTO struct {
	Email    string    `json:"email" validate:"required,email,max=255"`
	Password string    `json:"password" validate:"required,min=8,max=72"`
	Role     rbac.Role `json:"role" validate:"required,oneof=Dean Professor Student"`
	FullName string    `json:"fullName" validate:"notblank,max=255"`

	StudentNumber string `json:"studentNumber" validate:"max=32"`
	Course        string `json:"course" validate:"required_if=Role Student,max=32"`
	YearLevel     string `json:"yearLevel" validate:"required_if=Role Student,max=32"`
	Section       string `json:"section" validate:"required_if=Role Student,max=32"`
	Campus        string `json:"campus" validate:"max=64"`

	Department  string `json:"department" validate:"max=128"`
	Designation string `json:"designation" validate:"max=128"`
}
