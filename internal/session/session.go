package session

import (
	"context"
	"errors"
	"time"
)

var ErrNotFound = errors.New("session not found")

// TestInProgress binds an attempt to the exact questions the student was shown.
type TestInProgress struct {
	TestID              string    `json:"testId"`
	OriginalQuestionIDs []string  `json:"originalQuestionIds"`
	ShownQuestionIDs    []string  `json:"shownQuestionIds"`
	StartedAt           time.Time `json:"startedAt"`
	Retake              bool      `json:"retake"`
}

type Session struct {
	ID          string          `json:"id"`
	AccountID   string          `json:"accountId"`
	Role        string          `json:"role"`
	Email       string          `json:"email"`
	FullName    string          `json:"fullName"`
	Course      string          `json:"course,omitempty"`
	YearLevel   string          `json:"yearLevel,omitempty"`
	Section     string          `json:"section,omitempty"`
	CreatedAt   time.Time       `json:"createdAt"`
	CurrentTest *TestInProgress `json:"currentTest,omitempty"`
}

type Store interface {
	Get(ctx context.Context, id string) (*Session, error)
	Save(ctx context.Context, s *Session, ttl time.Duration) error
	// Refresh resets the expiry of a stored session without rewriting it.
	Refresh(ctx context.Context, id string, ttl time.Duration) error
	Delete(ctx context.Context, id string) error
}
