package attempt

import (
	"context"
	"time"

	"github.com/saulo-duarte/testbank-api/internal/apperr"
	"github.com/saulo-duarte/testbank-api/internal/auth"
	"github.com/saulo-duarte/testbank-api/internal/config"
	"github.com/saulo-duarte/testbank-api/internal/rbac"
	"github.com/saulo-duarte/testbank-api/internal/testbank"
)

type StudentInfo struct {
	FullName      string
	StudentNumber string
	Section       string
}

// Directory resolves student ids to display data for reports.
type Directory interface {
	Students(ctx context.Context, ids []string) (map[string]StudentInfo, error)
}

type ReportRow struct {
	AttemptID     string    `json:"attemptId"`
	StudentID     string    `json:"studentId"`
	StudentName   string    `json:"studentName,omitempty"`
	StudentNumber string    `json:"studentNumber,omitempty"`
	Section       string    `json:"section,omitempty"`
	Score         float64   `json:"score"`
	TotalPoints   float64   `json:"totalPoints"`
	Passed        bool      `json:"passed"`
	IsRetake      bool      `json:"isRetake"`
	TakenAt       time.Time `json:"takenAt"`
}

type Report struct {
	Test         testbank.Summary `json:"test"`
	Attempts     []ReportRow      `json:"attempts"`
	PassedCount  int              `json:"passedCount"`
	AverageScore float64          `json:"averageScore"`
}

// Report lists the attempts on a test. Professors only see reports for their own tests.
func (s *service) Report(ctx context.Context, testID string) (*Report, error) {
	log := config.WithContext(ctx).WithField("test_id", testID)
	claims, err := auth.GetUserClaimsFromContext(ctx)
	if err != nil {
		return nil, apperr.ErrUnauthorized
	}

	t, err := s.loadTest(ctx, testID)
	if err != nil {
		return nil, err
	}
	if rbac.Role(claims.Role) != rbac.RoleDean && t.CreatedBy != claims.UserID {
		log.Warn("Report denied for non-author")
		return nil, testbank.ErrNotOwner
	}

	attempts, err := s.repo.ListByTest(ctx, testID)
	if err != nil {
		log.WithError(err).Error("Failed to list attempts")
		return nil, err
	}

	info := map[string]StudentInfo{}
	if s.directory != nil && len(attempts) > 0 {
		ids := make([]string, len(attempts))
		for i, a := range attempts {
			ids[i] = a.StudentID
		}
		if info, err = s.directory.Students(ctx, ids); err != nil {
			log.WithError(err).Error("Failed to resolve students for report")
			return nil, err
		}
	}

	report := &Report{Test: t.Summary(s.now()), Attempts: make([]ReportRow, 0, len(attempts))}
	var total float64
	for _, a := range attempts {
		st := info[a.StudentID]
		report.Attempts = append(report.Attempts, ReportRow{
			AttemptID:     a.ID,
			StudentID:     a.StudentID,
			StudentName:   st.FullName,
			StudentNumber: st.StudentNumber,
			Section:       st.Section,
			Score:         a.Score,
			TotalPoints:   a.TotalPoints,
			Passed:        a.Passed,
			IsRetake:      a.IsRetake,
			TakenAt:       a.TakenAt,
		})
		total += a.Score
		if a.Passed {
			report.PassedCount++
		}
	}
	if len(attempts) > 0 {
		report.AverageScore = total / float64(len(attempts))
	}
	return report, nil
}
