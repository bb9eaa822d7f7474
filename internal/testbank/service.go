package testbank

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/saulo-duarte/testbank-api/internal/apperr"
	"github.com/saulo-duarte/testbank-api/internal/auth"
	"github.com/saulo-duarte/testbank-api/internal/config"
	"github.com/saulo-duarte/testbank-api/internal/rbac"
	"github.com/saulo-duarte/testbank-api/internal/section"
	util "github.com/saulo-duarte/testbank-api/internal/utils"
	"github.com/sirupsen/logrus"
)

var (
	ErrTestNotFound        = errors.New("test not found")
	ErrUnknownPrerequisite = errors.New("prerequisite test does not exist")
	ErrNotOwner            = errors.New("only the author or a dean can access this test")
	ErrPrerequisiteCycle   = errors.New("prerequisites would form a cycle")
)

type Service interface {
	Create(ctx context.Context, dto UpsertTestDTO) (*TestResponse, error)
	Update(ctx context.Context, id string, dto UpsertTestDTO) (*TestResponse, error)
	Delete(ctx context.Context, id string) error
	Get(ctx context.Context, id string) (*TestResponse, error)
	List(ctx context.Context) ([]Summary, error)
}

type service struct {
	repo Repository
	now  func() time.Time
}

func NewService(repo Repository) Service {
	return &service{repo: repo, now: time.Now}
}

func getCaller(ctx context.Context, log logrus.FieldLogger, action string) (*auth.Claims, error) {
	claims, err := auth.GetUserClaimsFromContext(ctx)
	if err != nil {
		log.WithError(err).Warnf("Attempt to %s without authentication", action)
		return nil, apperr.ErrUnauthorized
	}
	return claims, nil
}

func canModify(claims *auth.Claims, t *Test) bool {
	return rbac.Role(claims.Role) == rbac.RoleDean || t.CreatedBy == claims.UserID
}

func (s *service) Create(ctx context.Context, dto UpsertTestDTO) (*TestResponse, error) {
	log := config.WithContext(ctx)
	claims, err := getCaller(ctx, log, "create test")
	if err != nil {
		return nil, err
	}

	t := &Test{ID: uuid.NewString(), CreatedBy: claims.UserID}
	if err := s.apply(ctx, t, dto); err != nil {
		return nil, err
	}

	if err := s.repo.Create(ctx, t); err != nil {
		log.WithError(err).Error("Failed to create test")
		return nil, err
	}

	log.WithFields(logrus.Fields{
		"test_id":   t.ID,
		"questions": len(t.Questions),
	}).Info("Test created")
	return toResponse(t), nil
}

func (s *service) Update(ctx context.Context, id string, dto UpsertTestDTO) (*TestResponse, error) {
	log := config.WithContext(ctx).WithField("test_id", id)
	claims, err := getCaller(ctx, log, "update test")
	if err != nil {
		return nil, err
	}

	t, err := s.repo.GetByID(ctx, id)
	if err != nil {
		log.WithError(err).Error("Failed to load test for update")
		return nil, err
	}
	if t == nil {
		return nil, ErrTestNotFound
	}
	if !canModify(claims, t) {
		log.Warn("Update denied for non-author")
		return nil, ErrNotOwner
	}

	if err := s.apply(ctx, t, dto); err != nil {
		return nil, err
	}
	if err := s.repo.Update(ctx, t); err != nil {
		log.WithError(err).Error("Failed to update test")
		return nil, err
	}

	log.Info("Test updated")
	return toResponse(t), nil
}

// apply copies dto onto t, normalizes it and runs every authoring check.
func (s *service) apply(ctx context.Context, t *Test, dto UpsertTestDTO) error {
	if err := apperr.Check(dto, "invalid test payload"); err != nil {
		return err
	}

	t.Title = strings.TrimSpace(dto.Title)
	t.SubjectCode = strings.TrimSpace(dto.SubjectCode)
	t.Description = dto.Description
	t.TimeLimit = dto.TimeLimit
	t.Deadline = util.ToTimePtr(dto.Deadline)
	t.Access = dto.Access
	if t.Access == "" {
		t.Access = AccessPrivate
	}
	t.HowManyQuestions = dto.HowManyQuestions
	t.PassingPoints = dto.PassingPoints
	t.AssignedSections = normalizeSections(dto.AssignedSections)
	t.Prerequisites = dedupe(dto.Prerequisites)

	t.Questions = make([]Question, len(dto.Questions))
	copy(t.Questions, dto.Questions)
	for i := range t.Questions {
		if t.Questions[i].ID == "" {
			t.Questions[i].ID = uuid.NewString()
		}
	}

	if err := Validate(t); err != nil {
		return err
	}
	return s.checkPrerequisites(ctx, t)
}

func (s *service) checkPrerequisites(ctx context.Context, t *Test) error {
	if len(t.Prerequisites) == 0 {
		return nil
	}
	found, err := s.repo.GetByIDs(ctx, t.Prerequisites)
	if err != nil {
		return err
	}
	known := make(map[string]bool, len(found))
	for _, p := range found {
		known[p.ID] = true
	}
	for _, id := range t.Prerequisites {
		if !known[id] {
			return apperr.NewValidationError(ErrUnknownPrerequisite,
				apperr.FieldError{Field: "prerequisites", Error: "unknown test " + id})
		}
	}
	return s.checkCycle(ctx, t, found)
}

// checkCycle walks the prerequisite graph breadth first from t's direct
// prerequisites and fails if it leads back to t.
func (s *service) checkCycle(ctx context.Context, t *Test, level []*Test) error {
	visited := map[string]bool{t.ID: true}
	for len(level) > 0 {
		var next []string
		for _, p := range level {
			visited[p.ID] = true
			for _, id := range p.Prerequisites {
				if id == t.ID {
					return apperr.NewValidationError(ErrPrerequisiteCycle,
						apperr.FieldError{Field: "prerequisites", Error: "test " + p.Title + " already requires this test"})
				}
				if !visited[id] {
					visited[id] = true
					next = append(next, id)
				}
			}
		}
		if len(next) == 0 {
			return nil
		}
		var err error
		if level, err = s.repo.GetByIDs(ctx, next); err != nil {
			return err
		}
	}
	return nil
}

func (s *service) Delete(ctx context.Context, id string) error {
	log := config.WithContext(ctx).WithField("test_id", id)
	claims, err := getCaller(ctx, log, "delete test")
	if err != nil {
		return err
	}

	t, err := s.repo.GetByID(ctx, id)
	if err != nil {
		log.WithError(err).Error("Failed to load test for delete")
		return err
	}
	if t == nil {
		return ErrTestNotFound
	}
	if !canModify(claims, t) {
		log.Warn("Delete denied for non-author")
		return ErrNotOwner
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		log.WithError(err).Error("Failed to delete test")
		return err
	}
	log.Info("Test deleted")
	return nil
}

// Get returns the full test, answer keys included, to its author or a dean.
func (s *service) Get(ctx context.Context, id string) (*TestResponse, error) {
	log := config.WithContext(ctx).WithField("test_id", id)
	claims, err := getCaller(ctx, log, "read test")
	if err != nil {
		return nil, err
	}

	t, err := s.repo.GetByID(ctx, id)
	if err != nil {
		log.WithError(err).Error("Failed to load test")
		return nil, err
	}
	if t == nil {
		return nil, ErrTestNotFound
	}
	if !canModify(claims, t) {
		log.Warn("Read denied for non-author")
		return nil, ErrNotOwner
	}
	return toResponse(t), nil
}

// List shows a dean every test and a professor their own.
func (s *service) List(ctx context.Context) ([]Summary, error) {
	log := config.WithContext(ctx)
	claims, err := getCaller(ctx, log, "list tests")
	if err != nil {
		return nil, err
	}

	createdBy := claims.UserID
	if rbac.Role(claims.Role) == rbac.RoleDean {
		createdBy = ""
	}

	tests, err := s.repo.List(ctx, createdBy)
	if err != nil {
		log.WithError(err).Error("Failed to list tests")
		return nil, err
	}

	now := s.now()
	out := make([]Summary, 0, len(tests))
	for _, t := range tests {
		out = append(out, t.Summary(now))
	}
	return out, nil
}

func toResponse(t *Test) *TestResponse {
	return &TestResponse{Test: t, MaxPoints: MaxPointsForHowMany(t.Questions, t.HowManyQuestions)}
}

func normalizeSections(in []string) []string {
	out := make([]string, 0, len(in))
	for _, s := range in {
		if n := section.Normalize(s); n != "" {
			out = append(out, n)
		}
	}
	return dedupe(out)
}

func dedupe(in []string) []string {
	seen := make(map[string]bool, len(in))
	out := make([]string, 0, len(in))
	for _, s := range in {
		s = strings.TrimSpace(s)
		if s == "" || seen[s] {
			continue
		}
		seen[s] = true
		out = append(out, s)
	}
	return out
}
