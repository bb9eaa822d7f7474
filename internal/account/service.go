package account

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"github.com/saulo-duarte/testbank-api/internal/apperr"
	"github.com/saulo-duarte/testbank-api/internal/auth"
	"github.com/saulo-duarte/testbank-api/internal/config"
	"github.com/saulo-duarte/testbank-api/internal/dbutil"
	"github.com/saulo-duarte/testbank-api/internal/rbac"
	"github.com/saulo-duarte/testbank-api/internal/section"
	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"
)

var (
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrAccountNotFound    = errors.New("account not found")
	ErrEmailTaken         = errors.New("an account with this email already exists")
	ErrCannotDeleteSelf   = errors.New("you cannot delete your own account")
	ErrNotStaff           = errors.New("only staff accounts can sign in with Google")
)

type Service interface {
	Authenticate(ctx context.Context, dto LoginDTO) (*Account, error)
	FindStaffByEmail(ctx context.Context, email string) (*Account, error)
	Create(ctx context.Context, dto CreateAccountDTO) (*Account, error)
	List(ctx context.Context, role rbac.Role) ([]*Account, error)
	Delete(ctx context.Context, id string) error
}

type service struct {
	repo Repository
	cost int
}

func NewService(repo Repository) Service {
	return &service{repo: repo, cost: bcrypt.DefaultCost}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func (s *service) Authenticate(ctx context.Context, dto LoginDTO) (*Account, error) {
	log := config.WithContext(ctx)
	dto.Email = normalizeEmail(dto.Email)
	if err := apperr.Check(dto, "invalid login payload"); err != nil {
		return nil, err
	}

	a, err := s.repo.GetByEmail(ctx, dto.Email)
	if err != nil {
		log.WithError(err).Error("Failed to load account for login")
		return nil, err
	}
	if a == nil || a.PasswordHash == "" {
		log.Warn("Login attempt for unknown account")
		return nil, ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(a.PasswordHash), []byte(dto.Password)); err != nil {
		log.WithField("account_id", a.ID).Warn("Login attempt with wrong password")
		return nil, ErrInvalidCredentials
	}
	return a, nil
}

// FindStaffByEmail resolves a Google identity to an existing Dean or Professor.
func (s *service) FindStaffByEmail(ctx context.Context, email string) (*Account, error) {
	a, err := s.repo.GetByEmail(ctx, normalizeEmail(email))
	if err != nil {
		return nil, err
	}
	if a == nil {
		return nil, ErrAccountNotFound
	}
	if !a.Role.IsStaff() {
		return nil, ErrNotStaff
	}
	return a, nil
}

func (s *service) Create(ctx context.Context, dto CreateAccountDTO) (*Account, error) {
	log := config.WithContext(ctx)
	dto.Email = normalizeEmail(dto.Email)
	if err := apperr.Check(dto, "invalid account payload"); err != nil {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(dto.Password), s.cost)
	if err != nil {
		log.WithError(err).Error("Failed to hash password")
		return nil, err
	}

	a := &Account{
		ID:            uuid.NewString(),
		Email:         dto.Email,
		PasswordHash:  string(hash),
		Role:          dto.Role,
		FullName:      strings.TrimSpace(dto.FullName),
		StudentNumber: strings.TrimSpace(dto.StudentNumber),
		Campus:        strings.TrimSpace(dto.Campus),
		Department:    strings.TrimSpace(dto.Department),
		Designation:   strings.TrimSpace(dto.Designation),
	}
	if a.Role == rbac.RoleStudent {
		a.Course = section.Normalize(dto.Course)
		a.YearLevel = strings.TrimSpace(dto.YearLevel)
		a.Section = section.Normalize(dto.Section)
	}

	if err := s.repo.Create(ctx, a); err != nil {
		if dbutil.IsUniqueViolation(err) {
			return nil, ErrEmailTaken
		}
		log.WithError(err).Error("Failed to create account")
		return nil, err
	}

	log.WithFields(logrus.Fields{
		"account_id": a.ID,
		"role":       a.Role,
	}).Info("Account created")
	return a, nil
}

func (s *service) List(ctx context.Context, role rbac.Role) ([]*Account, error) {
	if role != "" && !role.IsValid() {
		return nil, apperr.NewValidationError(errors.New("invalid role filter"),
			apperr.FieldError{Field: "role", Error: "role must be Dean, Professor or Student"})
	}
	accounts, err := s.repo.List(ctx, role)
	if err != nil {
		config.WithContext(ctx).WithError(err).Error("Failed to list accounts")
		return nil, err
	}
	return accounts, nil
}

func (s *service) Delete(ctx context.Context, id string) error {
	log := config.WithContext(ctx).WithField("account_id", id)

	if claims, err := auth.GetUserClaimsFromContext(ctx); err == nil && claims.UserID == id {
		return ErrCannotDeleteSelf
	}

	deleted, err := s.repo.Delete(ctx, id)
	if err != nil {
		log.WithError(err).Error("Failed to delete account")
		return err
	}
	if !deleted {
		return ErrAccountNotFound
	}
	log.Info("Account deleted")
	return nil
}
