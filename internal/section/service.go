package section

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"github.com/saulo-duarte/testbank-api/internal/apperr"
	"github.com/saulo-duarte/testbank-api/internal/config"
	"github.com/saulo-duarte/testbank-api/internal/dbutil"
)

var (
	ErrSectionNotFound = errors.New("section not found")
	ErrSectionExists   = errors.New("section already exists")
)

type Service interface {
	Create(ctx context.Context, dto CreateSectionDTO) (*Section, error)
	List(ctx context.Context) ([]Section, error)
	Delete(ctx context.Context, id string) error
}

type service struct {
	repo Repository
}

func NewService(repo Repository) Service {
	return &service{repo: repo}
}

func (s *service) Create(ctx context.Context, dto CreateSectionDTO) (*Section, error) {
	log := config.WithContext(ctx)

	if err := apperr.Check(dto, "invalid section"); err != nil {
		return nil, err
	}

	sec := &Section{
		ID:         uuid.NewString(),
		Name:       Normalize(dto.Name),
		Course:     strings.TrimSpace(dto.Course),
		YearLevel:  strings.TrimSpace(dto.YearLevel),
		SchoolYear: strings.TrimSpace(dto.SchoolYear),
	}
	if err := s.repo.Create(ctx, sec); err != nil {
		if dbutil.IsUniqueViolation(err) {
			return nil, ErrSectionExists
		}
		log.WithError(err).Error("Failed to create section")
		return nil, err
	}

	log.WithField("section", sec.Name).Info("Section created")
	return sec, nil
}

func (s *service) List(ctx context.Context) ([]Section, error) {
	sections, err := s.repo.List(ctx)
	if err != nil {
		config.WithContext(ctx).WithError(err).Error("Failed to list sections")
		return nil, err
	}
	return sections, nil
}

func (s *service) Delete(ctx context.Context, id string) error {
	deleted, err := s.repo.Delete(ctx, id)
	if err != nil {
		config.WithContext(ctx).WithError(err).Error("Failed to delete section")
		return err
	}
	if !deleted {
		return ErrSectionNotFound
	}
	return nil
}
