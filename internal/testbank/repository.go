package testbank

import (
	"context"
	"strings"

	"github.com/pkg/errors"
	"github.com/saulo-duarte/testbank-api/internal/dbutil"
	"gorm.io/gorm"
)

type Repository interface {
	Create(ctx context.Context, t *Test) error
	Update(ctx context.Context, t *Test) error
	Delete(ctx context.Context, id string) error
	GetByID(ctx context.Context, id string) (*Test, error)
	GetByIDs(ctx context.Context, ids []string) ([]*Test, error)
	List(ctx context.Context, createdBy string) ([]*Test, error)
	ListByAccess(ctx context.Context, access Access) ([]*Test, error)
	Search(ctx context.Context, access Access, query string) ([]*Test, error)
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Create(ctx context.Context, t *Test) error {
	return errors.Wrap(r.db.WithContext(ctx).Create(t).Error, "create test")
}

func (r *repository) Update(ctx context.Context, t *Test) error {
	return errors.Wrap(r.db.WithContext(ctx).Save(t).Error, "update test")
}

func (r *repository) Delete(ctx context.Context, id string) error {
	return errors.Wrap(r.db.WithContext(ctx).Delete(&Test{}, "id = ?", id).Error, "delete test")
}

// GetByID returns nil, nil when the test does not exist.
func (r *repository) GetByID(ctx context.Context, id string) (*Test, error) {
	var t Test
	if err := r.db.WithContext(ctx).First(&t, "id = ?", id).Error; err != nil {
		if dbutil.IsNotFound(err) {
			return nil, nil
		}
		return nil, errors.Wrap(err, "get test")
	}
	return &t, nil
}

func (r *repository) GetByIDs(ctx context.Context, ids []string) ([]*Test, error) {
	var tests []*Test
	if len(ids) == 0 {
		return tests, nil
	}
	if err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&tests).Error; err != nil {
		return nil, errors.Wrap(err, "get tests by ids")
	}
	return tests, nil
}

// List returns every test, or only those authored by createdBy when it is set.
func (r *repository) List(ctx context.Context, createdBy string) ([]*Test, error) {
	var tests []*Test
	q := r.db.WithContext(ctx).Order("created_at DESC")
	if createdBy != "" {
		q = q.Where("created_by = ?", createdBy)
	}
	if err := q.Find(&tests).Error; err != nil {
		return nil, errors.Wrap(err, "list tests")
	}
	return tests, nil
}

func (r *repository) ListByAccess(ctx context.Context, access Access) ([]*Test, error) {
	var tests []*Test
	if err := r.db.WithContext(ctx).
		Where("access = ?", access).
		Order("created_at DESC").
		Find(&tests).Error; err != nil {
		return nil, errors.Wrap(err, "list tests by access")
	}
	return tests, nil
}

func (r *repository) Search(ctx context.Context, access Access, query string) ([]*Test, error) {
	var tests []*Test
	like := "%" + strings.ToLower(strings.TrimSpace(query)) + "%"
	if err := r.db.WithContext(ctx).
		Where("access = ?", access).
		Where("LOWER(title) LIKE ? OR LOWER(subject_code) LIKE ? OR LOWER(description) LIKE ?", like, like, like).
		Order("title ASC").
		Find(&tests).Error; err != nil {
		return nil, errors.Wrap(err, "search tests")
	}
	return tests, nil
}
