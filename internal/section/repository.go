package section

import (
	"context"

	"github.com/pkg/errors"
	"gorm.io/gorm"
)

type Repository interface {
	Create(ctx context.Context, s *Section) error
	List(ctx context.Context) ([]Section, error)
	Delete(ctx context.Context, id string) (bool, error)
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Create(ctx context.Context, s *Section) error {
	return errors.Wrap(r.db.WithContext(ctx).Create(s).Error, "create section")
}

func (r *repository) List(ctx context.Context) ([]Section, error) {
	var sections []Section
	if err := r.db.WithContext(ctx).Order("name ASC").Find(&sections).Error; err != nil {
		return nil, errors.Wrap(err, "list sections")
	}
	return sections, nil
}

func (r *repository) Delete(ctx context.Context, id string) (bool, error) {
	res := r.db.WithContext(ctx).Delete(&Section{}, "id = ?", id)
	if res.Error != nil {
		return false, errors.Wrap(res.Error, "delete section")
	}
	return res.RowsAffected > 0, nil
}
