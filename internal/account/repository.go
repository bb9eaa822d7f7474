package account

import (
	"context"

	"github.com/pkg/errors"
	"github.com/saulo-duarte/testbank-api/internal/dbutil"
	"github.com/saulo-duarte/testbank-api/internal/rbac"
	"gorm.io/gorm"
)

type Repository interface {
	Create(ctx context.Context, a *Account) error
	GetByID(ctx context.Context, id string) (*Account, error)
	GetByEmail(ctx context.Context, email string) (*Account, error)
	GetByIDs(ctx context.Context, ids []string) ([]*Account, error)
	List(ctx context.Context, role rbac.Role) ([]*Account, error)
	Delete(ctx context.Context, id string) (bool, error)
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Create(ctx context.Context, a *Account) error {
	return errors.Wrap(r.db.WithContext(ctx).Create(a).Error, "create account")
}

func (r *repository) first(ctx context.Context, query string, arg interface{}) (*Account, error) {
	var a Account
	if err := r.db.WithContext(ctx).Where(query, arg).First(&a).Error; err != nil {
		if dbutil.IsNotFound(err) {
			return nil, nil
		}
		return nil, errors.Wrap(err, "get account")
	}
	return &a, nil
}

func (r *repository) GetByID(ctx context.Context, id string) (*Account, error) {
	return r.first(ctx, "id = ?", id)
}

func (r *repository) GetByEmail(ctx context.Context, email string) (*Account, error) {
	return r.first(ctx, "email = ?", email)
}

func (r *repository) GetByIDs(ctx context.Context, ids []string) ([]*Account, error) {
	var accounts []*Account
	if len(ids) == 0 {
		return accounts, nil
	}
	if err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&accounts).Error; err != nil {
		return nil, errors.Wrap(err, "get accounts by ids")
	}
	return accounts, nil
}

// List returns every account, or only those of role when it is set.
func (r *repository) List(ctx context.Context, role rbac.Role) ([]*Account, error) {
	var accounts []*Account
	q := r.db.WithContext(ctx).Order("full_name ASC")
	if role != "" {
		q = q.Where("role = ?", role)
	}
	if err := q.Find(&accounts).Error; err != nil {
		return nil, errors.Wrap(err, "list accounts")
	}
	return accounts, nil
}

func (r *repository) Delete(ctx context.Context, id string) (bool, error) {
	res := r.db.WithContext(ctx).Delete(&Account{}, "id = ?", id)
	if res.Error != nil {
		return false, errors.Wrap(res.Error, "delete account")
	}
	return res.RowsAffected > 0, nil
}
