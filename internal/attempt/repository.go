package attempt

import (
	"context"

	"github.com/pkg/errors"
	"github.com/saulo-duarte/testbank-api/internal/dbutil"
	"gorm.io/gorm"
)

type Repository interface {
	// Insert stores a first attempt. A second attempt for the same student and
	// test fails with ErrAlreadyAttempted.
	Insert(ctx context.Context, a *Attempt) error
	// Replace removes any prior attempt of the same student and test and stores a,
	// in one transaction.
	Replace(ctx context.Context, a *Attempt) error
	Get(ctx context.Context, studentID, testID string) (*Attempt, error)
	ListByTest(ctx context.Context, testID string) ([]*Attempt, error)
	ListByStudent(ctx context.Context, studentID string) ([]*Attempt, error)
	PassedTestIDs(ctx context.Context, studentID string) (map[string]bool, error)
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Insert(ctx context.Context, a *Attempt) error {
	if err := r.db.WithContext(ctx).Create(a).Error; err != nil {
		if dbutil.IsUniqueViolation(err) {
			return ErrAlreadyAttempted
		}
		return errors.Wrap(err, "insert attempt")
	}
	return nil
}

func (r *repository) Replace(ctx context.Context, a *Attempt) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("student_id = ? AND test_id = ?", a.StudentID, a.TestID).
			Delete(&Attempt{}).Error; err != nil {
			return errors.Wrap(err, "delete previous attempt")
		}
		if err := tx.Create(a).Error; err != nil {
			if dbutil.IsUniqueViolation(err) {
				return ErrAlreadyAttempted
			}
			return errors.Wrap(err, "insert retake")
		}
		return nil
	})
	return err
}

// Get returns nil, nil when the student has no attempt on the test.
func (r *repository) Get(ctx context.Context, studentID, testID string) (*Attempt, error) {
	var a Attempt
	err := r.db.WithContext(ctx).
		Where("student_id = ? AND test_id = ?", studentID, testID).
		First(&a).Error
	if err != nil {
		if dbutil.IsNotFound(err) {
			return nil, nil
		}
		return nil, errors.Wrap(err, "get attempt")
	}
	return &a, nil
}

func (r *repository) ListByTest(ctx context.Context, testID string) ([]*Attempt, error) {
	var attempts []*Attempt
	if err := r.db.WithContext(ctx).
		Where("test_id = ?", testID).
		Order("taken_at DESC").
		Find(&attempts).Error; err != nil {
		return nil, errors.Wrap(err, "list attempts by test")
	}
	return attempts, nil
}

func (r *repository) ListByStudent(ctx context.Context, studentID string) ([]*Attempt, error) {
	var attempts []*Attempt
	if err := r.db.WithContext(ctx).
		Where("student_id = ?", studentID).
		Order("taken_at DESC").
		Find(&attempts).Error; err != nil {
		return nil, errors.Wrap(err, "list attempts by student")
	}
	return attempts, nil
}

func (r *repository) PassedTestIDs(ctx context.Context, studentID string) (map[string]bool, error) {
	var ids []string
	if err := r.db.WithContext(ctx).
		Model(&Attempt{}).
		Where("student_id = ? AND passed = ?", studentID, true).
		Pluck("test_id", &ids).Error; err != nil {
		return nil, errors.Wrap(err, "list passed tests")
	}
	passed := make(map[string]bool, len(ids))
	for _, id := range ids {
		passed[id] = true
	}
	return passed, nil
}
