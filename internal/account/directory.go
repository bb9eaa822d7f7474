package account

import (
	"context"

	"github.com/saulo-duarte/testbank-api/internal/attempt"
)

// Directory serves student display data to attempt reports.
type Directory struct {
	repo Repository
}

func NewDirectory(repo Repository) *Directory {
	return &Directory{repo: repo}
}

func (d *Directory) Students(ctx context.Context, ids []string) (map[string]attempt.StudentInfo, error) {
	accounts, err := d.repo.GetByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	out := make(map[string]attempt.StudentInfo, len(accounts))
	for _, a := range accounts {
		out[a.ID] = attempt.StudentInfo{
			FullName:      a.FullName,
			StudentNumber: a.StudentNumber,
			Section:       a.Section,
		}
	}
	return out, nil
}
