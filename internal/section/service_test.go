package section_test

import (
	"context"
	"testing"

	"github.com/saulo-duarte/testbank-api/internal/apperr"
	"github.com/saulo-duarte/testbank-api/internal/section"
	"github.com/saulo-duarte/testbank-api/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSectionService(t *testing.T) {
	svc := section.NewService(section.NewRepository(testutil.NewDB(t, &section.Section{})))
	ctx := context.Background()

	created, err := svc.Create(ctx, section.CreateSectionDTO{Name: "bsit 1_a", Course: "BSIT", YearLevel: "1st Year"})
	require.NoError(t, err)
	assert.Equal(t, "BSIT1-A", created.Name)

	_, err = svc.Create(ctx, section.CreateSectionDTO{Name: "BSIT1-A"})
	assert.ErrorIs(t, err, section.ErrSectionExists, "names collide after normalization")

	_, err = svc.Create(ctx, section.CreateSectionDTO{Name: "  "})
	assert.True(t, apperr.IsValidation(err))

	list, err := svc.List(ctx)
	require.NoError(t, err)
	assert.Len(t, list, 1)

	require.NoError(t, svc.Delete(ctx, created.ID))
	assert.ErrorIs(t, svc.Delete(ctx, created.ID), section.ErrSectionNotFound)
}
