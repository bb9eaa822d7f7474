// Package testutil holds helpers shared by repository and service tests.
package testutil

import (
	"context"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"github.com/saulo-duarte/testbank-api/internal/auth"
	"github.com/saulo-duarte/testbank-api/internal/config"
	"github.com/saulo-duarte/testbank-api/internal/session"
	"gorm.io/gorm"
)

// NewDB opens a private in-memory database and migrates models into it.
func NewDB(t *testing.T, models ...interface{}) *gorm.DB {
	t.Helper()

	dsn := "file:" + uuid.NewString() + "?mode=memory&cache=shared"
	db, err := gorm.Open(sqlite.Open(dsn), config.GormConfig())
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := db.AutoMigrate(models...); err != nil {
		t.Fatalf("migrate: %v", err)
	}

	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})
	return db
}

// AsUser returns a context carrying an authenticated identity.
func AsUser(ctx context.Context, s *session.Session) context.Context {
	if s.ID == "" {
		s.ID = uuid.NewString()
	}
	claims := &auth.Claims{UserID: s.AccountID, Role: s.Role, SessionID: s.ID}
	return auth.WithIdentity(ctx, claims, s)
}
