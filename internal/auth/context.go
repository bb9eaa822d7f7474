package auth

import (
	"context"

	"github.com/saulo-duarte/testbank-api/internal/apperr"
	"github.com/saulo-duarte/testbank-api/internal/config"
	"github.com/saulo-duarte/testbank-api/internal/rbac"
	"github.com/saulo-duarte/testbank-api/internal/session"
)

type contextKey string

const (
	claimsKey  contextKey = "claims"
	sessionKey contextKey = "session"
)

// WithIdentity places the authenticated claims and session on the context.
func WithIdentity(ctx context.Context, claims *Claims, s *session.Session) context.Context {
	ctx = context.WithValue(ctx, claimsKey, claims)
	ctx = context.WithValue(ctx, sessionKey, s)
	ctx = rbac.WithRole(ctx, rbac.Role(claims.Role))
	return config.WithUserID(ctx, claims.UserID)
}

func GetUserClaimsFromContext(ctx context.Context) (*Claims, error) {
	claims, ok := ctx.Value(claimsKey).(*Claims)
	if !ok || claims == nil {
		return nil, apperr.ErrUnauthorized
	}
	return claims, nil
}

func GetSessionFromContext(ctx context.Context) (*session.Session, error) {
	s, ok := ctx.Value(sessionKey).(*session.Session)
	if !ok || s == nil {
		return nil, apperr.ErrUnauthorized
	}
	return s, nil
}
