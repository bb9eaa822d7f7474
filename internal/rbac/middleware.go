package rbac

import (
	"net/http"

	"github.com/saulo-duarte/testbank-api/internal/apperr"
	"github.com/saulo-duarte/testbank-api/internal/config"
)

var defaultChecker = NewChecker(nil)

// Require enforces a single permission on the role placed in the context by the auth middleware.
func Require(perm string) func(http.Handler) http.Handler {
	return RequireAny(perm)
}

func RequireAny(perms ...string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			role := RoleFromContext(r.Context())
			if role == "" || !defaultChecker.Any(role, perms...) {
				config.WithContext(r.Context()).
					WithField("role", role).
					Warnf("Access denied, requires %v", perms)
				apperr.Write(w, http.StatusForbidden, "forbidden")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
