package middleware

import (
	"net/http"
	"slices"
	"strings"

	"github.com/baechuer/lease-service/internal/domain"
)

// RequireRole lets the request through only when the caller holds one of
// roles. Auth must run first.
func RequireRole(writeErr WriteErrFunc, roles ...domain.Role) func(http.Handler) http.Handler {
	names := make([]string, 0, len(roles))
	for _, r := range roles {
		names = append(names, string(r))
	}
	required := strings.Join(names, "|")

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			role, ok := RoleFromContext(r.Context())
			if !ok {
				writeErr(w, r, domain.ErrTokenMissing())
				return
			}
			if !slices.Contains(names, role) {
				writeErr(w, r, domain.ErrInsufficientRole(required))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
