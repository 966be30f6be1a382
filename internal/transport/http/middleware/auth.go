package middleware

import (
	"net/http"
	"strings"

	"github.com/baechuer/lease-service/internal/application/auth"
	"github.com/baechuer/lease-service/internal/domain"
)

type TokenVerifier interface {
	VerifyAccessToken(token string) (auth.TokenClaims, error)
}

type WriteErrFunc func(http.ResponseWriter, *http.Request, error)

// Auth verifies the Authorization header and puts the caller into the request
// context. Both "Bearer <token>" and a bare token are accepted.
func Auth(verifier TokenVerifier, writeErr WriteErrFunc) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			raw, err := tokenFromHeader(r.Header.Get("Authorization"))
			if err != nil {
				writeErr(w, r, err)
				return
			}

			claims, err := verifier.VerifyAccessToken(raw)
			if err != nil {
				writeErr(w, r, err)
				return
			}
			if strings.TrimSpace(claims.UserID) == "" {
				writeErr(w, r, domain.ErrTokenInvalid())
				return
			}

			ctx := WithUser(r.Context(), claims.UserID, claims.Role)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func tokenFromHeader(h string) (string, error) {
	h = strings.TrimSpace(h)
	if h == "" || strings.EqualFold(h, "Bearer") {
		return "", domain.ErrTokenMissing()
	}

	scheme, rest, found := strings.Cut(h, " ")
	if !found {
		return h, nil
	}
	if !strings.EqualFold(scheme, "Bearer") {
		return "", domain.ErrTokenInvalid()
	}

	raw := strings.TrimSpace(rest)
	if raw == "" {
		return "", domain.ErrTokenMissing()
	}
	return raw, nil
}
