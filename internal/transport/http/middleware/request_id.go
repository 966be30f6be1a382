package middleware

import (
	"net/http"

	ctxpkg "github.com/baechuer/lease-service/internal/pkg/context"
)

const HeaderXRequestID = "X-Request-Id"

// RequestID echoes a sane client id or mints one, on both the response and
// the request context.
func RequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		reqID := ctxpkg.RequestIDFrom(r.Header.Get(HeaderXRequestID))
		w.Header().Set(HeaderXRequestID, reqID)

		ctx := ctxpkg.WithRequestID(r.Context(), reqID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
