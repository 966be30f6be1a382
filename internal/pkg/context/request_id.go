// Package context carries per-request values shared by transport and logging.
package context

import (
	"context"
	"strings"

	"github.com/google/uuid"
)

type ctxKey int

const requestIDKey ctxKey = iota

// MaxRequestIDLen caps ids accepted from clients.
const MaxRequestIDLen = 128

func WithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, requestIDKey, id)
}

func GetRequestID(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	id, _ := ctx.Value(requestIDKey).(string)
	return id
}

// RequestIDFrom keeps a client-supplied id if it is short and printable,
// otherwise it mints a new one.
func RequestIDFrom(header string) string {
	h := strings.TrimSpace(header)
	if h == "" || len(h) > MaxRequestIDLen {
		return uuid.NewString()
	}
	for _, r := range h {
		if r < 0x21 || r > 0x7e {
			return uuid.NewString()
		}
	}
	return h
}
