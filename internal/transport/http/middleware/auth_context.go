package middleware

import (
	"context"

	"github.com/baechuer/lease-service/internal/application/lease"
)

type ctxKey int

const (
	ctxUserID ctxKey = iota
	ctxRole
)

func WithUser(ctx context.Context, userID, role string) context.Context {
	ctx = context.WithValue(ctx, ctxUserID, userID)
	return context.WithValue(ctx, ctxRole, role)
}

func UserIDFromContext(ctx context.Context) (string, bool) {
	v, ok := ctx.Value(ctxUserID).(string)
	return v, ok && v != ""
}

func RoleFromContext(ctx context.Context) (string, bool) {
	v, ok := ctx.Value(ctxRole).(string)
	return v, ok && v != ""
}

// CallerFromContext returns the zero Caller when Auth did not run.
func CallerFromContext(ctx context.Context) lease.Caller {
	uid, _ := UserIDFromContext(ctx)
	role, _ := RoleFromContext(ctx)
	return lease.Caller{UserID: uid, Role: role}
}
