package utils

import (
	"context"
	"math"
)

type ContextKey string

const (
	UserIDKey   ContextKey = "userId"
	UsernameKey ContextKey = "username"
	RoleKey     ContextKey = "role"
)

// UserIDFromContext returns the authenticated user id set by the JWT middleware.
// Claims decoded from JSON arrive as float64; only positive whole numbers that
// fit in an int are accepted.
func UserIDFromContext(ctx context.Context) (int, bool) {
	switch v := ctx.Value(UserIDKey).(type) {
	case float64:
		if v != math.Trunc(v) || v <= 0 || v >= math.MaxInt64 {
			return 0, false
		}
		return int(v), true
	case int:
		return v, v > 0
	default:
		return 0, false
	}
}
