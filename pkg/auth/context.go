package auth

import (
	"context"

	apperrors "telecare-backend/pkg/errors"
)

// UserContext carries the authenticated user through a request
type UserContext struct {
	UserID string
	Email  string
	Roles  []string
}

type contextKey string

const userContextKey contextKey = "auth.user"

// SetUserInContext stores the user context on the request context
func SetUserInContext(ctx context.Context, user *UserContext) context.Context {
	return context.WithValue(ctx, userContextKey, user)
}

// GetUserFromContext returns the authenticated user, or an unauthorized
// error if the request never passed the auth middleware.
func GetUserFromContext(ctx context.Context) (*UserContext, error) {
	user, ok := ctx.Value(userContextKey).(*UserContext)
	if !ok || user == nil {
		return nil, apperrors.NewUnauthorizedError("no authenticated user in context")
	}
	return user, nil
}

// HasRole reports whether the user carries the given role
func (u *UserContext) HasRole(role string) bool {
	for _, r := range u.Roles {
		if r == role {
			return true
		}
	}
	return false
}
