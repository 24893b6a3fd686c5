package domain

import (
	"context"
	"errors"
)

type userContextKey struct{}

// UserContext holds the authenticated caller, extracted from the bearer token
// by the auth middleware.
type UserContext struct {
	UserID string
	Email  string
}

var ErrNoUserContext = errors.New("user context not found")

// SetUserContext attaches the authenticated user to the request context.
func SetUserContext(ctx context.Context, user *UserContext) context.Context {
	return context.WithValue(ctx, userContextKey{}, user)
}

// GetUserFromContext returns the authenticated user, or ErrNoUserContext when
// the request was not authenticated.
func GetUserFromContext(ctx context.Context) (*UserContext, error) {
	user, ok := ctx.Value(userContextKey{}).(*UserContext)
	if !ok || user == nil {
		return nil, ErrNoUserContext
	}
	return user, nil
}
