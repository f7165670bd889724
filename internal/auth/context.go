package auth

import (
	"context"

	"github.com/google/uuid"

	"github.com/signgroup/workshop-api/internal/domain"
)

// UserContext holds the authenticated user for the current request. The
// user record is loaded fresh on every request so permission checks
// always see the stored flags, not stale token claims.
type UserContext struct {
	UserID uuid.UUID
	Name   string
	Email  string
	Role   domain.UserRole
	User   *domain.User
}

type contextKey string

const userContextKey contextKey = "userContext"

// NewUserContext builds a UserContext from a user record
func NewUserContext(user *domain.User) *UserContext {
	return &UserContext{
		UserID: user.ID,
		Name:   user.Name,
		Email:  user.Email,
		Role:   user.Role,
		User:   user,
	}
}

// WithUserContext adds user context to the context
func WithUserContext(ctx context.Context, user *UserContext) context.Context {
	return context.WithValue(ctx, userContextKey, user)
}

// FromContext extracts user context from the context
func FromContext(ctx context.Context) (*UserContext, bool) {
	user, ok := ctx.Value(userContextKey).(*UserContext)
	return user, ok
}

// MustFromContext extracts user context or panics
func MustFromContext(ctx context.Context) *UserContext {
	user, ok := FromContext(ctx)
	if !ok {
		panic("user context not found in context")
	}
	return user
}
