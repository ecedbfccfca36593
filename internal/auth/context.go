package auth

import (
	"context"

	"github.com/jobpilot/jobpilot/internal/model"
)

// contextKey is a custom type for context keys to avoid collisions.
type contextKey string

const (
	// authContextKey is the context key for storing AuthContext.
	authContextKey contextKey = "auth_context"
	// userContextKey is the context key for the resolved *model.User.
	userContextKey contextKey = "auth_user"
)

// ContextWithAuth adds AuthContext to the context.
func ContextWithAuth(ctx context.Context, auth *model.AuthContext) context.Context {
	return context.WithValue(ctx, authContextKey, auth)
}

// AuthFromContext retrieves AuthContext from the context.
// Returns nil if not present.
func AuthFromContext(ctx context.Context) *model.AuthContext {
	auth, ok := ctx.Value(authContextKey).(*model.AuthContext)
	if !ok {
		return nil
	}
	return auth
}

// NewAuthContext builds the request auth context for a resolved user.
func NewAuthContext(user *model.User) *model.AuthContext {
	return &model.AuthContext{
		UserID:           user.ID,
		Email:            user.Email,
		IsActive:         user.IsActive,
		SubscriptionTier: user.SubscriptionTier,
	}
}

// UserIDFromContext is a convenience function to get user ID from context.
// Returns empty string if not authenticated.
func UserIDFromContext(ctx context.Context) string {
	auth := AuthFromContext(ctx)
	if auth == nil {
		return ""
	}
	return auth.UserID
}

// ContextWithUser stores the resolved user alongside its AuthContext.
func ContextWithUser(ctx context.Context, user *model.User) context.Context {
	ctx = context.WithValue(ctx, userContextKey, user)
	return ContextWithAuth(ctx, NewAuthContext(user))
}

// UserFromContext returns the user resolved for this request, or nil.
func UserFromContext(ctx context.Context) *model.User {
	user, _ := ctx.Value(userContextKey).(*model.User)
	return user
}
