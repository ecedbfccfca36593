package auth

import (
	"context"
	"errors"
	"fmt"

	"github.com/jobpilot/jobpilot/internal/model"
	"github.com/jobpilot/jobpilot/internal/repository"
)

// IdentityFinder looks up identities by id.
// *repository.Repository satisfies it.
type IdentityFinder interface {
	FindUserByID(ctx context.Context, id string) (*model.User, error)
}

// TokenVerifier verifies bearer tokens. *TokenService satisfies it.
type TokenVerifier interface {
	Verify(token string) (*Claims, error)
}

// SessionResolver turns a bearer token into the identity it was issued for.
type SessionResolver struct {
	tokens TokenVerifier
	users  IdentityFinder
}

// NewSessionResolver creates a SessionResolver.
func NewSessionResolver(tokens TokenVerifier, users IdentityFinder) *SessionResolver {
	return &SessionResolver{
		tokens: tokens,
		users:  users,
	}
}

// Resolve verifies bearer and loads its subject with a single store read.
//
// Bad, expired and orphaned tokens all fail with ErrUnauthenticated so the
// caller cannot tell them apart. A store failure fails with ErrUnavailable.
// Inactive identities resolve; callers decide what that means for them.
func (r *SessionResolver) Resolve(ctx context.Context, bearer string) (*model.User, error) {
	if bearer == "" {
		return nil, ErrUnauthenticated
	}

	claims, err := r.tokens.Verify(bearer)
	if err != nil {
		return nil, ErrUnauthenticated
	}

	user, err := r.users.FindUserByID(ctx, claims.Subject)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, ErrUnauthenticated
		}
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}

	return user, nil
}
