// Package auth provides credential hashing, bearer tokens and session
// resolution.
package auth

import "errors"

var (
	// ErrValidation is the kind shared by all input validation failures.
	ErrValidation = errors.New("validation error")

	// ErrUnauthenticated means the caller could not be authenticated.
	// It deliberately carries no detail about why.
	ErrUnauthenticated = errors.New("unauthenticated")

	// ErrUnavailable means authentication could not be decided because a
	// dependency failed.
	ErrUnavailable = errors.New("authentication unavailable")

	// ErrTokenMalformed indicates a token with bad structure, signature or claims.
	ErrTokenMalformed = errors.New("token malformed")

	// ErrTokenExpired indicates a well-formed token past its expiry.
	ErrTokenExpired = errors.New("token expired")
)

// ValidationError describes rejected input.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return e.Field + ": " + e.Reason
}

// Is makes every ValidationError match ErrValidation.
func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}
