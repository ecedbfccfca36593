// Package service provides business logic for the application.
package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/mail"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/oklog/ulid/v2"

	"github.com/jobpilot/jobpilot/internal/auth"
	"github.com/jobpilot/jobpilot/internal/metrics"
	"github.com/jobpilot/jobpilot/internal/model"
	"github.com/jobpilot/jobpilot/internal/repository"
)

// Service errors.
var (
	ErrInvalidCredentials = errors.New("incorrect email or password")
	ErrInactiveUser       = errors.New("user account is inactive")
	ErrEmailTaken         = errors.New("email already registered")
	ErrUserNotFound       = errors.New("user not found")
	ErrProfileNotFound    = errors.New("profile not found")
	ErrProfileExists      = errors.New("profile already exists")
)

// UserStore is the persistence the UserService needs.
// *repository.Repository satisfies it.
type UserStore interface {
	CreateUser(ctx context.Context, user *model.User) error
	FindUserByID(ctx context.Context, id string) (*model.User, error)
	FindUserByEmail(ctx context.Context, email string) (*model.User, error)
	UpdateUser(ctx context.Context, id string, patch model.UserPatch) (*model.User, error)
	RecordLogin(ctx context.Context, id string, at time.Time, newHash string) error

	GetProfileByUserID(ctx context.Context, userID string) (*model.UserProfile, error)
	CreateProfile(ctx context.Context, p *model.UserProfile) error
	UpdateProfile(ctx context.Context, userID string, patch model.ProfilePatch) (*model.UserProfile, error)
}

// ProfileCache caches profile reads. *cache.Cache satisfies it.
type ProfileCache interface {
	GetProfile(ctx context.Context, userID string) *model.UserProfile
	SetProfile(ctx context.Context, p *model.UserProfile) error
	DeleteProfile(ctx context.Context, userID string) error
}

// TokenIssuer mints access tokens. *auth.TokenService satisfies it.
type TokenIssuer interface {
	Issue(subject string, ttl time.Duration) (string, error)
}

// UserService handles account, login and profile logic.
type UserService struct {
	store    UserStore
	cache    ProfileCache
	tokens   TokenIssuer
	tokenTTL time.Duration
	metrics  metrics.Recorder
	logger   *slog.Logger
	now      func() time.Time
}

// NewUserService creates a new UserService. cache may be nil.
func NewUserService(store UserStore, cache ProfileCache, tokens TokenIssuer, tokenTTL time.Duration, recorder metrics.Recorder, logger *slog.Logger) *UserService {
	if recorder == nil {
		recorder = metrics.NewNoop()
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &UserService{
		store:    store,
		cache:    cache,
		tokens:   tokens,
		tokenTTL: tokenTTL,
		metrics:  recorder,
		logger:   logger,
		now:      time.Now,
	}
}

// RegisterInput defines input for registering a user.
type RegisterInput struct {
	Email     string
	Password  string
	FirstName *string
	LastName  *string
	Phone     *string
}

// Register creates a new active user on the free tier.
func (s *UserService) Register(ctx context.Context, input RegisterInput) (*model.User, error) {
	email := model.NormalizeEmail(input.Email)
	if err := validateEmail(email); err != nil {
		return nil, err
	}
	fields := model.UserPatch{FirstName: input.FirstName, LastName: input.LastName, Phone: input.Phone, Email: &email}
	if reason := fields.Validate(); reason != "" {
		return nil, &auth.ValidationError{Field: "user", Reason: reason}
	}

	hash, err := auth.HashPassword(input.Password)
	if err != nil {
		return nil, err
	}

	now := s.now().UTC()
	user := &model.User{
		ID:               uuid.NewString(),
		Email:            email,
		PasswordHash:     hash,
		FirstName:        input.FirstName,
		LastName:         input.LastName,
		Phone:            input.Phone,
		IsActive:         true,
		SubscriptionTier: model.TierFree,
		CreatedAt:        now,
		UpdatedAt:        now,
	}

	if err := s.store.CreateUser(ctx, user); err != nil {
		if errors.Is(err, repository.ErrEmailExists) {
			return nil, ErrEmailTaken
		}
		if verr := asValidation("user", err); verr != nil {
			return nil, verr
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	s.metrics.IncRegistration()
	return user, nil
}

// LoginResult is a successful login.
type LoginResult struct {
	AccessToken string
	TokenType   string
	ExpiresIn   time.Duration
	User        *model.User
}

// Login checks credentials and issues an access token.
//
// Unknown email and wrong password both fail with ErrInvalidCredentials.
// An inactive account fails with ErrInactiveUser only after its password
// has been verified.
func (s *UserService) Login(ctx context.Context, email, password string) (*LoginResult, error) {
	user, err := s.store.FindUserByEmail(ctx, model.NormalizeEmail(email))
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			// Keep timing close to the found-user path
			auth.VerifyPassword(password, dummyHash())
			s.metrics.IncLoginFailed()
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("failed to find user: %w", err)
	}

	if !auth.VerifyPassword(password, user.PasswordHash) {
		s.metrics.IncLoginFailed()
		return nil, ErrInvalidCredentials
	}

	if !user.IsActive {
		s.metrics.IncLoginInactive()
		return nil, ErrInactiveUser
	}

	var newHash string
	if auth.NeedsRehash(user.PasswordHash) {
		if newHash, err = auth.HashPassword(password); err != nil {
			// Legacy passwords may predate the length policy
			s.logger.WarnContext(ctx, "password_rehash_skipped", "user_id", user.ID, "error", err)
			newHash = ""
		}
	}

	now := s.now().UTC()
	if err := s.store.RecordLogin(ctx, user.ID, now, newHash); err != nil {
		return nil, fmt.Errorf("failed to record login: %w", err)
	}
	user.LastLoginAt = &now
	if newHash != "" {
		user.PasswordHash = newHash
	}

	token, err := s.tokens.Issue(user.ID, s.tokenTTL)
	if err != nil {
		return nil, fmt.Errorf("failed to issue token: %w", err)
	}

	s.metrics.IncLoginSucceeded()
	return &LoginResult{
		AccessToken: token,
		TokenType:   auth.TokenType,
		ExpiresIn:   s.tokenTTL,
		User:        user,
	}, nil
}

// UpdateMe applies a self-service patch to the user.
func (s *UserService) UpdateMe(ctx context.Context, userID string, patch model.UserPatch) (*model.User, error) {
	if reason := patch.Validate(); reason != "" {
		return nil, &auth.ValidationError{Field: "user", Reason: reason}
	}
	if patch.Email != nil {
		if err := validateEmail(model.NormalizeEmail(*patch.Email)); err != nil {
			return nil, err
		}
	}

	if patch.IsEmpty() {
		user, err := s.store.FindUserByID(ctx, userID)
		if err != nil {
			return nil, mapUserError(err)
		}
		return user, nil
	}

	user, err := s.store.UpdateUser(ctx, userID, patch)
	if err != nil {
		if errors.Is(err, repository.ErrEmailExists) {
			return nil, ErrEmailTaken
		}
		if verr := asValidation("user", err); verr != nil {
			return nil, verr
		}
		return nil, mapUserError(err)
	}
	return user, nil
}

// GetProfile returns the user's profile, served from cache when possible.
func (s *UserService) GetProfile(ctx context.Context, userID string) (*model.UserProfile, error) {
	if s.cache != nil {
		if p := s.cache.GetProfile(ctx, userID); p != nil {
			s.metrics.IncProfileCacheHit()
			return p, nil
		}
		s.metrics.IncProfileCacheMiss()
	}

	profile, err := s.store.GetProfileByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrProfileNotFound) {
			return nil, ErrProfileNotFound
		}
		return nil, fmt.Errorf("failed to get profile: %w", err)
	}

	if s.cache != nil {
		if err := s.cache.SetProfile(ctx, profile); err != nil {
			s.logger.WarnContext(ctx, "profile_cache_set_failed", "user_id", userID, "error", err)
		}
	}

	return profile, nil
}

// CreateProfile creates the user's profile. A user has at most one.
func (s *UserService) CreateProfile(ctx context.Context, userID string, patch model.ProfilePatch) (*model.UserProfile, error) {
	if reason := patch.Validate(); reason != "" {
		return nil, &auth.ValidationError{Field: "profile", Reason: reason}
	}

	now := s.now().UTC()
	profile := &model.UserProfile{
		ID:        ulid.Make().String(),
		UserID:    userID,
		CreatedAt: now,
		UpdatedAt: now,
	}
	patch.Apply(profile)

	if err := s.store.CreateProfile(ctx, profile); err != nil {
		if errors.Is(err, repository.ErrProfileExists) {
			return nil, ErrProfileExists
		}
		if verr := asValidation("profile", err); verr != nil {
			return nil, verr
		}
		return nil, fmt.Errorf("failed to create profile: %w", err)
	}

	s.evictProfile(ctx, userID)
	return profile, nil
}

// UpdateProfile applies patch to the user's profile.
func (s *UserService) UpdateProfile(ctx context.Context, userID string, patch model.ProfilePatch) (*model.UserProfile, error) {
	if reason := patch.Validate(); reason != "" {
		return nil, &auth.ValidationError{Field: "profile", Reason: reason}
	}

	profile, err := s.store.UpdateProfile(ctx, userID, patch)
	if err != nil {
		if errors.Is(err, repository.ErrProfileNotFound) {
			return nil, ErrProfileNotFound
		}
		if verr := asValidation("profile", err); verr != nil {
			return nil, verr
		}
		return nil, fmt.Errorf("failed to update profile: %w", err)
	}

	s.evictProfile(ctx, userID)
	return profile, nil
}

func (s *UserService) evictProfile(ctx context.Context, userID string) {
	if s.cache == nil {
		return
	}
	if err := s.cache.DeleteProfile(ctx, userID); err != nil {
		s.logger.WarnContext(ctx, "profile_cache_evict_failed", "user_id", userID, "error", err)
	}
}

func mapUserError(err error) error {
	if errors.Is(err, repository.ErrUserNotFound) {
		return ErrUserNotFound
	}
	return fmt.Errorf("user store: %w", err)
}

// asValidation converts a value the store refused into a ValidationError.
// It returns nil for any other error.
func asValidation(field string, err error) *auth.ValidationError {
	var inv *repository.InvalidDataError
	if errors.As(err, &inv) {
		return &auth.ValidationError{Field: field, Reason: inv.Reason}
	}
	return nil
}

func validateEmail(email string) error {
	if email == "" {
		return &auth.ValidationError{Field: "email", Reason: "is required"}
	}
	addr, err := mail.ParseAddress(email)
	if err != nil || addr.Address != email {
		return &auth.ValidationError{Field: "email", Reason: "is not a valid address"}
	}
	return nil
}

// dummyHash is verified against when the email is unknown.
var dummyHash = sync.OnceValue(func() string {
	h, err := auth.HashPassword("jobpilot-timing-equalizer")
	if err != nil {
		panic(err)
	}
	return h
})
