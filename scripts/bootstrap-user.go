package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/google/uuid"

	"github.com/jobpilot/jobpilot/internal/auth"
	"github.com/jobpilot/jobpilot/internal/model"
	"github.com/jobpilot/jobpilot/internal/repository"
)

type output struct {
	UserID      string `json:"user_id"`
	Email       string `json:"email"`
	Tier        string `json:"subscription_tier"`
	AccessToken string `json:"access_token,omitempty"`
	ExpiresIn   int64  `json:"expires_in,omitempty"`
}

type options struct {
	databaseURL string
	secretKey   string
	email       string
	password    string
	tier        string
	reset       bool
	ttl         time.Duration
	format      string
}

func main() {
	var opts options
	flag.StringVar(&opts.databaseURL, "database-url", os.Getenv("DATABASE_URL"), "PostgreSQL connection string")
	flag.StringVar(&opts.secretKey, "secret-key", os.Getenv("SECRET_KEY"), "Token signing secret; when set a token is printed")
	flag.StringVar(&opts.email, "email", "dev@jobpilot.local", "User email")
	flag.StringVar(&opts.password, "password", os.Getenv("BOOTSTRAP_PASSWORD"), "User password (min 8 characters)")
	flag.StringVar(&opts.tier, "tier", model.TierFree, "Subscription tier (free,basic,premium,enterprise)")
	flag.BoolVar(&opts.reset, "reset", false, "Apply -password and -tier when the email already exists")
	flag.DurationVar(&opts.ttl, "ttl", 30*time.Minute, "Token lifetime")
	flag.StringVar(&opts.format, "format", "plain", "Output format: plain or json")
	flag.Parse()

	if err := run(opts); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(opts options) error {
	if opts.databaseURL == "" {
		return errors.New("DATABASE_URL is required")
	}
	if !model.IsValidTier(opts.tier) {
		return fmt.Errorf("unknown tier %q", opts.tier)
	}

	hash, err := auth.HashPassword(opts.password)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	repo, err := repository.New(ctx, opts.databaseURL)
	if err != nil {
		return fmt.Errorf("connect database: %w", err)
	}
	defer repo.Close()

	user, err := ensureUser(ctx, repo, model.NormalizeEmail(opts.email), hash, opts.tier, opts.reset)
	if err != nil {
		return err
	}

	out := output{UserID: user.ID, Email: user.Email, Tier: user.SubscriptionTier}
	if opts.secretKey != "" {
		tokens, err := auth.NewTokenService(opts.secretKey)
		if err != nil {
			return fmt.Errorf("token service: %w", err)
		}
		if out.AccessToken, err = tokens.Issue(user.ID, opts.ttl); err != nil {
			return fmt.Errorf("issue token: %w", err)
		}
		out.ExpiresIn = int64(opts.ttl.Seconds())
	}

	switch opts.format {
	case "json":
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(out); err != nil {
			return fmt.Errorf("encode output: %w", err)
		}
	default:
		fmt.Printf("user_id: %s\nemail: %s\ntier: %s\n", out.UserID, out.Email, out.Tier)
		if out.AccessToken != "" {
			fmt.Printf("access_token: %s\n", out.AccessToken)
		}
	}
	return nil
}

// ensureUser creates the user for email. An existing user keeps its
// password and tier unless reset is set.
func ensureUser(ctx context.Context, repo *repository.Repository, email, hash, tier string, reset bool) (*model.User, error) {
	existing, err := repo.FindUserByEmail(ctx, email)
	if err == nil {
		if !reset {
			fmt.Fprintf(os.Stderr, "user %s already exists; -password and -tier not applied (pass -reset to apply)\n", email)
			return existing, nil
		}
		now := time.Now().UTC()
		if err := repo.ResetCredentials(ctx, existing.ID, hash, tier, now); err != nil {
			return nil, fmt.Errorf("reset credentials: %w", err)
		}
		existing.PasswordHash = hash
		existing.SubscriptionTier = tier
		existing.UpdatedAt = now
		return existing, nil
	}
	if !errors.Is(err, repository.ErrUserNotFound) {
		return nil, fmt.Errorf("lookup user: %w", err)
	}

	now := time.Now().UTC()
	user := &model.User{
		ID:               uuid.NewString(),
		Email:            email,
		PasswordHash:     hash,
		IsActive:         true,
		EmailVerified:    true,
		SubscriptionTier: tier,
		CreatedAt:        now,
		UpdatedAt:        now,
	}
	if err := repo.CreateUser(ctx, user); err != nil {
		return nil, fmt.Errorf("create user: %w", err)
	}
	return user, nil
}
