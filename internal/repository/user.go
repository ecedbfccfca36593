package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/jobpilot/jobpilot/internal/model"
)

// Common errors for user repository operations.
var (
	ErrUserNotFound = errors.New("user not found")
	ErrEmailExists  = errors.New("email already exists")
)

const userColumns = `id, email, password_hash, first_name, last_name, phone,
	is_active, email_verified, subscription_tier, last_login_at, created_at, updated_at`

func scanUser(row pgx.Row) (*model.User, error) {
	var u model.User
	err := row.Scan(
		&u.ID,
		&u.Email,
		&u.PasswordHash,
		&u.FirstName,
		&u.LastName,
		&u.Phone,
		&u.IsActive,
		&u.EmailVerified,
		&u.SubscriptionTier,
		&u.LastLoginAt,
		&u.CreatedAt,
		&u.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &u, nil
}

// CreateUser inserts a new user into the database.
func (r *Repository) CreateUser(ctx context.Context, user *model.User) error {
	query := `
		INSERT INTO users (id, email, password_hash, first_name, last_name, phone,
			is_active, email_verified, subscription_tier, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	`

	_, err := r.db.Exec(ctx, query,
		user.ID,
		user.Email,
		user.PasswordHash,
		user.FirstName,
		user.LastName,
		user.Phone,
		user.IsActive,
		user.EmailVerified,
		user.SubscriptionTier,
		user.CreatedAt,
		user.UpdatedAt,
	)

	if err != nil {
		if isUniqueViolation(err) {
			return ErrEmailExists
		}
		if inv, ok := invalidData(err); ok {
			return inv
		}
		return fmt.Errorf("failed to create user: %w", err)
	}

	return nil
}

// FindUserByID retrieves a user by their ID.
func (r *Repository) FindUserByID(ctx context.Context, id string) (*model.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1`

	user, err := scanUser(r.db.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) || isInvalidText(err) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to get user by ID: %w", err)
	}

	return user, nil
}

// FindUserByEmail retrieves a user by their email address.
func (r *Repository) FindUserByEmail(ctx context.Context, email string) (*model.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE email = $1`

	user, err := scanUser(r.db.QueryRow(ctx, query, model.NormalizeEmail(email)))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to get user by email: %w", err)
	}

	return user, nil
}

// UpdateUser applies patch to the user inside one transaction and returns
// the updated row.
func (r *Repository) UpdateUser(ctx context.Context, id string, patch model.UserPatch) (*model.User, error) {
	var updated *model.User

	err := pgx.BeginFunc(ctx, r.db, func(tx pgx.Tx) error {
		user, err := scanUser(tx.QueryRow(ctx,
			`SELECT `+userColumns+` FROM users WHERE id = $1 FOR UPDATE`, id))
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) || isInvalidText(err) {
				return ErrUserNotFound
			}
			return fmt.Errorf("lock user: %w", err)
		}

		patch.Apply(user)
		user.UpdatedAt = time.Now().UTC()

		_, err = tx.Exec(ctx, `
			UPDATE users
			SET email = $2, first_name = $3, last_name = $4, phone = $5, updated_at = $6
			WHERE id = $1
		`,
			user.ID,
			user.Email,
			user.FirstName,
			user.LastName,
			user.Phone,
			user.UpdatedAt,
		)
		if err != nil {
			if isUniqueViolation(err) {
				return ErrEmailExists
			}
			if inv, ok := invalidData(err); ok {
				return inv
			}
			return fmt.Errorf("update user: %w", err)
		}

		updated = user
		return nil
	})
	if err != nil {
		return nil, err
	}

	return updated, nil
}

// RecordLogin stamps last_login_at. A non-empty newHash replaces the stored
// password hash in the same statement.
func (r *Repository) RecordLogin(ctx context.Context, id string, at time.Time, newHash string) error {
	query := `
		UPDATE users
		SET last_login_at = $2,
			password_hash = COALESCE(NULLIF($3, ''), password_hash),
			updated_at = $2
		WHERE id = $1
	`

	tag, err := r.db.Exec(ctx, query, id, at, newHash)
	if err != nil {
		return fmt.Errorf("failed to record login: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrUserNotFound
	}

	return nil
}

// ResetCredentials replaces the password hash and subscription tier.
func (r *Repository) ResetCredentials(ctx context.Context, id, passwordHash, tier string, at time.Time) error {
	tag, err := r.db.Exec(ctx, `
		UPDATE users
		SET password_hash = $2, subscription_tier = $3, updated_at = $4
		WHERE id = $1
	`, id, passwordHash, tier, at)
	if err != nil {
		if inv, ok := invalidData(err); ok {
			return inv
		}
		return fmt.Errorf("failed to reset credentials: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrUserNotFound
	}

	return nil
}
