package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/jobpilot/jobpilot/internal/model"
)

// Common errors for profile repository operations.
var (
	ErrProfileNotFound = errors.New("profile not found")
	ErrProfileExists   = errors.New("profile already exists")
)

const profileColumns = `id, user_id, resume_file_url, resume_text, linkedin_url, github_url,
	portfolio_url, phone, location_city, location_state, location_country,
	willing_to_relocate, years_experience, current_title, target_salary_min,
	target_salary_max, preferred_work_type, created_at, updated_at`

func scanProfile(row pgx.Row) (*model.UserProfile, error) {
	var p model.UserProfile
	err := row.Scan(
		&p.ID,
		&p.UserID,
		&p.ResumeFileURL,
		&p.ResumeText,
		&p.LinkedInURL,
		&p.GitHubURL,
		&p.PortfolioURL,
		&p.Phone,
		&p.LocationCity,
		&p.LocationState,
		&p.LocationCountry,
		&p.WillingToRelocate,
		&p.YearsExperience,
		&p.CurrentTitle,
		&p.TargetSalaryMin,
		&p.TargetSalaryMax,
		&p.PreferredWorkType,
		&p.CreatedAt,
		&p.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// GetProfileByUserID retrieves the profile owned by userID.
func (r *Repository) GetProfileByUserID(ctx context.Context, userID string) (*model.UserProfile, error) {
	query := `SELECT ` + profileColumns + ` FROM user_profiles WHERE user_id = $1`

	profile, err := scanProfile(r.db.QueryRow(ctx, query, userID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrProfileNotFound
		}
		return nil, fmt.Errorf("failed to get profile: %w", err)
	}

	return profile, nil
}

// CreateProfile inserts a profile. A second profile for the same user
// fails with ErrProfileExists.
func (r *Repository) CreateProfile(ctx context.Context, p *model.UserProfile) error {
	query := `
		INSERT INTO user_profiles (` + profileColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19)
	`

	_, err := r.db.Exec(ctx, query, profileArgs(p)...)
	if err != nil {
		if isUniqueViolation(err) {
			return ErrProfileExists
		}
		if inv, ok := invalidData(err); ok {
			return inv
		}
		return fmt.Errorf("failed to create profile: %w", err)
	}

	return nil
}

// UpdateProfile applies patch to the user's profile inside one transaction.
// The merged row is validated before it is written.
func (r *Repository) UpdateProfile(ctx context.Context, userID string, patch model.ProfilePatch) (*model.UserProfile, error) {
	var updated *model.UserProfile

	err := pgx.BeginFunc(ctx, r.db, func(tx pgx.Tx) error {
		profile, err := scanProfile(tx.QueryRow(ctx,
			`SELECT `+profileColumns+` FROM user_profiles WHERE user_id = $1 FOR UPDATE`, userID))
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return ErrProfileNotFound
			}
			return fmt.Errorf("lock profile: %w", err)
		}

		patch.Apply(profile)
		if reason := profile.Validate(); reason != "" {
			return &InvalidDataError{Reason: reason}
		}
		profile.UpdatedAt = time.Now().UTC()

		// drop created_at; it never changes
		args := profileArgs(profile)
		args = append(args[:17], args[18])

		_, err = tx.Exec(ctx, `
			UPDATE user_profiles
			SET resume_file_url = $3, resume_text = $4, linkedin_url = $5, github_url = $6,
				portfolio_url = $7, phone = $8, location_city = $9, location_state = $10,
				location_country = $11, willing_to_relocate = $12, years_experience = $13,
				current_title = $14, target_salary_min = $15, target_salary_max = $16,
				preferred_work_type = $17, updated_at = $18
			WHERE id = $1 AND user_id = $2
		`, args...)
		if err != nil {
			if inv, ok := invalidData(err); ok {
				return inv
			}
			return fmt.Errorf("update profile: %w", err)
		}

		updated = profile
		return nil
	})
	if err != nil {
		return nil, err
	}

	return updated, nil
}

// profileArgs returns the column values in profileColumns order.
func profileArgs(p *model.UserProfile) []any {
	return []any{
		p.ID,
		p.UserID,
		p.ResumeFileURL,
		p.ResumeText,
		p.LinkedInURL,
		p.GitHubURL,
		p.PortfolioURL,
		p.Phone,
		p.LocationCity,
		p.LocationState,
		p.LocationCountry,
		p.WillingToRelocate,
		p.YearsExperience,
		p.CurrentTitle,
		p.TargetSalaryMin,
		p.TargetSalaryMax,
		p.PreferredWorkType,
		p.CreatedAt,
		p.UpdatedAt,
	}
}
