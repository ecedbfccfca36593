package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/jobpilot/jobpilot/internal/model"
)

// ErrExperienceNotFound is returned when no experience matches both id and owner.
var ErrExperienceNotFound = errors.New("experience not found")

const experienceColumns = `id, user_id, company_name, job_title, start_date, end_date,
	is_current, description, achievements, technologies_used, created_at, updated_at`

func scanExperience(row pgx.Row) (*model.UserExperience, error) {
	var (
		e   model.UserExperience
		end *time.Time
	)
	err := row.Scan(
		&e.ID,
		&e.UserID,
		&e.CompanyName,
		&e.JobTitle,
		&e.StartDate.Time,
		&end,
		&e.IsCurrent,
		&e.Description,
		&e.Achievements,
		&e.TechnologiesUsed,
		&e.CreatedAt,
		&e.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	if end != nil {
		e.EndDate = &model.Date{Time: *end}
	}
	return &e, nil
}

// ListExperiences returns the user's work history, most recent first.
func (r *Repository) ListExperiences(ctx context.Context, userID string) ([]*model.UserExperience, error) {
	rows, err := r.db.Query(ctx, `
		SELECT `+experienceColumns+` FROM user_experiences
		WHERE user_id = $1
		ORDER BY is_current DESC, start_date DESC, id
	`, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list experiences: %w", err)
	}
	defer rows.Close()

	experiences := []*model.UserExperience{}
	for rows.Next() {
		e, err := scanExperience(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan experience: %w", err)
		}
		experiences = append(experiences, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to list experiences: %w", err)
	}

	return experiences, nil
}

// CreateExperience inserts an experience.
func (r *Repository) CreateExperience(ctx context.Context, e *model.UserExperience) error {
	query := `
		INSERT INTO user_experiences (` + experienceColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
	`

	if _, err := r.db.Exec(ctx, query, experienceArgs(e)...); err != nil {
		if inv, ok := invalidData(err); ok {
			return inv
		}
		return fmt.Errorf("failed to create experience: %w", err)
	}

	return nil
}

// UpdateExperience applies patch to the experience owned by userID inside
// one transaction. The merged row is validated before it is written.
func (r *Repository) UpdateExperience(ctx context.Context, userID, id string, patch model.ExperiencePatch) (*model.UserExperience, error) {
	var updated *model.UserExperience

	err := pgx.BeginFunc(ctx, r.db, func(tx pgx.Tx) error {
		exp, err := scanExperience(tx.QueryRow(ctx,
			`SELECT `+experienceColumns+` FROM user_experiences WHERE id = $1 AND user_id = $2 FOR UPDATE`, id, userID))
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) || isInvalidText(err) {
				return ErrExperienceNotFound
			}
			return fmt.Errorf("lock experience: %w", err)
		}

		patch.Apply(exp)
		if reason := exp.Validate(); reason != "" {
			return &InvalidDataError{Reason: reason}
		}
		exp.UpdatedAt = time.Now().UTC()

		// created_at never changes
		args := experienceArgs(exp)
		args = append(args[:10], args[11])

		_, err = tx.Exec(ctx, `
			UPDATE user_experiences
			SET company_name = $3, job_title = $4, start_date = $5, end_date = $6,
				is_current = $7, description = $8, achievements = $9,
				technologies_used = $10, updated_at = $11
			WHERE id = $1 AND user_id = $2
		`, args...)
		if err != nil {
			if inv, ok := invalidData(err); ok {
				return inv
			}
			return fmt.Errorf("update experience: %w", err)
		}

		updated = exp
		return nil
	})
	if err != nil {
		return nil, err
	}

	return updated, nil
}

// DeleteExperience removes the experience owned by userID.
func (r *Repository) DeleteExperience(ctx context.Context, userID, id string) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM user_experiences WHERE id = $1 AND user_id = $2`, id, userID)
	if err != nil {
		if isInvalidText(err) {
			return ErrExperienceNotFound
		}
		return fmt.Errorf("failed to delete experience: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrExperienceNotFound
	}
	return nil
}

// experienceArgs returns the column values in experienceColumns order.
func experienceArgs(e *model.UserExperience) []any {
	var end *time.Time
	if e.EndDate != nil {
		end = &e.EndDate.Time
	}
	return []any{
		e.ID,
		e.UserID,
		e.CompanyName,
		e.JobTitle,
		e.StartDate.Time,
		end,
		e.IsCurrent,
		e.Description,
		e.Achievements,
		e.TechnologiesUsed,
		e.CreatedAt,
		e.UpdatedAt,
	}
}
