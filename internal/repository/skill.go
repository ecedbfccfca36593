package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/jobpilot/jobpilot/internal/model"
)

// ErrSkillNotFound is returned when no skill matches both id and owner.
var ErrSkillNotFound = errors.New("skill not found")

const skillColumns = `id, user_id, skill_name, skill_category, proficiency_level,
	years_experience, is_primary, created_at, updated_at`

func scanSkill(row pgx.Row) (*model.UserSkill, error) {
	var s model.UserSkill
	err := row.Scan(
		&s.ID,
		&s.UserID,
		&s.SkillName,
		&s.SkillCategory,
		&s.ProficiencyLevel,
		&s.YearsExperience,
		&s.IsPrimary,
		&s.CreatedAt,
		&s.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &s, nil
}

// ListSkills returns the user's skills, primary skills first.
func (r *Repository) ListSkills(ctx context.Context, userID string) ([]*model.UserSkill, error) {
	rows, err := r.db.Query(ctx, `
		SELECT `+skillColumns+` FROM user_skills
		WHERE user_id = $1
		ORDER BY is_primary DESC, created_at, id
	`, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list skills: %w", err)
	}
	defer rows.Close()

	skills := []*model.UserSkill{}
	for rows.Next() {
		s, err := scanSkill(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan skill: %w", err)
		}
		skills = append(skills, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to list skills: %w", err)
	}

	return skills, nil
}

// CreateSkill inserts a skill.
func (r *Repository) CreateSkill(ctx context.Context, s *model.UserSkill) error {
	query := `
		INSERT INTO user_skills (` + skillColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`

	if _, err := r.db.Exec(ctx, query, skillArgs(s)...); err != nil {
		if inv, ok := invalidData(err); ok {
			return inv
		}
		return fmt.Errorf("failed to create skill: %w", err)
	}

	return nil
}

// UpdateSkill applies patch to the skill owned by userID inside one
// transaction. A skill owned by someone else is reported as not found.
func (r *Repository) UpdateSkill(ctx context.Context, userID, id string, patch model.SkillPatch) (*model.UserSkill, error) {
	var updated *model.UserSkill

	err := pgx.BeginFunc(ctx, r.db, func(tx pgx.Tx) error {
		skill, err := scanSkill(tx.QueryRow(ctx,
			`SELECT `+skillColumns+` FROM user_skills WHERE id = $1 AND user_id = $2 FOR UPDATE`, id, userID))
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) || isInvalidText(err) {
				return ErrSkillNotFound
			}
			return fmt.Errorf("lock skill: %w", err)
		}

		patch.Apply(skill)
		skill.UpdatedAt = time.Now().UTC()

		_, err = tx.Exec(ctx, `
			UPDATE user_skills
			SET skill_name = $3, skill_category = $4, proficiency_level = $5,
				years_experience = $6, is_primary = $7, updated_at = $8
			WHERE id = $1 AND user_id = $2
		`,
			skill.ID,
			skill.UserID,
			skill.SkillName,
			skill.SkillCategory,
			skill.ProficiencyLevel,
			skill.YearsExperience,
			skill.IsPrimary,
			skill.UpdatedAt,
		)
		if err != nil {
			if inv, ok := invalidData(err); ok {
				return inv
			}
			return fmt.Errorf("update skill: %w", err)
		}

		updated = skill
		return nil
	})
	if err != nil {
		return nil, err
	}

	return updated, nil
}

// DeleteSkill removes the skill owned by userID.
func (r *Repository) DeleteSkill(ctx context.Context, userID, id string) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM user_skills WHERE id = $1 AND user_id = $2`, id, userID)
	if err != nil {
		if isInvalidText(err) {
			return ErrSkillNotFound
		}
		return fmt.Errorf("failed to delete skill: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrSkillNotFound
	}
	return nil
}

// skillArgs returns the column values in skillColumns order.
func skillArgs(s *model.UserSkill) []any {
	return []any{
		s.ID,
		s.UserID,
		s.SkillName,
		s.SkillCategory,
		s.ProficiencyLevel,
		s.YearsExperience,
		s.IsPrimary,
		s.CreatedAt,
		s.UpdatedAt,
	}
}
