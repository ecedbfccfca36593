package repository

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jobpilot/jobpilot/internal/model"
)

var skillColumnNames = []string{
	"id", "user_id", "skill_name", "skill_category", "proficiency_level",
	"years_experience", "is_primary", "created_at", "updated_at",
}

func skillRows(skills ...*model.UserSkill) *pgxmock.Rows {
	rows := pgxmock.NewRows(skillColumnNames)
	for _, s := range skills {
		rows.AddRow(skillArgs(s)...)
	}
	return rows
}

func sampleSkill() *model.UserSkill {
	category := model.SkillTechnical
	years := 6.5
	created := time.Date(2026, 2, 3, 10, 0, 0, 0, time.UTC)
	return &model.UserSkill{
		ID:              "7d9f6c1a-2b3e-4f50-8a61-9c7d8e0f1a2b",
		UserID:          "5b0e3c1e-8f43-4a65-9d76-2a1c5f0d9e11",
		SkillName:       "Go",
		SkillCategory:   &category,
		YearsExperience: &years,
		IsPrimary:       true,
		CreatedAt:       created,
		UpdatedAt:       created,
	}
}

func TestRepository_ListSkills(t *testing.T) {
	primary := sampleSkill()
	other := sampleSkill()
	other.ID = "0a1b2c3d-4e5f-4a6b-8c7d-9e0f1a2b3c4d"
	other.SkillName = "Portuguese"
	other.IsPrimary = false
	other.YearsExperience = nil

	tests := []struct {
		name      string
		setupMock func(mock pgxmock.PgxPoolIface)
		want      []*model.UserSkill
		wantErr   bool
	}{
		{
			name: "ordered rows",
			setupMock: func(mock pgxmock.PgxPoolIface) {
				mock.ExpectQuery(`FROM user_skills\s+WHERE user_id = \$1\s+ORDER BY is_primary DESC`).
					WithArgs(primary.UserID).
					WillReturnRows(skillRows(primary, other))
			},
			want: []*model.UserSkill{primary, other},
		},
		{
			name: "no skills is an empty list",
			setupMock: func(mock pgxmock.PgxPoolIface) {
				mock.ExpectQuery(`FROM user_skills`).
					WithArgs(primary.UserID).
					WillReturnRows(skillRows())
			},
			want: []*model.UserSkill{},
		},
		{
			name: "store failure",
			setupMock: func(mock pgxmock.PgxPoolIface) {
				mock.ExpectQuery(`FROM user_skills`).
					WithArgs(primary.UserID).
					WillReturnError(errors.New("connection reset"))
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo, mock := newMockRepo(t)
			tt.setupMock(mock)

			got, err := repo.ListSkills(context.Background(), primary.UserID)
			if tt.wantErr {
				require.Error(t, err)
			} else {
				require.NoError(t, err)
				assert.Equal(t, tt.want, got)
			}
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestRepository_CreateSkill(t *testing.T) {
	s := sampleSkill()

	t.Run("inserted", func(t *testing.T) {
		repo, mock := newMockRepo(t)
		mock.ExpectExec(`INSERT INTO user_skills`).
			WithArgs(skillArgs(s)...).
			WillReturnResult(pgxmock.NewResult("INSERT", 1))

		require.NoError(t, repo.CreateSkill(context.Background(), s))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("years out of range", func(t *testing.T) {
		repo, mock := newMockRepo(t)
		mock.ExpectExec(`INSERT INTO user_skills`).
			WillReturnError(&pgconn.PgError{Code: pgerrcode.NumericValueOutOfRange})

		var inv *InvalidDataError
		assert.ErrorAs(t, repo.CreateSkill(context.Background(), s), &inv)
	})
}

func TestRepository_UpdateSkill(t *testing.T) {
	current := sampleSkill()
	level := model.ProficiencyExpert

	t.Run("applies patch", func(t *testing.T) {
		repo, mock := newMockRepo(t)
		mock.ExpectBegin()
		mock.ExpectQuery(`FROM user_skills WHERE id = \$1 AND user_id = \$2 FOR UPDATE`).
			WithArgs(current.ID, current.UserID).
			WillReturnRows(skillRows(current))
		mock.ExpectExec(`UPDATE user_skills`).
			WithArgs(current.ID, current.UserID, "Go", current.SkillCategory, &level,
				current.YearsExperience, true, pgxmock.AnyArg()).
			WillReturnResult(pgxmock.NewResult("UPDATE", 1))
		mock.ExpectCommit()

		got, err := repo.UpdateSkill(context.Background(), current.UserID, current.ID, model.SkillPatch{ProficiencyLevel: &level})
		require.NoError(t, err)
		assert.Equal(t, model.ProficiencyExpert, *got.ProficiencyLevel)
		assert.Equal(t, current.CreatedAt, got.CreatedAt)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("someone else's skill", func(t *testing.T) {
		repo, mock := newMockRepo(t)
		mock.ExpectBegin()
		mock.ExpectQuery(`FROM user_skills WHERE id = \$1 AND user_id = \$2 FOR UPDATE`).
			WithArgs(current.ID, "intruder").
			WillReturnRows(skillRows())
		mock.ExpectRollback()

		_, err := repo.UpdateSkill(context.Background(), "intruder", current.ID, model.SkillPatch{ProficiencyLevel: &level})
		assert.ErrorIs(t, err, ErrSkillNotFound)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("malformed id", func(t *testing.T) {
		repo, mock := newMockRepo(t)
		mock.ExpectBegin()
		mock.ExpectQuery(`FROM user_skills`).
			WithArgs("not-a-uuid", current.UserID).
			WillReturnError(&pgconn.PgError{Code: pgerrcode.InvalidTextRepresentation})
		mock.ExpectRollback()

		_, err := repo.UpdateSkill(context.Background(), current.UserID, "not-a-uuid", model.SkillPatch{ProficiencyLevel: &level})
		assert.ErrorIs(t, err, ErrSkillNotFound)
	})
}

func TestRepository_DeleteSkill(t *testing.T) {
	tests := []struct {
		name      string
		setupMock func(mock pgxmock.PgxPoolIface)
		wantErr   error
		wantAny   bool
	}{
		{
			name: "deleted",
			setupMock: func(mock pgxmock.PgxPoolIface) {
				mock.ExpectExec(`DELETE FROM user_skills WHERE id = \$1 AND user_id = \$2`).
					WithArgs("s1", "u1").
					WillReturnResult(pgxmock.NewResult("DELETE", 1))
			},
		},
		{
			name: "not owned",
			setupMock: func(mock pgxmock.PgxPoolIface) {
				mock.ExpectExec(`DELETE FROM user_skills`).
					WithArgs("s1", "u1").
					WillReturnResult(pgxmock.NewResult("DELETE", 0))
			},
			wantErr: ErrSkillNotFound,
		},
		{
			name: "malformed id",
			setupMock: func(mock pgxmock.PgxPoolIface) {
				mock.ExpectExec(`DELETE FROM user_skills`).
					WithArgs("s1", "u1").
					WillReturnError(&pgconn.PgError{Code: pgerrcode.InvalidTextRepresentation})
			},
			wantErr: ErrSkillNotFound,
		},
		{
			name: "store failure",
			setupMock: func(mock pgxmock.PgxPoolIface) {
				mock.ExpectExec(`DELETE FROM user_skills`).
					WithArgs("s1", "u1").
					WillReturnError(errors.New("broken pipe"))
			},
			wantAny: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo, mock := newMockRepo(t)
			tt.setupMock(mock)

			err := repo.DeleteSkill(context.Background(), "u1", "s1")
			switch {
			case tt.wantErr != nil:
				assert.ErrorIs(t, err, tt.wantErr)
			case tt.wantAny:
				require.Error(t, err)
				assert.NotErrorIs(t, err, ErrSkillNotFound)
			default:
				assert.NoError(t, err)
			}
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}
