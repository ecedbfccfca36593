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

var profileColumnNames = []string{
	"id", "user_id", "resume_file_url", "resume_text", "linkedin_url", "github_url",
	"portfolio_url", "phone", "location_city", "location_state", "location_country",
	"willing_to_relocate", "years_experience", "current_title", "target_salary_min",
	"target_salary_max", "preferred_work_type", "created_at", "updated_at",
}

func profileRow(p *model.UserProfile) *pgxmock.Rows {
	return pgxmock.NewRows(profileColumnNames).AddRow(profileArgs(p)...)
}

func sampleProfile() *model.UserProfile {
	title := "Backend Engineer"
	years := 6
	remote := model.WorkRemote
	created := time.Date(2026, 2, 1, 9, 0, 0, 0, time.UTC)
	return &model.UserProfile{
		ID:                "01JN3Z8Q4C5D6E7F8G9H0JKMNP",
		UserID:            "5b0e3c1e-8f43-4a65-9d76-2a1c5f0d9e11",
		CurrentTitle:      &title,
		YearsExperience:   &years,
		PreferredWorkType: &remote,
		CreatedAt:         created,
		UpdatedAt:         created,
	}
}

func TestRepository_GetProfileByUserID(t *testing.T) {
	want := sampleProfile()

	tests := []struct {
		name      string
		setupMock func(mock pgxmock.PgxPoolIface)
		wantErr   error
		wantAny   bool
	}{
		{
			name: "found",
			setupMock: func(mock pgxmock.PgxPoolIface) {
				mock.ExpectQuery(`FROM user_profiles WHERE user_id = `).
					WithArgs(want.UserID).
					WillReturnRows(profileRow(want))
			},
		},
		{
			name: "none",
			setupMock: func(mock pgxmock.PgxPoolIface) {
				mock.ExpectQuery(`FROM user_profiles WHERE user_id = `).
					WithArgs(want.UserID).
					WillReturnRows(pgxmock.NewRows(profileColumnNames))
			},
			wantErr: ErrProfileNotFound,
		},
		{
			name: "store failure",
			setupMock: func(mock pgxmock.PgxPoolIface) {
				mock.ExpectQuery(`FROM user_profiles WHERE user_id = `).
					WithArgs(want.UserID).
					WillReturnError(errors.New("timeout"))
			},
			wantAny: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo, mock := newMockRepo(t)
			tt.setupMock(mock)

			got, err := repo.GetProfileByUserID(context.Background(), want.UserID)

			switch {
			case tt.wantErr != nil:
				assert.ErrorIs(t, err, tt.wantErr)
			case tt.wantAny:
				require.Error(t, err)
				assert.NotErrorIs(t, err, ErrProfileNotFound)
			default:
				require.NoError(t, err)
				assert.Equal(t, want, got)
			}
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestRepository_CreateProfile(t *testing.T) {
	p := sampleProfile()

	t.Run("inserted", func(t *testing.T) {
		repo, mock := newMockRepo(t)
		mock.ExpectExec(`INSERT INTO user_profiles`).
			WithArgs(profileArgs(p)...).
			WillReturnResult(pgxmock.NewResult("INSERT", 1))

		require.NoError(t, repo.CreateProfile(context.Background(), p))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("second profile", func(t *testing.T) {
		repo, mock := newMockRepo(t)
		mock.ExpectExec(`INSERT INTO user_profiles`).
			WillReturnError(&pgconn.PgError{Code: pgerrcode.UniqueViolation, ConstraintName: "unique_user_profile"})

		assert.ErrorIs(t, repo.CreateProfile(context.Background(), p), ErrProfileExists)
	})
}

func TestRepository_UpdateProfile(t *testing.T) {
	current := sampleProfile()
	city := "Lisbon"
	relocate := true

	t.Run("applies patch", func(t *testing.T) {
		repo, mock := newMockRepo(t)
		mock.ExpectBegin()
		mock.ExpectQuery(`FROM user_profiles WHERE user_id = .+ FOR UPDATE`).
			WithArgs(current.UserID).
			WillReturnRows(profileRow(current))
		mock.ExpectExec(`UPDATE user_profiles`).
			WillReturnResult(pgxmock.NewResult("UPDATE", 1))
		mock.ExpectCommit()

		got, err := repo.UpdateProfile(context.Background(), current.UserID, model.ProfilePatch{
			LocationCity:      &city,
			WillingToRelocate: &relocate,
		})
		require.NoError(t, err)
		assert.Equal(t, "Lisbon", *got.LocationCity)
		assert.True(t, got.WillingToRelocate)
		assert.Equal(t, "Backend Engineer", *got.CurrentTitle)
		assert.Equal(t, current.CreatedAt, got.CreatedAt)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("merged salary range rejected", func(t *testing.T) {
		stored := sampleProfile()
		salaryMax := 100000
		stored.TargetSalaryMax = &salaryMax
		salaryMin := 150000

		repo, mock := newMockRepo(t)
		mock.ExpectBegin()
		mock.ExpectQuery(`FROM user_profiles WHERE user_id = .+ FOR UPDATE`).
			WithArgs(stored.UserID).
			WillReturnRows(profileRow(stored))
		mock.ExpectRollback()

		_, err := repo.UpdateProfile(context.Background(), stored.UserID, model.ProfilePatch{TargetSalaryMin: &salaryMin})
		var inv *InvalidDataError
		require.ErrorAs(t, err, &inv)
		assert.Contains(t, inv.Reason, "target_salary_min")
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("overlong value is invalid data", func(t *testing.T) {
		repo, mock := newMockRepo(t)
		mock.ExpectBegin()
		mock.ExpectQuery(`FROM user_profiles WHERE user_id = .+ FOR UPDATE`).
			WithArgs(current.UserID).
			WillReturnRows(profileRow(current))
		mock.ExpectExec(`UPDATE user_profiles`).
			WillReturnError(&pgconn.PgError{Code: pgerrcode.StringDataRightTruncationDataException, ColumnName: "location_city"})
		mock.ExpectRollback()

		_, err := repo.UpdateProfile(context.Background(), current.UserID, model.ProfilePatch{LocationCity: &city})
		var inv *InvalidDataError
		require.ErrorAs(t, err, &inv)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("no profile", func(t *testing.T) {
		repo, mock := newMockRepo(t)
		mock.ExpectBegin()
		mock.ExpectQuery(`FROM user_profiles WHERE user_id = .+ FOR UPDATE`).
			WithArgs(current.UserID).
			WillReturnRows(pgxmock.NewRows(profileColumnNames))
		mock.ExpectRollback()

		_, err := repo.UpdateProfile(context.Background(), current.UserID, model.ProfilePatch{LocationCity: &city})
		assert.ErrorIs(t, err, ErrProfileNotFound)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}
