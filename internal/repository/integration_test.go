//go:build integration

package repository

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/jobpilot/jobpilot/internal/model"
	"github.com/jobpilot/jobpilot/internal/testutil"
)

// ============================================================================
// Postgres Integration Tests
// ============================================================================

func TestIntegrationRepository_UserLifecycle(t *testing.T) {
	ctx, repo, _ := newIntegrationEnv(t)

	user := testutil.NewTestUser(t, "$argon2id$v=19$m=65536,t=3,p=2$c2FsdA$aGFzaA")
	if err := repo.CreateUser(ctx, user); err != nil {
		t.Fatalf("create user: %v", err)
	}

	dup := testutil.NewTestUser(t, "x")
	dup.Email = user.Email
	if err := repo.CreateUser(ctx, dup); !errors.Is(err, ErrEmailExists) {
		t.Fatalf("expected ErrEmailExists, got %v", err)
	}

	byEmail, err := repo.FindUserByEmail(ctx, " "+user.Email+" ")
	if err != nil {
		t.Fatalf("find by email: %v", err)
	}
	if byEmail.ID != user.ID || byEmail.PasswordHash != user.PasswordHash {
		t.Errorf("unexpected user: %+v", byEmail)
	}

	if _, err := repo.FindUserByID(ctx, "not-a-uuid"); !errors.Is(err, ErrUserNotFound) {
		t.Errorf("malformed id: expected ErrUserNotFound, got %v", err)
	}

	first := "Grace"
	updated, err := repo.UpdateUser(ctx, user.ID, model.UserPatch{FirstName: &first})
	if err != nil {
		t.Fatalf("update user: %v", err)
	}
	if updated.FirstName == nil || *updated.FirstName != "Grace" {
		t.Errorf("first name not applied: %+v", updated)
	}

	at := time.Now().UTC().Truncate(time.Microsecond)
	if err := repo.RecordLogin(ctx, user.ID, at, "$argon2id$rehashed"); err != nil {
		t.Fatalf("record login: %v", err)
	}
	reloaded, err := repo.FindUserByID(ctx, user.ID)
	if err != nil {
		t.Fatalf("reload: %v", err)
	}
	if reloaded.LastLoginAt == nil || !reloaded.LastLoginAt.Equal(at) {
		t.Errorf("last_login_at = %v, want %v", reloaded.LastLoginAt, at)
	}
	if reloaded.PasswordHash != "$argon2id$rehashed" {
		t.Errorf("password hash not replaced")
	}
}

func TestIntegrationRepository_ProfileLifecycle(t *testing.T) {
	ctx, repo, _ := newIntegrationEnv(t)

	user := testutil.NewTestUser(t, "hash")
	if err := repo.CreateUser(ctx, user); err != nil {
		t.Fatalf("create user: %v", err)
	}

	if _, err := repo.GetProfileByUserID(ctx, user.ID); !errors.Is(err, ErrProfileNotFound) {
		t.Fatalf("expected ErrProfileNotFound, got %v", err)
	}

	profile := testutil.NewTestProfile(t, user.ID)
	if err := repo.CreateProfile(ctx, profile); err != nil {
		t.Fatalf("create profile: %v", err)
	}
	if err := repo.CreateProfile(ctx, testutil.NewTestProfile(t, user.ID)); !errors.Is(err, ErrProfileExists) {
		t.Fatalf("expected ErrProfileExists, got %v", err)
	}

	title := "Staff Engineer"
	got, err := repo.UpdateProfile(ctx, user.ID, model.ProfilePatch{CurrentTitle: &title})
	if err != nil {
		t.Fatalf("update profile: %v", err)
	}
	if got.ID != profile.ID || got.CurrentTitle == nil || *got.CurrentTitle != title {
		t.Errorf("unexpected profile: %+v", got)
	}
}

func TestIntegrationRepository_OverlongValue(t *testing.T) {
	ctx, repo, _ := newIntegrationEnv(t)

	user := testutil.NewTestUser(t, "hash")
	if err := repo.CreateUser(ctx, user); err != nil {
		t.Fatalf("create user: %v", err)
	}

	phone := strings.Repeat("9", model.MaxPhoneLength+1)
	_, err := repo.UpdateUser(ctx, user.ID, model.UserPatch{Phone: &phone})
	var inv *InvalidDataError
	if !errors.As(err, &inv) {
		t.Fatalf("expected InvalidDataError, got %v", err)
	}
	if !strings.Contains(inv.Reason, "phone") {
		t.Errorf("reason should name the column: %q", inv.Reason)
	}
}

func TestIntegrationRepository_CareerLifecycle(t *testing.T) {
	ctx, repo, _ := newIntegrationEnv(t)

	user := testutil.NewTestUser(t, "hash")
	if err := repo.CreateUser(ctx, user); err != nil {
		t.Fatalf("create user: %v", err)
	}
	now := time.Now().UTC().Truncate(time.Microsecond)

	skill := &model.UserSkill{ID: uuid.NewString(), UserID: user.ID, SkillName: "Go", IsPrimary: true, CreatedAt: now, UpdatedAt: now}
	if err := repo.CreateSkill(ctx, skill); err != nil {
		t.Fatalf("create skill: %v", err)
	}
	years := 4.5
	if _, err := repo.UpdateSkill(ctx, user.ID, skill.ID, model.SkillPatch{YearsExperience: &years}); err != nil {
		t.Fatalf("update skill: %v", err)
	}
	skills, err := repo.ListSkills(ctx, user.ID)
	if err != nil {
		t.Fatalf("list skills: %v", err)
	}
	if len(skills) != 1 || skills[0].YearsExperience == nil || *skills[0].YearsExperience != years {
		t.Errorf("unexpected skills: %+v", skills)
	}
	if err := repo.DeleteSkill(ctx, uuid.NewString(), skill.ID); !errors.Is(err, ErrSkillNotFound) {
		t.Errorf("foreign delete: expected ErrSkillNotFound, got %v", err)
	}

	exp := &model.UserExperience{
		ID:               uuid.NewString(),
		UserID:           user.ID,
		CompanyName:      "Acme",
		JobTitle:         "Engineer",
		StartDate:        model.NewDate(2021, time.May, 3),
		IsCurrent:        true,
		TechnologiesUsed: []string{"Go", "Postgres"},
		CreatedAt:        now,
		UpdatedAt:        now,
	}
	if err := repo.CreateExperience(ctx, exp); err != nil {
		t.Fatalf("create experience: %v", err)
	}

	bad := model.NewDate(2020, time.January, 1)
	var inv *InvalidDataError
	if _, err := repo.UpdateExperience(ctx, user.ID, exp.ID, model.ExperiencePatch{EndDate: &bad}); !errors.As(err, &inv) {
		t.Fatalf("end before start: expected InvalidDataError, got %v", err)
	}

	exps, err := repo.ListExperiences(ctx, user.ID)
	if err != nil {
		t.Fatalf("list experiences: %v", err)
	}
	if len(exps) != 1 || exps[0].EndDate != nil || len(exps[0].TechnologiesUsed) != 2 {
		t.Errorf("unexpected experiences: %+v", exps)
	}
	if !exps[0].StartDate.Equal(exp.StartDate.Time) {
		t.Errorf("start_date = %v, want %v", exps[0].StartDate, exp.StartDate)
	}

	if err := repo.DeleteExperience(ctx, user.ID, exp.ID); err != nil {
		t.Fatalf("delete experience: %v", err)
	}
	if err := repo.DeleteExperience(ctx, user.ID, exp.ID); !errors.Is(err, ErrExperienceNotFound) {
		t.Errorf("second delete: expected ErrExperienceNotFound, got %v", err)
	}
}

func TestIntegrationMigration_Tables(t *testing.T) {
	ctx, _, pool := newIntegrationEnv(t)

	for _, table := range []string{"users", "user_profiles", "user_skills", "user_experiences", "goose_db_version"} {
		t.Run(table, func(t *testing.T) {
			var exists bool
			err := pool.QueryRow(ctx, `
				SELECT EXISTS (
					SELECT 1 FROM information_schema.tables
					WHERE table_schema = 'public' AND table_name = $1
				)`, table).Scan(&exists)
			if err != nil {
				t.Fatalf("query: %v", err)
			}
			if !exists {
				t.Errorf("table %q should exist after migrations", table)
			}
		})
	}
}

func newIntegrationEnv(t *testing.T) (context.Context, *Repository, *pgxpool.Pool) {
	t.Helper()
	if testing.Short() {
		t.Skip("skipping integration tests in short mode")
	}

	ctx := context.Background()
	dbURL := testutil.RequireEnv(t, "DATABASE_URL")

	pool, err := pgxpool.New(ctx, dbURL)
	if err != nil {
		t.Fatalf("connect db: %v", err)
	}
	t.Cleanup(pool.Close)

	unlock, err := testutil.AcquireDBLock(ctx, pool)
	if err != nil {
		t.Fatalf("acquire db lock: %v", err)
	}
	t.Cleanup(func() {
		_ = unlock()
	})

	if err := testutil.ResetSchema(ctx, dbURL); err != nil {
		t.Fatalf("reset schema: %v", err)
	}

	return ctx, NewWithDB(pool), pool
}
