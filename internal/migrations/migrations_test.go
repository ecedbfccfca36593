package migrations

import (
	"strings"
	"testing"
)

func TestVersions(t *testing.T) {
	names, err := Versions()
	if err != nil {
		t.Fatalf("Versions() error: %v", err)
	}

	want := []string{"00001_users.sql", "00002_user_profiles.sql", "00003_user_skills_experiences.sql"}
	if len(names) != len(want) {
		t.Fatalf("got %v, want %v", names, want)
	}
	for i := range want {
		if names[i] != want[i] {
			t.Errorf("names[%d] = %q, want %q", i, names[i], want[i])
		}
	}
}

func TestMigrationsHaveUpAndDown(t *testing.T) {
	names, err := Versions()
	if err != nil {
		t.Fatalf("Versions() error: %v", err)
	}

	for _, name := range names {
		body, err := files.ReadFile(dir + "/" + name)
		if err != nil {
			t.Fatalf("read %s: %v", name, err)
		}
		text := string(body)
		if !strings.Contains(text, "-- +goose Up") || !strings.Contains(text, "-- +goose Down") {
			t.Errorf("%s is missing a goose Up or Down section", name)
		}
	}
}

func TestProfilesAreUniquePerUser(t *testing.T) {
	body, err := files.ReadFile(dir + "/00002_user_profiles.sql")
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if !strings.Contains(string(body), "UNIQUE (user_id)") {
		t.Error("user_profiles must enforce one profile per user")
	}
}

func TestExperienceDatesAreOrdered(t *testing.T) {
	body, err := files.ReadFile(dir + "/00003_user_skills_experiences.sql")
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	text := string(body)
	if !strings.Contains(text, "end_date >= start_date") {
		t.Error("user_experiences must reject an end_date before start_date")
	}
	for _, table := range []string{"user_skills", "user_experiences"} {
		if !strings.Contains(text, "DROP TABLE IF EXISTS "+table) {
			t.Errorf("down migration must drop %s", table)
		}
	}
}
