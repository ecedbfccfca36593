package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/jobpilot/jobpilot/internal/auth"
	"github.com/jobpilot/jobpilot/internal/model"
	"github.com/jobpilot/jobpilot/internal/repository"
)

// Career errors.
var (
	ErrSkillNotFound      = errors.New("skill not found")
	ErrExperienceNotFound = errors.New("experience not found")
)

// CareerStore is the persistence the CareerService needs.
// *repository.Repository satisfies it.
type CareerStore interface {
	ListSkills(ctx context.Context, userID string) ([]*model.UserSkill, error)
	CreateSkill(ctx context.Context, s *model.UserSkill) error
	UpdateSkill(ctx context.Context, userID, id string, patch model.SkillPatch) (*model.UserSkill, error)
	DeleteSkill(ctx context.Context, userID, id string) error

	ListExperiences(ctx context.Context, userID string) ([]*model.UserExperience, error)
	CreateExperience(ctx context.Context, e *model.UserExperience) error
	UpdateExperience(ctx context.Context, userID, id string, patch model.ExperiencePatch) (*model.UserExperience, error)
	DeleteExperience(ctx context.Context, userID, id string) error
}

// CareerService manages the skills and work history a user owns.
// Every operation is scoped to userID; another user's rows are not found.
type CareerService struct {
	store CareerStore
	now   func() time.Time
}

// NewCareerService creates a new CareerService.
func NewCareerService(store CareerStore) *CareerService {
	return &CareerService{store: store, now: time.Now}
}

// ListSkills returns the user's skills.
func (s *CareerService) ListSkills(ctx context.Context, userID string) ([]*model.UserSkill, error) {
	skills, err := s.store.ListSkills(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list skills: %w", err)
	}
	return skills, nil
}

// CreateSkill adds a skill. skill_name is required.
func (s *CareerService) CreateSkill(ctx context.Context, userID string, patch model.SkillPatch) (*model.UserSkill, error) {
	if reason := patch.ValidateCreate(); reason != "" {
		return nil, &auth.ValidationError{Field: "skill", Reason: reason}
	}

	now := s.now().UTC()
	skill := &model.UserSkill{
		ID:        uuid.NewString(),
		UserID:    userID,
		CreatedAt: now,
		UpdatedAt: now,
	}
	patch.Apply(skill)

	if err := s.store.CreateSkill(ctx, skill); err != nil {
		if verr := asValidation("skill", err); verr != nil {
			return nil, verr
		}
		return nil, fmt.Errorf("failed to create skill: %w", err)
	}
	return skill, nil
}

// UpdateSkill applies patch to one of the user's skills.
func (s *CareerService) UpdateSkill(ctx context.Context, userID, id string, patch model.SkillPatch) (*model.UserSkill, error) {
	if reason := patch.Validate(); reason != "" {
		return nil, &auth.ValidationError{Field: "skill", Reason: reason}
	}

	skill, err := s.store.UpdateSkill(ctx, userID, id, patch)
	if err != nil {
		return nil, mapCareerError("skill", err)
	}
	return skill, nil
}

// DeleteSkill removes one of the user's skills.
func (s *CareerService) DeleteSkill(ctx context.Context, userID, id string) error {
	if err := s.store.DeleteSkill(ctx, userID, id); err != nil {
		return mapCareerError("skill", err)
	}
	return nil
}

// ListExperiences returns the user's work history.
func (s *CareerService) ListExperiences(ctx context.Context, userID string) ([]*model.UserExperience, error) {
	exps, err := s.store.ListExperiences(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list experiences: %w", err)
	}
	return exps, nil
}

// CreateExperience adds a work history entry. company_name, job_title and
// start_date are required, and end_date may not precede start_date.
func (s *CareerService) CreateExperience(ctx context.Context, userID string, patch model.ExperiencePatch) (*model.UserExperience, error) {
	if reason := patch.ValidateCreate(); reason != "" {
		return nil, &auth.ValidationError{Field: "experience", Reason: reason}
	}

	now := s.now().UTC()
	exp := &model.UserExperience{
		ID:        uuid.NewString(),
		UserID:    userID,
		CreatedAt: now,
		UpdatedAt: now,
	}
	patch.Apply(exp)
	if reason := exp.Validate(); reason != "" {
		return nil, &auth.ValidationError{Field: "experience", Reason: reason}
	}

	if err := s.store.CreateExperience(ctx, exp); err != nil {
		if verr := asValidation("experience", err); verr != nil {
			return nil, verr
		}
		return nil, fmt.Errorf("failed to create experience: %w", err)
	}
	return exp, nil
}

// UpdateExperience applies patch to one of the user's experiences.
func (s *CareerService) UpdateExperience(ctx context.Context, userID, id string, patch model.ExperiencePatch) (*model.UserExperience, error) {
	if reason := patch.Validate(); reason != "" {
		return nil, &auth.ValidationError{Field: "experience", Reason: reason}
	}

	exp, err := s.store.UpdateExperience(ctx, userID, id, patch)
	if err != nil {
		return nil, mapCareerError("experience", err)
	}
	return exp, nil
}

// DeleteExperience removes one of the user's experiences.
func (s *CareerService) DeleteExperience(ctx context.Context, userID, id string) error {
	if err := s.store.DeleteExperience(ctx, userID, id); err != nil {
		return mapCareerError("experience", err)
	}
	return nil
}

func mapCareerError(field string, err error) error {
	switch {
	case errors.Is(err, repository.ErrSkillNotFound):
		return ErrSkillNotFound
	case errors.Is(err, repository.ErrExperienceNotFound):
		return ErrExperienceNotFound
	}
	if verr := asValidation(field, err); verr != nil {
		return verr
	}
	return fmt.Errorf("%s store: %w", field, err)
}
