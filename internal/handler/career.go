package handler

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/jobpilot/jobpilot/internal/auth"
	"github.com/jobpilot/jobpilot/internal/model"
	"github.com/jobpilot/jobpilot/internal/service"
)

// CareerService is the skills and work history logic behind CareerHandler.
// *service.CareerService satisfies it.
type CareerService interface {
	ListSkills(ctx context.Context, userID string) ([]*model.UserSkill, error)
	CreateSkill(ctx context.Context, userID string, patch model.SkillPatch) (*model.UserSkill, error)
	UpdateSkill(ctx context.Context, userID, id string, patch model.SkillPatch) (*model.UserSkill, error)
	DeleteSkill(ctx context.Context, userID, id string) error

	ListExperiences(ctx context.Context, userID string) ([]*model.UserExperience, error)
	CreateExperience(ctx context.Context, userID string, patch model.ExperiencePatch) (*model.UserExperience, error)
	UpdateExperience(ctx context.Context, userID, id string, patch model.ExperiencePatch) (*model.UserExperience, error)
	DeleteExperience(ctx context.Context, userID, id string) error
}

// CareerHandler handles /api/v1/users/me/skills and /me/experiences.
type CareerHandler struct {
	svc    CareerService
	logger *slog.Logger
}

// NewCareerHandler creates a new CareerHandler.
func NewCareerHandler(svc CareerService, logger *slog.Logger) *CareerHandler {
	return &CareerHandler{
		svc:    svc,
		logger: logger,
	}
}

// ListSkills handles GET /api/v1/users/me/skills.
func (h *CareerHandler) ListSkills(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}

	skills, err := h.svc.ListSkills(r.Context(), userID)
	if err != nil {
		h.handleServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, skills)
}

// CreateSkill handles POST /api/v1/users/me/skills.
func (h *CareerHandler) CreateSkill(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}

	var patch model.SkillPatch
	if !decodeBody(w, r, &patch) {
		return
	}

	skill, err := h.svc.CreateSkill(r.Context(), userID, patch)
	if err != nil {
		h.handleServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, skill)
}

// UpdateSkill handles PUT /api/v1/users/me/skills/{id}.
func (h *CareerHandler) UpdateSkill(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}

	var patch model.SkillPatch
	if !decodeBody(w, r, &patch) {
		return
	}

	skill, err := h.svc.UpdateSkill(r.Context(), userID, chi.URLParam(r, "id"), patch)
	if err != nil {
		h.handleServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, skill)
}

// DeleteSkill handles DELETE /api/v1/users/me/skills/{id}.
func (h *CareerHandler) DeleteSkill(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}

	if err := h.svc.DeleteSkill(r.Context(), userID, chi.URLParam(r, "id")); err != nil {
		h.handleServiceError(w, r, err)
		return
	}

	h.logger.Info("skill_deleted", "user_id", userID, "skill_id", chi.URLParam(r, "id"))
	writeJSON(w, http.StatusOK, map[string]string{"message": "Skill deleted successfully"})
}

// ListExperiences handles GET /api/v1/users/me/experiences.
func (h *CareerHandler) ListExperiences(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}

	exps, err := h.svc.ListExperiences(r.Context(), userID)
	if err != nil {
		h.handleServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, exps)
}

// CreateExperience handles POST /api/v1/users/me/experiences.
func (h *CareerHandler) CreateExperience(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}

	var patch model.ExperiencePatch
	if !decodeBody(w, r, &patch) {
		return
	}

	exp, err := h.svc.CreateExperience(r.Context(), userID, patch)
	if err != nil {
		h.handleServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, exp)
}

// UpdateExperience handles PUT /api/v1/users/me/experiences/{id}.
func (h *CareerHandler) UpdateExperience(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}

	var patch model.ExperiencePatch
	if !decodeBody(w, r, &patch) {
		return
	}

	exp, err := h.svc.UpdateExperience(r.Context(), userID, chi.URLParam(r, "id"), patch)
	if err != nil {
		h.handleServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, exp)
}

// DeleteExperience handles DELETE /api/v1/users/me/experiences/{id}.
func (h *CareerHandler) DeleteExperience(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}

	if err := h.svc.DeleteExperience(r.Context(), userID, chi.URLParam(r, "id")); err != nil {
		h.handleServiceError(w, r, err)
		return
	}

	h.logger.Info("experience_deleted", "user_id", userID, "experience_id", chi.URLParam(r, "id"))
	writeJSON(w, http.StatusOK, map[string]string{"message": "Experience deleted successfully"})
}

func (h *CareerHandler) handleServiceError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, auth.ErrValidation):
		writeError(w, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
	case errors.Is(err, service.ErrSkillNotFound):
		writeError(w, http.StatusNotFound, "SKILL_NOT_FOUND", "Skill not found")
	case errors.Is(err, service.ErrExperienceNotFound):
		writeError(w, http.StatusNotFound, "EXPERIENCE_NOT_FOUND", "Experience not found")
	default:
		h.logger.ErrorContext(r.Context(), "unhandled service error", "error", err, "path", r.URL.Path)
		writeError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "An internal error occurred")
	}
}

// requireUserID writes the bearer 401 when no identity is on the request.
func requireUserID(w http.ResponseWriter, r *http.Request) (string, bool) {
	userID := auth.UserIDFromContext(r.Context())
	if userID == "" {
		writeUnauthorized(w)
		return "", false
	}
	return userID, true
}

// decodeBody decodes a JSON body into dst, writing 400 on failure.
func decodeBody(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_JSON", "Invalid request body")
		return false
	}
	return true
}
