package model

import "time"

// SkillCategory constants.
const (
	SkillTechnical     = "technical"
	SkillSoft          = "soft"
	SkillLanguage      = "language"
	SkillCertification = "certification"
)

// ValidSkillCategories contains all valid skill categories.
var ValidSkillCategories = []string{SkillTechnical, SkillSoft, SkillLanguage, SkillCertification}

// Proficiency constants.
const (
	ProficiencyBeginner     = "beginner"
	ProficiencyIntermediate = "intermediate"
	ProficiencyAdvanced     = "advanced"
	ProficiencyExpert       = "expert"
)

// ValidProficiencies contains all valid proficiency levels.
var ValidProficiencies = []string{ProficiencyBeginner, ProficiencyIntermediate, ProficiencyAdvanced, ProficiencyExpert}

// MaxSkillYears is the largest value NUMERIC(3,1) holds.
const MaxSkillYears = 99.9

// UserSkill is a skill listed on a user's account.
type UserSkill struct {
	ID               string    `json:"id"`
	UserID           string    `json:"user_id"`
	SkillName        string    `json:"skill_name"`
	SkillCategory    *string   `json:"skill_category"`
	ProficiencyLevel *string   `json:"proficiency_level"`
	YearsExperience  *float64  `json:"years_experience"`
	IsPrimary        bool      `json:"is_primary"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
}

// SkillPatch is the create and update payload for a skill.
type SkillPatch struct {
	SkillName        *string  `json:"skill_name,omitempty"`
	SkillCategory    *string  `json:"skill_category,omitempty"`
	ProficiencyLevel *string  `json:"proficiency_level,omitempty"`
	YearsExperience  *float64 `json:"years_experience,omitempty"`
	IsPrimary        *bool    `json:"is_primary,omitempty"`
}

// Validate checks the present fields.
func (sp SkillPatch) Validate() string {
	if sp.SkillName != nil && *sp.SkillName == "" {
		return "skill_name must not be empty"
	}
	if y := sp.YearsExperience; y != nil && (*y < 0 || *y > MaxSkillYears) {
		return "years_experience must be between 0 and 99.9"
	}
	return firstReason(
		maxLen("skill_name", sp.SkillName, MaxSkillNameLength),
		oneOf("skill_category", sp.SkillCategory, ValidSkillCategories),
		oneOf("proficiency_level", sp.ProficiencyLevel, ValidProficiencies),
	)
}

// ValidateCreate is Validate plus the fields a new skill needs.
func (sp SkillPatch) ValidateCreate() string {
	return firstReason(required("skill_name", sp.SkillName), sp.Validate())
}

// Apply copies the present fields onto s.
func (sp SkillPatch) Apply(s *UserSkill) {
	if sp.SkillName != nil {
		s.SkillName = *sp.SkillName
	}
	setIfPresent(&s.SkillCategory, sp.SkillCategory)
	setIfPresent(&s.ProficiencyLevel, sp.ProficiencyLevel)
	setIfPresent(&s.YearsExperience, sp.YearsExperience)
	if sp.IsPrimary != nil {
		s.IsPrimary = *sp.IsPrimary
	}
}
