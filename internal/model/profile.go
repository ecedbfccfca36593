package model

import "time"

// WorkArrangement constants.
const (
	WorkRemote = "remote"
	WorkHybrid = "hybrid"
	WorkOnsite = "onsite"
)

// ValidWorkArrangements contains all valid preferred work types.
var ValidWorkArrangements = []string{WorkRemote, WorkHybrid, WorkOnsite}

// UserProfile is the extended job-seeker profile. One per user.
type UserProfile struct {
	ID                string    `json:"id"`
	UserID            string    `json:"user_id"`
	ResumeFileURL     *string   `json:"resume_file_url,omitempty"`
	ResumeText        *string   `json:"resume_text,omitempty"`
	LinkedInURL       *string   `json:"linkedin_url,omitempty"`
	GitHubURL         *string   `json:"github_url,omitempty"`
	PortfolioURL      *string   `json:"portfolio_url,omitempty"`
	Phone             *string   `json:"phone,omitempty"`
	LocationCity      *string   `json:"location_city,omitempty"`
	LocationState     *string   `json:"location_state,omitempty"`
	LocationCountry   *string   `json:"location_country,omitempty"`
	WillingToRelocate bool      `json:"willing_to_relocate"`
	YearsExperience   *int      `json:"years_experience,omitempty"`
	CurrentTitle      *string   `json:"current_title,omitempty"`
	TargetSalaryMin   *int      `json:"target_salary_min,omitempty"`
	TargetSalaryMax   *int      `json:"target_salary_max,omitempty"`
	PreferredWorkType *string   `json:"preferred_work_type,omitempty"`
	CreatedAt         time.Time `json:"created_at"`
	UpdatedAt         time.Time `json:"updated_at"`
}

// ProfilePatch carries a partial update of a profile.
// It doubles as the create payload: absent fields stay empty.
type ProfilePatch struct {
	ResumeFileURL     *string `json:"resume_file_url,omitempty"`
	ResumeText        *string `json:"resume_text,omitempty"`
	LinkedInURL       *string `json:"linkedin_url,omitempty"`
	GitHubURL         *string `json:"github_url,omitempty"`
	PortfolioURL      *string `json:"portfolio_url,omitempty"`
	Phone             *string `json:"phone,omitempty"`
	LocationCity      *string `json:"location_city,omitempty"`
	LocationState     *string `json:"location_state,omitempty"`
	LocationCountry   *string `json:"location_country,omitempty"`
	WillingToRelocate *bool   `json:"willing_to_relocate,omitempty"`
	YearsExperience   *int    `json:"years_experience,omitempty"`
	CurrentTitle      *string `json:"current_title,omitempty"`
	TargetSalaryMin   *int    `json:"target_salary_min,omitempty"`
	TargetSalaryMax   *int    `json:"target_salary_max,omitempty"`
	PreferredWorkType *string `json:"preferred_work_type,omitempty"`
}

// Apply copies the present fields onto p.
func (pp ProfilePatch) Apply(p *UserProfile) {
	setIfPresent(&p.ResumeFileURL, pp.ResumeFileURL)
	setIfPresent(&p.ResumeText, pp.ResumeText)
	setIfPresent(&p.LinkedInURL, pp.LinkedInURL)
	setIfPresent(&p.GitHubURL, pp.GitHubURL)
	setIfPresent(&p.PortfolioURL, pp.PortfolioURL)
	setIfPresent(&p.Phone, pp.Phone)
	setIfPresent(&p.LocationCity, pp.LocationCity)
	setIfPresent(&p.LocationState, pp.LocationState)
	setIfPresent(&p.LocationCountry, pp.LocationCountry)
	setIfPresent(&p.YearsExperience, pp.YearsExperience)
	setIfPresent(&p.CurrentTitle, pp.CurrentTitle)
	setIfPresent(&p.TargetSalaryMin, pp.TargetSalaryMin)
	setIfPresent(&p.TargetSalaryMax, pp.TargetSalaryMax)
	setIfPresent(&p.PreferredWorkType, pp.PreferredWorkType)
	if pp.WillingToRelocate != nil {
		p.WillingToRelocate = *pp.WillingToRelocate
	}
}

// Validate checks field-level constraints of the patch.
// It returns a human readable reason, or "" if valid.
func (pp ProfilePatch) Validate() string {
	if pp.YearsExperience != nil && *pp.YearsExperience < 0 {
		return "years_experience must not be negative"
	}
	if (pp.TargetSalaryMin != nil && *pp.TargetSalaryMin < 0) || (pp.TargetSalaryMax != nil && *pp.TargetSalaryMax < 0) {
		return "target salary must not be negative"
	}
	return firstReason(
		oneOf("preferred_work_type", pp.PreferredWorkType, ValidWorkArrangements),
		maxLen("resume_file_url", pp.ResumeFileURL, MaxResumeURLLength),
		maxLen("linkedin_url", pp.LinkedInURL, MaxURLLength),
		maxLen("github_url", pp.GitHubURL, MaxURLLength),
		maxLen("portfolio_url", pp.PortfolioURL, MaxURLLength),
		maxLen("phone", pp.Phone, MaxPhoneLength),
		maxLen("location_city", pp.LocationCity, MaxCityLength),
		maxLen("location_state", pp.LocationState, MaxRegionLength),
		maxLen("location_country", pp.LocationCountry, MaxRegionLength),
		maxLen("current_title", pp.CurrentTitle, MaxTitleLength),
		salaryOrder(pp.TargetSalaryMin, pp.TargetSalaryMax),
	)
}

// Validate checks constraints spanning fields of the stored profile,
// after a patch has been applied.
func (p *UserProfile) Validate() string {
	return salaryOrder(p.TargetSalaryMin, p.TargetSalaryMax)
}

func salaryOrder(lo, hi *int) string {
	if lo != nil && hi != nil && *lo > *hi {
		return "target_salary_min must not exceed target_salary_max"
	}
	return ""
}

func setIfPresent[T any](dst **T, src *T) {
	if src != nil {
		v := *src
		*dst = &v
	}
}
