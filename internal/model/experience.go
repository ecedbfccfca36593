package model

import (
	"fmt"
	"slices"
	"time"
)

// DateLayout is the wire format of calendar dates.
const DateLayout = time.DateOnly

// Date is a calendar date in UTC, encoded as "2006-01-02".
type Date struct {
	time.Time
}

// NewDate returns the given calendar day.
func NewDate(year int, month time.Month, day int) Date {
	return Date{time.Date(year, month, day, 0, 0, 0, 0, time.UTC)}
}

// MarshalJSON implements json.Marshaler.
func (d Date) MarshalJSON() ([]byte, error) {
	return []byte(`"` + d.Format(DateLayout) + `"`), nil
}

// UnmarshalJSON implements json.Unmarshaler.
func (d *Date) UnmarshalJSON(b []byte) error {
	if len(b) < 2 || b[0] != '"' || b[len(b)-1] != '"' {
		return fmt.Errorf("date must be a %q string", DateLayout)
	}
	t, err := time.Parse(DateLayout, string(b[1:len(b)-1]))
	if err != nil {
		return fmt.Errorf("date must be a %q string", DateLayout)
	}
	d.Time = t
	return nil
}

// UserExperience is one entry of a user's work history.
type UserExperience struct {
	ID               string    `json:"id"`
	UserID           string    `json:"user_id"`
	CompanyName      string    `json:"company_name"`
	JobTitle         string    `json:"job_title"`
	StartDate        Date      `json:"start_date"`
	EndDate          *Date     `json:"end_date"`
	IsCurrent        bool      `json:"is_current"`
	Description      *string   `json:"description"`
	Achievements     []string  `json:"achievements"`
	TechnologiesUsed []string  `json:"technologies_used"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
}

// Validate checks constraints spanning fields, after a patch has been applied.
func (e *UserExperience) Validate() string {
	if e.EndDate != nil && e.EndDate.Before(e.StartDate.Time) {
		return "end_date must not be before start_date"
	}
	return ""
}

// ExperiencePatch is the create and update payload for an experience.
type ExperiencePatch struct {
	CompanyName      *string   `json:"company_name,omitempty"`
	JobTitle         *string   `json:"job_title,omitempty"`
	StartDate        *Date     `json:"start_date,omitempty"`
	EndDate          *Date     `json:"end_date,omitempty"`
	IsCurrent        *bool     `json:"is_current,omitempty"`
	Description      *string   `json:"description,omitempty"`
	Achievements     *[]string `json:"achievements,omitempty"`
	TechnologiesUsed *[]string `json:"technologies_used,omitempty"`
}

// Validate checks the present fields.
func (ep ExperiencePatch) Validate() string {
	if ep.CompanyName != nil && *ep.CompanyName == "" {
		return "company_name must not be empty"
	}
	if ep.JobTitle != nil && *ep.JobTitle == "" {
		return "job_title must not be empty"
	}
	return firstReason(
		maxLen("company_name", ep.CompanyName, MaxCompanyLength),
		maxLen("job_title", ep.JobTitle, MaxTitleLength),
	)
}

// ValidateCreate is Validate plus the fields a new experience needs.
func (ep ExperiencePatch) ValidateCreate() string {
	startDate := ""
	if ep.StartDate == nil {
		startDate = "start_date is required"
	}
	return firstReason(
		required("company_name", ep.CompanyName),
		required("job_title", ep.JobTitle),
		startDate,
		ep.Validate(),
	)
}

// Apply copies the present fields onto e.
func (ep ExperiencePatch) Apply(e *UserExperience) {
	if ep.CompanyName != nil {
		e.CompanyName = *ep.CompanyName
	}
	if ep.JobTitle != nil {
		e.JobTitle = *ep.JobTitle
	}
	if ep.StartDate != nil {
		e.StartDate = *ep.StartDate
	}
	setIfPresent(&e.EndDate, ep.EndDate)
	if ep.IsCurrent != nil {
		e.IsCurrent = *ep.IsCurrent
	}
	setIfPresent(&e.Description, ep.Description)
	if ep.Achievements != nil {
		e.Achievements = slices.Clone(*ep.Achievements)
	}
	if ep.TechnologiesUsed != nil {
		e.TechnologiesUsed = slices.Clone(*ep.TechnologiesUsed)
	}
}
