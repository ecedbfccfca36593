package model

import (
	"fmt"
	"slices"
	"strings"
	"unicode/utf8"
)

// Column limits, counted in characters like Postgres VARCHAR(n).
const (
	MaxEmailLength     = 255
	MaxNameLength      = 100
	MaxPhoneLength     = 20
	MaxURLLength       = 255
	MaxResumeURLLength = 500
	MaxCityLength      = 100
	MaxRegionLength    = 50
	MaxTitleLength     = 200
	MaxSkillNameLength = 100
	MaxCompanyLength   = 200
)

// firstReason returns the first non-empty reason.
func firstReason(reasons ...string) string {
	for _, r := range reasons {
		if r != "" {
			return r
		}
	}
	return ""
}

func maxLen(field string, v *string, limit int) string {
	if v != nil && utf8.RuneCountInString(*v) > limit {
		return fmt.Sprintf("%s must be at most %d characters", field, limit)
	}
	return ""
}

func required(field string, v *string) string {
	if v == nil || strings.TrimSpace(*v) == "" {
		return field + " is required"
	}
	return ""
}

func oneOf(field string, v *string, allowed []string) string {
	if v != nil && !slices.Contains(allowed, *v) {
		return fmt.Sprintf("%s must be one of %s", field, strings.Join(allowed, ", "))
	}
	return ""
}
