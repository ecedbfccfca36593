// Package model defines domain entities for the application.
package model

import (
	"slices"
	"strings"
	"time"
)

// SubscriptionTier constants.
const (
	TierFree       = "free"
	TierBasic      = "basic"
	TierPremium    = "premium"
	TierEnterprise = "enterprise"
)

// ValidTiers contains all valid subscription tiers.
var ValidTiers = []string{TierFree, TierBasic, TierPremium, TierEnterprise}

// IsValidTier reports whether tier is a known subscription tier.
func IsValidTier(tier string) bool {
	return slices.Contains(ValidTiers, tier)
}

// User is the authenticated identity record.
type User struct {
	ID               string     `json:"id"`
	Email            string     `json:"email"`
	PasswordHash     string     `json:"-"` // Never serialize
	FirstName        *string    `json:"first_name,omitempty"`
	LastName         *string    `json:"last_name,omitempty"`
	Phone            *string    `json:"phone,omitempty"`
	IsActive         bool       `json:"is_active"`
	EmailVerified    bool       `json:"email_verified"`
	SubscriptionTier string     `json:"subscription_tier"`
	LastLoginAt      *time.Time `json:"last_login_at,omitempty"`
	CreatedAt        time.Time  `json:"created_at"`
	UpdatedAt        time.Time  `json:"updated_at"`
}

// UserPatch carries a self-service partial update of a user.
// Nil fields are left untouched. Account flags and tier are not
// self-service and therefore have no patch field.
type UserPatch struct {
	Email     *string `json:"email,omitempty"`
	FirstName *string `json:"first_name,omitempty"`
	LastName  *string `json:"last_name,omitempty"`
	Phone     *string `json:"phone,omitempty"`
}

// IsEmpty returns true if the patch changes nothing.
func (p UserPatch) IsEmpty() bool {
	return p.Email == nil && p.FirstName == nil && p.LastName == nil && p.Phone == nil
}

// Validate checks the present fields against column limits.
// It returns a human readable reason, or "" if valid.
func (p UserPatch) Validate() string {
	return firstReason(
		maxLen("email", p.Email, MaxEmailLength),
		maxLen("first_name", p.FirstName, MaxNameLength),
		maxLen("last_name", p.LastName, MaxNameLength),
		maxLen("phone", p.Phone, MaxPhoneLength),
	)
}

// Apply copies the present fields onto u.
func (p UserPatch) Apply(u *User) {
	if p.Email != nil {
		u.Email = NormalizeEmail(*p.Email)
	}
	if p.FirstName != nil {
		u.FirstName = p.FirstName
	}
	if p.LastName != nil {
		u.LastName = p.LastName
	}
	if p.Phone != nil {
		u.Phone = p.Phone
	}
}

// NormalizeEmail lower-cases and trims an email address so that
// uniqueness holds regardless of the casing a client submits.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// AuthContext holds the identity resolved for the current request.
// It is injected into the request context by the auth middleware.
type AuthContext struct {
	UserID           string
	Email            string
	IsActive         bool
	SubscriptionTier string
}
