package cache

import (
	"context"
	"time"

	"github.com/jobpilot/jobpilot/internal/model"
)

const (
	// profileCachePrefix is the Redis key prefix for cached profiles.
	profileCachePrefix = "profile:user:"
	// profileCacheTTL is the time-to-live for cached profiles.
	profileCacheTTL = 5 * time.Minute
)

func profileKey(userID string) string {
	return profileCachePrefix + userID
}

// GetProfile returns the cached profile for userID.
// Returns nil on a miss or any cache failure.
func (c *Cache) GetProfile(ctx context.Context, userID string) *model.UserProfile {
	var p model.UserProfile
	if err := c.Get(ctx, profileKey(userID), &p); err != nil {
		return nil
	}
	return &p
}

// SetProfile caches a profile.
func (c *Cache) SetProfile(ctx context.Context, p *model.UserProfile) error {
	return c.Set(ctx, profileKey(p.UserID), p, profileCacheTTL)
}

// DeleteProfile evicts the cached profile for userID.
// Called on every profile write.
func (c *Cache) DeleteProfile(ctx context.Context, userID string) error {
	return c.Delete(ctx, profileKey(userID))
}
