package usecase

import (
	"context"
	"encoding/json"
	"time"

	cacheport "tabangi/internal/infrastructure/cache/port"
	profile "tabangi/internal/pkg/profile/domain"
	repository "tabangi/internal/pkg/profile/persistence/repository/port"
)

const summaryCacheTTL = 2 * time.Minute

// SummaryCache fronts profile summary lookups with a short-TTL cache to
// bound the inbox projection's join fan-out. Cache failures fall through to
// the repository; a stale summary only delays a renamed counterpart showing
// its new name.
type SummaryCache struct {
	Repo  repository.ProfileRepository
	Cache cacheport.Cache
}

func NewSummaryCache(repo repository.ProfileRepository, cache cacheport.Cache) *SummaryCache {
	return &SummaryCache{Repo: repo, Cache: cache}
}

func summaryCacheKey(userID string) string { return "profile:summary:" + userID }

// Summary satisfies the chat projector's ProfileReader.
func (c *SummaryCache) Summary(ctx context.Context, userID string) (profile.Summary, error) {
	key := summaryCacheKey(userID)

	// Misses and transport failures both fall through to the repository.
	if cached, err := c.Cache.Get(ctx, key); err == nil {
		var s profile.Summary
		if json.Unmarshal([]byte(cached), &s) == nil {
			return s, nil
		}
	}

	s, err := c.Repo.Summary(ctx, userID)
	if err != nil {
		return profile.Summary{}, err
	}
	if b, err := json.Marshal(s); err == nil {
		_ = c.Cache.Set(ctx, key, string(b), summaryCacheTTL)
	}
	return s, nil
}

// Invalidate drops the cached summary, called after profile mutations.
func (c *SummaryCache) Invalidate(ctx context.Context, userID string) {
	_, _ = c.Cache.Del(ctx, summaryCacheKey(userID))
}
