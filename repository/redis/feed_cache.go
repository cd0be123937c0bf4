package redis

import (
	"context"
	"encoding/json"
	"time"

	redislib "github.com/redis/go-redis/v9"

	"github.com/foodbridge/backend/domain"
)

const feedKey = "feed:available"

// FeedCache keeps the public available-listings feed in Redis so the hot
// read path does not hit Postgres on every request. The cache is advisory:
// misses and Redis failures fall through to the repository.
type FeedCache struct {
	client *redislib.Client
	ttl    time.Duration
}

// NewFeedCache creates a Redis-backed feed cache.
func NewFeedCache(client *redislib.Client, ttl time.Duration) *FeedCache {
	if ttl <= 0 {
		ttl = 30 * time.Second
	}
	return &FeedCache{
		client: client,
		ttl:    ttl,
	}
}

// Get returns the cached feed, or (nil, false) on a miss or decode failure.
func (c *FeedCache) Get(ctx context.Context) ([]domain.Listing, bool) {
	if c == nil || c.client == nil {
		return nil, false
	}

	payload, err := c.client.Get(ctx, feedKey).Bytes()
	if err != nil {
		return nil, false
	}

	var listings []domain.Listing
	if err := json.Unmarshal(payload, &listings); err != nil {
		return nil, false
	}
	return listings, true
}

// Set stores the feed snapshot with the configured TTL.
func (c *FeedCache) Set(ctx context.Context, listings []domain.Listing) error {
	if c == nil || c.client == nil {
		return nil
	}

	payload, err := json.Marshal(listings)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, feedKey, payload, c.ttl).Err()
}

// Invalidate drops the cached feed. Called whenever a listing is created,
// updated, deleted or claimed so stale availability never outlives the TTL.
func (c *FeedCache) Invalidate(ctx context.Context) error {
	if c == nil || c.client == nil {
		return nil
	}
	return c.client.Del(ctx, feedKey).Err()
}
