// Package cache provides the Redis-backed public feed cache. The feed is
// re-fetched from the document store at most once per TTL window and
// invalidated whenever a video is created, edited or deleted.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/sportscast/sportscast-api-go/internal/config"
	"github.com/sportscast/sportscast-api-go/internal/db/models"
)

const feedKey = "feed:videos"

// FeedCache caches the public feed between revalidations.
type FeedCache interface {
	// GetFeed returns the cached feed and true on a hit.
	GetFeed(ctx context.Context) ([]*models.Video, bool, error)

	// SetFeed stores the feed for the configured TTL.
	SetFeed(ctx context.Context, videos []*models.Video) error

	// Invalidate drops the cached feed.
	Invalidate(ctx context.Context) error
}

// RedisFeedCache implements FeedCache on a Redis backend.
type RedisFeedCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisFeedCache connects to Redis and verifies the connection.
func NewRedisFeedCache(ctx context.Context, cfg *config.RedisConfig) (*RedisFeedCache, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("ping redis: %w", err)
	}

	return &RedisFeedCache{client: client, ttl: cfg.FeedTTL}, nil
}

// Close releases the Redis connection.
func (c *RedisFeedCache) Close() error {
	return c.client.Close()
}

func (c *RedisFeedCache) GetFeed(ctx context.Context) ([]*models.Video, bool, error) {
	data, err := c.client.Get(ctx, feedKey).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("get cached feed: %w", err)
	}

	var videos []*models.Video
	if err := json.Unmarshal(data, &videos); err != nil {
		// A corrupt entry is treated as a miss; it will be overwritten.
		return nil, false, nil
	}

	return videos, true, nil
}

func (c *RedisFeedCache) SetFeed(ctx context.Context, videos []*models.Video) error {
	data, err := json.Marshal(videos)
	if err != nil {
		return fmt.Errorf("marshal feed: %w", err)
	}

	if err := c.client.Set(ctx, feedKey, data, c.ttl).Err(); err != nil {
		return fmt.Errorf("set cached feed: %w", err)
	}

	return nil
}

func (c *RedisFeedCache) Invalidate(ctx context.Context) error {
	if err := c.client.Del(ctx, feedKey).Err(); err != nil {
		return fmt.Errorf("invalidate cached feed: %w", err)
	}
	return nil
}
