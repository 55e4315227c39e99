// internal/cache/members.go
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"alumni-api/internal/models"

	"github.com/redis/go-redis/v9"
)

const versionKey = "members:version"

// MemberCache holds the public member listings. Every write bumps a version
// counter that is part of each listing key, so stale listings are never read
// again and simply expire.
type MemberCache struct {
	redis *redis.Client
	ttl   time.Duration
}

func NewMemberCache(redisURL string, ttl time.Duration) (*MemberCache, error) {
	opt, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("invalid redis URL: %v", err)
	}

	client := redis.NewClient(opt)
	if err := client.Ping(context.Background()).Err(); err != nil {
		return nil, fmt.Errorf("redis connection failed: %v", err)
	}

	return NewMemberCacheWithClient(client, ttl), nil
}

func NewMemberCacheWithClient(client *redis.Client, ttl time.Duration) *MemberCache {
	return &MemberCache{
		redis: client,
		ttl:   ttl,
	}
}

// Get returns the cached listing for batch, or for all members when batch
// is empty. The bool is false on a miss.
func (c *MemberCache) Get(ctx context.Context, batch string) ([]models.Member, bool, error) {
	key, err := c.listingKey(ctx, batch)
	if err != nil {
		return nil, false, err
	}

	raw, err := c.redis.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}

	var members []models.Member
	if err := json.Unmarshal(raw, &members); err != nil {
		return nil, false, fmt.Errorf("decode cached members: %w", err)
	}
	return members, true, nil
}

func (c *MemberCache) Set(ctx context.Context, batch string, members []models.Member) error {
	key, err := c.listingKey(ctx, batch)
	if err != nil {
		return err
	}

	raw, err := json.Marshal(members)
	if err != nil {
		return fmt.Errorf("encode members: %w", err)
	}
	return c.redis.Set(ctx, key, raw, c.ttl).Err()
}

func (c *MemberCache) Invalidate(ctx context.Context) error {
	return c.redis.Incr(ctx, versionKey).Err()
}

func (c *MemberCache) Ping(ctx context.Context) error {
	return c.redis.Ping(ctx).Err()
}

func (c *MemberCache) Close() error {
	return c.redis.Close()
}

func (c *MemberCache) listingKey(ctx context.Context, batch string) (string, error) {
	version, err := c.redis.Get(ctx, versionKey).Int64()
	if err != nil && !errors.Is(err, redis.Nil) {
		return "", err
	}
	if batch == "" {
		return fmt.Sprintf("members:v%d:all", version), nil
	}
	return fmt.Sprintf("members:v%d:batch:%s", version, batch), nil
}
