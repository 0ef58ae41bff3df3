package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/AnshRaj112/fitify-backend/internal/database"
	"github.com/redis/go-redis/v9"
)

const (
	// CacheKeyPrefix is the Redis key prefix for cached data
	CacheKeyPrefix = "cache:"
	// DefaultCacheTTL applies when callers do not pass one
	DefaultCacheTTL = 10 * time.Minute
	MinCacheTTL     = 30 * time.Second
	MaxCacheTTL     = 12 * time.Hour
)

// CacheService is a JSON cache over Redis. A nil Redis client makes every
// lookup a miss and every write a no-op.
type CacheService struct{}

// Get retrieves a value from cache
func (c *CacheService) Get(ctx context.Context, key string, dest interface{}) (bool, error) {
	if database.RedisClient == nil {
		return false, nil
	}

	val, err := database.RedisClient.Get(ctx, CacheKeyPrefix+key).Result()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		// Cache outages degrade to a miss
		log.Printf("cache: get %s failed: %v", key, err)
		return false, nil
	}

	if err := json.Unmarshal([]byte(val), dest); err != nil {
		return false, err
	}
	return true, nil
}

// Set stores a value in cache with default TTL
func (c *CacheService) Set(ctx context.Context, key string, value interface{}) error {
	return c.SetWithTTL(ctx, key, value, DefaultCacheTTL)
}

// SetWithTTL stores a value with ttl clamped to [MinCacheTTL, MaxCacheTTL].
func (c *CacheService) SetWithTTL(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	if database.RedisClient == nil {
		return nil
	}

	jsonData, err := json.Marshal(value)
	if err != nil {
		return err
	}

	return database.RedisClient.Set(ctx, CacheKeyPrefix+key, jsonData, clampTTL(ttl)).Err()
}

// Delete removes values from cache
func (c *CacheService) Delete(ctx context.Context, keys ...string) error {
	if database.RedisClient == nil || len(keys) == 0 {
		return nil
	}
	full := make([]string, len(keys))
	for i, k := range keys {
		full[i] = CacheKeyPrefix + k
	}
	return database.RedisClient.Del(ctx, full...).Err()
}

func clampTTL(ttl time.Duration) time.Duration {
	if ttl < MinCacheTTL {
		return MinCacheTTL
	}
	if ttl > MaxCacheTTL {
		return MaxCacheTTL
	}
	return ttl
}

// CacheKey generates a cache key for a specific resource
func CacheKey(resource string, identifiers ...string) string {
	key := resource
	for _, id := range identifiers {
		key = fmt.Sprintf("%s:%s", key, id)
	}
	return key
}

func dashboardCacheKey(userID, date string) string {
	return CacheKey("dashboard", userID, date)
}

// InvalidateDashboard drops the cached dashboard for one user and date.
func InvalidateDashboard(ctx context.Context, userID, date string) {
	if err := Cache.Delete(ctx, dashboardCacheKey(userID, date)); err != nil {
		log.Printf("cache: invalidate dashboard %s/%s failed: %v", userID, date, err)
	}
}

// invalidateUserDashboards drops every cached dashboard for a user. Used when
// goals change, since every day's progress view depends on them.
func invalidateUserDashboards(ctx context.Context, userID string) {
	if database.RedisClient == nil {
		return
	}
	pattern := CacheKeyPrefix + CacheKey("dashboard", userID, "*")
	iter := database.RedisClient.Scan(ctx, 0, pattern, 100).Iterator()
	var keys []string
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}
	if err := iter.Err(); err != nil {
		log.Printf("cache: scan dashboards for %s failed: %v", userID, err)
		return
	}
	if len(keys) > 0 {
		database.RedisClient.Del(ctx, keys...)
	}
}

// Global cache service instance
var Cache = &CacheService{}
