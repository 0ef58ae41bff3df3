package middleware

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/AnshRaj112/fitify-backend/internal/database"
	"github.com/AnshRaj112/fitify-backend/pkg/clientip"
	"github.com/redis/go-redis/v9"
)

const (
	// RateLimitWindow is the fixed counting window per IP.
	RateLimitWindow = 120 * time.Second
	// RateLimitMaxRequests is the number of requests allowed in one window.
	RateLimitMaxRequests = 120
	// RateLimitKeyPrefix is the Redis key prefix for per-IP counters.
	RateLimitKeyPrefix = "ratelimit:"
	// BlockedIPKeyPrefix is the Redis key prefix for blocked IPs.
	BlockedIPKeyPrefix = "blocked_ip:"
	// BlockedIPDuration is how long an IP stays blocked after exceeding the limit.
	BlockedIPDuration = 15 * time.Minute

	redisLimitTimeout = 500 * time.Millisecond
)

// RateLimitMiddleware counts requests per IP in Redis and blocks IPs that
// exceed the window. Requests pass through when Redis is unavailable.
func RateLimitMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if database.RedisClient == nil {
			next.ServeHTTP(w, r)
			return
		}

		ip := clientip.RealClientIP(r)
		ctx, cancel := context.WithTimeout(r.Context(), redisLimitTimeout)
		defer cancel()

		blocked, err := IsIPBlocked(ctx, ip)
		if err == nil && blocked {
			w.Header().Set("Retry-After", strconv.Itoa(int(BlockedIPDuration.Seconds())))
			tooManyRequests(w, "Your IP has been temporarily blocked due to excessive requests. Please try again later.")
			return
		}

		count, err := incrWindow(ctx, database.RedisClient, RateLimitKeyPrefix+ip)
		if err != nil {
			log.Printf("ratelimit: redis error for %s: %v", ip, err)
			next.ServeHTTP(w, r)
			return
		}

		if count > RateLimitMaxRequests {
			if err := database.RedisClient.Set(ctx, BlockedIPKeyPrefix+ip, "1", BlockedIPDuration).Err(); err != nil {
				log.Printf("ratelimit: failed to block %s: %v", ip, err)
			}
			w.Header().Set("Retry-After", strconv.Itoa(int(BlockedIPDuration.Seconds())))
			tooManyRequests(w, fmt.Sprintf("Rate limit exceeded. Try again in %d minutes.", int(BlockedIPDuration.Minutes())))
			return
		}

		w.Header().Set("X-RateLimit-Limit", strconv.Itoa(RateLimitMaxRequests))
		w.Header().Set("X-RateLimit-Remaining", strconv.FormatInt(RateLimitMaxRequests-count, 10))
		next.ServeHTTP(w, r)
	})
}

// incrWindow bumps the counter and starts its TTL on the first hit of a window.
func incrWindow(ctx context.Context, rdb *redis.Client, key string) (int64, error) {
	count, err := rdb.Incr(ctx, key).Result()
	if err != nil {
		return 0, err
	}
	if count == 1 {
		if err := rdb.Expire(ctx, key, RateLimitWindow).Err(); err != nil {
			return count, err
		}
	}
	return count, nil
}

// IsIPBlocked checks if an IP is currently blocked.
func IsIPBlocked(ctx context.Context, ip string) (bool, error) {
	count, err := database.RedisClient.Exists(ctx, BlockedIPKeyPrefix+ip).Result()
	return count > 0, err
}
