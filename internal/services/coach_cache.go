package services

import (
	"context"
	"encoding/json"
	"log"
	"time"

	"github.com/AnshRaj112/fitify-backend/internal/database"
	"github.com/AnshRaj112/fitify-backend/internal/models"
)

const (
	coachRecentMaxLen = 50
	coachRecentTTL    = 1 * time.Hour
)

func coachRecentKey(userID string) string {
	return "coach:user:" + userID + ":recent"
}

// pushCoachRecent adds a message to the head of the recent list, keeping the last 50.
func pushCoachRecent(msg models.CoachMessage) {
	if database.RedisClient == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	data, err := json.Marshal(msg)
	if err != nil {
		return
	}

	key := coachRecentKey(msg.UserID)
	pipe := database.RedisClient.Pipeline()
	pipe.LPush(ctx, key, data)
	pipe.LTrim(ctx, key, 0, coachRecentMaxLen-1)
	pipe.Expire(ctx, key, coachRecentTTL)
	if _, err := pipe.Exec(ctx); err != nil {
		log.Printf("[coach] cache push failed for %s: %v", msg.UserID, err)
	}
}

// recentCoachMessages returns cached messages oldest first; ok is false on a miss.
func recentCoachMessages(ctx context.Context, userID string) ([]models.CoachMessage, bool) {
	if database.RedisClient == nil {
		return nil, false
	}

	raw, err := database.RedisClient.LRange(ctx, coachRecentKey(userID), 0, -1).Result()
	if err != nil || len(raw) == 0 {
		return nil, false
	}

	msgs := make([]models.CoachMessage, 0, len(raw))
	for i := len(raw) - 1; i >= 0; i-- {
		var m models.CoachMessage
		if json.Unmarshal([]byte(raw[i]), &m) != nil {
			continue
		}
		msgs = append(msgs, m)
	}
	return msgs, true
}

// warmCoachRecent replaces the recent list with msgs (oldest first).
func warmCoachRecent(ctx context.Context, userID string, msgs []models.CoachMessage) {
	if database.RedisClient == nil || len(msgs) == 0 {
		return
	}

	key := coachRecentKey(userID)
	pipe := database.RedisClient.TxPipeline()
	pipe.Del(ctx, key)
	for i := len(msgs) - 1; i >= 0; i-- {
		data, err := json.Marshal(msgs[i])
		if err != nil {
			continue
		}
		pipe.RPush(ctx, key, data)
	}
	pipe.LTrim(ctx, key, 0, coachRecentMaxLen-1)
	pipe.Expire(ctx, key, coachRecentTTL)
	if _, err := pipe.Exec(ctx); err != nil {
		log.Printf("[coach] cache warm failed for %s: %v", userID, err)
	}
}

// LoadCoachHistory serves the first page from Redis when possible and falls
// back to Mongo, warming the cache on the way out.
func LoadCoachHistory(ctx context.Context, userID string, before *time.Time, limit int64) ([]models.CoachMessage, bool, error) {
	limit = clampHistoryLimit(limit)

	if before == nil {
		if cached, ok := recentCoachMessages(ctx, userID); ok && int64(len(cached)) > limit {
			return cached[int64(len(cached))-limit:], true, nil
		}
	}

	msgs, hasMore, err := LoadCoachMessages(ctx, userID, before, limit)
	if err != nil {
		return nil, false, err
	}
	if before == nil && len(msgs) > 0 {
		warmCoachRecent(ctx, userID, msgs)
	}
	return msgs, hasMore, nil
}
