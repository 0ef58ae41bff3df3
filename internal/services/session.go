package services

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
	"time"

	"github.com/AnshRaj112/fitify-backend/internal/database"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const (
	// SessionDuration is 7 days
	SessionDuration = 7 * 24 * time.Hour
	// SessionKeyPrefix is the Redis key prefix for sessions
	SessionKeyPrefix = "session:"
	// UserSessionKeyPrefix is the Redis key prefix for user->session mapping
	UserSessionKeyPrefix = "user_session:"
)

var errSessionStoreUnavailable = errors.New("session store unavailable")

// CreateSession stores a new session token for the user.
// Any previous session is invalidated so there is one active login per user.
func CreateSession(ctx context.Context, userID uuid.UUID) (string, error) {
	if database.RedisClient == nil {
		return "", errSessionStoreUnavailable
	}

	if err := InvalidateUserSessions(ctx, userID); err != nil {
		return "", err
	}

	tokenBytes := make([]byte, 32)
	if _, err := rand.Read(tokenBytes); err != nil {
		return "", err
	}
	sessionToken := base64.URLEncoding.EncodeToString(tokenBytes)

	pipe := database.RedisClient.TxPipeline()
	pipe.Set(ctx, SessionKeyPrefix+sessionToken, userID.String(), SessionDuration)
	pipe.Set(ctx, UserSessionKeyPrefix+userID.String(), sessionToken, SessionDuration)
	if _, err := pipe.Exec(ctx); err != nil {
		return "", fmt.Errorf("store session: %w", err)
	}

	return sessionToken, nil
}

// ValidateSession checks if a session token is valid and returns the user ID
func ValidateSession(ctx context.Context, sessionToken string) (uuid.UUID, bool, error) {
	if sessionToken == "" || database.RedisClient == nil {
		return uuid.Nil, false, nil
	}

	userIDStr, err := database.RedisClient.Get(ctx, SessionKeyPrefix+sessionToken).Result()
	if errors.Is(err, redis.Nil) {
		return uuid.Nil, false, nil
	}
	if err != nil {
		return uuid.Nil, false, err
	}

	userID, err := uuid.Parse(userIDStr)
	if err != nil {
		return uuid.Nil, false, err
	}

	return userID, true, nil
}

// RefreshSession extends the session expiration by 7 days from now
func RefreshSession(ctx context.Context, sessionToken string) error {
	if sessionToken == "" {
		return fmt.Errorf("session token is empty")
	}
	if database.RedisClient == nil {
		return errSessionStoreUnavailable
	}

	sessionKey := SessionKeyPrefix + sessionToken
	userIDStr, err := database.RedisClient.Get(ctx, sessionKey).Result()
	if err != nil {
		return err
	}

	pipe := database.RedisClient.TxPipeline()
	pipe.Expire(ctx, sessionKey, SessionDuration)
	pipe.Expire(ctx, UserSessionKeyPrefix+userIDStr, SessionDuration)
	_, err = pipe.Exec(ctx)
	return err
}

// InvalidateSession removes a session from Redis
func InvalidateSession(ctx context.Context, sessionToken string) error {
	if sessionToken == "" || database.RedisClient == nil {
		return nil
	}

	sessionKey := SessionKeyPrefix + sessionToken

	userIDStr, err := database.RedisClient.Get(ctx, sessionKey).Result()
	if err == nil && userIDStr != "" {
		database.RedisClient.Del(ctx, UserSessionKeyPrefix+userIDStr)
	}

	return database.RedisClient.Del(ctx, sessionKey).Err()
}

// InvalidateUserSessions drops the user's current session, if any.
func InvalidateUserSessions(ctx context.Context, userID uuid.UUID) error {
	if database.RedisClient == nil {
		return nil
	}
	userSessionKey := UserSessionKeyPrefix + userID.String()

	sessionToken, err := database.RedisClient.Get(ctx, userSessionKey).Result()
	if err == nil && sessionToken != "" {
		database.RedisClient.Del(ctx, SessionKeyPrefix+sessionToken)
	}

	return database.RedisClient.Del(ctx, userSessionKey).Err()
}
