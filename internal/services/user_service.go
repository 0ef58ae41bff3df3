package services

import (
	"context"
	"crypto/sha256"
	"database/sql"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"

	"github.com/AnshRaj112/fitify-backend/internal/database"
	"github.com/AnshRaj112/fitify-backend/internal/models"
	"github.com/google/uuid"
)

// CreateUser inserts the account and its empty profile row in one transaction.
func CreateUser(ctx context.Context, email, passwordHash, fullName string) (*models.User, error) {
	tx, err := database.PostgresDB.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	user := &models.User{ID: uuid.New().String(), Email: email, IsActive: true}
	err = tx.QueryRowContext(ctx, `
		INSERT INTO users (id, email, password_hash)
		VALUES ($1, $2, $3)
		RETURNING created_at
	`, user.ID, email, passwordHash).Scan(&user.CreatedAt)
	if err != nil {
		if isUniqueViolation(err, "") {
			return nil, ErrEmailTaken
		}
		return nil, fmt.Errorf("insert user: %w", err)
	}

	if _, err := tx.ExecContext(ctx, `
		INSERT INTO profiles (user_id, full_name) VALUES ($1, $2)
	`, user.ID, strings.TrimSpace(fullName)); err != nil {
		return nil, fmt.Errorf("insert profile: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}
	return user, nil
}

// GetUserByEmail looks up an active user; email is matched case-insensitively.
func GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	var u models.User
	err := database.PostgresDB.QueryRowContext(ctx, `
		SELECT id, email, password_hash, created_at, is_active
		FROM users WHERE LOWER(email) = $1 AND is_active = TRUE
	`, strings.ToLower(email)).Scan(&u.ID, &u.Email, &u.PasswordHash, &u.CreatedAt, &u.IsActive)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}

// GetUserByID returns the active user with the given id.
func GetUserByID(ctx context.Context, userID string) (*models.User, error) {
	parsedID, err := uuid.Parse(userID)
	if err != nil {
		return nil, ErrUserNotFound
	}

	var u models.User
	err = database.PostgresDB.QueryRowContext(ctx, `
		SELECT id, email, password_hash, created_at, is_active
		FROM users WHERE id = $1 AND is_active = TRUE
	`, parsedID).Scan(&u.ID, &u.Email, &u.PasswordHash, &u.CreatedAt, &u.IsActive)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}

// DeviceToken identifies a user's device by user agent, so signing in again
// from the same browser refreshes one user_devices row instead of adding one.
func DeviceToken(userID, userAgent string) string {
	sum := sha256.Sum256([]byte(userID + "\x00" + strings.TrimSpace(userAgent)))
	return hex.EncodeToString(sum[:])
}

// RecordDevice stores or refreshes the device a user signed in from.
func RecordDevice(ctx context.Context, userID, deviceToken, ipAddress, userAgent string) error {
	_, err := database.PostgresDB.ExecContext(ctx, `
		INSERT INTO user_devices (user_id, device_token, ip_address, user_agent)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (device_token) DO UPDATE
		SET last_used = NOW(), ip_address = EXCLUDED.ip_address, user_agent = EXCLUDED.user_agent
	`, userID, deviceToken, ipAddress, userAgent)
	return err
}
