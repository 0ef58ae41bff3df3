package services

import (
	"context"
	"fmt"
	"time"

	"github.com/AnshRaj112/fitify-backend/internal/database"
	"github.com/AnshRaj112/fitify-backend/internal/events"
	"github.com/AnshRaj112/fitify-backend/internal/nutrition"
	"github.com/google/uuid"
)

// ListWeightLogs returns the user's weight history ordered by date ascending.
func ListWeightLogs(ctx context.Context, userID string) ([]nutrition.WeightLogEntry, error) {
	rows, err := database.PostgresDB.QueryContext(ctx, `
		SELECT id, user_id, log_date, weight, created_at
		FROM weight_logs
		WHERE user_id = $1
		ORDER BY log_date ASC
	`, userID)
	if err != nil {
		return nil, fmt.Errorf("list weight logs: %w", err)
	}
	defer rows.Close()

	logs := []nutrition.WeightLogEntry{}
	for rows.Next() {
		var (
			l       nutrition.WeightLogEntry
			logDate time.Time
		)
		if err := rows.Scan(&l.ID, &l.UserID, &logDate, &l.Weight, &l.CreatedAt); err != nil {
			return nil, err
		}
		l.LogDate = logDate.Format(nutrition.DateLayout)
		logs = append(logs, l)
	}
	return logs, rows.Err()
}

// LogWeight stores one measurement. A second log for the same date returns
// ErrDuplicateWeightLog.
func LogWeight(ctx context.Context, userID string, weight float64, date string) (nutrition.WeightLogEntry, error) {
	if date == "" {
		date = time.Now().UTC().Format(nutrition.DateLayout)
	}
	if err := nutrition.ValidateWeight(weight); err != nil {
		return nutrition.WeightLogEntry{}, err
	}
	if err := nutrition.ValidateDate("log_date", date); err != nil {
		return nutrition.WeightLogEntry{}, err
	}

	l := nutrition.WeightLogEntry{ID: uuid.New().String(), UserID: userID, LogDate: date, Weight: weight}
	err := database.PostgresDB.QueryRowContext(ctx, `
		INSERT INTO weight_logs (id, user_id, log_date, weight)
		VALUES ($1, $2, $3, $4)
		RETURNING created_at
	`, l.ID, userID, date, weight).Scan(&l.CreatedAt)
	if err != nil {
		if isUniqueViolation(err, "") {
			return nutrition.WeightLogEntry{}, ErrDuplicateWeightLog
		}
		return nutrition.WeightLogEntry{}, fmt.Errorf("insert weight log: %w", err)
	}

	events.Emit(ctx, events.WeightLogCreated, userID, l)
	return l, nil
}

// GetProgress summarizes the user's weight history.
func GetProgress(ctx context.Context, userID string) (nutrition.WeightSummary, error) {
	logs, err := ListWeightLogs(ctx, userID)
	if err != nil {
		return nutrition.WeightSummary{}, err
	}
	return nutrition.SummarizeWeights(logs), nil
}
