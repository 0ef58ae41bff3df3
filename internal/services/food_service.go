package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/AnshRaj112/fitify-backend/internal/database"
	"github.com/AnshRaj112/fitify-backend/internal/events"
	"github.com/AnshRaj112/fitify-backend/internal/nutrition"
	"github.com/google/uuid"
)

const foodEntryColumns = `id, user_id, entry_date, meal_type, food_name, calories, protein, carbs, fat, created_at`

func scanFoodEntry(row rowScanner) (nutrition.FoodEntry, error) {
	var (
		e                   nutrition.FoodEntry
		entryDate           time.Time
		protein, carbs, fat sql.NullFloat64
	)
	if err := row.Scan(&e.ID, &e.UserID, &entryDate, &e.MealType, &e.FoodName, &e.Calories,
		&protein, &carbs, &fat, &e.CreatedAt); err != nil {
		return e, err
	}
	e.EntryDate = entryDate.Format(nutrition.DateLayout)
	e.Protein = nullFloat(protein)
	e.Carbs = nullFloat(carbs)
	e.Fat = nullFloat(fat)
	return e, nil
}

// ListFoodEntries returns one day of entries, newest first.
func ListFoodEntries(ctx context.Context, userID, date string) ([]nutrition.FoodEntry, error) {
	if err := nutrition.ValidateDate("date", date); err != nil {
		return nil, err
	}

	rows, err := database.PostgresDB.QueryContext(ctx, `
		SELECT `+foodEntryColumns+`
		FROM food_entries
		WHERE user_id = $1 AND entry_date = $2
		ORDER BY created_at DESC
	`, userID, date)
	if err != nil {
		return nil, fmt.Errorf("list food entries: %w", err)
	}
	defer rows.Close()

	entries := []nutrition.FoodEntry{}
	for rows.Next() {
		e, err := scanFoodEntry(rows)
		if err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// CreateFoodEntry validates and stores a new entry. The entry's ID, UserID
// and CreatedAt are assigned here.
func CreateFoodEntry(ctx context.Context, userID string, e nutrition.FoodEntry) (nutrition.FoodEntry, error) {
	e.FoodName = strings.TrimSpace(e.FoodName)
	e.MealType = nutrition.MealSlot(strings.ToLower(string(e.MealType)))
	if e.EntryDate == "" {
		e.EntryDate = time.Now().UTC().Format(nutrition.DateLayout)
	}
	if err := nutrition.ValidateFoodEntry(e); err != nil {
		return nutrition.FoodEntry{}, err
	}

	e.ID = uuid.New().String()
	e.UserID = userID
	row := database.PostgresDB.QueryRowContext(ctx, `
		INSERT INTO food_entries (id, user_id, entry_date, meal_type, food_name, calories, protein, carbs, fat)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING `+foodEntryColumns,
		e.ID, userID, e.EntryDate, string(e.MealType), e.FoodName, e.Calories, e.Protein, e.Carbs, e.Fat,
	)
	saved, err := scanFoodEntry(row)
	if err != nil {
		return nutrition.FoodEntry{}, fmt.Errorf("insert food entry: %w", err)
	}

	InvalidateDashboard(ctx, userID, saved.EntryDate)
	events.Emit(ctx, events.FoodEntryCreated, userID, saved)
	return saved, nil
}

// DeleteFoodEntry removes an entry owned by the user.
func DeleteFoodEntry(ctx context.Context, userID, entryID string) error {
	if _, err := uuid.Parse(entryID); err != nil {
		return ErrEntryNotFound
	}

	var entryDate time.Time
	err := database.PostgresDB.QueryRowContext(ctx, `
		DELETE FROM food_entries WHERE id = $1 AND user_id = $2
		RETURNING entry_date
	`, entryID, userID).Scan(&entryDate)
	if errors.Is(err, sql.ErrNoRows) {
		return ErrEntryNotFound
	}
	if err != nil {
		return fmt.Errorf("delete food entry: %w", err)
	}

	date := entryDate.Format(nutrition.DateLayout)
	InvalidateDashboard(ctx, userID, date)
	events.Emit(ctx, events.FoodEntryDeleted, userID, map[string]string{"id": entryID, "entry_date": date})
	return nil
}
