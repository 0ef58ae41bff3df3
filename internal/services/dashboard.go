package services

import (
	"context"
	"log"

	"github.com/AnshRaj112/fitify-backend/internal/nutrition"
)

// QuickStats are the small counters shown under the calorie ring.
type QuickStats struct {
	MealsLogged       int `json:"meals_logged"`
	CaloriesRemaining int `json:"calories_remaining"`
}

// Dashboard is the daily overview for one user.
type Dashboard struct {
	FullName   string                 `json:"full_name"`
	Goals      nutrition.DailyGoals   `json:"goals"`
	Summary    nutrition.DailySummary `json:"summary"`
	Progress   nutrition.Progress     `json:"progress"`
	QuickStats QuickStats             `json:"quick_stats"`
}

// BuildDashboard assembles the overview for a date, served from cache when possible.
func BuildDashboard(ctx context.Context, userID, date string) (*Dashboard, error) {
	if err := nutrition.ValidateDate("date", date); err != nil {
		return nil, err
	}

	key := dashboardCacheKey(userID, date)
	var cached Dashboard
	if hit, err := Cache.Get(ctx, key, &cached); err == nil && hit {
		return &cached, nil
	}

	profile, err := GetProfile(ctx, userID)
	if err != nil {
		return nil, err
	}
	entries, err := ListFoodEntries(ctx, userID, date)
	if err != nil {
		return nil, err
	}

	d := composeDashboard(profile.FullName, profile.DisplayGoals(), date, entries)

	if err := Cache.Set(ctx, key, d); err != nil {
		log.Printf("cache: store dashboard %s/%s failed: %v", userID, date, err)
	}
	return d, nil
}

func composeDashboard(fullName string, goals nutrition.DailyGoals, date string, entries []nutrition.FoodEntry) *Dashboard {
	summary := nutrition.AggregateDay(date, entries)
	progress := nutrition.BuildProgress(summary.Totals, goals)

	remaining := goals.Calories - summary.Totals.Calories
	if remaining < 0 {
		remaining = 0
	}

	return &Dashboard{
		FullName: fullName,
		Goals:    goals,
		Summary:  summary,
		Progress: progress,
		QuickStats: QuickStats{
			MealsLogged:       summary.EntryCount,
			CaloriesRemaining: remaining,
		},
	}
}
