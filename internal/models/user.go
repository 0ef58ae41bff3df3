package models

import (
	"strings"
	"time"

	"github.com/AnshRaj112/fitify-backend/internal/nutrition"
)

// User is an account row; profile data lives in Profile.
type User struct {
	ID           string    `json:"id"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"` // Never return the hash
	CreatedAt    time.Time `json:"created_at"`
	IsActive     bool      `json:"is_active"`
}

// Profile holds onboarding answers and the goals derived from them.
// Nullable columns stay nil until onboarding completes.
type Profile struct {
	UserID        string                   `json:"user_id"`
	FullName      string                   `json:"full_name"`
	Age           *int                     `json:"age"`
	Gender        *nutrition.Sex           `json:"gender"`
	CurrentWeight *float64                 `json:"current_weight"`
	HeightCm      *float64                 `json:"height_cm"`
	GoalType      *nutrition.GoalType      `json:"goal_type"`
	ActivityLevel *nutrition.ActivityLevel `json:"activity_level"`

	DailyCalorieGoal *int `json:"daily_calorie_goal"`
	DailyProteinGoal *int `json:"daily_protein_goal"`
	DailyCarbsGoal   *int `json:"daily_carbs_goal"`
	DailyFatGoal     *int `json:"daily_fat_goal"`

	AvatarURL *string   `json:"avatar_url,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// OnboardingComplete is true once the questionnaire has been saved: a full
// name is present and goals have been computed.
func (p *Profile) OnboardingComplete() bool {
	return strings.TrimSpace(p.FullName) != "" && p.DailyCalorieGoal != nil
}

// Biometrics snapshots the goal inputs; unset fields are zero values.
func (p *Profile) Biometrics() nutrition.Biometrics {
	var b nutrition.Biometrics
	if p.Age != nil {
		b.AgeYears = *p.Age
	}
	if p.Gender != nil {
		b.Sex = *p.Gender
	}
	if p.CurrentWeight != nil {
		b.WeightKg = *p.CurrentWeight
	}
	if p.HeightCm != nil {
		b.HeightCm = *p.HeightCm
	}
	if p.GoalType != nil {
		b.GoalType = *p.GoalType
	}
	if p.ActivityLevel != nil {
		b.ActivityLevel = *p.ActivityLevel
	}
	return b
}

// Display fallbacks for a profile whose goals were never computed.
const (
	DisplayCalorieGoal = 2000
	DisplayProteinGoal = 150
	DisplayCarbsGoal   = 200
	DisplayFatGoal     = 65
)

// DisplayGoals returns stored goals, substituting the display fallback for any
// unset goal. Stored goals are never below nutrition.MinCalorieGoal, so a
// stored value is always shown as is.
func (p *Profile) DisplayGoals() nutrition.DailyGoals {
	return nutrition.DailyGoals{
		Calories: intOr(p.DailyCalorieGoal, DisplayCalorieGoal),
		MacroGoals: nutrition.MacroGoals{
			ProteinG: intOr(p.DailyProteinGoal, DisplayProteinGoal),
			CarbsG:   intOr(p.DailyCarbsGoal, DisplayCarbsGoal),
			FatG:     intOr(p.DailyFatGoal, DisplayFatGoal),
		},
		Estimated: p.DailyCalorieGoal != nil,
	}
}

// SetGoals writes all four goals at once; the store never holds a partial set.
func (p *Profile) SetGoals(g nutrition.DailyGoals) {
	cal, protein, carbs, fat := g.Calories, g.ProteinG, g.CarbsG, g.FatG
	p.DailyCalorieGoal = &cal
	p.DailyProteinGoal = &protein
	p.DailyCarbsGoal = &carbs
	p.DailyFatGoal = &fat
}

func intOr(v *int, def int) int {
	if v == nil {
		return def
	}
	return *v
}
