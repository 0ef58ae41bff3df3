package nutrition

import "time"

// DateLayout is the calendar-date format used for entry and log dates.
const DateLayout = "2006-01-02"

// Sex is the biological sex category collected during onboarding.
type Sex string

const (
	SexMale        Sex = "male"
	SexFemale      Sex = "female"
	SexOther       Sex = "other"
	SexUndisclosed Sex = "undisclosed"
)

// ActivityLevel selects the TDEE multiplier.
type ActivityLevel string

const (
	ActivitySedentary        ActivityLevel = "sedentary"
	ActivityLightlyActive    ActivityLevel = "lightly_active"
	ActivityModeratelyActive ActivityLevel = "moderately_active"
	ActivityVeryActive       ActivityLevel = "very_active"
	ActivityExtraActive      ActivityLevel = "extra_active"
)

// GoalType is the user's stated body-composition goal.
type GoalType string

const (
	GoalLoseWeight     GoalType = "lose_weight"
	GoalMaintainWeight GoalType = "maintain_weight"
	GoalGainWeight     GoalType = "gain_weight"
	GoalBuildMuscle    GoalType = "build_muscle"
)

// MealSlot is the meal a food entry is logged under.
type MealSlot string

const (
	MealBreakfast MealSlot = "breakfast"
	MealLunch     MealSlot = "lunch"
	MealDinner    MealSlot = "dinner"
	MealSnack     MealSlot = "snack"
)

// MealSlots lists the fixed slots in display order.
var MealSlots = []MealSlot{MealBreakfast, MealLunch, MealDinner, MealSnack}

// Biometrics is the snapshot of profile fields the goal calculation reads.
type Biometrics struct {
	WeightKg      float64       `json:"current_weight"`
	HeightCm      float64       `json:"height_cm"`
	AgeYears      int           `json:"age"`
	Sex           Sex           `json:"gender"`
	ActivityLevel ActivityLevel `json:"activity_level"`
	GoalType      GoalType      `json:"goal_type"`
}

// MacroGoals holds daily macronutrient targets in grams.
type MacroGoals struct {
	ProteinG int `json:"daily_protein_goal"`
	CarbsG   int `json:"daily_carbs_goal"`
	FatG     int `json:"daily_fat_goal"`
}

// DailyGoals is the full set of derived targets stored on a profile.
type DailyGoals struct {
	Calories int `json:"daily_calorie_goal"`
	MacroGoals
	// Estimated is false when the calorie goal is the constant fallback.
	Estimated bool `json:"estimated"`
}

// FoodEntry is one logged food item.
type FoodEntry struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	EntryDate string    `json:"entry_date"`
	MealType  MealSlot  `json:"meal_type"`
	FoodName  string    `json:"food_name"`
	Calories  int       `json:"calories"`
	Protein   *float64  `json:"protein,omitempty"`
	Carbs     *float64  `json:"carbs,omitempty"`
	Fat       *float64  `json:"fat,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// WeightLogEntry is one body-weight measurement, at most one per user per date.
type WeightLogEntry struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	LogDate   string    `json:"log_date"`
	Weight    float64   `json:"weight"`
	CreatedAt time.Time `json:"created_at"`
}
