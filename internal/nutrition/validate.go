package nutrition

import (
	"math"
	"strings"
	"time"
)

const (
	MinAge      = 13
	MaxAge      = 120
	MinWeightKg = 20.0
	MaxWeightKg = 300.0
	MinHeightCm = 100.0
	MaxHeightCm = 250.0

	MaxFoodNameLength = 200
	MaxFullNameLength = 120

	// Per-entry caps, well inside the food_entries INTEGER and NUMERIC(7,2) columns.
	MaxCalories   = 50000
	MaxMacroGrams = 10000.0
)

// ValidationError reports a rejected input field.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// ParseSex normalizes a sex value. "prefer_not_to_say" is accepted as undisclosed.
func ParseSex(v string) (Sex, error) {
	s := Sex(strings.ToLower(strings.TrimSpace(v)))
	if s == "prefer_not_to_say" {
		return SexUndisclosed, nil
	}
	if _, ok := sexCoefficients[s]; !ok {
		return "", &ValidationError{Field: "gender", Message: "Gender must be one of male, female, other, undisclosed"}
	}
	return s, nil
}

// ValidateBiometrics checks every field needed for a goal estimate.
func ValidateBiometrics(b Biometrics) error {
	if b.AgeYears < MinAge || b.AgeYears > MaxAge {
		return &ValidationError{Field: "age", Message: "Age must be between 13 and 120"}
	}
	if !inRange(b.WeightKg, MinWeightKg, MaxWeightKg) {
		return &ValidationError{Field: "current_weight", Message: "Weight must be between 20 and 300 kg"}
	}
	if !inRange(b.HeightCm, MinHeightCm, MaxHeightCm) {
		return &ValidationError{Field: "height_cm", Message: "Height must be between 100 and 250 cm"}
	}
	if _, ok := sexCoefficients[b.Sex]; !ok {
		return &ValidationError{Field: "gender", Message: "Gender must be one of male, female, other, undisclosed"}
	}
	if _, ok := activityMultipliers[b.ActivityLevel]; !ok {
		return &ValidationError{Field: "activity_level", Message: "Unknown activity level"}
	}
	if _, ok := goalAdjustments[b.GoalType]; !ok {
		return &ValidationError{Field: "goal_type", Message: "Unknown goal type"}
	}
	return nil
}

// ValidateFullName requires a non-empty display name.
func ValidateFullName(name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return &ValidationError{Field: "full_name", Message: "Full name is required"}
	}
	if len(name) > MaxFullNameLength {
		return &ValidationError{Field: "full_name", Message: "Full name is too long"}
	}
	return nil
}

// ValidateWeight checks a single weight measurement in kg.
func ValidateWeight(w float64) error {
	if !inRange(w, MinWeightKg, MaxWeightKg) {
		return &ValidationError{Field: "weight", Message: "Weight must be between 20 and 300 kg"}
	}
	return nil
}

// ValidateDate checks a YYYY-MM-DD calendar date.
func ValidateDate(field, v string) error {
	if _, err := time.Parse(DateLayout, v); err != nil {
		return &ValidationError{Field: field, Message: "Date must be in YYYY-MM-DD format"}
	}
	return nil
}

// ValidateFoodEntry rejects entries that cannot be stored. Unlike the
// aggregator, ingestion only accepts the four fixed meal slots.
func ValidateFoodEntry(e FoodEntry) error {
	if !IsMealSlot(e.MealType) {
		return &ValidationError{Field: "meal_type", Message: "Meal type must be one of breakfast, lunch, dinner, snack"}
	}
	name := strings.TrimSpace(e.FoodName)
	if name == "" {
		return &ValidationError{Field: "food_name", Message: "Food name is required"}
	}
	if len(name) > MaxFoodNameLength {
		return &ValidationError{Field: "food_name", Message: "Food name is too long"}
	}
	if e.Calories < 0 {
		return &ValidationError{Field: "calories", Message: "Calories cannot be negative"}
	}
	if e.Calories > MaxCalories {
		return &ValidationError{Field: "calories", Message: "Calories cannot exceed 50000 per entry"}
	}
	for _, m := range []struct {
		field string
		v     *float64
	}{{"protein", e.Protein}, {"carbs", e.Carbs}, {"fat", e.Fat}} {
		if m.v == nil {
			continue
		}
		if *m.v < 0 || math.IsNaN(*m.v) || math.IsInf(*m.v, 0) {
			return &ValidationError{Field: m.field, Message: "Macros must be non-negative numbers"}
		}
		if *m.v > MaxMacroGrams {
			return &ValidationError{Field: m.field, Message: "Macros cannot exceed 10000 g per entry"}
		}
	}
	return ValidateDate("entry_date", e.EntryDate)
}

// IsMealSlot reports whether m is one of the four fixed slots.
func IsMealSlot(m MealSlot) bool {
	for _, s := range MealSlots {
		if s == m {
			return true
		}
	}
	return false
}

func inRange(v, lo, hi float64) bool {
	return !math.IsNaN(v) && v >= lo && v <= hi
}
