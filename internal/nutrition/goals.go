package nutrition

import "math"

// FallbackCalorieGoal is used when the biometrics needed for an estimate are missing.
const FallbackCalorieGoal = 2000

// MinCalorieGoal is the lowest estimated target. Small, elderly bodies on a
// cut can drive raw Mifflin-St Jeor below it, or below zero.
const MinCalorieGoal = 1200

const (
	goalAdjustmentKcal = 500

	proteinShare = 0.30
	carbsShare   = 0.40
	fatShare     = 0.30

	kcalPerGramProtein = 4
	kcalPerGramCarbs   = 4
	kcalPerGramFat     = 9
)

// sexCoefficients is the Mifflin-St Jeor constant per category.
// Every non-male category shares the female constant.
var sexCoefficients = map[Sex]float64{
	SexMale:        5,
	SexFemale:      -161,
	SexOther:       -161,
	SexUndisclosed: -161,
}

var activityMultipliers = map[ActivityLevel]float64{
	ActivitySedentary:        1.2,
	ActivityLightlyActive:    1.375,
	ActivityModeratelyActive: 1.55,
	ActivityVeryActive:       1.725,
	ActivityExtraActive:      1.9,
}

var goalAdjustments = map[GoalType]float64{
	GoalLoseWeight:     -goalAdjustmentKcal,
	GoalMaintainWeight: 0,
	GoalGainWeight:     goalAdjustmentKcal,
	GoalBuildMuscle:    goalAdjustmentKcal,
}

// BMR returns the Mifflin-St Jeor basal metabolic rate in kcal/day.
func BMR(b Biometrics) float64 {
	s, ok := sexCoefficients[b.Sex]
	if !ok {
		s = sexCoefficients[SexFemale]
	}
	return 10*b.WeightKg + 6.25*b.HeightCm - 5*float64(b.AgeYears) + s
}

// TDEE scales BMR by the activity multiplier. Unknown levels use sedentary.
func TDEE(b Biometrics) float64 {
	m, ok := activityMultipliers[b.ActivityLevel]
	if !ok {
		m = activityMultipliers[ActivitySedentary]
	}
	return BMR(b) * m
}

// CalorieGoal estimates the daily calorie target, never below MinCalorieGoal.
// ok is false when weight, height or age is missing and the
// FallbackCalorieGoal was returned instead.
func CalorieGoal(b Biometrics) (calories int, ok bool) {
	if !isPositive(b.WeightKg) || !isPositive(b.HeightCm) || b.AgeYears <= 0 {
		return FallbackCalorieGoal, false
	}
	calories = roundHalfUp(TDEE(b) + goalAdjustments[b.GoalType])
	if calories < MinCalorieGoal {
		calories = MinCalorieGoal
	}
	return calories, true
}

// SplitMacros divides a calorie target 30/40/30 into protein, carbs and fat grams.
func SplitMacros(calories int) MacroGoals {
	c := float64(calories)
	return MacroGoals{
		ProteinG: roundHalfUp(c * proteinShare / kcalPerGramProtein),
		CarbsG:   roundHalfUp(c * carbsShare / kcalPerGramCarbs),
		FatG:     roundHalfUp(c * fatShare / kcalPerGramFat),
	}
}

// CalculateGoals derives all four daily goals from one biometrics snapshot.
// When the calorie goal falls back, macros are split from the fallback value.
func CalculateGoals(b Biometrics) DailyGoals {
	calories, ok := CalorieGoal(b)
	return DailyGoals{
		Calories:   calories,
		MacroGoals: SplitMacros(calories),
		Estimated:  ok,
	}
}

// macroCalories converts gram targets back to kcal.
func macroCalories(m MacroGoals) int {
	return m.ProteinG*kcalPerGramProtein + m.CarbsG*kcalPerGramCarbs + m.FatG*kcalPerGramFat
}

func isPositive(v float64) bool {
	return v > 0 && !math.IsNaN(v) && !math.IsInf(v, 0)
}

// roundHalfUp matches browser Math.round: x.5 always goes up.
func roundHalfUp(x float64) int {
	return int(math.Floor(x + 0.5))
}
