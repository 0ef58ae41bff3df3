package nutrition

// Totals is the sum of calories and macros across a set of food entries.
type Totals struct {
	Calories int     `json:"calories"`
	ProteinG float64 `json:"protein"`
	CarbsG   float64 `json:"carbs"`
	FatG     float64 `json:"fat"`
}

// DailySummary groups one day of food entries by meal slot.
type DailySummary struct {
	Date string `json:"date"`
	// Meals always contains the four fixed slots. Entries whose slot is not
	// one of them are kept under their own key.
	Meals        map[MealSlot][]FoodEntry `json:"meals"`
	MealCalories map[MealSlot]int         `json:"meal_calories"`
	Totals       Totals                   `json:"totals"`
	EntryCount   int                      `json:"entry_count"`
}

// MacroProgress is one row of the dashboard progress view.
type MacroProgress struct {
	Consumed  float64 `json:"consumed"`
	Goal      int     `json:"goal"`
	Percent   float64 `json:"percent"`
	Remaining float64 `json:"remaining"`
}

// Progress is consumption against goals for calories and each macro.
type Progress struct {
	Calories MacroProgress `json:"calories"`
	Protein  MacroProgress `json:"protein"`
	Carbs    MacroProgress `json:"carbs"`
	Fat      MacroProgress `json:"fat"`
}

// AggregateDay partitions entries by meal slot and sums their totals.
// Entry order within each slot follows the input order.
func AggregateDay(date string, entries []FoodEntry) DailySummary {
	s := DailySummary{
		Date:         date,
		Meals:        make(map[MealSlot][]FoodEntry, len(MealSlots)),
		MealCalories: make(map[MealSlot]int, len(MealSlots)),
		EntryCount:   len(entries),
	}
	for _, slot := range MealSlots {
		s.Meals[slot] = []FoodEntry{}
		s.MealCalories[slot] = 0
	}

	for _, e := range entries {
		s.Meals[e.MealType] = append(s.Meals[e.MealType], e)
		s.MealCalories[e.MealType] += e.Calories

		s.Totals.Calories += e.Calories
		s.Totals.ProteinG += valueOrZero(e.Protein)
		s.Totals.CarbsG += valueOrZero(e.Carbs)
		s.Totals.FatG += valueOrZero(e.Fat)
	}
	return s
}

// PercentOfGoal returns 100*total/goal clamped to [0, 100].
// A non-positive goal is treated as fully met.
func PercentOfGoal(total, goal float64) float64 {
	if goal <= 0 {
		return 100
	}
	p := 100 * total / goal
	switch {
	case p > 100:
		return 100
	case p < 0:
		return 0
	}
	return p
}

// BuildProgress compares a day's totals with the goals.
func BuildProgress(t Totals, g DailyGoals) Progress {
	return Progress{
		Calories: macroProgress(float64(t.Calories), g.Calories),
		Protein:  macroProgress(t.ProteinG, g.ProteinG),
		Carbs:    macroProgress(t.CarbsG, g.CarbsG),
		Fat:      macroProgress(t.FatG, g.FatG),
	}
}

func macroProgress(consumed float64, goal int) MacroProgress {
	remaining := float64(goal) - consumed
	if remaining < 0 {
		remaining = 0
	}
	return MacroProgress{
		Consumed:  consumed,
		Goal:      goal,
		Percent:   PercentOfGoal(consumed, float64(goal)),
		Remaining: remaining,
	}
}

func valueOrZero(v *float64) float64 {
	if v == nil {
		return 0
	}
	return *v
}
