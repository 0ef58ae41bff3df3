package nutrition

import (
	"errors"
	"testing"
)

func validBiometrics() Biometrics {
	return Biometrics{
		WeightKg:      70,
		HeightCm:      175,
		AgeYears:      30,
		Sex:           SexMale,
		ActivityLevel: ActivitySedentary,
		GoalType:      GoalMaintainWeight,
	}
}

func TestValidateBiometrics(t *testing.T) {
	tests := []struct {
		name  string
		mod   func(*Biometrics)
		field string
	}{
		{"valid", func(*Biometrics) {}, ""},
		{"age low", func(b *Biometrics) { b.AgeYears = 12 }, "age"},
		{"age high", func(b *Biometrics) { b.AgeYears = 121 }, "age"},
		{"weight low", func(b *Biometrics) { b.WeightKg = 19.9 }, "current_weight"},
		{"weight high", func(b *Biometrics) { b.WeightKg = 300.1 }, "current_weight"},
		{"height low", func(b *Biometrics) { b.HeightCm = 99 }, "height_cm"},
		{"height high", func(b *Biometrics) { b.HeightCm = 251 }, "height_cm"},
		{"bad sex", func(b *Biometrics) { b.Sex = "robot" }, "gender"},
		{"bad activity", func(b *Biometrics) { b.ActivityLevel = "couch" }, "activity_level"},
		{"bad goal", func(b *Biometrics) { b.GoalType = "bulk" }, "goal_type"},
		{"bounds inclusive", func(b *Biometrics) { b.AgeYears, b.WeightKg, b.HeightCm = 13, 300, 100 }, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := validBiometrics()
			tt.mod(&b)
			err := ValidateBiometrics(b)
			if tt.field == "" {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}
			var ve *ValidationError
			if !errors.As(err, &ve) {
				t.Fatalf("error = %v, want *ValidationError", err)
			}
			if ve.Field != tt.field {
				t.Errorf("field = %s, want %s", ve.Field, tt.field)
			}
		})
	}
}

func TestParseSex(t *testing.T) {
	for in, want := range map[string]Sex{
		"male":              SexMale,
		" Female ":          SexFemale,
		"other":             SexOther,
		"undisclosed":       SexUndisclosed,
		"prefer_not_to_say": SexUndisclosed,
	} {
		got, err := ParseSex(in)
		if err != nil || got != want {
			t.Errorf("ParseSex(%q) = %q, %v; want %q", in, got, err, want)
		}
	}
	if _, err := ParseSex("unknown"); err == nil {
		t.Error("expected error for unknown sex")
	}
}

func TestValidateFoodEntry(t *testing.T) {
	ok := FoodEntry{MealType: MealLunch, FoodName: "Soup", Calories: 120, EntryDate: "2026-05-01"}
	if err := ValidateFoodEntry(ok); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	edge := ok
	edge.Calories, edge.Protein = MaxCalories, f(MaxMacroGrams)
	if err := ValidateFoodEntry(edge); err != nil {
		t.Fatalf("entry at the caps rejected: %v", err)
	}

	tests := []struct {
		name  string
		mod   func(*FoodEntry)
		field string
	}{
		{"unknown slot", func(e *FoodEntry) { e.MealType = "brunch" }, "meal_type"},
		{"blank name", func(e *FoodEntry) { e.FoodName = "   " }, "food_name"},
		{"negative calories", func(e *FoodEntry) { e.Calories = -1 }, "calories"},
		{"negative fat", func(e *FoodEntry) { e.Fat = f(-0.5) }, "fat"},
		{"calories over cap", func(e *FoodEntry) { e.Calories = MaxCalories + 1 }, "calories"},
		{"calories overflow int32", func(e *FoodEntry) { e.Calories = 1 << 31 }, "calories"},
		{"protein over cap", func(e *FoodEntry) { e.Protein = f(MaxMacroGrams + 0.01) }, "protein"},
		{"carbs overflow numeric", func(e *FoodEntry) { e.Carbs = f(100000) }, "carbs"},
		{"bad date", func(e *FoodEntry) { e.EntryDate = "01/05/2026" }, "entry_date"},
	}
	for _, tt := range tests {
		e := ok
		tt.mod(&e)
		var ve *ValidationError
		if err := ValidateFoodEntry(e); !errors.As(err, &ve) || ve.Field != tt.field {
			t.Errorf("%s: error = %v, want field %s", tt.name, err, tt.field)
		}
	}
}

func TestValidateWeight(t *testing.T) {
	if err := ValidateWeight(68.5); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for _, w := range []float64{0, 19.99, 301} {
		if err := ValidateWeight(w); err == nil {
			t.Errorf("ValidateWeight(%v) = nil, want error", w)
		}
	}
}

func TestValidateFullName(t *testing.T) {
	if err := ValidateFullName("Alex Doe"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := ValidateFullName("  "); err == nil {
		t.Error("expected error for blank name")
	}
}
