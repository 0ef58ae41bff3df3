package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/AnshRaj112/fitify-backend/internal/database"
	"github.com/AnshRaj112/fitify-backend/internal/events"
	"github.com/AnshRaj112/fitify-backend/internal/models"
	"github.com/AnshRaj112/fitify-backend/internal/nutrition"
)

// OnboardingInput is the questionnaire submitted once after signup.
type OnboardingInput struct {
	FullName   string
	Biometrics nutrition.Biometrics
}

// ProfileUpdate carries a partial edit; nil fields keep their stored value.
type ProfileUpdate struct {
	FullName      *string
	Age           *int
	Gender        *nutrition.Sex
	CurrentWeight *float64
	HeightCm      *float64
	GoalType      *nutrition.GoalType
	ActivityLevel *nutrition.ActivityLevel
}

// goalsUpdatedPayload is published with events.ProfileGoalsUpdated.
type goalsUpdatedPayload struct {
	Goals      nutrition.DailyGoals `json:"goals"`
	Biometrics nutrition.Biometrics `json:"biometrics"`
}

const profileColumns = `user_id, full_name, age, gender, current_weight, height_cm, goal_type, activity_level,
	daily_calorie_goal, daily_protein_goal, daily_carbs_goal, daily_fat_goal, avatar_url, created_at, updated_at`

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanProfile(row rowScanner) (*models.Profile, error) {
	var (
		p                              models.Profile
		age, cal, protein, carbs, fat  sql.NullInt64
		gender, goal, activity, avatar sql.NullString
		weight, height                 sql.NullFloat64
	)
	err := row.Scan(&p.UserID, &p.FullName, &age, &gender, &weight, &height, &goal, &activity,
		&cal, &protein, &carbs, &fat, &avatar, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return nil, err
	}

	p.Age = nullInt(age)
	p.CurrentWeight = nullFloat(weight)
	p.HeightCm = nullFloat(height)
	if cal.Valid {
		p.SetGoals(nutrition.DailyGoals{
			Calories: int(cal.Int64),
			MacroGoals: nutrition.MacroGoals{
				ProteinG: int(protein.Int64),
				CarbsG:   int(carbs.Int64),
				FatG:     int(fat.Int64),
			},
		})
	}
	if gender.Valid {
		s := nutrition.Sex(gender.String)
		p.Gender = &s
	}
	if goal.Valid {
		g := nutrition.GoalType(goal.String)
		p.GoalType = &g
	}
	if activity.Valid {
		a := nutrition.ActivityLevel(activity.String)
		p.ActivityLevel = &a
	}
	if avatar.Valid {
		p.AvatarURL = &avatar.String
	}
	return &p, nil
}

// GetProfile returns the profile row for a user.
func GetProfile(ctx context.Context, userID string) (*models.Profile, error) {
	row := database.PostgresDB.QueryRowContext(ctx,
		`SELECT `+profileColumns+` FROM profiles WHERE user_id = $1`, userID)
	p, err := scanProfile(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrProfileNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get profile: %w", err)
	}
	return p, nil
}

// PreviewGoals validates biometrics and returns the goals they would produce.
func PreviewGoals(b nutrition.Biometrics) (nutrition.DailyGoals, error) {
	if err := nutrition.ValidateBiometrics(b); err != nil {
		return nutrition.DailyGoals{}, err
	}
	return nutrition.CalculateGoals(b), nil
}

// CompleteOnboarding stores the questionnaire with freshly computed goals and
// logs the starting weight for today.
func CompleteOnboarding(ctx context.Context, userID string, in OnboardingInput) (*models.Profile, error) {
	if err := nutrition.ValidateFullName(in.FullName); err != nil {
		return nil, err
	}
	goals, err := PreviewGoals(in.Biometrics)
	if err != nil {
		return nil, err
	}

	p, err := saveProfile(ctx, userID, strings.TrimSpace(in.FullName), in.Biometrics, goals)
	if err != nil {
		return nil, err
	}

	today := time.Now().UTC().Format(nutrition.DateLayout)
	if _, err := LogWeight(ctx, userID, in.Biometrics.WeightKg, today); err != nil && !errors.Is(err, ErrDuplicateWeightLog) {
		// Profile is already saved; the weight log can be re-entered by hand
		log.Printf("⚠️  onboarding: initial weight log for %s failed: %v", userID, err)
	}

	return p, nil
}

// UpdateProfile merges a partial edit into the stored profile and recomputes
// all four goals from the merged biometrics.
func UpdateProfile(ctx context.Context, userID string, upd ProfileUpdate) (*models.Profile, error) {
	current, err := GetProfile(ctx, userID)
	if err != nil {
		return nil, err
	}
	if !current.OnboardingComplete() {
		return nil, ErrOnboardingIncomplete
	}

	name := current.FullName
	if upd.FullName != nil {
		if err := nutrition.ValidateFullName(*upd.FullName); err != nil {
			return nil, err
		}
		name = strings.TrimSpace(*upd.FullName)
	}

	b := mergeBiometrics(current.Biometrics(), upd)
	goals, err := PreviewGoals(b)
	if err != nil {
		return nil, err
	}

	return saveProfile(ctx, userID, name, b, goals)
}

func mergeBiometrics(b nutrition.Biometrics, upd ProfileUpdate) nutrition.Biometrics {
	if upd.Age != nil {
		b.AgeYears = *upd.Age
	}
	if upd.Gender != nil {
		b.Sex = *upd.Gender
	}
	if upd.CurrentWeight != nil {
		b.WeightKg = *upd.CurrentWeight
	}
	if upd.HeightCm != nil {
		b.HeightCm = *upd.HeightCm
	}
	if upd.GoalType != nil {
		b.GoalType = *upd.GoalType
	}
	if upd.ActivityLevel != nil {
		b.ActivityLevel = *upd.ActivityLevel
	}
	return b
}

// saveProfile writes biometrics and goals in one statement so the four
// goals can never come from different snapshots.
func saveProfile(ctx context.Context, userID, fullName string, b nutrition.Biometrics, g nutrition.DailyGoals) (*models.Profile, error) {
	row := database.PostgresDB.QueryRowContext(ctx, `
		UPDATE profiles SET
			full_name = $2, age = $3, gender = $4, current_weight = $5, height_cm = $6,
			goal_type = $7, activity_level = $8,
			daily_calorie_goal = $9, daily_protein_goal = $10, daily_carbs_goal = $11, daily_fat_goal = $12,
			updated_at = NOW()
		WHERE user_id = $1
		RETURNING `+profileColumns,
		userID, fullName, b.AgeYears, string(b.Sex), b.WeightKg, b.HeightCm,
		string(b.GoalType), string(b.ActivityLevel),
		g.Calories, g.ProteinG, g.CarbsG, g.FatG,
	)
	p, err := scanProfile(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrProfileNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("save profile: %w", err)
	}

	invalidateUserDashboards(ctx, userID)
	events.Emit(ctx, events.ProfileGoalsUpdated, userID, goalsUpdatedPayload{Goals: g, Biometrics: b})
	return p, nil
}

// UpdateAvatar stores the uploaded avatar URL.
func UpdateAvatar(ctx context.Context, userID, url string) error {
	res, err := database.PostgresDB.ExecContext(ctx,
		`UPDATE profiles SET avatar_url = $2, updated_at = NOW() WHERE user_id = $1`, userID, url)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrProfileNotFound
	}
	return nil
}

func nullInt(v sql.NullInt64) *int {
	if !v.Valid {
		return nil
	}
	i := int(v.Int64)
	return &i
}

func nullFloat(v sql.NullFloat64) *float64 {
	if !v.Valid {
		return nil
	}
	f := v.Float64
	return &f
}
