package handlers

import (
	"net/http"

	"github.com/AnshRaj112/fitify-backend/internal/models"
	"github.com/AnshRaj112/fitify-backend/internal/nutrition"
	"github.com/AnshRaj112/fitify-backend/internal/services"
)

// OnboardingRequest mirrors the onboarding questionnaire.
type OnboardingRequest struct {
	FullName      string                  `json:"full_name"`
	Age           int                     `json:"age"`
	Gender        string                  `json:"gender"`
	CurrentWeight float64                 `json:"current_weight"`
	HeightCm      float64                 `json:"height_cm"`
	GoalType      nutrition.GoalType      `json:"goal_type"`
	ActivityLevel nutrition.ActivityLevel `json:"activity_level"`
}

// biometrics applies the questionnaire defaults for omitted choices.
func (req OnboardingRequest) biometrics() (nutrition.Biometrics, error) {
	gender := req.Gender
	if gender == "" {
		gender = string(nutrition.SexUndisclosed)
	}
	sex, err := nutrition.ParseSex(gender)
	if err != nil {
		return nutrition.Biometrics{}, err
	}

	b := nutrition.Biometrics{
		WeightKg:      req.CurrentWeight,
		HeightCm:      req.HeightCm,
		AgeYears:      req.Age,
		Sex:           sex,
		ActivityLevel: req.ActivityLevel,
		GoalType:      req.GoalType,
	}
	if b.GoalType == "" {
		b.GoalType = nutrition.GoalMaintainWeight
	}
	if b.ActivityLevel == "" {
		b.ActivityLevel = nutrition.ActivityModeratelyActive
	}
	return b, nil
}

// ProfileUpdateRequest is a partial profile edit.
type ProfileUpdateRequest struct {
	FullName      *string                  `json:"full_name"`
	Age           *int                     `json:"age"`
	Gender        *string                  `json:"gender"`
	CurrentWeight *float64                 `json:"current_weight"`
	HeightCm      *float64                 `json:"height_cm"`
	GoalType      *nutrition.GoalType      `json:"goal_type"`
	ActivityLevel *nutrition.ActivityLevel `json:"activity_level"`
}

type ProfileResponse struct {
	Success            bool            `json:"success"`
	Message            string          `json:"message,omitempty"`
	Profile            *models.Profile `json:"profile,omitempty"`
	OnboardingComplete bool            `json:"onboarding_complete"`
}

type GoalsPreviewResponse struct {
	Success bool                 `json:"success"`
	Goals   nutrition.DailyGoals `json:"goals"`
}

// GetProfile returns the caller's profile.
func GetProfile(w http.ResponseWriter, r *http.Request) {
	userID, ok := userIDFrom(r)
	if !ok {
		writeFailure(w, http.StatusUnauthorized, "Authentication required")
		return
	}

	p, err := services.GetProfile(r.Context(), userID)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, ProfileResponse{Success: true, Profile: p, OnboardingComplete: p.OnboardingComplete()})
}

// CompleteOnboarding saves the questionnaire and the goals derived from it.
func CompleteOnboarding(w http.ResponseWriter, r *http.Request) {
	userID, ok := userIDFrom(r)
	if !ok {
		writeFailure(w, http.StatusUnauthorized, "Authentication required")
		return
	}

	var req OnboardingRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	b, err := req.biometrics()
	if err != nil {
		writeServiceError(w, err)
		return
	}

	p, err := services.CompleteOnboarding(r.Context(), userID, services.OnboardingInput{FullName: req.FullName, Biometrics: b})
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, ProfileResponse{
		Success:            true,
		Message:            "Profile completed successfully!",
		Profile:            p,
		OnboardingComplete: p.OnboardingComplete(),
	})
}

// UpdateProfile applies a partial edit and recomputes goals.
func UpdateProfile(w http.ResponseWriter, r *http.Request) {
	userID, ok := userIDFrom(r)
	if !ok {
		writeFailure(w, http.StatusUnauthorized, "Authentication required")
		return
	}

	var req ProfileUpdateRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	upd := services.ProfileUpdate{
		FullName:      req.FullName,
		Age:           req.Age,
		CurrentWeight: req.CurrentWeight,
		HeightCm:      req.HeightCm,
		GoalType:      req.GoalType,
		ActivityLevel: req.ActivityLevel,
	}
	if req.Gender != nil {
		sex, err := nutrition.ParseSex(*req.Gender)
		if err != nil {
			writeServiceError(w, err)
			return
		}
		upd.Gender = &sex
	}

	p, err := services.UpdateProfile(r.Context(), userID, upd)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, ProfileResponse{Success: true, Message: "Profile updated", Profile: p, OnboardingComplete: true})
}

// PreviewGoals computes goals for the submitted biometrics without saving.
func PreviewGoals(w http.ResponseWriter, r *http.Request) {
	var req OnboardingRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	b, err := req.biometrics()
	if err != nil {
		writeServiceError(w, err)
		return
	}

	goals, err := services.PreviewGoals(b)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, GoalsPreviewResponse{Success: true, Goals: goals})
}
