package handlers

import (
	"net/http"
	"time"

	"github.com/AnshRaj112/fitify-backend/internal/nutrition"
	"github.com/AnshRaj112/fitify-backend/internal/services"
	"github.com/go-chi/chi/v5"
)

type CreateFoodEntryRequest struct {
	MealType  nutrition.MealSlot `json:"meal_type"`
	FoodName  string             `json:"food_name"`
	Calories  int                `json:"calories"`
	Protein   *float64           `json:"protein"`
	Carbs     *float64           `json:"carbs"`
	Fat       *float64           `json:"fat"`
	EntryDate string             `json:"entry_date"`
}

type FoodEntryResponse struct {
	Success bool                 `json:"success"`
	Message string               `json:"message,omitempty"`
	Entry   *nutrition.FoodEntry `json:"entry,omitempty"`
}

type FoodEntriesResponse struct {
	Success bool                  `json:"success"`
	Date    string                `json:"date"`
	Entries []nutrition.FoodEntry `json:"entries"`
}

// dateParam reads ?date=YYYY-MM-DD, defaulting to today in UTC.
func dateParam(r *http.Request) string {
	if d := r.URL.Query().Get("date"); d != "" {
		return d
	}
	return time.Now().UTC().Format(nutrition.DateLayout)
}

// ListFoodEntries returns the caller's entries for one day, newest first.
func ListFoodEntries(w http.ResponseWriter, r *http.Request) {
	userID, ok := userIDFrom(r)
	if !ok {
		writeFailure(w, http.StatusUnauthorized, "Authentication required")
		return
	}

	date := dateParam(r)
	if err := nutrition.ValidateDate("date", date); err != nil {
		writeServiceError(w, err)
		return
	}

	entries, err := services.ListFoodEntries(r.Context(), userID, date)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, FoodEntriesResponse{Success: true, Date: date, Entries: entries})
}

// CreateFoodEntry logs a food item.
func CreateFoodEntry(w http.ResponseWriter, r *http.Request) {
	userID, ok := userIDFrom(r)
	if !ok {
		writeFailure(w, http.StatusUnauthorized, "Authentication required")
		return
	}

	var req CreateFoodEntryRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	entry, err := services.CreateFoodEntry(r.Context(), userID, nutrition.FoodEntry{
		MealType:  req.MealType,
		FoodName:  req.FoodName,
		Calories:  req.Calories,
		Protein:   req.Protein,
		Carbs:     req.Carbs,
		Fat:       req.Fat,
		EntryDate: req.EntryDate,
	})
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, FoodEntryResponse{Success: true, Message: "Food logged successfully!", Entry: &entry})
}

// DeleteFoodEntry removes one of the caller's entries.
func DeleteFoodEntry(w http.ResponseWriter, r *http.Request) {
	userID, ok := userIDFrom(r)
	if !ok {
		writeFailure(w, http.StatusUnauthorized, "Authentication required")
		return
	}

	if err := services.DeleteFoodEntry(r.Context(), userID, chi.URLParam(r, "id")); err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, APIResponse{Success: true, Message: "Entry deleted"})
}
