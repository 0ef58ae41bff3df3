package handlers

import (
	"net/http"

	"github.com/AnshRaj112/fitify-backend/internal/nutrition"
	"github.com/AnshRaj112/fitify-backend/internal/services"
)

type LogWeightRequest struct {
	Weight  float64 `json:"weight"`
	LogDate string  `json:"log_date"`
}

type WeightLogResponse struct {
	Success bool                      `json:"success"`
	Message string                    `json:"message,omitempty"`
	Log     *nutrition.WeightLogEntry `json:"log,omitempty"`
}

type WeightLogsResponse struct {
	Success bool                       `json:"success"`
	Logs    []nutrition.WeightLogEntry `json:"logs"`
}

type ProgressResponse struct {
	Success bool                    `json:"success"`
	Summary nutrition.WeightSummary `json:"summary"`
}

// LogWeight records today's (or log_date's) weight.
func LogWeight(w http.ResponseWriter, r *http.Request) {
	userID, ok := userIDFrom(r)
	if !ok {
		writeFailure(w, http.StatusUnauthorized, "Authentication required")
		return
	}

	var req LogWeightRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	l, err := services.LogWeight(r.Context(), userID, req.Weight, req.LogDate)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, WeightLogResponse{Success: true, Message: "Weight logged successfully!", Log: &l})
}

// ListWeightLogs returns the weight history, oldest first.
func ListWeightLogs(w http.ResponseWriter, r *http.Request) {
	userID, ok := userIDFrom(r)
	if !ok {
		writeFailure(w, http.StatusUnauthorized, "Authentication required")
		return
	}

	logs, err := services.ListWeightLogs(r.Context(), userID)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, WeightLogsResponse{Success: true, Logs: logs})
}

// GetProgress returns the weight trend summary.
func GetProgress(w http.ResponseWriter, r *http.Request) {
	userID, ok := userIDFrom(r)
	if !ok {
		writeFailure(w, http.StatusUnauthorized, "Authentication required")
		return
	}

	summary, err := services.GetProgress(r.Context(), userID)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, ProgressResponse{Success: true, Summary: summary})
}
