package handlers

import (
	"net/http"

	"github.com/AnshRaj112/fitify-backend/internal/nutrition"
	"github.com/AnshRaj112/fitify-backend/internal/services"
)

type DashboardResponse struct {
	Success   bool                `json:"success"`
	Dashboard *services.Dashboard `json:"dashboard"`
}

// GetDashboard returns goals, the day's meals and progress.
func GetDashboard(w http.ResponseWriter, r *http.Request) {
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

	d, err := services.BuildDashboard(r.Context(), userID, date)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, DashboardResponse{Success: true, Dashboard: d})
}
