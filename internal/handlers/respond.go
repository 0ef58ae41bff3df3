package handlers

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"github.com/AnshRaj112/fitify-backend/internal/nutrition"
	"github.com/AnshRaj112/fitify-backend/internal/services"
)

// maxBodyBytes bounds JSON request bodies.
const maxBodyBytes = 1 << 20

// DuplicateWeightLogMessage is shown when a weight is already logged for the date.
const DuplicateWeightLogMessage = "You've already logged your weight today!"

// APIResponse is the envelope for responses without a typed payload.
type APIResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
	Field   string `json:"field,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("handlers: encode response failed: %v", err)
	}
}

func writeFailure(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, APIResponse{Success: false, Message: message})
}

// decodeJSON reads a bounded JSON body into dst, rejecting unknown fields.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst interface{}) bool {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		writeFailure(w, http.StatusBadRequest, "Invalid request body")
		return false
	}
	return true
}

// writeServiceError maps service and validation errors to status codes.
func writeServiceError(w http.ResponseWriter, err error) {
	var ve *nutrition.ValidationError
	var apiErr *services.CoachAPIError

	switch {
	case errors.As(err, &ve):
		writeJSON(w, http.StatusBadRequest, APIResponse{Success: false, Message: ve.Message, Field: ve.Field})
	case errors.Is(err, services.ErrProfileNotFound),
		errors.Is(err, services.ErrEntryNotFound),
		errors.Is(err, services.ErrUserNotFound):
		writeFailure(w, http.StatusNotFound, capitalize(err.Error()))
	case errors.Is(err, services.ErrOnboardingIncomplete):
		writeFailure(w, http.StatusConflict, "Please complete onboarding first")
	case errors.Is(err, services.ErrDuplicateWeightLog):
		writeFailure(w, http.StatusConflict, DuplicateWeightLogMessage)
	case errors.Is(err, services.ErrInvalidCredentials):
		writeFailure(w, http.StatusUnauthorized, "Invalid email or password")
	case errors.Is(err, services.ErrEmailTaken):
		writeFailure(w, http.StatusConflict, "An account with this email already exists")
	case errors.Is(err, services.ErrCoachNotConfigured):
		writeFailure(w, http.StatusServiceUnavailable, services.CoachErrorMessage(err))
	case errors.As(err, &apiErr):
		writeFailure(w, http.StatusBadGateway, apiErr.UserMessage())
	default:
		log.Printf("handlers: internal error: %v", err)
		writeFailure(w, http.StatusInternalServerError, "Internal server error")
	}
}

func capitalize(s string) string {
	if s == "" || s[0] < 'a' || s[0] > 'z' {
		return s
	}
	return string(s[0]-'a'+'A') + s[1:]
}
