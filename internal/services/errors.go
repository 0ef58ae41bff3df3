package services

import (
	"errors"
	"fmt"

	"github.com/lib/pq"
)

var (
	ErrProfileNotFound      = errors.New("profile not found")
	ErrEntryNotFound        = errors.New("food entry not found")
	ErrUserNotFound         = errors.New("user not found")
	ErrOnboardingIncomplete = errors.New("onboarding not completed")
	ErrDuplicateWeightLog   = errors.New("weight already logged for this date")
	ErrEmailTaken           = errors.New("an account with this email already exists")
	ErrInvalidCredentials   = errors.New("invalid email or password")
	ErrCoachNotConfigured   = errors.New("coach is not configured: missing Gemini API key")
)

// CoachAPIError is a non-200 answer from the generative model endpoint.
type CoachAPIError struct {
	StatusCode int
	Body       string
}

func (e *CoachAPIError) Error() string {
	return fmt.Sprintf("gemini API error: %d - %s", e.StatusCode, e.Body)
}

// UserMessage is the text shown to the user for this failure.
func (e *CoachAPIError) UserMessage() string {
	switch e.StatusCode {
	case 403:
		return "❌ The coach's API key is invalid or lacks permission."
	case 400:
		return "❌ Bad request. There might be an issue with the request format."
	case 429:
		return "The coach is receiving too many requests. Please try again in a moment."
	}
	return fmt.Sprintf("❌ Coach error (status %d). Please try again later.", e.StatusCode)
}

const pqUniqueViolation = "23505"

// isUniqueViolation reports whether err is a Postgres unique_violation,
// optionally restricted to one constraint name.
func isUniqueViolation(err error, constraint string) bool {
	var pqErr *pq.Error
	if !errors.As(err, &pqErr) {
		return false
	}
	if pqErr.Code != pqUniqueViolation {
		return false
	}
	return constraint == "" || pqErr.Constraint == constraint
}
