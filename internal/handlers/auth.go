package handlers

import (
	"context"
	"errors"
	"log"
	"net/http"
	"strings"

	"github.com/AnshRaj112/fitify-backend/internal/services"
	"github.com/AnshRaj112/fitify-backend/pkg/clientip"
	"github.com/AnshRaj112/fitify-backend/pkg/utils"
	"github.com/google/uuid"
)

type contextKey string

const userIDKey contextKey = "user_id"

// withUserID stores the authenticated user on the request context.
func withUserID(ctx context.Context, userID string) context.Context {
	return context.WithValue(ctx, userIDKey, userID)
}

func userIDFrom(r *http.Request) (string, bool) {
	id, ok := r.Context().Value(userIDKey).(string)
	return id, ok && id != ""
}

func extractBearerToken(header string) string {
	const prefix = "Bearer "
	if len(header) > len(prefix) && strings.EqualFold(header[:len(prefix)], prefix) {
		return strings.TrimSpace(header[len(prefix):])
	}
	return ""
}

// RequireAuth rejects requests without a valid session token and puts the
// user ID on the context for downstream handlers.
func RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := extractBearerToken(r.Header.Get("Authorization"))
		if token == "" {
			writeFailure(w, http.StatusUnauthorized, "Authentication required")
			return
		}

		userID, ok, err := services.ValidateSession(r.Context(), token)
		if err != nil {
			log.Printf("auth: validate session failed: %v", err)
		}
		if err != nil || !ok {
			writeFailure(w, http.StatusUnauthorized, "Invalid or expired session")
			return
		}

		next.ServeHTTP(w, r.WithContext(withUserID(r.Context(), userID.String())))
	})
}

type SignupRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	FullName string `json:"full_name,omitempty"`
}

type SigninRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type AuthResponse struct {
	Success bool                   `json:"success"`
	Message string                 `json:"message"`
	Token   string                 `json:"token,omitempty"`
	User    map[string]interface{} `json:"user,omitempty"`
}

// Signup creates the account and its empty profile, then opens a session.
func Signup(w http.ResponseWriter, r *http.Request) {
	var req SignupRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	if err := utils.ValidateEmail(req.Email); err != nil {
		writeFailure(w, http.StatusBadRequest, err.Error())
		return
	}
	if err := utils.ValidatePassword(req.Password); err != nil {
		writeFailure(w, http.StatusBadRequest, err.Error())
		return
	}

	hashedPassword, err := utils.HashPassword(req.Password)
	if err != nil {
		writeFailure(w, http.StatusInternalServerError, "Failed to hash password")
		return
	}

	user, err := services.CreateUser(r.Context(), utils.NormalizeEmail(req.Email), hashedPassword, req.FullName)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	token, err := services.CreateSession(r.Context(), uuid.MustParse(user.ID))
	if err != nil {
		log.Printf("auth: create session for %s failed: %v", user.ID, err)
		writeFailure(w, http.StatusInternalServerError, "Account created but sign-in failed, please sign in")
		return
	}

	writeJSON(w, http.StatusCreated, AuthResponse{
		Success: true,
		Message: "Account created successfully",
		Token:   token,
		User: map[string]interface{}{
			"id":                  user.ID,
			"email":               user.Email,
			"created_at":          user.CreatedAt,
			"onboarding_complete": false,
		},
	})
}

// Signin verifies credentials and opens a new session.
func Signin(w http.ResponseWriter, r *http.Request) {
	var req SigninRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if strings.TrimSpace(req.Email) == "" || req.Password == "" {
		writeFailure(w, http.StatusBadRequest, "Email and password are required")
		return
	}

	user, err := services.GetUserByEmail(r.Context(), utils.NormalizeEmail(req.Email))
	if errors.Is(err, services.ErrUserNotFound) {
		writeServiceError(w, services.ErrInvalidCredentials)
		return
	}
	if err != nil {
		writeServiceError(w, err)
		return
	}

	valid, err := utils.VerifyPassword(req.Password, user.PasswordHash)
	if err != nil {
		log.Printf("auth: stored hash for %s unreadable: %v", user.ID, err)
	}
	if err != nil || !valid {
		writeServiceError(w, services.ErrInvalidCredentials)
		return
	}

	token, err := services.CreateSession(r.Context(), uuid.MustParse(user.ID))
	if err != nil {
		log.Printf("auth: create session for %s failed: %v", user.ID, err)
		writeFailure(w, http.StatusInternalServerError, "Failed to create session")
		return
	}

	// Device tracking is best-effort
	if err := services.RecordDevice(r.Context(), user.ID, services.DeviceToken(user.ID, r.UserAgent()), clientip.RealClientIP(r), r.UserAgent()); err != nil {
		log.Printf("auth: record device for %s failed: %v", user.ID, err)
	}

	onboarded := false
	if p, err := services.GetProfile(r.Context(), user.ID); err == nil {
		onboarded = p.OnboardingComplete()
	}

	writeJSON(w, http.StatusOK, AuthResponse{
		Success: true,
		Message: "Login successful",
		Token:   token,
		User: map[string]interface{}{
			"id":                  user.ID,
			"email":               user.Email,
			"created_at":          user.CreatedAt,
			"onboarding_complete": onboarded,
		},
	})
}

// Signout drops the caller's session.
func Signout(w http.ResponseWriter, r *http.Request) {
	token := extractBearerToken(r.Header.Get("Authorization"))
	if err := services.InvalidateSession(r.Context(), token); err != nil {
		log.Printf("auth: invalidate session failed: %v", err)
	}
	writeJSON(w, http.StatusOK, APIResponse{Success: true, Message: "Signed out"})
}

// Me returns the current user and onboarding state. The app calls it on
// launch, so it also slides the session expiry forward.
func Me(w http.ResponseWriter, r *http.Request) {
	userID, ok := userIDFrom(r)
	if !ok {
		writeFailure(w, http.StatusUnauthorized, "Authentication required")
		return
	}

	if err := services.RefreshSession(r.Context(), extractBearerToken(r.Header.Get("Authorization"))); err != nil {
		log.Printf("auth: refresh session for %s failed: %v", userID, err)
	}

	user, err := services.GetUserByID(r.Context(), userID)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	profile, err := services.GetProfile(r.Context(), userID)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, AuthResponse{
		Success: true,
		Message: "OK",
		User: map[string]interface{}{
			"id":                  user.ID,
			"email":               user.Email,
			"created_at":          user.CreatedAt,
			"full_name":           profile.FullName,
			"onboarding_complete": profile.OnboardingComplete(),
		},
	})
}

