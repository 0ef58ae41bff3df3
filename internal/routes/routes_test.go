package routes

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
)

func TestSetupRoutesRegistersAPI(t *testing.T) {
	r := chi.NewRouter()
	SetupRoutes(r)

	registered := map[string]bool{}
	err := chi.Walk(r, func(method, route string, _ http.Handler, _ ...func(http.Handler) http.Handler) error {
		registered[method+" "+route] = true
		return nil
	})
	if err != nil {
		t.Fatalf("walk: %v", err)
	}

	for _, want := range []string{
		"POST /api/auth/signup",
		"POST /api/auth/signin",
		"GET /api/auth/me",
		"GET /api/profile",
		"PUT /api/profile",
		"POST /api/profile/onboarding",
		"POST /api/profile/goals/preview",
		"GET /api/food-entries",
		"POST /api/food-entries",
		"DELETE /api/food-entries/{id}",
		"GET /api/dashboard",
		"GET /api/weight-logs",
		"POST /api/weight-logs",
		"GET /api/progress",
		"POST /api/coach/messages",
		"GET /api/coach/history",
		"GET /ws/coach",
	} {
		if !registered[want] {
			t.Errorf("route %s not registered", want)
		}
	}
}

func TestProtectedRoutesNeedSession(t *testing.T) {
	r := chi.NewRouter()
	SetupRoutes(r)

	for _, path := range []string{"/api/profile", "/api/food-entries", "/api/dashboard", "/api/progress", "/api/coach/history"} {
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
		if rec.Code != http.StatusUnauthorized {
			t.Errorf("GET %s: status %d, want 401", path, rec.Code)
		}
	}
}
