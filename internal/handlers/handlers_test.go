package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/AnshRaj112/fitify-backend/internal/middleware"
	"github.com/AnshRaj112/fitify-backend/internal/nutrition"
	"github.com/AnshRaj112/fitify-backend/internal/services"
	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"
)

const testUserID = "5b0c3c1e-9a43-4c55-8f0e-6c1f7f0b2a10"

func authed(r *http.Request) *http.Request {
	return r.WithContext(withUserID(r.Context(), testUserID))
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder, v interface{}) {
	t.Helper()
	if err := json.NewDecoder(rec.Body).Decode(v); err != nil {
		t.Fatalf("decode response: %v (body %q)", err, rec.Body.String())
	}
}

func useCoach(t *testing.T, c *services.CoachClient) {
	t.Helper()
	prev := coachClient
	coachClient = c
	t.Cleanup(func() { coachClient = prev })
}

func TestProtectedHandlersRequireUser(t *testing.T) {
	handlers := map[string]http.HandlerFunc{
		"GetProfile":         GetProfile,
		"CompleteOnboarding": CompleteOnboarding,
		"UpdateProfile":      UpdateProfile,
		"ListFoodEntries":    ListFoodEntries,
		"CreateFoodEntry":    CreateFoodEntry,
		"DeleteFoodEntry":    DeleteFoodEntry,
		"GetDashboard":       GetDashboard,
		"LogWeight":          LogWeight,
		"ListWeightLogs":     ListWeightLogs,
		"GetProgress":        GetProgress,
		"SendCoachMessage":   SendCoachMessage,
		"GetCoachHistory":    GetCoachHistory,
		"UploadAvatar":       UploadAvatar,
		"Me":                 Me,
	}

	for name, h := range handlers {
		rec := httptest.NewRecorder()
		h(rec, httptest.NewRequest(http.MethodGet, "/", nil))
		if rec.Code != http.StatusUnauthorized {
			t.Errorf("%s without user: status %d, want 401", name, rec.Code)
		}
	}
}

func TestRequireAuthRejectsMissingToken(t *testing.T) {
	called := false
	h := RequireAuth(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) { called = true }))

	for _, header := range []string{"", "Basic abc", "Bearer "} {
		req := httptest.NewRequest(http.MethodGet, "/api/profile", nil)
		if header != "" {
			req.Header.Set("Authorization", header)
		}
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		if rec.Code != http.StatusUnauthorized {
			t.Errorf("Authorization %q: status %d, want 401", header, rec.Code)
		}
	}
	if called {
		t.Error("next handler must not run")
	}
}

func TestExtractBearerToken(t *testing.T) {
	cases := map[string]string{
		"Bearer abc123":   "abc123",
		"bearer  abc123 ": "abc123",
		"Token abc123":    "",
		"":                "",
	}
	for in, want := range cases {
		if got := extractBearerToken(in); got != want {
			t.Errorf("extractBearerToken(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestCreateFoodEntryValidation(t *testing.T) {
	cases := []struct {
		body  string
		field string
	}{
		{`{"meal_type":"brunch","food_name":"Eggs","calories":200}`, "meal_type"},
		{`{"meal_type":"breakfast","food_name":"  ","calories":200}`, "food_name"},
		{`{"meal_type":"lunch","food_name":"Rice","calories":-5}`, "calories"},
		{`{"meal_type":"dinner","food_name":"Fish","calories":300,"protein":-1}`, "protein"},
		{`{"meal_type":"dinner","food_name":"Feast","calories":3000000000}`, "calories"},
		{`{"meal_type":"lunch","food_name":"Oil","calories":900,"fat":100000}`, "fat"},
		{`{"meal_type":"snack","food_name":"Nuts","calories":100,"entry_date":"17/10/2026"}`, "entry_date"},
	}

	for _, tc := range cases {
		rec := httptest.NewRecorder()
		CreateFoodEntry(rec, authed(httptest.NewRequest(http.MethodPost, "/api/food-entries", strings.NewReader(tc.body))))

		if rec.Code != http.StatusBadRequest {
			t.Errorf("%s: status %d, want 400", tc.body, rec.Code)
			continue
		}
		var resp APIResponse
		decodeBody(t, rec, &resp)
		if resp.Success || resp.Field != tc.field {
			t.Errorf("%s: got %+v, want field %s", tc.body, resp, tc.field)
		}
	}
}

func TestDecodeJSONRejectsUnknownFields(t *testing.T) {
	rec := httptest.NewRecorder()
	body := `{"weight":70,"mood":"great"}`
	LogWeight(rec, authed(httptest.NewRequest(http.MethodPost, "/api/weight-logs", strings.NewReader(body))))
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status %d, want 400", rec.Code)
	}
}

func TestLogWeightValidation(t *testing.T) {
	for _, body := range []string{`{"weight":0}`, `{"weight":400}`, `{"weight":70,"log_date":"yesterday"}`} {
		rec := httptest.NewRecorder()
		LogWeight(rec, authed(httptest.NewRequest(http.MethodPost, "/api/weight-logs", strings.NewReader(body))))
		if rec.Code != http.StatusBadRequest {
			t.Errorf("%s: status %d, want 400", body, rec.Code)
		}
	}
}

func TestListFoodEntriesRejectsBadDate(t *testing.T) {
	rec := httptest.NewRecorder()
	ListFoodEntries(rec, authed(httptest.NewRequest(http.MethodGet, "/api/food-entries?date=2026-13-45", nil)))
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status %d, want 400", rec.Code)
	}
}

func TestDeleteFoodEntryUnknownID(t *testing.T) {
	r := chi.NewRouter()
	r.Delete("/api/food-entries/{id}", DeleteFoodEntry)

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, authed(httptest.NewRequest(http.MethodDelete, "/api/food-entries/not-a-uuid", nil)))
	if rec.Code != http.StatusNotFound {
		t.Fatalf("status %d, want 404", rec.Code)
	}
}

func TestPreviewGoals(t *testing.T) {
	body := `{"age":30,"gender":"male","current_weight":70,"height_cm":175,"goal_type":"maintain_weight","activity_level":"sedentary"}`
	rec := httptest.NewRecorder()
	PreviewGoals(rec, httptest.NewRequest(http.MethodPost, "/api/profile/goals/preview", strings.NewReader(body)))

	if rec.Code != http.StatusOK {
		t.Fatalf("status %d: %s", rec.Code, rec.Body.String())
	}
	var resp GoalsPreviewResponse
	decodeBody(t, rec, &resp)
	g := resp.Goals
	if g.Calories != 1979 || g.ProteinG != 148 || g.CarbsG != 198 || g.FatG != 66 {
		t.Errorf("goals = %+v, want 1979/148/198/66", g)
	}
}

func TestPreviewGoalsDefaultsChoices(t *testing.T) {
	body := `{"age":30,"current_weight":70,"height_cm":175}`
	rec := httptest.NewRecorder()
	PreviewGoals(rec, httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body)))
	if rec.Code != http.StatusOK {
		t.Fatalf("status %d: %s", rec.Code, rec.Body.String())
	}

	var resp GoalsPreviewResponse
	decodeBody(t, rec, &resp)
	want := nutrition.CalculateGoals(nutrition.Biometrics{
		WeightKg: 70, HeightCm: 175, AgeYears: 30,
		Sex:           nutrition.SexUndisclosed,
		ActivityLevel: nutrition.ActivityModeratelyActive,
		GoalType:      nutrition.GoalMaintainWeight,
	})
	if resp.Goals != want {
		t.Errorf("goals = %+v, want %+v", resp.Goals, want)
	}
}

func TestPreviewGoalsRejectsBadInput(t *testing.T) {
	cases := map[string]string{
		`{"age":30,"gender":"robot","current_weight":70,"height_cm":175}`: "gender",
		`{"age":5,"gender":"female","current_weight":70,"height_cm":175}`: "age",
		`{"age":30,"current_weight":70,"height_cm":175,"goal_type":"bulk"}`: "goal_type",
	}
	for body, field := range cases {
		rec := httptest.NewRecorder()
		PreviewGoals(rec, httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body)))
		var resp APIResponse
		decodeBody(t, rec, &resp)
		if rec.Code != http.StatusBadRequest || resp.Field != field {
			t.Errorf("%s: status %d field %q, want 400 %q", body, rec.Code, resp.Field, field)
		}
	}
}

func TestCompleteOnboardingRequiresName(t *testing.T) {
	body := `{"full_name":"","age":30,"gender":"male","current_weight":70,"height_cm":175}`
	rec := httptest.NewRecorder()
	CompleteOnboarding(rec, authed(httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body))))

	var resp APIResponse
	decodeBody(t, rec, &resp)
	if rec.Code != http.StatusBadRequest || resp.Field != "full_name" {
		t.Errorf("status %d field %q, want 400 full_name", rec.Code, resp.Field)
	}
}

func TestWriteServiceError(t *testing.T) {
	cases := []struct {
		err    error
		status int
		msg    string
	}{
		{&nutrition.ValidationError{Field: "age", Message: "bad age"}, http.StatusBadRequest, "bad age"},
		{fmt.Errorf("load: %w", services.ErrProfileNotFound), http.StatusNotFound, "Profile not found"},
		{services.ErrEntryNotFound, http.StatusNotFound, "Food entry not found"},
		{services.ErrOnboardingIncomplete, http.StatusConflict, "Please complete onboarding first"},
		{services.ErrDuplicateWeightLog, http.StatusConflict, DuplicateWeightLogMessage},
		{services.ErrEmailTaken, http.StatusConflict, "An account with this email already exists"},
		{services.ErrInvalidCredentials, http.StatusUnauthorized, "Invalid email or password"},
		{&services.CoachAPIError{StatusCode: 429}, http.StatusBadGateway, (&services.CoachAPIError{StatusCode: 429}).UserMessage()},
		{errors.New("db down"), http.StatusInternalServerError, "Internal server error"},
	}

	for _, tc := range cases {
		rec := httptest.NewRecorder()
		writeServiceError(rec, tc.err)
		var resp APIResponse
		decodeBody(t, rec, &resp)
		if rec.Code != tc.status || resp.Message != tc.msg || resp.Success {
			t.Errorf("%v: got %d %q, want %d %q", tc.err, rec.Code, resp.Message, tc.status, tc.msg)
		}
	}
}

func geminiStub(t *testing.T, status int, body string) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("x-goog-api-key") != "test-key" {
			t.Errorf("missing api key header")
		}
		w.WriteHeader(status)
		_, _ = io.WriteString(w, body)
	}))
	t.Cleanup(srv.Close)
	return srv
}

const geminiOK = `{"candidates":[{"content":{"parts":[{"text":"Start with three full-body sessions a week."}]}}]}`

func TestSendCoachMessage(t *testing.T) {
	srv := geminiStub(t, http.StatusOK, geminiOK)
	useCoach(t, services.NewCoachClient("test-key", srv.URL, "test-model"))

	rec := httptest.NewRecorder()
	body := `{"text":"Create a beginner workout plan"}`
	SendCoachMessage(rec, authed(httptest.NewRequest(http.MethodPost, "/api/coach/messages", strings.NewReader(body))))

	if rec.Code != http.StatusOK {
		t.Fatalf("status %d: %s", rec.Code, rec.Body.String())
	}
	var resp CoachReplyResponse
	decodeBody(t, rec, &resp)
	if !resp.Success || resp.Reply.Text != "Start with three full-body sessions a week." {
		t.Errorf("reply = %+v", resp)
	}
	if resp.Prompt.Text != "Create a beginner workout plan" || resp.Prompt.UserID != testUserID {
		t.Errorf("prompt = %+v", resp.Prompt)
	}
}

func TestSendCoachMessageAPIFailureIsInlineReply(t *testing.T) {
	srv := geminiStub(t, http.StatusForbidden, `{"error":"denied"}`)
	useCoach(t, services.NewCoachClient("test-key", srv.URL, "test-model"))

	rec := httptest.NewRecorder()
	SendCoachMessage(rec, authed(httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"text":"hi"}`))))

	var resp CoachReplyResponse
	decodeBody(t, rec, &resp)
	if rec.Code != http.StatusOK || resp.Success || !resp.Reply.Failed {
		t.Fatalf("got %d %+v", rec.Code, resp)
	}
	if want := (&services.CoachAPIError{StatusCode: 403}).UserMessage(); resp.Reply.Text != want {
		t.Errorf("reply text = %q, want %q", resp.Reply.Text, want)
	}
}

func TestSendCoachMessageNotConfigured(t *testing.T) {
	useCoach(t, services.NewCoachClient("", "", ""))

	rec := httptest.NewRecorder()
	SendCoachMessage(rec, authed(httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"text":"hi"}`))))

	var resp CoachReplyResponse
	decodeBody(t, rec, &resp)
	if resp.Success || resp.Message == "" {
		t.Errorf("expected not-configured notice, got %+v", resp)
	}
}

func TestSendCoachMessageEmptyText(t *testing.T) {
	rec := httptest.NewRecorder()
	SendCoachMessage(rec, authed(httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"text":"   "}`))))
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status %d, want 400", rec.Code)
	}
}

func TestCoachHistoryEmptyShowsWelcome(t *testing.T) {
	rec := httptest.NewRecorder()
	GetCoachHistory(rec, authed(httptest.NewRequest(http.MethodGet, "/api/coach/history", nil)))

	var resp CoachHistoryResponse
	decodeBody(t, rec, &resp)
	if len(resp.Messages) != 1 || resp.Messages[0].Text != services.CoachWelcomeMessage {
		t.Fatalf("messages = %+v", resp.Messages)
	}
}

func TestCoachHistoryRejectsBadCursor(t *testing.T) {
	rec := httptest.NewRecorder()
	GetCoachHistory(rec, authed(httptest.NewRequest(http.MethodGet, "/api/coach/history?before=yesterday", nil)))
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status %d, want 400", rec.Code)
	}
}

func TestCoachPrompts(t *testing.T) {
	useCoach(t, services.NewCoachClient("test-key", "http://unused", "m"))

	rec := httptest.NewRecorder()
	GetCoachPrompts(rec, httptest.NewRequest(http.MethodGet, "/api/coach/prompts", nil))

	var resp CoachPromptsResponse
	decodeBody(t, rec, &resp)
	if !resp.Configured || len(resp.Prompts) != len(services.CoachQuickPrompts) {
		t.Errorf("resp = %+v", resp)
	}
}

func TestCoachSocketRejectsMissingToken(t *testing.T) {
	rec := httptest.NewRecorder()
	CoachWebSocket(rec, httptest.NewRequest(http.MethodGet, "/ws/coach", nil))
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("status %d, want 401", rec.Code)
	}
}

// dialCoachSocket serves serveCoachConn on a test server and dials it.
func dialCoachSocket(t *testing.T, allow coachSendAllowance) *websocket.Conn {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := coachUpgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		defer conn.Close()
		serveCoachConn(conn, testUserID, allow)
	}))
	t.Cleanup(srv.Close)

	conn, _, err := websocket.DefaultDialer.Dial("ws"+strings.TrimPrefix(srv.URL, "http"), nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	t.Cleanup(func() { conn.Close() })
	_ = conn.SetReadDeadline(time.Now().Add(5 * time.Second))
	return conn
}

func alwaysAllow() (bool, string) { return true, "" }

func TestCoachSocketExchange(t *testing.T) {
	gemini := geminiStub(t, http.StatusOK, geminiOK)
	useCoach(t, services.NewCoachClient("test-key", gemini.URL, "test-model"))

	conn := dialCoachSocket(t, alwaysAllow)

	if err := conn.WriteJSON(CoachClientMessage{Type: "ping"}); err != nil {
		t.Fatal(err)
	}
	var evt CoachServerEvent
	if err := conn.ReadJSON(&evt); err != nil || evt.Type != "pong" {
		t.Fatalf("ping: %+v %v", evt, err)
	}

	if err := conn.WriteJSON(CoachClientMessage{Type: "message", Text: "How much protein?"}); err != nil {
		t.Fatal(err)
	}
	if err := conn.ReadJSON(&evt); err != nil || evt.Type != "typing" {
		t.Fatalf("typing: %+v %v", evt, err)
	}

	evt = CoachServerEvent{}
	if err := conn.ReadJSON(&evt); err != nil {
		t.Fatal(err)
	}
	if evt.Type != "reply" || evt.Reply == nil || evt.Reply.Text != "Start with three full-body sessions a week." {
		t.Fatalf("reply event = %+v", evt)
	}
	if evt.Prompt == nil || evt.Prompt.Text != "How much protein?" {
		t.Errorf("prompt = %+v", evt.Prompt)
	}
}

func TestCoachSocketSharesSendLimit(t *testing.T) {
	var calls atomic.Int32
	gemini := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		_, _ = io.WriteString(w, geminiOK)
	}))
	t.Cleanup(gemini.Close)
	useCoach(t, services.NewCoachClient("test-key", gemini.URL, "test-model"))

	token := "socket-burst-" + time.Now().Format(time.RFC3339Nano)
	conn := dialCoachSocket(t, func() (bool, string) {
		return middleware.AllowCoachMessage(token)
	})

	for i := 0; i < middleware.CoachSendBurst; i++ {
		if err := conn.WriteJSON(CoachClientMessage{Type: "message", Text: fmt.Sprintf("question %d", i)}); err != nil {
			t.Fatal(err)
		}
		var typing, reply CoachServerEvent
		if err := conn.ReadJSON(&typing); err != nil || typing.Type != "typing" {
			t.Fatalf("frame %d typing: %+v %v", i+1, typing, err)
		}
		if err := conn.ReadJSON(&reply); err != nil || reply.Type != "reply" {
			t.Fatalf("frame %d reply: %+v %v", i+1, reply, err)
		}
	}

	if err := conn.WriteJSON(CoachClientMessage{Type: "message", Text: "one more"}); err != nil {
		t.Fatal(err)
	}
	var evt CoachServerEvent
	if err := conn.ReadJSON(&evt); err != nil {
		t.Fatal(err)
	}
	if evt.Type != "error" || evt.Error == "" {
		t.Fatalf("over burst: %+v, want error frame", evt)
	}
	if n := calls.Load(); n != middleware.CoachSendBurst {
		t.Errorf("model calls = %d, want %d", n, middleware.CoachSendBurst)
	}
}

func TestCheckCoachOrigin(t *testing.T) {
	prev := coachAllowedOrigins
	coachAllowedOrigins = []string{"https://www.fitify.app"}
	t.Cleanup(func() { coachAllowedOrigins = prev })

	cases := map[string]bool{
		"":                       true,
		"https://www.fitify.app": true,
		"HTTPS://WWW.FITIFY.APP": true,
		"https://evil.example":   false,
	}
	for origin, want := range cases {
		r := httptest.NewRequest(http.MethodGet, "/ws/coach", nil)
		if origin != "" {
			r.Header.Set("Origin", origin)
		}
		if got := checkCoachOrigin(r); got != want {
			t.Errorf("origin %q: allowed = %v, want %v", origin, got, want)
		}
	}
}
