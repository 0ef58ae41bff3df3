package handlers

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/AnshRaj112/fitify-backend/internal/config"
	"github.com/AnshRaj112/fitify-backend/internal/models"
	"github.com/AnshRaj112/fitify-backend/internal/services"
)

var coachClient *services.CoachClient

// InitCoach builds the coach client from config. An empty API key leaves the
// coach in its not-configured state; requests then get an explanatory reply.
func InitCoach(cfg *config.Config) {
	coachClient = services.NewCoachClient(cfg.GeminiAPIKey, cfg.GeminiBaseURL, cfg.GeminiModel)
	coachAllowedOrigins = cfg.AllowedOrigins
}

type CoachMessageRequest struct {
	Text string `json:"text"`
}

type CoachReplyResponse struct {
	Success bool                `json:"success"`
	Message string              `json:"message,omitempty"`
	Prompt  models.CoachMessage `json:"prompt"`
	Reply   models.CoachMessage `json:"reply"`
}

type CoachHistoryResponse struct {
	Success  bool                  `json:"success"`
	Messages []models.CoachMessage `json:"messages"`
	HasMore  bool                  `json:"has_more"`
}

type CoachPromptsResponse struct {
	Success    bool     `json:"success"`
	Configured bool     `json:"configured"`
	Prompts    []string `json:"prompts"`
}

// SendCoachMessage asks the coach a question. A failed model call still
// answers 200 with the failure rendered as the coach's reply, so the chat
// shows it inline.
func SendCoachMessage(w http.ResponseWriter, r *http.Request) {
	userID, ok := userIDFrom(r)
	if !ok {
		writeFailure(w, http.StatusUnauthorized, "Authentication required")
		return
	}

	var req CoachMessageRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	ex, err := services.AskCoach(r.Context(), activeCoach(), userID, req.Text)
	if ex == nil {
		writeServiceError(w, err)
		return
	}

	resp := CoachReplyResponse{Success: err == nil, Prompt: ex.Prompt, Reply: ex.Reply}
	if err != nil {
		resp.Message = ex.Reply.Text
	}
	writeJSON(w, http.StatusOK, resp)
}

// GetCoachHistory returns a page of the conversation, oldest first.
// Query params: before (RFC3339, optional), limit (optional).
// An empty conversation gets the welcome message.
func GetCoachHistory(w http.ResponseWriter, r *http.Request) {
	userID, ok := userIDFrom(r)
	if !ok {
		writeFailure(w, http.StatusUnauthorized, "Authentication required")
		return
	}

	var limit int64
	if lStr := r.URL.Query().Get("limit"); lStr != "" {
		if parsed, err := strconv.ParseInt(lStr, 10, 64); err == nil {
			limit = parsed
		}
	}

	var before *time.Time
	if bStr := r.URL.Query().Get("before"); bStr != "" {
		t, err := time.Parse(time.RFC3339, bStr)
		if err != nil {
			writeFailure(w, http.StatusBadRequest, "before must be an RFC3339 timestamp")
			return
		}
		before = &t
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	msgs, hasMore, err := services.LoadCoachHistory(ctx, userID, before, limit)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	if len(msgs) == 0 && before == nil {
		msgs = []models.CoachMessage{{
			UserID:    userID,
			Role:      models.CoachRoleCoach,
			Text:      services.CoachWelcomeMessage,
			CreatedAt: time.Now().UTC(),
		}}
	}

	writeJSON(w, http.StatusOK, CoachHistoryResponse{Success: true, Messages: msgs, HasMore: hasMore})
}

// GetCoachPrompts lists the quick-start questions.
func GetCoachPrompts(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, CoachPromptsResponse{
		Success:    true,
		Configured: activeCoach().Configured(),
		Prompts:    services.CoachQuickPrompts,
	})
}

func activeCoach() *services.CoachClient {
	if coachClient == nil {
		return services.NewCoachClient("", "", "")
	}
	return coachClient
}
