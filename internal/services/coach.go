package services

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// CoachSystemPrompt is sent ahead of every user message.
const CoachSystemPrompt = `You are FitMaster, a fitness and nutrition coach with more than twenty years of experience helping people reach their health goals. Your areas of expertise:

• Exercise science and workout programming
• Nutrition science and meal planning
• Weight loss and weight gain strategies
• Muscle building and strength training
• Cardiovascular health and endurance
• Recovery and injury prevention
• Supplement guidance
• Motivation and mental health

How you behave:
- Supportive and encouraging, never judgmental
- Evidence-based in your recommendations
- Practical and realistic
- Adapt advice to the person's fitness level and goals
- Put safety and proper form first

When answering:
- Ask follow-up questions when you need more detail to personalize advice
- Give specific, actionable recommendations
- Add safety warnings where they matter
- Offer modifications for different ability levels
- Mention current research when it is relevant
- Keep answers concise but complete

You are talking to someone partway through their fitness journey. Meet them where they are and help them take the next step.`

// CoachWelcomeMessage opens an empty conversation.
const CoachWelcomeMessage = "👋 Hi there! I'm your personal fitness and nutrition coach! I'm here to help you with workout plans, nutrition advice, goal setting, and any fitness questions you have. What would you like to work on today?"

// CoachFallbackReply is used when the model returns no candidate text.
const CoachFallbackReply = "I'm sorry, I couldn't process that request. Please try again."

// CoachQuickPrompts are suggested starter questions.
var CoachQuickPrompts = []string{
	"Create a beginner workout plan",
	"What should I eat for muscle gain?",
	"How to lose weight safely?",
	"Best exercises for core strength",
}

const (
	coachRequestTimeout = 60 * time.Second
	maxCoachErrorBody   = 4 << 10
	// MaxCoachPromptLength caps user text sent to the model.
	MaxCoachPromptLength = 4000
)

// GeminiRequest is the generateContent request body.
type GeminiRequest struct {
	Contents []GeminiContent `json:"contents"`
}

type GeminiContent struct {
	Role  string       `json:"role,omitempty"`
	Parts []GeminiPart `json:"parts"`
}

type GeminiPart struct {
	Text string `json:"text"`
}

// GeminiResponse is the subset of the generateContent response we read.
type GeminiResponse struct {
	Candidates []GeminiCandidate `json:"candidates"`
}

type GeminiCandidate struct {
	Content GeminiContent `json:"content"`
}

// CoachClient calls the Gemini generateContent endpoint. Requests are never
// retried; failures surface to the caller as errors.
type CoachClient struct {
	apiKey  string
	baseURL string
	model   string
	client  *http.Client
}

// NewCoachClient builds a client. baseURL is the API root, e.g.
// https://generativelanguage.googleapis.com/v1beta.
func NewCoachClient(apiKey, baseURL, model string) *CoachClient {
	return &CoachClient{
		apiKey:  strings.TrimSpace(apiKey),
		baseURL: strings.TrimRight(baseURL, "/"),
		model:   model,
		client:  &http.Client{Timeout: coachRequestTimeout},
	}
}

// Configured reports whether an API key is present.
func (c *CoachClient) Configured() bool {
	return c != nil && c.apiKey != ""
}

// Ask sends the coach system prompt followed by the user's text.
func (c *CoachClient) Ask(ctx context.Context, userText string) (string, error) {
	return c.SendPrompt(ctx, CoachSystemPrompt, userText)
}

// SendPrompt performs one stateless generateContent call.
func (c *CoachClient) SendPrompt(ctx context.Context, systemPrompt, userText string) (string, error) {
	if !c.Configured() {
		return "", ErrCoachNotConfigured
	}

	body, err := json.Marshal(GeminiRequest{
		Contents: []GeminiContent{{
			Parts: []GeminiPart{{Text: buildCoachPrompt(systemPrompt, userText)}},
		}},
	})
	if err != nil {
		return "", fmt.Errorf("error marshaling request: %w", err)
	}

	url := fmt.Sprintf("%s/models/%s:generateContent", c.baseURL, c.model)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("error creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-goog-api-key", c.apiKey)

	resp, err := c.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("error making request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		errBody, _ := io.ReadAll(io.LimitReader(resp.Body, maxCoachErrorBody))
		return "", &CoachAPIError{StatusCode: resp.StatusCode, Body: string(errBody)}
	}

	var response GeminiResponse
	if err := json.NewDecoder(resp.Body).Decode(&response); err != nil {
		return "", fmt.Errorf("error unmarshaling response: %w", err)
	}

	if text := firstCandidateText(response); text != "" {
		return text, nil
	}
	return CoachFallbackReply, nil
}

func buildCoachPrompt(systemPrompt, userText string) string {
	return systemPrompt + "\n\nUser: " + userText
}

func firstCandidateText(r GeminiResponse) string {
	if len(r.Candidates) == 0 || len(r.Candidates[0].Content.Parts) == 0 {
		return ""
	}
	return strings.TrimSpace(r.Candidates[0].Content.Parts[0].Text)
}

// CoachErrorMessage maps a coach failure to the text shown in the chat.
func CoachErrorMessage(err error) string {
	var apiErr *CoachAPIError
	switch {
	case errors.Is(err, ErrCoachNotConfigured):
		return "❌ The coach is not configured yet. Ask the administrator to set a Gemini API key."
	case errors.As(err, &apiErr):
		return apiErr.UserMessage()
	case errors.Is(err, context.DeadlineExceeded):
		return "The coach took too long to answer. Please try again."
	}
	return "I'm sorry, I'm having trouble connecting right now."
}
