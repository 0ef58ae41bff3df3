package services

import (
	"context"
	"log"
	"strings"

	"github.com/AnshRaj112/fitify-backend/internal/models"
	"github.com/AnshRaj112/fitify-backend/internal/nutrition"
)

// AskCoach records the user's prompt, asks the coach, and records the reply.
// On failure the returned exchange still carries a Failed reply with the
// user-facing error text, alongside the error.
func AskCoach(ctx context.Context, coach *CoachClient, userID, text string) (*models.CoachExchange, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, &nutrition.ValidationError{Field: "text", Message: "Message cannot be empty"}
	}
	if len(text) > MaxCoachPromptLength {
		return nil, &nutrition.ValidationError{Field: "text", Message: "Message is too long"}
	}

	ex := &models.CoachExchange{
		Prompt: models.CoachMessage{UserID: userID, Role: models.CoachRoleUser, Text: text},
	}
	if err := SaveCoachMessage(ctx, &ex.Prompt); err != nil {
		log.Printf("[coach] save prompt for %s failed: %v", userID, err)
	}

	answer, askErr := coach.Ask(ctx, text)
	ex.Reply = models.CoachMessage{UserID: userID, Role: models.CoachRoleCoach, Text: answer}
	if askErr != nil {
		log.Printf("[coach] ask failed for %s: %v", userID, askErr)
		ex.Reply.Text = CoachErrorMessage(askErr)
		ex.Reply.Failed = true
	}

	if err := SaveCoachMessage(ctx, &ex.Reply); err != nil {
		log.Printf("[coach] save reply for %s failed: %v", userID, err)
	}
	return ex, askErr
}
