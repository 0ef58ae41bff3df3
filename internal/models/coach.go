package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// CoachRole identifies who authored a coach conversation message.
type CoachRole string

const (
	CoachRoleUser  CoachRole = "user"
	CoachRoleCoach CoachRole = "coach"
)

// CoachMessage is stored in MongoDB, one document per message.
type CoachMessage struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	UserID    string             `bson:"user_id" json:"user_id"`
	Role      CoachRole          `bson:"role" json:"role"`
	Text      string             `bson:"text" json:"text"`
	CreatedAt time.Time          `bson:"created_at" json:"created_at"`
	// Failed marks a coach reply that is an error notice rather than model output.
	Failed bool `bson:"failed,omitempty" json:"failed,omitempty"`
}

// CoachExchange is one user prompt and the coach reply to it.
type CoachExchange struct {
	Prompt CoachMessage `json:"prompt"`
	Reply  CoachMessage `json:"reply"`
}
