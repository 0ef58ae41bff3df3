package services

import (
	"context"
	"log"
	"time"

	"github.com/AnshRaj112/fitify-backend/internal/database"
	"github.com/AnshRaj112/fitify-backend/internal/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const (
	coachCollection     = "coach_messages"
	DefaultHistoryLimit = 50
	MaxHistoryLimit     = 100
	coachWriteTimeout   = 5 * time.Second
)

// EnsureCoachIndexes creates the (user_id, created_at) index used for paging.
// Called on startup after Mongo has connected.
func EnsureCoachIndexes(ctx context.Context) error {
	col := database.DB.Collection(coachCollection)

	_, err := col.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{
			{Key: "user_id", Value: 1},
			{Key: "created_at", Value: -1},
		},
		Options: options.Index().SetName("idx_user_created_at"),
	})
	return err
}

// SaveCoachMessage persists one message and pushes it onto the recent cache.
// Without a Mongo connection the message is only cached.
func SaveCoachMessage(ctx context.Context, msg *models.CoachMessage) error {
	if msg.CreatedAt.IsZero() {
		msg.CreatedAt = time.Now().UTC()
	}
	if msg.ID.IsZero() {
		msg.ID = primitive.NewObjectID()
	}

	if database.DB != nil {
		wctx, cancel := context.WithTimeout(ctx, coachWriteTimeout)
		defer cancel()
		if _, err := database.DB.Collection(coachCollection).InsertOne(wctx, msg); err != nil {
			return err
		}
	}

	pushCoachRecent(*msg)
	return nil
}

// LoadCoachMessages returns one page of history, oldest first. Paging walks
// backwards from before (exclusive); hasMore reports older messages exist.
func LoadCoachMessages(ctx context.Context, userID string, before *time.Time, limit int64) ([]models.CoachMessage, bool, error) {
	limit = clampHistoryLimit(limit)
	if database.DB == nil {
		return []models.CoachMessage{}, false, nil
	}

	filter := bson.M{"user_id": userID}
	if before != nil {
		filter["created_at"] = bson.M{"$lt": before.UTC()}
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}}).
		SetLimit(limit + 1)

	cur, err := database.DB.Collection(coachCollection).Find(ctx, filter, opts)
	if err != nil {
		return nil, false, err
	}
	defer cur.Close(ctx)

	msgs := []models.CoachMessage{}
	for cur.Next(ctx) {
		var m models.CoachMessage
		if err := cur.Decode(&m); err != nil {
			log.Printf("[coach] skipping undecodable message: %v", err)
			continue
		}
		msgs = append(msgs, m)
	}
	if err := cur.Err(); err != nil {
		return nil, false, err
	}

	msgs, hasMore := trimPage(msgs, limit)
	return msgs, hasMore, nil
}

// trimPage drops the probe row fetched past limit and flips newest-first
// results to oldest-first.
func trimPage(msgs []models.CoachMessage, limit int64) ([]models.CoachMessage, bool) {
	hasMore := int64(len(msgs)) > limit
	if hasMore {
		msgs = msgs[:limit]
	}
	for i, j := 0, len(msgs)-1; i < j; i, j = i+1, j-1 {
		msgs[i], msgs[j] = msgs[j], msgs[i]
	}
	return msgs, hasMore
}

func clampHistoryLimit(limit int64) int64 {
	if limit <= 0 {
		return DefaultHistoryLimit
	}
	if limit > MaxHistoryLimit {
		return MaxHistoryLimit
	}
	return limit
}
