package mongostore

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/kartik99Lm10/SuckDSA/internal/domain"
	"github.com/kartik99Lm10/SuckDSA/internal/ports"
	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
)

type chatDocument struct {
	ID        string    `bson:"id"`
	SessionID string    `bson:"session_id"`
	UserID    string    `bson:"user_id,omitempty"`
	Message   string    `bson:"message"`
	Response  string    `bson:"response"`
	Fallback  bool      `bson:"fallback"`
	Timestamp time.Time `bson:"timestamp"`
}

type ChatRepository struct {
	coll *mongo.Collection
}

func (r *ChatRepository) Append(ctx context.Context, msg domain.ChatMessage) error {
	doc := chatDocument{
		ID:        msg.ID.String(),
		SessionID: msg.SessionID,
		Message:   msg.Message,
		Response:  msg.Response,
		Fallback:  msg.Fallback,
		Timestamp: msg.Timestamp,
	}
	if msg.UserID != uuid.Nil {
		doc.UserID = msg.UserID.String()
	}
	_, err := r.coll.InsertOne(ctx, doc)
	return err
}

func (r *ChatRepository) ListBySession(ctx context.Context, sessionID string, limit int) ([]domain.ChatMessage, error) {
	opts := options.Find().SetSort(bson.D{{Key: "timestamp", Value: 1}})
	if limit > 0 {
		opts.SetLimit(int64(limit))
	}
	cursor, err := r.coll.Find(ctx, bson.M{"session_id": sessionID}, opts)
	if err != nil {
		return nil, err
	}
	var docs []chatDocument
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, err
	}
	out := make([]domain.ChatMessage, 0, len(docs))
	for _, d := range docs {
		msg := domain.ChatMessage{
			SessionID: d.SessionID,
			Message:   d.Message,
			Response:  d.Response,
			Fallback:  d.Fallback,
			Timestamp: d.Timestamp.UTC(),
		}
		msg.ID, _ = uuid.Parse(d.ID)
		msg.UserID, _ = uuid.Parse(d.UserID)
		out = append(out, msg)
	}
	return out, nil
}

var _ ports.ChatRepository = (*ChatRepository)(nil)
