package mongostore

import (
	"context"
	"errors"
	"time"

	"github.com/kartik99Lm10/SuckDSA/internal/domain"
	"github.com/kartik99Lm10/SuckDSA/internal/ports"
	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
)

type otpDocument struct {
	Email     string    `bson:"email"`
	Code      string    `bson:"otp"`
	CreatedAt time.Time `bson:"createdAt"`
	ExpiresAt time.Time `bson:"expires_at"`
}

// OTPStore relies on the TTL index for removal; the server sweeps about once a minute,
// so Get also filters on expires_at.
type OTPStore struct {
	coll *mongo.Collection
}

func (s *OTPStore) Put(ctx context.Context, record domain.OTPRecord) error {
	doc := otpDocument{
		Email:     record.Email,
		Code:      record.Code,
		CreatedAt: record.CreatedAt,
		ExpiresAt: record.ExpiresAt,
	}
	_, err := s.coll.ReplaceOne(ctx, bson.M{"email": record.Email}, doc, options.Replace().SetUpsert(true))
	return err
}

func (s *OTPStore) Get(ctx context.Context, email string) (*domain.OTPRecord, error) {
	var doc otpDocument
	err := s.coll.FindOne(ctx, bson.M{
		"email":      email,
		"expires_at": bson.M{"$gt": time.Now().UTC()},
	}).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		return nil, err
	}
	return &domain.OTPRecord{
		Email:     doc.Email,
		Code:      doc.Code,
		CreatedAt: doc.CreatedAt.UTC(),
		ExpiresAt: doc.ExpiresAt.UTC(),
	}, nil
}

func (s *OTPStore) Delete(ctx context.Context, email string) error {
	_, err := s.coll.DeleteMany(ctx, bson.M{"email": email})
	return err
}

var _ ports.OTPStore = (*OTPStore)(nil)
