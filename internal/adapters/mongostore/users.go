package mongostore

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/kartik99Lm10/SuckDSA/internal/domain"
	"github.com/kartik99Lm10/SuckDSA/internal/ports"
	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
)

type userDocument struct {
	ID           string     `bson:"_id"`
	Name         string     `bson:"name"`
	Email        string     `bson:"email"`
	PasswordHash string     `bson:"password"`
	IsVerified   bool       `bson:"isVerified"`
	CreatedAt    time.Time  `bson:"createdAt"`
	LastLogin    *time.Time `bson:"lastLogin,omitempty"`
}

func (d userDocument) toDomain() (domain.User, error) {
	id, err := uuid.Parse(d.ID)
	if err != nil {
		return domain.User{}, err
	}
	user := domain.User{
		UserID:       id,
		Name:         d.Name,
		Email:        d.Email,
		PasswordHash: d.PasswordHash,
		IsVerified:   d.IsVerified,
		CreatedAt:    d.CreatedAt.UTC(),
	}
	if d.LastLogin != nil {
		t := d.LastLogin.UTC()
		user.LastLogin = &t
	}
	return user, nil
}

type UserRepository struct {
	coll  *mongo.Collection
	store *Store
}

func (r *UserRepository) Create(ctx context.Context, params ports.CreateUserParams) (domain.User, error) {
	doc := userDocument{
		ID:           uuid.NewString(),
		Name:         params.Name,
		Email:        params.Email,
		PasswordHash: params.PasswordHash,
		IsVerified:   params.IsVerified,
		CreatedAt:    params.CreatedAt,
	}
	if _, err := r.coll.InsertOne(ctx, doc); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return domain.User{}, domain.ErrDuplicateUser
		}
		return domain.User{}, err
	}
	return doc.toDomain()
}

func (r *UserRepository) GetByEmail(ctx context.Context, email string) (domain.User, error) {
	return r.findOne(ctx, bson.M{"email": email})
}

func (r *UserRepository) GetByID(ctx context.Context, userID uuid.UUID) (domain.User, error) {
	return r.findOne(ctx, bson.M{"_id": userID.String()})
}

func (r *UserRepository) findOne(ctx context.Context, filter bson.M) (domain.User, error) {
	var doc userDocument
	if err := r.coll.FindOne(ctx, filter).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return domain.User{}, domain.ErrUserNotFound
		}
		return domain.User{}, err
	}
	return doc.toDomain()
}

func (r *UserRepository) UpdateLastLogin(ctx context.Context, userID uuid.UUID, at time.Time) error {
	res, err := r.coll.UpdateOne(ctx, bson.M{"_id": userID.String()}, bson.M{"$set": bson.M{"lastLogin": at}})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return domain.ErrUserNotFound
	}
	return nil
}

func (r *UserRepository) Ping(ctx context.Context) error {
	return r.store.Ping(ctx)
}

var _ ports.UserRepository = (*UserRepository)(nil)
