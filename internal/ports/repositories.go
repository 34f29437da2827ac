package ports

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/kartik99Lm10/SuckDSA/internal/domain"
)

// CreateUserParams captures the fields persisted at account creation.
type CreateUserParams struct {
	Name         string
	Email        string
	PasswordHash string
	IsVerified   bool
	CreatedAt    time.Time
}

// UserRepository is the credential store.
// Create returns domain.ErrDuplicateUser on an email collision; lookups return domain.ErrUserNotFound.
type UserRepository interface {
	Create(ctx context.Context, params CreateUserParams) (domain.User, error)
	GetByEmail(ctx context.Context, email string) (domain.User, error)
	GetByID(ctx context.Context, userID uuid.UUID) (domain.User, error)
	UpdateLastLogin(ctx context.Context, userID uuid.UUID, at time.Time) error
}

// ChatRepository stores chat turns. Records are never updated.
type ChatRepository interface {
	Append(ctx context.Context, msg domain.ChatMessage) error
	// ListBySession returns at most limit records ordered by timestamp ascending.
	ListBySession(ctx context.Context, sessionID string, limit int) ([]domain.ChatMessage, error)
}

// HealthChecker reports datastore reachability for /health.
type HealthChecker interface {
	Ping(ctx context.Context) error
}
