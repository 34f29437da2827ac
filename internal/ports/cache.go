package ports

import (
	"context"
	"time"

	"github.com/kartik99Lm10/SuckDSA/internal/domain"
)

// OTPStore keeps at most one live code per email.
// Put replaces any previous record. Get returns nil, nil when no record exists.
type OTPStore interface {
	Put(ctx context.Context, record domain.OTPRecord) error
	Get(ctx context.Context, email string) (*domain.OTPRecord, error)
	Delete(ctx context.Context, email string) error
}

// WindowHit is the counter state after one increment.
type WindowHit struct {
	Count   int
	ResetAt time.Time
}

// RateLimitStore counts hits in fixed windows.
type RateLimitStore interface {
	Hit(ctx context.Context, key string, window time.Duration, now time.Time) (WindowHit, error)
}
