package ports

import (
	"time"

	"github.com/google/uuid"
)

// PasswordHasher abstracts slow salted hashing.
type PasswordHasher interface {
	Hash(password string) (string, error)
	Compare(hash, password string) error
}

// TokenClaims is the decoded session token payload.
type TokenClaims struct {
	UserID    uuid.UUID
	IssuedAt  time.Time
	ExpiresAt time.Time
}

// TokenIssuer signs and parses stateless session tokens.
// Parse returns domain.ErrInvalidToken for bad signatures and expired tokens.
type TokenIssuer interface {
	Issue(userID uuid.UUID, now time.Time) (string, error)
	Parse(token string, now time.Time) (TokenClaims, error)
}
