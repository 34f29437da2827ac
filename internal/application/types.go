package application

import (
	"time"

	"github.com/kartik99Lm10/SuckDSA/internal/domain"
)

// Config carries tunables resolved once at startup.
type Config struct {
	OTPTTL             time.Duration
	CompletionAttempts int
	CompletionTimeout  time.Duration
	BackoffStep        time.Duration
	HistoryLimit       int
}

func (c Config) withDefaults() Config {
	if c.OTPTTL <= 0 {
		c.OTPTTL = 5 * time.Minute
	}
	if c.CompletionAttempts <= 0 {
		c.CompletionAttempts = 3
	}
	if c.BackoffStep <= 0 {
		c.BackoffStep = time.Second
	}
	if c.HistoryLimit <= 0 || c.HistoryLimit > domain.MaxHistoryMessages {
		c.HistoryLimit = domain.MaxHistoryMessages
	}
	return c
}

type RegisterRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// RegisterResult is either a pending-verification marker or a completed sign-up, depending on Mode.
type RegisterResult struct {
	Mode     domain.RegistrationMode
	Email    string
	NextStep string
	Token    string
	User     *domain.User
}

// Pending reports whether the caller still has to verify an OTP.
func (r RegisterResult) Pending() bool {
	return r.Token == ""
}

type VerifyOTPRequest struct {
	Email    string `json:"email"`
	OTP      string `json:"otp"`
	Name     string `json:"name"`
	Password string `json:"password"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// AuthResult is returned by every operation that ends in a session token.
type AuthResult struct {
	Token string
	User  domain.User
}

type ChatRequest struct {
	Message   string `json:"message"`
	SessionID string `json:"session_id"`
}

type ChatResult struct {
	Response  string
	SessionID string
	Fallback  bool
	Attempts  int
}
