package domain

import (
	"time"

	"github.com/google/uuid"
)

// User is the credential record behind every session token.
type User struct {
	UserID       uuid.UUID
	Name         string
	Email        string
	PasswordHash string
	IsVerified   bool
	CreatedAt    time.Time
	LastLogin    *time.Time
}

// OTPRecord is a one-time verification code bound to an email.
type OTPRecord struct {
	Email     string
	Code      string
	CreatedAt time.Time
	ExpiresAt time.Time
}

// Live reports whether the code can still be redeemed at now.
func (r OTPRecord) Live(now time.Time) bool {
	return now.Before(r.ExpiresAt)
}

// RegistrationMode selects how new accounts are verified.
type RegistrationMode string

const (
	RegistrationModeOTP    RegistrationMode = "otp"
	RegistrationModeDirect RegistrationMode = "direct"
)

func (m RegistrationMode) Valid() bool {
	return m == RegistrationModeOTP || m == RegistrationModeDirect
}
