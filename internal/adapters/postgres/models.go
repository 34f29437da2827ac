package postgres

import (
	"time"

	"github.com/google/uuid"
)

type userModel struct {
	UserID       uuid.UUID  `gorm:"column:user_id;type:uuid;default:gen_random_uuid();primaryKey"`
	Name         string     `gorm:"column:name"`
	Email        string     `gorm:"column:email"`
	PasswordHash string     `gorm:"column:password_hash"`
	IsVerified   bool       `gorm:"column:is_verified"`
	CreatedAt    time.Time  `gorm:"column:created_at"`
	LastLogin    *time.Time `gorm:"column:last_login"`
}

func (userModel) TableName() string { return "users" }

type otpModel struct {
	Email     string    `gorm:"column:email;primaryKey"`
	Code      string    `gorm:"column:otp"`
	CreatedAt time.Time `gorm:"column:created_at"`
	ExpiresAt time.Time `gorm:"column:expires_at"`
}

func (otpModel) TableName() string { return "otps" }

type chatMessageModel struct {
	ID        uuid.UUID  `gorm:"column:id;type:uuid;primaryKey"`
	SessionID string     `gorm:"column:session_id"`
	UserID    *uuid.UUID `gorm:"column:user_id;type:uuid"`
	Message   string     `gorm:"column:message"`
	Response  string     `gorm:"column:response"`
	Fallback  bool       `gorm:"column:fallback"`
	Timestamp time.Time  `gorm:"column:timestamp"`
}

func (chatMessageModel) TableName() string { return "chat_messages" }
