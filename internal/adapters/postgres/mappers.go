package postgres

import (
	"errors"

	"github.com/google/uuid"
	"github.com/kartik99Lm10/SuckDSA/internal/domain"
	"gorm.io/gorm"
)

func toDomainUser(rec userModel) domain.User {
	return domain.User{
		UserID:       rec.UserID,
		Name:         rec.Name,
		Email:        rec.Email,
		PasswordHash: rec.PasswordHash,
		IsVerified:   rec.IsVerified,
		CreatedAt:    rec.CreatedAt.UTC(),
		LastLogin:    rec.LastLogin,
	}
}

func toChatModel(msg domain.ChatMessage) chatMessageModel {
	rec := chatMessageModel{
		ID:        msg.ID,
		SessionID: msg.SessionID,
		Message:   msg.Message,
		Response:  msg.Response,
		Fallback:  msg.Fallback,
		Timestamp: msg.Timestamp,
	}
	if msg.UserID != uuid.Nil {
		id := msg.UserID
		rec.UserID = &id
	}
	return rec
}

func toDomainChat(rec chatMessageModel) domain.ChatMessage {
	msg := domain.ChatMessage{
		ID:        rec.ID,
		SessionID: rec.SessionID,
		Message:   rec.Message,
		Response:  rec.Response,
		Fallback:  rec.Fallback,
		Timestamp: rec.Timestamp.UTC(),
	}
	if rec.UserID != nil {
		msg.UserID = *rec.UserID
	}
	return msg
}

func isUniqueViolation(err error) bool {
	return errors.Is(err, gorm.ErrDuplicatedKey)
}
