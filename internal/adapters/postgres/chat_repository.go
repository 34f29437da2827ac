package postgres

import (
	"context"

	"github.com/kartik99Lm10/SuckDSA/internal/domain"
	"github.com/kartik99Lm10/SuckDSA/internal/ports"
	"gorm.io/gorm"
)

type chatRepository struct {
	db *gorm.DB
}

func (r *chatRepository) Append(ctx context.Context, msg domain.ChatMessage) error {
	rec := toChatModel(msg)
	return r.db.WithContext(ctx).Create(&rec).Error
}

func (r *chatRepository) ListBySession(ctx context.Context, sessionID string, limit int) ([]domain.ChatMessage, error) {
	var rows []chatMessageModel
	q := r.db.WithContext(ctx).
		Where("session_id = ?", sessionID).
		Order("timestamp ASC")
	if limit > 0 {
		q = q.Limit(limit)
	}
	if err := q.Find(&rows).Error; err != nil {
		return nil, err
	}
	out := make([]domain.ChatMessage, 0, len(rows))
	for _, row := range rows {
		out = append(out, toDomainChat(row))
	}
	return out, nil
}

var _ ports.ChatRepository = (*chatRepository)(nil)
