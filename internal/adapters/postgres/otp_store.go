package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/kartik99Lm10/SuckDSA/internal/domain"
	"github.com/kartik99Lm10/SuckDSA/internal/ports"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// OTPStore keeps one row per email. Expired rows are ignored on read and removed by PurgeExpired.
type OTPStore struct {
	db *gorm.DB
}

func (s *OTPStore) Put(ctx context.Context, record domain.OTPRecord) error {
	rec := otpModel{
		Email:     record.Email,
		Code:      record.Code,
		CreatedAt: record.CreatedAt,
		ExpiresAt: record.ExpiresAt,
	}
	return s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "email"}},
		DoUpdates: clause.AssignmentColumns([]string{"otp", "created_at", "expires_at"}),
	}).Create(&rec).Error
}

func (s *OTPStore) Get(ctx context.Context, email string) (*domain.OTPRecord, error) {
	var rec otpModel
	err := s.db.WithContext(ctx).
		Where("email = ? AND expires_at > ?", email, time.Now().UTC()).
		Take(&rec).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &domain.OTPRecord{
		Email:     rec.Email,
		Code:      rec.Code,
		CreatedAt: rec.CreatedAt.UTC(),
		ExpiresAt: rec.ExpiresAt.UTC(),
	}, nil
}

func (s *OTPStore) Delete(ctx context.Context, email string) error {
	return s.db.WithContext(ctx).Where("email = ?", email).Delete(&otpModel{}).Error
}

// PurgeExpired deletes rows past their expiry and reports how many were removed.
func (s *OTPStore) PurgeExpired(ctx context.Context, now time.Time) (int64, error) {
	res := s.db.WithContext(ctx).Where("expires_at <= ?", now).Delete(&otpModel{})
	return res.RowsAffected, res.Error
}

var _ ports.OTPStore = (*OTPStore)(nil)
