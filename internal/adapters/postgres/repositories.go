package postgres

import (
	"context"

	"github.com/kartik99Lm10/SuckDSA/internal/ports"
	"gorm.io/gorm"
)

type Repositories struct {
	Users ports.UserRepository
	Chats ports.ChatRepository
	OTPs  *OTPStore
}

func NewRepositories(db *gorm.DB) Repositories {
	return Repositories{
		Users: &userRepository{db: db},
		Chats: &chatRepository{db: db},
		OTPs:  &OTPStore{db: db},
	}
}

func ping(ctx context.Context, db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}
