package postgres

import (
	"context"
	"errors"
	"regexp"
	"strings"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/kartik99Lm10/SuckDSA/internal/domain"
	"github.com/kartik99Lm10/SuckDSA/internal/ports"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	t.Helper()
	sqlDB, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New err: %v", err)
	}
	t.Cleanup(func() { _ = sqlDB.Close() })
	db, err := gorm.Open(postgres.New(postgres.Config{Conn: sqlDB}), &gorm.Config{
		SkipDefaultTransaction: true,
		TranslateError:         true,
		Logger:                 logger.Discard,
	})
	if err != nil {
		t.Fatalf("gorm open err: %v", err)
	}
	return db, mock
}

func TestUserRepositoryGetByEmailNotFound(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewRepositories(db).Users

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "users" WHERE email = $1`)).
		WillReturnRows(sqlmock.NewRows([]string{"user_id"}))

	_, err := repo.GetByEmail(context.Background(), "ghost@x.com")
	if !errors.Is(err, domain.ErrUserNotFound) {
		t.Fatalf("expected user not found, got %v", err)
	}
}

func TestUserRepositoryCreateMapsUniqueViolation(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewRepositories(db).Users

	mock.ExpectQuery(`INSERT INTO "users"`).
		WillReturnError(&pgconn.PgError{Code: "23505", Message: "duplicate key value violates unique constraint"})

	_, err := repo.Create(context.Background(), ports.CreateUserParams{
		Name: "Asha", Email: "asha@x.com", PasswordHash: "h", IsVerified: true, CreatedAt: time.Now(),
	})
	if !errors.Is(err, domain.ErrDuplicateUser) {
		t.Fatalf("expected duplicate user, got %v", err)
	}
}

func TestChatRepositoryListOrdersAscending(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewRepositories(db).Chats
	base := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	userID := uuid.New()

	rows := sqlmock.NewRows([]string{"id", "session_id", "user_id", "message", "response", "fallback", "timestamp"}).
		AddRow(uuid.NewString(), "s1", userID.String(), "a", "ra", false, base).
		AddRow(uuid.NewString(), "s1", nil, "b", "rb", true, base.Add(time.Second))
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "chat_messages" WHERE session_id = $1 ORDER BY timestamp ASC LIMIT $2`)).
		WithArgs("s1", 100).
		WillReturnRows(rows)

	got, err := repo.ListBySession(context.Background(), "s1", 100)
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(got) != 2 || got[0].Message != "a" || got[0].UserID != userID || !got[1].Fallback {
		t.Fatalf("unexpected records: %+v", got)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestOTPStorePurgeExpired(t *testing.T) {
	db, mock := newMockDB(t)
	store := NewRepositories(db).OTPs
	now := time.Now().UTC()

	mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM "otps" WHERE expires_at <= $1`)).
		WithArgs(now).
		WillReturnResult(sqlmock.NewResult(0, 3))

	n, err := store.PurgeExpired(context.Background(), now)
	if err != nil || n != 3 {
		t.Fatalf("expected 3 purged rows, got %d err=%v", n, err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestEmbeddedMigrationsAreGooseAnnotated(t *testing.T) {
	raw, err := migrationFS.ReadFile("migrations/00001_init.sql")
	if err != nil {
		t.Fatalf("read migration: %v", err)
	}
	body := string(raw)
	for _, marker := range []string{"-- +goose Up", "-- +goose Down", "users_email_key", "chat_messages_session_ts_idx"} {
		if !strings.Contains(body, marker) {
			t.Fatalf("migration missing %q", marker)
		}
	}
}

func TestRunMigrationsUsesGoose(t *testing.T) {
	db, _ := newMockDB(t)
	orig := gooseUp
	t.Cleanup(func() { gooseUp = orig })

	called := false
	gooseUp = func(context.Context, *gorm.DB) error {
		called = true
		return nil
	}
	if err := RunMigrations(context.Background(), db); err != nil {
		t.Fatalf("run migrations: %v", err)
	}
	if !called {
		t.Fatalf("expected goose to run")
	}
}
