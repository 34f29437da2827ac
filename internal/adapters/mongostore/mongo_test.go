package mongostore

import (
	"context"
	"errors"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/kartik99Lm10/SuckDSA/internal/domain"
	"github.com/kartik99Lm10/SuckDSA/internal/ports"
)

// testStore connects to SUCKDSA_TEST_MONGO when set and uses a throwaway database.
func testStore(t *testing.T) *Store {
	t.Helper()
	uri := os.Getenv("SUCKDSA_TEST_MONGO")
	if uri == "" {
		t.Skip("SUCKDSA_TEST_MONGO not set")
	}
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	store, err := Connect(ctx, uri, "suckdsa_test_"+uuid.NewString()[:8])
	if err != nil {
		t.Fatalf("connect mongo: %v", err)
	}
	t.Cleanup(func() {
		_ = store.db.Drop(context.Background())
		_ = store.Close(context.Background())
	})
	return store
}

func TestMongoUsersUniqueEmail(t *testing.T) {
	store := testStore(t)
	users := store.Users()
	ctx := context.Background()
	params := ports.CreateUserParams{Name: "Asha", Email: "asha@x.com", PasswordHash: "h", IsVerified: true, CreatedAt: time.Now().UTC()}

	created, err := users.Create(ctx, params)
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}
	if _, err := users.Create(ctx, params); !errors.Is(err, domain.ErrDuplicateUser) {
		t.Fatalf("expected duplicate user, got %v", err)
	}
	if err := users.UpdateLastLogin(ctx, created.UserID, time.Now().UTC()); err != nil {
		t.Fatalf("update last login: %v", err)
	}
	got, err := users.GetByID(ctx, created.UserID)
	if err != nil || got.LastLogin == nil {
		t.Fatalf("expected last login, got %+v err=%v", got, err)
	}
}

func TestMongoOTPReplaceAndHistoryOrder(t *testing.T) {
	store := testStore(t)
	ctx := context.Background()
	now := time.Now().UTC()

	otps := store.OTPs()
	_ = otps.Put(ctx, domain.OTPRecord{Email: "a@x.com", Code: "111111", CreatedAt: now, ExpiresAt: now.Add(time.Minute)})
	_ = otps.Put(ctx, domain.OTPRecord{Email: "a@x.com", Code: "222222", CreatedAt: now, ExpiresAt: now.Add(time.Minute)})
	rec, err := otps.Get(ctx, "a@x.com")
	if err != nil || rec == nil || rec.Code != "222222" {
		t.Fatalf("expected newest otp, got %+v err=%v", rec, err)
	}

	chats := store.Chats()
	for i := 3; i > 0; i-- {
		_ = chats.Append(ctx, domain.ChatMessage{ID: uuid.New(), SessionID: "s", Message: "m", Response: "r", Timestamp: now.Add(time.Duration(i) * time.Second)})
	}
	got, err := chats.ListBySession(ctx, "s", 2)
	if err != nil || len(got) != 2 || got[1].Timestamp.Before(got[0].Timestamp) {
		t.Fatalf("unexpected history %+v err=%v", got, err)
	}
}
