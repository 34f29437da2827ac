package cache

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/kartik99Lm10/SuckDSA/internal/domain"
	"github.com/kartik99Lm10/SuckDSA/internal/ports"
)

// RedisOTPStore keeps one OTP per email under a key whose TTL matches the record expiry.
type RedisOTPStore struct {
	client *redis.Client
	nowFn  func() time.Time
}

func NewRedisOTPStore(client *redis.Client) *RedisOTPStore {
	return &RedisOTPStore{client: client, nowFn: time.Now}
}

type otpPayload struct {
	Email     string    `json:"email"`
	Code      string    `json:"otp"`
	CreatedAt time.Time `json:"created_at"`
	ExpiresAt time.Time `json:"expires_at"`
}

func otpKey(email string) string { return "auth:otp:" + email }

func (s *RedisOTPStore) Put(ctx context.Context, record domain.OTPRecord) error {
	ttl := record.ExpiresAt.Sub(s.nowFn())
	if ttl <= 0 {
		return s.Delete(ctx, record.Email)
	}
	raw, err := json.Marshal(otpPayload(record))
	if err != nil {
		return err
	}
	return s.client.Set(ctx, otpKey(record.Email), raw, ttl).Err()
}

func (s *RedisOTPStore) Get(ctx context.Context, email string) (*domain.OTPRecord, error) {
	raw, err := s.client.Get(ctx, otpKey(email)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, err
	}
	var payload otpPayload
	if err := json.Unmarshal(raw, &payload); err != nil {
		return nil, err
	}
	record := domain.OTPRecord(payload)
	return &record, nil
}

func (s *RedisOTPStore) Delete(ctx context.Context, email string) error {
	return s.client.Del(ctx, otpKey(email)).Err()
}

var _ ports.OTPStore = (*RedisOTPStore)(nil)
