package memory

import (
	"context"
	"sync"
	"time"

	"github.com/kartik99Lm10/SuckDSA/internal/domain"
	"github.com/kartik99Lm10/SuckDSA/internal/ports"
)

// OTPStore drops records lazily on read once they are past ExpiresAt.
type OTPStore struct {
	mu      sync.Mutex
	records map[string]domain.OTPRecord
	nowFn   func() time.Time
}

func NewOTPStore(now func() time.Time) *OTPStore {
	if now == nil {
		now = time.Now
	}
	return &OTPStore{records: make(map[string]domain.OTPRecord), nowFn: now}
}

func (s *OTPStore) Put(_ context.Context, record domain.OTPRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records[record.Email] = record
	return nil
}

func (s *OTPStore) Get(_ context.Context, email string) (*domain.OTPRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	record, ok := s.records[email]
	if !ok {
		return nil, nil
	}
	if !record.Live(s.nowFn()) {
		delete(s.records, email)
		return nil, nil
	}
	return &record, nil
}

func (s *OTPStore) Delete(_ context.Context, email string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.records, email)
	return nil
}

var _ ports.OTPStore = (*OTPStore)(nil)
