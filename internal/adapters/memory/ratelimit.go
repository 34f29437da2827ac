package memory

import (
	"context"
	"sync"
	"time"

	"github.com/kartik99Lm10/SuckDSA/internal/ports"
)

type window struct {
	count   int
	resetAt time.Time
}

// RateLimitStore is a process-local fixed-window counter.
type RateLimitStore struct {
	mu      sync.Mutex
	windows map[string]window
}

func NewRateLimitStore() *RateLimitStore {
	return &RateLimitStore{windows: make(map[string]window)}
}

func (s *RateLimitStore) Hit(_ context.Context, key string, size time.Duration, now time.Time) (ports.WindowHit, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	w, ok := s.windows[key]
	if !ok || !now.Before(w.resetAt) {
		w = window{resetAt: now.Add(size)}
	}
	w.count++
	s.windows[key] = w
	return ports.WindowHit{Count: w.count, ResetAt: w.resetAt}, nil
}

// Sweep drops windows that reset before now.
func (s *RateLimitStore) Sweep(now time.Time) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	removed := 0
	for key, w := range s.windows {
		if !now.Before(w.resetAt) {
			delete(s.windows, key)
			removed++
		}
	}
	return removed
}

var _ ports.RateLimitStore = (*RateLimitStore)(nil)
