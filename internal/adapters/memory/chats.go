package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/kartik99Lm10/SuckDSA/internal/domain"
	"github.com/kartik99Lm10/SuckDSA/internal/ports"
)

type ChatRepository struct {
	mu        sync.RWMutex
	bySession map[string][]domain.ChatMessage
}

func NewChatRepository() *ChatRepository {
	return &ChatRepository{bySession: make(map[string][]domain.ChatMessage)}
}

func (r *ChatRepository) Append(_ context.Context, msg domain.ChatMessage) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.bySession[msg.SessionID] = append(r.bySession[msg.SessionID], msg)
	return nil
}

func (r *ChatRepository) ListBySession(_ context.Context, sessionID string, limit int) ([]domain.ChatMessage, error) {
	r.mu.RLock()
	out := append([]domain.ChatMessage(nil), r.bySession[sessionID]...)
	r.mu.RUnlock()

	sort.SliceStable(out, func(i, j int) bool { return out[i].Timestamp.Before(out[j].Timestamp) })
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

// Count returns the number of stored records across all sessions.
func (r *ChatRepository) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	n := 0
	for _, msgs := range r.bySession {
		n += len(msgs)
	}
	return n
}

var _ ports.ChatRepository = (*ChatRepository)(nil)
