package application

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"
	"github.com/kartik99Lm10/SuckDSA/internal/domain"
)

var errEmptyCompletion = errors.New("completion returned empty text")

// SendMessage answers one chat turn. A failing completion service degrades to a canned
// fallback; only persistence failures are returned.
func (s *Service) SendMessage(ctx context.Context, userID uuid.UUID, req ChatRequest) (ChatResult, error) {
	input, err := domain.ValidateChat(req.Message, req.SessionID)
	if err != nil {
		return ChatResult{}, err
	}
	sessionID := input.SessionID
	if sessionID == "" {
		sessionID = uuid.NewString()
	}

	result := ChatResult{SessionID: sessionID}
	text, attempts, err := s.complete(ctx, ComposePrompt(input.Message))
	result.Attempts = attempts
	if err != nil {
		topic, canned := FallbackResponse(input.Message)
		s.metrics.FallbackUsed(topic)
		slog.Default().WarnContext(ctx, "completion unavailable, using fallback",
			"service", serviceName,
			"module", "chat",
			"layer", "application",
			"operation", "send_message",
			"outcome", "fallback",
			"attempts", attempts,
			"topic", topic,
			"error", err,
		)
		s.publishEvent(ctx, "chat.fallback_used", map[string]any{
			"session_id": sessionID,
			"topic":      topic,
		})
		text = canned
		result.Fallback = true
	}
	result.Response = text

	record := domain.ChatMessage{
		ID:        uuid.New(),
		SessionID: sessionID,
		UserID:    userID,
		Message:   input.Message,
		Response:  text,
		Fallback:  result.Fallback,
		Timestamp: s.nowFn(),
	}
	if err := s.chats.Append(ctx, record); err != nil {
		return ChatResult{}, fmt.Errorf("persist chat message: %w", err)
	}
	s.publishEvent(ctx, "chat.message_created", map[string]any{
		"message_id": record.ID.String(),
		"session_id": sessionID,
		"user_id":    userID.String(),
		"fallback":   result.Fallback,
	})
	return result, nil
}

// complete runs the bounded retry loop and returns the number of attempts made.
func (s *Service) complete(ctx context.Context, prompt string) (string, int, error) {
	if s.completion == nil {
		return "", 0, errors.New("completion client not configured")
	}
	var lastErr error
	attempts := s.cfg.CompletionAttempts
	for attempt := 1; attempt <= attempts; attempt++ {
		text, err := s.completeOnce(ctx, prompt)
		if err == nil {
			s.metrics.CompletionAttempt("success")
			return text, attempt, nil
		}
		lastErr = err
		s.metrics.CompletionAttempt("failure")
		slog.Default().WarnContext(ctx, "completion attempt failed",
			"service", serviceName,
			"module", "chat",
			"layer", "application",
			"operation", "complete",
			"outcome", "retry",
			"attempt", attempt,
			"retries_left", attempts-attempt,
			"error", err,
		)
		if attempt == attempts {
			break
		}
		if err := s.sleep(ctx, BackoffDelay(attempt, s.cfg.BackoffStep)); err != nil {
			return "", attempt, err
		}
	}
	return "", attempts, lastErr
}

func (s *Service) completeOnce(ctx context.Context, prompt string) (string, error) {
	if s.cfg.CompletionTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.cfg.CompletionTimeout)
		defer cancel()
	}
	text, err := s.completion.Complete(ctx, prompt)
	if err != nil {
		return "", err
	}
	if strings.TrimSpace(text) == "" {
		return "", errEmptyCompletion
	}
	return text, nil
}

// GetHistory never fails; a store error yields an empty list.
func (s *Service) GetHistory(ctx context.Context, sessionID string) []domain.ChatMessage {
	sessionID = strings.TrimSpace(sessionID)
	if sessionID == "" {
		return []domain.ChatMessage{}
	}
	records, err := s.chats.ListBySession(ctx, sessionID, s.cfg.HistoryLimit)
	if err != nil {
		s.logWarn(ctx, "chat", "get_history", "failed to load chat history", err)
		return []domain.ChatMessage{}
	}
	if records == nil {
		return []domain.ChatMessage{}
	}
	return records
}
