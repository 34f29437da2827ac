// Package events publishes domain events emitted by the application service.
package events

import (
	"context"
	"encoding/json"
	"log/slog"

	"github.com/kartik99Lm10/SuckDSA/internal/ports"
)

type LoggingPublisher struct {
	logger *slog.Logger
}

func NewLoggingPublisher(logger *slog.Logger) *LoggingPublisher {
	if logger == nil {
		logger = slog.Default()
	}
	return &LoggingPublisher{logger: logger}
}

func (p *LoggingPublisher) Publish(ctx context.Context, eventType string, payload []byte) error {
	p.logger.InfoContext(ctx, "published event",
		"service", "suckdsa",
		"module", "events",
		"layer", "adapter",
		"event_type", eventType,
		"partition_key", partitionKey(payload),
		"payload", string(payload),
	)
	return nil
}

// partitionKey keeps events for one session or user on one partition.
func partitionKey(payload []byte) string {
	var fields map[string]any
	if err := json.Unmarshal(payload, &fields); err != nil {
		return ""
	}
	for _, name := range []string{"session_id", "user_id", "email"} {
		if v, ok := fields[name].(string); ok && v != "" {
			return v
		}
	}
	return ""
}

var _ ports.EventPublisher = (*LoggingPublisher)(nil)
