package application

import (
	"context"
	"crypto/rand"
	"encoding/json"
	"fmt"
	"log/slog"
	"math/big"
)

const serviceName = "suckdsa"

// randomDigits returns a zero-padded random numeric code.
func randomDigits(size int) string {
	if size <= 0 {
		size = 6
	}
	max := big.NewInt(1)
	for i := 0; i < size; i++ {
		max.Mul(max, big.NewInt(10))
	}
	n, err := rand.Int(rand.Reader, max)
	if err != nil {
		n = big.NewInt(0)
	}
	return fmt.Sprintf("%0*d", size, n.Int64())
}

func (s *Service) logWarn(ctx context.Context, module, operation, msg string, err error) {
	slog.Default().WarnContext(ctx, msg,
		"service", serviceName,
		"module", module,
		"layer", "application",
		"operation", operation,
		"outcome", "failure",
		"error", err,
	)
}

// publishEvent is best effort. Publish failures are logged and never fail the caller.
func (s *Service) publishEvent(ctx context.Context, eventType string, payload map[string]any) {
	if s.publisher == nil {
		return
	}
	raw, err := json.Marshal(payload)
	if err != nil {
		s.logWarn(ctx, "events", "marshal_event", "failed to encode event", err)
		return
	}
	if err := s.publisher.Publish(ctx, eventType, raw); err != nil {
		slog.Default().WarnContext(ctx, "failed to publish event",
			"service", serviceName,
			"module", "events",
			"layer", "application",
			"operation", "publish_event",
			"outcome", "failure",
			"event_type", eventType,
			"error", err,
		)
	}
}
