package ports

import "context"

// OTPEmail is the verification mail content.
type OTPEmail struct {
	To   string
	Name string
	Code string
}

// Mailer delivers verification codes.
type Mailer interface {
	SendOTP(ctx context.Context, msg OTPEmail) error
}

// CompletionClient is the opaque text-completion service.
type CompletionClient interface {
	Complete(ctx context.Context, prompt string) (string, error)
}

// EventPublisher is the outbound domain-event publish port.
type EventPublisher interface {
	Publish(ctx context.Context, eventType string, payload []byte) error
}

// Metrics receives application-level counters. Implementations must be safe for concurrent use.
type Metrics interface {
	CompletionAttempt(outcome string)
	FallbackUsed(topic string)
	RateLimited(bucket string)
}
