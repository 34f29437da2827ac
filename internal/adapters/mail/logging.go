package mail

import (
	"context"
	"log/slog"

	"github.com/kartik99Lm10/SuckDSA/internal/ports"
)

// LoggingMailer writes the code to the log instead of sending mail.
type LoggingMailer struct{}

func NewLoggingMailer() *LoggingMailer { return &LoggingMailer{} }

func (m *LoggingMailer) SendOTP(ctx context.Context, msg ports.OTPEmail) error {
	slog.Default().InfoContext(ctx, "otp email suppressed",
		"service", "suckdsa",
		"module", "mail",
		"layer", "adapter",
		"operation", "send_otp",
		"outcome", "logged",
		"to", msg.To,
		"otp", msg.Code,
	)
	return nil
}

var _ ports.Mailer = (*LoggingMailer)(nil)
