package completion

import (
	"context"
	"errors"

	"github.com/kartik99Lm10/SuckDSA/internal/ports"
)

var ErrNotConfigured = errors.New("completion service not configured")

// Unavailable always fails, so every chat turn is answered from the keyword fallback.
type Unavailable struct{}

func (Unavailable) Complete(context.Context, string) (string, error) {
	return "", ErrNotConfigured
}

var _ ports.CompletionClient = Unavailable{}
