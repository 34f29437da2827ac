package completion

import (
	"context"
	"fmt"

	"golang.org/x/time/rate"

	"github.com/kartik99Lm10/SuckDSA/internal/ports"
)

// Paced caps the outbound request rate shared by all callers.
type Paced struct {
	next    ports.CompletionClient
	limiter *rate.Limiter
}

func NewPaced(next ports.CompletionClient, perSecond float64, burst int) *Paced {
	if burst < 1 {
		burst = 1
	}
	limit := rate.Limit(perSecond)
	if perSecond <= 0 {
		limit = rate.Inf
	}
	return &Paced{next: next, limiter: rate.NewLimiter(limit, burst)}
}

func (p *Paced) Complete(ctx context.Context, prompt string) (string, error) {
	if err := p.limiter.Wait(ctx); err != nil {
		return "", fmt.Errorf("completion pacing: %w", err)
	}
	return p.next.Complete(ctx, prompt)
}

var _ ports.CompletionClient = (*Paced)(nil)
