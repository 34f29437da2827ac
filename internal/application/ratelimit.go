package application

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/kartik99Lm10/SuckDSA/internal/ports"
)

// RateLimitRule is one fixed-window bucket.
type RateLimitRule struct {
	Name   string
	Limit  int
	Window time.Duration
}

var (
	GlobalRateLimit = RateLimitRule{Name: "global", Limit: 100, Window: 15 * time.Minute}
	ChatRateLimit   = RateLimitRule{Name: "chat", Limit: 10, Window: time.Minute}
)

// RateDecision is the outcome of one hit against a rule.
type RateDecision struct {
	Allowed   bool
	Limit     int
	Remaining int
	ResetAt   time.Time
}

// RetryAfter is the time left until the window resets, rounded up to whole seconds.
func (d RateDecision) RetryAfter(now time.Time) time.Duration {
	left := d.ResetAt.Sub(now)
	if left <= 0 {
		return 0
	}
	return (left + time.Second - 1).Truncate(time.Second)
}

// RateLimiter applies fixed-window rules per client identity. Requests over the limit
// are rejected, never queued.
type RateLimiter struct {
	store   ports.RateLimitStore
	metrics ports.Metrics
	nowFn   func() time.Time
}

func NewRateLimiter(store ports.RateLimitStore, metrics ports.Metrics) *RateLimiter {
	if metrics == nil {
		metrics = noopMetrics{}
	}
	return &RateLimiter{
		store:   store,
		metrics: metrics,
		nowFn:   func() time.Time { return time.Now().UTC() },
	}
}

// WithClock overrides the limiter clock.
func (l *RateLimiter) WithClock(now func() time.Time) *RateLimiter {
	l.nowFn = now
	return l
}

func (l *RateLimiter) Now() time.Time { return l.nowFn() }

// Allow records a hit for identity under rule. Store errors fail open.
func (l *RateLimiter) Allow(ctx context.Context, rule RateLimitRule, identity string) RateDecision {
	now := l.nowFn()
	if l.store == nil || rule.Limit <= 0 || rule.Window <= 0 {
		return RateDecision{Allowed: true, Limit: rule.Limit, Remaining: rule.Limit}
	}
	identity = strings.TrimSpace(identity)
	if identity == "" {
		identity = "unknown"
	}

	hit, err := l.store.Hit(ctx, "ratelimit:"+rule.Name+":"+identity, rule.Window, now)
	if err != nil {
		slog.Default().WarnContext(ctx, "rate limit store unavailable",
			"service", serviceName,
			"module", "ratelimit",
			"layer", "application",
			"operation", "allow",
			"outcome", "fail_open",
			"bucket", rule.Name,
			"error", err,
		)
		return RateDecision{Allowed: true, Limit: rule.Limit, Remaining: rule.Limit, ResetAt: now.Add(rule.Window)}
	}

	remaining := rule.Limit - hit.Count
	if remaining < 0 {
		remaining = 0
	}
	decision := RateDecision{
		Allowed:   hit.Count <= rule.Limit,
		Limit:     rule.Limit,
		Remaining: remaining,
		ResetAt:   hit.ResetAt,
	}
	if !decision.Allowed {
		l.metrics.RateLimited(rule.Name)
	}
	return decision
}
