// Package http is the JSON API adapter.
package http

import (
	"net/http"
	"net/netip"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/kartik99Lm10/SuckDSA/internal/application"
)

// RequestObserver receives one observation per served request.
type RequestObserver interface {
	ObserveHTTP(route, method string, status int, elapsed time.Duration)
}

type Options struct {
	Limiter        *application.RateLimiter
	GlobalRule     application.RateLimitRule
	ChatRule       application.RateLimitRule
	Observer       RequestObserver
	MetricsHandler http.Handler
	Environment    string
	BaseURL        string
	Now            func() time.Time
	// TrustedProxies are the peers whose X-Forwarded-For header is honoured.
	TrustedProxies []netip.Prefix
}

// Handler is the HTTP adapter entrypoint for auth and chat use-cases.
type Handler struct {
	service    *application.Service
	limiter    *application.RateLimiter
	globalRule application.RateLimitRule
	chatRule   application.RateLimitRule
	observer   RequestObserver
	metrics    http.Handler
	env        string
	baseURL    string
	now        func() time.Time

	trustedProxies []netip.Prefix
}

func NewHandler(service *application.Service, opts Options) *Handler {
	h := &Handler{
		service:    service,
		limiter:    opts.Limiter,
		globalRule: opts.GlobalRule,
		chatRule:   opts.ChatRule,
		observer:   opts.Observer,
		metrics:    opts.MetricsHandler,
		env:        opts.Environment,
		baseURL:    opts.BaseURL,
		now:        opts.Now,

		trustedProxies: opts.TrustedProxies,
	}
	if h.globalRule.Limit == 0 {
		h.globalRule = application.GlobalRateLimit
	}
	if h.chatRule.Limit == 0 {
		h.chatRule = application.ChatRateLimit
	}
	if h.env == "" {
		h.env = "development"
	}
	if h.now == nil {
		h.now = func() time.Time { return time.Now().UTC() }
	}
	return h
}

// NewRouter registers the API routes. The global limiter covers every route and the
// chat limiter is stacked on POST /api/chat after authentication.
func NewRouter(handler *Handler) http.Handler {
	r := chi.NewRouter()
	r.Use(requestIDMiddleware)
	r.Use(handler.loggingMiddleware)
	r.Use(recoverMiddleware)
	r.Use(handler.rateLimit(handler.globalRule, "global_rate_limit"))

	r.NotFound(handler.notFound)
	r.MethodNotAllowed(handler.notFound)

	r.Get("/health", handler.health)
	if handler.metrics != nil {
		r.Handle("/metrics", handler.metrics)
	}

	r.Route("/api", func(r chi.Router) {
		r.Get("/", handler.root)
		r.Get("/docs", handler.docs)
		r.Get("/health", handler.health)
		r.Get("/topics", handler.topics)

		r.Route("/auth", func(r chi.Router) {
			r.Post("/register", handler.register)
			r.Post("/verify-otp", handler.verifyOTP)
			r.Post("/login", handler.login)
			r.Post("/resend-otp", handler.resendOTP)
			r.With(handler.authMiddleware).Get("/me", handler.me)
		})

		r.Route("/chat", func(r chi.Router) {
			r.Use(handler.authMiddleware)
			r.With(handler.rateLimit(handler.chatRule, opChat)).Post("/", handler.chat)
			r.Get("/history/{session_id}", handler.history)
		})
	})

	return r
}
