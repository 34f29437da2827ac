// Package metrics exposes Prometheus collectors for the API and chat pipeline.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/kartik99Lm10/SuckDSA/internal/ports"
)

type Prometheus struct {
	registry           *prometheus.Registry
	completionAttempts *prometheus.CounterVec
	fallbacks          *prometheus.CounterVec
	rateLimited        *prometheus.CounterVec
	httpRequests       *prometheus.CounterVec
	httpDuration       *prometheus.HistogramVec
}

func NewPrometheus() *Prometheus {
	reg := prometheus.NewRegistry()
	reg.MustRegister(prometheus.NewGoCollector(), prometheus.NewProcessCollector(prometheus.ProcessCollectorOpts{}))
	factory := promauto.With(reg)

	return &Prometheus{
		registry: reg,
		completionAttempts: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "suckdsa",
			Name:      "completion_attempts_total",
			Help:      "Completion service calls by outcome.",
		}, []string{"outcome"}),
		fallbacks: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "suckdsa",
			Name:      "chat_fallback_total",
			Help:      "Chat replies served from the keyword fallback.",
		}, []string{"topic"}),
		rateLimited: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "suckdsa",
			Name:      "rate_limited_total",
			Help:      "Requests rejected by a rate limit bucket.",
		}, []string{"bucket"}),
		httpRequests: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "suckdsa",
			Name:      "http_requests_total",
			Help:      "HTTP requests by route pattern, method and status.",
		}, []string{"route", "method", "status"}),
		httpDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "suckdsa",
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"route", "method"}),
	}
}

func (p *Prometheus) CompletionAttempt(outcome string) {
	p.completionAttempts.WithLabelValues(outcome).Inc()
}

func (p *Prometheus) FallbackUsed(topic string) {
	p.fallbacks.WithLabelValues(topic).Inc()
}

func (p *Prometheus) RateLimited(bucket string) {
	p.rateLimited.WithLabelValues(bucket).Inc()
}

func (p *Prometheus) ObserveHTTP(route, method string, status int, elapsed time.Duration) {
	if route == "" {
		route = "unmatched"
	}
	p.httpRequests.WithLabelValues(route, method, strconv.Itoa(status)).Inc()
	p.httpDuration.WithLabelValues(route, method).Observe(elapsed.Seconds())
}

func (p *Prometheus) Handler() http.Handler {
	return promhttp.HandlerFor(p.registry, promhttp.HandlerOpts{Registry: p.registry})
}

func (p *Prometheus) Registry() *prometheus.Registry {
	return p.registry
}

var _ ports.Metrics = (*Prometheus)(nil)
