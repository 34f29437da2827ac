package metrics

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestCountersIncrement(t *testing.T) {
	t.Parallel()

	p := NewPrometheus()
	p.CompletionAttempt("failure")
	p.CompletionAttempt("failure")
	p.CompletionAttempt("success")
	p.FallbackUsed("stack")
	p.RateLimited("chat")

	if got := testutil.ToFloat64(p.completionAttempts.WithLabelValues("failure")); got != 2 {
		t.Fatalf("expected 2 failures, got %v", got)
	}
	if got := testutil.ToFloat64(p.fallbacks.WithLabelValues("stack")); got != 1 {
		t.Fatalf("expected 1 fallback, got %v", got)
	}
	if got := testutil.ToFloat64(p.rateLimited.WithLabelValues("chat")); got != 1 {
		t.Fatalf("expected 1 rejection, got %v", got)
	}
}

func TestHandlerExposesHTTPMetrics(t *testing.T) {
	t.Parallel()

	p := NewPrometheus()
	p.ObserveHTTP("/api/chat", http.MethodPost, http.StatusOK, 15*time.Millisecond)
	p.ObserveHTTP("", http.MethodGet, http.StatusNotFound, time.Millisecond)

	rec := httptest.NewRecorder()
	p.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	body, _ := io.ReadAll(rec.Body)
	text := string(body)
	for _, want := range []string{
		`suckdsa_http_requests_total{method="POST",route="/api/chat",status="200"} 1`,
		`route="unmatched"`,
		"suckdsa_http_request_duration_seconds_bucket",
	} {
		if !strings.Contains(text, want) {
			t.Fatalf("metrics output missing %q", want)
		}
	}
}
