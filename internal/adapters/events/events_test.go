package events

import (
	"bytes"
	"context"
	"log/slog"
	"strings"
	"testing"
)

func TestPartitionKeyPrefersSession(t *testing.T) {
	t.Parallel()

	cases := map[string]string{
		`{"session_id":"s1","user_id":"u1"}`: "s1",
		`{"user_id":"u1","email":"a@x.com"}`: "u1",
		`{"email":"a@x.com"}`:                "a@x.com",
		`{"topic":"stack"}`:                  "",
		`not json`:                           "",
	}
	for payload, want := range cases {
		if got := partitionKey([]byte(payload)); got != want {
			t.Fatalf("partitionKey(%s) = %q, want %q", payload, got, want)
		}
	}
}

func TestLoggingPublisherWritesEvent(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&buf, nil))
	p := NewLoggingPublisher(logger)
	if err := p.Publish(context.Background(), "chat.message_created", []byte(`{"session_id":"s1"}`)); err != nil {
		t.Fatalf("publish failed: %v", err)
	}
	out := buf.String()
	if !strings.Contains(out, `"event_type":"chat.message_created"`) || !strings.Contains(out, `"partition_key":"s1"`) {
		t.Fatalf("unexpected log line %s", out)
	}
}

func TestKafkaPublisherTopics(t *testing.T) {
	t.Parallel()

	if _, err := NewKafkaPublisher(nil, "suckdsa"); err == nil {
		t.Fatalf("expected broker error")
	}
	p, err := NewKafkaPublisher([]string{"localhost:9092"}, "suckdsa.")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	defer p.Close()
	if got := p.TopicFor("user.verified"); got != "suckdsa.user.verified" {
		t.Fatalf("unexpected topic %q", got)
	}
	bare, _ := NewKafkaPublisher([]string{"localhost:9092"}, "")
	if got := bare.TopicFor("otp.issued"); got != "otp.issued" {
		t.Fatalf("unexpected topic %q", got)
	}
}
