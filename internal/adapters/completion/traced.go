package completion

import (
	"context"

	otelapi "go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/kartik99Lm10/SuckDSA/internal/ports"
)

// Traced records one span per completion attempt.
type Traced struct {
	next   ports.CompletionClient
	name   string
	tracer trace.Tracer
}

func NewTraced(next ports.CompletionClient, backend string, tp trace.TracerProvider) *Traced {
	if tp == nil {
		tp = otelapi.GetTracerProvider()
	}
	return &Traced{next: next, name: backend, tracer: tp.Tracer("suckdsa/completion")}
}

func (t *Traced) Complete(ctx context.Context, prompt string) (string, error) {
	ctx, span := t.tracer.Start(ctx, "completion.complete", trace.WithAttributes(
		attribute.String("completion.backend", t.name),
		attribute.Int("completion.prompt_chars", len(prompt)),
	))
	defer span.End()

	text, err := t.next.Complete(ctx, prompt)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return "", err
	}
	span.SetAttributes(attribute.Int("completion.response_chars", len(text)))
	return text, nil
}

var _ ports.CompletionClient = (*Traced)(nil)
