package provider

import (
	"context"

	"go.opentelemetry.io/otel/attribute"

	"github.com/kbukum/fluency/observability"
)

// WithTracing returns a Middleware that opens a "{component}.{provider}" span
// around each Execute call.
func WithTracing[I, O any](component string) Middleware[I, O] {
	return func(inner RequestResponse[I, O]) RequestResponse[I, O] {
		return &tracingRR[I, O]{inner: inner, component: component}
	}
}

type tracingRR[I, O any] struct {
	inner     RequestResponse[I, O]
	component string
}

func (t *tracingRR[I, O]) Name() string                         { return t.inner.Name() }
func (t *tracingRR[I, O]) IsAvailable(ctx context.Context) bool { return t.inner.IsAvailable(ctx) }

func (t *tracingRR[I, O]) Execute(ctx context.Context, input I) (O, error) {
	ctx, span := observability.StartSpan(ctx, t.component+"."+t.inner.Name(),
		attribute.String(observability.AttrComponent, t.component),
		attribute.String(observability.AttrOperation, t.inner.Name()),
	)
	output, err := t.inner.Execute(ctx, input)
	observability.EndSpan(span, err)
	return output, err
}
