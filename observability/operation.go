package observability

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/kbukum/fluency/errors"
)

// Operation tracks one traced and measured unit of work.
type Operation struct {
	Component string
	Name      string
	started   time.Time
	span      trace.Span
	metrics   *Metrics
	ctx       context.Context
}

// Start opens a span named component.name. metrics may be nil.
func Start(ctx context.Context, metrics *Metrics, component, name string, attrs ...attribute.KeyValue) (context.Context, *Operation) {
	attrs = append(attrs,
		attribute.String(AttrComponent, component),
		attribute.String(AttrOperation, name),
	)
	ctx, span := StartSpan(ctx, component+"."+name, attrs...)
	return ctx, &Operation{
		Component: component,
		Name:      name,
		started:   time.Now(),
		span:      span,
		metrics:   metrics,
		ctx:       ctx,
	}
}

// Span returns the operation span.
func (o *Operation) Span() trace.Span { return o.span }

// Elapsed returns the time since Start.
func (o *Operation) Elapsed() time.Duration { return time.Since(o.started) }

// End closes the span and records the outcome.
func (o *Operation) End(err error) {
	status := "ok"
	if err != nil {
		status = "error"
		o.metrics.RecordError(o.ctx, o.Component, string(errors.Kind(err)))
	}
	o.span.SetAttributes(attribute.String(AttrStatus, status))
	EndSpan(o.span, err)
	o.metrics.RecordOperation(o.ctx, o.Component, o.Name, status, o.Elapsed())
}
