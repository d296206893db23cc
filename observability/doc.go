// Package observability wires OpenTelemetry tracing and metrics.
//
// Tracing and metrics are exported over OTLP/HTTP when enabled:
//
//	tp, err := observability.InitTracer(ctx, cfg, observability.Service{Name: "fluencyd", Version: version.Version})
//	defer tp.Shutdown(ctx)
//
// Packages that call out to other services wrap each call in an Operation,
// which owns a span and records the outcome on the shared Metrics:
//
//	ctx, op := observability.Start(ctx, metrics, "archive", "ingest")
//	defer func() { op.End(err) }()
//
// Both work against the global no-op providers when InitTracer and
// InitMeter were never called.
package observability
