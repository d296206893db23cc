package observability

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetrichttp"
	"go.opentelemetry.io/otel/metric"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"

	"github.com/kbukum/fluency/logger"
)

// InitMeter installs a global meter provider exporting every
// cfg.MetricInterval.
func InitMeter(ctx context.Context, cfg Config, svc Service) (*sdkmetric.MeterProvider, error) {
	opts := []otlpmetrichttp.Option{otlpmetrichttp.WithEndpoint(cfg.Endpoint)}
	if cfg.Insecure {
		opts = append(opts, otlpmetrichttp.WithInsecure())
	}
	exporter, err := otlpmetrichttp.New(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("creating metric exporter: %w", err)
	}

	var readerOpts []sdkmetric.PeriodicReaderOption
	if cfg.MetricInterval > 0 {
		readerOpts = append(readerOpts, sdkmetric.WithInterval(cfg.MetricInterval))
	}
	mp := sdkmetric.NewMeterProvider(
		sdkmetric.WithReader(sdkmetric.NewPeriodicReader(exporter, readerOpts...)),
		sdkmetric.WithResource(newResource(svc)),
	)
	otel.SetMeterProvider(mp)

	logger.Info("meter initialized", logger.Fields(
		"service", svc.Name,
		"endpoint", cfg.Endpoint,
		"interval", cfg.MetricInterval.String(),
	))
	return mp, nil
}

// Meter returns the fluency meter from the global provider.
func Meter() metric.Meter {
	return otel.Meter(instrumentationName)
}

// Metrics holds the instruments recorded by gateway and archive operations.
type Metrics struct {
	operations metric.Int64Counter
	duration   metric.Float64Histogram
	errors     metric.Int64Counter
	words      metric.Int64Counter
}

// NewMetrics creates the instruments on meter.
func NewMetrics(meter metric.Meter) (*Metrics, error) {
	operations, err := meter.Int64Counter("fluency.operation.total",
		metric.WithDescription("Completed operations by component, operation and status"))
	if err != nil {
		return nil, fmt.Errorf("creating operation counter: %w", err)
	}
	duration, err := meter.Float64Histogram("fluency.operation.duration",
		metric.WithDescription("Operation duration"),
		metric.WithUnit("s"))
	if err != nil {
		return nil, fmt.Errorf("creating duration histogram: %w", err)
	}
	errs, err := meter.Int64Counter("fluency.error.total",
		metric.WithDescription("Failed operations by error kind"))
	if err != nil {
		return nil, fmt.Errorf("creating error counter: %w", err)
	}
	words, err := meter.Int64Counter("fluency.words.transcribed",
		metric.WithDescription("Words returned by the transcription provider"))
	if err != nil {
		return nil, fmt.Errorf("creating words counter: %w", err)
	}
	return &Metrics{operations: operations, duration: duration, errors: errs, words: words}, nil
}

// RecordOperation records one finished operation.
func (m *Metrics) RecordOperation(ctx context.Context, component, operation, status string, d time.Duration) {
	if m == nil {
		return
	}
	attrs := metric.WithAttributes(
		attribute.String(AttrComponent, component),
		attribute.String(AttrOperation, operation),
	)
	m.operations.Add(ctx, 1, attrs, metric.WithAttributes(attribute.String(AttrStatus, status)))
	m.duration.Record(ctx, d.Seconds(), attrs)
}

// RecordError counts a failure of the given kind.
func (m *Metrics) RecordError(ctx context.Context, component, kind string) {
	if m == nil {
		return
	}
	m.errors.Add(ctx, 1, metric.WithAttributes(
		attribute.String(AttrComponent, component),
		attribute.String("kind", kind),
	))
}

// RecordWords counts transcribed words.
func (m *Metrics) RecordWords(ctx context.Context, n int) {
	if m == nil || n <= 0 {
		return
	}
	m.words.Add(ctx, int64(n))
}
