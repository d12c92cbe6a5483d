package telemetry

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetricgrpc"
	"go.opentelemetry.io/otel/metric"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.uber.org/zap"
)

// MetricsConfig holds metrics configuration.
type MetricsConfig struct {
	Enabled           bool
	CollectorEndpoint string
	ExportInterval    time.Duration
	ServiceName       string
	Insecure          bool
}

// MeterProvider owns the SDK meter provider when metrics are enabled.
type MeterProvider struct {
	provider *sdkmetric.MeterProvider
}

// NewMeterProvider installs a global OTLP/gRPC meter provider with a periodic reader.
func NewMeterProvider(ctx context.Context, cfg MetricsConfig, logger *zap.Logger) (*MeterProvider, error) {
	mp := &MeterProvider{}
	if !cfg.Enabled {
		logger.Info("metrics disabled")
		return mp, nil
	}

	interval := cfg.ExportInterval
	if interval <= 0 {
		interval = time.Minute
	}
	opts := []otlpmetricgrpc.Option{otlpmetricgrpc.WithEndpoint(cfg.CollectorEndpoint)}
	if cfg.Insecure {
		opts = append(opts, otlpmetricgrpc.WithInsecure())
	}
	exporter, err := otlpmetricgrpc.New(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("create metrics exporter: %w", err)
	}
	res, err := serviceResource(cfg.ServiceName)
	if err != nil {
		return nil, err
	}

	mp.provider = sdkmetric.NewMeterProvider(
		sdkmetric.WithResource(res),
		sdkmetric.WithReader(sdkmetric.NewPeriodicReader(exporter, sdkmetric.WithInterval(interval))),
	)
	otel.SetMeterProvider(mp.provider)
	logger.Info("metrics enabled", zap.Duration("export_interval", interval))
	return mp, nil
}

// Meter returns a named meter, falling back to the global provider
func (mp *MeterProvider) Meter(name string) metric.Meter {
	if mp.provider == nil {
		return otel.GetMeterProvider().Meter(name)
	}
	return mp.provider.Meter(name)
}

// Shutdown flushes pending metrics
func (mp *MeterProvider) Shutdown(ctx context.Context) error {
	if mp.provider == nil {
		return nil
	}
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	if err := mp.provider.Shutdown(ctx); err != nil {
		return fmt.Errorf("shutdown meter provider: %w", err)
	}
	return nil
}

// Counter wraps a monotonically increasing int64 instrument.
type Counter struct {
	counter metric.Int64Counter
}

// NewCounter creates a new Counter metric.
func NewCounter(meter metric.Meter, name, description, unit string) (*Counter, error) {
	c, err := meter.Int64Counter(name, metric.WithDescription(description), metric.WithUnit(unit))
	if err != nil {
		return nil, fmt.Errorf("create counter %s: %w", name, err)
	}
	return &Counter{counter: c}, nil
}

// Add increments the counter by value
func (c *Counter) Add(ctx context.Context, value int64, attrs ...attribute.KeyValue) {
	c.counter.Add(ctx, value, metric.WithAttributes(attrs...))
}

// Inc increments the counter by one
func (c *Counter) Inc(ctx context.Context, attrs ...attribute.KeyValue) {
	c.Add(ctx, 1, attrs...)
}

// Histogram wraps a float64 distribution instrument.
type Histogram struct {
	histogram metric.Float64Histogram
}

// NewHistogram creates a histogram with optional explicit bucket boundaries
func NewHistogram(meter metric.Meter, name, description, unit string, boundaries ...float64) (*Histogram, error) {
	opts := []metric.Float64HistogramOption{metric.WithDescription(description), metric.WithUnit(unit)}
	if len(boundaries) > 0 {
		opts = append(opts, metric.WithExplicitBucketBoundaries(boundaries...))
	}
	h, err := meter.Float64Histogram(name, opts...)
	if err != nil {
		return nil, fmt.Errorf("create histogram %s: %w", name, err)
	}
	return &Histogram{histogram: h}, nil
}

// RecordDuration records d in seconds
func (h *Histogram) RecordDuration(ctx context.Context, d time.Duration, attrs ...attribute.KeyValue) {
	h.histogram.Record(ctx, d.Seconds(), metric.WithAttributes(attrs...))
}

// Gauge wraps a point-in-time int64 instrument.
type Gauge struct {
	gauge metric.Int64Gauge
}

// NewGauge creates a new Gauge metric.
func NewGauge(meter metric.Meter, name, description, unit string) (*Gauge, error) {
	g, err := meter.Int64Gauge(name, metric.WithDescription(description), metric.WithUnit(unit))
	if err != nil {
		return nil, fmt.Errorf("create gauge %s: %w", name, err)
	}
	return &Gauge{gauge: g}, nil
}

// Record sets the gauge value
func (g *Gauge) Record(ctx context.Context, value int64, attrs ...attribute.KeyValue) {
	g.gauge.Record(ctx, value, metric.WithAttributes(attrs...))
}

// Attribute keys shared by the business instruments.
var (
	AttrOrderStatus   = attribute.Key("order_status")
	AttrPaymentMethod = attribute.Key("payment_method")
	AttrSnapshotKind  = attribute.Key("snapshot_kind")
	AttrOutcome       = attribute.Key("outcome")
)
