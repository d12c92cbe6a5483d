// Package telemetry wires OpenTelemetry tracing and metrics for the service.
package telemetry

import (
	"context"
	"fmt"
	"time"

	otelpyroscope "github.com/grafana/otel-profiling-go"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracegrpc"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.37.0"
	"go.uber.org/zap"
)

// Config holds telemetry configuration.
type Config struct {
	Enabled           bool
	CollectorEndpoint string
	SamplingRatio     float64
	ServiceName       string
	Insecure          bool
}

// TracerProvider owns the SDK tracer provider when tracing is enabled.
type TracerProvider struct {
	provider *sdktrace.TracerProvider
	logger   *zap.Logger
}

// NewTracerProvider installs a global OTLP/gRPC tracer provider. When tracing
// is disabled the global no-op provider stays in place.
func NewTracerProvider(ctx context.Context, cfg Config, logger *zap.Logger) (*TracerProvider, error) {
	tp := &TracerProvider{logger: logger}
	if !cfg.Enabled {
		logger.Info("tracing disabled")
		return tp, nil
	}

	opts := []otlptracegrpc.Option{otlptracegrpc.WithEndpoint(cfg.CollectorEndpoint)}
	if cfg.Insecure {
		opts = append(opts, otlptracegrpc.WithInsecure())
	}
	exporter, err := otlptracegrpc.New(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("create trace exporter: %w", err)
	}

	res, err := serviceResource(cfg.ServiceName)
	if err != nil {
		return nil, err
	}

	tp.provider = sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exporter),
		sdktrace.WithResource(res),
		sdktrace.WithSampler(sdktrace.ParentBased(sampler(cfg.SamplingRatio))),
	)
	otel.SetTracerProvider(tp.provider)
	otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(
		propagation.TraceContext{},
		propagation.Baggage{},
	))

	logger.Info("tracing enabled",
		zap.String("collector_endpoint", cfg.CollectorEndpoint),
		zap.Float64("sampling_ratio", cfg.SamplingRatio),
	)
	return tp, nil
}

func sampler(ratio float64) sdktrace.Sampler {
	switch {
	case ratio >= 1:
		return sdktrace.AlwaysSample()
	case ratio <= 0:
		return sdktrace.NeverSample()
	default:
		return sdktrace.TraceIDRatioBased(ratio)
	}
}

func serviceResource(name string) (*resource.Resource, error) {
	res, err := resource.Merge(
		resource.Default(),
		resource.NewWithAttributes(semconv.SchemaURL, semconv.ServiceName(name)),
	)
	if err != nil {
		return nil, fmt.Errorf("create resource: %w", err)
	}
	return res, nil
}

// Enabled reports whether spans are exported
func (tp *TracerProvider) Enabled() bool {
	return tp.provider != nil
}

// EnableSpanProfiles wraps the global tracer provider so every sampled span
// tags the CPU profile with its span id, linking traces to profiles. It is a
// no-op while tracing is disabled.
func (tp *TracerProvider) EnableSpanProfiles() bool {
	if tp.provider == nil {
		return false
	}
	otel.SetTracerProvider(otelpyroscope.NewTracerProvider(tp.provider))
	tp.logger.Info("span profiles enabled")
	return true
}

// Shutdown flushes pending spans
func (tp *TracerProvider) Shutdown(ctx context.Context) error {
	if tp.provider == nil {
		return nil
	}
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	if err := tp.provider.Shutdown(ctx); err != nil {
		return fmt.Errorf("shutdown tracer provider: %w", err)
	}
	return nil
}
