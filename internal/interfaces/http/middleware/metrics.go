package middleware

import (
	"time"

	"github.com/feedoffice/backend/internal/infrastructure/telemetry"
	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

var httpDurationBuckets = []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10}

var (
	attrHTTPMethod     = attribute.Key("http.method")
	attrHTTPRoute      = attribute.Key("http.route")
	attrHTTPStatusCode = attribute.Key("http.status_code")
)

type httpMetrics struct {
	requestTotal    *telemetry.Counter
	requestDuration *telemetry.Histogram
	activeRequests  metric.Int64UpDownCounter
}

func newHTTPMetrics(meter metric.Meter) (*httpMetrics, error) {
	requestTotal, err := telemetry.NewCounter(meter,
		"http_server_request_total", "Total number of HTTP requests", "{request}")
	if err != nil {
		return nil, err
	}
	requestDuration, err := telemetry.NewHistogram(meter,
		"http_server_request_duration_seconds", "HTTP request latency distribution in seconds", "s",
		httpDurationBuckets...)
	if err != nil {
		return nil, err
	}
	activeRequests, err := meter.Int64UpDownCounter("http_server_active_requests",
		metric.WithDescription("Number of currently active HTTP requests"),
		metric.WithUnit("{request}"))
	if err != nil {
		return nil, err
	}
	return &httpMetrics{
		requestTotal:    requestTotal,
		requestDuration: requestDuration,
		activeRequests:  activeRequests,
	}, nil
}

// HTTPMetrics records request counts, latency and in-flight requests per
// route pattern. A nil meter disables collection.
func HTTPMetrics(meter metric.Meter) (gin.HandlerFunc, error) {
	if meter == nil {
		return func(c *gin.Context) { c.Next() }, nil
	}
	m, err := newHTTPMetrics(meter)
	if err != nil {
		return nil, err
	}
	return func(c *gin.Context) {
		ctx := c.Request.Context()
		start := time.Now()
		m.activeRequests.Add(ctx, 1)

		c.Next()

		m.activeRequests.Add(ctx, -1)
		route := c.FullPath()
		if route == "" {
			route = "unknown"
		}
		base := []attribute.KeyValue{
			attrHTTPMethod.String(c.Request.Method),
			attrHTTPRoute.String(route),
		}
		m.requestTotal.Inc(ctx, append(base, attrHTTPStatusCode.Int(c.Writer.Status()))...)
		m.requestDuration.RecordDuration(ctx, time.Since(start), base...)
	}, nil
}
