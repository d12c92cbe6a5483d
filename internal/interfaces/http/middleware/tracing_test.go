package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
)

func attrMap(attrs []attribute.KeyValue) map[string]attribute.Value {
	out := make(map[string]attribute.Value, len(attrs))
	for _, a := range attrs {
		out[string(a.Key)] = a.Value
	}
	return out
}

func TestTracing_SpanAttributes(t *testing.T) {
	recorder := tracetest.NewSpanRecorder()
	provider := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder))

	r := gin.New()
	r.Use(func(c *gin.Context) { c.Set("request_id", "req-42"); c.Next() })
	r.Use(Tracing("feed-office-test", true, otelgin.WithTracerProvider(provider)), SpanAttributes())
	r.GET("/orders/:id", func(c *gin.Context) {
		c.Set(JWTUserIDKey, "admin-1")
		c.Status(http.StatusNotFound)
	})
	r.GET("/ok", func(c *gin.Context) { c.Status(http.StatusOK) })

	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/orders/abc", nil))
	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/ok", nil))

	spans := recorder.Ended()
	require.Len(t, spans, 2)

	failed := attrMap(spans[0].Attributes())
	assert.Equal(t, "req-42", failed["request_id"].AsString())
	assert.Equal(t, "admin-1", failed["user_id"].AsString())
	assert.Equal(t, codes.Error, spans[0].Status().Code)
	assert.Equal(t, "Not Found", spans[0].Status().Description)

	assert.NotEqual(t, codes.Error, spans[1].Status().Code)
}

func TestTracing_Disabled(t *testing.T) {
	r := gin.New()
	r.Use(Tracing("feed-office-test", false), SpanAttributes())
	r.GET("/ok", func(c *gin.Context) { c.Status(http.StatusOK) })

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/ok", nil))
	assert.Equal(t, http.StatusOK, w.Code)
}
