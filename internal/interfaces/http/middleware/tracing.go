package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// maxRequestIDLength bounds client supplied request ids copied into spans
const maxRequestIDLength = 128

// Tracing starts a server span per request through otelgin
func Tracing(serviceName string, enabled bool, opts ...otelgin.Option) gin.HandlerFunc {
	if !enabled {
		return func(c *gin.Context) { c.Next() }
	}
	return otelgin.Middleware(serviceName, opts...)
}

// SpanAttributes must run inside Tracing. It records request and admin
// ids and marks 4xx/5xx responses as span errors.
func SpanAttributes() gin.HandlerFunc {
	return func(c *gin.Context) {
		span := trace.SpanFromContext(c.Request.Context())
		if span.IsRecording() {
			if id := c.GetString("request_id"); id != "" {
				if len(id) > maxRequestIDLength {
					id = id[:maxRequestIDLength]
				}
				span.SetAttributes(attribute.String("request_id", id))
			}
		}

		c.Next()

		if !span.IsRecording() {
			return
		}
		if userID := c.GetString(JWTUserIDKey); userID != "" {
			span.SetAttributes(attribute.String("user_id", userID))
		}
		if status := c.Writer.Status(); status >= http.StatusBadRequest {
			span.SetStatus(codes.Error, statusDescription(status))
			span.SetAttributes(attribute.Int("http.status_code", status))
		}
	}
}

func statusDescription(status int) string {
	switch {
	case status >= http.StatusInternalServerError:
		return "Internal Server Error"
	case status == http.StatusUnauthorized:
		return "Unauthorized"
	case status == http.StatusForbidden:
		return "Forbidden"
	case status == http.StatusNotFound:
		return "Not Found"
	default:
		return "Client Error"
	}
}
