package middleware

import (
	"context"
	"strings"

	"github.com/feedoffice/backend/internal/infrastructure/telemetry"
	"github.com/gin-gonic/gin"
)

// profilingSkipPrefixes carry no useful profile
var profilingSkipPrefixes = []string{"/api/v1/health"}

// Profiling attaches route, method and resource pprof labels to the request so
// CPU samples can be sliced per endpoint in Pyroscope.
func Profiling(enabled bool) gin.HandlerFunc {
	if !enabled {
		return func(c *gin.Context) { c.Next() }
	}
	return func(c *gin.Context) {
		path := c.Request.URL.Path
		for _, prefix := range profilingSkipPrefixes {
			if strings.HasPrefix(path, prefix) {
				c.Next()
				return
			}
		}
		telemetry.WithProfilingLabels(c.Request.Context(), profilingLabels(c), func(ctx context.Context) {
			c.Request = c.Request.WithContext(ctx)
			c.Next()
		})
	}
}

func profilingLabels(c *gin.Context) map[string]string {
	route := c.FullPath()
	if route == "" {
		route = "unknown"
	}
	return map[string]string{
		telemetry.ProfilingLabelMethod:   c.Request.Method,
		telemetry.ProfilingLabelRoute:    route,
		telemetry.ProfilingLabelResource: resourceFromRoute(route),
	}
}

// resourceFromRoute returns the first path segment after /api/vN,
// e.g. "/api/v1/feed-stock/:feedCategoryId" gives "feed-stock".
func resourceFromRoute(route string) string {
	for _, part := range strings.Split(route, "/") {
		if part == "" || part == "api" || isVersionSegment(part) || strings.HasPrefix(part, ":") {
			continue
		}
		return part
	}
	return ""
}

func isVersionSegment(s string) bool {
	if len(s) < 2 || s[0] != 'v' {
		return false
	}
	for i := 1; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}
