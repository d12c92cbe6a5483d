package telemetry

import (
	"context"
	"sort"
	"strings"

	"github.com/grafana/pyroscope-go"
)

// Profiling label keys. Values must stay low-cardinality.
const (
	ProfilingLabelRoute    = "route"
	ProfilingLabelMethod   = "method"
	ProfilingLabelResource = "resource"
)

// MaxLabelValueLength caps label values
const MaxLabelValueLength = 128

// highCardinalityLabels are dropped from profiling labels
var highCardinalityLabels = map[string]bool{
	"user_id":     true,
	"request_id":  true,
	"order_id":    true,
	"customer_id": true,
	"trace_id":    true,
	"span_id":     true,
}

// WithProfilingLabels runs fn with pprof labels attached, so CPU samples taken
// inside fn can be filtered by those labels in Pyroscope.
func WithProfilingLabels(ctx context.Context, labels map[string]string, fn func(context.Context)) {
	pairs := sanitizeLabels(labels)
	if len(pairs) == 0 {
		fn(ctx)
		return
	}
	pyroscope.TagWrapper(ctx, pyroscope.Labels(pairs...), fn)
}

// sanitizeLabels returns sorted key/value pairs with empty, high-cardinality
// and malformed keys removed and long values truncated.
func sanitizeLabels(labels map[string]string) []string {
	if len(labels) == 0 {
		return nil
	}
	keys := make([]string, 0, len(labels))
	for k := range labels {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	pairs := make([]string, 0, len(labels)*2)
	for _, key := range keys {
		value := labels[key]
		clean := sanitizeLabelKey(key)
		if clean == "" || value == "" || highCardinalityLabels[clean] {
			continue
		}
		if len(value) > MaxLabelValueLength {
			value = value[:MaxLabelValueLength]
		}
		pairs = append(pairs, clean, value)
	}
	return pairs
}

// sanitizeLabelKey lowercases the key and keeps only [a-z0-9_]
func sanitizeLabelKey(key string) string {
	key = strings.ToLower(key)
	key = strings.NewReplacer(" ", "_", "-", "_").Replace(key)
	var b strings.Builder
	for i := 0; i < len(key); i++ {
		c := key[i]
		if (c >= 'a' && c <= 'z') || (c >= '0' && c <= '9') || c == '_' {
			b.WriteByte(c)
		}
	}
	return b.String()
}
