package telemetry

import (
	"context"
	"sort"
	"strings"

	"github.com/grafana/pyroscope-go"
)

// Profiling label keys
const (
	ProfilingLabelTenantID  = "tenant_id"
	ProfilingLabelOperation = "operation"
)

// MaxLabelValueLength caps label values to keep profile series bounded
const MaxLabelValueLength = 128

// highCardinalityLabels are dropped; tenant_id stays since clubs number in the hundreds
var highCardinalityLabels = map[string]bool{
	"user_id":    true,
	"member_id":  true,
	"dues_id":    true,
	"request_id": true,
	"trace_id":   true,
	"span_id":    true,
}

// WithProfilingLabels runs fn with pprof labels attached, so CPU and
// allocation samples taken inside it can be filtered by label in Pyroscope.
// Labels apply whether or not the profiler is running.
func WithProfilingLabels(ctx context.Context, labels map[string]string, fn func(context.Context)) {
	pairs := sanitizeLabels(labels)
	if len(pairs) == 0 {
		fn(ctx)
		return
	}
	pyroscope.TagWrapper(ctx, pyroscope.Labels(pairs...), fn)
}

// TenantOperation labels work done for one club
func TenantOperation(tenantID, operation string) map[string]string {
	return map[string]string{
		ProfilingLabelTenantID:  tenantID,
		ProfilingLabelOperation: operation,
	}
}

// sanitizeLabels returns sorted key/value pairs with empty and
// high-cardinality labels removed and long values truncated
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
	for _, k := range keys {
		v := labels[k]
		key := sanitizeLabelKey(k)
		if key == "" || v == "" || highCardinalityLabels[key] {
			continue
		}
		if len(v) > MaxLabelValueLength {
			v = v[:MaxLabelValueLength]
		}
		pairs = append(pairs, key, v)
	}
	return pairs
}

// sanitizeLabelKey lowercases key and keeps only [a-z0-9_]
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
