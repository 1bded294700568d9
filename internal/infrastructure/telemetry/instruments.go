package telemetry

import (
	"context"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// Attribute keys shared by the club metrics
var (
	AttrTenantID  = attribute.Key("tenant_id")
	AttrOperation = attribute.Key("operation")
	AttrChannel   = attribute.Key("channel")
	AttrOutcome   = attribute.Key("outcome")
)

// Counter is a monotonically increasing int64 instrument
type Counter struct {
	counter metric.Int64Counter
}

// NewCounter creates a counter on meter
func NewCounter(meter metric.Meter, name, description, unit string) (*Counter, error) {
	c, err := meter.Int64Counter(name, metric.WithDescription(description), metric.WithUnit(unit))
	if err != nil {
		return nil, err
	}
	return &Counter{counter: c}, nil
}

// Add adds value with attributes
func (c *Counter) Add(ctx context.Context, value int64, attrs ...attribute.KeyValue) {
	c.counter.Add(ctx, value, metric.WithAttributes(attrs...))
}

// FloatCounter sums float64 values, used for money amounts
type FloatCounter struct {
	counter metric.Float64Counter
}

// NewFloatCounter creates a float counter on meter
func NewFloatCounter(meter metric.Meter, name, description, unit string) (*FloatCounter, error) {
	c, err := meter.Float64Counter(name, metric.WithDescription(description), metric.WithUnit(unit))
	if err != nil {
		return nil, err
	}
	return &FloatCounter{counter: c}, nil
}

// Add adds value with attributes
func (c *FloatCounter) Add(ctx context.Context, value float64, attrs ...attribute.KeyValue) {
	c.counter.Add(ctx, value, metric.WithAttributes(attrs...))
}

// Gauge records point-in-time int64 values
type Gauge struct {
	gauge metric.Int64Gauge
}

// NewGauge creates a gauge on meter
func NewGauge(meter metric.Meter, name, description, unit string) (*Gauge, error) {
	g, err := meter.Int64Gauge(name, metric.WithDescription(description), metric.WithUnit(unit))
	if err != nil {
		return nil, err
	}
	return &Gauge{gauge: g}, nil
}

// Record sets the current value
func (g *Gauge) Record(ctx context.Context, value int64, attrs ...attribute.KeyValue) {
	g.gauge.Record(ctx, value, metric.WithAttributes(attrs...))
}

// Histogram records float64 distributions such as latencies in seconds
type Histogram struct {
	histogram metric.Float64Histogram
}

// NewHistogram creates a histogram on meter
func NewHistogram(meter metric.Meter, name, description, unit string) (*Histogram, error) {
	h, err := meter.Float64Histogram(name, metric.WithDescription(description), metric.WithUnit(unit))
	if err != nil {
		return nil, err
	}
	return &Histogram{histogram: h}, nil
}

// Record adds one observation
func (h *Histogram) Record(ctx context.Context, value float64, attrs ...attribute.KeyValue) {
	h.histogram.Record(ctx, value, metric.WithAttributes(attrs...))
}

// UpDownCounter tracks values that go up and down, such as in-flight requests
type UpDownCounter struct {
	counter metric.Int64UpDownCounter
}

// NewUpDownCounter creates an up/down counter on meter
func NewUpDownCounter(meter metric.Meter, name, description, unit string) (*UpDownCounter, error) {
	c, err := meter.Int64UpDownCounter(name, metric.WithDescription(description), metric.WithUnit(unit))
	if err != nil {
		return nil, err
	}
	return &UpDownCounter{counter: c}, nil
}

// Add adds delta with attributes
func (c *UpDownCounter) Add(ctx context.Context, delta int64, attrs ...attribute.KeyValue) {
	c.counter.Add(ctx, delta, metric.WithAttributes(attrs...))
}
