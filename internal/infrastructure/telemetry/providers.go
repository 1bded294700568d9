// Package telemetry wires OpenTelemetry tracing, metrics and logs for the API and the jobs.
package telemetry

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/clube/backend/internal/infrastructure/config"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/otlp/otlplog/otlploggrpc"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetricgrpc"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracegrpc"
	"go.opentelemetry.io/otel/log/global"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/propagation"
	sdklog "go.opentelemetry.io/otel/sdk/log"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.37.0"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// ServiceVersion is reported as service.version on every signal
var ServiceVersion = "dev"

// Providers holds the SDK providers. Nil providers mean the signal is disabled
// and the global no-op implementation is in use.
type Providers struct {
	Traces  *sdktrace.TracerProvider
	Metrics *sdkmetric.MeterProvider
	Logs    *sdklog.LoggerProvider
	config  config.TelemetryConfig
	logger  *zap.Logger
}

// Setup creates the OTLP/gRPC exporters and registers the providers globally.
// With telemetry disabled it returns empty Providers and never dials the collector.
func Setup(ctx context.Context, cfg config.TelemetryConfig, logger *zap.Logger) (*Providers, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	p := &Providers{config: cfg, logger: logger.Named("telemetry")}
	if !cfg.Enabled {
		p.logger.Info("Telemetry disabled")
		return p, nil
	}

	res, err := resource.Merge(resource.Default(), resource.NewWithAttributes(
		semconv.SchemaURL,
		semconv.ServiceName(cfg.ServiceName),
		semconv.ServiceVersion(ServiceVersion),
	))
	if err != nil {
		return nil, fmt.Errorf("failed to create telemetry resource: %w", err)
	}

	traceOpts := []otlptracegrpc.Option{otlptracegrpc.WithEndpoint(cfg.CollectorEndpoint)}
	metricOpts := []otlpmetricgrpc.Option{otlpmetricgrpc.WithEndpoint(cfg.CollectorEndpoint)}
	logOpts := []otlploggrpc.Option{otlploggrpc.WithEndpoint(cfg.CollectorEndpoint)}
	if cfg.Insecure {
		traceOpts = append(traceOpts, otlptracegrpc.WithInsecure())
		metricOpts = append(metricOpts, otlpmetricgrpc.WithInsecure())
		logOpts = append(logOpts, otlploggrpc.WithInsecure())
	}

	traceExporter, err := otlptracegrpc.New(ctx, traceOpts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create OTLP trace exporter: %w", err)
	}
	p.Traces = sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(traceExporter),
		sdktrace.WithResource(res),
		sdktrace.WithSampler(sdktrace.ParentBased(sampler(cfg.SamplingRatio))),
	)
	otel.SetTracerProvider(p.Traces)
	otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(
		propagation.TraceContext{},
		propagation.Baggage{},
	))

	metricExporter, err := otlpmetricgrpc.New(ctx, metricOpts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create OTLP metric exporter: %w", err)
	}
	interval := cfg.MetricsInterval
	if interval <= 0 {
		interval = time.Minute
	}
	p.Metrics = sdkmetric.NewMeterProvider(
		sdkmetric.WithResource(res),
		sdkmetric.WithReader(sdkmetric.NewPeriodicReader(metricExporter, sdkmetric.WithInterval(interval))),
	)
	otel.SetMeterProvider(p.Metrics)

	if cfg.LogsEnabled {
		logExporter, err := otlploggrpc.New(ctx, logOpts...)
		if err != nil {
			return nil, fmt.Errorf("failed to create OTLP log exporter: %w", err)
		}
		p.Logs = sdklog.NewLoggerProvider(
			sdklog.WithResource(res),
			sdklog.WithProcessor(sdklog.NewBatchProcessor(logExporter)),
		)
		global.SetLoggerProvider(p.Logs)
	}

	p.logger.Info("Telemetry initialized",
		zap.String("collector_endpoint", cfg.CollectorEndpoint),
		zap.Float64("sampling_ratio", cfg.SamplingRatio),
		zap.Duration("metrics_interval", interval),
		zap.Bool("logs", cfg.LogsEnabled))
	return p, nil
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

// Enabled reports whether the SDK providers are running
func (p *Providers) Enabled() bool {
	return p.Traces != nil
}

// Tracer returns a named tracer, falling back to the global provider
func (p *Providers) Tracer(name string) trace.Tracer {
	if p.Traces == nil {
		return otel.GetTracerProvider().Tracer(name)
	}
	return p.Traces.Tracer(name)
}

// Meter returns a named meter, falling back to the global provider
func (p *Providers) Meter(name string) metric.Meter {
	if p.Metrics == nil {
		return otel.GetMeterProvider().Meter(name)
	}
	return p.Metrics.Meter(name)
}

// BridgeLogger exports base's entries at or above level when log export is on
func (p *Providers) BridgeLogger(base *zap.Logger, level zapcore.Level) *zap.Logger {
	if p.Logs == nil {
		return base
	}
	return WithLogExport(base, p.Logs, p.config.ServiceName, level)
}

// Shutdown flushes and stops every provider
func (p *Providers) Shutdown(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	var errs []error
	if p.Logs != nil {
		errs = append(errs, p.Logs.Shutdown(ctx))
	}
	if p.Metrics != nil {
		errs = append(errs, p.Metrics.Shutdown(ctx))
	}
	if p.Traces != nil {
		errs = append(errs, p.Traces.Shutdown(ctx))
	}
	if err := errors.Join(errs...); err != nil {
		return fmt.Errorf("failed to shutdown telemetry: %w", err)
	}
	return nil
}
