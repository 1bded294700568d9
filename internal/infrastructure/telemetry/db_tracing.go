package telemetry

import (
	"context"
	"errors"
	"time"

	"github.com/clube/backend/internal/infrastructure/config"
	"github.com/uptrace/opentelemetry-go-extra/otelgorm"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// DBTracingConfig holds configuration for database tracing.
type DBTracingConfig struct {
	Enabled         bool
	LogFullSQL      bool // query variables in spans, never in production
	SlowQueryThresh time.Duration
	DBName          string
	TracerProvider  trace.TracerProvider
}

// DBTracingConfigFrom maps the telemetry section of the app config.
func DBTracingConfigFrom(cfg config.TelemetryConfig, dbName string) DBTracingConfig {
	thresh := cfg.DBSlowQueryThresh
	if thresh <= 0 {
		thresh = 200 * time.Millisecond
	}
	return DBTracingConfig{
		Enabled:         cfg.Enabled && cfg.DBTraceEnabled,
		LogFullSQL:      cfg.DBLogFullSQL,
		SlowQueryThresh: thresh,
		DBName:          dbName,
	}
}

type queryStartKey struct{}

// RegisterDBTracing installs otelgorm plus timing callbacks that flag slow
// queries and failed statements on the current span.
func RegisterDBTracing(db *gorm.DB, cfg DBTracingConfig, logger *zap.Logger) error {
	if logger == nil {
		logger = zap.NewNop()
	}
	if !cfg.Enabled {
		logger.Debug("Database tracing disabled")
		return nil
	}

	opts := []otelgorm.Option{otelgorm.WithDBName(cfg.DBName)}
	if !cfg.LogFullSQL {
		opts = append(opts, otelgorm.WithoutQueryVariables())
	}
	if cfg.TracerProvider != nil {
		opts = append(opts, otelgorm.WithTracerProvider(cfg.TracerProvider))
	}
	// timing callbacks go first so the after hook sees the span before otelgorm ends it
	if err := registerTimingCallbacks(db, slowQueryCallback(cfg.SlowQueryThresh)); err != nil {
		return err
	}
	if err := db.Use(otelgorm.NewPlugin(opts...)); err != nil {
		return err
	}

	logger.Info("Database tracing enabled",
		zap.Bool("log_full_sql", cfg.LogFullSQL),
		zap.Duration("slow_query_threshold", cfg.SlowQueryThresh))
	return nil
}

func registerTimingCallbacks(db *gorm.DB, after func(*gorm.DB)) error {
	cb := db.Callback()
	steps := []error{
		cb.Create().Before("gorm:create").Register("clube_timing:before_create", markQueryStart),
		cb.Create().After("gorm:create").Register("clube_timing:after_create", after),
		cb.Query().Before("gorm:query").Register("clube_timing:before_query", markQueryStart),
		cb.Query().After("gorm:query").Register("clube_timing:after_query", after),
		cb.Update().Before("gorm:update").Register("clube_timing:before_update", markQueryStart),
		cb.Update().After("gorm:update").Register("clube_timing:after_update", after),
		cb.Delete().Before("gorm:delete").Register("clube_timing:before_delete", markQueryStart),
		cb.Delete().After("gorm:delete").Register("clube_timing:after_delete", after),
		cb.Row().Before("gorm:row").Register("clube_timing:before_row", markQueryStart),
		cb.Row().After("gorm:row").Register("clube_timing:after_row", after),
		cb.Raw().Before("gorm:raw").Register("clube_timing:before_raw", markQueryStart),
		cb.Raw().After("gorm:raw").Register("clube_timing:after_raw", after),
	}
	return errors.Join(steps...)
}

func markQueryStart(db *gorm.DB) {
	if db.Statement.Context != nil {
		db.Statement.Context = context.WithValue(db.Statement.Context, queryStartKey{}, time.Now())
	}
}

func slowQueryCallback(thresh time.Duration) func(*gorm.DB) {
	return func(db *gorm.DB) {
		ctx := db.Statement.Context
		if ctx == nil {
			return
		}
		span := trace.SpanFromContext(ctx)
		if !span.IsRecording() {
			return
		}
		if db.Statement.Table != "" {
			span.SetAttributes(attribute.String("db.sql.table", db.Statement.Table))
		}
		span.SetAttributes(attribute.Int64("db.rows_affected", db.Statement.RowsAffected))
		if db.Error != nil && !errors.Is(db.Error, gorm.ErrRecordNotFound) {
			span.SetStatus(codes.Error, db.Error.Error())
			span.RecordError(db.Error)
		}
		start, ok := ctx.Value(queryStartKey{}).(time.Time)
		if !ok {
			return
		}
		if elapsed := time.Since(start); elapsed > thresh {
			span.SetAttributes(
				attribute.Bool("db.slow_query", true),
				attribute.Int64("db.query_duration_ms", elapsed.Milliseconds()),
			)
			span.AddEvent("slow_query_warning", trace.WithAttributes(
				attribute.Int64("threshold_ms", thresh.Milliseconds()),
			))
		}
	}
}
