package telemetry

import (
	"go.opentelemetry.io/contrib/bridges/otelzap"
	"go.opentelemetry.io/otel/log"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// WithLogExport tees base into an otelzap core so entries at or above level
// are exported over OTLP. A nil provider returns base unchanged.
func WithLogExport(base *zap.Logger, provider log.LoggerProvider, serviceName string, level zapcore.Level) *zap.Logger {
	if base == nil || provider == nil {
		return base
	}
	bridge := otelzap.NewCore(serviceName, otelzap.WithLoggerProvider(provider))
	return base.WithOptions(zap.WrapCore(func(core zapcore.Core) zapcore.Core {
		return zapcore.NewTee(core, &levelFilterCore{Core: bridge, level: level})
	}))
}

// levelFilterCore drops entries below level before they reach the bridge
type levelFilterCore struct {
	zapcore.Core
	level zapcore.Level
}

func (c *levelFilterCore) Enabled(l zapcore.Level) bool {
	return l >= c.level && c.Core.Enabled(l)
}

func (c *levelFilterCore) With(fields []zapcore.Field) zapcore.Core {
	return &levelFilterCore{Core: c.Core.With(fields), level: c.level}
}

func (c *levelFilterCore) Check(entry zapcore.Entry, ce *zapcore.CheckedEntry) *zapcore.CheckedEntry {
	if !c.Enabled(entry.Level) {
		return ce
	}
	return c.Core.Check(entry, ce)
}
