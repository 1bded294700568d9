package telemetry

import (
	"testing"

	"github.com/clube/backend/internal/infrastructure/config"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestLevelFilterCore(t *testing.T) {
	inner, logs := observer.New(zapcore.DebugLevel)
	logger := zap.New(&levelFilterCore{Core: inner, level: zapcore.WarnLevel})

	logger.Info("dues generated")
	logger.Warn("overdue refresh slow")
	logger.With(zap.String("tenant_id", "t1")).Error("generation failed")

	entries := logs.All()
	assert.Len(t, entries, 2)
	assert.Equal(t, "overdue refresh slow", entries[0].Message)
	assert.Equal(t, "t1", entries[1].ContextMap()["tenant_id"])
}

func TestWithLogExport_NilProvider(t *testing.T) {
	base := zap.NewNop()
	assert.Same(t, base, WithLogExport(base, nil, "clube-api", zapcore.InfoLevel))
}

func TestProviders_Disabled(t *testing.T) {
	p, err := Setup(t.Context(), configDisabled(), nil)
	assert.NoError(t, err)
	assert.False(t, p.Enabled())
	assert.NotNil(t, p.Meter("x"))
	assert.NotNil(t, p.Tracer("x"))
	base := zap.NewNop()
	assert.Same(t, base, p.BridgeLogger(base, zapcore.InfoLevel))
	assert.NoError(t, p.Shutdown(t.Context()))
}

func configDisabled() config.TelemetryConfig {
	return config.TelemetryConfig{Enabled: false, ServiceName: "clube-api"}
}
