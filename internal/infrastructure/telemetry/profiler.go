package telemetry

import (
	"fmt"
	"os"
	"runtime"
	"strings"
	"sync"

	"github.com/clube/backend/internal/infrastructure/config"
	otelpyroscope "github.com/grafana/otel-profiling-go"
	"github.com/grafana/pyroscope-go"
	"go.opentelemetry.io/otel"
	"go.uber.org/zap"
)

var profileTypesByName = map[string][]pyroscope.ProfileType{
	"cpu":           {pyroscope.ProfileCPU},
	"alloc_objects": {pyroscope.ProfileAllocObjects},
	"alloc_space":   {pyroscope.ProfileAllocSpace},
	"inuse_objects": {pyroscope.ProfileInuseObjects},
	"inuse_space":   {pyroscope.ProfileInuseSpace},
	"goroutines":    {pyroscope.ProfileGoroutines},
	"mutex":         {pyroscope.ProfileMutexCount, pyroscope.ProfileMutexDuration},
	"block":         {pyroscope.ProfileBlockCount, pyroscope.ProfileBlockDuration},
}

// Profiler wraps the Pyroscope profiler. A disabled profiler is a no-op.
type Profiler struct {
	profiler *pyroscope.Profiler
	logger   *zap.Logger
	config   config.ProfilingConfig
	mu       sync.Mutex
	stopped  bool
}

// StartProfiler starts continuous profiling when cfg.Enabled is set
func StartProfiler(cfg config.ProfilingConfig, logger *zap.Logger) (*Profiler, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	p := &Profiler{logger: logger.Named("profiler"), config: cfg}
	if !cfg.Enabled {
		p.logger.Info("Continuous profiling disabled")
		return p, nil
	}
	if cfg.ServerAddress == "" {
		return nil, fmt.Errorf("profiler server address is required when profiling is enabled")
	}
	if cfg.ApplicationName == "" {
		return nil, fmt.Errorf("profiler application name is required when profiling is enabled")
	}

	types, err := parseProfileTypes(cfg.ProfileTypes)
	if err != nil {
		return nil, err
	}
	if hasProfile(cfg.ProfileTypes, "mutex") {
		fraction := cfg.MutexProfileFraction
		if fraction <= 0 {
			fraction = 5
		}
		runtime.SetMutexProfileFraction(fraction)
	}
	if hasProfile(cfg.ProfileTypes, "block") {
		rate := cfg.BlockProfileRate
		if rate <= 0 {
			rate = 5
		}
		runtime.SetBlockProfileRate(rate)
	}

	tags := map[string]string{}
	if hostname := os.Getenv("HOSTNAME"); hostname != "" {
		tags["hostname"] = hostname
	}
	if pod := os.Getenv("POD_NAME"); pod != "" {
		tags["pod"] = pod
	}

	pcfg := pyroscope.Config{
		ApplicationName: cfg.ApplicationName,
		ServerAddress:   cfg.ServerAddress,
		Logger:          pyroscopeLogger{p.logger.Sugar()},
		Tags:            tags,
		ProfileTypes:    types,
	}
	if cfg.BasicAuthUser != "" && cfg.BasicAuthPassword != "" {
		pcfg.BasicAuthUser = cfg.BasicAuthUser
		pcfg.BasicAuthPassword = cfg.BasicAuthPassword
	}

	profiler, err := pyroscope.Start(pcfg)
	if err != nil {
		return nil, fmt.Errorf("failed to start Pyroscope profiler: %w", err)
	}
	p.profiler = profiler

	p.logger.Info("Pyroscope profiler started",
		zap.String("server_address", cfg.ServerAddress),
		zap.String("application_name", cfg.ApplicationName),
		zap.Strings("profile_types", cfg.ProfileTypes))
	return p, nil
}

func parseProfileTypes(names []string) ([]pyroscope.ProfileType, error) {
	var types []pyroscope.ProfileType
	for _, name := range names {
		t, ok := profileTypesByName[strings.ToLower(strings.TrimSpace(name))]
		if !ok {
			return nil, fmt.Errorf("unknown profile type %q", name)
		}
		types = append(types, t...)
	}
	return types, nil
}

func hasProfile(names []string, want string) bool {
	for _, name := range names {
		if strings.EqualFold(strings.TrimSpace(name), want) {
			return true
		}
	}
	return false
}

// LinkSpans wraps the global tracer provider so CPU samples carry the span id.
// It does nothing unless both profiling and tracing are running.
func (p *Profiler) LinkSpans(providers *Providers) {
	if !p.Enabled() || !p.config.SpanProfiles || providers == nil || !providers.Enabled() {
		return
	}
	otel.SetTracerProvider(otelpyroscope.NewTracerProvider(providers.Traces))
	p.logger.Info("Span profiles enabled")
}

// Enabled reports whether profiles are being collected
func (p *Profiler) Enabled() bool {
	return p.profiler != nil
}

// Stop flushes pending profiles. Safe to call more than once.
func (p *Profiler) Stop() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.stopped || p.profiler == nil {
		p.stopped = true
		return nil
	}
	p.stopped = true
	if err := p.profiler.Stop(); err != nil {
		return fmt.Errorf("failed to stop profiler: %w", err)
	}
	p.logger.Info("Pyroscope profiler stopped")
	return nil
}

// pyroscopeLogger adapts zap to pyroscope.Logger
type pyroscopeLogger struct {
	*zap.SugaredLogger
}
