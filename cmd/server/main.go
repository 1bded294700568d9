package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/clube/backend/internal/infrastructure/auth"
	"github.com/clube/backend/internal/infrastructure/cache"
	"github.com/clube/backend/internal/infrastructure/config"
	"github.com/clube/backend/internal/infrastructure/event"
	"github.com/clube/backend/internal/infrastructure/logger"
	"github.com/clube/backend/internal/infrastructure/notification"
	"github.com/clube/backend/internal/infrastructure/persistence"
	"github.com/clube/backend/internal/infrastructure/printing"
	"github.com/clube/backend/internal/infrastructure/scheduler"
	"github.com/clube/backend/internal/infrastructure/storage"
	"github.com/clube/backend/internal/infrastructure/telemetry"
	"github.com/clube/backend/internal/interfaces/http/handler"
	"github.com/clube/backend/internal/interfaces/http/middleware"
	"github.com/clube/backend/internal/interfaces/http/router"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

//	@title			Clube Back Office API
//	@version		1.0
//	@description	Club back office: members, dues engine, finance, events and reports

//	@BasePath	/api/v1

//	@securityDefinitions.apikey	BearerAuth
//	@in							header
//	@name						Authorization
//	@description				Bearer token authentication. Format: "Bearer {token}"

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	base, err := logger.New(logger.Config{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
		Output: cfg.Log.Output,
	})
	if err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	providers, err := telemetry.Setup(ctx, cfg.Telemetry, base)
	if err != nil {
		base.Fatal("Failed to initialize telemetry", zap.Error(err))
	}
	log := base
	if cfg.Telemetry.LogsEnabled {
		log = providers.BridgeLogger(base, logger.ParseLevel(cfg.Log.Level))
	}
	defer func() { _ = log.Sync() }()

	profiler, err := telemetry.StartProfiler(cfg.Telemetry.Profiling, log)
	if err != nil {
		log.Fatal("Failed to start profiler", zap.Error(err))
	}
	profiler.LinkSpans(providers)
	defer func() {
		if err := profiler.Stop(); err != nil {
			log.Warn("Profiler did not stop cleanly", zap.Error(err))
		}
	}()

	log.Info("Starting club back office",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
	)

	// Database
	gormLog := logger.NewGormLogger(log, logger.MapGormLogLevel(cfg.Log.Level),
		logger.WithSlowThreshold(cfg.Log.SlowQuery))
	db, err := persistence.NewDatabase(&cfg.Database, persistence.WithLogger(gormLog))
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("Error closing database", zap.Error(err))
		}
	}()
	if err := telemetry.RegisterDBTracing(db.DB, telemetry.DBTracingConfigFrom(cfg.Telemetry, cfg.Database.DBName), log); err != nil {
		log.Warn("Database tracing not registered", zap.Error(err))
	}
	log.Info("Database connected successfully")

	// Redis, with in-memory fallback outside production
	redisStores := cache.NewFactory(cfg.Redis,
		cache.WithLogger(log),
		cache.WithInMemoryFallback(!cfg.IsProduction()),
	)
	if err := redisStores.Connect(ctx); err != nil {
		log.Fatal("Failed to connect to Redis", zap.Error(err))
	}
	defer func() { _ = redisStores.Close() }()

	repos := newRepositories(db.DB)

	duesMetrics, err := telemetry.NewDuesMetrics(providers.Meter("clube/dues"), repos.tenants, repos.dues, log)
	if err != nil {
		log.Fatal("Failed to create dues metrics", zap.Error(err))
	}
	if providers.Enabled() {
		duesMetrics.StartCollector(ctx, cfg.Telemetry.MetricsInterval)
	}

	deps := serviceDeps{
		cfg:       cfg,
		jwt:       auth.NewJWTService(cfg.JWT),
		blacklist: redisStores.TokenBlacklist(),
		metrics:   duesMetrics,
		sender:    notification.NewLogSender(log),
		logger:    log,
	}

	// PDF reports
	if cfg.Printing.Enabled {
		chrome := printing.NewChromedpRenderer(&printing.ChromedpConfig{
			DefaultTimeout: cfg.Printing.Timeout,
			RemoteURL:      cfg.Printing.RemoteURL,
			NoSandbox:      cfg.Printing.NoSandbox,
			Logger:         log,
		})
		defer func() { _ = chrome.Close() }()
		deps.exporter = printing.NewReportRenderer(printing.NewTemplateEngine(), chrome, printing.ReportRendererConfig{
			PaperSize: printing.PaperSizeA4,
			Logger:    log,
		})

		if cfg.Storage.Enabled {
			s3, err := storage.NewS3ObjectStorage(&cfg.Storage,
				storage.WithLogger(log),
				storage.WithPresignExpiration(cfg.Storage.PresignExpiration),
			)
			if err != nil {
				log.Fatal("Failed to create report archive", zap.Error(err))
			}
			if err := s3.EnsureBucket(ctx); err != nil {
				log.Fatal("Failed to prepare report bucket", zap.Error(err))
			}
			deps.archive = s3
		} else {
			deps.archive = storage.NewMemoryArchive()
		}
	}

	svc := newServices(repos, deps)

	// Domain events
	eventBus := event.NewInMemoryEventBus(log)
	eventBus.Subscribe(event.NewActivityLogHandler(log))
	if err := eventBus.Start(ctx); err != nil {
		log.Fatal("Failed to start event bus", zap.Error(err))
	}
	svc.publishTo(eventBus)

	// Daily dues maintenance
	var (
		jobs    *scheduler.Scheduler
		trigger *scheduler.DailyTrigger
	)
	if cfg.Scheduler.Enabled {
		hostname, _ := os.Hostname()
		executor := scheduler.NewMaintenanceExecutor(svc.dues, svc.campaigns,
			redisStores.Locker(hostname), cfg.Scheduler.LockTTL, cfg.Dues.Lookahead, log)

		schedCfg := scheduler.DefaultSchedulerConfig()
		schedCfg.JobTimeout = cfg.Scheduler.JobTimeout
		schedCfg.RetryAttempts = cfg.Scheduler.RetryAttempts
		schedCfg.RetryDelay = cfg.Scheduler.RetryDelay
		jobs = scheduler.NewScheduler(schedCfg, executor, log)
		if err := jobs.Start(ctx); err != nil {
			log.Fatal("Failed to start scheduler", zap.Error(err))
		}

		trigger, err = scheduler.NewDailyTrigger(cfg.Scheduler.DuesCronSchedule, cfg.Scheduler.RetryAttempts, jobs, repos.tenants, log)
		if err != nil {
			log.Fatal("Invalid dues schedule", zap.Error(err))
		}
		if err := trigger.Start(ctx); err != nil {
			log.Fatal("Failed to start daily trigger", zap.Error(err))
		}
	}

	// HTTP
	middleware.SetupValidator()
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	engine := gin.New()
	if err := engine.SetTrustedProxies(cfg.HTTP.TrustedProxies); err != nil {
		log.Warn("Invalid trusted proxies", zap.Error(err))
	}

	cors := middleware.DefaultCORSConfig()
	cors.AllowOrigins = cfg.HTTP.CORSAllowOrigins
	if len(cfg.HTTP.CORSAllowMethods) > 0 {
		cors.AllowMethods = cfg.HTTP.CORSAllowMethods
	}
	if len(cfg.HTTP.CORSAllowHeaders) > 0 {
		cors.AllowHeaders = cfg.HTTP.CORSAllowHeaders
	}

	engine.Use(
		middleware.RequestID(),
		logger.GinMiddleware(log),
		logger.Recovery(log),
		middleware.Tracing(middleware.TracingConfig{
			ServiceName:    cfg.Telemetry.ServiceName,
			Enabled:        providers.Enabled(),
			TracerProvider: providers.Traces,
		}),
		middleware.CORS(cors),
		middleware.Secure(cfg.IsProduction()),
		middleware.BodyLimit(cfg.HTTP.MaxBodySize),
		middleware.Timeout(cfg.HTTP.WriteTimeout),
	)
	if cfg.HTTP.RateLimitEnabled {
		engine.Use(middleware.RateLimit(rateLimiter(ctx, cfg.HTTP, redisStores), log))
	}
	httpMetrics, err := middleware.HTTPMetrics(providers.Meter("clube/http"))
	if err != nil {
		log.Fatal("Failed to create HTTP metrics", zap.Error(err))
	}
	engine.Use(httpMetrics, middleware.SpanErrorMarker())

	system := handler.NewSystemHandler(telemetry.ServiceVersion, map[string]handler.HealthCheck{
		"database": func(context.Context) error { return db.Ping() },
		"redis":    redisStores.Ping,
	})

	jwtCfg := middleware.DefaultJWTConfig(deps.jwt)
	jwtCfg.TokenBlacklist = deps.blacklist
	jwtCfg.Logger = log
	tenantCfg := middleware.DefaultTenantConfig()
	tenantCfg.Validator = middleware.NewRepositoryTenantValidator(repos.tenants)
	tenantCfg.Logger = log

	router.NewRouter(engine,
		router.WithHealthHandler(system.Health),
		router.WithMiddleware(
			middleware.JWTAuthMiddlewareWithConfig(jwtCfg),
			middleware.TenantMiddleware(tenantCfg),
			middleware.TracingAttributeInjector(),
		),
	).RegisterClubRoutes(newHandlers(svc, system)).Setup()

	srv := &http.Server{
		Addr:           ":" + cfg.App.Port,
		Handler:        engine,
		ReadTimeout:    cfg.HTTP.ReadTimeout,
		WriteTimeout:   cfg.HTTP.WriteTimeout,
		IdleTimeout:    cfg.HTTP.IdleTimeout,
		MaxHeaderBytes: cfg.HTTP.MaxHeaderBytes,
	}

	go func() {
		log.Info("Server starting", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	<-ctx.Done()
	log.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("Server forced to shutdown", zap.Error(err))
	}
	if trigger != nil {
		trigger.Stop()
	}
	if jobs != nil {
		if err := jobs.Stop(shutdownCtx); err != nil {
			log.Warn("Scheduler did not drain", zap.Error(err))
		}
	}
	if err := eventBus.Stop(shutdownCtx); err != nil {
		log.Warn("Event bus did not drain", zap.Error(err))
	}
	if err := providers.Shutdown(shutdownCtx); err != nil {
		log.Warn("Telemetry shutdown incomplete", zap.Error(err))
	}

	log.Info("Server exited gracefully")
}

// rateLimiter shares request budgets through Redis when it is connected
func rateLimiter(ctx context.Context, cfg config.HTTPConfig, redisStores *cache.Factory) middleware.Limiter {
	if client := redisStores.Client(); client != nil {
		return middleware.NewRedisLimiter(client, cfg.RateLimitRequests, cfg.RateLimitWindow)
	}
	limiter := middleware.NewMemoryLimiter(cfg.RateLimitRequests, cfg.RateLimitWindow)
	limiter.StartSweeper(ctx)
	return limiter
}
