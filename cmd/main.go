package main

import (
	"context"
	"crypto/tls"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/extra/redisotel/v9"
	"github.com/redis/go-redis/v9"

	"github.com/KasumiMercury/primind-pollination-agent/internal/config"
	"github.com/KasumiMercury/primind-pollination-agent/internal/domain"
	"github.com/KasumiMercury/primind-pollination-agent/internal/handler"
	"github.com/KasumiMercury/primind-pollination-agent/internal/health"
	"github.com/KasumiMercury/primind-pollination-agent/internal/infra/backend"
	"github.com/KasumiMercury/primind-pollination-agent/internal/infra/notifier"
	"github.com/KasumiMercury/primind-pollination-agent/internal/infra/outbox"
	"github.com/KasumiMercury/primind-pollination-agent/internal/infra/reconcilerecorder"
	"github.com/KasumiMercury/primind-pollination-agent/internal/infra/taskqueue"
	"github.com/KasumiMercury/primind-pollination-agent/internal/observability/logging"
	"github.com/KasumiMercury/primind-pollination-agent/internal/observability/metrics"
	"github.com/KasumiMercury/primind-pollination-agent/internal/observability/middleware"
	"github.com/KasumiMercury/primind-pollination-agent/internal/service/events"
	"github.com/KasumiMercury/primind-pollination-agent/internal/service/lifecycle"
	"github.com/KasumiMercury/primind-pollination-agent/internal/service/reconcile"
	"github.com/KasumiMercury/primind-pollination-agent/internal/service/registry"
	"github.com/KasumiMercury/primind-pollination-agent/internal/service/trigger"
	"github.com/KasumiMercury/primind-pollination-agent/internal/service/window"
)

// Version is set via ldflags at build time
var Version = "dev"

const (
	moduleName       = logging.Module("pollination-agent")
	reconcileTimeout = 2 * time.Minute
)

func main() {
	os.Exit(run())
}

func run() int {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	obs, err := initObservability(ctx)
	if err != nil {
		slog.Error("failed to initialize observability", slog.String("error", err.Error()))
		return 1
	}
	defer func() {
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer shutdownCancel()
		if err := obs.Shutdown(shutdownCtx); err != nil {
			slog.Warn("observability shutdown error", slog.String("error", err.Error()))
		}
	}()

	slog.SetDefault(obs.Logger())

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", slog.String("error", err.Error()))
		return 1
	}

	if err := config.ValidateForRun(cfg); err != nil {
		slog.Error("configuration validation error", slog.String("error", err.Error()))
		return 1
	}

	if err := cfg.Notifier.TaskQueue.Validate(cfg.Notifier.Kind); err != nil {
		slog.Error("task queue configuration error", slog.String("error", err.Error()))
		return 1
	}

	httpMetrics, err := metrics.NewHTTPMetrics()
	if err != nil {
		slog.Error("failed to initialize HTTP metrics", slog.String("error", err.Error()))
		return 1
	}

	reconcileMetrics, err := metrics.NewReconcileMetrics()
	if err != nil {
		slog.Error("failed to initialize reconcile metrics", slog.String("error", err.Error()))
		return 1
	}

	// Pass recorder (InfluxDB for local, BigQuery for gcloud)
	resultRecorder, err := reconcilerecorder.NewRecorder(ctx, reconcilerecorder.LoadConfig())
	if err != nil {
		slog.Error("failed to initialize reconcile result recorder", slog.String("error", err.Error()))
		return 1
	}
	defer func() {
		if err := resultRecorder.Close(); err != nil {
			slog.Warn("failed to close reconcile result recorder", slog.String("error", err.Error()))
		}
	}()

	speciesTable, err := config.LoadSpeciesTable(cfg.Species)
	if err != nil {
		slog.Error("failed to load species table", slog.String("error", err.Error()))
		return 1
	}
	go func() {
		if err := config.WatchSpeciesFile(ctx, cfg.Species.Path, speciesTable); err != nil {
			slog.Warn("species config watcher stopped", slog.String("error", err.Error()))
		}
	}()

	estimator := window.NewEstimator(speciesTable, cfg.Location, cfg.Window.UpcomingThresholdDays)
	backendClient := backend.NewClient(cfg.Backend)
	bus := events.NewBus()

	hostNotifier, cleanup, err := initNotifier(ctx, cfg, bus)
	if err != nil {
		slog.Error("failed to initialize notifier", slog.String("error", err.Error()))
		return 1
	}
	if cleanup != nil {
		defer func() {
			if err := cleanup(); err != nil {
				slog.Error("notifier cleanup error", slog.String("error", err.Error()))
			}
		}()
	}

	var redisClient *redis.Client
	ackOutbox := outbox.NewMemoryOutbox()
	if cfg.Redis.Outbox == config.OutboxRedis {
		redisClient, err = connectRedis(ctx, cfg.Redis)
		if err != nil {
			slog.Error("failed to connect redis",
				slog.String("event", "redis.connect.fail"),
				slog.String("error", err.Error()),
			)
			return 1
		}
		defer func() {
			if err := redisClient.Close(); err != nil {
				slog.Warn("failed to close redis client", slog.String("error", err.Error()))
			}
		}()

		slog.Info("redis connected",
			slog.String("addr", cfg.Redis.Addr),
		)
		ackOutbox = outbox.NewRedisOutbox(redisClient)
	}

	reminderRegistry := registry.New(hostNotifier)
	scheduler := reconcile.NewScheduler(
		backendClient,
		hostNotifier,
		reminderRegistry,
		ackOutbox,
		resultRecorder,
		reconcileMetrics,
		reconcile.Config{
			MaxAttempts: cfg.Reconcile.MaxAttempts,
			BaseDelay:   cfg.Reconcile.BaseDelay,
		},
	)

	lifecycleService := lifecycle.NewService(
		lifecycle.NewMachine(estimator, cfg.Window.PollinationToleranceDays),
		backendClient,
	)

	// Registry entries are dropped as soon as their notification fires.
	deliveries, unsubscribe := bus.Subscribe(64)
	defer unsubscribe()
	go scheduler.ConsumeEvents(ctx, deliveries)

	reconcileTrigger, err := trigger.New(scheduler, cfg.Reconcile.Cron, cfg.Location, reconcileTimeout)
	if err != nil {
		slog.Error("failed to create reconcile trigger", slog.String("error", err.Error()))
		return 1
	}

	// The registry starts empty, so one pass runs before anything else.
	startupCtx, startupCancel := context.WithTimeout(ctx, reconcileTimeout)
	reconcileTrigger.RunOnce(startupCtx)
	startupCancel()

	reconcileTrigger.Start(ctx)
	defer func() {
		stopCtx, stopCancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer stopCancel()
		if err := reconcileTrigger.Stop(stopCtx); err != nil {
			slog.Warn("reconcile trigger did not stop in time", slog.String("error", err.Error()))
		}
	}()

	reconcileHandler := handler.NewReconcileHandler(scheduler)
	plantHandler := handler.NewPlantHandler(estimator, lifecycleService)
	notificationHandler := handler.NewNotificationHandler(bus)

	// Setup router with observability middleware
	r := gin.New()
	r.Use(middleware.Gin(middleware.GinConfig{
		SkipPaths:  []string{"/health", "/health/live", "/health/ready", "/metrics"},
		Module:     moduleName,
		TracerName: "github.com/KasumiMercury/primind-pollination-agent/internal/observability/middleware",
		JobNameResolver: func(c *gin.Context) string {
			if c.FullPath() != "" {
				return c.FullPath()
			}
			return c.Request.URL.Path
		},
		HTTPMetrics: httpMetrics,
	}))
	r.Use(middleware.PanicRecoveryGin())

	// Health check endpoints
	healthChecker := health.NewChecker(redisClient, scheduler, Version)
	r.GET("/health/live", healthChecker.LiveHandler())
	r.GET("/health/ready", healthChecker.ReadyHandler())
	r.GET("/health", healthChecker.ReadyHandler())

	// API routes
	v1 := r.Group("/api/v1")
	{
		v1.POST("/reconcile", reconcileHandler.HandleReconcile)
		v1.POST("/reconcile/resume", reconcileHandler.HandleResume)
		v1.GET("/reconcile/status", reconcileHandler.HandleStatus)
		v1.DELETE("/reminders", reconcileHandler.HandleCancelAll)
		v1.DELETE("/plants/:plantId/reminders", reconcileHandler.HandleCancelPlant)
		v1.DELETE("/plants/:plantId/reminders/:type", reconcileHandler.HandleCancelReminder)

		v1.POST("/plants/estimate", plantHandler.HandleEstimate)
		v1.POST("/plants/transitions", plantHandler.HandleTransition)

		v1.POST("/notifications/deliver", notificationHandler.HandleDeliver)
		v1.POST("/notifications/tap", notificationHandler.HandleTap)
		v1.GET("/events", notificationHandler.HandleEvents)
	}

	// Create HTTP server
	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: r,
	}

	// Start server in goroutine
	serverErr := make(chan error, 1)
	go func() {
		slog.Info("starting server",
			slog.String("port", cfg.Port),
			slog.String("notifier", string(cfg.Notifier.Kind)),
			slog.String("ack_outbox", string(cfg.Redis.Outbox)),
			slog.String("reconcile_schedule", cfg.Reconcile.Cron),
			slog.Time("next_reconcile", reconcileTrigger.Next()),
		)
		serverErr <- srv.ListenAndServe()
	}()

	// Wait for shutdown signal or server error
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-quit:
		slog.Info("shutdown signal received", slog.String("signal", sig.String()))
		cancel()

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer shutdownCancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			slog.Error("failed to shutdown server", slog.String("error", err.Error()))
			return 1
		}

		slog.Info("server exited properly")
		return 0

	case err := <-serverErr:
		if errors.Is(err, http.ErrServerClosed) {
			return 0
		}
		slog.Error("server exited with error", slog.String("error", err.Error()))
		return 1
	}
}

// initNotifier returns the host notification surface selected by NOTIFIER.
func initNotifier(ctx context.Context, cfg *config.Config, sink domain.NotificationEventSink) (domain.Notifier, func() error, error) {
	if cfg.Notifier.Kind != config.NotifierTaskQueue {
		local := notifier.NewLocal(sink, cfg.Notifier.PermissionDenied)
		slog.Info("notifier initialized", slog.String("type", "local"))
		return local, local.Close, nil
	}

	queue, cleanup, err := initTaskQueue(ctx, cfg)
	if err != nil {
		return nil, nil, err
	}
	return taskqueue.NewNotifier(queue, cfg.Notifier.PermissionDenied), cleanup, nil
}

func connectRedis(ctx context.Context, cfg *config.RedisConfig) (*redis.Client, error) {
	opts := &redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	}
	if cfg.TLS {
		opts.TLSConfig = &tls.Config{MinVersion: tls.VersionTLS12}
	}
	redisClient := redis.NewClient(opts)

	if err := redisotel.InstrumentTracing(redisClient); err != nil {
		_ = redisClient.Close()
		return nil, err
	}

	if err := redisotel.InstrumentMetrics(redisClient); err != nil {
		_ = redisClient.Close()
		return nil, err
	}

	if err := redisClient.Ping(ctx).Err(); err != nil {
		_ = redisClient.Close()
		return nil, err
	}

	return redisClient, nil
}
