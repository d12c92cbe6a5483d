package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	catalogapp "github.com/feedoffice/backend/internal/application/catalog"
	financeapp "github.com/feedoffice/backend/internal/application/finance"
	identityapp "github.com/feedoffice/backend/internal/application/identity"
	invapp "github.com/feedoffice/backend/internal/application/inventory"
	partnerapp "github.com/feedoffice/backend/internal/application/partner"
	reportapp "github.com/feedoffice/backend/internal/application/report"
	tradeapp "github.com/feedoffice/backend/internal/application/trade"
	"github.com/feedoffice/backend/internal/infrastructure/auth"
	"github.com/feedoffice/backend/internal/infrastructure/cache"
	"github.com/feedoffice/backend/internal/infrastructure/config"
	"github.com/feedoffice/backend/internal/infrastructure/logger"
	"github.com/feedoffice/backend/internal/infrastructure/migration"
	"github.com/feedoffice/backend/internal/infrastructure/persistence"
	"github.com/feedoffice/backend/internal/infrastructure/scheduler"
	"github.com/feedoffice/backend/internal/infrastructure/telemetry"
	"github.com/feedoffice/backend/internal/interfaces/http/handler"
	"github.com/feedoffice/backend/internal/interfaces/http/middleware"
	"github.com/feedoffice/backend/internal/interfaces/http/router"
	"github.com/feedoffice/backend/migrations"
	"github.com/gin-gonic/gin"
	_ "github.com/lib/pq"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const (
	maxBodyBytes    = 1 << 20
	shutdownTimeout = 30 * time.Second
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}

	log, err := logger.New(&logger.Config{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
		Output: cfg.Log.Output,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer func() {
		_ = log.Sync()
	}()

	log.Info("Starting server",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("timezone", cfg.App.Timezone),
		zap.String("db_driver", cfg.Database.Driver))

	ctx := context.Background()
	loc := cfg.App.Location()

	tracerProvider, err := telemetry.NewTracerProvider(ctx, telemetry.Config{
		Enabled:           cfg.Telemetry.Enabled,
		CollectorEndpoint: cfg.Telemetry.CollectorEndpoint,
		SamplingRatio:     cfg.Telemetry.SamplingRatio,
		ServiceName:       cfg.Telemetry.ServiceName,
		Insecure:          cfg.Telemetry.Insecure,
	}, log)
	if err != nil {
		log.Fatal("Failed to initialize tracing", zap.Error(err))
	}
	meterProvider, err := telemetry.NewMeterProvider(ctx, telemetry.MetricsConfig{
		Enabled:           cfg.Telemetry.Enabled,
		CollectorEndpoint: cfg.Telemetry.CollectorEndpoint,
		ExportInterval:    cfg.Telemetry.MetricsInterval,
		ServiceName:       cfg.Telemetry.ServiceName,
		Insecure:          cfg.Telemetry.Insecure,
	}, log)
	if err != nil {
		log.Fatal("Failed to initialize metrics", zap.Error(err))
	}
	meter := meterProvider.Meter(cfg.Telemetry.ServiceName)

	profiler, err := telemetry.NewProfiler(telemetry.ProfilerConfig{
		Enabled:              cfg.Profiling.Enabled,
		ServerAddress:        cfg.Profiling.ServerAddress,
		ApplicationName:      cfg.Profiling.ApplicationName,
		BasicAuthUser:        cfg.Profiling.BasicAuthUser,
		BasicAuthPassword:    cfg.Profiling.BasicAuthPassword,
		MutexProfileFraction: cfg.Profiling.MutexProfileFraction,
		BlockProfileRate:     cfg.Profiling.BlockProfileRate,
	}, log)
	if err != nil {
		log.Fatal("Failed to start profiler", zap.Error(err))
	}
	if profiler.IsEnabled() && cfg.Profiling.SpanProfiles && !tracerProvider.EnableSpanProfiles() {
		log.Warn("Span profiles need telemetry enabled; skipping")
	}

	gormLog := logger.NewGormLogger(log, logger.GormLevel(cfg.Log.Level), cfg.Telemetry.DBSlowQueryThresh)
	db, err := persistence.NewDatabase(&cfg.Database, gormLog)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	log.Info("Database connected", zap.String("driver", db.Driver()))

	if err := migrateSchema(ctx, cfg, db, log); err != nil {
		log.Fatal("Failed to migrate database", zap.Error(err))
	}

	if err := telemetry.RegisterDBTracing(db.DB, telemetry.DBTracingConfig{
		Enabled:    cfg.Telemetry.Enabled && cfg.Telemetry.DBTraceEnabled,
		LogFullSQL: cfg.Telemetry.DBLogFullSQL,
		DBSystem:   db.Driver(),
	}, log); err != nil {
		log.Fatal("Failed to register database tracing", zap.Error(err))
	}

	// Redis backs the token blacklist and the snapshot lock when enabled.
	// Without it both fall back to single-process implementations.
	var (
		redisClient *redis.Client
		blacklist   auth.TokenBlacklist = auth.NewInMemoryTokenBlacklist()
		locker      scheduler.Locker    = scheduler.NoopLocker{}
	)
	if cfg.Redis.Enabled {
		redisClient, err = cache.NewRedisClient(ctx, cfg.Redis)
		if err != nil {
			log.Fatal("Failed to connect to Redis", zap.Error(err))
		}
		blacklist = auth.NewRedisTokenBlacklist(redisClient)
		locker = scheduler.NewRedisLocker(redisClient)
		log.Info("Redis connected", zap.String("addr", cfg.Redis.Addr()))
	} else {
		log.Warn("Redis disabled; token revocation and snapshot locks are process-local")
	}

	scope := persistence.NewGormTransactionScope(db.DB, cfg.Database.TxTimeout, cfg.Database.TxWaitTimeout)
	users := persistence.NewGormAdminUserRepository(db.DB)
	jwtService := auth.NewJWTService(cfg.JWT)

	authService := identityapp.NewAuthService(users, jwtService, blacklist)
	adminUserService := identityapp.NewAdminUserService(users, blacklist, cfg.JWT.RefreshTokenExpiration)
	categoryService := catalogapp.NewCategoryService(scope)
	customerService := partnerapp.NewCustomerService(scope)
	rawMaterialService := invapp.NewRawMaterialService(scope, loc)
	feedStockService := invapp.NewFeedStockService(scope, loc, cfg.Inventory.LowStockBags)
	orderService := tradeapp.NewOrderService(scope, loc)
	paymentService := financeapp.NewPaymentService(scope, loc)
	refundService := financeapp.NewRefundService(scope, loc)
	snapshotService := reportapp.NewSnapshotService(scope, loc)
	reportService := reportapp.NewReportService(scope, loc, feedStockService)

	businessMetrics, err := telemetry.NewBusinessMetrics(telemetry.BusinessMetricsConfig{
		Meter:  meter,
		Logger: log,
	})
	if err != nil {
		log.Fatal("Failed to initialize business metrics", zap.Error(err))
	}
	feedStockService.SetBusinessMetrics(businessMetrics)
	orderService.SetBusinessMetrics(businessMetrics)
	paymentService.SetBusinessMetrics(businessMetrics)
	refundService.SetBusinessMetrics(businessMetrics)
	snapshotService.SetBusinessMetrics(businessMetrics)
	businessMetrics.StartLowStockCollection(ctx, feedStockService, cfg.Telemetry.MetricsInterval)

	created, err := adminUserService.EnsureBootstrapAdmin(ctx, cfg.Bootstrap.AdminUsername, cfg.Bootstrap.AdminPassword)
	if err != nil {
		log.Fatal("Failed to create bootstrap admin", zap.Error(err))
	}
	if created {
		log.Info("Bootstrap admin created", zap.String("username", cfg.Bootstrap.AdminUsername))
	}

	if err := middleware.SetupValidator(); err != nil {
		log.Fatal("Failed to register validators", zap.Error(err))
	}
	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	engine := gin.New()
	if err := engine.SetTrustedProxies(cfg.HTTP.TrustedProxies); err != nil {
		log.Fatal("Invalid trusted proxies", zap.Error(err))
	}

	httpMetrics, err := middleware.HTTPMetrics(meter)
	if err != nil {
		log.Fatal("Failed to initialize HTTP metrics", zap.Error(err))
	}
	engine.Use(
		logger.Recovery(log),
		middleware.Tracing(cfg.Telemetry.ServiceName, cfg.Telemetry.Enabled),
		logger.GinMiddleware(log),
		middleware.SpanAttributes(),
		middleware.Profiling(profiler.IsEnabled()),
		httpMetrics,
		middleware.CORS(cfg.HTTP.CORSAllowOrigins),
		middleware.Secure(),
		middleware.BodyLimit(maxBodyBytes),
	)

	checks := map[string]handler.Pinger{
		"database": handler.PingFunc(db.Ping),
	}
	if redisClient != nil {
		checks["redis"] = handler.PingFunc(func(ctx context.Context) error {
			return redisClient.Ping(ctx).Err()
		})
	}

	router.RegisterAPI(engine, router.Handlers{
		Health:      handler.NewHealthHandler(checks),
		Auth:        handler.NewAuthHandler(authService, cfg.Cookie),
		AdminUsers:  handler.NewAdminUserHandler(adminUserService),
		Catalog:     handler.NewCatalogHandler(categoryService),
		Customers:   handler.NewCustomerHandler(customerService),
		RawMaterial: handler.NewRawMaterialHandler(rawMaterialService),
		FeedStock:   handler.NewFeedStockHandler(feedStockService),
		Orders:      handler.NewOrderHandler(orderService, paymentService),
		Finance:     handler.NewFinanceHandler(paymentService, refundService),
		Reports:     handler.NewReportHandler(reportService, snapshotService, loc),
	}, authService)

	var snapshots *scheduler.SnapshotScheduler
	if cfg.Scheduler.Enabled {
		snapshots = scheduler.NewSnapshotScheduler(scheduler.Config{
			Schedule:   cfg.Scheduler.SnapshotCron,
			Location:   loc,
			LockTTL:    cfg.Scheduler.LockTTL,
			JobTimeout: cfg.Scheduler.JobTimeout,
		}, snapshotService, locker, log)
		if err := snapshots.Start(); err != nil {
			log.Fatal("Failed to start snapshot scheduler", zap.Error(err))
		}
	}

	srv := &http.Server{
		Addr:           ":" + cfg.HTTP.Port,
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

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("Server forced to shutdown", zap.Error(err))
	}
	if snapshots != nil {
		if err := snapshots.Stop(shutdownCtx); err != nil {
			log.Warn("Snapshot scheduler did not stop cleanly", zap.Error(err))
		}
	}
	businessMetrics.Stop()
	if err := meterProvider.Shutdown(shutdownCtx); err != nil {
		log.Warn("Failed to flush metrics", zap.Error(err))
	}
	if err := tracerProvider.Shutdown(shutdownCtx); err != nil {
		log.Warn("Failed to flush traces", zap.Error(err))
	}
	if err := profiler.Stop(); err != nil {
		log.Warn("Failed to stop profiler", zap.Error(err))
	}
	if redisClient != nil {
		_ = redisClient.Close()
	}
	if err := db.Close(); err != nil {
		log.Warn("Failed to close database", zap.Error(err))
	}

	log.Info("Server exited gracefully")
}

// migrateSchema brings the schema up to date. PostgreSQL runs the embedded
// SQL migrations on a dedicated connection, since closing the migrator also
// closes the connection it was given. SQLite deployments use AutoMigrate.
func migrateSchema(ctx context.Context, cfg *config.Config, db *persistence.Database, log *zap.Logger) error {
	if db.Driver() == "sqlite" {
		return db.AutoMigrate(ctx)
	}

	sqlDB, err := sql.Open("postgres", cfg.Database.DSN())
	if err != nil {
		return fmt.Errorf("open migration connection: %w", err)
	}
	m, err := migration.NewFromFS(sqlDB, migrations.FS, log)
	if err != nil {
		_ = sqlDB.Close()
		return err
	}
	defer func() {
		_ = m.Close()
	}()
	return m.Up()
}
