package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	catalogapp "github.com/pos/backend/internal/application/catalog"
	identityapp "github.com/pos/backend/internal/application/identity"
	reportapp "github.com/pos/backend/internal/application/report"
	salesapp "github.com/pos/backend/internal/application/sales"
	shopapp "github.com/pos/backend/internal/application/shop"
	"github.com/pos/backend/internal/domain/sales"
	"github.com/pos/backend/internal/infrastructure/auth"
	"github.com/pos/backend/internal/infrastructure/cache"
	"github.com/pos/backend/internal/infrastructure/config"
	"github.com/pos/backend/internal/infrastructure/logger"
	"github.com/pos/backend/internal/infrastructure/migration"
	"github.com/pos/backend/internal/infrastructure/persistence"
	"github.com/pos/backend/internal/infrastructure/printing"
	"github.com/pos/backend/internal/infrastructure/storage"
	"github.com/pos/backend/internal/infrastructure/telemetry"
	"github.com/pos/backend/internal/interfaces/http/handler"
	"github.com/pos/backend/internal/interfaces/http/middleware"
	"github.com/pos/backend/internal/interfaces/http/router"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// version is set at build time with -ldflags "-X main.version=..."
var version = "dev"

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	log, err := logger.New(&logger.Config{
		Level:      cfg.Log.Level,
		Format:     cfg.Log.Format,
		Output:     cfg.Log.Output,
		TimeFormat: "2006-01-02T15:04:05.000Z07:00",
		Service:    cfg.App.Name,
		Version:    version,
	})
	if err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}
	defer func() {
		_ = log.Sync()
	}()

	log.Info("Starting POS backend",
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
	)

	ctx := context.Background()

	// Telemetry
	providers, err := telemetry.Setup(ctx, telemetry.Config{
		ServiceName:       cfg.Telemetry.ServiceName,
		ServiceVersion:    version,
		CollectorEndpoint: cfg.Telemetry.CollectorEndpoint,
		Insecure:          cfg.Telemetry.Insecure,
		TracingEnabled:    cfg.Telemetry.Enabled,
		SamplingRatio:     cfg.Telemetry.SamplingRatio,
		MetricsEnabled:    cfg.Telemetry.MetricsEnabled,
		ExportInterval:    cfg.Telemetry.MetricsInterval,
	}, log)
	if err != nil {
		log.Fatal("Failed to initialize telemetry", zap.Error(err))
	}
	defer shutdown(log, "telemetry", providers.Shutdown)

	// Database
	if cfg.Database.AutoMigrate {
		if err := runMigrations(&cfg.Database, log); err != nil {
			log.Fatal("Failed to apply migrations", zap.Error(err))
		}
	}

	gormLog := logger.NewGormLogger(log, logger.MapGormLogLevel(cfg.Database.LogLevel), cfg.Telemetry.DBSlowQueryThresh)
	db, err := persistence.NewDatabase(&cfg.Database, persistence.WithLogger(gormLog))
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("Error closing database", zap.Error(err))
		}
	}()
	if cfg.Telemetry.Enabled && cfg.Telemetry.DBTraceEnabled {
		plugin := telemetry.NewDBTracingPlugin(telemetry.DBTracingConfig{
			Enabled:         true,
			LogFullSQL:      cfg.Telemetry.DBLogFullSQL,
			SlowQueryThresh: cfg.Telemetry.DBSlowQueryThresh,
			DBSystem:        telemetry.DBSystemForDriver(db.Driver()),
		}, log)
		if err := plugin.Register(db.DB); err != nil {
			log.Warn("Failed to register database tracing", zap.Error(err))
		}
	}
	log.Info("Database connected", zap.String("driver", db.Driver()))

	// Repositories
	categoryRepo := persistence.NewGormCategoryRepository(db.DB)
	productRepo := persistence.NewGormProductRepository(db.DB)
	saleRepo := persistence.NewGormSaleRepository(db.DB)
	ownerRepo := persistence.NewGormShopOwnerRepository(db.DB)
	userRepo := persistence.NewGormUserRepository(db.DB)

	loc, err := cfg.Reporting.Location()
	if err != nil {
		log.Fatal("Invalid reporting timezone", zap.String("timezone", cfg.Reporting.Timezone), zap.Error(err))
	}

	// Sale recording
	coordinatorOpts := salesapp.DefaultCoordinatorOptions()
	coordinatorOpts.Location = loc
	coordinatorOpts.EnforceServerPrice = cfg.Sales.EnforceServerPrice
	coordinatorOpts.PriceTolerance = decimal.NewFromFloat(cfg.Sales.PriceTolerance)
	if len(cfg.Sales.PaymentMethods) > 0 {
		coordinatorOpts.PaymentMethods = sales.NewPaymentMethods(cfg.Sales.PaymentMethods)
	}
	coordinatorOpts.Logger = log
	coordinator := salesapp.NewCoordinator(persistence.NewGormUnitOfWork(db.DB), coordinatorOpts)

	salesMetrics, err := telemetry.NewSalesMetrics(providers.Meter("pos/sales"))
	if err != nil {
		log.Warn("Failed to create sales metrics", zap.Error(err))
	} else {
		coordinator.SetSalesMetrics(salesMetrics)
	}

	// Reporting
	reportOpts := reportapp.Options{Location: loc, Logger: log}
	if cfg.Printing.Enabled {
		printer, err := printing.NewReportPrinterFromConfig(cfg.Printing, log)
		if err != nil {
			log.Fatal("Failed to initialize report printer", zap.Error(err))
		}
		defer func() {
			if err := printer.Close(); err != nil {
				log.Error("Error closing report printer", zap.Error(err))
			}
		}()
		reportOpts.Printer = printer
	}
	archive, err := storage.New(ctx, cfg.Archive, log)
	if err != nil {
		// Exports still work without a copy being kept
		log.Warn("Report archive unavailable", zap.String("backend", cfg.Archive.Backend), zap.Error(err))
	} else if archive != nil {
		reportOpts.Archive = archive
	}
	reportService := reportapp.NewService(saleRepo, ownerRepo, reportOpts)

	// Identity
	healthChecks := map[string]handler.Pinger{"database": db}
	var blacklist auth.TokenBlacklist
	if cfg.Redis.Enabled {
		redisBlacklist, err := auth.NewRedisTokenBlacklist(ctx, cfg.Redis)
		if err != nil {
			log.Warn("Redis unavailable, using in-memory token blacklist",
				zap.String("addr", cfg.Redis.Addr()), zap.Error(err))
			blacklist = auth.NewInMemoryTokenBlacklist()
		} else {
			defer func() {
				if err := redisBlacklist.Close(); err != nil {
					log.Error("Error closing redis", zap.Error(err))
				}
			}()
			blacklist = redisBlacklist
			healthChecks["redis"] = redisBlacklist
		}
	} else {
		blacklist = auth.NewInMemoryTokenBlacklist()
	}

	jwtService := auth.NewJWTService(cfg.JWT)
	authService := identityapp.NewAuthService(userRepo, jwtService, blacklist, log)
	userService := identityapp.NewUserService(userRepo, log)

	created, err := userService.EnsureBootstrapAdmin(ctx, identityapp.BootstrapAdmin{
		Username: cfg.Bootstrap.AdminUsername,
		Email:    cfg.Bootstrap.AdminEmail,
		Password: cfg.Bootstrap.AdminPassword,
	})
	if err != nil {
		log.Fatal("Failed to create bootstrap admin", zap.Error(err))
	}
	if created {
		log.Info("Bootstrap admin created", zap.String("email", cfg.Bootstrap.AdminEmail))
	}

	// HTTP
	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	middleware.SetupValidator()
	decimal.MarshalJSONWithoutQuotes = true

	engine := gin.New()
	if len(cfg.HTTP.TrustedProxies) > 0 {
		if err := engine.SetTrustedProxies(cfg.HTTP.TrustedProxies); err != nil {
			log.Warn("Failed to set trusted proxies", zap.Error(err))
		}
	}

	httpMetricsCfg := middleware.DefaultHTTPMetricsConfig()
	httpMetricsCfg.Meter = providers.Meter("http.server")
	httpMetricsCfg.ServiceName = cfg.Telemetry.ServiceName
	httpMetricsCfg.Enabled = providers.MetricsEnabled()

	engine.Use(middleware.RequestID())
	engine.Use(logger.Recovery(log))
	engine.Use(logger.GinMiddleware(log))
	engine.Use(middleware.TracingWithConfig(middleware.TracingConfig{
		Enabled:     providers.TracingEnabled(),
		ServiceName: cfg.Telemetry.ServiceName,
	}))
	engine.Use(middleware.SpanErrorMarker())
	engine.Use(middleware.HTTPMetrics(httpMetricsCfg))
	engine.Use(middleware.Secure())
	engine.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins:     cfg.HTTP.CORSAllowOrigins,
		AllowMethods:     cfg.HTTP.CORSAllowMethods,
		AllowHeaders:     cfg.HTTP.CORSAllowHeaders,
		ExposeHeaders:    []string{"X-Request-ID", "X-RateLimit-Limit", "X-RateLimit-Remaining", handler.ArchiveLocationHeader},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))
	engine.Use(middleware.BodyLimit(cfg.HTTP.MaxBodySize))
	engine.Use(middleware.Timeout(cfg.HTTP.RequestTimeout))

	healthHandler := handler.NewHealthHandler(version, 2*time.Second, healthChecks)
	engine.GET("/health", healthHandler.Health)

	r := router.NewRouter(engine, router.WithAPIVersion("v1"))
	r.Use(
		middleware.RequireSession(middleware.AuthConfig{
			Authenticator: authService,
			SkipPaths:     []string{r.BasePath() + router.LoginPath},
			Logger:        log,
		}),
		middleware.TracingAttributeInjector(),
	)

	var guards router.Guards
	if cfg.HTTP.LoginRateLimit > 0 {
		loginLimiter := middleware.NewRateLimiter(cfg.HTTP.LoginRateLimit, cfg.HTTP.LoginRateWindow)
		defer loginLimiter.Stop()
		guards.Login = append(guards.Login, middleware.RateLimit(loginLimiter))
		log.Info("Login rate limiting enabled",
			zap.Int("attempts", cfg.HTTP.LoginRateLimit),
			zap.Duration("window", cfg.HTTP.LoginRateWindow),
		)
	}

	idempotencyStore := cache.NewIdempotencyStore(ctx, cfg.Redis, log)
	defer func() {
		if err := idempotencyStore.Close(); err != nil {
			log.Error("Error closing idempotency store", zap.Error(err))
		}
	}()
	guards.RecordSale = append(guards.RecordSale, middleware.Idempotency(idempotencyStore, cfg.HTTP.IdempotencyTTL))

	groups := router.APIGroups(router.Handlers{
		Auth:     handler.NewAuthHandler(authService),
		User:     handler.NewUserHandler(userService),
		Shop:     handler.NewShopHandler(shopapp.NewService(ownerRepo, log)),
		Sales:    handler.NewSalesHandler(coordinator, reportService),
		Category: handler.NewCategoryHandler(catalogapp.NewCategoryService(categoryRepo)),
		Product:  handler.NewProductHandler(catalogapp.NewProductService(productRepo, categoryRepo)),
		Report:   handler.NewReportHandler(reportService),
	}, guards)
	for _, g := range groups {
		r.Register(g)
	}
	r.Setup()

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

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("Server forced to shutdown", zap.Error(err))
		return
	}

	log.Info("Server exited gracefully")
}

func runMigrations(cfg *config.DatabaseConfig, log *zap.Logger) error {
	m, err := migration.Open(cfg, log)
	if err != nil {
		return err
	}
	defer func() {
		if err := m.Close(); err != nil {
			log.Warn("Error closing migrator", zap.Error(err))
		}
	}()
	return m.Up()
}

func shutdown(log *zap.Logger, name string, fn func(context.Context) error) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := fn(ctx); err != nil {
		log.Error("Error shutting down "+name, zap.Error(err))
	}
}
