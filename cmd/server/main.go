package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	budgetapp "github.com/fieldops/backend/internal/application/budget"
	"github.com/fieldops/backend/internal/application/cascade"
	inventoryapp "github.com/fieldops/backend/internal/application/inventory"
	serviceapp "github.com/fieldops/backend/internal/application/service"
	"github.com/fieldops/backend/internal/domain/shared"
	"github.com/fieldops/backend/internal/infrastructure/audit"
	"github.com/fieldops/backend/internal/infrastructure/cache"
	"github.com/fieldops/backend/internal/infrastructure/config"
	"github.com/fieldops/backend/internal/infrastructure/event"
	"github.com/fieldops/backend/internal/infrastructure/logger"
	"github.com/fieldops/backend/internal/infrastructure/persistence"
	"github.com/fieldops/backend/internal/interfaces/http/handler"
	"github.com/fieldops/backend/internal/interfaces/http/middleware"
	"github.com/fieldops/backend/internal/interfaces/http/router"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	log, err := logger.New(&logger.Config{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
		Output: cfg.Log.Output,
	})
	if err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}
	defer func() {
		_ = log.Sync()
	}()

	log.Info("Starting fieldops backend",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
	)

	// Database
	gormLog := logger.NewGormLogger(log, logger.MapGormLogLevel(cfg.Log.Level))
	db, err := persistence.NewDatabaseWithLogger(&cfg.Database, gormLog)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("Error closing database", zap.Error(err))
		}
	}()

	if err := persistence.Migrate(db.DB); err != nil {
		log.Fatal("Failed to run migrations", zap.Error(err))
	}
	if err := audit.Migrate(db.DB); err != nil {
		log.Fatal("Failed to migrate audit log", zap.Error(err))
	}
	log.Info("Database connected")

	// Repositories
	budgetRepo := persistence.NewGormBudgetRepository(db.DB)
	serviceRepo := persistence.NewGormServiceRepository(db.DB)
	stockRepo := persistence.NewGormProductStockRepository(db.DB)
	movementRepo := persistence.NewGormMovementRepository(db.DB)
	txScope := persistence.NewGormTransactionScope(db.DB)

	auditSink := audit.NewGormSink(db.DB, log)

	// Event bus and application services
	eventBus := event.NewInMemoryEventBus(log)

	ledger := inventoryapp.NewService(txScope, stockRepo, movementRepo)
	ledger.SetEventPublisher(eventBus)
	budgetService := budgetapp.NewService(budgetRepo, eventBus, auditSink)
	serviceService := serviceapp.NewService(serviceRepo, eventBus, auditSink)

	// Idempotency store for cascade handlers
	var idempotencyStore shared.IdempotencyStore
	switch cfg.Event.IdempotencyBackend {
	case "redis":
		store, err := cache.NewRedisIdempotencyStore(cache.RedisConfig{
			Host:     cfg.Redis.Host,
			Port:     cfg.Redis.Port,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err != nil {
			log.Fatal("Failed to connect to Redis", zap.Error(err))
		}
		idempotencyStore = store
	default:
		idempotencyStore = cache.NewInMemoryIdempotencyStore()
	}
	idempotencyConfig := shared.IdempotencyConfig{
		TTL:     cfg.Event.IdempotencyTTL,
		Enabled: true,
	}

	// Cascade handlers, each wrapped for exactly-once processing
	subscribe := func(h shared.EventHandler) {
		eventBus.Subscribe(event.NewIdempotentHandler(h, idempotencyStore, log,
			event.WithIdempotencyConfig(idempotencyConfig)))
	}
	subscribe(cascade.NewBudgetStatusChangedHandler(budgetRepo, serviceService, ledger, log))
	subscribe(cascade.NewServiceStatusChangedHandler(ledger, log))
	subscribe(cascade.NewServiceItemHandler(ledger, log))
	subscribe(cascade.NewBudgetItemHandler(ledger, log))
	log.Info("Cascade handlers registered",
		zap.String("idempotency_backend", cfg.Event.IdempotencyBackend),
		zap.Duration("idempotency_ttl", cfg.Event.IdempotencyTTL),
	)

	// HTTP layer
	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	engine := gin.New()
	if len(cfg.HTTP.TrustedProxies) > 0 {
		if err := engine.SetTrustedProxies(cfg.HTTP.TrustedProxies); err != nil {
			log.Warn("Failed to set trusted proxies", zap.Error(err))
		}
	}

	engine.Use(middleware.RequestID())
	engine.Use(logger.Recovery(log))
	engine.Use(logger.GinMiddleware(log))
	engine.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins: cfg.HTTP.CORSAllowOrigins,
		AllowMethods: cfg.HTTP.CORSAllowMethods,
		AllowHeaders: cfg.HTTP.CORSAllowHeaders,
	}))

	// Health check stays outside tenant resolution; middleware added after
	// this registration does not apply to it.
	engine.GET("/health", healthHandler(db))

	engine.Use(middleware.Tenant())

	router.NewRouter(engine).
		Register(handler.NewBudgetHandler(budgetService)).
		Register(handler.NewServiceHandler(serviceService)).
		Register(handler.NewInventoryHandler(ledger)).
		Setup()

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
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal("Server forced to shutdown", zap.Error(err))
	}

	log.Info("Server exited gracefully")
}

func healthHandler(db *persistence.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := db.Ping(); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"status":   "unhealthy",
				"time":     time.Now().Format(time.RFC3339),
				"database": "error",
			})
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"status":   "healthy",
			"time":     time.Now().Format(time.RFC3339),
			"database": "ok",
		})
	}
}
