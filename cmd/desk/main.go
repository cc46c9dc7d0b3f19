package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	appinv "github.com/erp/inventory/internal/application/inventory"
	"github.com/erp/inventory/internal/domain/failure"
	"github.com/erp/inventory/internal/infrastructure/cache"
	"github.com/erp/inventory/internal/infrastructure/config"
	"github.com/erp/inventory/internal/infrastructure/logger"
	"github.com/erp/inventory/internal/infrastructure/persistence"
	"github.com/erp/inventory/internal/interfaces/http/handler"
	"github.com/erp/inventory/internal/interfaces/http/middleware"
	"github.com/erp/inventory/internal/interfaces/http/router"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// version is set at build time with -ldflags "-X main.version=..."
var version = "dev"

//	@title			Inventory Desk API
//	@version		1.0
//	@description	Materials, categories and presentations with optimistic updates and offline fallback
//	@BasePath		/api/v1

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	// Initialize logger
	log, err := logger.FromConfig(cfg.App, cfg.Log)
	if err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}
	defer func() {
		_ = logger.Sync(log)
	}()

	log.Info("Starting inventory desk",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
		zap.String("version", version),
	)

	db, err := persistence.NewDatabaseWithLogger(&cfg.Database, log, logger.MapGormLogLevel(cfg.Log.Level))
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("Error closing database", zap.Error(err))
		}
	}()
	if err := db.Migrate(); err != nil {
		log.Fatal("Failed to migrate database", zap.Error(err))
	}
	log.Info("Database connected successfully", zap.String("driver", cfg.Database.Driver))

	// Offline snapshots go to redis when enabled, memory otherwise
	snapshots, err := cache.NewSnapshotStoreFactory(cfg.Redis, cfg.Cache,
		cache.WithLogger(log),
		cache.WithInMemoryFallback(true),
	).CreateStore()
	if err != nil {
		log.Fatal("Failed to create snapshot store", zap.Error(err))
	}
	defer func() {
		if err := snapshots.Close(); err != nil {
			log.Error("Error closing snapshot store", zap.Error(err))
		}
	}()

	facade := appinv.NewFacade(appinv.Transports{
		Materials:     persistence.NewGormMaterialTransport(db.DB),
		Categories:    persistence.NewGormCategoryTransport(db.DB),
		Presentations: persistence.NewGormPresentationTransport(db.DB),
	}, appinv.Deps{
		Store: cache.NewStore(
			cache.WithDefaultTTL(cfg.Cache.DefaultTTL),
			cache.WithStoreLogger(log),
		),
		Snapshots:   snapshots,
		Classifier:  failure.NewClassifier(failure.WithLogger(log)),
		Logger:      log,
		GraceWindow: cfg.Ledger.GraceWindow,
	}, appinv.Settings{
		LowStockTTL:   cfg.Cache.LowStockTTL,
		SweepInterval: cfg.Cache.SweepInterval,
	})
	facade.Start()
	defer func() {
		if err := facade.Close(); err != nil {
			log.Error("Error closing data access facade", zap.Error(err))
		}
	}()

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	middleware.SetupValidator()

	engine := gin.New()
	engine.Use(
		middleware.RequestID(),
		logger.GinMiddleware(log),
		logger.Recovery(log),
		middleware.Secure(),
		middleware.CORS(middleware.CORSConfigFrom(cfg.HTTP)),
		middleware.BodyLimit(middleware.DefaultBodyLimit),
	)

	systemHandler := handler.NewSystemHandler(facade, db, cfg.App.Name, version)
	routes := router.NewRouter(engine,
		router.WithHealthCheck(systemHandler.Health),
		router.WithAPIMiddleware(middleware.Timeout(cfg.HTTP.WriteTimeout)),
	).Register(
		handler.NewMaterialHandler(facade.Materials),
		handler.NewCategoryHandler(facade.Categories),
		handler.NewPresentationHandler(facade.Presentations),
		systemHandler,
	).Setup()
	log.Debug("Routes registered", zap.Int("count", len(routes)))

	// Create HTTP server with config
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

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Error("Server forced to shutdown", zap.Error(err))
		return
	}

	log.Info("Server exited gracefully")
}
