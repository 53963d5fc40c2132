package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	backupapp "github.com/glowstock/backend/internal/application/backup"
	financeapp "github.com/glowstock/backend/internal/application/finance"
	inventoryapp "github.com/glowstock/backend/internal/application/inventory"
	reportapp "github.com/glowstock/backend/internal/application/report"
	tradeapp "github.com/glowstock/backend/internal/application/trade"
	"github.com/glowstock/backend/internal/infrastructure/config"
	"github.com/glowstock/backend/internal/infrastructure/logger"
	"github.com/glowstock/backend/internal/infrastructure/persistence"
	"github.com/glowstock/backend/internal/interfaces/http/handler"
	"github.com/glowstock/backend/internal/interfaces/http/middleware"
	"github.com/glowstock/backend/internal/interfaces/http/router"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	log := logger.New(cfg.Log)
	defer func() {
		_ = log.Sync()
	}()

	log.Info("Starting Glowstock backend",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
		zap.String("storage", cfg.Storage.Driver),
	)

	ctx := context.Background()
	store, err := persistence.NewStore(ctx, cfg)
	if err != nil {
		log.Fatal("Failed to initialize snapshot store", zap.Error(err))
	}
	defer func() {
		if err := store.Close(); err != nil {
			log.Error("Error closing snapshot store", zap.Error(err))
		}
	}()
	if err := persistence.Seed(ctx, store, cfg.Business); err != nil {
		log.Fatal("Failed to seed snapshot store", zap.Error(err))
	}

	// Application services
	itemService := inventoryapp.NewItemService(store, log)
	purchaseService := tradeapp.NewPurchaseService(store, log)
	saleService := tradeapp.NewSaleService(store, log)
	revenueService := financeapp.NewRevenueService(store, log)
	reportService := reportapp.NewReportService(store, log)
	backupService := backupapp.NewBackupService(store, log)

	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	middleware.SetupValidator()

	engine := gin.New()
	if len(cfg.HTTP.TrustedProxies) > 0 {
		if err := engine.SetTrustedProxies(cfg.HTTP.TrustedProxies); err != nil {
			log.Warn("Failed to set trusted proxies", zap.Error(err))
		}
	}
	engine.Use(
		middleware.RequestID(),
		middleware.RequestLogger(log),
		middleware.Recovery(log),
		middleware.CORS(middleware.CORSConfig{
			AllowOrigins: cfg.HTTP.CORSAllowOrigins,
			AllowMethods: cfg.HTTP.CORSAllowMethods,
			AllowHeaders: cfg.HTTP.CORSAllowHeaders,
			MaxAge:       12 * time.Hour,
		}),
		middleware.BodyLimit(cfg.HTTP.MaxBodySize),
	)

	r := router.NewRouter(engine)
	r.Register(handler.NewItemHandler(itemService))
	r.Register(handler.NewPurchaseHandler(purchaseService))
	r.Register(handler.NewSaleHandler(saleService))
	r.Register(handler.NewFinanceHandler(revenueService))
	r.Register(handler.NewReportHandler(reportService))
	r.Register(handler.NewBackupHandler(backupService))
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
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
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
		log.Fatal("Server forced to shutdown", zap.Error(err))
	}
	log.Info("Server exited gracefully")
}
