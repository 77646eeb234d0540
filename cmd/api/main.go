package main

import (
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/caarlos0/env/v10"
	"github.com/joho/godotenv"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"ballerz-storefront/internal/badge"
	"ballerz-storefront/internal/client"
	"ballerz-storefront/internal/config"
	"ballerz-storefront/internal/invoice"
	"ballerz-storefront/internal/replay"
	"ballerz-storefront/internal/repository"
	"ballerz-storefront/internal/server"
	"ballerz-storefront/internal/service"
)

func main() {
	// load .env into os.Environ
	if err := godotenv.Load(); err != nil {
		fmt.Println("No .env file found (ok in prod)")
	}

	cfg := &config.Config{}
	if err := env.Parse(cfg); err != nil {
		fmt.Printf("Failed to parse config: %v\n", err)
		os.Exit(1)
	}

	logger, err := newLogger(cfg.Log)
	if err != nil {
		fmt.Printf("Failed to build logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	db, err := client.InitDB(cfg.Database)
	if err != nil {
		logger.Fatal("database init failed", zap.Error(err))
	}

	catalogRepo := repository.NewCatalogRepository(db)
	cartRepo := repository.NewCartRepository(db)
	orderRepo := repository.NewOrderRepository(db)

	badgeCounter := badge.NewCounter()
	replayer := replay.NewReplayer(badgeCounter, logger)
	reconciler := invoice.NewReconciler(invoice.Branding{
		Title:          cfg.Invoice.Title,
		Footer:         cfg.Invoice.Footer,
		CurrencyPrefix: cfg.Invoice.CurrencyPrefix,
	})

	catalogService := service.NewCatalogService(catalogRepo)
	cartService := service.NewCartService(badgeCounter, logger)
	orderService := service.NewOrderService(
		db,
		orderRepo,
		catalogRepo,
		replayer,
		reconciler,
		badgeCounter,
		logger,
	)

	srv := server.NewServer(
		catalogService,
		cartService,
		orderService,
		cartRepo,
		badgeCounter,
		cfg.Auth.JWTSecret,
	)

	serverAddr := cfg.HTTP.Host + ":" + cfg.HTTP.Port

	logger.Info("starting HTTP server", zap.String("addr", serverAddr))
	go func() {
		if err := srv.Start(serverAddr); err != nil && err != http.ErrServerClosed {
			logger.Fatal("HTTP server error", zap.Error(err))
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGTERM, syscall.SIGINT)

	<-sigChan
	logger.Info("signal received, starting graceful shutdown")

	if err := srv.Shutdown(); err != nil {
		logger.Fatal("HTTP server shutdown error", zap.Error(err))
	}
}

func newLogger(cfg config.Log) (*zap.Logger, error) {
	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		level = zapcore.InfoLevel
	}

	zcfg := zap.NewProductionConfig()
	zcfg.Level = zap.NewAtomicLevelAt(level)
	if cfg.Format != "json" {
		zcfg.Encoding = "console"
	}

	return zcfg.Build()
}
