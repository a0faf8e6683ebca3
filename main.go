package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/sirupsen/logrus"

	"homecalc/config"
	httpLayer "homecalc/http"
	"homecalc/logger"
	"homecalc/repository"
	"homecalc/service"
)

var configPath = flag.String("config", "", "Path to configuration file (optional)")

func main() {
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}
	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "Invalid configuration: %v\n", err)
		os.Exit(1)
	}

	log := logger.New(cfg.Logging.Level, cfg.Logging.Format)
	if err := run(cfg, log); err != nil {
		log.WithError(err).Fatal("server stopped")
	}
	log.Info("Server exited")
}

func run(cfg *config.Config, log *logrus.Logger) error {
	ctx := context.Background()

	calcRepo, err := openCalculationRepository(ctx, cfg.Storage)
	if err != nil {
		return err
	}
	defer func() {
		if err := calcRepo.Close(); err != nil {
			log.WithError(err).Error("failed to close calculation store")
		}
	}()

	cache, err := openCache(ctx, cfg.Cache)
	if err != nil {
		return err
	}
	if cache != nil {
		defer cache.Close()
	}

	tables := service.DefaultMarketTables()
	if cfg.Valuation.TablesFile != "" {
		tables, err = service.LoadMarketTables(cfg.Valuation.TablesFile)
		if err != nil {
			return err
		}
		log.WithField("file", cfg.Valuation.TablesFile).Info("market tables loaded")
	}

	historyService := service.NewHistoryService(calcRepo, log)
	mortgageService := service.NewMortgageService(historyService, cache, cfg.Cache.TTL, log)
	valuationService := service.NewValuationService(service.NewEstimator(tables, nil, nil), historyService, log)

	var rateLimiter *httpLayer.RateLimiter
	if cfg.RateLimit.Enabled {
		rateLimiter = httpLayer.NewRateLimiter(cfg.RateLimit.RequestsPerMinute, cfg.RateLimit.Burst)
		defer rateLimiter.Stop()
	}

	handler := httpLayer.NewRouter(httpLayer.RouterConfig{
		MortgageHandler:  httpLayer.NewMortgageHandler(mortgageService, log, cfg.Server.MaxBodyBytes),
		ValuationHandler: httpLayer.NewValuationHandler(valuationService, log, cfg.Server.MaxBodyBytes),
		HistoryHandler:   httpLayer.NewHistoryHandler(historyService, log),
		RateLimiter:      rateLimiter,
		Logger:           log,
	})

	server := &http.Server{
		Addr:         cfg.Server.Addr,
		Handler:      handler,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	serverErr := make(chan error, 1)
	go func() {
		log.WithField("addr", cfg.Server.Addr).Info("API listening")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-serverErr:
		return fmt.Errorf("error starting server: %w", err)
	case <-quit:
		log.Info("Shutting down server...")
	}

	shutdownCtx, cancel := context.WithTimeout(ctx, cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.WithError(err).Error("error during server shutdown")
	}
	return nil
}

func openCalculationRepository(ctx context.Context, cfg config.StorageConfig) (repository.CalculationRepository, error) {
	switch cfg.Driver {
	case "sqlite":
		return repository.NewSQLiteCalculationRepository(ctx, cfg.SQLitePath, cfg.MaxRecords)
	case "postgres":
		return repository.NewPostgresCalculationRepository(ctx, cfg.PostgresDSN, cfg.MaxRecords)
	default:
		return repository.NewCalculationRepositoryMemory(cfg.MaxRecords), nil
	}
}

// openCache returns nil when caching is disabled.
func openCache(ctx context.Context, cfg config.CacheConfig) (repository.CacheRepository, error) {
	switch cfg.Driver {
	case "redis":
		return repository.NewRedisCache(ctx, cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
	case "none":
		return nil, nil
	default:
		return repository.NewMemoryCacheWithLimit(cfg.MaxEntries), nil
	}
}
