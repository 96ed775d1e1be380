package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"runtime"
	"strconv"
	"syscall"
	"time"

	"github.com/qu4rkn3t/NEOGuard/internal/api"
	"github.com/qu4rkn3t/NEOGuard/internal/fetch"
	"github.com/qu4rkn3t/NEOGuard/internal/metrics"
	"github.com/qu4rkn3t/NEOGuard/internal/propagation"
	"github.com/qu4rkn3t/NEOGuard/internal/respcache"
)

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelDebug,
	}))

	apiCfg := loadAPIConfig(logger)
	fetchCfg := loadFetchConfig(logger)
	cacheCfg := loadCacheConfig(logger)
	workers := loadWorkerCount(logger)

	fetcher := fetch.NewFetcher(fetchCfg.BaseURL, logger)
	diskCache := fetch.NewCache(fetchCfg.CacheDir, fetchCfg.MaxFiles)

	// Report the last catalog snapshot on startup, if any.
	if ts, ok := diskCache.Newest(); ok {
		logger.Info("catalog cache present", "cached_at", ts.Format(time.RFC3339))
		metrics.SetCatalogAge(time.Since(ts).Seconds())
	} else {
		logger.Info("no catalog cache found, starting cold")
	}

	sampler := propagation.NewSampler()
	pool := propagation.NewWorkerPool(workers, sampler, logger)
	predCache := respcache.New(cacheCfg, logger)

	srv := api.NewServer(apiCfg, logger, fetcher, diskCache, sampler, pool, predCache)

	// Graceful shutdown on SIGINT/SIGTERM.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Start cache background sweep.
	go predCache.Start(ctx)

	// Background goroutine to update the catalog age gauge.
	go func() {
		ticker := time.NewTicker(10 * time.Second)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				if ts, ok := diskCache.Newest(); ok {
					metrics.SetCatalogAge(time.Since(ts).Seconds())
				}
			case <-ctx.Done():
				return
			}
		}
	}()

	go func() {
		logger.Info("starting server", "addr", apiCfg.Addr, "workers", workers)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server listen error", "error", err)
			os.Exit(1)
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.HTTPServer().Shutdown(shutdownCtx); err != nil {
		logger.Error("server shutdown error", "error", err)
		os.Exit(1)
	}

	logger.Info("server stopped")
}

func loadAPIConfig(logger *slog.Logger) api.Config {
	cfg := api.Config{
		Addr: ":8080",
	}

	if v := os.Getenv("NEOGUARD_HTTP_ADDR"); v != "" {
		cfg.Addr = v
	}

	if v := os.Getenv("NEOGUARD_TRUST_PROXY"); v != "" {
		trust, err := strconv.ParseBool(v)
		if err != nil {
			logger.Warn("invalid NEOGUARD_TRUST_PROXY value, defaulting to false", "value", v)
		} else {
			cfg.TrustProxy = trust
		}
	}

	logger.Info("api config", "addr", cfg.Addr, "trust_proxy", cfg.TrustProxy)
	return cfg
}

type fetchConfig struct {
	BaseURL  string
	CacheDir string
	MaxFiles int
}

func loadFetchConfig(logger *slog.Logger) fetchConfig {
	cfg := fetchConfig{
		CacheDir: "/tmp/neoguard/catalog",
		MaxFiles: 5,
	}

	if v := os.Getenv("NEOGUARD_CATALOG_URL"); v != "" {
		cfg.BaseURL = v
	}

	if v := os.Getenv("NEOGUARD_CATALOG_CACHE_DIR"); v != "" {
		cfg.CacheDir = v
	}

	if v := os.Getenv("NEOGUARD_CATALOG_CACHE_MAX_FILES"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 {
			logger.Warn("invalid NEOGUARD_CATALOG_CACHE_MAX_FILES value, using default", "value", v, "default", cfg.MaxFiles)
		} else {
			cfg.MaxFiles = n
		}
	}

	logger.Info("fetch config",
		"base_url", cfg.BaseURL,
		"cache_dir", cfg.CacheDir,
		"max_files", cfg.MaxFiles,
	)
	return cfg
}

func loadCacheConfig(logger *slog.Logger) respcache.Config {
	cfg := respcache.Config{
		TTL:           5 * time.Minute,
		SweepInterval: time.Minute,
	}

	if v := os.Getenv("NEOGUARD_PREDICTION_CACHE_TTL"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 {
			logger.Warn("invalid NEOGUARD_PREDICTION_CACHE_TTL value, using default", "value", v, "default", 300)
		} else {
			cfg.TTL = time.Duration(n) * time.Second
		}
	}

	logger.Info("prediction cache config",
		"ttl_seconds", cfg.TTL.Seconds(),
		"sweep_interval_seconds", cfg.SweepInterval.Seconds(),
	)
	return cfg
}

func loadWorkerCount(logger *slog.Logger) int {
	workers := runtime.NumCPU()

	if v := os.Getenv("NEOGUARD_PROP_WORKERS"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 {
			logger.Warn("invalid NEOGUARD_PROP_WORKERS value, using default", "value", v, "default", workers)
		} else {
			workers = n
		}
	}

	logger.Info("propagation config", "workers", workers)
	return workers
}
