package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	httpadapter "github.com/RanaDarpan/agrisense-analysis/internal/adapter/http"
	kafkaadapter "github.com/RanaDarpan/agrisense-analysis/internal/adapter/kafka"
	"github.com/RanaDarpan/agrisense-analysis/internal/adapter/sentinel"
	"github.com/RanaDarpan/agrisense-analysis/internal/adapter/weather"
	"github.com/RanaDarpan/agrisense-analysis/internal/config"
	"github.com/RanaDarpan/agrisense-analysis/internal/domain"
	"github.com/RanaDarpan/agrisense-analysis/internal/observability"
	"github.com/RanaDarpan/agrisense-analysis/internal/pipeline"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := observability.NewLogger(cfg)
	metrics := observability.NewMetrics()

	// Band provider: remote Sentinel-2 statistics when BAND_API_URL is set,
	// deterministic synthetic reflectance otherwise. Either way the client
	// sits behind an LRU cache keyed by field bounds.
	bandClient := sentinel.NewClient(cfg.BandAPIURL, cfg.BandTimeout, logger, metrics)
	bands := sentinel.NewCachedProvider(bandClient, cfg.BandCacheSize, metrics)
	if cfg.BandAPIURL != "" {
		logger.Info("band api enabled", "url", cfg.BandAPIURL, "cache_size", cfg.BandCacheSize)
	} else {
		logger.Info("band api not configured, running on synthetic reflectance")
	}

	// Weather provider (feature-flagged via WEATHER_API_KEY).
	var weatherProvider domain.WeatherProvider
	if cfg.WeatherAPIKey != "" {
		weatherProvider = weather.NewClient(cfg.WeatherAPIURL, cfg.WeatherAPIKey, cfg.WeatherTimeout, logger, metrics)
		logger.Info("weather provider enabled", "timeout", cfg.WeatherTimeout)
	} else {
		logger.Info("weather provider disabled, analyzing without weather")
	}

	reader := kafkaadapter.NewReader(cfg, logger)
	writer := kafkaadapter.NewWriter(cfg, logger)
	analyzer := pipeline.NewAnalyzer(bands, weatherProvider, logger)

	p := pipeline.New(reader, analyzer, writer, logger, metrics, cfg.BatchSize)

	srv := httpadapter.NewServer(cfg.HTTPAddr, p, logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Start HTTP server.
	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http server error", "error", err)
		}
	}()

	// Start analysis pipeline.
	go func() {
		if err := p.Run(ctx); err != nil {
			logger.Error("pipeline error", "error", err)
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("http server shutdown error", "error", err)
	}
	if err := reader.Close(); err != nil {
		logger.Error("kafka reader close error", "error", err)
	}
	if err := writer.Close(); err != nil {
		logger.Error("kafka writer close error", "error", err)
	}

	logger.Info("shutdown complete")
}
