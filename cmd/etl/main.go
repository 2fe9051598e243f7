package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/couchcryptid/covid-data-etl-service/internal/adapter/feed"
	httpadapter "github.com/couchcryptid/covid-data-etl-service/internal/adapter/http"
	kafkaadapter "github.com/couchcryptid/covid-data-etl-service/internal/adapter/kafka"
	"github.com/couchcryptid/covid-data-etl-service/internal/config"
	"github.com/couchcryptid/covid-data-etl-service/internal/domain"
	"github.com/couchcryptid/covid-data-etl-service/internal/observability"
	"github.com/couchcryptid/covid-data-etl-service/internal/pipeline"
	"golang.org/x/sync/errgroup"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := observability.NewLogger(cfg)
	metrics := observability.NewMetrics()

	client := feed.NewClient(cfg.FeedURL, cfg.FeedTimeout, logger)
	transformer := pipeline.NewTransformer(domain.NormalizeOptions{
		RegionCode:      cfg.RegionCode,
		ExcludedSources: cfg.ExcludedSources,
	}, logger)

	// Snapshot publishing is feature-flagged via KAFKA_ENABLED.
	var loader pipeline.BatchLoader
	var writer *kafkaadapter.Writer
	if cfg.KafkaEnabled {
		writer = kafkaadapter.NewWriter(cfg, logger)
		loader = writer
		logger.Info("snapshot publishing enabled", "topic", cfg.KafkaTopic, "brokers", cfg.KafkaBrokers)
	} else {
		logger.Info("snapshot publishing disabled")
	}

	p := pipeline.New(client, transformer, loader, logger, metrics, cfg.RefreshInterval)

	charts := httpadapter.NewProjectionCache(cfg.ProjectionCacheSize, metrics)
	srv := httpadapter.NewServer(cfg.HTTPAddr, p, p, charts, logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	g.Go(func() error {
		return p.Run(gctx)
	})

	// Shutdown on signal or on the first component failure.
	g.Go(func() error {
		<-gctx.Done()
		logger.Info("shutting down")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		logger.Error("service error", "error", err)
	}

	if writer != nil {
		if err := writer.Close(); err != nil {
			logger.Error("kafka writer close error", "error", err)
		}
	}

	logger.Info("shutdown complete")
}
