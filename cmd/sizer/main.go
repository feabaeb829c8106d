// Command sizer prints PV array sizing tables, or serves them over HTTP.
//
// Usage:
//
//	go run ./cmd/sizer --panels 30 --site "Fontana=117" --format table
//	go run ./cmd/sizer --serve
//
// Settings not given as flags come from the environment (see internal/config);
// a .env file in the working directory is loaded first when present.
package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/couchcryptid/solar-sizing-service/internal/adapter/httpadapter"
	kafkaadapter "github.com/couchcryptid/solar-sizing-service/internal/adapter/kafka"
	"github.com/couchcryptid/solar-sizing-service/internal/config"
	"github.com/couchcryptid/solar-sizing-service/internal/observability"
	"github.com/couchcryptid/solar-sizing-service/internal/report"
	"github.com/couchcryptid/solar-sizing-service/internal/sizing"
	"github.com/joho/godotenv"
	"github.com/spf13/pflag"
)

func main() {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		slog.Warn("failed to load .env", "error", err)
	}

	cfg, err := config.Load()
	if err != nil {
		// Usage stays available while the environment is broken.
		if helpRequested(os.Args[1:]) {
			_, _ = parseFlags(os.Args[1:], &config.Config{})
			return
		}
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	opts, err := parseFlags(os.Args[1:], cfg)
	if errors.Is(err, pflag.ErrHelp) {
		return
	}
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}
	cfg.OCPDEscalation = opts.escalate

	logger := observability.NewLogger(cfg.LogLevel, cfg.LogFormat)
	metrics := observability.NewMetrics()

	engine, err := sizing.NewEngine(cfg.SizingParams(), cfg.EngineOptions()...)
	if err != nil {
		logger.Error("failed to create sizing engine", "error", err)
		os.Exit(1)
	}
	builder := report.NewBuilder(engine, logger, metrics,
		report.WithSiteObserver(observability.NewComplianceObserver(logger, metrics)),
		report.WithCache(cfg.CacheSize),
		report.WithWorkers(cfg.SizingWorkers),
	)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if opts.serve {
		serve(ctx, cfg, opts, builder, logger)
		return
	}

	r, err := builder.Build(ctx, opts.panels, opts.sites)
	if err != nil {
		logger.Error("sizing failed", "error", err)
		os.Exit(1)
	}
	if opts.publish {
		if err := publishOnce(ctx, cfg, builder, r, logger); err != nil {
			logger.Error("publish failed", "error", err)
			os.Exit(1)
		}
	}
	if err := render(os.Stdout, r, opts.format); err != nil {
		logger.Error("render failed", "error", err)
		os.Exit(1)
	}
}

func publishOnce(ctx context.Context, cfg *config.Config, builder *report.Builder, r report.Report, logger *slog.Logger) error {
	writer := kafkaadapter.NewWriter(cfg, logger)
	defer func() {
		if err := writer.Close(); err != nil {
			logger.Error("kafka writer close error", "error", err)
		}
	}()
	return builder.Publish(ctx, writer, r)
}

// serve builds a warm-up report, optionally publishes it, then serves the
// sizing API until ctx is cancelled.
func serve(ctx context.Context, cfg *config.Config, opts options, builder *report.Builder, logger *slog.Logger) {
	var writer *kafkaadapter.Writer
	if cfg.KafkaEnabled || opts.publish {
		writer = kafkaadapter.NewWriter(cfg, logger)
	}

	// Warm the cache and flip readiness before accepting traffic.
	r, err := builder.Build(ctx, opts.panels, opts.sites)
	if err != nil {
		logger.Error("warm-up sizing failed", "error", err)
	} else if writer != nil {
		if err := builder.Publish(ctx, writer, r); err != nil {
			logger.Error("warm-up publish failed", "error", err)
		}
	}

	handler := httpadapter.NewSizingHandler(builder, opts.panels, opts.sites, logger)
	srv := httpadapter.NewServer(cfg.HTTPAddr, builder, handler, logger)

	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http server error", "error", err)
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("http server shutdown error", "error", err)
	}
	if writer != nil {
		if err := writer.Close(); err != nil {
			logger.Error("kafka writer close error", "error", err)
		}
	}

	logger.Info("shutdown complete")
}
