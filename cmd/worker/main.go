// Package main implements the background worker: a cron-driven daemon that
// runs the hourly keyword crawl and the daily retention prune, recording every
// run in the job ledger and exposing Prometheus metrics.
package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/kim-yeo-appweb-lab/trend-korea-api/internal/analyze"
	"github.com/kim-yeo-appweb-lab/trend-korea-api/internal/clock"
	"github.com/kim-yeo-appweb-lab/trend-korea-api/internal/config"
	"github.com/kim-yeo-appweb-lab/trend-korea-api/internal/crawl"
	"github.com/kim-yeo-appweb-lab/trend-korea-api/internal/extract"
	"github.com/kim-yeo-appweb-lab/trend-korea-api/internal/fetch"
	"github.com/kim-yeo-appweb-lab/trend-korea-api/internal/jobs"
	"github.com/kim-yeo-appweb-lab/trend-korea-api/internal/logging"
	"github.com/kim-yeo-appweb-lab/trend-korea-api/internal/storage/postgres"
	"github.com/kim-yeo-appweb-lab/trend-korea-api/internal/trend"
)

func main() {
	_ = godotenv.Load()

	cfgPath := flag.String("config", "", "Path to config file")
	metricsAddr := flag.String("metrics-addr", ":9090", "Prometheus metrics listen address")
	flag.Parse()

	cfg, err := config.Load(*cfgPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "load config failed: %v\n", err)
		os.Exit(1)
	}

	logger, err := logging.New(cfg.Logging.Development)
	if err != nil {
		fmt.Fprintf(os.Stderr, "logger init failed: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = logger.Sync() }()
	zap.ReplaceGlobals(logger)

	if cfg.DB.DSN == "" {
		logger.Fatal("worker requires db.dsn to be configured")
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	pool, err := postgres.NewPool(ctx, postgres.PoolConfig{
		DSN:      cfg.DB.DSN,
		MaxConns: cfg.DB.MaxConns,
	})
	if err != nil {
		logger.Fatal("postgres connection failed", zap.Error(err))
	}
	defer pool.Close()

	channelStore, err := postgres.NewChannelStore(pool)
	if err != nil {
		logger.Fatal("channel store init failed", zap.Error(err))
	}
	keywordStore, err := postgres.NewKeywordStore(pool, cfg.KeywordRetention())
	if err != nil {
		logger.Fatal("keyword store init failed", zap.Error(err))
	}
	jobRunStore, err := postgres.NewJobRunStore(pool)
	if err != nil {
		logger.Fatal("job run store init failed", zap.Error(err))
	}

	fetcher := fetch.NewClient(fetch.Config{
		Timeout: cfg.HTTPTimeout(),
		Retries: cfg.HTTP.Retries,
		Backoff: cfg.HTTPBackoff(),
	}, logger)
	analyzer := analyze.New(analyze.NewRuleTagger(), analyze.Options{
		DominanceFactor: cfg.Analyzer.DominanceFactor,
		MaxPhraseNouns:  cfg.Analyzer.MaxPhraseNouns,
		MinKeywordLen:   cfg.Analyzer.MinKeywordLen,
	})
	orchestrator := crawl.New(fetcher, extract.New(), analyzer, clock.System{}, logger, crawl.Options{
		Concurrency:    cfg.Crawler.Concurrency,
		PerChannelTopN: cfg.Crawler.PerChannelTopN,
		AggregatedTopN: cfg.Crawler.AggregatedTopN,
		CategoryFilter: cfg.Crawler.CategoryFilter,
		MaxErrorMsgLen: cfg.Crawler.MaxErrorMsgLen,
	})

	crawlJob := func(ctx context.Context) (string, error) {
		channels, err := channelStore.ListActiveChannels(ctx)
		if err != nil {
			logger.Warn("channel listing failed, using built-in channels", zap.Error(err))
			channels = trend.DefaultChannels()
		}
		if len(channels) == 0 {
			channels = trend.DefaultChannels()
		}
		output := orchestrator.Run(ctx, channels)
		if output.SuccessfulChannels == 0 {
			return "", fmt.Errorf("no channel crawled successfully")
		}
		rows, err := keywordStore.SaveCrawlOutput(ctx, output)
		if err != nil {
			return "", fmt.Errorf("persist keywords: %w", err)
		}
		return fmt.Sprintf("channels ok=%d fail=%d rows=%d",
			output.SuccessfulChannels, output.FailedChannels, rows), nil
	}

	pruneJob := func(ctx context.Context) (string, error) {
		cutoff := time.Now().UTC().Add(-cfg.KeywordRetention())
		deleted, err := keywordStore.PruneOlderThan(ctx, cutoff)
		if err != nil {
			return "", fmt.Errorf("prune keywords: %w", err)
		}
		return fmt.Sprintf("deleted=%d cutoff=%s", deleted, cutoff.Format(time.RFC3339)), nil
	}

	runner := jobs.NewRunner(jobRunStore, clock.System{}, logger)
	scheduler := jobs.NewScheduler(runner, logger)
	if err := scheduler.AddJob(cfg.Scheduler.CrawlCron, "keyword_crawl", crawlJob); err != nil {
		logger.Fatal("schedule keyword_crawl failed", zap.Error(err))
	}
	if err := scheduler.AddJob(cfg.Scheduler.PruneCron, "keyword_prune", pruneJob); err != nil {
		logger.Fatal("schedule keyword_prune failed", zap.Error(err))
	}

	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	srv := &http.Server{Addr: *metricsAddr, Handler: mux}
	go func() {
		logger.Info("metrics server listening", zap.String("addr", *metricsAddr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("metrics server failed", zap.Error(err))
		}
	}()

	scheduler.Start()
	logger.Info("worker started",
		zap.String("crawl_cron", cfg.Scheduler.CrawlCron),
		zap.String("prune_cron", cfg.Scheduler.PruneCron),
	)

	<-ctx.Done()
	logger.Info("shutdown signal received")
	scheduler.Stop()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Warn("metrics server shutdown failed", zap.Error(err))
	}
}
