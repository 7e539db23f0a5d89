// Package main implements the full-cycle CLI: repeat the complete
// keyword-crawl, article-collection and summarization pipeline a fixed
// number of times, writing per-cycle artifacts and a final run report.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/kim-yeo-appweb-lab/trend-korea-api/internal/analyze"
	"github.com/kim-yeo-appweb-lab/trend-korea-api/internal/clock"
	"github.com/kim-yeo-appweb-lab/trend-korea-api/internal/collect"
	"github.com/kim-yeo-appweb-lab/trend-korea-api/internal/config"
	"github.com/kim-yeo-appweb-lab/trend-korea-api/internal/crawl"
	"github.com/kim-yeo-appweb-lab/trend-korea-api/internal/extract"
	"github.com/kim-yeo-appweb-lab/trend-korea-api/internal/fetch"
	"github.com/kim-yeo-appweb-lab/trend-korea-api/internal/logging"
	"github.com/kim-yeo-appweb-lab/trend-korea-api/internal/pipeline"
	"github.com/kim-yeo-appweb-lab/trend-korea-api/internal/storage/postgres"
	"github.com/kim-yeo-appweb-lab/trend-korea-api/internal/summarize"
	"github.com/kim-yeo-appweb-lab/trend-korea-api/internal/trend"
)

// crawlAdapter binds the channel crawl orchestrator and its channel list to
// the pipeline's single-method Crawler boundary.
type crawlAdapter struct {
	orchestrator *crawl.Orchestrator
	channels     []trend.ChannelConfig
}

func (a *crawlAdapter) Crawl(ctx context.Context) trend.CrawlOutput {
	return a.orchestrator.Run(ctx, a.channels)
}

func main() {
	_ = godotenv.Load()

	cfgPath := flag.String("config", "", "Path to config file")
	repeat := flag.Int("repeat", 0, "Number of cycles to run (overrides config)")
	topN := flag.Int("top-n", 0, "Aggregated keyword count (overrides config)")
	maxKeywords := flag.Int("max-keywords", 0, "Keywords fed into collection (overrides config)")
	limit := flag.Int("limit", 0, "Articles per keyword/channel (overrides config)")
	model := flag.String("model", "", "Model identifier (overrides config)")
	outputDir := flag.String("output-dir", "", "Run artifact directory (overrides config)")
	flag.Parse()

	cfg, err := config.Load(*cfgPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "load config failed: %v\n", err)
		os.Exit(1)
	}
	if *repeat > 0 {
		cfg.Pipeline.Repeat = *repeat
	}
	if *topN > 0 {
		cfg.Crawler.AggregatedTopN = *topN
	}
	if *maxKeywords > 0 {
		cfg.Pipeline.MaxKeywords = *maxKeywords
	}
	if *limit > 0 {
		cfg.Collector.Limit = *limit
	}
	if *model != "" {
		cfg.Summarizer.Model = *model
	}
	if *outputDir != "" {
		cfg.Pipeline.OutputDir = *outputDir
	}

	logger, err := logging.New(cfg.Logging.Development)
	if err != nil {
		fmt.Fprintf(os.Stderr, "logger init failed: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = logger.Sync() }()
	zap.ReplaceGlobals(logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	channels := trend.DefaultChannels()
	if cfg.DB.DSN != "" {
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
		if stored, err := channelStore.ListActiveChannels(ctx); err != nil {
			logger.Warn("channel listing failed, using built-in channels", zap.Error(err))
		} else if len(stored) > 0 {
			channels = stored
		}
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
	crawler := &crawlAdapter{
		orchestrator: crawl.New(fetcher, extract.New(), analyzer, clock.System{}, logger, crawl.Options{
			Concurrency:    cfg.Crawler.Concurrency,
			PerChannelTopN: cfg.Crawler.PerChannelTopN,
			AggregatedTopN: cfg.Crawler.AggregatedTopN,
			CategoryFilter: cfg.Crawler.CategoryFilter,
			MaxErrorMsgLen: cfg.Crawler.MaxErrorMsgLen,
		}),
		channels: channels,
	}

	collector := collect.NewRunner(collect.Config{
		PipelineDir: cfg.Collector.PipelineDir,
		Timeout:     cfg.CollectorTimeout(),
	}, logger)

	client := summarize.NewClient(summarize.ClientConfig{
		BaseURL:     cfg.Summarizer.BaseURL,
		Model:       cfg.Summarizer.Model,
		APIKey:      cfg.Summarizer.APIKey,
		Temperature: cfg.Summarizer.Temperature,
	}, logger)
	summarizer := summarize.New(client, client.Model(), clock.System{}, logger)

	orchestrator := pipeline.New(crawler, collector, summarizer, clock.System{}, logger, pipeline.Config{
		Repeat:      cfg.Pipeline.Repeat,
		MaxKeywords: cfg.Pipeline.MaxKeywords,
		Limit:       cfg.Collector.Limit,
		OutputDir:   cfg.Pipeline.OutputDir,
		Model:       cfg.Summarizer.Model,
	})

	report, err := orchestrator.Run(ctx)
	if err != nil {
		logger.Fatal("pipeline run failed", zap.Error(err))
	}
	if report.Summary.Success == 0 {
		os.Exit(1)
	}
}
