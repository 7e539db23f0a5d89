// Package main implements the ad-hoc keyword crawl CLI: fetch every active
// channel, extract and rank keyword phrases, and emit the run as JSON.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/kim-yeo-appweb-lab/trend-korea-api/internal/analyze"
	"github.com/kim-yeo-appweb-lab/trend-korea-api/internal/clock"
	"github.com/kim-yeo-appweb-lab/trend-korea-api/internal/config"
	"github.com/kim-yeo-appweb-lab/trend-korea-api/internal/crawl"
	"github.com/kim-yeo-appweb-lab/trend-korea-api/internal/extract"
	"github.com/kim-yeo-appweb-lab/trend-korea-api/internal/fetch"
	"github.com/kim-yeo-appweb-lab/trend-korea-api/internal/logging"
	"github.com/kim-yeo-appweb-lab/trend-korea-api/internal/storage/postgres"
	"github.com/kim-yeo-appweb-lab/trend-korea-api/internal/trend"
)

func main() {
	_ = godotenv.Load()

	cfgPath := flag.String("config", "", "Path to config file")
	topN := flag.Int("top-n", 0, "Aggregated keyword count (overrides config)")
	channelTopN := flag.Int("channel-top-n", 0, "Per-channel keyword count (overrides config)")
	timeoutSec := flag.Int("timeout", 0, "Per-fetch timeout in seconds (overrides config)")
	category := flag.String("category", "", "Crawl only channels in this category")
	outPath := flag.String("out", "", "Write crawl output JSON to this path instead of stdout")
	pretty := flag.Bool("pretty", false, "Indent JSON output")
	save := flag.Bool("save", false, "Persist keyword rows to the database")
	flag.Parse()

	cfg, err := config.Load(*cfgPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "load config failed: %v\n", err)
		os.Exit(1)
	}
	if *topN > 0 {
		cfg.Crawler.AggregatedTopN = *topN
	}
	if *channelTopN > 0 {
		cfg.Crawler.PerChannelTopN = *channelTopN
	}
	if *timeoutSec > 0 {
		cfg.HTTP.TimeoutSeconds = *timeoutSec
	}
	if *category != "" {
		cfg.Crawler.CategoryFilter = *category
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
	var keywordStore *postgres.KeywordStore
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

		if *save {
			keywordStore, err = postgres.NewKeywordStore(pool, cfg.KeywordRetention())
			if err != nil {
				logger.Fatal("keyword store init failed", zap.Error(err))
			}
		}
	} else if *save {
		logger.Fatal("-save requires db.dsn to be configured")
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

	start := time.Now()
	output := orchestrator.Run(ctx, channels)

	if err := emitJSON(output, *outPath, *pretty); err != nil {
		logger.Fatal("write output failed", zap.Error(err))
	}
	if keywordStore != nil {
		n, err := keywordStore.SaveCrawlOutput(ctx, output)
		if err != nil {
			logger.Error("keyword persistence failed", zap.Error(err))
		} else {
			logger.Info("keywords persisted", zap.Int("rows", n))
		}
	}

	logger.Info("keyword crawl done",
		zap.Int("successful", output.SuccessfulChannels),
		zap.Int("failed", output.FailedChannels),
		zap.Duration("elapsed", time.Since(start)),
	)
	if output.SuccessfulChannels == 0 {
		os.Exit(1)
	}
}

func emitJSON(v any, path string, pretty bool) error {
	var (
		data []byte
		err  error
	)
	if pretty {
		data, err = json.MarshalIndent(v, "", "  ")
	} else {
		data, err = json.Marshal(v)
	}
	if err != nil {
		return err
	}
	data = append(data, '\n')
	if path == "" {
		_, err = os.Stdout.Write(data)
		return err
	}
	return os.WriteFile(path, data, 0o644)
}
