// Package main implements the summarize CLI: load collected articles,
// request one combined keyword summarization, and write the result JSON.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/kim-yeo-appweb-lab/trend-korea-api/internal/clock"
	"github.com/kim-yeo-appweb-lab/trend-korea-api/internal/config"
	"github.com/kim-yeo-appweb-lab/trend-korea-api/internal/logging"
	"github.com/kim-yeo-appweb-lab/trend-korea-api/internal/storage/postgres"
	"github.com/kim-yeo-appweb-lab/trend-korea-api/internal/summarize"
)

func main() {
	_ = godotenv.Load()

	cfgPath := flag.String("config", "", "Path to config file")
	inPath := flag.String("in", "", "Input article JSON/JSONL path (required)")
	outPath := flag.String("out", "summary.json", "Summary output JSON path")
	model := flag.String("model", "", "Model identifier (overrides config)")
	baseURL := flag.String("base-url", "", "Completion endpoint base URL (overrides config)")
	save := flag.Bool("save", false, "Persist the summary batch to the database")
	dbURL := flag.String("db-url", "", "Database connection string (overrides config)")
	flag.Parse()

	cfg, err := config.Load(*cfgPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "load config failed: %v\n", err)
		os.Exit(1)
	}
	if *model != "" {
		cfg.Summarizer.Model = *model
	}
	if *baseURL != "" {
		cfg.Summarizer.BaseURL = *baseURL
	}
	if *dbURL != "" {
		cfg.DB.DSN = *dbURL
	}

	logger, err := logging.New(cfg.Logging.Development)
	if err != nil {
		fmt.Fprintf(os.Stderr, "logger init failed: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = logger.Sync() }()
	zap.ReplaceGlobals(logger)

	if *inPath == "" {
		logger.Fatal("-in is required")
	}
	if *save && cfg.DB.DSN == "" {
		logger.Fatal("-save requires db.dsn to be configured")
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	articles, err := summarize.LoadArticles(*inPath)
	if err != nil {
		logger.Fatal("load articles failed", zap.Error(err))
	}
	if len(articles) == 0 {
		logger.Fatal("input file holds no articles", zap.String("in", *inPath))
	}

	client := summarize.NewClient(summarize.ClientConfig{
		BaseURL:     cfg.Summarizer.BaseURL,
		Model:       cfg.Summarizer.Model,
		APIKey:      cfg.Summarizer.APIKey,
		Temperature: cfg.Summarizer.Temperature,
	}, logger)
	summarizer := summarize.New(client, client.Model(), clock.System{}, logger)

	output, err := summarizer.Run(ctx, articles)
	if err != nil {
		logger.Fatal("summarization failed", zap.Error(err))
	}

	data, err := json.MarshalIndent(output, "", "  ")
	if err != nil {
		logger.Fatal("marshal summary failed", zap.Error(err))
	}
	if dir := filepath.Dir(*outPath); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			logger.Fatal("create output dir failed", zap.Error(err))
		}
	}
	if err := os.WriteFile(*outPath, append(data, '\n'), 0o644); err != nil {
		logger.Fatal("write summary failed", zap.Error(err))
	}

	if *save {
		pool, err := postgres.NewPool(ctx, postgres.PoolConfig{
			DSN:      cfg.DB.DSN,
			MaxConns: cfg.DB.MaxConns,
		})
		if err != nil {
			logger.Fatal("postgres connection failed", zap.Error(err))
		}
		defer pool.Close()

		store, err := postgres.NewSummaryStore(pool)
		if err != nil {
			logger.Fatal("summary store init failed", zap.Error(err))
		}
		batchID, err := store.SaveSummaryOutput(ctx, output)
		if err != nil {
			logger.Fatal("summary persistence failed", zap.Error(err))
		}
		logger.Info("summary batch persisted", zap.String("batch_id", batchID))
	}

	logger.Info("summarize done",
		zap.Int("keywords", output.TotalKeywords),
		zap.Int("articles", output.TotalArticles),
		zap.Int("tokens", output.TotalTokens.Total),
		zap.String("out", *outPath),
	)
}
