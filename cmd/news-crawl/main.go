// Package main implements the news-crawl CLI: invoke the external article
// collection tool for a set of keywords and report what it gathered.
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

	"github.com/kim-yeo-appweb-lab/trend-korea-api/internal/collect"
	"github.com/kim-yeo-appweb-lab/trend-korea-api/internal/config"
	"github.com/kim-yeo-appweb-lab/trend-korea-api/internal/logging"
	"github.com/kim-yeo-appweb-lab/trend-korea-api/internal/trend"
)

// stringList collects a repeatable string flag.
type stringList []string

func (s *stringList) String() string { return fmt.Sprint([]string(*s)) }

func (s *stringList) Set(v string) error {
	*s = append(*s, v)
	return nil
}

func main() {
	_ = godotenv.Load()

	var keywords stringList
	cfgPath := flag.String("config", "", "Path to config file")
	flag.Var(&keywords, "keyword", "Keyword to collect articles for (repeatable)")
	limit := flag.Int("limit", 0, "Articles per keyword/channel (overrides config)")
	outPath := flag.String("out", "articles.json", "Article output JSON path")
	reportPath := flag.String("report-out", "", "Crawl report JSON path")
	pipelineDir := flag.String("pipeline-dir", "", "External tool directory (overrides config)")
	flag.Parse()

	cfg, err := config.Load(*cfgPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "load config failed: %v\n", err)
		os.Exit(1)
	}
	if *limit > 0 {
		cfg.Collector.Limit = *limit
	}
	if *pipelineDir != "" {
		cfg.Collector.PipelineDir = *pipelineDir
	}

	logger, err := logging.New(cfg.Logging.Development)
	if err != nil {
		fmt.Fprintf(os.Stderr, "logger init failed: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = logger.Sync() }()
	zap.ReplaceGlobals(logger)

	if len(keywords) == 0 {
		logger.Fatal("at least one -keyword is required")
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	runner := collect.NewRunner(collect.Config{
		PipelineDir: cfg.Collector.PipelineDir,
		Timeout:     cfg.CollectorTimeout(),
	}, logger)

	articles, err := runner.CollectArticles(ctx, trend.CollectRequest{
		Keywords:   keywords,
		Limit:      cfg.Collector.Limit,
		OutputPath: *outPath,
		ReportPath: *reportPath,
	})
	if err != nil {
		logger.Fatal("article collection failed", zap.Error(err))
	}

	logger.Info("article collection done",
		zap.Int("articles", len(articles)),
		zap.String("out", *outPath),
	)
	if len(articles) == 0 {
		os.Exit(1)
	}
}
