// Package pipeline chains keyword crawling, external article collection and
// summarization into repeated, independent cycles, persisting each stage's
// artifact before the next stage runs.
package pipeline

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"time"

	"go.uber.org/zap"

	"github.com/kim-yeo-appweb-lab/trend-korea-api/internal/metrics"
	"github.com/kim-yeo-appweb-lab/trend-korea-api/internal/trend"
)

// Crawler produces one crawl output over the configured channels.
type Crawler interface {
	Crawl(ctx context.Context) trend.CrawlOutput
}

// Summarizer produces keyword summaries for collected articles.
type Summarizer interface {
	Run(ctx context.Context, articles []trend.Article) (trend.SummaryOutput, error)
}

// Config tunes a pipeline run. Zero values select the defaults.
type Config struct {
	// Repeat is the number of cycles to run. Default 10.
	Repeat int
	// MaxKeywords caps how many aggregated keywords feed article collection.
	// Default 5.
	MaxKeywords int
	// Limit is the per-keyword/channel article limit passed downstream.
	// Default 3.
	Limit int
	// OutputDir is where per-run artifact directories are created.
	// Default "cycle_outputs".
	OutputDir string
	// Model is recorded in cycle metadata.
	Model string
}

func (c Config) withDefaults() Config {
	if c.Repeat <= 0 {
		c.Repeat = 10
	}
	if c.MaxKeywords <= 0 {
		c.MaxKeywords = 5
	}
	if c.Limit <= 0 {
		c.Limit = 3
	}
	if c.OutputDir == "" {
		c.OutputDir = "cycle_outputs"
	}
	return c
}

// Settings echoes the effective run configuration into the run report.
type Settings struct {
	MaxKeywords int    `json:"max_keywords"`
	Limit       int    `json:"limit"`
	Model       string `json:"model,omitempty"`
}

// RunSummary aggregates cycle outcomes for the run report.
type RunSummary struct {
	Success        int     `json:"success"`
	Fail           int     `json:"fail"`
	AvgElapsed     float64 `json:"avg_elapsed"`
	TotalArticles  int     `json:"total_articles"`
	TotalSummaries int     `json:"total_summaries"`
	TotalTags      int     `json:"total_tags"`
}

// RunReport is the final artifact of one full pipeline run.
type RunReport struct {
	RunID        string              `json:"run_id"`
	TotalCycles  int                 `json:"total_cycles"`
	TotalElapsed float64             `json:"total_elapsed"`
	Settings     Settings            `json:"settings"`
	Cycles       []trend.CycleResult `json:"cycles"`
	Summary      RunSummary          `json:"summary"`
}

// Orchestrator runs pipeline cycles sequentially. Cycles are independent: a
// failed cycle never aborts the ones after it.
type Orchestrator struct {
	crawler    Crawler
	collector  trend.ArticleCollector
	summarizer Summarizer
	clock      trend.Clock
	logger     *zap.Logger
	cfg        Config
}

// New builds an Orchestrator.
func New(crawler Crawler, collector trend.ArticleCollector, summarizer Summarizer,
	clock trend.Clock, logger *zap.Logger, cfg Config) *Orchestrator {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Orchestrator{
		crawler:    crawler,
		collector:  collector,
		summarizer: summarizer,
		clock:      clock,
		logger:     logger,
		cfg:        cfg.withDefaults(),
	}
}

func (o *Orchestrator) now() time.Time {
	if o.clock != nil {
		return o.clock.Now()
	}
	return time.Now()
}

// Run executes the configured number of cycles and writes run_report.json
// into a timestamped run directory.
func (o *Orchestrator) Run(ctx context.Context) (RunReport, error) {
	runID := o.now().UTC().Format("20060102_150405")
	runDir := filepath.Join(o.cfg.OutputDir, "run_"+runID)
	if err := os.MkdirAll(runDir, 0o755); err != nil {
		return RunReport{}, fmt.Errorf("pipeline: create run dir: %w", err)
	}

	o.logger.Info("pipeline run starting",
		zap.String("run_dir", runDir),
		zap.Int("repeat", o.cfg.Repeat),
		zap.Int("max_keywords", o.cfg.MaxKeywords),
		zap.Int("limit", o.cfg.Limit),
		zap.String("model", o.cfg.Model),
	)

	start := time.Now()
	cycles := make([]trend.CycleResult, 0, o.cfg.Repeat)
	for i := 1; i <= o.cfg.Repeat; i++ {
		cycleDir := filepath.Join(runDir, fmt.Sprintf("cycle_%02d", i))
		cycles = append(cycles, o.RunCycle(ctx, i, cycleDir))
	}

	report := RunReport{
		RunID:        runID,
		TotalCycles:  o.cfg.Repeat,
		TotalElapsed: round1(time.Since(start).Seconds()),
		Settings: Settings{
			MaxKeywords: o.cfg.MaxKeywords,
			Limit:       o.cfg.Limit,
			Model:       o.cfg.Model,
		},
		Cycles:  cycles,
		Summary: summarizeCycles(cycles),
	}

	if err := writeJSON(filepath.Join(runDir, "run_report.json"), report); err != nil {
		return report, err
	}
	o.logger.Info("pipeline run finished",
		zap.Int("success", report.Summary.Success),
		zap.Int("fail", report.Summary.Fail),
		zap.Float64("total_elapsed", report.TotalElapsed),
	)
	return report, nil
}

// RunCycle executes one cycle into its own artifact directory. Stage
// failures are reported as data on the result, never as an error.
func (o *Orchestrator) RunCycle(ctx context.Context, cycleNum int, cycleDir string) trend.CycleResult {
	start := time.Now()
	o.logger.Info("cycle starting", zap.Int("cycle", cycleNum), zap.String("dir", cycleDir))

	fail := func(stage trend.CycleStage) trend.CycleResult {
		metrics.CycleResult(trend.CycleStatusFail)
		o.logger.Warn("cycle failed",
			zap.Int("cycle", cycleNum), zap.String("stage", string(stage)))
		return trend.CycleResult{
			Cycle:          cycleNum,
			Status:         trend.CycleStatusFail,
			Stage:          stage,
			ElapsedSeconds: round1(time.Since(start).Seconds()),
		}
	}

	if err := os.MkdirAll(cycleDir, 0o755); err != nil {
		o.logger.Error("cycle dir creation failed", zap.Error(err))
		return fail(trend.StageKeyword)
	}

	// Stage 1: keyword extraction.
	stageStart := time.Now()
	crawlOutput := o.crawler.Crawl(ctx)
	metrics.CycleStage(string(trend.StageKeyword), time.Since(stageStart))
	if crawlOutput.SuccessfulChannels == 0 {
		return fail(trend.StageKeyword)
	}
	if err := writeJSON(filepath.Join(cycleDir, "keywords.json"), crawlOutput); err != nil {
		o.logger.Error("keyword artifact write failed", zap.Error(err))
		return fail(trend.StageKeyword)
	}
	keywords := make([]string, 0, len(crawlOutput.AggregatedKeywords))
	for _, kw := range crawlOutput.AggregatedKeywords {
		keywords = append(keywords, kw.Word)
	}
	if len(keywords) == 0 {
		return fail(trend.StageKeyword)
	}
	selected := keywords
	if len(selected) > o.cfg.MaxKeywords {
		selected = selected[:o.cfg.MaxKeywords]
	}
	o.logger.Info("keywords selected",
		zap.Int("extracted", len(keywords)), zap.Strings("selected", selected))

	// Stage 2: external article collection.
	stageStart = time.Now()
	crawlPath := filepath.Join(cycleDir, "crawl.json")
	articles, err := o.collector.CollectArticles(ctx, trend.CollectRequest{
		Keywords:   selected,
		Limit:      o.cfg.Limit,
		OutputPath: crawlPath,
		ReportPath: filepath.Join(cycleDir, "crawl_report.json"),
	})
	metrics.CycleStage(string(trend.StageCrawl), time.Since(stageStart))
	if err != nil {
		o.logger.Warn("article collection failed", zap.Error(err))
		return fail(trend.StageCrawl)
	}
	if len(articles) == 0 {
		return fail(trend.StageCrawl)
	}

	// Stage 3: summarization.
	stageStart = time.Now()
	summary, err := o.summarizer.Run(ctx, articles)
	metrics.CycleStage(string(trend.StageSummarize), time.Since(stageStart))
	if err != nil {
		o.logger.Warn("summarization failed", zap.Error(err))
		return fail(trend.StageSummarize)
	}
	if err := writeJSON(filepath.Join(cycleDir, "summary.json"), summary); err != nil {
		o.logger.Error("summary artifact write failed", zap.Error(err))
		return fail(trend.StageSummarize)
	}

	totalTags := 0
	for _, ks := range summary.Keywords {
		totalTags += len(ks.Tags)
	}

	metrics.CycleResult(trend.CycleStatusOK)
	result := trend.CycleResult{
		Cycle:             cycleNum,
		Status:            trend.CycleStatusOK,
		ElapsedSeconds:    round1(time.Since(start).Seconds()),
		KeywordsExtracted: len(keywords),
		KeywordsUsed:      len(selected),
		ArticlesCollected: len(articles),
		Summaries:         len(summary.Keywords),
		TotalTags:         totalTags,
		Tokens:            summary.TotalTokens,
		Model:             summary.Model,
	}
	o.logger.Info("cycle finished",
		zap.Int("cycle", cycleNum),
		zap.Float64("elapsed", result.ElapsedSeconds),
		zap.Int("articles", result.ArticlesCollected),
		zap.Int("summaries", result.Summaries),
		zap.Int("tags", result.TotalTags),
	)
	return result
}

func summarizeCycles(cycles []trend.CycleResult) RunSummary {
	var s RunSummary
	var okElapsed float64
	for _, c := range cycles {
		if c.Status == trend.CycleStatusOK {
			s.Success++
			okElapsed += c.ElapsedSeconds
		} else {
			s.Fail++
		}
		s.TotalArticles += c.ArticlesCollected
		s.TotalSummaries += c.Summaries
		s.TotalTags += c.TotalTags
	}
	if s.Success > 0 {
		s.AvgElapsed = round1(okElapsed / float64(s.Success))
	}
	return s
}

func writeJSON(path string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("pipeline: marshal %s: %w", filepath.Base(path), err)
	}
	if err := os.WriteFile(path, append(data, '\n'), 0o644); err != nil {
		return fmt.Errorf("pipeline: write %s: %w", filepath.Base(path), err)
	}
	return nil
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}
