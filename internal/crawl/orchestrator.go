// Package crawl fans the fetch, extract and analyze sequence out across all
// configured channels and folds the per-channel outcomes into one run-level
// aggregate.
package crawl

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"
	"unicode/utf8"

	"go.uber.org/zap"

	"github.com/kim-yeo-appweb-lab/trend-korea-api/internal/analyze"
	"github.com/kim-yeo-appweb-lab/trend-korea-api/internal/extract"
	"github.com/kim-yeo-appweb-lab/trend-korea-api/internal/fetch"
	"github.com/kim-yeo-appweb-lab/trend-korea-api/internal/metrics"
	"github.com/kim-yeo-appweb-lab/trend-korea-api/internal/trend"
)

// Options tunes one crawl run. Zero values select the defaults.
type Options struct {
	// Concurrency caps simultaneous in-flight channel tasks. Default 8.
	Concurrency int
	// PerChannelTopN sizes each channel's keyword list. Default 20.
	PerChannelTopN int
	// AggregatedTopN sizes the cross-channel keyword list. Default 30.
	AggregatedTopN int
	// CategoryFilter restricts the run to one channel category when set.
	CategoryFilter string
	// MaxErrorMsgLen truncates recorded channel error messages. Default 300.
	MaxErrorMsgLen int
}

func (o Options) withDefaults() Options {
	if o.Concurrency <= 0 {
		o.Concurrency = 8
	}
	if o.PerChannelTopN <= 0 {
		o.PerChannelTopN = 20
	}
	if o.AggregatedTopN <= 0 {
		o.AggregatedTopN = 30
	}
	if o.MaxErrorMsgLen <= 0 {
		o.MaxErrorMsgLen = 300
	}
	return o
}

// Orchestrator runs the per-channel crawl tasks and aggregates their results.
type Orchestrator struct {
	fetcher   trend.TextFetcher
	extractor *extract.Extractor
	analyzer  *analyze.Analyzer
	clock     trend.Clock
	logger    *zap.Logger
	opts      Options
}

// New builds an Orchestrator. A nil clock falls back to wall time.
func New(fetcher trend.TextFetcher, extractor *extract.Extractor, analyzer *analyze.Analyzer,
	clock trend.Clock, logger *zap.Logger, opts Options) *Orchestrator {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Orchestrator{
		fetcher:   fetcher,
		extractor: extractor,
		analyzer:  analyzer,
		clock:     clock,
		logger:    logger,
		opts:      opts.withDefaults(),
	}
}

func (o *Orchestrator) now() time.Time {
	if o.clock != nil {
		return o.clock.Now()
	}
	return time.Now()
}

// Run crawls every active channel matching the category filter and returns
// the aggregated output. A channel's failure never aborts its siblings; it is
// recorded as a failed ChannelCrawlResult instead.
func (o *Orchestrator) Run(ctx context.Context, channels []trend.ChannelConfig) trend.CrawlOutput {
	start := time.Now()
	targets := o.filterChannels(channels)

	output := trend.CrawlOutput{
		CrawledAt:          o.now(),
		TotalChannels:      len(targets),
		Channels:           []trend.ChannelCrawlResult{},
		AggregatedKeywords: []trend.KeywordResult{},
	}
	if len(targets) == 0 {
		o.logger.Warn("no active channels matched", zap.String("category", o.opts.CategoryFilter))
		return output
	}

	results := make([]trend.ChannelCrawlResult, len(targets))
	sem := make(chan struct{}, o.opts.Concurrency)
	var wg sync.WaitGroup
	for i, ch := range targets {
		wg.Add(1)
		go func(i int, ch trend.ChannelConfig) {
			defer wg.Done()
			sem <- struct{}{}
			defer func() { <-sem }()
			results[i] = o.crawlChannel(ctx, ch)
		}(i, ch)
	}
	wg.Wait()

	var headlines []string
	for _, res := range results {
		metrics.ChannelResult(res.ChannelCode, string(res.FetchStatus))
		if res.FetchStatus == trend.FetchStatusSuccess {
			output.SuccessfulChannels++
			headlines = append(headlines, res.Headlines...)
		} else {
			output.FailedChannels++
		}
	}
	output.Channels = results
	if len(headlines) > 0 {
		output.AggregatedKeywords = o.analyzer.ExtractKeywords(headlines, o.opts.AggregatedTopN)
	}

	metrics.CrawlRun(time.Since(start))
	o.logger.Info("crawl run finished",
		zap.Int("total", output.TotalChannels),
		zap.Int("successful", output.SuccessfulChannels),
		zap.Int("failed", output.FailedChannels),
		zap.Int("aggregated_keywords", len(output.AggregatedKeywords)),
		zap.Duration("elapsed", time.Since(start)),
	)
	return output
}

func (o *Orchestrator) filterChannels(channels []trend.ChannelConfig) []trend.ChannelConfig {
	out := make([]trend.ChannelConfig, 0, len(channels))
	for _, ch := range channels {
		if !ch.Active {
			continue
		}
		if o.opts.CategoryFilter != "" && ch.Category != o.opts.CategoryFilter {
			continue
		}
		out = append(out, ch)
	}
	return out
}

// crawlChannel runs the fetch+extract+analyze sequence for one channel,
// converting every internal failure, panics included, into a failed result.
func (o *Orchestrator) crawlChannel(ctx context.Context, ch trend.ChannelConfig) (result trend.ChannelCrawlResult) {
	result = trend.ChannelCrawlResult{
		ChannelCode: ch.Code,
		ChannelName: ch.Name,
		ChannelURL:  ch.URL,
		Category:    ch.Category,
		Headlines:   []string{},
		Keywords:    []trend.KeywordResult{},
	}

	defer func() {
		if r := recover(); r != nil {
			o.logger.Error("channel task panicked",
				zap.String("channel", ch.Code), zap.Any("panic", r))
			result.FetchStatus = trend.FetchStatusFailed
			result.ErrorMessage = o.truncateError(fmt.Sprintf("panic: %v", r))
		}
	}()

	feedURL := ch.FeedURL
	if feedURL == "" {
		feedURL = extract.FeedURL(ch.Code)
	}
	url := ch.URL
	if feedURL != "" {
		url = feedURL
	}

	outcome, err := o.fetcher.FetchText(ctx, url)
	result.FetchDurationMs = outcome.Duration.Milliseconds()
	if err != nil {
		result.FetchStatus = fetch.ClassifyError(err)
		result.ErrorMessage = o.truncateError(err.Error())
		o.logger.Warn("channel fetch failed",
			zap.String("channel", ch.Code),
			zap.String("status", string(result.FetchStatus)),
			zap.Error(err),
		)
		return result
	}

	if feedURL == "" && fetch.LooksBlocked(outcome.Text) {
		result.FetchStatus = trend.FetchStatusBlocked
		result.ErrorMessage = "anti-bot block page detected"
		o.logger.Warn("channel looks blocked", zap.String("channel", ch.Code))
		return result
	}

	var headlines []string
	if feedURL != "" {
		headlines, err = o.extractor.FromFeed(outcome.Text)
	} else {
		headlines, err = o.extractor.FromHTML(outcome.Text, ch.Code)
	}
	if err != nil {
		result.FetchStatus = trend.FetchStatusFailed
		result.ErrorMessage = o.truncateError(err.Error())
		return result
	}

	result.Headlines = headlines
	result.Keywords = o.analyzer.ExtractKeywords(headlines, o.opts.PerChannelTopN)
	result.FetchStatus = trend.FetchStatusSuccess
	o.logger.Debug("channel crawled",
		zap.String("channel", ch.Code),
		zap.Int("headlines", len(headlines)),
		zap.Int("keywords", len(result.Keywords)),
	)
	return result
}

func (o *Orchestrator) truncateError(msg string) string {
	if utf8.RuneCountInString(msg) <= o.opts.MaxErrorMsgLen {
		return msg
	}
	runes := []rune(strings.TrimSpace(msg))
	return string(runes[:o.opts.MaxErrorMsgLen])
}
