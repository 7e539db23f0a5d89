// Package config loads and validates pipeline configuration via Viper.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config captures all service configuration knobs loaded via Viper.
type Config struct {
	HTTP       HTTPConfig       `mapstructure:"http"`
	Crawler    CrawlerConfig    `mapstructure:"crawler"`
	Analyzer   AnalyzerConfig   `mapstructure:"analyzer"`
	Collector  CollectorConfig  `mapstructure:"collector"`
	Summarizer SummarizerConfig `mapstructure:"summarizer"`
	Pipeline   PipelineConfig   `mapstructure:"pipeline"`
	DB         DBConfig         `mapstructure:"db"`
	Scheduler  SchedulerConfig  `mapstructure:"scheduler"`
	Logging    LoggingConfig    `mapstructure:"logging"`
}

// HTTPConfig configures the channel fetcher's retry behavior.
type HTTPConfig struct {
	TimeoutSeconds int `mapstructure:"timeout_seconds"`
	Retries        int `mapstructure:"retries"`
	BackoffMs      int `mapstructure:"backoff_ms"`
}

// CrawlerConfig governs the channel crawl fan-out.
type CrawlerConfig struct {
	Concurrency     int    `mapstructure:"concurrency"`
	PerChannelTopN  int    `mapstructure:"per_channel_top_n"`
	AggregatedTopN  int    `mapstructure:"aggregated_top_n"`
	CategoryFilter  string `mapstructure:"category_filter"`
	MaxErrorMsgLen  int    `mapstructure:"max_error_msg_len"`
	MinHeadlineRune int    `mapstructure:"min_headline_rune"`
}

// AnalyzerConfig carries the keyword analyzer's tuning constants. The
// dominance factor and bridge tolerance are empirically chosen; they are
// exposed here rather than inlined.
type AnalyzerConfig struct {
	DominanceFactor float64 `mapstructure:"dominance_factor"`
	MaxPhraseNouns  int     `mapstructure:"max_phrase_nouns"`
	MinKeywordLen   int     `mapstructure:"min_keyword_len"`
}

// CollectorConfig locates and bounds the external article-collection tool.
type CollectorConfig struct {
	PipelineDir    string `mapstructure:"pipeline_dir"`
	TimeoutSeconds int    `mapstructure:"timeout_seconds"`
	Limit          int    `mapstructure:"limit"`
}

// SummarizerConfig points at the OpenAI-compatible summarization endpoint.
type SummarizerConfig struct {
	BaseURL     string  `mapstructure:"base_url"`
	Model       string  `mapstructure:"model"`
	APIKey      string  `mapstructure:"api_key"`
	Temperature float64 `mapstructure:"temperature"`
}

// PipelineConfig controls the full-cycle orchestrator.
type PipelineConfig struct {
	Repeat      int    `mapstructure:"repeat"`
	MaxKeywords int    `mapstructure:"max_keywords"`
	OutputDir   string `mapstructure:"output_dir"`
}

// DBConfig controls access to the relational database.
type DBConfig struct {
	DSN                  string `mapstructure:"dsn"`
	KeywordRetentionDays int    `mapstructure:"keyword_retention_days"`
	MaxConns             int32  `mapstructure:"max_conns"`
}

// SchedulerConfig carries cron expressions for the background worker.
type SchedulerConfig struct {
	CrawlCron string `mapstructure:"crawl_cron"`
	PruneCron string `mapstructure:"prune_cron"`
}

// LoggingConfig toggles zap development features.
type LoggingConfig struct {
	Development bool `mapstructure:"development"`
}

// Load builds a Config from disk/environment.
func Load(path string) (Config, error) {
	v := viper.New()
	v.SetEnvPrefix("TREND")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("http.timeout_seconds", 15)
	v.SetDefault("http.retries", 2)
	v.SetDefault("http.backoff_ms", 500)
	v.SetDefault("crawler.concurrency", 8)
	v.SetDefault("crawler.per_channel_top_n", 20)
	v.SetDefault("crawler.aggregated_top_n", 30)
	v.SetDefault("crawler.max_error_msg_len", 300)
	v.SetDefault("crawler.min_headline_rune", 4)
	v.SetDefault("analyzer.dominance_factor", 1.5)
	v.SetDefault("analyzer.max_phrase_nouns", 4)
	v.SetDefault("analyzer.min_keyword_len", 2)
	v.SetDefault("collector.timeout_seconds", 600)
	v.SetDefault("collector.limit", 3)
	v.SetDefault("summarizer.base_url", "http://localhost:11434/v1")
	v.SetDefault("summarizer.model", "gemma3:4b")
	v.SetDefault("summarizer.api_key", "ollama")
	v.SetDefault("summarizer.temperature", 0.3)
	v.SetDefault("pipeline.repeat", 10)
	v.SetDefault("pipeline.max_keywords", 5)
	v.SetDefault("pipeline.output_dir", "cycle_outputs")
	v.SetDefault("db.keyword_retention_days", 7)
	v.SetDefault("db.max_conns", 4)
	v.SetDefault("scheduler.crawl_cron", "0 * * * *")
	v.SetDefault("scheduler.prune_cron", "30 3 * * *")
	v.SetDefault("logging.development", true)
}

// Validate enforces required values and reasonable limits.
func (c Config) Validate() error {
	if c.HTTP.TimeoutSeconds <= 0 {
		return fmt.Errorf("http.timeout_seconds must be > 0")
	}
	if c.HTTP.Retries < 0 {
		return fmt.Errorf("http.retries must be >= 0")
	}
	if c.Crawler.Concurrency <= 0 {
		return fmt.Errorf("crawler.concurrency must be > 0")
	}
	if c.Analyzer.DominanceFactor <= 0 {
		return fmt.Errorf("analyzer.dominance_factor must be > 0")
	}
	if c.Analyzer.MaxPhraseNouns < 2 {
		return fmt.Errorf("analyzer.max_phrase_nouns must be >= 2")
	}
	if c.Collector.TimeoutSeconds <= 0 {
		return fmt.Errorf("collector.timeout_seconds must be > 0")
	}
	if c.Pipeline.Repeat <= 0 {
		return fmt.Errorf("pipeline.repeat must be > 0")
	}
	return nil
}

// HTTPTimeout converts the configured fetch timeout into a duration.
func (c Config) HTTPTimeout() time.Duration {
	return time.Duration(c.HTTP.TimeoutSeconds) * time.Second
}

// HTTPBackoff converts the configured retry backoff into a duration.
func (c Config) HTTPBackoff() time.Duration {
	return time.Duration(c.HTTP.BackoffMs) * time.Millisecond
}

// CollectorTimeout converts the external tool budget into a duration.
func (c Config) CollectorTimeout() time.Duration {
	return time.Duration(c.Collector.TimeoutSeconds) * time.Second
}

// KeywordRetention converts the pruning window into a duration.
func (c Config) KeywordRetention() time.Duration {
	return time.Duration(c.DB.KeywordRetentionDays) * 24 * time.Hour
}
