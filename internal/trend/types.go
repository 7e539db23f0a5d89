// Package trend defines core types shared across the keyword pipeline subsystems.
package trend

import (
	"time"
)

// FetchStatus classifies the outcome of a single channel crawl.
type FetchStatus string

// Fetch status values recorded on channel crawl results.
const (
	FetchStatusSuccess FetchStatus = "success"
	FetchStatusFailed  FetchStatus = "failed"
	FetchStatusBlocked FetchStatus = "blocked"
	FetchStatusTimeout FetchStatus = "timeout"
)

// ChannelConfig describes one configured news channel. Rows come from the
// news_channels table and are read-only to the crawl subsystem.
type ChannelConfig struct {
	ID       string `json:"id"`
	Code     string `json:"code"`
	Symbol   string `json:"symbol"`
	Name     string `json:"name"`
	URL      string `json:"url"`
	FeedURL  string `json:"feed_url,omitempty"`
	Category string `json:"category"`
	Active   bool   `json:"is_active"`
}

// KeywordResult is one ranked keyword phrase produced by the analyzer.
type KeywordResult struct {
	Word  string `json:"word"`
	Count int    `json:"count"`
	Rank  int    `json:"rank"`
}

// ChannelCrawlResult is the per-channel outcome of one crawl run. It is
// immutable after creation.
type ChannelCrawlResult struct {
	ChannelCode     string          `json:"channel_code"`
	ChannelName     string          `json:"channel_name"`
	ChannelURL      string          `json:"channel_url"`
	Category        string          `json:"category"`
	Headlines       []string        `json:"headlines"`
	Keywords        []KeywordResult `json:"keywords"`
	FetchStatus     FetchStatus     `json:"fetch_status"`
	ErrorMessage    string          `json:"error_message,omitempty"`
	FetchDurationMs int64           `json:"fetch_duration_ms"`
}

// CrawlOutput is the run-level aggregate handed to persistence and to the
// next pipeline stage.
type CrawlOutput struct {
	CrawledAt          time.Time            `json:"crawled_at"`
	TotalChannels      int                  `json:"total_channels"`
	SuccessfulChannels int                  `json:"successful_channels"`
	FailedChannels     int                  `json:"failed_channels"`
	Channels           []ChannelCrawlResult `json:"channels"`
	AggregatedKeywords []KeywordResult      `json:"aggregated_keywords"`
}

// Token is a single morphologically tagged token of a headline.
type Token struct {
	Form string
	Tag  string
}

// Article is one collected news article as produced by the external
// article-collection tool.
type Article struct {
	Keyword     string  `json:"keyword"`
	Title       string  `json:"title"`
	URL         string  `json:"url"`
	Channel     string  `json:"channel"`
	Confidence  float64 `json:"confidence"`
	ContentText string  `json:"content_text"`
}

// JobRun is the durable record of one scheduled job execution attempt. It is
// written exactly once per attempt, regardless of the job body's outcome.
type JobRun struct {
	ID         string    `json:"id"`
	JobName    string    `json:"job_name"`
	Status     string    `json:"status"`
	Detail     string    `json:"detail,omitempty"`
	StartedAt  time.Time `json:"started_at"`
	FinishedAt time.Time `json:"finished_at"`
}

// Job run status values persisted in the job_runs table.
const (
	JobStatusSuccess = "success"
	JobStatusFailed  = "failed"
)

// Keyword row source types persisted in the crawled_keywords table.
const (
	SourceTypeChannel    = "channel"
	SourceTypeAggregated = "aggregated"
)

// KeywordSummary is the per-keyword result of one summarization call.
type KeywordSummary struct {
	Keyword      string           `json:"keyword"`
	ArticleCount int              `json:"article_count"`
	Summary      string           `json:"summary"`
	KeyPoints    []string         `json:"key_points"`
	Sentiment    string           `json:"sentiment"`
	Category     string           `json:"category"`
	Tags         []string         `json:"tags"`
	Articles     []ArticleSummary `json:"articles"`
}

// ArticleSummary is the trimmed article reference attached to a keyword summary.
type ArticleSummary struct {
	Title      string  `json:"title"`
	URL        string  `json:"url"`
	Channel    string  `json:"channel"`
	Confidence float64 `json:"confidence"`
}

// TokenUsage reports prompt/completion token counts of one LLM call.
type TokenUsage struct {
	Prompt     int `json:"prompt"`
	Completion int `json:"completion"`
	Total      int `json:"total"`
}

// SummaryOutput is the full result of one summarization run.
type SummaryOutput struct {
	SummarizedAt  time.Time        `json:"summarized_at"`
	Provider      string           `json:"provider"`
	Model         string           `json:"model"`
	APICalls      int              `json:"api_calls"`
	TotalKeywords int              `json:"total_keywords"`
	TotalArticles int              `json:"total_articles"`
	TotalTokens   TokenUsage       `json:"total_tokens"`
	Keywords      []KeywordSummary `json:"keywords"`
	RawResponse   string           `json:"_raw_response,omitempty"`
}

// CycleStage names the pipeline stage at which a cycle succeeded or failed.
type CycleStage string

// Cycle stages in execution order.
const (
	StageKeyword   CycleStage = "keyword"
	StageCrawl     CycleStage = "crawl"
	StageSummarize CycleStage = "summarize"
)

// CycleResult is the metadata recorded for one pipeline cycle.
type CycleResult struct {
	Cycle             int        `json:"cycle"`
	Status            string     `json:"status"`
	Stage             CycleStage `json:"stage,omitempty"`
	ElapsedSeconds    float64    `json:"elapsed"`
	KeywordsExtracted int        `json:"keywords_extracted,omitempty"`
	KeywordsUsed      int        `json:"keywords_used,omitempty"`
	ArticlesCollected int        `json:"articles_collected,omitempty"`
	Summaries         int        `json:"summaries,omitempty"`
	TotalTags         int        `json:"total_tags,omitempty"`
	Tokens            TokenUsage `json:"tokens,omitzero"`
	Model             string     `json:"model,omitempty"`
}

// Cycle status values.
const (
	CycleStatusOK   = "ok"
	CycleStatusFail = "fail"
)
