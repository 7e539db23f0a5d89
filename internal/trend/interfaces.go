package trend

import (
	"context"
	"time"
)

// TextFetcher retrieves and decodes the text body of a URL.
type TextFetcher interface {
	FetchText(ctx context.Context, url string) (FetchOutcome, error)
}

// FetchOutcome carries the decoded body and elapsed time of one successful
// retrieval. It is created and consumed within a single fetch attempt.
type FetchOutcome struct {
	Text     string
	Duration time.Duration
}

// Tagger provides morphological tagging for headline text. Implementations
// must be safe for concurrent use or be wrapped by the caller.
type Tagger interface {
	Tokens(text string) []Token
}

// CollectRequest captures everything needed for one article-collection call.
type CollectRequest struct {
	Keywords   []string
	Limit      int
	OutputPath string
	ReportPath string
}

// ArticleCollector gathers articles for a set of keywords. The production
// implementation execs an external tool; the invocation mechanism is opaque
// to orchestration.
type ArticleCollector interface {
	CollectArticles(ctx context.Context, req CollectRequest) ([]Article, error)
}

// ChannelStore reads channel configuration.
type ChannelStore interface {
	ListActiveChannels(ctx context.Context) ([]ChannelConfig, error)
}

// KeywordStore persists crawled keyword rows.
type KeywordStore interface {
	SaveCrawlOutput(ctx context.Context, output CrawlOutput) (int, error)
	PruneOlderThan(ctx context.Context, cutoff time.Time) (int64, error)
}

// JobRunStore persists job run ledger rows. The insert must run in its own
// transaction so a rollback inside a job body cannot discard the audit record.
type JobRunStore interface {
	InsertJobRun(ctx context.Context, run JobRun) error
}

// Clock returns the current time (useful for testing).
type Clock interface {
	Now() time.Time
}
