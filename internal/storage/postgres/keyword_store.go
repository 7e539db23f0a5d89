package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/kim-yeo-appweb-lab/trend-korea-api/internal/trend"
)

const insertKeywordSQL = `
INSERT INTO crawled_keywords (
	id,
	keyword,
	count,
	rank,
	channel_code,
	channel_name,
	category,
	source_type,
	crawled_at
) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)`

// KeywordStore persists crawled keyword rows. Every aggregation write also
// prunes rows older than the retention window.
type KeywordStore struct {
	db        dbConn
	retention time.Duration
}

// NewKeywordStore constructs a KeywordStore. A non-positive retention
// defaults to 7 days.
func NewKeywordStore(db dbConn, retention time.Duration) (*KeywordStore, error) {
	if db == nil {
		return nil, fmt.Errorf("pool is required")
	}
	if retention <= 0 {
		retention = 7 * 24 * time.Hour
	}
	return &KeywordStore{db: db, retention: retention}, nil
}

// Close releases the underlying pool resources.
func (s *KeywordStore) Close() {
	if s == nil || s.db == nil {
		return
	}
	s.db.Close()
}

// SaveCrawlOutput flattens the crawl output into keyword rows: one row per
// channel keyword and one per aggregated keyword, then prunes rows older
// than the retention window. It returns the number of rows inserted.
func (s *KeywordStore) SaveCrawlOutput(ctx context.Context, output trend.CrawlOutput) (int, error) {
	inserted := 0
	for _, ch := range output.Channels {
		if ch.FetchStatus != trend.FetchStatusSuccess {
			continue
		}
		for _, kw := range ch.Keywords {
			args := []any{
				uuid.NewString(), kw.Word, kw.Count, kw.Rank,
				ch.ChannelCode, ch.ChannelName, ch.Category,
				trend.SourceTypeChannel, output.CrawledAt,
			}
			if _, err := s.db.Exec(ctx, insertKeywordSQL, args...); err != nil {
				return inserted, fmt.Errorf("insert channel keyword: %w", err)
			}
			inserted++
		}
	}

	for _, kw := range output.AggregatedKeywords {
		args := []any{
			uuid.NewString(), kw.Word, kw.Count, kw.Rank,
			"", "전체", "",
			trend.SourceTypeAggregated, output.CrawledAt,
		}
		if _, err := s.db.Exec(ctx, insertKeywordSQL, args...); err != nil {
			return inserted, fmt.Errorf("insert aggregated keyword: %w", err)
		}
		inserted++
	}

	if _, err := s.PruneOlderThan(ctx, output.CrawledAt.Add(-s.retention)); err != nil {
		return inserted, err
	}
	return inserted, nil
}

// PruneOlderThan deletes keyword rows crawled before the cutoff and returns
// the number of rows removed.
func (s *KeywordStore) PruneOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	tag, err := s.db.Exec(ctx, `DELETE FROM crawled_keywords WHERE crawled_at < $1`, cutoff)
	if err != nil {
		return 0, fmt.Errorf("prune keywords: %w", err)
	}
	return tag.RowsAffected(), nil
}
