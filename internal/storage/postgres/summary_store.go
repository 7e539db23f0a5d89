package postgres

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/kim-yeo-appweb-lab/trend-korea-api/internal/trend"
)

// SummaryStore persists summarization batches with their per-keyword
// summaries and tags.
type SummaryStore struct {
	db dbConn
}

// NewSummaryStore constructs a SummaryStore over an existing pool.
func NewSummaryStore(db dbConn) (*SummaryStore, error) {
	if db == nil {
		return nil, fmt.Errorf("pool is required")
	}
	return &SummaryStore{db: db}, nil
}

// Close releases the underlying pool resources.
func (s *SummaryStore) Close() {
	if s == nil || s.db == nil {
		return
	}
	s.db.Close()
}

// SaveSummaryOutput writes one batch row plus a summary row per keyword and
// a tag row per tag. It returns the generated batch id.
func (s *SummaryStore) SaveSummaryOutput(ctx context.Context, output trend.SummaryOutput) (string, error) {
	now := time.Now().UTC()
	batchID := uuid.NewString()

	_, err := s.db.Exec(ctx, `
INSERT INTO news_summary_batches (
	id,
	provider,
	model,
	total_keywords,
	total_articles,
	prompt_tokens,
	completion_tokens,
	summarized_at,
	created_at
) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)`,
		batchID, output.Provider, output.Model,
		output.TotalKeywords, output.TotalArticles,
		output.TotalTokens.Prompt, output.TotalTokens.Completion,
		output.SummarizedAt, now)
	if err != nil {
		return "", fmt.Errorf("insert summary batch: %w", err)
	}

	for _, ks := range output.Keywords {
		summaryID := uuid.NewString()
		keyPoints, err := json.Marshal(ks.KeyPoints)
		if err != nil {
			return batchID, fmt.Errorf("marshal key points: %w", err)
		}
		articles, err := json.Marshal(ks.Articles)
		if err != nil {
			return batchID, fmt.Errorf("marshal articles: %w", err)
		}
		_, err = s.db.Exec(ctx, `
INSERT INTO news_keyword_summaries (
	id,
	batch_id,
	keyword,
	summary,
	key_points,
	sentiment,
	category,
	article_count,
	articles,
	created_at
) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10)`,
			summaryID, batchID, ks.Keyword, ks.Summary, keyPoints,
			ks.Sentiment, ks.Category, ks.ArticleCount, articles, now)
		if err != nil {
			return batchID, fmt.Errorf("insert keyword summary: %w", err)
		}

		for _, tag := range ks.Tags {
			tag = strings.TrimSpace(tag)
			if tag == "" {
				continue
			}
			if len([]rune(tag)) > 50 {
				tag = string([]rune(tag)[:50])
			}
			_, err = s.db.Exec(ctx, `
INSERT INTO news_summary_tags (
	id,
	summary_id,
	tag,
	created_at
) VALUES ($1,$2,$3,$4)`,
				uuid.NewString(), summaryID, tag, now)
			if err != nil {
				return batchID, fmt.Errorf("insert summary tag: %w", err)
			}
		}
	}
	return batchID, nil
}
