package postgres

import (
	"context"
	"fmt"

	"github.com/kim-yeo-appweb-lab/trend-korea-api/internal/trend"
)

// ChannelStore reads channel configuration from the news_channels table.
type ChannelStore struct {
	db dbConn
}

// NewChannelStore constructs a ChannelStore over an existing pool.
func NewChannelStore(db dbConn) (*ChannelStore, error) {
	if db == nil {
		return nil, fmt.Errorf("pool is required")
	}
	return &ChannelStore{db: db}, nil
}

// Close releases the underlying pool resources.
func (s *ChannelStore) Close() {
	if s == nil || s.db == nil {
		return
	}
	s.db.Close()
}

// ListActiveChannels returns active channels ordered by code.
func (s *ChannelStore) ListActiveChannels(ctx context.Context) ([]trend.ChannelConfig, error) {
	rows, err := s.db.Query(ctx, `
SELECT id, code, symbol, name, url, feed_url, category, is_active
FROM news_channels
WHERE is_active
ORDER BY code`)
	if err != nil {
		return nil, fmt.Errorf("list channels: %w", err)
	}
	defer rows.Close()

	var channels []trend.ChannelConfig
	for rows.Next() {
		var ch trend.ChannelConfig
		var feedURL *string
		if err := rows.Scan(&ch.ID, &ch.Code, &ch.Symbol, &ch.Name, &ch.URL,
			&feedURL, &ch.Category, &ch.Active); err != nil {
			return nil, fmt.Errorf("scan channel: %w", err)
		}
		if feedURL != nil {
			ch.FeedURL = *feedURL
		}
		channels = append(channels, ch)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate channels: %w", err)
	}
	return channels, nil
}
