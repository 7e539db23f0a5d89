package postgres

import (
	"context"
	"errors"
	"testing"

	"github.com/pashagolub/pgxmock/v3"
	"github.com/stretchr/testify/require"

	"github.com/kim-yeo-appweb-lab/trend-korea-api/internal/trend"
)

func TestListActiveChannels(t *testing.T) {
	t.Parallel()

	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	store, err := NewChannelStore(mock)
	require.NoError(t, err)

	feed := "https://news.sbs.co.kr/rss"
	rows := pgxmock.NewRows([]string{
		"id", "code", "symbol", "name", "url", "feed_url", "category", "is_active",
	}).
		AddRow("id-1", "kbs", "KBS", "KBS 뉴스", "https://news.kbs.co.kr", (*string)(nil), "broadcast", true).
		AddRow("id-2", "sbs", "SBS", "SBS 뉴스", "https://news.sbs.co.kr", &feed, "broadcast", true)

	mock.ExpectQuery("SELECT (.+) FROM news_channels").WillReturnRows(rows)

	channels, err := store.ListActiveChannels(context.Background())
	require.NoError(t, err)
	require.Len(t, channels, 2)
	require.Equal(t, "kbs", channels[0].Code)
	require.Empty(t, channels[0].FeedURL)
	require.Equal(t, "https://news.sbs.co.kr/rss", channels[1].FeedURL)
	require.True(t, channels[1].Active)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestListActiveChannelsQueryFailure(t *testing.T) {
	t.Parallel()

	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	store, err := NewChannelStore(mock)
	require.NoError(t, err)

	mock.ExpectQuery("SELECT (.+) FROM news_channels").
		WillReturnError(errors.New("relation does not exist"))

	_, err = store.ListActiveChannels(context.Background())
	require.Error(t, err)
}

var _ trend.ChannelStore = (*ChannelStore)(nil)
var _ trend.KeywordStore = (*KeywordStore)(nil)
var _ trend.JobRunStore = (*JobRunStore)(nil)
