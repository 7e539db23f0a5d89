package crawl

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/kim-yeo-appweb-lab/trend-korea-api/internal/analyze"
	"github.com/kim-yeo-appweb-lab/trend-korea-api/internal/extract"
	"github.com/kim-yeo-appweb-lab/trend-korea-api/internal/trend"
)

// fakeFetcher serves canned bodies per URL and fails everything else.
type fakeFetcher struct {
	bodies map[string]string
	errs   map[string]error
}

func (f *fakeFetcher) FetchText(_ context.Context, url string) (trend.FetchOutcome, error) {
	if err, ok := f.errs[url]; ok {
		return trend.FetchOutcome{}, err
	}
	if body, ok := f.bodies[url]; ok {
		return trend.FetchOutcome{Text: body, Duration: 5 * time.Millisecond}, nil
	}
	return trend.FetchOutcome{}, errors.New("no route to host")
}

type panicFetcher struct{}

func (panicFetcher) FetchText(context.Context, string) (trend.FetchOutcome, error) {
	panic("fetcher blew up")
}

// nounTagger tags every whitespace-separated word of at least two runes as a
// common noun, which is enough to drive phrase grouping in tests.
type nounTagger struct{}

func (nounTagger) Tokens(text string) []trend.Token {
	var tokens []trend.Token
	for _, w := range strings.Fields(text) {
		if len([]rune(w)) >= 2 {
			tokens = append(tokens, trend.Token{Form: w, Tag: "NNG"})
		}
	}
	return tokens
}

type fixedClock struct{ t time.Time }

func (c fixedClock) Now() time.Time { return c.t }

const feedA = `<?xml version="1.0" encoding="UTF-8"?>
<rss version="2.0"><channel><title>A</title>
<item><title>정부 새 정책 발표</title></item>
<item><title>정부 정책 논란 확산</title></item>
</channel></rss>`

func newTestOrchestrator(fetcher trend.TextFetcher, opts Options) *Orchestrator {
	analyzer := analyze.New(nounTagger{}, analyze.Options{})
	clock := fixedClock{t: time.Date(2026, 8, 28, 7, 0, 0, 0, time.UTC)}
	return New(fetcher, extract.New(), analyzer, clock, zap.NewNop(), opts)
}

func TestRunTwoChannelsOneFailing(t *testing.T) {
	t.Parallel()

	fetcher := &fakeFetcher{
		bodies: map[string]string{"http://a.example/feed": feedA},
		errs:   map[string]error{"http://b.example": errors.New("connection refused")},
	}
	o := newTestOrchestrator(fetcher, Options{AggregatedTopN: 10})

	output := o.Run(context.Background(), []trend.ChannelConfig{
		{Code: "a", Name: "채널A", URL: "http://a.example", FeedURL: "http://a.example/feed", Active: true},
		{Code: "b", Name: "채널B", URL: "http://b.example", Active: true},
	})

	require.Equal(t, 2, output.TotalChannels)
	require.Equal(t, 1, output.SuccessfulChannels)
	require.Equal(t, 1, output.FailedChannels)
	require.Equal(t, output.TotalChannels, output.SuccessfulChannels+output.FailedChannels)

	var found *trend.KeywordResult
	for i := range output.AggregatedKeywords {
		if output.AggregatedKeywords[i].Word == "정부 정책" {
			found = &output.AggregatedKeywords[i]
		}
	}
	require.NotNil(t, found)
	require.GreaterOrEqual(t, found.Count, 2)

	for _, res := range output.Channels {
		require.Contains(t, []trend.FetchStatus{
			trend.FetchStatusSuccess, trend.FetchStatusFailed,
			trend.FetchStatusBlocked, trend.FetchStatusTimeout,
		}, res.FetchStatus)
	}
}

func TestRunZeroChannels(t *testing.T) {
	t.Parallel()

	o := newTestOrchestrator(&fakeFetcher{}, Options{})
	output := o.Run(context.Background(), nil)

	require.Zero(t, output.TotalChannels)
	require.Zero(t, output.SuccessfulChannels)
	require.Zero(t, output.FailedChannels)
	require.Empty(t, output.Channels)
	require.Empty(t, output.AggregatedKeywords)
	require.False(t, output.CrawledAt.IsZero())
}

func TestRunSkipsInactiveAndFilteredChannels(t *testing.T) {
	t.Parallel()

	fetcher := &fakeFetcher{bodies: map[string]string{"http://a.example/feed": feedA}}
	o := newTestOrchestrator(fetcher, Options{CategoryFilter: "broadcast"})

	output := o.Run(context.Background(), []trend.ChannelConfig{
		{Code: "a", URL: "http://a.example", FeedURL: "http://a.example/feed", Category: "broadcast", Active: true},
		{Code: "off", URL: "http://off.example", Category: "broadcast", Active: false},
		{Code: "paper", URL: "http://p.example", Category: "newspaper", Active: true},
	})

	require.Equal(t, 1, output.TotalChannels)
	require.Equal(t, "a", output.Channels[0].ChannelCode)
}

func TestRunMarksBlockedChannel(t *testing.T) {
	t.Parallel()

	fetcher := &fakeFetcher{bodies: map[string]string{
		"http://blocked.example": "<html><body>Access Denied</body></html>",
	}}
	o := newTestOrchestrator(fetcher, Options{})

	output := o.Run(context.Background(), []trend.ChannelConfig{
		{Code: "x", URL: "http://blocked.example", Active: true},
	})

	require.Equal(t, trend.FetchStatusBlocked, output.Channels[0].FetchStatus)
	require.Equal(t, 1, output.FailedChannels)
	require.Zero(t, output.SuccessfulChannels)
}

func TestCrawlChannelRecoversFromPanic(t *testing.T) {
	t.Parallel()

	o := newTestOrchestrator(panicFetcher{}, Options{})
	output := o.Run(context.Background(), []trend.ChannelConfig{
		{Code: "boom", URL: "http://boom.example", Active: true},
	})

	require.Equal(t, 1, output.FailedChannels)
	res := output.Channels[0]
	require.Equal(t, trend.FetchStatusFailed, res.FetchStatus)
	require.Contains(t, res.ErrorMessage, "panic")
}

func TestTruncateError(t *testing.T) {
	t.Parallel()

	o := newTestOrchestrator(&fakeFetcher{}, Options{MaxErrorMsgLen: 10})
	require.Equal(t, "0123456789", o.truncateError("0123456789abcdef"))
	require.Equal(t, "short", o.truncateError("short"))
}

func TestRunUsesConfiguredFeedOverSiteDefault(t *testing.T) {
	t.Parallel()

	fetcher := &fakeFetcher{bodies: map[string]string{"http://override.example/rss": feedA}}
	o := newTestOrchestrator(fetcher, Options{})

	output := o.Run(context.Background(), []trend.ChannelConfig{
		{Code: "sbs", URL: "http://sbs.example", FeedURL: "http://override.example/rss", Active: true},
	})

	require.Equal(t, 1, output.SuccessfulChannels)
	require.Len(t, output.Channels[0].Headlines, 2)
}
