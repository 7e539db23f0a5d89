// Package fetch implements the channel fetcher: a single remote text
// retrieval with retry, client-identity rotation, charset-tolerant decoding,
// and anti-bot page classification.
package fetch

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"net"
	"os"
	"time"

	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"

	"github.com/kim-yeo-appweb-lab/trend-korea-api/internal/metrics"
	"github.com/kim-yeo-appweb-lab/trend-korea-api/internal/trend"
)

var userAgents = []string{
	"Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/126.0.0.0 Safari/537.36",
	"Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/127.0.0.0 Safari/537.36",
	"Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/126.0.0.0 Safari/537.36",
}

var defaultHeaders = map[string]string{
	"Accept-Language": "ko-KR,ko;q=0.9,en-US;q=0.8,en;q=0.7",
	"Accept":          "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8",
	"Cache-Control":   "no-cache",
	"Pragma":          "no-cache",
}

// Config controls Client retry behavior.
type Config struct {
	Timeout time.Duration
	Retries int
	Backoff time.Duration
}

// Client implements trend.TextFetcher over a resty HTTP client.
type Client struct {
	rest   *resty.Client
	cfg    Config
	logger *zap.Logger
}

// NewClient builds a fetch client. Redirects are followed; retries are
// handled here rather than by resty so each attempt rotates its identity
// headers.
func NewClient(cfg Config, logger *zap.Logger) *Client {
	if cfg.Timeout <= 0 {
		cfg.Timeout = 15 * time.Second
	}
	if cfg.Retries < 0 {
		cfg.Retries = 0
	}
	if cfg.Backoff <= 0 {
		cfg.Backoff = 500 * time.Millisecond
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	rest := resty.New().
		SetTimeout(cfg.Timeout).
		SetDoNotParseResponse(false)
	return &Client{rest: rest, cfg: cfg, logger: logger}
}

// FetchText retrieves url and returns the decoded body. On transport errors
// it sleeps backoff*(attempt+1) between attempts, up to cfg.Retries extra
// attempts, then surfaces the last underlying error.
func (c *Client) FetchText(ctx context.Context, url string) (trend.FetchOutcome, error) {
	start := time.Now()
	var lastErr error

	for attempt := 0; attempt <= c.cfg.Retries; attempt++ {
		req := c.rest.R().
			SetContext(ctx).
			SetHeaders(defaultHeaders).
			SetHeader("User-Agent", userAgents[rand.Intn(len(userAgents))])

		resp, err := req.Get(url)
		if err == nil && resp.StatusCode() >= 400 {
			err = fmt.Errorf("unexpected status %d", resp.StatusCode())
		}
		if err == nil {
			metrics.FetchAttempt("ok")
			text := decodeBody(resp.Body(), resp.Header().Get("Content-Type"))
			return trend.FetchOutcome{Text: text, Duration: time.Since(start)}, nil
		}

		metrics.FetchAttempt("error")
		lastErr = err
		c.logger.Debug("fetch attempt failed",
			zap.String("url", url),
			zap.Int("attempt", attempt),
			zap.Error(err),
		)
		if attempt < c.cfg.Retries {
			wait := c.cfg.Backoff * time.Duration(attempt+1)
			select {
			case <-ctx.Done():
				return trend.FetchOutcome{}, fmt.Errorf("fetch canceled for %s: %w", url, ctx.Err())
			case <-time.After(wait):
			}
		}
	}

	return trend.FetchOutcome{}, fmt.Errorf("fetch failed for %s: %w", url, lastErr)
}

// ClassifyError maps a terminal fetch error onto a channel fetch status.
// Timeouts are reported distinctly so operators can tell slow channels from
// broken ones.
func ClassifyError(err error) trend.FetchStatus {
	if err == nil {
		return trend.FetchStatusSuccess
	}
	if errors.Is(err, context.DeadlineExceeded) || os.IsTimeout(err) {
		return trend.FetchStatusTimeout
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return trend.FetchStatusTimeout
	}
	return trend.FetchStatusFailed
}
