package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Parallel()

	cfg, err := Load("")
	require.NoError(t, err)

	require.Equal(t, 15, cfg.HTTP.TimeoutSeconds)
	require.Equal(t, 2, cfg.HTTP.Retries)
	require.Equal(t, 8, cfg.Crawler.Concurrency)
	require.Equal(t, 20, cfg.Crawler.PerChannelTopN)
	require.Equal(t, 30, cfg.Crawler.AggregatedTopN)
	require.InDelta(t, 1.5, cfg.Analyzer.DominanceFactor, 1e-9)
	require.Equal(t, 4, cfg.Analyzer.MaxPhraseNouns)
	require.Equal(t, 600, cfg.Collector.TimeoutSeconds)
	require.Equal(t, 7, cfg.DB.KeywordRetentionDays)
	require.Equal(t, 10, cfg.Pipeline.Repeat)
}

func TestLoadFromFile(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	body := []byte(`
http:
  timeout_seconds: 5
  retries: 1
crawler:
  concurrency: 2
collector:
  pipeline_dir: /opt/news-pipeline
summarizer:
  model: llama3:8b
`)
	require.NoError(t, os.WriteFile(path, body, 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, 5, cfg.HTTP.TimeoutSeconds)
	require.Equal(t, 1, cfg.HTTP.Retries)
	require.Equal(t, 2, cfg.Crawler.Concurrency)
	require.Equal(t, "/opt/news-pipeline", cfg.Collector.PipelineDir)
	require.Equal(t, "llama3:8b", cfg.Summarizer.Model)
}

func TestValidateRejectsBadValues(t *testing.T) {
	t.Parallel()

	cfg, err := Load("")
	require.NoError(t, err)

	bad := cfg
	bad.HTTP.TimeoutSeconds = 0
	require.Error(t, bad.Validate())

	bad = cfg
	bad.Crawler.Concurrency = 0
	require.Error(t, bad.Validate())

	bad = cfg
	bad.Analyzer.MaxPhraseNouns = 1
	require.Error(t, bad.Validate())
}
