// Package collect invokes the external news-pipeline tool as a timed
// subprocess and loads the article JSON it produces.
package collect

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"time"

	"go.uber.org/zap"

	"github.com/kim-yeo-appweb-lab/trend-korea-api/internal/trend"
)

const stderrPreviewLen = 500

// Config controls the subprocess invocation.
type Config struct {
	// PipelineDir is the external tool's working directory. Required.
	PipelineDir string
	// Command is the argv prefix used to launch the tool.
	// Defaults to ["uv", "run", "news-pipeline"].
	Command []string
	// Timeout bounds the whole subprocess run. Default 600s.
	Timeout time.Duration
}

// Runner implements trend.ArticleCollector over a subprocess boundary.
type Runner struct {
	cfg    Config
	logger *zap.Logger
}

// NewRunner builds a Runner. The pipeline directory is validated at call
// time, not here, so construction never fails.
func NewRunner(cfg Config, logger *zap.Logger) *Runner {
	if len(cfg.Command) == 0 {
		cfg.Command = []string{"uv", "run", "news-pipeline"}
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 600 * time.Second
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Runner{cfg: cfg, logger: logger}
}

// CollectArticles runs the external tool for the requested keywords and
// returns the articles it wrote to the output path. A non-zero exit, an
// invalid pipeline directory or malformed output all surface as errors.
func (r *Runner) CollectArticles(ctx context.Context, req trend.CollectRequest) ([]trend.Article, error) {
	if len(req.Keywords) == 0 {
		return nil, errors.New("collect: no keywords given")
	}
	info, err := os.Stat(r.cfg.PipelineDir)
	if err != nil || !info.IsDir() {
		return nil, fmt.Errorf("collect: pipeline dir %q is not usable, set pipeline.dir or TREND_COLLECTOR_PIPELINE_DIR", r.cfg.PipelineDir)
	}
	if err := os.MkdirAll(filepath.Dir(req.OutputPath), 0o755); err != nil {
		return nil, fmt.Errorf("collect: create output dir: %w", err)
	}

	args := append([]string{}, r.cfg.Command[1:]...)
	args = append(args,
		"--format", "json",
		"--out", req.OutputPath,
		"--limit", strconv.Itoa(req.Limit),
		"--no-spa",
	)
	if req.ReportPath != "" {
		if err := os.MkdirAll(filepath.Dir(req.ReportPath), 0o755); err != nil {
			return nil, fmt.Errorf("collect: create report dir: %w", err)
		}
		args = append(args, "--report-out", req.ReportPath)
	}
	for _, kw := range req.Keywords {
		args = append(args, "--keyword", kw)
	}

	runCtx, cancel := context.WithTimeout(ctx, r.cfg.Timeout)
	defer cancel()

	cmd := exec.CommandContext(runCtx, r.cfg.Command[0], args...)
	cmd.Dir = r.cfg.PipelineDir
	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	r.logger.Info("running article collection",
		zap.Strings("keywords", req.Keywords),
		zap.Int("limit", req.Limit),
		zap.String("out", req.OutputPath),
	)
	start := time.Now()
	if err := cmd.Run(); err != nil {
		if runCtx.Err() == context.DeadlineExceeded {
			return nil, fmt.Errorf("collect: tool timed out after %s", r.cfg.Timeout)
		}
		return nil, fmt.Errorf("collect: tool failed: %w: %s", err, stderrPreview(stderr.Bytes()))
	}

	raw, err := os.ReadFile(req.OutputPath)
	if err != nil {
		return nil, fmt.Errorf("collect: read output: %w", err)
	}
	var articles []trend.Article
	if err := json.Unmarshal(raw, &articles); err != nil {
		return nil, fmt.Errorf("collect: parse output: %w", err)
	}

	r.logger.Info("article collection finished",
		zap.Int("articles", len(articles)),
		zap.Duration("elapsed", time.Since(start)),
	)
	return articles, nil
}

func stderrPreview(b []byte) string {
	if len(b) == 0 {
		return "(no stderr)"
	}
	if len(b) > stderrPreviewLen {
		b = b[:stderrPreviewLen]
	}
	return string(b)
}
