package collect

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/kim-yeo-appweb-lab/trend-korea-api/internal/trend"
)

// writeStub creates an executable script standing in for the external tool.
func writeStub(t *testing.T, dir, body string) string {
	t.Helper()
	path := filepath.Join(dir, "stub.sh")
	require.NoError(t, os.WriteFile(path, []byte("#!/bin/sh\n"+body), 0o755))
	return path
}

func TestCollectArticlesReadsToolOutput(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	outPath := filepath.Join(dir, "articles", "out.json")
	// The stub ignores its flags and writes a fixed article list to the
	// path given after --out.
	stub := writeStub(t, dir, `
while [ "$1" != "--out" ]; do shift; done
cat > "$2" <<'EOF'
[{"keyword":"정부 정책","title":"정책 기사","url":"https://n.example/1","channel":"sbs","confidence":0.9,"content_text":"본문"}]
EOF
`)

	r := NewRunner(Config{PipelineDir: dir, Command: []string{stub}}, zap.NewNop())
	articles, err := r.CollectArticles(context.Background(), trend.CollectRequest{
		Keywords:   []string{"정부 정책"},
		Limit:      3,
		OutputPath: outPath,
	})
	require.NoError(t, err)
	require.Len(t, articles, 1)
	require.Equal(t, "정부 정책", articles[0].Keyword)
	require.Equal(t, "sbs", articles[0].Channel)
}

func TestCollectArticlesNonZeroExit(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	stub := writeStub(t, dir, `echo "boom stderr" >&2; exit 3`)

	r := NewRunner(Config{PipelineDir: dir, Command: []string{stub}}, zap.NewNop())
	_, err := r.CollectArticles(context.Background(), trend.CollectRequest{
		Keywords:   []string{"경제"},
		Limit:      3,
		OutputPath: filepath.Join(dir, "out.json"),
	})
	require.Error(t, err)
	require.Contains(t, err.Error(), "boom stderr")
}

func TestCollectArticlesInvalidPipelineDir(t *testing.T) {
	t.Parallel()

	r := NewRunner(Config{PipelineDir: "/does/not/exist"}, zap.NewNop())
	_, err := r.CollectArticles(context.Background(), trend.CollectRequest{
		Keywords:   []string{"경제"},
		OutputPath: filepath.Join(t.TempDir(), "out.json"),
	})
	require.Error(t, err)
	require.Contains(t, err.Error(), "pipeline dir")
}

func TestCollectArticlesRequiresKeywords(t *testing.T) {
	t.Parallel()

	r := NewRunner(Config{PipelineDir: t.TempDir()}, zap.NewNop())
	_, err := r.CollectArticles(context.Background(), trend.CollectRequest{})
	require.Error(t, err)
}

func TestCollectArticlesTimeout(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	stub := writeStub(t, dir, `sleep 5`)

	r := NewRunner(Config{
		PipelineDir: dir,
		Command:     []string{stub},
		Timeout:     100 * time.Millisecond,
	}, zap.NewNop())
	_, err := r.CollectArticles(context.Background(), trend.CollectRequest{
		Keywords:   []string{"경제"},
		OutputPath: filepath.Join(dir, "out.json"),
	})
	require.Error(t, err)
	require.Contains(t, err.Error(), "timed out")
}

func TestCollectArticlesMalformedOutput(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	stub := writeStub(t, dir, `
while [ "$1" != "--out" ]; do shift; done
echo "not json" > "$2"
`)

	r := NewRunner(Config{PipelineDir: dir, Command: []string{stub}}, zap.NewNop())
	_, err := r.CollectArticles(context.Background(), trend.CollectRequest{
		Keywords:   []string{"경제"},
		OutputPath: filepath.Join(dir, "out.json"),
	})
	require.Error(t, err)
	require.Contains(t, err.Error(), "parse output")
}
