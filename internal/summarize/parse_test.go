package summarize

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParseResponsePlainArray(t *testing.T) {
	t.Parallel()

	raw := `[{"keyword":"정부 정책","summary":"요약 본문","key_points":["하나"],"sentiment":"neutral","category":"politics","tags":["정부"]}]`
	items, err := ParseResponse(raw)
	require.NoError(t, err)
	require.Len(t, items, 1)
	require.Equal(t, "정부 정책", items[0].Keyword)
	require.Equal(t, "politics", items[0].Category)
}

func TestParseResponseCodeFenced(t *testing.T) {
	t.Parallel()

	raw := "```json\n[{\"keyword\":\"경제\",\"summary\":\"경제 요약\"}]\n```"
	items, err := ParseResponse(raw)
	require.NoError(t, err)
	require.Len(t, items, 1)
	require.Equal(t, "경제", items[0].Keyword)
}

func TestParseResponseNestedKeywordElements(t *testing.T) {
	t.Parallel()

	raw := `[{"keywords":[{"keyword":"태풍","summary":"태풍 요약"},{"keyword":"물가","summary":"물가 요약"}]}]`
	items, err := ParseResponse(raw)
	require.NoError(t, err)
	require.Len(t, items, 2)
	require.Equal(t, "물가", items[1].Keyword)
}

func TestParseResponseKeywordsObject(t *testing.T) {
	t.Parallel()

	raw := `{"keywords":[{"keyword":"선거","summary":"선거 요약"}]}`
	items, err := ParseResponse(raw)
	require.NoError(t, err)
	require.Len(t, items, 1)
	require.Equal(t, "선거", items[0].Keyword)
}

func TestParseResponseStringKeywordsWithArticles(t *testing.T) {
	t.Parallel()

	raw := `{"keywords":["선거","태풍"],"articles":[{"title":"선거","summary":"선거 요약"}]}`
	items, err := ParseResponse(raw)
	require.NoError(t, err)
	require.Len(t, items, 1)
	require.Equal(t, "선거 요약", items[0].Summary)
	require.Equal(t, "선거", items[0].keywordOrTitle())
}

func TestParseResponseStringKeywordsWithoutArticles(t *testing.T) {
	t.Parallel()

	items, err := ParseResponse(`{"keywords":["선거","태풍"]}`)
	require.NoError(t, err)
	require.Empty(t, items)
}

func TestParseResponseDropsSummarylessItems(t *testing.T) {
	t.Parallel()

	raw := `[{"keyword":"유령"},{"keyword":"실체","summary":"있음"}]`
	items, err := ParseResponse(raw)
	require.NoError(t, err)
	require.Len(t, items, 1)
	require.Equal(t, "실체", items[0].Keyword)
}

func TestParseResponseNotJSON(t *testing.T) {
	t.Parallel()

	_, err := ParseResponse("죄송하지만 요약할 수 없습니다.")
	require.Error(t, err)
}

func TestLLMItemEntitiesFallback(t *testing.T) {
	t.Parallel()

	item := llmItem{Entities: []string{"대통령", "국회"}}
	require.Equal(t, []string{"대통령", "국회"}, item.tagsOrEntities())

	item.Tags = []string{"정부"}
	require.Equal(t, []string{"정부"}, item.tagsOrEntities())
}

func TestStripCodeFenceVariants(t *testing.T) {
	t.Parallel()

	require.Equal(t, `{"a":1}`, stripCodeFence("```json\n{\"a\":1}\n```"))
	require.Equal(t, `{"a":1}`, stripCodeFence("```\n{\"a\":1}\n```"))
	require.Equal(t, `{"a":1}`, stripCodeFence(`{"a":1}`))
}
