package analyze

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/kim-yeo-appweb-lab/trend-korea-api/internal/trend"
)

// fakeTagger returns canned token sequences per input text.
type fakeTagger struct {
	byText map[string][]trend.Token
}

func (f *fakeTagger) Tokens(text string) []trend.Token {
	return f.byText[text]
}

func tok(form, tag string) trend.Token {
	return trend.Token{Form: form, Tag: tag}
}

func TestExtractKeywordsCountsPhraseAcrossHeadlines(t *testing.T) {
	t.Parallel()

	tagger := &fakeTagger{byText: map[string][]trend.Token{
		"정부가 정책 발표": {
			tok("정부", "NNG"), tok("가", "JKS"), tok("정책", "NNG"), tok("발표", "NNG"),
		},
		"정부 정책 논란 확산": {
			tok("정부", "NNG"), tok("정책", "NNG"), tok("논란", "NNG"), tok("확산", "NNG"),
		},
	}}

	results := New(tagger, Options{}).ExtractKeywords(
		[]string{"정부가 정책 발표", "정부 정책 논란 확산"}, 10)

	var found *trend.KeywordResult
	for i := range results {
		if results[i].Word == "정부 정책" {
			found = &results[i]
		}
	}
	require.NotNil(t, found, "expected the shared bigram to surface")
	require.GreaterOrEqual(t, found.Count, 2)
	require.Equal(t, 1, found.Rank)
}

func TestExtractKeywordsLoneNouns(t *testing.T) {
	t.Parallel()

	tagger := &fakeTagger{byText: map[string][]trend.Token{
		"삼성 실적":  {tok("삼성", "NNP")},
		"경제 전망":  {tok("경제", "NNG")},
	}}

	results := New(tagger, Options{}).ExtractKeywords([]string{"삼성 실적", "경제 전망"}, 10)
	require.Len(t, results, 1)
	// A lone proper noun stands alone; a lone common noun does not.
	require.Equal(t, "삼성", results[0].Word)
}

func TestExtractKeywordsBridgeTolerance(t *testing.T) {
	t.Parallel()

	a := New(nil, Options{})

	// One particle between nouns keeps the group open.
	groups := a.nounGroups([]trend.Token{
		tok("트럼프", "NNP"), tok("가", "JKS"), tok("관세", "NNG"), tok("부과", "NNG"),
	})
	require.Len(t, groups, 1)
	require.Len(t, groups[0], 3)

	// A verb between nouns closes the group.
	groups = a.nounGroups([]trend.Token{
		tok("정부", "NNG"), tok("발표", "NNG"), tok("하", "VV"), tok("시장", "NNG"), tok("반응", "NNG"),
	})
	require.Len(t, groups, 2)

	// Two consecutive bridges also close it.
	groups = a.nounGroups([]trend.Token{
		tok("정부", "NNG"), tok("의", "JKG"), tok("도", "JX"), tok("정책", "NNG"),
	})
	require.Len(t, groups, 2)
}

func TestExtractKeywordsSkipsStopwordsAndShortForms(t *testing.T) {
	t.Parallel()

	a := New(nil, Options{})
	groups := a.nounGroups([]trend.Token{
		tok("뉴스", "NNG"), tok("물", "NNG"), tok("물가", "NNG"), tok("상승", "NNG"),
	})
	require.Len(t, groups, 1)
	require.Equal(t, "물가", groups[0][0].Form)
	require.Equal(t, "상승", groups[0][1].Form)
}

func TestPhrasesFromGroupSubsequences(t *testing.T) {
	t.Parallel()

	a := New(nil, Options{})
	phrases := a.phrasesFromGroup([]trend.Token{
		tok("트럼프", "NNP"), tok("관세", "NNG"), tok("부과", "NNG"),
	})
	require.ElementsMatch(t, []string{
		"트럼프 관세", "관세 부과", "트럼프 관세 부과",
	}, phrases)
}

func TestPhrasesFromGroupCapsLength(t *testing.T) {
	t.Parallel()

	a := New(nil, Options{MaxPhraseNouns: 4})
	group := []trend.Token{
		tok("하나", "NNG"), tok("둘째", "NNG"), tok("셋째", "NNG"),
		tok("넷째", "NNG"), tok("다섯", "NNG"),
	}
	for _, p := range a.phrasesFromGroup(group) {
		require.LessOrEqual(t, len(wordSet(p)), 4)
	}
}

func TestFilterSubphrasesDropsCoveredPhrases(t *testing.T) {
	t.Parallel()

	a := New(nil, Options{})
	ranked := []phraseCount{
		{phrase: "트럼프 관세 부과", count: 5},
		{phrase: "관세 부과", count: 5},
		{phrase: "올림픽 유치", count: 4},
	}
	kept := a.filterSubphrases(ranked, 10)
	require.Equal(t, []phraseCount{
		{phrase: "트럼프 관세 부과", count: 5},
		{phrase: "올림픽 유치", count: 4},
	}, kept)
}

func TestFilterSubphrasesKeepsDominantSubphrase(t *testing.T) {
	t.Parallel()

	a := New(nil, Options{})
	ranked := []phraseCount{
		{phrase: "관세 부과", count: 9},
		{phrase: "트럼프 관세 부과", count: 5},
	}
	kept := a.filterSubphrases(ranked, 10)
	// The longer phrase is covered by the accepted one but only at count 5,
	// within 1.5x of 9, so it is dropped; the frequent sub-phrase stays.
	require.Equal(t, []phraseCount{{phrase: "관세 부과", count: 9}}, kept)
}

func TestFilterSubphrasesIdempotent(t *testing.T) {
	t.Parallel()

	a := New(nil, Options{})
	ranked := []phraseCount{
		{phrase: "정부 정책 발표", count: 7},
		{phrase: "정부 정책", count: 6},
		{phrase: "시장 반응", count: 3},
	}
	once := a.filterSubphrases(ranked, 10)
	twice := a.filterSubphrases(once, 10)
	require.Equal(t, once, twice)
}

func TestFilterSubphrasesHonorsTopN(t *testing.T) {
	t.Parallel()

	a := New(nil, Options{})
	ranked := []phraseCount{
		{phrase: "하나 키워드", count: 5},
		{phrase: "둘째 키워드", count: 4},
		{phrase: "셋째 키워드", count: 3},
	}
	require.Len(t, a.filterSubphrases(ranked, 2), 2)
}

func TestExtractKeywordsSimpleFallback(t *testing.T) {
	t.Parallel()

	a := New(nil, Options{})
	results := a.ExtractKeywords([]string{
		"정부 정책 발표",
		"정부 뉴스 속보",
	}, 10)

	require.NotEmpty(t, results)
	require.Equal(t, "정부", results[0].Word)
	require.Equal(t, 2, results[0].Count)
	for _, r := range results {
		require.NotContains(t, []string{"뉴스", "속보"}, r.Word)
	}
}

func TestExtractKeywordsEmptyInput(t *testing.T) {
	t.Parallel()

	a := New(NewRuleTagger(), Options{})
	require.Empty(t, a.ExtractKeywords(nil, 10))
}

func TestRanksAreSequential(t *testing.T) {
	t.Parallel()

	a := New(nil, Options{})
	results := a.ExtractKeywordsSimple([]string{"경제 위기", "경제 성장", "수출 호조"}, 10)
	for i, r := range results {
		require.Equal(t, i+1, r.Rank)
	}
	require.Equal(t, "경제", results[0].Word)
}
