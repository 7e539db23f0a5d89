package summarize

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/kim-yeo-appweb-lab/trend-korea-api/internal/trend"
)

const (
	maxArticlesPerKeyword = 3
	maxContentChars       = 500
)

// systemPrompt pins the response contract for lightweight local models.
const systemPrompt = `뉴스 기사를 키워드별로 요약하세요.
반드시 순수 JSON 배열만 출력하세요. 마크다운 코드블록(` + "```" + `)을 쓰지 마세요.

[
  {
    "keyword": "입력 키워드 그대로",
    "summary": "이슈 배경, 현재 상황, 전망을 포함한 상세 요약 (300자 이상)",
    "key_points": ["핵심 포인트 1", "핵심 포인트 2", "핵심 포인트 3"],
    "sentiment": "positive 또는 negative 또는 neutral 또는 mixed 중 하나",
    "category": "politics 또는 economy 또는 society 또는 international 또는 culture 또는 technology 중 하나",
    "tags": ["관련 태그1", "관련 태그2", "관련 태그3"]
  }
]

반드시 지킬 것:
1. keyword는 입력에 있는 키워드를 그대로 복사
2. summary는 한글 300자 이상으로 상세하게 작성
3. key_points는 3개 이상, 각각 한 문장
4. tags는 인물명, 기관명, 핵심 주제어를 3~7개
5. 입력에 없는 키워드를 추가하지 말 것
`

// LoadArticles reads a JSON array file, or one JSON object per line when the
// file ends in .jsonl.
func LoadArticles(path string) ([]trend.Article, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("summarize: open input: %w", err)
	}
	defer f.Close()

	if filepath.Ext(path) == ".jsonl" {
		var articles []trend.Article
		scanner := bufio.NewScanner(f)
		scanner.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)
		for scanner.Scan() {
			line := strings.TrimSpace(scanner.Text())
			if line == "" {
				continue
			}
			var a trend.Article
			if err := json.Unmarshal([]byte(line), &a); err != nil {
				return nil, fmt.Errorf("summarize: parse jsonl line: %w", err)
			}
			articles = append(articles, a)
		}
		if err := scanner.Err(); err != nil {
			return nil, fmt.Errorf("summarize: read jsonl: %w", err)
		}
		return articles, nil
	}

	var articles []trend.Article
	if err := json.NewDecoder(f).Decode(&articles); err != nil {
		return nil, fmt.Errorf("summarize: parse input: %w", err)
	}
	return articles, nil
}

// keywordGroups holds articles bucketed by keyword, keeping the keywords in
// first-occurrence order so output and prompts are deterministic.
type keywordGroups struct {
	order []string
	byKW  map[string][]trend.Article
}

// GroupByKeyword buckets articles by keyword and sorts each bucket by
// confidence, highest first.
func GroupByKeyword(articles []trend.Article) keywordGroups {
	g := keywordGroups{byKW: make(map[string][]trend.Article)}
	for _, a := range articles {
		if _, ok := g.byKW[a.Keyword]; !ok {
			g.order = append(g.order, a.Keyword)
		}
		g.byKW[a.Keyword] = append(g.byKW[a.Keyword], a)
	}
	for _, kw := range g.order {
		bucket := g.byKW[kw]
		sort.SliceStable(bucket, func(i, j int) bool {
			return bucket[i].Confidence > bucket[j].Confidence
		})
	}
	return g
}

// BuildCombinedPrompt renders every keyword group into one user payload,
// keeping at most three representative articles per keyword and truncating
// article content to 500 runes.
func BuildCombinedPrompt(groups keywordGroups) string {
	var b strings.Builder
	fmt.Fprintf(&b, "총 %d개 키워드에 대한 뉴스 기사입니다.\n\n", len(groups.order))

	rule := strings.Repeat("=", 50)
	for _, keyword := range groups.order {
		articles := groups.byKW[keyword]
		if len(articles) > maxArticlesPerKeyword {
			articles = articles[:maxArticlesPerKeyword]
		}
		b.WriteString(rule + "\n")
		fmt.Fprintf(&b, "[키워드: %q] 관련 기사 %d건\n", keyword, len(articles))
		b.WriteString(rule + "\n")

		for i, a := range articles {
			title := a.Title
			if title == "" {
				title = "(제목 없음)"
			}
			fmt.Fprintf(&b, "\n--- 기사 %d [%s] ---\n", i+1, a.Channel)
			fmt.Fprintf(&b, "제목: %s\n", title)
			if content := truncateRunes(a.ContentText, maxContentChars); content != "" {
				fmt.Fprintf(&b, "본문: %s\n", content)
			}
		}
		b.WriteString("\n")
	}
	return b.String()
}

func truncateRunes(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n])
}
