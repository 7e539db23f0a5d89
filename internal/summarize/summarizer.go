// Package summarize builds one combined prompt over all collected articles,
// calls an OpenAI-compatible completion endpoint, and defensively parses the
// response into per-keyword summaries.
package summarize

import (
	"context"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/kim-yeo-appweb-lab/trend-korea-api/internal/trend"
)

const rawResponseKeepLen = 2000

// Summarizer orchestrates the single-call summarization flow.
type Summarizer struct {
	completer Completer
	model     string
	clock     trend.Clock
	logger    *zap.Logger
}

// New builds a Summarizer. The model identifier is recorded on the output
// only; the completer itself decides what it talks to.
func New(completer Completer, model string, clock trend.Clock, logger *zap.Logger) *Summarizer {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Summarizer{completer: completer, model: model, clock: clock, logger: logger}
}

func (s *Summarizer) now() time.Time {
	if s.clock != nil {
		return s.clock.Now()
	}
	return time.Now()
}

// Run summarizes the given articles. Model errors and unparseable responses
// do not fail the run: they produce an output with empty summaries, and for
// parse failures the truncated raw response is preserved for debugging.
func (s *Summarizer) Run(ctx context.Context, articles []trend.Article) (trend.SummaryOutput, error) {
	groups := GroupByKeyword(articles)
	output := trend.SummaryOutput{
		SummarizedAt:  s.now(),
		Provider:      "ollama",
		Model:         s.model,
		APICalls:      1,
		TotalKeywords: len(groups.order),
		TotalArticles: len(articles),
	}

	prompt := BuildCombinedPrompt(groups)
	s.logger.Info("requesting summarization",
		zap.Int("keywords", len(groups.order)),
		zap.Int("articles", len(articles)),
		zap.Int("prompt_chars", len([]rune(prompt))),
	)

	var items []llmItem
	raw, usage, err := s.completer.Complete(ctx, systemPrompt, prompt)
	if err != nil {
		s.logger.Error("summarization call failed", zap.Error(err))
		output.APICalls = 0
	} else {
		output.TotalTokens = usage
		items, err = ParseResponse(raw)
		if err != nil {
			s.logger.Warn("unparseable summarization response, keeping raw", zap.Error(err))
			output.RawResponse = truncateRunes(raw, rawResponseKeepLen)
		}
	}
	s.logger.Info("summaries parsed", zap.Int("count", len(items)))

	matched := matchSummaries(groups.order, items)
	output.Keywords = make([]trend.KeywordSummary, 0, len(groups.order))
	for _, keyword := range groups.order {
		bucket := groups.byKW[keyword]
		item := matched[keyword]

		ks := trend.KeywordSummary{
			Keyword:      keyword,
			ArticleCount: len(bucket),
			Summary:      item.Summary,
			KeyPoints:    item.KeyPoints,
			Sentiment:    item.Sentiment,
			Category:     item.Category,
			Tags:         item.tagsOrEntities(),
			Articles:     make([]trend.ArticleSummary, 0, len(bucket)),
		}
		if ks.Sentiment == "" {
			ks.Sentiment = "neutral"
		}
		if ks.Category == "" {
			ks.Category = "society"
		}
		for _, a := range bucket {
			ks.Articles = append(ks.Articles, trend.ArticleSummary{
				Title:      a.Title,
				URL:        a.URL,
				Channel:    a.Channel,
				Confidence: a.Confidence,
			})
		}
		output.Keywords = append(output.Keywords, ks)
	}
	return output, nil
}

// matchSummaries maps input keywords onto model items: exact keyword match
// first, then mutual-substring match, then positional assignment when the
// model returned at least as many items as there are keywords.
func matchSummaries(inputKeywords []string, items []llmItem) map[string]llmItem {
	byKeyword := make(map[string]llmItem)
	var llmOrder []string
	for _, item := range items {
		kw := item.keywordOrTitle()
		if kw == "" {
			continue
		}
		if _, ok := byKeyword[kw]; !ok {
			llmOrder = append(llmOrder, kw)
		}
		byKeyword[kw] = item
	}

	matched := make(map[string]llmItem)
	usedLLM := make(map[string]bool)

	for _, kw := range inputKeywords {
		if item, ok := byKeyword[kw]; ok {
			matched[kw] = item
			usedLLM[kw] = true
		}
	}

	if len(matched) < len(inputKeywords) {
		for _, inputKW := range inputKeywords {
			if _, ok := matched[inputKW]; ok {
				continue
			}
			for _, llmKW := range llmOrder {
				if usedLLM[llmKW] {
					continue
				}
				if strings.Contains(inputKW, llmKW) || strings.Contains(llmKW, inputKW) {
					matched[inputKW] = byKeyword[llmKW]
					usedLLM[llmKW] = true
					break
				}
			}
		}
	}

	if len(matched) < len(inputKeywords) && len(items) >= len(inputKeywords) {
		var remaining []llmItem
		for _, llmKW := range llmOrder {
			if !usedLLM[llmKW] {
				remaining = append(remaining, byKeyword[llmKW])
			}
		}
		i := 0
		for _, kw := range inputKeywords {
			if _, ok := matched[kw]; ok || i >= len(remaining) {
				continue
			}
			matched[kw] = remaining[i]
			i++
		}
	}
	return matched
}
