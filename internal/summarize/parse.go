package summarize

import (
	"encoding/json"
	"errors"
	"strings"
)

// llmItem is one keyword summary as produced by the model. Lightweight
// models sometimes put the keyword in a title field or return entities
// instead of tags, so both spellings are accepted.
type llmItem struct {
	Keyword   string   `json:"keyword"`
	Title     string   `json:"title"`
	Summary   string   `json:"summary"`
	KeyPoints []string `json:"key_points"`
	Sentiment string   `json:"sentiment"`
	Category  string   `json:"category"`
	Tags      []string `json:"tags"`
	Entities  []string `json:"entities"`
}

func (it llmItem) keywordOrTitle() string {
	if it.Keyword != "" {
		return it.Keyword
	}
	return it.Title
}

func (it llmItem) tagsOrEntities() []string {
	if len(it.Tags) > 0 {
		return it.Tags
	}
	return it.Entities
}

// shapeMatcher normalizes one known response shape, reporting no match when
// the payload is some other shape.
type shapeMatcher func(raw json.RawMessage) ([]llmItem, bool)

// responseMatchers is the ordered shape-matcher chain. The first matcher to
// claim the payload wins.
var responseMatchers = []shapeMatcher{
	matchItemArray,
	matchKeywordsObject,
}

// ParseResponse extracts keyword summaries from a raw model response,
// tolerating markdown code fences and the known shape variants. A payload
// that is not JSON at all returns an error so the caller can preserve the
// raw text.
func ParseResponse(raw string) ([]llmItem, error) {
	cleaned := stripCodeFence(raw)

	var payload json.RawMessage
	if err := json.Unmarshal([]byte(cleaned), &payload); err != nil {
		return nil, err
	}

	for _, match := range responseMatchers {
		if items, ok := match(payload); ok {
			return filterUsable(items), nil
		}
	}
	return nil, errors.New("summarize: unrecognized response shape")
}

// stripCodeFence unwraps a ```-fenced block, with or without a language tag.
func stripCodeFence(raw string) string {
	cleaned := strings.TrimSpace(raw)
	if !strings.HasPrefix(cleaned, "```") {
		return cleaned
	}
	if idx := strings.IndexByte(cleaned, '\n'); idx >= 0 {
		cleaned = cleaned[idx+1:]
	}
	if idx := strings.LastIndex(cleaned, "```"); idx >= 0 {
		cleaned = cleaned[:idx]
	}
	return strings.TrimSpace(cleaned)
}

// matchItemArray handles the contract shape, a JSON array of summary
// objects, plus the variant where array elements nest their own
// {"keywords": [...]} list.
func matchItemArray(raw json.RawMessage) ([]llmItem, bool) {
	var elements []json.RawMessage
	if err := json.Unmarshal(raw, &elements); err != nil {
		return nil, false
	}

	var items []llmItem
	for _, el := range elements {
		var item llmItem
		if err := json.Unmarshal(el, &item); err == nil && item.Summary != "" {
			items = append(items, item)
			continue
		}
		var nested struct {
			Keywords []llmItem `json:"keywords"`
		}
		if err := json.Unmarshal(el, &nested); err == nil {
			items = append(items, nested.Keywords...)
		}
	}
	return items, true
}

// matchKeywordsObject handles {"keywords": [...]} objects. When the keywords
// list holds plain strings instead of objects, summaries are salvaged from a
// sibling articles array if present.
func matchKeywordsObject(raw json.RawMessage) ([]llmItem, bool) {
	var obj struct {
		Keywords json.RawMessage `json:"keywords"`
		Articles []llmItem       `json:"articles"`
	}
	if err := json.Unmarshal(raw, &obj); err != nil || obj.Keywords == nil {
		return nil, false
	}

	var items []llmItem
	if err := json.Unmarshal(obj.Keywords, &items); err == nil {
		return items, true
	}

	var names []string
	if err := json.Unmarshal(obj.Keywords, &names); err != nil {
		return nil, false
	}
	return obj.Articles, true
}

func filterUsable(items []llmItem) []llmItem {
	out := items[:0]
	for _, it := range items {
		if it.Summary != "" {
			out = append(out, it)
		}
	}
	return out
}
