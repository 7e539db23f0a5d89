// Package extract converts raw retrieved text (feed XML, HTML, or embedded
// structured data) into a de-duplicated ordered list of headline strings.
package extract

import (
	"encoding/json"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/PuerkitoBio/goquery"
	"github.com/mmcdole/gofeed"
)

const (
	// minHeadlineRunes is the minimum headline length after whitespace
	// normalization.
	minHeadlineRunes = 4
	// productiveCount is the threshold below which later strategies top up
	// earlier ones.
	productiveCount = 5
	// Anchor-text fallback bounds.
	minLinkTextRunes = 8
	maxLinkTextRunes = 120
)

var (
	whitespaceRE = regexp.MustCompile(`\s+`)
	hangulRunRE  = regexp.MustCompile(`[\x{AC00}-\x{D7AF}]{2,}`)
	stripTags    = []string{"nav", "footer", "aside", "script", "style", "noscript", "header"}
)

// Extractor turns fetched text into headline candidates.
type Extractor struct {
	feedParser *gofeed.Parser
}

// New builds an Extractor.
func New() *Extractor {
	return &Extractor{feedParser: gofeed.NewParser()}
}

func compact(text string) string {
	return strings.TrimSpace(whitespaceRE.ReplaceAllString(text, " "))
}

// headlineSet accumulates normalized headlines, de-duplicating exact matches
// and keeping first-occurrence order. Its scope is one extraction call.
type headlineSet struct {
	seen  map[string]struct{}
	order []string
}

func newHeadlineSet() *headlineSet {
	return &headlineSet{seen: make(map[string]struct{})}
}

func (h *headlineSet) add(text string) {
	t := compact(text)
	if t == "" || utf8.RuneCountInString(t) < minHeadlineRunes {
		return
	}
	if _, ok := h.seen[t]; ok {
		return
	}
	h.seen[t] = struct{}{}
	h.order = append(h.order, t)
}

// FromFeed parses item titles out of feed XML.
func (e *Extractor) FromFeed(xml string) ([]string, error) {
	feed, err := e.feedParser.ParseString(xml)
	if err != nil {
		return nil, err
	}
	set := newHeadlineSet()
	for _, item := range feed.Items {
		set.add(item.Title)
	}
	return set.order, nil
}

// FromHTML extracts headlines from a channel main page using the strategy
// cascade: per-channel selectors, then embedded structured data, then the
// generic heading/anchor fallback when earlier strategies under-produce.
func (e *Extractor) FromHTML(html, channelCode string) ([]string, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, err
	}

	cfg := siteConfigs[channelCode]

	// Structured-data blocks live in script tags, so collect them before
	// noise stripping removes scripts.
	var jsonLD []string
	if cfg.UseJSONLD {
		jsonLD = collectJSONLD(doc)
	}

	for _, tag := range stripTags {
		doc.Find(tag).Remove()
	}

	set := newHeadlineSet()

	for _, sel := range cfg.Selectors {
		doc.Find(sel).Each(func(_ int, s *goquery.Selection) {
			set.add(s.Text())
		})
	}

	for _, headline := range jsonLD {
		set.add(headline)
	}

	if len(set.order) < productiveCount {
		for _, tag := range []string{"h1", "h2", "h3"} {
			doc.Find(tag).Each(func(_ int, s *goquery.Selection) {
				set.add(s.Text())
			})
		}
	}

	if len(set.order) < productiveCount {
		doc.Find("a").Each(func(_ int, s *goquery.Selection) {
			text := compact(s.Text())
			n := utf8.RuneCountInString(text)
			if n >= minLinkTextRunes && n <= maxLinkTextRunes && hangulRunRE.MatchString(text) {
				set.add(text)
			}
		})
	}

	return set.order, nil
}

// collectJSONLD scans embedded structured-data blocks for headline-like
// string fields.
func collectJSONLD(doc *goquery.Document) []string {
	var out []string
	doc.Find(`script[type="application/ld+json"]`).Each(func(_ int, s *goquery.Selection) {
		var data any
		if err := json.Unmarshal([]byte(strings.TrimSpace(s.Text())), &data); err != nil {
			return
		}
		items, ok := data.([]any)
		if !ok {
			items = []any{data}
		}
		for _, item := range items {
			obj, ok := item.(map[string]any)
			if !ok {
				continue
			}
			for _, key := range []string{"headline", "name", "title"} {
				if val, ok := obj[key].(string); ok {
					out = append(out, val)
				}
			}
		}
	})
	return out
}
