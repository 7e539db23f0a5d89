// Package analyze turns headline text into ranked Korean keyword phrases.
//
// The analyzer groups adjacent nouns from a morphological tagging of each
// headline, generates short noun phrases from each group, counts phrase
// occurrences across headlines, and drops phrases dominated by a
// higher-ranked phrase that covers the same words.
package analyze

import (
	"regexp"
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/kim-yeo-appweb-lab/trend-korea-api/internal/trend"
)

// Noun and bridge tag sets of the Sejong tagset subset the tagger emits.
// A single bridge token (particle or noun suffix) between two nouns keeps
// them in the same group; anything else closes the group.
var (
	nounTags   = map[string]struct{}{"NNG": {}, "NNP": {}}
	bridgeTags = map[string]struct{}{
		"JKS": {}, "JKO": {}, "JKB": {}, "JKG": {},
		"JKC": {}, "JX": {}, "JC": {}, "XSN": {},
	}
)

var hangulWordRE = regexp.MustCompile(`[\x{AC00}-\x{D7AF}]{2,}`)

// Options tunes phrase extraction. Zero values select the defaults.
type Options struct {
	// DominanceFactor caps how much more frequent a covered phrase must be
	// to survive next to the phrase that covers it. Default 1.5.
	DominanceFactor float64
	// MaxPhraseNouns bounds phrase length in nouns. Default 4.
	MaxPhraseNouns int
	// MinKeywordLen is the minimum noun length in runes. Default 2.
	MinKeywordLen int
}

func (o Options) withDefaults() Options {
	if o.DominanceFactor <= 0 {
		o.DominanceFactor = 1.5
	}
	if o.MaxPhraseNouns <= 0 {
		o.MaxPhraseNouns = 4
	}
	if o.MinKeywordLen <= 0 {
		o.MinKeywordLen = 2
	}
	return o
}

// Analyzer extracts ranked keyword phrases from headline batches.
type Analyzer struct {
	tagger trend.Tagger
	opts   Options
}

// New builds an Analyzer around a morphological tagger. A nil tagger makes
// ExtractKeywords fall back to the regex-only single-noun path.
func New(tagger trend.Tagger, opts Options) *Analyzer {
	return &Analyzer{tagger: tagger, opts: opts.withDefaults()}
}

// phraseCounter counts phrases and remembers first-seen order so that ties
// rank deterministically by first occurrence.
type phraseCounter struct {
	counts map[string]int
	order  []string
}

func newPhraseCounter() *phraseCounter {
	return &phraseCounter{counts: make(map[string]int)}
}

func (c *phraseCounter) inc(phrase string) {
	if _, ok := c.counts[phrase]; !ok {
		c.order = append(c.order, phrase)
	}
	c.counts[phrase]++
}

type phraseCount struct {
	phrase string
	count  int
}

// ranked returns phrases sorted by count descending, first occurrence
// breaking ties, truncated to limit.
func (c *phraseCounter) ranked(limit int) []phraseCount {
	out := make([]phraseCount, 0, len(c.order))
	for _, p := range c.order {
		out = append(out, phraseCount{phrase: p, count: c.counts[p]})
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].count > out[j].count
	})
	if limit >= 0 && len(out) > limit {
		out = out[:limit]
	}
	return out
}

// ExtractKeywords analyzes the given texts and returns at most topN ranked
// keyword phrases. Without a tagger it degrades to single-noun extraction.
func (a *Analyzer) ExtractKeywords(texts []string, topN int) []trend.KeywordResult {
	if a.tagger == nil {
		return a.ExtractKeywordsSimple(texts, topN)
	}

	counter := newPhraseCounter()
	for _, text := range texts {
		groups := a.nounGroups(a.tagger.Tokens(text))

		// One headline counts a phrase at most once.
		seen := make(map[string]struct{})
		for _, group := range groups {
			for _, phrase := range a.phrasesFromGroup(group) {
				if _, ok := seen[phrase]; ok {
					continue
				}
				seen[phrase] = struct{}{}
				counter.inc(phrase)
			}
		}
	}

	// Rank a generous candidate pool, then drop covered sub-phrases.
	candidates := counter.ranked(topN * 3)
	kept := a.filterSubphrases(candidates, topN)

	return toResults(kept)
}

// ExtractKeywordsSimple is the regex fallback: single Hangul words only,
// no phrase grouping.
func (a *Analyzer) ExtractKeywordsSimple(texts []string, topN int) []trend.KeywordResult {
	counter := newPhraseCounter()
	for _, text := range texts {
		for _, word := range hangulWordRE.FindAllString(text, -1) {
			if isStopword(word) || utf8.RuneCountInString(word) < a.opts.MinKeywordLen {
				continue
			}
			counter.inc(word)
		}
	}
	return toResults(counter.ranked(topN))
}

func toResults(pairs []phraseCount) []trend.KeywordResult {
	results := make([]trend.KeywordResult, 0, len(pairs))
	for i, pc := range pairs {
		results = append(results, trend.KeywordResult{
			Word:  pc.phrase,
			Count: pc.count,
			Rank:  i + 1,
		})
	}
	return results
}

// nounGroups collects runs of adjacent eligible nouns. A single bridge
// token between nouns is tolerated; a second consecutive bridge, or any
// other token, closes the current group.
func (a *Analyzer) nounGroups(tokens []trend.Token) [][]trend.Token {
	var groups [][]trend.Token
	var current []trend.Token
	sawBridge := false

	flush := func() {
		if len(current) > 0 {
			groups = append(groups, current)
			current = nil
		}
	}

	for _, tok := range tokens {
		_, isNoun := nounTags[tok.Tag]
		_, isBridge := bridgeTags[tok.Tag]
		switch {
		case isNoun && utf8.RuneCountInString(tok.Form) >= a.opts.MinKeywordLen && !isStopword(tok.Form):
			current = append(current, tok)
			sawBridge = false
		case len(current) > 0 && isBridge && !sawBridge:
			sawBridge = true
		default:
			flush()
			sawBridge = false
		}
	}
	flush()
	return groups
}

// phrasesFromGroup expands a noun group into space-joined contiguous
// sub-phrases of two to MaxPhraseNouns nouns. A lone noun is kept only
// when it is a proper noun.
func (a *Analyzer) phrasesFromGroup(group []trend.Token) []string {
	n := len(group)
	if n == 1 {
		if group[0].Tag == "NNP" {
			return []string{group[0].Form}
		}
		return nil
	}

	forms := make([]string, n)
	for i, tok := range group {
		forms[i] = tok.Form
	}

	maxSize := a.opts.MaxPhraseNouns
	if n < maxSize {
		maxSize = n
	}

	var phrases []string
	for size := 2; size <= maxSize; size++ {
		for i := 0; i+size <= n; i++ {
			phrases = append(phrases, strings.Join(forms[i:i+size], " "))
		}
	}
	return phrases
}

// filterSubphrases walks the ranked candidates and drops any phrase whose
// word set is contained in, contains, or is a substring of an already
// accepted phrase, unless its own count exceeds the accepted phrase's count
// by more than the dominance factor.
func (a *Analyzer) filterSubphrases(ranked []phraseCount, topN int) []phraseCount {
	filtered := make([]phraseCount, 0, topN)

	for _, cand := range ranked {
		if len(filtered) >= topN {
			break
		}
		dominated := false
		words := wordSet(cand.phrase)
		for _, acc := range filtered {
			if cand.phrase == acc.phrase {
				continue
			}
			accWords := wordSet(acc.phrase)
			if properSubset(words, accWords) || properSubset(accWords, words) ||
				strings.Contains(acc.phrase, cand.phrase) {
				if float64(cand.count) <= float64(acc.count)*a.opts.DominanceFactor {
					dominated = true
					break
				}
			}
		}
		if !dominated {
			filtered = append(filtered, cand)
		}
	}
	return filtered
}

func wordSet(phrase string) map[string]struct{} {
	set := make(map[string]struct{})
	for _, w := range strings.Fields(phrase) {
		set[w] = struct{}{}
	}
	return set
}

// properSubset reports whether a is strictly contained in b.
func properSubset(a, b map[string]struct{}) bool {
	if len(a) >= len(b) {
		return false
	}
	for w := range a {
		if _, ok := b[w]; !ok {
			return false
		}
	}
	return true
}
