package analyze

import (
	"sort"
	"strings"
	"sync"
	"unicode"

	"github.com/kim-yeo-appweb-lab/trend-korea-api/internal/trend"
)

// particleTags maps closed-class Korean particles to their tags. Longer
// particles must win over their suffixes, so tagging tries candidates by
// descending length.
var particleTags = map[string]string{
	// case particles
	"이": "JKS", "가": "JKS", "께서": "JKS",
	"을": "JKO", "를": "JKO",
	"에": "JKB", "에서": "JKB", "에게": "JKB", "한테": "JKB",
	"로": "JKB", "으로": "JKB", "로서": "JKB", "으로서": "JKB", "께": "JKB",
	"의": "JKG",
	// auxiliary particles
	"은": "JX", "는": "JX", "도": "JX", "만": "JX",
	"까지": "JX", "부터": "JX", "마저": "JX", "조차": "JX",
	// conjunctive particles
	"와": "JC", "과": "JC", "랑": "JC", "이랑": "JC", "하고": "JC",
}

var particlesByLength = func() []string {
	out := make([]string, 0, len(particleTags))
	for p := range particleTags {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool {
		if len(out[i]) != len(out[j]) {
			return len(out[i]) > len(out[j])
		}
		return out[i] < out[j]
	})
	return out
}()

// nounSuffixes are derivational noun suffixes (XSN) that attach to a noun
// stem and still leave a noun group open.
var nounSuffixes = map[string]struct{}{
	"들": {}, "급": {}, "측": {}, "산": {}, "발": {}, "행": {},
}

// RuleTagger is a dictionary and suffix driven morphological tagger. It
// recognizes proper nouns from a lexicon, strips one trailing particle or
// noun suffix per word, and tags the remaining Hangul stem as a common
// noun. It is a deliberately small stand-in for a full morphological
// analyzer and is safe for concurrent use.
type RuleTagger struct {
	mu          sync.RWMutex
	properNouns map[string]struct{}
}

// NewRuleTagger builds a tagger seeded with a proper-noun lexicon of names
// that recur in Korean news headlines.
func NewRuleTagger() *RuleTagger {
	t := &RuleTagger{properNouns: make(map[string]struct{})}
	t.AddProperNouns(
		"한국", "미국", "일본", "중국", "북한", "러시아", "우크라이나",
		"서울", "부산", "인천", "대구", "광주", "대전",
		"삼성", "현대", "기아", "네이버", "카카오",
		"트럼프", "바이든", "푸틴",
		"국회", "청와대", "헌법재판소", "검찰", "경찰",
	)
	return t
}

// AddProperNouns extends the proper-noun lexicon.
func (t *RuleTagger) AddProperNouns(forms ...string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	for _, f := range forms {
		if f != "" {
			t.properNouns[f] = struct{}{}
		}
	}
}

func (t *RuleTagger) isProper(form string) bool {
	t.mu.RLock()
	defer t.mu.RUnlock()
	_, ok := t.properNouns[form]
	return ok
}

func isHangul(r rune) bool {
	return r >= 0xAC00 && r <= 0xD7AF
}

// Tokens segments text into words and tags each word's parts. Hangul words
// yield a noun token plus an optional trailing particle or suffix token;
// Latin and numeric runs yield SL and SN tokens, which close noun groups.
func (t *RuleTagger) Tokens(text string) []trend.Token {
	var tokens []trend.Token
	for _, word := range splitWords(text) {
		tokens = append(tokens, t.tagWord(word)...)
	}
	return tokens
}

func (t *RuleTagger) tagWord(word string) []trend.Token {
	runes := []rune(word)
	if !isHangul(runes[0]) {
		tag := "SL"
		if unicode.IsDigit(runes[0]) {
			tag = "SN"
		}
		return []trend.Token{{Form: word, Tag: tag}}
	}

	if t.isProper(word) {
		return []trend.Token{{Form: word, Tag: "NNP"}}
	}

	// Try to split off one trailing particle, longest match first. The
	// remaining stem must be a plausible noun (lexicon hit or two or more
	// syllables) for the split to hold.
	for _, particle := range particlesByLength {
		stem, ok := strings.CutSuffix(word, particle)
		if !ok || stem == "" {
			continue
		}
		if t.isProper(stem) {
			return []trend.Token{{Form: stem, Tag: "NNP"}, {Form: particle, Tag: particleTags[particle]}}
		}
		if len([]rune(stem)) >= 2 {
			return []trend.Token{{Form: stem, Tag: "NNG"}, {Form: particle, Tag: particleTags[particle]}}
		}
	}

	for suffix := range nounSuffixes {
		stem, ok := strings.CutSuffix(word, suffix)
		if !ok || len([]rune(stem)) < 2 {
			continue
		}
		tag := "NNG"
		if t.isProper(stem) {
			tag = "NNP"
		}
		return []trend.Token{{Form: stem, Tag: tag}, {Form: suffix, Tag: "XSN"}}
	}

	return []trend.Token{{Form: word, Tag: "NNG"}}
}

// splitWords breaks text into maximal runs of Hangul, Latin letters or
// digits. Punctuation and symbols separate words.
func splitWords(text string) []string {
	var words []string
	var cur []rune
	var curKind int // 0 none, 1 hangul, 2 latin, 3 digit

	kind := func(r rune) int {
		switch {
		case isHangul(r):
			return 1
		case unicode.IsLetter(r):
			return 2
		case unicode.IsDigit(r):
			return 3
		default:
			return 0
		}
	}

	flush := func() {
		if len(cur) > 0 {
			words = append(words, string(cur))
			cur = nil
		}
	}

	for _, r := range text {
		k := kind(r)
		if k == 0 {
			flush()
			curKind = 0
			continue
		}
		if k != curKind {
			flush()
			curKind = k
		}
		cur = append(cur, r)
	}
	flush()
	return words
}
