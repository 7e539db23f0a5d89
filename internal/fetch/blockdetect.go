package fetch

import "strings"

// Known anti-bot page markers. Real block pages are short interstitials, so
// long bodies are assumed legitimate even when a marker appears (meta robots
// tags are a common false positive).
var blockMarkers = []string{
	"captcha",
	"are you a robot",
	"i'm not a robot",
	"access denied",
	"403 forbidden",
	"비정상적인 접근",
	"접근이 제한",
	"자동화된 요청",
}

const (
	blockScanPrefix  = 5000
	blockMaxBodySize = 20000
)

// LooksBlocked reports whether html appears to be an anti-bot interstitial.
// Blocked pages are not retry-worthy and are reported distinctly from
// generic failures.
func LooksBlocked(html string) bool {
	if len(html) > blockMaxBodySize {
		return false
	}
	prefix := html
	if len(prefix) > blockScanPrefix {
		prefix = prefix[:blockScanPrefix]
	}
	lower := strings.ToLower(prefix)
	for _, marker := range blockMarkers {
		if strings.Contains(lower, marker) {
			return true
		}
	}
	return false
}
