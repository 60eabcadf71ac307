// Package dedup collapses near-duplicate advisory statements into
// canonical rules. The clustering is order-independent: shuffling the
// input batch yields the same merged rule set.
package dedup

import (
	"regexp"
	"strings"
)

var (
	urlPattern          = regexp.MustCompile(`https?://\S+`)
	sourceParenPattern  = regexp.MustCompile(`(?i)\(source:.*?\)`)
	sourceSuffixPattern = regexp.MustCompile(`(?i)source:.*$`)
	punctuationPattern  = regexp.MustCompile(`[^\p{L}\p{N}\s]`)
)

// Normalize prepares rule text for similarity comparison: lowercase,
// strip URLs and trailing source attributions, replace punctuation with
// spaces, collapse whitespace.
func Normalize(text string) string {
	text = strings.ToLower(text)
	text = urlPattern.ReplaceAllString(text, "")
	text = sourceParenPattern.ReplaceAllString(text, "")
	text = sourceSuffixPattern.ReplaceAllString(text, "")
	text = punctuationPattern.ReplaceAllString(text, " ")
	return strings.Join(strings.Fields(text), " ")
}

// tokenSet returns the distinct tokens of normalized text, with naive
// plural folding: a trailing "s" on tokens of four or more characters is
// dropped so singular and plural forms compare equal.
func tokenSet(normalized string) map[string]struct{} {
	set := make(map[string]struct{})
	for _, tok := range strings.Fields(normalized) {
		if len(tok) >= 4 && strings.HasSuffix(tok, "s") && !strings.HasSuffix(tok, "ss") {
			tok = tok[:len(tok)-1]
		}
		set[tok] = struct{}{}
	}
	return set
}
