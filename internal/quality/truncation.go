package quality

import "strings"

// Truncation detection combines three independent signals through a
// capped weighted sum: a missing terminal sentence within the final
// characters, a body that stops mid-sentence, and continuation
// boilerplate near the end. Weights are fixed; the result is a pure
// function of the body.
const (
	truncationShortBodyChars = 300
	truncationShortBodyScore = 0.9

	truncationTailWindow   = 50
	truncationMarkerWindow = 200

	abruptEndingWeight = 0.3
	openSentenceWeight = 0.2
	markerWeight       = 0.3
)

const terminalPunctuation = `.!?"`

// continuationMarkers are boilerplate strings that indicate the page
// served a teaser rather than the full text.
var continuationMarkers = []string{
	"continue reading",
	"read more",
	"click here",
	"[...]",
	"...",
	"to be continued",
}

// TruncationLikelihood estimates, in [0,1], how likely the body was cut
// off before its natural end.
func TruncationLikelihood(body string) float64 {
	if len(body) < truncationShortBodyChars {
		return truncationShortBodyScore
	}

	score := 0.0

	tail := strings.TrimSpace(lastChars(body, truncationTailWindow))
	if tail != "" && !strings.ContainsRune(terminalPunctuation, rune(tail[len(tail)-1])) {
		score += abruptEndingWeight
	}

	trimmed := strings.TrimSpace(body)
	if trimmed != "" {
		last := trimmed[len(trimmed)-1]
		if last != '.' && last != '!' && last != '?' {
			score += openSentenceWeight
		}
	}

	markerZone := strings.ToLower(lastChars(body, truncationMarkerWindow))
	for _, marker := range continuationMarkers {
		if strings.Contains(markerZone, marker) {
			score += markerWeight
			break
		}
	}

	if score > 1 {
		score = 1
	}
	return score
}

func lastChars(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[len(s)-n:]
}
