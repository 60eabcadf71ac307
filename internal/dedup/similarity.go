package dedup

// Similarity returns the token-overlap ratio of two normalized strings:
// |A∩B| / min(|A|, |B|) over their distinct token sets, with naive
// plural folding so "shoes" and "shoe" compare equal. The overlap
// coefficient is used rather than Jaccard because independently phrased
// advice usually embeds the same short core statement inside different
// amounts of filler. Symmetric and deterministic; empty token sets never
// match.
func Similarity(a, b string) float64 {
	setA := tokenSet(a)
	setB := tokenSet(b)
	if len(setA) == 0 || len(setB) == 0 {
		return 0
	}
	intersection := 0
	for tok := range setA {
		if _, ok := setB[tok]; ok {
			intersection++
		}
	}
	smaller := len(setA)
	if len(setB) < smaller {
		smaller = len(setB)
	}
	return float64(intersection) / float64(smaller)
}
