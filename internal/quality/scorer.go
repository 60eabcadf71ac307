// Package quality computes deterministic content quality metrics. Every
// function here is a pure function of the body text: identical input
// yields bit-identical output, with no network access and no randomness.
package quality

import (
	"strings"

	"github.com/fashiondb/stylecorpus/internal/corpus"
)

// Sub-score weights. The five sub-scores saturate independently and sum
// to at most 100 before the truncation penalty.
const (
	lengthFullScore    = 30.0
	lengthMediumScore  = 20.0
	lengthMinimalScore = 10.0

	lengthFullWords    = 1000
	lengthMediumWords  = 500
	lengthMinimalWords = 300

	paragraphScore    = 10.0
	listScore         = 10.0
	minParagraphCount = 5

	vocabularyMaxScore = 30
	adviceScore        = 10.0
	styleScore         = 10.0

	adviceMatchThreshold      = 3
	fashionTermBodyThreshold  = 5
	truncationPenaltyFraction = 0.5
)

// Score computes the full metric set for a body. Sub-scores are
// evaluated and summed in a fixed order so floating-point accumulation
// is reproducible.
func Score(body string) corpus.QualityMetrics {
	bodyLower := strings.ToLower(body)

	wordCount := len(strings.Fields(body))
	charCount := len(body)
	paragraphCount := countParagraphs(body)
	sentenceCount := countSentences(body)

	fashionTermCount := 0
	for _, term := range fashionTerms {
		if strings.Contains(bodyLower, term) {
			fashionTermCount++
		}
	}

	adviceMatches := 0
	for _, pattern := range advicePatterns {
		if pattern.MatchString(bodyLower) {
			adviceMatches++
		}
	}
	hasActionableAdvice := adviceMatches >= adviceMatchThreshold

	hasStyleDescriptions := false
	for _, pattern := range stylePatterns {
		if pattern.MatchString(bodyLower) {
			hasStyleDescriptions = true
			break
		}
	}

	hasLists := listItemPattern.MatchString(body)
	hasHeaders := headerPattern.MatchString(body)

	truncation := TruncationLikelihood(body)

	// Summation order is fixed: length, structure, vocabulary, advice,
	// style, then the truncation penalty.
	score := 0.0
	switch {
	case wordCount >= lengthFullWords:
		score += lengthFullScore
	case wordCount >= lengthMediumWords:
		score += lengthMediumScore
	case wordCount >= lengthMinimalWords:
		score += lengthMinimalScore
	}
	if paragraphCount >= minParagraphCount {
		score += paragraphScore
	}
	if hasLists {
		score += listScore
	}
	score += float64(min(fashionTermCount, vocabularyMaxScore))
	if hasActionableAdvice {
		score += adviceScore
	}
	if hasStyleDescriptions {
		score += styleScore
	}
	score *= 1.0 - truncation*truncationPenaltyFraction
	if score > 100 {
		score = 100
	}

	return corpus.QualityMetrics{
		WordCount:            wordCount,
		CharCount:            charCount,
		ParagraphCount:       paragraphCount,
		SentenceCount:        sentenceCount,
		FashionTermCount:     fashionTermCount,
		HasActionableAdvice:  hasActionableAdvice,
		HasStyleDescriptions: hasStyleDescriptions,
		HasLists:             hasLists,
		HasHeaders:           hasHeaders,
		TruncationLikelihood: truncation,
		QualityScore:         score,
	}
}

func countParagraphs(body string) int {
	count := 0
	for _, p := range strings.Split(body, "\n\n") {
		if strings.TrimSpace(p) != "" {
			count++
		}
	}
	return count
}

func countSentences(body string) int {
	count := 0
	for _, s := range sentenceSplit.Split(body, -1) {
		if strings.TrimSpace(s) != "" {
			count++
		}
	}
	return count
}
