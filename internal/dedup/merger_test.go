package dedup

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/fashiondb/stylecorpus/internal/corpus"
	"github.com/fashiondb/stylecorpus/internal/hash/sha256"
)

func newTestMerger() *Merger {
	return NewMerger(DefaultSimilarityThreshold, sha256.New())
}

func TestMergeCollapsesRephrasedAdvice(t *testing.T) {
	t.Parallel()

	batch := []corpus.RuleCandidate{
		{Text: "Always match belt color to shoe color", Category: "accessories", Confidence: 0.8, Source: "A"},
		{Text: "match your belt to your shoes", Category: "accessories", Confidence: 0.6, Source: "B"},
	}

	rules := newTestMerger().Merge(batch)
	require.Len(t, rules, 1)

	rule := rules[0]
	require.Equal(t, "Always match belt color to shoe color", rule.Text)
	require.Equal(t, "accessories", rule.Category)
	require.Equal(t, []string{"A", "B"}, rule.Sources)
	require.Equal(t, 2, rule.MergeCount)
	require.GreaterOrEqual(t, rule.Confidence, 0.8)
	require.LessOrEqual(t, rule.Confidence, 1.0)
	require.Len(t, rule.RuleID, 16)
}

func TestMergeKeepsDistinctAdvice(t *testing.T) {
	t.Parallel()

	batch := []corpus.RuleCandidate{
		{Text: "Always match belt color to shoe color", Category: "accessories", Confidence: 0.8, Source: "A"},
		{Text: "Never wear a tie wider than your lapels", Category: "accessories", Confidence: 0.7, Source: "A"},
		{Text: "Your suit trousers should have a single break", Category: "tailoring", Confidence: 0.9, Source: "B"},
	}

	rules := newTestMerger().Merge(batch)
	require.Len(t, rules, 3)
	for _, rule := range rules {
		require.Equal(t, 1, rule.MergeCount)
	}
}

func TestMergeCategoryIsBlockingKey(t *testing.T) {
	t.Parallel()

	// Identical text in different categories must not cluster; the
	// blocking key bounds every pairwise comparison.
	batch := []corpus.RuleCandidate{
		{Text: "Match your belt to your shoes", Category: "accessories", Confidence: 0.8, Source: "A"},
		{Text: "Match your belt to your shoes", Category: "footwear", Confidence: 0.8, Source: "B"},
	}
	rules := newTestMerger().Merge(batch)
	require.Len(t, rules, 2)
}

func TestMergeCanonicalSelection(t *testing.T) {
	t.Parallel()

	t.Run("highest confidence wins", func(t *testing.T) {
		rules := newTestMerger().Merge([]corpus.RuleCandidate{
			{Text: "match your belt to your shoes", Category: "accessories", Confidence: 0.5, Source: "A"},
			{Text: "Match your belt to your shoes.", Category: "accessories", Confidence: 0.9, Source: "B"},
		})
		require.Len(t, rules, 1)
		require.Equal(t, "Match your belt to your shoes.", rules[0].Text)
	})

	t.Run("longer text breaks confidence ties", func(t *testing.T) {
		rules := newTestMerger().Merge([]corpus.RuleCandidate{
			{Text: "Match your belt to your shoes", Category: "accessories", Confidence: 0.7, Source: "A"},
			{Text: "Always match your belt to your shoes", Category: "accessories", Confidence: 0.7, Source: "B"},
		})
		require.Len(t, rules, 1)
		require.Equal(t, "Always match your belt to your shoes", rules[0].Text)
	})
}

func TestMergeConfidenceAggregation(t *testing.T) {
	t.Parallel()

	t.Run("single source keeps its confidence", func(t *testing.T) {
		rules := newTestMerger().Merge([]corpus.RuleCandidate{
			{Text: "Match your belt to your shoes", Category: "accessories", Confidence: 0.55, Source: "A"},
		})
		require.Len(t, rules, 1)
		require.InDelta(t, 0.55, rules[0].Confidence, 1e-9)
	})

	t.Run("corroboration raises but saturates at one", func(t *testing.T) {
		batch := []corpus.RuleCandidate{
			{Text: "Match your belt to your shoes", Category: "accessories", Confidence: 0.99, Source: "A"},
			{Text: "match your belt to your shoes", Category: "accessories", Confidence: 0.9, Source: "B"},
			{Text: "Match your belt to your shoes.", Category: "accessories", Confidence: 0.9, Source: "C"},
		}
		rules := newTestMerger().Merge(batch)
		require.Len(t, rules, 1)
		require.InDelta(t, 1.0, rules[0].Confidence, 1e-9)
		require.Equal(t, []string{"A", "B", "C"}, rules[0].Sources)
	})
}

func TestMergeSkipsEmptyCandidates(t *testing.T) {
	t.Parallel()

	rules := newTestMerger().Merge([]corpus.RuleCandidate{
		{Text: "   ", Category: "accessories", Confidence: 0.9, Source: "A"},
		{Text: "...", Category: "accessories", Confidence: 0.9, Source: "A"},
		{Text: "Match your belt to your shoes", Category: "accessories", Confidence: 0.7, Source: "B"},
	})
	require.Len(t, rules, 1)
	require.Equal(t, "Match your belt to your shoes", rules[0].Text)
}

// Shuffling the candidate batch must not change the merged rule set:
// same texts, same source sets, same confidences.
func TestMergeOrderIndependence(t *testing.T) {
	t.Parallel()

	batch := []corpus.RuleCandidate{
		{Text: "Always match belt color to shoe color", Category: "accessories", Confidence: 0.8, Source: "A"},
		{Text: "match your belt to your shoes", Category: "accessories", Confidence: 0.6, Source: "B"},
		{Text: "Your belt should match your shoes", Category: "accessories", Confidence: 0.6, Source: "C"},
		{Text: "Never wear a tie wider than your lapels", Category: "accessories", Confidence: 0.7, Source: "A"},
		{Text: "Keep tie width close to lapel width", Category: "accessories", Confidence: 0.75, Source: "B"},
		{Text: "Your suit trousers should have a single break", Category: "tailoring", Confidence: 0.9, Source: "B"},
		{Text: "Suit trousers look best with a single break", Category: "tailoring", Confidence: 0.85, Source: "C"},
		{Text: "Buy the best shoes you can afford", Category: "footwear", Confidence: 0.65, Source: "A"},
	}

	merger := newTestMerger()
	baseline := merger.Merge(batch)

	for seed := int64(1); seed <= 10; seed++ {
		shuffled := make([]corpus.RuleCandidate, len(batch))
		copy(shuffled, batch)
		rng := rand.New(rand.NewSource(seed))
		rng.Shuffle(len(shuffled), func(i, j int) {
			shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
		})

		got := merger.Merge(shuffled)
		require.Equal(t, baseline, got, "seed %d changed the merged set", seed)
	}
}
