package dedup

import (
	"sort"

	"github.com/fashiondb/stylecorpus/internal/corpus"
	"github.com/fashiondb/stylecorpus/internal/metrics"
)

// DefaultSimilarityThreshold is the token-overlap ratio above which two
// candidates are considered duplicates.
const DefaultSimilarityThreshold = 0.6

// sourceCorroborationBonus is added to the cluster's best confidence for
// each additional distinct corroborating source, capped at 1.0. The
// aggregate is monotonic in every member confidence and in source count.
const sourceCorroborationBonus = 0.05

// Merger collapses near-duplicate rule candidates into canonical rules.
type Merger struct {
	threshold float64
	hasher    corpus.Hasher
}

// NewMerger builds a Merger. A non-positive threshold falls back to the
// default.
func NewMerger(threshold float64, hasher corpus.Hasher) *Merger {
	if threshold <= 0 {
		threshold = DefaultSimilarityThreshold
	}
	return &Merger{threshold: threshold, hasher: hasher}
}

type candidate struct {
	corpus.RuleCandidate
	normalized string
}

// Merge partitions the batch into duplicate clusters and emits one
// canonical rule per cluster. The result is a new set; no existing rule
// set is mutated. The partition is independent of input order: the batch
// is canonically sorted before clustering and clusters are formed by
// union-find over the symmetric similarity relation, so neither pair
// iteration order nor cluster assembly depends on how the caller ordered
// the candidates.
func (m *Merger) Merge(batch []corpus.RuleCandidate) []corpus.Rule {
	candidates := make([]candidate, 0, len(batch))
	for _, rc := range batch {
		normalized := Normalize(rc.Text)
		if normalized == "" {
			continue
		}
		candidates = append(candidates, candidate{RuleCandidate: rc, normalized: normalized})
	}
	sortCandidates(candidates)

	uf := newUnionFind(len(candidates))

	// Category is the blocking key: pairwise comparison only runs inside
	// a category bucket, keeping the O(n²) scan tractable.
	buckets := make(map[string][]int)
	for i, c := range candidates {
		buckets[c.Category] = append(buckets[c.Category], i)
	}
	for _, bucket := range buckets {
		for i := 0; i < len(bucket); i++ {
			for j := i + 1; j < len(bucket); j++ {
				a, b := candidates[bucket[i]], candidates[bucket[j]]
				if a.normalized == b.normalized || Similarity(a.normalized, b.normalized) >= m.threshold {
					uf.union(bucket[i], bucket[j])
				}
			}
		}
	}

	clusters := make(map[int][]int)
	for i := range candidates {
		root := uf.find(i)
		clusters[root] = append(clusters[root], i)
	}

	rules := make([]corpus.Rule, 0, len(clusters))
	for _, members := range clusters {
		metrics.ObserveMergeCluster(len(members))
		rules = append(rules, m.buildRule(candidates, members))
	}
	sort.Slice(rules, func(i, j int) bool {
		if rules[i].Category != rules[j].Category {
			return rules[i].Category < rules[j].Category
		}
		return rules[i].Text < rules[j].Text
	})
	return rules
}

// buildRule selects the canonical text and aggregates confidence and
// sources for one cluster. Members arrive in canonical sort order, so
// the first member already wins the confidence/length/lexicographic
// tie-break chain.
func (m *Merger) buildRule(candidates []candidate, members []int) corpus.Rule {
	canonical := candidates[members[0]]

	maxConfidence := 0.0
	sourceSet := make(map[string]struct{})
	for _, idx := range members {
		c := candidates[idx]
		if c.Confidence > maxConfidence {
			maxConfidence = c.Confidence
		}
		if c.Source != "" {
			sourceSet[c.Source] = struct{}{}
		}
	}
	sources := make([]string, 0, len(sourceSet))
	for src := range sourceSet {
		sources = append(sources, src)
	}
	sort.Strings(sources)

	confidence := maxConfidence
	if n := len(sources); n > 1 {
		confidence += sourceCorroborationBonus * float64(n-1)
	}
	if confidence > 1 {
		confidence = 1
	}

	return corpus.Rule{
		RuleID:     m.hasher.Hash([]byte(canonical.normalized)),
		Text:       canonical.Text,
		Category:   canonical.Category,
		Confidence: confidence,
		Sources:    sources,
		MergeCount: len(members),
	}
}

// sortCandidates orders the batch canonically: category, then descending
// confidence, then descending text length, then text, then source. Every
// downstream step iterates in this order, which is what detaches the
// output from the caller's input order.
func sortCandidates(candidates []candidate) {
	sort.Slice(candidates, func(i, j int) bool {
		a, b := candidates[i], candidates[j]
		if a.Category != b.Category {
			return a.Category < b.Category
		}
		if a.Confidence != b.Confidence {
			return a.Confidence > b.Confidence
		}
		if len(a.Text) != len(b.Text) {
			return len(a.Text) > len(b.Text)
		}
		if a.Text != b.Text {
			return a.Text < b.Text
		}
		return a.Source < b.Source
	})
}
