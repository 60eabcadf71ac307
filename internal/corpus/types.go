// Package corpus defines core types shared across subsystems.
package corpus

import (
	"time"
)

// SourceType classifies where a piece of content came from.
type SourceType string

// Source type values persisted with each content record.
const (
	SourceTypeForum   SourceType = "forum"
	SourceTypeBlog    SourceType = "blog"
	SourceTypeArticle SourceType = "article"
)

// ContentRecord is the normalized unit of ingested text plus metadata.
// ContentID is derived from the source URL, not the body, so a re-scrape
// of the same URL replaces the prior record instead of duplicating it.
type ContentRecord struct {
	ContentID     string              `json:"content_id"`
	URL           string              `json:"url"`
	Domain        string              `json:"domain"`
	SourceType    SourceType          `json:"source_type"`
	Title         string              `json:"title"`
	Body          string              `json:"body"`
	Author        string              `json:"author,omitempty"`
	PublishedDate string              `json:"published_date,omitempty"`
	Tags          map[string]struct{} `json:"-"`
	ScrapedAt     time.Time           `json:"scraped_at"`
	RawLength     int                 `json:"raw_length"`

	// Denormalized at ingest time for cheap per-domain aggregates; the
	// full metric set stays recomputable from Body.
	WordCount    int     `json:"word_count"`
	QualityScore float64 `json:"quality_score"`
}

// QualityMetrics are deterministic measurements derived from a record's
// body. Identical body text always yields identical metrics.
type QualityMetrics struct {
	WordCount            int     `json:"word_count"`
	CharCount            int     `json:"char_count"`
	ParagraphCount       int     `json:"paragraph_count"`
	SentenceCount        int     `json:"sentence_count"`
	FashionTermCount     int     `json:"fashion_term_count"`
	HasActionableAdvice  bool    `json:"has_actionable_advice"`
	HasStyleDescriptions bool    `json:"has_style_descriptions"`
	HasLists             bool    `json:"has_lists"`
	HasHeaders           bool    `json:"has_headers"`
	TruncationLikelihood float64 `json:"truncation_likelihood"`
	QualityScore         float64 `json:"quality_score"`
}

// RuleCandidate is a single advisory statement produced by the external
// extraction collaborator, before deduplication.
type RuleCandidate struct {
	Text       string  `json:"text"`
	Category   string  `json:"category"`
	Confidence float64 `json:"confidence"`
	Source     string  `json:"source"`
}

// Rule is a canonical advisory statement with aggregated confidence and
// source attribution. Rules are produced in batches by the merger and are
// never mutated in place.
type Rule struct {
	RuleID     string   `json:"rule_id"`
	Text       string   `json:"text"`
	Category   string   `json:"category"`
	Confidence float64  `json:"confidence"`
	Sources    []string `json:"sources"`
	MergeCount int      `json:"merge_count"`
}

// FetchResult is the raw output of an adapter fetch.
type FetchResult struct {
	URL        string
	StatusCode int
	Body       []byte
	Elapsed    time.Duration
}

// ParsedContent holds the fields an adapter extracted from raw bytes.
type ParsedContent struct {
	Title         string
	Body          string
	Author        string
	PublishedDate string
	Tags          []string
	SourceType    SourceType
}

// DomainStats aggregates stored records for one domain.
type DomainStats struct {
	Domain          string  `json:"domain"`
	Records         int     `json:"records"`
	AvgQualityScore float64 `json:"avg_quality_score"`
	AvgWordCount    float64 `json:"avg_word_count"`
}

// StoredEvent is published after a record is successfully upserted, for
// downstream extraction workers.
type StoredEvent struct {
	ContentID    string    `json:"content_id"`
	URL          string    `json:"url"`
	Domain       string    `json:"domain"`
	QualityScore float64   `json:"quality_score"`
	ScrapedAt    time.Time `json:"scraped_at"`
}
