// Package export writes quality metrics and review samples to disk for
// offline inspection.
package export

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/fashiondb/stylecorpus/internal/corpus"
)

// WriteMetrics writes per-record quality metrics as one JSON document
// keyed by content ID. Keys are emitted sorted so repeated exports of
// the same data are byte-identical.
func WriteMetrics(path string, metrics map[string]corpus.QualityMetrics) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		return fmt.Errorf("create export directory: %w", err)
	}
	// encoding/json sorts map keys, but build explicitly so the
	// ordering contract does not hang on a library detail.
	ids := make([]string, 0, len(metrics))
	for id := range metrics {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	var buf strings.Builder
	buf.WriteString("{\n")
	for i, id := range ids {
		entry, err := json.MarshalIndent(metrics[id], "  ", "  ")
		if err != nil {
			return fmt.Errorf("encode metrics for %s: %w", id, err)
		}
		fmt.Fprintf(&buf, "  %q: %s", id, entry)
		if i < len(ids)-1 {
			buf.WriteString(",")
		}
		buf.WriteString("\n")
	}
	buf.WriteString("}\n")

	if err := os.WriteFile(path, []byte(buf.String()), 0o600); err != nil {
		return fmt.Errorf("write metrics export: %w", err)
	}
	return nil
}

// sampleIndexEntry is one row of the sample export index.
type sampleIndexEntry struct {
	ContentID    string  `json:"content_id"`
	URL          string  `json:"url"`
	Domain       string  `json:"domain"`
	Title        string  `json:"title"`
	QualityScore float64 `json:"quality_score"`
	File         string  `json:"file"`
}

// WriteSamples writes the first k records, ordered by content ID, as
// individual text files plus an index.json manifest.
func WriteSamples(dir string, records []corpus.ContentRecord, k int) error {
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return fmt.Errorf("create sample directory: %w", err)
	}

	sorted := append([]corpus.ContentRecord(nil), records...)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].ContentID < sorted[j].ContentID })
	if k > 0 && len(sorted) > k {
		sorted = sorted[:k]
	}

	index := make([]sampleIndexEntry, 0, len(sorted))
	for _, record := range sorted {
		name := record.ContentID + ".txt"
		body := formatSample(record)
		if err := os.WriteFile(filepath.Join(dir, name), []byte(body), 0o600); err != nil {
			return fmt.Errorf("write sample %s: %w", record.ContentID, err)
		}
		index = append(index, sampleIndexEntry{
			ContentID:    record.ContentID,
			URL:          record.URL,
			Domain:       record.Domain,
			Title:        record.Title,
			QualityScore: record.QualityScore,
			File:         name,
		})
	}

	manifest, err := json.MarshalIndent(index, "", "  ")
	if err != nil {
		return fmt.Errorf("encode sample index: %w", err)
	}
	if err := os.WriteFile(filepath.Join(dir, "index.json"), append(manifest, '\n'), 0o600); err != nil {
		return fmt.Errorf("write sample index: %w", err)
	}
	return nil
}

func formatSample(record corpus.ContentRecord) string {
	var b strings.Builder
	fmt.Fprintf(&b, "URL: %s\n", record.URL)
	fmt.Fprintf(&b, "Domain: %s\n", record.Domain)
	fmt.Fprintf(&b, "Title: %s\n", record.Title)
	fmt.Fprintf(&b, "Quality: %.1f\n", record.QualityScore)
	b.WriteString(strings.Repeat("-", 60))
	b.WriteString("\n\n")
	b.WriteString(record.Body)
	b.WriteString("\n")
	return b.String()
}
