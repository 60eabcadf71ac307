// Package memory provides in-memory store implementations for
// development and testing.
package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/fashiondb/stylecorpus/internal/corpus"
)

// Store implements corpus.ContentStore and corpus.RuleStore in memory.
// Upserts to the same content ID serialize through a per-key mutex so a
// re-scrape race always lands one complete record, never an interleaving
// of two partial writes.
type Store struct {
	mu      sync.RWMutex
	records map[string]corpus.ContentRecord
	rules   []corpus.Rule

	keysMu sync.Mutex
	keys   map[string]*sync.Mutex
}

// New constructs an empty Store.
func New() *Store {
	return &Store{
		records: make(map[string]corpus.ContentRecord),
		keys:    make(map[string]*sync.Mutex),
	}
}

func (s *Store) keyLock(contentID string) *sync.Mutex {
	s.keysMu.Lock()
	defer s.keysMu.Unlock()
	lock, ok := s.keys[contentID]
	if !ok {
		lock = &sync.Mutex{}
		s.keys[contentID] = lock
	}
	return lock
}

// Upsert stores the record, fully replacing any prior record for the
// same content ID.
func (s *Store) Upsert(_ context.Context, record corpus.ContentRecord) error {
	lock := s.keyLock(record.ContentID)
	lock.Lock()
	defer lock.Unlock()

	s.mu.Lock()
	defer s.mu.Unlock()
	s.records[record.ContentID] = copyRecord(record)
	return nil
}

// Get fetches one record by content ID.
func (s *Store) Get(_ context.Context, contentID string) (corpus.ContentRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	record, ok := s.records[contentID]
	if !ok {
		return corpus.ContentRecord{}, corpus.ErrNotFound
	}
	return copyRecord(record), nil
}

// ListByDomain returns records for one domain, ordered by content ID.
func (s *Store) ListByDomain(_ context.Context, domain string) ([]corpus.ContentRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []corpus.ContentRecord
	for _, record := range s.records {
		if record.Domain == domain {
			out = append(out, copyRecord(record))
		}
	}
	sortRecords(out)
	return out, nil
}

// List returns every stored record, ordered by content ID.
func (s *Store) List(_ context.Context) ([]corpus.ContentRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]corpus.ContentRecord, 0, len(s.records))
	for _, record := range s.records {
		out = append(out, copyRecord(record))
	}
	sortRecords(out)
	return out, nil
}

// DomainStats aggregates record counts and body word averages per
// domain, ordered by domain name.
func (s *Store) DomainStats(ctx context.Context) ([]corpus.DomainStats, error) {
	records, err := s.List(ctx)
	if err != nil {
		return nil, err
	}
	type agg struct {
		count   int
		words   int
		quality float64
	}
	byDomain := make(map[string]*agg)
	for _, record := range records {
		a, ok := byDomain[record.Domain]
		if !ok {
			a = &agg{}
			byDomain[record.Domain] = a
		}
		a.count++
		a.words += record.WordCount
		a.quality += record.QualityScore
	}

	domains := make([]string, 0, len(byDomain))
	for domain := range byDomain {
		domains = append(domains, domain)
	}
	sort.Strings(domains)

	stats := make([]corpus.DomainStats, 0, len(domains))
	for _, domain := range domains {
		a := byDomain[domain]
		stats = append(stats, corpus.DomainStats{
			Domain:          domain,
			Records:         a.count,
			AvgQualityScore: a.quality / float64(a.count),
			AvgWordCount:    float64(a.words) / float64(a.count),
		})
	}
	return stats, nil
}

// Purge removes one record. Purging an unknown ID is not an error.
func (s *Store) Purge(_ context.Context, contentID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.records, contentID)
	return nil
}

// Count returns the number of stored records.
func (s *Store) Count(_ context.Context) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.records), nil
}

// ReplaceAll swaps the entire rule set for the supplied one.
func (s *Store) ReplaceAll(_ context.Context, rules []corpus.Rule) error {
	replacement := make([]corpus.Rule, len(rules))
	copy(replacement, rules)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.rules = replacement
	return nil
}

// ListRules returns the current rule set.
func (s *Store) ListRules(_ context.Context) ([]corpus.Rule, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]corpus.Rule, len(s.rules))
	copy(out, s.rules)
	return out, nil
}

func copyRecord(record corpus.ContentRecord) corpus.ContentRecord {
	if record.Tags != nil {
		tags := make(map[string]struct{}, len(record.Tags))
		for tag := range record.Tags {
			tags[tag] = struct{}{}
		}
		record.Tags = tags
	}
	return record
}

func sortRecords(records []corpus.ContentRecord) {
	sort.Slice(records, func(i, j int) bool {
		return records[i].ContentID < records[j].ContentID
	})
}
