package cmd

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"

	"github.com/fashiondb/stylecorpus/internal/ingest"
)

// Source is one curated site entry in the sources file.
type Source struct {
	Name     string   `json:"name"`
	Domain   string   `json:"domain"`
	URLs     []string `json:"urls"`
	Active   bool     `json:"active"`
	Priority int      `json:"priority"`
}

// LoadSources reads and validates the curated sources file.
func LoadSources(path string) ([]Source, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read sources file: %w", err)
	}
	var sources []Source
	if err := json.Unmarshal(data, &sources); err != nil {
		return nil, fmt.Errorf("parse sources file %s: %w", path, err)
	}
	for i, s := range sources {
		if s.Name == "" {
			return nil, fmt.Errorf("sources file %s: entry %d has no name", path, i)
		}
		if len(s.URLs) == 0 && s.Active {
			return nil, fmt.Errorf("sources file %s: active source %q has no urls", path, s.Name)
		}
	}
	return sources, nil
}

// SourceGroups converts sources into orchestrator input: inactive
// sources dropped, the rest ordered by priority descending. The sort is
// stable so equal-priority sources keep file order, and URL order
// within a source is preserved, which makes a whole run's outcome log
// deterministic for a given file.
func SourceGroups(sources []Source) []ingest.SourceGroup {
	active := make([]Source, 0, len(sources))
	for _, s := range sources {
		if s.Active {
			active = append(active, s)
		}
	}
	sort.SliceStable(active, func(i, j int) bool { return active[i].Priority > active[j].Priority })

	groups := make([]ingest.SourceGroup, 0, len(active))
	for _, s := range active {
		groups = append(groups, ingest.SourceGroup{Topic: s.Name, URLs: s.URLs})
	}
	return groups
}
