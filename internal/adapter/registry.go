package adapter

import (
	"sort"

	"github.com/fashiondb/stylecorpus/internal/corpus"
)

// Registry routes a registrable domain to its adapter. Lookup is O(1);
// unknown domains fall through to the generic adapter so every URL has
// a parser.
type Registry struct {
	byDomain map[string]corpus.Adapter
	fallback corpus.Adapter
}

// NewRegistry wires the built-in adapters over one shared transport.
func NewRegistry(transport *Transport) *Registry {
	return &Registry{
		byDomain: map[string]corpus.Adapter{
			"styleforum.net": NewStyleForum(transport),
			"putthison.com":  NewPutThisOn(transport),
		},
		fallback: NewGeneric(transport),
	}
}

// Register adds or replaces the adapter for a domain.
func (r *Registry) Register(domain string, adapter corpus.Adapter) {
	r.byDomain[domain] = adapter
}

// Route returns the adapter for a domain, or the generic fallback.
func (r *Registry) Route(domain string) corpus.Adapter {
	if adapter, ok := r.byDomain[domain]; ok {
		return adapter
	}
	return r.fallback
}

// Domains lists the explicitly routed domains, sorted.
func (r *Registry) Domains() []string {
	domains := make([]string, 0, len(r.byDomain))
	for d := range r.byDomain {
		domains = append(domains, d)
	}
	sort.Strings(domains)
	return domains
}
