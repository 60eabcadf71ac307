package corpus

import (
	"context"
	"time"
)

// Adapter fetches and parses content for the domains it supports.
type Adapter interface {
	Fetch(ctx context.Context, url string) (FetchResult, error)
	Parse(ctx context.Context, raw []byte, url string) (ParsedContent, error)
}

// ContentStore persists content records keyed by content ID.
// Upsert is last-write-wins: a re-upsert fully replaces the prior record.
type ContentStore interface {
	Upsert(ctx context.Context, record ContentRecord) error
	Get(ctx context.Context, contentID string) (ContentRecord, error)
	ListByDomain(ctx context.Context, domain string) ([]ContentRecord, error)
	List(ctx context.Context) ([]ContentRecord, error)
	DomainStats(ctx context.Context) ([]DomainStats, error)
	Purge(ctx context.Context, contentID string) error
	Count(ctx context.Context) (int, error)
}

// RuleStore persists the merged rule set. ReplaceAll swaps the whole set
// atomically; merges never mutate persisted rules in place.
type RuleStore interface {
	ReplaceAll(ctx context.Context, rules []Rule) error
	ListRules(ctx context.Context) ([]Rule, error)
}

// Extractor produces rule candidates from a stored record. The
// implementation is an external collaborator and treated as opaque.
type Extractor interface {
	Extract(ctx context.Context, record ContentRecord) ([]RuleCandidate, error)
}

// BlobStore archives raw fetched artifacts and returns a URI.
type BlobStore interface {
	Put(ctx context.Context, path string, contentType string, data []byte) (string, error)
}

// Publisher pushes stored-content events for downstream consumers.
type Publisher interface {
	Publish(ctx context.Context, event StoredEvent) error
}

// Hasher computes stable IDs from source text.
type Hasher interface {
	Hash(data []byte) string
}

// Clock returns the current time (injectable for testing).
type Clock interface {
	Now() time.Time
}
