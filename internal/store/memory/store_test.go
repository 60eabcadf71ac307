package memory

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/fashiondb/stylecorpus/internal/corpus"
)

func sampleRecord(id, domain string) corpus.ContentRecord {
	return corpus.ContentRecord{
		ContentID:    id,
		URL:          "https://" + domain + "/" + id,
		Domain:       domain,
		SourceType:   corpus.SourceTypeBlog,
		Title:        "How To Wear A Navy Suit",
		Body:         "A navy suit pairs well with brown shoes.",
		ScrapedAt:    time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC),
		RawLength:    4096,
		WordCount:    8,
		QualityScore: 50,
	}
}

func TestUpsertIdempotent(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	store := New()
	record := sampleRecord("abc123", "putthison.com")

	require.NoError(t, store.Upsert(ctx, record))

	once, err := store.List(ctx)
	require.NoError(t, err)

	again := record
	again.ScrapedAt = record.ScrapedAt.Add(time.Hour)
	require.NoError(t, store.Upsert(ctx, again))

	twice, err := store.List(ctx)
	require.NoError(t, err)

	require.Len(t, twice, 1)
	got := twice[0]
	want := once[0]
	got.ScrapedAt = want.ScrapedAt
	require.Equal(t, want, got)
}

func TestUpsertReplacesWholeRecord(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	store := New()
	record := sampleRecord("abc123", "putthison.com")
	record.Author = "Derek"
	require.NoError(t, store.Upsert(ctx, record))

	replacement := sampleRecord("abc123", "putthison.com")
	replacement.Title = "Updated Title"
	// Author deliberately absent: last-write-wins means the old author
	// must not survive a field-level merge.
	require.NoError(t, store.Upsert(ctx, replacement))

	got, err := store.Get(ctx, "abc123")
	require.NoError(t, err)
	require.Equal(t, "Updated Title", got.Title)
	require.Empty(t, got.Author)
}

func TestGetUnknownID(t *testing.T) {
	t.Parallel()

	_, err := New().Get(context.Background(), "missing")
	require.True(t, errors.Is(err, corpus.ErrNotFound))
}

func TestListByDomainAndStats(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	store := New()

	a := sampleRecord("id1", "putthison.com")
	a.QualityScore = 80
	a.WordCount = 1000
	b := sampleRecord("id2", "putthison.com")
	b.QualityScore = 40
	b.WordCount = 500
	c := sampleRecord("id3", "styleforum.net")
	c.QualityScore = 60
	c.WordCount = 200

	for _, record := range []corpus.ContentRecord{a, b, c} {
		require.NoError(t, store.Upsert(ctx, record))
	}

	byDomain, err := store.ListByDomain(ctx, "putthison.com")
	require.NoError(t, err)
	require.Len(t, byDomain, 2)
	require.Equal(t, "id1", byDomain[0].ContentID)
	require.Equal(t, "id2", byDomain[1].ContentID)

	stats, err := store.DomainStats(ctx)
	require.NoError(t, err)
	require.Len(t, stats, 2)
	require.Equal(t, "putthison.com", stats[0].Domain)
	require.Equal(t, 2, stats[0].Records)
	require.InDelta(t, 60.0, stats[0].AvgQualityScore, 1e-9)
	require.InDelta(t, 750.0, stats[0].AvgWordCount, 1e-9)
	require.Equal(t, "styleforum.net", stats[1].Domain)
}

func TestPurge(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	store := New()
	require.NoError(t, store.Upsert(ctx, sampleRecord("abc123", "putthison.com")))
	require.NoError(t, store.Purge(ctx, "abc123"))
	require.NoError(t, store.Purge(ctx, "abc123"))

	count, err := store.Count(ctx)
	require.NoError(t, err)
	require.Zero(t, count)
}

func TestConcurrentSameKeyUpserts(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	store := New()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			record := sampleRecord("abc123", "putthison.com")
			record.Title = fmt.Sprintf("Title %d", i)
			record.Body = fmt.Sprintf("Body %d", i)
			_ = store.Upsert(ctx, record)
		}(i)
	}
	wg.Wait()

	got, err := store.Get(ctx, "abc123")
	require.NoError(t, err)
	// One complete record must have won: title and body from the same
	// writer, never an interleaving.
	require.Equal(t, got.Title[len("Title "):], got.Body[len("Body "):])
}

func TestRuleStoreReplaceAll(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	store := New()

	first := []corpus.Rule{{RuleID: "r1", Text: "Match your belt to your shoes", Category: "accessories", Confidence: 0.8, Sources: []string{"A"}, MergeCount: 1}}
	require.NoError(t, store.ReplaceAll(ctx, first))

	second := []corpus.Rule{
		{RuleID: "r2", Text: "Never wear a tie wider than your lapels", Category: "accessories", Confidence: 0.7, Sources: []string{"B"}, MergeCount: 1},
		{RuleID: "r3", Text: "Buy the best shoes you can afford", Category: "footwear", Confidence: 0.65, Sources: []string{"C"}, MergeCount: 1},
	}
	require.NoError(t, store.ReplaceAll(ctx, second))

	got, err := store.ListRules(ctx)
	require.NoError(t, err)
	require.Equal(t, second, got)
}
