// Package ingest drives the fetch pipeline: denylist check, rate-gated
// fetch with bounded retries, validation, scoring, and storage. One
// terminal outcome is produced for every input URL, in input order.
package ingest

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/fashiondb/stylecorpus/internal/corpus"
	"github.com/fashiondb/stylecorpus/internal/metrics"
	"github.com/fashiondb/stylecorpus/internal/quality"
)

// Outcome states. Every input URL terminates in exactly one of these.
const (
	OutcomeSuccess          = "success"
	OutcomeSkipped          = "skipped"
	OutcomeFailedPermanent  = "failed_permanent"
	OutcomeFailedTransient  = "failed_transient"
	OutcomeFailedValidation = "failed_validation"
)

// SourceGroup is one ordered ingestion input: a topic and its URLs.
type SourceGroup struct {
	Topic string
	URLs  []string
}

// Outcome is the terminal record for one input URL. The outcome log is
// emitted in exact input order regardless of completion order; that
// ordering is a determinism contract, not the execution order.
type Outcome struct {
	URL       string        `json:"url"`
	Domain    string        `json:"domain"`
	Topic     string        `json:"topic"`
	State     string        `json:"outcome"`
	Attempts  int           `json:"attempts"`
	ErrorKind string        `json:"error_kind,omitempty"`
	Elapsed   time.Duration `json:"elapsed"`
}

// Router resolves the adapter for a registrable domain.
type Router interface {
	Route(domain string) corpus.Adapter
}

// Config bounds orchestrator behavior. All values come from the
// application configuration and are fixed for the run.
type Config struct {
	MaxAttempts  int
	RetryDelay   time.Duration
	MinBodyChars int
	Workers      int
	BlobPrefix   string
}

// Orchestrator sequences acquisition attempts and writes validated
// records into the store.
type Orchestrator struct {
	cfg       Config
	router    Router
	store     corpus.ContentStore
	blobs     corpus.BlobStore
	publisher corpus.Publisher
	hasher    corpus.Hasher
	clock     corpus.Clock
	gate      *RateGate
	denylist  *Denylist
	retry     *RetryPolicy
	logger    *zap.Logger
}

// New constructs an Orchestrator. Blob store and publisher are optional;
// everything else is required.
func New(
	cfg Config,
	router Router,
	store corpus.ContentStore,
	blobs corpus.BlobStore,
	publisher corpus.Publisher,
	hasher corpus.Hasher,
	clock corpus.Clock,
	gate *RateGate,
	denylist *Denylist,
	logger *zap.Logger,
) *Orchestrator {
	if cfg.Workers < 1 {
		cfg.Workers = 1
	}
	return &Orchestrator{
		cfg:       cfg,
		router:    router,
		store:     store,
		blobs:     blobs,
		publisher: publisher,
		hasher:    hasher,
		clock:     clock,
		gate:      gate,
		denylist:  denylist,
		retry:     NewRetryPolicy(cfg.MaxAttempts, cfg.RetryDelay),
		logger:    logger,
	}
}

type task struct {
	topic string
	url   string
}

// Run processes every URL in every group and returns one outcome per
// URL, ordered exactly as the input. Per-URL failures are isolated and
// never abort the run.
func (o *Orchestrator) Run(ctx context.Context, groups []SourceGroup) []Outcome {
	var tasks []task
	for _, group := range groups {
		for _, u := range group.URLs {
			tasks = append(tasks, task{topic: group.Topic, url: u})
		}
	}
	outcomes := make([]Outcome, len(tasks))

	if o.cfg.Workers == 1 {
		for i, t := range tasks {
			outcomes[i] = o.processURL(ctx, t)
		}
		return outcomes
	}

	// Workers pull indexes and write into their slot, so the outcome
	// slice keeps input order whatever the completion order.
	indexes := make(chan int)
	var wg sync.WaitGroup
	for w := 0; w < o.cfg.Workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range indexes {
				outcomes[i] = o.processURL(ctx, tasks[i])
			}
		}()
	}
	for i := range tasks {
		indexes <- i
	}
	close(indexes)
	wg.Wait()
	return outcomes
}

func (o *Orchestrator) processURL(ctx context.Context, t task) Outcome {
	start := time.Now()
	outcome := Outcome{URL: t.url, Topic: t.topic}
	finish := func() Outcome {
		outcome.Elapsed = time.Since(start)
		metrics.ObserveFetchOutcome(outcome.Domain, outcome.State)
		return outcome
	}

	domain, err := RegistrableDomain(t.url)
	if err != nil {
		outcome.State = OutcomeFailedPermanent
		outcome.ErrorKind = string(corpus.FetchErrUnsupported)
		o.logger.Warn("unparseable url", zap.String("url", t.url), zap.Error(err))
		return finish()
	}
	outcome.Domain = domain

	if o.denylist.Blocked(domain) {
		outcome.State = OutcomeSkipped
		o.logger.Info("domain denylisted, skipping", zap.String("url", t.url), zap.String("domain", domain))
		return finish()
	}

	adapter := o.router.Route(domain)
	result, attempts, fetchErr := o.fetchWithRetry(ctx, adapter, t.url)
	outcome.Attempts = attempts
	if fetchErr != nil {
		outcome.ErrorKind = errorKind(fetchErr)
		var fe *corpus.FetchError
		if errors.As(fetchErr, &fe) && fe.Transient() {
			outcome.State = OutcomeFailedTransient
		} else {
			outcome.State = OutcomeFailedPermanent
		}
		o.logger.Warn("fetch failed",
			zap.String("url", t.url),
			zap.Int("attempts", attempts),
			zap.String("error_kind", outcome.ErrorKind),
			zap.Error(fetchErr),
		)
		return finish()
	}
	metrics.ObserveFetchBytes(domain, len(result.Body))

	parsed, err := adapter.Parse(ctx, result.Body, t.url)
	if err != nil {
		outcome.State = OutcomeFailedPermanent
		outcome.ErrorKind = string(corpus.FetchErrUnsupported)
		o.logger.Warn("parse failed", zap.String("url", t.url), zap.Error(err))
		return finish()
	}

	if err := Validate(parsed, t.url, o.cfg.MinBodyChars); err != nil {
		outcome.State = OutcomeFailedValidation
		outcome.ErrorKind = errorKind(err)
		o.logger.Info("content failed validation", zap.String("url", t.url), zap.Error(err))
		return finish()
	}

	if err := o.persist(ctx, t, domain, result, parsed); err != nil {
		outcome.State = OutcomeFailedPermanent
		outcome.ErrorKind = "storage"
		o.logger.Error("persist failed", zap.String("url", t.url), zap.Error(err))
		return finish()
	}

	outcome.State = OutcomeSuccess
	o.logger.Debug("url processed", zap.String("url", t.url), zap.Int("attempts", attempts))
	return finish()
}

// fetchWithRetry applies the rate gate and the fixed retry policy. It
// returns the successful result, the number of attempts consumed, and
// the final error if every attempt failed.
func (o *Orchestrator) fetchWithRetry(ctx context.Context, adapter corpus.Adapter, rawURL string) (corpus.FetchResult, int, error) {
	var lastErr error
	for attempt := 1; attempt <= o.retry.MaxAttempts(); attempt++ {
		if err := o.gate.Wait(ctx); err != nil {
			return corpus.FetchResult{}, attempt - 1, err
		}
		result, err := adapter.Fetch(ctx, rawURL)
		if err == nil {
			return result, attempt, nil
		}
		lastErr = err
		if !o.retry.ShouldRetry(err, attempt) {
			return corpus.FetchResult{}, attempt, err
		}
		metrics.ObserveRetry()
		o.logger.Debug("transient fetch failure, retrying",
			zap.String("url", rawURL),
			zap.Int("attempt", attempt),
			zap.Error(err),
		)
		o.retry.Pause(ctx)
	}
	return corpus.FetchResult{}, o.retry.MaxAttempts(), lastErr
}

func (o *Orchestrator) persist(ctx context.Context, t task, domain string, result corpus.FetchResult, parsed corpus.ParsedContent) error {
	contentID := o.hasher.Hash([]byte(t.url))
	m := quality.Score(parsed.Body)

	var tags map[string]struct{}
	if len(parsed.Tags) > 0 || t.topic != "" {
		tags = make(map[string]struct{}, len(parsed.Tags)+1)
		for _, tag := range parsed.Tags {
			tags[tag] = struct{}{}
		}
		if t.topic != "" {
			tags[t.topic] = struct{}{}
		}
	}

	record := corpus.ContentRecord{
		ContentID:     contentID,
		URL:           t.url,
		Domain:        domain,
		SourceType:    parsed.SourceType,
		Title:         parsed.Title,
		Body:          parsed.Body,
		Author:        parsed.Author,
		PublishedDate: parsed.PublishedDate,
		Tags:          tags,
		ScrapedAt:     o.clock.Now(),
		RawLength:     len(result.Body),
		WordCount:     m.WordCount,
		QualityScore:  m.QualityScore,
	}

	// Raw-HTML archival is best effort; losing a blob never fails the URL.
	if o.blobs != nil {
		path := blobPath(o.cfg.BlobPrefix, domain, contentID)
		if _, err := o.blobs.Put(ctx, path, "text/html; charset=utf-8", result.Body); err != nil {
			o.logger.Warn("blob archive failed", zap.String("url", t.url), zap.Error(err))
		}
	}

	if err := o.store.Upsert(ctx, record); err != nil {
		return fmt.Errorf("upsert record: %w", err)
	}
	metrics.ObserveRecordStored()

	if o.publisher != nil {
		event := corpus.StoredEvent{
			ContentID:    record.ContentID,
			URL:          record.URL,
			Domain:       record.Domain,
			QualityScore: record.QualityScore,
			ScrapedAt:    record.ScrapedAt,
		}
		if err := o.publisher.Publish(ctx, event); err != nil {
			o.logger.Warn("stored event publish failed", zap.String("content_id", record.ContentID), zap.Error(err))
		}
	}
	return nil
}

// Validate applies the pure content checks: minimum body length and a
// non-empty title. Failing content is discarded, never stored.
func Validate(parsed corpus.ParsedContent, url string, minBodyChars int) error {
	if strings.TrimSpace(parsed.Title) == "" {
		return &corpus.ValidationError{URL: url, Reason: "empty title"}
	}
	if len(parsed.Body) < minBodyChars {
		return &corpus.ValidationError{
			URL:    url,
			Reason: fmt.Sprintf("body too short: %d chars, need %d", len(parsed.Body), minBodyChars),
		}
	}
	return nil
}

// RegistrableDomain reduces a URL to its routing key: lowercased host
// with any leading "www." stripped.
func RegistrableDomain(rawURL string) (string, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return "", fmt.Errorf("parse url: %w", err)
	}
	host := strings.ToLower(u.Hostname())
	if host == "" {
		return "", fmt.Errorf("url %q has no host", rawURL)
	}
	return strings.TrimPrefix(host, "www."), nil
}

func blobPath(prefix, domain, contentID string) string {
	prefix = strings.Trim(prefix, "/")
	if prefix == "" {
		return fmt.Sprintf("%s/%s.html", domain, contentID)
	}
	return fmt.Sprintf("%s/%s/%s.html", prefix, domain, contentID)
}
