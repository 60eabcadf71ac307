// Package postgres provides Postgres-backed persistence for content
// records and merged rules.
package postgres

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/fashiondb/stylecorpus/internal/corpus"
)

// Config controls the Postgres connection pool.
type Config struct {
	DSN             string
	MaxConns        int32
	MaxConnLifetime time.Duration
}

// pool is the subset of pgxpool.Pool the store needs; pgxmock satisfies
// it in tests.
type pool interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Begin(ctx context.Context) (pgx.Tx, error)
	Close()
}

// Store implements corpus.ContentStore and corpus.RuleStore on Postgres.
// Upserts rely on ON CONFLICT DO UPDATE over the content_id primary key,
// so last-write-wins and per-key serialization come from the database.
type Store struct {
	pool pool
}

// New connects a pool and returns a Store.
func New(ctx context.Context, cfg Config) (*Store, error) {
	if cfg.DSN == "" {
		return nil, fmt.Errorf("database.dsn is required")
	}
	poolCfg, err := pgxpool.ParseConfig(cfg.DSN)
	if err != nil {
		return nil, fmt.Errorf("parse postgres dsn: %w", err)
	}
	if cfg.MaxConns > 0 {
		poolCfg.MaxConns = cfg.MaxConns
	}
	if cfg.MaxConnLifetime > 0 {
		poolCfg.MaxConnLifetime = cfg.MaxConnLifetime
	}
	p, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		return nil, fmt.Errorf("connect postgres: %w", err)
	}
	return &Store{pool: p}, nil
}

// NewWithPool constructs a Store from an existing pool (primarily for
// testing).
func NewWithPool(p pool) (*Store, error) {
	if p == nil {
		return nil, fmt.Errorf("pool is required")
	}
	return &Store{pool: p}, nil
}

// Close releases the underlying pool resources.
func (s *Store) Close() {
	if s == nil || s.pool == nil {
		return
	}
	s.pool.Close()
}

const upsertContentSQL = `
INSERT INTO content (
	content_id, url, domain, source_type, title, body, author,
	published_date, tags, scraped_at, raw_length, word_count, quality_score
) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
ON CONFLICT (content_id) DO UPDATE SET
	url = EXCLUDED.url,
	domain = EXCLUDED.domain,
	source_type = EXCLUDED.source_type,
	title = EXCLUDED.title,
	body = EXCLUDED.body,
	author = EXCLUDED.author,
	published_date = EXCLUDED.published_date,
	tags = EXCLUDED.tags,
	scraped_at = EXCLUDED.scraped_at,
	raw_length = EXCLUDED.raw_length,
	word_count = EXCLUDED.word_count,
	quality_score = EXCLUDED.quality_score`

// Upsert stores the record, fully replacing any prior row for the same
// content ID. Every column is overwritten; there is no field-level merge.
func (s *Store) Upsert(ctx context.Context, record corpus.ContentRecord) error {
	_, err := s.pool.Exec(ctx, upsertContentSQL,
		record.ContentID,
		record.URL,
		record.Domain,
		string(record.SourceType),
		record.Title,
		record.Body,
		nullable(record.Author),
		nullable(record.PublishedDate),
		tagsSlice(record.Tags),
		record.ScrapedAt,
		record.RawLength,
		record.WordCount,
		record.QualityScore,
	)
	if err != nil {
		return fmt.Errorf("upsert content %s: %w", record.ContentID, err)
	}
	return nil
}

const selectContentSQL = `
SELECT content_id, url, domain, source_type, title, body,
	COALESCE(author, ''), COALESCE(published_date, ''), tags,
	scraped_at, raw_length, word_count, quality_score
FROM content`

// Get fetches one record by content ID.
func (s *Store) Get(ctx context.Context, contentID string) (corpus.ContentRecord, error) {
	row := s.pool.QueryRow(ctx, selectContentSQL+" WHERE content_id = $1", contentID)
	record, err := scanRecord(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return corpus.ContentRecord{}, corpus.ErrNotFound
	}
	if err != nil {
		return corpus.ContentRecord{}, fmt.Errorf("get content %s: %w", contentID, err)
	}
	return record, nil
}

// ListByDomain returns records for one domain, ordered by content ID.
func (s *Store) ListByDomain(ctx context.Context, domain string) ([]corpus.ContentRecord, error) {
	rows, err := s.pool.Query(ctx, selectContentSQL+" WHERE domain = $1 ORDER BY content_id", domain)
	if err != nil {
		return nil, fmt.Errorf("list content by domain %s: %w", domain, err)
	}
	return collectRecords(rows)
}

// List returns every stored record, ordered by content ID.
func (s *Store) List(ctx context.Context) ([]corpus.ContentRecord, error) {
	rows, err := s.pool.Query(ctx, selectContentSQL+" ORDER BY content_id")
	if err != nil {
		return nil, fmt.Errorf("list content: %w", err)
	}
	return collectRecords(rows)
}

const domainStatsSQL = `
SELECT domain, COUNT(*), AVG(quality_score), AVG(word_count)
FROM content
GROUP BY domain
ORDER BY domain`

// DomainStats aggregates counts and averages per domain.
func (s *Store) DomainStats(ctx context.Context) ([]corpus.DomainStats, error) {
	rows, err := s.pool.Query(ctx, domainStatsSQL)
	if err != nil {
		return nil, fmt.Errorf("domain stats: %w", err)
	}
	defer rows.Close()

	var stats []corpus.DomainStats
	for rows.Next() {
		var st corpus.DomainStats
		if err := rows.Scan(&st.Domain, &st.Records, &st.AvgQualityScore, &st.AvgWordCount); err != nil {
			return nil, fmt.Errorf("scan domain stats: %w", err)
		}
		stats = append(stats, st)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("domain stats rows: %w", err)
	}
	return stats, nil
}

// Purge removes one record. Purging an unknown ID is not an error.
func (s *Store) Purge(ctx context.Context, contentID string) error {
	if _, err := s.pool.Exec(ctx, "DELETE FROM content WHERE content_id = $1", contentID); err != nil {
		return fmt.Errorf("purge content %s: %w", contentID, err)
	}
	return nil
}

// Count returns the number of stored records.
func (s *Store) Count(ctx context.Context) (int, error) {
	var count int
	if err := s.pool.QueryRow(ctx, "SELECT COUNT(*) FROM content").Scan(&count); err != nil {
		return 0, fmt.Errorf("count content: %w", err)
	}
	return count, nil
}

// ReplaceAll swaps the whole rule set inside one transaction so readers
// never observe a partially replaced set.
func (s *Store) ReplaceAll(ctx context.Context, rules []corpus.Rule) error {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin rule replace: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if _, err := tx.Exec(ctx, "DELETE FROM rules"); err != nil {
		return fmt.Errorf("clear rules: %w", err)
	}
	const insertRuleSQL = `
INSERT INTO rules (rule_id, text, category, confidence, sources, merge_count)
VALUES ($1, $2, $3, $4, $5, $6)`
	for _, rule := range rules {
		if _, err := tx.Exec(ctx, insertRuleSQL,
			rule.RuleID, rule.Text, rule.Category, rule.Confidence, rule.Sources, rule.MergeCount,
		); err != nil {
			return fmt.Errorf("insert rule %s: %w", rule.RuleID, err)
		}
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit rule replace: %w", err)
	}
	return nil
}

// ListRules returns the persisted rule set ordered by category and text.
func (s *Store) ListRules(ctx context.Context) ([]corpus.Rule, error) {
	rows, err := s.pool.Query(ctx,
		"SELECT rule_id, text, category, confidence, sources, merge_count FROM rules ORDER BY category, text")
	if err != nil {
		return nil, fmt.Errorf("list rules: %w", err)
	}
	defer rows.Close()

	var rules []corpus.Rule
	for rows.Next() {
		var rule corpus.Rule
		if err := rows.Scan(&rule.RuleID, &rule.Text, &rule.Category, &rule.Confidence, &rule.Sources, &rule.MergeCount); err != nil {
			return nil, fmt.Errorf("scan rule: %w", err)
		}
		rules = append(rules, rule)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rule rows: %w", err)
	}
	return rules, nil
}

func scanRecord(row pgx.Row) (corpus.ContentRecord, error) {
	var (
		record     corpus.ContentRecord
		sourceType string
		tags       []string
	)
	err := row.Scan(
		&record.ContentID,
		&record.URL,
		&record.Domain,
		&sourceType,
		&record.Title,
		&record.Body,
		&record.Author,
		&record.PublishedDate,
		&tags,
		&record.ScrapedAt,
		&record.RawLength,
		&record.WordCount,
		&record.QualityScore,
	)
	if err != nil {
		return corpus.ContentRecord{}, err
	}
	record.SourceType = corpus.SourceType(sourceType)
	if len(tags) > 0 {
		record.Tags = make(map[string]struct{}, len(tags))
		for _, tag := range tags {
			record.Tags[tag] = struct{}{}
		}
	}
	return record, nil
}

func collectRecords(rows pgx.Rows) ([]corpus.ContentRecord, error) {
	defer rows.Close()
	var records []corpus.ContentRecord
	for rows.Next() {
		record, err := scanRecord(rows)
		if err != nil {
			return nil, fmt.Errorf("scan content row: %w", err)
		}
		records = append(records, record)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("content rows: %w", err)
	}
	return records, nil
}

func nullable(s string) any {
	if s == "" {
		return nil
	}
	return s
}

func tagsSlice(tags map[string]struct{}) []string {
	if len(tags) == 0 {
		return nil
	}
	out := make([]string, 0, len(tags))
	for tag := range tags {
		out = append(out, tag)
	}
	sort.Strings(out)
	return out
}
