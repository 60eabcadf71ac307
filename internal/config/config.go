// Package config initializes the application's configuration. It uses
// Viper to read settings from a config file, environment variables, and
// CLI flags, and exposes them as one immutable Config value that is
// constructed once and passed explicitly into every component.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config captures every knob that influences a corpus run.
type Config struct {
	Development bool

	UserAgent      string
	RequestTimeout time.Duration

	// Fetch policy. MinFetchDelay is enforced by a single global rate
	// gate across all workers; MaxAttempts and RetryDelay are fixed and
	// jitterless so runs are reproducible.
	MaxAttempts   int
	RetryDelay    time.Duration
	MinFetchDelay time.Duration
	Workers       int
	Denylist      []string

	MinBodyChars int

	SimilarityThreshold float64

	SourcesFile string
	ExportDir   string
	SampleSize  int

	Database DatabaseConfig
	Blob     BlobConfig
	Publish  PublishConfig

	MetricsAddr string
}

// DatabaseConfig selects and tunes the content/rule store backend.
type DatabaseConfig struct {
	Backend         string // "memory" or "postgres"
	DSN             string
	MaxConns        int32
	MaxConnLifetime time.Duration
}

// BlobConfig selects the raw-HTML archival backend.
type BlobConfig struct {
	Backend string // "none", "local", or "gcs"
	Dir     string
	Bucket  string
	Prefix  string
}

// PublishConfig controls stored-content event publishing.
type PublishConfig struct {
	Enabled   bool
	ProjectID string
	TopicID   string
}

// Init registers defaults and search paths on the shared Viper instance.
// Called once at startup, before Load.
func Init(v *viper.Viper) {
	v.SetConfigName("config")
	v.AddConfigPath(".")
	v.AddConfigPath("/etc/stylecorpus/")
	v.AddConfigPath("$HOME/.stylecorpus")

	v.SetDefault("development", false)

	v.SetDefault("fetch.user_agent", "Mozilla/5.0 (compatible; StyleCorpus/1.0; +https://github.com/fashiondb/stylecorpus)")
	v.SetDefault("fetch.request_timeout", "30s")
	v.SetDefault("fetch.max_attempts", 3)
	v.SetDefault("fetch.retry_delay", "2s")
	v.SetDefault("fetch.min_delay", "1s")
	v.SetDefault("fetch.workers", 1)
	v.SetDefault("fetch.denylist", []string{})

	v.SetDefault("validate.min_body_chars", 300)

	v.SetDefault("dedup.similarity_threshold", 0.6)

	v.SetDefault("sources.file", "curated_sites.json")
	v.SetDefault("export.dir", "data/validation")
	v.SetDefault("export.sample_size", 10)

	v.SetDefault("database.backend", "memory")
	v.SetDefault("database.dsn", "")
	v.SetDefault("database.max_conns", 4)
	v.SetDefault("database.max_conn_lifetime", "30m")

	v.SetDefault("blob.backend", "none")
	v.SetDefault("blob.dir", "data/raw")
	v.SetDefault("blob.bucket", "")
	v.SetDefault("blob.prefix", "raw")

	v.SetDefault("publish.enabled", false)
	v.SetDefault("publish.project_id", "")
	v.SetDefault("publish.topic_id", "")

	v.SetDefault("metrics.addr", "")

	v.SetEnvPrefix("STYLECORPUS")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
}

// ReadFile attempts to read the config file. A missing file is not an
// error; defaults and env vars carry the run.
func ReadFile(v *viper.Viper) (used string, err error) {
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) {
			return "", nil
		}
		return "", fmt.Errorf("read config file: %w", err)
	}
	return v.ConfigFileUsed(), nil
}

// Load constructs an immutable Config from the Viper instance.
func Load(v *viper.Viper) (Config, error) {
	cfg := Config{
		Development:         v.GetBool("development"),
		UserAgent:           v.GetString("fetch.user_agent"),
		RequestTimeout:      v.GetDuration("fetch.request_timeout"),
		MaxAttempts:         v.GetInt("fetch.max_attempts"),
		RetryDelay:          v.GetDuration("fetch.retry_delay"),
		MinFetchDelay:       v.GetDuration("fetch.min_delay"),
		Workers:             v.GetInt("fetch.workers"),
		Denylist:            v.GetStringSlice("fetch.denylist"),
		MinBodyChars:        v.GetInt("validate.min_body_chars"),
		SimilarityThreshold: v.GetFloat64("dedup.similarity_threshold"),
		SourcesFile:         v.GetString("sources.file"),
		ExportDir:           v.GetString("export.dir"),
		SampleSize:          v.GetInt("export.sample_size"),
		Database: DatabaseConfig{
			Backend:         v.GetString("database.backend"),
			DSN:             v.GetString("database.dsn"),
			MaxConns:        int32(v.GetInt("database.max_conns")),
			MaxConnLifetime: v.GetDuration("database.max_conn_lifetime"),
		},
		Blob: BlobConfig{
			Backend: v.GetString("blob.backend"),
			Dir:     v.GetString("blob.dir"),
			Bucket:  v.GetString("blob.bucket"),
			Prefix:  v.GetString("blob.prefix"),
		},
		Publish: PublishConfig{
			Enabled:   v.GetBool("publish.enabled"),
			ProjectID: v.GetString("publish.project_id"),
			TopicID:   v.GetString("publish.topic_id"),
		},
		MetricsAddr: v.GetString("metrics.addr"),
	}
	return cfg, cfg.Validate()
}

// Validate checks for obviously bad configuration combinations.
func (c Config) Validate() error {
	if c.UserAgent == "" {
		return fmt.Errorf("fetch.user_agent must be set")
	}
	if c.RequestTimeout <= 0 {
		return fmt.Errorf("fetch.request_timeout must be > 0")
	}
	if c.MaxAttempts <= 0 {
		return fmt.Errorf("fetch.max_attempts must be > 0")
	}
	if c.RetryDelay < 0 {
		return fmt.Errorf("fetch.retry_delay must be >= 0")
	}
	if c.MinFetchDelay < 0 {
		return fmt.Errorf("fetch.min_delay must be >= 0")
	}
	if c.Workers <= 0 {
		return fmt.Errorf("fetch.workers must be > 0")
	}
	if c.MinBodyChars <= 0 {
		return fmt.Errorf("validate.min_body_chars must be > 0")
	}
	if c.SimilarityThreshold <= 0 || c.SimilarityThreshold > 1 {
		return fmt.Errorf("dedup.similarity_threshold must be in (0, 1]")
	}
	if c.SampleSize < 0 {
		return fmt.Errorf("export.sample_size must be >= 0")
	}
	switch c.Database.Backend {
	case "memory":
	case "postgres":
		if c.Database.DSN == "" {
			return fmt.Errorf("database.dsn is required for the postgres backend")
		}
	default:
		return fmt.Errorf("database.backend must be memory or postgres, got %q", c.Database.Backend)
	}
	switch c.Blob.Backend {
	case "none", "local":
	case "gcs":
		if c.Blob.Bucket == "" {
			return fmt.Errorf("blob.bucket is required for the gcs backend")
		}
	default:
		return fmt.Errorf("blob.backend must be none, local, or gcs, got %q", c.Blob.Backend)
	}
	if c.Publish.Enabled && (c.Publish.ProjectID == "" || c.Publish.TopicID == "") {
		return fmt.Errorf("publish.project_id and publish.topic_id are required when publishing is enabled")
	}
	return nil
}
