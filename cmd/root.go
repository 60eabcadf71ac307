// Package cmd defines and implements the CLI commands for the
// stylecorpus executable.
package cmd

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/fashiondb/stylecorpus/internal/api"
	blobgcs "github.com/fashiondb/stylecorpus/internal/blob/gcs"
	bloblocal "github.com/fashiondb/stylecorpus/internal/blob/local"
	"github.com/fashiondb/stylecorpus/internal/config"
	"github.com/fashiondb/stylecorpus/internal/corpus"
	"github.com/fashiondb/stylecorpus/internal/logging"
	"github.com/fashiondb/stylecorpus/internal/metrics"
	"github.com/fashiondb/stylecorpus/internal/publish"
	storememory "github.com/fashiondb/stylecorpus/internal/store/memory"
	storepostgres "github.com/fashiondb/stylecorpus/internal/store/postgres"

	gcstorage "cloud.google.com/go/storage"
)

var cfgFile string

// contentAndRuleStore is what both store backends provide.
type contentAndRuleStore interface {
	corpus.ContentStore
	corpus.RuleStore
}

// app holds the services shared by every subcommand for one run.
type app struct {
	cfg       config.Config
	logger    *zap.Logger
	runID     string
	store     contentAndRuleStore
	blobs     corpus.BlobStore // nil when archival is disabled
	publisher corpus.Publisher // nil when publishing is disabled
	closers   []func()
}

func (a *app) close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		a.closers[i]()
	}
}

type appKeyType struct{}

// newApp is a variable so tests can inject a stub factory.
var newApp = buildApp

func buildApp(ctx context.Context) (*app, error) {
	v := viper.GetViper()
	config.Init(v)
	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	}
	used, err := config.ReadFile(v)
	if err != nil {
		return nil, err
	}
	cfg, err := config.Load(v)
	if err != nil {
		return nil, fmt.Errorf("load configuration: %w", err)
	}

	logger, err := logging.New(cfg.Development)
	if err != nil {
		return nil, fmt.Errorf("initialize logger: %w", err)
	}

	a := &app{cfg: cfg, logger: logger, runID: uuid.NewString()}
	a.closers = append(a.closers, func() { _ = logger.Sync() })

	if used != "" {
		logger.Info("configuration loaded", zap.String("file", used), zap.String("run_id", a.runID))
	} else {
		logger.Info("using default configuration", zap.String("run_id", a.runID))
	}

	if err := a.buildStore(ctx); err != nil {
		a.close()
		return nil, err
	}
	if err := a.buildBlobStore(ctx); err != nil {
		a.close()
		return nil, err
	}
	if err := a.buildPublisher(ctx); err != nil {
		a.close()
		return nil, err
	}

	metrics.Init()
	a.maybeServeMetrics()
	return a, nil
}

func (a *app) buildStore(ctx context.Context) error {
	switch a.cfg.Database.Backend {
	case "postgres":
		store, err := storepostgres.New(ctx, storepostgres.Config{
			DSN:             a.cfg.Database.DSN,
			MaxConns:        a.cfg.Database.MaxConns,
			MaxConnLifetime: a.cfg.Database.MaxConnLifetime,
		})
		if err != nil {
			return fmt.Errorf("connect content store: %w", err)
		}
		a.store = store
		a.closers = append(a.closers, store.Close)
	default:
		a.store = storememory.New()
	}
	return nil
}

func (a *app) buildBlobStore(ctx context.Context) error {
	switch a.cfg.Blob.Backend {
	case "local":
		store, err := bloblocal.New(a.cfg.Blob.Dir)
		if err != nil {
			return fmt.Errorf("open local blob store: %w", err)
		}
		a.blobs = store
	case "gcs":
		client, err := gcstorage.NewClient(ctx)
		if err != nil {
			return fmt.Errorf("create storage client: %w", err)
		}
		store, err := blobgcs.New(client, a.cfg.Blob.Bucket)
		if err != nil {
			_ = client.Close()
			return fmt.Errorf("open gcs blob store: %w", err)
		}
		a.blobs = store
		a.closers = append(a.closers, func() { _ = client.Close() })
	}
	return nil
}

func (a *app) buildPublisher(ctx context.Context) error {
	if !a.cfg.Publish.Enabled {
		return nil
	}
	publisher, err := publish.NewPubSub(ctx, a.cfg.Publish.ProjectID, a.cfg.Publish.TopicID)
	if err != nil {
		return fmt.Errorf("connect publisher: %w", err)
	}
	a.publisher = publisher
	a.closers = append(a.closers, func() {
		if err := publisher.Close(); err != nil {
			a.logger.Warn("close publisher", zap.Error(err))
		}
	})
	return nil
}

// maybeServeMetrics starts the observability listener when configured.
// It serves until the process exits; commands are short-lived so no
// graceful drain is wired.
func (a *app) maybeServeMetrics() {
	if a.cfg.MetricsAddr == "" {
		return
	}
	server := &http.Server{
		Addr:              a.cfg.MetricsAddr,
		Handler:           api.NewServer(a.store, a.logger).Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}
	a.logger.Info("metrics listener starting", zap.String("addr", a.cfg.MetricsAddr))
	go func() {
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			a.logger.Warn("metrics listener stopped", zap.Error(err))
		}
	}()
	a.closers = append(a.closers, func() {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		_ = server.Shutdown(ctx)
	})
}

func resolveApp(ctx context.Context) (*app, error) {
	a, ok := ctx.Value(appKeyType{}).(*app)
	if !ok || a == nil {
		return nil, fmt.Errorf("application not initialized")
	}
	return a, nil
}

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "stylecorpus",
		Short: "Fashion-advice corpus builder",
		Long: `stylecorpus ingests fashion content from curated forums and blogs,
scores it for quality and truncation, stores it idempotently, and
deduplicates extracted style rules into a canonical rule set.`,

		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			a, err := newApp(cmd.Context())
			if err != nil {
				return fmt.Errorf("initialize application services: %w", err)
			}
			cmd.SetContext(context.WithValue(cmd.Context(), appKeyType{}, a))
			return nil
		},
		PersistentPostRun: func(cmd *cobra.Command, _ []string) {
			if a, ok := cmd.Context().Value(appKeyType{}).(*app); ok && a != nil {
				a.close()
			}
		},
	}

	cmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default searches ., /etc/stylecorpus, $HOME/.stylecorpus)")

	cmd.AddCommand(newScrapeCmd())
	cmd.AddCommand(newValidateCmd())
	cmd.AddCommand(newDedupeCmd())

	return cmd
}

// ExecuteContext runs the CLI with the given base context. Cobra prints
// the error before returning it, so callers only need the exit code.
func ExecuteContext(ctx context.Context) error {
	return newRootCmd().ExecuteContext(ctx)
}
