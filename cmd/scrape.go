package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/fashiondb/stylecorpus/internal/adapter"
	"github.com/fashiondb/stylecorpus/internal/clock/system"
	"github.com/fashiondb/stylecorpus/internal/hash/sha256"
	"github.com/fashiondb/stylecorpus/internal/ingest"
)

func newScrapeCmd() *cobra.Command {
	var sourcesFile string

	cmd := &cobra.Command{
		Use:   "scrape",
		Short: "Ingest content from the curated sources",
		Long: `Fetches every URL listed in the sources file, scores the extracted
content, and stores it. Individual URL failures are reported but never
abort the run; the command exits zero as long as the run completes.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := resolveApp(cmd.Context())
			if err != nil {
				return err
			}
			path := sourcesFile
			if path == "" {
				path = a.cfg.SourcesFile
			}
			sources, err := LoadSources(path)
			if err != nil {
				return err
			}
			groups := SourceGroups(sources)
			if len(groups) == 0 {
				a.logger.Warn("no active sources, nothing to do", zap.String("file", path))
				return nil
			}

			transport := adapter.NewTransport(adapter.TransportConfig{
				UserAgent: a.cfg.UserAgent,
				Timeout:   a.cfg.RequestTimeout,
			})
			orchestrator := ingest.New(
				ingest.Config{
					MaxAttempts:  a.cfg.MaxAttempts,
					RetryDelay:   a.cfg.RetryDelay,
					MinBodyChars: a.cfg.MinBodyChars,
					Workers:      a.cfg.Workers,
					BlobPrefix:   a.cfg.Blob.Prefix,
				},
				adapter.NewRegistry(transport),
				a.store,
				a.blobs,
				a.publisher,
				sha256.New(),
				system.New(),
				ingest.NewRateGate(a.cfg.MinFetchDelay),
				ingest.NewDenylist(a.cfg.Denylist),
				a.logger,
			)

			a.logger.Info("scrape starting",
				zap.String("run_id", a.runID),
				zap.Int("sources", len(groups)),
				zap.Int("workers", a.cfg.Workers),
			)
			outcomes := orchestrator.Run(cmd.Context(), groups)

			counts := make(map[string]int)
			for _, out := range outcomes {
				counts[out.State]++
				line := fmt.Sprintf("%-17s %-30s attempts=%d elapsed=%s",
					out.State, out.URL, out.Attempts, out.Elapsed.Round(time.Millisecond))
				if out.ErrorKind != "" {
					line += " error=" + out.ErrorKind
				}
				cmd.Println(line)
			}
			cmd.Printf("\n%d urls: %d success, %d skipped, %d validation, %d transient, %d permanent\n",
				len(outcomes),
				counts[ingest.OutcomeSuccess],
				counts[ingest.OutcomeSkipped],
				counts[ingest.OutcomeFailedValidation],
				counts[ingest.OutcomeFailedTransient],
				counts[ingest.OutcomeFailedPermanent],
			)

			a.logger.Info("scrape finished",
				zap.String("run_id", a.runID),
				zap.Int("total", len(outcomes)),
				zap.Int("success", counts[ingest.OutcomeSuccess]),
			)
			return nil
		},
	}

	cmd.Flags().StringVar(&sourcesFile, "sources", "", "sources file (overrides sources.file)")
	return cmd
}
