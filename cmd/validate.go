package cmd

import (
	"path/filepath"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/fashiondb/stylecorpus/internal/corpus"
	"github.com/fashiondb/stylecorpus/internal/export"
	"github.com/fashiondb/stylecorpus/internal/quality"
)

// Quality bands used in the validation report.
const (
	highQualityScore   = 70
	lowQualityScore    = 40
	completeThreshold  = 0.2
	truncatedThreshold = 0.5
)

func newValidateCmd() *cobra.Command {
	var doExport bool

	cmd := &cobra.Command{
		Use:   "validate",
		Short: "Recompute quality metrics over the stored corpus",
		Long: `Re-scores every stored record and prints an aggregate quality and
truncation report. With --export, per-record metrics and review samples
are written to the export directory.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := resolveApp(cmd.Context())
			if err != nil {
				return err
			}
			records, err := a.store.List(cmd.Context())
			if err != nil {
				return err
			}
			if len(records) == 0 {
				cmd.Println("no stored content to validate")
				return nil
			}

			metrics := make(map[string]corpus.QualityMetrics, len(records))
			var (
				high, medium, low   int
				complete, truncated int
				scoreSum, wordSum   float64
			)
			for _, record := range records {
				m := quality.Score(record.Body)
				metrics[record.ContentID] = m
				scoreSum += m.QualityScore
				wordSum += float64(m.WordCount)
				switch {
				case m.QualityScore >= highQualityScore:
					high++
				case m.QualityScore >= lowQualityScore:
					medium++
				default:
					low++
				}
				switch {
				case m.TruncationLikelihood < completeThreshold:
					complete++
				case m.TruncationLikelihood > truncatedThreshold:
					truncated++
				}
			}

			n := float64(len(records))
			cmd.Printf("records:            %d\n", len(records))
			cmd.Printf("avg quality score:  %.1f\n", scoreSum/n)
			cmd.Printf("avg word count:     %.0f\n", wordSum/n)
			cmd.Printf("quality bands:      %d high (>=%d), %d medium, %d low (<%d)\n",
				high, highQualityScore, medium, low, lowQualityScore)
			cmd.Printf("truncation:         %d complete, %d likely truncated\n", complete, truncated)

			stats, err := a.store.DomainStats(cmd.Context())
			if err != nil {
				return err
			}
			for _, s := range stats {
				cmd.Printf("  %-30s %4d records, avg quality %.1f\n", s.Domain, s.Records, s.AvgQualityScore)
			}

			if !doExport {
				return nil
			}
			metricsPath := filepath.Join(a.cfg.ExportDir, "metrics.json")
			if err := export.WriteMetrics(metricsPath, metrics); err != nil {
				return err
			}
			samplesDir := filepath.Join(a.cfg.ExportDir, "samples")
			if err := export.WriteSamples(samplesDir, records, a.cfg.SampleSize); err != nil {
				return err
			}
			a.logger.Info("validation export written",
				zap.String("metrics", metricsPath),
				zap.String("samples", samplesDir),
				zap.Int("records", len(records)),
			)
			return nil
		},
	}

	cmd.Flags().BoolVar(&doExport, "export", false, "write metrics JSON and review samples to the export directory")
	return cmd
}
