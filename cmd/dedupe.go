package cmd

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/fashiondb/stylecorpus/internal/corpus"
	"github.com/fashiondb/stylecorpus/internal/dedup"
	"github.com/fashiondb/stylecorpus/internal/hash/sha256"
)

func newDedupeCmd() *cobra.Command {
	var (
		inputPath  string
		outputPath string
		save       bool
	)

	cmd := &cobra.Command{
		Use:   "dedupe",
		Short: "Merge extracted rule candidates into a canonical rule set",
		Long: `Reads rule candidates (the extraction stage's JSON output), merges
near-duplicates within each category, and writes the canonical rules as
JSON. With --save the merged set also replaces the stored rules.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := resolveApp(cmd.Context())
			if err != nil {
				return err
			}
			if inputPath == "" {
				return fmt.Errorf("--input is required")
			}

			data, err := os.ReadFile(inputPath)
			if err != nil {
				return fmt.Errorf("read candidates file: %w", err)
			}
			var candidates []corpus.RuleCandidate
			if err := json.Unmarshal(data, &candidates); err != nil {
				return fmt.Errorf("parse candidates file %s: %w", inputPath, err)
			}

			merger := dedup.NewMerger(a.cfg.SimilarityThreshold, sha256.New())
			rules := merger.Merge(candidates)

			merged := 0
			for _, rule := range rules {
				merged += rule.MergeCount - 1
			}
			cmd.Printf("%d candidates -> %d rules (%d merged away)\n",
				len(candidates), len(rules), merged)

			if outputPath != "" {
				encoded, err := json.MarshalIndent(rules, "", "  ")
				if err != nil {
					return fmt.Errorf("encode rules: %w", err)
				}
				if err := os.WriteFile(outputPath, append(encoded, '\n'), 0o600); err != nil {
					return fmt.Errorf("write rules file: %w", err)
				}
				cmd.Printf("wrote %s\n", outputPath)
			}

			if save {
				if err := a.store.ReplaceAll(cmd.Context(), rules); err != nil {
					return fmt.Errorf("save rules: %w", err)
				}
				a.logger.Info("rule set replaced",
					zap.Int("rules", len(rules)),
					zap.Int("candidates", len(candidates)),
				)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&inputPath, "input", "", "rule candidates JSON file (required)")
	cmd.Flags().StringVar(&outputPath, "output", "", "write merged rules to this JSON file")
	cmd.Flags().BoolVar(&save, "save", false, "replace the stored rule set with the merged result")
	return cmd
}
