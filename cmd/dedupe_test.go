package cmd

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/fashiondb/stylecorpus/internal/config"
	"github.com/fashiondb/stylecorpus/internal/corpus"
	storememory "github.com/fashiondb/stylecorpus/internal/store/memory"
)

// stubApp swaps the app factory so commands run against in-memory
// services with defaults, bypassing viper entirely.
func stubApp(t *testing.T) *app {
	t.Helper()
	a := &app{
		cfg: config.Config{
			SimilarityThreshold: 0.6,
			SampleSize:          10,
		},
		logger: zap.NewNop(),
		store:  storememory.New(),
	}
	prev := newApp
	newApp = func(context.Context) (*app, error) { return a, nil }
	t.Cleanup(func() { newApp = prev })
	return a
}

func runCommand(t *testing.T, args ...string) (string, error) {
	t.Helper()
	root := newRootCmd()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(args)
	err := root.ExecuteContext(context.Background())
	return out.String(), err
}

func TestDedupeCommand(t *testing.T) {
	a := stubApp(t)
	dir := t.TempDir()

	candidates := []corpus.RuleCandidate{
		{Text: "Match your belt with your shoes.", Category: "coordination", Confidence: 0.8, Source: "styleforum.net"},
		{Text: "Your belt should match your shoes!", Category: "coordination", Confidence: 0.75, Source: "putthison.com"},
		{Text: "Wear a suit to interviews.", Category: "formality", Confidence: 0.9, Source: "putthison.com"},
	}
	inputPath := filepath.Join(dir, "candidates.json")
	data, err := json.Marshal(candidates)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(inputPath, data, 0o600))

	outputPath := filepath.Join(dir, "rules.json")
	out, err := runCommand(t, "dedupe", "--input", inputPath, "--output", outputPath, "--save")
	require.NoError(t, err)
	assert.Contains(t, out, "3 candidates -> 2 rules")

	encoded, err := os.ReadFile(outputPath)
	require.NoError(t, err)
	var rules []corpus.Rule
	require.NoError(t, json.Unmarshal(encoded, &rules))
	require.Len(t, rules, 2)

	stored, err := a.store.ListRules(context.Background())
	require.NoError(t, err)
	assert.Equal(t, rules, stored)
}

func TestDedupeCommandRequiresInput(t *testing.T) {
	stubApp(t)
	_, err := runCommand(t, "dedupe")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "--input is required")
}

func TestValidateCommandEmptyStore(t *testing.T) {
	stubApp(t)
	out, err := runCommand(t, "validate")
	require.NoError(t, err)
	assert.Contains(t, out, "no stored content")
}
