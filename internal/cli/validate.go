package cli

import (
	"context"
	"sort"

	"github.com/spf13/cobra"

	"github.com/confluence-ai/query-analyzer/internal/dictionary"
)

var validateDir string

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Load a dictionary and report its contents",
	Long: `Loads the dictionary from --dir, or from the configured source when no directory
is given, and fails when a facet is missing, malformed or has conflicting variants.`,
	Args: cobra.NoArgs,
	RunE: runValidate,
}

func init() {
	validateCmd.Flags().StringVar(&validateDir, "dir", "", "directory holding one vocabulary file per facet")
	rootCmd.AddCommand(validateCmd)
}

func runValidate(cmd *cobra.Command, _ []string) error {
	idx, name, err := loadForValidation(cmd.Context())
	if err != nil {
		return err
	}

	cmd.Printf("Dictionary %s is valid (version %s)\n", name, idx.Version())
	stats := idx.Stats()
	facets := make([]string, 0, len(stats))
	for f := range stats {
		facets = append(facets, f)
	}
	sort.Strings(facets)
	for _, f := range facets {
		cmd.Printf("  %-15s %d terms\n", f, stats[f])
	}
	return nil
}

func loadForValidation(ctx context.Context) (*dictionary.Index, string, error) {
	if validateDir != "" {
		src := dictionary.NewDirSource(validateDir)
		idx, err := dictionary.LoadFrom(ctx, src)
		return idx, src.Name(), err
	}
	if err := setupServices(ctx); err != nil {
		return nil, "", err
	}
	if store == nil {
		return nil, "", errNoServices
	}
	return store.Snapshot(), store.SourceName(), nil
}
