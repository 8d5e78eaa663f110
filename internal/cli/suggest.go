package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/confluence-ai/query-analyzer/internal/utils"
)

var (
	suggestLimit int
	suggestJSON  bool
)

var suggestCmd = &cobra.Command{
	Use:   "suggest [prefix]",
	Short: "Complete a prefix into product names, brand names and styles",
	Args:  cobra.ExactArgs(1),
	RunE:  runSuggest,
}

func init() {
	suggestCmd.Flags().IntVarP(&suggestLimit, "limit", "n", 10, "maximum suggestions per group")
	suggestCmd.Flags().BoolVar(&suggestJSON, "json", false, "output suggestions as JSON")
	rootCmd.AddCommand(suggestCmd)
}

func runSuggest(cmd *cobra.Command, args []string) error {
	if err := setupServices(cmd.Context()); err != nil {
		return err
	}
	if suggestionService == nil {
		return errNoServices
	}

	resp := suggestionService.Suggest(cmd.Context(), args[0], suggestLimit)
	if suggestJSON {
		out, err := utils.PrettyPrintJSON(resp)
		if err != nil {
			return fmt.Errorf("failed to marshal suggestions: %w", err)
		}
		cmd.Println(out)
		return nil
	}

	if len(resp.ProductName)+len(resp.BrandName)+len(resp.Styles) == 0 {
		cmd.Println("No suggestions.")
		return nil
	}
	for _, item := range resp.ProductName {
		cmd.Printf("  product  %s\n", item.Name)
	}
	for _, item := range resp.BrandName {
		cmd.Printf("  brand    %s\n", item.Name)
	}
	for _, style := range resp.Styles {
		cmd.Printf("  style    %s\n", style)
	}
	return nil
}
