package cli

import (
	"fmt"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"github.com/confluence-ai/query-analyzer/internal/model"
	"github.com/confluence-ai/query-analyzer/internal/utils"
)

var parseJSON bool

var parseCmd = &cobra.Command{
	Use:   "parse [query]",
	Short: "Parse a free-text furniture query",
	Long: `Extracts product types, features, styles, classifications and a price range
from a query. Words after the command are joined into one query.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runParse,
}

func init() {
	parseCmd.Flags().BoolVar(&parseJSON, "json", false, "output the result as JSON")
	rootCmd.AddCommand(parseCmd)
}

func runParse(cmd *cobra.Command, args []string) error {
	if err := setupServices(cmd.Context()); err != nil {
		return err
	}
	if queryParser == nil {
		return errNoServices
	}

	result := queryParser.Parse(strings.Join(args, " "))
	if parseJSON {
		out, err := utils.PrettyPrintJSON(result)
		if err != nil {
			return fmt.Errorf("failed to marshal result: %w", err)
		}
		cmd.Println(out)
		return nil
	}

	printResult(cmd, result)
	return nil
}

func printResult(cmd *cobra.Command, r *model.ParseResult) {
	cmd.Printf("Query:          %s\n", r.OriginalQuery)
	if r.SuggestedQuery != nil {
		cmd.Printf("Did you mean:   %s\n", *r.SuggestedQuery)
	}
	cmd.Printf("Product types:  %s\n", joinOrDash(r.ProductTypes))
	cmd.Printf("Features:       %s\n", joinOrDash(r.Features))
	cmd.Printf("Styles:         %s\n", joinOrDash(r.Styles))

	terms := make([]string, 0, len(r.ClassificationSummary))
	for term := range r.ClassificationSummary {
		terms = append(terms, term)
	}
	sort.Strings(terms)
	for i, term := range terms {
		terms[i] = fmt.Sprintf("%s (%.2f)", term, r.ClassificationSummary[term])
	}
	cmd.Printf("Classification: %s\n", joinOrDash(terms))
	cmd.Printf("Price:          %s\n", formatPrice(r.PriceRange))
}

func formatPrice(pr *model.PriceRange) string {
	if pr == nil {
		return "-"
	}
	bound := func(v *float64) string {
		if v == nil {
			return "*"
		}
		return fmt.Sprintf("%g", *v)
	}
	s := bound(pr.Min) + " .. " + bound(pr.Max)
	if pr.Currency != nil {
		s += " " + *pr.Currency
	}
	return s
}

func joinOrDash(items []string) string {
	if len(items) == 0 {
		return "-"
	}
	return strings.Join(items, ", ")
}
