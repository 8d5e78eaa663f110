// Package cli implements the queryctl command line.
package cli

import (
	"context"
	"errors"
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/confluence-ai/query-analyzer/internal/app"
	"github.com/confluence-ai/query-analyzer/internal/config"
	"github.com/confluence-ai/query-analyzer/internal/dictionary"
	"github.com/confluence-ai/query-analyzer/internal/logging"
	"github.com/confluence-ai/query-analyzer/internal/service"
)

var version = "dev"

var (
	logLevel string

	// Populated by setupServices unless a test already set them
	store             *dictionary.Store
	queryParser       *service.QueryParser
	suggestionService *service.SuggestionService
	cleanup           func()
)

var rootCmd = &cobra.Command{
	Use:           "queryctl",
	Short:         "Analyze furniture search queries",
	Long:          `queryctl runs the furniture query analyzer locally: parse queries, check dictionaries and try suggestions.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "warn", "log level (debug, info, warn, error)")
}

// Execute runs the root command
func Execute(v string) error {
	version = v
	rootCmd.SetOut(os.Stdout)
	defer func() {
		if cleanup != nil {
			cleanup()
		}
	}()
	return rootCmd.Execute()
}

// setupServices builds the parser stack from the environment configuration
func setupServices(ctx context.Context) error {
	if queryParser != nil {
		return nil
	}

	cfg, err := config.Load()
	if err != nil {
		return err
	}
	logger := newLogger()

	a, err := app.New(ctx, cfg, logger)
	if err != nil {
		return err
	}
	store, queryParser, suggestionService = a.Store, a.Parser, a.Suggestion
	cleanup = a.Close
	return nil
}

func newLogger() zerolog.Logger {
	return logging.New(logging.Config{Level: logLevel, Format: "console", Output: os.Stderr})
}

var errNoServices = errors.New("query parser not configured")
