// Package app wires configuration into the parser and its collaborators.
// Both the HTTP server and the CLI start from here.
package app

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/confluence-ai/query-analyzer/internal/cache"
	"github.com/confluence-ai/query-analyzer/internal/config"
	"github.com/confluence-ai/query-analyzer/internal/dictionary"
	"github.com/confluence-ai/query-analyzer/internal/repository"
	"github.com/confluence-ai/query-analyzer/internal/service"
)

// App holds the long-lived components built from one configuration
type App struct {
	Config     *config.Config
	Repo       *repository.PostgresRepository // nil when no database is configured
	Cache      cache.Client                   // nil when caching is off
	Store      *dictionary.Store
	Parser     *service.QueryParser
	Analyze    *service.AnalyzeService
	Suggestion *service.SuggestionService
	Logger     zerolog.Logger
}

// New connects the configured backends and loads the dictionary.
// A dictionary that fails to load is returned as an error; there is nothing to serve without it.
func New(ctx context.Context, cfg *config.Config, logger zerolog.Logger) (*App, error) {
	a := &App{Config: cfg, Logger: logger}

	if cfg.PostgreSQL.Enabled {
		repo, err := repository.NewPostgresRepository(
			cfg.GetPostgreSQLDSN(),
			cfg.PostgreSQL.MaxConnections,
			cfg.PostgreSQL.MaxIdleConnections,
		)
		if err != nil {
			return nil, err
		}
		a.Repo = repo
		logger.Info().Msg("connected to PostgreSQL")
	}

	src, err := DictionarySource(cfg, a.Repo)
	if err != nil {
		a.Close()
		return nil, err
	}
	store, err := dictionary.NewStore(ctx, src, logger)
	if err != nil {
		a.Close()
		return nil, err
	}
	a.Store = store

	a.Cache, err = cache.NewClient(cache.Config{
		Driver:     cfg.Cache.Driver,
		MaxEntries: cfg.Cache.MaxEntries,
		Redis: cache.RedisConfig{
			Addr:     cfg.Cache.RedisAddr,
			Password: cfg.Cache.RedisPassword,
			DB:       cfg.Cache.RedisDB,
			PoolSize: cfg.Cache.RedisPoolSize,
			Prefix:   cfg.Cache.RedisPrefix,
		},
	})
	if err != nil {
		// the cache is optional, a broken one must not block startup
		logger.Warn().Err(err).Str("driver", cfg.Cache.Driver).Msg("cache disabled")
		a.Cache = nil
	}

	a.Parser = service.NewQueryParser(store, service.ParserOptions{
		MinSimilarity:               cfg.Parser.MinSimilarity,
		ClassificationMinSimilarity: cfg.Parser.ClassificationMinSimilarity,
		MinFuzzyLength:              cfg.Parser.MinFuzzyLength,
	}, logger)

	ranker := service.NewRanker(cfg.Ranking.WeightPrefix, cfg.Ranking.WeightSimilarity, cfg.Ranking.WeightBrevity)

	// Typed nils would defeat the services' nil checks
	var (
		logs  service.QueryLogger
		names service.NameLookup
	)
	if a.Repo != nil {
		logs, names = a.Repo, a.Repo
	}
	a.Analyze = service.NewAnalyzeService(a.Parser, a.Cache, cfg.Cache.TTL, logs, logger)
	a.Suggestion = service.NewSuggestionService(store, names, ranker, cfg.Suggestion.Limit, logger)

	return a, nil
}

// DictionarySource picks the vocabulary source named by the configuration
func DictionarySource(cfg *config.Config, repo *repository.PostgresRepository) (dictionary.Source, error) {
	switch cfg.Dictionary.Source {
	case config.DictionarySourceEmbedded, "":
		return dictionary.NewEmbeddedSource(), nil
	case config.DictionarySourceDir:
		return dictionary.NewDirSource(cfg.Dictionary.Dir), nil
	case config.DictionarySourcePostgres:
		if repo == nil {
			return nil, fmt.Errorf("%w: postgres dictionary source without a database", dictionary.ErrSourceMissing)
		}
		return repo.VocabularySource(), nil
	default:
		return nil, fmt.Errorf("%w: unknown dictionary source %q", dictionary.ErrSourceMissing, cfg.Dictionary.Source)
	}
}

// Close releases the cache and database connections
func (a *App) Close() {
	if a.Cache != nil {
		if err := a.Cache.Close(); err != nil {
			a.Logger.Warn().Err(err).Msg("cache close failed")
		}
	}
	if a.Repo != nil {
		if err := a.Repo.Close(); err != nil {
			a.Logger.Warn().Err(err).Msg("database close failed")
		}
	}
}
