package service

import (
	"context"
	"strings"
	"sync"

	"github.com/rs/zerolog"

	"github.com/confluence-ai/query-analyzer/internal/dictionary"
	"github.com/confluence-ai/query-analyzer/internal/model"
)

// DefaultSuggestionLimit caps each suggestion group
const DefaultSuggestionLimit = 10

// NameLookup finds catalogue names by prefix. *repository.PostgresRepository satisfies it.
type NameLookup interface {
	FetchProductNames(ctx context.Context, prefix string, limit int) ([]model.NamedItem, error)
	FetchBrandNames(ctx context.Context, prefix string, limit int) ([]model.NamedItem, error)
}

// SuggestionService completes a typed prefix into product names, brand names and styles
type SuggestionService struct {
	store  *dictionary.Store
	names  NameLookup
	ranker *Ranker
	limit  int
	logger zerolog.Logger
}

// NewSuggestionService creates a suggestion service. names may be nil when no
// catalogue database is configured; product and brand groups are then empty.
func NewSuggestionService(store *dictionary.Store, names NameLookup, ranker *Ranker, limit int, logger zerolog.Logger) *SuggestionService {
	if limit <= 0 {
		limit = DefaultSuggestionLimit
	}
	return &SuggestionService{
		store:  store,
		names:  names,
		ranker: ranker,
		limit:  limit,
		logger: logger,
	}
}

// Suggest returns ranked completions for prefix. A failing catalogue lookup
// degrades to an empty group.
func (s *SuggestionService) Suggest(ctx context.Context, prefix string, limit int) *model.SuggestionResponse {
	if limit <= 0 || limit > s.limit {
		limit = s.limit
	}
	resp := &model.SuggestionResponse{
		ProductName: []model.NamedItem{},
		BrandName:   []model.NamedItem{},
		Styles:      []string{},
	}
	prefix = strings.TrimSpace(prefix)
	if prefix == "" {
		return resp
	}

	styles := s.ranker.RankTerms(prefix, s.store.Snapshot().PrefixTerms(dictionary.Style, prefix, 0))
	resp.Styles = truncate(styles, limit)

	if s.names == nil {
		return resp
	}

	// The lookups are independent; one failing must not cancel the other
	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		items, err := s.names.FetchProductNames(ctx, prefix, limit)
		if err != nil {
			s.logger.Warn().Err(err).Str("prefix", prefix).Msg("product name lookup failed")
			return
		}
		resp.ProductName = truncate(s.ranker.RankItems(prefix, items), limit)
	}()
	go func() {
		defer wg.Done()
		items, err := s.names.FetchBrandNames(ctx, prefix, limit)
		if err != nil {
			s.logger.Warn().Err(err).Str("prefix", prefix).Msg("brand name lookup failed")
			return
		}
		resp.BrandName = truncate(s.ranker.RankItems(prefix, items), limit)
	}()
	wg.Wait()

	return resp
}

func truncate[T any](items []T, limit int) []T {
	if len(items) > limit {
		return items[:limit]
	}
	return items
}
