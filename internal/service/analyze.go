package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/confluence-ai/query-analyzer/internal/cache"
	"github.com/confluence-ai/query-analyzer/internal/model"
)

const cacheNamespace = "parse"

// QueryLogger persists analyzed queries. *repository.PostgresRepository satisfies it.
type QueryLogger interface {
	LogQuery(ctx context.Context, entry *model.QueryLog) error
}

// AnalyzeService wraps the parser with result caching and query logging
type AnalyzeService struct {
	parser   *QueryParser
	cache    cache.Client
	cacheTTL time.Duration
	logs     QueryLogger
	logger   zerolog.Logger
}

// NewAnalyzeService creates an analyze service. cacheClient and logs may be nil.
func NewAnalyzeService(parser *QueryParser, cacheClient cache.Client, cacheTTL time.Duration, logs QueryLogger, logger zerolog.Logger) *AnalyzeService {
	return &AnalyzeService{
		parser:   parser,
		cache:    cacheClient,
		cacheTTL: cacheTTL,
		logs:     logs,
		logger:   logger,
	}
}

// Analyze parses query, serving repeated queries from the cache when one is configured.
// Cache failures are logged and never fail the request.
func (s *AnalyzeService) Analyze(ctx context.Context, requestID, query string) *model.AnalyzeResponse {
	startTime := time.Now()
	// The cache key, the parse and the query log all use this one snapshot
	idx := s.parser.Store().Snapshot()
	version := idx.Version()
	key := cache.Key(cacheNamespace, version, query)

	result, cached := s.lookup(ctx, key)
	if !cached {
		result = s.parser.ParseIndex(idx, query)
		s.store(ctx, key, result)
	}

	elapsed := time.Since(startTime)
	took := elapsed.Milliseconds()

	s.logger.Info().
		Str("request_id", requestID).
		Str("query", query).
		Bool("cached", cached).
		Str("processing_time", FormatProcessingTime(elapsed)).
		Msg("query analyzed")

	// Log query (non-blocking)
	if s.logs != nil {
		entry := model.NewQueryLog(requestID, result, version, cached, took)
		go func() {
			if err := s.logs.LogQuery(context.Background(), entry); err != nil {
				s.logger.Warn().Err(err).Str("request_id", requestID).Msg("failed to log query")
			}
		}()
	}

	return &model.AnalyzeResponse{
		Success:        true,
		Result:         result,
		ProcessingTime: FormatProcessingTime(elapsed),
		Took:           took,
		Cached:         cached,
	}
}

// InvalidateCache drops every cached result
func (s *AnalyzeService) InvalidateCache(ctx context.Context) error {
	if s.cache == nil {
		return nil
	}
	if err := s.cache.DeleteByPrefix(ctx, cacheNamespace+":"); err != nil {
		return fmt.Errorf("invalidate parse cache: %w", err)
	}
	return nil
}

func (s *AnalyzeService) lookup(ctx context.Context, key string) (*model.ParseResult, bool) {
	if s.cache == nil {
		return nil, false
	}
	data, err := s.cache.Get(ctx, key)
	if err != nil {
		if !errors.Is(err, cache.ErrCacheMiss) {
			s.logger.Warn().Err(err).Msg("cache get failed")
		}
		return nil, false
	}
	var result model.ParseResult
	if err := json.Unmarshal(data, &result); err != nil {
		s.logger.Warn().Err(err).Msg("discarding unreadable cache entry")
		return nil, false
	}
	return &result, true
}

func (s *AnalyzeService) store(ctx context.Context, key string, result *model.ParseResult) {
	if s.cache == nil {
		return
	}
	data, err := json.Marshal(result)
	if err != nil {
		s.logger.Warn().Err(err).Msg("cache encode failed")
		return
	}
	if err := s.cache.Set(ctx, key, data, s.cacheTTL); err != nil {
		s.logger.Warn().Err(err).Msg("cache set failed")
	}
}

// FormatProcessingTime renders d in milliseconds below one second, in seconds otherwise
func FormatProcessingTime(d time.Duration) string {
	if d < time.Second {
		return fmt.Sprintf("%.2f ms", float64(d)/float64(time.Millisecond))
	}
	return fmt.Sprintf("%.2f sec", d.Seconds())
}
