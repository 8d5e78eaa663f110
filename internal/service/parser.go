package service

import (
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/confluence-ai/query-analyzer/internal/dictionary"
	"github.com/confluence-ai/query-analyzer/internal/model"
	"github.com/confluence-ai/query-analyzer/internal/normalizer"
)

// ParserOptions tunes the fuzzy thresholds of the facet matchers
type ParserOptions struct {
	MinSimilarity               float64
	ClassificationMinSimilarity float64
	MinFuzzyLength              int
}

// DefaultParserOptions returns the stock thresholds
func DefaultParserOptions() ParserOptions {
	return ParserOptions{
		MinSimilarity:               DefaultMinSimilarity,
		ClassificationMinSimilarity: DefaultClassificationMinSimilarity,
		MinFuzzyLength:              DefaultMinFuzzyLength,
	}
}

// QueryParser turns free-text furniture queries into structured results
type QueryParser struct {
	store           *dictionary.Store
	normalizer      *normalizer.Normalizer
	productTypes    *FacetMatcher
	features        *FacetMatcher
	styles          *FacetMatcher
	classifications *FacetMatcher
	scorer          *ClassificationScorer
	price           *PriceExtractor
	logger          zerolog.Logger
}

// NewQueryParser creates a parser reading vocabulary snapshots from store
func NewQueryParser(store *dictionary.Store, opts ParserOptions, logger zerolog.Logger) *QueryParser {
	descriptor := func(f dictionary.Facet, minSimilarity float64) FacetDescriptor {
		desc := DefaultDescriptor(f)
		desc.MinSimilarity = minSimilarity
		desc.MinFuzzyLength = opts.MinFuzzyLength
		return desc
	}

	return &QueryParser{
		store:           store,
		normalizer:      normalizer.New(logger),
		productTypes:    NewFacetMatcher(descriptor(dictionary.ProductType, opts.MinSimilarity)),
		features:        NewFacetMatcher(descriptor(dictionary.Feature, opts.MinSimilarity)),
		styles:          NewFacetMatcher(descriptor(dictionary.Style, opts.MinSimilarity)),
		classifications: NewFacetMatcher(descriptor(dictionary.Classification, opts.ClassificationMinSimilarity)),
		scorer:          NewClassificationScorer(),
		price:           NewPriceExtractor(),
		logger:          logger,
	}
}

// Store exposes the dictionary store the parser reads from
func (p *QueryParser) Store() *dictionary.Store {
	return p.store
}

// Parse extracts product types, features, styles, classifications and a budget from query.
// It always completes; a query with nothing recognizable yields empty facets.
func (p *QueryParser) Parse(query string) *model.ParseResult {
	return p.ParseIndex(p.store.Snapshot(), query)
}

// ParseIndex parses query against idx. Every stage reads idx, even if a reload lands mid-way.
func (p *QueryParser) ParseIndex(idx *dictionary.Index, query string) *model.ParseResult {
	start := time.Now()
	result := model.NewParseResult(query)

	normalized := p.normalizer.Normalize(idx, query)
	if len(normalized.Tokens) == 0 {
		return result
	}
	tokens := normalized.Tokens
	text := normalized.Text()

	var (
		productTypes, features, styles, classes []MatchCandidate
		priceRange                              *model.PriceRange
	)

	var wg sync.WaitGroup
	run := func(fn func()) {
		wg.Add(1)
		go func() {
			defer wg.Done()
			fn()
		}()
	}
	run(func() { productTypes = p.productTypes.Match(idx, tokens) })
	run(func() { features = p.features.Match(idx, tokens) })
	run(func() { styles = p.styles.Match(idx, tokens) })
	run(func() { classes = p.classifications.Match(idx, tokens) })
	run(func() { priceRange = p.price.Extract(text) })
	wg.Wait()

	result.ProductTypes = CanonicalTerms(productTypes)
	result.Features = CanonicalTerms(features)
	result.Styles = CanonicalTerms(styles)

	implied := make([]map[string]float64, 0, len(result.ProductTypes))
	for _, pt := range result.ProductTypes {
		if defaults := idx.Implied(pt); defaults != nil {
			implied = append(implied, defaults)
		}
	}
	result.ClassificationSummary = p.scorer.Score(classes, implied...)
	result.PriceRange = priceRange

	if normalized.Corrected && text != strings.Join(strings.Fields(query), " ") {
		result.SuggestedQuery = &text
	}

	p.logger.Debug().
		Str("query", query).
		Str("normalized", text).
		Bool("corrected", normalized.Corrected).
		Strs("product_types", result.ProductTypes).
		Strs("features", result.Features).
		Strs("styles", result.Styles).
		Str("dictionary_version", idx.Version()).
		Dur("took", time.Since(start)).
		Msg("query parsed")

	return result
}
