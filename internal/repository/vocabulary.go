package repository

import (
	"context"
	"fmt"

	"github.com/confluence-ai/query-analyzer/internal/dictionary"
)

// VocabularyRow is one variant of facet_vocabulary
type VocabularyRow struct {
	Facet     string `db:"facet"`
	Canonical string `db:"canonical"`
	Variant   string `db:"variant"`
}

// ImpliedRow is one row of implied_classification
type ImpliedRow struct {
	ProductType    string  `db:"product_type"`
	Classification string  `db:"classification"`
	Confidence     float64 `db:"confidence"`
}

// FetchVocabulary reads every facet from facet_vocabulary and implied_classification
func (r *PostgresRepository) FetchVocabulary(ctx context.Context) (dictionary.Sources, error) {
	var rows []VocabularyRow
	err := r.db.SelectContext(ctx, &rows, `
		SELECT facet, canonical, COALESCE(variant, '') AS variant
		FROM facet_vocabulary
		ORDER BY facet, canonical, position, variant
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch vocabulary: %w", err)
	}

	var implied []ImpliedRow
	err = r.db.SelectContext(ctx, &implied, `
		SELECT product_type, classification, confidence
		FROM implied_classification
		ORDER BY product_type, classification
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch implied classifications: %w", err)
	}

	return BuildSources(rows, implied)
}

// BuildSources groups table rows into per-facet vocabularies.
// An empty variant declares the canonical term alone.
func BuildSources(rows []VocabularyRow, implied []ImpliedRow) (dictionary.Sources, error) {
	sources := dictionary.Sources{}
	for _, row := range rows {
		f, err := dictionary.ParseFacet(row.Facet)
		if err != nil {
			return nil, fmt.Errorf("facet_vocabulary row %q: %w", row.Canonical, err)
		}
		src, ok := sources[f]
		if !ok {
			src = &dictionary.FacetSource{Terms: map[string][]string{}}
			sources[f] = src
		}
		variants := src.Terms[row.Canonical]
		if row.Variant != "" {
			variants = append(variants, row.Variant)
		}
		src.Terms[row.Canonical] = variants
	}

	if len(implied) > 0 {
		src, ok := sources[dictionary.Classification]
		if !ok {
			src = &dictionary.FacetSource{Terms: map[string][]string{}}
			sources[dictionary.Classification] = src
		}
		src.Implied = map[string]map[string]float64{}
		for _, row := range implied {
			if src.Implied[row.ProductType] == nil {
				src.Implied[row.ProductType] = map[string]float64{}
			}
			src.Implied[row.ProductType][row.Classification] = row.Confidence
		}
	}
	return sources, nil
}

// VocabularySource exposes the tables as a dictionary source
func (r *PostgresRepository) VocabularySource() dictionary.Source {
	return vocabularySource{repo: r}
}

type vocabularySource struct {
	repo *PostgresRepository
}

func (s vocabularySource) Name() string { return "postgres" }

func (s vocabularySource) Fetch(ctx context.Context) (dictionary.Sources, error) {
	return s.repo.FetchVocabulary(ctx)
}
