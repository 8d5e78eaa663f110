package model

// ParseResult is the structured reading of one free-text furniture query
type ParseResult struct {
	ProductTypes          []string           `json:"product_types"`
	Features              []string           `json:"features"`
	Styles                []string           `json:"styles"`
	ClassificationSummary map[string]float64 `json:"classification_summary"`
	PriceRange            *PriceRange        `json:"price_range"`
	SuggestedQuery        *string            `json:"suggested_query"`
	OriginalQuery         string             `json:"original_query"`
	Success               bool               `json:"success"`
}

// NewParseResult returns an empty successful result for query.
// Slices and the summary map are non-nil so they encode as [] and {}.
func NewParseResult(query string) *ParseResult {
	return &ParseResult{
		ProductTypes:          []string{},
		Features:              []string{},
		Styles:                []string{},
		ClassificationSummary: map[string]float64{},
		OriginalQuery:         query,
		Success:               true,
	}
}

// PriceRange is a budget extracted from the query. At least one bound is set.
type PriceRange struct {
	Min      *float64 `json:"min"`
	Max      *float64 `json:"max"`
	Currency *string  `json:"currency"`
}

// Valid reports whether the range has a bound and min does not exceed max
func (r *PriceRange) Valid() bool {
	if r == nil || (r.Min == nil && r.Max == nil) {
		return false
	}
	if r.Min != nil && r.Max != nil && *r.Min > *r.Max {
		return false
	}
	return true
}
