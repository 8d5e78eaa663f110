package model

// QueryLog is one row of query_logs
type QueryLog struct {
	RequestID             string     `db:"request_id"`
	Query                 string     `db:"query"`
	SuggestedQuery        *string    `db:"suggested_query"`
	ProductTypes          JSONArray  `db:"product_types"`
	Features              JSONArray  `db:"features"`
	Styles                JSONArray  `db:"styles"`
	ClassificationSummary JSONScores `db:"classification_summary"`
	PriceMin              *float64   `db:"price_min"`
	PriceMax              *float64   `db:"price_max"`
	Currency              *string    `db:"currency"`
	DictionaryVersion     string     `db:"dictionary_version"`
	Cached                bool       `db:"cached"`
	ResponseTimeMs        int64      `db:"response_time_ms"`
}

// NewQueryLog flattens a parse result into a log row
func NewQueryLog(requestID string, result *ParseResult, version string, cached bool, tookMs int64) *QueryLog {
	entry := &QueryLog{
		RequestID:             requestID,
		Query:                 result.OriginalQuery,
		SuggestedQuery:        result.SuggestedQuery,
		ProductTypes:          JSONArray(result.ProductTypes),
		Features:              JSONArray(result.Features),
		Styles:                JSONArray(result.Styles),
		ClassificationSummary: JSONScores(result.ClassificationSummary),
		DictionaryVersion:     version,
		Cached:                cached,
		ResponseTimeMs:        tookMs,
	}
	if pr := result.PriceRange; pr != nil {
		entry.PriceMin = pr.Min
		entry.PriceMax = pr.Max
		entry.Currency = pr.Currency
	}
	return entry
}
