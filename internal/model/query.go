package model

// AnalyzeRequest represents a query analysis request.
// Query is a pointer so a missing field can be told apart from an empty query.
type AnalyzeRequest struct {
	Query *string `json:"query"`
}

// AnalyzeResponse wraps a parse result with timing information
type AnalyzeResponse struct {
	Success        bool         `json:"success"`
	Result         *ParseResult `json:"result"`
	ProcessingTime string       `json:"processing_time"`
	Took           int64        `json:"took_ms"` // Response time in milliseconds
	Cached         bool         `json:"cached"`
}

// SuggestionRequest represents an autocomplete request
type SuggestionRequest struct {
	Query *string `json:"query"`
	Limit int     `json:"limit,omitempty"`
}

// NamedItem is a product or brand row offered as a suggestion
type NamedItem struct {
	ID    int64   `json:"id" db:"id"`
	Name  string  `json:"name" db:"name"`
	Score float64 `json:"score,omitempty" db:"-"`
}

// SuggestionResponse groups autocomplete candidates by kind
type SuggestionResponse struct {
	ProductName []NamedItem `json:"product_name"`
	BrandName   []NamedItem `json:"brand_name"`
	Styles      []string    `json:"styles"`
}

// ReloadResponse reports the dictionary now in effect
type ReloadResponse struct {
	Success bool           `json:"success"`
	Source  string         `json:"source"`
	Version string         `json:"version"`
	Terms   map[string]int `json:"terms"`
	Took    int64          `json:"took_ms"`
}

// ErrorResponse is the body of every 4xx/5xx answer
type ErrorResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
}
