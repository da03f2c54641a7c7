package models

import "time"

// NewsArticle is a single article returned by the news provider.
type NewsArticle struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	URL         string `json:"url"`
	Source      string `json:"source"`
	PublishedAt string `json:"published_at"`
}

// News result statuses. The news boundary reports degraded outcomes in-band
// rather than failing the request.
const (
	NewsStatusSuccess        = "success"
	NewsStatusPartialSuccess = "partial_success"
	NewsStatusRateLimit      = "rate_limit"
	NewsStatusError          = "error"
)

// NewsResult is the outcome of a news fetch for a symbol.
type NewsResult struct {
	Status   string        `json:"status"`
	Articles []NewsArticle `json:"data,omitempty"`
	Warning  string        `json:"warning,omitempty"`
	Message  string        `json:"message,omitempty"`
}

// NewsSummary is a cached AI summary of recent headlines for a symbol.
type NewsSummary struct {
	Key          string    `badgerhold:"key"` // SYMBOL|PERIOD
	Symbol       string    `json:"symbol"`
	Period       string    `json:"period"`
	Summary      string    `json:"summary"`
	ArticleCount int       `json:"article_count"`
	GeneratedAt  time.Time `json:"generated_at"`
}

// SummaryKey builds the cache key for a (symbol, period) summary.
func SummaryKey(symbol, period string) string {
	return symbol + "|" + period
}
