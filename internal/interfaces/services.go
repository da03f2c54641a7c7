package interfaces

import (
	"context"

	"github.com/bobmcallan/stocknews/internal/models"
)

// StockService reconciles cached history against the upstream provider.
type StockService interface {
	// GetSeries returns the complete, date-sorted series for the symbol over
	// the period, fetching only missing dates. On upstream failure it degrades
	// to whatever cached data exists; with no cache at all it fails with
	// models.ErrUpstreamUnavailable.
	GetSeries(ctx context.Context, symbol string, period models.Period) (*models.PriceSeries, error)
}

// NewsService fetches news and generates cached AI summaries.
type NewsService interface {
	GetNews(ctx context.Context, symbol string, period string) (*models.NewsResult, error)
	GetSummary(ctx context.Context, symbol string, period string) (*models.NewsSummary, error)
}
