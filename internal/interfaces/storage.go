package interfaces

import (
	"context"

	"github.com/bobmcallan/stocknews/internal/models"
)

// GapStore is the persistent (symbol, date) price cache. Records are created
// on first confirmed fetch of a date, updated by last-writer-wins upsert, and
// never deleted.
type GapStore interface {
	// GetRange returns every record for the symbol with startDate <= date <=
	// endDate (DateFormat strings), ordered ascending by date. Dates with no
	// record are simply absent from the result.
	GetRange(ctx context.Context, symbol, startDate, endDate string) ([]models.GapRecord, error)

	// PutBatch writes points and negative entries for the symbol in a single
	// transaction.
	PutBatch(ctx context.Context, symbol string, points []models.PricePoint, negativeDates []string) error
}

// CatalogStore holds the stock symbol catalog.
type CatalogStore interface {
	ListStocks(ctx context.Context) ([]models.Stock, error)
	SaveStocks(ctx context.Context, stocks []models.Stock) error
}

// SummaryStore caches generated news summaries.
type SummaryStore interface {
	GetSummary(ctx context.Context, symbol, period string) (*models.NewsSummary, error)
	SaveSummary(ctx context.Context, summary *models.NewsSummary) error
}

// StorageManager aggregates the storage areas behind one lifecycle.
type StorageManager interface {
	GapStore() GapStore
	CatalogStore() CatalogStore
	SummaryStore() SummaryStore
	Close() error
}
