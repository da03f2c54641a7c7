// Package interfaces defines service contracts for the stocknews service
package interfaces

import (
	"context"
	"time"

	"github.com/bobmcallan/stocknews/internal/models"
)

// PriceClient provides access to the upstream daily price provider.
// A response may cover a superset or subset of the range the caller actually
// needs; providers return whole lookback windows, not exact dates.
type PriceClient interface {
	// GetOverview retrieves symbol metadata. Unknown symbols return
	// models.ErrSymbolNotFound; index-style symbols are typically absent from
	// the metadata endpoint, which callers tolerate.
	GetOverview(ctx context.Context, symbol string) (*models.SymbolOverview, error)

	// GetDailySeries retrieves daily price points for a symbol. The period
	// hint selects the provider's lookback window; the returned points are
	// sorted ascending by date.
	GetDailySeries(ctx context.Context, symbol string, period models.Period) ([]models.PricePoint, error)
}

// NewsClient provides access to the news provider.
type NewsClient interface {
	// GetNews retrieves articles mentioning the symbol between from and to.
	GetNews(ctx context.Context, symbol string, from, to time.Time) (*models.NewsResult, error)
}

// AIClient generates text from a prompt.
type AIClient interface {
	GenerateContent(ctx context.Context, prompt string) (string, error)
}
