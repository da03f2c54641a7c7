package reconcile

import (
	"context"
	"fmt"
	"time"

	"github.com/bobmcallan/stocknews/internal/common"
	"github.com/bobmcallan/stocknews/internal/interfaces"
	"github.com/bobmcallan/stocknews/internal/models"
)

// Analyzer computes which dates in a range have no cache record at all.
type Analyzer struct {
	store  interfaces.GapStore
	logger *common.Logger
}

// NewAnalyzer creates a gap analyzer over the given store.
func NewAnalyzer(store interfaces.GapStore, logger *common.Logger) *Analyzer {
	return &Analyzer{store: store, logger: logger}
}

// Analyze walks every calendar date in [start, end] inclusive and classifies
// it against the store: a record with prices becomes a cached point, a record
// without prices is a negative cache hit (neither cached nor missing), and a
// date with no record is missing. Both returned slices are ascending by date.
// Read-only; O(range length), which the longest supported period bounds.
func (a *Analyzer) Analyze(ctx context.Context, symbol string, start, end time.Time) ([]models.PricePoint, []string, error) {
	startStr := start.Format(models.DateFormat)
	endStr := end.Format(models.DateFormat)

	records, err := a.store.GetRange(ctx, symbol, startStr, endStr)
	if err != nil {
		return nil, nil, fmt.Errorf("gap analysis for %s: %w", symbol, err)
	}

	known := make(map[string]models.GapRecord, len(records))
	for _, r := range records {
		known[r.Date] = r
	}

	var cached []models.PricePoint
	var missing []string

	for d := start; !d.After(end); d = d.AddDate(0, 0, 1) {
		dateStr := d.Format(models.DateFormat)
		record, ok := known[dateStr]
		if !ok {
			missing = append(missing, dateStr)
			continue
		}
		if point, ok := record.Point(); ok {
			cached = append(cached, point)
		}
		// Negative cache hit: confirmed no data, not missing.
	}

	if len(missing) > 0 {
		a.logger.Info().
			Str("symbol", symbol).
			Int("cached", len(cached)).
			Int("missing", len(missing)).
			Msg("Cache partial hit")
	} else {
		a.logger.Info().
			Str("symbol", symbol).
			Int("cached", len(cached)).
			Msg("Cache complete hit, no upstream call needed")
	}

	return cached, missing, nil
}
