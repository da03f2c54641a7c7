package reconcile

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"golang.org/x/sync/semaphore"

	"github.com/bobmcallan/stocknews/internal/common"
	"github.com/bobmcallan/stocknews/internal/interfaces"
	"github.com/bobmcallan/stocknews/internal/models"
)

// minValidPrice is the sanity floor for fetched prices: any OHLC value at or
// below it marks the whole point unusable and the date becomes a negative
// cache entry. Zero matches the source system; raising it for low-priced
// instruments is a policy decision for the domain owner.
const minValidPrice = 0.0

// UpstreamFetcher is the fetch dependency of the reconciler.
type UpstreamFetcher interface {
	Fetch(ctx context.Context, symbol string, period models.Period) ([]models.PricePoint, error)
}

// Service orchestrates gap analysis, the upstream fetch, the transactional
// write-back, and the merge. Entry is guarded by a global admission gate so
// the whole service runs a bounded number of reconciliations at once
// (capacity 1 by default, as backpressure against upstream rate limits).
type Service struct {
	store    interfaces.GapStore
	analyzer *Analyzer
	fetcher  UpstreamFetcher
	gate     *semaphore.Weighted
	logger   *common.Logger
	now      func() time.Time // injectable clock for testing
}

// NewGate creates the admission gate passed into NewService. Capacity values
// below 1 collapse to the single-slot default.
func NewGate(capacity int) *semaphore.Weighted {
	if capacity < 1 {
		capacity = 1
	}
	return semaphore.NewWeighted(int64(capacity))
}

// NewService creates the reconciler. The gate is shared across every entry
// point that reaches upstream; pass the same gate to all of them.
func NewService(store interfaces.GapStore, fetcher UpstreamFetcher, gate *semaphore.Weighted, logger *common.Logger) *Service {
	if gate == nil {
		gate = NewGate(1)
	}
	return &Service{
		store:    store,
		analyzer: NewAnalyzer(store, logger),
		fetcher:  fetcher,
		gate:     gate,
		logger:   logger,
		now:      time.Now,
	}
}

// GetSeries returns the complete, date-sorted series for (symbol, period).
// A fully warm cache answers without any network call. On upstream failure
// the response degrades to whatever cached points exist; only an empty cache
// escalates to models.ErrUpstreamUnavailable.
func (s *Service) GetSeries(ctx context.Context, symbol string, period models.Period) (*models.PriceSeries, error) {
	// Period validation happens before the gate, the store, and the network.
	start, end, err := ResolvePeriod(period, s.now())
	if err != nil {
		return nil, err
	}

	if err := s.gate.Acquire(ctx, 1); err != nil {
		return nil, fmt.Errorf("admission gate: %w", err)
	}
	defer s.gate.Release(1)

	cached, missing, err := s.analyzer.Analyze(ctx, symbol, start, end)
	if err != nil {
		return nil, err
	}

	if len(missing) == 0 {
		return &models.PriceSeries{
			Symbol: symbol,
			Period: period,
			Source: models.SourceCache,
			Data:   cached,
		}, nil
	}

	fetched, err := s.fetcher.Fetch(ctx, symbol, period)
	if err != nil {
		if errors.Is(err, models.ErrSymbolNotFound) {
			return nil, err
		}
		if len(cached) > 0 {
			// Stale beats unavailable. The uncovered dates stay unknown, not
			// negative-cached, because the fetch never completed.
			s.logger.Warn().
				Err(err).
				Str("symbol", symbol).
				Int("cached", len(cached)).
				Msg("Upstream fetch failed, serving cached data")
			return &models.PriceSeries{
				Symbol: symbol,
				Period: period,
				Source: models.SourceCache,
				Data:   cached,
			}, nil
		}
		return nil, fmt.Errorf("%w for %s: %v", models.ErrUpstreamUnavailable, symbol, err)
	}

	accepted, negative := s.intersect(symbol, fetched, missing)

	// Best-effort durability: a failed write-back is logged, the fresh
	// response is returned regardless.
	if err := s.store.PutBatch(ctx, symbol, accepted, negative); err != nil {
		s.logger.Error().
			Err(err).
			Str("symbol", symbol).
			Msg("Gap cache write-back failed")
	}

	merged := make([]models.PricePoint, 0, len(cached)+len(accepted))
	merged = append(merged, cached...)
	merged = append(merged, accepted...)
	sort.Slice(merged, func(i, j int) bool {
		return merged[i].Date.Before(merged[j].Date)
	})

	s.logger.Info().
		Str("symbol", symbol).
		Int("fetched", len(accepted)).
		Int("negative", len(negative)).
		Int("total", len(merged)).
		Msg("Reconciliation complete")

	return &models.PriceSeries{
		Symbol: symbol,
		Period: period,
		Source: models.SourceFresh,
		Data:   merged,
	}, nil
}

// intersect narrows the fetched window to the missing dates. Every missing
// date the response does not cover with a usable point is confirmed absent
// and becomes a negative cache entry, converting unknown to known-absent
// permanently. Both return slices are ascending by date.
func (s *Service) intersect(symbol string, fetched []models.PricePoint, missing []string) ([]models.PricePoint, []string) {
	missingSet := make(map[string]bool, len(missing))
	for _, d := range missing {
		missingSet[d] = true
	}

	usableByDate := make(map[string]models.PricePoint)
	for _, p := range fetched {
		date := p.Date.Format(models.DateFormat)
		if !missingSet[date] {
			continue // superset data for dates already known
		}
		if !usable(p) {
			s.logger.Warn().
				Str("symbol", symbol).
				Str("date", date).
				Msg("Rejecting fetched point with non-positive prices")
			continue
		}
		usableByDate[date] = p
	}

	var accepted []models.PricePoint
	var negative []string
	for _, date := range missing {
		if p, ok := usableByDate[date]; ok {
			accepted = append(accepted, p)
		} else {
			negative = append(negative, date)
		}
	}

	return accepted, negative
}

func usable(p models.PricePoint) bool {
	return p.Open > minValidPrice &&
		p.High > minValidPrice &&
		p.Low > minValidPrice &&
		p.Close > minValidPrice
}

// Ensure Service implements StockService
var _ interfaces.StockService = (*Service)(nil)
