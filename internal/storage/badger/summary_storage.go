package badger

import (
	"context"
	"fmt"

	"github.com/timshannon/badgerhold/v4"

	"github.com/bobmcallan/stocknews/internal/common"
	"github.com/bobmcallan/stocknews/internal/interfaces"
	"github.com/bobmcallan/stocknews/internal/models"
)

type summaryStorage struct {
	store  *Store
	logger *common.Logger
}

// NewSummaryStorage creates a SummaryStore backed by BadgerHold.
func NewSummaryStorage(store *Store, logger *common.Logger) interfaces.SummaryStore {
	return &summaryStorage{store: store, logger: logger}
}

func (s *summaryStorage) GetSummary(_ context.Context, symbol, period string) (*models.NewsSummary, error) {
	var summary models.NewsSummary
	err := s.store.db.Get(models.SummaryKey(symbol, period), &summary)
	if err != nil {
		if err == badgerhold.ErrNotFound {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get summary for %s/%s: %w", symbol, period, err)
	}
	return &summary, nil
}

func (s *summaryStorage) SaveSummary(_ context.Context, summary *models.NewsSummary) error {
	summary.Key = models.SummaryKey(summary.Symbol, summary.Period)
	if err := s.store.db.Upsert(summary.Key, summary); err != nil {
		return fmt.Errorf("failed to save summary for %s: %w", summary.Key, err)
	}
	return nil
}

var _ interfaces.SummaryStore = (*summaryStorage)(nil)
