package badger

import (
	"context"
	"fmt"
	"sort"

	"github.com/bobmcallan/stocknews/internal/common"
	"github.com/bobmcallan/stocknews/internal/interfaces"
	"github.com/bobmcallan/stocknews/internal/models"
)

type catalogStorage struct {
	store  *Store
	logger *common.Logger
}

// NewCatalogStorage creates a CatalogStore backed by BadgerHold.
func NewCatalogStorage(store *Store, logger *common.Logger) interfaces.CatalogStore {
	return &catalogStorage{store: store, logger: logger}
}

func (s *catalogStorage) ListStocks(_ context.Context) ([]models.Stock, error) {
	var stocks []models.Stock
	if err := s.store.db.Find(&stocks, nil); err != nil {
		return nil, fmt.Errorf("failed to list stocks: %w", err)
	}
	sort.Slice(stocks, func(i, j int) bool {
		return stocks[i].Symbol < stocks[j].Symbol
	})
	return stocks, nil
}

func (s *catalogStorage) SaveStocks(_ context.Context, stocks []models.Stock) error {
	for _, stock := range stocks {
		st := stock
		if err := s.store.db.Upsert(st.Symbol, &st); err != nil {
			return fmt.Errorf("failed to save stock %s: %w", st.Symbol, err)
		}
	}
	return nil
}

var _ interfaces.CatalogStore = (*catalogStorage)(nil)
