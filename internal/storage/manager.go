// Package storage wires the storage areas behind a single manager.
package storage

import (
	"fmt"

	"github.com/bobmcallan/stocknews/internal/common"
	"github.com/bobmcallan/stocknews/internal/interfaces"
	"github.com/bobmcallan/stocknews/internal/storage/badger"
)

// Manager owns the BadgerHold store and hands out the typed storage areas.
type Manager struct {
	store   *badger.Store
	gaps    interfaces.GapStore
	catalog interfaces.CatalogStore
	summary interfaces.SummaryStore
	logger  *common.Logger
}

// NewManager opens the store at the configured path.
func NewManager(logger *common.Logger, config *common.Config) (*Manager, error) {
	store, err := badger.NewStore(logger, config.Storage.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to open storage: %w", err)
	}

	return &Manager{
		store:   store,
		gaps:    badger.NewGapStorage(store, logger),
		catalog: badger.NewCatalogStorage(store, logger),
		summary: badger.NewSummaryStorage(store, logger),
		logger:  logger,
	}, nil
}

// GapStore returns the (symbol, date) price cache.
func (m *Manager) GapStore() interfaces.GapStore {
	return m.gaps
}

// CatalogStore returns the stock catalog store.
func (m *Manager) CatalogStore() interfaces.CatalogStore {
	return m.catalog
}

// SummaryStore returns the news summary cache.
func (m *Manager) SummaryStore() interfaces.SummaryStore {
	return m.summary
}

// Close closes the underlying store.
func (m *Manager) Close() error {
	return m.store.Close()
}

// Ensure Manager implements StorageManager
var _ interfaces.StorageManager = (*Manager)(nil)
