package badger

import (
	"context"
	"fmt"
	"sort"

	badgerdb "github.com/dgraph-io/badger/v4"
	"github.com/timshannon/badgerhold/v4"

	"github.com/bobmcallan/stocknews/internal/common"
	"github.com/bobmcallan/stocknews/internal/interfaces"
	"github.com/bobmcallan/stocknews/internal/models"
)

// writeBatchSize bounds how many records go into one badger transaction.
// A cold multi-year write-back can carry thousands of records; unbounded,
// the transaction exceeds badger's batch limit and the whole write fails.
const writeBatchSize = 500

// gapStorage persists GapRecords in one keyspace keyed SYMBOL|DATE.
// The original design created a table per symbol; a single partitioned
// keyspace avoids dynamic schema construction. The key itself partitions by
// symbol, so range reads scan the key range directly with no field index.
type gapStorage struct {
	store  *Store
	logger *common.Logger
}

// NewGapStorage creates a GapStore backed by BadgerHold.
func NewGapStorage(store *Store, logger *common.Logger) interfaces.GapStore {
	return &gapStorage{store: store, logger: logger}
}

func (s *gapStorage) GetRange(_ context.Context, symbol, startDate, endDate string) ([]models.GapRecord, error) {
	// Dates are fixed-width, so [SYMBOL|start, SYMBOL|end] is a contiguous
	// lexicographic key range confined to the symbol.
	var records []models.GapRecord
	query := badgerhold.Where(badgerhold.Key).Ge(models.GapKey(symbol, startDate)).
		And(badgerhold.Key).Le(models.GapKey(symbol, endDate))
	if err := s.store.db.Find(&records, query); err != nil {
		return nil, fmt.Errorf("failed to read range %s..%s for %s: %w", startDate, endDate, symbol, err)
	}

	sort.Slice(records, func(i, j int) bool {
		return records[i].Date < records[j].Date
	})

	return records, nil
}

func (s *gapStorage) PutBatch(_ context.Context, symbol string, points []models.PricePoint, negativeDates []string) error {
	records := make([]models.GapRecord, 0, len(points)+len(negativeDates))
	for _, p := range points {
		records = append(records, models.NewGapRecord(symbol, p))
	}
	for _, date := range negativeDates {
		records = append(records, models.NewNegativeRecord(symbol, date))
	}
	if len(records) == 0 {
		return nil
	}

	// Bounded transactions, committed chunk by chunk. Each chunk is atomic;
	// a failure mid-way leaves earlier chunks durable, which is safe because
	// every record is an independent (symbol, date) upsert.
	for start := 0; start < len(records); start += writeBatchSize {
		chunk := records[start:min(start+writeBatchSize, len(records))]
		err := s.store.db.Badger().Update(func(tx *badgerdb.Txn) error {
			for i := range chunk {
				record := chunk[i]
				if err := s.store.db.TxUpsert(tx, record.Key(), &record); err != nil {
					return fmt.Errorf("upsert %s: %w", record.Key(), err)
				}
			}
			return nil
		})
		if err != nil {
			return fmt.Errorf("gap write-back for %s failed: %w", symbol, err)
		}
	}

	s.logger.Debug().
		Str("symbol", symbol).
		Int("points", len(points)).
		Int("negative", len(negativeDates)).
		Msg("Gap cache updated")

	return nil
}

// Ensure gapStorage implements GapStore
var _ interfaces.GapStore = (*gapStorage)(nil)
