package reconcile

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/bobmcallan/stocknews/internal/common"
	"github.com/bobmcallan/stocknews/internal/models"
)

// fakeGapStore is an in-memory GapStore keyed symbol|date, mirroring the
// persistent store's last-writer-wins upsert semantics.
type fakeGapStore struct {
	mu       sync.Mutex
	records  map[string]models.GapRecord
	getErr   error
	putErr   error
	putCalls int
}

func newFakeGapStore() *fakeGapStore {
	return &fakeGapStore{records: make(map[string]models.GapRecord)}
}

func (s *fakeGapStore) GetRange(ctx context.Context, symbol, startDate, endDate string) ([]models.GapRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.getErr != nil {
		return nil, s.getErr
	}
	var out []models.GapRecord
	for _, r := range s.records {
		if r.Symbol == symbol && r.Date >= startDate && r.Date <= endDate {
			out = append(out, r)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date < out[j].Date })
	return out, nil
}

func (s *fakeGapStore) PutBatch(ctx context.Context, symbol string, points []models.PricePoint, negativeDates []string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.putCalls++
	if s.putErr != nil {
		return s.putErr
	}
	for _, p := range points {
		r := models.NewGapRecord(symbol, p)
		s.records[r.Key()] = r
	}
	for _, d := range negativeDates {
		r := models.NewNegativeRecord(symbol, d)
		s.records[r.Key()] = r
	}
	return nil
}

func (s *fakeGapStore) record(symbol, date string) (models.GapRecord, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	r, ok := s.records[models.GapKey(symbol, date)]
	return r, ok
}

func (s *fakeGapStore) seed(symbol string, points ...models.PricePoint) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, p := range points {
		r := models.NewGapRecord(symbol, p)
		s.records[r.Key()] = r
	}
}

func (s *fakeGapStore) seedNegative(symbol string, dates ...string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, d := range dates {
		r := models.NewNegativeRecord(symbol, d)
		s.records[r.Key()] = r
	}
}

// fakeFetcher counts upstream calls and returns a canned response.
type fakeFetcher struct {
	mu     sync.Mutex
	calls  int
	points []models.PricePoint
	err    error
}

func (f *fakeFetcher) Fetch(ctx context.Context, symbol string, period models.Period) ([]models.PricePoint, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return f.points, nil
}

func (f *fakeFetcher) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

func point(date string, close float64) models.PricePoint {
	d, _ := time.Parse(models.DateFormat, date)
	return models.PricePoint{
		Date:   d,
		Open:   close - 1,
		High:   close + 1,
		Low:    close - 2,
		Close:  close,
		Volume: 1000,
	}
}

func newTestService(store *fakeGapStore, fetcher UpstreamFetcher, now time.Time) *Service {
	svc := NewService(store, fetcher, NewGate(1), common.NewSilentLogger())
	svc.now = func() time.Time { return now }
	return svc
}
