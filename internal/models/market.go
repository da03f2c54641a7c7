// Package models defines the domain types for the stocknews service
package models

import (
	"time"
)

// DateFormat is the canonical calendar-date layout used for store keys and
// upstream exchange. Dates carry no time-of-day semantics.
const DateFormat = "2006-01-02"

// TimestampFormat is the wire layout for series timestamps. Daily granularity
// means the time component is always midnight.
const TimestampFormat = "2006-01-02 15:04:05"

// PricePoint is a single daily OHLCV observation for a symbol.
type PricePoint struct {
	Date   time.Time
	Open   float64
	High   float64
	Low    float64
	Close  float64
	Volume int64
}

// Timestamp returns the wire-format timestamp (midnight) for the point's date.
func (p PricePoint) Timestamp() string {
	return p.Date.Format(TimestampFormat)
}

// GapRecord is the persisted cache unit: one (symbol, date) cell.
// Nil price fields form a negative cache entry: proof the date was checked
// upstream and no data exists for it (e.g. a non-trading day). A record that
// was never written is "unknown", which is distinct from "known absent".
type GapRecord struct {
	Symbol string
	Date   string // DateFormat
	Open   *float64
	High   *float64
	Low    *float64
	Close  *float64
	Volume *int64
}

// Key returns the store key for the record within the single partitioned
// keyspace: SYMBOL|DATE.
func (r GapRecord) Key() string {
	return GapKey(r.Symbol, r.Date)
}

// GapKey builds the store key for a (symbol, date) pair.
func GapKey(symbol, date string) string {
	return symbol + "|" + date
}

// Available reports whether the record holds real price data, as opposed to
// being a negative cache entry.
func (r GapRecord) Available() bool {
	return r.Open != nil && r.High != nil && r.Low != nil && r.Close != nil
}

// Point converts an available record into a PricePoint. Volume defaults to 0
// when absent.
func (r GapRecord) Point() (PricePoint, bool) {
	if !r.Available() {
		return PricePoint{}, false
	}
	date, err := time.Parse(DateFormat, r.Date)
	if err != nil {
		return PricePoint{}, false
	}
	p := PricePoint{
		Date:  date,
		Open:  *r.Open,
		High:  *r.High,
		Low:   *r.Low,
		Close: *r.Close,
	}
	if r.Volume != nil {
		p.Volume = *r.Volume
	}
	return p, true
}

// NewGapRecord builds a positive cache record from a price point.
func NewGapRecord(symbol string, p PricePoint) GapRecord {
	open, high, low, close_ := p.Open, p.High, p.Low, p.Close
	volume := p.Volume
	return GapRecord{
		Symbol: symbol,
		Date:   p.Date.Format(DateFormat),
		Open:   &open,
		High:   &high,
		Low:    &low,
		Close:  &close_,
		Volume: &volume,
	}
}

// NewNegativeRecord builds a negative cache entry for a date confirmed to have
// no upstream data.
func NewNegativeRecord(symbol, date string) GapRecord {
	return GapRecord{Symbol: symbol, Date: date}
}

// SeriesSource marks whether a reconciliation answer touched the upstream.
type SeriesSource string

const (
	// SourceFresh means at least part of the answer was fetched this request.
	SourceFresh SeriesSource = "fresh"
	// SourceCache means the answer was served entirely from the store.
	SourceCache SeriesSource = "cache"
)

// PriceSeries is the reconciled answer for a (symbol, period) request.
type PriceSeries struct {
	Symbol string
	Period Period
	Source SeriesSource
	Data   []PricePoint
}

// SeriesPoint is the JSON shape of one data point.
type SeriesPoint struct {
	Timestamp string  `json:"timestamp"`
	Open      float64 `json:"open"`
	High      float64 `json:"high"`
	Low       float64 `json:"low"`
	Close     float64 `json:"close"`
	Volume    int64   `json:"volume"`
}

// SeriesResponse is the JSON shape of a reconciled series.
type SeriesResponse struct {
	Symbol string        `json:"symbol"`
	Period string        `json:"period"`
	Source string        `json:"source"`
	Data   []SeriesPoint `json:"data"`
}

// Response converts a PriceSeries to its wire shape.
func (s *PriceSeries) Response() SeriesResponse {
	data := make([]SeriesPoint, len(s.Data))
	for i, p := range s.Data {
		data[i] = SeriesPoint{
			Timestamp: p.Timestamp(),
			Open:      p.Open,
			High:      p.High,
			Low:       p.Low,
			Close:     p.Close,
			Volume:    p.Volume,
		}
	}
	return SeriesResponse{
		Symbol: s.Symbol,
		Period: string(s.Period),
		Source: string(s.Source),
		Data:   data,
	}
}

// SymbolOverview is upstream metadata for a symbol.
type SymbolOverview struct {
	Symbol   string
	Name     string
	Exchange string
	Currency string
}

// IsIndexSymbol reports whether the symbol uses index notation (leading ^).
// Index symbols have no company metadata upstream, which is tolerated.
func IsIndexSymbol(symbol string) bool {
	return len(symbol) > 0 && symbol[0] == '^'
}

// Stock is a catalog entry for a known symbol.
type Stock struct {
	Symbol string `json:"symbol" badgerhold:"key"`
	Name   string `json:"name"`
}
