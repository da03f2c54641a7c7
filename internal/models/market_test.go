package models

import (
	"errors"
	"fmt"
	"testing"
	"time"
)

func TestGapRecord_PositiveAndNegative(t *testing.T) {
	p := PricePoint{
		Date:   time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC),
		Open:   179, High: 181, Low: 178.5, Close: 180,
		Volume: 1000,
	}

	positive := NewGapRecord("AAPL", p)
	if positive.Key() != "AAPL|2026-03-02" {
		t.Errorf("key = %s, want AAPL|2026-03-02", positive.Key())
	}
	if !positive.Available() {
		t.Error("record built from a point must be available")
	}
	got, ok := positive.Point()
	if !ok || got.Close != 180 || got.Volume != 1000 {
		t.Errorf("Point() = %+v, %v", got, ok)
	}

	negative := NewNegativeRecord("AAPL", "2026-03-01")
	if negative.Available() {
		t.Error("negative record must not be available")
	}
	if _, ok := negative.Point(); ok {
		t.Error("negative record must not convert to a point")
	}
}

func TestIsIndexSymbol(t *testing.T) {
	if !IsIndexSymbol("^GSPC") {
		t.Error("^GSPC is an index symbol")
	}
	if IsIndexSymbol("AAPL") || IsIndexSymbol("") {
		t.Error("plain symbols are not index symbols")
	}
}

func TestIsRateLimited(t *testing.T) {
	err := fmt.Errorf("fetch AAPL: %w", &RateLimitError{RetryAfter: time.Minute})
	if !IsRateLimited(err) {
		t.Error("wrapped RateLimitError should be detected")
	}
	if IsRateLimited(errors.New("something else")) {
		t.Error("plain errors are not rate limits")
	}
}

func TestPricePoint_TimestampMidnight(t *testing.T) {
	p := PricePoint{Date: time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)}
	if got := p.Timestamp(); got != "2026-03-02 00:00:00" {
		t.Errorf("timestamp = %s", got)
	}
}
