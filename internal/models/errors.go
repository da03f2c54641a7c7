package models

import (
	"errors"
	"fmt"
	"time"
)

// Core error taxonomy. Only ErrInvalidPeriod, ErrSymbolNotFound, and
// ErrUpstreamUnavailable cross the service boundary as failures; everything
// else resolves to a (possibly partial) success backed by cache.
var (
	// ErrInvalidPeriod means the period token is not in the enumerated set.
	// Never retried; surfaced before any store or network access.
	ErrInvalidPeriod = errors.New("invalid period")

	// ErrSymbolNotFound means the upstream does not recognize the symbol.
	ErrSymbolNotFound = errors.New("symbol not found")

	// ErrUpstreamUnavailable means the fetch failed and no cached data exists
	// to fall back on.
	ErrUpstreamUnavailable = errors.New("upstream unavailable")
)

// RateLimitError signals the upstream rejected the request for rate limiting.
// The fetcher uses it to decide whether to spend the remaining retry budget.
type RateLimitError struct {
	RetryAfter time.Duration
}

func (e *RateLimitError) Error() string {
	return fmt.Sprintf("rate limited (retry after %s)", e.RetryAfter)
}

// IsRateLimited reports whether err is (or wraps) a rate-limit signal.
func IsRateLimited(err error) bool {
	var rle *RateLimitError
	return errors.As(err, &rle)
}
