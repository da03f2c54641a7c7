// Package common provides shared utilities for the stocknews service
package common

import "time"

// Freshness TTLs for cached derived data
const (
	FreshnessNewsSummary = 6 * time.Hour
)

// IsFresh returns true if the given timestamp is within the TTL
func IsFresh(updated time.Time, ttl time.Duration) bool {
	if updated.IsZero() {
		return false
	}
	return time.Since(updated) < ttl
}
