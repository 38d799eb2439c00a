package common

import "time"

// Freshness TTLs for cached data components
const (
	FreshnessEOD          = 1 * time.Hour
	FreshnessFundamentals = 7 * 24 * time.Hour // 7 days
	FreshnessNews         = 6 * time.Hour
	FreshnessQuote        = 15 * time.Minute
)

// IsFresh returns true if the given timestamp is within the TTL
func IsFresh(updated time.Time, ttl time.Duration) bool {
	if updated.IsZero() {
		return false
	}
	return time.Since(updated) < ttl
}
