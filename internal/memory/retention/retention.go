// Package retention maps importance scores to retention tiers and
// concrete expiration instants.
package retention

import "time"

// Tier names a retention class derived from importance.
type Tier string

const (
	TierCritical  Tier = "critical"
	TierHigh      Tier = "high"
	TierMedium    Tier = "medium"
	TierLow       Tier = "low"
	TierTransient Tier = "transient"
)

// tierRule is one row of the policy table. Rows are evaluated top-down;
// the first threshold the importance meets wins.
type tierRule struct {
	tier      Tier
	threshold float64
	retention time.Duration
	forever   bool
}

var tierRules = []tierRule{
	{TierCritical, 0.9, 0, true},
	{TierHigh, 0.7, 365 * 24 * time.Hour, false},
	{TierMedium, 0.5, 30 * 24 * time.Hour, false},
	{TierLow, 0.3, 7 * 24 * time.Hour, false},
	{TierTransient, 0, 24 * time.Hour, false},
}

// TierFor returns the retention tier for an importance score.
func TierFor(importance float64) Tier {
	for _, r := range tierRules {
		if importance >= r.threshold {
			return r.tier
		}
	}
	return TierTransient
}

// ExpirationFor computes the expiration instant for an item written at
// now with the given importance. A nil result means the item never
// expires, which happens exactly when the tier is critical.
func ExpirationFor(importance float64, now time.Time) *time.Time {
	for _, r := range tierRules {
		if importance >= r.threshold {
			if r.forever {
				return nil
			}
			t := now.Add(r.retention)
			return &t
		}
	}
	t := now.Add(24 * time.Hour)
	return &t
}

// Clamp bounds an importance score to [0,1].
func Clamp(importance float64) float64 {
	if importance < 0 {
		return 0
	}
	if importance > 1 {
		return 1
	}
	return importance
}
