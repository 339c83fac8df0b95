package readiness

import "time"

// Sample is the most recently known readiness state and the time it was established.
type Sample struct {
	Ready      bool      `json:"ready"`
	ObservedAt time.Time `json:"observedAt"`
}

// Age returns how old the sample is relative to now.
func (s Sample) Age(now time.Time) time.Duration {
	return now.Sub(s.ObservedAt)
}

// IsStale reports whether the sample is older than interval.
func (s Sample) IsStale(now time.Time, interval time.Duration) bool {
	return s.Age(now) > interval
}
