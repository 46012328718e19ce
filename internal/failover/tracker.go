// Package failover selects which search provider serves a query and
// reroutes traffic when the primary keeps getting rate limited.
package failover

import (
	"sync/atomic"
	"time"
)

// Tracker counts consecutive primary-provider failures. The zero value
// is ready to use and all methods are safe for concurrent callers, so
// a single Tracker can be shared by every goroutine issuing searches.
type Tracker struct {
	failures    atomic.Int32
	lastFailure atomic.Int64 // unix nanoseconds, 0 when never failed
}

// Record notes one more failure observed at now.
func (t *Tracker) Record(now time.Time) {
	t.failures.Add(1)
	t.lastFailure.Store(now.UnixNano())
}

// Reset clears the failure streak.
func (t *Tracker) Reset() {
	t.failures.Store(0)
	t.lastFailure.Store(0)
}

// Failures reports the current consecutive failure count.
func (t *Tracker) Failures() int {
	return int(t.failures.Load())
}

// LastFailure reports when the most recent failure was recorded, or
// the zero time when none has been.
func (t *Tracker) LastFailure() time.Time {
	ns := t.lastFailure.Load()
	if ns == 0 {
		return time.Time{}
	}
	return time.Unix(0, ns)
}
