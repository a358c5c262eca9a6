package failspec

import "time"

// Clock supplies the current time. One injected clock feeds the lifecycle
// engine, the freeze manager, and the discovery ledger, so a test can pin
// every stamped timestamp at once.
type Clock interface {
	Now() time.Time
}

// SystemClock is the default Clock backed by time.Now.
type SystemClock struct{}

// Now returns the current system time.
func (SystemClock) Now() time.Time { return time.Now() }
