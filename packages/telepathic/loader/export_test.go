package loader

import "time"

// SetClock replaces the time source used for TTL checks
func (tc *TemplateCache) SetClock(now func() time.Time) {
	tc.now = now
}
