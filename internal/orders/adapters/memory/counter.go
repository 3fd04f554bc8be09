package memory

import (
	"sync"
	"time"
)

// DailyCounter counts successful creations per UTC calendar day. State lives
// for the lifetime of the process.
type DailyCounter struct {
	mu     sync.Mutex
	counts map[string]int
}

func NewDailyCounter() *DailyCounter {
	return &DailyCounter{counts: make(map[string]int)}
}

// Count returns the number of creations recorded for the UTC date of day.
func (c *DailyCounter) Count(day time.Time) int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.counts[dayKey(day)]
}

// Increment records one creation for the UTC date of day and returns the new total.
func (c *DailyCounter) Increment(day time.Time) int {
	c.mu.Lock()
	defer c.mu.Unlock()
	key := dayKey(day)
	c.counts[key]++
	return c.counts[key]
}

func dayKey(t time.Time) string {
	return t.UTC().Format(time.DateOnly)
}
