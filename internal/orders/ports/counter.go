package ports

import "time"

// DailyCounter tracks successful creations per UTC calendar day.
type DailyCounter interface {
	Count(day time.Time) int
	Increment(day time.Time) int
}
