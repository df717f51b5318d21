package reminder

import (
	"context"
	"time"
)

// Dedup reports whether a record already has a log entry today.
type Dedup struct {
	logs logStore
}

func NewDedup(logs logStore) *Dedup {
	return &Dedup{logs: logs}
}

// SentToday checks for a log entry with sentAt inside now's calendar day.
func (d *Dedup) SentToday(ctx context.Context, recordID string, now time.Time) (bool, error) {
	return d.logs.ExistsBetween(ctx, recordID, startOfDay(now), endOfDay(now))
}
