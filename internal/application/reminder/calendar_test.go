package reminder

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

var ist = time.FixedZone("IST", 5*3600+1800)

func TestDaysUntil_CalendarNotElapsed(t *testing.T) {
	now := time.Date(2026, 3, 10, 23, 30, 0, 0, ist)

	assert.Equal(t, 0, daysUntil(now, time.Date(2026, 3, 10, 0, 0, 0, 0, ist)))
	assert.Equal(t, 1, daysUntil(now, time.Date(2026, 3, 11, 0, 10, 0, 0, ist)))
	assert.Equal(t, -1, daysUntil(now, time.Date(2026, 3, 9, 23, 59, 0, 0, ist)))
}

func TestDaysUntil_ReadsDueDateInNowsZone(t *testing.T) {
	now := time.Date(2026, 3, 10, 8, 0, 0, 0, ist)
	// 20:00 UTC on the 10th is 01:30 IST on the 11th.
	assert.Equal(t, 1, daysUntil(now, time.Date(2026, 3, 10, 20, 0, 0, 0, time.UTC)))
}

func TestDueWindow_InclusiveOfDayThree(t *testing.T) {
	now := time.Date(2026, 3, 10, 8, 0, 0, 0, ist)
	from, to := DueWindow(now)

	assert.Equal(t, time.Date(2026, 3, 10, 0, 0, 0, 0, ist), from)
	assert.True(t, to.Before(time.Date(2026, 3, 14, 0, 0, 0, 0, ist)))
	assert.True(t, to.After(time.Date(2026, 3, 13, 23, 59, 59, 0, ist)))
}

func TestEndOfDay(t *testing.T) {
	now := time.Date(2026, 3, 10, 8, 0, 0, 0, ist)
	assert.Equal(t, time.Date(2026, 3, 10, 23, 59, 59, 999_000_000, ist), endOfDay(now))
	assert.Equal(t, "2026-03-10", dayKey(now))
}
