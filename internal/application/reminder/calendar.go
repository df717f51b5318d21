package reminder

import "time"

// LookaheadDays is how many calendar days past today the scan covers.
const LookaheadDays = 3

const dayKeyLayout = "2006-01-02"

// startOfDay returns midnight of t's calendar day in t's location.
func startOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// endOfDay returns the last millisecond of t's calendar day.
func endOfDay(t time.Time) time.Time {
	return startOfDay(t).AddDate(0, 0, 1).Add(-time.Millisecond)
}

// daysUntil counts calendar days from now's date to due's date, both read
// in now's location. DST shifts do not affect the count.
func daysUntil(now, due time.Time) int {
	loc := now.Location()
	from := civilDays(now)
	to := civilDays(due.In(loc))
	return to - from
}

// civilDays maps a date to a day number independent of offset and DST.
func civilDays(t time.Time) int {
	y, m, d := t.Date()
	return int(time.Date(y, m, d, 0, 0, 0, 0, time.UTC).Unix() / 86400)
}

// DueWindow returns the inclusive instant range covering today through
// today+LookaheadDays in now's location.
func DueWindow(now time.Time) (from, to time.Time) {
	from = startOfDay(now)
	to = from.AddDate(0, 0, LookaheadDays+1).Add(-time.Nanosecond)
	return from, to
}

func dayKey(now time.Time) string {
	return now.Format(dayKeyLayout)
}
