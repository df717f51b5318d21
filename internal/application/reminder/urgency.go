package reminder

import "fmt"

// Urgency is the label attached to a reminder.
type Urgency struct {
	DaysUntil int
	Tag       string
}

// Classify maps days until due to an urgency tag. ok is false outside
// 0..LookaheadDays.
func Classify(days int) (u Urgency, ok bool) {
	switch {
	case days == 0:
		return Urgency{DaysUntil: 0, Tag: "DUE TODAY"}, true
	case days == 1:
		return Urgency{DaysUntil: 1, Tag: "due in 1 day (TOMORROW)"}, true
	case days >= 2 && days <= LookaheadDays:
		return Urgency{DaysUntil: days, Tag: fmt.Sprintf("due in %d days", days)}, true
	default:
		return Urgency{}, false
	}
}
