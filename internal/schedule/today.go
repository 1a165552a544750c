package schedule

import "time"

// Status tags a slot relative to the current wall-clock minute.
type Status string

const (
	StatusNone         Status = "none"
	StatusHappeningNow Status = "happening-now"
	StatusUpcoming     Status = "upcoming"
)

// upcomingWindowMinutes is how far before the start a class counts as upcoming.
const upcomingWindowMinutes = 30

// TodaySlot is a Slot annotated with its live status.
type TodaySlot struct {
	Slot
	Status Status `json:"status"`
}

// TodayAgenda filters the day buckets down to now's weekday and annotates
// each slot with a status:
//
//	happening-now  start <= now <= end
//	upcoming       now is within 30 minutes before start
//	none           otherwise, and always for non-range times
//
// Ascending start order from DayBuckets is preserved.
func TodayAgenda(entries []Entry, now time.Time) []TodaySlot {
	slots := DayBuckets(entries)[now.Weekday().String()]
	current := now.Hour()*60 + now.Minute()

	out := make([]TodaySlot, 0, len(slots))
	for _, s := range slots {
		out = append(out, TodaySlot{Slot: s, Status: slotStatus(s.RawTime, current)})
	}
	return out
}

func slotStatus(rawTime string, currentMinutes int) Status {
	sides := splitTrim(rawTime, "-")
	if len(sides) != 2 {
		return StatusNone
	}

	// Each side is parsed independently, so a marker on only one side applies
	// to that side alone.
	start := StartMinutes(sides[0])
	end := StartMinutes(sides[1])

	switch {
	case currentMinutes >= start && currentMinutes <= end:
		return StatusHappeningNow
	case start-currentMinutes >= 0 && start-currentMinutes <= upcomingWindowMinutes:
		return StatusUpcoming
	default:
		return StatusNone
	}
}
