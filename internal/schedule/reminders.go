package schedule

import "time"

// ReminderKind distinguishes the two reminder windows.
type ReminderKind string

const (
	KindTenMinuteWarning ReminderKind = "ten-minute-warning"
	KindStartingNow      ReminderKind = "starting-now"
)

// Reminder pairs a slot with the window it just entered.
type Reminder struct {
	Slot Slot
	Kind ReminderKind
}

// ReminderState is the only state carried between ticks: the key of the last
// reminder that fired. The caller owns it and threads it through every call,
// which keeps one-shot-per-event semantics without hidden globals.
type ReminderState struct {
	LastFiredKey string
}

// UpcomingWindow scans today's slots against now and reports which reminders
// should fire on this tick. It is meant to be invoked once per minute.
//
// A ten-minute-warning fires when a class starts in exactly 10 minutes; a
// starting-now reminder fires within the 0-2 minute window before start. The
// windows never overlap, so at most one kind fires per slot per tick. Each
// window fires once per course+time key; the updated state must be passed back
// in on the next tick.
func UpcomingWindow(entries []Entry, now time.Time, state ReminderState) ([]Reminder, ReminderState) {
	today := now.Weekday().String()
	current := now.Hour()*60 + now.Minute()

	var fired []Reminder

	for _, e := range entries {
		days := splitTrim(e.Day, ",")
		times := splitTrim(e.Time, "/")

		for i, day := range days {
			if day != today {
				continue
			}
			raw := timeForIndex(times, i)
			until := StartMinutes(raw) - current

			switch {
			case until == 10:
				key := e.Course + "-" + raw
				if state.LastFiredKey != key {
					state.LastFiredKey = key
					fired = append(fired, Reminder{Slot: slotFor(e, raw), Kind: KindTenMinuteWarning})
				}
			case until >= 0 && until <= 2:
				key := e.Course + "-starting-" + raw
				if state.LastFiredKey != key {
					state.LastFiredKey = key
					fired = append(fired, Reminder{Slot: slotFor(e, raw), Kind: KindStartingNow})
				}
			}
		}
	}

	return fired, state
}

func slotFor(e Entry, raw string) Slot {
	return Slot{
		Course:        e.Course,
		Room:          e.Room,
		FormattedTime: NormalizeTimeLabel(raw),
		RawTime:       raw,
		StartMinutes:  StartMinutes(raw),
	}
}
