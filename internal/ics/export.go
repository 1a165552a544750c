// Package ics renders the weekly class schedule as an iCalendar feed so the
// schedule can be subscribed to from any calendar app.
package ics

import (
	"fmt"
	"strings"
	"time"

	ical "github.com/arran4/golang-ical"

	"studenthub/internal/schedule"
)

// defaultSlotMinutes is used when a slot has no parseable end time.
const defaultSlotMinutes = 60

var byDay = map[string]string{
	"Monday":    "MO",
	"Tuesday":   "TU",
	"Wednesday": "WE",
	"Thursday":  "TH",
	"Friday":    "FR",
	"Saturday":  "SA",
	"Sunday":    "SU",
}

// ExportWeekly builds a calendar with one weekly recurring VEVENT per
// day-bucket slot. Slots whose day is not a real weekday are skipped; the
// bucket layer already filtered those out.
func ExportWeekly(entries []schedule.Entry, calName string, now time.Time) string {
	cal := ical.NewCalendar()
	cal.SetMethod(ical.MethodPublish)
	cal.SetProductId("-//studenthub//schedule//EN")
	if calName != "" {
		cal.SetName(calName)
		cal.SetXWRCalName(calName)
	}

	for _, agenda := range schedule.WeekAgenda(entries) {
		code, ok := byDay[agenda.Day]
		if !ok {
			continue
		}
		for _, slot := range agenda.Slots {
			start := nextWeekday(now, agenda.Day, slot.StartMinutes)
			end := start.Add(slotDuration(slot))

			uid := fmt.Sprintf("%s-%s-%d@studenthub", slugify(slot.Course), code, slot.StartMinutes)
			ev := cal.AddEvent(uid)
			ev.SetDtStampTime(now)
			ev.SetStartAt(start)
			ev.SetEndAt(end)
			ev.SetSummary(slot.Course)
			if slot.Room != "" {
				ev.SetLocation(slot.Room)
			}
			ev.AddRrule("FREQ=WEEKLY;BYDAY=" + code)
		}
	}
	return cal.Serialize()
}

// nextWeekday returns the first occurrence of day at the given minute offset
// on or after now's date.
func nextWeekday(now time.Time, day string, startMinutes int) time.Time {
	d := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	for i := 0; i < 7; i++ {
		if d.Weekday().String() == day {
			break
		}
		d = d.AddDate(0, 0, 1)
	}
	return d.Add(time.Duration(startMinutes) * time.Minute)
}

func slotDuration(s schedule.Slot) time.Duration {
	parts := strings.SplitN(s.RawTime, "-", 2)
	if len(parts) == 2 {
		end := schedule.StartMinutes(strings.TrimSpace(parts[1]))
		if end > s.StartMinutes {
			return time.Duration(end-s.StartMinutes) * time.Minute
		}
	}
	return defaultSlotMinutes * time.Minute
}

func slugify(s string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(s) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
		case r == ' ' || r == '-' || r == '_':
			b.WriteByte('-')
		}
	}
	out := strings.Trim(b.String(), "-")
	if out == "" {
		return "class"
	}
	return out
}
