package schedule

import "sort"

// Entry is one schedule record as entered by the user.
type Entry struct {
	Course string `json:"course"`
	Day    string `json:"day"`
	Time   string `json:"time"`
	Room   string `json:"room"`
}

// Slot is a single derived class occurrence on one weekday.
type Slot struct {
	Course        string `json:"course"`
	Room          string `json:"room"`
	FormattedTime string `json:"time"`
	RawTime       string `json:"-"`
	StartMinutes  int    `json:"-"`
}

// DayAgenda is the ordered slot list for one weekday.
type DayAgenda struct {
	Day   string `json:"day"`
	Slots []Slot `json:"slots"`
}

// WeekDays is the fixed weekday presentation order.
var WeekDays = []string{"Monday", "Tuesday", "Wednesday", "Thursday", "Friday", "Saturday", "Sunday"}

// DayBuckets distributes entries into per-weekday slot lists.
//
// Each entry's days are comma-split and its times slash-split; day i pairs
// with time i when available, otherwise with the first time. Every bucket is
// sorted ascending by start minutes; the sort is stable so same-start slots
// keep their entry order.
func DayBuckets(entries []Entry) map[string][]Slot {
	grouped := make(map[string][]Slot)

	for _, e := range entries {
		days := splitTrim(e.Day, ",")
		times := splitTrim(e.Time, "/")

		for i, day := range days {
			if day == "" {
				continue
			}
			raw := timeForIndex(times, i)
			grouped[day] = append(grouped[day], Slot{
				Course:        e.Course,
				Room:          e.Room,
				FormattedTime: NormalizeTimeLabel(raw),
				RawTime:       raw,
				StartMinutes:  StartMinutes(raw),
			})
		}
	}

	for day := range grouped {
		slots := grouped[day]
		sort.SliceStable(slots, func(i, j int) bool {
			return slots[i].StartMinutes < slots[j].StartMinutes
		})
	}

	return grouped
}

// WeekAgenda returns the buckets in Monday..Sunday order, omitting weekdays
// that have no classes.
func WeekAgenda(entries []Entry) []DayAgenda {
	grouped := DayBuckets(entries)
	out := make([]DayAgenda, 0, len(grouped))
	for _, day := range WeekDays {
		if slots, ok := grouped[day]; ok {
			out = append(out, DayAgenda{Day: day, Slots: slots})
		}
	}
	return out
}
