package schedule

import (
	"regexp"
	"strconv"
	"strings"
)

var clockRe = regexp.MustCompile(`(\d+):(\d+)`)

// NormalizeTimeLabel converts a time-range or single-time token into a
// 12-hour label with an explicit AM/PM marker. Display only; ordering uses
// StartMinutes.
//
// Input that already carries an am/pm marker (any case) is returned unchanged,
// so the function is idempotent. A range normalizes its end with the period
// table and then its start against the end, so "9:00-10:30" reads as a
// morning class even though a lone "9:00" reads as evening. Input without a
// recognizable H:MM pattern passes through untouched.
func NormalizeTimeLabel(raw string) string {
	if hasPeriodMarker(raw) {
		return raw
	}

	parts := strings.Split(raw, "-")
	if len(parts) == 2 {
		end := addPeriodMarker(strings.TrimSpace(parts[1]))
		start := addStartMarker(strings.TrimSpace(parts[0]), end)
		return start + " - " + end
	}

	return addPeriodMarker(raw)
}

// addPeriodMarker derives the period for a bare H:MM using the academic-day
// table:
//
//	7, 8, 10, 11 -> AM (morning classes)
//	9            -> PM (evening classes)
//	1-6, 12      -> PM (afternoon, noon)
//	13-23        -> PM (literal 24-hour input)
//	other        -> AM
//
// The hour digit is preserved as typed, even above 12.
func addPeriodMarker(t string) string {
	m := clockRe.FindStringSubmatch(t)
	if m == nil {
		return t
	}

	hour, _ := strconv.Atoi(m[1])
	minute := m[2]

	period := "AM"
	switch {
	case hour == 9:
		period = "PM"
	case hour >= 7 && hour <= 11:
		period = "AM"
	case hour >= 1:
		period = "PM"
	}

	return strconv.Itoa(hour) + ":" + minute + " " + period
}

// addStartMarker derives the period for a range start. The start must not
// come after the end, so when exactly one period keeps the range in order
// that period wins; otherwise the table decides, same as a lone token.
func addStartMarker(start, end string) string {
	m := clockRe.FindStringSubmatch(start)
	if m == nil {
		return start
	}

	endMinutes := StartMinutes(end)
	if endMinutes == 0 {
		return addPeriodMarker(start)
	}

	hour, _ := strconv.Atoi(m[1])
	minute, _ := strconv.Atoi(m[2])

	amFits := periodMinutes(hour, minute, "AM") <= endMinutes
	pmFits := periodMinutes(hour, minute, "PM") <= endMinutes
	if amFits != pmFits {
		period := "AM"
		if pmFits {
			period = "PM"
		}
		return strconv.Itoa(hour) + ":" + m[2] + " " + period
	}
	return addPeriodMarker(start)
}

func periodMinutes(hour, minute int, period string) int {
	if period == "PM" && hour != 12 {
		hour += 12
	} else if period == "AM" && hour == 12 {
		hour = 0
	}
	return hour*60 + minute
}

// StartMinutes parses the start of a time range into minutes since midnight,
// for sorting and comparison.
//
// Unlike NormalizeTimeLabel it does NOT guess a period for bare clock values:
// an explicit PM adds 12 hours (except 12), an explicit AM maps 12 to 0, and
// anything else is taken literally. Only the start segment's own marker
// counts; the end side of "11:00 AM - 12:00 PM" never turns the start into
// an evening value. Unparseable input yields 0, which sorts first
// ("unknown").
func StartMinutes(raw string) int {
	start := strings.TrimSpace(strings.Split(raw, "-")[0])
	m := clockRe.FindStringSubmatch(start)
	if m == nil {
		return 0
	}

	hour, _ := strconv.Atoi(m[1])
	minute, _ := strconv.Atoi(m[2])

	upper := strings.ToUpper(start)
	if strings.Contains(upper, "PM") && hour != 12 {
		hour += 12
	} else if strings.Contains(upper, "AM") && hour == 12 {
		hour = 0
	}

	return hour*60 + minute
}

func hasPeriodMarker(s string) bool {
	upper := strings.ToUpper(s)
	return strings.Contains(upper, "AM") || strings.Contains(upper, "PM")
}

func splitTrim(s, sep string) []string {
	parts := strings.Split(s, sep)
	for i := range parts {
		parts[i] = strings.TrimSpace(parts[i])
	}
	return parts
}

// timeForIndex pairs day index i with its time range, falling back to the
// first range when the counts don't line up (or the slot is blank).
func timeForIndex(times []string, i int) string {
	if i < len(times) && times[i] != "" {
		return times[i]
	}
	if len(times) > 0 {
		return times[0]
	}
	return ""
}
