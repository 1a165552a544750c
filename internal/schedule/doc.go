// Package schedule derives display-ready structures from the raw schedule and
// task records a student enters.
//
// # Inputs
//
// A schedule Entry carries free-text day and time fields exactly as typed:
// days are a comma-separated list of weekday names ("Monday, Wednesday") and
// times are a slash-separated list of ranges, one per day ("9:00 - 10:30 /
// 1:00 PM - 2:30 PM"). When the counts differ, every extra day reuses the
// first time range.
//
// # Two time-parsing policies
//
// Display formatting (NormalizeTimeLabel) and chronological ordering
// (StartMinutes) deliberately parse times differently:
//
//   - NormalizeTimeLabel attaches an AM/PM marker to bare clock values using a
//     fixed academic-day table (7-11 are morning, 12 is noon, 1-9 are
//     afternoon/evening, 13-23 are 24-hour input).
//   - StartMinutes only honors an explicit AM/PM marker and otherwise takes
//     the hour literally.
//
// The two can disagree for input without an explicit marker. Callers rely on
// each behavior separately, so they are kept as distinct named policies over a
// shared H:MM extractor rather than unified.
//
// All functions are pure: same records plus the same instant always produce
// the same output. Malformed input degrades silently (labels pass through
// unchanged, sort keys become 0) so one garbled line never breaks a view.
package schedule
