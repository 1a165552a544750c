package schedule

import (
	"fmt"
	"testing"
	"time"
)

func dayOffset(base time.Time, days int) string {
	return base.AddDate(0, 0, days).Format("2006-01-02")
}

func TestDueSoonOrderingAndCap(t *testing.T) {
	t.Parallel()
	today := time.Date(2026, time.September, 1, 14, 30, 0, 0, time.UTC)

	var tasks []Task
	for i := 3; i >= -3; i-- {
		tasks = append(tasks, Task{
			Title:   fmt.Sprintf("task %+d", i),
			DueDate: dayOffset(today, i),
		})
	}

	got := DueSoon(tasks, today)
	if len(got) != 5 {
		t.Fatalf("expected cap of 5, got %d", len(got))
	}
	for i := 1; i < len(got); i++ {
		if got[i-1].Task.DueDate > got[i].Task.DueDate {
			t.Fatalf("worklist not ascending: %q before %q", got[i-1].Task.DueDate, got[i].Task.DueDate)
		}
	}
	// Overdue tasks sort first.
	if got[0].Status != DueOverdue {
		t.Fatalf("first item status = %s, want overdue", got[0].Status)
	}
}

func TestDueSoonStatusTags(t *testing.T) {
	t.Parallel()
	today := time.Date(2026, time.September, 1, 8, 0, 0, 0, time.UTC)

	tasks := []Task{
		{Title: "yesterday", DueDate: dayOffset(today, -1)},
		{Title: "today", DueDate: dayOffset(today, 0)},
		{Title: "in two days", DueDate: dayOffset(today, 2)},
	}

	got := DueSoon(tasks, today)
	if len(got) != 3 {
		t.Fatalf("expected 3 items, got %d", len(got))
	}
	want := []DueStatus{DueOverdue, DueToday, DueUpcoming}
	for i, status := range want {
		if got[i].Status != status {
			t.Fatalf("item %d status = %s, want %s", i, got[i].Status, status)
		}
	}
}

func TestDueSoonExcludesCompletedAndFar(t *testing.T) {
	t.Parallel()
	today := time.Date(2026, time.September, 1, 8, 0, 0, 0, time.UTC)

	tasks := []Task{
		{Title: "done today", DueDate: dayOffset(today, 0), Completed: true},
		{Title: "next week", DueDate: dayOffset(today, 7)},
		{Title: "garbled", DueDate: "sometime"},
		{Title: "keep", DueDate: dayOffset(today, 1)},
	}

	got := DueSoon(tasks, today)
	if len(got) != 1 || got[0].Task.Title != "keep" {
		t.Fatalf("unexpected worklist: %+v", got)
	}
}

func TestDueSoonHorizonIsInclusive(t *testing.T) {
	t.Parallel()
	today := time.Date(2026, time.September, 1, 23, 59, 0, 0, time.UTC)

	tasks := []Task{
		{Title: "edge", DueDate: dayOffset(today, 3)},
		{Title: "past edge", DueDate: dayOffset(today, 4)},
	}

	got := DueSoon(tasks, today)
	if len(got) != 1 || got[0].Task.Title != "edge" {
		t.Fatalf("expected only the 3-day edge task, got %+v", got)
	}
}
