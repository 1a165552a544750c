package schedule

import (
	"sort"
	"time"
)

// Task is the read-only task record view this package consumes.
type Task struct {
	Title     string `json:"title"`
	Course    string `json:"course"`
	DueDate   string `json:"dueDate"` // YYYY-MM-DD
	Completed bool   `json:"completed"`
}

// DueStatus tags a due-soon task relative to today.
type DueStatus string

const (
	DueOverdue  DueStatus = "overdue"
	DueToday    DueStatus = "due-today"
	DueUpcoming DueStatus = "upcoming"
)

const (
	dueSoonHorizonDays = 3
	dueSoonDisplayCap  = 5
)

// DueTask is a worklist item for the "Today" view.
type DueTask struct {
	Task   Task      `json:"task"`
	Status DueStatus `json:"status"`
}

// DueSoon builds the due-task worklist: incomplete tasks due within the next
// three days (including anything already overdue), ascending by due date,
// capped at five items. Filtering and sorting run over the full set; the cap
// is applied last. Tasks whose due date doesn't parse are left out.
func DueSoon(tasks []Task, today time.Time) []DueTask {
	day := time.Date(today.Year(), today.Month(), today.Day(), 0, 0, 0, 0, today.Location())
	horizon := day.AddDate(0, 0, dueSoonHorizonDays)

	type dated struct {
		task Task
		due  time.Time
	}

	picked := make([]dated, 0, len(tasks))
	for _, t := range tasks {
		if t.Completed {
			continue
		}
		due, err := time.ParseInLocation("2006-01-02", t.DueDate, day.Location())
		if err != nil {
			continue
		}
		if due.After(horizon) {
			continue
		}
		picked = append(picked, dated{task: t, due: due})
	}

	sort.SliceStable(picked, func(i, j int) bool {
		return picked[i].due.Before(picked[j].due)
	})

	if len(picked) > dueSoonDisplayCap {
		picked = picked[:dueSoonDisplayCap]
	}

	out := make([]DueTask, 0, len(picked))
	for _, p := range picked {
		status := DueUpcoming
		switch {
		case p.due.Before(day):
			status = DueOverdue
		case p.due.Equal(day):
			status = DueToday
		}
		out = append(out, DueTask{Task: p.task, Status: status})
	}
	return out
}
