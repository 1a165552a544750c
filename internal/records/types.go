package records

import (
	"strings"

	"studenthub/internal/schedule"
)

// Storage keys. One JSON document per key, each holding a whole collection.
const (
	KeyProfile      = "studentProfile"
	KeyLoggedIn     = "isLoggedIn"
	KeyCourses      = "courses"
	KeySchedules    = "schedules"
	KeyTasks        = "tasks"
	KeyGrades       = "grades"
	KeyAchievements = "achievements"
	KeyProjects     = "projects"
	KeyFocusStats   = "focusStats"
)

// Profile identifies the student the hub belongs to.
type Profile struct {
	StudentID string `json:"studentId"`
	Name      string `json:"name"`
	Program   string `json:"program"`
	Semester  string `json:"semester"`
	Photo     string `json:"photo,omitempty"`
}

// Course is a registered course. Units feed the weighted GPA.
type Course struct {
	ID         int64  `json:"id"`
	Name       string `json:"name"`
	Units      int    `json:"units"`
	Instructor string `json:"instructor"`
}

// ScheduleEntry is a weekly class slot. Day and Time are free text and may
// pack several values ("Monday,Wednesday", "9:00/13:00").
type ScheduleEntry struct {
	ID     int64  `json:"id"`
	Course string `json:"course"`
	Day    string `json:"day"`
	Time   string `json:"time"`
	Room   string `json:"room"`
}

// Task is a to-do item with an optional due date (YYYY-MM-DD).
type Task struct {
	ID        int64  `json:"id"`
	Title     string `json:"title"`
	Type      string `json:"type"`
	Priority  string `json:"priority"`
	Course    string `json:"course"`
	DueDate   string `json:"dueDate"`
	Completed bool   `json:"completed"`
}

// Grade is a per-course result on a numeric scale, weighted by units.
type Grade struct {
	ID     int64   `json:"id"`
	Course string  `json:"course"`
	Units  int     `json:"units"`
	Grade  float64 `json:"grade"`
}

type Achievement struct {
	ID          int64  `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Date        string `json:"date"`
}

type Project struct {
	ID           int64    `json:"id"`
	Title        string   `json:"title"`
	Description  string   `json:"description"`
	Technologies []string `json:"technologies"`
	Link         string   `json:"link,omitempty"`
	GitHub       string   `json:"github,omitempty"`
	Status       string   `json:"status"`
}

// FocusStats accumulates pomodoro sessions for a single day. Day holds the
// date the counters belong to; counters reset when the day changes.
type FocusStats struct {
	SessionsToday int    `json:"sessionsToday"`
	MinutesToday  int    `json:"minutesToday"`
	Day           string `json:"lastDate"`
}

// Slot converts a stored entry into the shape the schedule engine consumes.
func (e ScheduleEntry) Slot() schedule.Entry {
	return schedule.Entry{
		Course: e.Course,
		Day:    e.Day,
		Time:   e.Time,
		Room:   e.Room,
	}
}

// Work converts a stored task into the shape the due-soon engine consumes.
func (t Task) Work() schedule.Task {
	return schedule.Task{
		Title:     t.Title,
		Course:    t.Course,
		DueDate:   t.DueDate,
		Completed: t.Completed,
	}
}

// Valid reports whether the task carries the minimum required fields.
func (t Task) Valid() bool {
	return strings.TrimSpace(t.Title) != ""
}
