// Package records is the persistence layer for the hub's user data. It keeps
// every collection in memory and writes whole collections back to the store
// on each mutation, one JSON document per key.
package records

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"time"

	"studenthub/internal/eventbus"
	"studenthub/internal/schedule"
	"studenthub/internal/storage"
	logx "studenthub/pkg/logx"
)

// ErrNotFound is returned when a mutation references an unknown record ID.
var ErrNotFound = errors.New("records: not found")

// Repo owns the hub's record collections. All methods are safe for
// concurrent use. A nil store keeps everything in memory only.
type Repo struct {
	store storage.Store
	bus   eventbus.Bus
	log   logx.Logger

	// now is swappable in tests.
	now func() time.Time

	mu           sync.RWMutex
	profile      *Profile
	loggedIn     bool
	courses      []Course
	schedules    []ScheduleEntry
	tasks        []Task
	grades       []Grade
	achievements []Achievement
	projects     []Project
	focus        FocusStats

	lastID int64
}

// New loads every collection from the store. Missing keys start empty,
// corrupt documents are logged and skipped.
func New(ctx context.Context, store storage.Store, bus eventbus.Bus, log logx.Logger) (*Repo, error) {
	if log.IsZero() {
		log = logx.Nop()
	}
	r := &Repo{
		store: store,
		bus:   bus,
		log:   log,
		now:   time.Now,
	}
	if store == nil {
		return r, nil
	}

	load := func(key string, out any) {
		raw, ok, err := store.Get(ctx, key)
		if err != nil {
			r.log.Warn("load record failed", logx.String("key", key), logx.Err(err))
			return
		}
		if !ok {
			return
		}
		if err := json.Unmarshal(raw, out); err != nil {
			r.log.Warn("decode record failed", logx.String("key", key), logx.Err(err))
		}
	}

	load(KeyProfile, &r.profile)
	load(KeyLoggedIn, &r.loggedIn)
	load(KeyCourses, &r.courses)
	load(KeySchedules, &r.schedules)
	load(KeyTasks, &r.tasks)
	load(KeyGrades, &r.grades)
	load(KeyAchievements, &r.achievements)
	load(KeyProjects, &r.projects)
	load(KeyFocusStats, &r.focus)

	for _, c := range r.courses {
		r.trackID(c.ID)
	}
	for _, s := range r.schedules {
		r.trackID(s.ID)
	}
	for _, t := range r.tasks {
		r.trackID(t.ID)
	}
	for _, g := range r.grades {
		r.trackID(g.ID)
	}
	for _, a := range r.achievements {
		r.trackID(a.ID)
	}
	for _, p := range r.projects {
		r.trackID(p.ID)
	}
	return r, nil
}

func (r *Repo) trackID(id int64) {
	if id > r.lastID {
		r.lastID = id
	}
}

// nextID hands out unix-millisecond IDs, bumped past the last seen value so
// rapid inserts within the same millisecond stay unique.
func (r *Repo) nextID() int64 {
	id := r.now().UnixMilli()
	if id <= r.lastID {
		id = r.lastID + 1
	}
	r.lastID = id
	return id
}

// persistLocked writes one collection back and announces the change.
// Callers hold r.mu.
func (r *Repo) persistLocked(ctx context.Context, key string, v any) error {
	if r.store != nil {
		raw, err := json.Marshal(v)
		if err != nil {
			return err
		}
		if err := r.store.Put(ctx, key, raw); err != nil {
			r.log.Error("persist failed", logx.String("key", key), logx.Err(err))
			return err
		}
	}
	if r.bus != nil {
		r.bus.Publish(eventbus.Event{Type: eventbus.TypeRecordsChanged, Data: key})
	}
	return nil
}

// Profile returns the stored profile, or nil before signup.
func (r *Repo) Profile() *Profile {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if r.profile == nil {
		return nil
	}
	p := *r.profile
	return &p
}

func (r *Repo) SetProfile(ctx context.Context, p Profile) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.profile = &p
	return r.persistLocked(ctx, KeyProfile, p)
}

func (r *Repo) LoggedIn() bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.loggedIn
}

func (r *Repo) SetLoggedIn(ctx context.Context, v bool) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.loggedIn = v
	return r.persistLocked(ctx, KeyLoggedIn, v)
}

func (r *Repo) Courses() []Course {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return append([]Course(nil), r.courses...)
}

func (r *Repo) AddCourse(ctx context.Context, c Course) (Course, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	c.ID = r.nextID()
	r.courses = append(r.courses, c)
	return c, r.persistLocked(ctx, KeyCourses, r.courses)
}

func (r *Repo) DeleteCourse(ctx context.Context, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i, c := range r.courses {
		if c.ID == id {
			r.courses = append(r.courses[:i], r.courses[i+1:]...)
			return r.persistLocked(ctx, KeyCourses, r.courses)
		}
	}
	return ErrNotFound
}

func (r *Repo) Schedules() []ScheduleEntry {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return append([]ScheduleEntry(nil), r.schedules...)
}

// ScheduleSlots adapts the stored entries for the schedule engine.
func (r *Repo) ScheduleSlots() []schedule.Entry {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]schedule.Entry, 0, len(r.schedules))
	for _, s := range r.schedules {
		out = append(out, s.Slot())
	}
	return out
}

func (r *Repo) AddSchedule(ctx context.Context, s ScheduleEntry) (ScheduleEntry, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s.ID = r.nextID()
	r.schedules = append(r.schedules, s)
	return s, r.persistLocked(ctx, KeySchedules, r.schedules)
}

func (r *Repo) DeleteSchedule(ctx context.Context, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i, s := range r.schedules {
		if s.ID == id {
			r.schedules = append(r.schedules[:i], r.schedules[i+1:]...)
			return r.persistLocked(ctx, KeySchedules, r.schedules)
		}
	}
	return ErrNotFound
}

func (r *Repo) Tasks() []Task {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return append([]Task(nil), r.tasks...)
}

// Work adapts the stored tasks for the due-soon engine.
func (r *Repo) Work() []schedule.Task {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]schedule.Task, 0, len(r.tasks))
	for _, t := range r.tasks {
		out = append(out, t.Work())
	}
	return out
}

func (r *Repo) AddTask(ctx context.Context, t Task) (Task, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	t.ID = r.nextID()
	t.Completed = false
	r.tasks = append(r.tasks, t)
	return t, r.persistLocked(ctx, KeyTasks, r.tasks)
}

// ToggleTask flips completion and returns the updated task.
func (r *Repo) ToggleTask(ctx context.Context, id int64) (Task, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range r.tasks {
		if r.tasks[i].ID == id {
			r.tasks[i].Completed = !r.tasks[i].Completed
			return r.tasks[i], r.persistLocked(ctx, KeyTasks, r.tasks)
		}
	}
	return Task{}, ErrNotFound
}

func (r *Repo) DeleteTask(ctx context.Context, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i, t := range r.tasks {
		if t.ID == id {
			r.tasks = append(r.tasks[:i], r.tasks[i+1:]...)
			return r.persistLocked(ctx, KeyTasks, r.tasks)
		}
	}
	return ErrNotFound
}

func (r *Repo) Grades() []Grade {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return append([]Grade(nil), r.grades...)
}

func (r *Repo) AddGrade(ctx context.Context, g Grade) (Grade, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	g.ID = r.nextID()
	r.grades = append(r.grades, g)
	return g, r.persistLocked(ctx, KeyGrades, r.grades)
}

func (r *Repo) DeleteGrade(ctx context.Context, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i, g := range r.grades {
		if g.ID == id {
			r.grades = append(r.grades[:i], r.grades[i+1:]...)
			return r.persistLocked(ctx, KeyGrades, r.grades)
		}
	}
	return ErrNotFound
}

// GPA is the unit-weighted average of all grades, 0 when none exist.
func (r *Repo) GPA() float64 {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var weighted float64
	var units int
	for _, g := range r.grades {
		weighted += g.Grade * float64(g.Units)
		units += g.Units
	}
	if units == 0 {
		return 0
	}
	return weighted / float64(units)
}

func (r *Repo) Achievements() []Achievement {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return append([]Achievement(nil), r.achievements...)
}

func (r *Repo) AddAchievement(ctx context.Context, a Achievement) (Achievement, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	a.ID = r.nextID()
	r.achievements = append(r.achievements, a)
	return a, r.persistLocked(ctx, KeyAchievements, r.achievements)
}

func (r *Repo) DeleteAchievement(ctx context.Context, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i, a := range r.achievements {
		if a.ID == id {
			r.achievements = append(r.achievements[:i], r.achievements[i+1:]...)
			return r.persistLocked(ctx, KeyAchievements, r.achievements)
		}
	}
	return ErrNotFound
}

func (r *Repo) Projects() []Project {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return append([]Project(nil), r.projects...)
}

func (r *Repo) AddProject(ctx context.Context, p Project) (Project, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p.ID = r.nextID()
	r.projects = append(r.projects, p)
	return p, r.persistLocked(ctx, KeyProjects, r.projects)
}

func (r *Repo) DeleteProject(ctx context.Context, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i, p := range r.projects {
		if p.ID == id {
			r.projects = append(r.projects[:i], r.projects[i+1:]...)
			return r.persistLocked(ctx, KeyProjects, r.projects)
		}
	}
	return ErrNotFound
}

// focusDay is the granularity focus counters roll over on.
const focusDay = "2006-01-02"

// FocusStats returns today's counters, resetting stale ones from an earlier
// day without persisting the reset.
func (r *Repo) FocusStats(now time.Time) FocusStats {
	day := now.Format(focusDay)
	r.mu.RLock()
	defer r.mu.RUnlock()
	if r.focus.Day != day {
		return FocusStats{Day: day}
	}
	return r.focus
}

// RecordFocusSession adds one completed session. Counters from a previous
// day are discarded first.
func (r *Repo) RecordFocusSession(ctx context.Context, now time.Time, minutes int) (FocusStats, error) {
	if minutes < 0 {
		minutes = 0
	}
	day := now.Format(focusDay)
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.focus.Day != day {
		r.focus = FocusStats{Day: day}
	}
	r.focus.SessionsToday++
	r.focus.MinutesToday += minutes
	return r.focus, r.persistLocked(ctx, KeyFocusStats, r.focus)
}
