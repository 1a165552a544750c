package records

import (
	"context"
	"math"
	"path/filepath"
	"testing"
	"time"

	"studenthub/internal/storage"
	logx "studenthub/pkg/logx"
)

func newTestRepo(t *testing.T) (*Repo, storage.Config) {
	t.Helper()
	cfg := storage.Config{Driver: "file", Path: filepath.Join(t.TempDir(), "hub")}
	st, err := storage.Open(cfg, logx.Nop())
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { _ = st.Close() })
	r, err := New(context.Background(), st, nil, logx.Nop())
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return r, cfg
}

func TestTaskLifecycle(t *testing.T) {
	t.Parallel()
	r, _ := newTestRepo(t)
	ctx := context.Background()

	task, err := r.AddTask(ctx, Task{Title: "Essay draft", Course: "English", DueDate: "2026-09-04", Completed: true})
	if err != nil {
		t.Fatalf("AddTask: %v", err)
	}
	if task.ID == 0 {
		t.Fatal("expected a generated ID")
	}
	if task.Completed {
		t.Fatal("new tasks must start incomplete")
	}

	toggled, err := r.ToggleTask(ctx, task.ID)
	if err != nil {
		t.Fatalf("ToggleTask: %v", err)
	}
	if !toggled.Completed {
		t.Fatal("toggle did not complete the task")
	}

	if err := r.DeleteTask(ctx, task.ID); err != nil {
		t.Fatalf("DeleteTask: %v", err)
	}
	if err := r.DeleteTask(ctx, task.ID); err != ErrNotFound {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestIDsStayUniqueWithinSameMillisecond(t *testing.T) {
	t.Parallel()
	r, _ := newTestRepo(t)
	frozen := time.Date(2026, time.September, 1, 10, 0, 0, 0, time.UTC)
	r.now = func() time.Time { return frozen }

	ctx := context.Background()
	a, _ := r.AddCourse(ctx, Course{Name: "Calculus", Units: 3})
	b, _ := r.AddCourse(ctx, Course{Name: "Physics", Units: 4})
	if a.ID == b.ID {
		t.Fatalf("duplicate IDs: %d", a.ID)
	}
	if b.ID != a.ID+1 {
		t.Fatalf("expected monotonic bump, got %d then %d", a.ID, b.ID)
	}
}

func TestCollectionsSurviveReopen(t *testing.T) {
	t.Parallel()
	r, cfg := newTestRepo(t)
	ctx := context.Background()

	if err := r.SetProfile(ctx, Profile{StudentID: "S-100", Name: "Dee"}); err != nil {
		t.Fatalf("SetProfile: %v", err)
	}
	entry, err := r.AddSchedule(ctx, ScheduleEntry{Course: "Calculus", Day: "Monday,Wednesday", Time: "9:00-10:30", Room: "B204"})
	if err != nil {
		t.Fatalf("AddSchedule: %v", err)
	}

	st, err := storage.Open(cfg, logx.Nop())
	if err != nil {
		t.Fatalf("reopen store: %v", err)
	}
	defer st.Close()
	r2, err := New(context.Background(), st, nil, logx.Nop())
	if err != nil {
		t.Fatalf("reload repo: %v", err)
	}

	p := r2.Profile()
	if p == nil || p.StudentID != "S-100" {
		t.Fatalf("profile did not survive reopen: %+v", p)
	}
	got := r2.Schedules()
	if len(got) != 1 || got[0].ID != entry.ID || got[0].Day != "Monday,Wednesday" {
		t.Fatalf("schedules did not survive reopen: %+v", got)
	}
	// Fresh IDs must not collide with reloaded ones.
	next, _ := r2.AddCourse(ctx, Course{Name: "Ethics", Units: 2})
	if next.ID <= entry.ID {
		t.Fatalf("ID %d not past reloaded max %d", next.ID, entry.ID)
	}
}

func TestGPAWeightedByUnits(t *testing.T) {
	t.Parallel()
	r, _ := newTestRepo(t)
	ctx := context.Background()

	if got := r.GPA(); got != 0 {
		t.Fatalf("empty GPA = %v, want 0", got)
	}
	r.AddGrade(ctx, Grade{Course: "Calculus", Units: 3, Grade: 4.0})
	r.AddGrade(ctx, Grade{Course: "History", Units: 1, Grade: 2.0})

	want := (4.0*3 + 2.0*1) / 4.0
	if got := r.GPA(); math.Abs(got-want) > 1e-9 {
		t.Fatalf("GPA = %v, want %v", got, want)
	}
}

func TestFocusStatsRollOverAtMidnight(t *testing.T) {
	t.Parallel()
	r, _ := newTestRepo(t)
	ctx := context.Background()

	monday := time.Date(2026, time.August, 31, 21, 0, 0, 0, time.UTC)
	if _, err := r.RecordFocusSession(ctx, monday, 25); err != nil {
		t.Fatalf("RecordFocusSession: %v", err)
	}
	st, _ := r.RecordFocusSession(ctx, monday, 25)
	if st.SessionsToday != 2 || st.MinutesToday != 50 {
		t.Fatalf("same-day stats = %+v", st)
	}

	tuesday := monday.Add(4 * time.Hour)
	if got := r.FocusStats(tuesday); got.SessionsToday != 0 || got.MinutesToday != 0 {
		t.Fatalf("stale stats leaked into new day: %+v", got)
	}
	st, _ = r.RecordFocusSession(ctx, tuesday, 10)
	if st.SessionsToday != 1 || st.MinutesToday != 10 {
		t.Fatalf("rollover stats = %+v", st)
	}
}
