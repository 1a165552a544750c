package reminder

import (
	"context"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"studenthub/internal/notifier"
	"studenthub/internal/records"
	"studenthub/internal/storage"
	logx "studenthub/pkg/logx"
)

type stubNotifier struct {
	mu   sync.Mutex
	msgs []notifier.Message
}

func (n *stubNotifier) Notify(_ context.Context, m notifier.Message) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.msgs = append(n.msgs, m)
	return nil
}

func (n *stubNotifier) messages() []notifier.Message {
	n.mu.Lock()
	defer n.mu.Unlock()
	return append([]notifier.Message(nil), n.msgs...)
}

func newFixture(t *testing.T) (*Service, *records.Repo, *stubNotifier) {
	t.Helper()
	st, err := storage.Open(storage.Config{Driver: "file", Path: filepath.Join(t.TempDir(), "hub")}, logx.Nop())
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { _ = st.Close() })
	repo, err := records.New(context.Background(), st, nil, logx.Nop())
	if err != nil {
		t.Fatalf("records.New: %v", err)
	}
	sink := &stubNotifier{}
	svc := New(Config{Enabled: true, Timezone: "UTC"}, repo, sink, logx.Nop(), nil)
	return svc, repo, sink
}

// 2026-08-31 is a Monday.
func mondayAt(h, m int) time.Time {
	return time.Date(2026, time.August, 31, h, m, 0, 0, time.UTC)
}

func TestTickFiresTenMinuteWarningOnce(t *testing.T) {
	t.Parallel()
	svc, repo, sink := newFixture(t)
	ctx := context.Background()
	repo.AddSchedule(ctx, records.ScheduleEntry{Course: "Calculus", Day: "Monday", Time: "9:00-10:30", Room: "B204"})

	now := mondayAt(8, 50)
	svc.now = func() time.Time { return now }

	svc.Tick(ctx)
	svc.Tick(ctx) // same minute again, must not refire

	msgs := sink.messages()
	if len(msgs) != 1 {
		t.Fatalf("got %d messages, want 1: %+v", len(msgs), msgs)
	}
	if msgs[0].Kind != "ten-minute-warning" {
		t.Fatalf("kind = %q", msgs[0].Kind)
	}
	if msgs[0].Title != "Calculus starts in 10 minutes" {
		t.Fatalf("title = %q", msgs[0].Title)
	}
	if msgs[0].Body != "9:00 AM - 10:30 AM · B204" {
		t.Fatalf("body = %q", msgs[0].Body)
	}
}

func TestTickFiresStartingNowAfterWarning(t *testing.T) {
	t.Parallel()
	svc, repo, sink := newFixture(t)
	ctx := context.Background()
	repo.AddSchedule(ctx, records.ScheduleEntry{Course: "Calculus", Day: "Monday", Time: "9:00-10:30"})

	var now time.Time
	svc.now = func() time.Time { return now }

	for m := 50; m <= 59; m++ {
		now = mondayAt(8, m)
		svc.Tick(ctx)
	}
	now = mondayAt(9, 0)
	svc.Tick(ctx)

	msgs := sink.messages()
	if len(msgs) != 2 {
		t.Fatalf("got %d messages, want warning + starting-now: %+v", len(msgs), msgs)
	}
	if msgs[0].Kind != "ten-minute-warning" || msgs[1].Kind != "starting-now" {
		t.Fatalf("kinds = %q, %q", msgs[0].Kind, msgs[1].Kind)
	}
	if msgs[1].Title != "Calculus is starting now" {
		t.Fatalf("title = %q", msgs[1].Title)
	}
}

func TestTickIgnoresOtherDays(t *testing.T) {
	t.Parallel()
	svc, repo, sink := newFixture(t)
	ctx := context.Background()
	repo.AddSchedule(ctx, records.ScheduleEntry{Course: "Physics", Day: "Tuesday", Time: "9:00-10:30"})

	now := mondayAt(8, 50)
	svc.now = func() time.Time { return now }
	svc.Tick(ctx)

	if got := sink.messages(); len(got) != 0 {
		t.Fatalf("expected no messages, got %+v", got)
	}
}
