package notifier

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	logx "studenthub/pkg/logx"
)

type captureAdapter struct {
	mu   sync.Mutex
	sent []Message
	// fail makes the first n sends error.
	fail int
}

func (c *captureAdapter) Name() string { return "capture" }

func (c *captureAdapter) Send(_ context.Context, m Message) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.fail > 0 {
		c.fail--
		return errors.New("transient")
	}
	c.sent = append(c.sent, m)
	return nil
}

func (c *captureAdapter) messages() []Message {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]Message(nil), c.sent...)
}

func waitFor(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(3 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatal("condition not met in time")
}

func TestNotifyDelivers(t *testing.T) {
	t.Parallel()
	ad := &captureAdapter{}
	s := New(Config{Enabled: true, RatePerSec: 100}, ad, logx.Nop(), nil)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	s.Start(ctx)
	defer s.Stop(context.Background())

	if err := s.Notify(ctx, Message{Kind: "reminder", Title: "Calculus", Body: "starts in 10 minutes"}); err != nil {
		t.Fatalf("Notify: %v", err)
	}
	waitFor(t, func() bool { return len(ad.messages()) == 1 })

	if got := ad.messages()[0]; got.Title != "Calculus" {
		t.Fatalf("unexpected message %+v", got)
	}
	if h := s.Snapshot(); len(h) != 1 || h[0].Kind != "reminder" {
		t.Fatalf("history = %+v", h)
	}
}

func TestNotifyRetriesTransientFailures(t *testing.T) {
	t.Parallel()
	ad := &captureAdapter{fail: 2}
	s := New(Config{
		Enabled:    true,
		RatePerSec: 100,
		RetryMax:   3,
		RetryBase:  time.Millisecond,
	}, ad, logx.Nop(), nil)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	s.Start(ctx)
	defer s.Stop(context.Background())

	if err := s.Notify(ctx, Message{Title: "flaky"}); err != nil {
		t.Fatalf("Notify: %v", err)
	}
	waitFor(t, func() bool { return len(ad.messages()) == 1 })
}

func TestNotifyDedupWindowSuppressesRepeats(t *testing.T) {
	t.Parallel()
	ad := &captureAdapter{}
	s := New(Config{Enabled: true, RatePerSec: 100, DedupWindow: time.Minute}, ad, logx.Nop(), nil)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	s.Start(ctx)
	defer s.Stop(context.Background())

	for i := 0; i < 3; i++ {
		if err := s.Notify(ctx, Message{Title: "Calculus", Key: "Calculus-9:00"}); err != nil {
			t.Fatalf("Notify #%d: %v", i, err)
		}
	}
	// A different key is not suppressed.
	if err := s.Notify(ctx, Message{Title: "Physics", Key: "Physics-13:00"}); err != nil {
		t.Fatalf("Notify: %v", err)
	}
	waitFor(t, func() bool { return len(ad.messages()) == 2 })
	time.Sleep(50 * time.Millisecond)
	if got := len(ad.messages()); got != 2 {
		t.Fatalf("sent %d messages, want 2", got)
	}
}

func TestNotifyDisabledAndStopped(t *testing.T) {
	t.Parallel()
	ad := &captureAdapter{}
	s := New(Config{Enabled: false}, ad, logx.Nop(), nil)
	if err := s.Notify(context.Background(), Message{Title: "x"}); !errors.Is(err, ErrDisabled) {
		t.Fatalf("expected ErrDisabled, got %v", err)
	}

	s = New(Config{Enabled: true}, ad, logx.Nop(), nil)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	s.Start(ctx)
	s.Stop(context.Background())
	if err := s.Notify(context.Background(), Message{Title: "x"}); !errors.Is(err, ErrStopped) {
		t.Fatalf("expected ErrStopped, got %v", err)
	}
}
