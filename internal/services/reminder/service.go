// Package reminder runs the per-minute class reminder loop. Each tick it
// asks the schedule engine which notifications are due and forwards them to
// the notifier.
package reminder

import (
	"context"
	"fmt"
	"sync"
	"time"

	"studenthub/internal/eventbus"
	"studenthub/internal/notifier"
	"studenthub/internal/records"
	"studenthub/internal/schedule"
	logx "studenthub/pkg/logx"
)

// Notifier is the slice of the notification service the loop needs.
type Notifier interface {
	Notify(ctx context.Context, m notifier.Message) error
}

type Config struct {
	Enabled  bool
	Interval time.Duration
	Timezone string
}

// Service owns the reminder state between ticks so a class is announced at
// most once per window even though the loop re-evaluates every minute.
type Service struct {
	log  logx.Logger
	repo *records.Repo
	sink Notifier
	bus  eventbus.Bus

	// now is swappable in tests.
	now func() time.Time

	mu       sync.Mutex
	cfg      Config
	loc      *time.Location
	state    schedule.ReminderState
	stopCh   chan struct{}
	stopDone chan struct{}
}

func New(cfg Config, repo *records.Repo, sink Notifier, log logx.Logger, bus eventbus.Bus) *Service {
	if log.IsZero() {
		log = logx.Nop()
	}
	s := &Service{
		log:  log,
		repo: repo,
		sink: sink,
		bus:  bus,
		now:  time.Now,
	}
	s.applyLocked(cfg)
	return s
}

func (s *Service) Enabled() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cfg.Enabled
}

func (s *Service) Apply(cfg Config) {
	s.mu.Lock()
	s.applyLocked(cfg)
	s.mu.Unlock()
}

func (s *Service) applyLocked(cfg Config) {
	if cfg.Interval <= 0 {
		cfg.Interval = time.Minute
	}
	s.cfg = cfg
	s.loc = time.Local
	if cfg.Timezone != "" {
		if loc, err := time.LoadLocation(cfg.Timezone); err == nil {
			s.loc = loc
		} else {
			s.log.Warn("invalid reminder timezone, using local", logx.String("tz", cfg.Timezone), logx.Err(err))
		}
	}
}

func (s *Service) Start(ctx context.Context) {
	s.mu.Lock()
	if s.stopCh != nil || !s.cfg.Enabled {
		s.mu.Unlock()
		return
	}
	interval := s.cfg.Interval
	s.stopCh = make(chan struct{})
	s.stopDone = make(chan struct{})
	stopCh := s.stopCh
	stopDone := s.stopDone
	s.mu.Unlock()

	go func() {
		defer close(stopDone)
		t := time.NewTicker(interval)
		defer t.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-stopCh:
				return
			case <-t.C:
				s.Tick(ctx)
			}
		}
	}()
	s.log.Info("reminder loop started", logx.Duration("interval", interval))
}

func (s *Service) Stop(ctx context.Context) {
	s.mu.Lock()
	stopCh := s.stopCh
	stopDone := s.stopDone
	s.stopCh = nil
	s.stopDone = nil
	s.mu.Unlock()
	if stopCh == nil {
		return
	}
	close(stopCh)
	select {
	case <-stopDone:
	case <-ctx.Done():
	}
}

// Tick evaluates the schedule once at the current wall-clock minute.
func (s *Service) Tick(ctx context.Context) {
	s.mu.Lock()
	loc := s.loc
	s.mu.Unlock()

	now := s.now().In(loc)
	slots := s.repo.ScheduleSlots()

	s.mu.Lock()
	fired, next := schedule.UpcomingWindow(slots, now, s.state)
	s.state = next
	s.mu.Unlock()

	for _, r := range fired {
		s.deliver(ctx, r)
	}
}

func (s *Service) deliver(ctx context.Context, r schedule.Reminder) {
	var title, body string
	switch r.Kind {
	case schedule.KindTenMinuteWarning:
		title = fmt.Sprintf("%s starts in 10 minutes", r.Slot.Course)
	case schedule.KindStartingNow:
		title = fmt.Sprintf("%s is starting now", r.Slot.Course)
	default:
		return
	}
	body = r.Slot.FormattedTime
	if r.Slot.Room != "" {
		body += " · " + r.Slot.Room
	}

	if s.bus != nil {
		s.bus.Publish(eventbus.Event{Type: eventbus.TypeReminderFired, Data: map[string]string{
			"course": r.Slot.Course,
			"kind":   string(r.Kind),
		}})
	}
	if s.sink == nil {
		return
	}
	msg := notifier.Message{
		Kind:  string(r.Kind),
		Title: title,
		Body:  body,
		Key:   r.Slot.Course + "|" + string(r.Kind) + "|" + r.Slot.RawTime,
	}
	if err := s.sink.Notify(ctx, msg); err != nil {
		s.log.Warn("reminder delivery failed", logx.String("course", r.Slot.Course), logx.Err(err))
	}
}
