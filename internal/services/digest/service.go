// Package digest sends a daily morning summary: today's classes and the
// tasks coming due. Scheduling is cron-based so the send time is one config
// line.
package digest

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/robfig/cron/v3"

	"studenthub/internal/notifier"
	"studenthub/internal/records"
	"studenthub/internal/schedule"
	logx "studenthub/pkg/logx"
)

// Notifier is the slice of the notification service the digest needs.
type Notifier interface {
	Notify(ctx context.Context, m notifier.Message) error
}

type Config struct {
	Enabled  bool
	Spec     string // cron spec, default "0 7 * * *"
	Timezone string
}

const defaultSpec = "0 7 * * *"

type Service struct {
	log  logx.Logger
	repo *records.Repo
	sink Notifier

	// now is swappable in tests.
	now func() time.Time

	mu  sync.Mutex
	cfg Config
	c   *cron.Cron
}

func New(cfg Config, repo *records.Repo, sink Notifier, log logx.Logger) *Service {
	if log.IsZero() {
		log = logx.Nop()
	}
	if strings.TrimSpace(cfg.Spec) == "" {
		cfg.Spec = defaultSpec
	}
	return &Service{log: log, repo: repo, sink: sink, now: time.Now, cfg: cfg}
}

func (s *Service) Enabled() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cfg.Enabled
}

func (s *Service) Apply(cfg Config) {
	if strings.TrimSpace(cfg.Spec) == "" {
		cfg.Spec = defaultSpec
	}
	s.mu.Lock()
	running := s.c != nil
	s.cfg = cfg
	s.mu.Unlock()
	if running {
		// Re-register with the new spec/timezone.
		s.Stop(context.Background())
		s.Start(context.Background())
	}
}

func (s *Service) Start(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.c != nil || !s.cfg.Enabled {
		return
	}

	loc := time.Local
	if s.cfg.Timezone != "" {
		if l, err := time.LoadLocation(s.cfg.Timezone); err == nil {
			loc = l
		} else {
			s.log.Warn("invalid digest timezone, using local", logx.String("tz", s.cfg.Timezone), logx.Err(err))
		}
	}

	c := cron.New(cron.WithLocation(loc))
	if _, err := c.AddFunc(s.cfg.Spec, func() { s.Send(ctx) }); err != nil {
		s.log.Error("invalid digest cron spec", logx.String("spec", s.cfg.Spec), logx.Err(err))
		return
	}
	c.Start()
	s.c = c
	s.log.Info("digest scheduled", logx.String("spec", s.cfg.Spec), logx.String("tz", loc.String()))
}

func (s *Service) Stop(ctx context.Context) {
	s.mu.Lock()
	c := s.c
	s.c = nil
	s.mu.Unlock()
	if c == nil {
		return
	}
	select {
	case <-c.Stop().Done():
	case <-ctx.Done():
	}
}

// Send composes and delivers the digest for the current day. Days with no
// classes and nothing due are skipped without a notification.
func (s *Service) Send(ctx context.Context) {
	if s.sink == nil {
		return
	}
	now := s.now()
	entries, tasks := s.repo.ScheduleSlots(), s.repo.Work()
	if len(schedule.TodayAgenda(entries, now)) == 0 && len(schedule.DueSoon(tasks, now)) == 0 {
		s.log.Debug("digest skipped: no classes and nothing due", logx.Time("day", now))
		return
	}
	body := Render(entries, tasks, now)
	msg := notifier.Message{
		Kind:  "daily-digest",
		Title: "Good morning! Here's your day",
		Body:  body,
		Key:   "digest-" + now.Format("2006-01-02"),
	}
	if err := s.sink.Notify(ctx, msg); err != nil {
		s.log.Warn("digest delivery failed", logx.Err(err))
	}
}

// Render builds the digest text: today's classes in start order, then tasks
// due within the horizon.
func Render(entries []schedule.Entry, tasks []schedule.Task, now time.Time) string {
	var b strings.Builder

	today := schedule.TodayAgenda(entries, now)
	if len(today) == 0 {
		b.WriteString("No classes today.\n")
	} else {
		fmt.Fprintf(&b, "Classes today (%s):\n", now.Weekday())
		for _, s := range today {
			fmt.Fprintf(&b, "  %s %s", s.FormattedTime, s.Course)
			if s.Room != "" {
				fmt.Fprintf(&b, " (%s)", s.Room)
			}
			b.WriteString("\n")
		}
	}

	due := schedule.DueSoon(tasks, now)
	if len(due) == 0 {
		b.WriteString("Nothing due in the next 3 days.")
	} else {
		b.WriteString("Due soon:\n")
		for _, d := range due {
			fmt.Fprintf(&b, "  [%s] %s", d.Status, d.Task.Title)
			if d.Task.Course != "" {
				fmt.Fprintf(&b, " - %s", d.Task.Course)
			}
			fmt.Fprintf(&b, " (due %s)\n", d.Task.DueDate)
		}
	}
	return strings.TrimRight(b.String(), "\n")
}
