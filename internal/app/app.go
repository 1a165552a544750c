// Package app wires the hub together: config, logging, storage, records,
// notification pipeline, background services, and the HTTP API.
package app

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"studenthub/internal/config"
	"studenthub/internal/eventbus"
	"studenthub/internal/notifier"
	"studenthub/internal/records"
	"studenthub/internal/services/digest"
	"studenthub/internal/services/reminder"
	"studenthub/internal/storage"
	"studenthub/internal/web"
	logx "studenthub/pkg/logx"
)

type App struct {
	cfgPath string
	cfgm    *config.Manager

	log  logx.Logger
	logs *logx.Service
	bus  eventbus.Bus

	store storage.Store
	repo  *records.Repo

	notif    *notifier.Service
	reminder *reminder.Service
	digest   *digest.Service

	httpSrv *http.Server

	cancel context.CancelFunc
	done   chan struct{}
}

func NewApp(cfgPath string) (*App, error) {
	cfgm := config.NewManager(cfgPath)
	cfg, err := cfgm.Load()
	if err != nil {
		return nil, err
	}

	logSvc, log := logx.New(cfg.LogxConfig())
	log = log.With(logx.String("comp", "app"))

	bus := eventbus.New()

	sc, err := cfg.StorageConfig()
	if err != nil {
		return nil, err
	}
	store, err := storage.Open(sc, log.With(logx.String("comp", "storage")))
	if err != nil {
		return nil, err
	}
	if store != nil {
		log.Info("storage enabled", logx.String("driver", sc.Driver), logx.String("path", sc.Path))
	} else {
		log.Warn("storage disabled; records are in-memory only")
	}

	repo, err := records.New(context.Background(), store, bus, log.With(logx.String("comp", "records")))
	if err != nil {
		return nil, err
	}

	adapter, err := buildAdapter(cfg, log)
	if err != nil {
		return nil, err
	}

	ncfg, err := cfg.NotifierConfig()
	if err != nil {
		return nil, err
	}
	notifSvc := notifier.New(ncfg, adapter, log.With(logx.String("comp", "notifier")), bus)

	rcfg, err := cfg.ReminderConfig()
	if err != nil {
		return nil, err
	}
	remSvc := reminder.New(rcfg, repo, notifSvc, log.With(logx.String("comp", "reminder")), bus)

	digSvc := digest.New(cfg.DigestConfig(), repo, notifSvc, log.With(logx.String("comp", "digest")))

	webSrv := web.NewServer(repo, notifSvc, log.With(logx.String("comp", "web")))
	httpSrv := &http.Server{
		Addr:              cfg.ListenAddr(),
		Handler:           webSrv.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	return &App{
		cfgPath:  cfgPath,
		cfgm:     cfgm,
		log:      log,
		logs:     logSvc,
		bus:      bus,
		store:    store,
		repo:     repo,
		notif:    notifSvc,
		reminder: remSvc,
		digest:   digSvc,
		httpSrv:  httpSrv,
	}, nil
}

func buildAdapter(cfg *config.Config, log logx.Logger) (notifier.Adapter, error) {
	if cfg.TelegramEnabled() {
		return notifier.NewTelegram(notifier.TelegramConfig{
			Token:  cfg.Telegram.Token,
			ChatID: cfg.Telegram.ChatID,
		}, log.With(logx.String("comp", "telegram")))
	}
	return notifier.NewConsole(log.With(logx.String("comp", "notify"))), nil
}

func (a *App) Start(ctx context.Context) error {
	runCtx, cancel := context.WithCancel(ctx)
	a.cancel = cancel
	a.done = make(chan struct{})

	a.cfgm.SetLogger(a.log.With(logx.String("comp", "config")))

	if a.notif.Enabled() {
		a.notif.Start(runCtx)
	}
	if a.reminder.Enabled() {
		a.reminder.Start(runCtx)
	}
	if a.digest.Enabled() {
		a.digest.Start(runCtx)
	}

	go func() {
		a.log.Info("http server listening", logx.String("addr", a.httpSrv.Addr))
		if err := a.httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			a.log.Error("http server failed", logx.Err(err))
			cancel()
		}
	}()

	go func() { _ = a.cfgm.Watch(runCtx) }()
	go a.reloadLoop(runCtx)
	go a.eventLogLoop(runCtx)

	return nil
}

// reloadLoop applies hot config changes to the running services. Storage and
// Telegram wiring changes need a restart; everything else applies live.
func (a *App) reloadLoop(ctx context.Context) {
	defer close(a.done)
	sub := a.cfgm.Subscribe(8)
	defer a.cfgm.Unsubscribe(sub)

	lastApplied := a.cfgm.Get()
	for {
		select {
		case <-ctx.Done():
			return
		case newCfg, ok := <-sub:
			if !ok {
				return
			}
			// Coalesce bursts: keep only the latest config in the channel.
			for {
				select {
				case newer := <-sub:
					if newer != nil {
						newCfg = newer
					}
				default:
					goto APPLY
				}
			}
		APPLY:
			sections, attrs := config.SummarizeConfigChange(lastApplied, newCfg)
			if len(sections) == 0 {
				a.log.Debug("config reload received, but no effective changes detected")
				continue
			}
			fields := append([]logx.Field{logx.String("changed", strings.Join(sections, ","))}, attrs...)
			a.log.Info("config change summary", fields...)
			lastApplied = newCfg

			for _, s := range sections {
				switch s {
				case "logging":
					a.logs.Apply(newCfg.LogxConfig())
				case "notifier":
					if ncfg, err := newCfg.NotifierConfig(); err == nil {
						a.notif.Apply(ncfg)
					}
				case "reminder":
					if rcfg, err := newCfg.ReminderConfig(); err == nil {
						a.reminder.Apply(rcfg)
						if rcfg.Enabled {
							a.reminder.Start(ctx)
						} else {
							a.reminder.Stop(ctx)
						}
					}
				case "digest":
					a.digest.Apply(newCfg.DigestConfig())
					if newCfg.Digest.Enabled {
						a.digest.Start(ctx)
					} else {
						a.digest.Stop(ctx)
					}
				case "storage", "telegram", "server":
					a.log.Warn("config section changed; restart required for changes to take effect",
						logx.String("section", s))
				}
			}
		}
	}
}

// eventLogLoop mirrors bus traffic into debug logs for observability.
func (a *App) eventLogLoop(ctx context.Context) {
	events, unsub := a.bus.Subscribe(128)
	defer unsub()
	for {
		select {
		case <-ctx.Done():
			return
		case e, ok := <-events:
			if !ok {
				return
			}
			a.log.Debug("event", logx.String("type", e.Type), logx.Time("time", e.Time))
		}
	}
}

func (a *App) Stop(ctx context.Context) error {
	start := time.Now()
	a.log.Info("shutting down")

	shutCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	_ = a.httpSrv.Shutdown(shutCtx)

	a.digest.Stop(shutCtx)
	a.reminder.Stop(shutCtx)
	a.notif.Stop(shutCtx)

	if a.cancel != nil {
		a.cancel()
	}
	if a.done != nil {
		select {
		case <-a.done:
		case <-shutCtx.Done():
		}
	}

	var firstErr error
	if a.store != nil {
		if err := a.store.Close(); err != nil {
			firstErr = err
		}
	}
	a.log.Info("shutdown complete", logx.Duration("took", time.Since(start)))
	if err := a.logs.Close(); err != nil && firstErr == nil {
		firstErr = err
	}
	return firstErr
}
