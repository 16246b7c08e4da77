package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/tmarsden/daybook/internal/config"
	"github.com/tmarsden/daybook/internal/history"
	"github.com/tmarsden/daybook/internal/input/shortcut"
	"github.com/tmarsden/daybook/internal/shell"
	"github.com/tmarsden/daybook/internal/store"
)

// ErrQuit signals a normal, user-requested exit from the event loop.
var ErrQuit = errors.New("quit")

// loadTimeout bounds every store call made by the app itself.
const loadTimeout = 10 * time.Second

// Options configures the application.
type Options struct {
	// ConfigPath is the path to the configuration file.
	ConfigPath string

	// Owner overrides the configured record owner.
	Owner string

	// Date is the starting date (store.DateFormat). Defaults to today.
	Date string

	// LogLevel overrides the configured log level.
	LogLevel string

	// LogOutput is where logs are written. Defaults to stderr.
	LogOutput io.Writer

	// Store overrides the persistence service (used by tests; when nil a
	// REST client is built from the configuration).
	Store store.Service
}

// Application coordinates the daybook components: configuration registry,
// record store, shell boundary, shortcut dispatcher, and the day view.
type Application struct {
	mu sync.Mutex

	opts     Options
	log      *Logger
	registry *config.Registry
	svc      store.Service
	shell    shell.Shell

	dispatcher *shortcut.Dispatcher
	day        *DayView
	cfgSub     *config.Subscription

	shutdownOnce sync.Once
	finish       func()
}

// New creates the application: loads configuration, connects the store,
// opens today's day view, and registers the global shortcuts.
func New(opts Options) (*Application, error) {
	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		return nil, fmt.Errorf("app: %w", err)
	}
	if opts.Owner != "" {
		cfg.Store.Owner = opts.Owner
	}
	if opts.LogLevel != "" {
		cfg.Log.Level = opts.LogLevel
	}

	logCfg := DefaultLoggerConfig()
	logCfg.Level = ParseLogLevel(cfg.Log.Level)
	if opts.LogOutput != nil {
		logCfg.Output = opts.LogOutput
	}
	log := NewLogger(logCfg)

	app := &Application{
		opts:       opts,
		log:        log,
		registry:   config.NewRegistry(cfg),
		shell:      shell.NewLogShell(log.WithComponent("shell")),
		dispatcher: shortcut.NewDispatcher(),
	}

	app.svc = opts.Store
	if app.svc == nil {
		if cfg.Store.BaseURL == "" {
			log.Warn("no store configured; starting with an empty day")
			app.svc = emptyStore{}
		} else {
			app.svc = store.NewClient(cfg.Store.BaseURL, cfg.Store.APIKey, cfg.Store.Owner)
		}
	}

	date := opts.Date
	if date == "" {
		date = time.Now().Format(store.DateFormat)
	}

	ctx, cancel := context.WithTimeout(context.Background(), loadTimeout)
	defer cancel()

	day, err := app.svc.Day(ctx, date)
	if err != nil {
		log.Warn("load day %s: %v; starting empty", date, err)
		day = store.Day{Date: date}
	}

	app.day = NewDayView(
		day,
		app.svc,
		app.dispatcher,
		app.registry,
		log,
		history.WithLimit(cfg.History.Limit),
	)

	app.registerShortcuts(cfg.Shortcuts)
	app.cfgSub = app.registry.Subscribe(app.onConfigChange)

	if cfg.Notify.Enabled {
		app.scheduleNotifications(ctx, day, cfg.Notify)
	}

	return app, nil
}

// Day returns the active day view.
func (app *Application) Day() *DayView {
	return app.day
}

// Registry returns the live configuration registry.
func (app *Application) Registry() *config.Registry {
	return app.registry
}

// Shutdown tears the application down: the event loop is stopped, the day
// view's listener is detached, and the config subscription is removed.
// Safe to call more than once.
func (app *Application) Shutdown() {
	app.shutdownOnce.Do(func() {
		app.mu.Lock()
		finish := app.finish
		app.mu.Unlock()

		if finish != nil {
			finish()
		}
		app.cfgSub.Unsubscribe()
		app.day.Close()
		app.log.Info("shutdown complete")
	})
}

// onConfigChange propagates live configuration updates: shell-registered
// shortcuts follow the new descriptors and the history cap is re-applied.
// The key listener itself needs no update; it reads the registry directly.
func (app *Application) onConfigChange(cfg config.Config) {
	app.registerShortcuts(cfg.Shortcuts)
	app.day.SetLimit(cfg.History.Limit)
}

func (app *Application) registerShortcuts(s config.Shortcuts) {
	if err := app.shell.RegisterShortcut("undo", s.Undo); err != nil {
		app.log.Warn("register undo shortcut: %v", err)
	}
	if err := app.shell.RegisterShortcut("redo", s.Redo); err != nil {
		app.log.Warn("register redo shortcut: %v", err)
	}
}

// scheduleNotifications queues a shell notification ahead of each timed
// schedule entry of the loaded day.
func (app *Application) scheduleNotifications(ctx context.Context, day store.Day, n config.Notify) {
	lead := time.Duration(n.LeadMinutes) * time.Minute

	for _, s := range day.Schedules {
		if s.Time == "" {
			continue
		}
		at, err := time.ParseInLocation(store.DateFormat+" 15:04", day.Date+" "+s.Time, time.Local)
		if err != nil {
			app.log.Warn("schedule %s has bad time %q: %v", s.ID, s.Time, err)
			continue
		}
		fireAt := at.Add(-lead)
		if fireAt.Before(time.Now()) {
			continue
		}
		if _, err := app.shell.Schedule(ctx, shell.Notification{
			ID:    s.ID,
			Title: s.Title,
			Body:  s.Note,
			At:    fireAt,
		}); err != nil {
			app.log.Warn("schedule notification for %s: %v", s.ID, err)
		}
	}
}

// emptyStore serves an unconfigured app: reads are empty, writes fail.
type emptyStore struct{}

var errNoStore = errors.New("store: not configured")

func (emptyStore) Day(_ context.Context, date string) (store.Day, error) {
	return store.Day{Date: date}, nil
}
func (emptyStore) Memos(context.Context) ([]store.Memo, error)   { return nil, nil }
func (emptyStore) Quests(context.Context) ([]store.Quest, error) { return nil, nil }
func (emptyStore) SaveDay(context.Context, store.Day) error      { return errNoStore }
func (emptyStore) UpsertMemo(context.Context, store.Memo) error  { return errNoStore }
func (emptyStore) UpsertQuest(context.Context, store.Quest) error {
	return errNoStore
}
func (emptyStore) Delete(context.Context, store.Kind, string) error { return errNoStore }
