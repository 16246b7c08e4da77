// Package shell is the boundary to the native desktop shell: OS
// notifications and global shortcut registration. The real implementation
// lives in the shell process outside this repo; this package defines the
// contract plus a logging stand-in used headless and in tests.
package shell

import (
	"context"
	"errors"
	"strconv"
	"sync"
	"time"
)

// ErrUnknownNotification is returned when cancelling an id that was never
// scheduled (or was already delivered).
var ErrUnknownNotification = errors.New("shell: unknown notification")

// Notification is one OS-level notification.
type Notification struct {
	ID    string
	Title string
	Body  string

	// At is when the notification should fire. Zero means immediately.
	At time.Time
}

// Shell exposes the native shell's services.
type Shell interface {
	// Notify delivers a notification immediately.
	Notify(ctx context.Context, n Notification) error

	// Schedule queues a notification for later delivery and returns its id.
	Schedule(ctx context.Context, n Notification) (string, error)

	// Cancel withdraws a scheduled notification.
	Cancel(ctx context.Context, id string) error

	// RegisterShortcut registers a global shortcut descriptor under a name.
	// An empty descriptor unregisters it.
	RegisterShortcut(name, descriptor string) error
}

// Logger is the slice of the application logger the shell stand-in needs.
type Logger interface {
	Info(msg string, args ...any)
}

// LogShell records shell calls to a logger and tracks scheduled ids so
// Cancel behaves like the real shell.
type LogShell struct {
	mu        sync.Mutex
	log       Logger
	scheduled map[string]Notification
	nextID    int
}

// NewLogShell creates a logging shell stand-in.
func NewLogShell(log Logger) *LogShell {
	return &LogShell{
		log:       log,
		scheduled: make(map[string]Notification),
	}
}

// Notify logs the notification.
func (s *LogShell) Notify(_ context.Context, n Notification) error {
	s.log.Info("notify: %s: %s", n.Title, n.Body)
	return nil
}

// Schedule records the notification and returns a synthetic id.
func (s *LogShell) Schedule(_ context.Context, n Notification) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if n.ID == "" {
		s.nextID++
		n.ID = "local-" + strconv.Itoa(s.nextID)
	}
	s.scheduled[n.ID] = n
	s.log.Info("schedule notification %s at %s: %s", n.ID, n.At.Format(time.RFC3339), n.Title)
	return n.ID, nil
}

// Cancel withdraws a recorded notification.
func (s *LogShell) Cancel(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.scheduled[id]; !ok {
		return ErrUnknownNotification
	}
	delete(s.scheduled, id)
	s.log.Info("cancel notification %s", id)
	return nil
}

// RegisterShortcut logs the registration.
func (s *LogShell) RegisterShortcut(name, descriptor string) error {
	if descriptor == "" {
		s.log.Info("unregister global shortcut %s", name)
	} else {
		s.log.Info("register global shortcut %s = %s", name, descriptor)
	}
	return nil
}

// Pending returns the number of scheduled notifications.
func (s *LogShell) Pending() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.scheduled)
}
