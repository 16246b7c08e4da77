package app

import (
	"context"
	"fmt"

	"github.com/tmarsden/daybook/internal/history"
	"github.com/tmarsden/daybook/internal/input/shortcut"
	"github.com/tmarsden/daybook/internal/store"
)

// Cloneable is the snapshot contract: sessions clone on the way in and out
// so history entries are never aliased by live edits.
type Cloneable[S any] interface {
	Clone() S
}

// Session is one editing surface: a history of snapshots plus a shortcut
// listener attached to the app dispatcher. It lives for the lifetime of the
// owning view; Close detaches the listener deterministically.
type Session[S Cloneable[S]] struct {
	name string
	hist *history.Manager[S]
	sub  *shortcut.Subscription
	log  *Logger
}

// NewSession creates a session seeded with initial and attaches its
// undo/redo listener to the dispatcher.
func NewSession[S Cloneable[S]](
	name string,
	initial S,
	dispatcher *shortcut.Dispatcher,
	bindings shortcut.Source,
	log *Logger,
	opts ...history.Option,
) *Session[S] {
	s := &Session[S]{
		name: name,
		hist: history.New(initial.Clone(), opts...),
		log:  log.WithComponent("session." + name),
	}
	s.sub = dispatcher.Attach(shortcut.NewListener(bindings, s.hist))
	return s
}

// Current returns a copy of the snapshot at the cursor.
func (s *Session[S]) Current() S {
	return s.hist.Current().Clone()
}

// Push records an edited snapshot as a new undoable step.
func (s *Session[S]) Push(next S, actionType string) {
	s.hist.Push(next.Clone(), actionType)
	s.log.Debug("push %s (history %d/%d)", actionType, s.hist.Index()+1, s.hist.Len())
}

// Overwrite replaces the current snapshot in place, coalescing rapid edits
// into one history slot.
func (s *Session[S]) Overwrite(next S, actionType string) {
	s.hist.Overwrite(next.Clone(), actionType)
}

// Replace seeds a different document into this surface without an undoable
// edit; all prior history is discarded.
func (s *Session[S]) Replace(next S, actionType string) {
	s.hist.Replace(next.Clone(), actionType)
	s.log.Debug("replace %s", actionType)
}

// Undo steps the snapshot back. No-op at the oldest entry.
func (s *Session[S]) Undo() { s.hist.Undo() }

// Redo steps the snapshot forward. No-op at the newest entry.
func (s *Session[S]) Redo() { s.hist.Redo() }

// CanUndo reports whether undo would change the snapshot.
func (s *Session[S]) CanUndo() bool { return s.hist.CanUndo() }

// CanRedo reports whether redo would change the snapshot.
func (s *Session[S]) CanRedo() bool { return s.hist.CanRedo() }

// ClearHistory forgets all history without changing the visible snapshot.
func (s *Session[S]) ClearHistory() { s.hist.Clear() }

// View returns the derived history values in one consistent read.
func (s *Session[S]) View() history.View[S] { return s.hist.View() }

// SetLimit changes the history cap, evicting immediately if needed.
func (s *Session[S]) SetLimit(n int) { s.hist.SetLimit(n) }

// Close detaches the shortcut listener. The session must not be used after
// Close; a dangling listener would keep acting on a closed view.
func (s *Session[S]) Close() {
	s.sub.Detach()
	s.log.Debug("closed")
}

// MemoBoard is the quick-memo surface's snapshot.
type MemoBoard struct {
	Memos []store.Memo
}

// Clone returns a deep copy for history storage.
func (b MemoBoard) Clone() MemoBoard {
	out := MemoBoard{}
	if b.Memos != nil {
		out.Memos = make([]store.Memo, len(b.Memos))
		copy(out.Memos, b.Memos)
	}
	return out
}

// DayView is the calendar editing surface for one date: a Session over
// store.Day with edit helpers and persistence.
type DayView struct {
	*Session[store.Day]
	svc store.Service
}

// NewDayView creates the editing surface for day.
func NewDayView(
	day store.Day,
	svc store.Service,
	dispatcher *shortcut.Dispatcher,
	bindings shortcut.Source,
	log *Logger,
	opts ...history.Option,
) *DayView {
	return &DayView{
		Session: NewSession("day", day, dispatcher, bindings, log, opts...),
		svc:     svc,
	}
}

// Date returns the date this view is editing.
func (v *DayView) Date() string {
	return v.Current().Date
}

// Load switches the view to a different day. Loading is not an undoable
// edit: the previous day's history does not leak into the new one.
func (v *DayView) Load(ctx context.Context, date string) error {
	day, err := v.svc.Day(ctx, date)
	if err != nil {
		return fmt.Errorf("load day %s: %w", date, err)
	}
	v.Replace(day, "load-day")
	return nil
}

// AddTask appends a task and records the edit.
func (v *DayView) AddTask(title string) store.Task {
	day := v.Current()
	task := store.Task{
		ID:    store.NewID(),
		Date:  day.Date,
		Title: title,
		Sort:  len(day.Tasks),
	}
	day.Tasks = append(day.Tasks, task)
	v.Push(day, "add-task")
	return task
}

// ToggleTask flips a task's done flag and records the edit.
// Unknown ids are ignored.
func (v *DayView) ToggleTask(id string) {
	day := v.Current()
	for i := range day.Tasks {
		if day.Tasks[i].ID == id {
			day.Tasks[i].Done = !day.Tasks[i].Done
			v.Push(day, "toggle-task")
			return
		}
	}
}

// RenameTask retitles a task. Consecutive renames of the same task coalesce
// into one history slot so each keystroke does not become an undo step.
func (v *DayView) RenameTask(id, title string) {
	day := v.Current()
	for i := range day.Tasks {
		if day.Tasks[i].ID != id {
			continue
		}
		day.Tasks[i].Title = title

		label := "rename-task:" + id
		if v.hist.LastAction() == label {
			v.Overwrite(day, label)
		} else {
			v.Push(day, label)
		}
		return
	}
}

// AddSchedule appends a calendar entry and records the edit.
func (v *DayView) AddSchedule(at, title string) store.Schedule {
	day := v.Current()
	sched := store.Schedule{
		ID:    store.NewID(),
		Date:  day.Date,
		Time:  at,
		Title: title,
	}
	day.Schedules = append(day.Schedules, sched)
	v.Push(day, "add-schedule")
	return sched
}

// Save upserts the current snapshot through the store.
func (v *DayView) Save(ctx context.Context) error {
	day := v.Current()
	if err := v.svc.SaveDay(ctx, day); err != nil {
		return fmt.Errorf("save day %s: %w", day.Date, err)
	}
	return nil
}
