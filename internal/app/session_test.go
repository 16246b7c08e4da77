package app

import (
	"context"
	"sync"
	"testing"

	"github.com/tmarsden/daybook/internal/config"
	"github.com/tmarsden/daybook/internal/input/key"
	"github.com/tmarsden/daybook/internal/input/shortcut"
	"github.com/tmarsden/daybook/internal/store"
)

// fakeStore is an in-memory store.Service for session tests.
type fakeStore struct {
	mu     sync.Mutex
	days   map[string]store.Day
	saved  []store.Day
	dayErr error
}

func newFakeStore() *fakeStore {
	return &fakeStore{days: make(map[string]store.Day)}
}

func (f *fakeStore) Day(_ context.Context, date string) (store.Day, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.dayErr != nil {
		return store.Day{}, f.dayErr
	}
	if d, ok := f.days[date]; ok {
		return d.Clone(), nil
	}
	return store.Day{Date: date}, nil
}

func (f *fakeStore) SaveDay(_ context.Context, day store.Day) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.saved = append(f.saved, day.Clone())
	return nil
}

func (f *fakeStore) Memos(context.Context) ([]store.Memo, error)      { return nil, nil }
func (f *fakeStore) Quests(context.Context) ([]store.Quest, error)    { return nil, nil }
func (f *fakeStore) UpsertMemo(context.Context, store.Memo) error     { return nil }
func (f *fakeStore) UpsertQuest(context.Context, store.Quest) error   { return nil }
func (f *fakeStore) Delete(context.Context, store.Kind, string) error { return nil }

func newTestDayView(t *testing.T) (*DayView, *shortcut.Dispatcher, *config.Registry, *fakeStore) {
	t.Helper()
	registry := config.NewRegistry(config.Default())
	dispatcher := shortcut.NewDispatcher()
	svc := newFakeStore()
	view := NewDayView(store.Day{Date: "2026-08-23"}, svc, dispatcher, registry, NullLogger)
	return view, dispatcher, registry, svc
}

func ctrlZ() key.Event {
	return key.NewEvent("z", key.ModControl)
}

func ctrlShiftZ() key.Event {
	return key.NewEvent("z", key.ModControl|key.ModShift)
}

func TestDayViewEditsAreUndoable(t *testing.T) {
	view, dispatcher, _, _ := newTestDayView(t)
	defer view.Close()

	task := view.AddTask("write report")
	view.ToggleTask(task.ID)

	if !view.Current().Tasks[0].Done {
		t.Fatal("task should be done after toggle")
	}

	// Undo arrives as a keystroke through the dispatcher.
	if !dispatcher.Dispatch(ctrlZ()) {
		t.Fatal("undo keystroke should be consumed")
	}
	if view.Current().Tasks[0].Done {
		t.Error("toggle should be undone")
	}

	dispatcher.Dispatch(ctrlZ())
	if len(view.Current().Tasks) != 0 {
		t.Error("add should be undone")
	}

	dispatcher.Dispatch(ctrlShiftZ())
	if len(view.Current().Tasks) != 1 {
		t.Error("redo should restore the task")
	}
}

func TestRenameTaskCoalesces(t *testing.T) {
	view, dispatcher, _, _ := newTestDayView(t)
	defer view.Close()

	task := view.AddTask("draft")

	// Simulates rapid keystrokes in a title field: one slot, not three.
	view.RenameTask(task.ID, "d")
	view.RenameTask(task.ID, "de")
	view.RenameTask(task.ID, "design")

	if got := view.Current().Tasks[0].Title; got != "design" {
		t.Fatalf("title = %q, want %q", got, "design")
	}

	dispatcher.Dispatch(ctrlZ())
	if got := view.Current().Tasks[0].Title; got != "draft" {
		t.Errorf("one undo should revert the whole rename, got %q", got)
	}
}

func TestRenamingDifferentTasksDoesNotCoalesce(t *testing.T) {
	view, dispatcher, _, _ := newTestDayView(t)
	defer view.Close()

	a := view.AddTask("a")
	b := view.AddTask("b")

	view.RenameTask(a.ID, "alpha")
	view.RenameTask(b.ID, "beta")

	dispatcher.Dispatch(ctrlZ())
	cur := view.Current()
	if cur.Tasks[0].Title != "alpha" || cur.Tasks[1].Title != "b" {
		t.Errorf("undo should revert only the second rename: %q, %q",
			cur.Tasks[0].Title, cur.Tasks[1].Title)
	}
}

func TestLoadReplacesHistory(t *testing.T) {
	view, _, _, svc := newTestDayView(t)
	defer view.Close()

	svc.days["2026-08-24"] = store.Day{
		Date:  "2026-08-24",
		Tasks: []store.Task{{ID: "t9", Date: "2026-08-24", Title: "planned"}},
	}

	view.AddTask("today's task")

	if err := view.Load(context.Background(), "2026-08-24"); err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if view.Date() != "2026-08-24" {
		t.Errorf("Date() = %q, want %q", view.Date(), "2026-08-24")
	}
	if view.CanUndo() {
		t.Error("loading a day must not be undoable into the previous day")
	}
	if len(view.Current().Tasks) != 1 || view.Current().Tasks[0].Title != "planned" {
		t.Errorf("loaded tasks = %+v", view.Current().Tasks)
	}
}

func TestSavePersistsCurrentSnapshot(t *testing.T) {
	view, dispatcher, _, svc := newTestDayView(t)
	defer view.Close()

	view.AddTask("one")
	view.AddTask("two")
	dispatcher.Dispatch(ctrlZ())

	if err := view.Save(context.Background()); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	if len(svc.saved) != 1 {
		t.Fatalf("saved %d times, want 1", len(svc.saved))
	}
	// The undone snapshot is what gets saved, not the newest one.
	if got := len(svc.saved[0].Tasks); got != 1 {
		t.Errorf("saved %d tasks, want 1", got)
	}
}

func TestSessionCloseDetachesListener(t *testing.T) {
	view, dispatcher, _, _ := newTestDayView(t)

	view.AddTask("task")
	view.Close()

	if dispatcher.Dispatch(ctrlZ()) {
		t.Error("closed session must not consume keystrokes")
	}
	if len(view.Current().Tasks) != 1 {
		t.Error("closed session must not act on keystrokes")
	}
}

func TestShortcutReconfigurationIsLive(t *testing.T) {
	view, dispatcher, registry, _ := newTestDayView(t)
	defer view.Close()

	view.AddTask("task")

	registry.SetShortcuts(config.Shortcuts{Undo: "Alt+Z", Redo: "Alt+Y"})

	if dispatcher.Dispatch(ctrlZ()) {
		t.Error("old undo chord should no longer be consumed")
	}
	if !dispatcher.Dispatch(key.NewEvent("z", key.ModAlt)) {
		t.Error("new undo chord should be consumed")
	}
	if len(view.Current().Tasks) != 0 {
		t.Error("new undo chord should have undone the edit")
	}
}

func TestEditableFocusSuppressesShortcuts(t *testing.T) {
	view, dispatcher, _, _ := newTestDayView(t)
	defer view.Close()

	view.AddTask("task")

	typedInField := ctrlZ().WithTarget(key.TargetField)
	if dispatcher.Dispatch(typedInField) {
		t.Error("keystroke in a text field must not be consumed")
	}
	if len(view.Current().Tasks) != 1 {
		t.Error("keystroke in a text field must not trigger undo")
	}
}

func TestMemoBoardSession(t *testing.T) {
	registry := config.NewRegistry(config.Default())
	dispatcher := shortcut.NewDispatcher()

	board := NewSession("memos", MemoBoard{}, dispatcher, registry, NullLogger)
	defer board.Close()

	cur := board.Current()
	cur.Memos = append(cur.Memos, store.Memo{ID: "m1", Title: "idea"})
	board.Push(cur, "add-memo")

	dispatcher.Dispatch(ctrlZ())
	if len(board.Current().Memos) != 0 {
		t.Error("memo add should be undone")
	}
}
