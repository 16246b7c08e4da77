package history

import "testing"

func newTestManager(limit int) *Manager[string] {
	return New("S0", WithLimit(limit))
}

func TestNewSeedsSingleEntry(t *testing.T) {
	h := New("S0")
	if h.Len() != 1 {
		t.Errorf("Len() = %d, want 1", h.Len())
	}
	if h.Index() != 0 {
		t.Errorf("Index() = %d, want 0", h.Index())
	}
	if h.Current() != "S0" {
		t.Errorf("Current() = %q, want %q", h.Current(), "S0")
	}
	if h.CanUndo() || h.CanRedo() {
		t.Error("fresh history should not allow undo or redo")
	}
	if h.Limit() != DefaultLimit {
		t.Errorf("Limit() = %d, want %d", h.Limit(), DefaultLimit)
	}
}

func TestWithLimitClampsInvalid(t *testing.T) {
	tests := []struct {
		name  string
		limit int
		want  int
	}{
		{"negative", -5, 1},
		{"zero", 0, 1},
		{"one", 1, 1},
		{"normal", 50, 50},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := New("S0", WithLimit(tt.limit))
			if h.Limit() != tt.want {
				t.Errorf("Limit() = %d, want %d", h.Limit(), tt.want)
			}
		})
	}
}

func TestPushAdvancesCursor(t *testing.T) {
	h := newTestManager(10)
	h.Push("S1", "edit")
	h.Push("S2", "edit")

	if h.Len() != 3 {
		t.Errorf("Len() = %d, want 3", h.Len())
	}
	if h.Index() != 2 {
		t.Errorf("Index() = %d, want 2", h.Index())
	}
	if h.Current() != "S2" {
		t.Errorf("Current() = %q, want %q", h.Current(), "S2")
	}
	if !h.CanUndo() {
		t.Error("should allow undo after push")
	}
	if h.CanRedo() {
		t.Error("should not allow redo at the newest entry")
	}
}

func TestPushDefaultLabel(t *testing.T) {
	h := newTestManager(10)
	h.Push("S1", "")
	if h.LastAction() != "unknown" {
		t.Errorf("LastAction() = %q, want %q", h.LastAction(), "unknown")
	}
	h.Push("S2", "toggle-task")
	if h.LastAction() != "toggle-task" {
		t.Errorf("LastAction() = %q, want %q", h.LastAction(), "toggle-task")
	}
}

func TestUndoRedoRoundTrip(t *testing.T) {
	h := newTestManager(10)
	h.Push("S1", "edit")
	h.Push("S2", "edit")

	before := h.Current()
	h.Undo()
	if h.Current() != "S1" {
		t.Errorf("after undo Current() = %q, want %q", h.Current(), "S1")
	}
	h.Redo()
	if h.Current() != before {
		t.Errorf("undo+redo Current() = %q, want %q", h.Current(), before)
	}
}

func TestUndoAtBoundaryIsNoop(t *testing.T) {
	h := newTestManager(10)
	h.Undo()
	h.Undo()

	if h.Index() != 0 {
		t.Errorf("Index() = %d, want 0", h.Index())
	}
	if h.Len() != 1 {
		t.Errorf("Len() = %d, want 1", h.Len())
	}
	if h.Current() != "S0" {
		t.Errorf("Current() = %q, want %q", h.Current(), "S0")
	}
	// The label is still recorded even for a no-op.
	if h.LastAction() != "undo" {
		t.Errorf("LastAction() = %q, want %q", h.LastAction(), "undo")
	}
}

func TestRedoAtBoundaryIsNoop(t *testing.T) {
	h := newTestManager(10)
	h.Push("S1", "edit")

	h.Redo()
	h.Redo()

	if h.Index() != 1 {
		t.Errorf("Index() = %d, want 1", h.Index())
	}
	if h.CanRedo() {
		t.Error("CanRedo() should stay false at the newest entry")
	}
	if h.LastAction() != "redo" {
		t.Errorf("LastAction() = %q, want %q", h.LastAction(), "redo")
	}
}

func TestPushAfterUndoDiscardsRedoBranch(t *testing.T) {
	h := newTestManager(10)
	h.Push("A", "edit")
	h.Push("B", "edit")
	h.Undo()
	h.Push("C", "edit")

	// History is now [S0, A, C]; B is gone.
	if h.Len() != 3 {
		t.Errorf("Len() = %d, want 3", h.Len())
	}
	if h.Current() != "C" {
		t.Errorf("Current() = %q, want %q", h.Current(), "C")
	}
	if h.CanRedo() {
		t.Error("redo branch should be discarded by push")
	}
	h.Undo()
	if h.Current() != "A" {
		t.Errorf("after undo Current() = %q, want %q", h.Current(), "A")
	}
	h.Redo()
	if h.Current() != "C" {
		t.Errorf("after redo Current() = %q, want %q", h.Current(), "C")
	}
}

func TestEvictionShiftsCursor(t *testing.T) {
	h := newTestManager(3)
	for _, s := range []string{"S1", "S2", "S3", "S4"} {
		h.Push(s, "edit")
		if h.Len() > 3 {
			t.Fatalf("Len() = %d exceeds limit 3", h.Len())
		}
	}

	if h.Len() != 3 {
		t.Errorf("Len() = %d, want 3", h.Len())
	}
	if h.Index() != 2 {
		t.Errorf("Index() = %d, want 2", h.Index())
	}
	if h.Current() != "S4" {
		t.Errorf("Current() = %q, want %q", h.Current(), "S4")
	}

	// Oldest were evicted: remaining sequence is S2, S3, S4.
	h.Undo()
	h.Undo()
	if h.Current() != "S2" {
		t.Errorf("oldest surviving entry = %q, want %q", h.Current(), "S2")
	}
	if h.CanUndo() {
		t.Error("S2 should be the oldest entry after eviction")
	}
}

func TestOverwriteKeepsShape(t *testing.T) {
	h := newTestManager(10)
	h.Push("A", "edit")
	h.Push("B", "edit")
	h.Undo()

	length, index := h.Len(), h.Index()
	canUndo, canRedo := h.CanUndo(), h.CanRedo()

	h.Overwrite("A'", "coalesce")

	if h.Len() != length {
		t.Errorf("Len() = %d, want %d", h.Len(), length)
	}
	if h.Index() != index {
		t.Errorf("Index() = %d, want %d", h.Index(), index)
	}
	if h.CanUndo() != canUndo || h.CanRedo() != canRedo {
		t.Error("overwrite must not change undo/redo capabilities")
	}
	if h.Current() != "A'" {
		t.Errorf("Current() = %q, want %q", h.Current(), "A'")
	}

	// The redo branch survived the overwrite.
	h.Redo()
	if h.Current() != "B" {
		t.Errorf("after redo Current() = %q, want %q", h.Current(), "B")
	}
}

func TestClearKeepsCurrentState(t *testing.T) {
	h := newTestManager(10)
	h.Push("A", "edit")
	h.Push("B", "edit")
	h.Undo()

	before := h.Current()
	h.Clear()

	if h.Len() != 1 {
		t.Errorf("Len() = %d, want 1", h.Len())
	}
	if h.Index() != 0 {
		t.Errorf("Index() = %d, want 0", h.Index())
	}
	if h.Current() != before {
		t.Errorf("Current() = %q, want %q", h.Current(), before)
	}
	if h.CanUndo() || h.CanRedo() {
		t.Error("cleared history should not allow undo or redo")
	}
}

func TestReplaceResetsHistory(t *testing.T) {
	h := newTestManager(10)
	h.Push("A", "edit")
	h.Push("B", "edit")

	h.Replace("other-doc", "load")

	if h.Len() != 1 || h.Index() != 0 {
		t.Errorf("Len(), Index() = %d, %d, want 1, 0", h.Len(), h.Index())
	}
	if h.Current() != "other-doc" {
		t.Errorf("Current() = %q, want %q", h.Current(), "other-doc")
	}
	if h.LastAction() != "load" {
		t.Errorf("LastAction() = %q, want %q", h.LastAction(), "load")
	}
}

func TestLimitHoldsAcrossLongRuns(t *testing.T) {
	h := newTestManager(5)
	for i := 0; i < 100; i++ {
		h.Push("S", "edit")
		if h.Len() > 5 {
			t.Fatalf("Len() = %d exceeds limit 5 after push %d", h.Len(), i)
		}
		if h.Index() < 0 || h.Index() >= h.Len() {
			t.Fatalf("cursor %d out of bounds [0,%d)", h.Index(), h.Len())
		}
	}
}

func TestSetLimitEvictsImmediately(t *testing.T) {
	h := newTestManager(10)
	for _, s := range []string{"S1", "S2", "S3", "S4"} {
		h.Push(s, "edit")
	}

	h.SetLimit(2)

	if h.Len() != 2 {
		t.Errorf("Len() = %d, want 2", h.Len())
	}
	if h.Current() != "S4" {
		t.Errorf("Current() = %q, want %q", h.Current(), "S4")
	}
	if h.Index() != 1 {
		t.Errorf("Index() = %d, want 1", h.Index())
	}

	h.SetLimit(0)
	if h.Limit() != 1 {
		t.Errorf("Limit() = %d, want 1 after clamping", h.Limit())
	}
	if h.Len() != 1 {
		t.Errorf("Len() = %d, want 1", h.Len())
	}
}

func TestViewIsConsistent(t *testing.T) {
	h := newTestManager(10)
	h.Push("A", "edit")
	h.Undo()

	v := h.View()
	if v.State != "S0" {
		t.Errorf("View().State = %q, want %q", v.State, "S0")
	}
	if v.CanUndo {
		t.Error("View().CanUndo should be false at index 0")
	}
	if !v.CanRedo {
		t.Error("View().CanRedo should be true after undo")
	}
	if v.Length != 2 || v.Index != 0 {
		t.Errorf("View() length/index = %d/%d, want 2/0", v.Length, v.Index)
	}
	if v.LastAction != "undo" {
		t.Errorf("View().LastAction = %q, want %q", v.LastAction, "undo")
	}
}

// Transition is a pure function: re-applying the same previous state and
// action must give the same result and leave the previous state untouched.
func TestTransitionIsPure(t *testing.T) {
	st := Seed("S0")
	st = Transition(st, Action[string]{Op: OpPush, Snapshot: "A"}, 10)
	st = Transition(st, Action[string]{Op: OpPush, Snapshot: "B"}, 10)
	st = Transition(st, Action[string]{Op: OpUndo}, 10)

	act := Action[string]{Op: OpPush, Snapshot: "C", Label: "edit"}
	first := Transition(st, act, 10)
	second := Transition(st, act, 10)

	if len(first.Entries) != len(second.Entries) || first.Cursor != second.Cursor {
		t.Fatal("re-applying the same transition diverged")
	}
	for i := range first.Entries {
		if first.Entries[i] != second.Entries[i] {
			t.Errorf("entry %d: %q != %q", i, first.Entries[i], second.Entries[i])
		}
	}

	// The previous state still holds its redo branch.
	if len(st.Entries) != 3 || st.Entries[2] != "B" {
		t.Error("transition mutated its input state")
	}
}

func TestTransitionNormalizesGarbage(t *testing.T) {
	// Empty entries reset to a single-element history holding the action's
	// snapshot; the snapshot must not be recorded twice.
	var empty State[string]
	st := Transition(empty, Action[string]{Op: OpPush, Snapshot: "X"}, 10)
	if len(st.Entries) != 1 || st.Current() != "X" {
		t.Errorf("empty state not reseeded: %+v", st)
	}
	if st.Cursor != 0 {
		t.Errorf("Cursor = %d, want 0 after reseed", st.Cursor)
	}
	if st.LastAction != "unknown" {
		t.Errorf("LastAction = %q, want %q", st.LastAction, "unknown")
	}

	// Same reset for the other snapshot-bearing operations.
	for _, op := range []Op{OpReplace, OpOverwrite} {
		st = Transition(empty, Action[string]{Op: op, Snapshot: "Y", Label: "seed"}, 10)
		if len(st.Entries) != 1 || st.Current() != "Y" || st.Cursor != 0 {
			t.Errorf("%v on empty state: %+v", op, st)
		}
		if st.LastAction != "seed" {
			t.Errorf("%v LastAction = %q, want %q", op, st.LastAction, "seed")
		}
	}

	// Cursor-only operations on an empty state reset too, keeping their
	// per-operation label.
	st = Transition(empty, Action[string]{Op: OpUndo}, 10)
	if len(st.Entries) != 1 || st.Cursor != 0 {
		t.Errorf("undo on empty state: %+v", st)
	}
	if st.LastAction != "undo" {
		t.Errorf("LastAction = %q, want %q", st.LastAction, "undo")
	}

	// An out-of-range cursor is clamped before the transition applies.
	bad := State[string]{Entries: []string{"a", "b"}, Cursor: 9}
	st = Transition(bad, Action[string]{Op: OpUndo}, 10)
	if st.Cursor != 0 {
		t.Errorf("Cursor = %d, want 0 after clamp+undo", st.Cursor)
	}
}

func TestSnapshotsAreNotMutated(t *testing.T) {
	type doc struct{ title string }

	h := New(doc{title: "first"}, WithLimit(10))
	d := doc{title: "second"}
	h.Push(d, "edit")

	d.title = "mutated"

	if got := h.Current().title; got != "second" {
		t.Errorf("stored snapshot changed to %q", got)
	}
}
