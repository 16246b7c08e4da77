package history

// DefaultLimit is the entry cap used when no limit is configured.
const DefaultLimit = 100

// Op identifies a history transition.
type Op int

const (
	// OpPush appends a new snapshot after the cursor, discarding redo entries.
	OpPush Op = iota

	// OpUndo moves the cursor one entry back.
	OpUndo

	// OpRedo moves the cursor one entry forward.
	OpRedo

	// OpClear collapses the history to the current snapshot only.
	OpClear

	// OpReplace resets the history to a single new snapshot.
	OpReplace

	// OpOverwrite replaces the entry at the cursor in place.
	OpOverwrite
)

// String returns the operation name.
func (op Op) String() string {
	switch op {
	case OpPush:
		return "push"
	case OpUndo:
		return "undo"
	case OpRedo:
		return "redo"
	case OpClear:
		return "clear"
	case OpReplace:
		return "replace"
	case OpOverwrite:
		return "overwrite"
	default:
		return "unknown"
	}
}

// Action describes one requested transition.
type Action[S any] struct {
	// Op selects the transition.
	Op Op

	// Snapshot is the new snapshot for push, replace, and overwrite.
	// Ignored by undo, redo, and clear.
	Snapshot S

	// Label is a diagnostic tag recorded as the state's LastAction.
	// Defaults per operation when empty; never used in correctness decisions.
	Label string
}

// State is a complete history value. The zero State is not valid; construct
// with Seed (or Manager) so there is always at least one entry.
type State[S any] struct {
	// Entries is the snapshot sequence, oldest first. Never empty.
	Entries []S

	// Cursor indexes the current snapshot. Always in [0, len(Entries)).
	Cursor int

	// LastAction is the diagnostic label of the most recent transition.
	LastAction string
}

// Seed returns a fresh single-entry State for an initial snapshot.
func Seed[S any](initial S) State[S] {
	return State[S]{
		Entries:    []S{initial},
		Cursor:     0,
		LastAction: "init",
	}
}

// Current returns the snapshot at the cursor.
func (st State[S]) Current() S {
	return st.Entries[st.Cursor]
}

// CanUndo reports whether an older snapshot exists.
func (st State[S]) CanUndo() bool {
	return st.Cursor > 0
}

// CanRedo reports whether an undone snapshot exists ahead of the cursor.
func (st State[S]) CanRedo() bool {
	return st.Cursor < len(st.Entries)-1
}

// Transition computes the next State from a previous State and an Action.
// It is pure: the inputs are never mutated, so re-applying the same previous
// State and Action always yields the same result. limit caps the entry count;
// values below 1 are treated as 1.
func Transition[S any](st State[S], act Action[S], limit int) State[S] {
	if limit < 1 {
		limit = 1
	}

	// A garbage state is repaired, not transitioned: an empty entry
	// sequence resets to a single entry holding the action's snapshot.
	if len(st.Entries) == 0 {
		next := Seed(act.Snapshot)
		next.LastAction = label(act, defaultLabel(act.Op))
		return next
	}
	st = clampCursor(st)

	switch act.Op {
	case OpPush:
		return push(st, act.Snapshot, label(act, "unknown"), limit)

	case OpUndo:
		next := st
		next.LastAction = label(act, "undo")
		if st.Cursor > 0 {
			next.Cursor = st.Cursor - 1
		}
		return next

	case OpRedo:
		next := st
		next.LastAction = label(act, "redo")
		if st.Cursor < len(st.Entries)-1 {
			next.Cursor = st.Cursor + 1
		}
		return next

	case OpClear:
		return State[S]{
			Entries:    []S{st.Entries[st.Cursor]},
			Cursor:     0,
			LastAction: label(act, "clear"),
		}

	case OpReplace:
		return State[S]{
			Entries:    []S{act.Snapshot},
			Cursor:     0,
			LastAction: label(act, "unknown"),
		}

	case OpOverwrite:
		entries := make([]S, len(st.Entries))
		copy(entries, st.Entries)
		entries[st.Cursor] = act.Snapshot
		return State[S]{
			Entries:    entries,
			Cursor:     st.Cursor,
			LastAction: label(act, "unknown"),
		}

	default:
		return st
	}
}

// push truncates the redo branch, appends, and evicts from the front when the
// sequence exceeds limit, shifting the cursor down to compensate.
func push[S any](st State[S], snapshot S, lbl string, limit int) State[S] {
	entries := make([]S, st.Cursor+1, st.Cursor+2)
	copy(entries, st.Entries[:st.Cursor+1])
	entries = append(entries, snapshot)
	cursor := len(entries) - 1

	if excess := len(entries) - limit; excess > 0 {
		entries = entries[excess:]
		cursor -= excess
		if cursor < 0 {
			cursor = 0
		}
	}

	return State[S]{
		Entries:    entries,
		Cursor:     cursor,
		LastAction: lbl,
	}
}

// clampCursor forces an out-of-range cursor back into bounds.
func clampCursor[S any](st State[S]) State[S] {
	if st.Cursor < 0 {
		st.Cursor = 0
	} else if st.Cursor >= len(st.Entries) {
		st.Cursor = len(st.Entries) - 1
	}
	return st
}

// defaultLabel is the diagnostic label recorded when the action carries none.
func defaultLabel(op Op) string {
	switch op {
	case OpUndo, OpRedo, OpClear:
		return op.String()
	default:
		return "unknown"
	}
}

func label[S any](act Action[S], fallback string) string {
	if act.Label == "" {
		return fallback
	}
	return act.Label
}
