package history

import "sync"

// Manager wraps the transition reducer with a stored State and a mutex so a
// single editing surface can share one history handle.
type Manager[S any] struct {
	mu    sync.Mutex
	limit int
	st    State[S]
}

// Option configures a Manager.
type Option func(*options)

type options struct {
	limit int
}

// WithLimit sets the maximum number of retained entries.
// Values below 1 are clamped to 1.
func WithLimit(n int) Option {
	return func(o *options) {
		o.limit = clampLimit(n)
	}
}

// New creates a history manager seeded with one initial snapshot.
func New[S any](initial S, opts ...Option) *Manager[S] {
	o := options{limit: DefaultLimit}
	for _, opt := range opts {
		opt(&o)
	}
	return &Manager[S]{
		limit: o.limit,
		st:    Seed(initial),
	}
}

// View is a read-only snapshot of the manager's state for consumers that
// render or gate on history capabilities.
type View[S any] struct {
	State      S
	CanUndo    bool
	CanRedo    bool
	Length     int
	Index      int
	LastAction string
}

// Push records a new edit: the redo branch is discarded, next becomes the
// current snapshot, and the oldest entries are evicted past the limit.
func (m *Manager[S]) Push(next S, actionType string) {
	m.apply(Action[S]{Op: OpPush, Snapshot: next, Label: actionType})
}

// Undo moves the cursor one snapshot back. No-op at the oldest entry.
func (m *Manager[S]) Undo() {
	m.apply(Action[S]{Op: OpUndo})
}

// Redo moves the cursor one snapshot forward. No-op at the newest entry.
func (m *Manager[S]) Redo() {
	m.apply(Action[S]{Op: OpRedo})
}

// Clear collapses the history to the current snapshot. The visible state is
// unchanged; everything else is discarded irreversibly.
func (m *Manager[S]) Clear() {
	m.apply(Action[S]{Op: OpClear})
}

// Replace hard-resets the history to a single new snapshot, for seeding a
// different document into the same surface without an undoable edit.
func (m *Manager[S]) Replace(next S, actionType string) {
	m.apply(Action[S]{Op: OpReplace, Snapshot: next, Label: actionType})
}

// Overwrite swaps the snapshot at the cursor in place. Length, cursor, and
// the redo branch are untouched, so rapid corrections coalesce into one slot.
func (m *Manager[S]) Overwrite(next S, actionType string) {
	m.apply(Action[S]{Op: OpOverwrite, Snapshot: next, Label: actionType})
}

// Current returns the snapshot at the cursor.
func (m *Manager[S]) Current() S {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.st.Current()
}

// CanUndo reports whether undo would move the cursor.
func (m *Manager[S]) CanUndo() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.st.CanUndo()
}

// CanRedo reports whether redo would move the cursor.
func (m *Manager[S]) CanRedo() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.st.CanRedo()
}

// Len returns the number of retained entries.
func (m *Manager[S]) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.st.Entries)
}

// Index returns the cursor position.
func (m *Manager[S]) Index() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.st.Cursor
}

// LastAction returns the diagnostic label of the most recent transition.
func (m *Manager[S]) LastAction() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.st.LastAction
}

// View returns a consistent read of the derived values in one lock.
func (m *Manager[S]) View() View[S] {
	m.mu.Lock()
	defer m.mu.Unlock()
	return View[S]{
		State:      m.st.Current(),
		CanUndo:    m.st.CanUndo(),
		CanRedo:    m.st.CanRedo(),
		Length:     len(m.st.Entries),
		Index:      m.st.Cursor,
		LastAction: m.st.LastAction,
	}
}

// Limit returns the configured entry cap.
func (m *Manager[S]) Limit() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.limit
}

// SetLimit changes the entry cap. If the current history is larger, the
// oldest entries are evicted immediately and the cursor shifts down.
func (m *Manager[S]) SetLimit(n int) {
	n = clampLimit(n)

	m.mu.Lock()
	defer m.mu.Unlock()

	m.limit = n
	if excess := len(m.st.Entries) - n; excess > 0 {
		m.st.Entries = m.st.Entries[excess:]
		m.st.Cursor -= excess
		if m.st.Cursor < 0 {
			m.st.Cursor = 0
		}
	}
}

func (m *Manager[S]) apply(act Action[S]) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.st = Transition(m.st, act, m.limit)
}

func clampLimit(n int) int {
	if n < 1 {
		return 1
	}
	return n
}
