// Package history provides a bounded undo/redo history over opaque snapshots.
//
// The history is a linear sequence of snapshots plus a cursor. New edits are
// pushed after the cursor, discarding any undone (redo) entries; undo and redo
// move the cursor without removing entries. The sequence is capped: when a push
// would exceed the limit, the oldest entries are evicted from the front and the
// cursor shifts down to keep pointing at the same logical snapshot.
//
// # State machine
//
// All transitions are pure: Transition computes the next State from the
// previous State and an Action without mutating either. Manager wraps the
// reducer with a mutex and a stored State for callers that want a handle
// rather than a fold:
//
//	h := history.New(initialDoc)
//	h.Push(editedDoc, "edit")
//	h.Undo()
//	v := h.View() // v.State, v.CanUndo, v.CanRedo, ...
//
// Undo at the oldest entry and redo at the newest are no-ops, never errors.
// There is always at least one entry: the current snapshot.
//
// # Snapshots
//
// Snapshots are caller-owned values. The history never mutates a snapshot
// after insertion; callers that push pointer-bearing snapshots must clone
// before pushing.
package history
