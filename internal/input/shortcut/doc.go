// Package shortcut routes global keystrokes to undo/redo actions.
//
// A Listener pairs a Bindings Source with the history actions of one editing
// surface. The source is consulted on every keystroke, so reconfigured
// shortcuts take effect on the very next key press without re-attaching
// anything. Keystrokes aimed at editable targets are always ignored; a
// matching keystroke is consumed even when the action is not currently
// available, so it never leaks back as typed input.
//
// A Dispatcher fans terminal key events out to the attached listeners and
// gives each attachment a deterministic Detach for teardown when the owning
// surface closes.
package shortcut
