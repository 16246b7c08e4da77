package shortcut

import (
	"github.com/tmarsden/daybook/internal/input/key"
)

// Bindings is one surface's undo/redo chord pair. A disabled chord simply
// never matches, which is how an unset descriptor turns a shortcut off.
type Bindings struct {
	Undo key.Chord
	Redo key.Chord
}

// Source supplies the current bindings. Implementations must return the
// latest configuration on every call; the listener never caches.
type Source interface {
	Bindings() Bindings
}

// SourceFunc adapts a function to the Source interface.
type SourceFunc func() Bindings

// Bindings returns f().
func (f SourceFunc) Bindings() Bindings {
	return f()
}

// Static returns a Source that always serves the same bindings.
func Static(b Bindings) Source {
	return SourceFunc(func() Bindings { return b })
}

// Actions is the history surface a listener drives.
type Actions interface {
	Undo()
	Redo()
	CanUndo() bool
	CanRedo() bool
}

// Listener matches keystrokes against the current bindings and invokes
// undo/redo on its actions.
type Listener struct {
	src     Source
	actions Actions
}

// NewListener creates a listener reading bindings from src and driving acts.
func NewListener(src Source, acts Actions) *Listener {
	return &Listener{src: src, actions: acts}
}

// HandleKey processes one keystroke. It returns true when the event was
// consumed and its default handling must be suppressed.
//
// Events aimed at editable targets are never consumed: undo/redo must not
// fire while the user is typing in a field. A keystroke matching the undo or
// redo chord is consumed either way, but the action only runs when the
// history can currently perform it.
func (l *Listener) HandleKey(ev key.Event) bool {
	if ev.Target.Editable() {
		return false
	}

	b := l.src.Bindings()

	if b.Undo.Matches(ev) {
		if l.actions.CanUndo() {
			l.actions.Undo()
		}
		return true
	}

	if b.Redo.Matches(ev) {
		if l.actions.CanRedo() {
			l.actions.Redo()
		}
		return true
	}

	return false
}
