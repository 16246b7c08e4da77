package key

import "strings"

// Target classifies the UI element that had focus when a key event fired.
type Target int

const (
	// TargetView is a non-editable surface (calendar grid, list, board).
	TargetView Target = iota

	// TargetField is a single-line text input.
	TargetField

	// TargetArea is a multi-line text area.
	TargetArea

	// TargetRichText is an editable rich-text region.
	TargetRichText
)

// Editable reports whether the target accepts typed text. Shortcut handling
// must stay out of the way while the user is typing.
func (t Target) Editable() bool {
	switch t {
	case TargetField, TargetArea, TargetRichText:
		return true
	default:
		return false
	}
}

// String returns the target name.
func (t Target) String() string {
	switch t {
	case TargetView:
		return "view"
	case TargetField:
		return "field"
	case TargetArea:
		return "area"
	case TargetRichText:
		return "richtext"
	default:
		return "unknown"
	}
}

// Event is a single keystroke.
type Event struct {
	// Key is the non-modifier key name: a single character ("z", "7") or a
	// named key ("enter", "escape", "f5"). Compared case-insensitively.
	Key string

	// Modifiers is the exact set of modifiers held during the keystroke.
	Modifiers Modifier

	// Target is the focused element the keystroke was aimed at.
	Target Target
}

// NewEvent creates an event aimed at a non-editable view.
func NewEvent(key string, mods Modifier) Event {
	return Event{Key: key, Modifiers: mods, Target: TargetView}
}

// WithTarget returns a copy of the event aimed at the given target.
func (e Event) WithTarget(t Target) Event {
	e.Target = t
	return e
}

// String returns a canonical representation like "Control+z".
func (e Event) String() string {
	mods := e.Modifiers.String()
	k := strings.ToLower(e.Key)
	if mods == "" {
		return k
	}
	if k == "" {
		return mods
	}
	return mods + "+" + k
}
