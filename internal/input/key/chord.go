package key

import "strings"

// Chord is a parsed shortcut descriptor: a modifier set plus at most one
// non-modifier key. The zero Chord is disabled and matches nothing.
type Chord struct {
	// Modifiers is the exact modifier set the event must hold.
	Modifiers Modifier

	// Key is the non-modifier key name, lowercased. Empty means the chord
	// is modifiers-only or disabled.
	Key string

	// ok marks the chord as enabled. Parse failures and empty descriptors
	// leave it false so the chord never matches.
	ok bool
}

// ParseChord parses a "+"-joined descriptor like "Control+Z" or
// "Control+Shift+Y". An empty descriptor yields a disabled chord, as does a
// descriptor with more than one non-modifier key. Parsing never errors:
// a malformed descriptor simply never matches, mirroring how the rest of the
// configuration is normalized rather than rejected.
func ParseChord(descriptor string) Chord {
	descriptor = strings.TrimSpace(descriptor)
	if descriptor == "" {
		return Chord{}
	}

	var c Chord
	for _, token := range strings.Split(descriptor, "+") {
		token = strings.TrimSpace(token)
		if token == "" {
			continue
		}
		if mod := ModifierFromName(token); mod != ModNone {
			c.Modifiers = c.Modifiers.With(mod)
			continue
		}
		if c.Key != "" {
			// Two non-modifier keys: not a valid chord.
			return Chord{}
		}
		c.Key = strings.ToLower(token)
	}

	if c.Key == "" && c.Modifiers.IsEmpty() {
		return Chord{}
	}
	c.ok = true
	return c
}

// Enabled reports whether the chord can ever match.
func (c Chord) Enabled() bool {
	return c.ok
}

// Matches reports whether an event triggers this chord: the event's held
// modifier set must equal the chord's set exactly, and the keys must be equal
// ignoring case. A disabled chord matches nothing.
func (c Chord) Matches(ev Event) bool {
	if !c.ok {
		return false
	}
	if ev.Modifiers != c.Modifiers {
		return false
	}
	return strings.EqualFold(ev.Key, c.Key)
}

// String returns the canonical descriptor form, e.g. "Control+Shift+z".
func (c Chord) String() string {
	if !c.ok {
		return ""
	}
	mods := c.Modifiers.String()
	switch {
	case mods == "":
		return c.Key
	case c.Key == "":
		return mods
	default:
		return mods + "+" + c.Key
	}
}
