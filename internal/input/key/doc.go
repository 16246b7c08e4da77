// Package key models keyboard input for shortcut matching.
//
// A Chord is a parsed shortcut descriptor such as "Control+Z" or
// "Control+Shift+Y": a set of modifiers plus at most one non-modifier key.
// An Event is one keystroke with its held modifiers and the focus target it
// was aimed at. Matching is exact-set: the event's modifiers must equal the
// chord's modifiers precisely (extra or missing modifiers do not match), and
// keys compare case-insensitively.
package key
