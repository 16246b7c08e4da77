package app

import (
	"strconv"
	"unicode"

	"github.com/gdamore/tcell/v2"

	"github.com/tmarsden/daybook/internal/input/key"
)

// translateKey converts a tcell key event into the shortcut key model.
func translateKey(ev *tcell.EventKey) key.Event {
	mods := translateMods(ev.Modifiers())

	switch k := ev.Key(); k {
	case tcell.KeyRune:
		r := ev.Rune()
		if r == ' ' {
			return key.NewEvent("space", mods)
		}
		return key.NewEvent(string(unicode.ToLower(r)), mods)
	case tcell.KeyEnter:
		return key.NewEvent("enter", mods)
	case tcell.KeyTab:
		return key.NewEvent("tab", mods)
	case tcell.KeyEscape:
		return key.NewEvent("escape", mods)
	case tcell.KeyBackspace, tcell.KeyBackspace2:
		return key.NewEvent("backspace", mods)
	case tcell.KeyDelete:
		return key.NewEvent("delete", mods)
	case tcell.KeyInsert:
		return key.NewEvent("insert", mods)
	case tcell.KeyHome:
		return key.NewEvent("home", mods)
	case tcell.KeyEnd:
		return key.NewEvent("end", mods)
	case tcell.KeyPgUp:
		return key.NewEvent("pageup", mods)
	case tcell.KeyPgDn:
		return key.NewEvent("pagedown", mods)
	case tcell.KeyUp:
		return key.NewEvent("up", mods)
	case tcell.KeyDown:
		return key.NewEvent("down", mods)
	case tcell.KeyLeft:
		return key.NewEvent("left", mods)
	case tcell.KeyRight:
		return key.NewEvent("right", mods)
	default:
		// Terminals deliver Ctrl+letter as a control character.
		if k >= tcell.KeyCtrlA && k <= tcell.KeyCtrlZ {
			r := rune('a' + int(k) - int(tcell.KeyCtrlA))
			return key.NewEvent(string(r), mods.With(key.ModControl))
		}
		if k >= tcell.KeyF1 && k <= tcell.KeyF12 {
			return key.NewEvent("f"+strconv.Itoa(int(k-tcell.KeyF1)+1), mods)
		}
		return key.NewEvent("", mods)
	}
}

// translateMods converts tcell's modifier mask.
func translateMods(m tcell.ModMask) key.Modifier {
	var mods key.Modifier
	if m&tcell.ModCtrl != 0 {
		mods = mods.With(key.ModControl)
	}
	if m&tcell.ModShift != 0 {
		mods = mods.With(key.ModShift)
	}
	if m&tcell.ModAlt != 0 {
		mods = mods.With(key.ModAlt)
	}
	if m&tcell.ModMeta != 0 {
		mods = mods.With(key.ModMeta)
	}
	return mods
}
