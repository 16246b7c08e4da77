package app

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/gdamore/tcell/v2"

	"github.com/tmarsden/daybook/internal/input/key"
	"github.com/tmarsden/daybook/internal/store"
)

// Run drives the main event loop on the given screen until the user quits
// or Shutdown is called. The screen must be initialized; Run finalizes it.
func (app *Application) Run(screen tcell.Screen) error {
	app.mu.Lock()
	app.finish = func() { screen.Fini() }
	app.mu.Unlock()

	defer screen.Fini()

	app.drawStatus(screen)

	for {
		ev := screen.PollEvent()
		if ev == nil {
			// Screen was finalized by Shutdown.
			return nil
		}

		switch tev := ev.(type) {
		case *tcell.EventResize:
			screen.Sync()
			app.drawStatus(screen)

		case *tcell.EventKey:
			kev := translateKey(tev).WithTarget(app.focusTarget())

			// Attached shortcut listeners get first refusal; a consumed
			// keystroke never reaches the view bindings below.
			if !app.dispatcher.Dispatch(kev) {
				if err := app.handleViewKey(kev); err != nil {
					if errors.Is(err, ErrQuit) {
						return ErrQuit
					}
					app.log.Error("key %s: %v", kev, err)
				}
			}
			app.drawStatus(screen)
		}
	}
}

// focusTarget reports what has keyboard focus. The minimal surface has no
// inline text inputs, so events always target the view; an editor overlay
// would return TargetField while capturing typed text.
func (app *Application) focusTarget() key.Target {
	return key.TargetView
}

// handleViewKey handles the non-shortcut view bindings.
func (app *Application) handleViewKey(ev key.Event) error {
	switch {
	case ev.Key == "q" && ev.Modifiers.IsEmpty():
		return ErrQuit
	case ev.Key == "c" && ev.Modifiers == key.ModControl:
		return ErrQuit

	case ev.Key == "left" && ev.Modifiers.IsEmpty():
		return app.shiftDay(-1)
	case ev.Key == "right" && ev.Modifiers.IsEmpty():
		return app.shiftDay(1)

	case ev.Key == "s" && ev.Modifiers.IsEmpty():
		ctx, cancel := context.WithTimeout(context.Background(), loadTimeout)
		defer cancel()
		if err := app.day.Save(ctx); err != nil {
			return err
		}
		app.log.Info("saved %s", app.day.Date())
		return nil
	}
	return nil
}

// shiftDay loads the previous or next day into the view.
func (app *Application) shiftDay(delta int) error {
	cur, err := time.Parse(store.DateFormat, app.day.Date())
	if err != nil {
		return fmt.Errorf("bad view date %q: %w", app.day.Date(), err)
	}
	date := cur.AddDate(0, 0, delta).Format(store.DateFormat)

	ctx, cancel := context.WithTimeout(context.Background(), loadTimeout)
	defer cancel()
	return app.day.Load(ctx, date)
}

// drawStatus renders the single status line. Full rendering of the calendar
// surfaces lives in the desktop UI, not here.
func (app *Application) drawStatus(screen tcell.Screen) {
	v := app.day.View()

	done := 0
	for _, t := range v.State.Tasks {
		if t.Done {
			done++
		}
	}

	line := fmt.Sprintf("%s | %d schedules | %d/%d tasks done | undo:%s redo:%s | last:%s | q quit  <-/-> day  s save",
		v.State.Date,
		len(v.State.Schedules),
		done, len(v.State.Tasks),
		mark(v.CanUndo), mark(v.CanRedo),
		v.LastAction,
	)

	screen.Clear()
	width, _ := screen.Size()
	style := tcell.StyleDefault
	for i, r := range line {
		if i >= width {
			break
		}
		screen.SetContent(i, 0, r, nil, style)
	}
	screen.Show()
}

func mark(ok bool) string {
	if ok {
		return "yes"
	}
	return "no"
}
