package app

import (
	"context"
	"errors"
	"time"

	"github.com/dshills/mdinput/internal/engine"
	"github.com/dshills/mdinput/internal/engine/style"
	"github.com/dshills/mdinput/internal/renderer/backend"
)

// HandleEvent applies one terminal event to the editor. It returns true
// when the application should quit.
func (a *App) HandleEvent(ctx context.Context, ev backend.Event) bool {
	start := time.Now()
	defer func() { a.metrics.RecordEvent(time.Since(start)) }()

	var err error
	switch ev.Type {
	case backend.EventPaste:
		err = a.editor.PasteText(ev.Text)
	case backend.EventKey:
		err = a.handleKey(ctx, ev)
		if errors.Is(err, ErrQuit) {
			return true
		}
	default:
		return false
	}

	if err != nil {
		a.metrics.RecordFailure()
		a.report(err)
	} else {
		a.mu.Lock()
		a.status = ""
		a.mu.Unlock()
	}
	return false
}

func (a *App) handleKey(ctx context.Context, ev backend.Event) error {
	ed := a.editor
	extend := ev.Mod.Has(backend.ModShift)

	switch ev.Key {
	case backend.KeyEscape:
		return ErrQuit

	case backend.KeyCtrlV:
		return ed.Paste(ctx)
	case backend.KeyCtrlX:
		return ed.Cut(ctx)
	case backend.KeyCtrlC:
		return ed.Copy(ctx)
	case backend.KeyCtrlA:
		return ed.SelectAll()
	case backend.KeyCtrlZ:
		if extend {
			return a.redo()
		}
		if !ed.Undo() {
			return errNothingToUndo
		}
		return nil
	case backend.KeyCtrlY:
		return a.redo()
	case backend.KeyCtrlR:
		return ed.Reset()
	case backend.KeyCtrlL:
		return ed.Clear()
	case backend.KeyCtrlB:
		return ed.ToggleStyle(style.Bold)
	case backend.KeyCtrlT:
		return ed.ToggleStyle(style.Italic)

	case backend.KeyLeft:
		return ed.MoveCaret(-1, extend)
	case backend.KeyRight:
		return ed.MoveCaret(1, extend)
	case backend.KeyUp:
		return a.moveVertical(-1, extend)
	case backend.KeyDown:
		return a.moveVertical(1, extend)
	case backend.KeyHome:
		return ed.MoveLineStart(extend)
	case backend.KeyEnd:
		return ed.MoveLineEnd(extend)

	case backend.KeyBackspace:
		return ed.DeleteBackward()
	case backend.KeyDelete:
		return ed.DeleteForward()
	case backend.KeyEnter:
		return ed.Type("\n")
	case backend.KeyTab:
		return ed.Type("\t")
	case backend.KeyRune:
		return ed.Type(string(ev.Rune))
	}
	return nil
}

var (
	errNothingToUndo = errors.New("nothing to undo")
	errNothingToRedo = errors.New("nothing to redo")
)

func (a *App) redo() error {
	if !a.editor.Redo() {
		return errNothingToRedo
	}
	return nil
}

// moveVertical moves the caret one screen row using the last layout.
func (a *App) moveVertical(rows int, extend bool) error {
	a.mu.Lock()
	l := a.layout
	a.mu.Unlock()

	sel := a.editor.Selection()
	if l == nil {
		if rows < 0 {
			return a.editor.MoveLineStart(extend)
		}
		return a.editor.MoveLineEnd(extend)
	}
	col, row := l.Caret(sel.Head)
	target := l.OffsetAt(col, row+rows)
	if row+rows < 0 {
		target = 0
	}
	if target > a.editor.Document().PlainLen() {
		target = a.editor.Document().PlainLen()
	}
	anchor := target
	if extend {
		anchor = sel.Anchor
	}
	return a.editor.SetSelection(anchor, target)
}

// report logs err and shows it on the status line. Stale pastes, empty
// history and rejected restyles are expected and logged at debug level.
func (a *App) report(err error) {
	log := a.logger.WithComponent("app")
	switch {
	case errors.Is(err, engine.ErrStalePaste),
		errors.Is(err, engine.ErrConflictingDelimiter),
		errors.Is(err, errNothingToUndo),
		errors.Is(err, errNothingToRedo):
		log.Debug("ignored", "err", err)
	case errors.Is(err, engine.ErrClipboardUnavailable),
		errors.Is(err, engine.ErrPermissionDenied):
		log.Warn("clipboard", "err", err)
	default:
		log.Error("edit failed", "err", err)
	}
	a.mu.Lock()
	a.status = err.Error()
	a.mu.Unlock()
}
