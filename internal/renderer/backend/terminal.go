package backend

import (
	"strings"
	"sync"

	"github.com/gdamore/tcell/v2"

	"github.com/dshills/mdinput/internal/renderer"
)

// Terminal implements renderer.Surface on a tcell screen and converts
// tcell events.
type Terminal struct {
	screen tcell.Screen
	mu     sync.Mutex
}

// NewTerminal creates a terminal backend for the controlling terminal.
func NewTerminal() (*Terminal, error) {
	screen, err := tcell.NewScreen()
	if err != nil {
		return nil, err
	}
	return &Terminal{screen: screen}, nil
}

// NewSimulation creates a backend on an in-memory screen of the given size.
// It is initialized and ready to draw.
func NewSimulation(width, height int) (*Terminal, tcell.SimulationScreen, error) {
	sim := tcell.NewSimulationScreen("UTF-8")
	t := &Terminal{screen: sim}
	if err := t.Init(); err != nil {
		return nil, nil, err
	}
	sim.SetSize(width, height)
	return t, sim, nil
}

// Init prepares the screen and enables bracketed paste.
func (t *Terminal) Init() error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if err := t.screen.Init(); err != nil {
		return err
	}
	t.screen.EnablePaste()
	return nil
}

// Shutdown restores the terminal.
func (t *Terminal) Shutdown() {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.screen.Fini()
}

func (t *Terminal) Size() (int, int) {
	t.mu.Lock()
	defer t.mu.Unlock()

	return t.screen.Size()
}

func (t *Terminal) SetCell(x, y int, cell renderer.Cell) {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.screen.SetContent(x, y, cell.Rune, cell.Combining, convertStyle(cell.Style))
}

func (t *Terminal) Clear() {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.screen.Clear()
}

func (t *Terminal) Show() {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.screen.Show()
}

func (t *Terminal) ShowCursor(x, y int) {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.screen.ShowCursor(x, y)
}

func (t *Terminal) HideCursor() {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.screen.HideCursor()
}

// Interrupt wakes a blocked PollEvent with an EventInterrupt.
func (t *Terminal) Interrupt() {
	_ = t.screen.PostEvent(tcell.NewEventInterrupt(nil)) // best-effort; queue may be full
}

// PollEvent waits for the next event. A bracketed paste is collected into
// a single EventPaste.
func (t *Terminal) PollEvent() Event {
	for {
		ev := t.screen.PollEvent()
		if ev == nil {
			return Event{Type: EventNone}
		}
		if p, ok := ev.(*tcell.EventPaste); ok && p.Start() {
			return t.collectPaste()
		}
		if out := convertEvent(ev); out.Type != EventNone {
			return out
		}
	}
}

// collectPaste reads key events up to the end of a bracketed paste.
func (t *Terminal) collectPaste() Event {
	var sb strings.Builder
	for {
		ev := t.screen.PollEvent()
		switch e := ev.(type) {
		case nil:
			return Event{Type: EventPaste, Text: sb.String()}
		case *tcell.EventPaste:
			if e.End() {
				return Event{Type: EventPaste, Text: sb.String()}
			}
		case *tcell.EventKey:
			switch e.Key() {
			case tcell.KeyRune:
				sb.WriteRune(e.Rune())
			case tcell.KeyEnter, tcell.KeyCtrlJ:
				sb.WriteByte('\n')
			case tcell.KeyTab:
				sb.WriteByte('\t')
			}
		}
	}
}

// convertStyle converts a renderer style to tcell.Style.
func convertStyle(s renderer.Style) tcell.Style {
	style := tcell.StyleDefault

	if !s.Foreground.IsDefault() {
		style = style.Foreground(tcell.NewRGBColor(int32(s.Foreground.R), int32(s.Foreground.G), int32(s.Foreground.B)))
	}
	if !s.Background.IsDefault() {
		style = style.Background(tcell.NewRGBColor(int32(s.Background.R), int32(s.Background.G), int32(s.Background.B)))
	}

	if s.Attributes.Has(renderer.AttrBold) {
		style = style.Bold(true)
	}
	if s.Attributes.Has(renderer.AttrDim) {
		style = style.Dim(true)
	}
	if s.Attributes.Has(renderer.AttrItalic) {
		style = style.Italic(true)
	}
	if s.Attributes.Has(renderer.AttrUnderline) {
		style = style.Underline(true)
	}
	if s.Attributes.Has(renderer.AttrReverse) {
		style = style.Reverse(true)
	}
	if s.Attributes.Has(renderer.AttrStrikethrough) {
		style = style.StrikeThrough(true)
	}
	return style
}

// convertEvent converts tcell events to our Event type.
func convertEvent(ev tcell.Event) Event {
	switch e := ev.(type) {
	case *tcell.EventKey:
		key := convertKey(e.Key())
		if key == KeyNone {
			return Event{}
		}
		return Event{
			Type: EventKey,
			Key:  key,
			Rune: e.Rune(),
			Mod:  convertMod(e.Modifiers()),
		}

	case *tcell.EventResize:
		w, h := e.Size()
		return Event{Type: EventResize, Width: w, Height: h}

	case *tcell.EventInterrupt:
		return Event{Type: EventInterrupt}

	default:
		return Event{}
	}
}

// convertKey converts tcell key to our Key type.
func convertKey(k tcell.Key) Key {
	switch k {
	case tcell.KeyRune:
		return KeyRune
	case tcell.KeyEscape:
		return KeyEscape
	case tcell.KeyEnter:
		return KeyEnter
	case tcell.KeyTab:
		return KeyTab
	case tcell.KeyBackspace, tcell.KeyBackspace2:
		return KeyBackspace
	case tcell.KeyDelete:
		return KeyDelete
	case tcell.KeyHome:
		return KeyHome
	case tcell.KeyEnd:
		return KeyEnd
	case tcell.KeyUp:
		return KeyUp
	case tcell.KeyDown:
		return KeyDown
	case tcell.KeyLeft:
		return KeyLeft
	case tcell.KeyRight:
		return KeyRight
	case tcell.KeyCtrlA:
		return KeyCtrlA
	case tcell.KeyCtrlB:
		return KeyCtrlB
	case tcell.KeyCtrlC:
		return KeyCtrlC
	case tcell.KeyCtrlL:
		return KeyCtrlL
	case tcell.KeyCtrlR:
		return KeyCtrlR
	case tcell.KeyCtrlT:
		return KeyCtrlT
	case tcell.KeyCtrlV:
		return KeyCtrlV
	case tcell.KeyCtrlX:
		return KeyCtrlX
	case tcell.KeyCtrlY:
		return KeyCtrlY
	case tcell.KeyCtrlZ:
		return KeyCtrlZ
	default:
		return KeyNone
	}
}

// convertMod converts tcell modifier mask to our ModMask.
func convertMod(m tcell.ModMask) ModMask {
	var result ModMask
	if m&tcell.ModShift != 0 {
		result |= ModShift
	}
	if m&tcell.ModCtrl != 0 {
		result |= ModCtrl
	}
	if m&tcell.ModAlt != 0 {
		result |= ModAlt
	}
	if m&tcell.ModMeta != 0 {
		result |= ModMeta
	}
	return result
}
