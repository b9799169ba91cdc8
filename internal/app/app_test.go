package app

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/gdamore/tcell/v2"

	"github.com/dshills/mdinput/internal/clipboard"
	"github.com/dshills/mdinput/internal/clock"
	"github.com/dshills/mdinput/internal/config"
	"github.com/dshills/mdinput/internal/config/loader"
	"github.com/dshills/mdinput/internal/config/watcher"
	"github.com/dshills/mdinput/internal/engine"
	"github.com/dshills/mdinput/internal/renderer/backend"
)

type fixture struct {
	app  *App
	clip *clipboard.Memory
	clk  *clock.Manual
	logs *bytes.Buffer
}

func newFixture(t *testing.T, cfg config.Options) *fixture {
	t.Helper()
	f := &fixture{
		clip: clipboard.NewMemory(),
		clk:  clock.NewManual(time.Unix(0, 0)),
		logs: &bytes.Buffer{},
	}
	a, err := New(context.Background(), Options{
		Config:    cfg,
		Clipboard: f.clip,
		Clock:     f.clk,
		LogOutput: f.logs,
	})
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { a.Close() })
	f.app = a
	return f
}

func key(k backend.Key) backend.Event {
	return backend.Event{Type: backend.EventKey, Key: k}
}

func runes(s string) []backend.Event {
	var evs []backend.Event
	for _, r := range s {
		evs = append(evs, backend.Event{Type: backend.EventKey, Key: backend.KeyRune, Rune: r})
	}
	return evs
}

func (f *fixture) send(t *testing.T, evs ...backend.Event) {
	t.Helper()
	for _, ev := range evs {
		if f.app.HandleEvent(context.Background(), ev) {
			t.Fatalf("event %+v requested quit", ev)
		}
	}
}

func TestNewStartsWithExample(t *testing.T) {
	f := newFixture(t, config.Options{})
	ed := f.app.Editor()

	if got := ed.Markdown(); got != engine.DefaultExampleContent {
		t.Errorf("Markdown() = %q", got)
	}
	if got := ed.CaretOffset(); got != ed.Document().PlainLen() {
		t.Errorf("caret = %d, want end %d", got, ed.Document().PlainLen())
	}
	if !strings.Contains(f.logs.String(), "session="+f.app.Session().String()) {
		t.Errorf("log lines lack the session id:\n%s", f.logs)
	}
}

func TestKeyBindings(t *testing.T) {
	f := newFixture(t, config.Options{})
	ed := f.app.Editor()

	f.send(t, key(backend.KeyCtrlL))
	if ed.Text() != "" {
		t.Fatalf("after clear Text() = %q", ed.Text())
	}

	f.send(t, runes("*hi*")...)
	if ed.Markdown() != "*hi*" || ed.Text() != "hi" {
		t.Fatalf("after typing Markdown() = %q, Text() = %q", ed.Markdown(), ed.Text())
	}

	f.send(t, key(backend.KeyCtrlA), key(backend.KeyCtrlX))
	if ed.Text() != "" || f.clip.Text() != "*hi*" {
		t.Fatalf("after cut Text() = %q, clipboard = %q", ed.Text(), f.clip.Text())
	}

	f.send(t, key(backend.KeyCtrlV))
	if ed.Markdown() != "*hi*" {
		t.Fatalf("after paste Markdown() = %q", ed.Markdown())
	}

	f.send(t, key(backend.KeyLeft), backend.Event{Type: backend.EventKey, Key: backend.KeyLeft, Mod: backend.ModShift})
	if sel := ed.Selection(); sel.Anchor != 1 || sel.Head != 0 {
		t.Errorf("selection = %s, want Selection(1←0)", sel)
	}

	f.send(t, key(backend.KeyBackspace))
	if ed.Text() != "i" {
		t.Errorf("after backspace Text() = %q", ed.Text())
	}
}

func TestUndoRedoKeys(t *testing.T) {
	f := newFixture(t, config.Options{})
	ed := f.app.Editor()

	f.send(t, key(backend.KeyCtrlL))
	f.send(t, runes("a")...)
	f.send(t, key(backend.KeyCtrlZ))
	if ed.Text() != "" {
		t.Fatalf("after undo Text() = %q", ed.Text())
	}
	f.send(t, key(backend.KeyCtrlY))
	if ed.Text() != "a" {
		t.Fatalf("after redo Text() = %q", ed.Text())
	}
	f.send(t, key(backend.KeyCtrlZ), backend.Event{Type: backend.EventKey, Key: backend.KeyCtrlZ, Mod: backend.ModCtrl | backend.ModShift})
	if ed.Text() != "a" {
		t.Errorf("after ctrl+shift+z Text() = %q", ed.Text())
	}

	f.send(t, key(backend.KeyCtrlY))
	if !strings.Contains(f.app.statusLine(), "nothing to redo") {
		t.Errorf("status = %q", f.app.statusLine())
	}
}

func TestResetAndToggleKeys(t *testing.T) {
	f := newFixture(t, config.Options{})
	ed := f.app.Editor()

	f.send(t, key(backend.KeyCtrlL))
	f.send(t, runes("word")...)
	f.send(t, key(backend.KeyCtrlA), key(backend.KeyCtrlB))
	if ed.Markdown() != "*word*" {
		t.Errorf("after ctrl+b Markdown() = %q", ed.Markdown())
	}

	f.send(t, key(backend.KeyCtrlR))
	if ed.Markdown() != engine.DefaultExampleContent {
		t.Errorf("after reset Markdown() = %q", ed.Markdown())
	}
	if !f.app.surface.Focused() {
		t.Error("reset did not focus the surface")
	}
}

func TestStatusShowsCaretStyle(t *testing.T) {
	f := newFixture(t, config.Options{})
	ed := f.app.Editor()

	f.send(t, key(backend.KeyCtrlL), backend.Event{Type: backend.EventPaste, Text: "a *b*"})
	if !strings.Contains(f.app.statusLine(), "[bold]") {
		t.Errorf("status = %q, want bold caret style", f.app.statusLine())
	}
	if err := ed.SetSelection(1, 1); err != nil {
		t.Fatal(err)
	}
	if strings.Contains(f.app.statusLine(), "[") {
		t.Errorf("status = %q, want no caret style", f.app.statusLine())
	}
}

func TestConflictingToggleShownInStatus(t *testing.T) {
	f := newFixture(t, config.Options{})
	ed := f.app.Editor()

	f.send(t, key(backend.KeyCtrlL), backend.Event{Type: backend.EventPaste, Text: "a*b"})
	f.send(t, key(backend.KeyCtrlA), key(backend.KeyCtrlB))
	if ed.Markdown() != "a*b" {
		t.Errorf("Markdown() = %q, want a*b", ed.Markdown())
	}
	if !strings.Contains(f.app.statusLine(), "conflicts with style delimiters") {
		t.Errorf("status = %q", f.app.statusLine())
	}
}

func TestPasteEventAndEscape(t *testing.T) {
	f := newFixture(t, config.Options{})
	ed := f.app.Editor()

	f.send(t, key(backend.KeyCtrlL), backend.Event{Type: backend.EventPaste, Text: "_x_ y"})
	if ed.Markdown() != "_x_ y" {
		t.Errorf("Markdown() = %q", ed.Markdown())
	}
	if !f.app.HandleEvent(context.Background(), key(backend.KeyEscape)) {
		t.Error("Escape did not quit")
	}
}

func TestClipboardFailureShownInStatus(t *testing.T) {
	f := newFixture(t, config.Options{})
	f.clip.FailReads(clipboard.ErrUnavailable)
	before := f.app.Editor().Markdown()

	f.send(t, key(backend.KeyCtrlV))
	if got := f.app.Editor().Markdown(); got != before {
		t.Errorf("failed paste changed the document to %q", got)
	}
	if !strings.Contains(f.app.statusLine(), "clipboard unavailable") {
		t.Errorf("status = %q", f.app.statusLine())
	}
	if !strings.Contains(f.logs.String(), "[WARN]") {
		t.Errorf("no warning logged:\n%s", f.logs)
	}

	f.send(t, runes("x")...)
	if strings.Contains(f.app.statusLine(), "clipboard") {
		t.Errorf("status not cleared after a successful edit: %q", f.app.statusLine())
	}
}

func TestVerticalMovement(t *testing.T) {
	f := newFixture(t, config.Options{})
	ed := f.app.Editor()
	f.send(t, key(backend.KeyCtrlL), backend.Event{Type: backend.EventPaste, Text: "abc\nde"})

	term, _, err := backend.NewSimulation(20, 4)
	if err != nil {
		t.Fatal(err)
	}
	defer term.Shutdown()
	f.app.screen = term
	f.app.draw()

	f.send(t, key(backend.KeyUp))
	if got := ed.CaretOffset(); got != 2 {
		t.Errorf("after up caret = %d, want 2", got)
	}
	f.send(t, key(backend.KeyEnd), key(backend.KeyDown))
	if got := ed.CaretOffset(); got != 6 {
		t.Errorf("after end+down caret = %d, want 6", got)
	}
}

func TestRunOnSimulation(t *testing.T) {
	term, sim, err := backend.NewSimulation(100, 4)
	if err != nil {
		t.Fatal(err)
	}
	defer term.Shutdown()

	a, err := New(context.Background(), Options{
		Screen:    term,
		Clipboard: clipboard.NewMemory(),
		Clock:     clock.NewManual(time.Unix(0, 0)),
	})
	if err != nil {
		t.Fatal(err)
	}
	defer a.Close()

	sim.InjectKey(tcell.KeyRune, 'h', tcell.ModNone)
	sim.InjectKey(tcell.KeyRune, 'i', tcell.ModNone)
	sim.InjectKey(tcell.KeyEscape, 0, tcell.ModNone)

	if err := a.Run(context.Background()); err != nil {
		t.Fatal(err)
	}
	if got := a.Editor().Text(); !strings.HasSuffix(got, "here.hi") {
		t.Errorf("Text() = %q", got)
	}

	cells, w, _ := sim.GetContents()
	var row strings.Builder
	for x := 0; x < w; x++ {
		row.WriteString(string(cells[x].Runes))
	}
	if !strings.HasPrefix(row.String(), "Hello world!") {
		t.Errorf("screen row 0 = %q", row.String())
	}
}

func TestRunStopsOnCancel(t *testing.T) {
	term, _, err := backend.NewSimulation(40, 4)
	if err != nil {
		t.Fatal(err)
	}
	defer term.Shutdown()

	a, err := New(context.Background(), Options{Screen: term, Clipboard: clipboard.NewMemory()})
	if err != nil {
		t.Fatal(err)
	}
	defer a.Close()

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- a.Run(ctx) }()
	cancel()

	select {
	case err := <-done:
		if err != nil {
			t.Errorf("Run() = %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("Run did not return after cancel")
	}
}

func TestConfigReloadUpdatesDebounce(t *testing.T) {
	fsys := loader.MapFS{"mdinput.toml": "[history]\ndebounceMs = 100\n"}
	f := newFixture(t, config.Options{Path: "mdinput.toml", FS: fsys})
	h := f.app.Editor().History()
	if h.Debounce() != 100*time.Millisecond {
		t.Fatalf("initial debounce = %v", h.Debounce())
	}

	fsys["mdinput.toml"] = "[history]\ndebounceMs = 25\n[logging]\nlevel = \"debug\"\n"
	if _, err := f.app.Config().Reload(); err != nil {
		t.Fatal(err)
	}
	if h.Debounce() != 25*time.Millisecond {
		t.Errorf("debounce after reload = %v", h.Debounce())
	}
	if f.app.Logger().Level() != LogLevelDebug {
		t.Errorf("log level after reload = %v", f.app.Logger().Level())
	}
}

func TestWatcherReloadsConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "mdinput.toml")
	if err := os.WriteFile(path, []byte("[history]\ndebounceMs = 100\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	f := newFixture(t, config.Options{Path: path})
	if err := f.app.StartWatcher(watcher.WithDebounce(10 * time.Millisecond)); err != nil {
		t.Fatal(err)
	}

	if err := os.WriteFile(path, []byte("[history]\ndebounceMs = 40\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	h := f.app.Editor().History()
	deadline := time.Now().Add(5 * time.Second)
	for h.Debounce() != 40*time.Millisecond {
		if time.Now().After(deadline) {
			t.Fatalf("debounce still %v after config write", h.Debounce())
		}
		time.Sleep(10 * time.Millisecond)
	}
}

func TestStylePluginsLoaded(t *testing.T) {
	dir := t.TempDir()
	script := filepath.Join(dir, "highlight.lua")
	err := os.WriteFile(script, []byte(`mdinput.style { name = "highlight", open = "==", close = "==" }`), 0o644)
	if err != nil {
		t.Fatal(err)
	}

	f := newFixture(t, config.Options{Overrides: map[string]any{"plugins.styles": []any{script}}})
	ed := f.app.Editor()
	if !ed.Registry().Has("highlight") {
		t.Fatalf("registry names = %v", ed.Registry().Names())
	}
	f.send(t, key(backend.KeyCtrlL), backend.Event{Type: backend.EventPaste, Text: "==mark=="})
	if ed.Text() != "mark" {
		t.Errorf("Text() = %q", ed.Text())
	}
}

func TestNewErrors(t *testing.T) {
	tests := []struct {
		name    string
		opts    config.Options
		wantErr error
	}{
		{
			"invalid config",
			config.Options{Overrides: map[string]any{"clipboard.backend": "x11"}},
			config.ErrValidationFailed,
		},
		{
			"bad plugin",
			config.Options{Overrides: map[string]any{"plugins.styles": []any{"/nonexistent/style.lua"}}},
			nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := New(context.Background(), Options{Config: tt.opts, Clipboard: clipboard.NewMemory()})
			var oe *OperationError
			if !errors.As(err, &oe) {
				t.Fatalf("New() error = %v, want *OperationError", err)
			}
			if tt.wantErr != nil && !errors.Is(err, tt.wantErr) {
				t.Errorf("New() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}
