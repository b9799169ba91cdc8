package app

import (
	"context"
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/dshills/mdinput/internal/clipboard"
	"github.com/dshills/mdinput/internal/clock"
	"github.com/dshills/mdinput/internal/config"
	"github.com/dshills/mdinput/internal/config/watcher"
	"github.com/dshills/mdinput/internal/engine"
	"github.com/dshills/mdinput/internal/notify"
	"github.com/dshills/mdinput/internal/plugin/lua"
	"github.com/dshills/mdinput/internal/renderer"
	"github.com/dshills/mdinput/internal/renderer/backend"
)

// Screen is the terminal the application draws on.
type Screen interface {
	renderer.Surface
	Init() error
	Shutdown()
	PollEvent() backend.Event
	Interrupt()
}

// Options configures an App.
type Options struct {
	// Config selects the configuration layers.
	Config config.Options

	// Screen overrides the terminal. A provided screen must already be
	// initialized; the App does not shut it down.
	Screen Screen

	// Clipboard overrides the configured clipboard backend.
	Clipboard engine.Clipboard

	// Clock drives the history debounce timer. Nil uses the wall clock.
	Clock clock.Clock

	// LogOutput overrides logging.file.
	LogOutput io.Writer
}

// App is the interactive editor application.
type App struct {
	mu sync.Mutex

	opts     Options
	session  uuid.UUID
	cfg      *config.Manager
	notifier *notify.Notifier
	logger   *Logger
	logFile  *os.File
	metrics  *Metrics

	editor  *engine.Editor
	surface *caretSurface
	theme   *renderer.Theme
	view    *renderer.View
	layout  *renderer.Layout
	screen  Screen
	watcher *watcher.Watcher
	subs    []*notify.Subscription

	status string
}

// New loads configuration and plugins and builds the editor. The terminal
// is not touched until Run.
func New(ctx context.Context, opts Options) (*App, error) {
	a := &App{
		opts:     opts,
		session:  uuid.New(),
		notifier: notify.New(),
		metrics:  NewMetrics(),
		surface:  &caretSurface{},
		view:     renderer.NewView(),
	}

	cfgMgr, err := config.NewManager(opts.Config, a.notifier)
	if err != nil {
		a.notifier.Close()
		return nil, NewOperationError("load config", opts.Config.Path, err)
	}
	a.cfg = cfgMgr
	cfg := cfgMgr.Current()

	if err := a.openLogger(cfg.Logging); err != nil {
		a.notifier.Close()
		return nil, err
	}
	log := a.logger.WithComponent("app")
	log.Info("starting", "config", opts.Config.Path)

	reg, err := lua.BuildRegistry(ctx, cfg.Plugins.Styles)
	if err != nil {
		a.closeLog()
		a.notifier.Close()
		return nil, NewOperationError("load style plugins", "", err)
	}
	a.theme = renderer.NewTheme(reg)

	clip := opts.Clipboard
	if clip == nil {
		cb, fellBack, err := clipboard.New(cfg.Clipboard.Backend)
		if err != nil {
			a.closeLog()
			a.notifier.Close()
			return nil, NewOperationError("open clipboard", cfg.Clipboard.Backend, err)
		}
		if fellBack {
			log.Warn("system clipboard unsupported, using memory clipboard")
			a.status = "system clipboard unavailable; using internal clipboard"
		}
		clip = cb
	}

	example := cfg.Editor.ExampleContent
	if example == "" {
		example = engine.DefaultExampleContent
	}
	editorOpts := []engine.Option{
		engine.WithContent(example),
		engine.WithExampleContent(example),
		engine.WithDebounce(cfg.History.DebounceWindow()),
		engine.WithMaxUndoEntries(cfg.History.MaxEntries),
		engine.WithLiveMarkdown(cfg.Editor.LiveMarkdown),
		engine.WithClipboard(clip),
		engine.WithLogger(a.logger.WithComponent("editor")),
		engine.WithNotifier(a.notifier),
		engine.WithSurface(a.surface),
	}
	if opts.Clock != nil {
		editorOpts = append(editorOpts, engine.WithClock(opts.Clock))
	}
	a.editor = engine.New(reg, editorOpts...)
	sel := a.editor.Selection()
	a.surface.SetSelection(sel.Anchor, sel.Head)

	a.subs = append(a.subs, a.editor.Subscribe(func(ch engine.Change) {
		a.metrics.RecordOperation(ch.Kind)
	}))
	a.subs = append(a.subs, a.notifier.SubscribeTopic(notify.TopicConfig, func(ev notify.Event) {
		if cfg, ok := ev.Value.(config.Config); ok {
			a.applyConfig(cfg)
		}
	}))
	return a, nil
}

// openLogger creates the application logger from the logging section.
func (a *App) openLogger(cfg config.LoggingConfig) error {
	out := a.opts.LogOutput
	if out == nil && cfg.File != "" {
		f, err := os.OpenFile(cfg.File, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return NewOperationError("open log file", cfg.File, err)
		}
		a.logFile = f
		out = f
	}
	if out == nil {
		// The terminal owns stderr while the editor runs.
		out = io.Discard
	}
	a.logger = NewLogger(LoggerConfig{
		Level:  ParseLogLevel(cfg.Level),
		Output: out,
		Prefix: "mdinput",
	}).WithField("session", a.session)
	return nil
}

func (a *App) closeLog() {
	if a.logFile != nil {
		_ = a.logFile.Close()
		a.logFile = nil
	}
}

// Editor returns the application's editor.
func (a *App) Editor() *engine.Editor {
	return a.editor
}

// Session returns the session ID attached to every log line.
func (a *App) Session() uuid.UUID {
	return a.session
}

// Metrics returns the operation and timing counters.
func (a *App) Metrics() *Metrics {
	return a.metrics
}

// Logger returns the application logger.
func (a *App) Logger() *Logger {
	return a.logger
}

// Config returns the configuration manager.
func (a *App) Config() *config.Manager {
	return a.cfg
}

// applyConfig adopts the settings that can change while running.
func (a *App) applyConfig(cfg config.Config) {
	a.editor.SetDebounce(cfg.History.DebounceWindow())
	a.logger.SetLevel(ParseLogLevel(cfg.Logging.Level))
	a.logger.WithComponent("app").Info("config reloaded", "debounceMs", cfg.History.DebounceMs)
	a.setStatus("config reloaded")
}

// StartWatcher reloads the configuration whenever its file changes.
// It is a no-op without a config file.
func (a *App) StartWatcher(opts ...watcher.Option) error {
	path := a.cfg.Path()
	if path == "" {
		return nil
	}
	log := a.logger.WithComponent("watcher")
	opts = append([]watcher.Option{watcher.WithErrorHandler(func(err error) {
		log.Warn("watch error", "err", err)
	})}, opts...)

	w, err := watcher.New(opts...)
	if err != nil {
		return NewOperationError("watch config", path, err)
	}
	if err := w.Watch(path); err != nil {
		_ = w.Close()
		return NewOperationError("watch config", path, err)
	}
	w.OnChange(func(ev watcher.Event) {
		if ev.Op == watcher.OpRemove || ev.Op == watcher.OpRename {
			return
		}
		if _, err := a.cfg.Reload(); err != nil {
			log.Warn("config reload failed", "path", ev.Path, "err", err)
			a.setStatus(fmt.Sprintf("config error: %v", err))
		}
	})

	a.mu.Lock()
	a.watcher = w
	a.mu.Unlock()
	return nil
}

func (a *App) setStatus(msg string) {
	a.mu.Lock()
	a.status = msg
	screen := a.screen
	a.mu.Unlock()
	if screen != nil {
		screen.Interrupt()
	}
}

// Run opens the terminal and processes events until Esc is pressed or ctx
// is cancelled.
func (a *App) Run(ctx context.Context) error {
	screen := a.opts.Screen
	if screen == nil {
		term, err := backend.NewTerminal()
		if err != nil {
			return NewOperationError("open terminal", "", err)
		}
		if err := term.Init(); err != nil {
			return NewOperationError("init terminal", "", err)
		}
		defer term.Shutdown()
		screen = term
	}

	a.mu.Lock()
	a.screen = screen
	a.mu.Unlock()
	defer func() {
		a.mu.Lock()
		a.screen = nil
		a.mu.Unlock()
	}()

	if err := a.StartWatcher(); err != nil {
		a.logger.Warn("live reload disabled", "err", err)
	}

	done := make(chan struct{})
	defer close(done)
	go func() {
		select {
		case <-ctx.Done():
			screen.Interrupt()
		case <-done:
		}
	}()

	for {
		a.draw()
		ev := screen.PollEvent()
		if ctx.Err() != nil {
			return nil
		}
		if a.HandleEvent(ctx, ev) {
			return nil
		}
	}
}

// draw renders the document and status line.
func (a *App) draw() {
	a.mu.Lock()
	screen := a.screen
	a.mu.Unlock()
	if screen == nil {
		return
	}
	start := time.Now()
	defer func() { a.metrics.RecordRender(time.Since(start)) }()

	width, _ := screen.Size()
	l := renderer.NewLayout(a.editor.Document(), a.theme, width)

	a.mu.Lock()
	a.layout = l
	a.mu.Unlock()

	a.view.Draw(screen, l, a.editor.Selection(), a.statusLine())
}

// statusLine describes the undo state, the style at the caret and the
// latest message.
func (a *App) statusLine() string {
	h := a.editor.History()
	line := fmt.Sprintf(" undo %d  redo %d  %d chars", h.UndoCount(), h.RedoCount(), a.editor.Document().PlainLen())
	if name := a.editor.CaretStyle(); name != "" {
		line += "  [" + name + "]"
	}
	a.mu.Lock()
	msg := a.status
	a.mu.Unlock()
	if msg == "" {
		msg = "^V paste  ^X cut  ^Z undo  ^Y redo  Esc quit"
	}
	return line + "  |  " + msg
}

// Close releases the watcher, editor, notifier and log file.
func (a *App) Close() error {
	a.mu.Lock()
	w := a.watcher
	a.watcher = nil
	a.mu.Unlock()

	var err error
	if w != nil {
		err = w.Close()
	}
	for _, s := range a.subs {
		s.Unsubscribe()
	}
	a.editor.Close()
	a.notifier.Close()
	m := a.metrics.Snapshot()
	a.logger.WithComponent("app").Info("stopped",
		"uptime", m.Uptime.Round(time.Millisecond),
		"events", m.EventCount,
		"failures", m.Failures,
		"ops", m.OperationSummary())
	a.closeLog()
	return err
}

// caretSurface mirrors the editor selection for the terminal view.
type caretSurface struct {
	mu            sync.Mutex
	anchor, focus int
	focused       bool
}

func (s *caretSurface) Selection() (int, int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.anchor, s.focus
}

func (s *caretSurface) SetSelection(anchor, focus int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.anchor, s.focus = anchor, focus
}

func (s *caretSurface) Focus() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.focused = true
}

func (s *caretSurface) Focused() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.focused
}
