package config

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"time"

	"github.com/pelletier/go-toml/v2"

	"github.com/dshills/mdinput/internal/config/loader"
)

// Config is a snapshot of all settings. Values are copied on access;
// mutating a Config never affects a Manager.
type Config struct {
	History   HistoryConfig   `toml:"history" yaml:"history"`
	Editor    EditorConfig    `toml:"editor" yaml:"editor"`
	Clipboard ClipboardConfig `toml:"clipboard" yaml:"clipboard"`
	Logging   LoggingConfig   `toml:"logging" yaml:"logging"`
	Plugins   PluginsConfig   `toml:"plugins" yaml:"plugins"`
}

// HistoryConfig controls undo history.
type HistoryConfig struct {
	// DebounceMs is the window in milliseconds within which edits coalesce.
	DebounceMs int `toml:"debounceMs" yaml:"debounceMs"`

	// MaxEntries bounds the undo stack.
	MaxEntries int `toml:"maxEntries" yaml:"maxEntries"`
}

// DebounceWindow returns DebounceMs as a duration.
func (h HistoryConfig) DebounceWindow() time.Duration {
	return time.Duration(h.DebounceMs) * time.Millisecond
}

// EditorConfig controls editing behavior.
type EditorConfig struct {
	// LiveMarkdown re-parses typed text so delimiters take effect as typed.
	LiveMarkdown bool `toml:"liveMarkdown" yaml:"liveMarkdown"`

	// ExampleContent is the markdown loaded by reset. Empty uses the
	// built-in example.
	ExampleContent string `toml:"exampleContent" yaml:"exampleContent"`
}

// ClipboardConfig selects the clipboard backend.
type ClipboardConfig struct {
	// Backend is "system" or "memory".
	Backend string `toml:"backend" yaml:"backend"`
}

// LoggingConfig controls the application logger.
type LoggingConfig struct {
	// Level is one of debug, info, warn, error.
	Level string `toml:"level" yaml:"level"`

	// File receives log output. Empty means stderr.
	File string `toml:"file" yaml:"file"`
}

// PluginsConfig lists style plugins.
type PluginsConfig struct {
	// Styles are Lua scripts that register additional styles.
	Styles []string `toml:"styles" yaml:"styles"`
}

// Default returns the built-in defaults.
func Default() Config {
	return Config{
		History: HistoryConfig{
			DebounceMs: 300,
			MaxEntries: 1000,
		},
		Editor: EditorConfig{
			LiveMarkdown: true,
		},
		Clipboard: ClipboardConfig{
			Backend: "system",
		},
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}

var (
	logLevels         = []string{"debug", "info", "warn", "error"}
	clipboardBackends = []string{"system", "memory"}
)

// Validate checks every setting and joins all problems found.
func (c Config) Validate() error {
	var errs []error
	if c.History.DebounceMs < 0 {
		errs = append(errs, &ValidationError{"history.debounceMs", c.History.DebounceMs, "must not be negative"})
	}
	if c.History.MaxEntries < 1 {
		errs = append(errs, &ValidationError{"history.maxEntries", c.History.MaxEntries, "must be at least 1"})
	}
	if !slices.Contains(clipboardBackends, c.Clipboard.Backend) {
		errs = append(errs, &ValidationError{"clipboard.backend", c.Clipboard.Backend, "must be system or memory"})
	}
	if !slices.Contains(logLevels, c.Logging.Level) {
		errs = append(errs, &ValidationError{"logging.level", c.Logging.Level, "must be debug, info, warn or error"})
	}
	return errors.Join(errs...)
}

// Clone returns a deep copy.
func (c Config) Clone() Config {
	c.Plugins.Styles = slices.Clone(c.Plugins.Styles)
	return c
}

// Options selects the layers Load reads.
type Options struct {
	// Path is the config file. Empty skips the file layer; a missing file
	// is treated as empty.
	Path string

	// EnvPrefix enables the environment layer when non-empty.
	EnvPrefix string

	// Overrides are dotted paths set from command-line flags.
	Overrides map[string]any

	// FS reads the config file. Nil uses the OS.
	FS loader.FileSystem
}

// DefaultPath returns $XDG_CONFIG_HOME/mdinput/mdinput.toml or the
// platform equivalent. It returns "" when no config directory is known.
func DefaultPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return ""
	}
	return filepath.Join(dir, "mdinput", "mdinput.toml")
}

// Load merges defaults, file, environment and overrides, then validates.
func Load(opts Options) (Config, error) {
	merged := map[string]any{}

	if opts.Path != "" {
		l, err := loader.ForPath(opts.FS, opts.Path)
		if err != nil {
			return Config{}, err
		}
		fileCfg, err := l.Load()
		if err != nil {
			return Config{}, err
		}
		merged = loader.DeepMerge(merged, fileCfg)
	}

	if opts.EnvPrefix != "" {
		envCfg, err := loader.NewEnvLoader(opts.EnvPrefix).Load()
		if err != nil {
			return Config{}, err
		}
		merged = loader.DeepMerge(merged, envCfg)
	}

	if len(opts.Overrides) > 0 {
		flagCfg := map[string]any{}
		for path, v := range opts.Overrides {
			loader.SetPath(flagCfg, path, v)
		}
		merged = loader.DeepMerge(merged, flagCfg)
	}

	cfg, err := decode(merged)
	if err != nil {
		return Config{}, err
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// decode overlays a merged settings map onto the defaults. The map is
// round-tripped through TOML so that YAML, env and flag values all decode
// with the same rules.
func decode(m map[string]any) (Config, error) {
	cfg := Default()
	if len(m) == 0 {
		return cfg, nil
	}
	data, err := toml.Marshal(m)
	if err != nil {
		return Config{}, fmt.Errorf("%w: %v", ErrDecode, err)
	}
	dec := toml.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&cfg); err != nil {
		var sm *toml.StrictMissingError
		if errors.As(err, &sm) {
			return Config{}, fmt.Errorf("%w: unknown settings:\n%s", ErrDecode, sm.String())
		}
		return Config{}, fmt.Errorf("%w: %v", ErrDecode, err)
	}
	return cfg, nil
}
