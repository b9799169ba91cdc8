package lua

import (
	"context"
	"fmt"

	lua "github.com/yuin/gopher-lua"

	"github.com/dshills/mdinput/internal/engine/style"
)

// APIVersion is exposed to scripts as mdinput.version.
const APIVersion = "1"

// StyleLoader runs style plugins and collects their definitions.
type StyleLoader struct {
	opts []StateOption
	defs []style.Definition
}

// NewStyleLoader creates a loader. Each script runs in its own State built
// with opts.
func NewStyleLoader(opts ...StateOption) *StyleLoader {
	return &StyleLoader{opts: opts}
}

// LoadFile runs the script at path.
func (l *StyleLoader) LoadFile(ctx context.Context, path string) error {
	return l.run(path, func(s *State) error { return s.DoFile(ctx, path) })
}

// LoadString runs an in-memory script; name is used in errors.
func (l *StyleLoader) LoadString(ctx context.Context, name, code string) error {
	return l.run(name, func(s *State) error { return s.DoString(ctx, code) })
}

// Definitions returns the styles collected so far in registration order.
func (l *StyleLoader) Definitions() []style.Definition {
	return append([]style.Definition(nil), l.defs...)
}

// Registry builds a registry of the built-in styles followed by every
// collected definition.
func (l *StyleLoader) Registry() (*style.Registry, error) {
	return style.NewRegistry(l.defs...)
}

// run executes one script. Definitions from a failing script are discarded.
func (l *StyleLoader) run(name string, exec func(*State) error) error {
	s := NewState(l.opts...)
	defer s.Close()

	var defs []style.Definition
	mod := s.L.NewTable()
	s.L.SetField(mod, "version", lua.LString(APIVersion))
	s.L.SetField(mod, "style", s.L.NewFunction(func(L *lua.LState) int {
		def, err := definitionFromTable(L.CheckTable(1))
		if err != nil {
			L.RaiseError("%v", err)
			return 0
		}
		defs = append(defs, def)
		return 0
	}))
	s.SetGlobal("mdinput", mod)

	if err := exec(s); err != nil {
		return &ScriptError{Path: name, Err: err}
	}
	l.defs = append(l.defs, defs...)
	return nil
}

func definitionFromTable(tbl *lua.LTable) (style.Definition, error) {
	var def style.Definition
	fields := []struct {
		key string
		dst *string
	}{
		{"name", &def.Name},
		{"open", &def.Open},
		{"close", &def.Close},
		{"content", &def.Content},
		{"attribute", &def.Attribute},
	}
	for _, f := range fields {
		switch v := tbl.RawGetString(f.key).(type) {
		case lua.LString:
			*f.dst = string(v)
		case *lua.LNilType:
		default:
			return def, fmt.Errorf("%w: field %q must be a string, got %s", ErrBadStyle, f.key, v.Type())
		}
	}
	switch v := tbl.RawGetString("word_start").(type) {
	case lua.LBool:
		def.WordStart = bool(v)
	case *lua.LNilType:
	default:
		return def, fmt.Errorf("%w: field \"word_start\" must be a boolean, got %s", ErrBadStyle, v.Type())
	}
	if def.Name == "" || def.Open == "" {
		return def, fmt.Errorf("%w: name and open are required", ErrBadStyle)
	}
	return def, nil
}

// BuildRegistry loads every script in paths and returns the resulting
// registry. With no paths it returns style.Default().
func BuildRegistry(ctx context.Context, paths []string, opts ...StateOption) (*style.Registry, error) {
	if len(paths) == 0 {
		return style.Default(), nil
	}
	l := NewStyleLoader(opts...)
	for _, p := range paths {
		if err := l.LoadFile(ctx, p); err != nil {
			return nil, err
		}
	}
	return l.Registry()
}
