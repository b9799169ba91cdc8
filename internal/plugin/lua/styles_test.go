package lua

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/dshills/mdinput/internal/engine/markdown"
	"github.com/dshills/mdinput/internal/engine/rundoc"
	"github.com/dshills/mdinput/internal/engine/style"
)

const highlightPlugin = `
mdinput.style {
    name = "highlight",
    open = "==",
    close = "==",
    attribute = "background-color: #fff3bf;",
}
mdinput.style {
    name = "tag",
    open = "#",
    content = "[a-z]+",
    word_start = true,
}
`

func TestStyleLoaderDefinitions(t *testing.T) {
	l := NewStyleLoader()
	if err := l.LoadString(context.Background(), "highlight.lua", highlightPlugin); err != nil {
		t.Fatal(err)
	}

	want := []style.Definition{
		{Name: "highlight", Open: "==", Close: "==", Attribute: "background-color: #fff3bf;"},
		{Name: "tag", Open: "#", Content: "[a-z]+", WordStart: true},
	}
	if diff := cmp.Diff(want, l.Definitions()); diff != "" {
		t.Errorf("mismatch (-want +got):\n%s", diff)
	}
}

func TestPluginStylesParse(t *testing.T) {
	l := NewStyleLoader()
	if err := l.LoadString(context.Background(), "highlight.lua", highlightPlugin); err != nil {
		t.Fatal(err)
	}
	reg, err := l.Registry()
	if err != nil {
		t.Fatal(err)
	}

	doc := markdown.Parse(reg, "see ==this== and #go *now*")
	want := []rundoc.Run{
		rundoc.Plain("see "),
		rundoc.Styled("highlight", "this"),
		rundoc.Plain(" and "),
		rundoc.Styled("tag", "go"),
		rundoc.Plain(" "),
		rundoc.Styled(style.Bold, "now"),
	}
	if diff := cmp.Diff(want, doc.Runs()); diff != "" {
		t.Errorf("runs mismatch (-want +got):\n%s", diff)
	}
	if got := markdown.Serialize(doc); got != "see ==this== and #go *now*" {
		t.Errorf("Serialize() = %q", got)
	}
	if got := reg.Attribute("highlight"); got != "background-color: #fff3bf;" {
		t.Errorf("Attribute(highlight) = %q", got)
	}
}

func TestStyleLoaderErrors(t *testing.T) {
	tests := []struct {
		name    string
		code    string
		wantMsg string
	}{
		{"syntax", "mdinput.style {", ""},
		{"missing open", `mdinput.style { name = "x" }`, "name and open are required"},
		{"wrong type", `mdinput.style { name = "x", open = "%", word_start = "yes" }`, "word_start"},
		{"sandboxed io", `io.open("/etc/passwd")`, ""},
		{"sandboxed require", `require("os")`, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l := NewStyleLoader()
			err := l.LoadString(context.Background(), tt.name+".lua", tt.code)
			var se *ScriptError
			if !errors.As(err, &se) {
				t.Fatalf("error = %v, want *ScriptError", err)
			}
			if se.Path != tt.name+".lua" {
				t.Errorf("Path = %q", se.Path)
			}
			if tt.wantMsg != "" && !strings.Contains(err.Error(), tt.wantMsg) {
				t.Errorf("error %q does not mention %q", err, tt.wantMsg)
			}
			if len(l.Definitions()) != 0 {
				t.Errorf("failed script left definitions behind")
			}
		})
	}
}

func TestDuplicateStyleRejectedByRegistry(t *testing.T) {
	l := NewStyleLoader()
	err := l.LoadString(context.Background(), "dup.lua", `mdinput.style { name = "bold", open = "**", close = "**" }`)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := l.Registry(); !errors.Is(err, style.ErrDuplicateStyle) {
		t.Errorf("Registry() error = %v, want ErrDuplicateStyle", err)
	}
}

func TestExecutionTimeout(t *testing.T) {
	l := NewStyleLoader(WithExecutionTimeout(50 * time.Millisecond))
	err := l.LoadString(context.Background(), "spin.lua", "while true do end")
	if !errors.Is(err, ErrExecutionTimeout) {
		t.Errorf("error = %v, want ErrExecutionTimeout", err)
	}
}

func TestBuildRegistry(t *testing.T) {
	reg, err := BuildRegistry(context.Background(), nil)
	if err != nil || reg != style.Default() {
		t.Fatalf("BuildRegistry(nil) = %v, %v", reg, err)
	}

	path := filepath.Join(t.TempDir(), "highlight.lua")
	if err := os.WriteFile(path, []byte(highlightPlugin), 0o644); err != nil {
		t.Fatal(err)
	}
	reg, err = BuildRegistry(context.Background(), []string{path})
	if err != nil {
		t.Fatal(err)
	}
	if !reg.Has("highlight") || !reg.Has(style.Mention) {
		t.Errorf("registry names = %v", reg.Names())
	}
	if reg.Precedence("highlight") <= reg.Precedence(style.Mention) {
		t.Errorf("plugin style outranks built-ins")
	}

	if _, err := BuildRegistry(context.Background(), []string{filepath.Join(t.TempDir(), "missing.lua")}); err == nil {
		t.Error("missing script loaded without error")
	}
}

func TestStateClosed(t *testing.T) {
	s := NewState()
	s.Close()
	s.Close()
	if err := s.DoString(context.Background(), "x = 1"); !errors.Is(err, ErrStateClosed) {
		t.Errorf("DoString after Close = %v", err)
	}
}

func TestSandboxGlobals(t *testing.T) {
	s := NewState()
	defer s.Close()
	for _, name := range []string{"dofile", "loadfile", "load", "require", "io", "os", "debug"} {
		if v := s.GetGlobal(name); v.String() != "nil" {
			t.Errorf("global %s = %s, want nil", name, v.Type())
		}
	}
	if err := s.DoString(context.Background(), `x = string.upper("ok") .. math.floor(1.5)`); err != nil {
		t.Fatal(err)
	}
	if got := s.GetGlobal("x").String(); got != "OK1" {
		t.Errorf("x = %q", got)
	}
}
