package renderer

import (
	"testing"

	"github.com/dshills/mdinput/internal/engine/style"
)

func TestParseAttribute(t *testing.T) {
	tests := []struct {
		name string
		css  string
		want Style
	}{
		{"empty", "", DefaultStyle()},
		{"bold", "font-weight: bold;", DefaultStyle().With(AttrBold)},
		{"numeric weight", "font-weight: 700", DefaultStyle().With(AttrBold)},
		{"light weight", "font-weight: 300", DefaultStyle()},
		{"italic", "font-style: italic;", DefaultStyle().With(AttrItalic)},
		{"strike and underline", "text-decoration: underline line-through;", DefaultStyle().With(AttrUnderline).With(AttrStrikethrough)},
		{"mono", "font-family: Menlo, monospace;", DefaultStyle().With(AttrMonospace)},
		{"dim", "opacity: 0.5", DefaultStyle().With(AttrDim)},
		{
			"colors",
			"color: #0b5cad; background-color: #fff;",
			Style{Foreground: ColorFromRGB(0x0b, 0x5c, 0xad), Background: ColorFromRGB(255, 255, 255)},
		},
		{"named color", "COLOR: Red", Style{Foreground: ColorFromRGB(255, 0, 0), Background: ColorDefault}},
		{"bad color ignored", "color: #zzzzzz; font-weight: bold", DefaultStyle().With(AttrBold)},
		{"unknown property", "margin: 2px", DefaultStyle()},
		{"no colon", "bold", DefaultStyle()},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ParseAttribute(tt.css); got != tt.want {
				t.Errorf("ParseAttribute(%q) = %+v, want %+v", tt.css, got, tt.want)
			}
		})
	}
}

func TestParseColor(t *testing.T) {
	tests := []struct {
		in      string
		want    string
		wantErr bool
	}{
		{"#d6336c", "#d6336c", false},
		{"#abc", "#aabbcc", false},
		{"grey", "#808080", false},
		{"inherit", "default", false},
		{"rgb(1,2,3)", "", true},
		{"#12", "", true},
	}
	for _, tt := range tests {
		c, err := ParseColor(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseColor(%q) error = %v", tt.in, err)
			continue
		}
		if !tt.wantErr && c.Hex() != tt.want {
			t.Errorf("ParseColor(%q) = %s, want %s", tt.in, c.Hex(), tt.want)
		}
	}
}

func TestColorBlend(t *testing.T) {
	black, white := ColorFromRGB(0, 0, 0), ColorFromRGB(255, 255, 255)
	if got := black.Blend(white, 0); got != black {
		t.Errorf("Blend(0) = %s", got.Hex())
	}
	if got := black.Blend(white, 1); got != white {
		t.Errorf("Blend(1) = %s", got.Hex())
	}
	if got := ColorDefault.Blend(white, 0.5); got != ColorDefault {
		t.Errorf("default blend = %s", got.Hex())
	}
}

func TestThemeBuiltins(t *testing.T) {
	th := NewTheme(style.Default())

	if !th.Style(style.Bold).Attributes.Has(AttrBold) {
		t.Error("bold style is not bold")
	}
	if !th.Style(style.Italic).Attributes.Has(AttrItalic) {
		t.Error("italic style is not italic")
	}
	if !th.Style(style.Strike).Attributes.Has(AttrStrikethrough) {
		t.Error("strike style is not struck through")
	}
	code := th.Style(style.Code)
	if !code.Attributes.Has(AttrMonospace) || code.Foreground.Hex() != "#d6336c" {
		t.Errorf("code style = %+v", code)
	}
	if th.Style("") != DefaultStyle() || th.Style("missing") != DefaultStyle() {
		t.Error("plain or unknown names should use the default style")
	}
}
