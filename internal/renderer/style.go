package renderer

import (
	"strconv"
	"strings"
	"sync"

	"github.com/dshills/mdinput/internal/engine/style"
)

// Attribute represents text attributes (bold, italic, etc.).
type Attribute uint16

// Text attribute flags.
const (
	AttrNone          Attribute = 0
	AttrBold          Attribute = 1 << iota
	AttrDim                     // Faint/dim text
	AttrItalic                  // Italic text
	AttrUnderline               // Underlined text
	AttrReverse                 // Reverse video (swap fg/bg)
	AttrStrikethrough           // Strikethrough text
	AttrMonospace               // Code; terminals are monospace already
)

// Has returns true if the attribute set contains the given attribute.
func (a Attribute) Has(attr Attribute) bool {
	return a&attr != 0
}

// Style represents the visual style of text.
type Style struct {
	Foreground Color
	Background Color
	Attributes Attribute
}

// DefaultStyle returns the default terminal style.
func DefaultStyle() Style {
	return Style{
		Foreground: ColorDefault,
		Background: ColorDefault,
	}
}

// With returns s with attr added.
func (s Style) With(attr Attribute) Style {
	s.Attributes |= attr
	return s
}

// ParseAttribute converts a CSS declaration list into a Style. Unknown
// properties and unparsable values are ignored.
func ParseAttribute(css string) Style {
	s := DefaultStyle()
	for _, decl := range strings.Split(css, ";") {
		prop, value, ok := strings.Cut(decl, ":")
		if !ok {
			continue
		}
		prop = strings.ToLower(strings.TrimSpace(prop))
		value = strings.ToLower(strings.TrimSpace(value))

		switch prop {
		case "font-weight":
			if value == "bold" || value == "bolder" {
				s.Attributes |= AttrBold
			} else if n, err := strconv.Atoi(value); err == nil && n >= 600 {
				s.Attributes |= AttrBold
			}
		case "font-style":
			if value == "italic" || value == "oblique" {
				s.Attributes |= AttrItalic
			}
		case "text-decoration", "text-decoration-line":
			for _, v := range strings.Fields(value) {
				switch v {
				case "line-through":
					s.Attributes |= AttrStrikethrough
				case "underline":
					s.Attributes |= AttrUnderline
				}
			}
		case "font-family":
			if strings.Contains(value, "monospace") {
				s.Attributes |= AttrMonospace
			}
		case "opacity":
			if f, err := strconv.ParseFloat(value, 64); err == nil && f < 1 {
				s.Attributes |= AttrDim
			}
		case "color":
			if c, err := ParseColor(value); err == nil {
				s.Foreground = c
			}
		case "background-color", "background":
			if c, err := ParseColor(value); err == nil {
				s.Background = c
			}
		}
	}
	return s
}

// Theme resolves style names to terminal styles.
type Theme struct {
	reg *style.Registry

	mu    sync.Mutex
	cache map[string]Style
}

// NewTheme creates a theme for the styles in reg.
func NewTheme(reg *style.Registry) *Theme {
	if reg == nil {
		reg = style.Default()
	}
	return &Theme{reg: reg, cache: make(map[string]Style)}
}

// Style returns the terminal style for a run style name. Plain text and
// unknown names get the default style.
func (t *Theme) Style(name string) Style {
	if name == "" {
		return DefaultStyle()
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	if s, ok := t.cache[name]; ok {
		return s
	}
	s := ParseAttribute(t.reg.Attribute(name))
	t.cache[name] = s
	return s
}
