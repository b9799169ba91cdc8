package renderer

import (
	"strconv"
	"strings"

	"github.com/muesli/reflow/wordwrap"
	"github.com/muesli/reflow/wrap"

	"github.com/dshills/mdinput/internal/engine/rundoc"
)

const sgrReset = "\x1b[0m"

// SGR returns the escape sequence selecting s, or "" for the default style.
func (s Style) SGR() string {
	var codes []string
	attrs := []struct {
		a    Attribute
		code string
	}{
		{AttrBold, "1"},
		{AttrDim, "2"},
		{AttrItalic, "3"},
		{AttrUnderline, "4"},
		{AttrReverse, "7"},
		{AttrStrikethrough, "9"},
	}
	for _, at := range attrs {
		if s.Attributes.Has(at.a) {
			codes = append(codes, at.code)
		}
	}
	if !s.Foreground.IsDefault() {
		codes = append(codes, "38;2;"+rgb(s.Foreground))
	}
	if !s.Background.IsDefault() {
		codes = append(codes, "48;2;"+rgb(s.Background))
	}
	if len(codes) == 0 {
		return ""
	}
	return "\x1b[" + strings.Join(codes, ";") + "m"
}

func rgb(c Color) string {
	return strconv.Itoa(int(c.R)) + ";" + strconv.Itoa(int(c.G)) + ";" + strconv.Itoa(int(c.B))
}

// ANSI renders doc with escape sequences, word-wrapped to width columns.
// Width zero disables wrapping.
func ANSI(doc *rundoc.Document, theme *Theme, width int) string {
	if theme == nil {
		theme = NewTheme(doc.Registry())
	}
	var sb strings.Builder
	for _, run := range doc.Runs() {
		sgr := theme.Style(run.Style).SGR()
		if sgr == "" {
			sb.WriteString(run.Text)
			continue
		}
		// Re-open the style after each newline so wrapped output can be
		// printed line by line.
		for i, line := range strings.Split(run.Text, "\n") {
			if i > 0 {
				sb.WriteByte('\n')
			}
			if line != "" {
				sb.WriteString(sgr + line + sgrReset)
			}
		}
	}
	return Wrap(sb.String(), width)
}

// Text renders the plain text of doc wrapped to width columns.
func Text(doc *rundoc.Document, width int) string {
	return Wrap(doc.Text(), width)
}

// Wrap word-wraps s to width columns, hard-breaking words that are longer
// than a row. Escape sequences do not count toward the width.
func Wrap(s string, width int) string {
	if width <= 0 {
		return s
	}
	return wrap.String(wordwrap.String(s, width), width)
}
