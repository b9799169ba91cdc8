package renderer

import (
	"github.com/mattn/go-runewidth"

	"github.com/dshills/mdinput/internal/engine/rundoc"
)

// TabWidth is the tab stop interval in columns.
const TabWidth = 4

// Cell is one screen cell of laid-out text.
type Cell struct {
	Rune      rune
	Combining []rune
	Width     int
	Style     Style

	// Offset is the plain offset of Rune in the document.
	Offset int
}

// Line is one screen row.
type Line struct {
	Cells []Cell

	// Start and End bound the plain offsets shown on the row. A hard
	// newline at End is not part of the row.
	Start, End int
}

// Width returns the row's width in columns.
func (ln Line) Width() int {
	w := 0
	for _, c := range ln.Cells {
		w += c.Width
	}
	return w
}

// Layout is a document broken into screen rows.
type Layout struct {
	Lines []Line

	// Width is the wrap width; zero means rows are only broken at newlines.
	Width int
}

// NewLayout lays doc out in rows of at most width columns. Rows break at
// newlines and, when width is positive, before a cell that would overflow.
func NewLayout(doc *rundoc.Document, theme *Theme, width int) *Layout {
	if theme == nil {
		theme = NewTheme(doc.Registry())
	}
	l := &Layout{Width: width}
	cur := Line{}
	col, off := 0, 0

	for _, run := range doc.Runs() {
		st := theme.Style(run.Style)
		for _, r := range run.Text {
			if r == '\n' {
				cur.End = off
				l.Lines = append(l.Lines, cur)
				cur = Line{Start: off + 1}
				col = 0
				off++
				continue
			}

			w := runewidth.RuneWidth(r)
			if r == '\t' {
				r = ' '
				w = TabWidth - col%TabWidth
			}
			if w == 0 && len(cur.Cells) > 0 {
				last := &cur.Cells[len(cur.Cells)-1]
				last.Combining = append(last.Combining, r)
				off++
				continue
			}
			if w == 0 {
				w = 1
			}

			if width > 0 && col > 0 && col+w > width {
				cur.End = off
				l.Lines = append(l.Lines, cur)
				cur = Line{Start: off}
				col = 0
			}
			cur.Cells = append(cur.Cells, Cell{Rune: r, Width: w, Style: st, Offset: off})
			col += w
			off++
		}
	}
	cur.End = off
	l.Lines = append(l.Lines, cur)
	return l
}

// row returns the index of the row showing offset. At a soft wrap the
// offset belongs to the following row.
func (l *Layout) row(offset int) int {
	row := 0
	for i, ln := range l.Lines {
		if ln.Start > offset {
			break
		}
		row = i
	}
	return row
}

// Caret returns the screen column and row of a caret at a plain offset.
// A caret after the last cell of a full row reports col == Width.
func (l *Layout) Caret(offset int) (col, row int) {
	row = l.row(offset)
	for _, c := range l.Lines[row].Cells {
		if c.Offset >= offset {
			break
		}
		col += c.Width
	}
	return col, row
}

// OffsetAt maps a screen position to the nearest caret offset.
func (l *Layout) OffsetAt(col, row int) int {
	if row < 0 {
		return 0
	}
	if row >= len(l.Lines) {
		return l.Lines[len(l.Lines)-1].End
	}
	ln := l.Lines[row]
	x := 0
	for _, c := range ln.Cells {
		if col < x+c.Width {
			if col-x >= (c.Width+1)/2 && c.Width > 1 {
				return c.Offset + 1
			}
			return c.Offset
		}
		x += c.Width
	}
	return ln.End
}
