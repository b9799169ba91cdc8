package renderer

import (
	"github.com/mattn/go-runewidth"

	"github.com/dshills/mdinput/internal/engine/cursor"
)

// Surface is a grid of cells that a View draws onto.
type Surface interface {
	Size() (width, height int)
	SetCell(x, y int, c Cell)
	Clear()
	ShowCursor(x, y int)
	HideCursor()
	Show()
}

// View draws a layout with its selection and a status row, scrolling to
// keep the caret visible.
type View struct {
	// Top is the first layout row on screen.
	Top int

	StatusStyle Style
}

// NewView creates a view with the default status style.
func NewView() *View {
	return &View{StatusStyle: DefaultStyle().With(AttrReverse)}
}

// Draw renders l onto s. The selection is shown in reverse video and the
// caret is placed at its head.
func (v *View) Draw(s Surface, l *Layout, sel cursor.Selection, status string) {
	width, height := s.Size()
	textRows := height - 1
	if textRows < 1 {
		textRows = height
	}

	col, row := l.Caret(sel.Head)
	v.scrollTo(row, textRows)

	s.Clear()
	r := sel.Range()
	for y := 0; y < textRows; y++ {
		i := v.Top + y
		if i >= len(l.Lines) {
			break
		}
		x := 0
		for _, c := range l.Lines[i].Cells {
			if x >= width {
				break
			}
			if c.Offset >= r.Start && c.Offset < r.End {
				c.Style = c.Style.With(AttrReverse)
			}
			s.SetCell(x, y, c)
			x += c.Width
		}
	}

	if textRows < height {
		v.drawStatus(s, width, height-1, status)
	}

	cy := row - v.Top
	if col >= width {
		col = width - 1
	}
	if cy >= 0 && cy < textRows && col >= 0 {
		s.ShowCursor(col, cy)
	} else {
		s.HideCursor()
	}
	s.Show()
}

func (v *View) scrollTo(row, rows int) {
	if row < v.Top {
		v.Top = row
	}
	if row >= v.Top+rows {
		v.Top = row - rows + 1
	}
	if v.Top < 0 {
		v.Top = 0
	}
}

func (v *View) drawStatus(s Surface, width, y int, status string) {
	x := 0
	for _, r := range status {
		w := runewidth.RuneWidth(r)
		if w == 0 {
			continue
		}
		if x+w > width {
			break
		}
		s.SetCell(x, y, Cell{Rune: r, Width: w, Style: v.StatusStyle})
		x += w
	}
	for ; x < width; x++ {
		s.SetCell(x, y, Cell{Rune: ' ', Width: 1, Style: v.StatusStyle})
	}
}
