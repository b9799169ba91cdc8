// Package offset converts between the three coordinate systems of a run
// document: plain-text offsets, markdown-source offsets, and
// (run index, intra-run offset) positions.
//
// Offsets on a run boundary are resolved with a Bias. Right bias, used for
// insertion points, maps to the start of the following run; Left bias,
// used for deletion end-points, maps to the end of the preceding run.
package offset

import (
	"fmt"
	"sort"

	"github.com/dshills/mdinput/internal/engine/rundoc"
)

// ErrOutOfRange is returned for offsets outside the document.
var ErrOutOfRange = rundoc.ErrOutOfRange

// Bias selects which run a boundary offset belongs to.
type Bias int

const (
	// Right maps a boundary to the start of the following run.
	Right Bias = iota
	// Left maps a boundary to the end of the preceding run.
	Left
)

// String returns the bias name.
func (b Bias) String() string {
	if b == Left {
		return "left"
	}
	return "right"
}

// Position is a location inside the run sequence.
// An empty document has the single position {0, 0}.
type Position struct {
	Run    int
	Offset int
}

// String returns a debug representation of the position.
func (p Position) String() string {
	return fmt.Sprintf("run %d+%d", p.Run, p.Offset)
}

// PlainToRun maps a plain offset to a run position.
func PlainToRun(doc *rundoc.Document, offset int, bias Bias) (Position, error) {
	total := doc.PlainLen()
	if offset < 0 || offset > total {
		return Position{}, fmt.Errorf("plain offset %d not in [0, %d]: %w", offset, total, ErrOutOfRange)
	}
	n := doc.Len()
	if n == 0 {
		return Position{}, nil
	}

	var i int
	if bias == Left {
		// First run whose end is at or after offset.
		i = sort.Search(n, func(i int) bool { return doc.PlainStart(i+1) >= offset })
	} else {
		// First run whose end is strictly after offset.
		i = sort.Search(n, func(i int) bool { return doc.PlainStart(i+1) > offset })
		if i == n {
			i = n - 1
		}
	}
	return Position{Run: i, Offset: offset - doc.PlainStart(i)}, nil
}

// RunToPlain maps a run position back to a plain offset.
func RunToPlain(doc *rundoc.Document, pos Position) (int, error) {
	n := doc.Len()
	if n == 0 {
		if pos.Run == 0 && pos.Offset == 0 {
			return 0, nil
		}
		return 0, fmt.Errorf("position %s in empty document: %w", pos, ErrOutOfRange)
	}
	if pos.Run < 0 || pos.Run >= n {
		return 0, fmt.Errorf("position %s with %d runs: %w", pos, n, ErrOutOfRange)
	}
	runLen := doc.PlainStart(pos.Run+1) - doc.PlainStart(pos.Run)
	if pos.Offset < 0 || pos.Offset > runLen {
		return 0, fmt.Errorf("position %s with run length %d: %w", pos, runLen, ErrOutOfRange)
	}
	return doc.PlainStart(pos.Run) + pos.Offset, nil
}

// MarkdownToPlain maps a markdown offset to a plain offset. Offsets inside
// an opening delimiter map to the run's plain start and offsets inside a
// closing delimiter to its plain end.
func MarkdownToPlain(doc *rundoc.Document, mdOffset int) (int, error) {
	total := doc.MarkdownLen()
	if mdOffset < 0 || mdOffset > total {
		return 0, fmt.Errorf("markdown offset %d not in [0, %d]: %w", mdOffset, total, ErrOutOfRange)
	}
	n := doc.Len()
	if mdOffset == total {
		return doc.PlainLen(), nil
	}

	i := sort.Search(n, func(i int) bool { return doc.MarkdownStart(i+1) > mdOffset })
	runLen := doc.PlainStart(i+1) - doc.PlainStart(i)
	local := mdOffset - doc.MarkdownStart(i) - doc.OpenLen(i)
	if local < 0 {
		local = 0
	} else if local > runLen {
		local = runLen
	}
	return doc.PlainStart(i) + local, nil
}

// PlainToMarkdown maps a plain offset to a markdown offset. Offsets
// strictly inside a run land on the corresponding content character;
// offsets on a run boundary land between the runs, outside both sets of
// delimiters, so text spliced there never joins a neighbouring style.
func PlainToMarkdown(doc *rundoc.Document, offset int) (int, error) {
	pos, err := PlainToRun(doc, offset, Right)
	if err != nil {
		return 0, err
	}
	if doc.Len() == 0 {
		return 0, nil
	}
	runLen := doc.PlainStart(pos.Run+1) - doc.PlainStart(pos.Run)
	switch pos.Offset {
	case 0:
		return doc.MarkdownStart(pos.Run), nil
	case runLen:
		return doc.MarkdownStart(pos.Run + 1), nil
	default:
		return doc.MarkdownStart(pos.Run) + doc.OpenLen(pos.Run) + pos.Offset, nil
	}
}

// PlainRangeToMarkdown maps a plain range to the markdown range covering
// the same content.
func PlainRangeToMarkdown(doc *rundoc.Document, start, end int) (int, int, error) {
	if start > end {
		return 0, 0, fmt.Errorf("range [%d:%d): %w", start, end, rundoc.ErrInvalidRange)
	}
	s, err := PlainToMarkdown(doc, start)
	if err != nil {
		return 0, 0, err
	}
	e, err := PlainToMarkdown(doc, end)
	if err != nil {
		return 0, 0, err
	}
	return s, e, nil
}
