package rundoc

import (
	"fmt"
	"strings"

	"github.com/dshills/mdinput/internal/engine/style"
)

// Document is an immutable, canonical sequence of runs.
//
// Canonical form has no empty runs and never two adjacent runs with the
// same style. Prefix sums of plain and markdown lengths are computed once
// at construction; every edit returns a new Document.
type Document struct {
	reg  *style.Registry
	runs []Run

	// plain[i] and md[i] are the start offsets of run i; the final
	// element holds the total length.
	plain []int
	md    []int
}

// Empty returns a document with no runs.
func Empty(reg *style.Registry) *Document {
	return build(reg, nil)
}

// New creates a canonical document from runs, validating style names.
func New(reg *style.Registry, runs ...Run) (*Document, error) {
	if reg == nil {
		reg = style.Default()
	}
	for _, r := range runs {
		if !r.IsPlain() && !reg.Has(r.Style) {
			return nil, fmt.Errorf("run %s: %w", r, ErrUnknownStyle)
		}
	}
	return build(reg, runs), nil
}

// MustNew is like New but panics on error.
func MustNew(reg *style.Registry, runs ...Run) *Document {
	d, err := New(reg, runs...)
	if err != nil {
		panic(err)
	}
	return d
}

// build canonicalizes runs and computes cached lengths.
func build(reg *style.Registry, runs []Run) *Document {
	if reg == nil {
		reg = style.Default()
	}
	d := &Document{reg: reg}
	for _, r := range runs {
		if r.Text == "" {
			continue
		}
		if n := len(d.runs); n > 0 && d.runs[n-1].Style == r.Style {
			d.runs[n-1].Text += r.Text
			continue
		}
		d.runs = append(d.runs, r)
	}

	d.plain = make([]int, len(d.runs)+1)
	d.md = make([]int, len(d.runs)+1)
	for i, r := range d.runs {
		n := r.PlainLen()
		d.plain[i+1] = d.plain[i] + n
		d.md[i+1] = d.md[i] + n + d.delimiterLen(r)
	}
	return d
}

func (d *Document) delimiterLen(r Run) int {
	if r.IsPlain() {
		return 0
	}
	if s, ok := d.reg.Lookup(r.Style); ok {
		return s.DelimiterLen()
	}
	return 0
}

// Registry returns the style registry the document resolves names against.
func (d *Document) Registry() *style.Registry {
	return d.reg
}

// Len returns the number of runs.
func (d *Document) Len() int {
	return len(d.runs)
}

// IsEmpty returns true if the document has no text.
func (d *Document) IsEmpty() bool {
	return len(d.runs) == 0
}

// Run returns run i.
func (d *Document) Run(i int) Run {
	return d.runs[i]
}

// Runs returns a copy of the runs.
func (d *Document) Runs() []Run {
	out := make([]Run, len(d.runs))
	copy(out, d.runs)
	return out
}

// PlainLen returns the total length in plain-text coordinates.
func (d *Document) PlainLen() int {
	return d.plain[len(d.runs)]
}

// MarkdownLen returns the total length in markdown coordinates.
func (d *Document) MarkdownLen() int {
	return d.md[len(d.runs)]
}

// PlainStart returns the plain offset at which run i starts.
// PlainStart(Len()) is PlainLen().
func (d *Document) PlainStart(i int) int {
	return d.plain[i]
}

// MarkdownStart returns the markdown offset at which run i starts.
// MarkdownStart(Len()) is MarkdownLen().
func (d *Document) MarkdownStart(i int) int {
	return d.md[i]
}

// OpenLen returns the rune length of run i's opening delimiter.
func (d *Document) OpenLen(i int) int {
	r := d.runs[i]
	if r.IsPlain() {
		return 0
	}
	if s, ok := d.reg.Lookup(r.Style); ok {
		return len([]rune(s.Open()))
	}
	return 0
}

// Text returns the plain-text projection.
func (d *Document) Text() string {
	var sb strings.Builder
	for _, r := range d.runs {
		sb.WriteString(r.Text)
	}
	return sb.String()
}

// Markdown returns the markdown serialization.
func (d *Document) Markdown() string {
	var sb strings.Builder
	for _, r := range d.runs {
		if r.IsPlain() {
			sb.WriteString(r.Text)
			continue
		}
		if s, ok := d.reg.Lookup(r.Style); ok {
			sb.WriteString(s.Wrap(r.Text))
			continue
		}
		sb.WriteString(r.Text)
	}
	return sb.String()
}

// Equal reports whether two documents have identical runs.
func (d *Document) Equal(other *Document) bool {
	if other == nil || len(d.runs) != len(other.runs) {
		return false
	}
	for i := range d.runs {
		if d.runs[i] != other.runs[i] {
			return false
		}
	}
	return true
}

// Clone returns an independent copy of the document.
func (d *Document) Clone() *Document {
	c := &Document{
		reg:   d.reg,
		runs:  make([]Run, len(d.runs)),
		plain: make([]int, len(d.plain)),
		md:    make([]int, len(d.md)),
	}
	copy(c.runs, d.runs)
	copy(c.plain, d.plain)
	copy(c.md, d.md)
	return c
}

// String returns a debug representation of the runs.
func (d *Document) String() string {
	parts := make([]string, len(d.runs))
	for i, r := range d.runs {
		parts[i] = r.String()
	}
	return "[" + strings.Join(parts, " ") + "]"
}

// interiorStyle returns the style of the run strictly containing offset.
// Offsets on a run boundary return "".
func (d *Document) interiorStyle(offset int) string {
	for i, r := range d.runs {
		if d.plain[i] < offset && offset < d.plain[i+1] {
			return r.Style
		}
	}
	return ""
}

// split divides the runs at a plain offset, splitting the containing run.
func (d *Document) split(offset int) (left, right []Run) {
	for i, r := range d.runs {
		start, end := d.plain[i], d.plain[i+1]
		switch {
		case end <= offset:
			left = append(left, r)
		case start >= offset:
			right = append(right, r)
		default:
			a, b := r.splitAt(offset - start)
			left = append(left, a)
			right = append(right, b)
		}
	}
	return left, right
}

func (d *Document) checkOffset(offset int) error {
	if offset < 0 || offset > d.PlainLen() {
		return fmt.Errorf("offset %d not in [0, %d]: %w", offset, d.PlainLen(), ErrOutOfRange)
	}
	return nil
}

func (d *Document) checkRange(start, end int) error {
	if start > end || start < 0 || end > d.PlainLen() {
		return fmt.Errorf("range [%d:%d) with length %d: %w", start, end, d.PlainLen(), ErrInvalidRange)
	}
	return nil
}

func (d *Document) checkStyle(name string) error {
	if name != "" && !d.reg.Has(name) {
		return fmt.Errorf("style %q: %w", name, ErrUnknownStyle)
	}
	return nil
}
