package markdown

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/dshills/mdinput/internal/engine/rundoc"
	"github.com/dshills/mdinput/internal/engine/style"
)

// Parse converts markdown source into a run document.
//
// The source is scanned left to right. At each position every style is
// tried in precedence order; a match becomes a styled run with its
// delimiters stripped. Everything else, including unterminated or empty
// delimiters, accumulates as plain text. Styled content never spans a
// newline.
func Parse(reg *style.Registry, src string) *rundoc.Document {
	doc, _ := parse(reg, src, false)
	return doc
}

// ParseMapped parses src like Parse and also maps each source rune offset
// in offsets to a plain offset of the result. Offsets inside an opening
// delimiter map to the start of the run's content and offsets inside a
// closing delimiter to its end. Offsets outside the source are clamped.
//
// Unlike offset.MarkdownToPlain on the result, the mapping follows the
// source as written, so it stays exact when adjacent runs of the same
// style are merged.
func ParseMapped(reg *style.Registry, src string, offsets ...int) (*rundoc.Document, []int) {
	doc, plainAt := parse(reg, src, true)
	mapped := make([]int, len(offsets))
	for i, off := range offsets {
		if off < 0 {
			off = 0
		} else if off >= len(plainAt) {
			off = len(plainAt) - 1
		}
		mapped[i] = plainAt[off]
	}
	return doc, mapped
}

// parse builds the document and, if mapped is set, the plain offset of
// every source rune offset including the end of the source.
func parse(reg *style.Registry, src string, mapped bool) (*rundoc.Document, []int) {
	if reg == nil {
		reg = style.Default()
	}
	var plainAt []int
	if mapped {
		plainAt = make([]int, 0, utf8.RuneCountInString(src)+1)
	}
	if src == "" {
		return rundoc.Empty(reg), append(plainAt, 0)
	}

	var runs []rundoc.Run
	var currentText strings.Builder
	styles := reg.Styles()
	prev := utf8.RuneError
	pi := 0
	i := 0

	flushPlain := func() {
		if currentText.Len() > 0 {
			runs = append(runs, rundoc.Plain(currentText.String()))
			currentText.Reset()
		}
	}

	for i < len(src) {
		if s, content, n, ok := matchAt(styles, src[i:], prev); ok {
			flushPlain()
			runs = append(runs, rundoc.Styled(s.Name(), content))
			contentN := utf8.RuneCountInString(content)
			if mapped {
				plainAt = appendSpan(plainAt, pi, utf8.RuneCountInString(s.Open()), contentN, utf8.RuneCountInString(src[i:i+n]))
			}
			pi += contentN
			prev, _ = utf8.DecodeLastRuneInString(src[i : i+n])
			i += n
			continue
		}

		r, size := utf8.DecodeRuneInString(src[i:])
		currentText.WriteString(src[i : i+size])
		if mapped {
			plainAt = append(plainAt, pi)
		}
		pi++
		prev = r
		i += size
	}
	flushPlain()

	return rundoc.MustNew(reg, runs...), append(plainAt, pi)
}

// appendSpan appends the plain offsets of the first spanN source offsets
// of a styled span whose content starts at plain offset pi.
func appendSpan(plainAt []int, pi, openN, contentN, spanN int) []int {
	for k := 0; k < spanN; k++ {
		switch {
		case k <= openN:
			plainAt = append(plainAt, pi)
		case k <= openN+contentN:
			plainAt = append(plainAt, pi+k-openN)
		default:
			plainAt = append(plainAt, pi+contentN)
		}
	}
	return plainAt
}

// ParseFragment parses clipboard text destined for insertion into a live
// document. It has the same semantics as Parse.
func ParseFragment(reg *style.Registry, src string) *rundoc.Document {
	return Parse(reg, src)
}

// matchAt returns the first style, in precedence order, that matches at
// the start of src.
func matchAt(styles []*style.Style, src string, prev rune) (*style.Style, string, int, bool) {
	for _, s := range styles {
		if !strings.HasPrefix(src, s.Open()) {
			continue
		}
		if s.WordStart() && isWordRune(prev) {
			continue
		}
		if content, n, ok := s.Match(src); ok {
			return s, content, n, true
		}
	}
	return nil, "", 0, false
}

func isWordRune(r rune) bool {
	return r != utf8.RuneError && (unicode.IsLetter(r) || unicode.IsDigit(r))
}

// Serialize returns the markdown source of doc.
func Serialize(doc *rundoc.Document) string {
	return doc.Markdown()
}

// RenderText returns the plain-text projection of doc, the text the
// editable surface shows and selection offsets are measured against.
func RenderText(doc *rundoc.Document) string {
	return doc.Text()
}
