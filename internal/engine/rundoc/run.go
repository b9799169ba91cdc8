package rundoc

import (
	"fmt"
	"unicode/utf8"
)

// Run is a contiguous span of text with at most one applied style.
// Style is a weak reference by name into the document's registry;
// the empty name marks plain text.
type Run struct {
	Text  string
	Style string
}

// Plain creates an unstyled run.
func Plain(text string) Run {
	return Run{Text: text}
}

// Styled creates a run with the named style.
func Styled(name, text string) Run {
	return Run{Text: text, Style: name}
}

// IsPlain returns true if the run has no style.
func (r Run) IsPlain() bool {
	return r.Style == ""
}

// PlainLen returns the run length in plain-text coordinates.
func (r Run) PlainLen() int {
	return utf8.RuneCountInString(r.Text)
}

// String returns a debug representation of the run.
func (r Run) String() string {
	if r.IsPlain() {
		return fmt.Sprintf("%q", r.Text)
	}
	return fmt.Sprintf("%s(%q)", r.Style, r.Text)
}

// splitAt splits the run at rune offset k. The text is cut at a byte
// index so invalid UTF-8 on either side is kept as is.
func (r Run) splitAt(k int) (Run, Run) {
	i := byteIndex(r.Text, k)
	return Run{Text: r.Text[:i], Style: r.Style}, Run{Text: r.Text[i:], Style: r.Style}
}

// byteIndex returns the byte index of rune offset k in s, or len(s) when
// s has k or fewer runes.
func byteIndex(s string, k int) int {
	i := 0
	for ; k > 0 && i < len(s); k-- {
		_, size := utf8.DecodeRuneInString(s[i:])
		i += size
	}
	return i
}
