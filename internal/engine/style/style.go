package style

import (
	"regexp"
	"strings"
)

// Style is a named inline style with its markdown delimiters and the
// presentation attribute renderers apply to its content.
// Style is immutable once built into a Registry.
type Style struct {
	name      string
	open      string
	close     string
	wordStart bool
	pattern   *regexp.Regexp
	attribute string
}

// Name returns the registered name of the style.
func (s *Style) Name() string { return s.name }

// Open returns the opening delimiter.
func (s *Style) Open() string { return s.open }

// Close returns the closing delimiter. Open-only styles (mentions) return "".
func (s *Style) Close() string { return s.close }

// Attribute returns the presentation attribute (a CSS style string).
func (s *Style) Attribute() string { return s.attribute }

// Pattern returns the anchored delimiter pattern. Capture group 1 is the content.
func (s *Style) Pattern() *regexp.Regexp { return s.pattern }

// WordStart reports whether the opening delimiter must not directly
// follow a letter or digit.
func (s *Style) WordStart() bool { return s.wordStart }

// DelimiterLen returns the rune length the delimiters add when serialized.
func (s *Style) DelimiterLen() int {
	return len([]rune(s.open)) + len([]rune(s.close))
}

// Wrap surrounds text with the style's delimiters.
func (s *Style) Wrap(text string) string {
	return s.open + text + s.close
}

// Unwrap strips the style's delimiters from marked text.
// Text that is not wrapped by this style is returned unchanged.
func (s *Style) Unwrap(marked string) string {
	if len(marked) < len(s.open)+len(s.close) {
		return marked
	}
	if !strings.HasPrefix(marked, s.open) || !strings.HasSuffix(marked, s.close) {
		return marked
	}
	return marked[len(s.open) : len(marked)-len(s.close)]
}

// Match tries to match one delimited span at the start of src.
// It returns the inner content and the number of bytes consumed.
func (s *Style) Match(src string) (content string, n int, ok bool) {
	if !strings.HasPrefix(src, s.open) {
		return "", 0, false
	}
	loc := s.pattern.FindStringSubmatchIndex(src)
	if loc == nil || loc[0] != 0 || loc[2] < 0 || loc[3] <= loc[2] {
		return "", 0, false
	}
	return src[loc[2]:loc[3]], loc[1], true
}

// String returns the style name.
func (s *Style) String() string { return s.name }
