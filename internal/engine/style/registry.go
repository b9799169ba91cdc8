package style

import (
	"fmt"
	"regexp"
	"strings"
	"sync"
)

// Built-in style names.
const (
	Code    = "code"
	Bold    = "bold"
	Italic  = "italic"
	Strike  = "strike"
	Mention = "mention"
)

// Definition describes a style to add to a Builder.
type Definition struct {
	// Name identifies the style. Runs refer to styles by name.
	Name string

	// Open and Close are the literal delimiters. Close may be empty for
	// open-only styles such as mentions.
	Open  string
	Close string

	// Content is the regular expression for the inner text. When empty,
	// any run of characters other than newline and the first character
	// of the closing delimiter is accepted.
	Content string

	// WordStart requires the opening delimiter not to follow a letter or digit.
	WordStart bool

	// Attribute is the presentation attribute handed to renderers.
	Attribute string
}

// Registry is an immutable, precedence-ordered set of styles.
type Registry struct {
	styles []*Style
	byName map[string]int
}

// Lookup returns the style registered under name.
func (r *Registry) Lookup(name string) (*Style, bool) {
	i, ok := r.byName[name]
	if !ok {
		return nil, false
	}
	return r.styles[i], true
}

// MustLookup returns the style registered under name and panics if it is missing.
func (r *Registry) MustLookup(name string) *Style {
	s, ok := r.Lookup(name)
	if !ok {
		panic(fmt.Sprintf("style: %q: %v", name, ErrUnknownStyle))
	}
	return s
}

// Has reports whether name is registered.
func (r *Registry) Has(name string) bool {
	_, ok := r.byName[name]
	return ok
}

// Styles returns the styles in precedence order.
func (r *Registry) Styles() []*Style {
	out := make([]*Style, len(r.styles))
	copy(out, r.styles)
	return out
}

// Names returns the style names in precedence order.
func (r *Registry) Names() []string {
	out := make([]string, len(r.styles))
	for i, s := range r.styles {
		out[i] = s.name
	}
	return out
}

// Precedence returns the rank of name (0 is tried first), or -1.
func (r *Registry) Precedence(name string) int {
	i, ok := r.byName[name]
	if !ok {
		return -1
	}
	return i
}

// Len returns the number of registered styles.
func (r *Registry) Len() int {
	return len(r.styles)
}

// WrapContent wraps text with the delimiters of the named style.
func (r *Registry) WrapContent(name, text string) (string, error) {
	s, ok := r.Lookup(name)
	if !ok {
		return "", fmt.Errorf("wrap %q: %w", name, ErrUnknownStyle)
	}
	return s.Wrap(text), nil
}

// UnwrapContent strips the delimiters of the named style from marked text.
func (r *Registry) UnwrapContent(name, marked string) (string, error) {
	s, ok := r.Lookup(name)
	if !ok {
		return "", fmt.Errorf("unwrap %q: %w", name, ErrUnknownStyle)
	}
	return s.Unwrap(marked), nil
}

// Attribute returns the presentation attribute for name, or "" for plain text.
func (r *Registry) Attribute(name string) string {
	if s, ok := r.Lookup(name); ok {
		return s.attribute
	}
	return ""
}

// Builder assembles a Registry. Styles added first take precedence.
type Builder struct {
	styles []*Style
	byName map[string]int
}

// NewBuilder creates an empty builder.
func NewBuilder() *Builder {
	return &Builder{byName: make(map[string]int)}
}

// Add validates def and appends it at the lowest precedence.
func (b *Builder) Add(def Definition) error {
	if def.Name == "" {
		return fmt.Errorf("%w: empty name", ErrInvalidDefinition)
	}
	if def.Open == "" {
		return fmt.Errorf("%w: style %q has no opening delimiter", ErrInvalidDefinition, def.Name)
	}
	if strings.ContainsAny(def.Open+def.Close, "\n") {
		return fmt.Errorf("%w: style %q delimiter contains a newline", ErrInvalidDefinition, def.Name)
	}
	if _, dup := b.byName[def.Name]; dup {
		return fmt.Errorf("%w: %q", ErrDuplicateStyle, def.Name)
	}
	for _, other := range b.styles {
		if other.open == def.Open && other.close == def.Close {
			return fmt.Errorf("%w: %q and %q both use %s…%s",
				ErrAmbiguousDelimiter, other.name, def.Name, def.Open, def.Close)
		}
		// Equal opening delimiters are settled by precedence; a strict
		// prefix would make the match depend on scan order.
		if other.open != def.Open && (strings.HasPrefix(def.Open, other.open) || strings.HasPrefix(other.open, def.Open)) {
			return fmt.Errorf("%w: %q opens with %s, which overlaps %s of %q",
				ErrAmbiguousDelimiter, def.Name, def.Open, other.open, other.name)
		}
	}

	content := def.Content
	if content == "" {
		content = defaultContent(def.Close)
	}
	re, err := regexp.Compile(`\A` + regexp.QuoteMeta(def.Open) + `(` + content + `)` + regexp.QuoteMeta(def.Close))
	if err != nil {
		return fmt.Errorf("%w: style %q: %v", ErrInvalidDefinition, def.Name, err)
	}

	b.byName[def.Name] = len(b.styles)
	b.styles = append(b.styles, &Style{
		name:      def.Name,
		open:      def.Open,
		close:     def.Close,
		wordStart: def.WordStart,
		pattern:   re,
		attribute: def.Attribute,
	})
	return nil
}

// Build freezes the builder into a Registry. The builder must not be reused.
func (b *Builder) Build() *Registry {
	r := &Registry{
		styles: b.styles,
		byName: b.byName,
	}
	b.styles = nil
	b.byName = make(map[string]int)
	return r
}

// defaultContent excludes newlines and the first character of the closing delimiter.
func defaultContent(close string) string {
	if close == "" {
		return `[^\s]+`
	}
	first := []rune(close)[0]
	return `[^\n` + regexp.QuoteMeta(string(first)) + `]+`
}

// Definitions returns the built-in style set in precedence order.
func Definitions() []Definition {
	return []Definition{
		{
			Name:      Code,
			Open:      "`",
			Close:     "`",
			Attribute: "font-family: monospace; color: #d6336c; background-color: #eeeeee;",
		},
		{
			Name:      Bold,
			Open:      "*",
			Close:     "*",
			Attribute: "font-weight: bold;",
		},
		{
			Name:      Italic,
			Open:      "_",
			Close:     "_",
			WordStart: true,
			Attribute: "font-style: italic;",
		},
		{
			Name:      Strike,
			Open:      "~",
			Close:     "~",
			Attribute: "text-decoration: line-through;",
		},
		{
			Name:      Mention,
			Open:      "@",
			Content:   `[A-Za-z0-9_-]+(?:\.[A-Za-z0-9_-]+)*`,
			WordStart: true,
			Attribute: "color: #0b5cad; background-color: #e6f0fb;",
		},
	}
}

// NewRegistry builds a registry from the built-in styles followed by extra.
func NewRegistry(extra ...Definition) (*Registry, error) {
	b := NewBuilder()
	for _, def := range append(Definitions(), extra...) {
		if err := b.Add(def); err != nil {
			return nil, err
		}
	}
	return b.Build(), nil
}

var (
	defaultOnce     sync.Once
	defaultRegistry *Registry
)

// Default returns the process-wide registry of built-in styles.
func Default() *Registry {
	defaultOnce.Do(func() {
		r, err := NewRegistry()
		if err != nil {
			panic(err)
		}
		defaultRegistry = r
	})
	return defaultRegistry
}
