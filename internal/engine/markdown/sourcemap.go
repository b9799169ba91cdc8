package markdown

import "github.com/dshills/mdinput/internal/engine/rundoc"

// SourceMap maps positions in rendered text back to positions in markdown source.
type SourceMap struct {
	entries []SourceMapEntry
}

// SourceMapEntry maps one run's rendered range to its source range.
type SourceMapEntry struct {
	RenderedStart int // Rune position in rendered text
	RenderedEnd   int
	SourceStart   int // Rune position in markdown source
	SourceEnd     int
	PrefixLen     int // Length of the opening delimiter
	Style         string
}

// NewSourceMap builds the source map of doc.
func NewSourceMap(doc *rundoc.Document) *SourceMap {
	sm := &SourceMap{entries: make([]SourceMapEntry, doc.Len())}
	for i := 0; i < doc.Len(); i++ {
		sm.entries[i] = SourceMapEntry{
			RenderedStart: doc.PlainStart(i),
			RenderedEnd:   doc.PlainStart(i + 1),
			SourceStart:   doc.MarkdownStart(i),
			SourceEnd:     doc.MarkdownStart(i + 1),
			PrefixLen:     doc.OpenLen(i),
			Style:         doc.Run(i).Style,
		}
	}
	return sm
}

// Entries returns a copy of the map entries in document order.
func (sm *SourceMap) Entries() []SourceMapEntry {
	out := make([]SourceMapEntry, len(sm.entries))
	copy(out, sm.entries)
	return out
}

// ToSource maps a rendered range to the corresponding source range.
// A range that starts at the beginning of a styled run includes its
// opening delimiter; one that ends at the end of a styled run includes
// its closing delimiter.
func (sm *SourceMap) ToSource(renderedStart, renderedEnd int) (srcStart, srcEnd int) {
	if len(sm.entries) == 0 {
		return renderedStart, renderedEnd
	}

	startEntry := sm.find(renderedStart)
	switch {
	case startEntry == nil:
		last := sm.entries[len(sm.entries)-1]
		srcStart = last.SourceEnd
	case renderedStart == startEntry.RenderedStart:
		srcStart = startEntry.SourceStart
	default:
		srcStart = startEntry.SourceStart + startEntry.PrefixLen + renderedStart - startEntry.RenderedStart
	}

	lookupPos := renderedEnd
	if renderedEnd > renderedStart {
		lookupPos = renderedEnd - 1
	}
	endEntry := sm.find(lookupPos)
	switch {
	case endEntry == nil:
		last := sm.entries[len(sm.entries)-1]
		srcEnd = last.SourceEnd
	case renderedEnd == endEntry.RenderedEnd:
		srcEnd = endEntry.SourceEnd
	default:
		srcEnd = endEntry.SourceStart + endEntry.PrefixLen + renderedEnd - endEntry.RenderedStart
	}

	return srcStart, srcEnd
}

func (sm *SourceMap) find(pos int) *SourceMapEntry {
	for i := range sm.entries {
		e := &sm.entries[i]
		if pos >= e.RenderedStart && pos < e.RenderedEnd {
			return e
		}
	}
	return nil
}
