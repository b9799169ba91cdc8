// Package rundoc provides the run document: the editable state of a
// markdown input as an ordered sequence of styled runs.
//
// A Document can be projected two ways:
//
//   - Text: the concatenated run contents, which is what the user sees and
//     what selection offsets are measured against (plain coordinates).
//   - Markdown: each styled run wrapped by its style's delimiters
//     (markdown coordinates).
//
// Documents are immutable. Insert, DeleteRange, ReplaceRange,
// ExtractRange and Restyle validate their arguments and return a new
// canonical document, leaving the receiver untouched on both success and
// failure. History snapshots can therefore never be corrupted by later
// edits of the live document.
//
// Offsets are counted in runes.
package rundoc
