// Package renderer turns run documents into styled terminal output.
//
// Each style's presentation attribute is a small CSS declaration list
// ("font-weight: bold; color: #0b5cad;"). ParseAttribute converts it to a
// Style and a Theme caches the result per style name.
//
// Two outputs are provided:
//
//	┌──────────────────────────────────────────┐
//	│  Layout: wrapped lines of styled cells   │ → Draw onto a Surface
//	├──────────────────────────────────────────┤
//	│  ANSI:   escaped, word-wrapped string    │ → stdout
//	└──────────────────────────────────────────┘
//
// Layout keeps the plain offset of every cell so that the caret and the
// selection can be placed on screen, and screen positions mapped back.
package renderer
