// Package lua runs sandboxed Lua scripts that extend the style registry.
//
// A style plugin calls mdinput.style once per style it contributes:
//
//	mdinput.style {
//	    name = "highlight",
//	    open = "==",
//	    close = "==",
//	    attribute = "background-color: #fff3bf;",
//	}
//
// Fields mirror style.Definition: name, open, close, content (a Go regular
// expression for the inner text), word_start and attribute. Plugin styles
// rank below the built-in styles, in script order.
//
// Scripts run with only the base, table, string and math libraries.
// dofile, loadfile, load, loadstring and require are removed, and every
// execution is bounded by a timeout.
package lua
