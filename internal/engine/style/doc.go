// Package style provides the registry of inline markdown styles.
//
// Each Style pairs a delimiter pattern with Wrap and Unwrap functions and a
// presentation attribute that renderers turn into concrete markup:
//
//	reg := style.Default()
//	marked, _ := reg.WrapContent(style.Bold, "bold") // "*bold*"
//	reg.MustLookup(style.Bold).Unwrap(marked)        // "bold"
//
// # Precedence
//
// Styles are tried by the parser in the order they were added to the
// Builder. The built-in order is code, bold, italic, strike, mention, so a
// backtick span swallows any other delimiter inside it.
//
// # Extension
//
// Additional styles (for example from Lua plugins) are appended after the
// built-ins with NewRegistry. A Registry is immutable once built and is
// safe to share between goroutines.
package style
