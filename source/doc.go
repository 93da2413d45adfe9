// Package source locates ontology documents on disk and watches them for
// changes.
//
// ResolveFiles expands doublestar glob patterns, Load reads the matched
// documents and Watcher emits debounced, content-hash filtered change
// events so that rewriting a file with identical bytes triggers nothing.
package source
