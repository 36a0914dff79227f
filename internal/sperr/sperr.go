// Package sperr defines the error kinds SparkTUI's components surface to
// their callers, per the domain error taxonomy.
package sperr

import "errors"

// Sentinel kinds. Components wrap these with fmt.Errorf("...: %w", ...) so
// callers can errors.Is against the kind without caring about the message.
var (
	// ErrCapacity: node store, text pool, or event ring is full.
	ErrCapacity = errors.New("sparktui: capacity exceeded")

	// ErrInvalidTree: a node's parent_index violates topological order,
	// or a cycle was found while walking parent links.
	ErrInvalidTree = errors.New("sparktui: invalid tree")

	// ErrTerminalIO: stdin/stdout failure, or raw/alt-screen mode could
	// not be entered.
	ErrTerminalIO = errors.New("sparktui: terminal I/O failure")

	// ErrReactiveCycle: a derived transitively reads itself.
	ErrReactiveCycle = errors.New("sparktui: reactive cycle detected")

	// ErrDecode: a malformed input escape sequence was discarded.
	ErrDecode = errors.New("sparktui: escape sequence decode error")
)
