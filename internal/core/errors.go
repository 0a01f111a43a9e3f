package core

import "errors"

var (
	// ErrModelNotFound indicates that a voice model ident is not registered.
	ErrModelNotFound = errors.New("model not found")

	// ErrInternalInconsistency reports an invariant violation between
	// pipeline stages, such as a feature row count that does not match the
	// word-to-phoneme bookkeeping. It points at a bug or at analyzer output
	// the phoneme tables cannot represent, not at bad caller input.
	ErrInternalInconsistency = errors.New("internal consistency violation")
)
