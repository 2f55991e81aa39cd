package embed

import "errors"

var (
	// ErrEmbedderRequired is returned when an embedder is not provided.
	ErrEmbedderRequired = errors.New("embedder required")

	// ErrCountMismatch is returned when the model returns a different
	// number of vectors than texts sent.
	ErrCountMismatch = errors.New("embedding count mismatch")

	// ErrDimensionMismatch is returned when a returned vector does not
	// match the expected dimensionality.
	ErrDimensionMismatch = errors.New("embedding dimension mismatch")
)
