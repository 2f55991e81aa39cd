package index

import "errors"

var (
	// ErrStoreRequired is returned when a nil store is passed to a constructor.
	ErrStoreRequired = errors.New("store is required")

	// ErrUnknownNodeType is returned when a node type has no namespace.
	ErrUnknownNodeType = errors.New("unknown node type")

	// ErrNoEmbedding is returned when a record is built from a node that
	// never went through the embedding stage.
	ErrNoEmbedding = errors.New("node has no embedding")
)
