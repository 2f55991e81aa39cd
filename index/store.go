package index

import "context"

// Match is one query hit from a vector store.
type Match struct {
	ID       string            `json:"id"`
	Score    float32           `json:"score"`
	Metadata map[string]string `json:"metadata,omitempty"`
}

// Store is a namespace-partitioned vector store. Upserting an existing id
// replaces the stored record.
type Store interface {
	// Upsert writes records into the given namespace.
	Upsert(ctx context.Context, namespace string, records []Record) error

	// Query returns the topK most similar records in the namespace,
	// ordered by descending score.
	Query(ctx context.Context, namespace string, vector []float32, topK int) ([]Match, error)

	// Close releases the underlying resources.
	Close() error
}
