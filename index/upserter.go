package index

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/panjf2000/ants/v2"

	"github.com/poiesic/docindex/core"
)

// Upserter pushes embedded nodes into a Store, one worker per namespace.
type Upserter struct {
	store     Store
	pool      *ants.Pool
	batchSize int
	logger    *slog.Logger
}

// UpserterOption configures an Upserter.
type UpserterOption func(*Upserter) error

// WithUpsertBatchSize bounds how many records go into one Upsert call.
// Default is 100.
func WithUpsertBatchSize(size int) UpserterOption {
	return func(u *Upserter) error {
		if size > 0 {
			u.batchSize = size
		}
		return nil
	}
}

// WithPoolSize sets the worker pool size. Default equals the number of
// namespaces, so every namespace uploads concurrently.
func WithPoolSize(size int) UpserterOption {
	return func(u *Upserter) error {
		if size < 1 {
			size = 1
		}
		if u.pool != nil {
			u.pool.Release()
		}
		pool, err := ants.NewPool(size)
		if err != nil {
			return err
		}
		u.pool = pool
		return nil
	}
}

// WithUpserterLogger sets a custom logger. Default is slog.Default().
func WithUpserterLogger(logger *slog.Logger) UpserterOption {
	return func(u *Upserter) error {
		if logger != nil {
			u.logger = logger
		}
		return nil
	}
}

// NewUpserter creates an upserter over the given store.
func NewUpserter(store Store, opts ...UpserterOption) (*Upserter, error) {
	if store == nil {
		return nil, ErrStoreRequired
	}

	pool, err := ants.NewPool(len(Namespaces()))
	if err != nil {
		return nil, err
	}

	u := &Upserter{
		store:     store,
		pool:      pool,
		batchSize: 100,
		logger:    slog.Default().With("component", "upserter"),
	}
	for _, opt := range opts {
		if optErr := opt(u); optErr != nil {
			u.Release()
			return nil, optErr
		}
	}
	return u, nil
}

// Release frees the worker pool. The store is not closed.
func (u *Upserter) Release() {
	if u.pool != nil {
		u.pool.Release()
	}
}

// UpsertAll groups the embedded nodes by namespace and upserts each group
// concurrently. Nodes without embeddings are skipped with a warning; a
// node type with no namespace is an error. Returns the number of records
// written.
func (u *Upserter) UpsertAll(ctx context.Context, nodes []core.Node) (int, error) {
	grouped := make(map[string][]Record)
	skipped := 0
	for i := range nodes {
		if !nodes[i].HasEmbedding() {
			skipped++
			continue
		}
		ns, err := NamespaceFor(nodes[i].Metadata.NodeType)
		if err != nil {
			return 0, fmt.Errorf("node %s: %w", nodes[i].ID, err)
		}
		record, err := RecordFromNode(nodes[i])
		if err != nil {
			return 0, fmt.Errorf("node %s: %w", nodes[i].ID, err)
		}
		grouped[ns] = append(grouped[ns], record)
	}

	if skipped > 0 {
		u.logger.Warn("skipping nodes without embeddings", "count", skipped)
	}
	if len(grouped) == 0 {
		return 0, nil
	}

	var (
		wg       sync.WaitGroup
		mu       sync.Mutex
		firstErr error
		total    int
	)

	for ns, records := range grouped {
		wg.Add(1)
		submitErr := u.pool.Submit(func() {
			defer wg.Done()
			if err := u.upsertNamespace(ctx, ns, records); err != nil {
				mu.Lock()
				if firstErr == nil {
					firstErr = fmt.Errorf("namespace %s: %w", ns, err)
				}
				mu.Unlock()
				return
			}
			mu.Lock()
			total += len(records)
			mu.Unlock()
		})
		if submitErr != nil {
			wg.Done()
			mu.Lock()
			if firstErr == nil {
				firstErr = submitErr
			}
			mu.Unlock()
		}
	}
	wg.Wait()

	if firstErr != nil {
		return total, firstErr
	}

	u.logger.Info("upserted nodes", "records", total, "namespaces", len(grouped))
	return total, nil
}

// upsertNamespace writes one namespace's records in bounded batches.
func (u *Upserter) upsertNamespace(ctx context.Context, namespace string, records []Record) error {
	for start := 0; start < len(records); start += u.batchSize {
		end := min(start+u.batchSize, len(records))
		if err := u.store.Upsert(ctx, namespace, records[start:end]); err != nil {
			return err
		}
		u.logger.Debug("upserted batch", "namespace", namespace, "done", end, "total", len(records))
	}
	return nil
}
