package embed

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/poiesic/docindex/ai"
	"github.com/poiesic/docindex/core"
)

// Processor attaches embeddings to nodes in bounded batches.
type Processor struct {
	embedder       ai.Embedder
	batchSize      int
	maxAttempts    int
	baseDelay      time.Duration
	batchDelay     time.Duration
	dimension      int
	progressWriter io.Writer
	logger         *slog.Logger
}

// Option configures a Processor.
type Option func(*Processor)

// WithBatchSize bounds how many texts are embedded per model call.
// Default is 100.
func WithBatchSize(size int) Option {
	return func(p *Processor) {
		if size > 0 {
			p.batchSize = size
		}
	}
}

// WithMaxAttempts sets the retry ceiling for rate-limited batches.
// Default is 5.
func WithMaxAttempts(attempts int) Option {
	return func(p *Processor) {
		if attempts > 0 {
			p.maxAttempts = attempts
		}
	}
}

// WithBaseDelay sets the base delay for exponential backoff.
// Default is 1s.
func WithBaseDelay(delay time.Duration) Option {
	return func(p *Processor) {
		if delay > 0 {
			p.baseDelay = delay
		}
	}
}

// WithBatchDelay sets the fixed pause between successive batches,
// respecting provider throughput limits. Default is 2s.
func WithBatchDelay(delay time.Duration) Option {
	return func(p *Processor) {
		if delay >= 0 {
			p.batchDelay = delay
		}
	}
}

// WithDimension pins the expected vector dimensionality. Zero (the
// default) accepts whatever the first batch returns and enforces it for
// the rest of the run.
func WithDimension(dim int) Option {
	return func(p *Processor) {
		if dim > 0 {
			p.dimension = dim
		}
	}
}

// WithProgressWriter enables per-batch progress reporting to w,
// typically os.Stderr. Default is no reporting.
func WithProgressWriter(w io.Writer) Option {
	return func(p *Processor) {
		p.progressWriter = w
	}
}

// WithLogger sets a custom logger. Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(p *Processor) {
		if logger != nil {
			p.logger = logger
		}
	}
}

// NewProcessor creates an embedding processor.
func NewProcessor(embedder ai.Embedder, opts ...Option) (*Processor, error) {
	if embedder == nil {
		return nil, ErrEmbedderRequired
	}
	p := &Processor{
		embedder:    embedder,
		batchSize:   100,
		maxAttempts: 5,
		baseDelay:   time.Second,
		batchDelay:  2 * time.Second,
		logger:      slog.Default().With("component", "embed-processor"),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p, nil
}

// Embed returns the input nodes with embeddings attached. Nodes that
// already carry a vector are left untouched and trigger no model calls.
// Output length always equals input length; on success every output node
// carries a vector of consistent dimensionality.
func (p *Processor) Embed(ctx context.Context, nodes []core.Node) ([]core.Node, error) {
	out := make([]core.Node, len(nodes))
	copy(out, nodes)

	var pending []int
	for i := range out {
		if !out[i].HasEmbedding() {
			pending = append(pending, i)
		}
	}
	if len(pending) == 0 {
		p.logger.Debug("all nodes already embedded", "nodes", len(out))
		return out, nil
	}

	dimension := p.dimension
	p.logger.Info("embedding nodes", "pending", len(pending), "total", len(out), "batchSize", p.batchSize)

	var tracker *ProgressTracker
	if p.progressWriter != nil {
		tracker = NewProgressTracker(p.progressWriter, len(pending), 1)
		tracker.Start()
	}

	for start := 0; start < len(pending); start += p.batchSize {
		end := min(start+p.batchSize, len(pending))
		batch := pending[start:end]

		texts := make([]string, len(batch))
		for i, idx := range batch {
			texts[i] = out[idx].Text
			if texts[i] == "" {
				// Providers reject empty input.
				texts[i] = " "
			}
		}

		var vectors [][]float32
		err := retryTransient(ctx, func() error {
			var err error
			vectors, err = p.embedder.EmbedTexts(ctx, texts)
			return err
		}, isRateLimited, p.maxAttempts, p.baseDelay)
		if err != nil {
			return nil, fmt.Errorf("embedding batch at %d: %w", start, err)
		}

		if len(vectors) != len(batch) {
			return nil, fmt.Errorf("%w: expected %d, received %d", ErrCountMismatch, len(batch), len(vectors))
		}
		for i, vector := range vectors {
			if dimension == 0 {
				dimension = len(vector)
			}
			if len(vector) != dimension {
				return nil, fmt.Errorf("%w: expected %d, received %d", ErrDimensionMismatch, dimension, len(vector))
			}
			out[batch[i]].Embedding = vector
		}

		p.logger.Info("embedded batch", "done", end, "pending", len(pending))
		if tracker != nil {
			tracker.Increment(len(batch))
		}

		if end < len(pending) && p.batchDelay > 0 {
			timer := time.NewTimer(p.batchDelay)
			select {
			case <-ctx.Done():
				timer.Stop()
				return nil, ctx.Err()
			case <-timer.C:
			}
		}
	}

	if tracker != nil {
		tracker.Finish()
	}
	return out, nil
}
