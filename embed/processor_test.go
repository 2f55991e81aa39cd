package embed

import (
	"bytes"
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/poiesic/docindex/ai/mock"
	"github.com/poiesic/docindex/core"
)

func testNodes(texts ...string) []core.Node {
	nodes := make([]core.Node, len(texts))
	for i, text := range texts {
		nodes[i] = core.Node{
			ID:   core.ParagraphID(1, i),
			Text: text,
			Metadata: core.NodeMetadata{
				NodeType: core.NodeParagraph,
				Page:     1,
			},
		}
	}
	return nodes
}

func TestNewProcessor_RequiresEmbedder(t *testing.T) {
	_, err := NewProcessor(nil)
	assert.ErrorIs(t, err, ErrEmbedderRequired)
}

func TestProcessor_EmbedsAllNodes(t *testing.T) {
	embedder := mock.NewEmbedder()
	processor, err := NewProcessor(embedder, WithBatchDelay(0))
	require.NoError(t, err)

	nodes := testNodes("first paragraph", "second paragraph", "third paragraph")
	out, err := processor.Embed(context.Background(), nodes)
	require.NoError(t, err)

	require.Len(t, out, len(nodes))
	for i, node := range out {
		assert.True(t, node.HasEmbedding(), "node %d missing embedding", i)
		assert.Len(t, node.Embedding, mock.DefaultDimension)
		assert.Equal(t, nodes[i].ID, node.ID)
		assert.Equal(t, nodes[i].Text, node.Text)
	}
	assert.Equal(t, 1, embedder.CallCount())
}

func TestProcessor_DoesNotMutateInput(t *testing.T) {
	embedder := mock.NewEmbedder()
	processor, err := NewProcessor(embedder, WithBatchDelay(0))
	require.NoError(t, err)

	nodes := testNodes("alpha")
	_, err = processor.Embed(context.Background(), nodes)
	require.NoError(t, err)

	assert.False(t, nodes[0].HasEmbedding())
}

func TestProcessor_SecondRunMakesNoCalls(t *testing.T) {
	embedder := mock.NewEmbedder()
	processor, err := NewProcessor(embedder, WithBatchDelay(0))
	require.NoError(t, err)

	nodes := testNodes("alpha", "beta")
	out, err := processor.Embed(context.Background(), nodes)
	require.NoError(t, err)
	assert.Equal(t, 1, embedder.CallCount())

	again, err := processor.Embed(context.Background(), out)
	require.NoError(t, err)
	assert.Equal(t, 1, embedder.CallCount(), "already-embedded nodes must not hit the model")
	assert.Equal(t, out, again)
}

func TestProcessor_EmbedsOnlyMissing(t *testing.T) {
	embedder := mock.NewEmbedder()
	processor, err := NewProcessor(embedder, WithBatchDelay(0))
	require.NoError(t, err)

	nodes := testNodes("alpha", "beta", "gamma")
	nodes[1].Embedding = []float32{0.1, 0.2}

	out, err := processor.Embed(context.Background(), nodes)
	require.NoError(t, err)

	batches := embedder.Batches()
	require.Len(t, batches, 1)
	assert.Equal(t, []string{"alpha", "gamma"}, batches[0])
	assert.Equal(t, []float32{0.1, 0.2}, out[1].Embedding)
}

func TestProcessor_RespectsBatchSize(t *testing.T) {
	embedder := mock.NewEmbedder()
	processor, err := NewProcessor(embedder, WithBatchSize(2), WithBatchDelay(0))
	require.NoError(t, err)

	nodes := testNodes("a", "b", "c", "d", "e")
	_, err = processor.Embed(context.Background(), nodes)
	require.NoError(t, err)

	batches := embedder.Batches()
	require.Len(t, batches, 3)
	assert.Len(t, batches[0], 2)
	assert.Len(t, batches[1], 2)
	assert.Len(t, batches[2], 1)
}

func TestProcessor_SubstitutesEmptyText(t *testing.T) {
	embedder := mock.NewEmbedder()
	processor, err := NewProcessor(embedder, WithBatchDelay(0))
	require.NoError(t, err)

	nodes := testNodes("alpha", "", "gamma")
	out, err := processor.Embed(context.Background(), nodes)
	require.NoError(t, err)

	batches := embedder.Batches()
	require.Len(t, batches, 1)
	assert.Equal(t, []string{"alpha", " ", "gamma"}, batches[0])
	assert.True(t, out[1].HasEmbedding())
	assert.Empty(t, out[1].Text, "substitution must not leak into the node")
}

func TestProcessor_RetriesRateLimit(t *testing.T) {
	embedder := mock.NewEmbedder()
	failures := 2
	embedder.EmbedTextsFunc = func(ctx context.Context, texts []string) ([][]float32, error) {
		if failures > 0 {
			failures--
			return nil, errors.New("429 Too Many Requests")
		}
		vectors := make([][]float32, len(texts))
		for i := range texts {
			vectors[i] = []float32{1, 2, 3}
		}
		return vectors, nil
	}

	processor, err := NewProcessor(embedder,
		WithBatchDelay(0),
		WithBaseDelay(time.Millisecond),
	)
	require.NoError(t, err)

	out, err := processor.Embed(context.Background(), testNodes("alpha"))
	require.NoError(t, err)
	assert.Equal(t, 3, embedder.CallCount())
	assert.True(t, out[0].HasEmbedding())
}

func TestProcessor_PermanentErrorNotRetried(t *testing.T) {
	embedder := mock.NewEmbedder()
	embedder.EmbedTextsFunc = func(ctx context.Context, texts []string) ([][]float32, error) {
		return nil, errors.New("invalid api key")
	}

	processor, err := NewProcessor(embedder, WithBatchDelay(0), WithBaseDelay(time.Millisecond))
	require.NoError(t, err)

	_, err = processor.Embed(context.Background(), testNodes("alpha"))
	require.Error(t, err)
	assert.Equal(t, 1, embedder.CallCount())
}

func TestProcessor_CountMismatch(t *testing.T) {
	embedder := mock.NewEmbedder()
	embedder.EmbedTextsFunc = func(ctx context.Context, texts []string) ([][]float32, error) {
		return [][]float32{{1, 2}}, nil
	}

	processor, err := NewProcessor(embedder, WithBatchDelay(0))
	require.NoError(t, err)

	_, err = processor.Embed(context.Background(), testNodes("alpha", "beta"))
	assert.ErrorIs(t, err, ErrCountMismatch)
}

func TestProcessor_DimensionMismatch(t *testing.T) {
	embedder := mock.NewEmbedder()
	embedder.EmbedTextsFunc = func(ctx context.Context, texts []string) ([][]float32, error) {
		return [][]float32{{1, 2, 3}, {1, 2}}, nil
	}

	processor, err := NewProcessor(embedder, WithBatchDelay(0))
	require.NoError(t, err)

	_, err = processor.Embed(context.Background(), testNodes("alpha", "beta"))
	assert.ErrorIs(t, err, ErrDimensionMismatch)
}

func TestProcessor_PinnedDimension(t *testing.T) {
	embedder := mock.NewEmbedder()
	processor, err := NewProcessor(embedder, WithBatchDelay(0), WithDimension(16))
	require.NoError(t, err)

	_, err = processor.Embed(context.Background(), testNodes("alpha"))
	assert.ErrorIs(t, err, ErrDimensionMismatch)
}

func TestProcessor_ContextCancellation(t *testing.T) {
	embedder := mock.NewEmbedder()
	processor, err := NewProcessor(embedder,
		WithBatchSize(1),
		WithBatchDelay(time.Minute),
	)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		time.Sleep(50 * time.Millisecond)
		cancel()
	}()

	_, err = processor.Embed(ctx, testNodes("alpha", "beta"))
	assert.ErrorIs(t, err, context.Canceled)
}

func TestRetryTransient_ExhaustsAttempts(t *testing.T) {
	calls := 0
	err := retryTransient(context.Background(), func() error {
		calls++
		return errors.New("rate limit exceeded")
	}, isRateLimited, 3, time.Millisecond)

	require.Error(t, err)
	assert.Equal(t, 3, calls)
}

func TestIsRateLimited(t *testing.T) {
	assert.True(t, isRateLimited(errors.New("429 Too Many Requests")))
	assert.True(t, isRateLimited(errors.New("RESOURCE_EXHAUSTED: quota")))
	assert.True(t, isRateLimited(errors.New("provider rate limit hit")))
	assert.False(t, isRateLimited(errors.New("invalid api key")))
	assert.False(t, isRateLimited(nil))
}

func TestProcessor_ReportsProgressPerBatch(t *testing.T) {
	embedder := mock.NewEmbedder()
	var buf bytes.Buffer
	processor, err := NewProcessor(embedder,
		WithBatchSize(2), WithBatchDelay(0), WithProgressWriter(&buf))
	require.NoError(t, err)

	_, err = processor.Embed(context.Background(), testNodes("a", "b", "c"))
	require.NoError(t, err)

	output := buf.String()
	assert.Contains(t, output, "2/3")
	assert.Contains(t, output, "3/3")
	assert.Contains(t, output, "100.0%")
}

func TestProcessor_NoProgressWhenNothingPending(t *testing.T) {
	embedder := mock.NewEmbedder()
	var buf bytes.Buffer
	processor, err := NewProcessor(embedder,
		WithBatchDelay(0), WithProgressWriter(&buf))
	require.NoError(t, err)

	nodes := testNodes("already done")
	nodes[0].Embedding = []float32{0.1, 0.2}
	_, err = processor.Embed(context.Background(), nodes)
	require.NoError(t, err)

	assert.Empty(t, buf.String())
	assert.Equal(t, 0, embedder.CallCount())
}

func TestProgressTracker(t *testing.T) {
	var buf bytes.Buffer
	tracker := NewProgressTracker(&buf, 10, 5)
	tracker.Start()
	tracker.Increment(5)
	tracker.Increment(5)
	tracker.Finish()

	output := buf.String()
	assert.Contains(t, output, "10/10")
	assert.Contains(t, output, "100.0%")
	assert.GreaterOrEqual(t, tracker.Elapsed(), time.Duration(0))
}
