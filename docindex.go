// Copyright 2026 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


// Package docindex turns PDF documents into a multi-granularity vector
// index: sections, paragraphs, sentences, images, table rows and full
// tables, each embedded and upserted under its own namespace. The Indexer
// is the high-level entry point; the subpackages expose the individual
// stages for callers that need finer control.
package docindex

import (
	"context"
	"log/slog"

	"github.com/poiesic/docindex/ai"
	"github.com/poiesic/docindex/ai/llm"
	"github.com/poiesic/docindex/embed"
	"github.com/poiesic/docindex/extract"
	"github.com/poiesic/docindex/index"
	"github.com/poiesic/docindex/index/badger"
	"github.com/poiesic/docindex/pipeline"
)

// Indexer wires the full pipeline: extraction, node building, embedding
// and indexing over one output directory and one vector store.
type Indexer struct {
	provider ai.Provider
	store    index.Store
	upserter *index.Upserter
	pipeline *pipeline.Pipeline
	logger   *slog.Logger
}

// IndexerOption configures an Indexer.
type IndexerOption func(*indexerOptions)

type indexerOptions struct {
	aiConfig *ai.Config
	provider ai.Provider
	store    index.Store
}

// WithAIConfig sets the model configuration used to build the provider.
func WithAIConfig(config *ai.Config) IndexerOption {
	return func(o *indexerOptions) { o.aiConfig = config }
}

// WithProvider injects a pre-built model provider, bypassing aiConfig.
func WithProvider(provider ai.Provider) IndexerOption {
	return func(o *indexerOptions) { o.provider = provider }
}

// WithStore injects a vector store. Default is a badger store under
// storePath.
func WithStore(store index.Store) IndexerOption {
	return func(o *indexerOptions) { o.store = store }
}

// NewIndexer creates an indexer writing stage files under outputDir and
// vectors into a badger store at storePath, unless WithStore overrides it.
func NewIndexer(outputDir, storePath string, opts ...IndexerOption) (*Indexer, error) {
	options := &indexerOptions{
		aiConfig: ai.DefaultConfig(),
	}
	for _, opt := range opts {
		opt(options)
	}

	provider := options.provider
	if provider == nil {
		var err error
		provider, err = llm.NewProvider(context.Background(), options.aiConfig)
		if err != nil {
			return nil, err
		}
	}

	store := options.store
	if store == nil {
		var err error
		store, err = badger.Open(storePath, false)
		if err != nil {
			provider.Close()
			return nil, err
		}
	}

	upserter, err := index.NewUpserter(store)
	if err != nil {
		store.Close()
		provider.Close()
		return nil, err
	}

	processor, err := embed.NewProcessor(provider.Embedder())
	if err != nil {
		upserter.Release()
		store.Close()
		provider.Close()
		return nil, err
	}

	p, err := pipeline.New(pipeline.NewLayout(outputDir),
		pipeline.WithExtractor(extract.NewExtractor()),
		pipeline.WithProcessor(processor),
		pipeline.WithUpserter(upserter))
	if err != nil {
		upserter.Release()
		store.Close()
		provider.Close()
		return nil, err
	}

	return &Indexer{
		provider: provider,
		store:    store,
		upserter: upserter,
		pipeline: p,
		logger:   slog.Default(),
	}, nil
}

// IndexDocument extracts, chunks, embeds and indexes one PDF.
func (i *Indexer) IndexDocument(ctx context.Context, pdfPath string) error {
	stem, err := i.pipeline.Extract(pdfPath)
	if err != nil {
		return err
	}
	return i.pipeline.Run(ctx, stem)
}

// IndexExtracted runs node building, embedding and indexing for a
// document whose element stream (and optional enriched files) already
// exist under the output directory.
func (i *Indexer) IndexExtracted(ctx context.Context, stem string) error {
	return i.pipeline.Run(ctx, stem)
}

// Search embeds the query and returns the topK nearest records in one
// namespace.
func (i *Indexer) Search(ctx context.Context, query, namespace string, topK int) ([]index.Match, error) {
	vector, err := i.provider.Embedder().EmbedText(ctx, query)
	if err != nil {
		return nil, err
	}
	return i.store.Query(ctx, namespace, vector, topK)
}

// Pipeline exposes the underlying stage runner.
func (i *Indexer) Pipeline() *pipeline.Pipeline {
	return i.pipeline
}

// Close releases the provider, upserter and store.
func (i *Indexer) Close() error {
	if err := i.provider.Close(); err != nil {
		i.logger.Error("error closing model provider", "err", err)
	}
	i.upserter.Release()
	if err := i.store.Close(); err != nil {
		i.logger.Error("error closing vector store", "err", err)
		return err
	}
	return nil
}
