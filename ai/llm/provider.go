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


package llm

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/poiesic/docindex/ai"
	"github.com/tmc/langchaingo/embeddings"
	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/googleai"
	"github.com/tmc/langchaingo/llms/ollama"
	"github.com/tmc/langchaingo/llms/openai"
)

// Provider implements ai.Provider for one of the supported backends.
type Provider struct {
	config    *ai.Config
	embedder  *Embedder
	describer *Describer
	logger    *slog.Logger
}

// NewProvider creates a provider for the backend selected in config.
// The context is used for backend client initialization only.
func NewProvider(ctx context.Context, config *ai.Config) (ai.Provider, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	embedClient, visionClient, err := newClients(ctx, config)
	if err != nil {
		return nil, err
	}

	wrapped, err := embeddings.NewEmbedder(embedClient,
		embeddings.WithStripNewLines(true),
		embeddings.WithBatchSize(config.BatchSize),
	)
	if err != nil {
		return nil, err
	}

	return &Provider{
		config:    config,
		embedder:  newEmbedder(wrapped),
		describer: newDescriber(visionClient),
		logger:    slog.Default().With("component", "llm-provider", "provider", config.Provider),
	}, nil
}

// newClients builds the backend clients for embedding and vision. OpenAI
// and Ollama need separate clients because the model name is fixed per
// client; Google AI carries both defaults on one client.
func newClients(ctx context.Context, config *ai.Config) (embed embeddings.EmbedderClient, vision llms.Model, err error) {
	switch config.Provider {
	case ai.ProviderOpenAI:
		token := config.APIKey
		if token == "" {
			// Local OpenAI-compatible servers ignore the token but the
			// client requires one.
			token = "none"
		}
		embedOpts := []openai.Option{
			openai.WithToken(token),
			openai.WithEmbeddingModel(config.EmbeddingModel),
		}
		visionOpts := []openai.Option{
			openai.WithToken(token),
			openai.WithModel(config.VisionModel),
		}
		if config.BaseURL != "" {
			embedOpts = append(embedOpts, openai.WithBaseURL(config.BaseURL))
			visionOpts = append(visionOpts, openai.WithBaseURL(config.BaseURL))
		}
		embedClient, err := openai.New(embedOpts...)
		if err != nil {
			return nil, nil, err
		}
		visionClient, err := openai.New(visionOpts...)
		if err != nil {
			return nil, nil, err
		}
		return embedClient, visionClient, nil

	case ai.ProviderGoogleAI:
		client, err := googleai.New(ctx,
			googleai.WithAPIKey(config.APIKey),
			googleai.WithDefaultModel(config.VisionModel),
			googleai.WithDefaultEmbeddingModel(config.EmbeddingModel),
		)
		if err != nil {
			return nil, nil, err
		}
		return client, client, nil

	case ai.ProviderOllama:
		embedOpts := []ollama.Option{ollama.WithModel(config.EmbeddingModel)}
		visionOpts := []ollama.Option{ollama.WithModel(config.VisionModel)}
		if config.BaseURL != "" {
			embedOpts = append(embedOpts, ollama.WithServerURL(config.BaseURL))
			visionOpts = append(visionOpts, ollama.WithServerURL(config.BaseURL))
		}
		embedClient, err := ollama.New(embedOpts...)
		if err != nil {
			return nil, nil, err
		}
		visionClient, err := ollama.New(visionOpts...)
		if err != nil {
			return nil, nil, err
		}
		return embedClient, visionClient, nil

	default:
		return nil, nil, fmt.Errorf("unknown provider %q", config.Provider)
	}
}

// Embedder returns the text embedding service.
func (p *Provider) Embedder() ai.Embedder {
	return p.embedder
}

// Describer returns the multimodal image description service.
func (p *Provider) Describer() ai.Describer {
	return p.describer
}

// Close releases resources held by the provider.
// Currently a no-op as the underlying clients don't require explicit cleanup.
func (p *Provider) Close() error {
	p.logger.Debug("closing provider")
	return nil
}
