package mock

import "github.com/poiesic/docindex/ai"

// Provider is a test double for ai.Provider bundling mock services.
type Provider struct {
	MockEmbedder  *Embedder
	MockDescriber *Describer
}

var _ ai.Provider = (*Provider)(nil)

// NewProvider creates a provider with fresh mock services.
func NewProvider() *Provider {
	return &Provider{
		MockEmbedder:  NewEmbedder(),
		MockDescriber: NewDescriber(""),
	}
}

// Embedder returns the mock embedder.
func (p *Provider) Embedder() ai.Embedder {
	return p.MockEmbedder
}

// Describer returns the mock describer.
func (p *Provider) Describer() ai.Describer {
	return p.MockDescriber
}

// Close is a no-op.
func (p *Provider) Close() error {
	return nil
}
