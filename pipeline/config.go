package pipeline

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// EnrichmentConfig selects the enrichment strategy for a run.
type EnrichmentConfig struct {
	// Strategy is "llm" or "heuristic". The choice applies to the whole
	// run; strategies are never mixed per element.
	Strategy string `yaml:"strategy"`
}

// EmbeddingConfig configures the embedding stage.
type EmbeddingConfig struct {
	Provider  string `yaml:"provider"`
	Model     string `yaml:"model"`
	BatchSize int    `yaml:"batch_size"`
}

// IndexConfig selects and configures the vector store.
type IndexConfig struct {
	// Backend is "badger" or "pinecone".
	Backend string `yaml:"backend"`
	// Path is the badger database directory.
	Path string `yaml:"path"`
	// Host is the pinecone index host. The api key comes from the
	// environment, never from the config file.
	Host string `yaml:"host"`
}

// Config is the pipeline configuration file.
type Config struct {
	SourceDir  string           `yaml:"source_dir"`
	OutputDir  string           `yaml:"output_dir"`
	Enrichment EnrichmentConfig `yaml:"enrichment"`
	Embedding  EmbeddingConfig  `yaml:"embedding"`
	Index      IndexConfig      `yaml:"index"`
}

// DefaultConfig returns the configuration used when no file is given.
func DefaultConfig() Config {
	return Config{
		SourceDir: "docs",
		OutputDir: "output",
		Enrichment: EnrichmentConfig{
			Strategy: "heuristic",
		},
		Embedding: EmbeddingConfig{
			Provider:  "openai",
			Model:     "text-embedding-3-small",
			BatchSize: 100,
		},
		Index: IndexConfig{
			Backend: "badger",
			Path:    "output/index",
		},
	}
}

// LoadConfig reads a YAML config file, filling unset fields from
// DefaultConfig. An empty path returns the defaults.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, err
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("parsing %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

// Validate checks the enumerated fields.
func (c Config) Validate() error {
	switch c.Enrichment.Strategy {
	case "llm", "heuristic":
	default:
		return fmt.Errorf("unknown enrichment strategy %q", c.Enrichment.Strategy)
	}
	switch c.Index.Backend {
	case "badger", "pinecone":
	default:
		return fmt.Errorf("unknown index backend %q", c.Index.Backend)
	}
	if c.Embedding.BatchSize < 1 {
		return fmt.Errorf("embedding batch_size must be positive, got %d", c.Embedding.BatchSize)
	}
	return nil
}
