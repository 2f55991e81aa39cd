package main

import (
	"context"
	"fmt"
	"os"
	"strconv"

	"github.com/urfave/cli/v2"

	"github.com/poiesic/docindex/ai"
	"github.com/poiesic/docindex/ai/llm"
	"github.com/poiesic/docindex/embed"
	"github.com/poiesic/docindex/enrich"
	"github.com/poiesic/docindex/extract"
	"github.com/poiesic/docindex/index"
	badgerstore "github.com/poiesic/docindex/index/badger"
	"github.com/poiesic/docindex/index/pinecone"
	"github.com/poiesic/docindex/pipeline"
)

// loadPipelineConfig resolves the config file and CLI overrides.
func loadPipelineConfig(c *cli.Context) (pipeline.Config, error) {
	cfg, err := pipeline.LoadConfig(c.String("config"))
	if err != nil {
		return pipeline.Config{}, err
	}
	if output := c.String("output"); output != "" {
		cfg.OutputDir = output
	}
	return cfg, nil
}

// aiConfig builds the model configuration from config file values and the
// DOCINDEX_* environment.
func aiConfig(cfg pipeline.Config) *ai.Config {
	opts := []ai.ConfigOption{
		ai.WithAPIKey(os.Getenv("DOCINDEX_API_KEY")),
	}
	if provider := firstNonEmpty(os.Getenv("DOCINDEX_PROVIDER"), cfg.Embedding.Provider); provider != "" {
		opts = append(opts, ai.WithProvider(provider))
	}
	if model := firstNonEmpty(os.Getenv("DOCINDEX_MODEL"), cfg.Embedding.Model); model != "" {
		opts = append(opts, ai.WithEmbeddingModel(model))
	}
	if model := os.Getenv("DOCINDEX_VISION_MODEL"); model != "" {
		opts = append(opts, ai.WithVisionModel(model))
	}
	if baseURL := os.Getenv("DOCINDEX_BASE_URL"); baseURL != "" {
		opts = append(opts, ai.WithBaseURL(baseURL))
	}
	batchSize := cfg.Embedding.BatchSize
	if raw := os.Getenv("DOCINDEX_BATCH_SIZE"); raw != "" {
		if parsed, err := strconv.Atoi(raw); err == nil {
			batchSize = parsed
		}
	}
	if batchSize > 0 {
		opts = append(opts, ai.WithBatchSize(batchSize))
	}
	return ai.NewConfig(opts...)
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

// openStore opens the configured vector store backend.
func openStore(cfg pipeline.Config) (index.Store, error) {
	switch cfg.Index.Backend {
	case "badger":
		return badgerstore.Open(cfg.Index.Path, false)
	case "pinecone":
		host := firstNonEmpty(os.Getenv("PINECONE_INDEX_HOST"), cfg.Index.Host)
		return pinecone.New(host, os.Getenv("PINECONE_API_KEY"))
	default:
		return nil, fmt.Errorf("unknown index backend %q", cfg.Index.Backend)
	}
}

// newProvider creates the model provider from config and environment.
func newProvider(ctx context.Context, cfg pipeline.Config) (ai.Provider, error) {
	config := aiConfig(cfg)
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("model configuration: %w", err)
	}
	return llm.NewProvider(ctx, config)
}

// resolveStems returns the stems named as arguments, or every known stem
// when no arguments are given.
func resolveStems(c *cli.Context, layout pipeline.Layout) ([]string, error) {
	if c.Args().Len() > 0 {
		return c.Args().Slice(), nil
	}
	stems, err := layout.Stems()
	if err != nil {
		return nil, err
	}
	if len(stems) == 0 {
		return nil, fmt.Errorf("no extracted documents under %s; run extract first", layout.RawDir())
	}
	return stems, nil
}

func extractCommand(c *cli.Context) error {
	if c.Args().Len() == 0 {
		return fmt.Errorf("at least one PDF file is required")
	}
	cfg, err := loadPipelineConfig(c)
	if err != nil {
		return err
	}

	p, err := pipeline.New(pipeline.NewLayout(cfg.OutputDir),
		pipeline.WithExtractor(extract.NewExtractor()))
	if err != nil {
		return err
	}

	for _, path := range c.Args().Slice() {
		stem, err := p.Extract(path)
		if err != nil {
			return fmt.Errorf("extracting %s: %w", path, err)
		}
		fmt.Printf("extracted %s -> %s\n", path, stem)
	}
	return nil
}

// buildEnrichers creates both enrichers for the selected strategy. Only
// the llm strategy needs a model provider.
func buildEnrichers(ctx context.Context, cfg pipeline.Config, strategy enrich.Strategy) (*enrich.TableEnricher, *enrich.ImageEnricher, func() error, error) {
	var describer ai.Describer
	closeFn := func() error { return nil }

	if strategy == enrich.StrategyLLM {
		provider, err := newProvider(ctx, cfg)
		if err != nil {
			return nil, nil, nil, err
		}
		describer = provider.Describer()
		closeFn = provider.Close
	}

	tables, err := enrich.NewTableEnricher(strategy, describer)
	if err != nil {
		closeFn()
		return nil, nil, nil, err
	}
	images, err := enrich.NewImageEnricher(strategy, describer)
	if err != nil {
		closeFn()
		return nil, nil, nil, err
	}
	return tables, images, closeFn, nil
}

func enrichCommand(c *cli.Context) error {
	ctx := c.Context
	cfg, err := loadPipelineConfig(c)
	if err != nil {
		return err
	}

	strategy := enrich.Strategy(firstNonEmpty(c.String("strategy"), cfg.Enrichment.Strategy))
	tables, images, closeFn, err := buildEnrichers(ctx, cfg, strategy)
	if err != nil {
		return err
	}
	defer closeFn()

	layout := pipeline.NewLayout(cfg.OutputDir)
	p, err := pipeline.New(layout, pipeline.WithEnrichers(tables, images))
	if err != nil {
		return err
	}

	stems, err := resolveStems(c, layout)
	if err != nil {
		return err
	}
	for _, stem := range stems {
		if err := p.Enrich(ctx, stem); err != nil {
			return fmt.Errorf("enriching %s: %w", stem, err)
		}
	}
	return nil
}

func nodesCommand(c *cli.Context) error {
	cfg, err := loadPipelineConfig(c)
	if err != nil {
		return err
	}

	layout := pipeline.NewLayout(cfg.OutputDir)
	p, err := pipeline.New(layout)
	if err != nil {
		return err
	}

	stems, err := resolveStems(c, layout)
	if err != nil {
		return err
	}
	for _, stem := range stems {
		if err := p.BuildNodes(stem); err != nil {
			return fmt.Errorf("building nodes for %s: %w", stem, err)
		}
	}
	return nil
}

func embedCommand(c *cli.Context) error {
	ctx := c.Context
	cfg, err := loadPipelineConfig(c)
	if err != nil {
		return err
	}
	if batchSize := c.Int("batch-size"); batchSize > 0 {
		cfg.Embedding.BatchSize = batchSize
	}

	provider, err := newProvider(ctx, cfg)
	if err != nil {
		return err
	}
	defer provider.Close()

	processor, err := embed.NewProcessor(provider.Embedder(),
		embed.WithBatchSize(cfg.Embedding.BatchSize),
		embed.WithProgressWriter(os.Stderr))
	if err != nil {
		return err
	}

	layout := pipeline.NewLayout(cfg.OutputDir)
	p, err := pipeline.New(layout, pipeline.WithProcessor(processor))
	if err != nil {
		return err
	}

	stems, err := resolveStems(c, layout)
	if err != nil {
		return err
	}
	for _, stem := range stems {
		if err := p.EmbedNodes(ctx, stem); err != nil {
			return fmt.Errorf("embedding %s: %w", stem, err)
		}
	}
	return nil
}

func indexCommand(c *cli.Context) error {
	ctx := c.Context
	cfg, err := loadPipelineConfig(c)
	if err != nil {
		return err
	}

	store, err := openStore(cfg)
	if err != nil {
		return err
	}
	defer store.Close()

	upserter, err := index.NewUpserter(store)
	if err != nil {
		return err
	}
	defer upserter.Release()

	layout := pipeline.NewLayout(cfg.OutputDir)
	p, err := pipeline.New(layout, pipeline.WithUpserter(upserter))
	if err != nil {
		return err
	}

	stems, err := resolveStems(c, layout)
	if err != nil {
		return err
	}
	for _, stem := range stems {
		if err := p.IndexNodes(ctx, stem); err != nil {
			return fmt.Errorf("indexing %s: %w", stem, err)
		}
	}
	return nil
}

func runCommand(c *cli.Context) error {
	ctx := c.Context
	cfg, err := loadPipelineConfig(c)
	if err != nil {
		return err
	}

	tables, images, closeEnrichers, err := buildEnrichers(ctx, cfg, enrich.Strategy(cfg.Enrichment.Strategy))
	if err != nil {
		return err
	}
	defer closeEnrichers()

	provider, err := newProvider(ctx, cfg)
	if err != nil {
		return err
	}
	defer provider.Close()

	processor, err := embed.NewProcessor(provider.Embedder(),
		embed.WithBatchSize(cfg.Embedding.BatchSize),
		embed.WithProgressWriter(os.Stderr))
	if err != nil {
		return err
	}

	store, err := openStore(cfg)
	if err != nil {
		return err
	}
	defer store.Close()

	upserter, err := index.NewUpserter(store)
	if err != nil {
		return err
	}
	defer upserter.Release()

	layout := pipeline.NewLayout(cfg.OutputDir)
	p, err := pipeline.New(layout,
		pipeline.WithEnrichers(tables, images),
		pipeline.WithProcessor(processor),
		pipeline.WithUpserter(upserter))
	if err != nil {
		return err
	}

	stems, err := resolveStems(c, layout)
	if err != nil {
		return err
	}
	for _, stem := range stems {
		if err := p.Run(ctx, stem); err != nil {
			return fmt.Errorf("document %s: %w", stem, err)
		}
	}
	return nil
}

func searchCommand(c *cli.Context) error {
	ctx := c.Context
	if c.Args().Len() != 1 {
		return fmt.Errorf("exactly one query string is required")
	}
	query := c.Args().First()

	cfg, err := loadPipelineConfig(c)
	if err != nil {
		return err
	}

	provider, err := newProvider(ctx, cfg)
	if err != nil {
		return err
	}
	defer provider.Close()

	store, err := openStore(cfg)
	if err != nil {
		return err
	}
	defer store.Close()

	vector, err := provider.Embedder().EmbedText(ctx, query)
	if err != nil {
		return fmt.Errorf("embedding query: %w", err)
	}

	matches, err := store.Query(ctx, c.String("namespace"), vector, c.Int("top-k"))
	if err != nil {
		return err
	}
	if len(matches) == 0 {
		fmt.Println("no matches")
		return nil
	}

	for i, match := range matches {
		fmt.Printf("%d. %s (score %.4f)\n", i+1, match.ID, match.Score)
		if page := match.Metadata["page"]; page != "" {
			fmt.Printf("   page %s, %s\n", page, match.Metadata["node_type"])
		}
		if text := match.Metadata["text"]; text != "" {
			fmt.Printf("   %s\n", text)
		}
	}
	return nil
}
