package pipeline

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/poiesic/docindex/core"
	"github.com/poiesic/docindex/embed"
	"github.com/poiesic/docindex/enrich"
	"github.com/poiesic/docindex/extract"
	"github.com/poiesic/docindex/index"
	"github.com/poiesic/docindex/nodes"
)

// Pipeline runs the indexing stages against a layout. Stage dependencies
// are optional at construction; a stage errors if run without its
// dependency, so a nodes-only pipeline needs no model or store.
type Pipeline struct {
	layout        Layout
	extractor     *extract.Extractor
	tableEnricher *enrich.TableEnricher
	imageEnricher *enrich.ImageEnricher
	textBuilder   *nodes.TextBuilder
	tableBuilder  *nodes.TableBuilder
	processor     *embed.Processor
	upserter      *index.Upserter
	logger        *slog.Logger
}

// Option configures a Pipeline.
type Option func(*Pipeline)

// WithExtractor enables the extract stage.
func WithExtractor(extractor *extract.Extractor) Option {
	return func(p *Pipeline) { p.extractor = extractor }
}

// WithEnrichers enables the enrich stage.
func WithEnrichers(tables *enrich.TableEnricher, images *enrich.ImageEnricher) Option {
	return func(p *Pipeline) {
		p.tableEnricher = tables
		p.imageEnricher = images
	}
}

// WithProcessor enables the embed stage.
func WithProcessor(processor *embed.Processor) Option {
	return func(p *Pipeline) { p.processor = processor }
}

// WithUpserter enables the index stage.
func WithUpserter(upserter *index.Upserter) Option {
	return func(p *Pipeline) { p.upserter = upserter }
}

// WithLogger sets a custom logger. Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(p *Pipeline) {
		if logger != nil {
			p.logger = logger
		}
	}
}

// New creates a pipeline over the given output layout.
func New(layout Layout, opts ...Option) (*Pipeline, error) {
	splitter, err := nodes.NewSplitter()
	if err != nil {
		return nil, err
	}
	textBuilder, err := nodes.NewTextBuilder(splitter)
	if err != nil {
		return nil, err
	}

	p := &Pipeline{
		layout:       layout,
		textBuilder:  textBuilder,
		tableBuilder: nodes.NewTableBuilder(),
		logger:       slog.Default().With("component", "pipeline"),
	}
	for _, opt := range opts {
		opt(p)
	}

	if err := layout.EnsureDirs(); err != nil {
		return nil, err
	}
	return p, nil
}

// Extract decodes one PDF into its element stream file and returns the
// document stem.
func (p *Pipeline) Extract(sourcePath string) (string, error) {
	if p.extractor == nil {
		return "", ErrExtractorRequired
	}

	stream, err := p.extractor.Extract(sourcePath)
	if err != nil {
		return "", err
	}

	stem := Stem(sourcePath)
	if err := writeJSON(p.layout.ElementsPath(stem), stream); err != nil {
		return "", err
	}
	return stem, nil
}

// Enrich produces the enriched table and image files for a stem. The raw
// table file is optional; without one only images are enriched.
func (p *Pipeline) Enrich(ctx context.Context, stem string) error {
	if p.tableEnricher == nil || p.imageEnricher == nil {
		return ErrEnricherRequired
	}

	var stream core.ElementStream
	if err := readJSON(p.layout.ElementsPath(stem), &stream); err != nil {
		return err
	}

	var rawTables core.RawTableSet
	found, err := readJSONOptional(p.layout.RawTablesPath(stem), &rawTables)
	if err != nil {
		return err
	}
	if found {
		enrichedTables, err := p.tableEnricher.Enrich(ctx, rawTables)
		if err != nil {
			return err
		}
		if err := writeJSON(p.layout.TablesPath(stem), enrichedTables); err != nil {
			return err
		}
	}

	enrichedImages, err := p.imageEnricher.Enrich(ctx, stream)
	if err != nil {
		return err
	}
	return writeJSON(p.layout.ImagesPath(stem), enrichedImages)
}

// BuildNodes derives all node granularities for one stem and writes one
// file per granularity. Missing enriched files are treated as empty.
func (p *Pipeline) BuildNodes(stem string) error {
	var stream core.ElementStream
	if err := readJSON(p.layout.ElementsPath(stem), &stream); err != nil {
		return err
	}

	var images core.EnrichedImageSet
	if _, err := readJSONOptional(p.layout.ImagesPath(stem), &images); err != nil {
		return err
	}
	var tables core.EnrichedTableSet
	if _, err := readJSONOptional(p.layout.TablesPath(stem), &tables); err != nil {
		return err
	}
	if tables.Source == "" {
		tables.Source = stream.Source
	}

	textNodes := p.textBuilder.Build(stream, images.ByElementID())
	tableNodes := p.tableBuilder.Build(tables)

	byDir := map[string][]core.Node{
		dirSections:       textNodes.Sections,
		dirParagraphs:     textNodes.Paragraphs,
		dirSentences:      textNodes.Sentences,
		dirImages:         textNodes.Images,
		dirTablesGranular: tableNodes.Rows,
		dirTablesFull:     tableNodes.Full,
	}
	total := 0
	for _, g := range granularityDirs {
		if err := writeJSON(p.layout.NodesPath(g, stem), byDir[g]); err != nil {
			return err
		}
		total += len(byDir[g])
	}

	p.logger.Info("built nodes", "stem", stem, "nodes", total)
	return nil
}

// EmbedNodes attaches embeddings to every node file of a stem, rewriting
// the files in place. Already-embedded nodes are skipped, so rerunning
// resumes instead of recomputing.
func (p *Pipeline) EmbedNodes(ctx context.Context, stem string) error {
	if p.processor == nil {
		return ErrProcessorRequired
	}

	for _, g := range granularityDirs {
		path := p.layout.NodesPath(g, stem)
		batch, err := readNodes(path)
		if err != nil {
			return err
		}
		if len(batch) == 0 {
			continue
		}

		embedded, err := p.processor.Embed(ctx, batch)
		if err != nil {
			return fmt.Errorf("embedding %s/%s: %w", g, stem, err)
		}
		if err := writeJSON(path, embedded); err != nil {
			return err
		}
	}
	return nil
}

// IndexNodes upserts every embedded node of a stem into the vector store.
func (p *Pipeline) IndexNodes(ctx context.Context, stem string) error {
	if p.upserter == nil {
		return ErrUpserterRequired
	}

	var all []core.Node
	for _, g := range granularityDirs {
		batch, err := readNodes(p.layout.NodesPath(g, stem))
		if err != nil {
			return err
		}
		all = append(all, batch...)
	}

	total, err := p.upserter.UpsertAll(ctx, all)
	if err != nil {
		return err
	}
	p.logger.Info("indexed nodes", "stem", stem, "records", total)
	return nil
}

// Run executes enrich, nodes, embed and index for one stem.
func (p *Pipeline) Run(ctx context.Context, stem string) error {
	if p.tableEnricher != nil && p.imageEnricher != nil {
		if err := p.Enrich(ctx, stem); err != nil {
			return err
		}
	}
	if err := p.BuildNodes(stem); err != nil {
		return err
	}
	if err := p.EmbedNodes(ctx, stem); err != nil {
		return err
	}
	return p.IndexNodes(ctx, stem)
}

// RunAll executes Run for every stem with an extracted element stream.
func (p *Pipeline) RunAll(ctx context.Context) error {
	stems, err := p.layout.Stems()
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
