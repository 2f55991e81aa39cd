package enrich

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"

	"github.com/poiesic/docindex/ai"
	"github.com/poiesic/docindex/core"
)

// Strategy selects how enrichment metadata is produced for a whole run.
type Strategy string

const (
	// StrategyLLM describes each cropped table or figure image with a
	// multimodal model.
	StrategyLLM Strategy = "llm"
	// StrategyHeuristic derives metadata from the raw data alone, with no
	// model calls.
	StrategyHeuristic Strategy = "heuristic"
)

// tableDescription is the JSON shape requested from the model.
type tableDescription struct {
	Title         string   `json:"title"`
	ColumnHeaders []string `json:"column_headers"`
}

// TableEnricher adds a title and canonical column headers to raw tables.
type TableEnricher struct {
	describer ai.Describer
	strategy  Strategy
	logger    *slog.Logger
}

// NewTableEnricher creates a table enricher. StrategyLLM requires a
// describer; StrategyHeuristic works without one.
func NewTableEnricher(strategy Strategy, describer ai.Describer) (*TableEnricher, error) {
	if strategy == StrategyLLM && describer == nil {
		return nil, ErrDescriberRequired
	}
	if strategy != StrategyLLM && strategy != StrategyHeuristic {
		return nil, fmt.Errorf("%w: %q", ErrUnknownStrategy, strategy)
	}
	return &TableEnricher{
		describer: describer,
		strategy:  strategy,
		logger:    slog.Default().With("component", "table-enricher", "strategy", string(strategy)),
	}, nil
}

// Enrich produces the enriched form of every table in the set. Under
// StrategyLLM, tables without a readable cropped image fall back to the
// heuristic form individually (local input recovery); a failed model call
// aborts the run.
func (e *TableEnricher) Enrich(ctx context.Context, set core.RawTableSet) (core.EnrichedTableSet, error) {
	out := core.EnrichedTableSet{Source: set.Source, Tables: make([]core.EnrichedTable, 0, len(set.Tables))}
	for _, raw := range set.Tables {
		table, err := e.enrichTable(ctx, raw)
		if err != nil {
			return core.EnrichedTableSet{}, err
		}
		out.Tables = append(out.Tables, table)
	}
	e.logger.Info("enriched tables", "source", set.Source, "tables", len(out.Tables))
	return out, nil
}

func (e *TableEnricher) enrichTable(ctx context.Context, raw core.RawTable) (core.EnrichedTable, error) {
	if e.strategy == StrategyHeuristic {
		return heuristicTable(raw), nil
	}

	imageData, err := readImage(raw.ImagePath)
	if err != nil {
		e.logger.Warn("table image unavailable, using heuristic metadata",
			"page", raw.Page, "table_index", raw.TableIndex, "err", err)
		return heuristicTable(raw), nil
	}

	var desc tableDescription
	if err := describeJSON(ctx, e.describer, imageData, mimeTypeFor(raw.ImagePath), tablePrompt, &desc); err != nil {
		return core.EnrichedTable{}, fmt.Errorf("table enrichment p%d t%d: %w", raw.Page, raw.TableIndex, err)
	}
	return core.EnrichTable(raw, desc.Title, desc.ColumnHeaders), nil
}

// heuristicTable uses the first raw row as headers and a positional title.
func heuristicTable(raw core.RawTable) core.EnrichedTable {
	return core.EnrichTable(raw, fmt.Sprintf("Table on page %d", raw.Page), nil)
}

// describeJSON runs one model call and decodes its JSON object response
// into v, attempting repair of malformed output before giving up.
func describeJSON(ctx context.Context, describer ai.Describer, imageData []byte, mimeType, prompt string, v any) error {
	content, err := describer.DescribeImage(ctx, imageData, mimeType, prompt)
	if err != nil {
		return err
	}

	object, err := extractJSONObject(content)
	if err != nil {
		return err
	}
	if err := json.Unmarshal([]byte(object), v); err == nil {
		return nil
	}
	if err := json.Unmarshal([]byte(repairJSON(object)), v); err != nil {
		return fmt.Errorf("malformed model response: %w", err)
	}
	return nil
}

func readImage(path string) ([]byte, error) {
	if path == "" {
		return nil, fmt.Errorf("no image path")
	}
	return os.ReadFile(path)
}

func mimeTypeFor(path string) string {
	for _, suffix := range []string{".jpg", ".jpeg"} {
		if len(path) >= len(suffix) && path[len(path)-len(suffix):] == suffix {
			return "image/jpeg"
		}
	}
	return "image/png"
}
