// Package enrich produces descriptive metadata for extracted tables and
// images: a title and canonical column headers per table, a title and
// description per image.
//
// Two strategies exist, selected once per run: StrategyLLM asks a
// multimodal model to describe the cropped table or figure image, while
// StrategyHeuristic derives metadata from the raw data alone. The
// strategies are never interleaved per element; a run is either fully
// model-driven or fully heuristic, which keeps output predictable.
package enrich
