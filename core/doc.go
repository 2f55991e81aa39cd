// Package core defines the canonical data model for the document pipeline:
// the element stream produced by PDF extraction, the enriched table and
// image records produced by the enrichment stage, and the indexable nodes
// derived from them.
//
// Input records normalize themselves during JSON decoding so that the rest
// of the pipeline only ever sees one canonical schema. Node identifiers are
// deterministic functions of structural position (page, index, node type),
// which makes re-runs over identical input produce identical upsert keys.
package core
