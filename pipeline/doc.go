// Package pipeline orchestrates the document-indexing stages over a
// shared output directory.
//
// Each source document is identified by its stem (file name without
// extension). Stages communicate through JSON files: extraction writes
// the element stream under raw/, enrichment writes table and image
// payloads under enriched/, node building writes one file per
// granularity under nodes/, and the embed stage rewrites those files
// with vectors attached. Because node ids are deterministic and embedded
// nodes are skipped, any stage can be rerun to resume a partial run.
package pipeline
