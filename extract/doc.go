// Package extract decodes PDF files into element streams.
//
// Text is extracted page by page with ledongthuc/pdf and segmented into
// blocks, and each block is classified as a title or narrative text by
// line-shape heuristics. The resulting stream preserves document reading
// order, which downstream node building relies on to assign elements to
// sections. Richer extractors (layout models, OCR) can produce the same
// stream shape out of band; this package covers the pure-Go path.
package extract
