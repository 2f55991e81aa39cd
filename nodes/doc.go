// Package nodes turns extracted document data into indexable nodes at
// multiple granularities.
//
// TextBuilder consumes the element stream in a single forward pass,
// grouping elements into sections at Title boundaries and emitting four
// correlated collections: sections, paragraphs, sentences and images.
// TableBuilder maps enriched tables to per-row nodes and full-table
// markdown nodes. Both builders recover locally from malformed input:
// a bad element, table or row is skipped, never fatal.
package nodes
