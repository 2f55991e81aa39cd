// Package embed attaches embedding vectors to nodes.
//
// The Processor is idempotent: nodes that already carry a vector are
// skipped, so an aborted run can be re-invoked safely and a second run
// over fully embedded input performs zero model calls. Remaining texts
// are sent in bounded batches; rate-limit failures retry with exponential
// backoff while any other failure aborts the stage immediately.
package embed
