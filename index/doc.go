// Package index routes embedded nodes into a vector store, one namespace
// per node granularity.
//
// A Store is any vector backend that can upsert and query records by
// namespace; badger and pinecone subpackages provide the two concrete
// implementations. The Upserter groups nodes by namespace and pushes the
// batches concurrently, one worker per namespace. Because node ids are
// deterministic, upserting is idempotent: re-running a document replaces
// its records instead of accumulating duplicates.
package index
