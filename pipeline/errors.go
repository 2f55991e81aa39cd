package pipeline

import "errors"

var (
	// ErrProcessorRequired is returned when the embed stage runs without
	// an embedding processor.
	ErrProcessorRequired = errors.New("embedding processor is required")

	// ErrUpserterRequired is returned when the index stage runs without
	// an upserter.
	ErrUpserterRequired = errors.New("upserter is required")

	// ErrExtractorRequired is returned when the extract stage runs
	// without an extractor.
	ErrExtractorRequired = errors.New("extractor is required")

	// ErrEnricherRequired is returned when the enrich stage runs without
	// its enrichers.
	ErrEnricherRequired = errors.New("enrichers are required")
)
