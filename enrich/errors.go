package enrich

import "errors"

var (
	// ErrDescriberRequired is returned when StrategyLLM is selected
	// without a describer.
	ErrDescriberRequired = errors.New("describer required for llm strategy")

	// ErrUnknownStrategy is returned for a strategy outside the two
	// supported variants.
	ErrUnknownStrategy = errors.New("unknown enrichment strategy")
)
