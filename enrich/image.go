package enrich

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/poiesic/docindex/ai"
	"github.com/poiesic/docindex/core"
)

// imageDescription is the JSON shape requested from the model.
type imageDescription struct {
	Title       string `json:"title"`
	Description string `json:"description"`
}

// ImageEnricher adds a title and description to the image elements of a
// stream. Only elements whose extracted image file is readable produce an
// entry; the node builder drops image elements without one.
type ImageEnricher struct {
	describer ai.Describer
	strategy  Strategy
	logger    *slog.Logger
}

// NewImageEnricher creates an image enricher. StrategyLLM requires a
// describer; StrategyHeuristic works without one.
func NewImageEnricher(strategy Strategy, describer ai.Describer) (*ImageEnricher, error) {
	if strategy == StrategyLLM && describer == nil {
		return nil, ErrDescriberRequired
	}
	if strategy != StrategyLLM && strategy != StrategyHeuristic {
		return nil, fmt.Errorf("%w: %q", ErrUnknownStrategy, strategy)
	}
	return &ImageEnricher{
		describer: describer,
		strategy:  strategy,
		logger:    slog.Default().With("component", "image-enricher", "strategy", string(strategy)),
	}, nil
}

// Enrich produces one enriched record per image element that has a
// readable image file. A failed model call aborts the run; an unreadable
// file only skips that element.
func (e *ImageEnricher) Enrich(ctx context.Context, stream core.ElementStream) (core.EnrichedImageSet, error) {
	out := core.EnrichedImageSet{Source: stream.Source}
	for _, element := range stream.Elements {
		if element.Type != core.ElementImage {
			continue
		}

		page := element.Metadata.PageNumber
		entry := core.EnrichedImage{
			ElementID:   element.ElementID,
			Page:        page,
			ImagePath:   element.Metadata.ImagePath,
			Coordinates: element.Metadata.Coordinates,
		}

		switch e.strategy {
		case StrategyHeuristic:
			entry.Title = fmt.Sprintf("Image on page %d", page)

		case StrategyLLM:
			imageData, err := readImage(element.Metadata.ImagePath)
			if err != nil {
				e.logger.Debug("skipping image without readable file",
					"element_id", element.ElementID, "err", err)
				continue
			}
			var desc imageDescription
			if err := describeJSON(ctx, e.describer, imageData, mimeTypeFor(element.Metadata.ImagePath), imagePrompt, &desc); err != nil {
				return core.EnrichedImageSet{}, fmt.Errorf("image enrichment %s: %w", element.ElementID, err)
			}
			entry.Title = desc.Title
			entry.Description = desc.Description
		}

		out.Images = append(out.Images, entry)
	}
	e.logger.Info("enriched images", "source", stream.Source, "images", len(out.Images))
	return out, nil
}
