package nodes

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/poiesic/docindex/core"
)

// TextNodes holds the four correlated collections produced by one pass
// over an element stream.
type TextNodes struct {
	Sections   []core.Node
	Paragraphs []core.Node
	Sentences  []core.Node
	Images     []core.Node
}

// TextBuilder derives section, paragraph, sentence and image nodes from
// an element stream. It is a single-pass reducer: section membership is
// decided purely by stream order relative to Title elements.
type TextBuilder struct {
	splitter *Splitter
	logger   *slog.Logger
}

// NewTextBuilder creates a text node builder.
func NewTextBuilder(splitter *Splitter) (*TextBuilder, error) {
	if splitter == nil {
		return nil, fmt.Errorf("sentence splitter required")
	}
	return &TextBuilder{
		splitter: splitter,
		logger:   slog.Default().With("component", "text-builder"),
	}, nil
}

// sectionState is the reducer accumulator: the section currently being
// collected. An empty title is the legal "no title yet" state; such a
// run of elements still produces paragraph and sentence nodes but never
// a section node.
type sectionState struct {
	title    string
	page     int
	titleEl  *core.Element
	elements []core.Element
}

// Build runs the single forward pass over stream and returns all derived
// node collections. enrichedImages is keyed by element id; Image elements
// without an entry emit no node. An empty stream yields empty collections.
func (b *TextBuilder) Build(stream core.ElementStream, enrichedImages map[string]core.EnrichedImage) TextNodes {
	var out TextNodes
	var section sectionState

	for i := range stream.Elements {
		element := &stream.Elements[i]

		switch element.Type {
		case core.ElementTitle:
			if section.title != "" {
				if node, ok := b.buildSectionNode(section, stream.Source); ok {
					out.Sections = append(out.Sections, node)
				}
			}
			section = sectionState{
				title:   strings.TrimSpace(element.Text),
				page:    element.Metadata.PageNumber,
				titleEl: element,
			}

		case core.ElementNarrativeText:
			body := strings.TrimSpace(element.Text)
			if body == "" {
				continue
			}
			section.elements = append(section.elements, *element)

			paragraph := b.buildParagraphNode(element, body, section.title, stream.Source, len(out.Paragraphs))
			out.Paragraphs = append(out.Paragraphs, paragraph)
			out.Sentences = append(out.Sentences,
				b.buildSentenceNodes(element, body, section.title, stream.Source, paragraph.ID)...)

		case core.ElementImage:
			enriched, ok := enrichedImages[element.ElementID]
			if !ok {
				b.logger.Debug("skipping image without enrichment", "element_id", element.ElementID)
				continue
			}
			out.Images = append(out.Images,
				b.buildImageNode(element, enriched, section.title, stream.Source, len(out.Images)))
		}
	}

	if section.title != "" {
		if node, ok := b.buildSectionNode(section, stream.Source); ok {
			out.Sections = append(out.Sections, node)
		}
	}

	b.logger.Info("built text nodes",
		"source", stream.Source,
		"sections", len(out.Sections),
		"paragraphs", len(out.Paragraphs),
		"sentences", len(out.Sentences),
		"images", len(out.Images))
	return out
}

// buildSectionNode concatenates the section title and the trimmed text of
// every accumulated element, title first as a heading.
func (b *TextBuilder) buildSectionNode(section sectionState, source string) (core.Node, bool) {
	if section.title == "" {
		return core.Node{}, false
	}

	parts := []string{"## " + section.title}
	regions := make([]Region, 0, len(section.elements)+1)
	if section.titleEl != nil {
		regions = append(regions, Region{Page: section.titleEl.Metadata.PageNumber, Coordinates: section.titleEl.Metadata.Coordinates})
	}
	for _, element := range section.elements {
		text := strings.TrimSpace(element.Text)
		if text == "" {
			continue
		}
		parts = append(parts, text)
		regions = append(regions, Region{Page: element.Metadata.PageNumber, Coordinates: element.Metadata.Coordinates})
	}

	metadata := core.NodeMetadata{
		Source:       source,
		Page:         section.page,
		NodeType:     core.NodeSection,
		SectionTitle: section.title,
	}
	if box, ok := MergeRegions(regions)[section.page]; ok {
		metadata.BBox = box
	}

	return core.Node{
		ID:       core.SectionID(section.page, section.title),
		Text:     strings.Join(parts, "\n\n"),
		Metadata: metadata,
	}, true
}

func (b *TextBuilder) buildParagraphNode(element *core.Element, body, sectionTitle, source string, paragraphIndex int) core.Node {
	page := element.Metadata.PageNumber
	return core.Node{
		ID:   core.ParagraphID(page, paragraphIndex),
		Text: prefixWithTitle(sectionTitle, body),
		Metadata: core.NodeMetadata{
			Source:       source,
			Page:         page,
			NodeType:     core.NodeParagraph,
			SectionTitle: sectionTitle,
			Coordinates:  element.Metadata.Coordinates,
		},
	}
}

func (b *TextBuilder) buildSentenceNodes(element *core.Element, body, sectionTitle, source, paragraphID string) []core.Node {
	page := element.Metadata.PageNumber
	sentences := b.splitter.Split(body)
	nodes := make([]core.Node, 0, len(sentences))
	for i, sentence := range sentences {
		nodes = append(nodes, core.Node{
			ID:   core.SentenceID(paragraphID, i),
			Text: prefixWithTitle(sectionTitle, sentence),
			Metadata: core.NodeMetadata{
				Source:        source,
				Page:          page,
				NodeType:      core.NodeSentence,
				SectionTitle:  sectionTitle,
				ParagraphID:   paragraphID,
				SentenceIndex: core.IntPtr(i),
			},
		})
	}
	return nodes
}

func (b *TextBuilder) buildImageNode(element *core.Element, enriched core.EnrichedImage, sectionTitle, source string, imageIndex int) core.Node {
	page := element.Metadata.PageNumber
	text := enriched.Title
	if enriched.Description != "" {
		text = enriched.Title + ": " + enriched.Description
	}
	return core.Node{
		ID:   core.ImageID(page, imageIndex),
		Text: prefixWithTitle(sectionTitle, text),
		Metadata: core.NodeMetadata{
			Source:       source,
			Page:         page,
			NodeType:     core.NodeImage,
			SectionTitle: sectionTitle,
			Coordinates:  element.Metadata.Coordinates,
			ImagePath:    enriched.ImagePath,
		},
	}
}

// prefixWithTitle applies the uniform "{title}: {body}" retrieval prefix.
// Node text carries its section context so that a sentence or image hit
// remains meaningful on its own.
func prefixWithTitle(title, body string) string {
	if title == "" {
		return body
	}
	return title + ": " + body
}
