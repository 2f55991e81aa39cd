package nodes

import (
	"strings"
	"testing"

	"github.com/poiesic/docindex/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestTextBuilder(t *testing.T) *TextBuilder {
	t.Helper()
	splitter, err := NewSplitter()
	require.NoError(t, err)
	builder, err := NewTextBuilder(splitter)
	require.NoError(t, err)
	return builder
}

func title(id, text string, page int) core.Element {
	return core.Element{Type: core.ElementTitle, ElementID: id, Text: text,
		Metadata: core.ElementMetadata{PageNumber: page}}
}

func narrative(id, text string, page int) core.Element {
	return core.Element{Type: core.ElementNarrativeText, ElementID: id, Text: text,
		Metadata: core.ElementMetadata{PageNumber: page}}
}

func image(id string, page int) core.Element {
	return core.Element{Type: core.ElementImage, ElementID: id,
		Metadata: core.ElementMetadata{PageNumber: page}}
}

func TestTextBuilder_EmptyStream(t *testing.T) {
	builder := newTestTextBuilder(t)
	out := builder.Build(core.ElementStream{Source: "empty.pdf"}, nil)
	assert.Empty(t, out.Sections)
	assert.Empty(t, out.Paragraphs)
	assert.Empty(t, out.Sentences)
	assert.Empty(t, out.Images)
}

func TestTextBuilder_TitledSectionScenario(t *testing.T) {
	builder := newTestTextBuilder(t)
	stream := core.ElementStream{
		Source: "policy.pdf",
		Elements: []core.Element{
			title("t1", "Coverage", 1),
			narrative("n1", "Ward charges apply.", 1),
			image("img1", 1),
		},
	}
	enriched := map[string]core.EnrichedImage{
		"img1": {ElementID: "img1", Title: "Figure 1", Description: "Ward chart", ImagePath: "x.png"},
	}

	out := builder.Build(stream, enriched)

	require.Len(t, out.Sections, 1)
	section := out.Sections[0]
	assert.Contains(t, section.Text, "Coverage")
	assert.Contains(t, section.Text, "Ward charges apply.")
	assert.Equal(t, core.SectionID(1, "Coverage"), section.ID)
	assert.Equal(t, core.NodeSection, section.Metadata.NodeType)
	assert.Equal(t, "Coverage", section.Metadata.SectionTitle)

	require.Len(t, out.Paragraphs, 1)
	paragraph := out.Paragraphs[0]
	assert.Equal(t, "para_p1_0", paragraph.ID)
	assert.Equal(t, "Coverage: Ward charges apply.", paragraph.Text)

	require.Len(t, out.Sentences, 1)
	sentence := out.Sentences[0]
	assert.Equal(t, "para_p1_0_s0", sentence.ID)
	assert.Contains(t, sentence.Text, "Ward charges apply.")
	assert.Equal(t, paragraph.ID, sentence.Metadata.ParagraphID)
	require.NotNil(t, sentence.Metadata.SentenceIndex)
	assert.Equal(t, 0, *sentence.Metadata.SentenceIndex)

	require.Len(t, out.Images, 1)
	img := out.Images[0]
	assert.Equal(t, "image_p1_0", img.ID)
	assert.Contains(t, img.Text, "Figure 1")
	assert.Contains(t, img.Text, "Ward chart")
	assert.Equal(t, "x.png", img.Metadata.ImagePath)
}

func TestTextBuilder_NoTitles_ProducesNoSections(t *testing.T) {
	builder := newTestTextBuilder(t)
	stream := core.ElementStream{
		Source: "untitled.pdf",
		Elements: []core.Element{
			narrative("n1", "First paragraph here.", 1),
			narrative("n2", "Second paragraph. It has two sentences.", 2),
		},
	}

	out := builder.Build(stream, nil)

	assert.Empty(t, out.Sections)
	require.Len(t, out.Paragraphs, 2)
	// Untitled section: no prefix applied.
	assert.Equal(t, "First paragraph here.", out.Paragraphs[0].Text)
	assert.Equal(t, "", out.Paragraphs[0].Metadata.SectionTitle)
	assert.Len(t, out.Sentences, 3)
}

func TestTextBuilder_SentenceCountMatchesSplitter(t *testing.T) {
	builder := newTestTextBuilder(t)
	body := "The policy covers ICU stays. Limits apply per year. Claims are reviewed monthly."
	stream := core.ElementStream{
		Source:   "doc.pdf",
		Elements: []core.Element{narrative("n1", body, 1)},
	}

	out := builder.Build(stream, nil)

	require.Len(t, out.Paragraphs, 1)
	want := builder.splitter.Split(body)
	require.Len(t, out.Sentences, len(want))
	for i, node := range out.Sentences {
		assert.Equal(t, core.SentenceID(out.Paragraphs[0].ID, i), node.ID)
		assert.Equal(t, out.Paragraphs[0].ID, node.Metadata.ParagraphID)
	}
}

func TestTextBuilder_SectionBoundaries(t *testing.T) {
	builder := newTestTextBuilder(t)
	stream := core.ElementStream{
		Source: "doc.pdf",
		Elements: []core.Element{
			narrative("n0", "Preamble before any title.", 1),
			title("t1", "Coverage", 1),
			narrative("n1", "Covered items listed below.", 1),
			title("t2", "Exclusions", 2),
			narrative("n2", "Not covered items.", 2),
		},
	}

	out := builder.Build(stream, nil)

	require.Len(t, out.Sections, 2)
	assert.Contains(t, out.Sections[0].Text, "Covered items listed below.")
	assert.NotContains(t, out.Sections[0].Text, "Preamble")
	assert.NotContains(t, out.Sections[0].Text, "Not covered")
	assert.Contains(t, out.Sections[1].Text, "Not covered items.")
	assert.Equal(t, 2, out.Sections[1].Metadata.Page)

	require.Len(t, out.Paragraphs, 3)
	assert.Equal(t, "", out.Paragraphs[0].Metadata.SectionTitle)
	assert.Equal(t, "Coverage", out.Paragraphs[1].Metadata.SectionTitle)
	assert.Equal(t, "Exclusions", out.Paragraphs[2].Metadata.SectionTitle)
}

func TestTextBuilder_WhitespaceNarrativeSkipped(t *testing.T) {
	builder := newTestTextBuilder(t)
	stream := core.ElementStream{
		Source: "doc.pdf",
		Elements: []core.Element{
			title("t1", "Coverage", 1),
			narrative("n1", "   \n\t ", 1),
			narrative("n2", "Real text.", 1),
		},
	}

	out := builder.Build(stream, nil)

	require.Len(t, out.Paragraphs, 1)
	assert.Equal(t, "para_p1_0", out.Paragraphs[0].ID)
	require.Len(t, out.Sections, 1)
	// The blank element contributes nothing to the section text either.
	assert.Equal(t, 1, strings.Count(out.Sections[0].Text, "\n\n"))
}

func TestTextBuilder_ImageWithoutEnrichmentDropped(t *testing.T) {
	builder := newTestTextBuilder(t)
	stream := core.ElementStream{
		Source: "doc.pdf",
		Elements: []core.Element{
			image("img1", 1),
			image("img2", 2),
		},
	}
	enriched := map[string]core.EnrichedImage{
		"img2": {ElementID: "img2", Title: "Figure 2"},
	}

	out := builder.Build(stream, enriched)

	require.Len(t, out.Images, 1)
	assert.Equal(t, "image_p2_0", out.Images[0].ID)
	assert.Equal(t, "Figure 2", out.Images[0].Text)
}

func TestTextBuilder_ParagraphIndexMonotonicAcrossSections(t *testing.T) {
	builder := newTestTextBuilder(t)
	stream := core.ElementStream{
		Source: "doc.pdf",
		Elements: []core.Element{
			title("t1", "A", 1),
			narrative("n1", "One.", 1),
			title("t2", "B", 1),
			narrative("n2", "Two.", 1),
			narrative("n3", "Three.", 2),
		},
	}

	out := builder.Build(stream, nil)

	require.Len(t, out.Paragraphs, 3)
	assert.Equal(t, "para_p1_0", out.Paragraphs[0].ID)
	assert.Equal(t, "para_p1_1", out.Paragraphs[1].ID)
	assert.Equal(t, "para_p2_2", out.Paragraphs[2].ID)
}

func TestTextBuilder_SectionBBoxMerged(t *testing.T) {
	builder := newTestTextBuilder(t)
	el := narrative("n1", "Text with a region.", 1)
	el.Metadata.Coordinates = &core.Coordinates{Points: [][]float64{{10, 20}, {110, 220}}}
	stream := core.ElementStream{
		Source:   "doc.pdf",
		Elements: []core.Element{title("t1", "Coverage", 1), el},
	}

	out := builder.Build(stream, nil)

	require.Len(t, out.Sections, 1)
	assert.Equal(t, []float64{10, 20, 110, 220}, out.Sections[0].Metadata.BBox)
}

func TestTextBuilder_Deterministic(t *testing.T) {
	builder := newTestTextBuilder(t)
	stream := core.ElementStream{
		Source: "doc.pdf",
		Elements: []core.Element{
			title("t1", "Coverage", 1),
			narrative("n1", "Ward charges apply. ICU charges differ.", 1),
		},
	}

	first := builder.Build(stream, nil)
	second := builder.Build(stream, nil)
	assert.Equal(t, first, second)
}
