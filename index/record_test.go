package index

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/poiesic/docindex/core"
)

func TestNamespaceFor(t *testing.T) {
	cases := map[core.NodeType]string{
		core.NodeSection:   NamespaceSections,
		core.NodeParagraph: NamespaceParagraphs,
		core.NodeSentence:  NamespaceSentences,
		core.NodeImage:     NamespaceImages,
		core.NodeTableRow:  NamespaceTableRows,
		core.NodeTableFull: NamespaceTableFull,
	}
	for nodeType, want := range cases {
		ns, err := NamespaceFor(nodeType)
		require.NoError(t, err)
		assert.Equal(t, want, ns)
	}

	_, err := NamespaceFor(core.NodeType("chapter"))
	assert.ErrorIs(t, err, ErrUnknownNodeType)
}

func TestRecordFromNode(t *testing.T) {
	node := core.Node{
		ID:   "para_p3_7",
		Text: "Overview: the system has two parts.",
		Metadata: core.NodeMetadata{
			Source:       "report.pdf",
			Page:         3,
			NodeType:     core.NodeParagraph,
			SectionTitle: "Overview",
		},
		Embedding: []float32{0.1, 0.2, 0.3},
	}

	record, err := RecordFromNode(node)
	require.NoError(t, err)

	assert.Equal(t, "para_p3_7", record.ID)
	assert.Equal(t, []float32{0.1, 0.2, 0.3}, record.Values)
	assert.Equal(t, "Overview: the system has two parts.", record.Metadata["text"])
	assert.Equal(t, "report.pdf", record.Metadata["source"])
	assert.Equal(t, "3", record.Metadata["page"])
	assert.Equal(t, "paragraph", record.Metadata["node_type"])
	assert.Equal(t, "Overview", record.Metadata["section_title"])
	assert.NotContains(t, record.Metadata, "paragraph_id")
	assert.NotContains(t, record.Metadata, "sentence_index")
}

func TestRecordFromNode_RequiresEmbedding(t *testing.T) {
	_, err := RecordFromNode(core.Node{ID: "para_p1_0", Text: "x"})
	assert.ErrorIs(t, err, ErrNoEmbedding)
}

func TestRecordFromNode_ZeroIndicesSurvive(t *testing.T) {
	node := core.Node{
		ID:   "para_p1_0_s0",
		Text: "First sentence.",
		Metadata: core.NodeMetadata{
			Source:        "report.pdf",
			Page:          1,
			NodeType:      core.NodeSentence,
			ParagraphID:   "para_p1_0",
			SentenceIndex: core.IntPtr(0),
		},
		Embedding: []float32{1},
	}

	record, err := RecordFromNode(node)
	require.NoError(t, err)
	assert.Equal(t, "0", record.Metadata["sentence_index"])
	assert.Equal(t, "para_p1_0", record.Metadata["paragraph_id"])
}

func TestRecordFromNode_TableFields(t *testing.T) {
	node := core.Node{
		ID:   "table_p2_t0_r0",
		Text: "Revenue | Quarter: Q1 | Amount: 100",
		Metadata: core.NodeMetadata{
			Source:        "report.pdf",
			Page:          2,
			NodeType:      core.NodeTableRow,
			TableTitle:    "Revenue",
			TableIndex:    core.IntPtr(0),
			RowIndex:      core.IntPtr(0),
			ColumnHeaders: []string{"Quarter", "Amount"},
			BBox:          []float64{10, 20, 300, 400},
		},
		Embedding: []float32{1, 2},
	}

	record, err := RecordFromNode(node)
	require.NoError(t, err)
	assert.Equal(t, "0", record.Metadata["table_index"])
	assert.Equal(t, "0", record.Metadata["row_index"])
	assert.Equal(t, `["Quarter","Amount"]`, record.Metadata["column_headers"])
	assert.Equal(t, "[10,20,300,400]", record.Metadata["bbox"])
}

func TestRecordFromNode_TruncatesLongText(t *testing.T) {
	node := core.Node{
		ID:        "section_p1_42",
		Text:      strings.Repeat("é", 1500),
		Metadata:  core.NodeMetadata{Source: "a.pdf", Page: 1, NodeType: core.NodeSection},
		Embedding: []float32{1},
	}

	record, err := RecordFromNode(node)
	require.NoError(t, err)
	assert.Equal(t, 1000, len([]rune(record.Metadata["text"])))
}

func TestNormalizeVector(t *testing.T) {
	normalized := NormalizeVector([]float32{3, 4})
	assert.InDelta(t, 0.6, normalized[0], 1e-6)
	assert.InDelta(t, 0.8, normalized[1], 1e-6)

	zero := NormalizeVector([]float32{0, 0})
	assert.Equal(t, []float32{0, 0}, zero)

	assert.Empty(t, NormalizeVector(nil))
}

func TestCosineSimilarity(t *testing.T) {
	assert.InDelta(t, 1.0, CosineSimilarity([]float32{1, 0}, []float32{2, 0}), 1e-6)
	assert.InDelta(t, 0.0, CosineSimilarity([]float32{1, 0}, []float32{0, 1}), 1e-6)
	assert.InDelta(t, -1.0, CosineSimilarity([]float32{1, 0}, []float32{-1, 0}), 1e-6)
	assert.Equal(t, float32(0), CosineSimilarity(nil, []float32{1}))
}
