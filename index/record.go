package index

import (
	"encoding/json"
	"strconv"

	"github.com/poiesic/docindex/core"
)

// maxMetadataTextRunes bounds the node text carried in record metadata.
// Vector stores cap per-record metadata size; the full text lives in the
// pipeline output files, so the copy here is only a retrieval preview.
const maxMetadataTextRunes = 1000

// Record is one vector-store entry: an id, a vector and flat string
// metadata.
type Record struct {
	ID       string            `json:"id"`
	Values   []float32         `json:"values"`
	Metadata map[string]string `json:"metadata,omitempty"`
}

// RecordFromNode converts an embedded node into a store record. The node
// metadata is flattened to string key/value pairs; list-valued fields are
// JSON-encoded. Returns ErrNoEmbedding when the node carries no vector.
func RecordFromNode(node core.Node) (Record, error) {
	if !node.HasEmbedding() {
		return Record{}, ErrNoEmbedding
	}

	md := map[string]string{
		"text":      truncateRunes(node.Text, maxMetadataTextRunes),
		"source":    node.Metadata.Source,
		"page":      strconv.Itoa(node.Metadata.Page),
		"node_type": string(node.Metadata.NodeType),
	}

	putIfSet(md, "section_title", node.Metadata.SectionTitle)
	putIfSet(md, "paragraph_id", node.Metadata.ParagraphID)
	putIfSet(md, "image_path", node.Metadata.ImagePath)
	putIfSet(md, "table_title", node.Metadata.TableTitle)

	if node.Metadata.SentenceIndex != nil {
		md["sentence_index"] = strconv.Itoa(*node.Metadata.SentenceIndex)
	}
	if node.Metadata.TableIndex != nil {
		md["table_index"] = strconv.Itoa(*node.Metadata.TableIndex)
	}
	if node.Metadata.RowIndex != nil {
		md["row_index"] = strconv.Itoa(*node.Metadata.RowIndex)
	}

	if len(node.Metadata.ColumnHeaders) > 0 {
		if encoded, err := json.Marshal(node.Metadata.ColumnHeaders); err == nil {
			md["column_headers"] = string(encoded)
		}
	}
	if len(node.Metadata.BBox) > 0 {
		if encoded, err := json.Marshal(node.Metadata.BBox); err == nil {
			md["bbox"] = string(encoded)
		}
	}

	return Record{
		ID:       node.ID,
		Values:   node.Embedding,
		Metadata: md,
	}, nil
}

func putIfSet(md map[string]string, key, value string) {
	if value != "" {
		md[key] = value
	}
}

func truncateRunes(s string, limit int) string {
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return string(runes[:limit])
}
