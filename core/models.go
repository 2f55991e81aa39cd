package core

// ElementType classifies one structural unit of a decoded PDF.
type ElementType string

const (
	// ElementTitle marks a section heading. Titles define section boundaries.
	ElementTitle ElementType = "Title"
	// ElementNarrativeText marks body text belonging to the current section.
	ElementNarrativeText ElementType = "NarrativeText"
	// ElementImage marks an embedded figure.
	ElementImage ElementType = "Image"
	// ElementTable marks a table detected by the text extractor. Table content
	// is produced by the separate table-extraction path, so these elements act
	// only as positional markers.
	ElementTable ElementType = "Table"
)

// Coordinates holds the positional region of an element on its page.
type Coordinates struct {
	Points [][]float64 `json:"points,omitempty"`
	System string      `json:"system,omitempty"`
}

// ElementMetadata carries positional and linkage metadata for an element.
type ElementMetadata struct {
	PageNumber  int          `json:"page_number"`
	Coordinates *Coordinates `json:"coordinates,omitempty"`
	ImagePath   string       `json:"image_path,omitempty"`
	ParentID    string       `json:"parent_id,omitempty"`
}

// Element is one unit of the extracted element stream. Stream order is
// document reading order and is semantically meaningful: it determines
// which section each element belongs to.
type Element struct {
	Type      ElementType     `json:"type"`
	ElementID string          `json:"element_id"`
	Text      string          `json:"text"`
	Metadata  ElementMetadata `json:"metadata"`
}

// ElementStream is a decoded document: an ordered sequence of elements.
type ElementStream struct {
	Source   string    `json:"source"`
	Elements []Element `json:"elements"`
}

// RawTable is one table as produced by the table-extraction path, before
// enrichment. Data holds the grid row-major; the first row is usually the
// header row.
type RawTable struct {
	Page       int        `json:"page"`
	TableIndex int        `json:"table_index"`
	BBox       []float64  `json:"table_bbox,omitempty"`
	Data       [][]string `json:"raw_data"`
	ImagePath  string     `json:"image_path,omitempty"`
}

// RawTableSet groups the raw tables extracted from one document.
type RawTableSet struct {
	Source string     `json:"source"`
	Tables []RawTable `json:"tables"`
}

// EnrichedTable is a table after enrichment: a title, canonical column
// headers and rows keyed by header. Decoding accepts both the canonical
// shape and the legacy shape (positional raw_data plus a nested enriched
// object); see UnmarshalJSON in decode.go.
type EnrichedTable struct {
	Page          int
	TableIndex    int
	BBox          []float64
	Title         string
	ColumnHeaders []string
	Rows          []map[string]string
}

// EnrichedTableSet groups the enriched tables of one document.
type EnrichedTableSet struct {
	Source string
	Tables []EnrichedTable
}

// EnrichTable combines a raw table grid with enrichment metadata into the
// canonical enriched form. When headers is empty they are derived from the
// grid's first row. The grid's first row is treated as the header row and
// excluded from Rows.
func EnrichTable(raw RawTable, title string, headers []string) EnrichedTable {
	if len(headers) == 0 && len(raw.Data) > 0 {
		headers = headersFromGrid(raw.Data)
	}
	return EnrichedTable{
		Page:          raw.Page,
		TableIndex:    raw.TableIndex,
		BBox:          raw.BBox,
		Title:         title,
		ColumnHeaders: headers,
		Rows:          rowsFromGrid(raw.Data, headers),
	}
}

// EnrichedImage is the externally produced description of one image
// element, keyed by the element id. Image elements without an entry
// produce no node.
type EnrichedImage struct {
	ElementID   string
	Page        int
	Title       string
	Description string
	ImagePath   string
	Coordinates *Coordinates
}

// EnrichedImageSet groups the enriched images of one document.
type EnrichedImageSet struct {
	Source string
	Images []EnrichedImage
}

// ByElementID indexes the set by element id for node building.
func (s EnrichedImageSet) ByElementID() map[string]EnrichedImage {
	m := make(map[string]EnrichedImage, len(s.Images))
	for _, img := range s.Images {
		if img.ElementID != "" {
			m[img.ElementID] = img
		}
	}
	return m
}

// NodeType is the granularity discriminant of a node. It routes the node
// to its index namespace and must never be empty.
type NodeType string

const (
	NodeSection   NodeType = "section"
	NodeParagraph NodeType = "paragraph"
	NodeSentence  NodeType = "sentence"
	NodeTableRow  NodeType = "table_row"
	NodeTableFull NodeType = "table_full"
	NodeImage     NodeType = "image"
)

// NodeMetadata carries the per-node structured metadata. Optional numeric
// fields use pointers so that a present zero (sentence_index 0, row_index 0)
// survives serialization.
type NodeMetadata struct {
	Source       string       `json:"source"`
	Page         int          `json:"page"`
	NodeType     NodeType     `json:"node_type"`
	SectionTitle string       `json:"section_title,omitempty"`
	Coordinates  *Coordinates `json:"coordinates,omitempty"`

	// Sentence linkage.
	ParagraphID   string `json:"paragraph_id,omitempty"`
	SentenceIndex *int   `json:"sentence_index,omitempty"`

	// Image fields.
	ImagePath string `json:"image_path,omitempty"`

	// Table fields.
	TableIndex    *int      `json:"table_index,omitempty"`
	RowIndex      *int      `json:"row_index,omitempty"`
	TableTitle    string    `json:"table_title,omitempty"`
	ColumnHeaders []string  `json:"column_headers,omitempty"`
	BBox          []float64 `json:"bbox,omitempty"`
}

// Node is one indexable unit of text plus metadata at a single granularity.
// Nodes are created fresh each run; identical input yields identical ids,
// so re-indexing overwrites rather than accumulates.
type Node struct {
	ID        string       `json:"id"`
	Text      string       `json:"text"`
	Metadata  NodeMetadata `json:"metadata"`
	Embedding []float32    `json:"embedding,omitempty"`
}

// HasEmbedding reports whether the node already carries a vector.
func (n *Node) HasEmbedding() bool {
	return len(n.Embedding) > 0
}

// IntPtr returns a pointer to v, for the optional index fields above.
func IntPtr(v int) *int {
	return &v
}
