package core

import (
	"encoding/json"
	"strconv"
	"strings"
)

// flexInt decodes a JSON number, numeric string, or anything else as an int,
// substituting 0 for values it cannot interpret. Extractor output is not
// uniform about numeric types, and a malformed page number must never fail
// a decode.
type flexInt int

func (f *flexInt) UnmarshalJSON(data []byte) error {
	s := strings.TrimSpace(string(data))
	if s == "" || s == "null" {
		*f = 0
		return nil
	}
	s = strings.Trim(s, `"`)
	if v, err := strconv.Atoi(s); err == nil {
		*f = flexInt(v)
		return nil
	}
	if v, err := strconv.ParseFloat(s, 64); err == nil {
		*f = flexInt(int(v))
		return nil
	}
	*f = 0
	return nil
}

// UnmarshalJSON tolerates missing or malformed positional metadata,
// defaulting the page number to 0 rather than failing the element.
func (m *ElementMetadata) UnmarshalJSON(data []byte) error {
	var aux struct {
		PageNumber  flexInt         `json:"page_number"`
		Coordinates json.RawMessage `json:"coordinates"`
		ImagePath   string          `json:"image_path"`
		ParentID    string          `json:"parent_id"`
	}
	if err := json.Unmarshal(data, &aux); err != nil {
		*m = ElementMetadata{}
		return nil
	}
	m.PageNumber = int(aux.PageNumber)
	m.ImagePath = aux.ImagePath
	m.ParentID = aux.ParentID
	m.Coordinates = nil
	if len(aux.Coordinates) > 0 {
		var coords Coordinates
		if err := json.Unmarshal(aux.Coordinates, &coords); err == nil && len(coords.Points) > 0 {
			m.Coordinates = &coords
		}
	}
	return nil
}

// enrichedTableJSON covers both the canonical enriched-table shape and the
// legacy shape emitted by older enrichment runs, where the grid lives under
// raw_data and the title and headers under a nested enriched object.
type enrichedTableJSON struct {
	Page          flexInt             `json:"page"`
	TableIndex    flexInt             `json:"table_index"`
	BBox          []float64           `json:"bbox"`
	TableBBox     []float64           `json:"table_bbox"`
	Title         string              `json:"title"`
	ColumnHeaders []string            `json:"column_headers"`
	Rows          []map[string]string `json:"rows"`
	RawData       [][]string          `json:"raw_data"`
	Data          [][]string          `json:"data"`
	Enriched      *struct {
		Title         string   `json:"title"`
		ColumnHeaders []string `json:"column_headers"`
	} `json:"enriched"`
}

// UnmarshalJSON normalizes a table record into the canonical schema so the
// node builder never has to branch on field names.
func (t *EnrichedTable) UnmarshalJSON(data []byte) error {
	var aux enrichedTableJSON
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}

	t.Page = int(aux.Page)
	t.TableIndex = int(aux.TableIndex)
	t.BBox = aux.BBox
	if len(t.BBox) == 0 {
		t.BBox = aux.TableBBox
	}

	t.Title = aux.Title
	t.ColumnHeaders = aux.ColumnHeaders
	if aux.Enriched != nil {
		if t.Title == "" {
			t.Title = aux.Enriched.Title
		}
		if len(t.ColumnHeaders) == 0 {
			t.ColumnHeaders = aux.Enriched.ColumnHeaders
		}
	}

	if len(aux.Rows) > 0 {
		t.Rows = aux.Rows
		return nil
	}

	grid := aux.RawData
	if len(grid) == 0 {
		grid = aux.Data
	}
	t.Rows = rowsFromGrid(grid, t.ColumnHeaders)
	if len(t.ColumnHeaders) == 0 && len(grid) > 0 {
		t.ColumnHeaders = headersFromGrid(grid)
	}
	return nil
}

// MarshalJSON emits the canonical shape.
func (t EnrichedTable) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Page          int                 `json:"page"`
		TableIndex    int                 `json:"table_index"`
		BBox          []float64           `json:"bbox,omitempty"`
		Title         string              `json:"title"`
		ColumnHeaders []string            `json:"column_headers"`
		Rows          []map[string]string `json:"rows"`
	}{t.Page, t.TableIndex, t.BBox, t.Title, t.ColumnHeaders, t.Rows})
}

// headersFromGrid derives column headers from the first grid row,
// backfilling blanks with positional names.
func headersFromGrid(grid [][]string) []string {
	headers := make([]string, len(grid[0]))
	for i, h := range grid[0] {
		h = strings.TrimSpace(h)
		if h == "" {
			h = "Column_" + strconv.Itoa(i)
		}
		headers[i] = h
	}
	return headers
}

// rowsFromGrid converts a positional grid (header row first) into rows
// keyed by header.
func rowsFromGrid(grid [][]string, headers []string) []map[string]string {
	if len(grid) < 2 {
		return nil
	}
	if len(headers) == 0 {
		headers = headersFromGrid(grid)
	}
	rows := make([]map[string]string, 0, len(grid)-1)
	for _, cells := range grid[1:] {
		row := make(map[string]string, len(headers))
		for i, header := range headers {
			if i < len(cells) {
				row[header] = cells[i]
			} else {
				row[header] = ""
			}
		}
		rows = append(rows, row)
	}
	return rows
}

// UnmarshalJSON skips table records that cannot be decoded at all instead
// of failing the whole set.
func (s *EnrichedTableSet) UnmarshalJSON(data []byte) error {
	var aux struct {
		Source string            `json:"source"`
		Tables []json.RawMessage `json:"tables"`
	}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	s.Source = aux.Source
	s.Tables = s.Tables[:0]
	for _, raw := range aux.Tables {
		var table EnrichedTable
		if err := json.Unmarshal(raw, &table); err != nil {
			continue
		}
		s.Tables = append(s.Tables, table)
	}
	return nil
}

// MarshalJSON emits the canonical set shape.
func (s EnrichedTableSet) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Source string          `json:"source"`
		Tables []EnrichedTable `json:"tables"`
	}{s.Source, s.Tables})
}

// enrichedImageJSON covers both the flat image shape and the legacy shape
// with title and description under a nested enriched object.
type enrichedImageJSON struct {
	ElementID   string          `json:"element_id"`
	Page        flexInt         `json:"page"`
	Title       string          `json:"title"`
	Description string          `json:"description"`
	ImagePath   string          `json:"image_path"`
	Coordinates json.RawMessage `json:"coordinates"`
	Enriched    *struct {
		Title       string `json:"title"`
		Description string `json:"description"`
	} `json:"enriched"`
}

// UnmarshalJSON normalizes an image record into the canonical schema.
func (i *EnrichedImage) UnmarshalJSON(data []byte) error {
	var aux enrichedImageJSON
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	i.ElementID = aux.ElementID
	i.Page = int(aux.Page)
	i.Title = aux.Title
	i.Description = aux.Description
	i.ImagePath = aux.ImagePath
	if aux.Enriched != nil {
		if i.Title == "" {
			i.Title = aux.Enriched.Title
		}
		if i.Description == "" {
			i.Description = aux.Enriched.Description
		}
	}
	i.Coordinates = nil
	if len(aux.Coordinates) > 0 {
		var coords Coordinates
		if err := json.Unmarshal(aux.Coordinates, &coords); err == nil && len(coords.Points) > 0 {
			i.Coordinates = &coords
		}
	}
	return nil
}

// MarshalJSON emits the canonical flat shape.
func (i EnrichedImage) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		ElementID   string       `json:"element_id"`
		Page        int          `json:"page"`
		Title       string       `json:"title"`
		Description string       `json:"description,omitempty"`
		ImagePath   string       `json:"image_path,omitempty"`
		Coordinates *Coordinates `json:"coordinates,omitempty"`
	}{i.ElementID, i.Page, i.Title, i.Description, i.ImagePath, i.Coordinates})
}

// UnmarshalJSON skips image records that cannot be decoded instead of
// failing the whole set.
func (s *EnrichedImageSet) UnmarshalJSON(data []byte) error {
	var aux struct {
		Source string            `json:"source"`
		Images []json.RawMessage `json:"images"`
	}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	s.Source = aux.Source
	s.Images = s.Images[:0]
	for _, raw := range aux.Images {
		var img EnrichedImage
		if err := json.Unmarshal(raw, &img); err != nil {
			continue
		}
		s.Images = append(s.Images, img)
	}
	return nil
}

// MarshalJSON emits the canonical set shape.
func (s EnrichedImageSet) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Source string          `json:"source"`
		Images []EnrichedImage `json:"images"`
	}{s.Source, s.Images})
}
