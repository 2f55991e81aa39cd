package core

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestElementMetadata_MalformedPageNumber(t *testing.T) {
	cases := []struct {
		name string
		in   string
		want int
	}{
		{"number", `{"page_number": 4}`, 4},
		{"string", `{"page_number": "4"}`, 4},
		{"float", `{"page_number": 4.0}`, 4},
		{"missing", `{}`, 0},
		{"null", `{"page_number": null}`, 0},
		{"garbage", `{"page_number": {"bad": true}}`, 0},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			var m ElementMetadata
			require.NoError(t, json.Unmarshal([]byte(tc.in), &m))
			assert.Equal(t, tc.want, m.PageNumber)
		})
	}
}

func TestEnrichedTable_CanonicalShape(t *testing.T) {
	in := `{
		"page": 2, "table_index": 0, "bbox": [1, 2, 3, 4],
		"title": "Limits",
		"column_headers": ["Category", "Limit"],
		"rows": [{"Category": "ICU", "Limit": "$500"}]
	}`
	var table EnrichedTable
	require.NoError(t, json.Unmarshal([]byte(in), &table))
	assert.Equal(t, 2, table.Page)
	assert.Equal(t, "Limits", table.Title)
	assert.Equal(t, []float64{1, 2, 3, 4}, table.BBox)
	require.Len(t, table.Rows, 1)
	assert.Equal(t, "ICU", table.Rows[0]["Category"])
}

func TestEnrichedTable_LegacyShape(t *testing.T) {
	in := `{
		"page": 2, "table_index": 1, "table_bbox": [10, 20, 30, 40],
		"raw_data": [["Category", "Limit"], ["ICU", "$500"], ["Ward", "$250"]],
		"enriched": {"title": "Limits", "column_headers": ["Category", "Limit"]}
	}`
	var table EnrichedTable
	require.NoError(t, json.Unmarshal([]byte(in), &table))
	assert.Equal(t, "Limits", table.Title)
	assert.Equal(t, []float64{10, 20, 30, 40}, table.BBox)
	assert.Equal(t, []string{"Category", "Limit"}, table.ColumnHeaders)
	require.Len(t, table.Rows, 2)
	assert.Equal(t, "$250", table.Rows[1]["Limit"])
}

func TestEnrichedTable_HeadersDerivedFromGrid(t *testing.T) {
	in := `{"page": 1, "raw_data": [["Name", ""], ["a", "b"]]}`
	var table EnrichedTable
	require.NoError(t, json.Unmarshal([]byte(in), &table))
	assert.Equal(t, []string{"Name", "Column_1"}, table.ColumnHeaders)
	require.Len(t, table.Rows, 1)
	assert.Equal(t, "b", table.Rows[0]["Column_1"])
}

func TestEnrichedTableSet_SkipsBadRecords(t *testing.T) {
	in := `{"source": "doc.pdf", "tables": [
		{"page": 1, "rows": [{"A": "x"}], "column_headers": ["A"]},
		"not a table",
		{"page": 2, "rows": [{"B": "y"}], "column_headers": ["B"]}
	]}`
	var set EnrichedTableSet
	require.NoError(t, json.Unmarshal([]byte(in), &set))
	assert.Equal(t, "doc.pdf", set.Source)
	assert.Len(t, set.Tables, 2)
}

func TestEnrichedImage_NestedEnrichedShape(t *testing.T) {
	in := `{
		"element_id": "img1", "page": 3, "image_path": "x.png",
		"enriched": {"title": "Figure 1", "description": "Ward chart"}
	}`
	var img EnrichedImage
	require.NoError(t, json.Unmarshal([]byte(in), &img))
	assert.Equal(t, "img1", img.ElementID)
	assert.Equal(t, "Figure 1", img.Title)
	assert.Equal(t, "Ward chart", img.Description)
}

func TestEnrichedImageSet_ByElementID(t *testing.T) {
	set := EnrichedImageSet{Images: []EnrichedImage{
		{ElementID: "a", Title: "A"},
		{ElementID: "", Title: "skipped"},
		{ElementID: "b", Title: "B"},
	}}
	byID := set.ByElementID()
	assert.Len(t, byID, 2)
	assert.Equal(t, "B", byID["b"].Title)
}

func TestElementStream_RoundTrip(t *testing.T) {
	stream := ElementStream{
		Source: "policy.pdf",
		Elements: []Element{
			{Type: ElementTitle, ElementID: "e1", Text: "Coverage",
				Metadata: ElementMetadata{PageNumber: 1}},
			{Type: ElementNarrativeText, ElementID: "e2", Text: "Ward charges apply.",
				Metadata: ElementMetadata{PageNumber: 1, Coordinates: &Coordinates{
					Points: [][]float64{{0, 0}, {10, 20}}, System: "PixelSpace"}}},
		},
	}
	data, err := json.Marshal(stream)
	require.NoError(t, err)

	var decoded ElementStream
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, stream, decoded)
}
