package nodes

import (
	"log/slog"
	"sort"
	"strings"

	"github.com/poiesic/docindex/core"
)

// TableNodes holds the two collections derived from enriched tables.
type TableNodes struct {
	Rows []core.Node
	Full []core.Node
}

// TableBuilder maps enriched tables to per-row nodes and full-table
// markdown nodes. It is stateless; tables are independent of each other.
type TableBuilder struct {
	logger *slog.Logger
}

// NewTableBuilder creates a table node builder.
func NewTableBuilder() *TableBuilder {
	return &TableBuilder{logger: slog.Default().With("component", "table-builder")}
}

// Build derives nodes for every table in the set. A table with zero rows
// produces no nodes at all; a row with no non-empty cell produces no row
// node but still appears in the full-table rendering, since the enriched
// payload is authoritative for the full table.
func (b *TableBuilder) Build(set core.EnrichedTableSet) TableNodes {
	var out TableNodes
	for _, table := range set.Tables {
		if len(table.Rows) == 0 {
			continue
		}
		headers := tableHeaders(table)
		out.Rows = append(out.Rows, b.buildRowNodes(table, headers, set.Source)...)
		out.Full = append(out.Full, b.buildFullNode(table, headers, set.Source))
	}
	b.logger.Info("built table nodes",
		"source", set.Source,
		"tables", len(set.Tables),
		"rows", len(out.Rows),
		"full", len(out.Full))
	return out
}

// tableHeaders returns the table's column headers, falling back to the
// sorted keys of the first row when the enrichment left them empty.
func tableHeaders(table core.EnrichedTable) []string {
	if len(table.ColumnHeaders) > 0 {
		return table.ColumnHeaders
	}
	headers := make([]string, 0, len(table.Rows[0]))
	for header := range table.Rows[0] {
		headers = append(headers, header)
	}
	sort.Strings(headers)
	return headers
}

// buildRowNodes emits one node per row that has at least one non-empty
// cell. Row text is "{title} | {header}: {value} | ..." with empty values
// omitted.
func (b *TableBuilder) buildRowNodes(table core.EnrichedTable, headers []string, source string) []core.Node {
	var nodes []core.Node
	for rowIndex, row := range table.Rows {
		var parts []string
		if table.Title != "" {
			parts = append(parts, table.Title)
		}
		pairs := 0
		for _, header := range headers {
			value := strings.TrimSpace(row[header])
			if value == "" {
				continue
			}
			parts = append(parts, header+": "+value)
			pairs++
		}
		if pairs == 0 {
			continue
		}

		nodes = append(nodes, core.Node{
			ID:   core.TableRowID(table.Page, table.TableIndex, rowIndex),
			Text: strings.Join(parts, " | "),
			Metadata: core.NodeMetadata{
				Source:        source,
				Page:          table.Page,
				NodeType:      core.NodeTableRow,
				TableIndex:    core.IntPtr(table.TableIndex),
				RowIndex:      core.IntPtr(rowIndex),
				TableTitle:    table.Title,
				ColumnHeaders: headers,
				BBox:          table.BBox,
			},
		})
	}
	return nodes
}

// buildFullNode renders the whole table as markdown: optional title
// heading, header row, separator, then one row per input row with absent
// values substituted by the empty string.
func (b *TableBuilder) buildFullNode(table core.EnrichedTable, headers []string, source string) core.Node {
	var lines []string
	if table.Title != "" {
		lines = append(lines, "## "+table.Title, "")
	}

	lines = append(lines, "| "+strings.Join(headers, " | ")+" |")
	separators := make([]string, len(headers))
	for i := range separators {
		separators[i] = "---"
	}
	lines = append(lines, "|"+strings.Join(separators, "|")+"|")

	for _, row := range table.Rows {
		cells := make([]string, len(headers))
		for i, header := range headers {
			cells[i] = row[header]
		}
		lines = append(lines, "| "+strings.Join(cells, " | ")+" |")
	}

	return core.Node{
		ID:   core.TableFullID(table.Page, table.TableIndex),
		Text: strings.Join(lines, "\n"),
		Metadata: core.NodeMetadata{
			Source:     source,
			Page:       table.Page,
			NodeType:   core.NodeTableFull,
			TableIndex: core.IntPtr(table.TableIndex),
			TableTitle: table.Title,
			BBox:       table.BBox,
		},
	}
}
