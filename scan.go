package docfill

import "strings"

const (
	markerExact  = "edit"
	markerPrefix = "edit_"
)

// CellInfo is the positional record of one visited cell.
type CellInfo struct {
	Ref  CellRef
	Text string // trimmed cell text
}

// TableInfo summarizes one table.
type TableInfo struct {
	Index   int        `json:"table_index"`
	Rows    int        `json:"rows"`
	Columns int        `json:"columns"`
	Cells   []CellInfo `json:"cells"`
}

// ScanReport is the result of one read pass over a template.
type ScanReport struct {
	Tables  []TableInfo
	Cells   []CellInfo // every cell in document order
	Markers []CellInfo // editable cells, a subset of Cells

	// EditLike lists non-marker cells whose text mentions "edit". It is a
	// diagnostic signal only and never selects cells for rewriting.
	EditLike []CellInfo
}

// IsMarker reports whether cell text designates an editable cell: trimmed and
// case-insensitively equal to "edit" or starting with "edit_".
func IsMarker(text string) bool {
	t := strings.ToLower(strings.TrimSpace(text))
	return t == markerExact || strings.HasPrefix(t, markerPrefix)
}

// Scan visits every cell of the template once, in table, row, column order.
// It does not modify the template.
func Scan(tmpl *Template) *ScanReport {
	report := &ScanReport{}
	for _, tbl := range tmpl.Tables {
		info := TableInfo{
			Index:   tbl.Index,
			Rows:    len(tbl.Rows),
			Columns: tbl.Columns,
		}
		for _, row := range tbl.Rows {
			for _, cell := range row.Cells {
				ci := CellInfo{Ref: cell.Ref, Text: strings.TrimSpace(cell.Text())}
				info.Cells = append(info.Cells, ci)
				report.Cells = append(report.Cells, ci)
				switch {
				case IsMarker(ci.Text):
					report.Markers = append(report.Markers, ci)
				case strings.Contains(strings.ToLower(ci.Text), markerExact):
					report.EditLike = append(report.EditLike, ci)
				}
			}
		}
		report.Tables = append(report.Tables, info)
	}
	return report
}
