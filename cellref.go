package docfill

import (
	"fmt"
	"regexp"
	"strconv"
)

// CellRef identifies a single table cell by position in a document.
type CellRef struct {
	Table int // 0-based table index in document order
	Row   int // 0-based row index within the table
	Col   int // 0-based cell index within the row
}

// NewCellRef creates a CellRef with explicit table, row, col.
func NewCellRef(table, row, col int) CellRef {
	return CellRef{Table: table, Row: row, Col: col}
}

// String formats the reference as "Table 0, Cell (1, 1)".
// The table index is 0-based; row and column are 1-based.
func (r CellRef) String() string {
	return fmt.Sprintf("Table %d, %s", r.Table, r.CellName())
}

// CellName returns the table-local part, e.g. "Cell (1, 2)".
func (r CellRef) CellName() string {
	return fmt.Sprintf("Cell (%d, %d)", r.Row+1, r.Col+1)
}

var cellRefPattern = regexp.MustCompile(`^\s*Table\s+(\d+)\s*,\s*Cell\s*\(\s*(\d+)\s*,\s*(\d+)\s*\)\s*$`)

// ParseCellRef parses the String form back into a CellRef.
func ParseCellRef(s string) (CellRef, error) {
	m := cellRefPattern.FindStringSubmatch(s)
	if m == nil {
		return CellRef{}, fmt.Errorf("invalid cell reference: %q", s)
	}
	table, _ := strconv.Atoi(m[1])
	row, _ := strconv.Atoi(m[2])
	col, _ := strconv.Atoi(m[3])
	if row < 1 || col < 1 {
		return CellRef{}, fmt.Errorf("invalid cell reference %q: row and column are 1-based", s)
	}
	return CellRef{Table: table, Row: row - 1, Col: col - 1}, nil
}

// Less orders references in document order.
func (r CellRef) Less(o CellRef) bool {
	if r.Table != o.Table {
		return r.Table < o.Table
	}
	if r.Row != o.Row {
		return r.Row < o.Row
	}
	return r.Col < o.Col
}
