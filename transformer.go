package docfill

import "io"

// Transformer abstracts document I/O. It holds one in-memory copy of a template
// and exposes the tabular structure, the single mutation the engine needs, and
// serialization of the result.
type Transformer interface {
	// Template returns the table/row/cell structure of the loaded document.
	Template() *Template

	// SetCellText replaces the whole content of the cell at ref with text
	// styled by font. On error the cell is left unchanged.
	SetCellText(ref CellRef, text string, font Font) error

	// Write serializes the complete document to w.
	Write(w io.Writer) error
}
