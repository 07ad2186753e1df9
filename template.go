package docfill

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/beevik/etree"
)

const wordNS = "http://schemas.openxmlformats.org/wordprocessingml/2006/main"

// Font is the presentation style applied to rewritten cells.
type Font struct {
	Name string  // font family, applied to all script slots
	Size float64 // point size
}

// DefaultFont is the style written into every updated cell.
var DefaultFont = Font{Name: "Times New Roman", Size: 9}

// String formats the font as "Times New Roman, 9pt".
func (f Font) String() string {
	return fmt.Sprintf("%s, %spt", f.Name, strconv.FormatFloat(f.Size, 'f', -1, 64))
}

// Template is the tabular structure of a loaded document.
type Template struct {
	Tables []*Table
}

// Table is a top-level document table.
type Table struct {
	Index   int
	Columns int // grid columns, or the widest row when the grid is absent
	Rows    []*Row
}

// Row is an ordered sequence of cells.
type Row struct {
	Index int
	Cells []*Cell
}

// Cell is a table cell bound to its position. Its content is read live from the
// underlying document so it reflects rewrites.
type Cell struct {
	Ref CellRef
	el  *etree.Element
}

// Paragraph is one block of text inside a cell.
type Paragraph struct {
	Runs []Run
}

// Run is a contiguous piece of text sharing one style.
type Run struct {
	Text string
	Font string  // rFonts ascii (or hAnsi) family, "" when inherited
	Size float64 // points, 0 when inherited
}

// Text concatenates the paragraph's runs.
func (p Paragraph) Text() string {
	var b strings.Builder
	for _, r := range p.Runs {
		b.WriteString(r.Text)
	}
	return b.String()
}

// Text returns the cell's paragraphs joined by newlines, untrimmed.
func (c *Cell) Text() string {
	paras := c.Paragraphs()
	texts := make([]string, len(paras))
	for i, p := range paras {
		texts[i] = p.Text()
	}
	return strings.Join(texts, "\n")
}

// Paragraphs returns the cell's direct paragraphs in order.
func (c *Cell) Paragraphs() []Paragraph {
	var out []Paragraph
	for _, child := range c.el.ChildElements() {
		if isWord(child, "p") {
			out = append(out, readParagraph(child))
		}
	}
	return out
}

// CellAt returns the cell at ref, or nil.
func (t *Template) CellAt(ref CellRef) *Cell {
	if ref.Table < 0 || ref.Table >= len(t.Tables) {
		return nil
	}
	tbl := t.Tables[ref.Table]
	if ref.Row < 0 || ref.Row >= len(tbl.Rows) {
		return nil
	}
	row := tbl.Rows[ref.Row]
	if ref.Col < 0 || ref.Col >= len(row.Cells) {
		return nil
	}
	return row.Cells[ref.Col]
}

// buildTemplate indexes the body's top-level tables.
func buildTemplate(body *etree.Element) *Template {
	tmpl := &Template{}
	for _, tblEl := range body.ChildElements() {
		if !isWord(tblEl, "tbl") {
			continue
		}
		tbl := &Table{Index: len(tmpl.Tables)}
		widest := 0
		for _, trEl := range tblEl.ChildElements() {
			if !isWord(trEl, "tr") {
				continue
			}
			row := &Row{Index: len(tbl.Rows)}
			for _, tcEl := range trEl.ChildElements() {
				if !isWord(tcEl, "tc") {
					continue
				}
				row.Cells = append(row.Cells, &Cell{
					Ref: NewCellRef(tbl.Index, row.Index, len(row.Cells)),
					el:  tcEl,
				})
			}
			if len(row.Cells) > widest {
				widest = len(row.Cells)
			}
			tbl.Rows = append(tbl.Rows, row)
		}
		tbl.Columns = gridColumns(tblEl)
		if tbl.Columns == 0 {
			tbl.Columns = widest
		}
		tmpl.Tables = append(tmpl.Tables, tbl)
	}
	return tmpl
}

func gridColumns(tbl *etree.Element) int {
	n := 0
	for _, child := range tbl.ChildElements() {
		if !isWord(child, "tblGrid") {
			continue
		}
		for _, col := range child.ChildElements() {
			if isWord(col, "gridCol") {
				n++
			}
		}
	}
	return n
}

func readParagraph(p *etree.Element) Paragraph {
	var para Paragraph
	var walk func(el *etree.Element)
	walk = func(el *etree.Element) {
		for _, child := range el.ChildElements() {
			switch {
			case isWord(child, "r"):
				para.Runs = append(para.Runs, readRun(child))
			case isWord(child, "pPr"), isWord(child, "del"):
				// properties and tracked deletions carry no visible text
			default:
				// hyperlinks, insertions, smart tags wrap runs
				walk(child)
			}
		}
	}
	walk(p)
	return para
}

func readRun(r *etree.Element) Run {
	var run Run
	var b strings.Builder
	for _, child := range r.ChildElements() {
		switch {
		case isWord(child, "t"):
			b.WriteString(child.Text())
		case isWord(child, "tab"):
			b.WriteByte('\t')
		case isWord(child, "br"), isWord(child, "cr"):
			b.WriteByte('\n')
		case isWord(child, "rPr"):
			run.Font, run.Size = readRunStyle(child)
		}
	}
	run.Text = b.String()
	return run
}

func readRunStyle(rPr *etree.Element) (string, float64) {
	var name string
	var size float64
	for _, child := range rPr.ChildElements() {
		switch {
		case isWord(child, "rFonts"):
			name = wordAttr(child, "ascii")
			if name == "" {
				name = wordAttr(child, "hAnsi")
			}
		case isWord(child, "sz"):
			if half, err := strconv.ParseFloat(wordAttr(child, "val"), 64); err == nil {
				size = half / 2
			}
		}
	}
	return name, size
}

// isWord reports whether el is the WordprocessingML element with the given local name.
func isWord(el *etree.Element, tag string) bool {
	if el.Tag != tag {
		return false
	}
	return el.Space == "w" || el.NamespaceURI() == wordNS
}

func wordAttr(el *etree.Element, key string) string {
	for _, a := range el.Attr {
		if a.Key == key && (a.Space == "w" || a.Space == "") {
			return a.Value
		}
	}
	return ""
}
