// Package docxgen builds minimal WordprocessingML packages made of body
// paragraphs and tables. It backs the starter counseling template and the
// document fixtures used in tests.
package docxgen

import (
	"archive/zip"
	"bytes"
	"fmt"
	"os"
	"sort"
	"strconv"
	"strings"

	"github.com/beevik/etree"
)

const (
	wordNS = "http://schemas.openxmlformats.org/wordprocessingml/2006/main"

	contentTypes = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<Types xmlns="http://schemas.openxmlformats.org/package/2006/content-types"><Default Extension="rels" ContentType="application/vnd.openxmlformats-package.relationships+xml"/><Default Extension="xml" ContentType="application/xml"/><Override PartName="/word/document.xml" ContentType="application/vnd.openxmlformats-officedocument.wordprocessingml.document.main+xml"/></Types>`

	packageRels = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<Relationships xmlns="http://schemas.openxmlformats.org/package/2006/relationships"><Relationship Id="rId1" Type="http://schemas.openxmlformats.org/officeDocument/2006/relationships/officeDocument" Target="word/document.xml"/></Relationships>`

	// default column width in twentieths of a point
	colWidth = 2000
)

// CellStyle is applied to every paragraph of a table's cells.
type CellStyle struct {
	Align string  // w:jc value, e.g. "center"
	Font  string  // run font family
	Size  float64 // run size in points
	Bold  bool
}

type block struct {
	paragraph string
	table     bool
	rows      [][]string
	style     CellStyle
	grid      bool
}

// Builder accumulates body content in order.
type Builder struct {
	blocks []block
	parts  map[string][]byte
}

// New returns an empty document builder.
func New() *Builder {
	return &Builder{parts: make(map[string][]byte)}
}

// Paragraph appends a body paragraph outside any table.
func (b *Builder) Paragraph(text string) *Builder {
	b.blocks = append(b.blocks, block{paragraph: text})
	return b
}

// Table appends a table. Each string is one cell; "\n" separates paragraphs.
func (b *Builder) Table(rows ...[]string) *Builder {
	return b.StyledTable(CellStyle{}, rows...)
}

// StyledTable appends a table whose cell paragraphs carry style.
func (b *Builder) StyledTable(style CellStyle, rows ...[]string) *Builder {
	b.blocks = append(b.blocks, block{table: true, rows: rows, style: style, grid: true})
	return b
}

// GridlessTable appends a table without a w:tblGrid element.
func (b *Builder) GridlessTable(rows ...[]string) *Builder {
	b.blocks = append(b.blocks, block{table: true, rows: rows})
	return b
}

// Part adds an extra package part copied verbatim into the archive.
func (b *Builder) Part(name string, data []byte) *Builder {
	b.parts[name] = data
	return b
}

// DocumentXML renders word/document.xml.
func (b *Builder) DocumentXML() ([]byte, error) {
	doc := etree.NewDocument()
	doc.CreateProcInst("xml", `version="1.0" encoding="UTF-8" standalone="yes"`)
	root := doc.CreateElement("w:document")
	root.CreateAttr("xmlns:w", wordNS)
	body := root.CreateElement("w:body")

	for _, blk := range b.blocks {
		if !blk.table {
			writeParagraph(body, blk.paragraph, CellStyle{})
			continue
		}
		writeTable(body, blk)
	}

	sect := body.CreateElement("w:sectPr")
	pg := sect.CreateElement("w:pgSz")
	pg.CreateAttr("w:w", "12240")
	pg.CreateAttr("w:h", "15840")

	var buf bytes.Buffer
	if _, err := doc.WriteTo(&buf); err != nil {
		return nil, fmt.Errorf("encode document: %w", err)
	}
	return buf.Bytes(), nil
}

// Bytes renders the complete .docx package.
func (b *Builder) Bytes() ([]byte, error) {
	docXML, err := b.DocumentXML()
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	files := []struct {
		name string
		data []byte
	}{
		{"[Content_Types].xml", []byte(contentTypes)},
		{"_rels/.rels", []byte(packageRels)},
		{"word/document.xml", docXML},
	}
	names := make([]string, 0, len(b.parts))
	for name := range b.parts {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		files = append(files, struct {
			name string
			data []byte
		}{name, b.parts[name]})
	}
	for _, f := range files {
		w, err := zw.Create(f.name)
		if err != nil {
			return nil, fmt.Errorf("create part %s: %w", f.name, err)
		}
		if _, err := w.Write(f.data); err != nil {
			return nil, fmt.Errorf("write part %s: %w", f.name, err)
		}
	}
	if err := zw.Close(); err != nil {
		return nil, fmt.Errorf("close package: %w", err)
	}
	return buf.Bytes(), nil
}

// WriteFile renders the package to path.
func (b *Builder) WriteFile(path string) error {
	data, err := b.Bytes()
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

func writeTable(body *etree.Element, blk block) {
	tbl := body.CreateElement("w:tbl")
	tblPr := tbl.CreateElement("w:tblPr")
	tblW := tblPr.CreateElement("w:tblW")
	tblW.CreateAttr("w:w", "0")
	tblW.CreateAttr("w:type", "auto")
	borders := tblPr.CreateElement("w:tblBorders")
	for _, side := range []string{"top", "left", "bottom", "right", "insideH", "insideV"} {
		el := borders.CreateElement("w:" + side)
		el.CreateAttr("w:val", "single")
		el.CreateAttr("w:sz", "4")
		el.CreateAttr("w:space", "0")
		el.CreateAttr("w:color", "auto")
	}

	cols := 0
	for _, row := range blk.rows {
		if len(row) > cols {
			cols = len(row)
		}
	}
	if blk.grid {
		grid := tbl.CreateElement("w:tblGrid")
		for i := 0; i < cols; i++ {
			grid.CreateElement("w:gridCol").CreateAttr("w:w", strconv.Itoa(colWidth))
		}
	}

	for _, row := range blk.rows {
		tr := tbl.CreateElement("w:tr")
		for _, text := range row {
			tc := tr.CreateElement("w:tc")
			tcPr := tc.CreateElement("w:tcPr")
			tcW := tcPr.CreateElement("w:tcW")
			tcW.CreateAttr("w:w", strconv.Itoa(colWidth))
			tcW.CreateAttr("w:type", "dxa")
			for _, para := range strings.Split(text, "\n") {
				writeParagraph(tc, para, blk.style)
			}
		}
	}
}

func writeParagraph(parent *etree.Element, text string, style CellStyle) {
	p := parent.CreateElement("w:p")
	if style.Align != "" {
		p.CreateElement("w:pPr").CreateElement("w:jc").CreateAttr("w:val", style.Align)
	}
	if text == "" {
		return
	}
	r := p.CreateElement("w:r")
	if style.Font != "" || style.Size > 0 || style.Bold {
		rPr := r.CreateElement("w:rPr")
		if style.Font != "" {
			fonts := rPr.CreateElement("w:rFonts")
			fonts.CreateAttr("w:ascii", style.Font)
			fonts.CreateAttr("w:hAnsi", style.Font)
		}
		if style.Bold {
			rPr.CreateElement("w:b")
		}
		if style.Size > 0 {
			rPr.CreateElement("w:sz").CreateAttr("w:val", strconv.Itoa(int(style.Size*2)))
		}
	}
	t := r.CreateElement("w:t")
	t.CreateAttr("xml:space", "preserve")
	t.SetText(text)
}
