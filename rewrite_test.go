package docfill

import (
	"errors"
	"testing"

	"github.com/beevik/etree"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/javajack/docfill/internal/docxgen"
)

func TestSetCellText_MultiLine(t *testing.T) {
	tx, err := NewDocxTransformer(templateBytes(t, docxgen.New().Table([]string{"EDIT_Topics"})))
	require.NoError(t, err)

	ref := NewCellRef(0, 0, 0)
	require.NoError(t, tx.SetCellText(ref, "one\r\ntwo\tcol\rthree", DefaultFont))

	cell := tx.Template().CellAt(ref)
	paras := cell.Paragraphs()
	require.Len(t, paras, 1)
	require.Len(t, paras[0].Runs, 1)
	assert.Equal(t, "one\ntwo\tcol\nthree", cell.Text())
}

func TestSetCellText_KeepsAlignmentAndCellProps(t *testing.T) {
	style := docxgen.CellStyle{Align: "center", Font: "Arial", Size: 12, Bold: true}
	tx, err := NewDocxTransformer(templateBytes(t, docxgen.New().StyledTable(style, []string{"EDIT_rank\nsecond paragraph"})))
	require.NoError(t, err)

	ref := NewCellRef(0, 0, 0)
	require.NoError(t, tx.SetCellText(ref, "SGT", Font{Name: "Courier New", Size: 10.5}))

	cell := tx.Template().CellAt(ref)
	tcPr := cell.el.SelectElement("w:tcPr")
	require.NotNil(t, tcPr)
	assert.NotNil(t, tcPr.SelectElement("w:tcW"))

	ps := cell.el.SelectElements("w:p")
	require.Len(t, ps, 1)
	jc := ps[0].FindElement("w:pPr/w:jc")
	require.NotNil(t, jc)
	assert.Equal(t, "center", jc.SelectAttrValue("w:val", ""))

	run := cell.Paragraphs()[0].Runs[0]
	assert.Equal(t, "SGT", run.Text)
	assert.Equal(t, "Courier New", run.Font)
	assert.Equal(t, 10.5, run.Size)

	fonts := ps[0].FindElement("w:r/w:rPr/w:rFonts")
	require.NotNil(t, fonts)
	for _, slot := range []string{"w:ascii", "w:hAnsi", "w:eastAsia", "w:cs"} {
		assert.Equal(t, "Courier New", fonts.SelectAttrValue(slot, ""), slot)
	}
	assert.Equal(t, "21", ps[0].FindElement("w:r/w:rPr/w:szCs").SelectAttrValue("w:val", ""))
	assert.Nil(t, ps[0].FindElement("w:r/w:rPr/w:b"), "old run styling must not carry over")
}

func TestSetCellText_FailureLeavesCell(t *testing.T) {
	tx, err := NewDocxTransformer(templateBytes(t, docxgen.New().Table([]string{"EDIT_name"})))
	require.NoError(t, err)

	ref := NewCellRef(0, 0, 0)
	before := cellXML(t, tx.Template().CellAt(ref))

	err = tx.SetCellText(ref, "bad\x01", DefaultFont)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrCellRewriteFailed))
	assert.Equal(t, before, cellXML(t, tx.Template().CellAt(ref)))

	err = tx.SetCellText(ref, "ok", Font{Name: "Arial", Size: 2000})
	assert.True(t, errors.Is(err, ErrCellRewriteFailed))
	assert.Equal(t, before, cellXML(t, tx.Template().CellAt(ref)))

	err = tx.SetCellText(NewCellRef(0, 3, 0), "ok", DefaultFont)
	assert.True(t, errors.Is(err, ErrCellRewriteFailed))
}

func TestSetCellText_EmptyValue(t *testing.T) {
	tx, err := NewDocxTransformer(templateBytes(t, docxgen.New().Table([]string{"Edit_MI"})))
	require.NoError(t, err)

	ref := NewCellRef(0, 0, 0)
	require.NoError(t, tx.SetCellText(ref, "", DefaultFont))
	assert.Equal(t, "", tx.Template().CellAt(ref).Text())
}

func TestFirstParagraphProps_DropsMarkProps(t *testing.T) {
	doc := etree.NewDocument()
	require.NoError(t, doc.ReadFromString(`<w:tc xmlns:w="`+wordNS+`">`+
		`<w:tcPr/>`+
		`<w:p><w:pPr><w:spacing w:after="0"/><w:rPr><w:b/></w:rPr></w:pPr><w:r><w:t>EDIT</w:t></w:r></w:p>`+
		`</w:tc>`))

	pPr := firstParagraphProps(doc.Root())
	require.NotNil(t, pPr)
	assert.NotNil(t, pPr.SelectElement("w:spacing"))
	assert.Nil(t, pPr.SelectElement("w:rPr"))

	// the source paragraph is not modified
	assert.NotNil(t, doc.Root().FindElement("w:p/w:pPr/w:rPr"))
}

func TestCheckText(t *testing.T) {
	assert.NoError(t, CheckText("Ünïcödé\ttab\nline"))
	assert.Error(t, CheckText("bell\x07"))
	assert.Error(t, CheckText(string([]byte{0xff, 0xfe})))
}

func TestCheckFont(t *testing.T) {
	assert.NoError(t, CheckFont(DefaultFont))
	assert.Error(t, CheckFont(Font{Name: " ", Size: 9}))
	assert.Error(t, CheckFont(Font{Name: "Arial", Size: -1}))
	assert.NoError(t, CheckFont(Font{Name: "Arial", Size: maxFontSize}))
}
