package docfill

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/beevik/etree"
)

// maxFontSize is the largest point size WordprocessingML accepts.
const maxFontSize = 1638

// SetCellText replaces the cell's block content with one paragraph holding text
// in the given font. The replacement paragraph is built detached and swapped in
// only once complete, so a failure leaves the cell untouched.
func (tx *DocxTransformer) SetCellText(ref CellRef, text string, font Font) error {
	cell := tx.tmpl.CellAt(ref)
	if cell == nil {
		return fmt.Errorf("%w: %s: no such cell", ErrCellRewriteFailed, ref)
	}
	p, err := buildParagraph(cell.el, text, font)
	if err != nil {
		return fmt.Errorf("%w: %s: %v", ErrCellRewriteFailed, ref, err)
	}
	commitParagraph(cell.el, p)
	return nil
}

// CheckFont reports whether font can be written into a document.
func CheckFont(font Font) error {
	if strings.TrimSpace(font.Name) == "" {
		return errors.New("font name is required")
	}
	if font.Size <= 0 || font.Size > maxFontSize {
		return fmt.Errorf("font size %vpt out of range (0, %d]", font.Size, maxFontSize)
	}
	return nil
}

// CheckText reports whether text can be stored in a document part.
func CheckText(text string) error {
	if !utf8.ValidString(text) {
		return errors.New("value is not valid UTF-8")
	}
	for _, r := range text {
		if !isXMLChar(r) {
			return fmt.Errorf("value contains character %U not allowed in documents", r)
		}
	}
	return nil
}

func buildParagraph(tc *etree.Element, text string, font Font) (*etree.Element, error) {
	if err := CheckFont(font); err != nil {
		return nil, err
	}
	if err := CheckText(text); err != nil {
		return nil, err
	}

	p := etree.NewElement("w:p")
	if pPr := firstParagraphProps(tc); pPr != nil {
		p.AddChild(pPr)
	}

	r := p.CreateElement("w:r")
	rPr := r.CreateElement("w:rPr")
	fonts := rPr.CreateElement("w:rFonts")
	for _, slot := range []string{"w:ascii", "w:hAnsi", "w:eastAsia", "w:cs"} {
		fonts.CreateAttr(slot, font.Name)
	}
	halfPoints := strconv.Itoa(int(math.Round(font.Size * 2)))
	rPr.CreateElement("w:sz").CreateAttr("w:val", halfPoints)
	rPr.CreateElement("w:szCs").CreateAttr("w:val", halfPoints)

	text = strings.ReplaceAll(text, "\r\n", "\n")
	text = strings.ReplaceAll(text, "\r", "\n")
	for i, line := range strings.Split(text, "\n") {
		if i > 0 {
			r.CreateElement("w:br")
		}
		for j, seg := range strings.Split(line, "\t") {
			if j > 0 {
				r.CreateElement("w:tab")
			}
			if seg == "" && (j > 0 || i > 0) {
				continue
			}
			t := r.CreateElement("w:t")
			t.CreateAttr("xml:space", "preserve")
			t.SetText(seg)
		}
	}
	return p, nil
}

// firstParagraphProps copies the paragraph properties of the cell's first
// paragraph so alignment and spacing survive the rewrite. The paragraph mark's
// run properties are dropped; the new run carries its own.
func firstParagraphProps(tc *etree.Element) *etree.Element {
	for _, child := range tc.ChildElements() {
		if !isWord(child, "p") {
			continue
		}
		for _, pc := range child.ChildElements() {
			if !isWord(pc, "pPr") {
				continue
			}
			cp := pc.Copy()
			for _, el := range cp.ChildElements() {
				if isWord(el, "rPr") {
					cp.RemoveChild(el)
				}
			}
			return cp
		}
		return nil
	}
	return nil
}

// commitParagraph removes everything but the cell properties and appends p.
func commitParagraph(tc, p *etree.Element) {
	children := append([]etree.Token(nil), tc.Child...)
	for _, tok := range children {
		if el, ok := tok.(*etree.Element); ok && isWord(el, "tcPr") {
			continue
		}
		tc.RemoveChild(tok)
	}
	tc.AddChild(p)
}

func isXMLChar(r rune) bool {
	switch {
	case r == 0x9, r == 0xA, r == 0xD:
		return true
	case r >= 0x20 && r <= 0xD7FF:
		return true
	case r >= 0xE000 && r <= 0xFFFD:
		return true
	case r >= 0x10000 && r <= 0x10FFFF:
		return true
	}
	return false
}
