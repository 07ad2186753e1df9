package docfill

import (
	"archive/zip"
	"bytes"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"

	"github.com/beevik/etree"
)

// documentPart is the main story of a WordprocessingML package.
const documentPart = "word/document.xml"

// DocxTransformer implements Transformer over a .docx package.
// Only word/document.xml is parsed; every other part is copied verbatim on Write.
type DocxTransformer struct {
	archive *zip.Reader
	doc     *etree.Document
	tmpl    *Template
}

// OpenTemplate reads a .docx file from disk. The file itself is never written.
func OpenTemplate(path string) (*DocxTransformer, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrTemplateNotFound, path)
		}
		return nil, fmt.Errorf("%w: read %q: %v", ErrTemplateUnreadable, path, err)
	}
	tx, err := NewDocxTransformer(data)
	if err != nil {
		return nil, fmt.Errorf("open template %q: %w", path, err)
	}
	return tx, nil
}

// NewDocxTransformer parses a .docx package held in memory.
func NewDocxTransformer(data []byte) (*DocxTransformer, error) {
	archive, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, fmt.Errorf("%w: not a docx package: %v", ErrTemplateUnreadable, err)
	}

	var part *zip.File
	for _, f := range archive.File {
		if f.Name == documentPart {
			part = f
			break
		}
	}
	if part == nil {
		return nil, fmt.Errorf("%w: missing %s", ErrTemplateUnreadable, documentPart)
	}

	rc, err := part.Open()
	if err != nil {
		return nil, fmt.Errorf("%w: open %s: %v", ErrTemplateUnreadable, documentPart, err)
	}
	defer rc.Close()

	doc := etree.NewDocument()
	if _, err := doc.ReadFrom(rc); err != nil {
		return nil, fmt.Errorf("%w: parse %s: %v", ErrTemplateUnreadable, documentPart, err)
	}

	root := doc.Root()
	if root == nil || !isWord(root, "document") {
		return nil, fmt.Errorf("%w: %s has no w:document root", ErrTemplateUnreadable, documentPart)
	}
	var body *etree.Element
	for _, child := range root.ChildElements() {
		if isWord(child, "body") {
			body = child
			break
		}
	}
	if body == nil {
		return nil, fmt.Errorf("%w: %s has no w:body", ErrTemplateUnreadable, documentPart)
	}

	return &DocxTransformer{
		archive: archive,
		doc:     doc,
		tmpl:    buildTemplate(body),
	}, nil
}

// Template returns the indexed table structure.
func (tx *DocxTransformer) Template() *Template {
	return tx.tmpl
}

// Write re-packages the document, replacing word/document.xml with the
// in-memory tree and copying every other part unchanged.
func (tx *DocxTransformer) Write(w io.Writer) error {
	var xmlBuf bytes.Buffer
	if _, err := tx.doc.WriteTo(&xmlBuf); err != nil {
		return fmt.Errorf("%w: encode %s: %v", ErrSerializationFailed, documentPart, err)
	}

	zw := zip.NewWriter(w)
	for _, f := range tx.archive.File {
		if f.Name != documentPart {
			if err := zw.Copy(f); err != nil {
				return fmt.Errorf("%w: copy %s: %v", ErrSerializationFailed, f.Name, err)
			}
			continue
		}
		hdr := &zip.FileHeader{
			Name:     f.Name,
			Method:   zip.Deflate,
			Modified: f.Modified,
		}
		pw, err := zw.CreateHeader(hdr)
		if err != nil {
			return fmt.Errorf("%w: create %s: %v", ErrSerializationFailed, f.Name, err)
		}
		if _, err := pw.Write(xmlBuf.Bytes()); err != nil {
			return fmt.Errorf("%w: write %s: %v", ErrSerializationFailed, f.Name, err)
		}
	}
	if err := zw.Close(); err != nil {
		return fmt.Errorf("%w: finish package: %v", ErrSerializationFailed, err)
	}
	return nil
}

var _ Transformer = (*DocxTransformer)(nil)
