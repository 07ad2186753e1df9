package docfill

import (
	"fmt"
	"io"
	"os"
)

// FillBytes fills the template at templatePath and returns the result with the
// output document in Result.Document.
func FillBytes(templatePath string, fields FieldMap, opts ...Option) (*Result, error) {
	allOpts := append([]Option{WithTemplate(templatePath)}, opts...)
	return NewFiller(allOpts...).Fill(fields)
}

// FillJSON fills the template at templatePath from a raw JSON object.
func FillJSON(templatePath string, fieldJSON []byte, opts ...Option) (*Result, error) {
	allOpts := append([]Option{WithTemplate(templatePath)}, opts...)
	return NewFiller(allOpts...).FillJSON(fieldJSON)
}

// FillReader fills a template read from r and writes the document to w.
func FillReader(template io.Reader, w io.Writer, fields FieldMap, opts ...Option) (*Result, error) {
	allOpts := append([]Option{WithTemplateReader(template)}, opts...)
	return NewFiller(allOpts...).FillWriter(fields, w)
}

// FillFile fills the template and writes the document to outputPath. The
// output file is removed again when the fill fails.
func FillFile(templatePath, outputPath string, fields FieldMap, opts ...Option) (*Result, error) {
	allOpts := append([]Option{WithTemplate(templatePath)}, opts...)
	res, err := NewFiller(allOpts...).Fill(fields)
	if err != nil {
		return res, err
	}
	if err := os.WriteFile(outputPath, res.Document, 0o644); err != nil {
		os.Remove(outputPath)
		res.Status = StatusError
		res.Stage = StageError
		res.Document = nil
		res.Messages = append(res.Messages, fmt.Sprintf("Failed to write output document: %v", err))
		return res, fmt.Errorf("%w: write output %q: %v", ErrSerializationFailed, outputPath, err)
	}
	return res, nil
}
