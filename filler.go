package docfill

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"

	"go.uber.org/zap"
)

// Filler runs the scan, match, rewrite and serialize pipeline against one template.
// Every fill loads the template afresh, so a Filler may be reused; it is not
// safe for concurrent use.
type Filler struct {
	opts *Options
}

// NewFiller creates a Filler with the given options.
func NewFiller(opts ...Option) *Filler {
	o := defaultOptions()
	for _, opt := range opts {
		opt(o)
	}
	return &Filler{opts: o}
}

// Fill fills the template and returns the result with Document set on success.
func (f *Filler) Fill(fields FieldMap) (*Result, error) {
	var buf bytes.Buffer
	res, err := f.run(&buf, func() (FieldMap, error) { return fields, nil })
	if err != nil {
		return res, err
	}
	res.Document = buf.Bytes()
	return res, nil
}

// FillJSON parses a JSON object into a FieldMap and fills the template with it.
func (f *Filler) FillJSON(data []byte) (*Result, error) {
	var buf bytes.Buffer
	res, err := f.run(&buf, func() (FieldMap, error) { return ParseFieldMap(data) })
	if err != nil {
		return res, err
	}
	res.Document = buf.Bytes()
	return res, nil
}

// FillWriter fills the template and streams the document to w. Result.Document stays empty.
// When it returns an error, w may already hold a partial package and its content must be discarded.
func (f *Filler) FillWriter(fields FieldMap, w io.Writer) (*Result, error) {
	return f.run(w, func() (FieldMap, error) { return fields, nil })
}

// FillTransformer runs the pipeline on an already loaded document.
func (f *Filler) FillTransformer(tx Transformer, fields FieldMap, w io.Writer) (*Result, error) {
	rep := NewReporter()
	if err := f.apply(tx, fields, w, rep); err != nil {
		return rep.Result(), err
	}
	return rep.Result(), nil
}

func (f *Filler) run(w io.Writer, fields func() (FieldMap, error)) (*Result, error) {
	rep := NewReporter()

	if path := f.opts.templatePath; path != "" && f.opts.templateBytes == nil && f.opts.templateReader == nil {
		if _, err := os.Stat(path); errors.Is(err, fs.ErrNotExist) {
			return rep.Fail(notFoundMessage(path)), fmt.Errorf("%w: %s", ErrTemplateNotFound, path)
		}
	}

	fm, err := fields()
	if err != nil {
		return rep.Fail(fmt.Sprintf("Invalid field map: %v", err)), err
	}

	tx, err := f.openTemplate()
	if err != nil {
		if errors.Is(err, ErrTemplateNotFound) && f.opts.templatePath != "" {
			return rep.Fail(notFoundMessage(f.opts.templatePath)), err
		}
		return rep.Fail(fmt.Sprintf("Failed to read Word document: %v", err)), err
	}

	if err := f.apply(tx, fm, w, rep); err != nil {
		return rep.Result(), err
	}
	return rep.Result(), nil
}

// notFoundMessage names the missing template and the directory relative paths resolve against.
func notFoundMessage(path string) string {
	wd, err := os.Getwd()
	if err != nil {
		return fmt.Sprintf("Word document not found: %s", path)
	}
	return fmt.Sprintf("Word document not found: %s (current working directory: %s)", path, wd)
}

// apply walks the state machine from TEMPLATE_LOADED to DONE.
func (f *Filler) apply(tx Transformer, fields FieldMap, w io.Writer, rep *Reporter) error {
	log := f.opts.logger
	rep.Advance(StageTemplateLoaded)

	scan := Scan(tx.Template())
	for _, m := range scan.Markers {
		rep.MarkerFound(m)
		log.Debug("found editable cell", zap.Stringer("cell", m.Ref), zap.String("marker", m.Text))
	}
	rep.Advance(StageScanned)

	for _, d := range Match(scan.Markers, fields) {
		if d.Action != ActionUpdate {
			rep.Skipped(d)
			log.Debug("skipped cell", zap.Stringer("cell", d.Marker.Ref), zap.Stringer("action", d.Action))
			continue
		}
		f.rewrite(tx, d, rep)
	}
	rep.Advance(StageRewritten)

	if f.opts.preWrite != nil {
		if err := f.opts.preWrite(tx); err != nil {
			rep.Fail(fmt.Sprintf("Pre-write callback failed: %v", err))
			return fmt.Errorf("pre-write callback: %w", err)
		}
	}

	if err := tx.Write(w); err != nil {
		if !errors.Is(err, ErrSerializationFailed) {
			err = fmt.Errorf("%w: %v", ErrSerializationFailed, err)
		}
		rep.Fail(fmt.Sprintf("Failed to generate document bytes: %v", err))
		return err
	}
	rep.Advance(StageSerialized)
	rep.Logf("Generated modified Word document as byte stream")

	rep.Summarize(scan)
	rep.Advance(StageDone)
	log.Debug("fill complete",
		zap.Int("tables", len(scan.Tables)),
		zap.Int("markers", len(scan.Markers)),
		zap.Int("updated", len(rep.Result().Updated)))
	return nil
}

// rewrite applies one UPDATE decision. Failures are logged and swallowed.
func (f *Filler) rewrite(tx Transformer, d Decision, rep *Reporter) {
	ref := d.Marker.Ref
	for _, l := range f.opts.listeners {
		if !l.BeforeRewriteCell(ref, d.Marker.Text, d.Value) {
			rep.Vetoed(d)
			return
		}
	}

	err := tx.SetCellText(ref, d.Value.String(), f.opts.font)
	if err != nil {
		rep.Failed(d, err)
		f.opts.logger.Warn("cell rewrite failed", zap.Stringer("cell", ref), zap.Error(err))
	} else {
		rep.Updated(d, f.opts.font)
		f.opts.logger.Debug("updated cell", zap.Stringer("cell", ref), zap.String("value", d.Value.String()))
	}

	for _, l := range f.opts.listeners {
		l.AfterRewriteCell(ref, d.Marker.Text, d.Value, err)
	}
}

// openTemplate loads the template from bytes, reader, or file path.
func (f *Filler) openTemplate() (*DocxTransformer, error) {
	if f.opts.templateBytes == nil && f.opts.templateReader != nil {
		data, err := io.ReadAll(f.opts.templateReader)
		if err != nil {
			return nil, fmt.Errorf("%w: read template reader: %v", ErrTemplateUnreadable, err)
		}
		f.opts.templateBytes = data
		f.opts.templateReader = nil
	}
	if f.opts.templateBytes != nil {
		return NewDocxTransformer(f.opts.templateBytes)
	}
	if f.opts.templatePath != "" {
		return OpenTemplate(f.opts.templatePath)
	}
	return nil, fmt.Errorf("%w: no template specified: use WithTemplate, WithTemplateBytes or WithTemplateReader", ErrTemplateNotFound)
}
