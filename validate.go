package docfill

import "fmt"

// Severity indicates the severity of a validation issue.
type Severity int

const (
	SeverityError   Severity = iota // the cell would fail to rewrite
	SeverityWarning                 // the fill succeeds but probably not as intended
)

// ValidationIssue is a single problem found while checking a field map against a template.
type ValidationIssue struct {
	Severity Severity
	Cell     *CellRef // nil for issues about a key that matches no cell
	Key      string
	Message  string
}

// String formats the issue as "[ERROR] Table 0, Cell (1, 1): message" or "[WARN] key: message".
func (v ValidationIssue) String() string {
	sev := "ERROR"
	if v.Severity == SeverityWarning {
		sev = "WARN"
	}
	where := v.Key
	if v.Cell != nil {
		where = v.Cell.String()
	}
	return fmt.Sprintf("[%s] %s: %s", sev, where, v.Message)
}

// Validate checks fields against the template at templatePath without producing a document.
func Validate(templatePath string, fields FieldMap, opts ...Option) ([]ValidationIssue, error) {
	allOpts := append([]Option{WithTemplate(templatePath)}, opts...)
	filler := NewFiller(allOpts...)
	return filler.Validate(fields)
}

// Validate opens the template and reports keys that look like markers but match
// none, markers left without a value, and values that could not be written.
// A non-nil error means the template could not be loaded.
func (f *Filler) Validate(fields FieldMap) ([]ValidationIssue, error) {
	tx, err := f.openTemplate()
	if err != nil {
		return nil, err
	}
	scan := Scan(tx.Template())

	var issues []ValidationIssue
	if err := CheckFont(f.opts.font); err != nil {
		issues = append(issues, ValidationIssue{
			Severity: SeverityError,
			Message:  fmt.Sprintf("font %s cannot be applied: %v", f.opts.font, err),
		})
	}

	known := make(map[string]bool, len(scan.Markers))
	for _, d := range Match(scan.Markers, fields) {
		known[d.Marker.Text] = true
		ref := d.Marker.Ref
		switch d.Action {
		case ActionSkipUnmatched:
			issues = append(issues, ValidationIssue{
				Severity: SeverityWarning,
				Cell:     &ref,
				Key:      d.Marker.Text,
				Message:  fmt.Sprintf("editable cell %q has no value and keeps its marker text", d.Marker.Text),
			})
		case ActionUpdate:
			if err := CheckText(d.Value.String()); err != nil {
				issues = append(issues, ValidationIssue{
					Severity: SeverityError,
					Cell:     &ref,
					Key:      d.Marker.Text,
					Message:  err.Error(),
				})
			}
		}
	}

	for _, key := range fields.Keys() {
		if known[key] || !IsMarker(key) {
			continue
		}
		issues = append(issues, ValidationIssue{
			Severity: SeverityWarning,
			Key:      key,
			Message:  "key looks like an editable cell but no cell in the template has this exact text",
		})
	}
	return issues, nil
}
